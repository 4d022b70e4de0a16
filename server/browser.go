////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package server

import (
	"io"

	"github.com/pkg/browser"
	jww "github.com/spf13/jwalterweatherman"
)

// Opener opens a URL in a browser.
type Opener func(url string) error

func init() {
	// The browser launcher writes to the terminal the server prints to
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// DefaultOpener opens the URL in the OS default browser.
func DefaultOpener(url string) error {
	return browser.OpenURL(url)
}

// openInBackground opens the URL without waiting for the browser. Failure is
// logged and otherwise ignored. The returned channel is closed once the opener
// has returned.
func openInBackground(open Opener, url string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := open(url); err != nil {
			jww.WARN.Printf("Could not open %s in a browser: %+v", url, err)
			return
		}
		jww.DEBUG.Printf("Opened %s in a browser", url)
	}()
	return done
}
