////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build unix

package server

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// isAddrInUse reports whether err was caused by the listen address already
// being bound.
func isAddrInUse(err error) bool {
	return errors.Is(err, unix.EADDRINUSE)
}
