////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aquilax/truncate"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/elixxir/local-test-server/logging"
)

// maxLoggedPathLen is the length request paths are truncated to in the access
// log.
const maxLoggedPathLen = 96

// newHandler returns the handler serving root. Files are served verbatim by
// http.FileServer: directories without an index are listed, missing files get
// a 404 and the content type is guessed from the extension.
func newHandler(root string, p Params) http.Handler {
	files := http.FileServer(http.Dir(root))

	var h http.Handler = files
	if p.LogEndpoint != "" {
		mux := http.NewServeMux()
		mux.Handle(p.LogEndpoint, recentLogHandler(p.RecentLog))
		mux.Handle("/", files)
		h = mux
	}
	if p.NoCache {
		h = noCache(h)
	}

	return accessLog(h)
}

// noCache stops the browser from caching anything, so that edits show up on a
// plain reload.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// recentLogHandler serves the recent log as plain text.
func recentLogHandler(rl *logging.RecentLog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed),
				http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(rl.Bytes())
	})
}

// statusRecorder remembers the status code written to the response.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// accessLog logs one line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		jww.INFO.Printf("%s %s %d %s", r.Method, truncate.Truncate(
			fmt.Sprintf("%q", r.URL.Path), maxLoggedPathLen, "...",
			truncate.PositionMiddle), sr.status, time.Since(start))
		jww.TRACE.Printf("Request from %s: %s %s %s",
			r.RemoteAddr, r.Method, r.URL.RequestURI(), r.UserAgent())
	})
}
