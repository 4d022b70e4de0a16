////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package logging

import (
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"io"
	"log"
	"os"
	"sync"
)

// Init enables JWW logging at the given threshold to the given log path.
//
// Log path options:
//
//	"-"  - Logs are printed to stdout (default).
//	""   - Logging is disabled.
//	path - Logs are appended to the file at path and stdout is silenced.
//
// Log level options:
//
//	TRACE    - 0
//	DEBUG    - 1
//	INFO     - 2
//	WARN     - 3
//	ERROR    - 4
//	CRITICAL - 5
//	FATAL    - 6
//
// The returned io.Closer releases the log file, if one was opened, and stops
// further writes to it. Returns an error if the threshold is invalid or the log
// file cannot be opened.
func Init(threshold jww.Threshold, logPath string) (io.Closer, error) {
	if threshold < jww.LevelTrace || threshold > jww.LevelFatal {
		return nil, errors.Errorf(
			"log level is not valid: log level: %d", threshold)
	}

	closer := io.Closer(closerFunc(func() error { return nil }))
	if logPath == "" {
		// Silence everything; listeners still receive their own thresholds
		jww.SetStdoutOutput(io.Discard)
		jww.SetLogOutput(io.Discard)
		return closer, nil
	} else if logPath != "-" {
		logOutput, err :=
			os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open log file %s", logPath)
		}

		// Disable stdout output
		jww.SetStdoutOutput(io.Discard)
		jww.SetLogOutput(logOutput)
		closer = &logFile{f: logOutput}
	} else {
		jww.SetStdoutOutput(os.Stdout)
	}

	// Display microseconds if the threshold is set to TRACE or DEBUG
	if threshold == jww.LevelTrace || threshold == jww.LevelDebug {
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		jww.SetFlags(log.LstdFlags)
	}

	jww.SetStdoutThreshold(threshold)
	jww.SetLogThreshold(threshold)
	jww.DEBUG.Printf("Log level set to: %s", threshold)

	return closer, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// logFile is the log file set as the jww log output by Init.
type logFile struct {
	f    *os.File
	once sync.Once
	err  error
}

// Close detaches the file from jww and closes it. Later calls return the
// result of the first.
func (lf *logFile) Close() error {
	lf.once.Do(func() {
		jww.SetLogOutput(io.Discard)
		lf.err = errors.Wrap(lf.f.Close(), "could not close log file")
	})
	return lf.err
}
