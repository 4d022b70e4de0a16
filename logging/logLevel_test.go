////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/require"
)

// Tests that Init rejects thresholds outside of TRACE to FATAL.
func TestInit_InvalidThreshold(t *testing.T) {
	for _, th := range []jww.Threshold{jww.LevelTrace - 1, jww.LevelFatal + 1} {
		if _, err := Init(th, "-"); err == nil {
			t.Errorf("Init did not return an error for invalid threshold %d",
				th)
		}
	}
}

// Tests that Init with a file path appends log output to that file.
func TestInit_LogFile(t *testing.T) {
	defer resetLogging()
	logPath := filepath.Join(t.TempDir(), "server.log")

	closer, err := Init(jww.LevelDebug, logPath)
	require.NoError(t, err)
	defer closer.Close()
	jww.DEBUG.Print("debug line for the log file")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	for _, expected := range []string{
		"Log level set to: DEBUG", "debug line for the log file"} {
		if !strings.Contains(string(data), expected) {
			t.Errorf("Log file missing expected line.\nexpected: %q\n"+
				"received: %q", expected, data)
		}
	}
	require.Equal(t, jww.LevelDebug, jww.GetLogThreshold())
}

// Tests that Init returns an error when the log file cannot be opened.
func TestInit_BadLogFile(t *testing.T) {
	defer resetLogging()
	logPath := filepath.Join(t.TempDir(), "missing", "server.log")

	if _, err := Init(jww.LevelInfo, logPath); err == nil {
		t.Errorf("Init did not return an error for log path %s", logPath)
	}
}

// Tests that Init with an empty path disables output but still feeds
// registered listeners.
func TestInit_Disabled(t *testing.T) {
	defer resetLogging()

	rl, err := NewRecentLog(jww.LevelInfo, 1024)
	require.NoError(t, err)
	id := AddLogListener(rl.Listen)
	defer RemoveLogListener(id)

	closer, err := Init(jww.LevelInfo, "")
	require.NoError(t, err)
	defer closer.Close()
	jww.INFO.Print("still recorded")

	if !strings.Contains(string(rl.Bytes()), "still recorded") {
		t.Errorf("Listener did not receive log with output disabled: %q",
			rl.Bytes())
	}
}

// Tests that closing the Closer returned by Init releases the log file and
// that later log lines are no longer written to it.
func TestInit_Close(t *testing.T) {
	defer resetLogging()
	logPath := filepath.Join(t.TempDir(), "server.log")

	closer, err := Init(jww.LevelInfo, logPath)
	require.NoError(t, err)
	jww.INFO.Print("before close")

	require.NoError(t, closer.Close())
	require.NoError(t, closer.Close())
	jww.INFO.Print("after close")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "before close")
	require.NotContains(t, string(data), "after close")
}

// Tests that the Closer returned for stdout and disabled logging is a no-op.
func TestInit_CloseNoFile(t *testing.T) {
	defer resetLogging()
	for _, logPath := range []string{"-", ""} {
		closer, err := Init(jww.LevelWarn, logPath)
		require.NoError(t, err)
		require.NoError(t, closer.Close())
	}
}

// Tests that the log level line is only printed at DEBUG and below.
func TestInit_LevelLineAtDebug(t *testing.T) {
	defer resetLogging()
	logPath := filepath.Join(t.TempDir(), "server.log")

	closer, err := Init(jww.LevelInfo, logPath)
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.NotContains(t, string(data), "Log level set to")
}

// resetLogging restores the jwalterweatherman defaults after a test.
func resetLogging() {
	jww.SetStdoutOutput(os.Stdout)
	jww.SetLogOutput(io.Discard)
	jww.SetStdoutThreshold(jww.LevelError)
	jww.SetLogThreshold(jww.LevelWarn)
}
