////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package server

import (
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"gitlab.com/elixxir/local-test-server/logging"
)

// Default launcher values.
const (
	DefaultPort            = 8000
	DefaultRequiredDir     = "src"
	DefaultTestPath        = "/test-app-local.html"
	DefaultShutdownTimeout = 5 * time.Second
)

// Params contains everything the launcher needs to start. The zero value is
// not usable; start from DefaultParams.
type Params struct {
	// Root is the directory served verbatim. An empty Root is the process
	// working directory.
	Root string

	// RequiredDir is a subdirectory of Root that must exist before the server
	// is started. Empty disables the check.
	RequiredDir string

	// Host is the listen host. Empty listens on all interfaces.
	Host string

	// Port is the listen port. Zero picks a free port.
	Port int

	// TestPath is the URL path opened in the browser.
	TestPath string

	// OpenBrowser enables opening TestPath in the default browser.
	OpenBrowser bool

	// Opener is used to open the browser. If nil, the OS default browser is
	// used.
	Opener Opener

	// NoCache adds headers that stop the browser from caching served files.
	NoCache bool

	// LogEndpoint, when set, is a URL path that serves RecentLog.
	LogEndpoint string

	// RecentLog is the buffer served at LogEndpoint.
	RecentLog *logging.RecentLog

	// ShutdownTimeout bounds the graceful shutdown after the context is done.
	ShutdownTimeout time.Duration
}

// DefaultParams returns the launcher defaults: serve the working directory on
// port 8000 of all interfaces, require a src directory and open
// /test-app-local.html in the browser.
func DefaultParams() Params {
	return Params{
		Root:            "",
		RequiredDir:     DefaultRequiredDir,
		Host:            "",
		Port:            DefaultPort,
		TestPath:        DefaultTestPath,
		OpenBrowser:     true,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port number: %d", p.Port)
	}
	if !strings.HasPrefix(p.TestPath, "/") {
		return errors.Errorf("test path %q must start with /", p.TestPath)
	}
	if p.LogEndpoint != "" {
		if !strings.HasPrefix(p.LogEndpoint, "/") {
			return errors.Errorf(
				"log endpoint %q must start with /", p.LogEndpoint)
		} else if p.RecentLog == nil {
			return errors.Errorf(
				"log endpoint %q set without a recent log", p.LogEndpoint)
		}
	}
	if p.RequiredDir != "" && filepath.IsAbs(p.RequiredDir) {
		return errors.Errorf(
			"required directory %q must be relative to the root",
			p.RequiredDir)
	}
	if p.ShutdownTimeout < 0 {
		return errors.Errorf(
			"shutdown timeout must not be negative: %s", p.ShutdownTimeout)
	}

	return nil
}

// Address returns the listen address.
func (p Params) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}
