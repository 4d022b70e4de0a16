////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package server

import (
	"testing"
	"time"

	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/require"

	"gitlab.com/elixxir/local-test-server/logging"
)

// Tests that DefaultParams returns the documented launcher defaults.
func TestDefaultParams(t *testing.T) {
	expected := Params{
		RequiredDir:     "src",
		Port:            8000,
		TestPath:        "/test-app-local.html",
		OpenBrowser:     true,
		ShutdownTimeout: 5 * time.Second,
	}

	p := DefaultParams()
	require.Equal(t, expected, p)
	require.NoError(t, p.Validate())
	require.Equal(t, ":8000", p.Address())
}

// Tests that Params.Validate rejects unusable parameters.
func TestParams_Validate(t *testing.T) {
	rl, err := logging.NewRecentLog(jww.LevelInfo, 16)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		modify    func(p *Params)
		expectErr bool
	}{
		{"defaults", func(*Params) {}, false},
		{"any free port", func(p *Params) { p.Port = 0 }, false},
		{"max port", func(p *Params) { p.Port = 65535 }, false},
		{"negative port", func(p *Params) { p.Port = -1 }, true},
		{"port too large", func(p *Params) { p.Port = 65536 }, true},
		{"relative test path", func(p *Params) { p.TestPath = "a.html" }, true},
		{"log endpoint", func(p *Params) {
			p.LogEndpoint = "/_log"
			p.RecentLog = rl
		}, false},
		{"relative log endpoint", func(p *Params) {
			p.LogEndpoint = "_log"
			p.RecentLog = rl
		}, true},
		{"log endpoint without log", func(p *Params) {
			p.LogEndpoint = "/_log"
		}, true},
		{"no required dir", func(p *Params) { p.RequiredDir = "" }, false},
		{"absolute required dir", func(p *Params) {
			p.RequiredDir = t.TempDir()
		}, true},
		{"negative shutdown timeout", func(p *Params) {
			p.ShutdownTimeout = -time.Second
		}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.modify(&p)
			err := p.Validate()
			if tc.expectErr && err == nil {
				t.Error("Expected an error but received none.")
			} else if !tc.expectErr && err != nil {
				t.Errorf("Unexpected error: %+v", err)
			}
		})
	}
}

// Tests that Params.Address joins the host and port.
func TestParams_Address(t *testing.T) {
	p := DefaultParams()
	p.Host = "127.0.0.1"
	p.Port = 9090
	require.Equal(t, "127.0.0.1:9090", p.Address())

	p.Host = "::1"
	require.Equal(t, "[::1]:9090", p.Address())
}
