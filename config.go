////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"strings"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gitlab.com/elixxir/local-test-server/logging"
	"gitlab.com/elixxir/local-test-server/server"
)

// envPrefix is prepended to every flag name to get its environment variable
// (e.g., --no-browser is LOCAL_SERVER_NO_BROWSER).
const envPrefix = "LOCAL_SERVER"

// Flag names. They double as config file keys.
const (
	rootFlag        = "root"
	hostFlag        = "host"
	portFlag        = "port"
	pathFlag        = "path"
	requireFlag     = "require"
	noBrowserFlag   = "no-browser"
	noCacheFlag     = "no-cache"
	noPauseFlag     = "no-pause"
	logEndpointFlag = "log-endpoint"
	logBufferFlag   = "log-buffer"
	logFlag         = "log"
	logLevelFlag    = "logLevel"
	configFlag      = "config"
)

// registerFlags defines the command line flags and binds them to v.
func registerFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	def := server.DefaultParams()

	flags.StringP(rootFlag, "r", "",
		"Directory to serve. Defaults to the working directory.")
	flags.String(hostFlag, def.Host,
		"Host to listen on. By default, the server listens on all interfaces.")
	flags.IntP(portFlag, "p", def.Port, "Port to listen on.")
	flags.String(pathFlag, def.TestPath, "Path of the test page to open.")
	flags.String(requireFlag, def.RequiredDir,
		"Directory that must exist in the served directory. Set to empty "+
			"(\"\") to skip the check.")
	flags.Bool(noBrowserFlag, !def.OpenBrowser,
		"Do not open the test page in a browser.")
	flags.Bool(noCacheFlag, def.NoCache,
		"Send headers that stop the browser from caching served files.")
	flags.Bool(noPauseFlag, false,
		"Exit on error without waiting for Enter to be pressed.")
	flags.String(logEndpointFlag, def.LogEndpoint,
		"Path that serves the most recent server logs (e.g., /_server/log). "+
			"Disabled by default.")
	flags.Int(logBufferFlag, logging.DefaultRecentLogSize,
		"Size, in bytes, of the log kept for the log endpoint.")
	flags.StringP(logFlag, "l", "-",
		"Log output path. By default, logs are printed to stdout. "+
			"To disable logging, set this to empty (\"\").")
	flags.IntP(logLevelFlag, "v", int(jww.LevelInfo),
		"Verbosity level of logging. 0 = TRACE, 1 = DEBUG, 2 = INFO, "+
			"3 = WARN, 4 = ERROR, 5 = CRITICAL, 6 = FATAL")
	flags.String(configFlag, "",
		"Optional config file (YAML, TOML or JSON) keyed on the flag names.")

	return errors.Wrap(v.BindPFlags(flags), "could not bind flags")
}

// loadConfig layers flags over environment variables over the config file and
// returns the launcher parameters.
func loadConfig(v *viper.Viper) (server.Params, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath := v.GetString(configFlag); configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return server.Params{}, errors.Wrapf(
				err, "could not read config file %s", configPath)
		}
		jww.DEBUG.Printf("Loaded config file %s", v.ConfigFileUsed())
	}

	p := server.DefaultParams()
	p.Root = v.GetString(rootFlag)
	p.Host = v.GetString(hostFlag)
	p.Port = v.GetInt(portFlag)
	p.TestPath = v.GetString(pathFlag)
	p.RequiredDir = v.GetString(requireFlag)
	p.OpenBrowser = !v.GetBool(noBrowserFlag)
	p.NoCache = v.GetBool(noCacheFlag)
	p.LogEndpoint = v.GetString(logEndpointFlag)

	return p, nil
}
