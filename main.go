////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package main is the local test server for the LOS app. It serves the
// project directory over HTTP so that the app can be tested in a browser
// without CORS errors and opens the test page.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"gitlab.com/elixxir/local-test-server/logging"
	"gitlab.com/elixxir/local-test-server/server"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitMissingDir = 2
	exitPortInUse  = 3
	exitBind       = 4
)

func main() {
	// Ctrl+C and SIGTERM stop the server
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newCmd(ctx).Execute()
	stop()
	os.Exit(exitCode(err))
}

// newCmd returns the root command. The server stops when ctx is done.
func newCmd(ctx context.Context) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use: "localserver",
		Short: "Starts a local HTTP server in the project directory and " +
			"opens the test app in the default browser.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, v, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintf(c.ErrOrStderr(), "%v\n\n%s", err, c.UsageString())
		return err
	})

	if err := registerFlags(cmd.Flags(), v); err != nil {
		// Only fails on programming errors
		jww.FATAL.Panicf("Failed to register flags: %+v", err)
	}

	return cmd
}

// run starts the server and reports the outcome on the console. After an error
// it waits for Enter unless --no-pause is set.
func run(ctx context.Context, v *viper.Viper, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "LOS App - Local Testing Server")
	fmt.Fprintln(out, "==================================")

	err := startServer(ctx, v, out)
	if err == nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Server stopped by user")
		fmt.Fprintln(out, "Goodbye!")
		return nil
	}

	reportError(out, err)
	if !v.GetBool(noPauseFlag) {
		pause(ctx, in, out)
	}
	return err
}

// startServer loads the config, sets up logging and runs the server until ctx
// is done.
func startServer(ctx context.Context, v *viper.Viper, out io.Writer) (err error) {
	p, err := loadConfig(v)
	if err != nil {
		return err
	}

	threshold := jww.Threshold(v.GetInt(logLevelFlag))
	logCloser, err := logging.Init(threshold, v.GetString(logFlag))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			jww.DEBUG.Printf("Server error: %+v", err)
		}
		if closeErr := logCloser.Close(); closeErr != nil {
			fmt.Fprintf(out, "Failed to close log: %v\n", closeErr)
		}
	}()

	if p.LogEndpoint != "" {
		rl, err := logging.NewRecentLog(threshold, v.GetInt(logBufferFlag))
		if err != nil {
			return err
		}
		id := logging.AddLogListener(rl.Listen)
		defer logging.RemoveLogListener(id)
		p.RecentLog = rl
	}

	return server.Run(ctx, p, out)
}

// reportError prints a diagnostic for the error.
func reportError(out io.Writer, err error) {
	var (
		mde *server.MissingDirError
		piu *server.PortInUseError
	)

	switch {
	case errors.As(err, &mde):
		fmt.Fprintf(out, "Error: '%s' directory not found!\n", mde.Dir)
		fmt.Fprintln(out, "   Please run this from your project root directory")
	case errors.As(err, &piu):
		fmt.Fprintf(out, "Port %d is already in use!\n", piu.Port)
		fmt.Fprintf(out, "   Another server might be running on port %d\n",
			piu.Port)
		fmt.Fprintln(out, "   Try closing other applications or use a "+
			"different port with --port")
	default:
		fmt.Fprintf(out, "Error starting server: %v\n", err)
	}
}

// pause blocks until a line is read from in, in is exhausted or ctx is done.
// The read is left running when ctx ends first.
func pause(ctx context.Context, in io.Reader, out io.Writer) {
	fmt.Fprint(out, "Press Enter to exit...")

	lineRead := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(in).ReadString('\n')
		close(lineRead)
	}()

	select {
	case <-lineRead:
	case <-ctx.Done():
	}
	fmt.Fprintln(out)
}

// exitCode returns the process exit code for the error returned by the
// command.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, server.ErrMissingDir):
		return exitMissingDir
	case errors.Is(err, server.ErrPortInUse):
		return exitPortInUse
	case errors.Is(err, server.ErrBind):
		return exitBind
	default:
		return exitFailure
	}
}
