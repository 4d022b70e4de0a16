////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package server launches a local static file server for manual browser
// testing of the web app and opens the test page in the default browser.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// Server serves a directory over HTTP. It is created with New, bound with
// Listen and run with Serve.
type Server struct {
	params     Params
	root       string
	listener   net.Listener
	httpServer *http.Server
}

// New returns a Server for the parameters. It resolves the root to an absolute
// path and checks that the required directory exists under it. If it does
// not, a MissingDirError is returned and nothing is bound.
func New(p Params) (*Server, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	root, err := resolveRoot(p.Root)
	if err != nil {
		return nil, err
	}

	if p.RequiredDir != "" {
		info, err := os.Stat(filepath.Join(root, p.RequiredDir))
		if err != nil || !info.IsDir() {
			return nil, &MissingDirError{Root: root, Dir: p.RequiredDir}
		}
	}

	if p.Opener == nil {
		p.Opener = DefaultOpener
	}

	return &Server{params: p, root: root}, nil
}

// resolveRoot returns the absolute path of root. An empty root is the working
// directory.
func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "could not get working directory")
		}
		return wd, nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, "could not resolve directory %s", root)
	}
	return abs, nil
}

// Listen binds the server socket. Returns a PortInUseError if the port is held
// by another process and a BindError for any other failure.
func (s *Server) Listen() error {
	if s.listener != nil {
		return errors.Errorf("server is already listening on %s",
			s.listener.Addr())
	}

	address := s.params.Address()
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return bindError(address, s.params.Port, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler: newHandler(s.root, s.params),
	}

	jww.DEBUG.Printf("Listening on %s, serving %s", ln.Addr(), s.root)
	return nil
}

// Serve serves HTTP requests until the context is done, then shuts the server
// down and releases the port. Returns nil on a clean stop.
func (s *Server) Serve(ctx context.Context) error {
	if s.httpServer == nil {
		return errors.New("cannot serve before Listen is called")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		jww.INFO.Printf("Stopping server on %s", s.listener.Addr())
		s.shutdown()
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server stopped unexpectedly")
	}
}

// shutdown gracefully stops the HTTP server, forcing it closed after the
// shutdown timeout.
func (s *Server) shutdown() {
	if s.params.ShutdownTimeout == 0 {
		if err := s.httpServer.Close(); err != nil {
			jww.WARN.Printf("Failed to close server: %+v", err)
		}
		return
	}

	ctx, cancel :=
		context.WithTimeout(context.Background(), s.params.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		jww.WARN.Printf("Graceful shutdown failed, closing connections: %+v",
			err)
		if err = s.httpServer.Close(); err != nil {
			jww.WARN.Printf("Failed to close server: %+v", err)
		}
	}
}

// Close releases the socket of a server that was bound but never served.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}

	err := s.httpServer.Close()
	if lnErr := s.listener.Close(); lnErr != nil &&
		!errors.Is(lnErr, net.ErrClosed) && err == nil {
		err = lnErr
	}
	return err
}

// Root returns the absolute path of the served directory.
func (s *Server) Root() string {
	return s.root
}

// Port returns the bound port, or the configured port before Listen.
func (s *Server) Port() int {
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.params.Port
}

// BaseURL returns the URL of the server root on localhost.
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

// URL returns the URL of the test page.
func (s *Server) URL() string {
	return s.BaseURL() + s.params.TestPath
}

// Run starts the launcher: it checks the root, binds the port, opens the test
// page in a browser and serves until the context is done. Progress is printed
// to out.
//
// The returned error matches ErrMissingDir, ErrPortInUse or ErrBind for the
// startup failures. A nil error means the server was stopped through the
// context.
func Run(ctx context.Context, p Params, out io.Writer) error {
	root, err := resolveRoot(p.Root)
	if err != nil {
		return err
	}
	p.Root = root
	fmt.Fprintf(out, "Starting local server in: %s\n", root)

	s, err := New(p)
	if err != nil {
		return err
	}
	if err = s.Listen(); err != nil {
		return err
	}

	fmt.Fprintln(out, "Local server started successfully!")
	fmt.Fprintf(out, "Server running at: %s\n", s.BaseURL())
	fmt.Fprintf(out, "Serving files from: %s\n", s.Root())
	fmt.Fprintln(out)
	if p.OpenBrowser {
		fmt.Fprintln(out, "Opening test app in browser...")
	}
	fmt.Fprintln(out, "Keep this terminal open while testing")
	fmt.Fprintln(out, "Press Ctrl+C to stop the server")
	fmt.Fprintln(out)

	if p.OpenBrowser {
		openInBackground(s.params.Opener, s.URL())
		fmt.Fprintf(out, "Test app opened at: %s\n", s.URL())
	} else {
		fmt.Fprintf(out, "Test app available at: %s\n", s.URL())
	}
	fmt.Fprintln(out)

	return s.Serve(ctx)
}
