////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package server

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds returned by the launcher. Use errors.Is to match them.
var (
	// ErrMissingDir is matched by a MissingDirError.
	ErrMissingDir = errors.New("required directory not found")

	// ErrPortInUse is matched by a PortInUseError.
	ErrPortInUse = errors.New("port already in use")

	// ErrBind is matched by a BindError.
	ErrBind = errors.New("could not bind server socket")
)

// MissingDirError is returned when the required directory does not exist under
// the served root. Nothing has been bound when it is returned.
type MissingDirError struct {
	Root string
	Dir  string
}

func (e *MissingDirError) Error() string {
	return fmt.Sprintf("'%s' directory not found in %s", e.Dir, e.Root)
}

func (e *MissingDirError) Is(target error) bool {
	return target == ErrMissingDir
}

// PortInUseError is returned when the listen port is held by another process.
type PortInUseError struct {
	Port int
	Err  error
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use", e.Port)
}

func (e *PortInUseError) Is(target error) bool {
	return target == ErrPortInUse
}

func (e *PortInUseError) Unwrap() error {
	return e.Err
}

// BindError is returned for any other OS error while binding the listener.
type BindError struct {
	Address string
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("could not listen on %s: %v", e.Address, e.Err)
}

func (e *BindError) Is(target error) bool {
	return target == ErrBind
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// bindError classifies an error returned by net.Listen.
func bindError(address string, port int, err error) error {
	if isAddrInUse(err) {
		return &PortInUseError{Port: port, Err: err}
	}
	return &BindError{Address: address, Err: err}
}
