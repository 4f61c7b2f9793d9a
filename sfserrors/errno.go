// Package sfserrors defines the sentinel error taxonomy shared by every SFS
// package: disk I/O, on-disk corruption, exhaustion, and precondition
// violations.
package sfserrors

import "fmt"

// Error is a sentinel error with a fixed identity, comparable with
// errors.Is. WithMessage enriches it with a message and keeps that
// identity; Wrap records an underlying cause instead, and the result
// matches that cause under errors.Is, not the sentinel.
type Error string

const ErrIOFailed = Error("input/output error")
const ErrInvalidFileSystem = Error("wrong medium type")
const ErrFileSystemCorrupted = Error("structure needs cleaning")
const ErrNotFound = Error("no such inode")
const ErrNoSpaceOnDevice = Error("no space left on device")
const ErrAlreadyInProgress = Error("operation already in progress")
const ErrBusy = Error("device or resource busy")
const ErrArgumentOutOfRange = Error("numerical argument out of domain")
const ErrInvalidArgument = Error("invalid argument")
const ErrClosed = Error("disk is closed")

func (e Error) Error() string {
	return string(e)
}

func (e Error) WithMessage(message string) DriverError {
	return customError{message: fmt.Sprintf("%s: %s", e.Error(), message), cause: e}
}

func (e Error) Wrap(err error) DriverError {
	if err == nil {
		return customError{message: e.Error(), cause: e}
	}
	return customError{
		message: fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		cause:   err,
	}
}
