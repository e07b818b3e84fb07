// pkg/fs/errors.go
package fs

import (
	"errors"
	"fmt"
)

// Common filesystem errors that map to FUSE errnos and gRPC status codes
var (
	ErrNotExist          = errors.New("file does not exist")
	ErrExist             = errors.New("file already exists")
	ErrIO                = errors.New("input/output error")
	ErrIsDir             = errors.New("is a directory")
	ErrNotDir            = errors.New("not a directory")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNameTooLong       = errors.New("name too long")
	ErrNoSpace           = errors.New("no space left on device")
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidInode      = errors.New("inode number out of range")
	ErrInvalidFileType   = errors.New("unsupported file type")
	ErrFormatMismatch    = errors.New("not a locfs volume")
	ErrBlockSizeMismatch = fmt.Errorf("%w: block size mismatch", ErrFormatMismatch)
)

// FSError represents a filesystem error with additional context.
type FSError struct {
	Op   string
	Name string
	Err  error
}

// Error implements the error interface.
func (e *FSError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *FSError) Unwrap() error {
	return e.Err
}

// NewError creates a new FSError.
func NewError(op, name string, err error) error {
	return &FSError{
		Op:   op,
		Name: name,
		Err:  err,
	}
}

// DeviceError reports a failed block transfer. It matches ErrIO.
type DeviceError struct {
	Op    string
	Block uint64
	Err   error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s block %d: %v", e.Op, e.Block, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

func (e *DeviceError) Is(target error) bool { return target == ErrIO }
