package client

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/locfs/pkg/fs"
)

// Common error types
var (
	ErrNoServer = errors.New("no server connection")
	ErrTimeout  = errors.New("operation timed out")
)

// RPCError represents an error in an admin operation
type RPCError struct {
	// Operation that failed
	Op string

	// gRPC status code
	Code codes.Code

	// Error message
	Message string

	// Underlying error
	Err error
}

// Error implements the error interface
func (e *RPCError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s (%s) - %v", e.Op, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s (%s)", e.Op, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *RPCError) Unwrap() error {
	return e.Err
}

// NewRPCError creates a new admin error
func NewRPCError(op string, code codes.Code, message string, err error) *RPCError {
	return &RPCError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StatusToError converts a gRPC error into an RPCError whose chain carries
// the matching filesystem sentinel
func StatusToError(op string, err error) error {
	if err == nil {
		return nil
	}
	s, ok := status.FromError(err)
	if !ok {
		return NewRPCError(op, codes.Unknown, err.Error(), err)
	}

	var cause error
	switch s.Code() {
	case codes.NotFound:
		cause = fs.ErrNotExist
	case codes.AlreadyExists:
		cause = fs.ErrExist
	case codes.ResourceExhausted:
		cause = fs.ErrNoSpace
	case codes.InvalidArgument:
		cause = fs.ErrInvalidName
	case codes.FailedPrecondition:
		cause = fs.ErrNotDir
	case codes.Internal:
		cause = fs.ErrIO
	case codes.Unavailable:
		cause = ErrNoServer
	case codes.DeadlineExceeded:
		cause = ErrTimeout
	default:
		cause = err
	}
	return NewRPCError(op, s.Code(), s.Message(), cause)
}
