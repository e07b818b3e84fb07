// Package rpc maps filesystem results onto the admin gRPC protocol
package rpc

import (
	"context"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/locfs/pkg/fs"
)

// MapErrorToCode converts a Go error to a gRPC status code
func MapErrorToCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}

	// Errors that already carry a status
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Code()
	}

	// Map filesystem errors to status codes
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalidInode) {
		return codes.NotFound
	} else if errors.Is(err, fs.ErrExist) {
		return codes.AlreadyExists
	} else if errors.Is(err, fs.ErrNoSpace) || errors.Is(err, fs.ErrFileTooLarge) {
		return codes.ResourceExhausted
	} else if errors.Is(err, fs.ErrInvalidName) || errors.Is(err, fs.ErrNameTooLong) ||
		errors.Is(err, fs.ErrInvalidArgument) {
		return codes.InvalidArgument
	} else if errors.Is(err, fs.ErrIsDir) || errors.Is(err, fs.ErrNotDir) ||
		errors.Is(err, fs.ErrFormatMismatch) || errors.Is(err, fs.ErrInvalidFileType) {
		return codes.FailedPrecondition
	} else if errors.Is(err, fs.ErrIO) {
		return codes.Internal
	}

	// Map standard Go errors
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	} else if errors.Is(err, context.Canceled) {
		return codes.Canceled
	} else if errors.Is(err, os.ErrNotExist) {
		return codes.NotFound
	}

	// Default for unrecognized errors
	LogUnknownError(err)
	return codes.Internal
}

// ToStatus wraps err in a gRPC status error, keeping its message.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(MapErrorToCode(err), err.Error())
}

// LogUnknownError logs detailed information about unrecognized errors
func LogUnknownError(err error) {
	log.Warnf("Unknown error type: %T, message: %v", err, err)
}

// LogRequest logs information about a received admin request
func LogRequest(op string, reqID string, clientAddr string) {
	log.WithFields(log.Fields{
		"op":     op,
		"id":     reqID,
		"client": clientAddr,
	}).Info("Admin request")
}

// LogResponse logs information about an admin response
func LogResponse(op string, reqID string, code codes.Code, duration string) {
	log.WithFields(log.Fields{
		"op":       op,
		"id":       reqID,
		"status":   code.String(),
		"duration": duration,
	}).Info("Admin response")
}

// LogError logs an error with its context
func LogError(op string, reqID string, err error) {
	log.WithFields(log.Fields{
		"op": op,
		"id": reqID,
	}).WithError(err).Error("Admin error")
}
