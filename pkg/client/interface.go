// Package client implements the locfs admin client
package client

import (
	"context"

	"github.com/example/locfs/pkg/fs"
)

// LocationClient defines the interface for admin operations
type LocationClient interface {
	// GetLocation returns the location new files are tagged with
	GetLocation(ctx context.Context) (string, error)

	// SetLocation replaces the current location
	SetLocation(ctx context.Context, location string) error

	// StatFS retrieves file system statistics
	StatFS(ctx context.Context) (fs.FSStat, error)

	// ReadDir lists a directory as seen from the current location
	ReadDir(ctx context.Context, dir uint64) ([]fs.DirEntry, error)

	// Close closes the client connection
	Close() error
}
