package fs

import (
	"context"
)

// FileSystem defines the interface the FUSE and admin layers use to
// interact with a mounted volume. Files are addressed by inode number.
type FileSystem interface {
	// GetAttr retrieves attributes for the given inode.
	GetAttr(ctx context.Context, ino uint64) (FileInfo, error)

	// Lookup finds a file by name within a directory. Lookup is not
	// filtered by location.
	Lookup(ctx context.Context, dir uint64, name string) (FileInfo, error)

	// Read reads data from a file at the specified offset.
	// Returns the data read, whether the end of file was reached, and any error.
	Read(ctx context.Context, ino uint64, offset int64, length int) ([]byte, bool, error)

	// Write writes data to a file at the specified offset.
	// Writes are synchronous. Returns the number of bytes written.
	Write(ctx context.Context, ino uint64, offset int64, data []byte) (int, error)

	// Create creates a new regular file in the specified directory, tagged
	// with the current location.
	Create(ctx context.Context, dir uint64, name string, attr FileAttr) (FileInfo, error)

	// Mkdir creates a new directory, tagged with the current location.
	Mkdir(ctx context.Context, dir uint64, name string, attr FileAttr) (FileInfo, error)

	// ReadDir lists the entries of a directory whose location tag equals
	// the current location, in insertion order.
	ReadDir(ctx context.Context, dir uint64) ([]DirEntry, error)

	// StatFS retrieves file system statistics.
	StatFS(ctx context.Context) (FSStat, error)
}
