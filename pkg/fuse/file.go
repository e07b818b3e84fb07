package fuse

import (
	"context"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

// File represents a regular file. It is its own handle; all I/O goes
// straight to the volume.
type File struct {
	fs  *LocFS
	ino uint64
}

var (
	_ fusefs.Node          = (*File)(nil)
	_ fusefs.NodeOpener    = (*File)(nil)
	_ fusefs.HandleReader  = (*File)(nil)
	_ fusefs.HandleWriter  = (*File)(nil)
	_ fusefs.NodeFsyncer   = (*File)(nil)
	_ fusefs.HandleFlusher = (*File)(nil)
)

// Attr sets the attributes of the file
func (f *File) Attr(ctx context.Context, attr *fuse.Attr) error {
	info, err := f.fs.fileSystem.GetAttr(ctx, f.ino)
	if err != nil {
		return toErrno("getattr", err)
	}
	fillAttr(info, attr)
	return nil
}

func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	resp.Flags |= fuse.OpenDirectIO
	return f, nil
}

// Read reads up to req.Size bytes at req.Offset
func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, _, err := f.fs.fileSystem.Read(ctx, f.ino, req.Offset, req.Size)
	if err != nil {
		return toErrno("read", err)
	}
	resp.Data = data
	return nil
}

// Write writes req.Data at req.Offset. Writes past the single data
// block fail with EFBIG.
func (f *File) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	n, err := f.fs.fileSystem.Write(ctx, f.ino, req.Offset, req.Data)
	resp.Size = n
	return toErrno("write", err)
}

// Flush is a no-op; writes are synchronous.
func (f *File) Flush(ctx context.Context, req *fuse.FlushRequest) error { return nil }

func (f *File) Fsync(ctx context.Context, req *fuse.FsyncRequest) error { return nil }
