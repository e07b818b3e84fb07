package fuse

import (
	"context"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/example/locfs/pkg/fs"
)

// Dir represents a directory in the filesystem
type Dir struct {
	fs  *LocFS
	ino uint64
}

var (
	_ fusefs.Node               = (*Dir)(nil)
	_ fusefs.NodeStringLookuper = (*Dir)(nil)
	_ fusefs.HandleReadDirAller = (*Dir)(nil)
	_ fusefs.NodeCreater        = (*Dir)(nil)
	_ fusefs.NodeMkdirer        = (*Dir)(nil)
)

// Attr sets the attributes of the directory
func (d *Dir) Attr(ctx context.Context, attr *fuse.Attr) error {
	info, err := d.fs.fileSystem.GetAttr(ctx, d.ino)
	if err != nil {
		return toErrno("getattr", err)
	}
	fillAttr(info, attr)
	return nil
}

// Lookup looks up a specific entry in the directory. Entries tagged with
// another location are still found by name.
func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	info, err := d.fs.fileSystem.Lookup(ctx, d.ino, name)
	if err != nil {
		return nil, toErrno("lookup", err)
	}
	return d.fs.node(info.Ino, info.Type), nil
}

// ReadDirAll returns the entries tagged with the current location
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	entries, err := d.fs.fileSystem.ReadDir(ctx, d.ino)
	if err != nil {
		return nil, toErrno("readdir", err)
	}
	dirents := make([]fuse.Dirent, 0, len(entries))
	for _, e := range entries {
		dirents = append(dirents, fuse.Dirent{
			Inode: e.Ino + 1,
			Type:  direntType(e.Type),
			Name:  e.Name,
		})
	}
	return dirents, nil
}

// Create creates a regular file and opens it
func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fusefs.Node, fusefs.Handle, error) {
	info, err := d.fs.fileSystem.Create(ctx, d.ino, req.Name, fs.FileAttr{Mode: fs.FileMode(req.Mode.Perm())})
	if err != nil {
		return nil, nil, toErrno("create", err)
	}
	fillAttr(info, &resp.Attr)
	n := d.fs.node(info.Ino, info.Type)
	return n, n.(*File), nil
}

// Mkdir creates a subdirectory
func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fusefs.Node, error) {
	info, err := d.fs.fileSystem.Mkdir(ctx, d.ino, req.Name, fs.FileAttr{Mode: fs.FileMode(req.Mode.Perm())})
	if err != nil {
		return nil, toErrno("mkdir", err)
	}
	return d.fs.node(info.Ino, info.Type), nil
}
