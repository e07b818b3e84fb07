package volume

import (
	"context"
	"fmt"

	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
)

func inodeName(ino uint64) string {
	return fmt.Sprintf("inode %d", ino)
}

func (v *Volume) fileInfo(inode *layout.Inode) fs.FileInfo {
	info := fs.FileInfo{
		Ino:       inode.Ino,
		Type:      inode.Type(),
		Mode:      fs.FileMode(inode.Perm()) & fs.ModeMask,
		Nlink:     1,
		BlockSize: uint32(v.geometry.BlockSize),
		Blocks:    1,
		Location:  inode.Location.String(),
	}
	switch c := inode.Content.(type) {
	case layout.Directory:
		info.Size = int64(c.ChildCount)
		info.Nlink = 2
	case layout.RegularFile:
		info.Size = int64(c.Size)
	}
	return info
}

// GetAttr implements fs.FileSystem.
func (v *Volume) GetAttr(ctx context.Context, ino uint64) (fs.FileInfo, error) {
	inode, err := v.inodes.Get(ino)
	if err != nil {
		return fs.FileInfo{}, fs.NewError("getattr", inodeName(ino), err)
	}
	return v.fileInfo(&inode), nil
}

// Lookup implements fs.FileSystem.
func (v *Volume) Lookup(ctx context.Context, dir uint64, name string) (fs.FileInfo, error) {
	mu := v.lockInode(dir)
	mu.Lock()
	parent, err := v.inodes.Get(dir)
	var ino uint64
	if err == nil {
		ino, err = v.dirs.Lookup(&parent, name)
	}
	mu.Unlock()
	if err != nil {
		return fs.FileInfo{}, fs.NewError("lookup", name, err)
	}

	child, err := v.inodes.Get(ino)
	if err != nil {
		return fs.FileInfo{}, fs.NewError("lookup", name, err)
	}
	return v.fileInfo(&child), nil
}

// Read implements fs.FileSystem.
func (v *Volume) Read(ctx context.Context, ino uint64, offset int64, length int) ([]byte, bool, error) {
	if offset < 0 {
		return nil, false, fs.NewError("read", inodeName(ino), fs.ErrInvalidArgument)
	}
	mu := v.lockInode(ino)
	mu.Lock()
	defer mu.Unlock()

	f, err := v.inodes.Get(ino)
	if err != nil {
		return nil, false, fs.NewError("read", inodeName(ino), err)
	}
	data, err := v.data.Read(&f, uint64(offset), length)
	if err != nil {
		return nil, false, fs.NewError("read", inodeName(ino), err)
	}
	size := f.Content.(layout.RegularFile).Size
	return data, uint64(offset)+uint64(len(data)) >= size, nil
}

// Write implements fs.FileSystem.
func (v *Volume) Write(ctx context.Context, ino uint64, offset int64, data []byte) (int, error) {
	if offset < 0 {
		return 0, fs.NewError("write", inodeName(ino), fs.ErrInvalidArgument)
	}
	mu := v.lockInode(ino)
	mu.Lock()
	defer mu.Unlock()

	f, err := v.inodes.Get(ino)
	if err != nil {
		return 0, fs.NewError("write", inodeName(ino), err)
	}
	n, err := v.data.Write(&f, uint64(offset), data)
	if err != nil {
		return n, fs.NewError("write", inodeName(ino), err)
	}
	return n, nil
}

// Create implements fs.FileSystem.
func (v *Volume) Create(ctx context.Context, dir uint64, name string, attr fs.FileAttr) (fs.FileInfo, error) {
	mode := attr.Mode & fs.ModeMask
	if mode == 0 {
		mode = fs.DefaultFileMode
	}
	child, err := v.createEntry(dir, name, uint32(mode), layout.RegularFile{})
	if err != nil {
		return fs.FileInfo{}, fs.NewError("create", name, err)
	}
	return v.fileInfo(&child), nil
}

// Mkdir implements fs.FileSystem.
func (v *Volume) Mkdir(ctx context.Context, dir uint64, name string, attr fs.FileAttr) (fs.FileInfo, error) {
	mode := attr.Mode & fs.ModeMask
	if mode == 0 {
		mode = fs.DefaultDirMode
	}
	child, err := v.createEntry(dir, name, uint32(mode), layout.Directory{})
	if err != nil {
		return fs.FileInfo{}, fs.NewError("mkdir", name, err)
	}
	return v.fileInfo(&child), nil
}

// ReadDir implements fs.FileSystem. Only entries tagged with the current
// location are returned.
func (v *Volume) ReadDir(ctx context.Context, dir uint64) ([]fs.DirEntry, error) {
	loc := v.location.Current()
	mu := v.lockInode(dir)
	mu.Lock()
	defer mu.Unlock()

	parent, err := v.inodes.Get(dir)
	if err != nil {
		return nil, fs.NewError("readdir", inodeName(dir), err)
	}
	entries, err := v.dirs.List(&parent, loc)
	if err != nil {
		return nil, fs.NewError("readdir", inodeName(dir), err)
	}
	out := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		out[i] = fs.DirEntry{Name: e.Name, Ino: e.Ino, Type: e.Type}
	}
	return out, nil
}

// Listing is a directory record with its child's tag, regardless of the
// current location.
type Listing struct {
	fs.DirEntry
	Location string
}

// ListAll returns every named record of dir with its location tag.
func (v *Volume) ListAll(ctx context.Context, dir uint64) ([]Listing, error) {
	mu := v.lockInode(dir)
	mu.Lock()
	defer mu.Unlock()

	parent, err := v.inodes.Get(dir)
	if err != nil {
		return nil, fs.NewError("list", inodeName(dir), err)
	}
	records, err := v.dirs.Records(&parent)
	if err != nil {
		return nil, fs.NewError("list", inodeName(dir), err)
	}
	var out []Listing
	for i := range records {
		name := records[i].Name.String()
		if name == "" {
			continue
		}
		child, err := v.inodes.Get(records[i].Ino)
		if err != nil {
			return nil, fs.NewError("list", name, err)
		}
		out = append(out, Listing{
			DirEntry: fs.DirEntry{Name: name, Ino: child.Ino, Type: child.Type()},
			Location: child.Location.String(),
		})
	}
	return out, nil
}

// StatFS implements fs.FileSystem.
func (v *Volume) StatFS(ctx context.Context) (fs.FSStat, error) {
	return v.sb.Stat(), nil
}
