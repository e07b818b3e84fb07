// Package fuse exposes a locfs volume to the kernel through bazil.org/fuse.
package fuse

import (
	"context"
	"sync"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/fs"
)

// LocFS implements the FUSE filesystem interface
type LocFS struct {
	fileSystem fs.FileSystem

	mu    sync.Mutex
	nodes map[uint64]fusefs.Node

	// server is set once serving starts; used for cache invalidation
	server *fusefs.Server
}

var _ fusefs.FS = (*LocFS)(nil)

// NewLocFS wraps a file system for serving over FUSE
func NewLocFS(fileSystem fs.FileSystem) *LocFS {
	return &LocFS{
		fileSystem: fileSystem,
		nodes:      make(map[uint64]fusefs.Node),
	}
}

// Root returns the root directory of the filesystem
func (l *LocFS) Root() (fusefs.Node, error) {
	return l.node(fs.RootIno, fs.FileTypeDirectory), nil
}

// node returns the single node kept for ino, so the kernel and the
// server agree on node identity across lookups.
func (l *LocFS) node(ino uint64, typ fs.FileType) fusefs.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n, ok := l.nodes[ino]; ok {
		return n
	}
	var n fusefs.Node
	if typ == fs.FileTypeDirectory {
		n = &Dir{fs: l, ino: ino}
	} else {
		n = &File{fs: l, ino: ino}
	}
	l.nodes[ino] = n
	return n
}

// Follow drops cached directory contents each time a new location
// arrives on changes, until ctx is done.
func (l *LocFS) Follow(ctx context.Context, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case loc := <-changes:
			l.invalidateDirs(loc)
		}
	}
}

func (l *LocFS) invalidateDirs(loc string) {
	l.mu.Lock()
	server := l.server
	var dirs []fusefs.Node
	for _, n := range l.nodes {
		if _, ok := n.(*Dir); ok {
			dirs = append(dirs, n)
		}
	}
	l.mu.Unlock()
	if server == nil {
		return
	}

	for _, d := range dirs {
		err := server.InvalidateNodeData(d)
		if err != nil && err != fuse.ErrNotCached {
			log.WithError(err).WithField("location", loc).Warn("Failed to invalidate directory")
		}
	}
	log.WithFields(log.Fields{
		"location":    loc,
		"directories": len(dirs),
	}).Debug("Invalidated directory caches")
}

func (l *LocFS) setServer(s *fusefs.Server) {
	l.mu.Lock()
	l.server = s
	l.mu.Unlock()
}

// fillAttr copies a FileInfo into a kernel attribute. Inode numbers are
// shifted by one because the kernel treats 0 as unset.
func fillAttr(info fs.FileInfo, attr *fuse.Attr) {
	attr.Inode = info.Ino + 1
	attr.Size = uint64(info.Size)
	attr.Blocks = info.Blocks * uint64(info.BlockSize) / 512
	attr.BlockSize = info.BlockSize
	attr.Nlink = info.Nlink
	attr.Mode = fileModeOf(info)
}
