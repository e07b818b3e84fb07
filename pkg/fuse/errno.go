package fuse

import (
	"errors"
	"os"
	"syscall"

	"bazil.org/fuse"
	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/fs"
)

var errnoTable = []struct {
	err   error
	errno fuse.Errno
}{
	{fs.ErrNotExist, fuse.ENOENT},
	{fs.ErrInvalidInode, fuse.ENOENT},
	{fs.ErrExist, fuse.Errno(syscall.EEXIST)},
	{fs.ErrNoSpace, fuse.Errno(syscall.ENOSPC)},
	{fs.ErrNameTooLong, fuse.Errno(syscall.ENAMETOOLONG)},
	{fs.ErrInvalidName, fuse.Errno(syscall.EINVAL)},
	{fs.ErrInvalidArgument, fuse.Errno(syscall.EINVAL)},
	{fs.ErrFileTooLarge, fuse.Errno(syscall.EFBIG)},
	{fs.ErrIsDir, fuse.Errno(syscall.EISDIR)},
	{fs.ErrNotDir, fuse.Errno(syscall.ENOTDIR)},
}

// toErrno maps a file system error to the errno reported to the kernel.
// Anything unrecognized is EIO.
func toErrno(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, e := range errnoTable {
		if errors.Is(err, e.err) {
			return e.errno
		}
	}
	log.WithError(err).WithField("op", op).Error("FUSE request failed")
	return fuse.EIO
}

func fileModeOf(info fs.FileInfo) os.FileMode {
	mode := os.FileMode(info.Mode & fs.ModeMask)
	if info.Type == fs.FileTypeDirectory {
		mode |= os.ModeDir
	}
	return mode
}

func direntType(t fs.FileType) fuse.DirentType {
	if t == fs.FileTypeDirectory {
		return fuse.DT_Dir
	}
	return fuse.DT_File
}
