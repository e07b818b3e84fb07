// Package file reads and writes the single data block of a regular file.
package file

import (
	"fmt"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/inode"
	"github.com/example/locfs/pkg/layout"
)

type DataPath struct {
	dev    blockdev.Device
	inodes *inode.Store
}

func NewDataPath(dev blockdev.Device, inodes *inode.Store) *DataPath {
	return &DataPath{dev: dev, inodes: inodes}
}

func size(f *layout.Inode) (uint64, error) {
	rf, ok := f.Content.(layout.RegularFile)
	if !ok {
		return 0, fmt.Errorf("inode `%d`: %w", f.Ino, fs.ErrIsDir)
	}
	return rf.Size, nil
}

// Read returns up to max bytes starting at offset. Reading at or past the
// end of the file returns no data and no error.
func (p *DataPath) Read(f *layout.Inode, offset uint64, max int) ([]byte, error) {
	sz, err := size(f)
	if err != nil {
		return nil, err
	}
	blockSize := p.dev.BlockSize()
	if sz > blockSize {
		return nil, fmt.Errorf(
			"inode `%d` size %d exceeds its %d-byte block: %w",
			f.Ino,
			sz,
			blockSize,
			fs.ErrFormatMismatch,
		)
	}
	if offset >= sz || max <= 0 {
		return nil, nil
	}
	buf := make([]byte, blockSize)
	if err := p.dev.ReadBlock(f.DataBlock, buf); err != nil {
		return nil, fmt.Errorf("reading data of inode `%d`: %w", f.Ino, err)
	}
	end := min(sz, offset+uint64(max))
	out := make([]byte, end-offset)
	copy(out, buf[offset:end])
	return out, nil
}

// Write stores data at offset, growing the file size if the write ends
// past it. A write that would not fit in one block fails with
// fs.ErrFileTooLarge before anything is modified.
func (p *DataPath) Write(f *layout.Inode, offset uint64, data []byte) (int, error) {
	sz, err := size(f)
	if err != nil {
		return 0, err
	}
	blockSize := p.dev.BlockSize()
	if offset > blockSize || uint64(len(data)) > blockSize-offset {
		return 0, fmt.Errorf(
			"writing %d bytes at offset %d of inode `%d` with %d-byte blocks: %w",
			len(data),
			offset,
			f.Ino,
			blockSize,
			fs.ErrFileTooLarge,
		)
	}
	if len(data) == 0 {
		return 0, nil
	}

	buf := make([]byte, blockSize)
	if err := p.dev.ReadBlock(f.DataBlock, buf); err != nil {
		return 0, fmt.Errorf("reading data of inode `%d`: %w", f.Ino, err)
	}
	copy(buf[offset:], data)
	if err := p.dev.WriteBlock(f.DataBlock, buf); err != nil {
		return 0, fmt.Errorf("writing data of inode `%d`: %w", f.Ino, err)
	}
	if err := p.dev.Flush(); err != nil {
		return 0, fmt.Errorf("flushing data of inode `%d`: %w", f.Ino, err)
	}

	if end := offset + uint64(len(data)); end > sz {
		f.Content = layout.RegularFile{Size: end}
		if err := p.inodes.Put(f); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}
