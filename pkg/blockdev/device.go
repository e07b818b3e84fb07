// Package blockdev provides fixed-size block storage for a locfs volume.
package blockdev

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/example/locfs/pkg/fs"
)

// ErrOutOfRange is returned for block numbers past the end of the device.
var ErrOutOfRange = errors.New("block out of range")

// Device reads and writes whole blocks. Buffers passed to ReadBlock and
// WriteBlock must be exactly BlockSize bytes.
type Device interface {
	BlockSize() uint64
	ReadBlock(n uint64, buf []byte) error
	WriteBlock(n uint64, buf []byte) error
	Flush() error
	Close() error
}

func checkBuffer(op string, n uint64, buf []byte, blockSize uint64) error {
	if uint64(len(buf)) != blockSize {
		return &fs.DeviceError{
			Op:    op,
			Block: n,
			Err:   fmt.Errorf("buffer is %d bytes, want %d", len(buf), blockSize),
		}
	}
	return nil
}

// MemDevice is an in-memory device with a fixed number of blocks.
type MemDevice struct {
	mu        sync.RWMutex
	blockSize uint64
	data      []byte
}

func NewMemDevice(blockSize, blocks uint64) *MemDevice {
	return &MemDevice{blockSize: blockSize, data: make([]byte, blockSize*blocks)}
}

func (d *MemDevice) BlockSize() uint64 { return d.blockSize }

// Blocks returns the number of blocks on the device.
func (d *MemDevice) Blocks() uint64 { return uint64(len(d.data)) / d.blockSize }

func (d *MemDevice) ReadBlock(n uint64, buf []byte) error {
	if err := checkBuffer("read", n, buf, d.blockSize); err != nil {
		return err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n >= d.Blocks() {
		return &fs.DeviceError{Op: "read", Block: n, Err: ErrOutOfRange}
	}
	copy(buf, d.data[n*d.blockSize:])
	return nil
}

func (d *MemDevice) WriteBlock(n uint64, buf []byte) error {
	if err := checkBuffer("write", n, buf, d.blockSize); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if n >= d.Blocks() {
		return &fs.DeviceError{Op: "write", Block: n, Err: ErrOutOfRange}
	}
	copy(d.data[n*d.blockSize:(n+1)*d.blockSize], buf)
	return nil
}

func (d *MemDevice) Flush() error { return nil }

func (d *MemDevice) Close() error { return nil }

// Bytes returns the raw device contents. The slice aliases device storage.
func (d *MemDevice) Bytes() []byte { return d.data }

// FileDevice stores blocks in a regular file, typically a disk image.
type FileDevice struct {
	file      *os.File
	blockSize uint64
}

// OpenFile opens an existing image file.
func OpenFile(path string, blockSize uint64) (*FileDevice, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening image `%s`: %w", path, err)
	}
	return &FileDevice{file: file, blockSize: blockSize}, nil
}

// CreateFile creates (or extends) an image file to hold the given number
// of blocks.
func CreateFile(path string, blockSize, blocks uint64) (*FileDevice, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating image `%s`: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat image `%s`: %w", path, err)
	}
	if size := int64(blockSize * blocks); info.Size() < size {
		if err := file.Truncate(size); err != nil {
			file.Close()
			return nil, fmt.Errorf("sizing image `%s` to %d bytes: %w", path, size, err)
		}
	}
	return &FileDevice{file: file, blockSize: blockSize}, nil
}

func (d *FileDevice) BlockSize() uint64 { return d.blockSize }

func (d *FileDevice) ReadBlock(n uint64, buf []byte) error {
	if err := checkBuffer("read", n, buf, d.blockSize); err != nil {
		return err
	}
	if _, err := d.file.ReadAt(buf, int64(n*d.blockSize)); err != nil {
		return &fs.DeviceError{
			Op:    "read",
			Block: n,
			Err:   fmt.Errorf("reading file `%s`: %w", d.file.Name(), err),
		}
	}
	return nil
}

func (d *FileDevice) WriteBlock(n uint64, buf []byte) error {
	if err := checkBuffer("write", n, buf, d.blockSize); err != nil {
		return err
	}
	if _, err := d.file.WriteAt(buf, int64(n*d.blockSize)); err != nil {
		return &fs.DeviceError{
			Op:    "write",
			Block: n,
			Err:   fmt.Errorf("writing file `%s`: %w", d.file.Name(), err),
		}
	}
	return nil
}

func (d *FileDevice) Flush() error {
	if err := d.file.Sync(); err != nil {
		return &fs.DeviceError{Op: "flush", Err: err}
	}
	return nil
}

func (d *FileDevice) Close() error {
	return d.file.Close()
}
