// Package layout defines the on-disk byte layout of a locfs volume.
//
// All integers are little-endian. Record sizes include the alignment
// padding of the C structures used by the kernel module, so images are
// interchangeable with it.
package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/example/locfs/pkg/fs"
)

const (
	Magic   uint64 = 0x050505
	Version uint64 = 1

	SuperblockSize = 56
	InodeSize      = 288
	DirRecordSize  = 264

	// StringField is the width of a bounded string field. One byte is
	// reserved for the terminator.
	StringField = 255
	MaxNameLen  = StringField - 1

	SuperblockBlock  uint64 = 0
	InodeBitmapBlock uint64 = 1
	DataBitmapBlock  uint64 = 2
	InodeTableStart  uint64 = 3

	DefaultBlockSize         uint64 = 4096
	DefaultInodeCapacity     uint64 = 1024
	DefaultDataBlockCapacity uint64 = 1024
)

// POSIX file type bits.
const (
	ModeTypeMask uint32 = 0170000
	ModeDir      uint32 = 0040000
	ModeRegular  uint32 = 0100000
	ModePermMask uint32 = 0777
)

func putU64(b []byte, start int, u uint64) {
	binary.LittleEndian.PutUint64(b[start:start+8], u)
}

func getU64(b []byte, start int) uint64 {
	return binary.LittleEndian.Uint64(b[start : start+8])
}

func putU32(b []byte, start int, u uint32) {
	binary.LittleEndian.PutUint32(b[start:start+4], u)
}

func getU32(b []byte, start int) uint32 {
	return binary.LittleEndian.Uint32(b[start : start+4])
}

func need(kind string, b []byte, size int) error {
	if len(b) < size {
		return fmt.Errorf("decoding %s: buffer is %d bytes, want %d: %w", kind, len(b), size, fs.ErrIO)
	}
	return nil
}
