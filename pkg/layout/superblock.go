package layout

import (
	"fmt"

	"github.com/example/locfs/pkg/fs"
)

// Superblock is the record stored at the start of block 0.
type Superblock struct {
	Version           uint64
	Magic             uint64
	BlockSize         uint64
	InodeCapacity     uint64
	InodeCount        uint64
	DataBlockCapacity uint64
	DataBlockCount    uint64
}

// Encode writes the superblock into the first SuperblockSize bytes of b.
func (sb *Superblock) Encode(b []byte) {
	putU64(b, 0, sb.Version)
	putU64(b, 8, sb.Magic)
	putU64(b, 16, sb.BlockSize)
	putU64(b, 24, sb.InodeCapacity)
	putU64(b, 32, sb.InodeCount)
	putU64(b, 40, sb.DataBlockCapacity)
	putU64(b, 48, sb.DataBlockCount)
}

func DecodeSuperblock(b []byte) (Superblock, error) {
	if err := need("superblock", b, SuperblockSize); err != nil {
		return Superblock{}, err
	}
	return Superblock{
		Version:           getU64(b, 0),
		Magic:             getU64(b, 8),
		BlockSize:         getU64(b, 16),
		InodeCapacity:     getU64(b, 24),
		InodeCount:        getU64(b, 32),
		DataBlockCapacity: getU64(b, 40),
		DataBlockCount:    getU64(b, 48),
	}, nil
}

// Geometry holds the positions derived from a superblock.
type Geometry struct {
	BlockSize         uint64
	InodeCapacity     uint64
	DataBlockCapacity uint64
	InodesPerBlock    uint64
	InodeTableBlocks  uint64
	DataStart         uint64
	DirCapacity       uint64
}

// NewGeometry derives the layout of a volume. It fails when the block size
// cannot hold one inode or directory record, or when a capacity does not
// fit in its bitmap block.
func NewGeometry(sb Superblock) (Geometry, error) {
	if sb.BlockSize < InodeSize || sb.BlockSize < DirRecordSize || sb.BlockSize < SuperblockSize {
		return Geometry{}, fmt.Errorf(
			"block size %d cannot hold a %d-byte inode record: %w",
			sb.BlockSize,
			InodeSize,
			fs.ErrFormatMismatch,
		)
	}
	bits := sb.BlockSize * 8
	if sb.InodeCapacity == 0 || sb.InodeCapacity > bits {
		return Geometry{}, fmt.Errorf(
			"inode capacity %d outside 1..%d: %w",
			sb.InodeCapacity,
			bits,
			fs.ErrFormatMismatch,
		)
	}
	if sb.DataBlockCapacity == 0 || sb.DataBlockCapacity > bits {
		return Geometry{}, fmt.Errorf(
			"data block capacity %d outside 1..%d: %w",
			sb.DataBlockCapacity,
			bits,
			fs.ErrFormatMismatch,
		)
	}

	perBlock := sb.BlockSize / InodeSize
	tableBlocks := (sb.InodeCapacity + perBlock - 1) / perBlock
	return Geometry{
		BlockSize:         sb.BlockSize,
		InodeCapacity:     sb.InodeCapacity,
		DataBlockCapacity: sb.DataBlockCapacity,
		InodesPerBlock:    perBlock,
		InodeTableBlocks:  tableBlocks,
		DataStart:         InodeTableStart + tableBlocks + 1,
		DirCapacity:       sb.BlockSize / DirRecordSize,
	}, nil
}

// TotalBlocks is the device size, in blocks, the volume requires.
func (g Geometry) TotalBlocks() uint64 {
	return g.DataStart + g.DataBlockCapacity
}

// Locate returns the block and byte offset of inode n.
func (g Geometry) Locate(n uint64) (block, offset uint64) {
	return InodeTableStart + n/g.InodesPerBlock, (n % g.InodesPerBlock) * InodeSize
}

// DataBlock maps a data-bitmap slot to its absolute block number.
func (g Geometry) DataBlock(slot uint64) uint64 {
	return g.DataStart + slot
}
