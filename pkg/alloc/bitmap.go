// Package alloc hands out inode and data-block slots from the bitmap
// blocks of a volume.
package alloc

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
	"github.com/example/locfs/pkg/superblock"
)

const bitsPerByte = 8

// Bitmap is one allocation table. Bit i lives in byte i/8 at mask
// 1<<(i%8); a set bit is an allocated slot. Callers serialize access with
// the lock they pass to Allocate and Claim.
type Bitmap struct {
	dev   blockdev.Device
	sb    *superblock.Manager
	space superblock.Space
	block uint64
	bytes []byte
}

// BlockFor returns the bitmap block of a space.
func BlockFor(space superblock.Space) uint64 {
	if space == superblock.InodeSpace {
		return layout.InodeBitmapBlock
	}
	return layout.DataBitmapBlock
}

// Load reads the bitmap of a space from the device.
func Load(dev blockdev.Device, sb *superblock.Manager, space superblock.Space) (*Bitmap, error) {
	bm := &Bitmap{
		dev:   dev,
		sb:    sb,
		space: space,
		block: BlockFor(space),
		bytes: make([]byte, dev.BlockSize()),
	}
	if err := dev.ReadBlock(bm.block, bm.bytes); err != nil {
		return nil, fmt.Errorf("reading %s bitmap: %w", space, err)
	}
	return bm, nil
}

func (bm *Bitmap) Space() superblock.Space { return bm.space }

func (bm *Bitmap) capacity() uint64 { return bm.sb.Capacity(bm.space) }

// IsSet reports whether slot i is allocated.
func (bm *Bitmap) IsSet(i uint64) bool {
	return bm.bytes[i/bitsPerByte]&(1<<(i%bitsPerByte)) != 0
}

func (bm *Bitmap) set(i uint64) {
	bm.bytes[i/bitsPerByte] |= 1 << (i % bitsPerByte)
}

// firstZero returns the lowest free slot below capacity.
func (bm *Bitmap) firstZero() (uint64, bool) {
	capacity := bm.capacity()
	for i, byt := range bm.bytes {
		if byt == 0xff {
			continue
		}
		for bit := uint64(0); bit < bitsPerByte; bit++ {
			slot := uint64(i)*bitsPerByte + bit
			if slot >= capacity {
				return 0, false
			}
			if byt&(1<<bit) == 0 {
				return slot, true
			}
		}
	}
	return 0, false
}

// Count returns the number of allocated slots below capacity.
func (bm *Bitmap) Count() uint64 {
	capacity := bm.capacity()
	var n uint64
	for i, byt := range bm.bytes {
		base := uint64(i) * bitsPerByte
		if base >= capacity {
			break
		}
		if rest := capacity - base; rest < bitsPerByte {
			byt &= byte(1<<rest) - 1
		}
		n += uint64(bits.OnesCount8(byt))
	}
	return n
}

func (bm *Bitmap) persist() error {
	if err := bm.dev.WriteBlock(bm.block, bm.bytes); err != nil {
		return fmt.Errorf("persisting %s bitmap: %w", bm.space, err)
	}
	return nil
}

// Allocate claims the lowest free slot.
func (bm *Bitmap) Allocate(lock sync.Locker) (uint64, error) {
	slots, err := Claim(lock, bm)
	if err != nil {
		return 0, err
	}
	return slots[0], nil
}

// Claim takes one slot from each bitmap as a unit. Each bitmap may appear
// once; a repeat fails with fs.ErrInvalidArgument. If any bitmap is full
// it fails with fs.ErrNoSpace before any bit changes. Otherwise each slot
// is marked, counted in the superblock and its bitmap block written,
// followed by the superblock.
func Claim(lock sync.Locker, bitmaps ...*Bitmap) ([]uint64, error) {
	lock.Lock()
	defer lock.Unlock()

	for i, bm := range bitmaps {
		for _, other := range bitmaps[:i] {
			if other == bm {
				return nil, fmt.Errorf("claiming %s twice in one unit: %w", bm.space, fs.ErrInvalidArgument)
			}
		}
	}

	slots := make([]uint64, len(bitmaps))
	for i, bm := range bitmaps {
		slot, ok := bm.firstZero()
		if !ok {
			return nil, fmt.Errorf("allocating %s: %w", bm.space, fs.ErrNoSpace)
		}
		slots[i] = slot
	}

	var managers []*superblock.Manager
	for i, bm := range bitmaps {
		bm.set(slots[i])
		bm.sb.IncUsed(bm.space)
		if err := bm.persist(); err != nil {
			return nil, err
		}
		if !containsManager(managers, bm.sb) {
			managers = append(managers, bm.sb)
		}
	}
	for _, m := range managers {
		if err := m.Persist(); err != nil {
			return nil, err
		}
	}
	return slots, nil
}

func containsManager(ms []*superblock.Manager, m *superblock.Manager) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
