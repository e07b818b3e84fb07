// Package superblock validates and maintains block 0 of a locfs volume.
package superblock

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
)

// Space selects one of the two allocation tables.
type Space int

const (
	InodeSpace Space = iota
	DataBlockSpace
)

func (s Space) String() string {
	if s == InodeSpace {
		return "inode"
	}
	return "data block"
}

// Manager owns the in-memory copy of the superblock.
type Manager struct {
	dev      blockdev.Device
	geometry layout.Geometry

	mu sync.Mutex
	sb layout.Superblock
}

// Open reads block 0 and checks the magic number and block size before
// anything else on the device is trusted.
func Open(dev blockdev.Device) (*Manager, error) {
	buf := make([]byte, dev.BlockSize())
	if err := dev.ReadBlock(layout.SuperblockBlock, buf); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	sb, err := layout.DecodeSuperblock(buf)
	if err != nil {
		return nil, err
	}
	if sb.Magic != layout.Magic {
		return nil, fmt.Errorf("magic %#x, want %#x: %w", sb.Magic, layout.Magic, fs.ErrFormatMismatch)
	}
	if sb.BlockSize != dev.BlockSize() {
		return nil, fmt.Errorf(
			"superblock declares %d-byte blocks, device has %d: %w",
			sb.BlockSize,
			dev.BlockSize(),
			fs.ErrBlockSizeMismatch,
		)
	}
	return New(dev, sb)
}

// New wraps a superblock that has not been read from dev, as when
// formatting.
func New(dev blockdev.Device, sb layout.Superblock) (*Manager, error) {
	geometry, err := layout.NewGeometry(sb)
	if err != nil {
		return nil, err
	}
	return &Manager{dev: dev, geometry: geometry, sb: sb}, nil
}

func (m *Manager) Geometry() layout.Geometry { return m.geometry }

// Superblock returns a copy of the current superblock.
func (m *Manager) Superblock() layout.Superblock {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sb
}

func (m *Manager) Capacity(space Space) uint64 {
	if space == InodeSpace {
		return m.sb.InodeCapacity
	}
	return m.sb.DataBlockCapacity
}

func (m *Manager) Used(space Space) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.counter(space)
}

// IncUsed records one more claimed slot. The caller persists.
func (m *Manager) IncUsed(space Space) {
	m.mu.Lock()
	*m.counter(space)++
	m.mu.Unlock()
}

func (m *Manager) counter(space Space) *uint64 {
	if space == InodeSpace {
		return &m.sb.InodeCount
	}
	return &m.sb.DataBlockCount
}

// Persist writes block 0 in full and flushes the device.
func (m *Manager) Persist() error {
	buf := make([]byte, m.dev.BlockSize())
	m.mu.Lock()
	m.sb.Encode(buf)
	m.mu.Unlock()
	if err := m.dev.WriteBlock(layout.SuperblockBlock, buf); err != nil {
		return fmt.Errorf("persisting superblock: %w", err)
	}
	if err := m.dev.Flush(); err != nil {
		return fmt.Errorf("flushing superblock: %w", err)
	}
	return nil
}

// Reconcile adopts the bitmap population count for a space whose stored
// used count disagrees. It reports whether anything changed; the caller
// persists.
func (m *Manager) Reconcile(space Space, bitsSet uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := m.counter(space)
	if *count == bitsSet {
		return false
	}
	log.WithFields(log.Fields{
		"space":  space.String(),
		"stored": *count,
		"bitmap": bitsSet,
	}).Warn("Superblock used count disagrees with bitmap; using bitmap")
	*count = bitsSet
	return true
}

// Stat summarizes capacities and free slots.
func (m *Manager) Stat() fs.FSStat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fs.FSStat{
		BlockSize:     uint32(m.sb.BlockSize),
		TotalBlocks:   m.sb.DataBlockCapacity,
		FreeBlocks:    m.sb.DataBlockCapacity - min(m.sb.DataBlockCount, m.sb.DataBlockCapacity),
		TotalFiles:    m.sb.InodeCapacity,
		FreeFiles:     m.sb.InodeCapacity - min(m.sb.InodeCount, m.sb.InodeCapacity),
		NameMaxLength: layout.MaxNameLen,
	}
}
