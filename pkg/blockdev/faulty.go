package blockdev

import (
	"errors"
	"sync"

	"github.com/example/locfs/pkg/fs"
)

// ErrInjected is the cause of failures produced by FaultyDevice.
var ErrInjected = errors.New("injected device failure")

// FaultyDevice wraps a Device and fails reads or writes of chosen blocks.
type FaultyDevice struct {
	Device

	mu         sync.Mutex
	readFails  map[uint64]bool
	writeFails map[uint64]bool
}

func NewFaultyDevice(inner Device) *FaultyDevice {
	return &FaultyDevice{
		Device:     inner,
		readFails:  map[uint64]bool{},
		writeFails: map[uint64]bool{},
	}
}

// FailReads makes every read of block n fail until Heal is called.
func (d *FaultyDevice) FailReads(n uint64) {
	d.mu.Lock()
	d.readFails[n] = true
	d.mu.Unlock()
}

// FailWrites makes every write of block n fail until Heal is called.
func (d *FaultyDevice) FailWrites(n uint64) {
	d.mu.Lock()
	d.writeFails[n] = true
	d.mu.Unlock()
}

func (d *FaultyDevice) Heal() {
	d.mu.Lock()
	d.readFails = map[uint64]bool{}
	d.writeFails = map[uint64]bool{}
	d.mu.Unlock()
}

func (d *FaultyDevice) ReadBlock(n uint64, buf []byte) error {
	d.mu.Lock()
	fail := d.readFails[n]
	d.mu.Unlock()
	if fail {
		return &fs.DeviceError{Op: "read", Block: n, Err: ErrInjected}
	}
	return d.Device.ReadBlock(n, buf)
}

func (d *FaultyDevice) WriteBlock(n uint64, buf []byte) error {
	d.mu.Lock()
	fail := d.writeFails[n]
	d.mu.Unlock()
	if fail {
		return &fs.DeviceError{Op: "write", Block: n, Err: ErrInjected}
	}
	return d.Device.WriteBlock(n, buf)
}
