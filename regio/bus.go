package regio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/mmr"
)

// Bus is a Window reached through a connection exposing memory mapped
// registers with a 16-bit address and 32-bit little-endian values.
//
// Window methods cannot return errors, so the first I/O failure is kept and
// reported by Err. Reads after a failure return 0 and writes are dropped until
// ClearErr is called.
type Bus struct {
	dev mmr.Dev16

	mu  sync.Mutex
	err error
}

// NewBus returns a Bus over c. c must be half-duplex.
func NewBus(c conn.Conn) (*Bus, error) {
	if c == nil {
		return nil, errors.New("regio: nil connection")
	}
	if c.Duplex() != conn.Half {
		return nil, errors.New("regio: connection must be half-duplex")
	}
	return &Bus{dev: mmr.Dev16{Conn: c, Order: binary.LittleEndian}}, nil
}

// ReadUint32 implements Window.
func (b *Bus) ReadUint32(off uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0
	}
	if off > 0xffff {
		b.err = fmt.Errorf("regio: offset 0x%x out of 16-bit range", off)
		return 0
	}
	v, err := b.dev.ReadUint32(uint16(off))
	if err != nil {
		b.err = fmt.Errorf("regio: failed to read 0x%04x: %w", off, err)
		return 0
	}
	return v
}

// WriteUint32 implements Window.
func (b *Bus) WriteUint32(off, v uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return
	}
	if off > 0xffff {
		b.err = fmt.Errorf("regio: offset 0x%x out of 16-bit range", off)
		return
	}
	if err := b.dev.WriteUint32(uint16(off), v); err != nil {
		b.err = fmt.Errorf("regio: failed to write 0x%04x: %w", off, err)
	}
}

// Err returns the first I/O error seen since the last ClearErr.
func (b *Bus) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// ClearErr resets the sticky error.
func (b *Bus) ClearErr() {
	b.mu.Lock()
	b.err = nil
	b.mu.Unlock()
}

func (b *Bus) String() string {
	return "regio.Bus{" + b.dev.String() + "}"
}
