package regio

import (
	"fmt"

	"periph.io/x/host/v3/pmem"
)

// Mem is a Window backed by memory: either a physical register range mapped
// with Map, or a plain slice given to NewMem.
type Mem struct {
	words []uint32
	view  *pmem.View
}

// Map maps size bytes of physical memory starting at base. The process needs
// access to /dev/mem.
func Map(base uint64, size int) (*Mem, error) {
	if size <= 0 || size%4 != 0 {
		return nil, fmt.Errorf("regio: invalid window size %d", size)
	}
	v, err := pmem.Map(base, size)
	if err != nil {
		return nil, fmt.Errorf("regio: failed to map 0x%x: %w", base, err)
	}
	return &Mem{words: v.Uint32(), view: v}, nil
}

// NewMem returns a window over words. Offset 4*i addresses words[i].
func NewMem(words []uint32) *Mem {
	return &Mem{words: words}
}

// ReadUint32 implements Window.
func (m *Mem) ReadUint32(off uint32) uint32 {
	return m.words[off/4]
}

// WriteUint32 implements Window.
func (m *Mem) WriteUint32(off, v uint32) {
	m.words[off/4] = v
}

// Size returns the window size in bytes.
func (m *Mem) Size() int {
	return len(m.words) * 4
}

// Close unmaps a window created by Map. It is a no-op for NewMem windows.
func (m *Mem) Close() error {
	if m.view == nil {
		return nil
	}
	err := m.view.Close()
	m.view = nil
	m.words = nil
	return err
}

func (m *Mem) String() string {
	if m.view != nil {
		return fmt.Sprintf("regio.Mem{0x%x, %d}", m.view.PhysAddr(), m.Size())
	}
	return fmt.Sprintf("regio.Mem{%d}", m.Size())
}
