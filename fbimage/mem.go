package fbimage

import (
	"fmt"
	"image"

	"periph.io/x/host/v3/pmem"
)

// Mem is an image living in physical memory, where the controller can scan
// it out.
type Mem struct {
	*ARGB8888
	mem pmem.Mem
}

// Map maps an image with bounds r onto the physical memory at base, usually
// a region reserved for the display. The process needs access to /dev/mem.
func Map(base uint64, r image.Rectangle) (*Mem, error) {
	img := New(r)
	v, err := pmem.Map(base, len(img.Pix))
	if err != nil {
		return nil, fmt.Errorf("fbimage: failed to map 0x%x: %w", base, err)
	}
	return wrap(img, v), nil
}

// Alloc allocates a physically contiguous image with bounds r. It suits
// small buffers such as cursors; large allocations usually fail.
func Alloc(r image.Rectangle) (*Mem, error) {
	img := New(r)
	size := (len(img.Pix) + 4095) &^ 4095
	m, err := pmem.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("fbimage: failed to allocate %d bytes: %w", size, err)
	}
	return wrap(img, m), nil
}

func wrap(img *ARGB8888, m pmem.Mem) *Mem {
	img.Pix = m.Bytes()[:len(img.Pix)]
	return &Mem{ARGB8888: img, mem: m}
}

// PhysAddr returns the physical address of the first pixel.
func (m *Mem) PhysAddr() uint64 {
	return m.mem.PhysAddr()
}

// Close releases the memory. The image must not be used afterwards.
func (m *Mem) Close() error {
	m.Pix = nil
	return m.mem.Close()
}

func (m *Mem) String() string {
	return fmt.Sprintf("fbimage.Mem{0x%x, %v}", m.PhysAddr(), m.Rect)
}
