package hdmi

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	ddcSCLRate     = 100 * physic.KiloHertz
	edidReadyWait  = 100 * time.Millisecond
	defaultBusRate = 24 * physic.MegaHertz
)

// ddc emulates an I²C bus on top of the transmitter's EDID reader. The
// hardware only reads EDID: a one byte write to 0x50 sets the word address,
// a one byte write to 0x30 sets the segment pointer and starts the transfer
// into the FIFO, and a read drains the FIFO once the EDID ready interrupt
// fired.
type ddc struct {
	d *Dev

	mu      sync.Mutex // One transaction at a time
	wordPtr uint8
	segPtr  uint8
	ready   chan struct{} // Single-shot, fed by the interrupt handler
}

func newDDC(d *Dev) *ddc {
	return &ddc{d: d, ready: make(chan struct{}, 1)}
}

func (b *ddc) String() string {
	return "hdmi.DDC"
}

// SetSpeed reprograms the DDC clock divider so that the bus runs at f.
func (b *ddc) SetSpeed(f physic.Frequency) error {
	if f < physic.Hertz {
		return fmt.Errorf("hdmi: invalid DDC speed %s: %w", f, ErrInvalid)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.d.halted.Load() {
		return ErrHalted
	}
	b.d.ddcSpeed = f
	b.d.setDDCRate(b.d.ddcRef)
	return nil
}

// Tx implements i2c.Bus. A non-empty w must be exactly one byte addressed to
// 0x50 or 0x30; anything else fails with ErrInvalid before any register is
// touched. A read waits up to 100ms for the EDID ready signal and fails with
// ErrTryAgain when it does not come.
func (b *ddc) Tx(addr uint16, w, r []byte) error {
	if len(w) != 0 && (len(w) != 1 || (addr != ddcAddr && addr != ddcSegmentAddr)) {
		return fmt.Errorf("hdmi: DDC write of %d bytes to 0x%02x: %w", len(w), addr, ErrInvalid)
	}
	if len(w) == 0 && len(r) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.d
	if d.halted.Load() {
		return ErrHalted
	}

	// Clear the EDID interrupt flag and unmute it for this transaction.
	d.writeb(regIntMask1, intEDIDReady.Put(1))
	d.writeb(regIntStatus1, intEDIDReady.Put(1))
	defer d.writeb(regIntMask1, 0)

	if len(w) != 0 {
		b.write(uint8(addr), w[0])
	}
	if len(r) != 0 {
		return b.read(r)
	}
	return nil
}

func (b *ddc) write(addr, v uint8) {
	// Forget a completion left over from a previous transfer.
	select {
	case <-b.ready:
	default:
	}
	if addr == ddcSegmentAddr {
		b.segPtr = v
	} else {
		b.wordPtr = v
	}
	b.d.writeb(regEDIDFIFOOffset, 0)
	b.d.writeb(regEDIDWordAddr, uint32(b.wordPtr))
	b.d.writeb(regEDIDSegment, uint32(b.segPtr))
}

func (b *ddc) read(r []byte) error {
	select {
	case <-b.ready:
	case <-b.d.clock.After(edidReadyWait):
		return fmt.Errorf("hdmi: EDID not ready after %s: %w", edidReadyWait, ErrTryAgain)
	}
	for i := range r {
		r[i] = byte(b.d.readb(regEDIDFIFO))
	}
	// The segment pointer only applies to the transfer that follows it.
	b.segPtr = 0
	return nil
}

// signal completes the pending read. It never blocks.
func (b *ddc) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

var _ i2c.Bus = (*ddc)(nil)
