// Package regiotest provides a register window that records every access, for
// use in tests of code programming hardware through regio.Window.
package regiotest

import (
	"fmt"
	"sync"
)

// Op is one recorded access.
type Op struct {
	Write bool
	Off   uint32
	Val   uint32
}

func (o Op) String() string {
	if o.Write {
		return fmt.Sprintf("W[0x%04x]=0x%08x", o.Off, o.Val)
	}
	return fmt.Sprintf("R[0x%04x]=0x%08x", o.Off, o.Val)
}

// Recorder implements regio.Window over a sparse register map. Registers that
// were never written read as 0 unless preset with Set.
//
// OnRead may replace the value returned for a read; OnWrite observes writes
// after they are stored. Both hooks run without the Recorder lock held, so they
// may call back into the Recorder (for instance to raise an interrupt status
// bit when a trigger register is written).
type Recorder struct {
	OnRead  func(off, v uint32) uint32
	OnWrite func(off, v uint32)

	mu   sync.Mutex
	regs map[uint32]uint32
	ops  []Op
}

// ReadUint32 implements regio.Window.
func (r *Recorder) ReadUint32(off uint32) uint32 {
	r.mu.Lock()
	v := r.regs[off]
	hook := r.OnRead
	r.mu.Unlock()
	if hook != nil {
		v = hook(off, v)
	}
	r.mu.Lock()
	r.ops = append(r.ops, Op{Off: off, Val: v})
	r.mu.Unlock()
	return v
}

// WriteUint32 implements regio.Window.
func (r *Recorder) WriteUint32(off, v uint32) {
	r.mu.Lock()
	if r.regs == nil {
		r.regs = map[uint32]uint32{}
	}
	r.regs[off] = v
	r.ops = append(r.ops, Op{Write: true, Off: off, Val: v})
	hook := r.OnWrite
	r.mu.Unlock()
	if hook != nil {
		hook(off, v)
	}
}

// Get returns the current value of a register without recording an access.
func (r *Recorder) Get(off uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs[off]
}

// Set presets a register without recording an access.
func (r *Recorder) Set(off, v uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.regs == nil {
		r.regs = map[uint32]uint32{}
	}
	r.regs[off] = v
}

// Ops returns a copy of the access trace.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Writes returns the write accesses in order.
func (r *Recorder) Writes() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Op
	for _, o := range r.ops {
		if o.Write {
			out = append(out, o)
		}
	}
	return out
}

// WritesTo returns the values written to off, in order.
func (r *Recorder) WritesTo(off uint32) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint32
	for _, o := range r.ops {
		if o.Write && o.Off == off {
			out = append(out, o.Val)
		}
	}
	return out
}

// Reset forgets the access trace. Register contents are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}
