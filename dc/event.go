package dc

import (
	"context"
	"sync"
	"time"
)

// Event is a frame completion event. It completes once, at the vblank that
// latches the commit it was armed with, or when the panel is disabled first.
type Event struct {
	once  sync.Once
	done  chan struct{}
	frame uint64
	at    time.Time
}

// NewEvent returns an event ready to be armed with AtomicFlush.
func NewEvent() *Event {
	return &Event{done: make(chan struct{})}
}

// Done returns a channel closed when the event completes.
func (e *Event) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the event completes or ctx is done.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frame returns the vblank count of the panel when the event completed. It
// is only valid once Done is closed.
func (e *Event) Frame() uint64 {
	<-e.done
	return e.frame
}

// Time returns when the event completed. It is only valid once Done is
// closed.
func (e *Event) Time() time.Time {
	<-e.done
	return e.at
}

// complete reports whether this call completed the event.
func (e *Event) complete(frame uint64, at time.Time) bool {
	fired := false
	e.once.Do(func() {
		e.frame = frame
		e.at = at
		close(e.done)
		fired = true
	})
	return fired
}

// HandleIRQ is the vblank interrupt handler. It reads the acknowledge
// register, which clears it, then completes the events armed on every panel
// with vblank enabled. It reports whether an interrupt was pending.
func (d *Dev) HandleIRQ() bool {
	if d.halted.Load() {
		return false
	}
	if d.hi.ReadUint32(hiIntAck) == 0 {
		return false
	}
	now := d.clock.Now()
	d.mu.Lock()
	type done struct {
		ev    []*Event
		frame uint64
	}
	var fire []done
	for i, on := range d.vblank {
		if !on {
			continue
		}
		d.frames[i]++
		if len(d.armed[i]) != 0 {
			fire = append(fire, done{d.armed[i], d.frames[i]})
			d.armed[i] = nil
		}
	}
	d.mu.Unlock()
	for _, f := range fire {
		for _, e := range f.ev {
			e.complete(f.frame, now)
		}
	}
	return true
}

// arm queues e for the next vblank of panel. With vblank off, e completes
// immediately.
func (d *Dev) arm(panel int, e *Event) {
	d.mu.Lock()
	if d.vblank[panel] {
		d.armed[panel] = append(d.armed[panel], e)
		d.mu.Unlock()
		return
	}
	frame := d.frames[panel]
	d.mu.Unlock()
	e.complete(frame, d.clock.Now())
}

// vblankOn enables vblank delivery on panel and unmasks the controller
// interrupts.
func (d *Dev) vblankOn(panel int) {
	d.mu.Lock()
	d.vblank[panel] = true
	d.mu.Unlock()
	d.hi.WriteUint32(hiIntEnable, 0xffffffff)
}

// vblankOff disables vblank delivery on panel and returns its pending
// events. The controller interrupts are masked once no panel uses them.
func (d *Dev) vblankOff(panel int) []*Event {
	d.mu.Lock()
	d.vblank[panel] = false
	pending := d.armed[panel]
	d.armed[panel] = nil
	used := false
	for _, on := range d.vblank {
		used = used || on
	}
	d.mu.Unlock()
	if !used {
		d.hi.WriteUint32(hiIntEnable, 0)
	}
	return pending
}

// Frames returns the number of vblanks seen on panel.
func (d *Dev) Frames(panel int) uint64 {
	if panel < 0 || panel >= d.info.Panels {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames[panel]
}
