package hdmi

import (
	"time"

	"github.com/flavioheleno/vsdisplay/internal/logging"
	"periph.io/x/conn/v3/gpio"
)

// hpdPoll bounds each wait on the HPD pin so the watcher notices Halt.
const hpdPoll = 100 * time.Millisecond

// HandleIRQ is the interrupt top half. It acknowledges the EDID ready and
// hotplug flags, completes a pending EDID read and queues a hotplug event for
// the worker. It never blocks and never logs, so it can be called from an
// interrupt dispatch loop. It reports whether any source was pending.
func (d *Dev) HandleIRQ() bool {
	handled := false
	if intEDIDReady.Get(d.readb(regIntStatus1)) != 0 {
		d.writeb(regIntStatus1, intEDIDReady.Put(1))
		d.ddc.signal()
		handled = true
	}
	if stIntHotplug.Get(d.readb(regStatus)) != 0 {
		d.modb(regStatus, stIntHotplug.Mask(), stIntHotplug.Put(1))
		d.queueHotplug()
		handled = true
	}
	return handled
}

// queueHotplug records a hotplug event. Events arriving while one is pending
// are merged.
func (d *Dev) queueHotplug() {
	select {
	case d.hpd <- struct{}{}:
	default:
	}
}

// worker is the bottom half: it re-detects the sink after each hotplug event
// and reports the result.
func (d *Dev) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stop:
			return
		case <-d.hpd:
			connected := d.Detect()
			logging.Logger().Debug("hdmi: hotplug", "dev", d.String(), "connected", connected)
			if d.opts.OnHotplug != nil {
				d.opts.OnHotplug(connected)
			}
		}
	}
}

// watchHPD turns edges on the HPD pin into hotplug events.
func (d *Dev) watchHPD(p gpio.PinIn) {
	defer d.wg.Done()
	for {
		select {
		case <-d.stop:
			return
		default:
		}
		if p.WaitForEdge(hpdPoll) {
			d.queueHotplug()
		}
	}
}
