package hdmi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/flavioheleno/vsdisplay/edid"
	"github.com/flavioheleno/vsdisplay/kms"
	"github.com/flavioheleno/vsdisplay/regio"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrPLLLock is returned when a PLL does not lock in time. The commit must
	// be aborted; the transmitter is left in standby.
	ErrPLLLock = errors.New("hdmi: PLL lock timeout")
	// ErrTryAgain is returned when EDID data was not ready in time. The
	// transaction may be resubmitted.
	ErrTryAgain = errors.New("hdmi: try again")
	// ErrInvalid is returned for a DDC transaction the hardware cannot do.
	ErrInvalid = errors.New("hdmi: invalid DDC transaction")
	// ErrUnsupportedInfoframe is returned for infoframe types other than AVI.
	ErrUnsupportedInfoframe = errors.New("hdmi: unsupported infoframe type")
	// ErrInfoframe is returned when an infoframe cannot be serialized.
	ErrInfoframe = errors.New("hdmi: bad infoframe")
	// ErrModeInvalid is returned by AtomicCheck for a mode ModeValid rejects.
	ErrModeInvalid = errors.New("hdmi: invalid mode")
	// ErrProbeDefer is returned by Bind when no CRTC can feed the encoder
	// yet. Bind should be retried once the display controller is up.
	ErrProbeDefer = errors.New("hdmi: no possible CRTCs, defer bind")
	// ErrHalted is returned by every operation after Halt.
	ErrHalted = errors.New("hdmi: halted")
)

// Opts is the configuration of the transmitter.
type Opts struct {
	// SoC integration (default: RK3036)
	Variant Variant

	// Optional reference clock, used by ModeValid on Rockchip to check that
	// the pixel clock can be generated within 0.5%.
	RefClock ClockRounder

	// Rate of the clock driving the DDC divider until the first mode-set:
	// the reference clock or the APB clock on Rockchip, the system clock on
	// StarFive (default: 24MHz).
	BusClock physic.Frequency

	// Time source for PLL lock polling and EDID waits (default: real clock).
	Clock clockwork.Clock

	// Called from the worker goroutine after each hotplug event.
	OnHotplug func(connected bool)

	// Optional hotplug detect GPIO, read instead of the status register.
	HPD gpio.PinIn
}

// Dev is a handle to an Inno HDMI transmitter.
type Dev struct {
	// Communication
	regs regio.Window
	ddc  *ddc

	// Configuration
	opts     Opts
	plat     platform
	clock    clockwork.Clock
	ddcRef   physic.Frequency // Clock currently feeding the DDC divider
	ddcSpeed physic.Frequency

	// Mode-set state, serialized by the caller
	power    PowerState
	tmdsRate physic.Frequency
	phy      PHYConfig
	prePLL   PrePLLConfig
	postPLL  PostPLLConfig

	// Sink
	isHDMI atomic.Bool
	edid   singleflight.Group

	// Deferred work
	hpd   chan struct{}
	stop  chan struct{}
	wg    sync.WaitGroup
	bound bool

	halted atomic.Bool
}

// New returns a transmitter driving the register window regs.
//
// It resets the transmitter into standby and programs the DDC divider from
// opts.BusClock. opts can be nil to use defaults.
func New(regs regio.Window, opts *Opts) (*Dev, error) {
	if regs == nil {
		return nil, errors.New("hdmi: nil register window")
	}
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	plat := o.Variant.platform()
	if plat == nil {
		return nil, fmt.Errorf("hdmi: unknown variant %s", o.Variant)
	}
	if o.BusClock < 0 {
		return nil, errors.New("hdmi: BusClock must not be negative")
	}
	if o.BusClock == 0 {
		o.BusClock = defaultBusRate
	}
	if o.BusClock < 4*ddcSCLRate {
		return nil, fmt.Errorf("hdmi: BusClock %s too low for the DDC divider", o.BusClock)
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}

	d := &Dev{
		regs:     regs,
		opts:     o,
		plat:     plat,
		clock:    o.Clock,
		ddcSpeed: ddcSCLRate,
		hpd:      make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	d.ddc = newDDC(d)
	d.plat.reset(d)
	d.i2cInit(o.BusClock)
	if err := regio.Err(regs); err != nil {
		return nil, fmt.Errorf("hdmi: failed to reset: %w", err)
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("hdmi.Dev{%s}", d.opts.Variant)
}

// Bind attaches the transmitter to the display controller.
//
// possibleCRTCs is the mask of CRTCs that can feed the encoder. When it is
// zero the CRTCs are not registered yet and Bind returns ErrProbeDefer.
// Otherwise it unmutes the hotplug interrupt and starts the goroutine
// handling hotplug events.
func (d *Dev) Bind(possibleCRTCs uint32) error {
	if d.halted.Load() {
		return ErrHalted
	}
	if d.bound {
		return errors.New("hdmi: already bound")
	}
	if possibleCRTCs == 0 {
		return ErrProbeDefer
	}
	if d.opts.HPD != nil {
		if err := d.opts.HPD.In(gpio.PullNoChange, gpio.BothEdges); err != nil {
			return fmt.Errorf("hdmi: failed to configure HPD pin: %w", err)
		}
	}

	d.modb(regStatus, stMaskIntHPD.Mask(), stMaskIntHPD.Put(1))

	d.bound = true
	d.wg.Add(1)
	go d.worker()
	if d.opts.HPD != nil {
		d.wg.Add(1)
		go d.watchHPD(d.opts.HPD)
	}
	return nil
}

// ModeValid checks whether the transmitter can drive m.
func (d *Dev) ModeValid(m kms.Mode) kms.ModeStatus {
	return d.plat.modeValid(d, &m)
}

// AtomicCheck derives the connector color state for m into s and returns
// the bus format and encoder type the display controller must produce.
//
// SD formats (VIC 2, 3, 6, 7, 17, 18, 21, 22) use ITU-601, everything else
// ITU-709. Output is RGB, limited range when the mode's CEA default is.
// Modes ModeValid rejects fail with ErrModeInvalid.
func (d *Dev) AtomicCheck(m kms.Mode, s *ConnectorState) (kms.BusFormat, kms.EncoderType, error) {
	if d.halted.Load() {
		return 0, 0, ErrHalted
	}
	switch kms.MatchVIC(&m) {
	case 2, 3, 6, 7, 17, 18, 21, 22:
		s.Colorimetry = kms.ColorimetryITU601
	default:
		s.Colorimetry = kms.ColorimetryITU709
	}
	s.Encoding = kms.EncodingRGB
	s.RGBLimited = kms.DefaultRGBQuantRange(&m) == kms.QuantLimited

	if st := d.ModeValid(m); st != kms.ModeOK {
		return 0, 0, fmt.Errorf("hdmi: mode %s: %s: %w", &m, st, ErrModeInvalid)
	}
	return kms.BusRGB888_1X24, kms.EncoderTMDS, nil
}

// Enable runs the mode-set sequence for m with color state s. On failure the
// transmitter is put back in standby and the error is returned; ErrPLLLock
// and infoframe errors are fatal to the commit.
func (d *Dev) Enable(m kms.Mode, s *ConnectorState) error {
	if d.halted.Load() {
		return ErrHalted
	}
	if s == nil {
		s = DefaultConnectorState()
	}
	d.power = Configuring
	err := d.plat.setup(d, &m, s)
	if err == nil {
		err = regio.Err(d.regs)
	}
	if err != nil {
		d.plat.teardown(d)
		d.power = Standby
		return fmt.Errorf("hdmi: failed to enable %s: %w", &m, err)
	}
	d.power = Active
	return nil
}

// Disable powers the output down.
func (d *Dev) Disable() error {
	if d.halted.Load() {
		return ErrHalted
	}
	d.plat.teardown(d)
	d.power = Standby
	return regio.Err(d.regs)
}

// Power returns the mode-set state.
func (d *Dev) Power() PowerState {
	return d.power
}

// TMDSRate returns the TMDS rate of the last mode-set.
func (d *Dev) TMDSRate() physic.Frequency {
	return d.tmdsRate
}

// Detect reports whether a sink is connected, from the HPD pin when one is
// configured and from the live hotplug status bit otherwise.
func (d *Dev) Detect() bool {
	if d.opts.HPD != nil {
		return d.opts.HPD.Read() == gpio.High
	}
	return stHotplug.Get(d.readb(regStatus)) != 0
}

// IsHDMI reports whether the last EDID read found an HDMI sink. DVI sinks get
// no infoframes.
func (d *Dev) IsHDMI() bool {
	return d.isHDMI.Load()
}

// DDC returns the I²C bus emulated by the EDID reader.
func (d *Dev) DDC() i2c.Bus {
	return d.ddc
}

// GetModes reads the sink's EDID and returns the modes the transmitter can
// drive, preferred mode first. Concurrent callers share a single read.
func (d *Dev) GetModes(ctx context.Context) ([]kms.Mode, error) {
	if d.halted.Load() {
		return nil, ErrHalted
	}
	ch := d.edid.DoChan("edid", func() (interface{}, error) {
		raw, err := edid.Read(d.ddc)
		if err != nil {
			return nil, err
		}
		e, err := edid.Parse(raw)
		if err != nil {
			return nil, err
		}
		d.isHDMI.Store(e.IsHDMI)
		var modes []kms.Mode
		for _, m := range e.Modes() {
			if d.ModeValid(m) == kms.ModeOK {
				modes = append(modes, m)
			}
		}
		return modes, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, fmt.Errorf("hdmi: failed to read EDID: %w", r.Err)
		}
		modes := r.Val.([]kms.Mode)
		return append([]kms.Mode(nil), modes...), nil
	}
}

// Halt stops the hotplug worker, masks the hotplug interrupt and powers the
// transmitter down. Further calls return ErrHalted.
func (d *Dev) Halt() error {
	if d.halted.Swap(true) {
		return nil
	}
	close(d.stop)
	d.wg.Wait()
	d.modb(regStatus, stMaskIntHPD.Mask(), 0)
	d.plat.teardown(d)
	d.power = Standby
	return regio.Err(d.regs)
}

// configTiming programs the external video timing registers.
func (d *Dev) configTiming(m *kms.Mode) {
	v := vtExternal.Put(1) | d.plat.syncPolarity(m) | vtInterlace.Flag(m.Interlaced())
	d.writeb(regVideoTimingCtl, v)

	d.write16(regExtHTotalL, regExtHTotalH, m.HTotal)
	d.write16(regExtHBlankL, regExtHBlankH, m.HTotal-m.HDisplay)
	d.write16(regExtHDelayL, regExtHDelayH, m.HTotal-m.HSyncStart)
	d.write16(regExtHDurationL, regExtHDurationH, m.HSyncEnd-m.HSyncStart)
	d.write16(regExtVTotalL, regExtVTotalH, m.VTotal)
	d.writeb(regExtVBlank, uint32(m.VTotal-m.VDisplay)&0xff)
	d.writeb(regExtVDelay, uint32(m.VTotal-m.VSyncStart)&0xff)
	d.writeb(regExtVDuration, uint32(m.VSyncEnd-m.VSyncStart)&0xff)

	if d.opts.Variant == JH7110 {
		return
	}
	d.writeb(regPHYPreDiv, preDivRatio.Put(0x1e))
	d.writeb(regPHYFeedbackDivL, feedbackDivLow.Put(0x2c))
	d.writeb(regPHYFeedbackDivH, feedbackDivHigh.Put(0x01))
}

func (d *Dev) sysPower(on bool) {
	d.modb(regSysCtrl, sysPowerOff.Mask(), sysPowerOff.Flag(!on))
}

// i2cInit programs the DDC divider from rate, then clears and mutes the EDID
// interrupt.
func (d *Dev) i2cInit(rate physic.Frequency) {
	d.ddc.mu.Lock()
	defer d.ddc.mu.Unlock()
	d.setDDCRate(rate)
	d.writeb(regIntMask1, 0)
	d.writeb(regIntStatus1, intEDIDReady.Put(1))
}

// setDDCRate sets the divider to (rate/4) / speed.
func (d *Dev) setDDCRate(rate physic.Frequency) {
	d.ddcRef = rate
	div := (uint64(rate/physic.Hertz) >> 2) / uint64(d.ddcSpeed/physic.Hertz)
	d.writeb(regDDCBusFreqL, uint32(div)&0xff)
	d.writeb(regDDCBusFreqH, uint32(div>>8)&0xff)
}

func (d *Dev) readb(r reg) uint32 {
	return d.regs.ReadUint32(r.off()) & 0xff
}

func (d *Dev) writeb(r reg, v uint32) {
	d.regs.WriteUint32(r.off(), v)
}

func (d *Dev) write16(lo, hi reg, v int) {
	d.writeb(lo, uint32(v)&0xff)
	d.writeb(hi, uint32(v>>8)&0xff)
}

func (d *Dev) modb(r reg, mask, val uint32) {
	regio.Modify(d.regs, r.off(), mask, val)
}
