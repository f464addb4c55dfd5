package dc

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/flavioheleno/vsdisplay/regio"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrGammaSize is returned for a gamma table whose size is not the
	// hardware table size. The hardware is left untouched.
	ErrGammaSize = errors.New("dc: gamma size does not match")
	// ErrFormat is returned for a pixel format the plane cannot scan out.
	ErrFormat = errors.New("dc: unsupported format")
	// ErrModifier is returned for a framebuffer modifier the plane cannot
	// scan out.
	ErrModifier = errors.New("dc: unsupported modifier")
	// ErrScale is returned when the source to destination ratio is outside
	// the plane's scale range.
	ErrScale = errors.New("dc: scale out of range")
	// ErrRotation is returned for a rotation the plane cannot do.
	ErrRotation = errors.New("dc: unsupported rotation")
	// ErrZpos is returned for a z-position outside the layer stack.
	ErrZpos = errors.New("dc: invalid zpos")
	// ErrBusFormat is returned for a bus format the encoder cannot carry.
	ErrBusFormat = errors.New("dc: unsupported bus format")
	// ErrPlane is returned for a plane the controller does not have.
	ErrPlane = errors.New("dc: no such plane")
	// ErrPanel is returned for a panel the controller does not have.
	ErrPanel = errors.New("dc: no such panel")
	// ErrHalted is returned by every operation after Halt.
	ErrHalted = errors.New("dc: halted")
)

// Clock identifies a clock of the display controller clock tree by its
// index in the controller's clock list.
type Clock int

const (
	ClockChannel0  Clock = 4 // Panel 0 pixel clock mux
	ClockChannel1  Clock = 5 // Panel 1 pixel clock mux
	ClockHDMIPixel Clock = 6 // Pixel clock recovered by the HDMI transmitter
	ClockDPIPixel  Clock = 7 // Pixel clock for DPI and DSI outputs
)

// ClockTree is the clock framework the pixel clocks are routed through.
type ClockTree interface {
	SetRate(c Clock, rate physic.Frequency) error
	SetParent(c, parent Clock) error
}

// Opts is the configuration of the display controller.
type Opts struct {
	// Capabilities (default: DC8200)
	Info *Info

	// Clock tree feeding the panels. When nil, the pixel clocks are expected
	// to be set up elsewhere.
	Clocks ClockTree

	// Time source for frame event timestamps (default: real clock).
	Clock clockwork.Clock
}

// output is the output mux selection of a panel.
type output uint8

const (
	outDPI output = iota
	outDP
)

// Dev is a handle to a Verisilicon display controller.
type Dev struct {
	// Communication
	regs regio.Window
	hi   regio.Window

	// Configuration
	opts  Opts
	info  *Info
	clock clockwork.Clock

	// Per-panel state, serialized by the caller
	out   []output
	gamma [][][3]uint16 // R, G, B already reduced to GammaBits

	// Buffer size warnings, one per plane
	warned [Cursor1 + 1]sync.Once

	// Shared with HandleIRQ
	mu     sync.Mutex
	vblank []bool
	armed  [][]*Event
	frames []uint64

	halted atomic.Bool
}

// New returns a display controller driving the register window regs, whose
// base is register 0x800, and the AHB window hi holding the interrupt
// registers. It calls Init. opts can be nil to use defaults.
func New(regs, hi regio.Window, opts *Opts) (*Dev, error) {
	if regs == nil || hi == nil {
		return nil, errors.New("dc: nil register window")
	}
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	if o.Info == nil {
		o.Info = &DC8200
	}
	if err := o.Info.validate(); err != nil {
		return nil, err
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	n := o.Info.Panels
	d := &Dev{
		regs:   regs,
		hi:     hi,
		opts:   o,
		info:   o.Info,
		clock:  o.Clock,
		out:    make([]output, n),
		gamma:  make([][][3]uint16, n),
		vblank: make([]bool, n),
		armed:  make([][]*Event, n),
		frames: make([]uint64, n),
	}
	for i := range d.gamma {
		d.gamma[i] = make([][3]uint16, o.Info.GammaSize)
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("dc.Dev{%s}", d.info.Name)
}

// Info returns the capabilities of the controller.
func (d *Dev) Info() *Info {
	return d.info
}

// Init loads the default scaler filters and gamut tables of every layer, and
// the output color table, panel defaults and cursor colors of every panel.
func (d *Dev) Init() error {
	if d.halted.Load() {
		return ErrHalted
	}
	for _, p := range d.info.Planes[:d.info.Layers] {
		r, ch := layout(p.ID), p.ID.channel()
		d.loadFilter(r, ch)
		d.loadRGBToRGB(r, ch)
	}
	for i := 0; i < d.info.Panels; i++ {
		d.loadRGBToYUV(i)
		d.write(regPanelConfig, panelOff(i), panelConfigDefault)
	}
	for i := 0; i < d.info.Cursors; i++ {
		d.write(regCursorBackground, cursorOff(i), cursorBackground)
		d.write(regCursorForeground, cursorOff(i), cursorForeground)
	}
	if err := regio.Err(d.regs); err != nil {
		return fmt.Errorf("dc: failed to initialize: %w", err)
	}
	return nil
}

// Halt disables interrupts, completes pending frame events and refuses
// further operations.
func (d *Dev) Halt() error {
	if d.halted.Swap(true) {
		return nil
	}
	d.mu.Lock()
	var pending []*Event
	for i := range d.vblank {
		d.vblank[i] = false
		pending = append(pending, d.armed[i]...)
		d.armed[i] = nil
	}
	d.mu.Unlock()
	d.hi.WriteUint32(hiIntEnable, 0)
	now := d.clock.Now()
	for _, e := range pending {
		e.complete(0, now)
	}
	return regio.Err(d.hi)
}

func (d *Dev) checkPanel(panel int) error {
	if d.halted.Load() {
		return ErrHalted
	}
	if panel < 0 || panel >= d.info.Panels {
		return fmt.Errorf("dc: panel %d: %w", panel, ErrPanel)
	}
	return nil
}

func (d *Dev) loadFilter(r *layerRegs, ch uint32) {
	d.write(r.scaleConfig, ch, scaleConfigDefault)
	d.write(r.initOffset, ch, initOffsetDefault)
	d.write(r.hFilterIndex, ch, 0)
	for _, v := range hFilterKernel {
		d.write(r.hFilterData, ch, v)
	}
	d.write(r.vFilterIndex, ch, 0)
	for _, v := range vFilterKernel {
		d.write(r.vFilterData, ch, v)
	}
}

func (d *Dev) loadRGBToRGB(r *layerRegs, ch uint32) {
	t := &rgbToRGB
	for i := 0; i < 4; i++ {
		d.write(r.rgbToRGB[i], ch, uint32(t[2*i])|uint32(t[2*i+1])<<16)
	}
	d.write(r.rgbToRGB[4], ch, uint32(t[8]))
}

func (d *Dev) loadYUVToRGB(r *layerRegs, ch uint32, t *[16]int32) {
	for i := 0; i < 4; i++ {
		d.write(r.yuvToRGB[i], ch, pack16(int64(t[2*i]), int64(t[2*i+1])))
	}
	d.write(r.yuvToRGB[4], ch, uint32(t[8]))
	for i := 0; i < 3; i++ {
		d.write(r.yuvToRGBD[i], ch, uint32(t[9+i]))
	}
	d.write(r.yClamp, ch, pack16(int64(t[12]), int64(t[13])))
	d.write(r.uvClamp, ch, pack16(int64(t[14]), int64(t[15])))
}

func (d *Dev) loadRGBToYUV(panel int) {
	t := &rgbToYUV
	coef := [5]reg{regRGBToYUV0, regRGBToYUV1, regRGBToYUV2, regRGBToYUV3, regRGBToYUV4}
	off := panelOff(panel)
	for i := 0; i < 4; i++ {
		d.write(coef[i], off, pack16(int64(t[2*i]), int64(t[2*i+1])))
	}
	d.write(coef[4], off, uint32(int32(t[8])))
	d.write(regRGBToYUVD0, off, uint32(int32(t[9])))
	d.write(regRGBToYUVD1, off, uint32(int32(t[10])))
	d.write(regRGBToYUVD2, off, uint32(int32(t[11])))
}

// pack16 packs two signed coefficients, lo in bits 0 to 15 and hi from bit
// 16.
func pack16(lo, hi int64) uint32 {
	return uint32(lo)&0xffff | uint32(hi)<<16
}

func layout(id PlaneID) *layerRegs {
	if id.Primary() {
		return &primaryRegs
	}
	return &overlayRegs
}

func panelOff(panel int) uint32 {
	return uint32(panel) << 2
}

func cursorOff(panel int) uint32 {
	if panel != 0 {
		return cursorStride
	}
	return 0
}

func (d *Dev) write(r reg, off, v uint32) {
	d.regs.WriteUint32(r.off()+off, v)
}

func (d *Dev) setClear(r reg, off, set, clear uint32) {
	regio.SetClear(d.regs, r.off()+off, set, clear)
}
