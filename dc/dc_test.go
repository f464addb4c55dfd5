package dc

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"testing"

	"github.com/flavioheleno/vsdisplay/internal/logging"
	"github.com/flavioheleno/vsdisplay/kms"
	"github.com/flavioheleno/vsdisplay/regio/regiotest"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/physic"
)

func newDev(t *testing.T, opts *Opts) (*Dev, *regiotest.Recorder, *regiotest.Recorder) {
	t.Helper()
	regs, hi := &regiotest.Recorder{}, &regiotest.Recorder{}
	if opts == nil {
		opts = &Opts{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewFakeClock()
	}
	d, err := New(regs, hi, opts)
	if err != nil {
		t.Fatal(err)
	}
	regs.Reset()
	hi.Reset()
	return d, regs, hi
}

func vicMode(t *testing.T, vic uint8) kms.Mode {
	t.Helper()
	m, ok := kms.VICMode(vic)
	if !ok {
		t.Fatalf("no mode for VIC %d", vic)
	}
	return m
}

// captureLog routes the shared logger to a buffer for the duration of t.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { logging.SetLogger(nil) })
	return &buf
}

// argbState is a full screen ARGB8888 plane of w by h pixels.
func argbState(w, h int) *kms.PlaneState {
	return &kms.PlaneState{
		FB: &kms.Framebuffer{
			Format:   kms.ARGB8888,
			Modifier: kms.ModLinear,
			Width:    w,
			Height:   h,
			Pitches:  [kms.MaxPlanes]uint32{uint32(4 * w)},
			Addrs:    [kms.MaxPlanes]uint64{0x1000_0000},
		},
		Src:      kms.Rect16FromRect(image.Rect(0, 0, w, h)),
		Dst:      image.Rect(0, 0, w, h),
		Rotation: kms.Rotate0,
		Alpha:    0xffff,
		Blend:    kms.BlendPremulti,
		Encoding: kms.EncodingBT709,
	}
}

// firstWrite returns the index of the first write to off in ops, or -1.
func firstWrite(ops []regiotest.Op, off uint32) int {
	for i, o := range ops {
		if o.Write && o.Off == off {
			return i
		}
	}
	return -1
}

type clockCall struct {
	set    bool
	c      Clock
	parent Clock
	rate   physic.Frequency
}

// clockTree records the calls made to it.
type clockTree struct {
	calls []clockCall
	err   error
}

func (c *clockTree) SetRate(clk Clock, rate physic.Frequency) error {
	c.calls = append(c.calls, clockCall{set: true, c: clk, rate: rate})
	return c.err
}

func (c *clockTree) SetParent(clk, parent Clock) error {
	c.calls = append(c.calls, clockCall{c: clk, parent: parent})
	return c.err
}

func TestNew(t *testing.T) {
	bad := DC8200
	bad.Panels = 3
	short := DC8200
	short.Planes = short.Planes[:5]

	tests := []struct {
		name string
		opts *Opts
		ok   bool
	}{
		{"defaults", nil, true},
		{"dc8200", &Opts{Info: &DC8200}, true},
		{"three panels", &Opts{Info: &bad}, false},
		{"missing planes", &Opts{Info: &short}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&regiotest.Recorder{}, &regiotest.Recorder{}, tt.opts)
			if (err == nil) != tt.ok {
				t.Errorf("New() = %v, want ok %t", err, tt.ok)
			}
		})
	}
	if _, err := New(nil, &regiotest.Recorder{}, nil); err == nil {
		t.Error("New(nil) succeeded")
	}
}

func TestString(t *testing.T) {
	d, _, _ := newDev(t, nil)
	if got, want := d.String(), "dc.Dev{DC8200}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if d.Info() != &DC8200 {
		t.Error("Info() is not the DC8200 descriptor")
	}
}

func TestInit(t *testing.T) {
	d, regs, _ := newDev(t, nil)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	ops := regs.Ops()

	for _, id := range []PlaneID{Primary0, Overlay0, Overlay3, Primary1} {
		r, ch := layout(id), id.channel()
		t.Run(id.String(), func(t *testing.T) {
			if got := regs.Get(r.scaleConfig.off() + ch); got != scaleConfigDefault {
				t.Errorf("scale config = %#x, want %#x", got, scaleConfigDefault)
			}
			if got := regs.Get(r.initOffset.off() + ch); got != initOffsetDefault {
				t.Errorf("init offset = %#x, want %#x", got, uint32(initOffsetDefault))
			}
			h := regs.WritesTo(r.hFilterData.off() + ch)
			if len(h) != len(hFilterKernel) {
				t.Fatalf("%d horizontal filter writes, want %d", len(h), len(hFilterKernel))
			}
			for i := range h {
				if h[i] != hFilterKernel[i] {
					t.Fatalf("horizontal filter word %d = %#x, want %#x", i, h[i], hFilterKernel[i])
				}
			}
			if got := len(regs.WritesTo(r.vFilterData.off() + ch)); got != len(vFilterKernel) {
				t.Errorf("%d vertical filter writes, want %d", got, len(vFilterKernel))
			}
			if idx, data := firstWrite(ops, r.hFilterIndex.off()+ch), firstWrite(ops, r.hFilterData.off()+ch); idx < 0 || idx > data {
				t.Errorf("filter index written at %d, after data at %d", idx, data)
			}
			want := uint32(rgbToRGB[0]) | uint32(rgbToRGB[1])<<16
			if got := regs.Get(r.rgbToRGB[0].off() + ch); got != want {
				t.Errorf("RGB to RGB coefficient 0 = %#x, want %#x", got, want)
			}
		})
	}

	for p := 0; p < 2; p++ {
		if got := regs.Get(regPanelConfig.off() + panelOff(p)); got != panelConfigDefault {
			t.Errorf("panel %d config = %#x, want %#x", p, got, panelConfigDefault)
		}
		if got := regs.Get(regCursorBackground.off() + cursorOff(p)); got != cursorBackground {
			t.Errorf("cursor %d background = %#x, want %#x", p, got, cursorBackground)
		}
		if got := regs.Get(regCursorForeground.off() + cursorOff(p)); got != cursorForeground {
			t.Errorf("cursor %d foreground = %#x, want %#x", p, got, cursorForeground)
		}
	}
	want := uint32(rgbToYUV[0])
	if got := regs.Get(regRGBToYUV0.off()) & 0xffff; got != want {
		t.Errorf("RGB to YUV coefficient 0 = %d, want %d", got, want)
	}
}

func TestPack16(t *testing.T) {
	tests := []struct {
		lo, hi int64
		want   uint32
	}{
		{1196, 0, 1196},
		{-220, -548, 0xfddcff24},
		{64, 940, 940<<16 | 64},
	}
	for _, tt := range tests {
		if got := pack16(tt.lo, tt.hi); got != tt.want {
			t.Errorf("pack16(%d, %d) = %#x, want %#x", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestHalt(t *testing.T) {
	d, _, hi := newDev(t, nil)
	if err := d.Enable(0, vicMode(t, 16), kms.EncoderTMDS, kms.BusRGB888_1X24); err != nil {
		t.Fatal(err)
	}
	e := NewEvent()
	if err := d.AtomicFlush(0, e); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-e.Done():
	default:
		t.Fatal("armed event not completed by Halt")
	}
	if w := hi.WritesTo(hiIntEnable); len(w) == 0 || w[len(w)-1] != 0 {
		t.Errorf("interrupt enable writes = %#x, want last 0", w)
	}
	if d.HandleIRQ() {
		t.Error("HandleIRQ() = true after Halt")
	}

	st := argbState(64, 64)
	calls := []struct {
		name string
		fn   func() error
	}{
		{"Init", d.Init},
		{"CheckPlane", func() error { return d.CheckPlane(Primary0, st, vicMode(t, 16)) }},
		{"UpdatePlane", func() error { return d.UpdatePlane(Primary0, st) }},
		{"DisablePlane", func() error { return d.DisablePlane(Primary0) }},
		{"UpdateCursor", func() error { return d.UpdateCursor(0, st) }},
		{"Enable", func() error { return d.Enable(0, vicMode(t, 16), kms.EncoderTMDS, kms.BusRGB888_1X24) }},
		{"Disable", func() error { return d.Disable(0) }},
		{"SetGamma", func() error { return d.SetGamma(0, nil) }},
		{"EnableShadow", func() error { return d.EnableShadow(true) }},
		{"AtomicFlush", func() error { return d.AtomicFlush(0, nil) }},
	}
	for _, c := range calls {
		if err := c.fn(); !errors.Is(err, ErrHalted) {
			t.Errorf("%s() = %v, want ErrHalted", c.name, err)
		}
	}
	if err := d.Halt(); err != nil {
		t.Errorf("second Halt() = %v", err)
	}
}
