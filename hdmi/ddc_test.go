package hdmi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/flavioheleno/vsdisplay/regio/regiotest"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/physic"
)

// sink emulates the EDID reader of the transmitter: writing the segment
// register loads the FIFO from the EDID and raises the EDID ready interrupt,
// unless the sink is silent.
type sink struct {
	mu     sync.Mutex
	d      *Dev
	rec    *regiotest.Recorder
	edid   []byte
	pos    int
	silent bool
}

func newSink(t *testing.T, edid []byte, opts *Opts) *sink {
	s := &sink{rec: &regiotest.Recorder{}, edid: edid}
	s.rec.OnWrite = s.onWrite
	s.rec.OnRead = s.onRead
	d, err := New(s.rec, opts)
	if err != nil {
		t.Fatal(err)
	}
	s.mu.Lock()
	s.d = d
	s.mu.Unlock()
	s.rec.Reset()
	return s
}

func (s *sink) onWrite(off, v uint32) {
	if off != regEDIDSegment.off() {
		return
	}
	s.mu.Lock()
	s.pos = int(v)*256 + int(s.rec.Get(regEDIDWordAddr.off()))
	silent, d := s.silent, s.d
	s.mu.Unlock()
	if silent || d == nil {
		return
	}
	s.rec.Set(regIntStatus1.off(), intEDIDReady.Put(1))
	d.HandleIRQ()
}

func (s *sink) onRead(off, v uint32) uint32 {
	if off != regEDIDFIFO.off() {
		return v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.edid) {
		return 0
	}
	b := s.edid[s.pos]
	s.pos++
	return uint32(b)
}

func seal(b []byte) []byte {
	var sum byte
	for _, c := range b[:127] {
		sum += c
	}
	b[127] = -sum
	return b
}

// testEDID returns a base block advertising 1920x1080@60 and 4k30, and
// optionally a CEA extension carrying the HDMI vendor block and VIC 4.
func testEDID(hdmi bool) []byte {
	b := make([]byte, 128)
	copy(b, []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00})
	b[18], b[19] = 1, 3
	copy(b[54:], []byte{
		0x02, 0x3a, 0x80, 0x18, 0x71, 0x38, 0x2d, 0x40,
		0x58, 0x2c, 0x45, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1e,
	})
	// 3840x2160@30, 297MHz.
	copy(b[72:], []byte{
		0x04, 0x74, 0x00, 0x30, 0xf2, 0x70, 0x5a, 0x80,
		0xb0, 0x58, 0x8a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1e,
	})
	if !hdmi {
		return seal(b)
	}
	b[126] = 1
	seal(b)
	ext := make([]byte, 128)
	ext[0], ext[1] = 0x02, 3
	copy(ext[4:], []byte{2<<5 | 1, 4, 3<<5 | 5, 0x03, 0x0c, 0x00, 0x10, 0x00})
	ext[2] = 12
	return append(b, seal(ext)...)
}

func TestDDCRead(t *testing.T) {
	raw := testEDID(true)
	s := newSink(t, raw, nil)
	bus := s.d.DDC()
	if got := bus.String(); got != "hdmi.DDC" {
		t.Errorf("String() = %q", got)
	}
	got := make([]byte, 128)
	if err := bus.Tx(ddcAddr, []byte{128}, got); err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i] != raw[128+i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], raw[128+i])
		}
	}
	if m := s.rec.Get(regIntMask1.off()); m != 0 {
		t.Errorf("EDID interrupt left unmuted: %#x", m)
	}
	if got := s.rec.WritesTo(regEDIDWordAddr.off()); len(got) != 1 || got[0] != 128 {
		t.Errorf("word address writes = %v, want [128]", got)
	}
}

func TestDDCSegment(t *testing.T) {
	raw := make([]byte, 512)
	for i := range raw {
		raw[i] = byte(i / 128)
	}
	s := newSink(t, raw, nil)
	bus := s.d.DDC()
	if err := bus.Tx(ddcSegmentAddr, []byte{1}, nil); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 4)
	if err := bus.Tx(ddcAddr, []byte{128}, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 3 {
		t.Errorf("read block %d, want 3", got[0])
	}
	// The segment only applies to one read.
	if err := bus.Tx(ddcAddr, []byte{0}, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0 {
		t.Errorf("read block %d, want 0", got[0])
	}
}

func TestDDCInvalid(t *testing.T) {
	s := newSink(t, testEDID(false), nil)
	bus := s.d.DDC()
	tests := []struct {
		name string
		addr uint16
		w    []byte
	}{
		{"wrong address", 0x51, []byte{0}},
		{"two bytes", ddcAddr, []byte{0, 1}},
		{"segment two bytes", ddcSegmentAddr, []byte{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.rec.Reset()
			if err := bus.Tx(tt.addr, tt.w, make([]byte, 8)); !errors.Is(err, ErrInvalid) {
				t.Errorf("Tx() = %v, want ErrInvalid", err)
			}
			if w := s.rec.Writes(); len(w) != 0 {
				t.Errorf("writes = %v, want none", w)
			}
		})
	}
	if err := bus.Tx(ddcAddr, nil, nil); err != nil {
		t.Errorf("empty Tx() = %v", err)
	}
}

func TestDDCTimeout(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s := newSink(t, testEDID(false), &Opts{Clock: fc})
	s.silent = true
	errc := make(chan error, 1)
	go func() {
		errc <- s.d.DDC().Tx(ddcAddr, []byte{0}, make([]byte, 128))
	}()
	fc.BlockUntil(1)
	fc.Advance(edidReadyWait)
	select {
	case err := <-errc:
		if !errors.Is(err, ErrTryAgain) {
			t.Errorf("Tx() = %v, want ErrTryAgain", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Tx() did not time out")
	}
	if m := s.rec.Get(regIntMask1.off()); m != 0 {
		t.Errorf("EDID interrupt left unmuted: %#x", m)
	}
}

func TestDDCSetSpeed(t *testing.T) {
	s := newSink(t, nil, nil)
	bus := s.d.DDC()
	if err := bus.SetSpeed(0); !errors.Is(err, ErrInvalid) {
		t.Errorf("SetSpeed(0) = %v, want ErrInvalid", err)
	}
	if err := bus.SetSpeed(50 * physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	// 24MHz / 4 / 50kHz
	if got := s.rec.Get(regDDCBusFreqL.off()); got != 120 {
		t.Errorf("DDC divider = %d, want 120", got)
	}
}

func TestGetModes(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		hdmi    bool
		want    []string
	}{
		{"rk3036 dvi", RK3036, false, []string{"1920x1080@60"}},
		{"rk3036 hdmi", RK3036, true, []string{"1920x1080@60", "1280x720@60"}},
		{"jh7110 hdmi", JH7110, true, []string{"1920x1080@60", "3840x2160@30", "1280x720@60"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSink(t, testEDID(tt.hdmi), &Opts{Variant: tt.variant})
			modes, err := s.d.GetModes(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(modes) != len(tt.want) {
				t.Fatalf("GetModes() = %v, want %v", modes, tt.want)
			}
			for i := range modes {
				if got := modes[i].String(); got != tt.want[i] {
					t.Errorf("mode %d = %s, want %s", i, got, tt.want[i])
				}
			}
			if !modes[0].Preferred {
				t.Error("first mode is not preferred")
			}
			if s.d.IsHDMI() != tt.hdmi {
				t.Errorf("IsHDMI() = %t, want %t", s.d.IsHDMI(), tt.hdmi)
			}
		})
	}
}

func TestGetModesCanceled(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s := newSink(t, testEDID(false), &Opts{Clock: fc})
	s.silent = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.d.GetModes(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GetModes() = %v, want context.Canceled", err)
	}
	// Let the abandoned read finish.
	fc.BlockUntil(1)
	fc.Advance(edidReadyWait)
}
