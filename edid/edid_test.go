package edid

import (
	"errors"
	"testing"

	"github.com/flavioheleno/vsdisplay/kms"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// dtd1080p60 is the detailed timing descriptor of CEA 1920x1080@60.
var dtd1080p60 = []byte{
	0x02, 0x3a, 0x80, 0x18, 0x71, 0x38, 0x2d, 0x40,
	0x58, 0x2c, 0x45, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1e,
}

func seal(b []byte) []byte {
	var s byte
	for _, c := range b[:BlockSize-1] {
		s += c
	}
	b[BlockSize-1] = -s
	return b
}

func baseBlock(ext byte) []byte {
	b := make([]byte, BlockSize)
	copy(b, header[:])
	// "ABC": 00001 00010 00011
	b[8], b[9] = 0x04, 0x43
	b[10], b[11] = 0x34, 0x12
	b[12] = 0x01
	b[16], b[17] = 10, 30
	b[18], b[19] = 1, 3
	copy(b[54:], dtd1080p60)
	copy(b[72:], []byte{0, 0, 0, 0xfc, 0, 'T', 'e', 's', 't', ' ', 'T', 'V', 0x0a, ' ', ' ', ' ', ' ', ' '})
	b[126] = ext
	return seal(b)
}

func ceaBlock(hdmi bool) []byte {
	b := make([]byte, BlockSize)
	b[0], b[1], b[3] = 0x02, 3, 0x30
	i := 4
	// Video data block: VIC 16 (native) and VIC 4.
	b[i], b[i+1], b[i+2] = 2<<5|2, 0x80|16, 4
	i += 3
	if hdmi {
		b[i], b[i+1], b[i+2], b[i+3], b[i+4], b[i+5] = 3<<5|5, 0x03, 0x0c, 0x00, 0x10, 0x00
		i += 6
	}
	b[2] = byte(i)
	return seal(b)
}

func TestParse(t *testing.T) {
	raw := append(baseBlock(1), ceaBlock(true)...)
	e, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if e.Manufacturer != "ABC" {
		t.Errorf("Manufacturer = %q, want ABC", e.Manufacturer)
	}
	if e.Product != 0x1234 || e.Serial != 1 || e.Year != 2020 || e.Week != 10 {
		t.Errorf("identification = %#x %d %d/%d", e.Product, e.Serial, e.Week, e.Year)
	}
	if e.Name != "Test TV" {
		t.Errorf("Name = %q, want %q", e.Name, "Test TV")
	}
	if !e.IsHDMI || !e.YCbCr444 || !e.YCbCr422 {
		t.Errorf("IsHDMI/444/422 = %t/%t/%t, want all true", e.IsHDMI, e.YCbCr444, e.YCbCr422)
	}
	if len(e.VICs) != 2 || e.VICs[0] != 16 || e.VICs[1] != 4 {
		t.Errorf("VICs = %v, want [16 4]", e.VICs)
	}
	if len(e.Detailed) != 1 {
		t.Fatalf("len(Detailed) = %d, want 1", len(e.Detailed))
	}
	want, _ := kms.VICMode(16)
	got := e.Detailed[0]
	if !got.Equal(&want) {
		t.Errorf("Detailed[0] = %+v, want %+v", got, want)
	}
	if !got.Preferred {
		t.Error("first detailed timing is not preferred")
	}
	if got.Clock != 148500*physic.KiloHertz {
		t.Errorf("Clock = %s, want 148.5MHz", got.Clock)
	}
}

func TestParseDVI(t *testing.T) {
	e, err := Parse(append(baseBlock(1), ceaBlock(false)...))
	if err != nil {
		t.Fatal(err)
	}
	if e.IsHDMI {
		t.Error("IsHDMI = true without an HDMI vendor block")
	}
}

func TestParseErrors(t *testing.T) {
	badHeader := baseBlock(0)
	badHeader[0] = 0xff
	badSum := baseBlock(0)
	badSum[20]++
	badExt := append(baseBlock(1), ceaBlock(true)...)
	badExt[BlockSize+10]++

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"short", make([]byte, 100), ErrSize},
		{"partial block", append(baseBlock(0), 0), ErrSize},
		{"header", seal(badHeader), ErrHeader},
		{"checksum", badSum, ErrChecksum},
		{"extension checksum", badExt, ErrChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("Parse() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestModes(t *testing.T) {
	e, err := Parse(append(baseBlock(1), ceaBlock(true)...))
	if err != nil {
		t.Fatal(err)
	}
	modes := e.Modes()
	// VIC 16 duplicates the detailed timing.
	if len(modes) != 2 {
		t.Fatalf("len(Modes()) = %d, want 2: %v", len(modes), modes)
	}
	if !modes[0].Preferred || modes[0].HDisplay != 1920 {
		t.Errorf("Modes()[0] = %v, want preferred 1920x1080", &modes[0])
	}
	if modes[1].HDisplay != 1280 || modes[1].VDisplay != 720 {
		t.Errorf("Modes()[1] = %v, want 1280x720", &modes[1])
	}
}

func TestDetailedTimingInterlaced(t *testing.T) {
	// 1920x1080i: 540 lines per field.
	d := []byte{
		0x01, 0x1d, 0x80, 0x18, 0x71, 0x1c, 0x16, 0x20,
		0x58, 0x2c, 0x25, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x9e,
	}
	m, ok := detailedTiming(d)
	if !ok {
		t.Fatal("detailedTiming() rejected descriptor")
	}
	if !m.Interlaced() {
		t.Error("mode is not interlaced")
	}
	if m.VDisplay != 1080 || m.VTotal != 1125 {
		t.Errorf("VDisplay/VTotal = %d/%d, want 1080/1125", m.VDisplay, m.VTotal)
	}
	if m.Clock != 74250*physic.KiloHertz {
		t.Errorf("Clock = %s, want 74.25MHz", m.Clock)
	}
}

func TestRead(t *testing.T) {
	b0 := baseBlock(2)
	b1 := ceaBlock(true)
	b2 := ceaBlock(false)
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{0}, R: b0},
			{Addr: Addr, W: []byte{BlockSize}, R: b1},
			{Addr: SegmentAddr, W: []byte{1}},
			{Addr: Addr, W: []byte{0}, R: b2},
		},
		DontPanic: true,
	}
	raw, err := Read(&bus)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 3*BlockSize {
		t.Fatalf("len(Read()) = %d, want %d", len(raw), 3*BlockSize)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestReadErrors(t *testing.T) {
	bad := baseBlock(1)
	bad[30]++
	badExt := ceaBlock(true)
	badExt[5]++

	tests := []struct {
		name string
		ops  []i2ctest.IO
		want error
	}{
		{"base checksum", []i2ctest.IO{{Addr: Addr, W: []byte{0}, R: bad}}, ErrChecksum},
		{"extension checksum", []i2ctest.IO{
			{Addr: Addr, W: []byte{0}, R: baseBlock(1)},
			{Addr: Addr, W: []byte{BlockSize}, R: badExt},
		}, ErrChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := i2ctest.Playback{Ops: tt.ops, DontPanic: true}
			if _, err := Read(&bus); !errors.Is(err, tt.want) {
				t.Errorf("Read() = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("bus error", func(t *testing.T) {
		bus := i2ctest.Playback{DontPanic: true}
		if _, err := Read(&bus); err == nil {
			t.Error("Read() on empty playback succeeded")
		}
	})
}
