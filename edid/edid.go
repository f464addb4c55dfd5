// Package edid reads and decodes the Extended Display Identification Data of
// a display over its DDC bus.
//
// Only what mode-setting needs is decoded: identification, detailed timings,
// and from the CEA-861 extension the short video descriptors, the YCbCr
// capabilities and the HDMI vendor block.
package edid

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/vsdisplay/kms"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// BlockSize is the size of one EDID block.
const BlockSize = 128

// I²C addresses of the EDID and E-DDC segment pointer.
const (
	Addr        = 0x50
	SegmentAddr = 0x30
)

var (
	// ErrHeader is returned when block 0 does not start with the EDID header.
	ErrHeader = errors.New("edid: bad header")
	// ErrChecksum is returned when a block does not sum to zero.
	ErrChecksum = errors.New("edid: bad checksum")
	// ErrSize is returned when the data is not a whole number of blocks.
	ErrSize = errors.New("edid: bad size")
)

var header = [8]byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// Read fetches block 0 and every extension block from bus. Blocks past the
// first two are addressed through the segment pointer.
func Read(bus i2c.Bus) ([]byte, error) {
	dev := &i2c.Dev{Bus: bus, Addr: Addr}
	seg := &i2c.Dev{Bus: bus, Addr: SegmentAddr}

	raw := make([]byte, BlockSize)
	if err := dev.Tx([]byte{0}, raw); err != nil {
		return nil, fmt.Errorf("edid: failed to read block 0: %w", err)
	}
	if err := checkBase(raw); err != nil {
		return nil, err
	}
	n := int(raw[126])
	for i := 1; i <= n; i++ {
		blk := make([]byte, BlockSize)
		if s := byte(i / 2); s != 0 {
			if err := seg.Tx([]byte{s}, nil); err != nil {
				return nil, fmt.Errorf("edid: failed to set segment %d: %w", s, err)
			}
		}
		if err := dev.Tx([]byte{byte(i%2) * BlockSize}, blk); err != nil {
			return nil, fmt.Errorf("edid: failed to read block %d: %w", i, err)
		}
		if !sumsToZero(blk) {
			return nil, fmt.Errorf("edid: block %d: %w", i, ErrChecksum)
		}
		raw = append(raw, blk...)
	}
	return raw, nil
}

func checkBase(b []byte) error {
	if [8]byte(b[:8]) != header {
		return ErrHeader
	}
	if !sumsToZero(b[:BlockSize]) {
		return fmt.Errorf("edid: block 0: %w", ErrChecksum)
	}
	return nil
}

func sumsToZero(b []byte) bool {
	var s byte
	for _, c := range b {
		s += c
	}
	return s == 0
}

// EDID is the decoded subset of a display's EDID.
type EDID struct {
	Manufacturer string // Three letter PNP ID
	Product      uint16
	Serial       uint32
	Week, Year   int
	Version      uint8
	Revision     uint8
	Name         string // Monitor name descriptor, if any

	// From the CEA-861 extension.
	IsHDMI   bool
	YCbCr444 bool
	YCbCr422 bool
	VICs     []uint8

	// Detailed timings in descriptor order. The first one is the preferred
	// mode.
	Detailed []kms.Mode
}

// Parse decodes raw EDID data as returned by Read.
func Parse(raw []byte) (*EDID, error) {
	if len(raw) < BlockSize || len(raw)%BlockSize != 0 {
		return nil, fmt.Errorf("edid: %d bytes: %w", len(raw), ErrSize)
	}
	if err := checkBase(raw); err != nil {
		return nil, err
	}
	e := &EDID{
		Manufacturer: pnpID(uint16(raw[8])<<8 | uint16(raw[9])),
		Product:      uint16(raw[10]) | uint16(raw[11])<<8,
		Serial:       uint32(raw[12]) | uint32(raw[13])<<8 | uint32(raw[14])<<16 | uint32(raw[15])<<24,
		Week:         int(raw[16]),
		Year:         int(raw[17]) + 1990,
		Version:      raw[18],
		Revision:     raw[19],
	}
	for off := 54; off < 126; off += 18 {
		e.descriptor(raw[off : off+18])
	}
	if len(e.Detailed) != 0 {
		e.Detailed[0].Preferred = true
	}
	for blk := 1; blk < len(raw)/BlockSize; blk++ {
		b := raw[blk*BlockSize : (blk+1)*BlockSize]
		if !sumsToZero(b) {
			return nil, fmt.Errorf("edid: block %d: %w", blk, ErrChecksum)
		}
		if b[0] == 0x02 {
			e.cea(b)
		}
	}
	return e, nil
}

func pnpID(v uint16) string {
	return string([]byte{
		byte(v>>10&0x1f) + 'A' - 1,
		byte(v>>5&0x1f) + 'A' - 1,
		byte(v&0x1f) + 'A' - 1,
	})
}

// descriptor decodes one 18-byte descriptor.
func (e *EDID) descriptor(b []byte) {
	if b[0] != 0 || b[1] != 0 {
		if m, ok := detailedTiming(b); ok {
			e.Detailed = append(e.Detailed, m)
		}
		return
	}
	if b[3] == 0xfc {
		e.Name = descriptorText(b[5:18])
	}
}

func descriptorText(b []byte) string {
	for i, c := range b {
		if c == 0x0a {
			b = b[:i]
			break
		}
	}
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return string(b)
}

// detailedTiming converts a detailed timing descriptor to a mode.
func detailedTiming(b []byte) (kms.Mode, bool) {
	clock := int64(b[0]) | int64(b[1])<<8
	hActive := int(b[2]) | int(b[4]&0xf0)<<4
	hBlank := int(b[3]) | int(b[4]&0x0f)<<8
	vActive := int(b[5]) | int(b[7]&0xf0)<<4
	vBlank := int(b[6]) | int(b[7]&0x0f)<<8
	hSyncOff := int(b[8]) | int(b[11]&0xc0)<<2
	hSyncW := int(b[9]) | int(b[11]&0x30)<<4
	vSyncOff := int(b[10]>>4) | int(b[11]&0x0c)<<2
	vSyncW := int(b[10]&0x0f) | int(b[11]&0x03)<<4
	if hActive == 0 || vActive == 0 || hSyncW == 0 || vSyncW == 0 {
		return kms.Mode{}, false
	}

	m := kms.Mode{
		Clock:      physic.Frequency(clock) * 10 * physic.KiloHertz,
		HDisplay:   hActive,
		HSyncStart: hActive + hSyncOff,
		HSyncEnd:   hActive + hSyncOff + hSyncW,
		HTotal:     hActive + hBlank,
		VDisplay:   vActive,
		VSyncStart: vActive + vSyncOff,
		VSyncEnd:   vActive + vSyncOff + vSyncW,
		VTotal:     vActive + vBlank,
	}
	flags := b[17]
	if flags&0x18 == 0x18 {
		if flags&0x02 != 0 {
			m.Flags |= kms.FlagPHSync
		} else {
			m.Flags |= kms.FlagNHSync
		}
		if flags&0x04 != 0 {
			m.Flags |= kms.FlagPVSync
		} else {
			m.Flags |= kms.FlagNVSync
		}
	}
	if flags&0x80 != 0 {
		// Field values; modes carry frame lines.
		m.Flags |= kms.FlagInterlace
		m.VDisplay *= 2
		m.VSyncStart *= 2
		m.VSyncEnd *= 2
		m.VTotal = m.VTotal*2 | 1
	}
	return m, true
}

// hdmiOUI is the IEEE OUI of the HDMI Licensing vendor block.
const hdmiOUI = 0x000c03

// cea decodes a CEA-861 extension block.
func (e *EDID) cea(b []byte) {
	dtd := int(b[2])
	if b[1] >= 2 {
		e.YCbCr444 = b[3]&0x20 != 0
		e.YCbCr422 = b[3]&0x10 != 0
	}
	if dtd < 4 || dtd > 127 {
		dtd = 127
	}
	for i := 4; i < dtd; {
		tag, n := b[i]>>5, int(b[i]&0x1f)
		if i+1+n > dtd {
			break
		}
		data := b[i+1 : i+1+n]
		switch tag {
		case 2:
			for _, svd := range data {
				vic := svd
				if svd >= 129 && svd <= 192 {
					vic = svd & 0x7f
				}
				e.VICs = append(e.VICs, vic)
			}
		case 3:
			if n >= 3 && uint32(data[0])|uint32(data[1])<<8|uint32(data[2])<<16 == hdmiOUI {
				e.IsHDMI = true
			}
		}
		i += 1 + n
	}
	for off := dtd; off+18 <= 127 && b[2] >= 4; off += 18 {
		if b[off] == 0 && b[off+1] == 0 {
			break
		}
		if m, ok := detailedTiming(b[off : off+18]); ok {
			e.Detailed = append(e.Detailed, m)
		}
	}
}

// Modes returns the modes advertised by the display without duplicates:
// detailed timings first, the preferred one leading, then the CEA short
// video descriptors the kms package knows about.
func (e *EDID) Modes() []kms.Mode {
	var out []kms.Mode
	add := func(m kms.Mode) {
		for i := range out {
			if out[i].Equal(&m) {
				return
			}
		}
		out = append(out, m)
	}
	for _, m := range e.Detailed {
		add(m)
	}
	for _, vic := range e.VICs {
		if m, ok := kms.VICMode(vic); ok {
			add(m)
		}
	}
	return out
}
