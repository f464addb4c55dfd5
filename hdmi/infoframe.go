package hdmi

import (
	"fmt"

	"github.com/flavioheleno/vsdisplay/internal/logging"
	"github.com/flavioheleno/vsdisplay/kms"
)

// InfoframeType is the HDMI infoframe packet type code.
type InfoframeType uint8

const (
	InfoframeVendor InfoframeType = 0x81
	InfoframeAVI    InfoframeType = 0x82
	InfoframeSPD    InfoframeType = 0x83
	InfoframeAudio  InfoframeType = 0x84
)

func (t InfoframeType) String() string {
	switch t {
	case InfoframeVendor:
		return "vendor"
	case InfoframeAVI:
		return "AVI"
	case InfoframeSPD:
		return "SPD"
	case InfoframeAudio:
		return "audio"
	default:
		return fmt.Sprintf("InfoframeType(0x%02x)", uint8(t))
	}
}

// Infoframe is a packet that can be serialized into the transmitter's packet
// buffer.
type Infoframe interface {
	Type() InfoframeType
	// Pack serializes the frame, header and checksum included, into buf and
	// returns the number of bytes used.
	Pack(buf []byte) (int, error)
}

const (
	aviVersion = 2
	aviLength  = 13
	headerSize = 4

	activeAspectPicture = 8
)

// AVIInfoframe is an auxiliary video information infoframe.
type AVIInfoframe struct {
	Colorspace      kms.Encoding
	ScanMode        uint8
	Colorimetry     kms.Colorimetry
	PictureAspect   kms.Aspect
	ActiveAspect    uint8
	ITC             bool
	ExtColorimetry  uint8
	Quantization    kms.QuantRange
	NUPS            uint8
	VIC             uint8
	YCCQuantization kms.YCCQuantRange
	ContentType     uint8
	PixelRepeat     uint8
	TopBar          uint16
	BottomBar       uint16
	LeftBar         uint16
	RightBar        uint16
}

// NewAVIInfoframe returns the AVI infoframe describing mode as RGB with
// default quantization.
func NewAVIInfoframe(mode *kms.Mode) *AVIInfoframe {
	f := &AVIInfoframe{
		Colorspace:   kms.EncodingRGB,
		VIC:          kms.MatchVIC(mode),
		ActiveAspect: activeAspectPicture,
	}
	if mode.Flags&kms.FlagDblClk != 0 {
		f.PixelRepeat = 1
	}
	f.PictureAspect = mode.Aspect
	if f.PictureAspect == kms.AspectNone && f.VIC != 0 {
		if m, ok := kms.VICMode(f.VIC); ok {
			f.PictureAspect = m.Aspect
		}
	}
	// The AVI aspect field only has room for 4:3 and 16:9; wider formats
	// are identified through the VIC alone.
	if f.PictureAspect > kms.Aspect16x9 {
		f.PictureAspect = kms.AspectNone
	}
	return f
}

// SetQuantization applies the connector's quantization policy: RGB output
// carries the negotiated RGB range, YCbCr output carries the default RGB
// range and limited YCC range.
func (f *AVIInfoframe) SetQuantization(s *ConnectorState) {
	if s.Encoding == kms.EncodingRGB {
		if s.RGBLimited {
			f.Quantization = kms.QuantLimited
		} else {
			f.Quantization = kms.QuantFull
		}
		f.YCCQuantization = kms.YCCQuantLimited
		return
	}
	f.Quantization = kms.QuantDefault
	f.YCCQuantization = kms.YCCQuantLimited
}

// Type implements Infoframe.
func (f *AVIInfoframe) Type() InfoframeType { return InfoframeAVI }

// Pack implements Infoframe.
func (f *AVIInfoframe) Pack(buf []byte) (int, error) {
	const size = headerSize + aviLength
	if len(buf) < size {
		return 0, fmt.Errorf("hdmi: infoframe needs %d bytes, have %d: %w", size, len(buf), ErrInfoframe)
	}
	if f.VIC > 0x7f || f.ActiveAspect > 0xf || f.Colorspace > kms.EncodingYUV420 {
		return 0, fmt.Errorf("hdmi: malformed AVI infoframe: %w", ErrInfoframe)
	}
	b := buf[:size]
	clear(b)
	b[0] = byte(InfoframeAVI)
	b[1] = aviVersion
	b[2] = aviLength

	p := b[headerSize:]
	p[0] = byte(f.Colorspace&0x3)<<5 | f.ScanMode&0x3
	if f.ActiveAspect&0xf != 0 {
		p[0] |= 1 << 4
	}
	if f.TopBar != 0 || f.BottomBar != 0 {
		p[0] |= 1 << 3
	}
	if f.LeftBar != 0 || f.RightBar != 0 {
		p[0] |= 1 << 2
	}
	colorimetry := f.Colorimetry
	if colorimetry == kms.ColorimetryITU2020 {
		colorimetry = kms.ColorimetryExtended
	}
	p[1] = byte(colorimetry&0x3)<<6 | byte(f.PictureAspect&0x3)<<4 | f.ActiveAspect&0xf
	p[2] = (f.ExtColorimetry&0x7)<<4 | byte(f.Quantization&0x3)<<2 | f.NUPS&0x3
	if f.ITC {
		p[2] |= 1 << 7
	}
	p[3] = f.VIC & 0x7f
	p[4] = byte(f.YCCQuantization&0x3)<<6 | (f.ContentType&0x3)<<4 | f.PixelRepeat&0xf
	putLE16(p[5:], f.TopBar)
	putLE16(p[7:], f.BottomBar)
	putLE16(p[9:], f.LeftBar)
	putLE16(p[11:], f.RightBar)

	var sum byte
	for _, c := range b {
		sum += c
	}
	b[3] = -sum
	return size, nil
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// UploadInfoframe serializes f and copies it into the packet buffer. Only
// AVI frames are supported; any other type fails with
// ErrUnsupportedInfoframe. On any error the hardware is left untouched.
func (d *Dev) UploadInfoframe(f Infoframe) error {
	if d.halted.Load() {
		return ErrHalted
	}
	return d.uploadInfoframe(f)
}

func (d *Dev) uploadInfoframe(f Infoframe) error {
	if f.Type() != InfoframeAVI {
		logging.Logger().Warn("hdmi: unsupported infoframe type", "type", f.Type())
		return fmt.Errorf("hdmi: %v infoframe: %w", f.Type(), ErrUnsupportedInfoframe)
	}
	var buf [maxInfoframeSize]byte
	n, err := f.Pack(buf[:])
	if err != nil {
		return fmt.Errorf("hdmi: failed to pack infoframe: %w", err)
	}
	d.writeb(regPacketBufIndex, packetAVI)
	for i := 0; i < n; i++ {
		d.writeb(regPacketAddr+reg(i), uint32(buf[i]))
	}
	return nil
}

// configAVI builds the AVI infoframe for mode and s and uploads it.
func (d *Dev) configAVI(mode *kms.Mode, s *ConnectorState) error {
	f := NewAVIInfoframe(mode)
	switch s.Encoding {
	case kms.EncodingYUV444, kms.EncodingYUV422:
		f.Colorspace = s.Encoding
	default:
		f.Colorspace = kms.EncodingRGB
	}
	f.SetQuantization(s)
	return d.uploadInfoframe(f)
}
