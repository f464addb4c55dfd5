package kms

import "fmt"

// Colorimetry is the colorimetry signalled to an HDMI sink.
type Colorimetry uint8

const (
	ColorimetryNone Colorimetry = iota
	ColorimetryITU601
	ColorimetryITU709
	ColorimetryExtended
	ColorimetryITU2020 // Signalled as extended colorimetry
)

func (c Colorimetry) String() string {
	switch c {
	case ColorimetryNone:
		return "none"
	case ColorimetryITU601:
		return "ITU-601"
	case ColorimetryITU709:
		return "ITU-709"
	case ColorimetryExtended:
		return "extended"
	case ColorimetryITU2020:
		return "ITU-2020"
	default:
		return fmt.Sprintf("Colorimetry(%d)", uint8(c))
	}
}

// Encoding is the output color encoding on the TMDS link. The values are the
// AVI infoframe Y field.
type Encoding uint8

const (
	EncodingRGB Encoding = iota
	EncodingYUV422
	EncodingYUV444
	EncodingYUV420
)

func (e Encoding) String() string {
	switch e {
	case EncodingRGB:
		return "RGB"
	case EncodingYUV422:
		return "YUV422"
	case EncodingYUV444:
		return "YUV444"
	case EncodingYUV420:
		return "YUV420"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// QuantRange is the RGB quantization range. The values are the AVI
// infoframe Q field.
type QuantRange uint8

const (
	QuantDefault QuantRange = iota
	QuantLimited
	QuantFull
)

func (q QuantRange) String() string {
	switch q {
	case QuantDefault:
		return "default"
	case QuantLimited:
		return "limited"
	case QuantFull:
		return "full"
	default:
		return fmt.Sprintf("QuantRange(%d)", uint8(q))
	}
}

// YCCQuantRange is the YCC quantization range. The values are the AVI
// infoframe YQ field.
type YCCQuantRange uint8

const (
	YCCQuantLimited YCCQuantRange = iota
	YCCQuantFull
)

// BusFormat is a media bus format code describing the pixel layout on the
// link between the display controller and the encoder.
type BusFormat uint32

const (
	BusFixed           BusFormat = 0x0001
	BusRGB666_1X18     BusFormat = 0x1009
	BusRGB888_1X24     BusFormat = 0x100a
	BusRGB666_1X24     BusFormat = 0x1015 // CPADHI
	BusRGB565_1X16     BusFormat = 0x1017
	BusRGB101010_1X30  BusFormat = 0x1018
	BusUYVY8_1X16      BusFormat = 0x200f
	BusYUV10_1X30      BusFormat = 0x2016
	BusUYVY10_1X20     BusFormat = 0x201a
	BusYUV8_1X24       BusFormat = 0x2025
	BusUYYVYY8_0_5X24  BusFormat = 0x2026
	BusUYYVYY10_0_5X30 BusFormat = 0x2027
)

func (b BusFormat) String() string {
	switch b {
	case BusFixed:
		return "FIXED"
	case BusRGB666_1X18:
		return "RGB666_1X18"
	case BusRGB888_1X24:
		return "RGB888_1X24"
	case BusRGB666_1X24:
		return "RGB666_1X24_CPADHI"
	case BusRGB565_1X16:
		return "RGB565_1X16"
	case BusRGB101010_1X30:
		return "RGB101010_1X30"
	case BusUYVY8_1X16:
		return "UYVY8_1X16"
	case BusYUV10_1X30:
		return "YUV10_1X30"
	case BusUYVY10_1X20:
		return "UYVY10_1X20"
	case BusYUV8_1X24:
		return "YUV8_1X24"
	case BusUYYVYY8_0_5X24:
		return "UYYVYY8_0_5X24"
	case BusUYYVYY10_0_5X30:
		return "UYYVYY10_0_5X30"
	default:
		return fmt.Sprintf("BusFormat(0x%04x)", uint32(b))
	}
}

// EncoderType identifies the kind of encoder fed by a display output.
type EncoderType uint8

const (
	EncoderNone EncoderType = iota
	EncoderDAC
	EncoderTMDS
	EncoderLVDS
	EncoderTVDAC
	EncoderVirtual
	EncoderDSI
	EncoderDPMST
	EncoderDPI
)

func (e EncoderType) String() string {
	switch e {
	case EncoderNone:
		return "none"
	case EncoderTMDS:
		return "TMDS"
	case EncoderDSI:
		return "DSI"
	case EncoderDPI:
		return "DPI"
	default:
		return fmt.Sprintf("EncoderType(%d)", uint8(e))
	}
}

// ColorLUT is one gamma table entry with 16-bit channels.
type ColorLUT struct {
	R, G, B uint16
}

// ExtractLUT keeps the top bits of a 16-bit channel value, rounding to
// nearest and clamping to the bit range.
func ExtractLUT(v uint16, bits uint) uint32 {
	val := uint32(v)
	if bits == 0 || bits >= 16 {
		return val
	}
	max := uint32(0xffff) >> (16 - bits)
	val += 1 << (16 - bits - 1)
	val >>= 16 - bits
	if val > max {
		val = max
	}
	return val
}
