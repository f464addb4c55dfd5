package kms

import "fmt"

// Format is a DRM fourcc pixel format code.
type Format uint32

func fourcc(a, b, c, d byte) Format {
	return Format(a) | Format(b)<<8 | Format(c)<<16 | Format(d)<<24
}

// Pixel formats scanned out by the display controller.
var (
	RGB565      = fourcc('R', 'G', '1', '6')
	BGR565      = fourcc('B', 'G', '1', '6')
	XRGB8888    = fourcc('X', 'R', '2', '4')
	XBGR8888    = fourcc('X', 'B', '2', '4')
	RGBX8888    = fourcc('R', 'X', '2', '4')
	BGRX8888    = fourcc('B', 'X', '2', '4')
	ARGB8888    = fourcc('A', 'R', '2', '4')
	ABGR8888    = fourcc('A', 'B', '2', '4')
	RGBA8888    = fourcc('R', 'A', '2', '4')
	BGRA8888    = fourcc('B', 'A', '2', '4')
	XRGB4444    = fourcc('X', 'R', '1', '2')
	XBGR4444    = fourcc('X', 'B', '1', '2')
	RGBX4444    = fourcc('R', 'X', '1', '2')
	BGRX4444    = fourcc('B', 'X', '1', '2')
	ARGB4444    = fourcc('A', 'R', '1', '2')
	ABGR4444    = fourcc('A', 'B', '1', '2')
	RGBA4444    = fourcc('R', 'A', '1', '2')
	BGRA4444    = fourcc('B', 'A', '1', '2')
	XRGB1555    = fourcc('X', 'R', '1', '5')
	XBGR1555    = fourcc('X', 'B', '1', '5')
	RGBX5551    = fourcc('R', 'X', '1', '5')
	BGRX5551    = fourcc('B', 'X', '1', '5')
	ARGB1555    = fourcc('A', 'R', '1', '5')
	ABGR1555    = fourcc('A', 'B', '1', '5')
	RGBA5551    = fourcc('R', 'A', '1', '5')
	BGRA5551    = fourcc('B', 'A', '1', '5')
	ARGB2101010 = fourcc('A', 'R', '3', '0')
	ABGR2101010 = fourcc('A', 'B', '3', '0')
	RGBA1010102 = fourcc('R', 'A', '3', '0')
	BGRA1010102 = fourcc('B', 'A', '3', '0')
	YUYV        = fourcc('Y', 'U', 'Y', 'V')
	YVYU        = fourcc('Y', 'V', 'Y', 'U')
	UYVY        = fourcc('U', 'Y', 'V', 'Y')
	VYUY        = fourcc('V', 'Y', 'U', 'Y')
	YVU420      = fourcc('Y', 'V', '1', '2')
	YUV420      = fourcc('Y', 'U', '1', '2')
	YUV444      = fourcc('Y', 'U', '2', '4')
	NV12        = fourcc('N', 'V', '1', '2')
	NV21        = fourcc('N', 'V', '2', '1')
	NV16        = fourcc('N', 'V', '1', '6')
	NV61        = fourcc('N', 'V', '6', '1')
	P010        = fourcc('P', '0', '1', '0')
)

func (f Format) String() string {
	b := []byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("Format(0x%08x)", uint32(f))
		}
	}
	return string(b)
}

// FormatInfo describes the memory layout of a pixel format.
type FormatInfo struct {
	Planes int  // Number of memory planes
	YUV    bool // Luma/chroma encoded
	CPP    int  // Bytes per pixel of plane 0
	HSub   int  // Horizontal chroma subsampling
	VSub   int  // Vertical chroma subsampling
}

// Info returns the layout of f. Unknown formats are reported as 32-bit
// single plane RGB.
func (f Format) Info() FormatInfo {
	switch f {
	case RGB565, BGR565,
		XRGB4444, XBGR4444, RGBX4444, BGRX4444, ARGB4444, ABGR4444, RGBA4444, BGRA4444,
		XRGB1555, XBGR1555, RGBX5551, BGRX5551, ARGB1555, ABGR1555, RGBA5551, BGRA5551:
		return FormatInfo{Planes: 1, CPP: 2, HSub: 1, VSub: 1}
	case YUYV, YVYU, UYVY, VYUY:
		return FormatInfo{Planes: 1, YUV: true, CPP: 2, HSub: 2, VSub: 1}
	case NV12, NV21:
		return FormatInfo{Planes: 2, YUV: true, CPP: 1, HSub: 2, VSub: 2}
	case NV16, NV61:
		return FormatInfo{Planes: 2, YUV: true, CPP: 1, HSub: 2, VSub: 1}
	case P010:
		return FormatInfo{Planes: 2, YUV: true, CPP: 2, HSub: 2, VSub: 2}
	case YUV420, YVU420:
		return FormatInfo{Planes: 3, YUV: true, CPP: 1, HSub: 2, VSub: 2}
	case YUV444:
		return FormatInfo{Planes: 3, YUV: true, CPP: 1, HSub: 1, VSub: 1}
	default:
		return FormatInfo{Planes: 1, CPP: 4, HSub: 1, VSub: 1}
	}
}

// Modifier is a DRM framebuffer layout modifier.
type Modifier uint64

const (
	ModLinear  Modifier = 0
	ModInvalid Modifier = 1<<56 - 1
)

func (m Modifier) String() string {
	switch m {
	case ModLinear:
		return "LINEAR"
	case ModInvalid:
		return "INVALID"
	default:
		return fmt.Sprintf("Modifier(0x%x)", uint64(m))
	}
}

// Rotation is a set of DRM rotation and reflection bits.
type Rotation uint32

const (
	Rotate0   Rotation = 1 << 0
	Rotate90  Rotation = 1 << 1
	Rotate180 Rotation = 1 << 2
	Rotate270 Rotation = 1 << 3
	ReflectX  Rotation = 1 << 4
	ReflectY  Rotation = 1 << 5

	RotateMask  = Rotate0 | Rotate90 | Rotate180 | Rotate270
	ReflectMask = ReflectX | ReflectY
)

// Swaps reports whether the rotation exchanges width and height.
func (r Rotation) Swaps() bool {
	return r&(Rotate90|Rotate270) != 0
}

// BlendMode is the pixel blend mode of a plane.
type BlendMode uint8

const (
	BlendPremulti BlendMode = iota
	BlendCoverage
	BlendPixelNone
)

func (b BlendMode) String() string {
	switch b {
	case BlendPremulti:
		return "Pre-multiplied"
	case BlendCoverage:
		return "Coverage"
	case BlendPixelNone:
		return "None"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(b))
	}
}

// ColorEncoding is the YCbCr encoding of a YUV framebuffer.
type ColorEncoding uint8

const (
	EncodingBT601 ColorEncoding = iota
	EncodingBT709
	EncodingBT2020
)

// ColorRange is the YCbCr range of a YUV framebuffer.
type ColorRange uint8

const (
	RangeLimited ColorRange = iota
	RangeFull
)
