package dc

import "github.com/flavioheleno/vsdisplay/kms"

// Hardware color formats.
const (
	hwX4R4G4B4    = 0x00
	hwA4R4G4B4    = 0x01
	hwX1R5G5B5    = 0x02
	hwA1R5G5B5    = 0x03
	hwR5G6B5      = 0x04
	hwX8R8G8B8    = 0x05
	hwA8R8G8B8    = 0x06
	hwYUY2        = 0x07
	hwUYVY        = 0x08
	hwYV12        = 0x0f
	hwNV12        = 0x11
	hwNV16        = 0x12
	hwA2R10G10B10 = 0x16
	hwP010        = 0x1b
	hwYUV444      = 0x1c
)

// Channel orders.
const (
	swizzleARGB = iota
	swizzleRGBA
	swizzleABGR
	swizzleBGRA
)

// Rotation and reflection codes.
const (
	rot0   = 0
	flipX  = 1
	flipY  = 2
	flipXY = 3
	rot90  = 4
	rot180 = 5
	rot270 = 6
)

// YUV color spaces.
const (
	colorSpace601  = 0
	colorSpace709  = 1
	colorSpace2020 = 3
)

// hwFormat maps f to the hardware format code. Unknown formats are scanned
// out as A8R8G8B8.
func hwFormat(f kms.Format) uint32 {
	switch f {
	case kms.XRGB4444, kms.RGBX4444, kms.XBGR4444, kms.BGRX4444:
		return hwX4R4G4B4
	case kms.ARGB4444, kms.RGBA4444, kms.ABGR4444, kms.BGRA4444:
		return hwA4R4G4B4
	case kms.XRGB1555, kms.RGBX5551, kms.XBGR1555, kms.BGRX5551:
		return hwX1R5G5B5
	case kms.ARGB1555, kms.RGBA5551, kms.ABGR1555, kms.BGRA5551:
		return hwA1R5G5B5
	case kms.RGB565, kms.BGR565:
		return hwR5G6B5
	case kms.XRGB8888, kms.RGBX8888, kms.XBGR8888, kms.BGRX8888:
		return hwX8R8G8B8
	case kms.ARGB8888, kms.RGBA8888, kms.ABGR8888, kms.BGRA8888:
		return hwA8R8G8B8
	case kms.YUYV, kms.YVYU:
		return hwYUY2
	case kms.UYVY, kms.VYUY:
		return hwUYVY
	case kms.YUV420, kms.YVU420:
		return hwYV12
	case kms.NV12, kms.NV21:
		return hwNV12
	case kms.NV16, kms.NV61:
		return hwNV16
	case kms.P010:
		return hwP010
	case kms.ARGB2101010, kms.RGBA1010102, kms.ABGR2101010, kms.BGRA1010102:
		return hwA2R10G10B10
	case kms.YUV444:
		return hwYUV444
	default:
		return hwA8R8G8B8
	}
}

// uvSwizzle reports whether the chroma order of f is V first.
func uvSwizzle(f kms.Format) uint32 {
	switch f {
	case kms.YVYU, kms.VYUY, kms.NV21, kms.NV61:
		return 1
	}
	return 0
}

func swizzle(f kms.Format) uint32 {
	switch f {
	case kms.RGBX4444, kms.RGBA4444, kms.RGBX5551, kms.RGBA5551,
		kms.RGBX8888, kms.RGBA8888, kms.RGBA1010102:
		return swizzleRGBA
	case kms.XBGR4444, kms.ABGR4444, kms.XBGR1555, kms.ABGR1555,
		kms.BGR565, kms.XBGR8888, kms.ABGR8888, kms.ABGR2101010:
		return swizzleABGR
	case kms.BGRX4444, kms.BGRA4444, kms.BGRX5551, kms.BGRA5551,
		kms.BGRX8888, kms.BGRA8888, kms.BGRA1010102:
		return swizzleBGRA
	}
	return swizzleARGB
}

// hwRotation maps r to the hardware code. A reflection takes precedence over
// the rotation.
func hwRotation(r kms.Rotation) uint32 {
	switch r & kms.ReflectMask {
	case kms.ReflectX:
		return flipX
	case kms.ReflectY:
		return flipY
	case kms.ReflectX | kms.ReflectY:
		return flipXY
	}
	switch r & kms.RotateMask {
	case kms.Rotate90:
		return rot90
	case kms.Rotate180:
		return rot180
	case kms.Rotate270:
		return rot270
	}
	return rot0
}

func colorSpace(e kms.ColorEncoding) uint32 {
	switch e {
	case kms.EncodingBT709:
		return colorSpace709
	case kms.EncodingBT2020:
		return colorSpace2020
	}
	return colorSpace601
}

func yuvToRGBTable(e kms.ColorEncoding) *[16]int32 {
	switch colorSpace(e) {
	case colorSpace709:
		return &yuv709ToRGB
	case colorSpace2020:
		return &yuv2020ToRGB
	}
	return &yuv601ToRGB
}
