package fbimage

import (
	"image"
	"image/color"

	"github.com/flavioheleno/vsdisplay/kms"
	"golang.org/x/image/draw"
)

// PitchAlign is the stride alignment in bytes of the DC8200 layers.
const PitchAlign = 128

// ARGBModel converts colors to color.NRGBA, the color type of ARGB8888.
var ARGBModel = color.NRGBAModel

// ARGB8888 is an image whose pixels are 32-bit little-endian 0xAARRGGBB
// words, not premultiplied.
type ARGB8888 struct {
	Pix    []byte          // Pixel data, 4 bytes per pixel
	Stride int             // Bytes per row, including padding
	Rect   image.Rectangle // Image bounds
}

// New returns an image with bounds r and a stride aligned to PitchAlign.
func New(r image.Rectangle) *ARGB8888 {
	return NewAligned(r, PitchAlign)
}

// NewAligned returns an image with bounds r and a stride that is a multiple
// of align bytes. align must be a power of two, or zero for no padding.
func NewAligned(r image.Rectangle, align int) *ARGB8888 {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &ARGB8888{Rect: r}
	}
	if align&(align-1) != 0 {
		panic("fbimage: alignment must be a power of two")
	}
	stride := 4 * w
	if align > 0 {
		stride = (stride + align - 1) &^ (align - 1)
	}
	return &ARGB8888{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns ARGBModel.
func (p *ARGB8888) ColorModel() color.Model {
	return ARGBModel
}

// Bounds returns the image bounds.
func (p *ARGB8888) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *ARGB8888) At(x, y int) color.Color {
	return p.NRGBAAt(x, y)
}

// NRGBAAt returns the color of the pixel at (x, y).
func (p *ARGB8888) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return color.NRGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	return color.NRGBA{R: s[2], G: s[1], B: s[0], A: s[3]}
}

// Set implements draw.Image.
func (p *ARGB8888) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.SetNRGBA(x, y, ARGBModel.Convert(c).(color.NRGBA))
}

// SetNRGBA sets the pixel at (x, y) without color conversion.
func (p *ARGB8888) SetNRGBA(x, y int, c color.NRGBA) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c.B, c.G, c.R, c.A
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *ARGB8888) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

// Opaque reports whether every pixel is fully opaque.
func (p *ARGB8888) Opaque() bool {
	if p.Rect.Empty() {
		return true
	}
	w := 4 * p.Rect.Dx()
	for y := 0; y < p.Rect.Dy(); y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+w]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return false
			}
		}
	}
	return true
}

// Framebuffer describes p, loaded at physical address addr, as a single
// plane ARGB8888 framebuffer.
func (p *ARGB8888) Framebuffer(addr uint64) *kms.Framebuffer {
	fb := &kms.Framebuffer{
		Format:   kms.ARGB8888,
		Modifier: kms.ModLinear,
		Width:    p.Rect.Dx(),
		Height:   p.Rect.Dy(),
	}
	fb.Pitches[0] = uint32(p.Stride)
	fb.Addrs[0] = addr
	return fb
}

// CursorSize returns the cursor size the hardware uses for a requested size:
// 64 stays 64, anything else is 32.
func CursorSize(size int) int {
	if size == 64 {
		return 64
	}
	return 32
}

// ScaleCursor scales src into a square cursor image of CursorSize(size)
// pixels.
func ScaleCursor(src image.Image, size int) *ARGB8888 {
	size = CursorSize(size)
	dst := NewAligned(image.Rect(0, 0, size, size), 0)
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}
