package fbimage

import (
	"image"
	"image/color"
	"testing"

	"github.com/flavioheleno/vsdisplay/kms"
)

func TestNewAligned(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		align      int
		wantPanic  bool
		wantStride int
		wantPixLen int
	}{
		{"1920x1080", image.Rect(0, 0, 1920, 1080), PitchAlign, false, 7680, 7680 * 1080},
		{"padded row", image.Rect(0, 0, 33, 2), PitchAlign, false, 256, 512},
		{"cursor", image.Rect(0, 0, 32, 32), PitchAlign, false, 128, 4096},
		{"no alignment", image.Rect(0, 0, 33, 2), 0, false, 132, 264},
		{"offset rect", image.Rect(10, 20, 14, 22), 16, false, 16, 32},
		{"bad alignment panics", image.Rect(0, 0, 4, 4), 48, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("panic = %v, want panic = %v", r != nil, tt.wantPanic)
				}
			}()

			img := NewAligned(tt.rect, tt.align)
			if img.Rect != tt.rect {
				t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
			}
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
		})
	}
}

func TestNewDefaultsToPitchAlign(t *testing.T) {
	img := New(image.Rect(0, 0, 1, 1))
	if img.Stride != PitchAlign {
		t.Errorf("Stride = %d, want %d", img.Stride, PitchAlign)
	}
}

func TestARGB8888MemoryLayout(t *testing.T) {
	img := New(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44})

	i := img.Stride + 4
	got := []byte{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
	want := []byte{0x33, 0x22, 0x11, 0x44}
	for k := range want {
		if got[k] != want[k] {
			t.Fatalf("Pix[%d:%d] = % x, want % x", i, i+4, got, want)
		}
	}
}

func TestARGB8888SetAt(t *testing.T) {
	img := New(image.Rect(0, 0, 4, 4))

	tests := []struct {
		name  string
		x, y  int
		input color.Color
		want  color.NRGBA
	}{
		{"opaque red", 0, 0, color.RGBA{R: 0xff, A: 0xff}, color.NRGBA{R: 0xff, A: 0xff}},
		{"white", 3, 3, color.White, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"half alpha", 1, 2, color.RGBA{G: 0x40, A: 0x80}, color.NRGBA{G: 0x7f, A: 0x80}},
		{"nrgba passthrough", 2, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, color.NRGBA{R: 1, G: 2, B: 3, A: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img.Set(tt.x, tt.y, tt.input)
			if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("NRGBAAt(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestARGB8888OutOfBounds(t *testing.T) {
	img := New(image.Rect(0, 0, 2, 2))
	img.Set(5, 5, color.White)
	img.SetNRGBA(-1, 0, color.NRGBA{A: 0xff})
	for _, b := range img.Pix {
		if b != 0 {
			t.Fatal("write outside bounds modified Pix")
		}
	}
	if got := img.NRGBAAt(2, 0); got != (color.NRGBA{}) {
		t.Errorf("NRGBAAt(2, 0) = %v, want zero", got)
	}
}

func TestARGB8888Opaque(t *testing.T) {
	img := New(image.Rect(0, 0, 3, 2))
	if img.Opaque() {
		t.Error("Opaque() = true for a transparent image")
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 0xff})
		}
	}
	if !img.Opaque() {
		t.Error("Opaque() = false for an opaque image")
	}
}

func TestARGB8888Framebuffer(t *testing.T) {
	img := New(image.Rect(0, 0, 100, 50))
	fb := img.Framebuffer(0x8000_0000)

	if fb.Format != kms.ARGB8888 || fb.Modifier != kms.ModLinear {
		t.Errorf("format = %v/%v, want ARGB8888/LINEAR", fb.Format, fb.Modifier)
	}
	if fb.Width != 100 || fb.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", fb.Width, fb.Height)
	}
	if fb.Pitches[0] != 512 {
		t.Errorf("Pitches[0] = %d, want 512", fb.Pitches[0])
	}
	if fb.Addrs[0] != 0x8000_0000 {
		t.Errorf("Addrs[0] = %#x, want 0x80000000", fb.Addrs[0])
	}
}

func TestScaleCursor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 0xff, 0xff
	}

	tests := []struct {
		name string
		size int
		want int
	}{
		{"32", 32, 32},
		{"64", 64, 64},
		{"48 quantized", 48, 32},
		{"zero", 0, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := ScaleCursor(src, tt.size)
			if cur.Rect != image.Rect(0, 0, tt.want, tt.want) {
				t.Fatalf("Rect = %v, want %dx%d", cur.Rect, tt.want, tt.want)
			}
			if cur.Stride != 4*tt.want {
				t.Errorf("Stride = %d, want %d", cur.Stride, 4*tt.want)
			}
			c := tt.want / 2
			if got := cur.NRGBAAt(c, c); got != (color.NRGBA{R: 0xff, A: 0xff}) {
				t.Errorf("NRGBAAt(%d, %d) = %v, want opaque red", c, c, got)
			}
		})
	}
}
