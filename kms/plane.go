package kms

import "image"

// MaxPlanes is the maximum number of memory planes of a framebuffer.
const MaxPlanes = 4

// Framebuffer is a scan-out buffer in device memory.
type Framebuffer struct {
	Format   Format
	Modifier Modifier
	Width    int
	Height   int
	Pitches  [MaxPlanes]uint32
	Addrs    [MaxPlanes]uint64 // Device (bus) addresses
}

// Rect16 is a rectangle in 16.16 fixed point coordinates.
type Rect16 struct {
	X1, Y1, X2, Y2 int32
}

// Rect16FromRect converts an integer rectangle to 16.16 fixed point.
func Rect16FromRect(r image.Rectangle) Rect16 {
	return Rect16{
		X1: int32(r.Min.X) << 16,
		Y1: int32(r.Min.Y) << 16,
		X2: int32(r.Max.X) << 16,
		Y2: int32(r.Max.Y) << 16,
	}
}

// W returns the width in 16.16.
func (r Rect16) W() int32 { return r.X2 - r.X1 }

// H returns the height in 16.16.
func (r Rect16) H() int32 { return r.Y2 - r.Y1 }

// Rect returns the integer rectangle, truncating the fractional part.
func (r Rect16) Rect() image.Rectangle {
	return image.Rect(int(r.X1>>16), int(r.Y1>>16), int(r.X2>>16), int(r.Y2>>16))
}

// PlaneState is the requested state of one plane for a commit.
//
// A PlaneState belongs to a single pending commit. Use Clone before changing
// a state that is shared with a committed one.
type PlaneState struct {
	FB       *Framebuffer
	CRTC     int             // Panel the plane is attached to
	Src      Rect16          // Source in framebuffer coordinates
	Dst      image.Rectangle // Destination in CRTC coordinates, may be off-screen
	Rotation Rotation
	Alpha    uint16 // 0xffff is opaque
	Blend    BlendMode
	Zpos     int
	Encoding ColorEncoding
	Range    ColorRange

	// Set by the atomic check: Visible when Dst overlaps the active area,
	// and the source and destination clipped to it.
	Visible    bool
	ClippedSrc Rect16
	ClippedDst image.Rectangle

	// Cursor hotspot, only used by cursor planes.
	HotX, HotY int
}

// Clone returns a deep copy of s.
func (s *PlaneState) Clone() *PlaneState {
	if s == nil {
		return nil
	}
	c := *s
	if s.FB != nil {
		fb := *s.FB
		c.FB = &fb
	}
	return &c
}
