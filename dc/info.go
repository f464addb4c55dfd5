package dc

import (
	"fmt"

	"github.com/flavioheleno/vsdisplay/kms"
)

// PlaneID identifies a hardware plane. Layers come first, in hardware
// order, followed by the cursors.
type PlaneID uint8

const (
	Primary0 PlaneID = iota
	Overlay0
	Overlay1
	Primary1
	Overlay2
	Overlay3
	Cursor0
	Cursor1
)

func (id PlaneID) String() string {
	switch id {
	case Primary0:
		return "primary0"
	case Overlay0:
		return "overlay0"
	case Overlay1:
		return "overlay1"
	case Primary1:
		return "primary1"
	case Overlay2:
		return "overlay2"
	case Overlay3:
		return "overlay3"
	case Cursor0:
		return "cursor0"
	case Cursor1:
		return "cursor1"
	default:
		return fmt.Sprintf("PlaneID(%d)", uint8(id))
	}
}

// Primary reports whether id uses the primary layer register layout.
func (id PlaneID) Primary() bool {
	return id == Primary0 || id == Primary1
}

// Cursor reports whether id is a cursor plane.
func (id PlaneID) Cursor() bool {
	return id == Cursor0 || id == Cursor1
}

// channel returns the register offset of the layer within its layout.
func (id PlaneID) channel() uint32 {
	switch id {
	case Overlay1, Primary1:
		return 0x04
	case Overlay2:
		return 0x08
	case Overlay3:
		return 0x0c
	}
	return 0
}

// NoScaling is the 16.16 scale of a plane that cannot scale.
const NoScaling = 1 << 16

func frac16(mul, div int32) int32 {
	return (mul << 16) / div
}

// PlaneInfo is the static capability descriptor of a plane.
type PlaneInfo struct {
	ID        PlaneID
	Formats   []kms.Format
	Modifiers []kms.Modifier

	// Advertised framebuffer size envelope.
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int

	// Scale range as src/dst in 16.16.
	MinScale, MaxScale int32

	Rotation  kms.Rotation
	Encodings []kms.ColorEncoding
	Zpos      int
}

// SupportsFormat reports whether f is in the plane's format list.
func (p *PlaneInfo) SupportsFormat(f kms.Format) bool {
	for _, x := range p.Formats {
		if x == f {
			return true
		}
	}
	return false
}

// SupportsModifier reports whether m is in the plane's modifier list.
// LINEAR is always accepted.
func (p *PlaneInfo) SupportsModifier(m kms.Modifier) bool {
	if m == kms.ModLinear {
		return true
	}
	for _, x := range p.Modifiers {
		if x == kms.ModInvalid {
			break
		}
		if x == m {
			return true
		}
	}
	return false
}

// Info is the static capability descriptor of a display controller.
type Info struct {
	Name       string
	Panels     int
	Layers     int
	Cursors    int
	Planes     []PlaneInfo // Layers then cursors
	GammaSize  int
	GammaBits  uint
	PitchAlign int
}

// Plane returns the descriptor of plane id.
func (i *Info) Plane(id PlaneID) (*PlaneInfo, bool) {
	for k := range i.Planes {
		if i.Planes[k].ID == id {
			return &i.Planes[k], true
		}
	}
	return nil, false
}

func (i *Info) validate() error {
	if i.Panels < 1 || i.Panels > 2 {
		return fmt.Errorf("dc: %s: %d panels, want 1 or 2", i.Name, i.Panels)
	}
	if i.Cursors > i.Panels {
		return fmt.Errorf("dc: %s: more cursors than panels", i.Name)
	}
	if len(i.Planes) != i.Layers+i.Cursors {
		return fmt.Errorf("dc: %s: %d plane descriptors, want %d", i.Name, len(i.Planes), i.Layers+i.Cursors)
	}
	seen := map[PlaneID]bool{}
	for k, p := range i.Planes {
		if p.ID > Cursor1 || seen[p.ID] {
			return fmt.Errorf("dc: %s: bad plane %s", i.Name, p.ID)
		}
		if (k < i.Layers) == p.ID.Cursor() {
			return fmt.Errorf("dc: %s: plane %s out of order", i.Name, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

var planeFormats = []kms.Format{
	kms.RGB565, kms.BGR565,
	kms.XRGB8888, kms.XBGR8888, kms.RGBX8888, kms.BGRX8888,
	kms.ARGB8888, kms.ABGR8888, kms.RGBA8888, kms.BGRA8888,
	kms.XRGB4444, kms.XBGR4444, kms.RGBX4444, kms.BGRX4444,
	kms.ARGB4444, kms.ABGR4444, kms.RGBA4444, kms.BGRA4444,
	kms.XRGB1555, kms.XBGR1555, kms.RGBX5551, kms.BGRX5551,
	kms.ARGB1555, kms.ABGR1555, kms.RGBA5551, kms.BGRA5551,
	kms.ARGB2101010, kms.ABGR2101010, kms.RGBA1010102, kms.BGRA1010102,
	kms.YUYV, kms.YVYU, kms.UYVY, kms.VYUY,
	kms.YVU420, kms.YUV420,
	kms.NV12, kms.NV21, kms.NV16, kms.NV61,
	kms.P010,
}

var linearOnly = []kms.Modifier{kms.ModLinear, kms.ModInvalid}

const allRotations = kms.Rotate0 | kms.Rotate90 | kms.Rotate180 | kms.Rotate270 | kms.ReflectX | kms.ReflectY

var hdEncodings = []kms.ColorEncoding{kms.EncodingBT709, kms.EncodingBT2020}

func layer(id PlaneID, zpos int, scaling bool) PlaneInfo {
	p := PlaneInfo{
		ID:        id,
		Formats:   planeFormats,
		Modifiers: linearOnly,
		MaxWidth:  4096,
		MaxHeight: 4096,
		MinScale:  NoScaling,
		MaxScale:  NoScaling,
		Encodings: hdEncodings,
		Zpos:      zpos,
	}
	if scaling {
		p.MinScale = frac16(1, 3)
		p.MaxScale = frac16(10, 1)
		p.Rotation = allRotations
	}
	return p
}

func cursor(id PlaneID) PlaneInfo {
	return PlaneInfo{
		ID:        id,
		Formats:   []kms.Format{kms.ARGB8888},
		MinWidth:  32,
		MinHeight: 32,
		MaxWidth:  64,
		MaxHeight: 64,
		MinScale:  NoScaling,
		MaxScale:  NoScaling,
		Zpos:      255,
	}
}

// DC8200 describes the Verisilicon DC8200 as integrated in the StarFive
// JH7110.
var DC8200 = Info{
	Name:    "DC8200",
	Panels:  2,
	Layers:  6,
	Cursors: 2,
	Planes: []PlaneInfo{
		layer(Primary0, 0, true),
		layer(Overlay0, 1, true),
		layer(Overlay1, 2, false),
		layer(Primary1, 3, true),
		layer(Overlay2, 4, true),
		layer(Overlay3, 5, false),
		cursor(Cursor0),
		cursor(Cursor1),
	},
	GammaSize:  300,
	GammaBits:  12,
	PitchAlign: 128,
}
