package kms

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// ModeFlag is a set of display mode flags, in DRM bit order.
type ModeFlag uint32

const (
	FlagPHSync    ModeFlag = 1 << 0
	FlagNHSync    ModeFlag = 1 << 1
	FlagPVSync    ModeFlag = 1 << 2
	FlagNVSync    ModeFlag = 1 << 3
	FlagInterlace ModeFlag = 1 << 4
	FlagDblScan   ModeFlag = 1 << 5
	FlagCSync     ModeFlag = 1 << 6
	FlagPCSync    ModeFlag = 1 << 7
	FlagNCSync    ModeFlag = 1 << 8
	FlagHSkew     ModeFlag = 1 << 9
	FlagBCast     ModeFlag = 1 << 10
	FlagPixMux    ModeFlag = 1 << 11
	FlagDblClk    ModeFlag = 1 << 12
)

// syncFlags are the flags compared when matching modes against a table.
const syncFlags = FlagPHSync | FlagNHSync | FlagPVSync | FlagNVSync | FlagInterlace | FlagDblClk

// Aspect is a picture aspect ratio.
type Aspect uint8

const (
	AspectNone Aspect = iota
	Aspect4x3
	Aspect16x9
	Aspect64x27
	Aspect256x135
)

func (a Aspect) String() string {
	switch a {
	case Aspect4x3:
		return "4:3"
	case Aspect16x9:
		return "16:9"
	case Aspect64x27:
		return "64:27"
	case Aspect256x135:
		return "256:135"
	default:
		return "none"
	}
}

// Mode is a display timing. All horizontal values are in pixels and vertical
// values in lines, counted from the start of the active area, as in DRM.
//
// A Mode is chosen once per commit and passed by value.
type Mode struct {
	Name  string
	Clock physic.Frequency // Pixel clock

	HDisplay, HSyncStart, HSyncEnd, HTotal int
	VDisplay, VSyncStart, VSyncEnd, VTotal int

	Flags     ModeFlag
	Aspect    Aspect
	Preferred bool // Sink's preferred mode
}

// Interlaced reports whether the mode is interlaced.
func (m *Mode) Interlaced() bool {
	return m.Flags&FlagInterlace != 0
}

// VRefresh returns the vertical refresh rate in Hz, rounded to the nearest
// integer. It returns 0 for modes with no totals.
func (m *Mode) VRefresh() int {
	if m.HTotal <= 0 || m.VTotal <= 0 {
		return 0
	}
	num := int64(m.Clock / physic.Hertz)
	den := int64(m.HTotal) * int64(m.VTotal)
	if m.Flags&FlagInterlace != 0 {
		num *= 2
	}
	if m.Flags&FlagDblScan != 0 {
		den *= 2
	}
	return int((num + den/2) / den)
}

// Equal reports whether both modes have the same timings and sync flags.
// Name, aspect and preference are ignored.
func (m *Mode) Equal(o *Mode) bool {
	return m.Clock == o.Clock &&
		m.HDisplay == o.HDisplay && m.HSyncStart == o.HSyncStart &&
		m.HSyncEnd == o.HSyncEnd && m.HTotal == o.HTotal &&
		m.VDisplay == o.VDisplay && m.VSyncStart == o.VSyncStart &&
		m.VSyncEnd == o.VSyncEnd && m.VTotal == o.VTotal &&
		m.Flags&syncFlags == o.Flags&syncFlags
}

func (m *Mode) String() string {
	if m.Name != "" {
		return m.Name
	}
	i := ""
	if m.Interlaced() {
		i = "i"
	}
	return fmt.Sprintf("%dx%d%s@%d", m.HDisplay, m.VDisplay, i, m.VRefresh())
}

// ModeStatus is the result of a mode validity check.
type ModeStatus int

const (
	ModeOK ModeStatus = iota
	ModeBad
	ModeClockLow
	ModeClockHigh
	ModeNoClock
)

func (s ModeStatus) String() string {
	switch s {
	case ModeOK:
		return "OK"
	case ModeBad:
		return "BAD"
	case ModeClockLow:
		return "CLOCK_LOW"
	case ModeClockHigh:
		return "CLOCK_HIGH"
	case ModeNoClock:
		return "NOCLOCK"
	default:
		return fmt.Sprintf("ModeStatus(%d)", int(s))
	}
}
