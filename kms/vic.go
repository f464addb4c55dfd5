package kms

import "periph.io/x/conn/v3/physic"

// cea describes one CEA-861 video format.
type cea struct {
	vic    uint8
	mode   Mode
	aspect Aspect
}

func ceaMode(clock physic.Frequency, h [4]int, v [4]int, f ModeFlag) Mode {
	return Mode{
		Clock:      clock,
		HDisplay:   h[0],
		HSyncStart: h[1],
		HSyncEnd:   h[2],
		HTotal:     h[3],
		VDisplay:   v[0],
		VSyncStart: v[1],
		VSyncEnd:   v[2],
		VTotal:     v[3],
		Flags:      f,
	}
}

const (
	pp  = FlagPHSync | FlagPVSync
	nn  = FlagNHSync | FlagNVSync
	ppi = pp | FlagInterlace
	nni = nn | FlagInterlace | FlagDblClk
)

// ceaModes is the subset of the CEA-861 format table the transmitters can
// drive. Interlaced vertical values are frame lines, as in DRM.
var ceaModes = []cea{
	{1, ceaMode(25175*physic.KiloHertz, [4]int{640, 656, 752, 800}, [4]int{480, 490, 492, 525}, nn), Aspect4x3},
	{2, ceaMode(27*physic.MegaHertz, [4]int{720, 736, 798, 858}, [4]int{480, 489, 495, 525}, nn), Aspect4x3},
	{3, ceaMode(27*physic.MegaHertz, [4]int{720, 736, 798, 858}, [4]int{480, 489, 495, 525}, nn), Aspect16x9},
	{4, ceaMode(74250*physic.KiloHertz, [4]int{1280, 1390, 1430, 1650}, [4]int{720, 725, 730, 750}, pp), Aspect16x9},
	{5, ceaMode(74250*physic.KiloHertz, [4]int{1920, 2008, 2052, 2200}, [4]int{1080, 1084, 1094, 1125}, ppi), Aspect16x9},
	{6, ceaMode(27*physic.MegaHertz, [4]int{1440, 1478, 1602, 1716}, [4]int{480, 488, 494, 525}, nni), Aspect4x3},
	{7, ceaMode(27*physic.MegaHertz, [4]int{1440, 1478, 1602, 1716}, [4]int{480, 488, 494, 525}, nni), Aspect16x9},
	{16, ceaMode(148500*physic.KiloHertz, [4]int{1920, 2008, 2052, 2200}, [4]int{1080, 1084, 1089, 1125}, pp), Aspect16x9},
	{17, ceaMode(27*physic.MegaHertz, [4]int{720, 732, 796, 864}, [4]int{576, 581, 586, 625}, nn), Aspect4x3},
	{18, ceaMode(27*physic.MegaHertz, [4]int{720, 732, 796, 864}, [4]int{576, 581, 586, 625}, nn), Aspect16x9},
	{19, ceaMode(74250*physic.KiloHertz, [4]int{1280, 1720, 1760, 1980}, [4]int{720, 725, 730, 750}, pp), Aspect16x9},
	{20, ceaMode(74250*physic.KiloHertz, [4]int{1920, 2448, 2492, 2640}, [4]int{1080, 1084, 1094, 1125}, ppi), Aspect16x9},
	{21, ceaMode(27*physic.MegaHertz, [4]int{1440, 1464, 1590, 1728}, [4]int{576, 580, 586, 625}, nni), Aspect4x3},
	{22, ceaMode(27*physic.MegaHertz, [4]int{1440, 1464, 1590, 1728}, [4]int{576, 580, 586, 625}, nni), Aspect16x9},
	{31, ceaMode(148500*physic.KiloHertz, [4]int{1920, 2448, 2492, 2640}, [4]int{1080, 1084, 1089, 1125}, pp), Aspect16x9},
	{32, ceaMode(74250*physic.KiloHertz, [4]int{1920, 2558, 2602, 2750}, [4]int{1080, 1084, 1089, 1125}, pp), Aspect16x9},
	{33, ceaMode(74250*physic.KiloHertz, [4]int{1920, 2448, 2492, 2640}, [4]int{1080, 1084, 1089, 1125}, pp), Aspect16x9},
	{34, ceaMode(74250*physic.KiloHertz, [4]int{1920, 2008, 2052, 2200}, [4]int{1080, 1084, 1089, 1125}, pp), Aspect16x9},
	{93, ceaMode(297*physic.MegaHertz, [4]int{3840, 5116, 5204, 5500}, [4]int{2160, 2168, 2178, 2250}, pp), Aspect16x9},
	{94, ceaMode(297*physic.MegaHertz, [4]int{3840, 4896, 4984, 5280}, [4]int{2160, 2168, 2178, 2250}, pp), Aspect16x9},
	{95, ceaMode(297*physic.MegaHertz, [4]int{3840, 4016, 4104, 4400}, [4]int{2160, 2168, 2178, 2250}, pp), Aspect16x9},
	{97, ceaMode(594*physic.MegaHertz, [4]int{3840, 4016, 4104, 4400}, [4]int{2160, 2168, 2178, 2250}, pp), Aspect16x9},
}

// clockMatches accepts the nominal CEA clock and its 1000/1001 variant.
func clockMatches(have, want physic.Frequency) bool {
	alt := want * 1000 / 1001
	return within(have, want) || within(have, alt)
}

// within reports whether a and b differ by at most 0.1%.
func within(a, b physic.Frequency) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= b/1000
}

// MatchVIC returns the CEA-861 video identification code of m, or 0 when m
// is not a CEA format. When m carries an aspect ratio it must match too.
func MatchVIC(m *Mode) uint8 {
	for i := range ceaModes {
		c := &ceaModes[i]
		if m.Aspect != AspectNone && m.Aspect != c.aspect {
			continue
		}
		if !clockMatches(m.Clock, c.mode.Clock) {
			continue
		}
		t := c.mode
		t.Clock = m.Clock
		if t.Equal(m) {
			return c.vic
		}
	}
	return 0
}

// VICMode returns the mode for a CEA-861 video identification code.
func VICMode(vic uint8) (Mode, bool) {
	for i := range ceaModes {
		if ceaModes[i].vic == vic {
			m := ceaModes[i].mode
			m.Aspect = ceaModes[i].aspect
			return m, true
		}
	}
	return Mode{}, false
}

// DefaultRGBQuantRange is the RGB quantization range a sink expects by
// default: limited for every CEA format except VIC 1, full otherwise.
func DefaultRGBQuantRange(m *Mode) QuantRange {
	if MatchVIC(m) > 1 {
		return QuantLimited
	}
	return QuantFull
}
