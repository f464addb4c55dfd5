package hdmi

import "periph.io/x/conn/v3/physic"

// PHYConfig is the TMDS driver setting used up to a pixel clock.
type PHYConfig struct {
	PixelClock   physic.Frequency // Highest pixel clock served by this entry
	PreEmphasis  uint8
	VoltageLevel uint8
}

// phyTable is an ascending PHY table and the entry used when no threshold
// covers the requested rate.
type phyTable struct {
	entries []PHYConfig
	def     int
}

var (
	rk3036PHY = phyTable{
		entries: []PHYConfig{
			{74250 * physic.KiloHertz, 0x3f, 0xbb},
			{165 * physic.MegaHertz, 0x6f, 0xbb},
		},
		def: 1,
	}
	rk3128PHY = phyTable{
		entries: []PHYConfig{
			{74250 * physic.KiloHertz, 0x3f, 0xaa},
			{165 * physic.MegaHertz, 0x5f, 0xaa},
		},
		def: 1,
	}
)

func (t *phyTable) find(rate physic.Frequency) int {
	for i := range t.entries {
		if rate <= t.entries[i].PixelClock {
			return i
		}
	}
	return -1
}

// max returns the highest pixel clock of the table.
func (t *phyTable) max() physic.Frequency {
	if len(t.entries) == 0 {
		return 0
	}
	return t.entries[len(t.entries)-1].PixelClock
}

// SolvePHY returns the first PHY table entry of v whose threshold is at least
// rate. When the rate is above every threshold it returns the variant's
// default entry and false; the output may still work approximately. Variants
// without a PHY table return the zero value and false.
func SolvePHY(v Variant, rate physic.Frequency) (PHYConfig, bool) {
	t := v.phyTable()
	if t == nil {
		return PHYConfig{}, false
	}
	if i := t.find(rate); i >= 0 {
		return t.entries[i], true
	}
	return t.entries[t.def], false
}
