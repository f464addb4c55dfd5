package hdmi

import (
	"fmt"

	"github.com/flavioheleno/vsdisplay/kms"
)

// ConnectorState is the color state negotiated for the HDMI connector.
//
// Each pending commit works on its own copy; use Clone before changing a state
// that may be the committed one.
type ConnectorState struct {
	Colorimetry kms.Colorimetry
	Encoding    kms.Encoding
	RGBLimited  bool
}

// DefaultConnectorState returns the reset state: ITU-709, RGB, full range.
func DefaultConnectorState() *ConnectorState {
	return &ConnectorState{
		Colorimetry: kms.ColorimetryITU709,
		Encoding:    kms.EncodingRGB,
	}
}

// Clone returns a copy of s.
func (s *ConnectorState) Clone() *ConnectorState {
	if s == nil {
		return DefaultConnectorState()
	}
	c := *s
	return &c
}

func (s *ConnectorState) String() string {
	r := "full"
	if s.RGBLimited {
		r = "limited"
	}
	return fmt.Sprintf("%s/%s/%s", s.Encoding, s.Colorimetry, r)
}

// PowerState is the mode-set state of the transmitter.
type PowerState uint8

const (
	// Standby: analog front end and PHY powered down.
	Standby PowerState = iota
	// Configuring: timing, CSC and infoframe programmed, PLL not locked yet.
	Configuring
	// Active: PLL locked, TMDS driver on, video unmuted.
	Active
)

func (p PowerState) String() string {
	switch p {
	case Standby:
		return "standby"
	case Configuring:
		return "configuring"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("PowerState(%d)", uint8(p))
	}
}
