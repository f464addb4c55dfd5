package hdmi

import (
	"fmt"
	"time"

	"github.com/flavioheleno/vsdisplay/internal/logging"
	"github.com/flavioheleno/vsdisplay/kms"
	"periph.io/x/conn/v3/physic"
)

// Variant is the SoC integration of the transmitter.
type Variant uint8

const (
	RK3036 Variant = iota
	RK3128
	JH7110
)

func (v Variant) String() string {
	switch v {
	case RK3036:
		return "RK3036"
	case RK3128:
		return "RK3128"
	case JH7110:
		return "JH7110"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

func (v Variant) phyTable() *phyTable {
	switch v {
	case RK3036:
		return &rk3036PHY
	case RK3128:
		return &rk3128PHY
	default:
		return nil
	}
}

func (v Variant) platform() platform {
	switch v {
	case RK3036, RK3128:
		return rockchip{phy: v.phyTable()}
	case JH7110:
		return starfive{}
	default:
		return nil
	}
}

// ClockRounder reports the rate a clock would actually run at when asked for
// rate.
type ClockRounder interface {
	RoundRate(rate physic.Frequency) (physic.Frequency, error)
}

// platform is the per-SoC part of the transmitter.
type platform interface {
	reset(d *Dev)
	modeValid(d *Dev, m *kms.Mode) kms.ModeStatus
	setup(d *Dev, m *kms.Mode, s *ConnectorState) error
	teardown(d *Dev)
	syncPolarity(m *kms.Mode) uint32
}

const (
	minTMDSClock = 25 * physic.MegaHertz
	resetDelay   = 100 * time.Microsecond
)

// rockchip drives the RK3036 and RK3128 integration: fixed PHY table, CSC
// block, PLL driven by the display controller clock.
type rockchip struct {
	phy *phyTable
}

func (rockchip) reset(d *Dev) {
	d.modb(regSysCtrl, sysRstDigital.Mask(), sysRstDigital.Put(1))
	time.Sleep(resetDelay)
	d.modb(regSysCtrl, sysRstAnalog.Mask(), sysRstAnalog.Put(1))
	time.Sleep(resetDelay)

	msk := sysRegClkInv.Mask() | sysRegClkSys.Mask() | sysPowerOff.Mask() | sysIntPolHigh.Mask()
	val := sysRegClkInv.Put(1) | sysRegClkSys.Put(1) | sysIntPolHigh.Put(1)
	d.modb(regSysCtrl, msk, val)

	rockchip{}.teardown(d)
}

func (p rockchip) modeValid(d *Dev, m *kms.Mode) kms.ModeStatus {
	if m.Flags&kms.FlagDblClk != 0 {
		return kms.ModeBad
	}
	if m.Clock < minTMDSClock {
		return kms.ModeClockLow
	}
	if p.phy.find(m.Clock) < 0 {
		return kms.ModeClockHigh
	}
	if d.opts.RefClock != nil {
		r, err := d.opts.RefClock.RoundRate(m.Clock)
		if err != nil || r < 0 {
			return kms.ModeBad
		}
		// VESA DMT allows +/- 0.5%.
		tol := uint64(m.Clock) / 200
		if absDiff(uint64(r), uint64(m.Clock)) > tol {
			return kms.ModeNoClock
		}
	}
	return kms.ModeOK
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func (p rockchip) setup(d *Dev, m *kms.Mode, s *ConnectorState) error {
	d.modb(regAVMute, avAudioMute.Mask()|avVideoMute.Mask(), avAudioMute.Put(1)|avVideoMute.Put(1))
	hdmi := d.isHDMI.Load()
	d.writeb(regHDCPCtrl, hdcpHDMIMode.Flag(hdmi))

	d.configTiming(m)
	d.configureCSC(s)
	if hdmi {
		if err := d.configAVI(m, s); err != nil {
			return err
		}
	}

	// The TMDS clock now comes from the display controller; rederive the DDC
	// divider from the pixel clock.
	d.i2cInit(m.Clock)

	d.modb(regAVMute, avAudioMute.Mask()|avVideoMute.Mask(), 0)
	p.powerUp(d, m.Clock)
	return nil
}

func (p rockchip) powerUp(d *Dev, rate physic.Frequency) {
	cfg, ok := SolvePHY(d.opts.Variant, rate)
	if !ok {
		logging.Logger().Warn("hdmi: using default PHY configuration", "rate", rate)
	}
	d.phy = cfg
	d.tmdsRate = rate

	d.sysPower(false)
	d.writeb(regPHYPreEmphasis, uint32(cfg.PreEmphasis))
	d.writeb(regPHYDriver, uint32(cfg.VoltageLevel))
	d.writeb(regPHYSysCtl, phySysStandby)
	d.writeb(regPHYSysCtl, phySysStage2)
	d.writeb(regPHYSysCtl, phySysStage3)
	d.writeb(regPHYChgPwr, phyChgPwrOn)
	d.writeb(regPHYSync, 0)
	d.writeb(regPHYSync, 1)
	d.sysPower(true)
}

func (rockchip) teardown(d *Dev) {
	d.sysPower(false)
	d.writeb(regPHYDriver, 0)
	d.writeb(regPHYPreEmphasis, 0)
	d.writeb(regPHYChgPwr, 0)
	d.writeb(regPHYSysCtl, phySysStandby)
}

func (rockchip) syncPolarity(m *kms.Mode) uint32 {
	return vtHSyncPol.Flag(m.Flags&kms.FlagPHSync != 0) | vtVSyncPol.Flag(m.Flags&kms.FlagPVSync != 0)
}

// starfive drives the JH7110 integration: programmable pre and post PLLs, no
// CSC block use.
type starfive struct{}

const maxStarFiveClock = 297 * physic.MegaHertz

func (starfive) reset(*Dev) {}

func (starfive) modeValid(_ *Dev, m *kms.Mode) kms.ModeStatus {
	if m.Clock <= maxStarFiveClock {
		return kms.ModeOK
	}
	return kms.ModeBad
}

func (starfive) setup(d *Dev, m *kms.Mode, s *ConnectorState) error {
	d.modb(regSFBiasControl, sfBiasEnable.Mask(), sfBiasEnable.Put(1))
	d.writeb(regSFRXControl, sfRXEnable)

	if err := d.setRate(m.Clock); err != nil {
		return err
	}

	d.writeb(regSFLDOControl, sfLDOEnable)
	d.writeb(regSFSerializer, sfSerializerEnable)

	if d.isHDMI.Load() {
		if err := d.configAVI(m, s); err != nil {
			return err
		}
	}

	d.sysPower(false)
	d.configTiming(m)
	d.sysPower(true)

	d.modb(regSFTMDSControl, sfTMDSDriverEnable.Mask(), sfTMDSDriverEnable.Mask())
	d.writeb(regPHYSync, 0)
	d.writeb(regPHYSync, 1)
	return nil
}

func (starfive) teardown(d *Dev) {
	d.sysPower(false)
}

func (starfive) syncPolarity(m *kms.Mode) uint32 {
	return vtHSyncPolSF.Flag(m.Flags&kms.FlagPHSync != 0) | vtVSyncPolSF.Flag(m.Flags&kms.FlagPVSync != 0)
}
