package dc

import (
	"fmt"

	"github.com/flavioheleno/vsdisplay/internal/logging"
	"github.com/flavioheleno/vsdisplay/kms"
	"github.com/flavioheleno/vsdisplay/regio"
)

// Enable starts panel with mode, feeding an encoder of type enc over bus.
//
// A DSI encoder is fed through the DPI output with a dedicated pixel clock;
// any other encoder through the DP output clocked by the HDMI transmitter.
// Vblank events are delivered once Enable returns.
func (d *Dev) Enable(panel int, mode kms.Mode, enc kms.EncoderType, bus kms.BusFormat) error {
	if err := d.checkPanel(panel); err != nil {
		return err
	}
	bus, err := CheckBusFormat(bus)
	if err != nil {
		return err
	}
	if enc == kms.EncoderDSI {
		d.out[panel] = outDPI
	} else {
		d.out[panel] = outDP
	}
	if err := d.routeClocks(panel, mode); err != nil {
		return err
	}

	off := panelOff(panel)
	if enc != kms.EncoderDSI {
		cfg, yuv := dpConfig(bus)
		if yuv {
			d.setClear(regPanelConfig, off, panelRGBToYUV.Mask(), 0)
		} else {
			d.setClear(regPanelConfig, off, 0, panelRGBToYUV.Mask())
		}
		d.write(regDPConfig, off, cfg|dpSelect.Mask())
	}
	if d.out[panel] == outDPI {
		d.setClear(regDPConfig, off, 0, dpSelect.Mask())
	}
	d.write(regDPIConfig, off, dpiConfig(bus))

	en := panelEn(panel)
	d.setClear(regPanelStart, 0, 0, en.Mask()|twoPanelEn.Mask())
	d.write(regDisplayH, off, activeLen.Put(uint32(mode.HDisplay))|totalLen.Put(uint32(mode.HTotal)))
	d.write(regDisplayHSync, off, syncTiming(mode.HSyncStart, mode.HSyncEnd, mode.Flags&kms.FlagPHSync != 0))
	d.write(regDisplayV, off, activeLen.Put(uint32(mode.VDisplay))|totalLen.Put(uint32(mode.VTotal)))
	d.write(regDisplayVSync, off, syncTiming(mode.VSyncStart, mode.VSyncEnd, mode.Flags&kms.FlagPVSync != 0))
	d.setClear(regPanelConfig, off, panelOutputEn.Mask(), 0)
	d.setClear(regPanelStart, 0, en.Mask(), syncEn.Mask())
	if err := regio.Err(d.regs); err != nil {
		return fmt.Errorf("dc: failed to enable panel %d: %w", panel, err)
	}

	d.vblankOn(panel)
	if err := regio.Err(d.hi); err != nil {
		return fmt.Errorf("dc: failed to enable interrupts: %w", err)
	}
	logging.Logger().Debug("dc: panel enabled", "panel", panel, "mode", mode.Name, "encoder", enc, "bus", bus)
	return nil
}

// Disable stops panel. An event still armed on it completes before Disable
// returns.
func (d *Dev) Disable(panel int) error {
	if err := d.checkPanel(panel); err != nil {
		return err
	}
	pending := d.vblankOff(panel)
	off := panelOff(panel)
	if d.out[panel] == outDPI {
		d.setClear(regDPConfig, off, 0, dpSelect.Mask())
	}
	d.setClear(regPanelConfig, off, 0, panelOutputEn.Mask())
	d.setClear(regPanelStart, 0, 0, panelEn(panel).Mask()|twoPanelEn.Mask())

	frame, now := d.Frames(panel), d.clock.Now()
	for _, e := range pending {
		e.complete(frame, now)
	}
	if err := regio.Err(d.regs); err != nil {
		return fmt.Errorf("dc: failed to disable panel %d: %w", panel, err)
	}
	return regio.Err(d.hi)
}

// routeClocks sets up the pixel clock of panel for its output.
func (d *Dev) routeClocks(panel int, mode kms.Mode) error {
	c := d.opts.Clocks
	if c == nil {
		return nil
	}
	if d.out[panel] == outDPI {
		if err := c.SetRate(ClockDPIPixel, mode.Clock); err != nil {
			return fmt.Errorf("dc: failed to set DPI pixel clock to %s: %w", mode.Clock, err)
		}
		if err := c.SetParent(ClockChannel1, ClockDPIPixel); err != nil {
			return fmt.Errorf("dc: failed to route DPI pixel clock: %w", err)
		}
		return nil
	}
	if err := c.SetParent(ClockChannel0, ClockHDMIPixel); err != nil {
		return fmt.Errorf("dc: failed to route HDMI pixel clock: %w", err)
	}
	return nil
}

// dpConfig returns the DP output format for bus and whether it needs the
// RGB to YUV conversion.
func dpConfig(bus kms.BusFormat) (uint32, bool) {
	switch bus {
	case kms.BusRGB565_1X16:
		return 0, false
	case kms.BusRGB666_1X18:
		return 1, false
	case kms.BusRGB888_1X24:
		return 2, false
	case kms.BusRGB101010_1X30:
		return 3, false
	case kms.BusUYVY8_1X16:
		return 2 << 4, true
	case kms.BusYUV8_1X24:
		return 4 << 4, true
	case kms.BusUYVY10_1X20:
		return 8 << 4, true
	case kms.BusYUV10_1X30:
		return 10 << 4, true
	case kms.BusUYYVYY8_0_5X24:
		return 12 << 4, true
	case kms.BusUYYVYY10_0_5X30:
		return 13 << 4, true
	}
	return 2, false
}

func dpiConfig(bus kms.BusFormat) uint32 {
	switch bus {
	case kms.BusRGB565_1X16:
		return 0
	case kms.BusRGB666_1X18:
		return 3
	case kms.BusRGB666_1X24:
		return 4
	case kms.BusRGB101010_1X30:
		return 6
	}
	return 5
}

func syncTiming(start, end int, positive bool) uint32 {
	return syncStart.Put(uint32(start)) |
		syncEnd.Put(uint32(end)) |
		syncPolarity.Flag(!positive) |
		syncPlus.Mask()
}

func panelEn(panel int) regio.Field {
	if panel != 0 {
		return panel1En
	}
	return panel0En
}

// SetGamma stores the gamma table of panel. It is uploaded by
// EnableGamma. A table whose size is not Info().GammaSize is rejected and
// the stored table is kept.
func (d *Dev) SetGamma(panel int, lut []kms.ColorLUT) error {
	if err := d.checkPanel(panel); err != nil {
		return err
	}
	if len(lut) != d.info.GammaSize {
		logging.Logger().Error("dc: gamma size does not match", "panel", panel, "size", len(lut), "want", d.info.GammaSize)
		return fmt.Errorf("dc: %d gamma entries, want %d: %w", len(lut), d.info.GammaSize, ErrGammaSize)
	}
	bits := d.info.GammaBits
	g := d.gamma[panel]
	for i, c := range lut {
		g[i] = [3]uint16{
			uint16(kms.ExtractLUT(c.R, bits)),
			uint16(kms.ExtractLUT(c.G, bits)),
			uint16(kms.ExtractLUT(c.B, bits)),
		}
	}
	return nil
}

// EnableGamma uploads the stored gamma table of panel and turns gamma
// correction on, or only turns it off.
func (d *Dev) EnableGamma(panel int, on bool) error {
	if err := d.checkPanel(panel); err != nil {
		return err
	}
	off := panelOff(panel)
	if !on {
		d.setClear(regPanelConfig, off, 0, panelGammaEn.Mask())
		return regio.Err(d.regs)
	}
	d.write(regGammaIndex, off, 0)
	bits := d.info.GammaBits
	for _, c := range d.gamma[panel] {
		d.write(regGammaData, off, uint32(c[2])|uint32(c[1])<<bits)
		d.write(regGammaOneData, off, uint32(c[0]))
	}
	d.setClear(regPanelConfig, off, panelGammaEn.Mask(), 0)
	if err := regio.Err(d.regs); err != nil {
		return fmt.Errorf("dc: failed to load gamma of panel %d: %w", panel, err)
	}
	return nil
}

// EnableShadow controls the shadow registers. With on, layer registers are
// latched at the next vblank; with !on they take effect immediately so a
// commit can be staged.
func (d *Dev) EnableShadow(on bool) error {
	if d.halted.Load() {
		return ErrHalted
	}
	for _, p := range d.info.Planes[:d.info.Layers] {
		r, ch := layout(p.ID), p.ID.channel()
		f, at := ovShadowEn, r.config
		if r.primary {
			f, at = fbShadowEn, r.configEx
		}
		d.setClear(at, ch, f.Flag(on), f.Flag(!on))
	}
	for i := 0; i < d.info.Panels; i++ {
		d.setClear(regPanelConfigEx, panelOff(i), panelShadowEn.Flag(!on), panelShadowEn.Flag(on))
	}
	return regio.Err(d.regs)
}

// AtomicBegin opens a commit on panel: registers stop latching, and when
// the color management changed, lut is loaded. A nil lut turns gamma off.
func (d *Dev) AtomicBegin(panel int, colorMgmtChanged bool, lut []kms.ColorLUT) error {
	if err := d.checkPanel(panel); err != nil {
		return err
	}
	if err := d.EnableShadow(false); err != nil {
		return err
	}
	if !colorMgmtChanged {
		return nil
	}
	if len(lut) == 0 {
		return d.EnableGamma(panel, false)
	}
	if err := d.SetGamma(panel, lut); err != nil {
		return err
	}
	return d.EnableGamma(panel, true)
}

// AtomicFlush closes the commit opened by AtomicBegin. e, when not nil,
// completes at the vblank that latches the commit.
func (d *Dev) AtomicFlush(panel int, e *Event) error {
	if err := d.checkPanel(panel); err != nil {
		return err
	}
	if e != nil {
		d.arm(panel, e)
	}
	return d.EnableShadow(true)
}
