// Package hdmi drives the Innosilicon HDMI transmitter found in the Rockchip
// RK3036/RK3128 and StarFive JH7110 SoCs.
//
// # Mode-set
//
// A Dev moves between three power states. Enable takes it from Standby
// through Configuring (timing, color space converter and AVI infoframe
// programmed) to Active (PLL locked, TMDS driver on, video unmuted). Disable
// returns it to Standby. Any error during Enable also leaves it in Standby.
//
// On Rockchip the PHY settings come from a fixed table keyed by pixel clock.
// On StarFive both PLL stages are solved for the TMDS rate and the driver
// waits up to 100ms for each to lock; a lock timeout is returned as
// ErrPLLLock.
//
// # Interrupts
//
// HandleIRQ must be called by the platform's interrupt dispatch when the
// transmitter's line fires. It only touches the status registers: EDID ready
// completes the pending DDC read, and hotplug is queued for a worker
// goroutine started by Bind, which calls Opts.OnHotplug.
//
// # DDC
//
// The transmitter has no general purpose I²C master, only an EDID reader. DDC
// exposes it as an i2c.Bus that accepts one byte writes to the EDID (0x50)
// and segment (0x30) addresses, and reads from the EDID FIFO:
//
//	d, err := hdmi.New(regs, &hdmi.Opts{Variant: hdmi.RK3128})
//	if err != nil {
//		log.Fatal(err)
//	}
//	raw, err := edid.Read(d.DDC())
package hdmi
