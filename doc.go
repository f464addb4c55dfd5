// Package vsdisplay drives the display pipeline of the StarFive JH7110 and
// Rockchip RK3036/RK3128: a Verisilicon DC8200 display controller feeding an
// Inno HDMI transmitter.
//
// The hardware is split in three packages, tied together here:
//
//   - hdmi: the Inno HDMI transmitter (PLL and PHY, color space conversion,
//     AVI infoframes, hotplug, EDID over the emulated DDC bus)
//   - dc: the DC8200 controller (timing generator, layers, cursors, gamma,
//     shadow registers and vblank events)
//   - kms: the data model shared by both (modes, formats, plane states)
//
// A Pipeline runs the mode-setting protocol between them: it checks a
// requested Commit against both devices, enables the timing generator before
// the transmitter on a mode change, and programs the planes of one frame
// inside a shadow register bracket.
//
// # Hardware Access
//
// Both devices are programmed through a regio.Window. On the board the
// windows are mapped from /dev/mem:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/flavioheleno/vsdisplay"
//		"github.com/flavioheleno/vsdisplay/dc"
//		"github.com/flavioheleno/vsdisplay/hdmi"
//		"github.com/flavioheleno/vsdisplay/kms"
//		"github.com/flavioheleno/vsdisplay/regio"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//		txRegs, _ := regio.Map(0x29590000, 0x4000)
//		dcHi, _ := regio.Map(0x29400000, 0x800)
//		dcRegs, _ := regio.Map(0x29400800, 0x2000)
//
//		tx, _ := hdmi.New(txRegs, &hdmi.Opts{Variant: hdmi.JH7110})
//		defer tx.Halt()
//		comp, _ := dc.New(dcRegs, dcHi, nil)
//		defer comp.Halt()
//		if err := comp.Init(); err != nil {
//			log.Fatal(err)
//		}
//
//		p, err := vsdisplay.New(tx, comp, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer p.Halt()
//
//		modes, _ := p.GetModes(context.Background())
//		fb := &kms.Framebuffer{ /* ... */ }
//		e, err := p.Commit(context.Background(), &vsdisplay.Commit{
//			Mode:   modes[0],
//			Planes: map[dc.PlaneID]*kms.PlaneState{dc.Primary0: {FB: fb /* ... */}},
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//		e.Wait(context.Background())
//	}
//
// The controller's vblank interrupt must be routed to dc.Dev.HandleIRQ and
// the transmitter's to hdmi.Dev.HandleIRQ, or frame events never complete.
// On boards with the HPD line on a GPIO, set hdmi.Opts.HPD instead.
//
// # Commits
//
// Check validates a Commit without touching the hardware. Commit checks then
// programs it and returns a frame event, completed at the vblank that makes
// the new state visible:
//
//	e, err := p.Commit(ctx, c)
//	switch {
//	case vsdisplay.IsFatal(err):
//		// Output disabled, the next commit runs a full mode set.
//	case err != nil:
//		// Rejected by the check, nothing changed.
//	}
//
// The connector color state and plane states of a Commit are copied; the
// committed state is replaced only when a commit succeeds and can be read
// back with State.
//
// # Errors
//
// IsFatal reports errors that aborted a commit after the hardware was
// touched: PLL lock timeouts, infoframe failures and register bus errors.
// IsRetryable reports EDID reads that timed out and transmitter binds that
// found no CRTC yet. Other errors reject a request with no hardware effect.
//
// # Logging
//
// The packages log through log/slog and are silent by default. Use
// SetLogger to see advisories (PLL table fallbacks, unusual buffer sizes)
// and hotplug and vblank debug events.
package vsdisplay
