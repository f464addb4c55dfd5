// Package dc drives the Verisilicon DC8200 display controller of the
// StarFive JH7110.
//
// The controller has two panels (CRTCs), six layers and a cursor per panel.
// Each panel has a primary layer; overlays can be routed to either panel and
// are stacked by zpos.
//
// # Commits
//
// A commit on a panel is bracketed by AtomicBegin and AtomicFlush. Begin
// turns the shadow registers off so the layer registers can be written
// without tearing, and loads the gamma table when it changed. Flush arms
// the frame event and turns the shadow registers back on; the hardware
// latches everything at the next vblank, which completes the event:
//
//	if err := d.CheckPlane(dc.Primary0, st, mode); err != nil {
//		return err
//	}
//	if err := d.AtomicBegin(0, false, nil); err != nil {
//		return err
//	}
//	if err := d.UpdatePlane(dc.Primary0, st); err != nil {
//		return err
//	}
//	e := dc.NewEvent()
//	if err := d.AtomicFlush(0, e); err != nil {
//		return err
//	}
//	err := e.Wait(ctx)
//
// # Interrupts
//
// HandleIRQ must be called by the platform's interrupt dispatch when the
// controller's line fires. Every armed event completes exactly once: at a
// vblank, when its panel is disabled, or on Halt.
package dc
