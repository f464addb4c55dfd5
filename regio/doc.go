// Package regio provides access to memory mapped register windows.
//
// A Window is a 32-bit register space addressed by byte offset from its base.
// Two implementations are provided:
//
//   - Mem maps a physical register window into the process with /dev/mem
//     (periph.io/x/host/v3/pmem), or wraps a caller-owned []uint32.
//   - Bus reaches registers over a half-duplex periph.io connection that
//     speaks the "write address, read/write value" protocol (mmr.Dev16). This
//     is how a register bridge on an I²C or SPI debug port is driven.
//
// Register fields are described with Field values so that every bit range is
// declared once, next to its register:
//
//	var cursorSize = regio.Field{Shift: 5, Width: 3} // DC_CURSOR_CONFIG[7:5]
//
//	v := cursorSize.Set(w.ReadUint32(off), 1)
//	w.WriteUint32(off, v)
//
// Modify and SetClear are the two read/modify/write helpers used by the
// drivers.
package regio
