package dc

import (
	"fmt"

	"github.com/flavioheleno/vsdisplay/kms"
	"github.com/flavioheleno/vsdisplay/regio"
)

// UpdateCursor programs the cursor of panel from s. s.Dst gives the cursor
// position on the CRTC and its size; s.FB.Addrs[0] the ARGB8888 image.
//
// A cursor hanging off the top or left edge is placed at 0 with the overhang
// moved into the hotspot. A 64 pixel wide cursor uses the 64x64 mode, any
// other width the 32x32 one.
func (d *Dev) UpdateCursor(panel int, s *kms.PlaneState) error {
	if err := d.checkCursor(panel); err != nil {
		return err
	}
	if s == nil || s.FB == nil {
		return nil
	}
	x, hotX := clampCursor(s.Dst.Min.X)
	y, hotY := clampCursor(s.Dst.Min.Y)
	size := uint32(cursorSize32)
	if s.Dst.Dx() == 64 {
		size = cursorSize64
	}
	off := cursorOff(panel)
	d.write(regCursorAddress, off, uint32(s.FB.Addrs[0]))
	d.write(regCursorLocation, off, uint32(x)|uint32(y)<<16)
	d.setClear(regCursorConfig, off,
		cursorHotX.Put(uint32(hotX))|
			cursorHotY.Put(uint32(hotY))|
			cursorSize.Put(size)|
			cursorValid.Put(1)|
			cursorTrigFetch.Put(1)|
			cursorFormat.Put(cursorFormatARGB8888),
		cursorHotX.Mask()|cursorHotY.Mask()|cursorSize.Mask()|
			cursorValid.Mask()|cursorTrigFetch.Mask()|cursorFormat.Mask())
	if err := regio.Err(d.regs); err != nil {
		return fmt.Errorf("dc: failed to update cursor %d: %w", panel, err)
	}
	return nil
}

// DisableCursor stops the cursor of panel. It sets the valid bit and
// clears the format, which is what the hardware expects.
func (d *Dev) DisableCursor(panel int) error {
	if err := d.checkCursor(panel); err != nil {
		return err
	}
	d.setClear(regCursorConfig, cursorOff(panel), cursorValid.Put(1), cursorFormat.Mask())
	return regio.Err(d.regs)
}

func (d *Dev) checkCursor(panel int) error {
	if err := d.checkPanel(panel); err != nil {
		return err
	}
	if panel >= d.info.Cursors {
		return fmt.Errorf("dc: cursor %d: %w", panel, ErrPlane)
	}
	return nil
}

// clampCursor splits a CRTC coordinate into a register position and a
// hotspot offset.
func clampCursor(v int) (pos, hot int) {
	if v > 0 {
		return v, 0
	}
	return 0, -v
}
