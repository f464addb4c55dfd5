package dc

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/flavioheleno/vsdisplay/fbimage"
	"github.com/flavioheleno/vsdisplay/kms"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
)

// flipTimeout bounds the wait for the vblank latching a page flip.
const flipTimeout = 100 * time.Millisecond

// ScanoutBuffer is a frame buffer image and its device address.
type ScanoutBuffer struct {
	Image *fbimage.ARGB8888
	Addr  uint64
}

// Scanout shows an image on a layer of a running panel, page flipping
// between two buffers. It implements display.Drawer.
type Scanout struct {
	// Hardware
	dev   *Dev
	plane PlaneID
	panel int
	mode  kms.Mode

	// Page flipping
	bufs  [2]ScanoutBuffer
	front int
	dirty image.Rectangle // Drawn in the front buffer, stale in the back one
	state kms.PlaneState

	halted bool
}

var _ display.Drawer = (*Scanout)(nil)

// NewScanout returns a Drawer showing front on layer plane of panel, which
// runs mode. Both buffers must cover the mode's active area. front is
// shown right away.
func NewScanout(d *Dev, plane PlaneID, panel int, mode kms.Mode, front, back ScanoutBuffer) (*Scanout, error) {
	p, err := d.layer(plane)
	if err != nil {
		return nil, err
	}
	if err := d.checkPanel(panel); err != nil {
		return nil, err
	}
	r := image.Rect(0, 0, mode.HDisplay, mode.VDisplay)
	for _, b := range []ScanoutBuffer{front, back} {
		if b.Image == nil || b.Image.Rect != r {
			return nil, fmt.Errorf("dc: scanout buffer must be %dx%d", r.Dx(), r.Dy())
		}
	}
	s := &Scanout{
		dev:   d,
		plane: plane,
		panel: panel,
		mode:  mode,
		bufs:  [2]ScanoutBuffer{front, back},
		dirty: r,
		state: kms.PlaneState{
			CRTC:     panel,
			Src:      kms.Rect16FromRect(r),
			Dst:      r,
			Rotation: kms.Rotate0,
			Alpha:    0xffff,
			Blend:    kms.BlendCoverage,
			Zpos:     p.Zpos,
			Encoding: kms.EncodingBT709,
			Range:    kms.RangeFull,
		},
	}
	if err := s.show(0); err != nil {
		return nil, err
	}
	return s, nil
}

// ColorModel implements display.Drawer.
func (s *Scanout) ColorModel() color.Model {
	return fbimage.ARGBModel
}

// Bounds implements display.Drawer.
func (s *Scanout) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.mode.HDisplay, s.mode.VDisplay)
}

// Draw draws src into the back buffer, brings it up to date with the front
// buffer and flips at the next vblank. It returns once the flip is latched.
func (s *Scanout) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if s.halted {
		return ErrHalted
	}
	dst = dst.Intersect(s.Bounds())
	if dst.Empty() {
		return nil
	}
	next := 1 - s.front
	back, front := s.bufs[next].Image, s.bufs[s.front].Image
	if !s.dirty.Empty() {
		draw.Draw(back, s.dirty, front, s.dirty.Min, draw.Src)
	}
	draw.Draw(back, dst, src, sp, draw.Src)
	if err := s.show(next); err != nil {
		return err
	}
	s.dirty = dst
	return nil
}

// show scans out buffer i and waits for the flip.
func (s *Scanout) show(i int) error {
	d := s.dev
	st := s.state
	st.FB = s.bufs[i].Image.Framebuffer(s.bufs[i].Addr)
	if err := d.CheckPlane(s.plane, &st, s.mode); err != nil {
		return err
	}
	if err := d.AtomicBegin(s.panel, false, nil); err != nil {
		return err
	}
	if err := d.UpdatePlane(s.plane, &st); err != nil {
		return err
	}
	e := NewEvent()
	if err := d.AtomicFlush(s.panel, e); err != nil {
		return err
	}
	select {
	case <-e.Done():
	case <-d.clock.After(flipTimeout):
		return errors.New("dc: page flip timed out")
	}
	s.front = i
	s.state = st
	return nil
}

// Front returns the buffer being scanned out.
func (s *Scanout) Front() ScanoutBuffer {
	return s.bufs[s.front]
}

// Halt stops scanning out. The panel keeps running.
func (s *Scanout) Halt() error {
	if s.halted {
		return nil
	}
	s.halted = true
	return s.dev.DisablePlane(s.plane)
}

func (s *Scanout) String() string {
	return fmt.Sprintf("dc.Scanout{%s, panel %d, %dx%d}", s.plane, s.panel, s.mode.HDisplay, s.mode.VDisplay)
}
