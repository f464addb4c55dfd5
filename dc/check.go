package dc

import (
	"fmt"
	"image"

	"github.com/flavioheleno/vsdisplay/internal/logging"
	"github.com/flavioheleno/vsdisplay/kms"
)

// CheckPlane validates s for plane id on a CRTC running mode m, and
// computes s.Visible, s.ClippedSrc and s.ClippedDst. A zero mode stands for
// a disabled CRTC: the plane is then never visible.
//
// The format and modifier must be advertised by the plane and the scale must
// be in the plane's range. A framebuffer outside the advertised size
// envelope is only logged, once per plane.
func (d *Dev) CheckPlane(id PlaneID, s *kms.PlaneState, m kms.Mode) error {
	if d.halted.Load() {
		return ErrHalted
	}
	p, ok := d.info.Plane(id)
	if !ok {
		return fmt.Errorf("dc: plane %s: %w", id, ErrPlane)
	}
	if s == nil {
		return nil
	}
	if s.FB == nil {
		s.Visible = false
		return nil
	}
	if err := d.checkPanel(s.CRTC); err != nil {
		return err
	}
	fb := s.FB
	if !p.SupportsFormat(fb.Format) {
		return fmt.Errorf("dc: %s on %s: %w", fb.Format, id, ErrFormat)
	}
	if !p.SupportsModifier(fb.Modifier) {
		logging.Logger().Error("dc: unsupported modifier", "plane", id, "modifier", fb.Modifier)
		return fmt.Errorf("dc: %s on %s: %w", fb.Modifier, id, ErrModifier)
	}
	if fb.Width < p.MinWidth || fb.Width > p.MaxWidth || fb.Height < p.MinHeight || fb.Height > p.MaxHeight {
		d.warned[id].Do(func() {
			logging.Logger().Warn("dc: buffer size may not be supported", "plane", id, "width", fb.Width, "height", fb.Height)
		})
	}
	if r := s.Rotation &^ kms.Rotate0; r&^p.Rotation != 0 {
		return fmt.Errorf("dc: rotation %#x on %s: %w", uint32(s.Rotation), id, ErrRotation)
	}
	if !id.Cursor() && (s.Zpos < 0 || s.Zpos >= d.info.Layers) {
		return fmt.Errorf("dc: zpos %d on %s: %w", s.Zpos, id, ErrZpos)
	}

	fbW, fbH := int64(fb.Width)<<16, int64(fb.Height)<<16
	src := rotate(rect64FromRect16(s.Src), fbW, fbH, s.Rotation)
	dst := rect64FromRect(s.Dst)
	hs, ok := calcScale(src.w(), dst.w(), p.MinScale, p.MaxScale)
	if !ok {
		return fmt.Errorf("dc: horizontal scale %#x on %s: %w", hs, id, ErrScale)
	}
	vs, ok := calcScale(src.h(), dst.h(), p.MinScale, p.MaxScale)
	if !ok {
		return fmt.Errorf("dc: vertical scale %#x on %s: %w", vs, id, ErrScale)
	}

	clip := rect64{x2: int64(m.HDisplay), y2: int64(m.VDisplay)}
	s.Visible = clipScaled(&src, &dst, clip)
	src = rotateInv(src, fbW, fbH, s.Rotation)
	s.ClippedSrc = src.rect16()
	s.ClippedDst = image.Rect(int(dst.x1), int(dst.y1), int(dst.x2), int(dst.y2))
	return nil
}

// CheckBusFormat validates the bus format requested by an encoder. FIXED
// selects RGB888.
func CheckBusFormat(b kms.BusFormat) (kms.BusFormat, error) {
	switch b {
	case kms.BusFixed:
		return kms.BusRGB888_1X24, nil
	case kms.BusRGB565_1X16, kms.BusRGB666_1X18, kms.BusRGB888_1X24,
		kms.BusRGB666_1X24, kms.BusRGB101010_1X30,
		kms.BusUYYVYY8_0_5X24, kms.BusUYVY8_1X16, kms.BusYUV8_1X24,
		kms.BusUYYVYY10_0_5X30, kms.BusUYVY10_1X20, kms.BusYUV10_1X30:
		return b, nil
	}
	return b, fmt.Errorf("dc: %s: %w", b, ErrBusFormat)
}

// rect64 is a rectangle wide enough for 16.16 coordinates of any size.
type rect64 struct {
	x1, y1, x2, y2 int64
}

func rect64FromRect16(r kms.Rect16) rect64 {
	return rect64{int64(r.X1), int64(r.Y1), int64(r.X2), int64(r.Y2)}
}

func rect64FromRect(r image.Rectangle) rect64 {
	return rect64{int64(r.Min.X), int64(r.Min.Y), int64(r.Max.X), int64(r.Max.Y)}
}

func (r rect64) w() int64 { return r.x2 - r.x1 }
func (r rect64) h() int64 { return r.y2 - r.y1 }

func (r rect64) rect16() kms.Rect16 {
	return kms.Rect16{X1: int32(r.x1), Y1: int32(r.y1), X2: int32(r.x2), Y2: int32(r.y2)}
}

// calcScale returns the 16.16 ratio of a 16.16 source length to an integer
// destination length and whether it is within [lo, hi].
func calcScale(src, dst int64, lo, hi int32) (int64, bool) {
	if src < 0 || dst < 0 {
		return -1, false
	}
	var scale int64
	switch {
	case dst == 0:
	case src > dst<<16:
		scale = (src + dst - 1) / dst
	default:
		scale = src / dst
	}
	return scale, scale >= int64(lo) && scale <= int64(hi)
}

// clipLen returns the source length left when clip destination pixels are
// cut from dst, rounding toward a scale of 1.
func clipLen(src, dst int64, clip *int64) int64 {
	if dst == 0 {
		return 0
	}
	if *clip > dst {
		*clip = dst
	}
	t := src * (dst - *clip)
	if src < dst<<16 {
		return (t + dst - 1) / dst
	}
	return t / dst
}

// clipScaled clips dst to clip, shrinking src in proportion, and reports
// whether anything is left.
func clipScaled(src, dst *rect64, clip rect64) bool {
	if diff := clip.x1 - dst.x1; diff > 0 {
		n := clipLen(src.w(), dst.w(), &diff)
		src.x1 = src.x2 - n
		dst.x1 += diff
	}
	if diff := clip.y1 - dst.y1; diff > 0 {
		n := clipLen(src.h(), dst.h(), &diff)
		src.y1 = src.y2 - n
		dst.y1 += diff
	}
	if diff := dst.x2 - clip.x2; diff > 0 {
		n := clipLen(src.w(), dst.w(), &diff)
		src.x2 = src.x1 + n
		dst.x2 -= diff
	}
	if diff := dst.y2 - clip.y2; diff > 0 {
		n := clipLen(src.h(), dst.h(), &diff)
		src.y2 = src.y1 + n
		dst.y2 -= diff
	}
	return dst.w() > 0 && dst.h() > 0
}

// rotate maps r, in a w by h buffer, to scan-out orientation.
func rotate(r rect64, w, h int64, rot kms.Rotation) rect64 {
	r = reflect(r, w, h, rot)
	t := r
	switch rot & kms.RotateMask {
	case kms.Rotate90:
		r = rect64{t.y1, w - t.x2, t.y2, w - t.x1}
	case kms.Rotate180:
		r = rect64{w - t.x2, h - t.y2, w - t.x1, h - t.y1}
	case kms.Rotate270:
		r = rect64{h - t.y2, t.x1, h - t.y1, t.x2}
	}
	return r
}

// rotateInv undoes rotate.
func rotateInv(r rect64, w, h int64, rot kms.Rotation) rect64 {
	t := r
	switch rot & kms.RotateMask {
	case kms.Rotate90:
		r = rect64{w - t.y2, t.x1, w - t.y1, t.x2}
	case kms.Rotate180:
		r = rect64{w - t.x2, h - t.y2, w - t.x1, h - t.y1}
	case kms.Rotate270:
		r = rect64{t.y1, h - t.x2, t.y2, h - t.x1}
	}
	return reflect(r, w, h, rot)
}

func reflect(r rect64, w, h int64, rot kms.Rotation) rect64 {
	t := r
	if rot&kms.ReflectX != 0 {
		r.x1, r.x2 = w-t.x2, w-t.x1
	}
	if rot&kms.ReflectY != 0 {
		r.y1, r.y2 = h-t.y2, h-t.y1
	}
	return r
}
