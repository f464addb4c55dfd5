package dc

import (
	"errors"
	"image"
	"testing"

	"github.com/flavioheleno/vsdisplay/kms"
)

func TestHWFormat(t *testing.T) {
	tests := []struct {
		f         kms.Format
		hw        uint32
		swizzle   uint32
		uvSwizzle uint32
	}{
		{kms.ARGB8888, hwA8R8G8B8, swizzleARGB, 0},
		{kms.XBGR8888, hwX8R8G8B8, swizzleABGR, 0},
		{kms.RGBA8888, hwA8R8G8B8, swizzleRGBA, 0},
		{kms.BGRX8888, hwX8R8G8B8, swizzleBGRA, 0},
		{kms.RGB565, hwR5G6B5, swizzleARGB, 0},
		{kms.BGR565, hwR5G6B5, swizzleABGR, 0},
		{kms.ARGB1555, hwA1R5G5B5, swizzleARGB, 0},
		{kms.RGBX4444, hwX4R4G4B4, swizzleRGBA, 0},
		{kms.BGRA1010102, hwA2R10G10B10, swizzleBGRA, 0},
		{kms.YUYV, hwYUY2, swizzleARGB, 0},
		{kms.YVYU, hwYUY2, swizzleARGB, 1},
		{kms.VYUY, hwUYVY, swizzleARGB, 1},
		{kms.YVU420, hwYV12, swizzleARGB, 0},
		{kms.NV21, hwNV12, swizzleARGB, 1},
		{kms.NV16, hwNV16, swizzleARGB, 0},
		{kms.P010, hwP010, swizzleARGB, 0},
		{kms.Format(0), hwA8R8G8B8, swizzleARGB, 0},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := hwFormat(tt.f); got != tt.hw {
				t.Errorf("hwFormat() = %#x, want %#x", got, tt.hw)
			}
			if got := swizzle(tt.f); got != tt.swizzle {
				t.Errorf("swizzle() = %d, want %d", got, tt.swizzle)
			}
			if got := uvSwizzle(tt.f); got != tt.uvSwizzle {
				t.Errorf("uvSwizzle() = %d, want %d", got, tt.uvSwizzle)
			}
		})
	}
}

func TestHWRotation(t *testing.T) {
	tests := []struct {
		name string
		r    kms.Rotation
		want uint32
	}{
		{"0", kms.Rotate0, rot0},
		{"90", kms.Rotate90, rot90},
		{"180", kms.Rotate180, rot180},
		{"270", kms.Rotate270, rot270},
		{"reflect x", kms.Rotate0 | kms.ReflectX, flipX},
		{"reflect y", kms.Rotate0 | kms.ReflectY, flipY},
		{"reflect both", kms.ReflectX | kms.ReflectY, flipXY},
		{"reflection wins", kms.Rotate90 | kms.ReflectX, flipX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hwRotation(tt.r); got != tt.want {
				t.Errorf("hwRotation(%#x) = %d, want %d", uint32(tt.r), got, tt.want)
			}
		})
	}
}

func TestColorSpace(t *testing.T) {
	tests := []struct {
		e     kms.ColorEncoding
		want  uint32
		table *[16]int32
	}{
		{kms.EncodingBT601, colorSpace601, &yuv601ToRGB},
		{kms.EncodingBT709, colorSpace709, &yuv709ToRGB},
		{kms.EncodingBT2020, colorSpace2020, &yuv2020ToRGB},
	}
	for _, tt := range tests {
		if got := colorSpace(tt.e); got != tt.want {
			t.Errorf("colorSpace(%d) = %d, want %d", tt.e, got, tt.want)
		}
		if got := yuvToRGBTable(tt.e); got != tt.table {
			t.Errorf("yuvToRGBTable(%d) picked the wrong table", tt.e)
		}
	}
}

func TestScaleFactor(t *testing.T) {
	tests := []struct {
		src, dst int
		want     uint32
	}{
		{1920, 1920, 1 << 16},
		{960, 1920, 32750},
		{3840, 1920, 131106},
		{640, 1920, 21822},
		{1, 5, 1 << 16},
		{5, 1, 1 << 16},
	}
	for _, tt := range tests {
		if got := ScaleFactor(tt.src, tt.dst); got != tt.want {
			t.Errorf("ScaleFactor(%d, %d) = %d, want %d", tt.src, tt.dst, got, tt.want)
		}
	}
}

// checked runs CheckPlane and fails the test on error.
func checked(t *testing.T, d *Dev, id PlaneID, s *kms.PlaneState, m kms.Mode) *kms.PlaneState {
	t.Helper()
	if err := d.CheckPlane(id, s, m); err != nil {
		t.Fatalf("CheckPlane(%s) = %v", id, err)
	}
	return s
}

func TestUpdatePlanePrimary(t *testing.T) {
	d, regs, _ := newDev(t, nil)
	st := checked(t, d, Primary0, argbState(1920, 1080), vicMode(t, 16))
	if err := d.UpdatePlane(Primary0, st); err != nil {
		t.Fatal(err)
	}
	r := &primaryRegs

	ops := regs.Ops()
	order := []struct {
		name string
		off  uint32
	}{
		{"color space", r.configEx.off()},
		{"address", r.yAddr.off()},
		{"format", r.config.off()},
		{"position", r.topLeft.off()},
		{"alpha", r.srcGlobal.off()},
		{"blend", r.blendConfig.off()},
	}
	last := -1
	for _, o := range order {
		i := firstWrite(ops, o.off)
		if i <= last {
			t.Errorf("%s written at %d, want after %d", o.name, i, last)
		}
		last = i
	}

	cfg := regs.Get(r.config.off())
	fields := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"address", regs.Get(r.yAddr.off()), 0x1000_0000},
		{"stride", regs.Get(r.yStride.off()), 7680},
		{"size", regs.Get(r.size.off()), pos(1920, 1080)},
		{"format", fbFormat.Get(cfg), hwA8R8G8B8},
		{"swizzle", fbSwiz.Get(cfg), swizzleARGB},
		{"rotation", fbRotation.Get(cfg), rot0},
		{"scaler", fbScaleEn.Get(cfg), 0},
		{"enable", fbEnable.Get(regs.Get(r.configEx.off())), 1},
		{"zpos", fbZpos.Get(regs.Get(r.configEx.off())), 0},
		{"rgb gamut", fbRGBToRGB.Get(regs.Get(r.configEx.off())), 1},
		{"top left", regs.Get(r.topLeft.off()), 0},
		{"bottom right", regs.Get(r.bottomRight.off()), pos(1920, 1080)},
		{"src alpha", regs.Get(r.srcGlobal.off()), 0xff000000},
		{"dst alpha", regs.Get(r.dstGlobal.off()), 0xff000000},
		{"blend", regs.Get(r.blendConfig.off()), blendPremulti},
	}
	for _, f := range fields {
		if f.got != f.want {
			t.Errorf("%s = %#x, want %#x", f.name, f.got, f.want)
		}
	}
	if n := len(regs.WritesTo(r.scaleX.off())); n != 0 {
		t.Errorf("%d scale factor writes for an unscaled plane", n)
	}
}

func TestUpdatePlaneOverlayYVU420(t *testing.T) {
	d, regs, _ := newDev(t, nil)
	st := argbState(640, 480)
	st.FB.Format = kms.YVU420
	st.FB.Addrs = [kms.MaxPlanes]uint64{0x100, 0x200, 0x300}
	st.FB.Pitches = [kms.MaxPlanes]uint32{640, 320, 336}
	st.Zpos = 2
	st.CRTC = 1
	checked(t, d, Overlay2, st, vicMode(t, 1))
	if err := d.UpdatePlane(Overlay2, st); err != nil {
		t.Fatal(err)
	}
	r, ch := &overlayRegs, Overlay2.channel()
	cfg := regs.Get(r.config.off() + ch)
	ex := regs.Get(r.configEx.off() + ch)
	fields := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"y address", regs.Get(r.yAddr.off() + ch), 0x100},
		{"u address", regs.Get(r.uAddr.off() + ch), 0x300},
		{"v address", regs.Get(r.vAddr.off() + ch), 0x200},
		{"u stride", regs.Get(r.uStride.off() + ch), 336},
		{"v stride", regs.Get(r.vStride.off() + ch), 320},
		{"format", ovFormat.Get(cfg), hwYV12},
		{"color space", ovYUVColor.Get(cfg), colorSpace709},
		{"clamp", ovClampEn.Get(cfg), 1},
		{"rgb gamut", ovRGBToRGB.Get(cfg), 0},
		{"enable", ovFBEnable.Get(cfg), 1},
		{"layer", ovLayerSel.Get(ex), 2},
		{"panel", ovPanelSel.Get(ex), 1},
		{"yuv coefficient 0", regs.Get(r.yuvToRGB[0].off() + ch), pack16(int64(yuv709ToRGB[0]), int64(yuv709ToRGB[1]))},
		{"y clamp", regs.Get(r.yClamp.off() + ch), pack16(int64(yuv709ToRGB[12]), int64(yuv709ToRGB[13]))},
	}
	for _, f := range fields {
		if f.got != f.want {
			t.Errorf("%s = %#x, want %#x", f.name, f.got, f.want)
		}
	}
	// Overlay0 shares the layout at channel 0 and must be left alone.
	if got := regs.Get(r.yAddr.off()); got != 0 {
		t.Errorf("overlay0 address = %#x, want untouched", got)
	}
}

func TestUpdatePlaneScaled(t *testing.T) {
	tests := []struct {
		name   string
		id     PlaneID
		fbW    int
		fbH    int
		rot    kms.Rotation
		wantFX uint32
		wantFY uint32
	}{
		{"primary upscale", Primary0, 960, 540, kms.Rotate0, 32750, 32737},
		{"primary rotated", Primary0, 540, 960, kms.Rotate90, 32750, 32737},
		{"overlay downscale", Overlay0, 3840, 2160, kms.Rotate0, 131106, 131132},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, regs, _ := newDev(t, nil)
			st := argbState(tt.fbW, tt.fbH)
			st.Dst = image.Rect(0, 0, 1920, 1080)
			st.Rotation = tt.rot
			checked(t, d, tt.id, st, vicMode(t, 16))
			if err := d.UpdatePlane(tt.id, st); err != nil {
				t.Fatal(err)
			}
			r := layout(tt.id)
			if got := regs.Get(r.scaleX.off()); got != tt.wantFX {
				t.Errorf("scale x = %d, want %d", got, tt.wantFX)
			}
			if got := regs.Get(r.scaleY.off()); got != tt.wantFY {
				t.Errorf("scale y = %d, want %d", got, tt.wantFY)
			}
			var on uint32
			if r.primary {
				on = fbScaleEn.Get(regs.Get(r.config.off()))
			} else {
				on = ovScaleEn.Get(regs.Get(r.scaleConfig.off()))
			}
			if on != 1 {
				t.Error("scaler not enabled")
			}
			if got := regs.Get(r.bottomRight.off()); got != pos(1920, 1080) {
				t.Errorf("bottom right = %#x, want %#x", got, pos(1920, 1080))
			}
		})
	}
}

func TestUpdatePlaneUnknownBlend(t *testing.T) {
	d, regs, _ := newDev(t, nil)
	st := checked(t, d, Primary0, argbState(64, 64), vicMode(t, 16))
	st.Blend = kms.BlendMode(0xff)
	st.Alpha = 0x8000
	if err := d.UpdatePlane(Primary0, st); err != nil {
		t.Fatal(err)
	}
	if n := len(regs.WritesTo(primaryRegs.blendConfig.off())); n != 0 {
		t.Errorf("%d blend config writes, want 0", n)
	}
	if got := regs.Get(primaryRegs.srcGlobal.off()); got != 0x80000000 {
		t.Errorf("src alpha = %#x, want 0x80000000", got)
	}
}

func TestUpdatePlaneInvisible(t *testing.T) {
	d, regs, _ := newDev(t, nil)
	st := argbState(64, 64)
	st.Dst = image.Rect(2000, 0, 2064, 64)
	checked(t, d, Primary0, st, vicMode(t, 16))
	if st.Visible {
		t.Fatal("off-screen plane is visible")
	}
	if err := d.UpdatePlane(Primary0, st); err != nil {
		t.Fatal(err)
	}
	if n := len(regs.WritesTo(primaryRegs.yAddr.off())); n != 0 {
		t.Errorf("%d address writes for an invisible plane", n)
	}
	if got := fbEnable.Get(regs.Get(primaryRegs.configEx.off())); got != 0 {
		t.Error("invisible plane enabled")
	}
}

func TestUpdatePlaneErrors(t *testing.T) {
	d, _, _ := newDev(t, nil)
	st := argbState(64, 64)
	if err := d.UpdatePlane(Cursor0, st); !errors.Is(err, ErrPlane) {
		t.Errorf("UpdatePlane(cursor) = %v, want ErrPlane", err)
	}
	st.CRTC = 2
	if err := d.UpdatePlane(Primary0, st); !errors.Is(err, ErrPanel) {
		t.Errorf("UpdatePlane(panel 2) = %v, want ErrPanel", err)
	}
	if err := d.UpdatePlane(Primary0, nil); err != nil {
		t.Errorf("UpdatePlane(nil) = %v", err)
	}
}

func TestDisablePlane(t *testing.T) {
	d, regs, _ := newDev(t, nil)
	regs.Set(primaryRegs.configEx.off(), fbEnable.Mask()|fbZpos.Put(3))
	regs.Set(overlayRegs.config.off()+Overlay1.channel(), ovFBEnable.Mask()|ovFormat.Put(hwNV12))

	for _, id := range []PlaneID{Primary0, Overlay1} {
		if err := d.DisablePlane(id); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := regs.Get(primaryRegs.configEx.off()), fbZpos.Put(3); got != want {
		t.Errorf("primary0 config ex = %#x, want %#x", got, want)
	}
	if got, want := regs.Get(overlayRegs.config.off()+Overlay1.channel()), ovFormat.Put(hwNV12); got != want {
		t.Errorf("overlay1 config = %#x, want %#x", got, want)
	}
	if err := d.DisablePlane(Cursor1); !errors.Is(err, ErrPlane) {
		t.Errorf("DisablePlane(cursor1) = %v, want ErrPlane", err)
	}
}
