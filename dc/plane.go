package dc

import (
	"fmt"

	"github.com/flavioheleno/vsdisplay/kms"
	"github.com/flavioheleno/vsdisplay/regio"
)

// UpdatePlane programs layer id from s. s must have passed CheckPlane, which
// computes its clipped geometry. A state without framebuffer is ignored.
//
// The registers are written in hardware order: color space, buffer
// addresses (visible planes only), format, scaling, then blending.
func (d *Dev) UpdatePlane(id PlaneID, s *kms.PlaneState) error {
	if d.halted.Load() {
		return ErrHalted
	}
	if _, err := d.layer(id); err != nil {
		return err
	}
	if s == nil || s.FB == nil {
		return nil
	}
	if err := d.checkPanel(s.CRTC); err != nil {
		return err
	}
	r, ch := layout(id), id.channel()
	d.updateColorspace(r, ch, s.FB.Format, s.Encoding)
	if s.Visible {
		d.updateAddress(r, ch, s)
	}
	d.updateFormat(r, ch, s)
	d.updateScale(r, ch, s)
	d.updateBlend(r, ch, s)
	if err := regio.Err(d.regs); err != nil {
		return fmt.Errorf("dc: failed to update %s: %w", id, err)
	}
	return nil
}

// DisablePlane stops the scan-out of layer id.
func (d *Dev) DisablePlane(id PlaneID) error {
	if d.halted.Load() {
		return ErrHalted
	}
	if _, err := d.layer(id); err != nil {
		return err
	}
	r, ch := layout(id), id.channel()
	if r.primary {
		d.setClear(r.configEx, ch, 0, fbEnable.Mask())
	} else {
		d.setClear(r.config, ch, 0, ovFBEnable.Mask())
	}
	return regio.Err(d.regs)
}

// layer returns the descriptor of layer id.
func (d *Dev) layer(id PlaneID) (*PlaneInfo, error) {
	p, ok := d.info.Plane(id)
	if !ok || id.Cursor() {
		return nil, fmt.Errorf("dc: layer %s: %w", id, ErrPlane)
	}
	return p, nil
}

// updateColorspace selects the YUV clamp and conversion table for YUV
// formats, the RGB gamut table otherwise.
func (d *Dev) updateColorspace(r *layerRegs, ch uint32, f kms.Format, enc kms.ColorEncoding) {
	yuv := f.Info().YUV
	if r.primary {
		if yuv {
			d.setClear(r.configEx, ch, fbYUVClamp.Mask(), fbRGBToRGB.Mask())
		} else {
			d.setClear(r.configEx, ch, fbRGBToRGB.Mask(), fbYUVClamp.Mask())
		}
	} else {
		if yuv {
			d.setClear(r.config, ch, ovClampEn.Mask(), ovRGBToRGB.Mask())
		} else {
			d.setClear(r.config, ch, ovRGBToRGB.Mask(), ovClampEn.Mask())
		}
	}
	if yuv {
		d.loadYUVToRGB(r, ch, yuvToRGBTable(enc))
	}
}

// updateAddress writes the plane addresses and strides. YVU420 stores V
// before U.
func (d *Dev) updateAddress(r *layerRegs, ch uint32, s *kms.PlaneState) {
	fb := s.FB
	u, v := 1, 2
	if fb.Format == kms.YVU420 {
		u, v = 2, 1
	}
	d.write(r.yAddr, ch, uint32(fb.Addrs[0]))
	d.write(r.uAddr, ch, uint32(fb.Addrs[u]))
	d.write(r.vAddr, ch, uint32(fb.Addrs[v]))
	d.write(r.yStride, ch, fb.Pitches[0])
	d.write(r.uStride, ch, fb.Pitches[u])
	d.write(r.vStride, ch, fb.Pitches[v])
	src := s.ClippedSrc
	d.write(r.size, ch, pos(int(src.W()>>16), int(src.H()>>16)))
}

func (d *Dev) updateFormat(r *layerRegs, ch uint32, s *kms.PlaneState) {
	f, enc := s.FB.Format, s.Encoding
	if r.primary {
		d.setClear(r.config, ch,
			fbFormat.Put(hwFormat(f))|
				fbUVSwiz.Put(uvSwizzle(f))|
				fbSwiz.Put(swizzle(f))|
				fbTile.Put(uint32(kms.ModLinear))|
				fbYUVColor.Put(colorSpace(enc))|
				fbRotation.Put(hwRotation(s.Rotation)),
			fbFormat.Mask()|fbUVSwiz.Mask()|fbSwiz.Mask()|fbTile.Mask()|
				fbYUVColor.Mask()|fbRotation.Mask()|fbClearEn.Mask())
		d.setClear(r.configEx, ch,
			fbEnable.Flag(s.Visible)|
				fbZpos.Put(uint32(s.Zpos))|
				fbChannel.Put(uint32(s.CRTC)),
			fbDecoderEn.Mask()|fbEnable.Mask()|fbZpos.Mask()|fbChannel.Mask())
		return
	}
	d.setClear(r.config, ch,
		ovFBEnable.Flag(s.Visible)|
			ovFormat.Put(hwFormat(f))|
			ovUVSwiz.Put(uvSwizzle(f))|
			ovSwiz.Put(swizzle(f))|
			ovTile.Put(uint32(kms.ModLinear))|
			ovYUVColor.Put(colorSpace(enc))|
			ovRotation.Put(hwRotation(s.Rotation)),
		ovDecEn.Mask()|ovClearEn.Mask()|ovFBEnable.Mask()|ovFormat.Mask()|ovUVSwiz.Mask()|
			ovSwiz.Mask()|ovTile.Mask()|ovYUVColor.Mask()|ovRotation.Mask())
	d.setClear(r.configEx, ch,
		ovLayerSel.Put(uint32(s.Zpos))|ovPanelSel.Put(uint32(s.CRTC)),
		ovLayerSel.Mask()|ovPanelSel.Mask())
}

// ScaleFactor returns the 16.16 step through src source pixels for dst
// destination pixels.
func ScaleFactor(src, dst int) uint32 {
	if src > 1 && dst > 1 {
		return uint32(((src - 1) << 16) / (dst - 1))
	}
	return 1 << 16
}

// updateScale enables the scaler when either axis changes size and always
// writes the destination rectangle.
func (d *Dev) updateScale(r *layerRegs, ch uint32, s *kms.PlaneState) {
	dst := s.ClippedDst
	srcW, srcH := int(s.ClippedSrc.W()>>16), int(s.ClippedSrc.H()>>16)
	if s.Rotation.Swaps() {
		srcW, srcH = srcH, srcW
	}
	fx, fy := uint32(1<<16), uint32(1<<16)
	scale := false
	if srcW != dst.Dx() {
		fx = ScaleFactor(srcW, dst.Dx())
		scale = true
	}
	if srcH != dst.Dy() {
		fy = ScaleFactor(srcH, dst.Dy())
		scale = true
	}
	if scale {
		d.write(r.scaleX, ch, fx)
		d.write(r.scaleY, ch, fy)
	}
	if r.primary {
		d.setClear(r.config, ch, fbScaleEn.Flag(scale), fbScaleEn.Flag(!scale))
	} else {
		d.setClear(r.scaleConfig, ch, ovScaleEn.Flag(scale), ovScaleEn.Flag(!scale))
	}
	d.write(r.topLeft, ch, pos(dst.Min.X, dst.Min.Y))
	d.write(r.bottomRight, ch, pos(dst.Max.X, dst.Max.Y))
}

// updateBlend writes the global alpha and the blend mode. An unknown mode
// keeps the previous blend configuration.
func (d *Dev) updateBlend(r *layerRegs, ch uint32, s *kms.PlaneState) {
	alpha := uint32(s.Alpha>>8) << 24
	d.write(r.srcGlobal, ch, alpha)
	d.write(r.dstGlobal, ch, alpha)
	switch s.Blend {
	case kms.BlendPremulti:
		d.write(r.blendConfig, ch, blendPremulti)
	case kms.BlendCoverage:
		d.write(r.blendConfig, ch, blendCoverage)
	case kms.BlendPixelNone:
		d.write(r.blendConfig, ch, blendPixelNone)
	}
}
