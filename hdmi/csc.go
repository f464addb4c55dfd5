package hdmi

import "github.com/flavioheleno/vsdisplay/kms"

// cscTable selects one of the fixed coefficient sets.
type cscTable int

const (
	cscRGBToITU601 cscTable = iota // RGB 0-255 to YCbCr 601, 16-235
	cscRGBToITU709                 // RGB 0-255 to YCbCr 709, 16-235
	cscRGBToLimited                // RGB 0-255 to RGB 16-235
)

const cscCoefCount = 24

var cscCoefs = [...][cscCoefCount]uint8{
	cscRGBToITU601: {
		0x11, 0x5f, 0x01, 0x82, 0x10, 0x23, 0x00, 0x80,
		0x02, 0x1c, 0x00, 0xa1, 0x00, 0x36, 0x00, 0x1e,
		0x11, 0x29, 0x10, 0x59, 0x01, 0x82, 0x00, 0x80,
	},
	cscRGBToITU709: {
		0x11, 0x98, 0x01, 0xc1, 0x10, 0x28, 0x00, 0x80,
		0x02, 0x74, 0x00, 0xbb, 0x00, 0x3f, 0x00, 0x10,
		0x11, 0x5a, 0x10, 0x67, 0x01, 0xc1, 0x00, 0x80,
	},
	cscRGBToLimited: {
		0x00, 0x00, 0x03, 0x6f, 0x00, 0x00, 0x00, 0x10,
		0x03, 0x6f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
		0x00, 0x00, 0x00, 0x00, 0x03, 0x6f, 0x00, 0x10,
	},
}

// cscPlan is what ConfigureCSC programs for a connector state.
type cscPlan struct {
	table  cscTable
	enable bool
	fixed  bool // Explicit colorimetry: auto CSC and C0/C2 swap off
	fast   bool // RGB full range: no conversion, no coefficient load
}

func planCSC(s *ConnectorState) cscPlan {
	if s.Encoding == kms.EncodingRGB {
		if s.RGBLimited {
			return cscPlan{table: cscRGBToLimited, enable: true, fixed: true}
		}
		return cscPlan{fast: true}
	}
	if s.Encoding != kms.EncodingYUV444 {
		// No conversion table for subsampled output. The coefficients are
		// still loaded with CSC left off.
		return cscPlan{table: cscRGBToITU601}
	}
	if s.Colorimetry == kms.ColorimetryITU601 {
		return cscPlan{table: cscRGBToITU601, enable: true, fixed: true}
	}
	return cscPlan{table: cscRGBToITU709, enable: true, fixed: true}
}

// ConfigureCSC programs the input format and the color space converter for
// s. Input is always 8-bit RGB with external data enable.
//
// RGB full range takes a fast path that leaves the converter off and writes
// no coefficients. Every other case loads all 24 coefficients before setting
// the enable bit, and always turns automatic CSC and the C0/C2 swap off so an
// explicit colorimetry is never overridden.
func (d *Dev) ConfigureCSC(s *ConnectorState) error {
	if d.halted.Load() {
		return ErrHalted
	}
	d.configureCSC(s)
	return nil
}

func (d *Dev) configureCSC(s *ConnectorState) {
	d.writeb(regVideoCtrl1, vc1DEExternal.Put(1)|vc1InputFormat.Put(vc1InputSDRRGB))
	d.writeb(regVideoCtrl2, vc2InputBits.Put(vc2Input8Bits)|vc2OutputColor.Put(0)|vc2InputCSP.Put(0))

	p := planCSC(s)
	if p.fast {
		d.writeb(regVideoCtrl3, vc3SOFDisable.Put(1)|vc3DepthNotInd.Put(1))
		d.modb(regVideoCtrl, vcAutoCSC.Mask()|vcC0C2Swap.Mask(), vcC0C2Swap.Put(1))
		return
	}
	for i, c := range cscCoefs[p.table] {
		d.writeb(regCSCCoef+reg(i), uint32(c))
	}
	d.writeb(regVideoCtrl3, vc3SOFDisable.Put(1)|vc3CSCEnable.Flag(p.enable)|vc3DepthNotInd.Put(1))
	d.modb(regVideoCtrl, vcAutoCSC.Mask()|vcC0C2Swap.Mask(), vcC0C2Swap.Flag(p.fixed))
}
