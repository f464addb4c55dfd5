package dc

import "github.com/flavioheleno/vsdisplay/regio"

// reg is a controller register address as documented by the hardware. The
// register window starts at regBase.
type reg uint32

const regBase reg = 0x0800

func (r reg) off() uint32 { return uint32(r - regBase) }

// AHB window, holding the interrupt registers.
const (
	hiIntAck    uint32 = 0x0010
	hiIntEnable uint32 = 0x0014
)

// Primary layer (framebuffer) registers.
const (
	regFBConfig       reg = 0x1518
	regFBConfigEx     reg = 0x1cc0
	regFBScaleConfig  reg = 0x1520
	regFBTopLeft      reg = 0x24d8
	regFBBottomRight  reg = 0x24e0
	regFBAddress      reg = 0x1400
	regFBUAddress     reg = 0x1530
	regFBVAddress     reg = 0x1538
	regFBStride       reg = 0x1408
	regFBUStride      reg = 0x1800
	regFBVStride      reg = 0x1808
	regFBSize         reg = 0x1810
	regFBScaleX       reg = 0x1828
	regFBScaleY       reg = 0x1830
	regFBHFilterIndex reg = 0x1838
	regFBHFilterData  reg = 0x1a00
	regFBVFilterIndex reg = 0x1a08
	regFBVFilterData  reg = 0x1a10
	regFBInitOffset   reg = 0x1a20
	regFBBlendConfig  reg = 0x2510
	regFBSrcGlobal    reg = 0x2500
	regFBDstGlobal    reg = 0x2508
	regFBYUVToRGB0    reg = 0x1da0
	regFBYUVToRGB1    reg = 0x1da8
	regFBYUVToRGB2    reg = 0x1db0
	regFBYUVToRGB3    reg = 0x1db8
	regFBYUVToRGB4    reg = 0x1e00
	regFBYUVToRGBD0   reg = 0x1e08
	regFBYUVToRGBD1   reg = 0x1e10
	regFBYUVToRGBD2   reg = 0x1e18
	regFBYClamp       reg = 0x1e88
	regFBUVClamp      reg = 0x1e90
	regFBRGBToRGB0    reg = 0x1e20
	regFBRGBToRGB1    reg = 0x1e28
	regFBRGBToRGB2    reg = 0x1e30
	regFBRGBToRGB3    reg = 0x1e38
	regFBRGBToRGB4    reg = 0x1e40
)

// Overlay layer registers.
const (
	regOVConfig       reg = 0x1540
	regOVConfigEx     reg = 0x2540
	regOVScaleConfig  reg = 0x1c00
	regOVBlendConfig  reg = 0x1580
	regOVTopLeft      reg = 0x1640
	regOVBottomRight  reg = 0x1680
	regOVAddress      reg = 0x15c0
	regOVUAddress     reg = 0x1840
	regOVVAddress     reg = 0x1880
	regOVStride       reg = 0x1600
	regOVUStride      reg = 0x18c0
	regOVVStride      reg = 0x1900
	regOVSize         reg = 0x17c0
	regOVScaleX       reg = 0x1a40
	regOVScaleY       reg = 0x1a80
	regOVHFilterIndex reg = 0x1ac0
	regOVHFilterData  reg = 0x1b00
	regOVVFilterIndex reg = 0x1b40
	regOVVFilterData  reg = 0x1b80
	regOVInitOffset   reg = 0x1bc0
	regOVSrcGlobal    reg = 0x16c0
	regOVDstGlobal    reg = 0x1700
	regOVYUVToRGB0    reg = 0x1ec0
	regOVYUVToRGB1    reg = 0x1f00
	regOVYUVToRGB2    reg = 0x1f40
	regOVYUVToRGB3    reg = 0x1f80
	regOVYUVToRGB4    reg = 0x1fc0
	regOVYUVToRGBD0   reg = 0x2000
	regOVYUVToRGBD1   reg = 0x2040
	regOVYUVToRGBD2   reg = 0x2080
	regOVYClamp       reg = 0x22c0
	regOVUVClamp      reg = 0x2300
	regOVRGBToRGB0    reg = 0x20c0
	regOVRGBToRGB1    reg = 0x2100
	regOVRGBToRGB2    reg = 0x2140
	regOVRGBToRGB3    reg = 0x2180
	regOVRGBToRGB4    reg = 0x21c0
)

// Cursor registers. The second cursor is cursorStride above the first.
const (
	regCursorConfig     reg = 0x1468
	regCursorAddress    reg = 0x146c
	regCursorLocation   reg = 0x1470
	regCursorBackground reg = 0x1474
	regCursorForeground reg = 0x1478

	cursorStride = 0x1080
)

// Panel registers. Panel n is at 4*n above panel 0, except regPanelStart
// which is shared.
const (
	regPanelConfig   reg = 0x1418
	regPanelConfigEx reg = 0x2518
	regDisplayH      reg = 0x1430
	regDisplayHSync  reg = 0x1438
	regDisplayV      reg = 0x1440
	regDisplayVSync  reg = 0x1448
	regDPIConfig     reg = 0x14b8
	regPanelStart    reg = 0x1ccc
	regDPConfig      reg = 0x1cd0
	regGammaIndex    reg = 0x1cf0
	regGammaData     reg = 0x1cf8
	regGammaOneData  reg = 0x1d80
	regRGBToYUV0     reg = 0x1e48
	regRGBToYUV1     reg = 0x1e50
	regRGBToYUV2     reg = 0x1e58
	regRGBToYUV3     reg = 0x1e60
	regRGBToYUV4     reg = 0x1e68
	regRGBToYUVD0    reg = 0x1e70
	regRGBToYUVD1    reg = 0x1e78
	regRGBToYUVD2    reg = 0x1e80
)

// FRAMEBUFFER_CONFIG
var (
	fbFormat   = regio.Field{Shift: 26, Width: 6}
	fbUVSwiz   = regio.Bit(25)
	fbSwiz     = regio.Field{Shift: 23, Width: 2}
	fbTile     = regio.Field{Shift: 17, Width: 5}
	fbYUVColor = regio.Field{Shift: 14, Width: 3}
	fbRotation = regio.Field{Shift: 11, Width: 3}
	fbScaleEn  = regio.Bit(12)
	fbClearEn  = regio.Bit(8)
)

// FRAMEBUFFER_CONFIG_EX
var (
	fbChannel   = regio.Bit(19)
	fbZpos      = regio.Field{Shift: 16, Width: 3}
	fbEnable    = regio.Bit(13)
	fbShadowEn  = regio.Bit(12)
	fbYUVClamp  = regio.Bit(8)
	fbRGBToRGB  = regio.Bit(6)
	fbDecoderEn = regio.Bit(1)
)

// OVERLAY_CONFIG
var (
	ovShadowEn = regio.Bit(31)
	ovClampEn  = regio.Bit(30)
	ovRGBToRGB = regio.Bit(29)
	ovDecEn    = regio.Bit(27)
	ovClearEn  = regio.Bit(25)
	ovFBEnable = regio.Bit(24)
	ovFormat   = regio.Field{Shift: 16, Width: 6}
	ovUVSwiz   = regio.Bit(15)
	ovSwiz     = regio.Field{Shift: 13, Width: 2}
	ovTile     = regio.Field{Shift: 8, Width: 5}
	ovYUVColor = regio.Field{Shift: 5, Width: 3}
	ovRotation = regio.Field{Shift: 2, Width: 3}
)

// OVERLAY_CONFIG_EX
var (
	ovLayerSel = regio.Field{Shift: 0, Width: 3}
	ovPanelSel = regio.Bit(3)
)

var ovScaleEn = regio.Bit(8) // OVERLAY_SCALE_CONFIG

// CURSOR_CONFIG
var (
	cursorHotX      = regio.Field{Shift: 16, Width: 8}
	cursorHotY      = regio.Field{Shift: 8, Width: 8}
	cursorSize      = regio.Field{Shift: 5, Width: 3}
	cursorValid     = regio.Bit(3)
	cursorTrigFetch = regio.Bit(2)
	cursorFormat    = regio.Field{Shift: 0, Width: 2}
)

const (
	cursorFormatARGB8888 = 2
	cursorSize32         = 0
	cursorSize64         = 1
)

// PANEL_CONFIG
var (
	panelRGBToYUV = regio.Bit(16)
	panelGammaEn  = regio.Bit(13)
	panelOutputEn = regio.Bit(12)
)

var panelShadowEn = regio.Bit(0) // PANEL_CONFIG_EX

// PANEL_START
var (
	panel0En   = regio.Bit(0)
	panel1En   = regio.Bit(1)
	twoPanelEn = regio.Bit(2)
	syncEn     = regio.Bit(3)
)

var dpSelect = regio.Bit(3) // DP_CONFIG

// DISPLAY_H and DISPLAY_V
var (
	activeLen = regio.Field{Shift: 0, Width: 16}
	totalLen  = regio.Field{Shift: 16, Width: 16}
)

// DISPLAY_H_SYNC and DISPLAY_V_SYNC
var (
	syncStart    = regio.Field{Shift: 0, Width: 15}
	syncEnd      = regio.Field{Shift: 15, Width: 15}
	syncPlus     = regio.Bit(30)
	syncPolarity = regio.Bit(31) // 1: active low
)

// Positions and sizes pack x in the low bits and y from bit 15.
func pos(x, y int) uint32 {
	return uint32(x) | uint32(y)<<15
}

// Default register values.
const (
	panelConfigDefault = 0x111
	scaleConfigDefault = 0x33
	initOffsetDefault  = 0x80008000
	cursorBackground   = 0x00ffffff
	cursorForeground   = 0x00aaaaaa
)

// Blend configurations.
const (
	blendPremulti  = 0x3450
	blendCoverage  = 0x3950
	blendPixelNone = 0x3548
)

// layerRegs is the register layout of a layer. Primary and overlay layers
// use different layouts; each layer adds its channel offset.
type layerRegs struct {
	primary bool

	config, configEx, scaleConfig     reg
	topLeft, bottomRight              reg
	yAddr, uAddr, vAddr               reg
	yStride, uStride, vStride         reg
	size                              reg
	scaleX, scaleY                    reg
	hFilterIndex, hFilterData         reg
	vFilterIndex, vFilterData         reg
	initOffset                        reg
	blendConfig, srcGlobal, dstGlobal reg
	yuvToRGB                          [5]reg
	yuvToRGBD                         [3]reg
	yClamp, uvClamp                   reg
	rgbToRGB                          [5]reg
}

var primaryRegs = layerRegs{
	primary:      true,
	config:       regFBConfig,
	configEx:     regFBConfigEx,
	scaleConfig:  regFBScaleConfig,
	topLeft:      regFBTopLeft,
	bottomRight:  regFBBottomRight,
	yAddr:        regFBAddress,
	uAddr:        regFBUAddress,
	vAddr:        regFBVAddress,
	yStride:      regFBStride,
	uStride:      regFBUStride,
	vStride:      regFBVStride,
	size:         regFBSize,
	scaleX:       regFBScaleX,
	scaleY:       regFBScaleY,
	hFilterIndex: regFBHFilterIndex,
	hFilterData:  regFBHFilterData,
	vFilterIndex: regFBVFilterIndex,
	vFilterData:  regFBVFilterData,
	initOffset:   regFBInitOffset,
	blendConfig:  regFBBlendConfig,
	srcGlobal:    regFBSrcGlobal,
	dstGlobal:    regFBDstGlobal,
	yuvToRGB:     [5]reg{regFBYUVToRGB0, regFBYUVToRGB1, regFBYUVToRGB2, regFBYUVToRGB3, regFBYUVToRGB4},
	yuvToRGBD:    [3]reg{regFBYUVToRGBD0, regFBYUVToRGBD1, regFBYUVToRGBD2},
	yClamp:       regFBYClamp,
	uvClamp:      regFBUVClamp,
	rgbToRGB:     [5]reg{regFBRGBToRGB0, regFBRGBToRGB1, regFBRGBToRGB2, regFBRGBToRGB3, regFBRGBToRGB4},
}

var overlayRegs = layerRegs{
	config:       regOVConfig,
	configEx:     regOVConfigEx,
	scaleConfig:  regOVScaleConfig,
	topLeft:      regOVTopLeft,
	bottomRight:  regOVBottomRight,
	yAddr:        regOVAddress,
	uAddr:        regOVUAddress,
	vAddr:        regOVVAddress,
	yStride:      regOVStride,
	uStride:      regOVUStride,
	vStride:      regOVVStride,
	size:         regOVSize,
	scaleX:       regOVScaleX,
	scaleY:       regOVScaleY,
	hFilterIndex: regOVHFilterIndex,
	hFilterData:  regOVHFilterData,
	vFilterIndex: regOVVFilterIndex,
	vFilterData:  regOVVFilterData,
	initOffset:   regOVInitOffset,
	blendConfig:  regOVBlendConfig,
	srcGlobal:    regOVSrcGlobal,
	dstGlobal:    regOVDstGlobal,
	yuvToRGB:     [5]reg{regOVYUVToRGB0, regOVYUVToRGB1, regOVYUVToRGB2, regOVYUVToRGB3, regOVYUVToRGB4},
	yuvToRGBD:    [3]reg{regOVYUVToRGBD0, regOVYUVToRGBD1, regOVYUVToRGBD2},
	yClamp:       regOVYClamp,
	uvClamp:      regOVUVClamp,
	rgbToRGB:     [5]reg{regOVRGBToRGB0, regOVRGBToRGB1, regOVRGBToRGB2, regOVRGBToRGB3, regOVRGBToRGB4},
}
