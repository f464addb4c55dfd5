package hdmi

import "github.com/flavioheleno/vsdisplay/regio"

// reg is a transmitter register index. Each register holds one byte and
// registers are laid out 4 bytes apart in the window.
type reg uint16

func (r reg) off() uint32 { return uint32(r) * 4 }

// Common registers.
const (
	regSysCtrl         reg = 0x00
	regVideoCtrl1      reg = 0x01
	regVideoCtrl2      reg = 0x02
	regVideoCtrl       reg = 0x03
	regVideoCtrl3      reg = 0x04
	regAVMute          reg = 0x05
	regVideoTimingCtl  reg = 0x08
	regExtHTotalL      reg = 0x09
	regExtHTotalH      reg = 0x0a
	regExtHBlankL      reg = 0x0b
	regExtHBlankH      reg = 0x0c
	regExtHDelayL      reg = 0x0d
	regExtHDelayH      reg = 0x0e
	regExtHDurationL   reg = 0x0f
	regExtHDurationH   reg = 0x10
	regExtVTotalL      reg = 0x11
	regExtVTotalH      reg = 0x12
	regExtVBlank       reg = 0x13
	regExtVDelay       reg = 0x14
	regExtVDuration    reg = 0x15
	regCSCCoef         reg = 0x18 // 24 consecutive registers
	regDDCBusFreqL     reg = 0x4b
	regDDCBusFreqH     reg = 0x4c
	regEDIDSegment     reg = 0x4d
	regEDIDWordAddr    reg = 0x4e
	regEDIDFIFOOffset  reg = 0x4f
	regEDIDFIFO        reg = 0x50
	regHDCPCtrl        reg = 0x52
	regPacketBufIndex  reg = 0x9f
	regPacketAddr      reg = 0xa0
	regIntMask1        reg = 0xc0
	regIntStatus1      reg = 0xc1
	regStatus          reg = 0xc8
	regPHYSync         reg = 0xce
	regPHYSysCtl       reg = 0xe0
	regPHYChgPwr       reg = 0xe1
	regPHYDriver       reg = 0xe2
	regPHYPreEmphasis  reg = 0xe3
	regPHYFeedbackDivL reg = 0xe7
	regPHYFeedbackDivH reg = 0xe8
	regPHYPreDiv       reg = 0xed
)

// SYS_CTRL
var (
	sysRstAnalog  = regio.Bit(6) // 1: out of reset
	sysRstDigital = regio.Bit(5) // 1: out of reset
	sysRegClkInv  = regio.Bit(4)
	sysRegClkSys  = regio.Bit(2) // 0: TMDS clock, 1: system clock
	sysPowerOff   = regio.Bit(1)
	sysIntPolHigh = regio.Bit(0)
)

// VIDEO_CONTRL1, VIDEO_CONTRL2, VIDEO_CONTRL and VIDEO_CONTRL3
var (
	vc1DEExternal  = regio.Bit(0)
	vc1InputFormat = regio.Field{Shift: 1, Width: 3}
	vc2InputCSP    = regio.Bit(0)
	vc2OutputColor = regio.Field{Shift: 4, Width: 2}
	vc2InputBits   = regio.Field{Shift: 6, Width: 2}
	vcAutoCSC      = regio.Bit(7)
	vcC0C2Swap     = regio.Bit(0) // 1: swap disabled
	vc3CSCEnable   = regio.Bit(0)
	vc3SOFDisable  = regio.Bit(3)
	vc3DepthNotInd = regio.Bit(4)
)

const (
	vc1InputSDRRGB = 0
	vc2Input8Bits  = 3
)

// AV_MUTE
var (
	avAudioMute = regio.Bit(1)
	avVideoMute = regio.Bit(0)
)

// VIDEO_TIMING_CTL. The sync polarity bits are swapped on StarFive.
var (
	vtExternal   = regio.Bit(0)
	vtInterlace  = regio.Bit(1)
	vtHSyncPol   = regio.Bit(3)
	vtVSyncPol   = regio.Bit(2)
	vtHSyncPolSF = regio.Bit(2)
	vtVSyncPolSF = regio.Bit(3)
)

var (
	hdcpHDMIMode = regio.Bit(1)
	intEDIDReady = regio.Bit(2)

	stHotplug    = regio.Bit(7)
	stMaskIntHPD = regio.Bit(5)
	stIntHotplug = regio.Bit(1)

	preDivRatio     = regio.Field{Width: 5}
	feedbackDivLow  = regio.Field{Width: 8}
	feedbackDivHigh = regio.Field{Width: 1}
)

// PHY_SYS_CTL sequence values.
const (
	phySysStandby = 0x15
	phySysStage2  = 0x14
	phySysStage3  = 0x10
	phyChgPwrOn   = 0x0f
)

const (
	packetAVI        = 0x06 // Packet buffer index of the AVI infoframe
	maxInfoframeSize = 0x11
)

// DDC addresses.
const (
	ddcAddr        = 0x50
	ddcSegmentAddr = 0x30
)

// StarFive PHY and PLL registers.
const (
	regSFPrePLLControl  reg = 0x1a0
	regSFPrePLLDiv1     reg = 0x1a1
	regSFPrePLLDiv2     reg = 0x1a2
	regSFPrePLLDiv3     reg = 0x1a3
	regSFPrePLLDiv4     reg = 0x1a4
	regSFPrePLLDiv5     reg = 0x1a5
	regSFPrePLLDiv6     reg = 0x1a6
	regSFPrePLLLock     reg = 0x1a9
	regSFPostPLLDiv1    reg = 0x1aa
	regSFPostPLLDiv2    reg = 0x1ab
	regSFPostPLLDiv3    reg = 0x1ac
	regSFPostPLLDiv4    reg = 0x1ad
	regSFPostPLLLock    reg = 0x1af
	regSFBiasControl    reg = 0x1b0
	regSFTMDSControl    reg = 0x1b2
	regSFLDOControl     reg = 0x1b4
	regSFSerializer     reg = 0x1be
	regSFRXControl      reg = 0x1c6
	regSFPrePLLFracDivH reg = 0x1d1
	regSFPrePLLFracDivM reg = 0x1d2
	regSFPrePLLFracDivL reg = 0x1d3
)

var (
	sfPrePLLPowerDown  = regio.Bit(0)
	sfPrePLLPreDiv     = regio.Field{Width: 6}
	sfFBDiv11to8       = regio.Field{Width: 4}
	sfFracDivDisable   = regio.Field{Shift: 4, Width: 2}
	sfSpreadModDisable = regio.Bit(6)
	sfSpreadModDown    = regio.Bit(7)
	sfTMDSDivC         = regio.Field{Width: 2}
	sfTMDSDivB         = regio.Field{Shift: 2, Width: 2}
	sfTMDSDivA         = regio.Field{Shift: 4, Width: 2}
	sfPClkDivA         = regio.Field{Width: 5}
	sfPClkDivB         = regio.Field{Shift: 5, Width: 2}
	sfPClkDivD         = regio.Field{Width: 5}
	sfPClkDivC         = regio.Field{Shift: 5, Width: 2}
	sfPostPLLPowerDown = regio.Bit(0)
	sfPostPLLRefTMDS   = regio.Bit(1)
	sfPostPLLDivEnable = regio.Field{Shift: 2, Width: 2}
	sfPostPLLPreDiv    = regio.Field{Width: 5}
	sfPLLLocked        = regio.Bit(0)
	sfBiasEnable       = regio.Bit(2)
	sfTMDSDriverEnable = regio.Field{Shift: 4, Width: 4}
	sfLDOEnable        = uint32(0x02)
	sfSerializerEnable = uint32(0x10)
	sfRXEnable         = uint32(0x0f)
)
