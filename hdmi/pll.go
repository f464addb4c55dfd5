package hdmi

import (
	"fmt"
	"time"

	"github.com/flavioheleno/vsdisplay/internal/logging"
	"periph.io/x/conn/v3/physic"
)

const (
	// fracBreak is the TMDS rate above which the pre-PLL counts in 3MHz steps.
	fracBreak = 30 * physic.MegaHertz
	fracMax   = 0xffffff

	pllPollInterval = time.Millisecond
	pllLockTimeout  = 100 * time.Millisecond
)

// PrePLLConfig holds the pre-PLL dividers of the StarFive PHY.
type PrePLLConfig struct {
	PixClock  physic.Frequency
	TMDSClock physic.Frequency
	PreDiv    uint8
	FBDiv     uint16
	TMDSDivA  uint8
	TMDSDivB  uint8
	TMDSDivC  uint8
	PClkDivA  uint8
	PClkDivB  uint8
	PClkDivC  uint8
	PClkDivD  uint8
	VCODiv5   bool
	FracDiv   uint32 // 24 bits
}

// SolvePrePLL computes the pre-PLL configuration for a TMDS rate.
//
// The feedback divider counts whole base steps (3MHz above 30MHz, 1MHz
// otherwise) and the 24-bit fractional divider covers the remainder:
// round(rem * 0xffffff / step).
func SolvePrePLL(rate physic.Frequency) PrePLLConfig {
	hz := uint64(rate / physic.Hertz)
	c := PrePLLConfig{PixClock: rate, TMDSClock: rate, PreDiv: 1}
	var step uint64
	if rate > fracBreak {
		step = 3000000
		c.TMDSDivA, c.TMDSDivB, c.TMDSDivC = 0, 1, 1
		c.PClkDivA, c.PClkDivB, c.PClkDivC, c.PClkDivD = 1, 0, 2, 2
	} else {
		step = 1000000
		c.TMDSDivA, c.TMDSDivB, c.TMDSDivC = 2, 1, 1
		c.PClkDivA, c.PClkDivB, c.PClkDivC, c.PClkDivD = 3, 0, 3, 4
	}
	c.FBDiv = uint16(hz / step)
	if rem := hz % step; rem != 0 {
		c.VCODiv5 = true
		c.FracDiv = fracDiv(rem, step)
	}
	return c
}

func fracDiv(rem, step uint64) uint32 {
	return uint32((rem*fracMax + step/2) / step)
}

// PostPLLConfig holds the post-PLL dividers of the StarFive PHY.
type PostPLLConfig struct {
	TMDSClock physic.Frequency
	PreDiv    uint8
	FBDiv     uint16
	PostDiv   uint8
	PostDivEn uint8
	Version   uint8
}

var postPLLTable = []PostPLLConfig{
	{25200 * physic.KiloHertz, 1, 80, 13, 3, 1},
	{27 * physic.MegaHertz, 1, 40, 11, 3, 1},
	{33750 * physic.KiloHertz, 1, 40, 11, 3, 1},
	{49 * physic.MegaHertz, 1, 20, 1, 3, 3},
	{241700 * physic.KiloHertz, 1, 20, 1, 3, 3},
	{297 * physic.MegaHertz, 4, 20, 0, 0, 3},
}

// SolvePostPLL returns the first post-PLL entry whose TMDS clock is at least
// rate. Above the table it returns the last entry and false.
func SolvePostPLL(rate physic.Frequency) (PostPLLConfig, bool) {
	for _, c := range postPLLTable {
		if rate <= c.TMDSClock {
			return c, true
		}
	}
	return postPLLTable[len(postPLLTable)-1], false
}

// programPLL powers the pre-PLL down, loads both divider sets and powers it
// back up.
func (d *Dev) programPLL(pre PrePLLConfig, post PostPLLConfig) {
	postDiv, postCtl := uint32(0), sfPostPLLRefTMDS.Put(1)
	if post.PostDivEn != 0 {
		postDiv = uint32(post.PostDiv)
		postCtl |= sfPostPLLDivEnable.Put(3)
	}

	d.writeb(regSFPrePLLControl, sfPrePLLPowerDown.Put(1))
	d.writeb(regSFPostPLLDiv1, sfPostPLLDivEnable.Put(3)|sfPostPLLRefTMDS.Put(1)|sfPostPLLPowerDown.Put(1))
	d.writeb(regSFPrePLLDiv1, sfPrePLLPreDiv.Put(uint32(pre.PreDiv)))

	v := sfSpreadModDisable.Put(1) | sfSpreadModDown.Put(1) | sfFBDiv11to8.Put(uint32(pre.FBDiv)>>8)
	if pre.FracDiv == 0 {
		v |= sfFracDivDisable.Put(3)
	}
	d.writeb(regSFPrePLLDiv2, v)
	d.writeb(regSFPrePLLDiv3, uint32(pre.FBDiv)&0xff)
	d.writeb(regSFPrePLLDiv4, sfTMDSDivC.Put(uint32(pre.TMDSDivC))|
		sfTMDSDivA.Put(uint32(pre.TMDSDivA))|
		sfTMDSDivB.Put(uint32(pre.TMDSDivB)))
	if pre.FracDiv != 0 {
		d.writeb(regSFPrePLLFracDivL, pre.FracDiv&0xff)
		d.writeb(regSFPrePLLFracDivM, (pre.FracDiv>>8)&0xff)
		d.writeb(regSFPrePLLFracDivH, (pre.FracDiv>>16)&0xff)
	}
	d.writeb(regSFPrePLLDiv5, sfPClkDivA.Put(uint32(pre.PClkDivA))|sfPClkDivB.Put(uint32(pre.PClkDivB)))
	d.writeb(regSFPrePLLDiv6, sfPClkDivC.Put(uint32(pre.PClkDivC))|sfPClkDivD.Put(uint32(pre.PClkDivD)))

	d.modb(regSFPrePLLControl, sfPrePLLPowerDown.Mask(), 0)

	d.modb(regSFPostPLLDiv2, sfPostPLLPreDiv.Mask(), sfPostPLLPreDiv.Put(uint32(post.PreDiv)))
	d.writeb(regSFPostPLLDiv3, uint32(post.FBDiv)&0xff)
	d.writeb(regSFPostPLLDiv4, postDiv)
	d.writeb(regSFPostPLLDiv1, postCtl)
}

// waitLock polls a lock status register every millisecond until bit 0 is
// set or 100ms have passed.
func (d *Dev) waitLock(r reg, name string) error {
	if sfPLLLocked.Get(d.readb(r)) != 0 {
		return nil
	}
	t := d.clock.NewTicker(pllPollInterval)
	defer t.Stop()
	timeout := d.clock.After(pllLockTimeout)
	for {
		select {
		case <-t.Chan():
			if sfPLLLocked.Get(d.readb(r)) != 0 {
				return nil
			}
		case <-timeout:
			if sfPLLLocked.Get(d.readb(r)) != 0 {
				return nil
			}
			return fmt.Errorf("hdmi: failed to wait %s lock: %w", name, ErrPLLLock)
		}
	}
}

// setRate solves and programs both PLL stages for rate, then waits for them
// to lock.
func (d *Dev) setRate(rate physic.Frequency) error {
	pre := SolvePrePLL(rate)
	post, ok := SolvePostPLL(rate)
	if !ok {
		logging.Logger().Warn("hdmi: no post-PLL configuration, using default", "rate", rate)
	}
	d.programPLL(pre, post)
	d.tmdsRate = rate
	d.prePLL, d.postPLL = pre, post
	if err := d.waitLock(regSFPrePLLLock, "pre-pll"); err != nil {
		return err
	}
	return d.waitLock(regSFPostPLLLock, "post-pll")
}
