// Package render scans the register block, VRAM and palette RAM of an hw.IO
// out into an RGBA framebuffer, one line at a time, the way the video
// controller would. It only knows about hardware slots: which layer ended up
// in which slot is the compositor's business.
package render

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

const (
	layerBackdrop = 5
	layerNone     = -1
)

// LineRegs is the register snapshot used to render one line.
type LineRegs struct {
	DispCnt   uint16
	GreenSwap uint16
	Bgs       [hw.BgCount]hw.BgHandle
	WinH      [2]uint16
	WinV      [2]uint16
	WinIn     uint16
	WinOut    uint16
	Mosaic    uint16
	BldCnt    uint16
	BldAlpha  uint16
	BldY      uint16

	// reference point writes done by SetReference on this line
	refWritten [hw.AffineBgCount]bool
}

// SetReference writes the DX/DY registers of affine slot bg. The internal
// reference point is reloaded even when the values do not change.
func (r *LineRegs) SetReference(bg int, dx, dy int32) {
	i := bg - (hw.BgCount - hw.AffineBgCount)
	if i < 0 || i >= hw.AffineBgCount {
		return
	}
	r.Bgs[bg].Affine.DX = dx
	r.Bgs[bg].Affine.DY = dy
	r.refWritten[i] = true
}

// Capture reads the registers the renderer depends on.
func Capture(io *hw.IO) LineRegs {
	r := LineRegs{
		DispCnt:   io.Read16(hw.RegDispCnt),
		GreenSwap: io.Read16(hw.RegGreenSwap),
		WinH:      [2]uint16{io.Read16(hw.RegWin0H), io.Read16(hw.RegWin1H)},
		WinV:      [2]uint16{io.Read16(hw.RegWin0V), io.Read16(hw.RegWin1V)},
		WinIn:     io.Read16(hw.RegWinIn),
		WinOut:    io.Read16(hw.RegWinOut),
		Mosaic:    io.Read16(hw.RegMosaic),
		BldCnt:    io.Read16(hw.RegBldCnt),
		BldAlpha:  io.Read16(hw.RegBldAlpha),
		BldY:      io.Read16(hw.RegBldY),
	}
	for i := range r.Bgs {
		r.Bgs[i] = io.BgHandle(i)
	}
	return r
}

// HBlankFunc is called before each line is rendered with the registers the
// line will use; changes to regs apply to this line and the following ones,
// like writes done by an HBlank interrupt handler.
type HBlankFunc func(line int, regs *LineRegs)

// Renderer turns an hw.IO into pixels.
type Renderer struct {
	hblank HBlankFunc
	lines  [hw.DisplayHeight]LineRegs
	refs   [hw.DisplayHeight][hw.AffineBgCount][2]int

	layers [hw.BgCount][hw.DisplayWidth]uint16
}

func New() *Renderer { return &Renderer{} }

// SetHBlank installs fn as the per line hook; nil removes it.
func (r *Renderer) SetHBlank(fn HBlankFunc) { r.hblank = fn }

// LineRegs returns the snapshot used for line y by the last frame.
func (r *Renderer) LineRegs(y int) LineRegs {
	if y < 0 || y >= len(r.lines) {
		return LineRegs{}
	}
	return r.lines[y]
}

// SlotKind reports whether slot bg scans out in mode and if it is affine.
func SlotKind(mode, bg int) (enabled, affine bool) {
	switch mode {
	case 0:
		return true, false
	case 1:
		return bg <= 2, bg == 2
	case 2:
		return bg >= 2, true
	}
	return false, false
}

// Frame renders all lines into fb, a DisplayWidth*DisplayHeight*4 RGBA buffer.
func (r *Renderer) Frame(io *hw.IO, fb []byte) {
	regs := Capture(io)
	vram := io.VRAM()
	for y := 0; y < hw.DisplayHeight; y++ {
		if r.hblank != nil {
			r.hblank(y, &regs)
		}
		r.lines[y] = regs
		regs.refWritten = [hw.AffineBgCount]bool{}
		r.latchReferences(y)
		r.renderLine(y, vram, io, fb)
	}
}

// latchReferences keeps the internal affine reference points: they are
// reloaded from DX/DY when those registers change or are written through
// SetReference and otherwise advance by PB/PD every line.
func (r *Renderer) latchReferences(y int) {
	for i := 0; i < hw.AffineBgCount; i++ {
		a := r.lines[y].Bgs[hw.BgCount-hw.AffineBgCount+i].Affine
		if y == 0 {
			r.refs[y][i] = [2]int{int(a.DX), int(a.DY)}
			continue
		}
		pa := r.lines[y-1].Bgs[hw.BgCount-hw.AffineBgCount+i].Affine
		ref := r.refs[y-1][i]
		ref[0] += int(pa.PB)
		ref[1] += int(pa.PD)
		if a.DX != pa.DX || r.lines[y].refWritten[i] {
			ref[0] = int(a.DX)
		}
		if a.DY != pa.DY || r.lines[y].refWritten[i] {
			ref[1] = int(a.DY)
		}
		r.refs[y][i] = ref
	}
}

func (r *Renderer) renderLine(y int, vram []byte, io *hw.IO, fb []byte) {
	regs := &r.lines[y]
	disp := hw.UnpackDisplayCnt(regs.DispCnt)
	mosH := int(regs.Mosaic&0xF) + 1
	mosV := int(regs.Mosaic>>4&0xF) + 1

	var active [hw.BgCount]bool
	var prio [hw.BgCount]int
	for bg := 0; bg < hw.BgCount; bg++ {
		enabled, aff := SlotKind(disp.Mode, bg)
		if !enabled || !disp.Bgs[bg] {
			continue
		}
		h := regs.Bgs[bg]
		cnt := hw.UnpackBgCnt(h.Cnt)
		srcY := y
		if cnt.Mosaic {
			srcY = y - y%mosV
		}
		if aff {
			ref := r.refs[srcY][bg-(hw.BgCount-hw.AffineBgCount)]
			affineLine(vram, cnt, h.Affine, ref[0], ref[1], &r.layers[bg])
		} else {
			regularLine(vram, cnt, h.HOfs&0x1FF, h.VOfs&0x1FF, srcY, &r.layers[bg])
		}
		if cnt.Mosaic {
			mosaicLine(&r.layers[bg], mosH)
		}
		active[bg] = true
		prio[bg] = cnt.Priority
	}

	// slots from front to back
	var order [hw.BgCount]int
	n := 0
	for p := 0; p < 4; p++ {
		for bg := 0; bg < hw.BgCount; bg++ {
			if active[bg] && prio[bg] == p {
				order[n] = bg
				n++
			}
		}
	}

	bld := hw.UnpackBldCnt(regs.BldCnt)
	eva := min(int(regs.BldAlpha&0x1F), 16)
	evb := min(int(regs.BldAlpha>>8&0x1F), 16)
	evy := min(int(regs.BldY&0x1F), 16)
	windowed := disp.InsideWindows[hw.Window0] || disp.InsideWindows[hw.Window1]
	flags := hw.WindowsFlags(regs.WinIn, regs.WinOut)
	backdrop := io.Color(0)

	var line [hw.DisplayWidth]uint16
	for x := 0; x < hw.DisplayWidth; x++ {
		mask := uint16(hw.WindowFlagAll | hw.WindowFlagBlending)
		if windowed {
			mask = flags[hw.WindowOutside]
			for w := hw.Window0; w <= hw.Window1; w++ {
				if disp.InsideWindows[w] && insideWindow(regs.WinH[w], x) && insideWindow(regs.WinV[w], y) {
					mask = flags[w]
					break
				}
			}
		}

		top, bottom := layerBackdrop, layerNone
		var topColor, bottomColor uint16 = backdrop, 0
		for _, bg := range order[:n] {
			if mask&(hw.WindowFlagBg0<<bg) == 0 {
				continue
			}
			px := r.layers[bg][x]
			if px == 0 {
				continue
			}
			c := io.Color(int(px & 0xFF))
			if top == layerBackdrop {
				top, topColor = bg, c
				continue
			}
			bottom, bottomColor = bg, c
			break
		}
		if bottom == layerNone && top != layerBackdrop {
			bottom, bottomColor = layerBackdrop, backdrop
		}

		c := topColor
		if mask&hw.WindowFlagBlending != 0 && bld.Top&(1<<top) != 0 {
			switch bld.Mode {
			case hw.BlendingTransparency:
				if bottom != layerNone && bld.Bottom&(1<<bottom) != 0 {
					c = blendAlpha(topColor, bottomColor, eva, evb)
				}
			case hw.BlendingFadeToWhite:
				c = fade(topColor, evy, true)
			case hw.BlendingFadeToBlack:
				c = fade(topColor, evy, false)
			}
		}
		line[x] = c
	}

	if regs.GreenSwap&1 != 0 {
		greenSwap(&line)
	}
	row := fb[y*hw.DisplayWidth*4:]
	for x, c := range line {
		rr, gg, bb := hw.RGB(c)
		row[x*4] = rr
		row[x*4+1] = gg
		row[x*4+2] = bb
		row[x*4+3] = 0xFF
	}
}

// insideWindow reports whether v is in the range packed in a WINxH/WINxV
// register (start in the high byte, end exclusive in the low byte). Ranges
// with end before start wrap around.
func insideWindow(reg uint16, v int) bool {
	start, end := int(reg>>8), int(reg&0xFF)
	if start <= end {
		return v >= start && v < end
	}
	return v >= start || v < end
}

func channels(c uint16) (int, int, int) {
	return int(c & 0x1F), int(c >> 5 & 0x1F), int(c >> 10 & 0x1F)
}

func blendAlpha(a, b uint16, eva, evb int) uint16 {
	ar, ag, ab := channels(a)
	br, bg, bb := channels(b)
	return hw.BGR555(
		min((ar*eva+br*evb)>>4, 31),
		min((ag*eva+bg*evb)>>4, 31),
		min((ab*eva+bb*evb)>>4, 31),
	)
}

func fade(c uint16, evy int, white bool) uint16 {
	r, g, b := channels(c)
	if white {
		return hw.BGR555(r+((31-r)*evy>>4), g+((31-g)*evy>>4), b+((31-b)*evy>>4))
	}
	return hw.BGR555(r-(r*evy>>4), g-(g*evy>>4), b-(b*evy>>4))
}

// greenSwap exchanges the green component of every pair of pixels.
func greenSwap(line *[hw.DisplayWidth]uint16) {
	const green = 0x1F << 5
	for x := 0; x+1 < hw.DisplayWidth; x += 2 {
		a, b := line[x], line[x+1]
		line[x] = a&^green | b&green
		line[x+1] = b&^green | a&green
	}
}
