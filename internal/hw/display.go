package hw

// Window flag bits, one per layer plus blending.
const (
	WindowFlagBg0      = 1 << 0
	WindowFlagBgs      = 0x0F
	WindowFlagSprites  = 1 << 4
	WindowFlagAll      = 0x1F
	WindowFlagBlending = 1 << 5
)

// DisplayCnt is the structured form of DISPCNT.
type DisplayCnt struct {
	Mode          int
	Bgs           [BgCount]bool
	Sprites       bool
	InsideWindows [WindowsCount - 1]bool // win0, win1, sprites window
}

func (d DisplayCnt) Pack() uint16 {
	v := uint16(d.Mode & 0x7)
	for i, on := range d.Bgs {
		if on {
			v |= 1 << (8 + i)
		}
	}
	if d.Sprites {
		v |= 1 << 12
	}
	for i, on := range d.InsideWindows {
		if on {
			v |= 1 << (13 + i)
		}
	}
	return v
}

func UnpackDisplayCnt(v uint16) DisplayCnt {
	d := DisplayCnt{Mode: int(v & 0x7), Sprites: v&(1<<12) != 0}
	for i := range d.Bgs {
		d.Bgs[i] = v&(1<<(8+i)) != 0
	}
	for i := range d.InsideWindows {
		d.InsideWindows[i] = v&(1<<(13+i)) != 0
	}
	return d
}

// Blending modes of BLDCNT.
const (
	BlendingOff = iota
	BlendingTransparency
	BlendingFadeToWhite
	BlendingFadeToBlack
)

// BldCnt is the structured form of BLDCNT. Bit 4 of the layer masks is the
// sprite layer and bit 5 the backdrop.
type BldCnt struct {
	Top    uint8
	Mode   int
	Bottom uint8
}

func (b BldCnt) Pack() uint16 {
	return uint16(b.Top&0x3F) | uint16(b.Mode&0x3)<<6 | uint16(b.Bottom&0x3F)<<8
}

func UnpackBldCnt(v uint16) BldCnt {
	return BldCnt{Top: uint8(v & 0x3F), Mode: int(v>>6) & 0x3, Bottom: uint8(v>>8) & 0x3F}
}

// BlendingLayers builds a layer mask from per slot membership.
func BlendingLayers(bgs [BgCount]bool, sprites bool) uint8 {
	var v uint8
	for i, on := range bgs {
		if on {
			v |= 1 << i
		}
	}
	if sprites {
		v |= WindowFlagSprites
	}
	return v
}

// WindowsRegs builds WININ and WINOUT from the flags of the four windows.
func WindowsRegs(flags *[WindowsCount]uint16) (winIn, winOut uint16) {
	winIn = flags[Window0]&0x3F | (flags[Window1]&0x3F)<<8
	winOut = flags[WindowOutside]&0x3F | (flags[WindowSprites]&0x3F)<<8
	return winIn, winOut
}

// WindowsFlags is the inverse of WindowsRegs.
func WindowsFlags(winIn, winOut uint16) [WindowsCount]uint16 {
	var f [WindowsCount]uint16
	f[Window0] = winIn & 0x3F
	f[Window1] = (winIn >> 8) & 0x3F
	f[WindowOutside] = winOut & 0x3F
	f[WindowSprites] = (winOut >> 8) & 0x3F
	return f
}

// Mosaic packs the stretch values (0..15) of backgrounds and sprites.
func Mosaic(bgH, bgV, spritesH, spritesV int) uint16 {
	return uint16(bgH&0xF) | uint16(bgV&0xF)<<4 | uint16(spritesH&0xF)<<8 | uint16(spritesV&0xF)<<12
}

// BGR555 packs 5 bit components into a palette colour.
func BGR555(r, g, b int) uint16 {
	return uint16(r&0x1F) | uint16(g&0x1F)<<5 | uint16(b&0x1F)<<10
}

// RGB returns the 8 bit components of a palette colour.
func RGB(c uint16) (r, g, b uint8) {
	r5, g5, b5 := c&0x1F, (c>>5)&0x1F, (c>>10)&0x1F
	return uint8(r5<<3 | r5>>2), uint8(g5<<3 | g5>>2), uint8(b5<<3 | b5>>2)
}
