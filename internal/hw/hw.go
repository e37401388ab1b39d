// Package hw describes the video register block of the target console and
// the primitives used to write register images into it.
package hw

const (
	DisplayWidth  = 240
	DisplayHeight = 160

	// BgCount is the number of hardware background slots.
	BgCount = 4
	// AffineBgCount is the number of slots able to scan out affine layers (2 and 3).
	AffineBgCount = 2
	// WindowsCount is the number of window regions: win0, win1, sprites window, outside.
	WindowsCount = 4
)

// Window ids, in the order the window flag tables use.
const (
	Window0 = iota
	Window1
	WindowSprites
	WindowOutside
)

// Register offsets inside the IO block.
const (
	RegDispCnt   = 0x00
	RegGreenSwap = 0x02
	RegBg0Cnt    = 0x08 // BGxCNT at 0x08 + 2*x
	RegBg0HOfs   = 0x10 // BGxHOFS at 0x10 + 4*x, BGxVOFS right after
	RegBg2PA     = 0x20 // PA PB PC PD DX(32) DY(32)
	RegBg3PA     = 0x30
	RegWin0H     = 0x40
	RegWin1H     = 0x42
	RegWin0V     = 0x44
	RegWin1V     = 0x46
	RegWinIn     = 0x48
	RegWinOut    = 0x4A
	RegMosaic    = 0x4C
	RegBldCnt    = 0x50
	RegBldAlpha  = 0x52
	RegBldY      = 0x54

	// bgBlockStart and bgBlockEnd delimit the contiguous background register image.
	bgBlockStart = RegBg0Cnt
	bgBlockEnd   = RegWin0H
)

// BgCnt is the structured form of a BGxCNT control word.
//
//	bits 0-1   priority
//	bits 2-3   tiles character base block
//	bit  6     mosaic
//	bit  7     8 bits per pixel
//	bits 8-12  map screen base block
//	bit  13    affine wrap
//	bits 14-15 size code
type BgCnt struct {
	Priority int
	TilesCBB int
	Mosaic   bool
	BPP8     bool
	MapSBB   int
	Wrap     bool
	Size     int
}

// Pack returns the register value.
func (c BgCnt) Pack() uint16 {
	v := uint16(c.Priority&0x3) | uint16(c.TilesCBB&0x3)<<2 | uint16(c.MapSBB&0x1F)<<8 | uint16(c.Size&0x3)<<14
	if c.Mosaic {
		v |= 1 << 6
	}
	if c.BPP8 {
		v |= 1 << 7
	}
	if c.Wrap {
		v |= 1 << 13
	}
	return v
}

// UnpackBgCnt decodes a BGxCNT value.
func UnpackBgCnt(v uint16) BgCnt {
	return BgCnt{
		Priority: int(v & 0x3),
		TilesCBB: int(v>>2) & 0x3,
		Mosaic:   v&(1<<6) != 0,
		BPP8:     v&(1<<7) != 0,
		MapSBB:   int(v>>8) & 0x1F,
		Wrap:     v&(1<<13) != 0,
		Size:     int(v>>14) & 0x3,
	}
}

// Size codes of regular maps.
const (
	RegularSize32x32 = iota
	RegularSize64x32
	RegularSize32x64
	RegularSize64x64
)

// RegularSizeCode returns the size code of a regular map in tiles, or false
// when the hardware can not hold it directly (a big map).
func RegularSizeCode(width, height int) (int, bool) {
	switch {
	case width == 32 && height == 32:
		return RegularSize32x32, true
	case width == 64 && height == 32:
		return RegularSize64x32, true
	case width == 32 && height == 64:
		return RegularSize32x64, true
	case width == 64 && height == 64:
		return RegularSize64x64, true
	}
	return 0, false
}

// AffineSizeCode returns the size code of a square affine map in tiles.
func AffineSizeCode(width, height int) (int, bool) {
	if width != height {
		return 0, false
	}
	switch width {
	case 16:
		return 0, true
	case 32:
		return 1, true
	case 64:
		return 2, true
	case 128:
		return 3, true
	}
	return 0, false
}

// AffineRegs is the register image of one affine slot. PA..PD and DX/DY carry
// 8 fractional bits; DX/DY are 28 bit signed registers stored as int32.
type AffineRegs struct {
	PA, PB, PC, PD int16
	DX, DY         int32
}

// BgHandle is the register image of one background slot.
type BgHandle struct {
	Cnt    uint16
	HOfs   uint16
	VOfs   uint16
	Affine AffineRegs
}

// SetHOfs stores a scroll offset, keeping the 9 bits the hardware uses.
func (h *BgHandle) SetHOfs(x int) { h.HOfs = uint16(x) & 0x1FF }

func (h *BgHandle) SetVOfs(y int) { h.VOfs = uint16(y) & 0x1FF }
