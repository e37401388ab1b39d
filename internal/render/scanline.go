package render

import "github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"

// regularLine renders one line of a regular layer.
// Inputs:
// - vram: background VRAM
// - cnt: decoded BGxCNT
// - hofs, vofs: scroll registers (9 bits)
// - y: screen line, already snapped for mosaic
func regularLine(vram []byte, cnt hw.BgCnt, hofs, vofs uint16, y int, out *[hw.DisplayWidth]uint16) {
	bgY := y + int(vofs)
	startX := int(hofs)
	tileX := startX >> 3
	fineX := startX & 7

	var q fifo
	f := newRegularFetcher(vram, &q)
	f.Configure(cnt, bgY)
	f.Fetch(tileX)
	// Discard the fine scroll pixels.
	for i := 0; i < fineX; i++ {
		_, _ = q.Pop()
	}
	for x := 0; x < hw.DisplayWidth; x++ {
		if q.Len() == 0 {
			tileX++
			f.Fetch(tileX)
		}
		out[x], _ = q.Pop()
	}
}

// affineLine samples one line of an affine layer. refX and refY are the
// internal reference point of the line (8 fractional bits).
func affineLine(vram []byte, cnt hw.BgCnt, regs hw.AffineRegs, refX, refY int, out *[hw.DisplayWidth]uint16) {
	size := 128 << cnt.Size
	tilesW := size / 8
	mapBase := cnt.MapSBB * sbbSize
	tileBase := cnt.TilesCBB * cbbSize
	for x := 0; x < hw.DisplayWidth; x++ {
		tx := (refX + int(regs.PA)*x) >> 8
		ty := (refY + int(regs.PC)*x) >> 8
		if cnt.Wrap {
			tx &= size - 1
			ty &= size - 1
		} else if tx < 0 || ty < 0 || tx >= size || ty >= size {
			out[x] = 0
			continue
		}
		mapAddr := mapBase + (ty>>3)*tilesW + tx>>3
		if mapAddr >= len(vram) {
			out[x] = 0
			continue
		}
		addr := tileBase + int(vram[mapAddr])*tileSize8BPP + (ty&7)*8 + tx&7
		if addr >= len(vram) || vram[addr] == 0 {
			out[x] = 0
			continue
		}
		out[x] = pixelOpaque | uint16(vram[addr])
	}
}

// mosaicLine repeats the first pixel of every block of step pixels.
func mosaicLine(line *[hw.DisplayWidth]uint16, step int) {
	if step <= 1 {
		return
	}
	for x := 0; x < hw.DisplayWidth; x++ {
		line[x] = line[x-x%step]
	}
}
