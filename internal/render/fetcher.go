package render

import "github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"

// A pixel is a palette index (0..255) with pixelOpaque set, or 0 when the
// layer is transparent at that point.
const pixelOpaque = 0x100

const (
	cbbSize      = 0x4000
	sbbSize      = 0x800
	tileSize4BPP = 32
	tileSize8BPP = 64
)

// fifo is a ring buffer of pixels.
type fifo struct {
	buf  [16]uint16 // room for two tiles
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }
func (q *fifo) Push(p uint16) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = p
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}
func (q *fifo) Pop() (uint16, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// regularFetcher pulls one tile row (8 pixels) of a regular layer into the FIFO.
type regularFetcher struct {
	vram       []byte
	fifo       *fifo
	cnt        hw.BgCnt
	mapW, mapH int // tiles
	ty         int // map row
	fineY      int // 0..7 within tile
}

// regularMapTiles returns the map size in tiles for a regular size code.
func regularMapTiles(size int) (int, int) {
	switch size {
	case hw.RegularSize64x32:
		return 64, 32
	case hw.RegularSize32x64:
		return 32, 64
	case hw.RegularSize64x64:
		return 64, 64
	}
	return 32, 32
}

func newRegularFetcher(vram []byte, q *fifo) *regularFetcher {
	return &regularFetcher{vram: vram, fifo: q}
}

// Configure selects the layer and the background line (already scrolled).
func (f *regularFetcher) Configure(cnt hw.BgCnt, bgY int) {
	f.cnt = cnt
	f.mapW, f.mapH = regularMapTiles(cnt.Size)
	f.ty = (bgY >> 3) & (f.mapH - 1)
	f.fineY = bgY & 7
}

func (f *regularFetcher) read(addr, n int) []byte {
	if addr < 0 || addr+n > len(f.vram) {
		return nil
	}
	return f.vram[addr : addr+n]
}

// Fetch pushes the 8 pixels of map column tx for the configured row.
func (f *regularFetcher) Fetch(tx int) {
	tx &= f.mapW - 1
	sb := (f.ty/32)*(f.mapW/32) + tx/32
	addr := f.cnt.MapSBB*sbbSize + sb*sbbSize + ((f.ty&31)*32+(tx&31))*2
	e := f.read(addr, 2)
	if e == nil {
		for i := 0; i < 8; i++ {
			f.fifo.Push(0)
		}
		return
	}
	entry := uint16(e[0]) | uint16(e[1])<<8
	tile := int(entry & 0x3FF)
	hflip := entry&(1<<10) != 0
	row := f.fineY
	if entry&(1<<11) != 0 {
		row = 7 - row
	}
	bank := uint16(entry>>12) << 4
	base := f.cnt.TilesCBB * cbbSize

	var data []byte
	if f.cnt.BPP8 {
		data = f.read(base+tile*tileSize8BPP+row*8, 8)
	} else {
		data = f.read(base+tile*tileSize4BPP+row*4, 4)
	}
	for px := 0; px < 8; px++ {
		if data == nil {
			f.fifo.Push(0)
			continue
		}
		sx := px
		if hflip {
			sx = 7 - px
		}
		var ci, idx uint16
		if f.cnt.BPP8 {
			ci = uint16(data[sx])
			idx = ci
		} else {
			ci = uint16(data[sx/2]>>((sx&1)*4)) & 0xF
			idx = bank | ci
		}
		if ci == 0 {
			f.fifo.Push(0)
		} else {
			f.fifo.Push(pixelOpaque | idx)
		}
	}
}
