// Package vram manages the tiles, palettes and maps that background layers
// reference. Resources live in background VRAM, which is split in 32 blocks
// of 2KiB: tiles are addressed by character base block (8 blocks each) and
// maps by screen base block.
package vram

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
)

const (
	BlockSize      = 0x800
	BlocksCount    = hw.VRAMSize / BlockSize
	blocksPerCBB   = 8
	tileSize4BPP   = 32
	tileSize8BPP   = 64
	bigWindowTiles = 32
	colorsPerBank  = 16
)

// Listener is told when a map switches tiles or palette, so that the control
// words of the layers displaying it can follow.
type Listener interface {
	UpdateMapTilesCBB(mapSBB, cbb int)
	UpdateMapPaletteBPP(mapSBB int, bpp8 bool)
}

// Stats counts the work done on VRAM since the manager was created.
type Stats struct {
	MapUploads   int
	FullResyncs  int
	ColUpdates   int
	RowUpdates   int
	CellsWritten int
}

// Manager allocates VRAM blocks and uploads map cells.
type Manager struct {
	io       *hw.IO
	log      logrus.FieldLogger
	blocks   [BlocksCount]bool
	banks    [hw.PaletteSize / 2 / colorsPerBank]bool
	regular  []*RegularMap
	affine   []*AffineMap
	listener Listener
	stats    Stats
}

func NewManager(io *hw.IO, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{io: io, log: log.WithField("component", "vram")}
}

func (m *Manager) SetListener(l Listener) { m.listener = l }

func (m *Manager) Stats() Stats { return m.stats }

// UsedBlocks reports which 2KiB blocks are allocated.
func (m *Manager) UsedBlocks() [BlocksCount]bool { return m.blocks }

// AvailableBlocks returns the number of free 2KiB blocks.
func (m *Manager) AvailableBlocks() int {
	n := 0
	for _, used := range m.blocks {
		if !used {
			n++
		}
	}
	return n
}

// allocBlocks reserves count contiguous blocks. Tiles are searched from the
// start of VRAM and maps from the end, keeping both kinds apart.
func (m *Manager) allocBlocks(count int, fromEnd bool) (int, error) {
	if count <= 0 || count > BlocksCount {
		return 0, errors.Errorf("invalid blocks count: %d", count)
	}
	fits := func(start int) bool {
		for b := start; b < start+count; b++ {
			if m.blocks[b] {
				return false
			}
		}
		return true
	}
	start := -1
	if fromEnd {
		for s := BlocksCount - count; s >= 0; s-- {
			if fits(s) {
				start = s
				break
			}
		}
	} else {
		for s := 0; s+count <= BlocksCount; s++ {
			if fits(s) {
				start = s
				break
			}
		}
	}
	if start < 0 {
		return 0, errors.Errorf("no %d contiguous free blocks (%d available)", count, m.AvailableBlocks())
	}
	for b := start; b < start+count; b++ {
		m.blocks[b] = true
	}
	return start, nil
}

func (m *Manager) freeBlocks(start, count int) {
	for b := start; b < start+count; b++ {
		m.blocks[b] = false
	}
}

func blocksFor(bytes int) int { return (bytes + BlockSize - 1) / BlockSize }

// Tiles is a tile set stored in VRAM.
type Tiles struct {
	Block  int
	Blocks int
	BPP8   bool
	Count  int
}

// CBB returns the character base block the tiles are addressed from.
func (t *Tiles) CBB() int { return t.Block / blocksPerCBB }

// Offset returns the index of the first tile relative to its character base block.
func (t *Tiles) Offset() int {
	size := tileSize4BPP
	if t.BPP8 {
		size = tileSize8BPP
	}
	return (t.Block % blocksPerCBB) * BlockSize / size
}

// NewTiles uploads tile data. Each 4bpp tile takes 32 bytes and each 8bpp tile 64.
func (m *Manager) NewTiles(data []byte, bpp8 bool) (*Tiles, error) {
	size := tileSize4BPP
	if bpp8 {
		size = tileSize8BPP
	}
	if len(data) == 0 || len(data)%size != 0 {
		return nil, errors.Errorf("invalid tiles data size: %d (multiple of %d expected)", len(data), size)
	}
	n := blocksFor(len(data))
	start, err := m.allocBlocks(n, false)
	if err != nil {
		return nil, errors.Wrap(err, "allocating tiles")
	}
	copy(m.io.VRAM()[start*BlockSize:], data)
	t := &Tiles{Block: start, Blocks: n, BPP8: bpp8, Count: len(data) / size}
	m.log.WithFields(logrus.Fields{"block": start, "tiles": t.Count, "bpp8": bpp8}).Debug("tiles allocated")
	return t, nil
}

func (m *Manager) ReleaseTiles(t *Tiles) { m.freeBlocks(t.Block, t.Blocks) }

// Palette is a set of colours in background palette RAM. 4bpp palettes take
// one bank of 16 colours; an 8bpp palette takes all the banks it covers
// starting at bank 0.
type Palette struct {
	Bank   int
	Banks  int
	BPP8   bool
	Colors []uint16
}

func (m *Manager) NewPalette(colors []uint16, bpp8 bool) (*Palette, error) {
	if len(colors) == 0 {
		return nil, errors.New("empty palette")
	}
	banks := (len(colors) + colorsPerBank - 1) / colorsPerBank
	if !bpp8 && banks != 1 {
		return nil, errors.Errorf("invalid 4bpp palette size: %d colors (max %d)", len(colors), colorsPerBank)
	}
	if bpp8 && banks > len(m.banks) {
		return nil, errors.Errorf("invalid 8bpp palette size: %d colors (max 256)", len(colors))
	}
	start := -1
	if bpp8 {
		start = 0
		for b := 0; b < banks; b++ {
			if m.banks[b] {
				start = -1
			}
		}
	} else {
		for b := len(m.banks) - 1; b >= 0; b-- {
			if !m.banks[b] {
				start = b
				break
			}
		}
	}
	if start < 0 {
		return nil, errors.Errorf("no free palette banks for %d colors", len(colors))
	}
	for b := start; b < start+banks; b++ {
		m.banks[b] = true
	}
	p := &Palette{Bank: start, Banks: banks, BPP8: bpp8, Colors: append([]uint16(nil), colors...)}
	m.uploadPalette(p)
	return p, nil
}

func (m *Manager) uploadPalette(p *Palette) {
	for i, c := range p.Colors {
		m.io.SetColor(p.Bank*colorsPerBank+i, c)
	}
}

// SetColors replaces the colours of a palette in place.
func (m *Manager) SetColors(p *Palette, colors []uint16) {
	n := copy(p.Colors, colors)
	p.Colors = p.Colors[:n]
	m.uploadPalette(p)
}

func (m *Manager) ReleasePalette(p *Palette) {
	for b := p.Bank; b < p.Bank+p.Banks; b++ {
		m.banks[b] = false
	}
}
