package vram

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

// Regular map cells: tile index in bits 0-9, flips in 10-11, palette bank in 12-15.
const (
	CellTileMask  = 0x3FF
	CellHFlip     = 1 << 10
	CellVFlip     = 1 << 11
	CellBankShift = 12
)

// RegularMap is a map of 16 bit cells for a regular layer. Maps the hardware
// can not hold directly (big maps) keep a 32x32 cell window in VRAM that
// follows the scroll position.
type RegularMap struct {
	SBB     int
	Blocks  int
	Width   int
	Height  int
	Cells   []uint16
	Tiles   *Tiles
	Palette *Palette

	big        bool
	mustCommit bool
}

func (m *RegularMap) Big() bool { return m.big }

// Dimensions returns the size in tiles.
func (m *RegularMap) Dimensions() fixed.Size { return fixed.Size{Width: m.Width, Height: m.Height} }

func (m *RegularMap) BPP8() bool { return m.Palette.BPP8 }

// MustCommit reports whether the cells changed since the last Commit.
func (m *RegularMap) MustCommit() bool { return m.mustCommit }

// SetCells replaces every cell of the map.
func (m *RegularMap) SetCells(cells []uint16) {
	assert.Check(len(cells) == m.Width*m.Height, "Invalid cells count: %d (expected %d)", len(cells), m.Width*m.Height)
	copy(m.Cells, cells)
	m.mustCommit = true
}

// SetCell replaces one cell.
func (m *RegularMap) SetCell(x, y int, cell uint16) {
	assert.Check(x >= 0 && x < m.Width && y >= 0 && y < m.Height, "Invalid cell: %d, %d", x, y)
	m.Cells[y*m.Width+x] = cell
	m.mustCommit = true
}

// cellOffset is added to every cell written to VRAM.
func (m *RegularMap) cellOffset() uint16 {
	off := uint16(m.Tiles.Offset())
	if !m.Palette.BPP8 {
		off += uint16(m.Palette.Bank) << CellBankShift
	}
	return off
}

// AffineMap is a map of 8 bit cells (tile indexes) for an affine layer.
type AffineMap struct {
	SBB     int
	Blocks  int
	Width   int
	Height  int
	Cells   []uint8
	Tiles   *Tiles
	Palette *Palette

	big        bool
	mustCommit bool
}

func (m *AffineMap) Big() bool { return m.big }

func (m *AffineMap) Dimensions() fixed.Size { return fixed.Size{Width: m.Width, Height: m.Height} }

func (m *AffineMap) MustCommit() bool { return m.mustCommit }

func (m *AffineMap) SetCells(cells []uint8) {
	assert.Check(len(cells) == m.Width*m.Height, "Invalid cells count: %d (expected %d)", len(cells), m.Width*m.Height)
	copy(m.Cells, cells)
	m.mustCommit = true
}

func (m *AffineMap) SetCell(x, y int, cell uint8) {
	assert.Check(x >= 0 && x < m.Width && y >= 0 && y < m.Height, "Invalid cell: %d, %d", x, y)
	m.Cells[y*m.Width+x] = cell
	m.mustCommit = true
}

// NewRegularMap allocates a regular map. Cells are copied.
func (m *Manager) NewRegularMap(width, height int, cells []uint16, tiles *Tiles, palette *Palette) (*RegularMap, error) {
	if width <= 0 || height <= 0 || len(cells) != width*height {
		return nil, errors.Errorf("invalid regular map: %dx%d with %d cells", width, height, len(cells))
	}
	if tiles == nil || palette == nil {
		return nil, errors.New("regular map without tiles or palette")
	}
	if tiles.BPP8 != palette.BPP8 {
		return nil, errors.Errorf("tiles and palette bpp mismatch (tiles 8bpp: %v, palette 8bpp: %v)", tiles.BPP8, palette.BPP8)
	}
	_, fits := hw.RegularSizeCode(width, height)
	blocks := 1
	if fits {
		blocks = width * height * 2 / BlockSize
	}
	sbb, err := m.allocBlocks(blocks, true)
	if err != nil {
		return nil, errors.Wrapf(err, "allocating %dx%d regular map", width, height)
	}
	rm := &RegularMap{
		SBB: sbb, Blocks: blocks, Width: width, Height: height,
		Cells: append([]uint16(nil), cells...), Tiles: tiles, Palette: palette,
		big: !fits, mustCommit: true,
	}
	m.regular = append(m.regular, rm)
	m.log.WithFields(logrus.Fields{"sbb": sbb, "size": rm.Dimensions(), "big": rm.big}).Debug("regular map allocated")
	return rm, nil
}

// NewAffineMap allocates an affine map. Affine layers always use 8bpp tiles.
func (m *Manager) NewAffineMap(width, height int, cells []uint8, tiles *Tiles, palette *Palette) (*AffineMap, error) {
	if width <= 0 || height <= 0 || len(cells) != width*height {
		return nil, errors.Errorf("invalid affine map: %dx%d with %d cells", width, height, len(cells))
	}
	if tiles == nil || palette == nil {
		return nil, errors.New("affine map without tiles or palette")
	}
	if !tiles.BPP8 || !palette.BPP8 {
		return nil, errors.New("affine maps need 8bpp tiles and palette")
	}
	_, fits := hw.AffineSizeCode(width, height)
	blocks := 1
	if fits {
		blocks = blocksFor(width * height)
	}
	sbb, err := m.allocBlocks(blocks, true)
	if err != nil {
		return nil, errors.Wrapf(err, "allocating %dx%d affine map", width, height)
	}
	am := &AffineMap{
		SBB: sbb, Blocks: blocks, Width: width, Height: height,
		Cells: append([]uint8(nil), cells...), Tiles: tiles, Palette: palette,
		big: !fits, mustCommit: true,
	}
	m.affine = append(m.affine, am)
	m.log.WithFields(logrus.Fields{"sbb": sbb, "size": am.Dimensions(), "big": am.big}).Debug("affine map allocated")
	return am, nil
}

func (m *Manager) ReleaseRegularMap(rm *RegularMap) {
	for i, r := range m.regular {
		if r == rm {
			m.regular = append(m.regular[:i], m.regular[i+1:]...)
			m.freeBlocks(rm.SBB, rm.Blocks)
			return
		}
	}
}

func (m *Manager) ReleaseAffineMap(am *AffineMap) {
	for i, a := range m.affine {
		if a == am {
			m.affine = append(m.affine[:i], m.affine[i+1:]...)
			m.freeBlocks(am.SBB, am.Blocks)
			return
		}
	}
}

// SetRegularMapTiles switches the tiles of a map and notifies the listener.
func (m *Manager) SetRegularMapTiles(rm *RegularMap, tiles *Tiles) {
	rm.Tiles = tiles
	rm.mustCommit = true
	if m.listener != nil {
		m.listener.UpdateMapTilesCBB(rm.SBB, tiles.CBB())
	}
}

// SetRegularMapPalette switches the palette of a map and notifies the listener.
// The tiles must be switched first when the bpp mode changes.
func (m *Manager) SetRegularMapPalette(rm *RegularMap, palette *Palette) {
	assert.Check(rm.Tiles.BPP8 == palette.BPP8, "Tiles and palette BPP mismatch")
	rm.Palette = palette
	rm.mustCommit = true
	if m.listener != nil {
		m.listener.UpdateMapPaletteBPP(rm.SBB, palette.BPP8)
	}
}

func (m *Manager) SetAffineMapTiles(am *AffineMap, tiles *Tiles) {
	assert.Check(tiles.BPP8, "Affine maps need 8bpp tiles")
	am.Tiles = tiles
	am.mustCommit = true
	if m.listener != nil {
		m.listener.UpdateMapTilesCBB(am.SBB, tiles.CBB())
	}
}

// Commit uploads the cells of every non big map that changed and clears the
// must-commit flag of all maps. Big maps are uploaded through the position
// primitives before this runs.
func (m *Manager) Commit() {
	for _, rm := range m.regular {
		if rm.mustCommit && !rm.big {
			m.uploadRegular(rm)
		}
		rm.mustCommit = false
	}
	for _, am := range m.affine {
		if am.mustCommit && !am.big {
			m.uploadAffine(am)
		}
		am.mustCommit = false
	}
}

func (m *Manager) uploadRegular(rm *RegularMap) {
	off := rm.cellOffset()
	sbsPerRow := rm.Width / bigWindowTiles
	for y := 0; y < rm.Height; y++ {
		for x := 0; x < rm.Width; x++ {
			sb := rm.SBB + (y/bigWindowTiles)*sbsPerRow + x/bigWindowTiles
			addr := sb*BlockSize + ((y&31)*32+(x&31))*2
			m.io.WriteVRAM16(addr, rm.Cells[y*rm.Width+x]+off)
		}
	}
	m.stats.MapUploads++
	m.stats.CellsWritten += len(rm.Cells)
}

func (m *Manager) uploadAffine(am *AffineMap) {
	off := uint8(am.Tiles.Offset())
	dst := m.io.VRAM()[am.SBB*BlockSize:]
	for i, c := range am.Cells {
		dst[i] = c + off
	}
	m.stats.MapUploads++
	m.stats.CellsWritten += len(am.Cells)
}
