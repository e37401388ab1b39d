package vram

// Patch primitives for big maps. Coordinates are in tiles; a map cell (x, y)
// lives in the window slot (x&31, y&31). Cells outside the map are skipped.
// Every primitive returns the number of cells written.

// regularRows is the number of rows a full resync writes: the 21 rows a
// 160 pixel screen can touch plus one.
const regularRows = 22

func (m *Manager) writeRegularCell(rm *RegularMap, x, y int, off uint16) bool {
	if x < 0 || y < 0 || x >= rm.Width || y >= rm.Height {
		return false
	}
	addr := rm.SBB*BlockSize + ((y&31)*32+(x&31))*2
	m.io.WriteVRAM16(addr, rm.Cells[y*rm.Width+x]+off)
	return true
}

func (m *Manager) writeAffineCell(am *AffineMap, x, y int, off uint8) bool {
	if x < 0 || y < 0 || x >= am.Width || y >= am.Height {
		return false
	}
	m.io.VRAM()[am.SBB*BlockSize+(y&31)*32+(x&31)] = am.Cells[y*am.Width+x] + off
	return true
}

// SetRegularMapPosition rewrites the window for the block (x, y): 32 columns
// and 22 rows.
func (m *Manager) SetRegularMapPosition(rm *RegularMap, x, y int) int {
	off := rm.cellOffset()
	n := 0
	for row := y; row < y+regularRows; row++ {
		for col := x; col < x+bigWindowTiles; col++ {
			if m.writeRegularCell(rm, col, row, off) {
				n++
			}
		}
	}
	m.stats.FullResyncs++
	m.stats.CellsWritten += n
	return n
}

// UpdateRegularMapCol writes column x, 32 rows starting at y.
func (m *Manager) UpdateRegularMapCol(rm *RegularMap, x, y int) int {
	off := rm.cellOffset()
	n := 0
	for row := y; row < y+bigWindowTiles; row++ {
		if m.writeRegularCell(rm, x, row, off) {
			n++
		}
	}
	m.stats.ColUpdates++
	m.stats.CellsWritten += n
	return n
}

// UpdateRegularMapRow writes row y, 32 columns starting at x.
func (m *Manager) UpdateRegularMapRow(rm *RegularMap, x, y int) int {
	off := rm.cellOffset()
	n := 0
	for col := x; col < x+bigWindowTiles; col++ {
		if m.writeRegularCell(rm, col, y, off) {
			n++
		}
	}
	m.stats.RowUpdates++
	m.stats.CellsWritten += n
	return n
}

// SetAffineMapPosition rewrites the whole 32x32 window for the block (x, y).
// Rotated and scaled layers may sample any cell of the window, so every row
// is written.
func (m *Manager) SetAffineMapPosition(am *AffineMap, x, y int) int {
	off := uint8(am.Tiles.Offset())
	n := 0
	for row := y; row < y+bigWindowTiles; row++ {
		for col := x; col < x+bigWindowTiles; col++ {
			if m.writeAffineCell(am, col, row, off) {
				n++
			}
		}
	}
	m.stats.FullResyncs++
	m.stats.CellsWritten += n
	return n
}

func (m *Manager) UpdateAffineMapCol(am *AffineMap, x, y int) int {
	off := uint8(am.Tiles.Offset())
	n := 0
	for row := y; row < y+bigWindowTiles; row++ {
		if m.writeAffineCell(am, x, row, off) {
			n++
		}
	}
	m.stats.ColUpdates++
	m.stats.CellsWritten += n
	return n
}

func (m *Manager) UpdateAffineMapRow(am *AffineMap, x, y int) int {
	off := uint8(am.Tiles.Offset())
	n := 0
	for col := x; col < x+bigWindowTiles; col++ {
		if m.writeAffineCell(am, col, y, off) {
			n++
		}
	}
	m.stats.RowUpdates++
	m.stats.CellsWritten += n
	return n
}

// WindowRegular returns the cells of the VRAM window of a big regular map as
// seen from block (x, y), cols columns by rows rows. It reads VRAM, not the
// source cells.
func (m *Manager) WindowRegular(rm *RegularMap, x, y, cols, rows int) []uint16 {
	out := make([]uint16, 0, cols*rows)
	for row := y; row < y+rows; row++ {
		for col := x; col < x+cols; col++ {
			out = append(out, m.io.ReadVRAM16(rm.SBB*BlockSize+((row&31)*32+(col&31))*2))
		}
	}
	return out
}

// WindowAffine is WindowRegular for affine maps.
func (m *Manager) WindowAffine(am *AffineMap, x, y, cols, rows int) []uint8 {
	out := make([]uint8, 0, cols*rows)
	v := m.io.VRAM()
	for row := y; row < y+rows; row++ {
		for col := x; col < x+cols; col++ {
			out = append(out, v[am.SBB*BlockSize+(row&31)*32+(col&31)])
		}
	}
	return out
}
