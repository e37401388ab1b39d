package bgs

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/affine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

// Per scanline fill helpers. Each one writes one register value per display
// line into dest, derived from the current state of a layer and one input
// value per line. They never modify the layer.

// RegularAttributes are the control word fields of a regular layer that can
// change from one scanline to the next.
type RegularAttributes struct {
	Map      *vram.RegularMap
	Priority int
	Mosaic   bool
}

// AffineAttributes are the control word fields of an affine layer that can
// change from one scanline to the next.
type AffineAttributes struct {
	Map      *vram.AffineMap
	Priority int
	Wrapping bool
	Mosaic   bool
}

func (m *Manager) RegularAttributes(id ID) RegularAttributes {
	it := m.get(id)
	return RegularAttributes{Map: it.regularMap, Priority: it.priority, Mosaic: it.cnt.Mosaic}
}

func (m *Manager) AffineAttributes(id ID) AffineAttributes {
	it := m.affineItem(id)
	return AffineAttributes{Map: it.affineMap, Priority: it.priority, Wrapping: it.wrapping, Mosaic: it.cnt.Mosaic}
}

func (m *Manager) SetRegularAttributes(id ID, a RegularAttributes) {
	m.SetRegularMap(id, a.Map)
	m.SetPriority(id, a.Priority)
	m.SetMosaic(id, a.Mosaic)
}

func (m *Manager) SetAffineAttributes(id ID, a AffineAttributes) {
	m.SetAffineMap(id, a.Map)
	m.SetPriority(id, a.Priority)
	m.SetWrapping(id, a.Wrapping)
	m.SetMosaic(id, a.Mosaic)
}

func checkLines(n, dest int) {
	assert.Check(n >= hw.DisplayHeight && dest >= hw.DisplayHeight,
		"Invalid scanline tables: %d, %d (need %d)", n, dest, hw.DisplayHeight)
}

// FillHBlankRegularPositions writes a HOFS (horizontal) or VOFS table that
// offsets the layer by positions[line] on each line.
func (m *Manager) FillHBlankRegularPositions(id ID, horizontal bool, positions []fixed.Fixed, dest []uint16) {
	checkLines(len(positions), len(dest))
	it := m.get(id)
	assert.Check(!it.isAffine, "BG %d is not regular", id)
	base := it.hwPosition.Y
	if horizontal {
		base = it.hwPosition.X
	}
	for line := 0; line < hw.DisplayHeight; line++ {
		dest[line] = uint16(base-positions[line].RightShiftInteger()) & 0x1FF
	}
}

// FillHBlankPivotPositions writes a DX (horizontal) or DY reference point
// table with the pivot coordinate replaced by pivots[line]. Values are
// line start reference points, so they include the per line matrix step.
func (m *Manager) FillHBlankPivotPositions(id ID, horizontal bool, pivots []fixed.Fixed, dest []int32) {
	checkLines(len(pivots), len(dest))
	it := m.affineItem(id)
	bm := it.mat
	p := bm.Pivot()
	for line := 0; line < hw.DisplayHeight; line++ {
		if horizontal {
			p.X = pivots[line]
			bm.SetPivot(p)
			dest[line] = bm.DX() + int32(bm.Registers().PB)*int32(line)
		} else {
			p.Y = pivots[line]
			bm.SetPivot(p)
			dest[line] = bm.DY() + int32(bm.Registers().PD)*int32(line)
		}
	}
}

// FillHBlankAffineMatAttributes writes the matrix and reference point
// registers for a different matrix on every line.
func (m *Manager) FillHBlankAffineMatAttributes(id ID, mats []affine.MatAttributes, dest []hw.AffineRegs) {
	checkLines(len(mats), len(dest))
	it := m.affineItem(id)
	bm := it.mat
	for line := 0; line < hw.DisplayHeight; line++ {
		bm.SetMat(mats[line])
		regs := bm.Registers()
		regs.DX += int32(regs.PB) * int32(line)
		regs.DY += int32(regs.PD) * int32(line)
		dest[line] = regs
	}
}

// FillHBlankRegularAttributes writes a control word table. Every map must
// have the dimensions of the current one.
func (m *Manager) FillHBlankRegularAttributes(id ID, attrs []RegularAttributes, dest []uint16) {
	checkLines(len(attrs), len(dest))
	it := m.get(id)
	assert.Check(!it.isAffine, "BG %d is not regular", id)
	dims := it.dimensions()
	for line := 0; line < hw.DisplayHeight; line++ {
		a := &attrs[line]
		assert.Check(a.Map.Dimensions() == dims, "Map dimensions mismatch")
		cnt := it.cnt
		cnt.TilesCBB = a.Map.Tiles.CBB()
		cnt.MapSBB = a.Map.SBB
		cnt.BPP8 = a.Map.BPP8()
		cnt.Priority = a.Priority
		cnt.Mosaic = a.Mosaic
		dest[line] = cnt.Pack()
	}
}

// FillHBlankAffineAttributes is FillHBlankRegularAttributes for affine layers.
func (m *Manager) FillHBlankAffineAttributes(id ID, attrs []AffineAttributes, dest []uint16) {
	checkLines(len(attrs), len(dest))
	it := m.affineItem(id)
	dims := it.dimensions()
	for line := 0; line < hw.DisplayHeight; line++ {
		a := &attrs[line]
		assert.Check(a.Map.Dimensions() == dims, "Map dimensions mismatch")
		cnt := it.cnt
		cnt.TilesCBB = a.Map.Tiles.CBB()
		cnt.MapSBB = a.Map.SBB
		cnt.Priority = a.Priority
		cnt.Wrap = a.Wrapping || it.big
		cnt.Mosaic = a.Mosaic
		dest[line] = cnt.Pack()
	}
}
