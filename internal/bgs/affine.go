package bgs

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/affine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
)

func (m *Manager) affineItem(id ID) *item {
	it := m.get(id)
	assert.Check(it.isAffine, "BG %d is not affine", id)
	return it
}

// updateMat applies fn to the matrix of an affine layer. The staging buffer
// is only touched when a register value actually changed.
func (m *Manager) updateMat(id ID, fn func(mat *affine.MatAttributes)) {
	it := m.affineItem(id)
	before := it.mat.Registers()
	it.mat.UpdateMat(fn)
	if it.syncAffineRegisters(before) {
		m.updateItem(it)
	}
}

func (m *Manager) MatAttributes(id ID) affine.MatAttributes { return m.affineItem(id).mat.Mat() }

func (m *Manager) SetMatAttributes(id ID, mat affine.MatAttributes) {
	if err := mat.Validate(); err != nil {
		assert.Fail("Invalid mat attributes: %v", err)
	}
	m.updateMat(id, func(dst *affine.MatAttributes) { *dst = mat })
}

func (m *Manager) RotationAngle(id ID) fixed.Fixed {
	mat := m.MatAttributes(id)
	return mat.RotationAngle()
}

func (m *Manager) SetRotationAngle(id ID, angle fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetRotationAngle(angle) })
}

// SetRotationAngleSafe wraps angle into [0..360] before applying it.
func (m *Manager) SetRotationAngleSafe(id ID, angle fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetRotationAngleSafe(angle) })
}

func (m *Manager) HorizontalScale(id ID) fixed.Fixed {
	mat := m.MatAttributes(id)
	return mat.HorizontalScale()
}

func (m *Manager) SetHorizontalScale(id ID, scale fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetHorizontalScale(scale) })
}

func (m *Manager) VerticalScale(id ID) fixed.Fixed {
	mat := m.MatAttributes(id)
	return mat.VerticalScale()
}

func (m *Manager) SetVerticalScale(id ID, scale fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetVerticalScale(scale) })
}

func (m *Manager) SetScale(id ID, horizontal, vertical fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetScale(horizontal, vertical) })
}

func (m *Manager) HorizontalShear(id ID) fixed.Fixed {
	mat := m.MatAttributes(id)
	return mat.HorizontalShear()
}

func (m *Manager) SetHorizontalShear(id ID, shear fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetHorizontalShear(shear) })
}

func (m *Manager) VerticalShear(id ID) fixed.Fixed {
	mat := m.MatAttributes(id)
	return mat.VerticalShear()
}

func (m *Manager) SetVerticalShear(id ID, shear fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetVerticalShear(shear) })
}

func (m *Manager) SetShear(id ID, horizontal, vertical fixed.Fixed) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetShear(horizontal, vertical) })
}

func (m *Manager) HorizontalFlip(id ID) bool {
	mat := m.MatAttributes(id)
	return mat.HorizontalFlip()
}

func (m *Manager) SetHorizontalFlip(id ID, flip bool) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetHorizontalFlip(flip) })
}

func (m *Manager) VerticalFlip(id ID) bool {
	mat := m.MatAttributes(id)
	return mat.VerticalFlip()
}

func (m *Manager) SetVerticalFlip(id ID, flip bool) {
	m.updateMat(id, func(mat *affine.MatAttributes) { mat.SetVerticalFlip(flip) })
}

// PivotPosition is the rotation and scale centre, relative to the layer centre.
func (m *Manager) PivotPosition(id ID) fixed.Point { return m.affineItem(id).mat.Pivot() }

func (m *Manager) SetPivotPosition(id ID, pivot fixed.Point) {
	it := m.affineItem(id)
	before := it.mat.Registers()
	it.mat.SetPivot(pivot)
	if it.syncAffineRegisters(before) {
		m.updateItem(it)
	}
}
