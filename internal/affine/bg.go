package affine

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

const rightShift = fixed.Precision - 8

// BgMatAttributes combines the matrix of an affine layer with its position,
// pivot and half dimensions, and derives the DX/DY reference point registers.
//
// Position and pivot are relative to the screen centre; the pivot is relative
// to the layer centre.
type BgMatAttributes struct {
	position       fixed.Point
	halfDimensions fixed.Point
	pivot          fixed.Point
	mat            MatAttributes
	dx, dy         int32
}

// NewBgMatAttributes builds the attributes and computes DX/DY.
func NewBgMatAttributes(position, halfDimensions, pivot fixed.Point, mat MatAttributes) BgMatAttributes {
	b := BgMatAttributes{position: position, halfDimensions: halfDimensions, pivot: pivot, mat: mat}
	b.updateDXDY()
	return b
}

func (b *BgMatAttributes) Position() fixed.Point { return b.position }

func (b *BgMatAttributes) SetPosition(position fixed.Point) {
	b.position = position
	b.updateDXDY()
}

func (b *BgMatAttributes) HalfDimensions() fixed.Point { return b.halfDimensions }

func (b *BgMatAttributes) SetHalfDimensions(half fixed.Point) {
	b.halfDimensions = half
	b.updateDXDY()
}

func (b *BgMatAttributes) Pivot() fixed.Point { return b.pivot }

func (b *BgMatAttributes) SetPivot(pivot fixed.Point) {
	b.pivot = pivot
	b.updateDXDY()
}

// Mat returns a copy of the matrix parameters.
func (b *BgMatAttributes) Mat() MatAttributes { return b.mat }

func (b *BgMatAttributes) SetMat(mat MatAttributes) {
	b.mat = mat
	b.updateDXDY()
}

// UpdateMat applies fn to the matrix and recomputes the reference point.
func (b *BgMatAttributes) UpdateMat(fn func(m *MatAttributes)) {
	fn(&b.mat)
	b.updateDXDY()
}

func (b *BgMatAttributes) DX() int32 { return b.dx }
func (b *BgMatAttributes) DY() int32 { return b.dy }

// Registers returns the register image of the transformation.
func (b *BgMatAttributes) Registers() hw.AffineRegs {
	return hw.AffineRegs{
		PA: b.mat.pa, PB: b.mat.pb, PC: b.mat.pc, PD: b.mat.pd,
		DX: b.dx, DY: b.dy,
	}
}

// TopLeft converts the centre relative position into a top-left one.
func (b *BgMatAttributes) TopLeft() fixed.Point {
	return fixed.Point{
		X: b.position.X + fixed.FromInt(hw.DisplayWidth/2) - b.halfDimensions.X,
		Y: b.position.Y + fixed.FromInt(hw.DisplayHeight/2) - b.halfDimensions.Y,
	}
}

func (b *BgMatAttributes) updateDXDY() {
	texX := int((b.pivot.X + b.halfDimensions.X).Data() >> rightShift)
	texY := int((b.pivot.Y + b.halfDimensions.Y).Data() >> rightShift)
	scrX := b.position.X.RightShiftInteger() + hw.DisplayWidth/2
	scrY := b.position.Y.RightShiftInteger() + hw.DisplayHeight/2
	pa, pb, pc, pd := int(b.mat.pa), int(b.mat.pb), int(b.mat.pc), int(b.mat.pd)
	b.dx = int32(texX - (pa*scrX + pb*scrY))
	b.dy = int32(texY - (pc*scrX + pd*scrY))
}
