// Package affine computes the matrix registers of rotated, scaled, sheared
// and flipped layers with the same precision the video hardware uses.
package affine

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/pkg/errors"
)

// minInvScale is the largest inverse scale the registers can hold (1/128 scale).
const minInvScale = 128

var minScale = fixed.FromInt(1).DivInt(minInvScale)

// MatAttributes holds the parameters of a 2x2 transformation matrix and the
// PA..PD register values derived from them (8 fractional bits).
type MatAttributes struct {
	rotationAngle   fixed.Fixed
	horizontalScale fixed.Fixed
	verticalScale   fixed.Fixed
	horizontalShear fixed.Fixed
	verticalShear   fixed.Fixed
	hflip, vflip    int
	sin, cos        int
	sx, sy          int
	pa, pb, pc, pd  int16
}

// NewMatAttributes returns the identity matrix.
func NewMatAttributes() MatAttributes {
	return MatAttributes{
		horizontalScale: fixed.FromInt(1),
		verticalScale:   fixed.FromInt(1),
		hflip:           1,
		vflip:           1,
		cos:             1 << fixed.Precision,
		sx:              256,
		sy:              256,
		pa:              256,
		pd:              256,
	}
}

// Validate reports parameters the hardware can not represent.
func (m *MatAttributes) Validate() error {
	if m.rotationAngle < 0 || m.rotationAngle > fixed.FromInt(360) {
		return errors.Errorf("invalid rotation angle: %s (valid range [0..360])", m.rotationAngle)
	}
	if m.horizontalScale <= 0 {
		return errors.Errorf("invalid horizontal scale: %s (must be > 0)", m.horizontalScale)
	}
	if m.verticalScale <= 0 {
		return errors.Errorf("invalid vertical scale: %s (must be > 0)", m.verticalScale)
	}
	return nil
}

func (m *MatAttributes) RotationAngle() fixed.Fixed { return m.rotationAngle }

// SetRotationAngle sets the rotation in degrees, in the range [0..360].
func (m *MatAttributes) SetRotationAngle(angle fixed.Fixed) {
	assert.Check(angle >= 0 && angle <= fixed.FromInt(360), "Invalid rotation angle: %s (valid range [0..360])", angle)
	m.rotationAngle = angle
	m.updateRotationAngle()
	m.updatePA()
	m.updatePB()
	m.updatePC()
	m.updatePD()
}

// SetRotationAngleSafe sets the rotation in degrees, wrapping any value into range.
func (m *MatAttributes) SetRotationAngleSafe(angle fixed.Fixed) {
	m.SetRotationAngle(fixed.SafeDegreesAngle(angle))
}

func (m *MatAttributes) HorizontalScale() fixed.Fixed { return m.horizontalScale }

func (m *MatAttributes) SetHorizontalScale(scale fixed.Fixed) {
	assert.Check(scale > 0, "Invalid horizontal scale: %s (must be > 0)", scale)
	m.horizontalScale = scale
	m.sx = outputScale(scale)
	m.updatePA()
	m.updatePB()
}

func (m *MatAttributes) VerticalScale() fixed.Fixed { return m.verticalScale }

func (m *MatAttributes) SetVerticalScale(scale fixed.Fixed) {
	assert.Check(scale > 0, "Invalid vertical scale: %s (must be > 0)", scale)
	m.verticalScale = scale
	m.sy = outputScale(scale)
	m.updatePC()
	m.updatePD()
}

// SetScale sets both scales at once.
func (m *MatAttributes) SetScale(horizontal, vertical fixed.Fixed) {
	assert.Check(horizontal > 0, "Invalid horizontal scale: %s (must be > 0)", horizontal)
	assert.Check(vertical > 0, "Invalid vertical scale: %s (must be > 0)", vertical)
	m.horizontalScale = horizontal
	m.verticalScale = vertical
	m.sx = outputScale(horizontal)
	if vertical == horizontal {
		m.sy = m.sx
	} else {
		m.sy = outputScale(vertical)
	}
	m.updatePA()
	m.updatePB()
	m.updatePC()
	m.updatePD()
}

func (m *MatAttributes) HorizontalShear() fixed.Fixed { return m.horizontalShear }

func (m *MatAttributes) SetHorizontalShear(shear fixed.Fixed) {
	m.horizontalShear = shear
	m.updatePB()
}

func (m *MatAttributes) VerticalShear() fixed.Fixed { return m.verticalShear }

func (m *MatAttributes) SetVerticalShear(shear fixed.Fixed) {
	m.verticalShear = shear
	m.updatePC()
}

func (m *MatAttributes) SetShear(horizontal, vertical fixed.Fixed) {
	m.SetHorizontalShear(horizontal)
	m.SetVerticalShear(vertical)
}

func (m *MatAttributes) HorizontalFlip() bool { return m.hflip < 0 }

func (m *MatAttributes) SetHorizontalFlip(flip bool) {
	m.hflip = flipSign(flip)
	m.updatePA()
	m.updatePB()
}

func (m *MatAttributes) VerticalFlip() bool { return m.vflip < 0 }

func (m *MatAttributes) SetVerticalFlip(flip bool) {
	m.vflip = flipSign(flip)
	m.updatePC()
	m.updatePD()
}

// Identity reports whether the matrix leaves the layer untouched.
func (m *MatAttributes) Identity() bool {
	return m.plainParameters() && m.hflip > 0 && m.vflip > 0 &&
		m.pa == 256 && m.pb == 0 && m.pc == 0 && m.pd == 256
}

// FlippedIdentity is Identity allowing flips.
func (m *MatAttributes) FlippedIdentity() bool {
	return m.plainParameters() && (m.pa == 256 || m.pa == -256) && m.pb == 0 && m.pc == 0 &&
		(m.pd == 256 || m.pd == -256)
}

func (m *MatAttributes) plainParameters() bool {
	one := fixed.FromInt(1)
	return m.rotationAngle == 0 && m.horizontalScale == one && m.verticalScale == one &&
		m.horizontalShear == 0 && m.verticalShear == 0
}

func (m *MatAttributes) PA() int16 { return m.pa }
func (m *MatAttributes) PB() int16 { return m.pb }
func (m *MatAttributes) PC() int16 { return m.pc }
func (m *MatAttributes) PD() int16 { return m.pd }

// outputScale returns the inverse scale with 8 fractional bits.
func outputScale(scale fixed.Fixed) int {
	if scale <= minScale {
		return minInvScale << 8
	}
	scale8 := int(scale.Shift(8))
	if scale8 <= 0 {
		return minInvScale << 8
	}
	return fixed.Reciprocal16(scale8)
}

func flipSign(flip bool) int {
	if flip {
		return -1
	}
	return 1
}

func (m *MatAttributes) updateRotationAngle() {
	s, c := fixed.DegreesSinCos(m.rotationAngle)
	m.sin, m.cos = int(s), int(c)
}

func (m *MatAttributes) updatePA() {
	m.pa = int16((m.cos * (m.sx * m.hflip)) >> 12)
}

func (m *MatAttributes) updatePB() {
	rotScale := (-m.sin * (m.sx * m.hflip)) >> 12
	shear := int(m.horizontalShear.Data() >> 4)
	m.pb = int16(rotScale + shear)
}

func (m *MatAttributes) updatePC() {
	rotScale := (m.sin * (m.sy * m.vflip)) >> 12
	shear := int(m.verticalShear.Data() >> 4)
	m.pc = int16(rotScale + shear)
}

func (m *MatAttributes) updatePD() {
	m.pd = int16((m.cos * (m.sy * m.vflip)) >> 12)
}
