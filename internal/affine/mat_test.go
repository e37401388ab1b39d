package affine

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
)

func regs(m *MatAttributes) [4]int16 { return [4]int16{m.PA(), m.PB(), m.PC(), m.PD()} }

func TestIdentityMatrix(t *testing.T) {
	m := NewMatAttributes()
	if !m.Identity() {
		t.Fatalf("new matrix should be identity, got %v", regs(&m))
	}
	m.SetHorizontalFlip(true)
	if m.Identity() || !m.FlippedIdentity() {
		t.Fatalf("flipped matrix: identity=%v flipped=%v", m.Identity(), m.FlippedIdentity())
	}
	if m.PA() != -256 || m.PD() != 256 {
		t.Fatalf("hflip registers: %v", regs(&m))
	}
}

func TestRotationRegisters(t *testing.T) {
	m := NewMatAttributes()
	m.SetRotationAngle(fixed.FromInt(90))
	if got := regs(&m); got != [4]int16{0, -256, 256, 0} {
		t.Fatalf("rotation 90: got %v", got)
	}
	m.SetRotationAngle(fixed.FromInt(180))
	if got := regs(&m); got != [4]int16{-256, 0, 0, -256} {
		t.Fatalf("rotation 180: got %v", got)
	}
}

func TestScaleRegisters(t *testing.T) {
	m := NewMatAttributes()
	m.SetScale(fixed.FromInt(2), fixed.FromInt(2))
	if got := regs(&m); got != [4]int16{128, 0, 0, 128} {
		t.Fatalf("scale 2: got %v", got)
	}
	m.SetVerticalScale(fixed.FromFloat(0.5))
	if got := regs(&m); got != [4]int16{128, 0, 0, 512} {
		t.Fatalf("vertical scale 0.5: got %v", got)
	}
	// scales below 1/128 saturate
	m.SetHorizontalScale(fixed.FromData(1))
	if m.sx != minInvScale<<8 {
		t.Fatalf("saturated sx = %d, want %d", m.sx, minInvScale<<8)
	}
}

func TestShearRegisters(t *testing.T) {
	m := NewMatAttributes()
	m.SetShear(fixed.FromFloat(0.5), fixed.FromFloat(-0.25))
	if got := regs(&m); got != [4]int16{256, 128, -64, 256} {
		t.Fatalf("shear: got %v", got)
	}
}

func TestRotationSafeWraps(t *testing.T) {
	a := NewMatAttributes()
	a.SetRotationAngleSafe(fixed.FromInt(370))
	b := NewMatAttributes()
	b.SetRotationAngle(fixed.FromInt(10))
	if a.RotationAngle() != fixed.FromInt(10) {
		t.Fatalf("stored angle = %s, want 10", a.RotationAngle())
	}
	if regs(&a) != regs(&b) {
		t.Fatalf("safe 370 %v != direct 10 %v", regs(&a), regs(&b))
	}
}

func TestRotationOutOfRangeIsFatal(t *testing.T) {
	var err error
	func() {
		defer assert.Recover(&err)
		m := NewMatAttributes()
		m.SetRotationAngle(fixed.FromInt(361))
	}()
	if err == nil {
		t.Fatal("expected assertion for angle 361")
	}
}

func TestBgMatReferencePoint(t *testing.T) {
	half := fixed.Point{X: fixed.FromInt(128), Y: fixed.FromInt(128)}
	b := NewBgMatAttributes(fixed.Point{}, half, fixed.Point{}, NewMatAttributes())
	// screen x 0 shows texture x 128-120
	if b.DX() != 8*256 || b.DY() != 48*256 {
		t.Fatalf("dx=%d dy=%d", b.DX(), b.DY())
	}
	b.SetPosition(fixed.Point{X: fixed.FromInt(10)})
	if b.DX() != -2*256 {
		t.Fatalf("moved dx=%d want %d", b.DX(), -2*256)
	}
	// sub pixel moves do not change the registers
	before := b.Registers()
	b.SetPosition(fixed.Point{X: fixed.FromFloat(10.5)})
	if b.Registers() != before {
		t.Fatalf("sub pixel move changed registers: %+v -> %+v", before, b.Registers())
	}
}

func TestBgMatRotationAroundPivot(t *testing.T) {
	half := fixed.Point{X: fixed.FromInt(64), Y: fixed.FromInt(64)}
	b := NewBgMatAttributes(fixed.Point{}, half, fixed.Point{}, NewMatAttributes())
	b.UpdateMat(func(m *MatAttributes) { m.SetRotationAngle(fixed.FromInt(90)) })
	r := b.Registers()
	// the screen centre keeps showing the map centre
	texX := int(r.DX) + int(r.PA)*120 + int(r.PB)*80
	texY := int(r.DY) + int(r.PC)*120 + int(r.PD)*80
	if texX != 64*256 || texY != 64*256 {
		t.Fatalf("centre maps to (%d,%d)", texX>>8, texY>>8)
	}
}
