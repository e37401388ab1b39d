package bgs

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/affine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

func TestAffineMutationsAreIdempotent(t *testing.T) {
	f := newFixture(t, Defaults())
	bg := f.m.CreateAffine(NewAffineBuilder(f.affineMap(t, 32, 32)))
	f.frame()

	mutations := []struct {
		name string
		fn   func()
	}{
		{"rotation", func() { bg.SetRotationAngle(fixed.FromInt(45)) }},
		{"scale", func() { bg.SetScale(fixed.FromFloat(1.5), fixed.FromFloat(0.75)) }},
		{"shear", func() { bg.SetShear(fixed.FromFloat(0.25), 0) }},
		{"flip", func() { bg.SetHorizontalFlip(true) }},
		{"pivot", func() { bg.SetPivotPosition(point(8, -4)) }},
		{"position", func() { bg.SetPosition(point(3, 7)) }},
	}
	for _, mu := range mutations {
		mu.fn()
		if f.m.FrameState() != FrameCommitPending {
			t.Fatalf("%s: first call did not mark the staging buffer", mu.name)
		}
		f.frame()
		before := f.m.Registers(bg.ID())
		mu.fn()
		if f.m.FrameState() != FrameClean {
			t.Fatalf("%s: repeated call marked the staging buffer", mu.name)
		}
		if got := f.m.Registers(bg.ID()); got != before {
			t.Fatalf("%s: registers changed:\n%s", mu.name, spew.Sdump(before, got))
		}
	}
	slot, _ := bg.HWID()
	if got, want := f.io.BgHandle(slot), f.m.Registers(bg.ID()); got != want {
		t.Fatalf("committed registers:\n%s", spew.Sdump(want, got))
	}
}

func TestIdentityScaleDoesNotDirty(t *testing.T) {
	f := newFixture(t, Defaults())
	bg := f.m.CreateAffine(NewAffineBuilder(f.affineMap(t, 32, 32)))
	f.frame()
	bg.SetScale(fixed.FromInt(1), fixed.FromInt(1))
	bg.SetRotationAngle(0)
	bg.SetVerticalFlip(false)
	if f.m.FrameState() != FrameClean {
		t.Fatal("identity parameters marked the staging buffer")
	}
}

func TestSafeRotationMatchesWrappedAngle(t *testing.T) {
	f := newFixture(t, Defaults())
	am := f.affineMap(t, 32, 32)
	a := f.m.CreateAffine(NewAffineBuilder(am))
	b := f.m.CreateAffine(NewAffineBuilder(am))
	a.SetRotationAngleSafe(fixed.FromInt(370))
	b.SetRotationAngle(fixed.FromInt(10))
	ra, rb := f.m.Registers(a.ID()), f.m.Registers(b.ID())
	if ra != rb {
		t.Fatalf("registers differ:\n%s", spew.Sdump(ra, rb))
	}
	if a.RotationAngle() != fixed.FromInt(10) {
		t.Fatalf("angle = %s", a.RotationAngle())
	}
	expectFatal(t, "Invalid rotation angle", func() { b.SetRotationAngle(fixed.FromInt(361)) })
}

func TestAffineRegistersMatchMatAttributes(t *testing.T) {
	f := newFixture(t, Defaults())
	bg := f.m.CreateAffine(NewAffineBuilder(f.affineMap(t, 32, 32)))
	mat := affine.NewMatAttributes()
	mat.SetRotationAngle(fixed.FromInt(90))
	bg.SetMatAttributes(mat)
	regs := f.m.Registers(bg.ID()).Affine
	if regs.PA != 0 || regs.PB != -256 || regs.PC != 256 || regs.PD != 0 {
		t.Fatalf("90 degree registers:\n%s", spew.Sdump(regs))
	}
	// rotating around the centre keeps the centre texel under the screen centre
	cx := (int(regs.DX) + int(regs.PA)*hw.DisplayWidth/2 + int(regs.PB)*hw.DisplayHeight/2) >> 8
	cy := (int(regs.DY) + int(regs.PC)*hw.DisplayWidth/2 + int(regs.PD)*hw.DisplayHeight/2) >> 8
	if cx != 128 || cy != 128 {
		t.Fatalf("centre texel = (%d, %d)", cx, cy)
	}
	if !bg.Wrapping() {
		t.Fatal("wrapping disabled by default")
	}
	bg.SetWrapping(false)
	if hw.UnpackBgCnt(f.m.Registers(bg.ID()).Cnt).Wrap {
		t.Fatal("wrap bit still set")
	}
}

func TestAffineHBlankFills(t *testing.T) {
	f := newFixture(t, Defaults())
	am := f.affineMap(t, 32, 32)
	bg := f.m.CreateAffine(NewAffineBuilder(am))
	regs := f.m.Registers(bg.ID()).Affine

	mats := make([]affine.MatAttributes, hw.DisplayHeight)
	for i := range mats {
		mats[i] = affine.NewMatAttributes()
	}
	dest := make([]hw.AffineRegs, hw.DisplayHeight)
	f.m.FillHBlankAffineMatAttributes(bg.ID(), mats, dest)
	if dest[0] != regs {
		t.Fatalf("line 0:\n%s", spew.Sdump(regs, dest[0]))
	}
	if dest[10].DY != regs.DY+10*256 {
		t.Fatalf("line 10 DY = %d", dest[10].DY)
	}

	pivots := make([]fixed.Fixed, hw.DisplayHeight)
	dx := make([]int32, hw.DisplayHeight)
	f.m.FillHBlankPivotPositions(bg.ID(), true, pivots, dx)
	if dx[0] != regs.DX {
		t.Fatalf("pivot line 0 DX = %d, want %d", dx[0], regs.DX)
	}

	attrs := make([]AffineAttributes, hw.DisplayHeight)
	for i := range attrs {
		attrs[i] = AffineAttributes{Map: am, Priority: 1, Wrapping: i%2 == 0}
	}
	cnts := make([]uint16, hw.DisplayHeight)
	f.m.FillHBlankAffineAttributes(bg.ID(), attrs, cnts)
	if c := hw.UnpackBgCnt(cnts[1]); c.Wrap || c.Priority != 1 {
		t.Fatalf("line 1 control word:\n%s", spew.Sdump(c))
	}
	attrs[3].Map = f.affineMap(t, 64, 64)
	expectFatal(t, "Map dimensions mismatch", func() { f.m.FillHBlankAffineAttributes(bg.ID(), attrs, cnts) })
}
