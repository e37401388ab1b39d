package bgs

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

func point(x, y int) fixed.Point { return fixed.Point{X: fixed.FromInt(x), Y: fixed.FromInt(y)} }

// 96x80 tiles: centred hw position is (264, 240), block (33, 30).
const bigW, bigH = 96, 80

func TestBigMapPatchingMatchesFullResync(t *testing.T) {
	f := newFixture(t, Defaults())
	rm := f.regularMap(t, bigW, bigH)
	bg := f.m.CreateRegular(NewRegularBuilder(rm))
	if !bg.BigMap() || f.m.BigMapState(bg.ID()) != BigMapDirty {
		t.Fatalf("big map state = %s", f.m.BigMapState(bg.ID()))
	}
	f.frame()
	if got := f.m.LastBigMapSync(bg.ID()); got != BigMapFullResync {
		t.Fatalf("first sync = %s", got)
	}
	if f.m.BigMapState(bg.ID()) != BigMapIdle {
		t.Fatalf("state after commit = %s", f.m.BigMapState(bg.ID()))
	}

	// A -> B -> A in small steps
	steps := []fixed.Point{point(-8, 0), point(-24, -16), point(-16, -8), point(0, 0)}
	for _, p := range steps {
		bg.SetPosition(p)
		f.frame()
		if got := f.m.LastBigMapSync(bg.ID()); got != BigMapIncrementalPatch {
			t.Fatalf("move to %v synced as %s", p, got)
		}
	}
	walked := f.vm.WindowRegular(rm, 33, 30, 31, 21)

	ref := newFixture(t, Defaults())
	rm2 := ref.regularMap(t, bigW, bigH)
	ref.m.CreateRegular(NewRegularBuilder(rm2))
	ref.frame()
	full := ref.vm.WindowRegular(rm2, 33, 30, 31, 21)
	for i := range full {
		if walked[i] != full[i] {
			t.Fatalf("cell (%d, %d) differs: walked %04x full %04x", 33+i%31, 30+i/31, walked[i], full[i])
		}
	}
}

func TestIdleCameraLeavesBigMapAlone(t *testing.T) {
	f := newFixture(t, Defaults())
	cams := camera.NewRegistry()
	cam := cams.New(fixed.Point{})
	b := NewRegularBuilder(f.regularMap(t, bigW, bigH))
	b.Camera = cam
	bg := f.m.CreateRegular(b)
	f.frame()

	// nothing moved: the frame must not find any work
	f.m.UpdateCameras()
	if got := f.m.BigMapState(bg.ID()); got != BigMapIdle {
		t.Fatalf("big map state on idle frame = %s", got)
	}
	if got := f.m.FrameState(); got != FrameClean {
		t.Fatalf("frame state on idle frame = %s", got)
	}

	cam.SetX(fixed.FromInt(8))
	f.m.UpdateCameras()
	if got := f.m.BigMapState(bg.ID()); got != BigMapDirty {
		t.Fatalf("big map state after camera move = %s", got)
	}
	cams.Reset()
	f.frame()
	if got := f.m.LastBigMapSync(bg.ID()); got != BigMapIncrementalPatch {
		t.Fatalf("camera move synced as %s", got)
	}

	f.m.UpdateCameras()
	if got := f.m.BigMapState(bg.ID()); got != BigMapIdle {
		t.Fatalf("big map state after reset = %s", got)
	}
}

func TestBigMapLargeJumpResyncs(t *testing.T) {
	f := newFixture(t, Defaults())
	rm := f.regularMap(t, bigW, bigH)
	bg := f.m.CreateRegular(NewRegularBuilder(rm))
	f.frame()
	resyncs := f.vm.Stats().FullResyncs

	bg.SetX(fixed.FromInt(-200))
	f.frame()
	if got := f.m.LastBigMapSync(bg.ID()); got != BigMapFullResync {
		t.Fatalf("jump of 25 blocks synced as %s", got)
	}
	if f.vm.Stats().FullResyncs != resyncs+1 {
		t.Fatalf("full resyncs = %d", f.vm.Stats().FullResyncs)
	}

	// moves inside a block do not touch VRAM
	cells := f.vm.Stats().CellsWritten
	bg.SetX(fixed.FromInt(-201))
	f.frame()
	if f.vm.Stats().CellsWritten != cells {
		t.Fatal("VRAM written without a block change")
	}

	// hidden layers are synced when shown again
	bg.SetVisible(false)
	bg.SetX(fixed.FromInt(-100))
	f.frame()
	if f.m.BigMapState(bg.ID()) != BigMapDirty {
		t.Fatalf("hidden layer state = %s", f.m.BigMapState(bg.ID()))
	}
	bg.SetVisible(true)
	f.frame()
	if f.m.BigMapState(bg.ID()) != BigMapIdle || f.m.LastBigMapSync(bg.ID()) != BigMapFullResync {
		t.Fatalf("state %s, last sync %s", f.m.BigMapState(bg.ID()), f.m.LastBigMapSync(bg.ID()))
	}
}

func TestBigMapPatchLimit(t *testing.T) {
	cfg := Defaults()
	cfg.BigMapPatchLimit = 1
	f := newFixture(t, cfg)
	bg := f.m.CreateRegular(NewRegularBuilder(f.regularMap(t, bigW, bigH)))
	f.frame()
	bg.SetX(fixed.FromInt(-16))
	f.frame()
	if got := f.m.LastBigMapSync(bg.ID()); got != BigMapFullResync {
		t.Fatalf("two block jump with limit 1 synced as %s", got)
	}
}

func TestBigRegularMapsDoNotWrap(t *testing.T) {
	f := newFixture(t, Defaults())
	bg := f.m.CreateRegular(NewRegularBuilder(f.regularMap(t, bigW, bigH)))
	expectFatal(t, "horizontal wrapping", func() { bg.SetX(fixed.FromInt(-300)) })
	expectFatal(t, "vertical wrapping", func() { bg.SetPosition(point(0, 241)) })
}

func TestBigAffineMap(t *testing.T) {
	f := newFixture(t, Defaults())
	am := f.affineMap(t, 128, 64)
	bg := f.m.CreateAffine(NewAffineBuilder(am))
	f.frame()
	cnt := hw.UnpackBgCnt(f.m.Registers(bg.ID()).Cnt)
	if !cnt.Wrap || cnt.Size != 1 {
		t.Fatalf("big affine control word: wrap %v size %d", cnt.Wrap, cnt.Size)
	}
	if f.m.LastBigMapSync(bg.ID()) != BigMapFullResync {
		t.Fatal("big affine map not synced")
	}
	// the screen centre samples texel (512, 256): block (48, 16)
	got := f.vm.WindowAffine(am, 48, 16, 32, 32)
	for i, c := range got {
		x, y := 48+i%32, 16+i/32
		if want := am.Cells[y*am.Width+x] + uint8(am.Tiles.Offset()); c != want {
			t.Fatalf("cell (%d, %d) = %d, want %d", x, y, c, want)
		}
	}
	bg.SetX(fixed.FromInt(-16))
	f.frame()
	if f.m.LastBigMapSync(bg.ID()) != BigMapIncrementalPatch {
		t.Fatalf("small affine move synced as %s", f.m.LastBigMapSync(bg.ID()))
	}
	got = f.vm.WindowAffine(am, 50, 16, 32, 32)
	for i, c := range got {
		x, y := 50+i%32, 16+i/32
		if want := am.Cells[y*am.Width+x] + uint8(am.Tiles.Offset()); c != want {
			t.Fatalf("after move cell (%d, %d) = %d, want %d", x, y, c, want)
		}
	}
}
