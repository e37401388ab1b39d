package inspect

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assets"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
)

func newCore(t *testing.T) *engine.Core {
	t.Helper()
	c := engine.New(engine.Defaults(), nil)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	lib := assets.NewLibrary(c.VRAM())
	rm, _ := lib.Regular("checker")
	front := bgs.NewRegularBuilder(rm)
	front.Priority = 0
	c.Bgs().CreateRegular(front)
	am, _ := lib.Affine("floor")
	c.Bgs().CreateAffine(bgs.NewAffineBuilder(am))
	if err := c.StepFrame(); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTakeListsLayersFrontToBack(t *testing.T) {
	c := newCore(t)
	s := Take(c)
	if len(s.Layers) != 2 {
		t.Fatalf("layers = %d", len(s.Layers))
	}
	front, back := s.Layers[0], s.Layers[1]
	if front.Priority != 0 || front.Affine || !back.Affine {
		t.Fatalf("order: %+v then %+v", front, back)
	}
	for _, l := range s.Layers {
		if l.Slot < 0 || !s.Slots[l.Slot].Enabled || s.Slots[l.Slot].Affine != l.Affine {
			t.Fatalf("layer %d slot %d: %+v", l.ID, l.Slot, s.Slots)
		}
	}
	if s.DispCnt.Mode != 1 {
		t.Fatalf("mode = %d", s.DispCnt.Mode)
	}
	text := strings.Join(s.Lines(), "\n")
	for _, want := range []string{"frame 1", "regular", "affine", "BG2", "vram #"} {
		if !strings.Contains(text, want) {
			t.Fatalf("%q missing from\n%s", want, text)
		}
	}
}

func row(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		if r := cells[y*w+x].Runes; len(r) > 0 {
			b.WriteRune(r[0])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func TestDashboard(t *testing.T) {
	c := newCore(t)
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(160, 50)

	d := New(screen, c, nil)
	d.Draw()
	screen.Show()
	if r := row(screen, 1); !strings.Contains(r, "frame 1") || !strings.HasPrefix(r, "▀") {
		t.Fatalf("row 1 = %q", r)
	}

	key := func(k tcell.Key, r rune) bool { return d.handle(tcell.NewEventKey(k, r, tcell.ModNone)) }
	key(tcell.KeyRune, ' ')
	d.Advance()
	if c.Frame() != 1 {
		t.Fatal("paused dashboard stepped")
	}
	key(tcell.KeyRune, 'n')
	d.Advance()
	if c.Frame() != 2 {
		t.Fatal("single step did not run a frame")
	}
	key(tcell.KeyRight, 0)
	if c.Camera().Position().X != fixed.FromInt(panStep) {
		t.Fatal("arrow did not pan the camera")
	}
	if key(tcell.KeyRune, 'q') {
		t.Fatal("q did not quit")
	}
}
