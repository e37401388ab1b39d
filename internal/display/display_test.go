package display

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

type fakeFiller struct {
	calls int
	bits  [hw.WindowsCount]uint16
}

func (f *fakeFiller) FillWindowsFlags(flags *[hw.WindowsCount]uint16) {
	f.calls++
	for i := range flags {
		flags[i] |= f.bits[i]
	}
}

func TestCommitWritesDisplayCnt(t *testing.T) {
	m := New(nil)
	io := hw.NewIO()
	m.SetMode(1)
	m.SetBgEnabled(0, true)
	m.SetBgEnabled(2, true)
	m.Update()
	m.Commit(io)
	got := hw.UnpackDisplayCnt(io.Read16(hw.RegDispCnt))
	if got.Mode != 1 || !got.Bgs[0] || got.Bgs[1] || !got.Bgs[2] || !got.Sprites {
		t.Fatalf("DISPCNT = %+v", got)
	}
	writes := io.Writes
	m.Update()
	m.Commit(io)
	if io.Writes != writes {
		t.Fatal("clean display committed again")
	}
}

func TestWindowsFlagsFilledOnRequest(t *testing.T) {
	m := New(nil)
	f := &fakeFiller{bits: [hw.WindowsCount]uint16{0x1, 0x3, 0, 0xF}}
	m.SetFiller(f)
	io := hw.NewIO()
	m.Update()
	if f.calls != 0 {
		t.Fatal("filler called without a request")
	}
	m.UpdateWindowsVisibleBgs()
	m.Update()
	m.Commit(io)
	if f.calls != 1 {
		t.Fatalf("filler calls = %d", f.calls)
	}
	flags := hw.WindowsFlags(io.Read16(hw.RegWinIn), io.Read16(hw.RegWinOut))
	want := uint16(hw.WindowFlagSprites | hw.WindowFlagBlending)
	if flags[hw.Window0] != want|0x1 || flags[hw.WindowOutside] != want|0xF {
		t.Fatalf("window flags = %v", flags)
	}
	// background bits are rebuilt, not accumulated
	f.bits = [hw.WindowsCount]uint16{}
	m.UpdateWindowsVisibleBgs()
	m.Update()
	if m.WindowsFlags()[hw.WindowOutside] != want {
		t.Fatalf("stale background bits: %v", m.WindowsFlags())
	}
	m.SetShowSpritesInWindow(hw.Window1, false)
	if m.ShowSpritesInWindow(hw.Window1) {
		t.Fatal("sprites still shown in window 1")
	}
}

func TestBlendingAndGreenSwap(t *testing.T) {
	m := New(nil)
	io := hw.NewIO()
	m.SetBlendingBgEnabled(1, true, false)
	m.SetBlendingBgEnabled(3, false, true)
	m.SetBlendingTransparencyAlpha(fixed.FromFloat(0.5))
	m.SetGreenSwapEnabled(true)
	m.Update()
	m.Commit(io)
	b := hw.UnpackBldCnt(io.Read16(hw.RegBldCnt))
	if b.Top != 1<<1 || b.Mode != hw.BlendingTransparency || b.Bottom != 1<<3|hw.WindowFlagSprites|1<<5 {
		t.Fatalf("BLDCNT = %+v", b)
	}
	if got := io.Read16(hw.RegBldAlpha); got != 8|8<<8 {
		t.Fatalf("BLDALPHA = %04x", got)
	}
	if io.Read16(hw.RegGreenSwap) != 1 {
		t.Fatal("green swap not written")
	}
	m.SetBlendingFade(true, false, fixed.FromInt(1))
	m.Update()
	m.Commit(io)
	if b := hw.UnpackBldCnt(io.Read16(hw.RegBldCnt)); b.Mode != hw.BlendingFadeToWhite {
		t.Fatalf("fade mode = %d", b.Mode)
	}
	if io.Read16(hw.RegBldY) != 16 {
		t.Fatalf("BLDY = %d", io.Read16(hw.RegBldY))
	}
}

func TestRectWindowFollowsCamera(t *testing.T) {
	m := New(nil)
	io := hw.NewIO()
	cams := camera.NewRegistry()
	cam := cams.New(fixed.Point{})
	m.SetRectWindowBoundaries(0,
		fixed.Point{X: fixed.FromInt(-20), Y: fixed.FromInt(-10)},
		fixed.Point{X: fixed.FromInt(20), Y: fixed.FromInt(10)})
	m.SetRectWindowCamera(0, cam)
	m.Update()
	m.Commit(io)
	if got := io.Read16(hw.RegWin0H); got != 100<<8|140 {
		t.Fatalf("WIN0H = %04x", got)
	}
	cam.SetX(fixed.FromInt(200))
	m.UpdateCameras()
	m.Update()
	m.Commit(io)
	if got := io.Read16(hw.RegWin0H); got != 0 {
		t.Fatalf("WIN0H after camera move = %04x, want clamped to 0", got)
	}
	if got := io.Read16(hw.RegWin0V); got != 70<<8|90 {
		t.Fatalf("WIN0V = %04x", got)
	}
}
