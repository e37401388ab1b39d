package render

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

var (
	red   = hw.BGR555(31, 0, 0)
	green = hw.BGR555(0, 31, 0)
	blue  = hw.BGR555(0, 0, 31)
)

// newScene fills slot 0 with palette bank 1 (red) and slot 1 with bank 2
// (green) over a blue backdrop; both layers are solid and enabled in mode 0.
func newScene() *hw.IO {
	io := hw.NewIO()
	vram := io.VRAM()
	for i := 0; i < tileSize4BPP; i++ {
		vram[tileSize4BPP+i] = 0x11
	}
	for cell := 0; cell < 32*32; cell++ {
		io.WriteVRAM16(30*sbbSize+cell*2, 0x1001)
		io.WriteVRAM16(31*sbbSize+cell*2, 0x2001)
	}
	io.SetColor(0, blue)
	io.SetColor(0x11, red)
	io.SetColor(0x21, green)
	io.Write16(hw.RegBg0Cnt, hw.BgCnt{MapSBB: 30, Priority: 1}.Pack())
	io.Write16(hw.RegBg0Cnt+2, hw.BgCnt{MapSBB: 31}.Pack())
	io.Write16(hw.RegDispCnt, hw.DisplayCnt{Bgs: [hw.BgCount]bool{true, true}}.Pack())
	return io
}

func render(r *Renderer, io *hw.IO) []byte {
	fb := make([]byte, hw.DisplayWidth*hw.DisplayHeight*4)
	r.Frame(io, fb)
	return fb
}

func pixel(fb []byte, x, y int) [3]uint8 {
	i := (y*hw.DisplayWidth + x) * 4
	return [3]uint8{fb[i], fb[i+1], fb[i+2]}
}

func rgb(c uint16) [3]uint8 {
	r, g, b := hw.RGB(c)
	return [3]uint8{r, g, b}
}

func TestFramePriorityAndBackdrop(t *testing.T) {
	io := newScene()
	r := New()
	fb := render(r, io)
	if got := pixel(fb, 10, 10); got != rgb(green) {
		t.Fatalf("priority 0 slot 1 should be in front: %v", got)
	}
	if fb[3] != 0xFF {
		t.Fatal("alpha channel not opaque")
	}

	// equal priority: the lower slot wins
	io.Write16(hw.RegBg0Cnt, hw.BgCnt{MapSBB: 30}.Pack())
	fb = render(r, io)
	if got := pixel(fb, 10, 10); got != rgb(red) {
		t.Fatalf("slot 0 should win a priority tie: %v", got)
	}

	io.Write16(hw.RegDispCnt, 0)
	fb = render(r, io)
	if got := pixel(fb, 239, 159); got != rgb(blue) {
		t.Fatalf("backdrop = %v", got)
	}
}

func TestFrameIgnoresSlotsOutsideMode(t *testing.T) {
	io := newScene()
	// mode 2 only scans out slots 2 and 3
	io.Write16(hw.RegDispCnt, hw.DisplayCnt{Mode: 2, Bgs: [hw.BgCount]bool{true, true}}.Pack())
	fb := render(New(), io)
	if got := pixel(fb, 0, 0); got != rgb(blue) {
		t.Fatalf("regular slots drawn in mode 2: %v", got)
	}
}

func TestFrameWindows(t *testing.T) {
	io := newScene()
	io.Write16(hw.RegDispCnt, hw.DisplayCnt{
		Bgs:           [hw.BgCount]bool{true, true},
		InsideWindows: [hw.WindowsCount - 1]bool{true},
	}.Pack())
	flags := [hw.WindowsCount]uint16{
		hw.Window0:       hw.WindowFlagBg0,
		hw.WindowOutside: hw.WindowFlagBg0 << 1,
	}
	winIn, winOut := hw.WindowsRegs(&flags)
	io.Write16(hw.RegWinIn, winIn)
	io.Write16(hw.RegWinOut, winOut)
	io.Write16(hw.RegWin0H, 0<<8|120)
	io.Write16(hw.RegWin0V, 40<<8|160)

	fb := render(New(), io)
	cases := []struct {
		x, y int
		want uint16
	}{
		{0, 40, red},
		{119, 159, red},
		{120, 40, green},
		{0, 39, green},
	}
	for _, c := range cases {
		if got := pixel(fb, c.x, c.y); got != rgb(c.want) {
			t.Fatalf("(%d, %d) = %v want %v", c.x, c.y, got, rgb(c.want))
		}
	}

	// end before start wraps around the screen edge
	if !insideWindow(200<<8|20, 230) || !insideWindow(200<<8|20, 10) || insideWindow(200<<8|20, 100) {
		t.Fatal("wrapped window range")
	}
}

func TestFrameBlending(t *testing.T) {
	io := newScene()
	io.Write16(hw.RegBldCnt, hw.BldCnt{Top: 1 << 1, Mode: hw.BlendingTransparency, Bottom: 1 << 0}.Pack())
	io.Write16(hw.RegBldAlpha, 8|8<<8)
	r := New()
	fb := render(r, io)
	if got, want := pixel(fb, 5, 5), rgb(hw.BGR555(15, 15, 0)); got != want {
		t.Fatalf("transparency = %v want %v", got, want)
	}

	// the bottom layer has to be directly below the top one
	io.Write16(hw.RegBldCnt, hw.BldCnt{Top: 1 << 1, Mode: hw.BlendingTransparency, Bottom: 1 << 5}.Pack())
	fb = render(r, io)
	if got := pixel(fb, 5, 5); got != rgb(green) {
		t.Fatalf("blended with a layer not in the bottom set: %v", got)
	}

	io.Write16(hw.RegBldCnt, hw.BldCnt{Top: 1 << 1, Mode: hw.BlendingFadeToBlack}.Pack())
	io.Write16(hw.RegBldY, 16)
	fb = render(r, io)
	if got := pixel(fb, 5, 5); got != [3]uint8{} {
		t.Fatalf("fade to black = %v", got)
	}

	io.Write16(hw.RegBldCnt, hw.BldCnt{Top: 1 << 1, Mode: hw.BlendingFadeToWhite}.Pack())
	io.Write16(hw.RegBldY, 8)
	fb = render(r, io)
	if got, want := pixel(fb, 5, 5), rgb(hw.BGR555(15, 31, 15)); got != want {
		t.Fatalf("fade to white = %v want %v", got, want)
	}
}

func TestGreenSwap(t *testing.T) {
	var line [hw.DisplayWidth]uint16
	line[0] = hw.BGR555(1, 2, 3)
	line[1] = hw.BGR555(4, 5, 6)
	greenSwap(&line)
	if line[0] != hw.BGR555(1, 5, 3) || line[1] != hw.BGR555(4, 2, 6) {
		t.Fatalf("swapped = %04x %04x", line[0], line[1])
	}

	io := newScene()
	io.Write16(hw.RegGreenSwap, 1)
	fb := render(New(), io)
	if got := pixel(fb, 0, 0); got != rgb(green) {
		t.Fatalf("uniform pixels changed by green swap: %v", got)
	}
}

// newAffineScene draws tile row ty of a 16x16 affine map with colour ty+1.
func newAffineScene() *hw.IO {
	io := hw.NewIO()
	vram := io.VRAM()
	for k := 1; k <= 16; k++ {
		for i := 0; i < tileSize8BPP; i++ {
			vram[k*tileSize8BPP+i] = byte(k)
		}
		io.SetColor(k, hw.BGR555(k, 0, 0))
	}
	for ty := 0; ty < 16; ty++ {
		for tx := 0; tx < 16; tx++ {
			vram[31*sbbSize+ty*16+tx] = byte(ty + 1)
		}
	}
	io.Write16(hw.RegBg0Cnt+4, hw.BgCnt{MapSBB: 31, Wrap: true}.Pack())
	io.Write16(hw.RegBg2PA, 256)
	io.Write16(hw.RegBg2PA+6, 256)
	io.Write16(hw.RegDispCnt, hw.DisplayCnt{Mode: 2, Bgs: [hw.BgCount]bool{false, false, true}}.Pack())
	return io
}

func TestAffineReferenceAdvancesPerLine(t *testing.T) {
	io := newAffineScene()
	static := render(New(), io)
	if got := pixel(static, 0, 8); got != rgb(hw.BGR555(2, 0, 0)) {
		t.Fatalf("line 8 = %v", got)
	}

	// writing the stepped reference every line gives the same picture
	r := New()
	r.SetHBlank(func(line int, regs *LineRegs) {
		regs.SetReference(2, 0, int32(line*256))
	})
	if hooked := render(r, io); !bytes.Equal(static, hooked) {
		t.Fatal("per line reference writes changed the frame")
	}

	// repeating each reference doubles every line
	r.SetHBlank(func(line int, regs *LineRegs) {
		regs.SetReference(2, 0, int32(line/2*256))
	})
	fb := render(r, io)
	if got := pixel(fb, 0, 16); got != rgb(hw.BGR555(2, 0, 0)) {
		t.Fatalf("stretched line 16 = %v", got)
	}
	if got := pixel(fb, 0, 15); got != rgb(hw.BGR555(1, 0, 0)) {
		t.Fatalf("stretched line 15 = %v", got)
	}
}

func TestHBlankHookScrollsRegularLayer(t *testing.T) {
	io := newScene()
	// column 0 of slot 1 transparent
	for row := 0; row < 32; row++ {
		io.WriteVRAM16(31*sbbSize+row*64, 0)
	}
	r := New()
	r.SetHBlank(func(line int, regs *LineRegs) {
		regs.Bgs[1].HOfs = uint16(line)
	})
	fb := render(r, io)
	if got := pixel(fb, 0, 0); got != rgb(red) {
		t.Fatalf("line 0 = %v", got)
	}
	if got := pixel(fb, 0, 8); got != rgb(green) {
		t.Fatalf("line 8 = %v", got)
	}
	if regs := r.LineRegs(100); regs.Bgs[1].HOfs != 100 {
		t.Fatalf("line 100 snapshot:\n%s", spew.Sdump(regs))
	}
}

func TestMosaicStretchesRegularLayer(t *testing.T) {
	io := newScene()
	io.Write16(hw.RegDispCnt, hw.DisplayCnt{Bgs: [hw.BgCount]bool{false, true}}.Pack())
	// only cell (1, 0) of slot 1 is drawn
	for cell := 0; cell < 32*32; cell++ {
		io.WriteVRAM16(31*sbbSize+cell*2, 0)
	}
	io.WriteVRAM16(31*sbbSize+2, 0x2001)
	io.Write16(hw.RegBg0Cnt+2, hw.BgCnt{MapSBB: 31, Mosaic: true}.Pack())
	io.Write16(hw.RegMosaic, hw.Mosaic(15, 15, 0, 0))

	fb := render(New(), io)
	// 16 pixel blocks sample x = 0 and y = 0
	if got := pixel(fb, 8, 0); got != rgb(blue) {
		t.Fatalf("mosaic block not stretched: %v", got)
	}
	io.Write16(hw.RegMosaic, 0)
	fb = render(New(), io)
	if got := pixel(fb, 8, 0); got != rgb(green) {
		t.Fatalf("cell (1, 0) = %v", got)
	}
}
