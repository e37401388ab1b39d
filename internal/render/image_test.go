package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

func TestScaleAndSavePNG(t *testing.T) {
	fb := make([]byte, hw.DisplayWidth*hw.DisplayHeight*4)
	// one red pixel at (1, 0)
	fb[4], fb[7] = 0xFF, 0xFF

	img := Scale(fb, 3)
	if b := img.Bounds(); b.Dx() != hw.DisplayWidth*3 || b.Dy() != hw.DisplayHeight*3 {
		t.Fatalf("bounds = %v", b)
	}
	for _, p := range [][2]int{{3, 0}, {5, 2}} {
		if r, _, _, _ := img.At(p[0], p[1]).RGBA(); r>>8 != 0xFF {
			t.Fatalf("pixel %v not red", p)
		}
	}
	if r, _, _, _ := img.At(6, 0).RGBA(); r != 0 {
		t.Fatal("scaled pixel bled into its neighbour")
	}

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := SavePNG(path, fb, 2); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != hw.DisplayWidth*2 || cfg.Height != hw.DisplayHeight*2 {
		t.Fatalf("png is %dx%d", cfg.Width, cfg.Height)
	}
	if Checksum(fb) == Checksum(make([]byte, len(fb))) {
		t.Fatal("checksum ignores content")
	}
}
