package render

import (
	"bufio"
	"hash/crc32"
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

// Image wraps a copy of a framebuffer as an image.
func Image(fb []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, hw.DisplayWidth, hw.DisplayHeight))
	copy(img.Pix, fb)
	return img
}

// Scale returns fb upscaled by an integer factor with nearest neighbour
// sampling.
func Scale(fb []byte, factor int) *image.RGBA {
	src := Image(fb)
	if factor <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, hw.DisplayWidth*factor, hw.DisplayHeight*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes fb, scaled by factor, to path.
func SavePNG(path string, fb []byte, factor int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create screenshot")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := png.Encode(w, Scale(fb, factor)); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrap(w.Flush(), "write screenshot")
}

// Checksum is the CRC32 of the framebuffer, used to compare frames.
func Checksum(fb []byte) uint32 { return crc32.ChecksumIEEE(fb) }
