// Package assets generates the tiles, palettes and maps used by scenes,
// tests and the viewer. Everything is procedural so scenes need no files.
package assets

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

// 4bpp tile set: 0 transparent, 1..15 solid, then patterned tiles.
const (
	TileTransparent = 0
	TileOutline     = 16
	TileDiagonal    = 17
	TileDots        = 18
	tiles4Count     = 19

	tiles8Count = 16 // 0 transparent, 1..15 solid
)

type regularAsset struct {
	width, height int
	colors        func(i int) uint16
	cell          func(x, y int) uint16
}

type affineAsset struct {
	width, height int
	cell          func(x, y int) uint8
}

var regularAssets = map[string]regularAsset{
	"checker": {32, 32, ramp(hw.BGR555(6, 6, 10), hw.BGR555(24, 24, 30)), func(x, y int) uint16 {
		return uint16(1 + ((x/2+y/2)%2)*14)
	}},
	"stripes": {32, 32, ramp(hw.BGR555(31, 8, 0), hw.BGR555(8, 0, 20)), func(x, y int) uint16 {
		return uint16(1 + y%15)
	}},
	"grid": {64, 64, ramp(hw.BGR555(0, 20, 0), hw.BGR555(31, 31, 31)), func(x, y int) uint16 {
		if x%8 == 0 || y%8 == 0 {
			return 15
		}
		return TileOutline
	}},
	"clouds": {64, 32, ramp(hw.BGR555(31, 31, 31), hw.BGR555(20, 20, 26)), func(x, y int) uint16 {
		switch {
		case (x*7+y*13)%11 == 0:
			return TileDots
		case (x*5+y*3)%17 == 0:
			return TileDiagonal | vram.CellHFlip
		}
		return TileTransparent
	}},
	// big: larger than the largest hardware map
	"world": {128, 96, ramp(hw.BGR555(2, 10, 2), hw.BGR555(28, 26, 12)), func(x, y int) uint16 {
		if x%16 == 0 || y%16 == 0 {
			return TileOutline
		}
		return uint16(1 + (x/8*3+y/8*5)%14)
	}},
}

var affineAssets = map[string]affineAsset{
	"rotor": {16, 16, func(x, y int) uint8 {
		dx, dy := float64(x)-7.5, float64(y)-7.5
		d := math.Hypot(dx, dy)
		if d < 3 || d >= 7.5 {
			return 0
		}
		sector := int((math.Atan2(dy, dx) + math.Pi) / (2 * math.Pi) * 8)
		return uint8(1 + sector%8)
	}},
	"floor": {32, 32, func(x, y int) uint8 {
		return uint8(9 + (x/2+y/2)%2*4)
	}},
	// big: not square power of two
	"plane": {96, 96, func(x, y int) uint8 {
		if x%12 == 0 || y%12 == 0 {
			return 15
		}
		return uint8(1 + (x/6+y/6)%8)
	}},
}

// ramp returns 15 colours from a to b for indexes 1..15.
func ramp(a, b uint16) func(i int) uint16 {
	ar, ag, ab := int(a&0x1F), int(a>>5&0x1F), int(a>>10&0x1F)
	br, bg, bb := int(b&0x1F), int(b>>5&0x1F), int(b>>10&0x1F)
	return func(i int) uint16 {
		t := i - 1
		return hw.BGR555(ar+(br-ar)*t/14, ag+(bg-ag)*t/14, ab+(bb-ab)*t/14)
	}
}

// RegularNames returns the names of the regular map assets.
func RegularNames() []string { return names(regularAssets) }

func AffineNames() []string { return names(affineAssets) }

func names[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Library uploads assets on first use and hands out the same resources on
// later requests.
type Library struct {
	vm      *vram.Manager
	tiles4  *vram.Tiles
	tiles8  *vram.Tiles
	pal8    *vram.Palette
	regular map[string]*vram.RegularMap
	affine  map[string]*vram.AffineMap
}

func NewLibrary(vm *vram.Manager) *Library {
	return &Library{
		vm:      vm,
		regular: make(map[string]*vram.RegularMap),
		affine:  make(map[string]*vram.AffineMap),
	}
}

// Regular returns the regular map named name, uploading it if needed.
func (l *Library) Regular(name string) (*vram.RegularMap, error) {
	if rm, ok := l.regular[name]; ok {
		return rm, nil
	}
	a, ok := regularAssets[name]
	if !ok {
		return nil, errors.Errorf("unknown regular asset %q", name)
	}
	if l.tiles4 == nil {
		t, err := l.vm.NewTiles(Tiles4BPP(), false)
		if err != nil {
			return nil, errors.Wrap(err, "4bpp tiles")
		}
		l.tiles4 = t
	}
	colors := make([]uint16, 16)
	for i := 1; i < len(colors); i++ {
		colors[i] = a.colors(i)
	}
	pal, err := l.vm.NewPalette(colors, false)
	if err != nil {
		return nil, errors.Wrapf(err, "%s palette", name)
	}
	cells := make([]uint16, a.width*a.height)
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			cells[y*a.width+x] = a.cell(x, y)
		}
	}
	rm, err := l.vm.NewRegularMap(a.width, a.height, cells, l.tiles4, pal)
	if err != nil {
		l.vm.ReleasePalette(pal)
		return nil, errors.Wrapf(err, "%s map", name)
	}
	l.regular[name] = rm
	return rm, nil
}

// Affine returns the affine map named name, uploading it if needed. All
// affine assets share one 8bpp palette.
func (l *Library) Affine(name string) (*vram.AffineMap, error) {
	if am, ok := l.affine[name]; ok {
		return am, nil
	}
	a, ok := affineAssets[name]
	if !ok {
		return nil, errors.Errorf("unknown affine asset %q", name)
	}
	if l.tiles8 == nil {
		t, err := l.vm.NewTiles(Tiles8BPP(), true)
		if err != nil {
			return nil, errors.Wrap(err, "8bpp tiles")
		}
		l.tiles8 = t
	}
	if l.pal8 == nil {
		p, err := l.vm.NewPalette(Palette8BPP(), true)
		if err != nil {
			return nil, errors.Wrap(err, "8bpp palette")
		}
		l.pal8 = p
	}
	cells := make([]uint8, a.width*a.height)
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			cells[y*a.width+x] = a.cell(x, y)
		}
	}
	am, err := l.vm.NewAffineMap(a.width, a.height, cells, l.tiles8, l.pal8)
	if err != nil {
		return nil, errors.Wrapf(err, "%s map", name)
	}
	l.affine[name] = am
	return am, nil
}

// Tiles4BPP returns the shared 4bpp tile set.
func Tiles4BPP() []byte {
	data := make([]byte, tiles4Count*32)
	set := func(tile, x, y int, c byte) {
		i := tile*32 + y*4 + x/2
		if x&1 == 0 {
			data[i] = data[i]&0xF0 | c
		} else {
			data[i] = data[i]&0x0F | c<<4
		}
	}
	for tile := 1; tile < 16; tile++ {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				set(tile, x, y, byte(tile))
			}
		}
	}
	for i := 0; i < 8; i++ {
		set(TileOutline, i, 0, 15)
		set(TileOutline, i, 7, 15)
		set(TileOutline, 0, i, 15)
		set(TileOutline, 7, i, 15)
		set(TileDiagonal, i, i, 8)
	}
	for _, p := range [][2]int{{1, 1}, {5, 2}, {2, 5}, {6, 6}} {
		set(TileDots, p[0], p[1], 1)
	}
	return data
}

// Tiles8BPP returns the shared 8bpp tile set: solid tiles 1..15.
func Tiles8BPP() []byte {
	data := make([]byte, tiles8Count*64)
	for tile := 1; tile < tiles8Count; tile++ {
		for i := 0; i < 64; i++ {
			data[tile*64+i] = byte(tile)
		}
	}
	return data
}

// Palette8BPP returns the shared 8bpp palette. Colour 0 is the backdrop.
func Palette8BPP() []uint16 {
	colors := make([]uint16, 16)
	colors[0] = hw.BGR555(0, 0, 4)
	for i := 1; i < 16; i++ {
		h := float64(i-1) / 15
		r := 0.5 + 0.5*math.Cos(2*math.Pi*h)
		g := 0.5 + 0.5*math.Cos(2*math.Pi*(h-1.0/3))
		b := 0.5 + 0.5*math.Cos(2*math.Pi*(h-2.0/3))
		colors[i] = hw.BGR555(int(r*31), int(g*31), int(b*31))
	}
	return colors
}
