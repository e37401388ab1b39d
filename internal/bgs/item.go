package bgs

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/affine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

// ID identifies a layer inside its Manager. IDs are pool indexes and are
// reused after a layer is destroyed.
type ID int

// BigMapState is the big map updater state of a layer.
type BigMapState uint8

const (
	BigMapIdle BigMapState = iota
	BigMapDirty
	BigMapFullResync
	BigMapIncrementalPatch
)

func (s BigMapState) String() string {
	switch s {
	case BigMapIdle:
		return "idle"
	case BigMapDirty:
		return "dirty"
	case BigMapFullResync:
		return "full-resync"
	case BigMapIncrementalPatch:
		return "incremental-patch"
	}
	return "unknown"
}

type item struct {
	id     ID
	used   bool
	usages int

	position fixed.Point
	priority int
	zOrder   int
	isAffine bool

	regularMap *vram.RegularMap
	affineMap  *vram.AffineMap
	camera     *camera.Camera
	mat        affine.BgMatAttributes

	cnt        hw.BgCnt
	handle     hw.BgHandle
	hwPosition fixed.IntPoint
	halfDims   fixed.Size // pixels

	big              bool
	bigState         BigMapState
	lastBigSync      BigMapState
	commitBigMap     bool
	fullCommitBigMap bool
	oldBigX, oldBigY int

	handlesIndex   int
	visible        bool
	windows        [hw.WindowsCount]bool
	blendingTop    bool
	blendingBottom bool
	greenSwap      bool
	wrapping       bool
}

// sortKey orders the layer list: priority, then z order, then affine layers
// before regular ones.
type sortKey struct {
	priority int
	zOrder   int
	affine   int
}

func (k sortKey) less(o sortKey) bool {
	if k.priority != o.priority {
		return k.priority < o.priority
	}
	if k.zOrder != o.zOrder {
		return k.zOrder < o.zOrder
	}
	return k.affine < o.affine
}

func (it *item) key() sortKey {
	k := sortKey{priority: it.priority, zOrder: it.zOrder}
	if it.isAffine {
		k.affine = 1
	}
	return k
}

func (it *item) initRegular(b *RegularBuilder) {
	it.position = b.Position
	it.priority = b.Priority
	it.zOrder = b.ZOrder
	it.isAffine = false
	it.camera = b.Camera
	it.cnt = hw.BgCnt{Priority: b.Priority, Mosaic: b.Mosaic}
	it.blendingTop = b.BlendingTop
	it.blendingBottom = b.BlendingBottom
	it.greenSwap = b.GreenSwap
	it.visible = b.Visible
	it.initCommon()
	it.setRegularMap(b.Map)
}

func (it *item) initAffine(b *AffineBuilder) {
	it.position = b.Position
	it.priority = b.Priority
	it.zOrder = b.ZOrder
	it.isAffine = true
	it.camera = b.Camera
	it.wrapping = b.Wrapping
	it.cnt = hw.BgCnt{Priority: b.Priority, Mosaic: b.Mosaic}
	it.blendingTop = b.BlendingTop
	it.blendingBottom = b.BlendingBottom
	it.greenSwap = b.GreenSwap
	it.visible = b.Visible
	it.initCommon()
	it.mat = affine.NewBgMatAttributes(fixed.Point{}, fixed.Point{}, b.Pivot, b.Mat)
	it.setAffineMap(b.Map)
}

func (it *item) initCommon() {
	it.usages = 1
	it.handlesIndex = -1
	it.bigState = BigMapIdle
	it.lastBigSync = BigMapIdle
	it.oldBigX, it.oldBigY = 0, 0
	for w := range it.windows {
		it.windows[w] = true
	}
}

func (it *item) dimensions() fixed.Size {
	if it.isAffine {
		return it.affineMap.Dimensions()
	}
	return it.regularMap.Dimensions()
}

func (it *item) mapSBB() int {
	if it.isAffine {
		return it.affineMap.SBB
	}
	return it.regularMap.SBB
}

func (it *item) mapMustCommit() bool {
	if it.isAffine {
		return it.affineMap.MustCommit()
	}
	return it.regularMap.MustCommit()
}

func (it *item) setRegularMap(m *vram.RegularMap) {
	it.regularMap = m
	it.cnt.TilesCBB = m.Tiles.CBB()
	it.cnt.MapSBB = m.SBB
	it.cnt.BPP8 = m.BPP8()
	size, fits := hw.RegularSizeCode(m.Width, m.Height)
	it.cnt.Size = size
	it.big = !fits
	it.halfDims = fixed.Size{Width: m.Width * 4, Height: m.Height * 4}
	it.handle.Cnt = it.cnt.Pack()
	it.updateHWPosition()
	it.markBigMap(true)
}

func (it *item) setAffineMap(m *vram.AffineMap) {
	it.affineMap = m
	it.cnt.TilesCBB = m.Tiles.CBB()
	it.cnt.MapSBB = m.SBB
	it.cnt.BPP8 = false
	size, fits := hw.AffineSizeCode(m.Width, m.Height)
	it.big = !fits
	if it.big {
		// the 32x32 window wraps around the scroll block
		size, _ = hw.AffineSizeCode(32, 32)
	}
	it.cnt.Size = size
	it.cnt.Wrap = it.wrapping || it.big
	it.halfDims = fixed.Size{Width: m.Width * 4, Height: m.Height * 4}
	it.handle.Cnt = it.cnt.Pack()
	it.mat.SetHalfDimensions(fixed.Point{X: fixed.FromInt(it.halfDims.Width), Y: fixed.FromInt(it.halfDims.Height)})
	it.updateHWPosition()
	it.markBigMap(true)
}

func (it *item) repackCnt() { it.handle.Cnt = it.cnt.Pack() }

// markBigMap flags a big map layer for the next CommitBigMaps.
func (it *item) markBigMap(full bool) {
	if !it.big {
		it.commitBigMap = false
		it.fullCommitBigMap = false
		it.bigState = BigMapIdle
		return
	}
	it.commitBigMap = true
	if full {
		it.fullCommitBigMap = true
	}
	it.bigState = BigMapDirty
}

// realPosition is the integer position relative to the camera.
func (it *item) realPosition() fixed.IntPoint {
	p := it.position.Floor()
	if it.camera != nil {
		c := it.camera.Position().Floor()
		p.X -= c.X
		p.Y -= c.Y
	}
	return p
}

// updateHWPosition recomputes the scroll or reference point registers.
func (it *item) updateHWPosition() {
	rp := it.realPosition()
	if it.isAffine {
		before := it.mat.Registers()
		it.mat.SetPosition(fixed.Point{X: fixed.FromInt(rp.X), Y: fixed.FromInt(rp.Y)})
		it.syncAffineRegisters(before)
		return
	}
	hwX := -rp.X - hw.DisplayWidth/2 + it.halfDims.Width
	hwY := -rp.Y - hw.DisplayHeight/2 + it.halfDims.Height
	it.hwPosition = fixed.IntPoint{X: hwX, Y: hwY}
	it.handle.SetHOfs(hwX)
	it.handle.SetVOfs(hwY)
	if it.big {
		maxX := it.halfDims.Width*2 - hw.DisplayWidth
		maxY := it.halfDims.Height*2 - hw.DisplayHeight
		assert.Check(hwX >= 0 && hwX < maxX, "Regular BGs with big maps don't allow horizontal wrapping: %d - %d", hwX, maxX)
		assert.Check(hwY >= 0 && hwY < maxY, "Regular BGs with big maps don't allow vertical wrapping: %d - %d", hwY, maxY)
		it.markBigMap(false)
	}
}

// syncAffineRegisters copies the matrix registers into the handle and
// reports whether they differ from before.
func (it *item) syncAffineRegisters(before hw.AffineRegs) bool {
	regs := it.mat.Registers()
	it.handle.Affine = regs
	it.hwPosition = fixed.IntPoint{X: int(regs.DX >> 8), Y: int(regs.DY >> 8)}
	if regs == before {
		return false
	}
	if it.big {
		it.markBigMap(false)
	}
	return true
}

// affineBlock returns the top-left tile of the 32x32 window that keeps the
// texture around the screen centre resident.
func (it *item) affineBlock() (int, int) {
	r := &it.handle.Affine
	cx := (int(r.DX) + int(r.PA)*hw.DisplayWidth/2 + int(r.PB)*hw.DisplayHeight/2) >> 8
	cy := (int(r.DY) + int(r.PC)*hw.DisplayWidth/2 + int(r.PD)*hw.DisplayHeight/2) >> 8
	m := it.affineMap
	bx := fixed.Clamp(floorDiv(cx-128, 8), 0, max(m.Width-32, 0))
	by := fixed.Clamp(floorDiv(cy-128, 8), 0, max(m.Height-32, 0))
	return bx, by
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
