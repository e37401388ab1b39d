// Package bgs is the background layer compositor. It owns a fixed pool of
// layers, keeps them sorted in draw order, maps the visible ones onto the
// hardware background slots and commits their register images once per
// frame. Layers with big maps get their VRAM window patched as they scroll.
//
// All methods must be called from a single goroutine. Within a frame the
// order is: mutations, Update, Commit, CommitBigMaps.
package bgs

import (
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/display"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

// Manager is the compositor context.
type Manager struct {
	cfg     Config
	log     logrus.FieldLogger
	io      *hw.IO
	vram    *vram.Manager
	display *display.Manager
	copier  hw.Copier

	items   []item
	free    []ID
	list    []*item // sorted draw order, back to front
	handles [hw.BgCount]hw.BgHandle
	state   frameState
}

// New creates a compositor writing into io and wires it as the window flag
// filler of disp and as the relocation listener of vm.
func New(cfg Config, io *hw.IO, vm *vram.Manager, disp *display.Manager, log logrus.FieldLogger) *Manager {
	assert.Check(cfg.MaxItems > 0, "Invalid max items: %d", cfg.MaxItems)
	if cfg.BigMapPatchLimit < 1 {
		cfg.BigMapPatchLimit = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	m := &Manager{
		cfg:     cfg,
		log:     log.WithField("component", "bgs"),
		io:      io,
		vram:    vm,
		display: disp,
		items:   make([]item, cfg.MaxItems),
		free:    make([]ID, 0, cfg.MaxItems),
		list:    make([]*item, 0, cfg.MaxItems),
	}
	if cfg.DMA {
		m.copier = &hw.DMA{}
	} else {
		m.copier = hw.WordCopier{}
	}
	for i := cfg.MaxItems - 1; i >= 0; i-- {
		m.items[i].id = ID(i)
		m.free = append(m.free, ID(i))
	}
	disp.SetFiller(m)
	vm.SetListener(m)
	return m
}

// Copier returns the copier used by Commit.
func (m *Manager) Copier() hw.Copier { return m.copier }

func (m *Manager) UsedCount() int { return len(m.list) }

func (m *Manager) AvailableCount() int { return len(m.free) }

func (m *Manager) get(id ID) *item {
	assert.Check(id >= 0 && int(id) < len(m.items) && m.items[id].used, "Invalid BG id: %d", id)
	return &m.items[id]
}

func (m *Manager) alloc() *item {
	if len(m.free) == 0 {
		return nil
	}
	id := m.free[len(m.free)-1]
	m.free = m.free[:len(m.free)-1]
	it := &m.items[id]
	*it = item{id: id, used: true}
	return it
}

func (m *Manager) release(it *item) {
	id := it.id
	*it = item{id: id}
	m.free = append(m.free, id)
}

// CreateRegular creates a regular layer. A full pool or an invalid builder is fatal.
func (m *Manager) CreateRegular(b RegularBuilder) *RegularBG {
	bg := m.CreateRegularOptional(b)
	assert.Check(bg != nil, "No more BG items available")
	return bg
}

// CreateRegularOptional is CreateRegular returning nil when the pool is full.
func (m *Manager) CreateRegularOptional(b RegularBuilder) *RegularBG {
	if err := b.Validate(); err != nil {
		assert.Fail("Invalid regular BG builder: %v", err)
	}
	it := m.alloc()
	if it == nil {
		return nil
	}
	it.initRegular(&b)
	m.insert(it)
	m.checkBigMaps(it)
	if it.visible {
		m.state.requestRebuild()
	}
	m.log.WithFields(logrus.Fields{"id": it.id, "priority": it.priority, "z": it.zOrder, "big": it.big}).Debug("regular BG created")
	return &RegularBG{bg{m: m, id: it.id}}
}

// CreateAffine creates an affine layer. A full pool or an invalid builder is fatal.
func (m *Manager) CreateAffine(b AffineBuilder) *AffineBG {
	bg := m.CreateAffineOptional(b)
	assert.Check(bg != nil, "No more BG items available")
	return bg
}

// CreateAffineOptional is CreateAffine returning nil when the pool is full.
func (m *Manager) CreateAffineOptional(b AffineBuilder) *AffineBG {
	if err := b.Validate(); err != nil {
		assert.Fail("Invalid affine BG builder: %v", err)
	}
	it := m.alloc()
	if it == nil {
		return nil
	}
	it.initAffine(&b)
	m.insert(it)
	m.checkBigMaps(it)
	if it.visible {
		m.state.requestRebuild()
	}
	m.log.WithFields(logrus.Fields{"id": it.id, "priority": it.priority, "z": it.zOrder, "big": it.big}).Debug("affine BG created")
	return &AffineBG{bg{m: m, id: it.id}}
}

// checkBigMaps asserts that no other layer displays the big map of it.
func (m *Manager) checkBigMaps(it *item) {
	if !it.big {
		return
	}
	for _, o := range m.list {
		if o == it || !o.big || o.isAffine != it.isAffine {
			continue
		}
		same := (it.isAffine && o.affineMap == it.affineMap) || (!it.isAffine && o.regularMap == it.regularMap)
		assert.Check(!same, "Two or more BGs have the same big map")
	}
}

func (m *Manager) IncreaseUsages(id ID) {
	m.get(id).usages++
}

// DecreaseUsages releases one reference and destroys the layer when it was
// the last one.
func (m *Manager) DecreaseUsages(id ID) {
	it := m.get(id)
	it.usages--
	if it.usages > 0 {
		return
	}
	if idx := it.handlesIndex; idx >= 0 {
		last := len(m.list) > 0 && m.list[len(m.list)-1] == it
		if last && !it.isAffine {
			// the front-most regular slot can be switched off without
			// moving any other layer
			m.display.SetBgEnabled(idx, false)
			m.display.UpdateWindowsVisibleBgs()
		} else {
			m.state.requestRebuild()
		}
	}
	m.remove(it)
	if it.handlesIndex >= 0 && it.greenSwap {
		m.display.SetGreenSwapEnabled(m.anyGreenSwap())
	}
	m.log.WithField("id", id).Debug("BG destroyed")
	m.release(it)
}

// Usages returns the reference count of a layer.
func (m *Manager) Usages(id ID) int { return m.get(id).usages }

// updateItem copies the register image of a slot-mapped layer into the
// staging buffer.
func (m *Manager) updateItem(it *item) {
	if idx := it.handlesIndex; idx >= 0 {
		m.handles[idx] = it.handle
		m.state.requestCommit()
	}
}

func (m *Manager) Position(id ID) fixed.Point { return m.get(id).position }

// SetPosition moves a layer. The registers are only recomputed when the
// integer position changes.
func (m *Manager) SetPosition(id ID, p fixed.Point) {
	it := m.get(id)
	old := it.position.Floor()
	it.position = p
	if p.Floor() != old {
		it.updateHWPosition()
		m.updateItem(it)
	}
}

func (m *Manager) SetX(id ID, x fixed.Fixed) {
	m.SetPosition(id, fixed.Point{X: x, Y: m.get(id).position.Y})
}

func (m *Manager) SetY(id ID, y fixed.Fixed) {
	m.SetPosition(id, fixed.Point{X: m.get(id).position.X, Y: y})
}

func (m *Manager) Visible(id ID) bool { return m.get(id).visible }

func (m *Manager) SetVisible(id ID, visible bool) {
	it := m.get(id)
	if it.visible == visible {
		return
	}
	it.visible = visible
	if visible {
		it.markBigMap(false)
	}
	m.state.requestRebuild()
}

func (m *Manager) Mosaic(id ID) bool { return m.get(id).cnt.Mosaic }

func (m *Manager) SetMosaic(id ID, enabled bool) {
	it := m.get(id)
	it.cnt.Mosaic = enabled
	it.repackCnt()
	m.updateItem(it)
}

func (m *Manager) BlendingTop(id ID) bool    { return m.get(id).blendingTop }
func (m *Manager) BlendingBottom(id ID) bool { return m.get(id).blendingBottom }

// SetBlending sets the top and bottom blending layer membership.
func (m *Manager) SetBlending(id ID, top, bottom bool) {
	it := m.get(id)
	it.blendingTop, it.blendingBottom = top, bottom
	if idx := it.handlesIndex; idx >= 0 {
		m.display.SetBlendingBgEnabled(idx, top, bottom)
	}
}

func (m *Manager) GreenSwap(id ID) bool { return m.get(id).greenSwap }

func (m *Manager) SetGreenSwap(id ID, enabled bool) {
	it := m.get(id)
	if it.greenSwap == enabled {
		return
	}
	it.greenSwap = enabled
	if it.handlesIndex >= 0 {
		m.display.SetGreenSwapEnabled(m.anyGreenSwap())
	}
}

func (m *Manager) anyGreenSwap() bool {
	for _, it := range m.list {
		if it.handlesIndex >= 0 && it.greenSwap {
			return true
		}
	}
	return false
}

// SetRegularMap replaces the map of a regular layer.
func (m *Manager) SetRegularMap(id ID, rm *vram.RegularMap) {
	assert.Check(rm != nil, "Map is nil")
	it := m.get(id)
	assert.Check(!it.isAffine, "BG %d is not regular", id)
	if it.regularMap == rm {
		return
	}
	it.setRegularMap(rm)
	m.checkBigMaps(it)
	m.updateItem(it)
}

func (m *Manager) RegularMap(id ID) *vram.RegularMap { return m.get(id).regularMap }

// SetAffineMap replaces the map of an affine layer.
func (m *Manager) SetAffineMap(id ID, am *vram.AffineMap) {
	assert.Check(am != nil, "Map is nil")
	it := m.get(id)
	assert.Check(it.isAffine, "BG %d is not affine", id)
	if it.affineMap == am {
		return
	}
	it.setAffineMap(am)
	m.checkBigMaps(it)
	m.updateItem(it)
}

func (m *Manager) AffineMap(id ID) *vram.AffineMap { return m.get(id).affineMap }

// Wrapping reports whether an affine layer repeats its map.
func (m *Manager) Wrapping(id ID) bool { return m.get(id).cnt.Wrap }

func (m *Manager) SetWrapping(id ID, wrapping bool) {
	it := m.get(id)
	assert.Check(it.isAffine, "BG %d is not affine", id)
	it.wrapping = wrapping
	it.cnt.Wrap = wrapping || it.big
	it.repackCnt()
	m.updateItem(it)
}

// UpdateMapTilesCBB follows a map whose tiles moved to another character block.
func (m *Manager) UpdateMapTilesCBB(mapSBB, cbb int) {
	for _, it := range m.list {
		if it.mapSBB() == mapSBB {
			it.cnt.TilesCBB = cbb
			it.repackCnt()
			m.updateItem(it)
		}
	}
}

// UpdateMapPaletteBPP follows a map whose palette changed colour depth.
func (m *Manager) UpdateMapPaletteBPP(mapSBB int, bpp8 bool) {
	for _, it := range m.list {
		if it.mapSBB() == mapSBB && !it.isAffine {
			it.cnt.BPP8 = bpp8
			it.repackCnt()
			m.updateItem(it)
		}
	}
}

// Reload forces the staging buffer to be committed on the next Commit.
func (m *Manager) Reload() { m.state.requestCommit() }
