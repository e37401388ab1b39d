package bgs

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

// FrameState is the pending work of the compositor for the current frame.
type FrameState uint8

const (
	FrameClean FrameState = iota
	FrameCommitPending
	FrameRebuildPending
)

func (s FrameState) String() string {
	switch s {
	case FrameClean:
		return "clean"
	case FrameCommitPending:
		return "commit-pending"
	case FrameRebuildPending:
		return "rebuild-pending"
	}
	return "unknown"
}

type frameState struct {
	rebuild bool
	commit  bool
}

func (s *frameState) requestRebuild() { s.rebuild = true }
func (s *frameState) requestCommit()  { s.commit = true }

func (s *frameState) current() FrameState {
	switch {
	case s.rebuild:
		return FrameRebuildPending
	case s.commit:
		return FrameCommitPending
	}
	return FrameClean
}

func (m *Manager) FrameState() FrameState { return m.state.current() }

// slot layout per video mode, back to front
var (
	regularSlots = [3][]int{{3, 2, 1, 0}, {1, 0}, {}}
	affineSlots  = [3][]int{{}, {2}, {3, 2}}
)

// Update reassigns hardware slots to the visible layers when a rebuild was
// requested. Too many visible layers of a kind is fatal.
func (m *Manager) Update() {
	if !m.state.rebuild {
		return
	}
	m.state.rebuild = false
	m.state.commit = true

	affines := 0
	for _, it := range m.list {
		if it.visible && it.isAffine {
			affines++
		}
	}
	assert.Check(affines <= hw.AffineBgCount, "Too many affine BGs on screen: %d", affines)
	mode := affines

	var used [hw.BgCount]bool
	regular, aff := regularSlots[mode], affineSlots[mode]
	greenSwap := false
	for _, it := range m.list {
		it.handlesIndex = -1
		if !it.visible {
			continue
		}
		var slot int
		if it.isAffine {
			slot, aff = aff[0], aff[1:]
		} else {
			assert.Check(len(regular) > 0, "Too many BGs on screen")
			slot, regular = regular[0], regular[1:]
		}
		it.handlesIndex = slot
		used[slot] = true
		m.handles[slot] = it.handle
		m.display.SetBgEnabled(slot, true)
		m.display.SetBlendingBgEnabled(slot, it.blendingTop, it.blendingBottom)
		greenSwap = greenSwap || it.greenSwap
	}
	for slot, u := range used {
		if !u {
			m.handles[slot] = hw.BgHandle{}
			m.display.SetBgEnabled(slot, false)
			m.display.SetBlendingBgEnabled(slot, false, false)
		}
	}
	m.display.SetMode(mode)
	m.display.SetGreenSwapEnabled(greenSwap)
	m.display.UpdateWindowsVisibleBgs()
	m.log.WithField("mode", mode).Debug("BG handles rebuilt")
}

// Commit writes the staging buffer to the register block when it changed.
func (m *Manager) Commit() {
	if !m.state.commit {
		return
	}
	m.state.commit = false
	hw.CommitBgs(&m.handles, m.io, m.copier)
}

// Handles returns a copy of the staging buffer.
func (m *Manager) Handles() [hw.BgCount]hw.BgHandle { return m.handles }

// HWID returns the hardware slot of a layer, if it has one.
func (m *Manager) HWID(id ID) (int, bool) {
	idx := m.get(id).handlesIndex
	return idx, idx >= 0
}
