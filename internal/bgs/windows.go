package bgs

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

func (m *Manager) ShowInWindow(id ID, w int) bool {
	assert.Check(w >= 0 && w < hw.WindowsCount, "Invalid window: %d", w)
	return m.get(id).windows[w]
}

// SetShowInWindow sets whether a layer is drawn inside window w.
func (m *Manager) SetShowInWindow(id ID, w int, show bool) {
	assert.Check(w >= 0 && w < hw.WindowsCount, "Invalid window: %d", w)
	it := m.get(id)
	if it.windows[w] == show {
		return
	}
	it.windows[w] = show
	if it.handlesIndex >= 0 {
		m.display.UpdateWindowsVisibleBgs()
	}
}

func (m *Manager) SetShowInAllWindows(id ID, show bool) {
	for w := 0; w < hw.WindowsCount; w++ {
		m.SetShowInWindow(id, w, show)
	}
}

// FillWindowsFlags sets the slot bit of every slot mapped layer in the
// windows that show it.
func (m *Manager) FillWindowsFlags(flags *[hw.WindowsCount]uint16) {
	for _, it := range m.list {
		idx := it.handlesIndex
		if idx < 0 {
			continue
		}
		for w, show := range it.windows {
			if show {
				flags[w] |= hw.WindowFlagBg0 << idx
			}
		}
	}
}
