package bgs

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

func (m *Manager) Camera(id ID) *camera.Camera { return m.get(id).camera }

// SetCamera attaches a layer to c; nil detaches it.
func (m *Manager) SetCamera(id ID, c *camera.Camera) {
	it := m.get(id)
	if it.camera == c {
		return
	}
	it.camera = c
	it.updateHWPosition()
	m.updateItem(it)
}

func (m *Manager) RemoveCamera(id ID) { m.SetCamera(id, nil) }

// UpdateCameras recomputes the registers of the layers whose camera moved.
func (m *Manager) UpdateCameras() {
	for _, it := range m.list {
		if it.camera == nil || !it.camera.Moved() {
			continue
		}
		old := it.handle
		it.updateHWPosition()
		if it.handle != old {
			m.updateItem(it)
		}
	}
}

// HWPosition returns the scroll registers of a regular layer, or the
// integer part of the reference point of an affine one.
func (m *Manager) HWPosition(id ID) fixed.IntPoint { return m.get(id).hwPosition }

// Registers returns the register image of a layer, slot mapped or not.
func (m *Manager) Registers(id ID) hw.BgHandle { return m.get(id).handle }

// Dimensions returns the map size in tiles.
func (m *Manager) Dimensions(id ID) fixed.Size { return m.get(id).dimensions() }

func (m *Manager) IsAffine(id ID) bool { return m.get(id).isAffine }
