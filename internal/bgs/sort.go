package bgs

import (
	"slices"
	"sort"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
)

// insert places it after every item whose sort key is not lower, so equal
// keys keep creation order and the newest is drawn in front.
func (m *Manager) insert(it *item) {
	k := it.key()
	i := sort.Search(len(m.list), func(i int) bool { return m.list[i].key().less(k) })
	m.list = slices.Insert(m.list, i, it)
}

func (m *Manager) remove(it *item) {
	i := m.index(it)
	m.list = slices.Delete(m.list, i, i+1)
}

func (m *Manager) index(it *item) int {
	i := slices.Index(m.list, it)
	assert.Check(i >= 0, "BG %d not found in the layer list", it.id)
	return i
}

func (m *Manager) reorder(it *item) {
	if it.visible {
		m.state.requestRebuild()
	}
}

func (m *Manager) Priority(id ID) int { return m.get(id).priority }

// SetPriority changes the hardware priority; 0 is drawn in front.
func (m *Manager) SetPriority(id ID, priority int) {
	assert.Check(priority >= MinPriority && priority <= MaxPriority,
		"Invalid priority: %d (valid range [%d..%d])", priority, MinPriority, MaxPriority)
	it := m.get(id)
	if it.priority == priority {
		return
	}
	m.remove(it)
	it.priority = priority
	it.cnt.Priority = priority
	it.repackCnt()
	m.insert(it)
	m.updateItem(it)
	m.reorder(it)
}

func (m *Manager) ZOrder(id ID) int { return m.get(id).zOrder }

// SetZOrder orders layers sharing a priority; lower values are drawn in front.
func (m *Manager) SetZOrder(id ID, zOrder int) {
	assert.Check(zOrder >= MinZOrder && zOrder <= MaxZOrder,
		"Invalid z order: %d (valid range [%d..%d])", zOrder, MinZOrder, MaxZOrder)
	it := m.get(id)
	if it.zOrder == zOrder {
		return
	}
	m.remove(it)
	it.zOrder = zOrder
	m.insert(it)
	m.reorder(it)
}

// Above reports whether a is drawn in front of b.
func (m *Manager) Above(a, b ID) bool {
	ia, ib := m.get(a), m.get(b)
	ka, kb := ia.key(), ib.key()
	if ka != kb {
		return ka.less(kb)
	}
	return m.index(ia) > m.index(ib)
}

// PutAbove moves a layer in front of every other layer with the same sort key.
func (m *Manager) PutAbove(id ID) {
	it := m.get(id)
	i := m.index(it)
	j := i
	for j+1 < len(m.list) && m.list[j+1].key() == it.key() {
		j++
	}
	if j == i {
		return
	}
	copy(m.list[i:j], m.list[i+1:j+1])
	m.list[j] = it
	m.reorder(it)
}

// PutBelow moves a layer behind every other layer with the same sort key.
func (m *Manager) PutBelow(id ID) {
	it := m.get(id)
	i := m.index(it)
	j := i
	for j > 0 && m.list[j-1].key() == it.key() {
		j--
	}
	if j == i {
		return
	}
	copy(m.list[j+1:i+1], m.list[j:i])
	m.list[j] = it
	m.reorder(it)
}

// Items returns the layer ids in draw order, back to front.
func (m *Manager) Items() []ID {
	ids := make([]ID, len(m.list))
	for i, it := range m.list {
		ids[i] = it.id
	}
	return ids
}
