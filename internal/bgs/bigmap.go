package bgs

import (
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
)

const (
	windowTiles = 32
	// last window row a 160 pixel screen can reach
	regularLastRow = 21
)

// CommitBigMaps patches the VRAM window of every layer with a big map. It
// must run after Commit so the window matches the registers just written.
func (m *Manager) CommitBigMaps() {
	for _, it := range m.list {
		if it.big {
			m.commitBigMap(it)
		}
	}
}

// bigBlock is the top-left tile of the VRAM window a big map layer needs.
func (it *item) bigBlock() (int, int) {
	if it.isAffine {
		return it.affineBlock()
	}
	return it.hwPosition.X / 8, it.hwPosition.Y / 8
}

func (m *Manager) commitBigMap(it *item) {
	oldX, oldY := it.oldBigX, it.oldBigY
	newX, newY := it.bigBlock()
	full := it.fullCommitBigMap || it.mapMustCommit()
	commit := full
	if !commit && it.commitBigMap && it.visible {
		commit = oldX != newX || oldY != newY
		if !commit {
			it.commitBigMap = false
			it.bigState = BigMapIdle
			return
		}
	}
	if !commit {
		if !it.commitBigMap {
			it.bigState = BigMapIdle
		}
		return
	}
	it.oldBigX, it.oldBigY = newX, newY
	it.commitBigMap = false
	it.fullCommitBigMap = false

	limit := m.cfg.BigMapPatchLimit
	if full || fixed.Abs(newX-oldX) > limit || fixed.Abs(newY-oldY) > limit {
		it.bigState = BigMapFullResync
		var n int
		if it.isAffine {
			n = m.vram.SetAffineMapPosition(it.affineMap, newX, newY)
		} else {
			n = m.vram.SetRegularMapPosition(it.regularMap, newX, newY)
		}
		m.log.WithFields(logrus.Fields{"id": it.id, "x": newX, "y": newY, "cells": n}).Debug("big map resynced")
	} else {
		it.bigState = BigMapIncrementalPatch
		m.patchBigMap(it, oldX, oldY, newX, newY)
	}
	it.lastBigSync = it.bigState
	it.bigState = BigMapIdle
}

// patchBigMap walks from the old block to the new one a tile at a time,
// writing only the column or row each step exposes.
func (m *Manager) patchBigMap(it *item, x, y, newX, newY int) {
	var col, row func(x, y int) int
	lastRow := regularLastRow
	if it.isAffine {
		am := it.affineMap
		col = func(x, y int) int { return m.vram.UpdateAffineMapCol(am, x, y) }
		row = func(x, y int) int { return m.vram.UpdateAffineMapRow(am, x, y) }
		lastRow = windowTiles - 1
	} else {
		rm := it.regularMap
		col = func(x, y int) int { return m.vram.UpdateRegularMapCol(rm, x, y) }
		row = func(x, y int) int { return m.vram.UpdateRegularMapRow(rm, x, y) }
	}
	for x < newX {
		x++
		col(x+windowTiles-1, y)
	}
	for x > newX {
		col(x-1, y)
		x--
	}
	for y < newY {
		y++
		row(x, y+lastRow)
	}
	for y > newY {
		row(x, y-1)
		y--
	}
}

// BigMapState returns the updater state of a layer.
func (m *Manager) BigMapState(id ID) BigMapState { return m.get(id).bigState }

// LastBigMapSync returns how the VRAM window of a layer was last refreshed:
// BigMapFullResync, BigMapIncrementalPatch or BigMapIdle when never.
func (m *Manager) LastBigMapSync(id ID) BigMapState { return m.get(id).lastBigSync }

// BigMap reports whether a layer displays a big map.
func (m *Manager) BigMap(id ID) bool { return m.get(id).big }
