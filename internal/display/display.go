// Package display keeps the global display state: video mode, enabled
// background slots, windows, blending, mosaic and green swap. Changes are
// staged and written to the IO block once per frame by Commit.
package display

import (
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
)

// WindowsFlagsFiller folds per layer window visibility into the window flag
// table (bits 0-3, one per hardware slot). The background manager implements it.
type WindowsFlagsFiller interface {
	FillWindowsFlags(flags *[hw.WindowsCount]uint16)
}

const rectWindows = 2

// Manager is the display state. The zero value is not usable; use New.
type Manager struct {
	log    logrus.FieldLogger
	filler WindowsFlagsFiller

	mode           int
	enabledBgs     [hw.BgCount]bool
	spritesVisible bool
	insideWindows  [hw.WindowsCount - 1]bool
	windowsFlags   [hw.WindowsCount]uint16
	rectBounds     [rectWindows * 2]fixed.Point // top-left, bottom-right per window
	rectCameras    [rectWindows]*camera.Camera

	blendingTopBgs      [hw.BgCount]bool
	blendingBottomBgs   [hw.BgCount]bool
	blendingFade        bool
	blendingFadeToBlack bool
	transparencyAlpha   fixed.Fixed
	fadeAlpha           fixed.Fixed

	bgsMosaicH, bgsMosaicV fixed.Fixed
	greenSwap              bool

	// staged register values
	dispCnt, winIn, winOut, mosaic, bldCnt, bldAlpha, bldY uint16
	winH, winV                                             [rectWindows]uint16

	commit              bool
	updateWindowsBgs    bool
	commitWindowsFlags  bool
	commitWindowsBounds bool
}

func New(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	m := &Manager{
		log:                 log.WithField("component", "display"),
		spritesVisible:      true,
		transparencyAlpha:   fixed.FromInt(1),
		blendingFadeToBlack: true,
	}
	for i := range m.windowsFlags {
		m.windowsFlags[i] = hw.WindowFlagSprites | hw.WindowFlagBlending
	}
	m.Reload()
	return m
}

// SetFiller wires the producer of the background window bits.
func (m *Manager) SetFiller(f WindowsFlagsFiller) { m.filler = f }

// Reload forces every register to be written on the next Commit.
func (m *Manager) Reload() {
	m.commit = true
	m.commitWindowsFlags = true
	m.commitWindowsBounds = true
}

func (m *Manager) Mode() int { return m.mode }

// SetMode selects the video mode: 0 (four regular slots), 1 (slots 0 and 1
// regular, slot 2 affine) or 2 (slots 2 and 3 affine).
func (m *Manager) SetMode(mode int) {
	assert.Check(mode >= 0 && mode <= 2, "Invalid mode: %d", mode)
	if m.mode != mode {
		m.log.WithField("mode", mode).Debug("video mode changed")
		m.mode = mode
		m.commit = true
	}
}

func (m *Manager) BgEnabled(bg int) bool { return m.enabledBgs[bg] }

func (m *Manager) SetBgEnabled(bg int, enabled bool) {
	if m.enabledBgs[bg] != enabled {
		m.enabledBgs[bg] = enabled
		m.commit = true
	}
}

func (m *Manager) SpritesVisible() bool { return m.spritesVisible }

func (m *Manager) SetSpritesVisible(visible bool) {
	m.spritesVisible = visible
	m.commit = true
}

func (m *Manager) BlendingTopBg(bg int) bool    { return m.blendingTopBgs[bg] }
func (m *Manager) BlendingBottomBg(bg int) bool { return m.blendingBottomBgs[bg] }

// SetBlendingBgEnabled sets the top and bottom blending membership of a slot.
func (m *Manager) SetBlendingBgEnabled(bg int, top, bottom bool) {
	if m.blendingTopBgs[bg] != top || m.blendingBottomBgs[bg] != bottom {
		m.blendingTopBgs[bg] = top
		m.blendingBottomBgs[bg] = bottom
		m.commit = true
	}
}

// SetBlendingTransparencyAlpha sets the weight of the top layers in [0..1].
func (m *Manager) SetBlendingTransparencyAlpha(alpha fixed.Fixed) {
	assert.Check(alpha >= 0 && alpha <= fixed.FromInt(1), "Invalid transparency alpha: %s", alpha)
	m.transparencyAlpha = alpha
	m.commit = true
}

// SetBlendingFade switches blending to a fade to black or white with the given intensity.
func (m *Manager) SetBlendingFade(enabled, toBlack bool, alpha fixed.Fixed) {
	assert.Check(alpha >= 0 && alpha <= fixed.FromInt(1), "Invalid fade alpha: %s", alpha)
	m.blendingFade = enabled
	m.blendingFadeToBlack = toBlack
	m.fadeAlpha = alpha
	m.commit = true
}

func (m *Manager) GreenSwapEnabled() bool { return m.greenSwap }

func (m *Manager) SetGreenSwapEnabled(enabled bool) {
	if m.greenSwap != enabled {
		m.greenSwap = enabled
		m.commit = true
	}
}

// SetBgsMosaicStretch sets the background mosaic stretch in [0..1].
func (m *Manager) SetBgsMosaicStretch(h, v fixed.Fixed) {
	assert.Check(h >= 0 && h <= fixed.FromInt(1), "Invalid horizontal stretch: %s", h)
	assert.Check(v >= 0 && v <= fixed.FromInt(1), "Invalid vertical stretch: %s", v)
	m.bgsMosaicH, m.bgsMosaicV = h, v
	m.commit = true
}

func (m *Manager) InsideWindowEnabled(w int) bool { return m.insideWindows[w] }

func (m *Manager) SetInsideWindowEnabled(w int, enabled bool) {
	assert.Check(w >= 0 && w < len(m.insideWindows), "Invalid inside window: %d", w)
	m.insideWindows[w] = enabled
	m.commit = true
}

// UpdateWindowsVisibleBgs requests the background window bits to be
// rebuilt on the next Update.
func (m *Manager) UpdateWindowsVisibleBgs() {
	m.updateWindowsBgs = true
	m.commit = true
}

func (m *Manager) ShowSpritesInWindow(w int) bool {
	return m.windowsFlags[w]&hw.WindowFlagSprites != 0
}

func (m *Manager) SetShowSpritesInWindow(w int, show bool) { m.setWindowFlag(w, hw.WindowFlagSprites, show) }

func (m *Manager) ShowBlendingInWindow(w int) bool {
	return m.windowsFlags[w]&hw.WindowFlagBlending != 0
}

func (m *Manager) SetShowBlendingInWindow(w int, show bool) { m.setWindowFlag(w, hw.WindowFlagBlending, show) }

func (m *Manager) setWindowFlag(w int, flag uint16, on bool) {
	assert.Check(w >= 0 && w < hw.WindowsCount, "Invalid window: %d", w)
	if on {
		m.windowsFlags[w] |= flag
	} else {
		m.windowsFlags[w] &^= flag
	}
	m.commitWindowsFlags = true
	m.commit = true
}

// WindowsFlags returns the current window flag table.
func (m *Manager) WindowsFlags() [hw.WindowsCount]uint16 { return m.windowsFlags }

// SetRectWindowBoundaries sets a rectangle window in screen centre relative
// coordinates.
func (m *Manager) SetRectWindowBoundaries(w int, topLeft, bottomRight fixed.Point) {
	assert.Check(w >= 0 && w < rectWindows, "Invalid rect window: %d", w)
	m.rectBounds[w*2] = topLeft
	m.rectBounds[w*2+1] = bottomRight
	m.commitWindowsBounds = true
	m.commit = true
}

func (m *Manager) SetRectWindowCamera(w int, c *camera.Camera) {
	assert.Check(w >= 0 && w < rectWindows, "Invalid rect window: %d", w)
	m.rectCameras[w] = c
	m.commitWindowsBounds = true
	m.commit = true
}

// UpdateCameras refreshes the rect windows attached to a camera.
func (m *Manager) UpdateCameras() {
	for _, c := range m.rectCameras {
		if c != nil && c.Moved() {
			m.commitWindowsBounds = true
			m.commit = true
		}
	}
}

// Update stages the register values. The window flags are refilled through
// the WindowsFlagsFiller only when requested.
func (m *Manager) Update() {
	if !m.commit {
		return
	}
	if m.updateWindowsBgs {
		for i := range m.windowsFlags {
			m.windowsFlags[i] &^= hw.WindowFlagBgs
		}
		if m.filler != nil {
			m.filler.FillWindowsFlags(&m.windowsFlags)
		}
		m.updateWindowsBgs = false
		m.commitWindowsFlags = true
	}
	m.dispCnt = hw.DisplayCnt{
		Mode:          m.mode,
		Bgs:           m.enabledBgs,
		Sprites:       m.spritesVisible,
		InsideWindows: m.insideWindows,
	}.Pack()
	m.winIn, m.winOut = hw.WindowsRegs(&m.windowsFlags)

	mode := hw.BlendingTransparency
	if m.blendingFade {
		mode = hw.BlendingFadeToWhite
		if m.blendingFadeToBlack {
			mode = hw.BlendingFadeToBlack
		}
	}
	m.bldCnt = hw.BldCnt{
		Top:    hw.BlendingLayers(m.blendingTopBgs, false),
		Mode:   mode,
		Bottom: hw.BlendingLayers(m.blendingBottomBgs, true) | 1<<5,
	}.Pack()
	eva := m.transparencyAlpha.Shift(4)
	m.bldAlpha = uint16(eva) | uint16(16-eva)<<8
	m.bldY = uint16(m.fadeAlpha.Shift(4))
	m.mosaic = hw.Mosaic(min(int(m.bgsMosaicH.Shift(4)), 15), min(int(m.bgsMosaicV.Shift(4)), 15), 0, 0)

	if m.commitWindowsBounds {
		for w := 0; w < rectWindows; w++ {
			tl := m.hwBoundary(w, m.rectBounds[w*2])
			br := m.hwBoundary(w, m.rectBounds[w*2+1])
			m.winH[w] = uint16(tl.X)<<8 | uint16(br.X)
			m.winV[w] = uint16(tl.Y)<<8 | uint16(br.Y)
		}
	}
}

func (m *Manager) hwBoundary(w int, p fixed.Point) fixed.IntPoint {
	x, y := p.X.RightShiftInteger(), p.Y.RightShiftInteger()
	if c := m.rectCameras[w]; c != nil {
		x -= c.X().RightShiftInteger()
		y -= c.Y().RightShiftInteger()
	}
	return fixed.IntPoint{
		X: fixed.Clamp(x+hw.DisplayWidth/2, 0, hw.DisplayWidth),
		Y: fixed.Clamp(y+hw.DisplayHeight/2, 0, hw.DisplayHeight),
	}
}

// Commit writes the staged registers to io.
func (m *Manager) Commit(io *hw.IO) {
	if !m.commit {
		return
	}
	m.commit = false
	io.Write16(hw.RegDispCnt, m.dispCnt)
	io.Write16(hw.RegMosaic, m.mosaic)
	io.Write16(hw.RegBldCnt, m.bldCnt)
	io.Write16(hw.RegBldAlpha, m.bldAlpha)
	io.Write16(hw.RegBldY, m.bldY)
	var gs uint16
	if m.greenSwap {
		gs = 1
	}
	io.Write16(hw.RegGreenSwap, gs)
	if m.commitWindowsFlags {
		io.Write16(hw.RegWinIn, m.winIn)
		io.Write16(hw.RegWinOut, m.winOut)
		m.commitWindowsFlags = false
	}
	if m.commitWindowsBounds {
		io.Write16(hw.RegWin0H, m.winH[0])
		io.Write16(hw.RegWin1H, m.winH[1])
		io.Write16(hw.RegWin0V, m.winV[0])
		io.Write16(hw.RegWin1V, m.winV[1])
		m.commitWindowsBounds = false
	}
}
