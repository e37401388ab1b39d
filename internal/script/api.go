package script

import (
	"math"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

func (s *Script) register() {
	s.registerLayerTypes()
	L := s.L
	L.SetGlobal("regular_bg", L.NewFunction(s.newRegular))
	L.SetGlobal("affine_bg", L.NewFunction(s.newAffine))
	L.SetGlobal("camera", L.NewFunction(s.camera))
	L.SetGlobal("button", L.NewFunction(s.button))
	L.SetGlobal("log", L.NewFunction(s.logMessage))
	L.SetGlobal("hblank_wave", L.NewFunction(s.hblankWave))
	L.SetGlobal("hblank_clear", L.NewFunction(s.hblankClear))
	L.SetGlobal("display", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"blending_alpha":  s.blendingAlpha,
		"fade":            s.fade,
		"mosaic":          s.mosaic,
		"window":          s.window,
		"hide_window":     s.hideWindow,
		"window_blending": s.windowBlending,
	}))
	L.SetGlobal("SCREEN_WIDTH", lua.LNumber(hw.DisplayWidth))
	L.SetGlobal("SCREEN_HEIGHT", lua.LNumber(hw.DisplayHeight))
}

// camera() returns the pan camera position; camera(x, y) moves it.
func (s *Script) camera(L *lua.LState) int {
	c := s.core.Camera()
	if L.GetTop() >= 2 {
		c.SetPosition(checkPoint(L, 1))
		return 0
	}
	L.Push(lua.LNumber(c.X().Float()))
	L.Push(lua.LNumber(c.Y().Float()))
	return 2
}

func (s *Script) button(L *lua.LState) int {
	b := s.core.Buttons()
	var held bool
	switch name := strings.ToLower(L.CheckString(1)); name {
	case "up":
		held = b.Up
	case "down":
		held = b.Down
	case "left":
		held = b.Left
	case "right":
		held = b.Right
	case "a":
		held = b.A
	case "b":
		held = b.B
	default:
		L.ArgError(1, "unknown button "+name)
	}
	L.Push(lua.LBool(held))
	return 1
}

func (s *Script) logMessage(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	s.log.WithField("frame", s.core.Frame()).Info(strings.Join(parts, " "))
	return 0
}

func (s *Script) blendingAlpha(L *lua.LState) int {
	s.core.Display().SetBlendingTransparencyAlpha(checkFixed(L, 1))
	return 0
}

// fade(alpha) fades to black, fade(alpha, "white") to white, fade(false) stops.
func (s *Script) fade(L *lua.LState) int {
	d := s.core.Display()
	if v, ok := L.Get(1).(lua.LBool); ok && !bool(v) {
		d.SetBlendingFade(false, true, 0)
		return 0
	}
	d.SetBlendingFade(true, L.OptString(2, "black") != "white", checkFixed(L, 1))
	return 0
}

func (s *Script) mosaic(L *lua.LState) int {
	h := checkFixed(L, 1)
	v := h
	if L.GetTop() >= 2 {
		v = checkFixed(L, 2)
	}
	s.core.Display().SetBgsMosaicStretch(h, v)
	return 0
}

// window(w, left, top, right, bottom) enables rect window w with boundaries
// relative to the screen centre.
func (s *Script) window(L *lua.LState) int {
	w := L.CheckInt(1)
	d := s.core.Display()
	d.SetRectWindowBoundaries(w, checkPoint(L, 2), checkPoint(L, 4))
	d.SetInsideWindowEnabled(w, true)
	return 0
}

func (s *Script) hideWindow(L *lua.LState) int {
	s.core.Display().SetInsideWindowEnabled(L.CheckInt(1), false)
	return 0
}

func (s *Script) windowBlending(L *lua.LState) int {
	s.core.Display().SetShowBlendingInWindow(L.CheckInt(1), L.ToBool(2))
	return 0
}

// hblank_wave(bg, amplitude, period, phase) offsets every line of bg by a
// sine wave: horizontally for regular layers, around the current pivot for
// affine ones.
func (s *Script) hblankWave(L *lua.LState) int {
	r := checkLayer(L)
	amplitude := float64(L.CheckNumber(2))
	period := float64(L.OptNumber(3, 32))
	phase := float64(L.OptNumber(4, 0))
	if period <= 0 {
		L.ArgError(3, "period must be positive")
		return 0
	}
	table := make([]fixed.Fixed, hw.DisplayHeight)
	for line := range table {
		table[line] = fixed.FromFloat(amplitude * math.Sin(2*math.Pi*(float64(line)+phase)/period))
	}
	if r.affine != nil {
		pivot := r.affine.PivotPosition().X
		for line := range table {
			table[line] += pivot
		}
		s.core.SetHBlankPivotPositions(r.bg.ID(), true, table)
	} else {
		s.core.SetHBlankRegularPositions(r.bg.ID(), true, table)
	}
	return 0
}

func (s *Script) hblankClear(L *lua.LState) int {
	s.core.RemoveHBlankEffect(checkLayer(L).bg.ID())
	return 0
}
