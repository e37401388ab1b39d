package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
)

const (
	regularType = "regular_bg"
	affineType  = "affine_bg"
)

// layer is the part of the bgs handle API shared by regular and affine layers.
type layer interface {
	ID() bgs.ID
	Release()
	Position() fixed.Point
	SetPosition(p fixed.Point)
	Priority() int
	SetPriority(p int)
	ZOrder() int
	SetZOrder(z int)
	PutAbove()
	PutBelow()
	Visible() bool
	SetVisible(v bool)
	SetMosaic(v bool)
	SetBlending(top, bottom bool)
	SetGreenSwap(v bool)
	SetCamera(c *camera.Camera)
	RemoveCamera()
	SetShowInWindow(w int, show bool)
	HWID() (int, bool)
}

// layerRef is the userdata value. bg is nil once released.
type layerRef struct {
	bg     layer
	affine *bgs.AffineBG
}

func (r *layerRef) release() {
	if r.bg != nil {
		r.bg.Release()
		r.bg, r.affine = nil, nil
	}
}

func toFixed(n lua.LNumber) fixed.Fixed { return fixed.FromFloat(float64(n)) }

func checkFixed(L *lua.LState, n int) fixed.Fixed { return toFixed(L.CheckNumber(n)) }

func checkPoint(L *lua.LState, n int) fixed.Point {
	return fixed.Point{X: checkFixed(L, n), Y: checkFixed(L, n+1)}
}

func checkLayer(L *lua.LState) *layerRef {
	ud := L.CheckUserData(1)
	r, ok := ud.Value.(*layerRef)
	if !ok {
		L.ArgError(1, "layer expected")
		return nil
	}
	if r.bg == nil {
		L.RaiseError("layer already released")
		return nil
	}
	return r
}

func checkAffine(L *lua.LState) *bgs.AffineBG {
	r := checkLayer(L)
	if r.affine == nil {
		L.ArgError(1, "affine layer expected")
		return nil
	}
	return r.affine
}

// table field helpers; missing fields keep def
func fieldNumber(t *lua.LTable, key string, def lua.LNumber) lua.LNumber {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return n
	}
	return def
}

func fieldBool(t *lua.LTable, key string, def bool) bool {
	if b, ok := t.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

var layerMethods = map[string]lua.LGFunction{
	"position": func(L *lua.LState) int {
		p := checkLayer(L).bg.Position()
		L.Push(lua.LNumber(p.X.Float()))
		L.Push(lua.LNumber(p.Y.Float()))
		return 2
	},
	"set_position": func(L *lua.LState) int {
		checkLayer(L).bg.SetPosition(checkPoint(L, 2))
		return 0
	},
	"move": func(L *lua.LState) int {
		r := checkLayer(L)
		r.bg.SetPosition(r.bg.Position().Add(checkPoint(L, 2)))
		return 0
	},
	"priority": func(L *lua.LState) int {
		L.Push(lua.LNumber(checkLayer(L).bg.Priority()))
		return 1
	},
	"set_priority": func(L *lua.LState) int {
		checkLayer(L).bg.SetPriority(L.CheckInt(2))
		return 0
	},
	"z_order": func(L *lua.LState) int {
		L.Push(lua.LNumber(checkLayer(L).bg.ZOrder()))
		return 1
	},
	"set_z_order": func(L *lua.LState) int {
		checkLayer(L).bg.SetZOrder(L.CheckInt(2))
		return 0
	},
	"put_above": func(L *lua.LState) int {
		checkLayer(L).bg.PutAbove()
		return 0
	},
	"put_below": func(L *lua.LState) int {
		checkLayer(L).bg.PutBelow()
		return 0
	},
	"visible": func(L *lua.LState) int {
		L.Push(lua.LBool(checkLayer(L).bg.Visible()))
		return 1
	},
	"set_visible": func(L *lua.LState) int {
		checkLayer(L).bg.SetVisible(L.ToBool(2))
		return 0
	},
	"set_mosaic": func(L *lua.LState) int {
		checkLayer(L).bg.SetMosaic(L.ToBool(2))
		return 0
	},
	"set_blending": func(L *lua.LState) int {
		checkLayer(L).bg.SetBlending(L.ToBool(2), L.ToBool(3))
		return 0
	},
	"set_green_swap": func(L *lua.LState) int {
		checkLayer(L).bg.SetGreenSwap(L.ToBool(2))
		return 0
	},
	"show_in_window": func(L *lua.LState) int {
		checkLayer(L).bg.SetShowInWindow(L.CheckInt(2), L.ToBool(3))
		return 0
	},
	"hw_slot": func(L *lua.LState) int {
		slot, ok := checkLayer(L).bg.HWID()
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(slot))
		return 1
	},
	"release": func(L *lua.LState) int {
		checkLayer(L).release()
		return 0
	},
}

var affineMethods = map[string]lua.LGFunction{
	"rotation": func(L *lua.LState) int {
		L.Push(lua.LNumber(checkAffine(L).RotationAngle().Float()))
		return 1
	},
	"set_rotation": func(L *lua.LState) int {
		checkAffine(L).SetRotationAngleSafe(checkFixed(L, 2))
		return 0
	},
	"set_scale": func(L *lua.LState) int {
		h := checkFixed(L, 2)
		v := h
		if L.GetTop() >= 3 {
			v = checkFixed(L, 3)
		}
		checkAffine(L).SetScale(h, v)
		return 0
	},
	"set_shear": func(L *lua.LState) int {
		checkAffine(L).SetShear(checkFixed(L, 2), toFixed(L.OptNumber(3, 0)))
		return 0
	},
	"set_flip": func(L *lua.LState) int {
		bg := checkAffine(L)
		bg.SetHorizontalFlip(L.ToBool(2))
		bg.SetVerticalFlip(L.ToBool(3))
		return 0
	},
	"set_pivot": func(L *lua.LState) int {
		checkAffine(L).SetPivotPosition(checkPoint(L, 2))
		return 0
	},
	"set_wrapping": func(L *lua.LState) int {
		checkAffine(L).SetWrapping(L.ToBool(2))
		return 0
	},
}

func (s *Script) registerLayerTypes() {
	L := s.L
	mt := L.NewTypeMetatable(regularType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), layerMethods))

	mt = L.NewTypeMetatable(affineType)
	methods := L.SetFuncs(L.NewTable(), layerMethods)
	L.SetField(mt, "__index", L.SetFuncs(methods, affineMethods))
}

func (s *Script) pushLayer(ref *layerRef, typ string) {
	s.layers = append(s.layers, ref)
	ud := s.L.NewUserData()
	ud.Value = ref
	s.L.SetMetatable(ud, s.L.GetTypeMetatable(typ))
	s.L.Push(ud)
}

// newRegular implements regular_bg{map = "name", ...}.
func (s *Script) newRegular(L *lua.LState) int {
	t := L.CheckTable(1)
	name := lua.LVAsString(t.RawGetString("map"))
	rm, err := s.lib.Regular(name)
	if err != nil {
		L.RaiseError("regular_bg: %v", err)
		return 0
	}
	b := bgs.NewRegularBuilder(rm)
	b.Position = fixed.Point{X: toFixed(fieldNumber(t, "x", 0)), Y: toFixed(fieldNumber(t, "y", 0))}
	b.Priority = int(fieldNumber(t, "priority", lua.LNumber(b.Priority)))
	b.ZOrder = int(fieldNumber(t, "z_order", 0))
	b.Visible = fieldBool(t, "visible", b.Visible)
	b.Mosaic = fieldBool(t, "mosaic", false)
	b.BlendingTop = fieldBool(t, "blending_top", false)
	b.BlendingBottom = fieldBool(t, "blending_bottom", b.BlendingBottom)
	b.GreenSwap = fieldBool(t, "green_swap", false)
	if fieldBool(t, "camera", false) {
		b.Camera = s.core.Camera()
	}
	bg := s.core.Bgs().CreateRegularOptional(b)
	if bg == nil {
		L.RaiseError("regular_bg: no layers available")
		return 0
	}
	s.pushLayer(&layerRef{bg: bg}, regularType)
	return 1
}

// newAffine implements affine_bg{map = "name", ...}.
func (s *Script) newAffine(L *lua.LState) int {
	t := L.CheckTable(1)
	name := lua.LVAsString(t.RawGetString("map"))
	am, err := s.lib.Affine(name)
	if err != nil {
		L.RaiseError("affine_bg: %v", err)
		return 0
	}
	b := bgs.NewAffineBuilder(am)
	b.Position = fixed.Point{X: toFixed(fieldNumber(t, "x", 0)), Y: toFixed(fieldNumber(t, "y", 0))}
	b.Pivot = fixed.Point{X: toFixed(fieldNumber(t, "pivot_x", 0)), Y: toFixed(fieldNumber(t, "pivot_y", 0))}
	b.Priority = int(fieldNumber(t, "priority", lua.LNumber(b.Priority)))
	b.ZOrder = int(fieldNumber(t, "z_order", 0))
	b.Visible = fieldBool(t, "visible", b.Visible)
	b.Wrapping = fieldBool(t, "wrapping", b.Wrapping)
	b.Mosaic = fieldBool(t, "mosaic", false)
	b.BlendingTop = fieldBool(t, "blending_top", false)
	b.BlendingBottom = fieldBool(t, "blending_bottom", b.BlendingBottom)
	b.GreenSwap = fieldBool(t, "green_swap", false)
	b.Mat.SetRotationAngleSafe(toFixed(fieldNumber(t, "rotation", 0)))
	b.Mat.SetScale(toFixed(fieldNumber(t, "scale_x", 1)), toFixed(fieldNumber(t, "scale_y", 1)))
	if fieldBool(t, "camera", false) {
		b.Camera = s.core.Camera()
	}
	bg := s.core.Bgs().CreateAffineOptional(b)
	if bg == nil {
		L.RaiseError("affine_bg: no layers available")
		return 0
	}
	s.pushLayer(&layerRef{bg: bg, affine: bg}, affineType)
	return 1
}
