package bgs

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/affine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

// bg is a counted reference to a layer. Each reference must be released
// exactly once.
type bg struct {
	m  *Manager
	id ID
}

func (b *bg) ID() ID { return b.id }

// Release drops this reference. Using the handle afterwards is fatal.
func (b *bg) Release() {
	m := b.mgr()
	b.m = nil
	m.DecreaseUsages(b.id)
}

// Released reports whether Release was called on this reference.
func (b *bg) Released() bool { return b.m == nil }

func (b *bg) mgr() *Manager {
	assert.Check(b.m != nil, "BG %d already released", b.id)
	return b.m
}

func (b *bg) Position() fixed.Point         { return b.mgr().Position(b.id) }
func (b *bg) SetPosition(p fixed.Point)     { b.mgr().SetPosition(b.id, p) }
func (b *bg) SetX(x fixed.Fixed)            { b.mgr().SetX(b.id, x) }
func (b *bg) SetY(y fixed.Fixed)            { b.mgr().SetY(b.id, y) }
func (b *bg) Priority() int                 { return b.mgr().Priority(b.id) }
func (b *bg) SetPriority(p int)             { b.mgr().SetPriority(b.id, p) }
func (b *bg) ZOrder() int                   { return b.mgr().ZOrder(b.id) }
func (b *bg) SetZOrder(z int)               { b.mgr().SetZOrder(b.id, z) }
func (b *bg) PutAbove()                     { b.mgr().PutAbove(b.id) }
func (b *bg) PutBelow()                     { b.mgr().PutBelow(b.id) }
func (b *bg) Visible() bool                 { return b.mgr().Visible(b.id) }
func (b *bg) SetVisible(v bool)             { b.mgr().SetVisible(b.id, v) }
func (b *bg) Mosaic() bool                  { return b.mgr().Mosaic(b.id) }
func (b *bg) SetMosaic(v bool)              { b.mgr().SetMosaic(b.id, v) }
func (b *bg) SetBlending(top, bottom bool)  { b.mgr().SetBlending(b.id, top, bottom) }
func (b *bg) SetGreenSwap(v bool)           { b.mgr().SetGreenSwap(b.id, v) }
func (b *bg) Camera() *camera.Camera        { return b.mgr().Camera(b.id) }
func (b *bg) SetCamera(c *camera.Camera)    { b.mgr().SetCamera(b.id, c) }
func (b *bg) RemoveCamera()                 { b.mgr().RemoveCamera(b.id) }
func (b *bg) ShowInWindow(w int) bool       { return b.mgr().ShowInWindow(b.id, w) }
func (b *bg) SetShowInWindow(w int, s bool) { b.mgr().SetShowInWindow(b.id, w, s) }
func (b *bg) SetShowInAllWindows(s bool)    { b.mgr().SetShowInAllWindows(b.id, s) }
func (b *bg) Dimensions() fixed.Size        { return b.mgr().Dimensions(b.id) }
func (b *bg) HWID() (int, bool)             { return b.mgr().HWID(b.id) }
func (b *bg) BigMap() bool                  { return b.mgr().BigMap(b.id) }

// Above reports whether b is drawn in front of o.
func (b *bg) Above(o ID) bool { return b.mgr().Above(b.id, o) }

// RegularBG is a reference to a regular layer.
type RegularBG struct{ bg }

// Clone returns a new reference to the same layer.
func (b *RegularBG) Clone() *RegularBG {
	b.mgr().IncreaseUsages(b.id)
	return &RegularBG{b.bg}
}

func (b *RegularBG) Map() *vram.RegularMap         { return b.mgr().RegularMap(b.id) }
func (b *RegularBG) SetMap(rm *vram.RegularMap)    { b.mgr().SetRegularMap(b.id, rm) }
func (b *RegularBG) Attributes() RegularAttributes { return b.mgr().RegularAttributes(b.id) }

func (b *RegularBG) SetAttributes(a RegularAttributes) { b.mgr().SetRegularAttributes(b.id, a) }

// AffineBG is a reference to an affine layer.
type AffineBG struct{ bg }

// Clone returns a new reference to the same layer.
func (b *AffineBG) Clone() *AffineBG {
	b.mgr().IncreaseUsages(b.id)
	return &AffineBG{b.bg}
}

func (b *AffineBG) Map() *vram.AffineMap      { return b.mgr().AffineMap(b.id) }
func (b *AffineBG) SetMap(am *vram.AffineMap) { b.mgr().SetAffineMap(b.id, am) }
func (b *AffineBG) Wrapping() bool            { return b.mgr().Wrapping(b.id) }
func (b *AffineBG) SetWrapping(w bool)        { b.mgr().SetWrapping(b.id, w) }

func (b *AffineBG) Attributes() AffineAttributes     { return b.mgr().AffineAttributes(b.id) }
func (b *AffineBG) SetAttributes(a AffineAttributes) { b.mgr().SetAffineAttributes(b.id, a) }

func (b *AffineBG) MatAttributes() affine.MatAttributes     { return b.mgr().MatAttributes(b.id) }
func (b *AffineBG) SetMatAttributes(a affine.MatAttributes) { b.mgr().SetMatAttributes(b.id, a) }
func (b *AffineBG) RotationAngle() fixed.Fixed              { return b.mgr().RotationAngle(b.id) }
func (b *AffineBG) SetRotationAngle(a fixed.Fixed)          { b.mgr().SetRotationAngle(b.id, a) }
func (b *AffineBG) SetRotationAngleSafe(a fixed.Fixed)      { b.mgr().SetRotationAngleSafe(b.id, a) }
func (b *AffineBG) SetHorizontalScale(s fixed.Fixed)        { b.mgr().SetHorizontalScale(b.id, s) }
func (b *AffineBG) SetVerticalScale(s fixed.Fixed)          { b.mgr().SetVerticalScale(b.id, s) }
func (b *AffineBG) SetScale(h, v fixed.Fixed)               { b.mgr().SetScale(b.id, h, v) }
func (b *AffineBG) SetHorizontalShear(s fixed.Fixed)        { b.mgr().SetHorizontalShear(b.id, s) }
func (b *AffineBG) SetVerticalShear(s fixed.Fixed)          { b.mgr().SetVerticalShear(b.id, s) }
func (b *AffineBG) SetShear(h, v fixed.Fixed)               { b.mgr().SetShear(b.id, h, v) }
func (b *AffineBG) SetHorizontalFlip(f bool)                { b.mgr().SetHorizontalFlip(b.id, f) }
func (b *AffineBG) SetVerticalFlip(f bool)                  { b.mgr().SetVerticalFlip(b.id, f) }
func (b *AffineBG) PivotPosition() fixed.Point              { return b.mgr().PivotPosition(b.id) }
func (b *AffineBG) SetPivotPosition(p fixed.Point)          { b.mgr().SetPivotPosition(b.id, p) }
