// Package camera implements the cameras layers can be attached to. A layer
// with a camera is drawn at its position minus the camera position.
package camera

import "github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"

// Registry owns the cameras and tracks whether any of them moved this frame.
type Registry struct {
	cameras []*Camera
	updated bool
}

func NewRegistry() *Registry { return &Registry{} }

// Camera is a 2D viewpoint. Layers hold a non owning pointer to it.
type Camera struct {
	reg      *Registry
	position fixed.Point
	moved    bool
}

// New creates a camera at position.
func (r *Registry) New(position fixed.Point) *Camera {
	c := &Camera{reg: r, position: position}
	r.cameras = append(r.cameras, c)
	return c
}

// Remove detaches a camera from the registry. Layers still pointing at it
// keep its last position.
func (r *Registry) Remove(c *Camera) {
	for i, o := range r.cameras {
		if o == c {
			c.moved = false
			r.cameras = append(r.cameras[:i], r.cameras[i+1:]...)
			return
		}
	}
}

func (r *Registry) Len() int { return len(r.cameras) }

// Updated reports whether a camera moved since the last Reset.
func (r *Registry) Updated() bool { return r.updated }

// Reset clears the moved flags once every layer and window has seen them.
func (r *Registry) Reset() {
	if !r.updated {
		return
	}
	r.updated = false
	for _, c := range r.cameras {
		c.moved = false
	}
}

func (c *Camera) Position() fixed.Point { return c.position }

func (c *Camera) X() fixed.Fixed { return c.position.X }
func (c *Camera) Y() fixed.Fixed { return c.position.Y }

func (c *Camera) SetPosition(p fixed.Point) {
	if p == c.position {
		return
	}
	c.position = p
	c.moved = true
	c.reg.updated = true
}

func (c *Camera) SetX(x fixed.Fixed) { c.SetPosition(fixed.Point{X: x, Y: c.position.Y}) }
func (c *Camera) SetY(y fixed.Fixed) { c.SetPosition(fixed.Point{X: c.position.X, Y: y}) }

// Moved reports whether the camera moved since the registry was last reset.
func (c *Camera) Moved() bool { return c.moved }
