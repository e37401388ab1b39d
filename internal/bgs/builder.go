package bgs

import (
	"github.com/pkg/errors"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/affine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

const (
	MinPriority = 0
	MaxPriority = 3
	MinZOrder   = -32767
	MaxZOrder   = 32767
)

// RegularBuilder describes a regular layer to create.
type RegularBuilder struct {
	Map            *vram.RegularMap
	Position       fixed.Point
	Priority       int
	ZOrder         int
	Mosaic         bool
	BlendingTop    bool
	BlendingBottom bool
	GreenSwap      bool
	Camera         *camera.Camera
	Visible        bool
}

// NewRegularBuilder returns a builder with the default values: priority 3,
// visible and part of the blending bottom layer.
func NewRegularBuilder(m *vram.RegularMap) RegularBuilder {
	return RegularBuilder{Map: m, Priority: MaxPriority, BlendingBottom: true, Visible: true}
}

// Validate returns the first invalid field with its valid range.
func (b *RegularBuilder) Validate() error {
	if b.Map == nil {
		return errors.New("map is nil")
	}
	return validateSortKey(b.Priority, b.ZOrder)
}

// AffineBuilder describes an affine layer to create.
type AffineBuilder struct {
	Map            *vram.AffineMap
	Position       fixed.Point
	Pivot          fixed.Point
	Mat            affine.MatAttributes
	Priority       int
	ZOrder         int
	Wrapping       bool
	Mosaic         bool
	BlendingTop    bool
	BlendingBottom bool
	GreenSwap      bool
	Camera         *camera.Camera
	Visible        bool
}

// NewAffineBuilder returns a builder with an identity matrix, wrapping
// enabled and the same defaults as NewRegularBuilder.
func NewAffineBuilder(m *vram.AffineMap) AffineBuilder {
	return AffineBuilder{
		Map:            m,
		Mat:            affine.NewMatAttributes(),
		Priority:       MaxPriority,
		Wrapping:       true,
		BlendingBottom: true,
		Visible:        true,
	}
}

func (b *AffineBuilder) Validate() error {
	if b.Map == nil {
		return errors.New("map is nil")
	}
	if err := validateSortKey(b.Priority, b.ZOrder); err != nil {
		return err
	}
	return errors.Wrap(b.Mat.Validate(), "mat attributes")
}

func validateSortKey(priority, zOrder int) error {
	if priority < MinPriority || priority > MaxPriority {
		return errors.Errorf("invalid priority: %d (valid range [%d..%d])", priority, MinPriority, MaxPriority)
	}
	if zOrder < MinZOrder || zOrder > MaxZOrder {
		return errors.Errorf("invalid z order: %d (valid range [%d..%d])", zOrder, MinZOrder, MaxZOrder)
	}
	return nil
}
