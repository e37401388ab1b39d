package camera

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
)

func TestRegistryUpdated(t *testing.T) {
	r := NewRegistry()
	c := r.New(fixed.Point{})
	other := r.New(fixed.Point{})
	if r.Updated() {
		t.Fatal("fresh registry reports an update")
	}
	c.SetX(fixed.FromInt(5))
	if !c.Moved() || !r.Updated() {
		t.Fatal("move not reported")
	}
	if other.Moved() {
		t.Fatal("still camera reported as moved")
	}
	if !r.Updated() || !c.Moved() {
		t.Fatal("Updated cleared the flags before Reset")
	}
	r.Reset()
	if r.Updated() || c.Moved() {
		t.Fatal("Reset did not clear the flags")
	}
	c.SetX(fixed.FromInt(5))
	if r.Updated() {
		t.Fatal("setting the same position reported an update")
	}
	c.SetY(fixed.FromInt(1))
	r.Remove(c)
	if r.Len() != 1 || c.Moved() {
		t.Fatalf("Len() = %d, moved = %v after Remove", r.Len(), c.Moved())
	}
}
