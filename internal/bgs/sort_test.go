package bgs

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
)

func checkSorted(t *testing.T, m *Manager, step int) {
	t.Helper()
	for i := 0; i+1 < len(m.list); i++ {
		if m.list[i].key().less(m.list[i+1].key()) {
			t.Fatalf("step %d: list not sorted at %d: %+v before %+v", step, i, m.list[i].key(), m.list[i+1].key())
		}
	}
}

// fits reports whether the visible layers plus the given extra ones can all
// get a hardware slot.
func fits(m *Manager, regular, affine int) bool {
	for _, it := range m.list {
		if !it.visible {
			continue
		}
		if it.isAffine {
			affine++
		} else {
			regular++
		}
	}
	return affine <= hw.AffineBgCount && regular <= len(regularSlots[affine])
}

type slotState struct {
	index   []int
	handles [hw.BgCount]hw.BgHandle
	enabled [hw.BgCount]bool
}

func slots(m *Manager) slotState {
	s := slotState{handles: m.handles}
	for _, it := range m.list {
		s.index = append(s.index, it.handlesIndex)
	}
	for i := range s.enabled {
		s.enabled[i] = m.display.BgEnabled(i)
		if !s.enabled[i] {
			// a disabled slot may keep the image of a released layer
			s.handles[i] = hw.BgHandle{}
		}
	}
	return s
}

func checkSlots(t *testing.T, m *Manager, step int) {
	t.Helper()
	var taken [hw.BgCount]bool
	used, affines, lastRegular := 0, 0, hw.BgCount
	for _, it := range m.list {
		idx := it.handlesIndex
		if it.visible != (idx >= 0) {
			t.Fatalf("step %d: BG %d visible %v with slot %d", step, it.id, it.visible, idx)
		}
		if idx < 0 {
			continue
		}
		if taken[idx] {
			t.Fatalf("step %d: slot %d assigned twice", step, idx)
		}
		taken[idx] = true
		used++
		if it.isAffine {
			affines++
		} else {
			if idx >= lastRegular {
				t.Fatalf("step %d: regular slot %d behind slot %d", step, idx, lastRegular)
			}
			lastRegular = idx
		}
		if m.handles[idx] != it.handle {
			t.Fatalf("step %d: slot %d holds a stale image of BG %d", step, idx, it.id)
		}
		if !m.display.BgEnabled(idx) {
			t.Fatalf("step %d: slot %d of BG %d disabled", step, idx, it.id)
		}
	}
	if used > hw.BgCount || affines > hw.AffineBgCount {
		t.Fatalf("step %d: %d slots, %d affine", step, used, affines)
	}

	// whatever shortcut produced this layout, a full rebuild must agree
	got := slots(m)
	m.state.requestRebuild()
	m.Update()
	m.Commit()
	if want := slots(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("step %d: slots differ from a full rebuild:\n%s", step, spew.Sdump(got, want))
	}
}

func TestLayerListStaysSorted(t *testing.T) {
	cfg := Defaults()
	cfg.MaxItems = 8
	f := newFixture(t, cfg)
	rm := f.regularMap(t, 32, 32)
	am := f.affineMap(t, 32, 32)
	rng := rand.New(rand.NewSource(1))

	var live []ID
	for step := 0; step < 1000; step++ {
		switch op := rng.Intn(7); {
		case op == 0 || len(live) == 0:
			var id ID
			if rng.Intn(2) == 0 {
				b := NewRegularBuilder(rm)
				b.Priority, b.ZOrder = rng.Intn(4), rng.Intn(5)-2
				b.Visible = rng.Intn(2) == 0 && fits(f.m, 1, 0)
				bg := f.m.CreateRegularOptional(b)
				if bg == nil {
					continue
				}
				id = bg.ID()
			} else {
				b := NewAffineBuilder(am)
				b.Priority, b.ZOrder = rng.Intn(4), rng.Intn(5)-2
				b.Visible = rng.Intn(2) == 0 && fits(f.m, 0, 1)
				bg := f.m.CreateAffineOptional(b)
				if bg == nil {
					continue
				}
				id = bg.ID()
			}
			live = append(live, id)
		case op == 1:
			i := rng.Intn(len(live))
			f.m.DecreaseUsages(live[i])
			live = append(live[:i], live[i+1:]...)
		case op == 2:
			f.m.SetPriority(live[rng.Intn(len(live))], rng.Intn(4))
		case op == 3:
			f.m.SetZOrder(live[rng.Intn(len(live))], rng.Intn(5)-2)
		case op == 4:
			f.m.PutAbove(live[rng.Intn(len(live))])
		case op == 5:
			f.m.PutBelow(live[rng.Intn(len(live))])
		default:
			id := live[rng.Intn(len(live))]
			switch {
			case f.m.Visible(id):
				f.m.SetVisible(id, false)
			case f.m.IsAffine(id) && fits(f.m, 0, 1), !f.m.IsAffine(id) && fits(f.m, 1, 0):
				f.m.SetVisible(id, true)
			}
		}
		checkSorted(t, f.m, step)
		if f.m.UsedCount()+f.m.AvailableCount() != cfg.MaxItems {
			t.Fatalf("step %d: used %d + available %d", step, f.m.UsedCount(), f.m.AvailableCount())
		}
		f.frame()
		if f.m.FrameState() != FrameClean {
			t.Fatalf("step %d: frame state %s after commit", step, f.m.FrameState())
		}
		checkSlots(t, f.m, step)
	}
}

func TestPutAboveAndBelow(t *testing.T) {
	cfg := Defaults()
	cfg.MaxItems = 8
	f := newFixture(t, cfg)
	rm := f.regularMap(t, 32, 32)
	a := f.m.CreateRegular(NewRegularBuilder(rm))
	b := f.m.CreateRegular(NewRegularBuilder(rm))
	c := f.m.CreateRegular(NewRegularBuilder(rm))
	nb := NewRegularBuilder(rm)
	nb.Priority = 2
	front := f.m.CreateRegular(nb)

	order := func() []ID { return f.m.Items() }
	same := func(got []ID, want ...ID) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	if !same(order(), a.ID(), b.ID(), c.ID(), front.ID()) {
		t.Fatalf("creation order = %v", order())
	}
	if !c.Above(a.ID()) || a.Above(c.ID()) {
		t.Fatal("newest layer should be drawn in front of equal keys")
	}
	f.frame()
	a.PutAbove()
	if !same(order(), b.ID(), c.ID(), a.ID(), front.ID()) {
		t.Fatalf("after PutAbove = %v", order())
	}
	if f.m.FrameState() != FrameRebuildPending {
		t.Fatal("reordering a visible layer did not request a rebuild")
	}
	a.PutBelow()
	if !same(order(), a.ID(), b.ID(), c.ID(), front.ID()) {
		t.Fatalf("after PutBelow = %v", order())
	}
	front.PutBelow()
	if !same(order(), a.ID(), b.ID(), c.ID(), front.ID()) {
		t.Fatalf("PutBelow crossed a different key: %v", order())
	}

	c.SetZOrder(-1)
	if !c.Above(b.ID()) || c.Above(front.ID()) {
		t.Fatal("lower z order should be drawn in front within a priority")
	}
	c.SetPriority(0)
	if !c.Above(front.ID()) {
		t.Fatal("priority 0 should be drawn in front of priority 2")
	}
	f.frame()
	cs, _ := c.HWID()
	fs, _ := front.HWID()
	if cs >= fs {
		t.Fatalf("slots: c %d front %d", cs, fs)
	}
}
