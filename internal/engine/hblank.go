package engine

import (
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/affine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/render"
)

// hblankEffect rebuilds its tables from the layer state every frame and
// writes one entry per line into the slot the layer was given.
type hblankEffect struct {
	id    bgs.ID
	fill  func(m *bgs.Manager)
	apply func(line, slot int, regs *render.LineRegs)
}

func (c *Core) addEffect(e hblankEffect) {
	for i, o := range c.effects {
		if o.id == e.id {
			c.effects[i] = e
			return
		}
	}
	c.effects = append(c.effects, e)
}

// SetHBlankRegularPositions offsets a regular layer by positions[line] on
// every line, horizontally or vertically.
func (c *Core) SetHBlankRegularPositions(id bgs.ID, horizontal bool, positions []fixed.Fixed) {
	table := make([]uint16, hw.DisplayHeight)
	c.addEffect(hblankEffect{
		id:   id,
		fill: func(m *bgs.Manager) { m.FillHBlankRegularPositions(id, horizontal, positions, table) },
		apply: func(line, slot int, regs *render.LineRegs) {
			if horizontal {
				regs.Bgs[slot].HOfs = table[line]
			} else {
				regs.Bgs[slot].VOfs = table[line]
			}
		},
	})
}

// SetHBlankPivotPositions moves the pivot of an affine layer on every line.
func (c *Core) SetHBlankPivotPositions(id bgs.ID, horizontal bool, pivots []fixed.Fixed) {
	table := make([]int32, hw.DisplayHeight)
	c.addEffect(hblankEffect{
		id:   id,
		fill: func(m *bgs.Manager) { m.FillHBlankPivotPositions(id, horizontal, pivots, table) },
		apply: func(line, slot int, regs *render.LineRegs) {
			a := regs.Bgs[slot].Affine
			if horizontal {
				regs.SetReference(slot, table[line], a.DY)
			} else {
				regs.SetReference(slot, a.DX, table[line])
			}
		},
	})
}

// SetHBlankAffineMats gives an affine layer a different matrix on every line.
func (c *Core) SetHBlankAffineMats(id bgs.ID, mats []affine.MatAttributes) {
	table := make([]hw.AffineRegs, hw.DisplayHeight)
	c.addEffect(hblankEffect{
		id:   id,
		fill: func(m *bgs.Manager) { m.FillHBlankAffineMatAttributes(id, mats, table) },
		apply: func(line, slot int, regs *render.LineRegs) {
			r := table[line]
			regs.Bgs[slot].Affine = r
			regs.SetReference(slot, r.DX, r.DY)
		},
	})
}

// SetHBlankRegularAttributes switches map, priority and mosaic of a regular
// layer on every line.
func (c *Core) SetHBlankRegularAttributes(id bgs.ID, attrs []bgs.RegularAttributes) {
	table := make([]uint16, hw.DisplayHeight)
	c.addEffect(hblankEffect{
		id:   id,
		fill: func(m *bgs.Manager) { m.FillHBlankRegularAttributes(id, attrs, table) },
		apply: func(line, slot int, regs *render.LineRegs) {
			regs.Bgs[slot].Cnt = table[line]
		},
	})
}

func (c *Core) SetHBlankAffineAttributes(id bgs.ID, attrs []bgs.AffineAttributes) {
	table := make([]uint16, hw.DisplayHeight)
	c.addEffect(hblankEffect{
		id:   id,
		fill: func(m *bgs.Manager) { m.FillHBlankAffineAttributes(id, attrs, table) },
		apply: func(line, slot int, regs *render.LineRegs) {
			regs.Bgs[slot].Cnt = table[line]
		},
	})
}

// RemoveHBlankEffect stops the per line effect of a layer.
func (c *Core) RemoveHBlankEffect(id bgs.ID) {
	for i, e := range c.effects {
		if e.id == id {
			c.effects = append(c.effects[:i], c.effects[i+1:]...)
			return
		}
	}
}

// installEffects refills the tables of every effect whose layer has a slot
// and hooks them into the renderer. Effects of released layers are dropped.
func (c *Core) installEffects() {
	if len(c.effects) == 0 {
		c.render.SetHBlank(nil)
		return
	}
	type active struct {
		slot  int
		apply func(line, slot int, regs *render.LineRegs)
	}
	alive := make(map[bgs.ID]bool)
	for _, id := range c.bgs.Items() {
		alive[id] = true
	}
	var run []active
	kept := c.effects[:0]
	for _, e := range c.effects {
		if !alive[e.id] {
			continue
		}
		kept = append(kept, e)
		slot, ok := c.bgs.HWID(e.id)
		if !ok {
			continue
		}
		e.fill(c.bgs)
		run = append(run, active{slot, e.apply})
	}
	c.effects = kept
	c.render.SetHBlank(func(line int, regs *render.LineRegs) {
		for _, a := range run {
			a.apply(line, a.slot, regs)
		}
	})
}
