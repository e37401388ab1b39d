// Package inspect shows the compositor state of a running engine in a
// terminal: the layer list, the committed slot registers, the display
// registers, VRAM block usage and a coarse preview of the frame.
package inspect

import (
	"fmt"
	"strings"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/render"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

// Layer is one entry of the layer list, front to back.
type Layer struct {
	ID       bgs.ID
	Affine   bool
	Visible  bool
	Priority int
	ZOrder   int
	Slot     int // -1 without a hardware slot
	Position fixed.Point
	HW       fixed.IntPoint
	Size     fixed.Size
	Big      bool
	BigState bgs.BigMapState
	Usages   int
}

// Slot is the committed register image of a hardware background slot.
type Slot struct {
	Enabled bool
	Affine  bool
	Cnt     hw.BgCnt
	Handle  hw.BgHandle
}

// Snapshot is a copy of everything the dashboard shows.
type Snapshot struct {
	Frame    int
	State    bgs.FrameState
	Layers   []Layer
	Slots    [hw.BgCount]Slot
	DispCnt  hw.DisplayCnt
	BldCnt   hw.BldCnt
	BldAlpha uint16
	BldY     uint16
	Mosaic   uint16
	WinIn    uint16
	WinOut   uint16
	WinH     [2]uint16
	WinV     [2]uint16
	Blocks   [vram.BlocksCount]bool
	Stats    vram.Stats
}

// Take copies the state of c.
func Take(c *engine.Core) Snapshot {
	io := c.IO()
	m := c.Bgs()
	s := Snapshot{
		Frame:    c.Frame(),
		State:    m.FrameState(),
		DispCnt:  hw.UnpackDisplayCnt(io.Read16(hw.RegDispCnt)),
		BldCnt:   hw.UnpackBldCnt(io.Read16(hw.RegBldCnt)),
		BldAlpha: io.Read16(hw.RegBldAlpha),
		BldY:     io.Read16(hw.RegBldY),
		Mosaic:   io.Read16(hw.RegMosaic),
		WinIn:    io.Read16(hw.RegWinIn),
		WinOut:   io.Read16(hw.RegWinOut),
		WinH:     [2]uint16{io.Read16(hw.RegWin0H), io.Read16(hw.RegWin1H)},
		WinV:     [2]uint16{io.Read16(hw.RegWin0V), io.Read16(hw.RegWin1V)},
		Blocks:   c.VRAM().UsedBlocks(),
		Stats:    c.VRAM().Stats(),
	}
	for _, id := range m.Items() {
		slot, ok := m.HWID(id)
		if !ok {
			slot = -1
		}
		s.Layers = append(s.Layers, Layer{
			ID:       id,
			Affine:   m.IsAffine(id),
			Visible:  m.Visible(id),
			Priority: m.Priority(id),
			ZOrder:   m.ZOrder(id),
			Slot:     slot,
			Position: m.Position(id),
			HW:       m.HWPosition(id),
			Size:     m.Dimensions(id),
			Big:      m.BigMap(id),
			BigState: m.BigMapState(id),
			Usages:   m.Usages(id),
		})
	}
	for i := range s.Slots {
		enabled, aff := render.SlotKind(s.DispCnt.Mode, i)
		h := io.BgHandle(i)
		s.Slots[i] = Slot{
			Enabled: enabled && s.DispCnt.Bgs[i],
			Affine:  aff,
			Cnt:     hw.UnpackBgCnt(h.Cnt),
			Handle:  h,
		}
	}
	return s
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Lines formats the snapshot as text rows.
func (s Snapshot) Lines() []string {
	lines := []string{
		fmt.Sprintf("frame %d  state %s  mode %d  layers %d", s.Frame, s.State, s.DispCnt.Mode, len(s.Layers)),
		"",
		"ID  KIND    PRIO   Z  SLOT  POSITION          HW         SIZE     BIG",
	}
	for _, l := range s.Layers {
		kind := "regular"
		if l.Affine {
			kind = "affine"
		}
		slot := "-"
		if l.Slot >= 0 {
			slot = fmt.Sprint(l.Slot)
		}
		if !l.Visible {
			slot = "hid"
		}
		big := "-"
		if l.Big {
			big = l.BigState.String()
		}
		lines = append(lines, fmt.Sprintf("%-3d %-7s %4d %3d  %-4s  %-16s  %-9s  %-7s  %s",
			l.ID, kind, l.Priority, l.ZOrder, slot,
			fmt.Sprintf("%s,%s", l.Position.X, l.Position.Y),
			fmt.Sprintf("%d,%d", l.HW.X, l.HW.Y), l.Size, big))
	}

	lines = append(lines, "", "SLOT  CNT  PRIO CBB SBB SIZE  BPP  REGS")
	for i, sl := range s.Slots {
		if !sl.Enabled {
			lines = append(lines, fmt.Sprintf("BG%d   off", i))
			continue
		}
		bpp := 4
		if sl.Cnt.BPP8 {
			bpp = 8
		}
		regs := fmt.Sprintf("ofs %d,%d", sl.Handle.HOfs, sl.Handle.VOfs)
		if sl.Affine {
			a := sl.Handle.Affine
			regs = fmt.Sprintf("pa %d pb %d pc %d pd %d d %d,%d wrap %s", a.PA, a.PB, a.PC, a.PD, a.DX>>8, a.DY>>8, onOff(sl.Cnt.Wrap))
		}
		lines = append(lines, fmt.Sprintf("BG%d  %04x  %4d %3d %3d %4d  %3d  %s",
			i, sl.Handle.Cnt, sl.Cnt.Priority, sl.Cnt.TilesCBB, sl.Cnt.MapSBB, sl.Cnt.Size, bpp, regs))
	}

	blend := [...]string{"off", "alpha", "white", "black"}[s.BldCnt.Mode&3]
	lines = append(lines, "",
		fmt.Sprintf("blend %s top %06b bottom %06b alpha %04x y %d", blend, s.BldCnt.Top, s.BldCnt.Bottom, s.BldAlpha, s.BldY&0x1F),
		fmt.Sprintf("win0 %s h %04x v %04x  win1 %s h %04x v %04x", onOff(s.DispCnt.InsideWindows[0]), s.WinH[0], s.WinV[0],
			onOff(s.DispCnt.InsideWindows[1]), s.WinH[1], s.WinV[1]),
		fmt.Sprintf("winin %04x winout %04x mosaic %04x", s.WinIn, s.WinOut, s.Mosaic),
		"",
		"vram "+s.blockMap(),
		fmt.Sprintf("uploads %d resyncs %d cols %d rows %d cells %d",
			s.Stats.MapUploads, s.Stats.FullResyncs, s.Stats.ColUpdates, s.Stats.RowUpdates, s.Stats.CellsWritten),
	)
	return lines
}

// blockMap draws one character per VRAM block, '#' when allocated.
func (s Snapshot) blockMap() string {
	var b strings.Builder
	for i, used := range s.Blocks {
		if i > 0 && i%8 == 0 {
			b.WriteByte(' ')
		}
		if used {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
