package inspect

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
)

const (
	previewStep = 4 // framebuffer pixels per preview cell column
	panStep     = 8
)

var (
	textStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	errStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Dashboard steps an engine and draws its state on a terminal screen.
type Dashboard struct {
	screen tcell.Screen
	core   *engine.Core
	log    logrus.FieldLogger
	paused bool
	step   bool
	err    error
}

// New returns a dashboard drawing on screen, which must be initialised.
func New(screen tcell.Screen, core *engine.Core, log logrus.FieldLogger) *Dashboard {
	if log == nil {
		log = logging.Discard()
	}
	return &Dashboard{screen: screen, core: core, log: log.WithField("component", "inspect")}
}

// Run advances one frame per tick until the user quits.
func (d *Dashboard) Run(tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !d.handle(ev) {
				return
			}
		case <-ticker.C:
			d.Advance()
			d.Draw()
			d.screen.Show()
		}
	}
}

// Advance steps the engine unless paused. A frame error pauses the dashboard.
func (d *Dashboard) Advance() {
	if d.paused && !d.step {
		return
	}
	d.step = false
	if err := d.core.StepFrame(); err != nil {
		d.log.WithError(err).Error("frame failed")
		d.err = err
		d.paused = true
	}
}

func (d *Dashboard) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			d.pan(-panStep, 0)
		case tcell.KeyRight:
			d.pan(panStep, 0)
		case tcell.KeyUp:
			d.pan(0, -panStep)
		case tcell.KeyDown:
			d.pan(0, panStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ', 'p':
				d.paused = !d.paused
				d.err = nil
			case 'n':
				d.step = true
			}
		}
	case *tcell.EventResize:
		d.screen.Sync()
	}
	return true
}

func (d *Dashboard) pan(dx, dy int) {
	c := d.core.Camera()
	p := c.Position()
	c.SetPosition(fixed.Point{X: p.X + fixed.FromInt(dx), Y: p.Y + fixed.FromInt(dy)})
}

// Draw renders the preview on the left and the state text on the right.
func (d *Dashboard) Draw() {
	d.screen.Clear()
	d.drawPreview(0, 1)
	d.drawText(0, 0, "space pause  n step  arrows pan  q quit", titleStyle)

	x := hw.DisplayWidth/previewStep + 2
	for i, line := range Take(d.core).Lines() {
		d.drawText(x, i+1, line, textStyle)
	}
	_, h := d.screen.Size()
	if d.err != nil {
		d.drawText(0, h-1, d.err.Error(), errStyle)
	} else if d.paused {
		d.drawText(0, h-1, "[paused]", titleStyle)
	}
}

func (d *Dashboard) drawText(x, y int, s string, style tcell.Style) {
	w, _ := d.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		d.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawPreview samples every previewStep-th pixel and packs two sampled rows
// into one cell with an upper half block.
func (d *Dashboard) drawPreview(x0, y0 int) {
	fb := d.core.Framebuffer()
	color := func(x, y int) tcell.Color {
		i := (y*hw.DisplayWidth + x) * 4
		return tcell.NewRGBColor(int32(fb[i]), int32(fb[i+1]), int32(fb[i+2]))
	}
	for cy := 0; cy*2*previewStep < hw.DisplayHeight; cy++ {
		top := cy * 2 * previewStep
		bottom := top + previewStep
		for cx := 0; cx*previewStep < hw.DisplayWidth; cx++ {
			x := cx * previewStep
			style := tcell.StyleDefault.Foreground(color(x, top)).Background(color(x, bottom))
			d.screen.SetContent(x0+cx, y0+cy, '▀', nil, style)
		}
	}
}
