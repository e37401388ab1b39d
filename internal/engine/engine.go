// Package engine wires the compositor and its collaborators into a frame
// loop: a scene mutates layers, StepFrame runs the per frame contract and the
// software renderer turns the committed registers into pixels.
package engine

import (
	"bytes"
	"encoding/gob"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/camera"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/display"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/fixed"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/render"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/vram"
)

const frameTime = time.Second / 60

type Buttons struct {
	Up, Down, Left, Right bool
	A, B                  bool
}

// Scene is driven once per frame, before the compositor runs.
type Scene interface {
	Update(core *Core, frame int) error
}

// SceneFunc adapts a function to Scene.
type SceneFunc func(core *Core, frame int) error

func (f SceneFunc) Update(core *Core, frame int) error { return f(core, frame) }

type Core struct {
	cfg Config
	log logrus.FieldLogger

	io      *hw.IO
	vram    *vram.Manager
	cameras *camera.Registry
	display *display.Manager
	bgs     *bgs.Manager
	render  *render.Renderer

	fb      []byte // RGBA 240x160*4
	frame   int
	running bool
	last    time.Time

	scene   Scene
	camera  *camera.Camera // panned by the direction buttons
	buttons Buttons
	effects []hblankEffect
}

func New(cfg Config, log logrus.FieldLogger) *Core {
	if log == nil {
		log = logging.Discard()
	}
	if cfg.PanSpeed <= 0 {
		cfg.PanSpeed = 1
	}
	io := hw.NewIO()
	vm := vram.NewManager(io, log)
	disp := display.New(log)
	c := &Core{
		cfg:     cfg,
		log:     log.WithField("component", "engine"),
		io:      io,
		vram:    vm,
		cameras: camera.NewRegistry(),
		display: disp,
		bgs:     bgs.New(cfg.Bgs, io, vm, disp, log),
		render:  render.New(),
		fb:      make([]byte, hw.DisplayWidth*hw.DisplayHeight*4),
	}
	c.camera = c.cameras.New(fixed.Point{})
	return c
}

// Init forces a full register commit on the next frame and starts the loop.
func (c *Core) Init() error {
	if c.running {
		return errors.New("engine already running")
	}
	c.display.Reload()
	c.bgs.Reload()
	c.running = true
	c.last = time.Time{}
	c.log.WithField("max_bgs", c.cfg.Bgs.MaxItems).Info("engine started")
	return nil
}

// Stop releases every layer still alive and blanks the display.
func (c *Core) Stop() {
	if !c.running {
		return
	}
	for _, id := range c.bgs.Items() {
		for n := c.bgs.Usages(id); n > 0; n-- {
			c.bgs.DecreaseUsages(id)
		}
	}
	c.effects = nil
	c.commit()
	c.running = false
	c.log.WithField("frames", c.frame).Info("engine stopped")
}

func (c *Core) Running() bool { return c.running }

func (c *Core) IO() *hw.IO                 { return c.io }
func (c *Core) VRAM() *vram.Manager        { return c.vram }
func (c *Core) Cameras() *camera.Registry  { return c.cameras }
func (c *Core) Display() *display.Manager  { return c.display }
func (c *Core) Bgs() *bgs.Manager          { return c.bgs }
func (c *Core) Renderer() *render.Renderer { return c.render }
func (c *Core) Frame() int                 { return c.frame }

// Camera returns the camera moved by the direction buttons.
func (c *Core) Camera() *camera.Camera { return c.camera }

// SetScene replaces the per frame scene callback; nil removes it.
func (c *Core) SetScene(s Scene) { c.scene = s }

func (c *Core) SetButtons(b Buttons) { c.buttons = b }
func (c *Core) Buttons() Buttons     { return c.buttons }

// StepFrame runs one frame: scene update, camera panning, then the
// compositor contract (Update, Commit, CommitBigMaps) and the VRAM and
// display commits, and finally the renderer.
func (c *Core) StepFrame() error {
	if !c.running {
		return errors.New("engine not running")
	}
	if c.scene != nil {
		if err := c.scene.Update(c, c.frame); err != nil {
			return errors.Wrapf(err, "frame %d", c.frame)
		}
	}
	c.pan()
	c.commit()
	if c.cfg.Render {
		c.installEffects()
		c.render.Frame(c.io, c.fb)
	}
	c.frame++
	if c.cfg.LimitFPS {
		c.throttle()
	}
	return nil
}

func (c *Core) commit() {
	if c.cameras.Updated() {
		c.bgs.UpdateCameras()
		c.display.UpdateCameras()
		c.cameras.Reset()
	}
	c.bgs.Update()
	c.display.Update()
	c.bgs.Commit()
	c.display.Commit(c.io)
	c.bgs.CommitBigMaps()
	c.vram.Commit()
}

func (c *Core) pan() {
	var dx, dy int
	if c.buttons.Left {
		dx -= c.cfg.PanSpeed
	}
	if c.buttons.Right {
		dx += c.cfg.PanSpeed
	}
	if c.buttons.Up {
		dy -= c.cfg.PanSpeed
	}
	if c.buttons.Down {
		dy += c.cfg.PanSpeed
	}
	if dx == 0 && dy == 0 {
		return
	}
	p := c.camera.Position()
	c.camera.SetPosition(fixed.Point{X: p.X + fixed.FromInt(dx), Y: p.Y + fixed.FromInt(dy)})
}

func (c *Core) throttle() {
	now := time.Now()
	if !c.last.IsZero() {
		if d := frameTime - now.Sub(c.last); d > 0 {
			time.Sleep(d)
			now = now.Add(d)
		}
	}
	c.last = now
}

// Framebuffer returns the RGBA pixels of the last rendered frame.
func (c *Core) Framebuffer() []byte { return c.fb }

// --- Save/Load state ---
type coreState struct {
	IO     []byte
	Frame  int
	Camera fixed.Point
}

// SaveState snapshots the IO block (registers, VRAM, palette RAM), the frame
// counter and the pan camera. Layers are not part of the snapshot: a loaded
// state shows the committed picture until the scene changes it.
func (c *Core) SaveState() ([]byte, error) {
	io, err := c.io.SaveState()
	if err != nil {
		return nil, errors.Wrap(err, "io state")
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(coreState{IO: io, Frame: c.frame, Camera: c.camera.Position()}); err != nil {
		return nil, errors.Wrap(err, "encode state")
	}
	return buf.Bytes(), nil
}

func (c *Core) LoadState(data []byte) error {
	var s coreState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return errors.Wrap(err, "decode state")
	}
	if err := c.io.LoadState(s.IO); err != nil {
		return errors.Wrap(err, "io state")
	}
	c.frame = s.Frame
	c.camera.SetPosition(s.Camera)
	if c.cfg.Render {
		c.render.Frame(c.io, c.fb)
	}
	return nil
}

func (c *Core) SaveStateToFile(path string) error {
	data, err := c.SaveState()
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

func (c *Core) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	return c.LoadState(data)
}
