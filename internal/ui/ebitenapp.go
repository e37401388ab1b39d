package ui

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assets"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/hw"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/render"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/script"
)

type App struct {
	cfg       Config
	engineCfg engine.Config
	log       logrus.FieldLogger

	core     *engine.Core
	scene    *script.Script
	sceneRef string

	tex      *ebiten.Image
	overlay  *ebiten.Image
	paused   bool
	fast     bool
	showInfo bool

	// overlay/menu
	showMenu    bool
	menuMode    string // main, slot, scene, keys
	menuIdx     int
	currentSlot int
	sceneList   []string
	sceneSel    int
	sceneOff    int
	keysOff     int
	toastMsg    string
	toastUntil  time.Time
	curW, curH  int
}

// NewApp creates the viewer and loads cfg.Scene.
func NewApp(cfg Config, engineCfg engine.Config, log logrus.FieldLogger) (*App, error) {
	cfg.Defaults()
	if log == nil {
		log = logging.Discard()
	}
	// ebiten paces the frames
	engineCfg.LimitFPS = false
	a := &App{
		cfg:       cfg,
		engineCfg: engineCfg,
		log:       log.WithField("component", "ui"),
		menuMode:  "main",
		curW:      hw.DisplayWidth,
		curH:      hw.DisplayHeight,
	}
	if err := a.loadScene(cfg.Scene); err != nil {
		return nil, err
	}
	a.applyWindowSize()
	return a, nil
}

// Run blocks until the window is closed and releases the scene.
func (a *App) Run() error {
	defer a.closeScene()
	return ebiten.RunGame(a)
}

// loadScene starts ref on a fresh core. The running scene is kept when ref
// fails to load.
func (a *App) loadScene(ref string) error {
	core := engine.New(a.engineCfg, a.log)
	if err := core.Init(); err != nil {
		return err
	}
	s, err := script.Open(ref, core, assets.NewLibrary(core.VRAM()), a.log)
	if err != nil {
		core.Stop()
		return err
	}
	a.closeScene()
	core.SetScene(s)
	a.core, a.scene, a.sceneRef = core, s, ref
	ebiten.SetWindowTitle(a.cfg.Title + " - [" + filepath.Base(ref) + "]")
	a.log.WithField("scene", ref).Info("scene loaded")
	return nil
}

func (a *App) closeScene() {
	if a.scene == nil {
		return
	}
	a.scene.Close()
	a.core.Stop()
	a.scene = nil
}

func (a *App) applyWindowSize() {
	ebiten.SetWindowSize(hw.DisplayWidth*a.cfg.Scale, hw.DisplayHeight*a.cfg.Scale)
}

func (a *App) step() {
	if err := a.core.StepFrame(); err != nil {
		a.log.WithError(err).Error("frame failed")
		a.toast("Error: " + err.Error())
		a.paused = true
	}
}

func (a *App) Update() error {
	// Keyboard → camera and scene buttons; the arrows drive the menu when open
	var btn engine.Buttons
	if !a.showMenu {
		btn.Right = ebiten.IsKeyPressed(ebiten.KeyRight)
		btn.Left = ebiten.IsKeyPressed(ebiten.KeyLeft)
		btn.Up = ebiten.IsKeyPressed(ebiten.KeyUp)
		btn.Down = ebiten.IsKeyPressed(ebiten.KeyDown)
		btn.A = ebiten.IsKeyPressed(ebiten.KeyZ)
		btn.B = ebiten.IsKeyPressed(ebiten.KeyX)
	}
	a.core.SetButtons(btn)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		a.showInfo = !a.showInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.loadScene(a.sceneRef); err != nil {
			a.toast("Reload failed: " + err.Error())
		} else {
			a.toast("Reloaded")
		}
	}
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.quickSave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.quickLoad()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + filepath.Base(name))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
	} else if a.showMenu {
		switch a.menuMode {
		case "slot":
			a.updateSlotMenu()
		case "scene":
			a.updateSceneMenu()
		case "keys":
			a.updateKeysMenu()
		default:
			a.updateMainMenu()
		}
	}

	if !a.paused && !a.showMenu {
		n := 1
		if a.fast {
			n = 5
		}
		for i := 0; i < n && !a.paused; i++ {
			a.step()
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(hw.DisplayWidth, hw.DisplayHeight)
		a.overlay = ebiten.NewImage(hw.DisplayWidth, hw.DisplayHeight)
		a.overlay.Fill(color.RGBA{0, 0, 0, 160})
	}
	a.tex.WritePixels(a.core.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.showInfo && !a.showMenu {
		info := fmt.Sprintf("frame %d  layers %d  %.0f tps", a.core.Frame(), a.core.Bgs().UsedCount(), ebiten.ActualTPS())
		if a.paused {
			info += "  [paused]"
		}
		ebitenutil.DebugPrintAt(screen, a.truncateText(info, a.maxCharsForText(2)), 2, 2)
	}
	if a.showMenu {
		screen.DrawImage(a.overlay, nil)
		switch a.menuMode {
		case "slot":
			a.drawSlotMenu(screen)
		case "scene":
			a.drawSceneMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		msg := a.truncateText(a.toastMsg, a.maxCharsForText(2))
		ebitenutil.DebugPrintAt(screen, msg, 2, a.curH-16)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return a.curW, a.curH }

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) statePath(slot int) string {
	return filepath.Join(a.cfg.StateDir, fmt.Sprintf("slot%d.state", slot))
}

func (a *App) saveSlot(slot int) error { return a.core.SaveStateToFile(a.statePath(slot)) }

// loadSlot pauses the viewer: the next frame commits the scene's own
// layer state over the loaded registers.
func (a *App) loadSlot(slot int) error {
	if err := a.core.LoadStateFromFile(a.statePath(slot)); err != nil {
		return err
	}
	a.paused = true
	return nil
}

func (a *App) quickSave() {
	if err := a.saveSlot(a.currentSlot); err != nil {
		a.toast("Save failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Saved slot %d", a.currentSlot+1))
}

func (a *App) quickLoad() {
	if _, err := os.Stat(a.statePath(a.currentSlot)); err != nil {
		a.toast("Slot is empty")
		return
	}
	if err := a.loadSlot(a.currentSlot); err != nil {
		a.toast("Load failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Loaded slot %d (paused)", a.currentSlot+1))
}

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := filepath.Join(a.cfg.ScreenshotDir, fmt.Sprintf("screenshot_%s.png", ts))
	return name, render.SavePNG(name, a.core.Framebuffer(), a.cfg.Scale)
}
