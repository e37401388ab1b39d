package ui

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/script"
)

func back() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
}

func (a *App) updateMainMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < len(mainMenuItems)-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.quickSave()
		case 1:
			a.quickLoad()
		case 2:
			a.menuMode = "slot"
			a.menuIdx = a.currentSlot
		case 3:
			a.sceneList = a.findScenes()
			a.sceneSel = 0
			a.sceneOff = 0
			a.menuMode = "scene"
		case 4:
			if err := a.loadScene(a.sceneRef); err != nil {
				a.toast("Reload failed: " + err.Error())
			}
			a.showMenu = false
		case 5:
			a.menuMode = "keys"
			a.keysOff = 0
		case 6:
			a.showMenu = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateSlotMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < 3 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.currentSlot = a.menuIdx
		a.toast(fmt.Sprintf("Slot set to %d", a.currentSlot+1))
		a.menuMode = "main"
		a.menuIdx = 0
	}
	if back() {
		a.menuMode = "main"
		a.menuIdx = 0
	}
}

func (a *App) updateSceneMenu() {
	n := len(a.sceneList)
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || back() {
			a.menuMode = "main"
		}
		return
	}
	maxRows := a.sceneRows(40)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.sceneSel > 0 {
		a.sceneSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.sceneSel < n-1 {
		a.sceneSel++
	}
	if a.sceneSel < a.sceneOff {
		a.sceneOff = a.sceneSel
	}
	if a.sceneSel >= a.sceneOff+maxRows {
		a.sceneOff = a.sceneSel - maxRows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ref := a.sceneList[a.sceneSel]
		if err := a.loadScene(ref); err != nil {
			a.log.WithError(err).WithField("scene", ref).Error("scene load failed")
			a.toast("Scene load failed: " + err.Error())
		} else {
			a.toast("Loaded " + filepath.Base(ref))
			a.showMenu = false
		}
		a.menuMode = "main"
		a.menuIdx = 0
	}
	if back() {
		a.menuMode = "main"
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || back() {
		a.menuMode = "main"
	}
}

// findScenes lists the builtin scenes followed by the .lua files in ScenesDir.
func (a *App) findScenes() []string {
	list := script.Builtins()
	files, err := filepath.Glob(filepath.Join(a.cfg.ScenesDir, "*.lua"))
	if err != nil {
		return list
	}
	sort.Strings(files)
	return append(list, files...)
}
