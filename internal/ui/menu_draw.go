package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	lineHeight = 14
	charWidth  = 6 // debug font
)

var mainMenuItems = []string{
	"Save state (slot %d)",
	"Load state (slot %d)",
	"Select Slot",
	"Switch Scene",
	"Reload Scene",
	"Keybindings",
	"Close",
}

var keyRows = []string{
	"Arrows: Pan camera",
	"Z: A",
	"X: B",
	"P: Pause",
	"N: Step (when paused)",
	"Tab: Fast-forward",
	"R: Reload scene",
	"I: Frame info",
	"F5/F9: Save/Load slot",
	"F12: Screenshot",
	"Esc: Open/Close Menu",
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	lines := []string{"Menu: " + filepath.Base(a.sceneRef)}
	for _, item := range mainMenuItems {
		if strings.Contains(item, "%d") {
			item = fmt.Sprintf(item, a.currentSlot+1)
		}
		lines = append(lines, "  "+item)
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, a.truncateText(prefix+s, a.maxCharsForText(10)), 10, 10+i*lineHeight)
	}
}

func (a *App) drawSlotMenu(screen *ebiten.Image) {
	lines := []string{"Select Slot:"}
	for i := 0; i < 4; i++ {
		state := "[empty]"
		if _, err := os.Stat(a.statePath(i)); err == nil {
			state = ""
		}
		lines = append(lines, fmt.Sprintf("  %d %s", i+1, state))
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*lineHeight)
	}
}

func (a *App) drawSceneMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, a.truncateText("Select scene (Enter loads, Esc returns)", a.maxCharsForText(10)), 10, 10)
	d := a.truncateText("Dir: "+a.cfg.ScenesDir, a.maxCharsForText(10))
	ebitenutil.DebugPrintAt(screen, d, 10, 24)
	baseY := 40
	maxRows := a.sceneRows(baseY)
	end := min(a.sceneOff+maxRows, len(a.sceneList))
	maxChars := max(a.maxCharsForText(10)-2, 1) // "> " prefix
	for i, ref := range a.sceneList[a.sceneOff:end] {
		prefix := "  "
		if a.sceneOff+i == a.sceneSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+a.truncateText(filepath.Base(ref), maxChars), 10, baseY+i*lineHeight)
	}
	if a.sceneOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(a.sceneList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*lineHeight)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	cursorY := 10
	for _, w := range a.wrapText("Keybindings (Up/Down to scroll, Esc to return)", a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += lineHeight
	}
	baseY := cursorY + 4
	maxRows := max((a.curH-baseY)/lineHeight, 1)
	a.keysOff = max(min(a.keysOff, len(keyRows)-1), 0)
	end := min(a.keysOff+maxRows, len(keyRows))
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, a.truncateText(keyRows[i], a.maxCharsForText(10)), 10, baseY+(i-a.keysOff)*lineHeight)
	}
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(keyRows) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*lineHeight)
	}
}

func (a *App) sceneRows(baseY int) int { return max((a.curH-baseY)/lineHeight, 1) }

// maxCharsForText is the number of debug font characters that fit between
// x and the right edge.
func (a *App) maxCharsForText(x int) int { return max((a.curW-x)/charWidth, 1) }

func (a *App) truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func (a *App) wrapText(s string, n int) []string {
	var lines []string
	line := ""
	for _, w := range strings.Fields(s) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= n:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
