package ui

// Config contains window and viewer related settings.
type Config struct {
	Title         string // window title
	Scale         int    // integer upscaling factor
	Scene         string // builtin scene name or path to a .lua file
	ScenesDir     string // directory to browse for .lua scenes
	StateDir      string // directory holding the save state slots
	ScreenshotDir string
	// Later: fullscreen, key mapping.
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "bgview"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.Scene == "" {
		c.Scene = "parallax"
	}
	if c.ScenesDir == "" {
		c.ScenesDir = "scenes"
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
}
