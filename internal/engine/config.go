package engine

import "github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"

// Config contains settings that affect how frames are produced.
type Config struct {
	Bgs      bgs.Config
	Render   bool // rasterize a framebuffer at the end of every frame
	LimitFPS bool // throttle to ~60 Hz (headless runs leave it off)
	PanSpeed int  // camera pixels per frame moved by the direction buttons
}

func Defaults() Config {
	return Config{
		Bgs:      bgs.Defaults(),
		Render:   true,
		PanSpeed: 2,
	}
}
