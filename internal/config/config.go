// Package config reads the settings of the commands. Values come, in
// increasing precedence, from the flag defaults, an optional config file,
// PROG_* environment variables and the flags given on the command line.
package config

import (
	"flag"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
)

type Settings struct {
	Scene   string // builtin scene name or .lua path
	Log     logging.Config
	LogFile string

	// window
	Title         string
	Scale         int
	ScenesDir     string
	StateDir      string
	ScreenshotDir string

	// headless
	Headless  bool
	Frames    int
	PNGOut    string
	PNGScale  int
	Expect    string // expected framebuffer CRC32 (hex)
	Dump      bool   // print the final compositor state
	SaveState string

	Tick time.Duration // dashboard refresh period

	MaxItems   int
	PatchLimit int
	DMA        bool
	PanSpeed   int
	LimitFPS   bool
}

// Engine returns the engine configuration the settings describe.
func (s Settings) Engine() engine.Config {
	cfg := engine.Defaults()
	cfg.Bgs = bgs.Config{MaxItems: s.MaxItems, BigMapPatchLimit: s.PatchLimit, DMA: s.DMA}
	cfg.PanSpeed = s.PanSpeed
	cfg.LimitFPS = s.LimitFPS
	return cfg
}

func newFlagSet(prog string) *flag.FlagSet {
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	b := bgs.Defaults()
	e := engine.Defaults()
	l := logging.Defaults()
	fs.String("config", "", "optional config file (yaml, toml or json)")
	fs.String("scene", "parallax", "builtin scene name or path to a .lua scene")
	fs.String("log-level", l.Level, "log level")
	fs.String("log-format", l.Format, "log format: text or json")
	fs.String("log-file", "", "write logs to this file instead of stderr")

	fs.String("title", prog, "window title")
	fs.Int("scale", 3, "window and screenshot scale")
	fs.String("scenes-dir", "scenes", "directory listed by the scene menu")
	fs.String("state-dir", ".", "directory for save state slots")
	fs.String("screenshot-dir", ".", "directory for screenshots")

	fs.Bool("headless", false, "run without a window")
	fs.Int("frames", 300, "frames to run in headless mode")
	fs.String("outpng", "", "write last framebuffer to PNG at path")
	fs.Int("png-scale", 1, "scale of the PNG written by -outpng")
	fs.String("expect", "", "assert framebuffer CRC32 (hex)")
	fs.Bool("dump", false, "print the compositor state after the run")
	fs.String("save-state", "", "write a save state after the run")

	fs.Duration("tick", 33*time.Millisecond, "dashboard refresh period")

	fs.Int("max-items", b.MaxItems, "number of layers that can exist at once")
	fs.Int("patch-limit", b.BigMapPatchLimit, "largest big map jump patched incrementally, in tiles")
	fs.Bool("dma", b.DMA, "commit registers with one bulk copy")
	fs.Int("pan-speed", e.PanSpeed, "camera pixels per frame for the direction keys")
	fs.Bool("limit-fps", false, "throttle to ~60 frames per second")
	return fs
}

// Load parses args for the command prog. A positional argument names the scene.
func Load(prog string, args []string) (Settings, error) {
	fs := newFlagSet(prog)
	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}

	v := viper.New()
	fs.VisitAll(func(f *flag.Flag) {
		v.SetDefault(f.Name, f.Value.(flag.Getter).Get())
	})
	v.SetEnvPrefix(strings.ToUpper(prog))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := fs.Lookup("config").Value.String()
	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrapf(err, "read config %s", path)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		v.Set(f.Name, f.Value.(flag.Getter).Get())
	})
	if fs.NArg() > 0 {
		v.Set("scene", fs.Arg(0))
	}

	s := Settings{
		Scene:         v.GetString("scene"),
		Log:           logging.Config{Level: v.GetString("log-level"), Format: v.GetString("log-format")},
		LogFile:       v.GetString("log-file"),
		Title:         v.GetString("title"),
		Scale:         v.GetInt("scale"),
		ScenesDir:     v.GetString("scenes-dir"),
		StateDir:      v.GetString("state-dir"),
		ScreenshotDir: v.GetString("screenshot-dir"),
		Headless:      v.GetBool("headless"),
		Frames:        v.GetInt("frames"),
		PNGOut:        v.GetString("outpng"),
		PNGScale:      v.GetInt("png-scale"),
		Expect:        v.GetString("expect"),
		Dump:          v.GetBool("dump"),
		SaveState:     v.GetString("save-state"),
		Tick:          v.GetDuration("tick"),
		MaxItems:      v.GetInt("max-items"),
		PatchLimit:    v.GetInt("patch-limit"),
		DMA:           v.GetBool("dma"),
		PanSpeed:      v.GetInt("pan-speed"),
		LimitFPS:      v.GetBool("limit-fps"),
	}
	return s, s.validate()
}

func (s Settings) validate() error {
	switch {
	case s.Scene == "":
		return errors.New("no scene given")
	case s.Scale < 1:
		return errors.Errorf("invalid scale %d", s.Scale)
	case s.PNGScale < 1:
		return errors.Errorf("invalid png scale %d", s.PNGScale)
	case s.Frames < 1:
		return errors.Errorf("invalid frame count %d", s.Frames)
	case s.MaxItems < 1:
		return errors.Errorf("invalid max items %d", s.MaxItems)
	case s.PatchLimit < 0:
		return errors.Errorf("invalid patch limit %d", s.PatchLimit)
	case s.Tick <= 0:
		return errors.Errorf("invalid tick %s", s.Tick)
	}
	return nil
}
