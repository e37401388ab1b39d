package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assert"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assets"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/config"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/inspect"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/render"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/script"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/ui"
)

func runHeadless(s config.Settings, log logrus.FieldLogger) (err error) {
	// fatal compositor checks end the run with an error instead of a panic
	defer assert.Recover(&err)

	core := engine.New(s.Engine(), log)
	if err := core.Init(); err != nil {
		return err
	}
	defer core.Stop()
	scene, err := script.Open(s.Scene, core, assets.NewLibrary(core.VRAM()), log)
	if err != nil {
		return err
	}
	defer scene.Close()
	core.SetScene(scene)

	start := time.Now()
	for i := 0; i < s.Frames; i++ {
		if err := core.StepFrame(); err != nil {
			return err
		}
	}
	dur := time.Since(start)

	fb := core.Framebuffer()
	crc := render.Checksum(fb)
	log.WithFields(logrus.Fields{
		"frames":   s.Frames,
		"elapsed":  dur.Truncate(time.Millisecond),
		"fps":      fmt.Sprintf("%.2f", float64(s.Frames)/dur.Seconds()),
		"fb_crc32": fmt.Sprintf("%08x", crc),
		"layers":   scene.Layers(),
	}).Info("headless run done")

	if s.Dump {
		spew.Fdump(os.Stdout, inspect.Take(core))
	}
	if s.PNGOut != "" {
		if err := render.SavePNG(s.PNGOut, fb, s.PNGScale); err != nil {
			return err
		}
		log.WithField("path", s.PNGOut).Info("wrote PNG")
	}
	if s.SaveState != "" {
		if err := core.SaveStateToFile(s.SaveState); err != nil {
			return err
		}
		log.WithField("path", s.SaveState).Info("wrote save state")
	}
	if s.Expect != "" {
		// allow with/without 0x, upper/lowercase
		want := strings.TrimPrefix(strings.ToLower(s.Expect), "0x")
		if got := fmt.Sprintf("%08x", crc); got != want {
			return errors.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func main() {
	s, err := config.Load("bgview", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	out := io.Writer(os.Stderr)
	if s.LogFile != "" {
		f, err := os.Create(s.LogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log, err := logging.NewWithOutput(s.Log, out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if s.Headless {
		if err := runHeadless(s, log); err != nil {
			log.Fatalf("%+v", err)
		}
		return
	}

	uiCfg := ui.Config{
		Title:         s.Title,
		Scale:         s.Scale,
		Scene:         s.Scene,
		ScenesDir:     s.ScenesDir,
		StateDir:      s.StateDir,
		ScreenshotDir: s.ScreenshotDir,
	}
	app, err := ui.NewApp(uiCfg, s.Engine(), log)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
