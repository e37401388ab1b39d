// Command bgscope runs a scene in the terminal and shows the layer list,
// the committed registers and VRAM usage next to a coarse frame preview.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assets"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/config"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/inspect"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/script"
)

func main() {
	s, err := config.Load("bgscope", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// the terminal belongs to the dashboard; logs go to a file when asked
	out := io.Discard
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

	core := engine.New(s.Engine(), log)
	if err := core.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	scene, err := script.Open(s.Scene, core, assets.NewLibrary(core.VRAM()), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
	core.SetScene(scene)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	inspect.New(screen, core, log).Run(s.Tick)

	screen.Fini()
	scene.Close()
	core.Stop()
	log.WithField("frames", core.Frame()).Info("bgscope done")
}
