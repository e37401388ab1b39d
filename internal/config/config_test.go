package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/bgs"
)

func TestDefaults(t *testing.T) {
	s, err := Load("bgview", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Scene != "parallax" || s.Scale != 3 || s.Frames != 300 || s.Title != "bgview" {
		t.Fatalf("settings = %+v", s)
	}
	if s.Tick != 33*time.Millisecond {
		t.Fatalf("tick = %s", s.Tick)
	}
	if got := s.Engine().Bgs; got != bgs.Defaults() {
		t.Fatalf("bgs config = %+v", got)
	}
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bgview.yaml")
	if err := os.WriteFile(path, []byte("scale: 2\nframes: 10\nmax-items: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BGVIEW_FRAMES", "20")
	t.Setenv("BGVIEW_PAN_SPEED", "5")

	s, err := Load("bgview", []string{"-config", path, "-frames", "30", "world"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Scale != 2 || s.MaxItems != 3 {
		t.Fatalf("config file ignored: %+v", s)
	}
	if s.PanSpeed != 5 {
		t.Fatalf("env ignored: pan speed %d", s.PanSpeed)
	}
	if s.Frames != 30 {
		t.Fatalf("flag should win: frames %d", s.Frames)
	}
	if s.Scene != "world" {
		t.Fatalf("positional scene = %q", s.Scene)
	}
}

func TestInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"-scale", "0"},
		{"-frames", "-1"},
		{"-max-items", "0"},
		{"-config", "/nonexistent/bgview.yaml"},
		{"-nope"},
	} {
		if _, err := Load("bgview", args); err == nil {
			t.Fatalf("%s accepted", strings.Join(args, " "))
		}
	}
}
