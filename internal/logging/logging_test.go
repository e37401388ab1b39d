package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithOutputLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithOutput(Config{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewWithOutput: %v", err)
	}
	l.Info("hidden")
	l.WithField("slot", 2).Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"slot":2`) || !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("unexpected json output: %s", out)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := NewWithOutput(Config{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := NewWithOutput(Config{Level: "info", Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
