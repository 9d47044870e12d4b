package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/dshills/chronicle/internal/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, config.Log{Level: "info", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("hidden")
	logger.Info("shown", "position", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["position"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, config.Log{Level: "debug", Format: "text"})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("undo", "position", 1)
	if !strings.Contains(buf.String(), "msg=undo") || !strings.Contains(buf.String(), "position=1") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.Log{Level: "chatty"}); err == nil {
		t.Error("New() should reject an unknown level")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() logger should not be enabled")
	}
}
