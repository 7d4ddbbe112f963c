package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesJSONFileAndConsole(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "goalplan.log")
	console := &bytes.Buffer{}
	logger, err := New(Options{File: path, Level: "debug", Console: console})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("objective status updated", zap.Int64("goal_id", 12))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"goal_id":12`) || !strings.Contains(string(raw), `"msg":"objective status updated"`) {
		t.Fatalf("expected JSON entry in log file, got %s", raw)
	}
	if !strings.Contains(console.String(), "objective status updated") {
		t.Fatalf("expected console mirror, got %q", console.String())
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "goalplan.log")
	logger, err := New(Options{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "hidden") || !strings.Contains(string(raw), "shown") {
		t.Fatalf("unexpected level filtering: %s", raw)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	t.Parallel()
	if _, err := New(Options{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
