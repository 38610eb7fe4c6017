package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/config"
	"github.com/ewilliams-labs/stride/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Debug("debug message")
	logger.Sync() //nolint:errcheck // ignore sync errors on stderr
}

func TestJSONLoggerWritesStructuredFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "stride.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("suppressed")
	logger.Info("playlist built", zap.String("profile", "marathon"), zap.Int("tracks", 42))
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed") {
		t.Fatalf("debug entry written at info level: %q", content)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %d: %q", len(lines), content)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["msg"] != "playlist built" || entry["profile"] != "marathon" || entry["tracks"] != float64(42) {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["caller"]; ok {
		t.Fatalf("expected no caller at info level: %v", entry)
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		opts logging.Options
	}{
		{name: "level", opts: logging.Options{Level: "loud"}},
		{name: "format", opts: logging.Options{Format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := logging.New(tt.opts); err == nil {
				t.Fatalf("expected error for %+v", tt.opts)
			}
		})
	}
}
