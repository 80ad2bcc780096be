package debug

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpcf/lineage/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"chatty", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "template", "/a/page.tmpl")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Info should be filtered at warn level")
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "template=/a/page.tmpl") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestNewLoggerJSONWithFile(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "lineage.log")

	logger, closer, err := NewLogger(config.LogConfig{
		Level:     "info",
		Format:    "json",
		File:      logFile,
		MaxSizeMB: 1,
	}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("rendered", "count", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "rendered" || entry["count"] != float64(3) {
		t.Errorf("Unexpected entry %v", entry)
	}

	fileContent, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Expected log file to be written: %v", err)
	}
	if !bytes.Equal(fileContent, buf.Bytes()) {
		t.Errorf("File and writer output differ:\n%s\n%s", fileContent, buf.Bytes())
	}
}

func TestNewLoggerRejectsUnknownFormat(t *testing.T) {
	if _, _, err := NewLogger(config.LogConfig{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unknown format")
	}
}
