package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseLevel(%q) error = nil, want non-nil", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Config{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("loaded", FieldCollection, "budget")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("log lines = %d, want 1: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["msg"] != "loaded" || record[FieldCollection] != "budget" || record[FieldComponent] != ComponentApp {
		t.Fatalf("record = %v, want msg/collection/component", record)
	}
	if ts, _ := record["time"].(string); !strings.Contains(ts, "T") || strings.Contains(ts, ".") {
		t.Fatalf("time = %q, want RFC3339 without fraction", ts)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Config{Format: "xml"}); err == nil {
		t.Fatal("New() error = nil, want non-nil")
	}
}

func TestDebugAddsShortSource(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Config{Level: "debug", Format: "text"})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	logger.Debug("probe")
	if !strings.Contains(buf.String(), "source=logger_test.go:") {
		t.Fatalf("output = %q, want short source", buf.String())
	}
}

func TestOpenFileCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fintrack.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	defer f.Close()
	if f.Name() != path {
		t.Fatalf("Name() = %q, want %q", f.Name(), path)
	}
}
