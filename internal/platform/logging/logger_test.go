package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestNewJSONWriter_WritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)

	logger.Info("profile updated", "user_id", "user-1", "error", errors.New("boom"))
	logger.Debug("dropped below level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "profile updated" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["user_id"] != "user-1" {
		t.Fatalf("unexpected user_id: %v", entry["user_id"])
	}
	if entry["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", entry["error"])
	}
}

func TestZapFields_OddArgs(t *testing.T) {
	fields := zapFields([]any{"a", 1, 42, "b", "dangling"})
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[1].Key != "arg" {
		t.Fatalf("expected non-string key to become arg, got %q", fields[1].Key)
	}
	if fields[2].Key != "dangling" {
		t.Fatalf("expected dangling key, got %q", fields[2].Key)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected non-nil logger from nil receiver")
	}
}
