package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}
	return entry
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	t.Run("debug not logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug message")
		if buf.Len() > 0 {
			t.Error("Debug message should not be logged at Info level")
		}
	})

	t.Run("info logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Info("info message")
		entry := decode(t, &buf)
		if entry["level"] != "INFO" {
			t.Errorf("Expected level INFO, got %v", entry["level"])
		}
		if entry["msg"] != "info message" {
			t.Errorf("Expected message 'info message', got %v", entry["msg"])
		}
	})

	t.Run("warn and error logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Warn("warn message")
		logger.Error("error message")
		if strings.Count(buf.String(), "\n") != 2 {
			t.Errorf("Expected two records, got %q", buf.String())
		}
	})
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf)

	logger.WithFields(map[string]interface{}{"file": "a.cc", "line": 3}).
		WithError(errors.New("boom")).
		Debugf("checked %d includes", 4)

	entry := decode(t, &buf)
	if entry["file"] != "a.cc" {
		t.Errorf("Expected file field, got %v", entry["file"])
	}
	if entry["line"] != float64(3) {
		t.Errorf("Expected line 3, got %v", entry["line"])
	}
	if entry["error"] != "boom" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
	if entry["msg"] != "checked 4 includes" {
		t.Errorf("Expected formatted message, got %v", entry["msg"])
	}
}

func TestLogger_WithNilError(t *testing.T) {
	logger := NopLogger()
	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	NewTextLogger(InfoLevel, &buf).WithField("file", "a.cc").Info("linted")
	out := buf.String()
	if !strings.Contains(out, "msg=linted") || !strings.Contains(out, "file=a.cc") {
		t.Errorf("Unexpected text output: %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"warn":    WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" {
		t.Error("Expected empty run id")
	}
	if GetLogger(ctx) == nil {
		t.Fatal("GetLogger should never return nil")
	}

	var buf bytes.Buffer
	ctx = WithLogger(ctx, NewLogger(InfoLevel, &buf))
	ctx = WithRunID(ctx, "run-123")

	FromContext(ctx).Info("hello")
	entry := decode(t, &buf)
	if entry["run_id"] != "run-123" {
		t.Errorf("Expected run_id run-123, got %v", entry["run_id"])
	}
}
