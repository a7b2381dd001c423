package utils

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerTextAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewLogger("debug", false, &buf), "dataset")
	logger.Debug("loaded", slog.Int("records", 56))

	out := buf.String()
	if !strings.Contains(out, "component=dataset") || !strings.Contains(out, "records=56") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestNewLoggerJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", true, &buf)
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info record should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("expected JSON warn record, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAppErrorWrapsCause(t *testing.T) {
	err := NewAppError("dataset.load", "read source", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if got := err.Error(); got != "dataset.load: read source: file does not exist" {
		t.Fatalf("unexpected message: %s", got)
	}
	if op := OpOf(err); op != "dataset.load" {
		t.Fatalf("unexpected op: %q", op)
	}
	if op := OpOf(errors.New("plain")); op != "" {
		t.Fatalf("expected empty op for plain error, got %q", op)
	}
}
