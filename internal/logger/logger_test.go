package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"LogonSessionStats/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitZapWritesErrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	lg, err := InitZap(&config.LoggingConfig{Level: "error", LogFile: path})
	if err != nil {
		t.Fatalf("InitZap: %v", err)
	}
	lg.Info("info message")
	lg.Error("error message")
	_ = lg.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "info message") {
		t.Error("info entries must not reach the file")
	}
	if !strings.Contains(string(data), "error message") {
		t.Error("error entries must reach the file")
	}
}

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lg, err := build(&config.LoggingConfig{Level: "warn"}, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	lg.Named("matcher").Info("hidden")
	lg.Named("matcher").Warn("shown", zap.Int("line", 7))
	_ = lg.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info must be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "matcher") || !strings.Contains(out, `"line": 7`) {
		t.Errorf("unexpected console output:\n%s", out)
	}
}

func TestSentryInitFailureKeepsLogger(t *testing.T) {
	var buf bytes.Buffer
	lg, err := build(&config.LoggingConfig{Level: "info", EnableSentry: true, SentryDSN: "not a dsn"}, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if lg == nil {
		t.Fatal("expected a logger")
	}
	if !strings.Contains(buf.String(), "Sentry") {
		t.Errorf("expected a warning about Sentry, got:\n%s", buf.String())
	}
}

func TestSentryHookIgnoresLowLevels(t *testing.T) {
	// без инициализированного клиента вызов безопасен
	if err := SentryHook(zapcore.Entry{Level: zapcore.InfoLevel}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
