package common

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppLogger_LogFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := &AppLogger{
		level:  LevelWarn,
		output: &buf,
		logger: log.New(&buf, "", 0),
	}

	logger.Debug("debug message")
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is Warn")
	}

	logger.Warn("warn message")
	if !strings.Contains(buf.String(), "WARN") {
		t.Error("Warn message should be logged")
	}

	buf.Reset()
	logger.Error("error message")
	if !strings.Contains(buf.String(), "ERROR") {
		t.Error("Error message should be logged")
	}
}

func TestAppLogger_Formatting(t *testing.T) {
	var buf bytes.Buffer

	logger := &AppLogger{
		level:  LevelDebug,
		output: &buf,
		logger: log.New(&buf, "", 0),
	}

	logger.Info("profile: Failed to sync config (%d)", 404)

	out := buf.String()
	if !strings.Contains(out, "profile: Failed to sync config (404)") {
		t.Errorf("formatted message missing from output: %q", out)
	}
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("level tag missing from output: %q", out)
	}
}

func TestAppLogger_ConcurrentSetLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := &AppLogger{
		level:  LevelInfo,
		output: &buf,
		logger: log.New(&buf, "", 0),
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			logger.Info("message %d", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			logger.SetLevel(LevelDebug)
			logger.SetLevel(LevelInfo)
		}
	}()

	wg.Wait()
}

func TestWrapf(t *testing.T) {
	tests := []struct {
		name string
		kind error
	}{
		{"read", ErrRead},
		{"write", ErrWrite},
		{"remove", ErrRemove},
		{"parse", ErrParse},
		{"process", ErrProcess},
		{"auth", ErrAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrapf(tt.kind, "profile: Failed to %s (%s)", tt.name, "cause")
			if !errors.Is(err, tt.kind) {
				t.Errorf("errors.Is(err, %v) = false, want true", tt.kind)
			}
			want := "profile: Failed to " + tt.name + " (cause)"
			if err.Error() != want {
				t.Errorf("Error() = %q, want %q", err.Error(), want)
			}
		})
	}
}
