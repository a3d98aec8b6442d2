package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Info("engraving", "voices", 2)

	out := buf.String()
	if out == "" {
		t.Fatal("logger should have written output")
	}
	if !strings.Contains(out, "engraving") {
		t.Errorf("output missing message: %q", out)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("formatted") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("tick walk") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("tick walk") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	time.Sleep(10 * time.Millisecond)
	prog.done("engraved etude")

	out := buf.String()
	if !strings.Contains(out, "engraved etude") {
		t.Errorf("progress output missing message: %q", out)
	}
}
