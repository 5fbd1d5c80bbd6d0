package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("parsed") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("built registry") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("built registry") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("skipping file") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("checked", "files", 3)

	out := buf.String()
	for _, want := range []string{"checked", "files=3", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("done() output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext() should return the stored logger")
	}
	got.Info("session ready")
	if !strings.Contains(buf.String(), "session ready") {
		t.Errorf("stored logger wrote %q", buf.String())
	}
}
