package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("Board ready")

	if !strings.Contains(buf.String(), "Board ready (") {
		t.Errorf("progress.done() output = %q", buf.String())
	}
}

func TestLogHooks(t *testing.T) {
	defer observability.Reset()
	var buf bytes.Buffer
	registerLogHooks(newLogger(&buf, log.InfoLevel))

	observability.Board().OnToggle(7, true, "address")
	observability.Listener().OnConnect(context.Background(), "conn-1")
	observability.Store().OnLoad(context.Background(), "file", "default", false, time.Millisecond, nil)

	out := buf.String()
	if !strings.Contains(out, "cell toggled") || !strings.Contains(out, "index=7") {
		t.Errorf("toggle not logged at info: %q", out)
	}
	if strings.Contains(out, "conn-1") || strings.Contains(out, "loaded board state") {
		t.Errorf("debug events leaked at info level: %q", out)
	}
}
