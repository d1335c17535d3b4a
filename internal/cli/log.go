package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Board ready (3ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports board, listener and store events through the CLI logger.
// Toggles log at info so a default run shows board activity; the listener
// already logs message contents itself.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks as the process-wide hooks.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetBoardHooks(h)
	observability.SetListenerHooks(h)
	observability.SetStoreHooks(h)
}

func (h logHooks) OnToggle(index int, marked bool, source string) {
	h.logger.Info("cell toggled", "index", index, "marked", marked, "source", source)
}

func (h logHooks) OnRebuild(cells int) {
	h.logger.Debug("board rebuilt", "cells", cells)
}

func (h logHooks) OnConnect(_ context.Context, connID string) {
	h.logger.Debug("control client connected", "conn", connID)
}

func (h logHooks) OnMessage(context.Context, string, string, bool) {}

func (h logHooks) OnDisconnect(_ context.Context, connID string, d time.Duration, err error) {
	h.logger.Debug("control client disconnected", "conn", connID, "after", d.Round(time.Microsecond), "err", err)
}

func (h logHooks) OnLoad(_ context.Context, backend, key string, found bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load board state", "backend", backend, "key", key, "err", err)
		return
	}
	h.logger.Debug("loaded board state", "backend", backend, "key", key, "found", found, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnSave(_ context.Context, backend, key string, d time.Duration, err error) {
	if err != nil {
		return // the persister already logs failed saves
	}
	h.logger.Debug("saved board state", "backend", backend, "key", key, "took", d.Round(time.Microsecond))
}
