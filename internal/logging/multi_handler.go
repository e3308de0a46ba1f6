package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans each record out to several handlers, so one run can log
// to the colorized terminal and a JSON file at the same time.
type MultiHandler struct {
	targets []slog.Handler
}

// NewMultiHandler returns a handler dispatching to every target.
func NewMultiHandler(targets ...slog.Handler) *MultiHandler {
	return &MultiHandler{targets: targets}
}

// Enabled reports whether any target would accept a record at this level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range h.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every enabled target. Each target gets its own
// clone, since handlers are allowed to retain the record. All failures are
// reported, joined.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, t := range h.targets {
		if !t.Enabled(ctx, r.Level) {
			continue
		}
		if err := t.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs derives every target with the given attributes.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make([]slog.Handler, len(h.targets))
	for i, t := range h.targets {
		derived[i] = t.WithAttrs(attrs)
	}
	return NewMultiHandler(derived...)
}

// WithGroup derives every target with the given group.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	derived := make([]slog.Handler, len(h.targets))
	for i, t := range h.targets {
		derived[i] = t.WithGroup(name)
	}
	return NewMultiHandler(derived...)
}
