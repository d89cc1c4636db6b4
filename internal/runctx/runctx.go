// Package runctx carries the per-process run identity. A RunContext is
// created once at startup, read-only afterwards, and threaded through the
// pipeline instead of living in a mutable global.
package runctx

import (
	"context"
	"time"

	"forex-agent/internal/id"
)

type RunContext struct {
	RunID     string
	Mode      string // DRY_RUN or LIVE
	StartedAt time.Time
}

func New(mode string) RunContext {
	return RunContext{
		RunID:     id.New(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
}

type ctxKey struct{}

// WithRun attaches the run context for loggers and journal writers downstream.
func WithRun(ctx context.Context, rc RunContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the run context, or a zero value when absent (tests).
func FromContext(ctx context.Context) RunContext {
	if rc, ok := ctx.Value(ctxKey{}).(RunContext); ok {
		return rc
	}
	return RunContext{}
}
