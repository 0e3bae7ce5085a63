// Package runctx carries per-export identity through a context.
package runctx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type key int

const runKey key = 0

// RunContext identifies one export run
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRunContext attaches a fresh run id and start time to ctx
func WithRunContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	})
}

// FromContext returns the run attached to ctx, or a placeholder
func FromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns logger annotated with the run id from ctx
func Logger(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	return logger.With().Str("run_id", FromContext(ctx).RunID).Logger()
}

// RunError wraps an error with the run that produced it
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError tags err with the run id from ctx. A nil err stays nil.
func NewRunError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{
		RunID: FromContext(ctx).RunID,
		Err:   err,
	}
}
