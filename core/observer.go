package core

import (
	"log/slog"
	"time"
)

// AttemptEvent describes the outcome of one attempt within an invocation.
type AttemptEvent struct {
	// InvocationID is a unique identifier shared by all events of one
	// Invoke call.
	InvocationID string

	Provider string
	Tool     string

	// Attempt is 1-indexed.
	Attempt int

	// Outcome is one of "success", "tool_miss", "overloaded", "fatal".
	Outcome string

	// Delay is the backoff slept before the NEXT attempt, zero when no
	// backoff applies.
	Delay time.Duration

	Duration time.Duration
	Err      error
}

// DoneEvent describes the completion of an invocation.
type DoneEvent struct {
	InvocationID string
	Provider     string
	Tool         string
	Attempts     int
	Duration     time.Duration
	Err          error
}

// Observer receives informational events for each attempt and on
// completion. Observers are side-effect only: they are not part of the
// correctness contract and must not panic or block for long.
type Observer interface {
	OnAttempt(AttemptEvent)
	OnDone(DoneEvent)
}

// NoopObserver is an Observer that discards all events.
type NoopObserver struct{}

func (NoopObserver) OnAttempt(AttemptEvent) {}
func (NoopObserver) OnDone(DoneEvent)       {}

// SlogObserver logs attempt and completion events through a slog.Logger.
type SlogObserver struct {
	Logger *slog.Logger
}

// NewSlogObserver returns an Observer that logs to l, or to
// slog.Default() when l is nil.
func NewSlogObserver(l *slog.Logger) SlogObserver {
	if l == nil {
		l = slog.Default()
	}
	return SlogObserver{Logger: l}
}

func (o SlogObserver) OnAttempt(e AttemptEvent) {
	attrs := []any{
		"invocation", e.InvocationID,
		"provider", e.Provider,
		"tool", e.Tool,
		"attempt", e.Attempt,
		"outcome", e.Outcome,
		"duration", e.Duration,
	}
	if e.Delay > 0 {
		attrs = append(attrs, "backoff", e.Delay)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err.Error())
		o.Logger.Warn("ai attempt", attrs...)
		return
	}
	o.Logger.Info("ai attempt", attrs...)
}

func (o SlogObserver) OnDone(e DoneEvent) {
	attrs := []any{
		"invocation", e.InvocationID,
		"provider", e.Provider,
		"tool", e.Tool,
		"attempts", e.Attempts,
		"duration", e.Duration,
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err.Error())
		o.Logger.Error("ai invocation failed", attrs...)
		return
	}
	o.Logger.Info("ai invocation succeeded", attrs...)
}
