// Package observability carries lifecycle and transition events out of a
// state machine. Level values follow OpenTelemetry severity numbers so an
// event can be handed to an OTel pipeline without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG range
	LevelInfo    Level = 9  // OTel INFO range
	LevelWarning Level = 13 // OTel WARN range
	LevelError   Level = 17 // OTel ERROR range
)

func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps the level onto log/slog.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event, e.g. "state.start" or "runner.tick".
type EventType string

// Event is a single observation. Source identifies the emitting machine or
// runner; Data holds flat attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events. Implementations are called synchronously from
// the machine's goroutine and should return quickly.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}
