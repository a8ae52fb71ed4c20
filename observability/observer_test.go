package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/statestack/observability"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  string
	}{
		{1, "TRACE"},
		{observability.LevelVerbose, "DEBUG"},
		{observability.LevelInfo, "INFO"},
		{observability.LevelWarning, "WARN"},
		{observability.LevelError, "ERROR"},
		{21, "FATAL"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String(), "level %d", tt.level)
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, observability.LevelVerbose.SlogLevel())
	assert.Equal(t, slog.LevelInfo, observability.LevelInfo.SlogLevel())
	assert.Equal(t, slog.LevelWarn, observability.LevelWarning.SlogLevel())
	assert.Equal(t, slog.LevelError, observability.LevelError.SlogLevel())
}

func TestSlogObserver_WritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "state.start",
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "machine-1",
		Data:      map[string]any{"state": "Menu", "depth": 1},
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "state.start", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "machine-1", rec["source"])
	assert.Equal(t, "Menu", rec["state"])
	assert.EqualValues(t, 1, rec["depth"])
}

func TestSlogObserver_RespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{Type: "state.pause", Level: observability.LevelVerbose})

	assert.Empty(t, buf.String())
}

func TestMultiObserver_FansOutAndSkipsNil(t *testing.T) {
	var a, b []observability.EventType
	first := observability.ObserverFunc(func(_ context.Context, e observability.Event) { a = append(a, e.Type) })
	second := observability.ObserverFunc(func(_ context.Context, e observability.Event) { b = append(b, e.Type) })

	multi := observability.NewMultiObserver(first, nil, second)
	multi.OnEvent(context.Background(), observability.Event{Type: "x"})
	multi.OnEvent(context.Background(), observability.Event{Type: "y"})

	assert.Equal(t, []observability.EventType{"x", "y"}, a)
	assert.Equal(t, []observability.EventType{"x", "y"}, b)
}

func TestLevelFilter(t *testing.T) {
	var got []observability.EventType
	next := observability.ObserverFunc(func(_ context.Context, e observability.Event) { got = append(got, e.Type) })

	f := observability.LevelFilter{Min: observability.LevelInfo, Next: next}
	f.OnEvent(context.Background(), observability.Event{Type: "debug", Level: observability.LevelVerbose})
	f.OnEvent(context.Background(), observability.Event{Type: "info", Level: observability.LevelInfo})
	f.OnEvent(context.Background(), observability.Event{Type: "error", Level: observability.LevelError})

	assert.Equal(t, []observability.EventType{"info", "error"}, got)

	// nil Next is a no-op
	observability.LevelFilter{}.OnEvent(context.Background(), observability.Event{Level: observability.LevelError})
}

func TestRegistry(t *testing.T) {
	obs, err := observability.GetObserver("noop")
	require.NoError(t, err)
	assert.IsType(t, observability.NoOpObserver{}, obs)

	_, err = observability.GetObserver("missing")
	require.ErrorIs(t, err, observability.ErrUnknownObserver)

	custom := observability.NoOpObserver{}
	observability.RegisterObserver("custom", custom)
	obs, err = observability.GetObserver("custom")
	require.NoError(t, err)
	assert.Equal(t, custom, obs)
}
