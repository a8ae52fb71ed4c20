package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/statestack"
	"github.com/comalice/statestack/internal/production"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRunCompletesSession(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.yaml")
	dot := filepath.Join(dir, "session.dot")

	out, _, err := execute(t, "run", "--tick-rate", "1ms", "--id", "arcade", "--trace", trace, "--dot", dot)
	require.NoError(t, err)

	assert.Contains(t, out, "title: press start")
	assert.Contains(t, out, "game over: score=75 pauses=7")
	assert.Contains(t, out, "finished after 104 ticks: score=75 lives=0 pauses=7 transitions=18")

	f, err := os.Open(trace)
	require.NoError(t, err)
	defer f.Close()
	tr, err := production.ReadTrace(f)
	require.NoError(t, err)
	require.Len(t, tr.Transitions, 18)
	assert.Equal(t, "push", tr.Transitions[0].Kind)
	assert.Equal(t, "title", tr.Transitions[0].To)
	assert.Equal(t, "arcade", tr.Transitions[0].Source)
	last := tr.Transitions[len(tr.Transitions)-1]
	assert.Equal(t, "quit", last.Kind)
	assert.Equal(t, "game-over", last.From)

	graph, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(graph), `"arena" -> "pause" [label="push x7"];`)
	assert.Contains(t, string(graph), `"title" -> "arena" [label="switch"];`)
}

func TestRunTickLimitFlag(t *testing.T) {
	out, _, err := execute(t, "run", "--tick-rate", "1ms", "--ticks", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "finished after 10 ticks: score=7")
}

func TestRunJSONTrace(t *testing.T) {
	trace := filepath.Join(t.TempDir(), "trace.json")
	_, _, err := execute(t, "run", "--tick-rate", "1ms", "--ticks", "4", "--trace", trace)
	require.NoError(t, err)

	data, err := os.ReadFile(trace)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))
	assert.Contains(t, string(data), `"kind": "switch"`)
}

func TestRunConfigFileAndPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`tick_rate = "1ms"
max_ticks = 20
log_level = "warn"

[machine]
id = "from-file"
switch_mode = "all"
`), 0o644))

	out, _, err := execute(t, "run", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "finished after 20 ticks")

	out, _, err = execute(t, "run", "--config", path, "--ticks", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "finished after 5 ticks")
}

func TestRunEnvOverridesDefaults(t *testing.T) {
	t.Setenv("STATESTACK_MAX_TICKS", "6")
	t.Setenv("STATESTACK_TICK_RATE", "1ms")

	out, _, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "finished after 6 ticks")
}

func TestRunLogsMachineEvents(t *testing.T) {
	_, logs, err := execute(t, "run", "--tick-rate", "1ms", "--ticks", "3", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"machine.started"`)
	assert.Contains(t, logs, `"msg":"runner.finished"`)
	assert.NotContains(t, logs, `"msg":"state.start"`, "verbose events hidden at info level")
}

func TestRunRejectsBadSettings(t *testing.T) {
	_, _, err := execute(t, "run", "--switch-mode", "sideways")
	require.ErrorIs(t, err, statestack.ErrUnknownSwitchMode)

	_, _, err = execute(t, "run", "--log-format", "xml")
	require.Error(t, err)

	_, _, err = execute(t, "run", "--log-level", "loud")
	require.Error(t, err)

	_, _, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "statestack-demo "+Version+"\n", out)
}
