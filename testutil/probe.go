// Package testutil provides recording states for exercising a Machine in
// tests.
package testutil

import (
	"strings"

	"github.com/comalice/statestack"
)

// Hook names recorded in a Log.
const (
	HookStart  = "start"
	HookStop   = "stop"
	HookPause  = "pause"
	HookResume = "resume"
	HookUpdate = "update"
)

// Call is one recorded hook invocation.
type Call struct {
	State string
	Hook  string
}

func (c Call) String() string {
	return c.State + "." + c.Hook
}

// Log records hook calls across any number of probes, in call order.
type Log struct {
	calls []Call
}

func (l *Log) record(state, hook string) {
	l.calls = append(l.calls, Call{State: state, Hook: hook})
}

// Calls returns a copy of every recorded call.
func (l *Log) Calls() []Call {
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Count returns how many times state ran hook.
func (l *Log) Count(state, hook string) int {
	n := 0
	for _, c := range l.calls {
		if c.State == state && c.Hook == hook {
			n++
		}
	}
	return n
}

// Lifecycle returns every call except update, formatted "State.hook".
func (l *Log) Lifecycle() []string {
	out := []string{}
	for _, c := range l.calls {
		if c.Hook != HookUpdate {
			out = append(out, c.String())
		}
	}
	return out
}

// Reset forgets every call.
func (l *Log) Reset() {
	l.calls = l.calls[:0]
}

func (l *Log) String() string {
	parts := make([]string, len(l.calls))
	for i, c := range l.calls {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Probe is a state that records each hook into Log. OnUpdate, when set,
// supplies the transition returned by Update.
type Probe[S any] struct {
	Label    string
	Log      *Log
	OnUpdate func(data *S) statestack.Transition[S]
}

// NewProbe creates a probe recording into log.
func NewProbe[S any](label string, log *Log) *Probe[S] {
	return &Probe[S]{Label: label, Log: log}
}

// Returning sets the transitions returned by successive updates.
func (p *Probe[S]) Returning(ts ...statestack.Transition[S]) *Probe[S] {
	p.OnUpdate = Sequence(ts...)
	return p
}

func (p *Probe[S]) Name() string {
	return p.Label
}

func (p *Probe[S]) OnStart(*S)  { p.record(HookStart) }
func (p *Probe[S]) OnStop(*S)   { p.record(HookStop) }
func (p *Probe[S]) OnPause(*S)  { p.record(HookPause) }
func (p *Probe[S]) OnResume(*S) { p.record(HookResume) }

func (p *Probe[S]) Update(data *S) statestack.Transition[S] {
	p.record(HookUpdate)
	if p.OnUpdate == nil {
		return statestack.None[S]()
	}
	return p.OnUpdate(data)
}

func (p *Probe[S]) record(hook string) {
	if p.Log != nil {
		p.Log.record(p.Label, hook)
	}
}

// Sequence returns an update function yielding ts one per call, then None
// once the list is exhausted.
func Sequence[S any](ts ...statestack.Transition[S]) func(*S) statestack.Transition[S] {
	i := 0
	return func(*S) statestack.Transition[S] {
		if i >= len(ts) {
			return statestack.None[S]()
		}
		t := ts[i]
		i++
		return t
	}
}
