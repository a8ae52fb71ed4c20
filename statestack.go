// Package statestack implements a generic stack-based state machine.
//
// The machine holds a stack of states and exactly one of them, the top, is
// active. On every tick the caller runs Update with its shared data; the top
// state does its work and answers with a Transition that the machine applies
// to the stack, calling the lifecycle hooks of every state it touches.
//
//	var m statestack.Machine[Game]
//	game := Game{}
//	m.Push(&Menu{}, &game)
//	for m.IsRunning() {
//		m.Update(&game)
//	}
//
// The machine does no timing, locking or validation. It is meant to be
// driven by a single goroutine; see the realtime package for a fixed-rate
// driver.
package statestack

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/statestack/observability"
)

// Event types emitted to the configured observer.
const (
	EventStateStart     observability.EventType = "state.start"
	EventStateStop      observability.EventType = "state.stop"
	EventStatePause     observability.EventType = "state.pause"
	EventStateResume    observability.EventType = "state.resume"
	EventTransition     observability.EventType = "machine.transition"
	EventMachineStarted observability.EventType = "machine.started"
	EventMachineStopped observability.EventType = "machine.stopped"
)

// Machine is a stack of states over shared data of type S.
// The zero value is an empty machine ready to use.
type Machine[S any] struct {
	stack []State[S]

	id         string
	observer   observability.Observer
	switchMode SwitchMode
}

// New creates an empty machine. Without WithID the machine gets a random
// UUID.
func New[S any](opts ...Option) *Machine[S] {
	o := options{id: uuid.NewString()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Machine[S]{
		id:         o.id,
		observer:   o.observer,
		switchMode: o.switchMode,
	}
}

//
// Public API
//

// ID returns the machine identifier. Empty for a zero-value machine.
func (m *Machine[S]) ID() string {
	return m.id
}

// IsRunning reports whether the stack holds any state.
func (m *Machine[S]) IsRunning() bool {
	return len(m.stack) > 0
}

// Depth returns the number of states on the stack.
func (m *Machine[S]) Depth() int {
	return len(m.stack)
}

// Update runs the top state and applies the transition it returns.
// It does nothing on a stopped machine.
func (m *Machine[S]) Update(data *S) {
	top := m.top()
	if top == nil {
		return
	}
	m.Apply(top.Update(data), data)
}

// Push pauses the current top state, if any, and starts state on top of it.
// Use it to seed the first state before the tick loop. A nil state is
// ignored.
func (m *Machine[S]) Push(state State[S], data *S) {
	if state == nil {
		return
	}
	from := m.top()
	m.push(state, data)
	m.transitioned(KindPush, from)
}

// Stop removes every state, top to bottom, calling OnStop on each.
func (m *Machine[S]) Stop(data *S) {
	if len(m.stack) == 0 {
		return
	}
	from := m.top()
	m.drain(data)
	m.transitioned(KindQuit, from)
}

// Apply performs a transition as if the top state had returned it.
func (m *Machine[S]) Apply(t Transition[S], data *S) {
	from := m.top()

	switch t.kind {
	case KindPop:
		if from == nil {
			return
		}
		m.pop(data)
	case KindPush:
		m.push(t.state, data)
	case KindSwitch:
		m.switchTo(t.state, data)
	case KindQuit:
		if from == nil {
			return
		}
		m.drain(data)
	default:
		return
	}

	m.transitioned(t.kind, from)
}

//
// Stack operations (internal API)
//

func (m *Machine[S]) top() State[S] {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// remove takes the top state off the stack and clears its slot.
func (m *Machine[S]) remove() State[S] {
	n := len(m.stack) - 1
	state := m.stack[n]
	m.stack[n] = nil
	m.stack = m.stack[:n]
	return state
}

func (m *Machine[S]) push(state State[S], data *S) {
	if state == nil {
		return
	}
	if top := m.top(); top != nil {
		top.OnPause(data)
		m.emit(EventStatePause, top)
	}
	state.OnStart(data)
	m.stack = append(m.stack, state)
	m.emit(EventStateStart, state)
}

func (m *Machine[S]) pop(data *S) {
	if len(m.stack) == 0 {
		return
	}
	m.stopTop(data)
	if top := m.top(); top != nil {
		top.OnResume(data)
		m.emit(EventStateResume, top)
	}
}

// switchTo replaces the top state, or the whole stack in SwitchAll mode.
// Nothing beneath the replaced states is paused or resumed.
func (m *Machine[S]) switchTo(state State[S], data *S) {
	if state == nil {
		return
	}
	if m.switchMode == SwitchAll {
		m.drain(data)
	} else if len(m.stack) > 0 {
		m.stopTop(data)
	}
	state.OnStart(data)
	m.stack = append(m.stack, state)
	m.emit(EventStateStart, state)
}

func (m *Machine[S]) drain(data *S) {
	for len(m.stack) > 0 {
		m.stopTop(data)
	}
}

func (m *Machine[S]) stopTop(data *S) {
	state := m.remove()
	state.OnStop(data)
	m.emit(EventStateStop, state)
}

//
// Observability
//

func (m *Machine[S]) emit(typ observability.EventType, state State[S]) {
	if m.observer == nil {
		return
	}
	m.observer.OnEvent(context.Background(), observability.Event{
		Type:      typ,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    m.id,
		Data: map[string]any{
			"state": StateName(state),
			"depth": len(m.stack),
		},
	})
}

// transitioned reports an applied transition, plus the running/stopped
// phase change it caused, if any.
func (m *Machine[S]) transitioned(kind TransitionKind, from State[S]) {
	if m.observer == nil {
		return
	}
	ctx := context.Background()
	now := time.Now()
	to := m.top()

	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventTransition,
		Level:     observability.LevelVerbose,
		Timestamp: now,
		Source:    m.id,
		Data: map[string]any{
			"kind":  kind.String(),
			"from":  StateName(from),
			"to":    StateName(to),
			"depth": len(m.stack),
		},
	})

	switch {
	case from == nil && to != nil:
		m.observer.OnEvent(ctx, observability.Event{
			Type:      EventMachineStarted,
			Level:     observability.LevelInfo,
			Timestamp: now,
			Source:    m.id,
			Data:      map[string]any{"state": StateName(to)},
		})
	case from != nil && to == nil:
		m.observer.OnEvent(ctx, observability.Event{
			Type:      EventMachineStopped,
			Level:     observability.LevelInfo,
			Timestamp: now,
			Source:    m.id,
			Data:      map[string]any{"last": StateName(from)},
		})
	}
}
