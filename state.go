package statestack

import (
	"fmt"
	"reflect"
)

// State is implemented by every screen, mode or phase pushed on a Machine.
// All hooks receive the caller's shared data and may mutate it.
//
// OnStart runs once when the state is placed on the stack and OnStop once
// when it is removed; nothing is called on a state after OnStop. OnPause
// runs when another state is pushed above it, OnResume when that state is
// popped. Update runs once per tick while the state is on top.
type State[S any] interface {
	OnStart(data *S)
	OnStop(data *S)
	OnPause(data *S)
	OnResume(data *S)
	Update(data *S) Transition[S]
}

// BaseState provides no-op hooks. Embed it and override what you need.
//
//	type Menu struct {
//		statestack.BaseState[Game]
//	}
//
//	func (m *Menu) Update(g *Game) statestack.Transition[Game] {
//		if g.Input.Start {
//			return statestack.Switch[Game](&Playing{})
//		}
//		return statestack.None[Game]()
//	}
type BaseState[S any] struct{}

func (BaseState[S]) OnStart(*S)  {}
func (BaseState[S]) OnStop(*S)   {}
func (BaseState[S]) OnPause(*S)  {}
func (BaseState[S]) OnResume(*S) {}

func (BaseState[S]) Update(*S) Transition[S] {
	return Transition[S]{}
}

// Named lets a state choose the name reported to observers.
type Named interface {
	Name() string
}

// StateName returns a human readable name for a state. It prefers Name(),
// then String(), then the dynamic type name.
func StateName(state any) string {
	switch s := state.(type) {
	case nil:
		return ""
	case Named:
		return s.Name()
	case fmt.Stringer:
		return s.String()
	}
	t := reflect.TypeOf(state)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
