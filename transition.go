package statestack

// TransitionKind identifies which stack operation a Transition requests.
type TransitionKind int

const (
	KindNone TransitionKind = iota
	KindPop
	KindPush
	KindSwitch
	KindQuit
)

func (k TransitionKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPop:
		return "pop"
	case KindPush:
		return "push"
	case KindSwitch:
		return "switch"
	case KindQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Transition is a request from a state to change the stack.
// The zero value requests nothing. Build values with None, Pop, Push,
// Switch and Quit.
type Transition[S any] struct {
	kind  TransitionKind
	state State[S]
}

// None keeps the current state running.
func None[S any]() Transition[S] {
	return Transition[S]{kind: KindNone}
}

// Pop ends the current state and resumes the one below it, if any.
// Popping the last state stops the machine.
func Pop[S any]() Transition[S] {
	return Transition[S]{kind: KindPop}
}

// Push pauses the current state and starts state above it.
// A nil state yields None.
func Push[S any](state State[S]) Transition[S] {
	if state == nil {
		return None[S]()
	}
	return Transition[S]{kind: KindPush, state: state}
}

// Switch stops the current state and starts state in its place.
// A nil state yields None.
func Switch[S any](state State[S]) Transition[S] {
	if state == nil {
		return None[S]()
	}
	return Transition[S]{kind: KindSwitch, state: state}
}

// Quit stops every state on the stack.
func Quit[S any]() Transition[S] {
	return Transition[S]{kind: KindQuit}
}

// Kind reports the requested operation.
func (t Transition[S]) Kind() TransitionKind {
	return t.kind
}

// State returns the state carried by a Push or Switch, nil otherwise.
func (t Transition[S]) State() State[S] {
	return t.state
}

func (t Transition[S]) String() string {
	if t.state == nil {
		return t.kind.String()
	}
	return t.kind.String() + "(" + StateName(t.state) + ")"
}
