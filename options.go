package statestack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/comalice/statestack/observability"
)

// ErrUnknownSwitchMode is returned when parsing an unrecognised switch mode.
var ErrUnknownSwitchMode = errors.New("unknown switch mode")

// SwitchMode selects how much of the stack a Switch transition replaces.
type SwitchMode int

const (
	// SwitchTop replaces only the current top state. States beneath it are
	// not paused, resumed or stopped.
	SwitchTop SwitchMode = iota
	// SwitchAll stops every state on the stack, top to bottom, before
	// starting the new one.
	SwitchAll
)

func (m SwitchMode) String() string {
	switch m {
	case SwitchTop:
		return "top"
	case SwitchAll:
		return "all"
	default:
		return fmt.Sprintf("SwitchMode(%d)", int(m))
	}
}

// ParseSwitchMode parses "top" or "all" (case-insensitive). The empty
// string parses as SwitchTop.
func ParseSwitchMode(s string) (SwitchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top":
		return SwitchTop, nil
	case "all":
		return SwitchAll, nil
	default:
		return SwitchTop, fmt.Errorf("%w: %q", ErrUnknownSwitchMode, s)
	}
}

func (m SwitchMode) MarshalText() ([]byte, error) {
	switch m {
	case SwitchTop, SwitchAll:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSwitchMode, int(m))
	}
}

func (m *SwitchMode) UnmarshalText(text []byte) error {
	mode, err := ParseSwitchMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ---

type options struct {
	id         string
	observer   observability.Observer
	switchMode SwitchMode
}

// Option configures a Machine created with New.
type Option func(*options)

// WithID sets the machine identifier reported as the source of events.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithObserver sends lifecycle and transition events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithSwitchMode selects the Switch semantics. Default SwitchTop.
func WithSwitchMode(mode SwitchMode) Option {
	return func(o *options) {
		o.switchMode = mode
	}
}

// Config is the file form of the machine options.
type Config struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty" toml:"id" mapstructure:"id"`
	SwitchMode SwitchMode `json:"switch_mode" yaml:"switch_mode" toml:"switch_mode" mapstructure:"switch_mode"`
}

// Options converts the config to machine options. An empty ID keeps the
// generated one.
func (c Config) Options() []Option {
	opts := []Option{WithSwitchMode(c.SwitchMode)}
	if c.ID != "" {
		opts = append(opts, WithID(c.ID))
	}
	return opts
}
