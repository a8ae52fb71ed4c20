package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrUnknownObserver is returned by GetObserver for unregistered names.
var ErrUnknownObserver = errors.New("unknown observer")

var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	mutex sync.RWMutex
)

// GetObserver returns a registered observer by name. "noop" and "slog"
// (the default logger) are always available.
func GetObserver(name string) (Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces a named observer.
func RegisterObserver(name string, observer Observer) {
	mutex.Lock()
	defer mutex.Unlock()

	observers[name] = observer
}
