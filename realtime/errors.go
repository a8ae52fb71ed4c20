package realtime

import "errors"

var (
	// ErrAlreadyRunning is returned by Start and Run on a runner that is
	// already driving its machine.
	ErrAlreadyRunning = errors.New("runner already running")

	// ErrNotRunning is returned by Stop and Wait on a runner that was never
	// started.
	ErrNotRunning = errors.New("runner not running")

	// ErrStatePanic wraps a panic recovered from a state hook during a tick.
	ErrStatePanic = errors.New("state panicked during tick")

	// ErrUnsupportedConfig is returned by LoadConfig for unknown file types.
	ErrUnsupportedConfig = errors.New("unsupported config format")
)
