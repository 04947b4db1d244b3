package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrRunning is returned by Step while the free-running loop owns the engine.
	ErrRunning = errors.New("runner: cannot step manually while running")

	// ErrUnstable indicates a position or velocity became NaN or Inf.
	ErrUnstable = errors.New("runner: simulation unstable (state diverged)")
)

// TickError wraps an error with the tick it was detected on.
type TickError struct {
	Tick    uint64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
