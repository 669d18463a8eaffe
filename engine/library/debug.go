package library

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

// ConfigureDeadlockDetection sets how long a lock may be waited on before go-deadlock reports
// it. Reports are logged rather than terminating the process.
func ConfigureDeadlockDetection(timeout time.Duration) {
	if timeout > 0 {
		deadlock.Opts.DeadlockTimeout = timeout
	}
	deadlock.Opts.OnPotentialDeadlock = func() {
		LogCLI("potential deadlock or stalled remote call detected", 1)
	}
}

// ValidateSaneExecutionTime returns a func that must be called when the watched section ends.
// If it is not called within the deadlock timeout the detector reports it.
func ValidateSaneExecutionTime() func() {
	mu := deadlock.Mutex{}
	mu.Lock()
	go func() {
		mu.Lock()
		mu.Unlock()
	}()
	return func() {
		mu.Unlock()
	}
}
