package waiter

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors matched by OutcomeError.Is.
var (
	ErrFailed    = errors.New("operation failed")
	ErrTimedOut  = errors.New("operation timed out")
	ErrCancelled = errors.New("wait cancelled")
)

// ConfigurationError reports an invalid Spec. Wait returns it before the
// first probe call.
type ConfigurationError struct {
	Spec   string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid wait spec %s: %s %s", e.Spec, e.Field, e.Reason)
}

// ProbeError wraps an error returned by the probe. The waiter does not retry it.
type ProbeError struct {
	Spec    string
	Attempt int
	Err     error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s: probe failed on attempt %d: %v", e.Spec, e.Attempt, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// OutcomeError is the error form of a Failed, TimedOut or Cancelled outcome.
type OutcomeError struct {
	Name     string
	Kind     Kind
	State    string
	Reason   string
	Attempts int
	Elapsed  time.Duration
}

func (e *OutcomeError) Error() string {
	switch e.Kind {
	case Failed:
		if e.Reason != "" {
			return fmt.Sprintf("%s failed in state %q: %s", e.Name, e.State, e.Reason)
		}
		return fmt.Sprintf("%s failed in state %q", e.Name, e.State)
	case TimedOut:
		return fmt.Sprintf("%s timed out after %d attempts (%v), last state %q",
			e.Name, e.Attempts, e.Elapsed.Round(time.Millisecond), e.State)
	case Cancelled:
		return fmt.Sprintf("%s cancelled after %d attempts, last state %q", e.Name, e.Attempts, e.State)
	default:
		return fmt.Sprintf("%s ended as %s", e.Name, e.Kind)
	}
}

// Is matches the sentinel error for the outcome kind.
func (e *OutcomeError) Is(target error) bool {
	switch e.Kind {
	case Failed:
		return target == ErrFailed
	case TimedOut:
		return target == ErrTimedOut
	case Cancelled:
		return target == ErrCancelled
	}
	return false
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsProbeError reports whether err is or wraps a *ProbeError.
func IsProbeError(err error) bool {
	var probeErr *ProbeError
	return errors.As(err, &probeErr)
}
