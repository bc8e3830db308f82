package waiter

import (
	"fmt"
	"slices"
	"time"
)

// Spec configures a single wait. It is a plain value: build one per call
// site and pass it to exactly one Wait call.
type Spec struct {
	// Name identifies the wait in logs and metrics (e.g. "instance-running").
	Name string

	// TerminalStates lists the states that end the wait successfully.
	// When empty, any Terminal poll result succeeds.
	TerminalStates []string

	// FailureStates lists the states that end the wait as failed, whatever
	// kind of poll result reported them.
	FailureStates []string

	// PollInterval is the delay before the second attempt.
	PollInterval time.Duration

	// MaxInterval caps the delay when BackoffMultiplier grows it. Zero means no cap.
	MaxInterval time.Duration

	// BackoffMultiplier grows the delay after every sleep. Zero or one keeps it constant.
	BackoffMultiplier float64

	// MaxAttempts bounds the number of probe calls. Zero means unbounded.
	MaxAttempts int

	// MaxElapsed bounds the total wait time. Zero means unbounded.
	MaxElapsed time.Duration
}

// Validate checks the Spec and returns a *ConfigurationError describing the
// first problem found.
func (s Spec) Validate() error {
	switch {
	case s.MaxAttempts < 0:
		return configError(s, "MaxAttempts", "must not be negative, got %d", s.MaxAttempts)
	case s.MaxElapsed < 0:
		return configError(s, "MaxElapsed", "must not be negative, got %v", s.MaxElapsed)
	case s.MaxAttempts == 0 && s.MaxElapsed == 0:
		return configError(s, "MaxAttempts", "either MaxAttempts or MaxElapsed must be set")
	case s.PollInterval <= 0:
		return configError(s, "PollInterval", "must be positive, got %v", s.PollInterval)
	case s.MaxInterval < 0:
		return configError(s, "MaxInterval", "must not be negative, got %v", s.MaxInterval)
	case s.BackoffMultiplier < 0 || (s.BackoffMultiplier > 0 && s.BackoffMultiplier < 1):
		return configError(s, "BackoffMultiplier", "must be 0 or at least 1, got %v", s.BackoffMultiplier)
	}
	return nil
}

// Overlap returns the states listed both as terminal and as failure.
// Such states resolve to Failed.
func (s Spec) Overlap() []string {
	var overlap []string
	for _, state := range s.TerminalStates {
		if slices.Contains(s.FailureStates, state) && !slices.Contains(overlap, state) {
			overlap = append(overlap, state)
		}
	}
	return overlap
}

// Delays returns the sleep durations Wait would use before attempts 2..n+1.
// MaxElapsed is not applied.
func (s Spec) Delays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	delay := s.first()
	for range n {
		delays = append(delays, delay)
		delay = s.next(delay)
	}
	return delays
}

func (s Spec) isTerminal(state string) bool {
	return slices.Contains(s.TerminalStates, state)
}

func (s Spec) isFailure(state string) bool {
	return slices.Contains(s.FailureStates, state)
}

// first returns the initial delay, already capped.
func (s Spec) first() time.Duration {
	if s.MaxInterval > 0 && s.PollInterval > s.MaxInterval {
		return s.MaxInterval
	}
	return s.PollInterval
}

// next grows delay by the backoff multiplier and applies MaxInterval.
func (s Spec) next(delay time.Duration) time.Duration {
	if s.BackoffMultiplier > 1 {
		delay = time.Duration(float64(delay) * s.BackoffMultiplier)
	}
	if s.MaxInterval > 0 && delay > s.MaxInterval {
		delay = s.MaxInterval
	}
	return delay
}

func (s Spec) label() string {
	if s.Name == "" {
		return "wait"
	}
	return s.Name
}

func configError(s Spec, field, format string, args ...any) error {
	return &ConfigurationError{
		Spec:   s.label(),
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
