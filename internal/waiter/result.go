package waiter

import (
	"fmt"
	"time"
)

// Status is the kind of a single poll result.
type Status int

const (
	// StatusPending means the operation is still in progress.
	StatusPending Status = iota
	// StatusTerminal means the operation reached a stable state.
	StatusTerminal
	// StatusFailed means the operation will never reach a terminal state.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusTerminal:
		return "terminal"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// PollResult is what a probe observed on one call.
type PollResult[T any] struct {
	Status  Status
	State   string
	Payload T
	Reason  string
}

// Pending reports an operation still in progress. state may be empty when the
// remote side has nothing to report yet.
func Pending[T any](state string) PollResult[T] {
	return PollResult[T]{Status: StatusPending, State: state}
}

// Terminal reports a stable state together with whatever the caller needs
// from the final observation.
func Terminal[T any](state string, payload T) PollResult[T] {
	return PollResult[T]{Status: StatusTerminal, State: state, Payload: payload}
}

// Failure reports a state the operation cannot recover from.
func Failure[T any](state, reason string) PollResult[T] {
	return PollResult[T]{Status: StatusFailed, State: state, Reason: reason}
}

// Kind is the final outcome of a wait.
type Kind int

const (
	// Succeeded means a terminal state from the Spec was observed.
	Succeeded Kind = iota
	// Failed means a failure state was observed.
	Failed
	// TimedOut means the attempt or time budget ran out.
	TimedOut
	// Cancelled means the context was cancelled.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is returned by Wait. State is the terminal or failure state for
// Succeeded and Failed, and the last observed state otherwise.
type Outcome[T any] struct {
	Name     string
	Kind     Kind
	State    string
	Payload  T
	Reason   string
	Attempts int
	Elapsed  time.Duration
}

// Succeeded reports whether the wait ended in a terminal state.
func (o Outcome[T]) Succeeded() bool {
	return o.Kind == Succeeded
}

// Err returns nil for Succeeded and an *OutcomeError otherwise.
func (o Outcome[T]) Err() error {
	if o.Kind == Succeeded {
		return nil
	}
	return &OutcomeError{
		Name:     o.Name,
		Kind:     o.Kind,
		State:    o.State,
		Reason:   o.Reason,
		Attempts: o.Attempts,
		Elapsed:  o.Elapsed,
	}
}

func (o Outcome[T]) String() string {
	switch o.Kind {
	case Succeeded:
		return fmt.Sprintf("%s: reached %q after %d attempts", o.Name, o.State, o.Attempts)
	case Failed:
		if o.Reason != "" {
			return fmt.Sprintf("%s: failed in state %q: %s", o.Name, o.State, o.Reason)
		}
		return fmt.Sprintf("%s: failed in state %q", o.Name, o.State)
	case TimedOut:
		return fmt.Sprintf("%s: timed out after %d attempts (%v), last state %q",
			o.Name, o.Attempts, o.Elapsed.Round(time.Millisecond), o.State)
	case Cancelled:
		return fmt.Sprintf("%s: cancelled after %d attempts, last state %q", o.Name, o.Attempts, o.State)
	default:
		return fmt.Sprintf("%s: %s", o.Name, o.Kind)
	}
}
