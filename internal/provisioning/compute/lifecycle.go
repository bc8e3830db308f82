package compute

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/imamik/storagelab/internal/platform/aws"
)

// Lifecycle states tracked locally.
const (
	StateNone        = "none"
	StateLaunching   = "launching"
	StateRunning     = "running"
	StateStopping    = "stopping"
	StateStopped     = "stopped"
	StateTerminating = "terminating"
	StateTerminated  = "terminated"
)

// Lifecycle events.
const (
	EventLaunch     = "launch"
	EventLaunched   = "launched"
	EventStop       = "stop"
	EventStopped    = "stopped"
	EventTerminate  = "terminate"
	EventTerminated = "terminated"
)

// ErrInvalidTransition is returned when an operation does not apply to the
// instance's current lifecycle state.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// Lifecycle tracks one instance through launch, stop and terminate.
type Lifecycle struct {
	machine *fsm.FSM
}

// NewLifecycle creates a tracker starting in initial, one of the State constants.
func NewLifecycle(initial string) *Lifecycle {
	return &Lifecycle{
		machine: fsm.NewFSM(
			initial,
			fsm.Events{
				{Name: EventLaunch, Src: []string{StateNone}, Dst: StateLaunching},
				{Name: EventLaunched, Src: []string{StateLaunching}, Dst: StateRunning},
				{Name: EventStop, Src: []string{StateRunning}, Dst: StateStopping},
				{Name: EventStopped, Src: []string{StateStopping}, Dst: StateStopped},
				{Name: EventTerminate, Src: []string{StateStopped}, Dst: StateTerminating},
				{Name: EventTerminated, Src: []string{StateTerminating}, Dst: StateTerminated},
			},
			fsm.Callbacks{},
		),
	}
}

// LifecycleFor maps a remote instance state to the matching lifecycle state.
// Transitional remote states map to the state the instance is heading to
// before it settles, so the caller waits before acting.
func LifecycleFor(remote string) *Lifecycle {
	switch remote {
	case aws.InstancePending:
		return NewLifecycle(StateLaunching)
	case aws.InstanceRunningState:
		return NewLifecycle(StateRunning)
	case aws.InstanceStopping:
		return NewLifecycle(StateStopping)
	case aws.InstanceStoppedState:
		return NewLifecycle(StateStopped)
	case aws.InstanceShuttingDown:
		return NewLifecycle(StateTerminating)
	case aws.InstanceTerminated:
		return NewLifecycle(StateTerminated)
	default:
		return NewLifecycle(StateNone)
	}
}

// Current returns the current lifecycle state.
func (l *Lifecycle) Current() string {
	return l.machine.Current()
}

// Can reports whether event applies to the current state.
func (l *Lifecycle) Can(event string) bool {
	return l.machine.Can(event)
}

// Fire applies event. It returns an error wrapping ErrInvalidTransition when
// the event does not apply to the current state.
func (l *Lifecycle) Fire(ctx context.Context, event string) error {
	from := l.machine.Current()
	if err := l.machine.Event(ctx, event); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return fmt.Errorf("%w: cannot %s an instance that is %s", ErrInvalidTransition, event, from)
		}
		return fmt.Errorf("lifecycle event %s from %s: %w", event, from, err)
	}
	return nil
}
