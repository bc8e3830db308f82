package aws

import (
	"github.com/imamik/storagelab/internal/config"
	"github.com/imamik/storagelab/internal/util/netutil"
	"github.com/imamik/storagelab/internal/waiter"
)

// States pairs the accepted and rejected states of one kind of wait.
type States struct {
	Kind     config.WaitKind
	Terminal []string
	Failure  []string
}

// Spec builds the wait spec from the matching policy.
func (s States) Spec(name string, policies config.WaitPolicies) waiter.Spec {
	return policies.Policy(s.Kind).Spec(name, s.Terminal, s.Failure)
}

// State sets for every wait the lab performs.
var (
	InstanceRunning = States{
		Kind:     config.WaitInstance,
		Terminal: []string{InstanceRunningState},
		Failure:  []string{InstanceShuttingDown, InstanceTerminated, InstanceStopping},
	}
	InstanceStopped = States{
		Kind:     config.WaitInstance,
		Terminal: []string{InstanceStoppedState},
		Failure:  []string{InstanceTerminated, InstancePending},
	}
	InstanceGone = States{
		Kind:     config.WaitInstance,
		Terminal: []string{InstanceTerminated},
	}
	// InstanceReachable waits on a port probe, not on the instance API.
	InstanceReachable = States{
		Kind:     config.WaitInstance,
		Terminal: []string{netutil.PortOpen},
	}
	VolumeAvailable = States{
		Kind:     config.WaitVolume,
		Terminal: []string{StateAvailable},
		Failure:  []string{StateDeleted, StateDeleting, StateError},
	}
	VolumeInUse = States{
		Kind:     config.WaitVolume,
		Terminal: []string{StateInUse},
		Failure:  []string{StateDeleted, StateDeleting, StateError},
	}
	FileSystemAvailable = States{
		Kind:     config.WaitFileSystem,
		Terminal: []string{StateAvailable},
		Failure:  []string{StateDeleted, StateDeleting, StateError},
	}
	MountTargetAvailable = FileSystemAvailable
	MountTargetGone      = States{
		Kind:     config.WaitFileSystem,
		Terminal: []string{StateDeleted},
		Failure:  []string{StateError},
	}
	QueryDone            = States{
		Kind:     config.WaitQuery,
		Terminal: []string{QuerySucceeded},
		Failure:  []string{QueryFailed, QueryCancelled},
	}
)
