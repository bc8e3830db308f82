package aws

import (
	"context"

	"github.com/imamik/storagelab/internal/waiter"
)

// Instance lifecycle states.
const (
	InstancePending      = "pending"
	InstanceRunningState = "running"
	InstanceShuttingDown = "shutting-down"
	InstanceStopping     = "stopping"
	InstanceStoppedState = "stopped"
	InstanceTerminated   = "terminated"
)

// Volume, file system and mount target lifecycle states.
const (
	StateCreating  = "creating"
	StateAvailable = "available"
	StateInUse     = "in-use"
	StateUpdating  = "updating"
	StateDeleting  = "deleting"
	StateDeleted   = "deleted"
	StateError     = "error"
)

// Query execution states.
const (
	QueryQueued    = "QUEUED"
	QueryRunning   = "RUNNING"
	QuerySucceeded = "SUCCEEDED"
	QueryFailed    = "FAILED"
	QueryCancelled = "CANCELLED"
)

// InstanceStateProbe observes an instance. A freshly launched instance may not
// be visible yet, so "not found" is reported as pending with an empty state.
func InstanceStateProbe(d InstanceDescriber, instanceID string) waiter.Probe[*Instance] {
	return func(ctx context.Context) (waiter.PollResult[*Instance], error) {
		inst, err := d.DescribeInstance(ctx, instanceID)
		if err != nil {
			if IsNotFound(err) {
				return waiter.Pending[*Instance](""), nil
			}
			return waiter.PollResult[*Instance]{}, err
		}
		switch inst.State {
		case InstanceRunningState, InstanceStoppedState, InstanceTerminated:
			return waiter.Terminal(inst.State, inst), nil
		default:
			return waiter.Pending[*Instance](inst.State), nil
		}
	}
}

// VolumeStateProbe observes a block volume.
func VolumeStateProbe(d VolumeDescriber, volumeID string) waiter.Probe[*Volume] {
	return func(ctx context.Context) (waiter.PollResult[*Volume], error) {
		vol, err := d.DescribeVolume(ctx, volumeID)
		if err != nil {
			if IsNotFound(err) {
				return waiter.Pending[*Volume](""), nil
			}
			return waiter.PollResult[*Volume]{}, err
		}
		return lifecycleResult(vol.State, vol, "volume "+volumeID+" entered the error state"), nil
	}
}

// FileSystemStateProbe observes a shared file system.
func FileSystemStateProbe(d FileSystemDescriber, fileSystemID string) waiter.Probe[*FileSystem] {
	return func(ctx context.Context) (waiter.PollResult[*FileSystem], error) {
		fs, err := d.DescribeFileSystem(ctx, fileSystemID)
		if err != nil {
			if IsNotFound(err) {
				return waiter.Pending[*FileSystem](""), nil
			}
			return waiter.PollResult[*FileSystem]{}, err
		}
		return lifecycleResult(fs.State, fs, "file system "+fileSystemID+" entered the error state"), nil
	}
}

// MountTargetStateProbe observes a file system mount target.
func MountTargetStateProbe(d FileSystemDescriber, mountTargetID string) waiter.Probe[*MountTarget] {
	return func(ctx context.Context) (waiter.PollResult[*MountTarget], error) {
		mt, err := d.DescribeMountTarget(ctx, mountTargetID)
		if err != nil {
			if IsNotFound(err) {
				return waiter.Pending[*MountTarget](""), nil
			}
			return waiter.PollResult[*MountTarget]{}, err
		}
		return lifecycleResult(mt.State, mt, "mount target "+mountTargetID+" entered the error state"), nil
	}
}

// MountTargetDeletionProbe observes a mount target being deleted. A target
// that can no longer be found reports the deleted state.
func MountTargetDeletionProbe(d FileSystemDescriber, mountTargetID string) waiter.Probe[*MountTarget] {
	return func(ctx context.Context) (waiter.PollResult[*MountTarget], error) {
		mt, err := d.DescribeMountTarget(ctx, mountTargetID)
		if err != nil {
			if IsNotFound(err) {
				return waiter.Terminal[*MountTarget](StateDeleted, nil), nil
			}
			return waiter.PollResult[*MountTarget]{}, err
		}
		return lifecycleResult(mt.State, mt, "mount target "+mountTargetID+" entered the error state"), nil
	}
}

// lifecycleResult maps the lifecycle shared by volumes, file systems and
// mount targets.
func lifecycleResult[T any](state string, payload T, reason string) waiter.PollResult[T] {
	switch state {
	case StateAvailable, StateInUse, StateDeleted:
		return waiter.Terminal(state, payload)
	case StateError:
		return waiter.Failure[T](state, reason)
	default:
		return waiter.Pending[T](state)
	}
}

// QueryStateProbe observes a query execution. FAILED and CANCELLED carry the
// service's state change reason.
func QueryStateProbe(d QueryDescriber, queryID string) waiter.Probe[*QueryExecution] {
	return func(ctx context.Context) (waiter.PollResult[*QueryExecution], error) {
		exec, err := d.DescribeQuery(ctx, queryID)
		if err != nil {
			return waiter.PollResult[*QueryExecution]{}, err
		}
		switch exec.State {
		case QuerySucceeded:
			return waiter.Terminal(exec.State, exec), nil
		case QueryFailed, QueryCancelled:
			reason := exec.Reason
			if reason == "" {
				reason = "unknown error"
			}
			return waiter.Failure[*QueryExecution](exec.State, reason), nil
		default:
			return waiter.Pending[*QueryExecution](exec.State), nil
		}
	}
}
