package compute

import (
	"fmt"

	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/util/netutil"
)

const phase = "instance"

// Provisioner launches, stops and terminates the lab instance.
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "launch instance"
}

// Provision implements the provisioning.Phase interface by launching a new
// instance and waiting until it runs.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	_, err := p.Launch(ctx)
	return err
}

// Count logs and returns the number of instances visible to the account.
func (p *Provisioner) Count(ctx *provisioning.Context) (int, error) {
	n, err := ctx.Compute.CountInstances(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count instances: %w", err)
	}
	ctx.Observer.Printf("[%s] %d instances in %s", phase, n, ctx.Config.Region)
	return n, nil
}

// Launch runs one instance, names it and waits until it is running.
// The instance and its public address are recorded in the state.
func (p *Provisioner) Launch(ctx *provisioning.Context) (*aws.Instance, error) {
	if err := ctx.Config.RequireKeyName(); err != nil {
		return nil, err
	}
	lc := NewLifecycle(StateNone)
	if err := lc.Fire(ctx, EventLaunch); err != nil {
		return nil, err
	}

	spec := ctx.Config.Instance
	provisioning.LogResourceCreating(ctx.Observer, phase, "instance", spec.Name)
	id, err := ctx.Compute.RunInstance(ctx, aws.RunInstanceOpts{
		AMI:          spec.AMI,
		InstanceType: spec.Type,
		KeyName:      ctx.Config.KeyPair.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch instance: %w", err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "instance", id)

	if err := ctx.Compute.TagInstance(ctx, id, "Name", spec.Name); err != nil {
		return nil, fmt.Errorf("failed to name instance %s: %w", id, err)
	}

	inst, err := p.waitRunning(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lc.Fire(ctx, EventLaunched); err != nil {
		return nil, err
	}

	ip, err := ctx.Compute.PublicIP(ctx, id, spec.IP)
	if err != nil {
		return nil, fmt.Errorf("failed to get public address of %s: %w", id, err)
	}

	ctx.State.Instance = inst
	ctx.State.PublicIP = ip
	ctx.Observer.Printf("[%s] %s running in %s at %s", phase, id, inst.AvailabilityZone, ip)
	return inst, nil
}

// WaitRunning waits until an existing instance is running and records it.
func (p *Provisioner) WaitRunning(ctx *provisioning.Context, instanceID string) (*aws.Instance, error) {
	inst, err := p.waitRunning(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	ctx.State.Instance = inst
	return inst, nil
}

// WaitReachable waits until host accepts TCP connections on the configured
// SSH port. A running instance keeps refusing connections while it boots.
func (p *Provisioner) WaitReachable(ctx *provisioning.Context, host string) error {
	port := ctx.Config.Instance.SSHPort
	probe := netutil.PortProbe(host, port, 0)
	if _, err := provisioning.Wait(ctx, host, "ssh-reachable", aws.InstanceReachable, probe); err != nil {
		return fmt.Errorf("%s did not accept connections on port %d: %w", host, port, err)
	}
	ctx.Observer.Printf("[%s] %s accepts connections on port %d", phase, host, port)
	return nil
}

func (p *Provisioner) waitRunning(ctx *provisioning.Context, id string) (*aws.Instance, error) {
	inst, err := provisioning.Wait(ctx, id, "instance-running", aws.InstanceRunning, aws.InstanceStateProbe(ctx.Compute, id))
	if err != nil {
		return nil, fmt.Errorf("instance %s did not reach running: %w", id, err)
	}
	return inst, nil
}

// Stop stops a running instance and waits until it is stopped.
// Stopping an instance that is already stopped does nothing.
func (p *Provisioner) Stop(ctx *provisioning.Context, instanceID string) error {
	lc, err := p.lifecycle(ctx, instanceID)
	if err != nil {
		return err
	}
	if lc.Current() == StateStopped {
		ctx.Observer.Printf("[%s] %s is already stopped", phase, instanceID)
		return nil
	}
	return p.stop(ctx, lc, instanceID)
}

func (p *Provisioner) stop(ctx *provisioning.Context, lc *Lifecycle, instanceID string) error {
	// already on its way down, only wait
	if lc.Current() != StateStopping {
		if err := lc.Fire(ctx, EventStop); err != nil {
			return err
		}
		if err := ctx.Compute.StopInstance(ctx, instanceID); err != nil {
			return fmt.Errorf("failed to stop instance %s: %w", instanceID, err)
		}
	}

	if _, err := provisioning.Wait(ctx, instanceID, "instance-stopped", aws.InstanceStopped,
		aws.InstanceStateProbe(ctx.Compute, instanceID)); err != nil {
		return fmt.Errorf("instance %s did not reach stopped: %w", instanceID, err)
	}
	if err := lc.Fire(ctx, EventStopped); err != nil {
		return err
	}
	ctx.Observer.Printf("[%s] %s stopped", phase, instanceID)
	return nil
}

// Terminate stops the instance if it is running, then terminates it and
// waits until it is gone. Terminating a terminated instance does nothing.
func (p *Provisioner) Terminate(ctx *provisioning.Context, instanceID string) error {
	lc, err := p.lifecycle(ctx, instanceID)
	if err != nil {
		return err
	}
	switch lc.Current() {
	case StateTerminated:
		ctx.Observer.Printf("[%s] %s is already terminated", phase, instanceID)
		return nil
	case StateRunning, StateStopping:
		if err := p.stop(ctx, lc, instanceID); err != nil {
			return err
		}
	}

	if lc.Current() != StateTerminating {
		if err := lc.Fire(ctx, EventTerminate); err != nil {
			return err
		}
		provisioning.LogResourceDeleting(ctx.Observer, phase, "instance", instanceID)
		if err := ctx.Compute.TerminateInstance(ctx, instanceID); err != nil {
			return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
		}
	}

	if _, err := provisioning.Wait(ctx, instanceID, "instance-terminated", aws.InstanceGone,
		aws.InstanceStateProbe(ctx.Compute, instanceID)); err != nil {
		return fmt.Errorf("instance %s did not reach terminated: %w", instanceID, err)
	}
	if err := lc.Fire(ctx, EventTerminated); err != nil {
		return err
	}
	ctx.Observer.Printf("[%s] %s terminated", phase, instanceID)
	return nil
}

// RunLifecycle launches an instance, stops it and terminates it.
func (p *Provisioner) RunLifecycle(ctx *provisioning.Context) error {
	return provisioning.RunPhases(ctx, []provisioning.Phase{
		p,
		provisioning.PhaseFunc{PhaseName: "stop instance", Fn: func(ctx *provisioning.Context) error {
			return p.Stop(ctx, ctx.State.Instance.ID)
		}},
		provisioning.PhaseFunc{PhaseName: "terminate instance", Fn: func(ctx *provisioning.Context) error {
			return p.Terminate(ctx, ctx.State.Instance.ID)
		}},
	})
}

// lifecycle builds a tracker from the instance's current remote state.
func (p *Provisioner) lifecycle(ctx *provisioning.Context, instanceID string) (*Lifecycle, error) {
	inst, err := ctx.Compute.DescribeInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", instanceID, err)
	}
	lc := LifecycleFor(inst.State)
	if lc.Current() == StateNone {
		return nil, fmt.Errorf("%w: instance %s is in unknown state %q", ErrInvalidTransition, instanceID, inst.State)
	}
	// a pending instance has to finish booting before it can be stopped
	if lc.Current() == StateLaunching {
		if _, err := p.waitRunning(ctx, instanceID); err != nil {
			return nil, err
		}
		if err := lc.Fire(ctx, EventLaunched); err != nil {
			return nil, err
		}
	}
	return lc, nil
}
