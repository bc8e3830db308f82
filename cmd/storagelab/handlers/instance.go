package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/storagelab/internal/config"
	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/provisioning/compute"
)

// InstanceManager is the part of compute.Provisioner the handlers use.
type InstanceManager interface {
	Count(ctx *provisioning.Context) (int, error)
	Launch(ctx *provisioning.Context) (*aws.Instance, error)
	WaitRunning(ctx *provisioning.Context, instanceID string) (*aws.Instance, error)
	WaitReachable(ctx *provisioning.Context, host string) error
	Stop(ctx *provisioning.Context, instanceID string) error
	Terminate(ctx *provisioning.Context, instanceID string) error
	RunLifecycle(ctx *provisioning.Context) error
}

var newInstanceManager = func() InstanceManager {
	return compute.NewProvisioner()
}

// Count prints the number of running instances.
func Count(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		n, err := newInstanceManager().Count(pCtx)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "Running instances: %d\n", n)
		return nil
	})
}

// InstanceLaunch launches an instance and waits until it is running.
func InstanceLaunch(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		inst, err := newInstanceManager().Launch(pCtx)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "Instance %s is %s\n", inst.ID, inst.State)
		fmt.Fprintf(output, "  public IP: %s\n", pCtx.State.PublicIP)
		fmt.Fprintf(output, "  export %s=%s\n", config.EnvInstanceID, inst.ID)
		return nil
	})
}

// InstanceWait waits until the configured instance is running. With ssh set
// it also waits until the instance accepts connections on the SSH port.
func InstanceWait(ctx context.Context, opts Options, ssh bool) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		id, err := instanceID(pCtx)
		if err != nil {
			return err
		}
		manager := newInstanceManager()
		inst, err := manager.WaitRunning(pCtx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "Instance %s is %s (%s)\n", inst.ID, inst.State, inst.PublicIP)
		if !ssh {
			return nil
		}

		host := inst.PublicIP
		if host == "" {
			host = pCtx.Config.Instance.IP
		}
		if host == "" {
			return fmt.Errorf("instance %s has no public address (set %s)", id, config.EnvInstanceIP)
		}
		if err := manager.WaitReachable(pCtx, host); err != nil {
			return err
		}
		fmt.Fprintf(output, "  SSH reachable at %s:%d\n", host, pCtx.Config.Instance.SSHPort)
		return nil
	})
}

// InstanceStop stops the configured instance and waits until it is stopped.
func InstanceStop(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		id, err := instanceID(pCtx)
		if err != nil {
			return err
		}
		if err := newInstanceManager().Stop(pCtx, id); err != nil {
			return err
		}
		fmt.Fprintf(output, "Instance %s stopped\n", id)
		return nil
	})
}

// InstanceTerminate stops and terminates the configured instance.
func InstanceTerminate(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		id, err := instanceID(pCtx)
		if err != nil {
			return err
		}
		if err := newInstanceManager().Terminate(pCtx, id); err != nil {
			return err
		}
		fmt.Fprintf(output, "Instance %s terminated\n", id)
		return nil
	})
}

// InstanceLifecycle launches, stops and terminates a fresh instance.
func InstanceLifecycle(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		if err := newInstanceManager().RunLifecycle(pCtx); err != nil {
			return err
		}
		if inst := pCtx.State.Instance; inst != nil {
			fmt.Fprintf(output, "Instance %s went through its full lifecycle\n", inst.ID)
		}
		return nil
	})
}
