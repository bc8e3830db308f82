package storage

import (
	"fmt"

	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/platform/ssh"
	"github.com/imamik/storagelab/internal/provisioning"
)

const volumePhase = "volume"

// VolumeProvisioner creates a block volume next to the instance and attaches it.
type VolumeProvisioner struct {
	// Mount formats and mounts the volume over SSH after attaching.
	Mount bool
}

// NewVolumeProvisioner creates a new volume provisioner.
func NewVolumeProvisioner(mount bool) *VolumeProvisioner {
	return &VolumeProvisioner{Mount: mount}
}

// Name implements the provisioning.Phase interface.
func (p *VolumeProvisioner) Name() string {
	return "attach volume"
}

// Provision implements the provisioning.Phase interface.
func (p *VolumeProvisioner) Provision(ctx *provisioning.Context) error {
	id, err := instanceID(ctx)
	if err != nil {
		return err
	}
	_, err = p.Attach(ctx, id)
	return err
}

// Attach creates a volume in the instance's availability zone, waits until it
// is available, attaches it on the first free device and waits until it is in use.
// If any step after creation fails, the volume is deleted again. A failed
// mount leaves the attached volume in place.
func (p *VolumeProvisioner) Attach(ctx *provisioning.Context, instanceID string) (*aws.Volume, error) {
	inst, err := ctx.Compute.DescribeInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", instanceID, err)
	}

	spec := ctx.Config.Volume
	name := fmt.Sprintf("%s-volume", ctx.Config.Instance.Name)
	provisioning.LogResourceCreating(ctx.Observer, volumePhase, "volume", name)
	volumeID, err := ctx.Compute.CreateVolume(ctx, aws.VolumeOpts{
		AvailabilityZone: inst.AvailabilityZone,
		SizeGB:           spec.SizeGB,
		VolumeType:       spec.Type,
		Name:             name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create volume in %s: %w", inst.AvailabilityZone, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, volumePhase, "volume", volumeID)

	if _, err := provisioning.Wait(ctx, volumeID, "volume-available", aws.VolumeAvailable,
		aws.VolumeStateProbe(ctx.Compute, volumeID)); err != nil {
		return nil, rollbackVolume(ctx, volumeID, false,
			fmt.Errorf("volume %s did not become available: %w", volumeID, err))
	}

	device, err := ctx.Compute.FindFreeDevice(ctx, instanceID)
	if err != nil {
		return nil, rollbackVolume(ctx, volumeID, false,
			fmt.Errorf("failed to find a free device on %s: %w", instanceID, err))
	}
	if err := ctx.Compute.AttachVolume(ctx, volumeID, instanceID, device); err != nil {
		return nil, rollbackVolume(ctx, volumeID, false,
			fmt.Errorf("failed to attach volume %s to %s: %w", volumeID, instanceID, err))
	}

	vol, err := provisioning.Wait(ctx, volumeID, "volume-in-use", aws.VolumeInUse,
		aws.VolumeStateProbe(ctx.Compute, volumeID))
	if err != nil {
		return nil, rollbackVolume(ctx, volumeID, true,
			fmt.Errorf("volume %s did not attach: %w", volumeID, err))
	}
	ctx.State.SetVolume(vol, device)
	ctx.Observer.Printf("[%s] %s attached to %s as %s", volumePhase, volumeID, instanceID, device)

	if p.Mount {
		mp := spec.MountPoint
		if err := mount(ctx, volumePhase, instanceID, mp, ssh.MountVolumeScript(ssh.DeviceName(device), mp)); err != nil {
			return vol, err
		}
	}
	return vol, nil
}
