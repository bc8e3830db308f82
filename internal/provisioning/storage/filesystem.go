package storage

import (
	"fmt"

	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/platform/ssh"
	"github.com/imamik/storagelab/internal/provisioning"
)

const fileSystemPhase = "filesystem"

// FileSystemProvisioner creates a shared file system reachable from the instance's subnet.
type FileSystemProvisioner struct {
	// Mount mounts the file system over SSH once its mount target is available.
	Mount bool
}

// NewFileSystemProvisioner creates a new file system provisioner.
func NewFileSystemProvisioner(mount bool) *FileSystemProvisioner {
	return &FileSystemProvisioner{Mount: mount}
}

// Name implements the provisioning.Phase interface.
func (p *FileSystemProvisioner) Name() string {
	return "create file system"
}

// Provision implements the provisioning.Phase interface.
func (p *FileSystemProvisioner) Provision(ctx *provisioning.Context) error {
	id, err := instanceID(ctx)
	if err != nil {
		return err
	}
	_, err = p.Create(ctx, id)
	return err
}

// Create creates the file system, waits until it is available, adds a mount
// target in the instance's subnet and waits until that is available too.
// Resources created before a failing step are deleted again.
func (p *FileSystemProvisioner) Create(ctx *provisioning.Context, instanceID string) (*aws.FileSystem, error) {
	name := ctx.Config.FileSystem.Name
	provisioning.LogResourceCreating(ctx.Observer, fileSystemPhase, "file system", name)
	created, err := ctx.FileSystems.CreateFileSystem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create file system %s: %w", name, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, fileSystemPhase, "file system", created.ID)

	fs, err := provisioning.Wait(ctx, created.ID, "filesystem-available", aws.FileSystemAvailable,
		aws.FileSystemStateProbe(ctx.FileSystems, created.ID))
	if err != nil {
		return nil, rollbackFileSystem(ctx, created.ID, "",
			fmt.Errorf("file system %s did not become available: %w", created.ID, err))
	}

	subnet, groups, err := ctx.Compute.NetworkPlacement(ctx, instanceID)
	if err != nil {
		return nil, rollbackFileSystem(ctx, fs.ID, "",
			fmt.Errorf("failed to get network placement of %s: %w", instanceID, err))
	}

	provisioning.LogResourceCreating(ctx.Observer, fileSystemPhase, "mount target", subnet)
	target, err := ctx.FileSystems.CreateMountTarget(ctx, fs.ID, subnet, groups)
	if err != nil {
		return nil, rollbackFileSystem(ctx, fs.ID, "",
			fmt.Errorf("failed to create mount target for %s in %s: %w", fs.ID, subnet, err))
	}
	provisioning.LogResourceCreated(ctx.Observer, fileSystemPhase, "mount target", target.ID)

	mt, err := provisioning.Wait(ctx, target.ID, "mount-target-available", aws.MountTargetAvailable,
		aws.MountTargetStateProbe(ctx.FileSystems, target.ID))
	if err != nil {
		return nil, rollbackFileSystem(ctx, fs.ID, target.ID,
			fmt.Errorf("mount target %s did not become available: %w", target.ID, err))
	}
	ctx.State.SetFileSystem(fs, mt)

	if p.Mount {
		mp := ctx.Config.FileSystem.MountPoint
		if err := mount(ctx, fileSystemPhase, instanceID, mp, ssh.MountFileSystemScript(fs.ID, mp)); err != nil {
			return fs, err
		}
	}
	return fs, nil
}
