package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/provisioning/storage"
)

// Provisioner interface for testing - matches provisioning.Phase.
type Provisioner interface {
	Provision(ctx *provisioning.Context) error
}

var (
	newVolumeProvisioner = func(mount bool) Provisioner {
		return storage.NewVolumeProvisioner(mount)
	}

	newFileSystemProvisioner = func(mount bool) Provisioner {
		return storage.NewFileSystemProvisioner(mount)
	}
)

// VolumeAttach creates a block volume in the instance's zone and attaches
// it. With mount set the volume is also formatted and mounted over SSH.
func VolumeAttach(ctx context.Context, opts Options, mount bool) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		if err := newVolumeProvisioner(mount).Provision(pCtx); err != nil {
			return err
		}
		if v := pCtx.State.Volume; v != nil {
			fmt.Fprintf(output, "Volume %s attached as %s\n", v.ID, pCtx.State.Device)
		}
		printMounts(pCtx)
		return nil
	})
}

// FileSystemCreate creates a shared file system with a mount target in the
// instance's subnet. With mount set it is also mounted over SSH.
func FileSystemCreate(ctx context.Context, opts Options, mount bool) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		if err := newFileSystemProvisioner(mount).Provision(pCtx); err != nil {
			return err
		}
		if fs := pCtx.State.FileSystem; fs != nil {
			fmt.Fprintf(output, "File system %s available\n", fs.ID)
		}
		if mt := pCtx.State.MountTarget; mt != nil {
			fmt.Fprintf(output, "  mount target %s in %s (%s)\n", mt.ID, mt.SubnetID, mt.IPAddress)
		}
		printMounts(pCtx)
		return nil
	})
}

func printMounts(pCtx *provisioning.Context) {
	for mountPoint, content := range pCtx.State.Mounted {
		fmt.Fprintf(output, "  mounted at %s, probe file reads %q\n", mountPoint, content)
	}
}
