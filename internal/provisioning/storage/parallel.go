package storage

import (
	"context"

	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/util/async"
)

// ProvisionAll attaches the volume and creates the file system concurrently,
// each with its own waits. When one fails the other is cancelled.
func ProvisionAll(ctx *provisioning.Context, mount bool) error {
	id, err := instanceID(ctx)
	if err != nil {
		return err
	}

	volumes := NewVolumeProvisioner(mount)
	fileSystems := NewFileSystemProvisioner(mount)

	return async.RunParallel(ctx, []async.Task{
		{Name: volumes.Name(), Func: func(c context.Context) error {
			_, err := volumes.Attach(ctx.WithContext(c), id)
			return err
		}},
		{Name: fileSystems.Name(), Func: func(c context.Context) error {
			_, err := fileSystems.Create(ctx.WithContext(c), id)
			return err
		}},
	}, true)
}
