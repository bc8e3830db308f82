package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/provisioning"
)

// cleanupTimeout bounds a rollback that runs after the workflow context is done.
const cleanupTimeout = 10 * time.Minute

// cleanupContext keeps the workflow's values but not its cancellation, so
// resources created before an interrupt are still removed.
func cleanupContext(ctx *provisioning.Context) (*provisioning.Context, context.CancelFunc) {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	return ctx.WithContext(c), cancel
}

// rollbackVolume deletes a volume whose attachment did not complete. An
// attach request may have reached the instance, so the volume is detached
// first and deleted once it is available again.
func rollbackVolume(ctx *provisioning.Context, volumeID string, attached bool, cause error) error {
	rb, cancel := cleanupContext(ctx)
	defer cancel()

	provisioning.LogResourceDeleting(rb.Observer, volumePhase, "volume", volumeID)
	if attached {
		if err := rb.Compute.DetachVolume(rb, volumeID); err != nil {
			return rollbackFailed(cause, "volume", volumeID, err)
		}
		if _, err := provisioning.Wait(rb, volumeID, "volume-detached", aws.VolumeAvailable,
			aws.VolumeStateProbe(rb.Compute, volumeID)); err != nil {
			return rollbackFailed(cause, "volume", volumeID, err)
		}
	}
	if err := rb.Compute.DeleteVolume(rb, volumeID); err != nil {
		return rollbackFailed(cause, "volume", volumeID, err)
	}
	rb.Observer.Printf("[%s] rolled back volume %s", volumePhase, volumeID)
	return cause
}

// rollbackFileSystem deletes the mount target, if any, then the file system.
// A file system cannot be deleted while a mount target still exists.
func rollbackFileSystem(ctx *provisioning.Context, fileSystemID, mountTargetID string, cause error) error {
	rb, cancel := cleanupContext(ctx)
	defer cancel()

	if mountTargetID != "" {
		provisioning.LogResourceDeleting(rb.Observer, fileSystemPhase, "mount target", mountTargetID)
		if err := rb.FileSystems.DeleteMountTarget(rb, mountTargetID); err != nil {
			return rollbackFailed(cause, "mount target", mountTargetID, err)
		}
		if _, err := provisioning.Wait(rb, mountTargetID, "mount-target-deleted", aws.MountTargetGone,
			aws.MountTargetDeletionProbe(rb.FileSystems, mountTargetID)); err != nil {
			return rollbackFailed(cause, "mount target", mountTargetID, err)
		}
	}

	provisioning.LogResourceDeleting(rb.Observer, fileSystemPhase, "file system", fileSystemID)
	if err := rb.FileSystems.DeleteFileSystem(rb, fileSystemID); err != nil {
		return rollbackFailed(cause, "file system", fileSystemID, err)
	}
	rb.Observer.Printf("[%s] rolled back file system %s", fileSystemPhase, fileSystemID)
	return cause
}

func rollbackFailed(cause error, resourceType, id string, err error) error {
	return errors.Join(cause, fmt.Errorf("rollback left %s %s behind: %w", resourceType, id, err))
}
