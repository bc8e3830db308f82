package objects

import (
	"fmt"

	"github.com/imamik/storagelab/internal/provisioning"
)

// Cleaner empties and deletes the lab bucket.
type Cleaner struct{}

// NewCleaner creates a new cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Name implements the provisioning.Phase interface.
func (c *Cleaner) Name() string {
	return "clean objects"
}

// Provision implements the provisioning.Phase interface.
func (c *Cleaner) Provision(ctx *provisioning.Context) error {
	_, err := c.Clean(ctx)
	return err
}

// Clean deletes every object in the bucket, then the bucket itself, and
// returns the deleted keys. A missing bucket is not an error.
func (c *Cleaner) Clean(ctx *provisioning.Context) ([]string, error) {
	bucket := ctx.Config.Objects.Bucket

	exists, err := ctx.Objects.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		ctx.Observer.Printf("[%s] bucket %s does not exist, nothing to clean", phase, bucket)
		return nil, nil
	}

	keys, err := ctx.Objects.ListObjects(ctx, bucket, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", bucket, err)
	}

	deleted := make([]string, 0, len(keys))
	for _, key := range keys {
		provisioning.LogResourceDeleting(ctx.Observer, phase, "object", key)
		if err := ctx.Objects.DeleteObject(ctx, bucket, key); err != nil {
			return deleted, err
		}
		deleted = append(deleted, key)
	}

	provisioning.LogResourceDeleting(ctx.Observer, phase, "bucket", bucket)
	if err := ctx.Objects.DeleteBucket(ctx, bucket); err != nil {
		return deleted, err
	}
	ctx.Observer.Printf("[%s] deleted %d objects and bucket %s", phase, len(deleted), bucket)
	return deleted, nil
}
