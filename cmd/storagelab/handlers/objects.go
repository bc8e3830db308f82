package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/provisioning/objects"
)

// Seeder interface for testing - matches objects.Seeder.
type Seeder interface {
	Seed(ctx *provisioning.Context) ([]string, error)
}

// Cleaner interface for testing - matches objects.Cleaner.
type Cleaner interface {
	Clean(ctx *provisioning.Context) ([]string, error)
}

var newSeeder = func() Seeder {
	return objects.NewSeeder()
}

var newCleaner = func() Cleaner {
	return objects.NewCleaner()
}

// ObjectsSeed creates the bucket and folder and uploads the generated
// dataset in CSV and JSON form.
func ObjectsSeed(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		keys, err := newSeeder().Seed(pCtx)
		if err != nil {
			return err
		}
		bucket := pCtx.Config.Objects.Bucket
		for _, key := range keys {
			fmt.Fprintf(output, "Uploaded s3://%s/%s\n", bucket, key)
		}
		return nil
	})
}

// ObjectsClean deletes every object in the bucket and then the bucket.
func ObjectsClean(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		keys, err := newCleaner().Clean(pCtx)
		if err != nil {
			return err
		}
		bucket := pCtx.Config.Objects.Bucket
		for _, key := range keys {
			fmt.Fprintf(output, "Deleted s3://%s/%s\n", bucket, key)
		}
		fmt.Fprintf(output, "Bucket %s removed\n", bucket)
		return nil
	})
}
