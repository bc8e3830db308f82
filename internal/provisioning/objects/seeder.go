package objects

import (
	"bytes"
	"fmt"
	"time"

	"github.com/imamik/storagelab/internal/dataset"
	"github.com/imamik/storagelab/internal/provisioning"
)

const phase = "objects"

// Content types of the uploaded datasets.
const (
	ContentTypeCSV    = "text/csv"
	ContentTypeNDJSON = "application/x-ndjson"
)

// Seeder uploads the synthetic dataset.
type Seeder struct {
	// Now fixes the reference date of generated birth dates. Defaults to time.Now.
	Now func() time.Time
}

// NewSeeder creates a new seeder.
func NewSeeder() *Seeder {
	return &Seeder{Now: time.Now}
}

// Name implements the provisioning.Phase interface.
func (s *Seeder) Name() string {
	return "seed objects"
}

// Provision implements the provisioning.Phase interface.
func (s *Seeder) Provision(ctx *provisioning.Context) error {
	_, err := s.Seed(ctx)
	return err
}

// Seed ensures the bucket and folder exist, then uploads the dataset under
// <folder>csv/ and <folder>json/ and reads each object back. It returns the
// uploaded keys.
func (s *Seeder) Seed(ctx *provisioning.Context) ([]string, error) {
	cfg := ctx.Config.Objects

	created, err := ctx.Objects.EnsureBucket(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.Bucket, err)
	}
	if created {
		provisioning.LogResourceCreated(ctx.Observer, phase, "bucket", cfg.Bucket)
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, "bucket", cfg.Bucket)
	}

	buckets, err := ctx.Objects.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	ctx.Observer.Printf("[%s] %d buckets visible to this account", phase, len(buckets))

	created, err = ctx.Objects.EnsureFolder(ctx, cfg.Bucket, cfg.Folder)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure folder %s in %s: %w", cfg.Folder, cfg.Bucket, err)
	}
	if created {
		provisioning.LogResourceCreated(ctx.Observer, phase, "folder", cfg.Folder)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	records := dataset.NewGenerator(cfg.Seed, dataset.WithReferenceDate(now())).Records(cfg.Records)
	ctx.Observer.Printf("[%s] generated %d records (seed %d)", phase, len(records), cfg.Seed)

	csvData, err := dataset.CSV(records)
	if err != nil {
		return nil, err
	}
	jsonData, err := dataset.NDJSON(records)
	if err != nil {
		return nil, err
	}

	uploads := []struct {
		key         string
		data        []byte
		contentType string
	}{
		{cfg.CSVPrefix() + dataset.CSVFileName, csvData, ContentTypeCSV},
		{cfg.JSONPrefix() + dataset.JSONFileName, jsonData, ContentTypeNDJSON},
	}

	keys := make([]string, 0, len(uploads))
	for _, u := range uploads {
		if err := ctx.Objects.Upload(ctx, cfg.Bucket, u.key, bytes.NewReader(u.data), u.contentType); err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", u.key, err)
		}
		if err := verify(ctx, cfg.Bucket, u.key, u.data); err != nil {
			return keys, err
		}
		ctx.State.AddUpload(u.key)
		keys = append(keys, u.key)
		ctx.Observer.Printf("[%s] uploaded s3://%s/%s (%d bytes)", phase, cfg.Bucket, u.key, len(u.data))
	}

	listed, err := ctx.Objects.ListObjects(ctx, cfg.Bucket, cfg.Folder)
	if err != nil {
		return keys, fmt.Errorf("failed to list %s: %w", cfg.Folder, err)
	}
	ctx.Observer.Printf("[%s] %d objects under s3://%s/%s", phase, len(listed), cfg.Bucket, cfg.Folder)
	return keys, nil
}

// verify reads an uploaded object back and compares it with what was sent.
func verify(ctx *provisioning.Context, bucket, key string, want []byte) error {
	got, err := ctx.Objects.GetObject(ctx, bucket, key)
	if err != nil {
		return fmt.Errorf("failed to read back %s: %w", key, err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%s reads back %d bytes, uploaded %d", key, len(got), len(want))
	}
	return nil
}
