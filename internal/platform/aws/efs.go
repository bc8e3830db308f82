package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	"github.com/aws/aws-sdk-go-v2/service/efs/types"
	"github.com/google/uuid"

	"github.com/imamik/storagelab/internal/util/retry"
)

// EFSAPI is the subset of the EFS client used by FileSystems.
type EFSAPI interface {
	CreateFileSystem(ctx context.Context, in *efs.CreateFileSystemInput, optFns ...func(*efs.Options)) (*efs.CreateFileSystemOutput, error)
	DescribeFileSystems(ctx context.Context, in *efs.DescribeFileSystemsInput, optFns ...func(*efs.Options)) (*efs.DescribeFileSystemsOutput, error)
	DeleteFileSystem(ctx context.Context, in *efs.DeleteFileSystemInput, optFns ...func(*efs.Options)) (*efs.DeleteFileSystemOutput, error)
	CreateMountTarget(ctx context.Context, in *efs.CreateMountTargetInput, optFns ...func(*efs.Options)) (*efs.CreateMountTargetOutput, error)
	DescribeMountTargets(ctx context.Context, in *efs.DescribeMountTargetsInput, optFns ...func(*efs.Options)) (*efs.DescribeMountTargetsOutput, error)
	DeleteMountTarget(ctx context.Context, in *efs.DeleteMountTargetInput, optFns ...func(*efs.Options)) (*efs.DeleteMountTargetOutput, error)
}

// FileSystems implements FileSystemManager on top of EFS.
type FileSystems struct {
	api   EFSAPI
	retry []retry.Option
}

var _ FileSystemManager = (*FileSystems)(nil)

// NewFileSystems creates a FileSystems client. With no retry options
// DefaultRetry is used.
func NewFileSystems(api EFSAPI, retryOpts ...retry.Option) *FileSystems {
	if len(retryOpts) == 0 {
		retryOpts = DefaultRetry()
	}
	return &FileSystems{api: api, retry: retryOpts}
}

// NewFileSystemsFromConfig creates a FileSystems client from an SDK configuration.
func NewFileSystemsFromConfig(cfg awssdk.Config) *FileSystems {
	return NewFileSystems(efs.NewFromConfig(cfg, func(o *efs.Options) {
		o.RetryMaxAttempts = sdkAttempts
	}))
}

// CreateFileSystem creates a file system tagged with name. A fresh creation
// token is generated per call, so retries of the same call are idempotent
// and separate calls create separate file systems.
func (f *FileSystems) CreateFileSystem(ctx context.Context, name string) (*FileSystem, error) {
	in := &efs.CreateFileSystemInput{
		CreationToken: awssdk.String(uuid.NewString()),
		Tags:          []types.Tag{{Key: awssdk.String("Name"), Value: awssdk.String(name)}},
	}
	out, err := call(ctx, f.retry, func(ctx context.Context) (*efs.CreateFileSystemOutput, error) {
		return f.api.CreateFileSystem(ctx, in)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create file system %s: %w", name, err)
	}
	return &FileSystem{
		ID:    awssdk.ToString(out.FileSystemId),
		Name:  name,
		State: string(out.LifeCycleState),
	}, nil
}

// DescribeFileSystem returns the file system or an error matching IsNotFound.
func (f *FileSystems) DescribeFileSystem(ctx context.Context, fileSystemID string) (*FileSystem, error) {
	out, err := call(ctx, f.retry, func(ctx context.Context) (*efs.DescribeFileSystemsOutput, error) {
		return f.api.DescribeFileSystems(ctx, &efs.DescribeFileSystemsInput{FileSystemId: awssdk.String(fileSystemID)})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe file system %s: %w", fileSystemID, err)
	}
	if len(out.FileSystems) == 0 {
		return nil, fmt.Errorf("file system %s: %w", fileSystemID, ErrNotFound)
	}
	fs := out.FileSystems[0]
	return &FileSystem{
		ID:           awssdk.ToString(fs.FileSystemId),
		Name:         awssdk.ToString(fs.Name),
		State:        string(fs.LifeCycleState),
		MountTargets: fs.NumberOfMountTargets,
	}, nil
}

// DeleteFileSystem deletes a file system that has no mount targets left.
func (f *FileSystems) DeleteFileSystem(ctx context.Context, fileSystemID string) error {
	_, err := call(ctx, f.retry, func(ctx context.Context) (*efs.DeleteFileSystemOutput, error) {
		return f.api.DeleteFileSystem(ctx, &efs.DeleteFileSystemInput{FileSystemId: awssdk.String(fileSystemID)})
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete file system %s: %w", fileSystemID, err)
	}
	return nil
}

// CreateMountTarget exposes the file system in subnetID. It does not wait.
func (f *FileSystems) CreateMountTarget(ctx context.Context, fileSystemID, subnetID string, securityGroups []string) (*MountTarget, error) {
	out, err := call(ctx, f.retry, func(ctx context.Context) (*efs.CreateMountTargetOutput, error) {
		return f.api.CreateMountTarget(ctx, &efs.CreateMountTargetInput{
			FileSystemId:   awssdk.String(fileSystemID),
			SubnetId:       awssdk.String(subnetID),
			SecurityGroups: securityGroups,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mount target for %s in %s: %w", fileSystemID, subnetID, err)
	}
	return &MountTarget{
		ID:           awssdk.ToString(out.MountTargetId),
		FileSystemID: awssdk.ToString(out.FileSystemId),
		State:        string(out.LifeCycleState),
		SubnetID:     awssdk.ToString(out.SubnetId),
		IPAddress:    awssdk.ToString(out.IpAddress),
	}, nil
}

// DescribeMountTarget returns the mount target or an error matching IsNotFound.
func (f *FileSystems) DescribeMountTarget(ctx context.Context, mountTargetID string) (*MountTarget, error) {
	out, err := call(ctx, f.retry, func(ctx context.Context) (*efs.DescribeMountTargetsOutput, error) {
		return f.api.DescribeMountTargets(ctx, &efs.DescribeMountTargetsInput{MountTargetId: awssdk.String(mountTargetID)})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe mount target %s: %w", mountTargetID, err)
	}
	if len(out.MountTargets) == 0 {
		return nil, fmt.Errorf("mount target %s: %w", mountTargetID, ErrNotFound)
	}
	mt := out.MountTargets[0]
	return &MountTarget{
		ID:           awssdk.ToString(mt.MountTargetId),
		FileSystemID: awssdk.ToString(mt.FileSystemId),
		State:        string(mt.LifeCycleState),
		SubnetID:     awssdk.ToString(mt.SubnetId),
		IPAddress:    awssdk.ToString(mt.IpAddress),
	}, nil
}

// DeleteMountTarget deletes a mount target. One that is already gone is not an error.
func (f *FileSystems) DeleteMountTarget(ctx context.Context, mountTargetID string) error {
	_, err := call(ctx, f.retry, func(ctx context.Context) (*efs.DeleteMountTargetOutput, error) {
		return f.api.DeleteMountTarget(ctx, &efs.DeleteMountTargetInput{MountTargetId: awssdk.String(mountTargetID)})
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete mount target %s: %w", mountTargetID, err)
	}
	return nil
}
