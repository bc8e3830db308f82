package aws

import (
	"context"
	"time"
)

// Instance is the subset of instance details the lab uses.
type Instance struct {
	ID               string
	Name             string
	State            string
	AvailabilityZone string
	PublicIP         string
	SubnetID         string
	SecurityGroupIDs []string
	// Devices lists the block device names already mapped on the instance.
	Devices []string
}

// RunInstanceOpts holds the parameters of a single instance launch.
type RunInstanceOpts struct {
	AMI          string
	InstanceType string
	KeyName      string
}

// Volume is the subset of block volume details the lab uses.
type Volume struct {
	ID               string
	State            string
	AvailabilityZone string
	SizeGB           int32
	InstanceID       string
	Device           string
}

// VolumeOpts holds the parameters of a new block volume.
type VolumeOpts struct {
	AvailabilityZone string
	SizeGB           int32
	VolumeType       string
	Name             string
}

// FileSystem is the subset of shared file system details the lab uses.
type FileSystem struct {
	ID           string
	Name         string
	State        string
	MountTargets int32
}

// MountTarget is a network endpoint of a file system in one subnet.
type MountTarget struct {
	ID           string
	FileSystemID string
	State        string
	SubnetID     string
	IPAddress    string
}

// QueryInput describes a statement to run.
type QueryInput struct {
	SQL            string
	Database       string
	OutputLocation string
}

// QueryExecution is the status of a submitted statement.
type QueryExecution struct {
	ID             string
	State          string
	Reason         string
	OutputLocation string
	DataScanned    int64
	EngineTime     time.Duration
}

// InstanceDescriber is what the instance probe needs.
type InstanceDescriber interface {
	DescribeInstance(ctx context.Context, instanceID string) (*Instance, error)
}

// InstanceManager defines instance lifecycle operations.
type InstanceManager interface {
	InstanceDescriber
	CountInstances(ctx context.Context) (int, error)
	RunInstance(ctx context.Context, opts RunInstanceOpts) (string, error)
	TagInstance(ctx context.Context, instanceID, key, value string) error
	StopInstance(ctx context.Context, instanceID string) error
	TerminateInstance(ctx context.Context, instanceID string) error
	// PublicIP returns the instance's public address, or fallback when it has none.
	PublicIP(ctx context.Context, instanceID, fallback string) (string, error)
	// NetworkPlacement returns the instance's subnet and security groups.
	NetworkPlacement(ctx context.Context, instanceID string) (string, []string, error)
	// FindFreeDevice returns the first unused device name in /dev/sdf../dev/sdp.
	FindFreeDevice(ctx context.Context, instanceID string) (string, error)
}

// VolumeDescriber is what the volume probe needs.
type VolumeDescriber interface {
	DescribeVolume(ctx context.Context, volumeID string) (*Volume, error)
}

// VolumeManager defines block volume operations.
type VolumeManager interface {
	VolumeDescriber
	CreateVolume(ctx context.Context, opts VolumeOpts) (string, error)
	AttachVolume(ctx context.Context, volumeID, instanceID, device string) error
	DetachVolume(ctx context.Context, volumeID string) error
	DeleteVolume(ctx context.Context, volumeID string) error
}

// KeyPairManager imports local SSH keys.
type KeyPairManager interface {
	ImportKeyPair(ctx context.Context, name string, publicKey []byte) (string, error)
}

// FileSystemDescriber is what the file-system probes need.
type FileSystemDescriber interface {
	DescribeFileSystem(ctx context.Context, fileSystemID string) (*FileSystem, error)
	DescribeMountTarget(ctx context.Context, mountTargetID string) (*MountTarget, error)
}

// FileSystemManager defines shared file system operations.
type FileSystemManager interface {
	FileSystemDescriber
	CreateFileSystem(ctx context.Context, name string) (*FileSystem, error)
	CreateMountTarget(ctx context.Context, fileSystemID, subnetID string, securityGroups []string) (*MountTarget, error)
	DeleteMountTarget(ctx context.Context, mountTargetID string) error
	DeleteFileSystem(ctx context.Context, fileSystemID string) error
}

// QueryDescriber is what the query probe needs.
type QueryDescriber interface {
	DescribeQuery(ctx context.Context, queryID string) (*QueryExecution, error)
}

// QueryRunner defines SQL query operations.
type QueryRunner interface {
	QueryDescriber
	StartQuery(ctx context.Context, in QueryInput) (string, error)
	// QueryResults returns at most maxRows rows, header row included.
	QueryResults(ctx context.Context, queryID string, maxRows int) ([][]string, error)
	StopQuery(ctx context.Context, queryID string) error
}

// ComputeManager combines the EC2-backed interfaces.
type ComputeManager interface {
	InstanceManager
	VolumeManager
	KeyPairManager
}
