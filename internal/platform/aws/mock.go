package aws

import "context"

// MockClient is a mock implementation of every manager interface in this
// package. Unset functions succeed with placeholder values.
type MockClient struct {
	CountInstancesFunc    func(ctx context.Context) (int, error)
	RunInstanceFunc       func(ctx context.Context, opts RunInstanceOpts) (string, error)
	TagInstanceFunc       func(ctx context.Context, instanceID, key, value string) error
	StopInstanceFunc      func(ctx context.Context, instanceID string) error
	TerminateInstanceFunc func(ctx context.Context, instanceID string) error
	DescribeInstanceFunc  func(ctx context.Context, instanceID string) (*Instance, error)
	PublicIPFunc          func(ctx context.Context, instanceID, fallback string) (string, error)
	NetworkPlacementFunc  func(ctx context.Context, instanceID string) (string, []string, error)
	FindFreeDeviceFunc    func(ctx context.Context, instanceID string) (string, error)

	CreateVolumeFunc   func(ctx context.Context, opts VolumeOpts) (string, error)
	DescribeVolumeFunc func(ctx context.Context, volumeID string) (*Volume, error)
	AttachVolumeFunc   func(ctx context.Context, volumeID, instanceID, device string) error
	DetachVolumeFunc   func(ctx context.Context, volumeID string) error
	DeleteVolumeFunc   func(ctx context.Context, volumeID string) error

	ImportKeyPairFunc func(ctx context.Context, name string, publicKey []byte) (string, error)

	// File systems
	CreateFileSystemFunc    func(ctx context.Context, name string) (*FileSystem, error)
	DescribeFileSystemFunc  func(ctx context.Context, fileSystemID string) (*FileSystem, error)
	DeleteFileSystemFunc    func(ctx context.Context, fileSystemID string) error
	CreateMountTargetFunc   func(ctx context.Context, fileSystemID, subnetID string, securityGroups []string) (*MountTarget, error)
	DescribeMountTargetFunc func(ctx context.Context, mountTargetID string) (*MountTarget, error)
	DeleteMountTargetFunc   func(ctx context.Context, mountTargetID string) error

	// Queries
	StartQueryFunc    func(ctx context.Context, in QueryInput) (string, error)
	DescribeQueryFunc func(ctx context.Context, queryID string) (*QueryExecution, error)
	QueryResultsFunc  func(ctx context.Context, queryID string, maxRows int) ([][]string, error)
	StopQueryFunc     func(ctx context.Context, queryID string) error
}

// Ensure interface compliance
var (
	_ ComputeManager    = (*MockClient)(nil)
	_ FileSystemManager = (*MockClient)(nil)
	_ QueryRunner       = (*MockClient)(nil)
)

// CountInstances mocks instance counting.
func (m *MockClient) CountInstances(ctx context.Context) (int, error) {
	if m.CountInstancesFunc != nil {
		return m.CountInstancesFunc(ctx)
	}
	return 0, nil
}

// RunInstance mocks an instance launch.
func (m *MockClient) RunInstance(ctx context.Context, opts RunInstanceOpts) (string, error) {
	if m.RunInstanceFunc != nil {
		return m.RunInstanceFunc(ctx, opts)
	}
	return "i-mock", nil
}

// TagInstance mocks tagging.
func (m *MockClient) TagInstance(ctx context.Context, instanceID, key, value string) error {
	if m.TagInstanceFunc != nil {
		return m.TagInstanceFunc(ctx, instanceID, key, value)
	}
	return nil
}

// StopInstance mocks a stop request.
func (m *MockClient) StopInstance(ctx context.Context, instanceID string) error {
	if m.StopInstanceFunc != nil {
		return m.StopInstanceFunc(ctx, instanceID)
	}
	return nil
}

// TerminateInstance mocks a terminate request.
func (m *MockClient) TerminateInstance(ctx context.Context, instanceID string) error {
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, instanceID)
	}
	return nil
}

// DescribeInstance mocks instance lookup. The default instance is running.
func (m *MockClient) DescribeInstance(ctx context.Context, instanceID string) (*Instance, error) {
	if m.DescribeInstanceFunc != nil {
		return m.DescribeInstanceFunc(ctx, instanceID)
	}
	return &Instance{ID: instanceID, State: InstanceRunningState, AvailabilityZone: "us-east-1a"}, nil
}

// PublicIP mocks public address lookup.
func (m *MockClient) PublicIP(ctx context.Context, instanceID, fallback string) (string, error) {
	if m.PublicIPFunc != nil {
		return m.PublicIPFunc(ctx, instanceID, fallback)
	}
	return "198.51.100.1", nil
}

// NetworkPlacement mocks subnet and security group lookup.
func (m *MockClient) NetworkPlacement(ctx context.Context, instanceID string) (string, []string, error) {
	if m.NetworkPlacementFunc != nil {
		return m.NetworkPlacementFunc(ctx, instanceID)
	}
	return "subnet-mock", []string{"sg-mock"}, nil
}

// FindFreeDevice mocks device selection.
func (m *MockClient) FindFreeDevice(ctx context.Context, instanceID string) (string, error) {
	if m.FindFreeDeviceFunc != nil {
		return m.FindFreeDeviceFunc(ctx, instanceID)
	}
	return "/dev/sdf", nil
}

// CreateVolume mocks volume creation.
func (m *MockClient) CreateVolume(ctx context.Context, opts VolumeOpts) (string, error) {
	if m.CreateVolumeFunc != nil {
		return m.CreateVolumeFunc(ctx, opts)
	}
	return "vol-mock", nil
}

// DescribeVolume mocks volume lookup. The default volume is available.
func (m *MockClient) DescribeVolume(ctx context.Context, volumeID string) (*Volume, error) {
	if m.DescribeVolumeFunc != nil {
		return m.DescribeVolumeFunc(ctx, volumeID)
	}
	return &Volume{ID: volumeID, State: StateAvailable}, nil
}

// AttachVolume mocks volume attachment.
func (m *MockClient) AttachVolume(ctx context.Context, volumeID, instanceID, device string) error {
	if m.AttachVolumeFunc != nil {
		return m.AttachVolumeFunc(ctx, volumeID, instanceID, device)
	}
	return nil
}

// DetachVolume mocks volume detachment.
func (m *MockClient) DetachVolume(ctx context.Context, volumeID string) error {
	if m.DetachVolumeFunc != nil {
		return m.DetachVolumeFunc(ctx, volumeID)
	}
	return nil
}

// DeleteVolume mocks volume deletion.
func (m *MockClient) DeleteVolume(ctx context.Context, volumeID string) error {
	if m.DeleteVolumeFunc != nil {
		return m.DeleteVolumeFunc(ctx, volumeID)
	}
	return nil
}

// ImportKeyPair mocks key import.
func (m *MockClient) ImportKeyPair(ctx context.Context, name string, publicKey []byte) (string, error) {
	if m.ImportKeyPairFunc != nil {
		return m.ImportKeyPairFunc(ctx, name, publicKey)
	}
	return "mock-fingerprint", nil
}

// CreateFileSystem mocks file system creation.
func (m *MockClient) CreateFileSystem(ctx context.Context, name string) (*FileSystem, error) {
	if m.CreateFileSystemFunc != nil {
		return m.CreateFileSystemFunc(ctx, name)
	}
	return &FileSystem{ID: "fs-mock", Name: name, State: StateCreating}, nil
}

// DescribeFileSystem mocks file system lookup. The default file system is available.
func (m *MockClient) DescribeFileSystem(ctx context.Context, fileSystemID string) (*FileSystem, error) {
	if m.DescribeFileSystemFunc != nil {
		return m.DescribeFileSystemFunc(ctx, fileSystemID)
	}
	return &FileSystem{ID: fileSystemID, State: StateAvailable}, nil
}

// DeleteFileSystem mocks file system deletion.
func (m *MockClient) DeleteFileSystem(ctx context.Context, fileSystemID string) error {
	if m.DeleteFileSystemFunc != nil {
		return m.DeleteFileSystemFunc(ctx, fileSystemID)
	}
	return nil
}

// CreateMountTarget mocks mount target creation.
func (m *MockClient) CreateMountTarget(ctx context.Context, fileSystemID, subnetID string, securityGroups []string) (*MountTarget, error) {
	if m.CreateMountTargetFunc != nil {
		return m.CreateMountTargetFunc(ctx, fileSystemID, subnetID, securityGroups)
	}
	return &MountTarget{ID: "fsmt-mock", FileSystemID: fileSystemID, SubnetID: subnetID, State: StateCreating}, nil
}

// DescribeMountTarget mocks mount target lookup. The default target is available.
func (m *MockClient) DescribeMountTarget(ctx context.Context, mountTargetID string) (*MountTarget, error) {
	if m.DescribeMountTargetFunc != nil {
		return m.DescribeMountTargetFunc(ctx, mountTargetID)
	}
	return &MountTarget{ID: mountTargetID, State: StateAvailable}, nil
}

// DeleteMountTarget mocks mount target deletion.
func (m *MockClient) DeleteMountTarget(ctx context.Context, mountTargetID string) error {
	if m.DeleteMountTargetFunc != nil {
		return m.DeleteMountTargetFunc(ctx, mountTargetID)
	}
	return nil
}

// StartQuery mocks query submission.
func (m *MockClient) StartQuery(ctx context.Context, in QueryInput) (string, error) {
	if m.StartQueryFunc != nil {
		return m.StartQueryFunc(ctx, in)
	}
	return "q-mock", nil
}

// DescribeQuery mocks query status lookup. The default query has succeeded.
func (m *MockClient) DescribeQuery(ctx context.Context, queryID string) (*QueryExecution, error) {
	if m.DescribeQueryFunc != nil {
		return m.DescribeQueryFunc(ctx, queryID)
	}
	return &QueryExecution{ID: queryID, State: QuerySucceeded}, nil
}

// QueryResults mocks result retrieval.
func (m *MockClient) QueryResults(ctx context.Context, queryID string, maxRows int) ([][]string, error) {
	if m.QueryResultsFunc != nil {
		return m.QueryResultsFunc(ctx, queryID, maxRows)
	}
	return nil, nil
}

// StopQuery mocks query cancellation.
func (m *MockClient) StopQuery(ctx context.Context, queryID string) error {
	if m.StopQueryFunc != nil {
		return m.StopQueryFunc(ctx, queryID)
	}
	return nil
}
