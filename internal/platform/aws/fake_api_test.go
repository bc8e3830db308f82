package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/efs"

	"github.com/imamik/storagelab/internal/util/retry"
)

func fastRetry() []retry.Option {
	return []retry.Option{retry.WithMaxRetries(2), retry.WithInitialDelay(time.Millisecond), retry.WithMaxDelay(time.Millisecond)}
}

type fakeEC2 struct {
	describeInstances  func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error)
	runInstances       func(*ec2.RunInstancesInput) (*ec2.RunInstancesOutput, error)
	createTags         func(*ec2.CreateTagsInput) (*ec2.CreateTagsOutput, error)
	stopInstances      func(*ec2.StopInstancesInput) (*ec2.StopInstancesOutput, error)
	terminateInstances func(*ec2.TerminateInstancesInput) (*ec2.TerminateInstancesOutput, error)
	createVolume       func(*ec2.CreateVolumeInput) (*ec2.CreateVolumeOutput, error)
	describeVolumes    func(*ec2.DescribeVolumesInput) (*ec2.DescribeVolumesOutput, error)
	attachVolume       func(*ec2.AttachVolumeInput) (*ec2.AttachVolumeOutput, error)
	detachVolume       func(*ec2.DetachVolumeInput) (*ec2.DetachVolumeOutput, error)
	deleteVolume       func(*ec2.DeleteVolumeInput) (*ec2.DeleteVolumeOutput, error)
	importKeyPair      func(*ec2.ImportKeyPairInput) (*ec2.ImportKeyPairOutput, error)
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return f.describeInstances(in)
}

func (f *fakeEC2) RunInstances(_ context.Context, in *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	return f.runInstances(in)
}

func (f *fakeEC2) CreateTags(_ context.Context, in *ec2.CreateTagsInput, _ ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error) {
	return f.createTags(in)
}

func (f *fakeEC2) StopInstances(_ context.Context, in *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	return f.stopInstances(in)
}

func (f *fakeEC2) TerminateInstances(_ context.Context, in *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	return f.terminateInstances(in)
}

func (f *fakeEC2) CreateVolume(_ context.Context, in *ec2.CreateVolumeInput, _ ...func(*ec2.Options)) (*ec2.CreateVolumeOutput, error) {
	return f.createVolume(in)
}

func (f *fakeEC2) DescribeVolumes(_ context.Context, in *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	return f.describeVolumes(in)
}

func (f *fakeEC2) AttachVolume(_ context.Context, in *ec2.AttachVolumeInput, _ ...func(*ec2.Options)) (*ec2.AttachVolumeOutput, error) {
	return f.attachVolume(in)
}

func (f *fakeEC2) DetachVolume(_ context.Context, in *ec2.DetachVolumeInput, _ ...func(*ec2.Options)) (*ec2.DetachVolumeOutput, error) {
	return f.detachVolume(in)
}

func (f *fakeEC2) DeleteVolume(_ context.Context, in *ec2.DeleteVolumeInput, _ ...func(*ec2.Options)) (*ec2.DeleteVolumeOutput, error) {
	return f.deleteVolume(in)
}

func (f *fakeEC2) ImportKeyPair(_ context.Context, in *ec2.ImportKeyPairInput, _ ...func(*ec2.Options)) (*ec2.ImportKeyPairOutput, error) {
	return f.importKeyPair(in)
}

type fakeEFS struct {
	createFileSystem     func(*efs.CreateFileSystemInput) (*efs.CreateFileSystemOutput, error)
	describeFileSystems  func(*efs.DescribeFileSystemsInput) (*efs.DescribeFileSystemsOutput, error)
	deleteFileSystem     func(*efs.DeleteFileSystemInput) (*efs.DeleteFileSystemOutput, error)
	createMountTarget    func(*efs.CreateMountTargetInput) (*efs.CreateMountTargetOutput, error)
	describeMountTargets func(*efs.DescribeMountTargetsInput) (*efs.DescribeMountTargetsOutput, error)
	deleteMountTarget    func(*efs.DeleteMountTargetInput) (*efs.DeleteMountTargetOutput, error)
}

func (f *fakeEFS) CreateFileSystem(_ context.Context, in *efs.CreateFileSystemInput, _ ...func(*efs.Options)) (*efs.CreateFileSystemOutput, error) {
	return f.createFileSystem(in)
}

func (f *fakeEFS) DescribeFileSystems(_ context.Context, in *efs.DescribeFileSystemsInput, _ ...func(*efs.Options)) (*efs.DescribeFileSystemsOutput, error) {
	return f.describeFileSystems(in)
}

func (f *fakeEFS) DeleteFileSystem(_ context.Context, in *efs.DeleteFileSystemInput, _ ...func(*efs.Options)) (*efs.DeleteFileSystemOutput, error) {
	return f.deleteFileSystem(in)
}

func (f *fakeEFS) CreateMountTarget(_ context.Context, in *efs.CreateMountTargetInput, _ ...func(*efs.Options)) (*efs.CreateMountTargetOutput, error) {
	return f.createMountTarget(in)
}

func (f *fakeEFS) DescribeMountTargets(_ context.Context, in *efs.DescribeMountTargetsInput, _ ...func(*efs.Options)) (*efs.DescribeMountTargetsOutput, error) {
	return f.describeMountTargets(in)
}

func (f *fakeEFS) DeleteMountTarget(_ context.Context, in *efs.DeleteMountTargetInput, _ ...func(*efs.Options)) (*efs.DeleteMountTargetOutput, error) {
	return f.deleteMountTarget(in)
}

type fakeAthena struct {
	startQueryExecution func(*athena.StartQueryExecutionInput) (*athena.StartQueryExecutionOutput, error)
	getQueryExecution   func(*athena.GetQueryExecutionInput) (*athena.GetQueryExecutionOutput, error)
	getQueryResults     func(*athena.GetQueryResultsInput) (*athena.GetQueryResultsOutput, error)
	stopQueryExecution  func(*athena.StopQueryExecutionInput) (*athena.StopQueryExecutionOutput, error)
}

func (f *fakeAthena) StartQueryExecution(_ context.Context, in *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	return f.startQueryExecution(in)
}

func (f *fakeAthena) GetQueryExecution(_ context.Context, in *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	return f.getQueryExecution(in)
}

func (f *fakeAthena) GetQueryResults(_ context.Context, in *athena.GetQueryResultsInput, _ ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error) {
	return f.getQueryResults(in)
}

func (f *fakeAthena) StopQueryExecution(_ context.Context, in *athena.StopQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error) {
	return f.stopQueryExecution(in)
}
