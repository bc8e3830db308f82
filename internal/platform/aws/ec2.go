package aws

import (
	"context"
	"errors"
	"fmt"
	"slices"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"

	"github.com/imamik/storagelab/internal/util/retry"
)

// EC2API is the subset of the EC2 client used by Compute.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	RunInstances(ctx context.Context, in *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	CreateTags(ctx context.Context, in *ec2.CreateTagsInput, optFns ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error)
	StopInstances(ctx context.Context, in *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	TerminateInstances(ctx context.Context, in *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	CreateVolume(ctx context.Context, in *ec2.CreateVolumeInput, optFns ...func(*ec2.Options)) (*ec2.CreateVolumeOutput, error)
	DescribeVolumes(ctx context.Context, in *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	AttachVolume(ctx context.Context, in *ec2.AttachVolumeInput, optFns ...func(*ec2.Options)) (*ec2.AttachVolumeOutput, error)
	DetachVolume(ctx context.Context, in *ec2.DetachVolumeInput, optFns ...func(*ec2.Options)) (*ec2.DetachVolumeOutput, error)
	DeleteVolume(ctx context.Context, in *ec2.DeleteVolumeInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVolumeOutput, error)
	ImportKeyPair(ctx context.Context, in *ec2.ImportKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.ImportKeyPairOutput, error)
}

// Device names tried, in order, when attaching a volume.
var candidateDevices = []string{
	"/dev/sdf", "/dev/sdg", "/dev/sdh", "/dev/sdi", "/dev/sdj", "/dev/sdk",
	"/dev/sdl", "/dev/sdm", "/dev/sdn", "/dev/sdo", "/dev/sdp",
}

// ErrNoFreeDevice is returned when every candidate device name is taken.
var ErrNoFreeDevice = errors.New("no free device name to attach the volume")

// Compute implements ComputeManager on top of EC2.
type Compute struct {
	api   EC2API
	retry []retry.Option
}

var _ ComputeManager = (*Compute)(nil)

// NewCompute creates a Compute client. With no retry options DefaultRetry is used.
func NewCompute(api EC2API, retryOpts ...retry.Option) *Compute {
	if len(retryOpts) == 0 {
		retryOpts = DefaultRetry()
	}
	return &Compute{api: api, retry: retryOpts}
}

// NewComputeFromConfig creates a Compute client from an SDK configuration.
func NewComputeFromConfig(cfg awssdk.Config) *Compute {
	return NewCompute(ec2.NewFromConfig(cfg, func(o *ec2.Options) {
		o.RetryMaxAttempts = sdkAttempts
	}))
}

// CountInstances counts instances in every reservation, across pages.
func (c *Compute) CountInstances(ctx context.Context) (int, error) {
	count := 0
	p := ec2.NewDescribeInstancesPaginator(c.api, &ec2.DescribeInstancesInput{})
	for p.HasMorePages() {
		page, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.DescribeInstancesOutput, error) {
			return p.NextPage(ctx)
		})
		if err != nil {
			return 0, fmt.Errorf("failed to list instances: %w", err)
		}
		for _, r := range page.Reservations {
			count += len(r.Instances)
		}
	}
	return count, nil
}

// RunInstance launches exactly one instance and returns its ID.
func (c *Compute) RunInstance(ctx context.Context, opts RunInstanceOpts) (string, error) {
	in := &ec2.RunInstancesInput{
		ImageId:      awssdk.String(opts.AMI),
		InstanceType: types.InstanceType(opts.InstanceType),
		MinCount:     awssdk.Int32(1),
		MaxCount:     awssdk.Int32(1),
		ClientToken:  awssdk.String(uuid.NewString()),
	}
	if opts.KeyName != "" {
		in.KeyName = awssdk.String(opts.KeyName)
	}

	// The client token makes a retried launch return the first instance.
	out, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.RunInstancesOutput, error) {
		return c.api.RunInstances(ctx, in)
	})
	if err != nil {
		return "", fmt.Errorf("failed to run instance from %s: %w", opts.AMI, err)
	}
	if len(out.Instances) == 0 {
		return "", fmt.Errorf("run instances returned no instance")
	}
	return awssdk.ToString(out.Instances[0].InstanceId), nil
}

// TagInstance sets one tag on an instance.
func (c *Compute) TagInstance(ctx context.Context, instanceID, key, value string) error {
	_, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.CreateTagsOutput, error) {
		return c.api.CreateTags(ctx, &ec2.CreateTagsInput{
			Resources: []string{instanceID},
			Tags:      []types.Tag{{Key: awssdk.String(key), Value: awssdk.String(value)}},
		})
	})
	if err != nil {
		return fmt.Errorf("failed to tag instance %s: %w", instanceID, err)
	}
	return nil
}

// StopInstance requests a stop. It does not wait.
func (c *Compute) StopInstance(ctx context.Context, instanceID string) error {
	_, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.StopInstancesOutput, error) {
		return c.api.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: []string{instanceID}})
	})
	if err != nil {
		return fmt.Errorf("failed to stop instance %s: %w", instanceID, err)
	}
	return nil
}

// TerminateInstance requests termination. It does not wait.
func (c *Compute) TerminateInstance(ctx context.Context, instanceID string) error {
	_, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.TerminateInstancesOutput, error) {
		return c.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: []string{instanceID}})
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}
	return nil
}

// DescribeInstance returns the instance or an error matching IsNotFound.
func (c *Compute) DescribeInstance(ctx context.Context, instanceID string) (*Instance, error) {
	out, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.DescribeInstancesOutput, error) {
		return c.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", instanceID, err)
	}
	for _, r := range out.Reservations {
		for i := range r.Instances {
			if awssdk.ToString(r.Instances[i].InstanceId) == instanceID {
				return instanceFromEC2(&r.Instances[i]), nil
			}
		}
	}
	return nil, fmt.Errorf("instance %s: %w", instanceID, ErrNotFound)
}

// PublicIP returns the instance's public IPv4 address, or fallback when the
// instance has none.
func (c *Compute) PublicIP(ctx context.Context, instanceID, fallback string) (string, error) {
	inst, err := c.DescribeInstance(ctx, instanceID)
	if err != nil {
		return "", err
	}
	if inst.PublicIP != "" {
		return inst.PublicIP, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("instance %s has no public IP and no fallback address is configured", instanceID)
}

// NetworkPlacement returns the subnet and security groups of the instance.
func (c *Compute) NetworkPlacement(ctx context.Context, instanceID string) (string, []string, error) {
	inst, err := c.DescribeInstance(ctx, instanceID)
	if err != nil {
		return "", nil, err
	}
	if inst.SubnetID == "" || len(inst.SecurityGroupIDs) == 0 {
		return "", nil, fmt.Errorf("instance %s has no subnet or security group", instanceID)
	}
	return inst.SubnetID, inst.SecurityGroupIDs, nil
}

// FindFreeDevice returns the first device name not mapped on the instance.
func (c *Compute) FindFreeDevice(ctx context.Context, instanceID string) (string, error) {
	inst, err := c.DescribeInstance(ctx, instanceID)
	if err != nil {
		return "", err
	}
	return FreeDevice(inst.Devices)
}

// FreeDevice returns the first candidate device name not in used.
func FreeDevice(used []string) (string, error) {
	for _, dev := range candidateDevices {
		if !slices.Contains(used, dev) {
			return dev, nil
		}
	}
	return "", ErrNoFreeDevice
}

// CreateVolume creates a block volume and returns its ID. It does not wait.
func (c *Compute) CreateVolume(ctx context.Context, opts VolumeOpts) (string, error) {
	in := &ec2.CreateVolumeInput{
		AvailabilityZone: awssdk.String(opts.AvailabilityZone),
		Size:             awssdk.Int32(opts.SizeGB),
		VolumeType:       types.VolumeType(opts.VolumeType),
		ClientToken:      awssdk.String(uuid.NewString()),
	}
	if opts.Name != "" {
		in.TagSpecifications = []types.TagSpecification{{
			ResourceType: types.ResourceTypeVolume,
			Tags:         []types.Tag{{Key: awssdk.String("Name"), Value: awssdk.String(opts.Name)}},
		}}
	}

	out, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.CreateVolumeOutput, error) {
		return c.api.CreateVolume(ctx, in)
	})
	if err != nil {
		return "", fmt.Errorf("failed to create volume in %s: %w", opts.AvailabilityZone, err)
	}
	return awssdk.ToString(out.VolumeId), nil
}

// DescribeVolume returns the volume or an error matching IsNotFound.
func (c *Compute) DescribeVolume(ctx context.Context, volumeID string) (*Volume, error) {
	out, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.DescribeVolumesOutput, error) {
		return c.api.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{VolumeIds: []string{volumeID}})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe volume %s: %w", volumeID, err)
	}
	if len(out.Volumes) == 0 {
		return nil, fmt.Errorf("volume %s: %w", volumeID, ErrNotFound)
	}

	v := out.Volumes[0]
	vol := &Volume{
		ID:               awssdk.ToString(v.VolumeId),
		State:            string(v.State),
		AvailabilityZone: awssdk.ToString(v.AvailabilityZone),
		SizeGB:           awssdk.ToInt32(v.Size),
	}
	if len(v.Attachments) > 0 {
		vol.InstanceID = awssdk.ToString(v.Attachments[0].InstanceId)
		vol.Device = awssdk.ToString(v.Attachments[0].Device)
	}
	return vol, nil
}

// AttachVolume attaches a volume under device. It does not wait.
func (c *Compute) AttachVolume(ctx context.Context, volumeID, instanceID, device string) error {
	_, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.AttachVolumeOutput, error) {
		return c.api.AttachVolume(ctx, &ec2.AttachVolumeInput{
			VolumeId:   awssdk.String(volumeID),
			InstanceId: awssdk.String(instanceID),
			Device:     awssdk.String(device),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to attach volume %s to %s at %s: %w", volumeID, instanceID, device, err)
	}
	return nil
}

// DetachVolume detaches a volume from whatever instance holds it.
func (c *Compute) DetachVolume(ctx context.Context, volumeID string) error {
	_, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.DetachVolumeOutput, error) {
		return c.api.DetachVolume(ctx, &ec2.DetachVolumeInput{VolumeId: awssdk.String(volumeID)})
	})
	if err != nil {
		return fmt.Errorf("failed to detach volume %s: %w", volumeID, err)
	}
	return nil
}

// DeleteVolume deletes a volume. A volume that is already gone is not an error.
func (c *Compute) DeleteVolume(ctx context.Context, volumeID string) error {
	_, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.DeleteVolumeOutput, error) {
		return c.api.DeleteVolume(ctx, &ec2.DeleteVolumeInput{VolumeId: awssdk.String(volumeID)})
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete volume %s: %w", volumeID, err)
	}
	return nil
}

// ImportKeyPair uploads a public key under name and returns its fingerprint.
// An existing key pair with the same name yields ErrAlreadyExists.
func (c *Compute) ImportKeyPair(ctx context.Context, name string, publicKey []byte) (string, error) {
	out, err := call(ctx, c.retry, func(ctx context.Context) (*ec2.ImportKeyPairOutput, error) {
		return c.api.ImportKeyPair(ctx, &ec2.ImportKeyPairInput{
			KeyName:           awssdk.String(name),
			PublicKeyMaterial: publicKey,
		})
	})
	if err != nil {
		if ErrorCode(err) == "InvalidKeyPair.Duplicate" {
			return "", fmt.Errorf("key pair %s: %w", name, ErrAlreadyExists)
		}
		return "", fmt.Errorf("failed to import key pair %s: %w", name, err)
	}
	return awssdk.ToString(out.KeyFingerprint), nil
}

func instanceFromEC2(in *types.Instance) *Instance {
	inst := &Instance{
		ID:       awssdk.ToString(in.InstanceId),
		PublicIP: awssdk.ToString(in.PublicIpAddress),
		SubnetID: awssdk.ToString(in.SubnetId),
	}
	if in.State != nil {
		inst.State = string(in.State.Name)
	}
	if in.Placement != nil {
		inst.AvailabilityZone = awssdk.ToString(in.Placement.AvailabilityZone)
	}
	for _, sg := range in.SecurityGroups {
		inst.SecurityGroupIDs = append(inst.SecurityGroupIDs, awssdk.ToString(sg.GroupId))
	}
	for _, m := range in.BlockDeviceMappings {
		if m.DeviceName != nil {
			inst.Devices = append(inst.Devices, *m.DeviceName)
		}
	}
	for _, tag := range in.Tags {
		if awssdk.ToString(tag.Key) == "Name" {
			inst.Name = awssdk.ToString(tag.Value)
		}
	}
	return inst
}
