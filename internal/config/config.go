package config

import (
	"fmt"
	"strings"
)

// Config is the merged lab configuration.
type Config struct {
	Region      string           `yaml:"region"`
	Endpoint    string           `yaml:"endpoint,omitempty"`
	Credentials Credentials      `yaml:"credentials"`
	KeyPair     KeyPairConfig    `yaml:"key_pair"`
	Instance    InstanceConfig   `yaml:"instance"`
	Volume      VolumeConfig     `yaml:"volume"`
	FileSystem  FileSystemConfig `yaml:"file_system"`
	Objects     ObjectsConfig    `yaml:"objects"`
	Query       QueryConfig      `yaml:"query"`

	// Waits is filled from the environment, never from YAML.
	Waits WaitPolicies `yaml:"-"`
}

// Credentials are static AWS keys. Empty keys fall back to the SDK default chain.
type Credentials struct {
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	SessionToken string `yaml:"session_token,omitempty"`
}

// Static reports whether explicit keys were configured.
func (c Credentials) Static() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// KeyPairConfig names the EC2 key pair and the local private key file.
type KeyPairConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// InstanceConfig describes the instance to launch or the existing one to use.
type InstanceConfig struct {
	ID      string `yaml:"id,omitempty"`
	IP      string `yaml:"ip,omitempty"`
	AMI     string `yaml:"ami"`
	Type    string `yaml:"type"`
	Name    string `yaml:"name"`
	SSHUser string `yaml:"ssh_user"`
	SSHPort int    `yaml:"ssh_port"`
}

// VolumeConfig describes the block volume created for the instance.
type VolumeConfig struct {
	SizeGB     int32  `yaml:"size_gb"`
	Type       string `yaml:"type"`
	MountPoint string `yaml:"mount_point"`
}

// FileSystemConfig describes the shared file system.
type FileSystemConfig struct {
	Name       string `yaml:"name"`
	MountPoint string `yaml:"mount_point"`
}

// ObjectsConfig describes the bucket layout and the generated dataset.
type ObjectsConfig struct {
	Bucket  string `yaml:"bucket"`
	Folder  string `yaml:"folder"`
	Records int    `yaml:"records"`
	Seed    int64  `yaml:"seed"`
}

// CSVPrefix is the key prefix of the CSV dataset.
func (o ObjectsConfig) CSVPrefix() string { return o.Folder + "csv/" }

// JSONPrefix is the key prefix of the JSON dataset.
func (o ObjectsConfig) JSONPrefix() string { return o.Folder + "json/" }

// QueryConfig describes the query catalog.
type QueryConfig struct {
	Database     string `yaml:"database"`
	CSVTable     string `yaml:"csv_table"`
	JSONTable    string `yaml:"json_table"`
	OutputPrefix string `yaml:"output_prefix"`
	ResultLimit  int    `yaml:"result_limit"`
}

// OutputLocation is where query results are written.
func (c *Config) OutputLocation() string {
	return fmt.Sprintf("s3://%s/%s", c.Objects.Bucket, c.Query.OutputPrefix)
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Instance.AMI == "" {
		c.Instance.AMI = DefaultAMI
	}
	if c.Instance.Type == "" {
		c.Instance.Type = DefaultInstanceType
	}
	if c.Instance.Name == "" {
		c.Instance.Name = DefaultInstanceName
	}
	if c.Instance.SSHUser == "" {
		c.Instance.SSHUser = DefaultSSHUser
	}
	if c.Instance.SSHPort == 0 {
		c.Instance.SSHPort = 22
	}

	if c.Volume.SizeGB == 0 {
		c.Volume.SizeGB = 1
	}
	if c.Volume.Type == "" {
		c.Volume.Type = "gp3"
	}
	if c.Volume.MountPoint == "" {
		c.Volume.MountPoint = "/mnt/ebs_volume"
	}

	if c.FileSystem.Name == "" {
		c.FileSystem.Name = "storagelab-efs"
	}
	if c.FileSystem.MountPoint == "" {
		c.FileSystem.MountPoint = "/mnt/efs"
	}

	if c.Objects.Bucket == "" {
		c.Objects.Bucket = DefaultBucket
	}
	if c.Objects.Folder == "" {
		c.Objects.Folder = DefaultFolder
	}
	if !strings.HasSuffix(c.Objects.Folder, "/") {
		c.Objects.Folder += "/"
	}
	if c.Objects.Records == 0 {
		c.Objects.Records = 100
	}
	if c.Objects.Seed == 0 {
		c.Objects.Seed = 1
	}

	if c.Query.Database == "" {
		c.Query.Database = DefaultDatabase
	}
	if c.Query.CSVTable == "" {
		c.Query.CSVTable = DefaultCSVTable
	}
	if c.Query.JSONTable == "" {
		c.Query.JSONTable = DefaultCSVTable + "_json"
	}
	if c.Query.OutputPrefix == "" {
		c.Query.OutputPrefix = "resultados_estudiantes/"
	}
	if !strings.HasSuffix(c.Query.OutputPrefix, "/") {
		c.Query.OutputPrefix += "/"
	}
	if c.Query.ResultLimit == 0 {
		c.Query.ResultLimit = 10
	}
}
