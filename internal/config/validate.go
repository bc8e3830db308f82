package config

import (
	"errors"
	"fmt"
	"regexp"
)

// ValidVolumeTypes lists the EBS volume types the lab accepts.
var ValidVolumeTypes = map[string]bool{
	"gp2":      true,
	"gp3":      true,
	"io1":      true,
	"io2":      true,
	"st1":      true,
	"sc1":      true,
	"standard": true,
}

var (
	identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	// Bucket names per S3 naming rules, minus the dotted-IP corner cases.
	bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
)

// Validate checks the merged configuration. Requirements that depend on the
// command, such as an instance ID, are checked by the Require helpers.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required (set %s)", EnvRegion)
	}
	if (c.Credentials.AccessKey == "") != (c.Credentials.SecretKey == "") {
		return fmt.Errorf("credentials: access_key and secret_key must be set together")
	}

	if err := c.validateVolume(); err != nil {
		return fmt.Errorf("volume validation failed: %w", err)
	}
	if err := c.validateObjects(); err != nil {
		return fmt.Errorf("objects validation failed: %w", err)
	}
	if err := c.validateQuery(); err != nil {
		return fmt.Errorf("query validation failed: %w", err)
	}
	if err := c.Waits.Validate(); err != nil {
		return fmt.Errorf("wait policy validation failed: %w", err)
	}
	return nil
}

func (c *Config) validateVolume() error {
	if c.Volume.SizeGB < 1 {
		return fmt.Errorf("size_gb must be at least 1, got %d", c.Volume.SizeGB)
	}
	if !ValidVolumeTypes[c.Volume.Type] {
		return fmt.Errorf("invalid volume type %q", c.Volume.Type)
	}
	return nil
}

func (c *Config) validateObjects() error {
	if !bucketPattern.MatchString(c.Objects.Bucket) {
		return fmt.Errorf("invalid bucket name %q", c.Objects.Bucket)
	}
	if c.Objects.Records < 1 {
		return fmt.Errorf("records must be at least 1, got %d", c.Objects.Records)
	}
	return nil
}

func (c *Config) validateQuery() error {
	for _, id := range []struct{ field, name string }{
		{"database", c.Query.Database},
		{"csv_table", c.Query.CSVTable},
		{"json_table", c.Query.JSONTable},
	} {
		if !identifierPattern.MatchString(id.name) {
			return fmt.Errorf("%s %q is not a valid identifier", id.field, id.name)
		}
	}
	if c.Query.ResultLimit < 1 {
		return fmt.Errorf("result_limit must be at least 1, got %d", c.Query.ResultLimit)
	}
	return nil
}

// ErrMissing is wrapped by the Require helpers.
var ErrMissing = errors.New("missing configuration")

// RequireInstanceID checks that an existing instance was configured.
func (c *Config) RequireInstanceID() error {
	if c.Instance.ID == "" {
		return fmt.Errorf("%w: instance id (set %s or instance.id)", ErrMissing, EnvInstanceID)
	}
	return nil
}

// RequireKeyName checks that a key pair name was configured.
func (c *Config) RequireKeyName() error {
	if c.KeyPair.Name == "" {
		return fmt.Errorf("%w: key pair name (set %s or key_pair.name)", ErrMissing, EnvPEMName)
	}
	return nil
}

// RequireKeyFile checks that a private key file was configured for SSH.
func (c *Config) RequireKeyFile() error {
	if c.KeyPair.File == "" {
		return fmt.Errorf("%w: private key file (set %s or key_pair.file)", ErrMissing, EnvPEMFile)
	}
	return nil
}
