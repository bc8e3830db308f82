package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path (optional), applies environment overrides
// and defaults, loads wait policies, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		cfg, err = LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()
	cfg.applyDefaults()
	cfg.Waits = LoadWaitPolicies()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile parses a YAML file without applying env or defaults. Unknown keys
// are rejected.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides file values with the environment. Unset variables leave
// the current value untouched.
func (c *Config) ApplyEnv() {
	override := func(dst *string, env string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	override(&c.Credentials.AccessKey, EnvAccessKey)
	override(&c.Credentials.SecretKey, EnvSecretKey)
	override(&c.Credentials.SessionToken, EnvSessionToken)
	override(&c.Region, EnvRegion)
	override(&c.Endpoint, EnvEndpoint)
	override(&c.KeyPair.Name, EnvPEMName)
	override(&c.KeyPair.File, EnvPEMFile)
	override(&c.Instance.ID, EnvInstanceID)
	override(&c.Instance.IP, EnvInstanceIP)
}

// Marshal renders the configuration as YAML with secrets redacted.
func (c *Config) Marshal() ([]byte, error) {
	redacted := *c
	if redacted.Credentials.SecretKey != "" {
		redacted.Credentials.SecretKey = "REDACTED"
	}
	if redacted.Credentials.SessionToken != "" {
		redacted.Credentials.SessionToken = "REDACTED"
	}
	return yaml.Marshal(&redacted)
}
