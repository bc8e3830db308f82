package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		EnvAccessKey, EnvSecretKey, EnvSessionToken, EnvRegion, EnvEndpoint,
		EnvPEMName, EnvPEMFile, EnvInstanceID, EnvInstanceIP,
	} {
		t.Setenv(env, "")
	}
	for _, kind := range []string{"INSTANCE", "VOLUME", "FILESYSTEM", "QUERY"} {
		for _, field := range []string{"POLL_INTERVAL", "MAX_INTERVAL", "BACKOFF", "MAX_ATTEMPTS", "TIMEOUT"} {
			t.Setenv("STORAGELAB_"+kind+"_"+field, "")
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storagelab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
region: us-east-1
credentials:
  access_key: AKIAEXAMPLE
  secret_key: secret
key_pair:
  name: lab
  file: /home/lab/lab.pem
instance:
  id: i-0123456789abcdef0
volume:
  size_gb: 2
objects:
  bucket: my-lab-bucket
  folder: data
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.True(t, cfg.Credentials.Static())
	assert.Equal(t, "lab", cfg.KeyPair.Name)
	assert.Equal(t, "i-0123456789abcdef0", cfg.Instance.ID)
	assert.Equal(t, int32(2), cfg.Volume.SizeGB)
	assert.Equal(t, "gp3", cfg.Volume.Type)
	assert.Equal(t, "data/", cfg.Objects.Folder)
	assert.Equal(t, "data/csv/", cfg.Objects.CSVPrefix())
	assert.Equal(t, "data/json/", cfg.Objects.JSONPrefix())
	assert.Equal(t, "s3://my-lab-bucket/resultados_estudiantes/", cfg.OutputLocation())
	assert.Equal(t, DefaultWaitPolicies(), cfg.Waits)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRegion, "eu-west-1")
	t.Setenv(EnvAccessKey, "AKIAENV")
	t.Setenv(EnvSecretKey, "envsecret")
	t.Setenv(EnvSessionToken, "token")
	t.Setenv(EnvInstanceIP, "203.0.113.10")
	t.Setenv(EnvPEMFile, "/tmp/env.pem")

	path := writeConfig(t, "region: us-east-1\ncredentials:\n  access_key: AKIAFILE\n  secret_key: filesecret\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "AKIAENV", cfg.Credentials.AccessKey)
	assert.Equal(t, "envsecret", cfg.Credentials.SecretKey)
	assert.Equal(t, "token", cfg.Credentials.SessionToken)
	assert.Equal(t, "203.0.113.10", cfg.Instance.IP)
	assert.Equal(t, "/tmp/env.pem", cfg.KeyPair.File)
}

func TestLoad_WithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRegion, "us-east-1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Credentials.Static())
	assert.Equal(t, DefaultBucket, cfg.Objects.Bucket)
	assert.Equal(t, DefaultDatabase, cfg.Query.Database)
	assert.Equal(t, "estudiantes_practicas_json", cfg.Query.JSONTable)
	assert.Equal(t, 10, cfg.Query.ResultLimit)
	assert.Equal(t, DefaultAMI, cfg.Instance.AMI)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "region: us-east-1\nunknown_key: 1\n"))
	assert.ErrorContains(t, err, "failed to unmarshal yaml")

	_, err = Load(writeConfig(t, "instance:\n  type: t3.micro\n"))
	assert.ErrorContains(t, err, "region is required")
}

func TestLoadFile_Empty(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Region)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"half credentials", func(c *Config) { c.Credentials.AccessKey = "AKIA" }, "must be set together"},
		{"volume size", func(c *Config) { c.Volume.SizeGB = -1 }, "size_gb"},
		{"volume type", func(c *Config) { c.Volume.Type = "nvme" }, "invalid volume type"},
		{"bucket name", func(c *Config) { c.Objects.Bucket = "Bad_Bucket" }, "invalid bucket name"},
		{"records", func(c *Config) { c.Objects.Records = -5 }, "records"},
		{"database identifier", func(c *Config) { c.Query.Database = "drop table;" }, "database"},
		{"table identifier", func(c *Config) { c.Query.JSONTable = "1table" }, "json_table"},
		{"result limit", func(c *Config) { c.Query.ResultLimit = -1 }, "result_limit"},
		{"wait policy", func(c *Config) { c.Waits.Query.PollInterval = 0 }, "wait policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			cfg.Region = "us-east-1"
			cfg.Waits = DefaultWaitPolicies()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRequireHelpers(t *testing.T) {
	t.Parallel()
	cfg := Default()

	assert.True(t, errors.Is(cfg.RequireInstanceID(), ErrMissing))
	assert.True(t, errors.Is(cfg.RequireKeyName(), ErrMissing))
	assert.True(t, errors.Is(cfg.RequireKeyFile(), ErrMissing))

	cfg.Instance.ID = "i-1"
	cfg.KeyPair = KeyPairConfig{Name: "lab", File: "lab.pem"}
	assert.NoError(t, cfg.RequireInstanceID())
	assert.NoError(t, cfg.RequireKeyName())
	assert.NoError(t, cfg.RequireKeyFile())
}

func TestMarshal_RedactsSecrets(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Credentials = Credentials{AccessKey: "AKIA", SecretKey: "topsecret", SessionToken: "tok"}

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "topsecret")
	assert.NotContains(t, string(out), "tok\n")
	assert.Contains(t, string(out), "REDACTED")
	assert.Equal(t, "topsecret", cfg.Credentials.SecretKey)
}

func TestWaitPolicies_Defaults(t *testing.T) {
	clearEnv(t)
	w := LoadWaitPolicies()

	assert.Equal(t, 15*time.Second, w.Instance.PollInterval)
	assert.Equal(t, 40, w.Instance.MaxAttempts)
	assert.Equal(t, time.Second, w.Query.PollInterval)
	assert.Equal(t, 8*time.Second, w.Query.MaxInterval)
	assert.Equal(t, 2.0, w.Query.Backoff)
	assert.NoError(t, w.Validate())
}

func TestWaitPolicies_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGELAB_QUERY_POLL_INTERVAL", "500ms")
	t.Setenv("STORAGELAB_QUERY_MAX_INTERVAL", "4s")
	t.Setenv("STORAGELAB_QUERY_BACKOFF", "1.5")
	t.Setenv("STORAGELAB_QUERY_MAX_ATTEMPTS", "12")
	t.Setenv("STORAGELAB_QUERY_TIMEOUT", "2m")
	t.Setenv("STORAGELAB_VOLUME_MAX_ATTEMPTS", "not-a-number")

	w := LoadWaitPolicies()
	assert.Equal(t, WaitPolicy{
		PollInterval: 500 * time.Millisecond,
		MaxInterval:  4 * time.Second,
		Backoff:      1.5,
		MaxAttempts:  12,
		Timeout:      2 * time.Minute,
	}, w.Query)
	assert.Equal(t, 40, w.Volume.MaxAttempts, "invalid values keep the default")
}

func TestWaitPolicy_Spec(t *testing.T) {
	t.Parallel()
	p := DefaultWaitPolicies().Policy(WaitQuery)
	spec := p.Spec("query q-1", []string{"SUCCEEDED"}, []string{"FAILED", "CANCELLED"})

	assert.Equal(t, "query q-1", spec.Name)
	assert.Equal(t, []string{"SUCCEEDED"}, spec.TerminalStates)
	assert.Equal(t, 2.0, spec.BackoffMultiplier)
	assert.Equal(t, 30*time.Minute, spec.MaxElapsed)
	assert.NoError(t, spec.Validate())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 8 * time.Second}, spec.Delays(5))
}

func TestWaitPolicies_Policy(t *testing.T) {
	t.Parallel()
	w := DefaultWaitPolicies()
	assert.Equal(t, w.Instance, w.Policy(WaitInstance))
	assert.Equal(t, w.Volume, w.Policy(WaitVolume))
	assert.Equal(t, w.FileSystem, w.Policy(WaitFileSystem))
	assert.Equal(t, w.Query, w.Policy(WaitQuery))
}

func TestUniformWaitPolicies(t *testing.T) {
	t.Parallel()
	p := WaitPolicy{PollInterval: time.Millisecond, MaxAttempts: 3}
	w := UniformWaitPolicies(p)
	for _, kind := range []WaitKind{WaitInstance, WaitVolume, WaitFileSystem, WaitQuery} {
		assert.Equal(t, p, w.Policy(kind), string(kind))
	}
	assert.NoError(t, w.Validate())
}
