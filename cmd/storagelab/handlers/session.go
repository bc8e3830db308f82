// Package handlers implements the business logic for CLI commands.
//
// Each handler loads the configuration, builds the service clients and a
// workflow context, runs one workflow and prints a short summary. Clients
// are created through factory variables so tests can substitute fakes.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/storagelab/internal/config"
	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/platform/s3"
	"github.com/imamik/storagelab/internal/platform/ssh"
	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/util/keygen"
	"github.com/imamik/storagelab/internal/waiter"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath  string
	MetricsFile string
	Verbose     bool
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads, merges and validates the configuration.
	loadConfig = config.Load

	// newClients creates the service clients for cfg.
	newClients = defaultClients

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// writeMetrics writes the registry in the text exposition format.
	writeMetrics = prometheus.WriteToTextfile

	// output receives command summaries.
	output io.Writer = os.Stdout
)

// withSession opens a workflow context, runs fn and writes metrics when
// requested, whether fn succeeded or not.
func withSession(ctx context.Context, opts Options, fn func(*provisioning.Context) error) error {
	configureLog(isInteractiveTTY())

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	clients, err := newClients(ctx, cfg)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, clients)
	pCtx.Log = newLogger(opts.Verbose)

	registry := prometheus.NewRegistry()
	metrics, err := waiter.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	pCtx.Metrics = metrics

	runErr := fn(pCtx)

	if opts.MetricsFile != "" {
		if err := writeMetrics(opts.MetricsFile, registry); err != nil {
			return errors.Join(runErr, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	return runErr
}

func defaultClients(ctx context.Context, cfg *config.Config) (provisioning.Clients, error) {
	awsCfg, err := aws.LoadConfig(ctx, cfg.Credentials, cfg.Region, cfg.Endpoint)
	if err != nil {
		return provisioning.Clients{}, err
	}
	return provisioning.Clients{
		Compute:     aws.NewComputeFromConfig(awsCfg),
		FileSystems: aws.NewFileSystemsFromConfig(awsCfg),
		Queries:     aws.NewQueriesFromConfig(awsCfg),
		Objects:     s3.NewClient(awsCfg),
		Shell:       shellFactory(cfg),
	}, nil
}

// shellFactory opens SSH sessions with the configured key pair file. The key
// is read on first use so commands that never open a shell do not need it.
func shellFactory(cfg *config.Config) provisioning.ShellFunc {
	return func(host string) (ssh.Executor, error) {
		if err := cfg.RequireKeyFile(); err != nil {
			return nil, err
		}
		kp, err := keygen.Load(cfg.KeyPair.File)
		if err != nil {
			return nil, err
		}
		return ssh.NewClient(&ssh.Config{
			Host:       host,
			Port:       cfg.Instance.SSHPort,
			User:       cfg.Instance.SSHUser,
			PrivateKey: kp.PrivateKey,
		})
	}
}

// instanceID returns the configured instance to operate on.
func instanceID(ctx *provisioning.Context) (string, error) {
	if err := ctx.Config.RequireInstanceID(); err != nil {
		return "", err
	}
	return ctx.Config.Instance.ID, nil
}
