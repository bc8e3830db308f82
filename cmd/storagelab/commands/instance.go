package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/storagelab/cmd/storagelab/handlers"
)

// Count returns the count command.
func Count(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count running instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Count(cmd.Context(), *opts)
		},
	}
}

// Instance returns the instance command group.
func Instance(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Launch, wait for, stop and terminate an instance",
		Long: `Manage the lab instance.

launch starts a new instance and waits until it is running. The other
subcommands operate on the instance named by INSTANCE_ID or instance.id.

Example:
  storagelab instance launch -c lab.yaml
  INSTANCE_ID=i-0abc storagelab instance terminate`,
	}

	sub := []struct {
		use, short string
		run        func(*cobra.Command) error
	}{
		{"launch", "Launch an instance and wait until it is running", func(c *cobra.Command) error {
			return handlers.InstanceLaunch(c.Context(), *opts)
		}},
		{"stop", "Stop the configured instance and wait until it is stopped", func(c *cobra.Command) error {
			return handlers.InstanceStop(c.Context(), *opts)
		}},
		{"terminate", "Terminate the configured instance and wait until it is gone", func(c *cobra.Command) error {
			return handlers.InstanceTerminate(c.Context(), *opts)
		}},
		{"lifecycle", "Launch, stop and terminate a new instance", func(c *cobra.Command) error {
			return handlers.InstanceLifecycle(c.Context(), *opts)
		}},
	}
	for _, s := range sub {
		run := s.run
		cmd.AddCommand(&cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return run(c)
			},
		})
	}

	var ssh bool
	wait := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the configured instance is running",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return handlers.InstanceWait(c.Context(), *opts, ssh)
		},
	}
	wait.Flags().BoolVar(&ssh, "ssh", false, "Also wait until the SSH port accepts connections")
	cmd.AddCommand(wait)

	return cmd
}
