// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/storagelab/cmd/storagelab/handlers"
)

// Root returns the root command for the storagelab CLI.
func Root() *cobra.Command {
	opts := &handlers.Options{}

	cmd := &cobra.Command{
		Use:           "storagelab",
		Short:         "Exercise cloud storage services from a lab account",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to lab configuration file (optional, environment overrides it)")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write wait metrics to this file on exit")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every wait attempt")

	cmd.AddCommand(Count(opts))
	cmd.AddCommand(Instance(opts))
	cmd.AddCommand(Volume(opts))
	cmd.AddCommand(FileSystem(opts))
	cmd.AddCommand(Objects(opts))
	cmd.AddCommand(Query(opts))
	cmd.AddCommand(KeyPair(opts))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
