package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/storagelab/cmd/storagelab/handlers"
)

// Objects returns the objects command group.
func Objects(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objects",
		Short: "Manage the object bucket",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the bucket and upload the generated dataset as CSV and JSON",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return handlers.ObjectsSeed(c.Context(), *opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Delete every object in the bucket and then the bucket",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return handlers.ObjectsClean(c.Context(), *opts)
		},
	})
	return cmd
}

// KeyPair returns the keypair command group.
func KeyPair(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keypair",
		Short: "Manage the SSH key pair",
	}

	var generate bool
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Register the public half of PEM_FILE as key pair PEM_NAME",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return handlers.KeyPairImport(c.Context(), *opts, generate)
		},
	}
	importCmd.Flags().BoolVar(&generate, "generate", false, "Generate the key file if it does not exist")
	cmd.AddCommand(importCmd)

	return cmd
}
