package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/storagelab/cmd/storagelab/handlers"
)

// Volume returns the volume command group.
func Volume(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume",
		Short: "Manage the block volume",
	}

	var mount bool
	attach := &cobra.Command{
		Use:   "attach",
		Short: "Create a volume in the instance's zone and attach it",
		Long: `Create a block volume in the availability zone of the configured
instance, wait until it is available, attach it to the first free device
and wait until it is in use.

With --mount the volume is formatted, mounted and checked with a probe
file over SSH, using the key in PEM_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return handlers.VolumeAttach(c.Context(), *opts, mount)
		},
	}
	attach.Flags().BoolVar(&mount, "mount", false, "Format and mount the volume over SSH")
	cmd.AddCommand(attach)

	return cmd
}

// FileSystem returns the filesystem command group.
func FileSystem(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filesystem",
		Short: "Manage the shared file system",
	}

	var mount bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a file system with a mount target in the instance's subnet",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return handlers.FileSystemCreate(c.Context(), *opts, mount)
		},
	}
	create.Flags().BoolVar(&mount, "mount", false, "Mount the file system over SSH")
	cmd.AddCommand(create)

	return cmd
}
