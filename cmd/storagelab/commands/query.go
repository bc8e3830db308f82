package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamik/storagelab/cmd/storagelab/handlers"
)

// Query returns the query command group.
func Query(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the seeded dataset in place",
	}

	var database string
	run := &cobra.Command{
		Use:   "run <sql>",
		Short: "Run one SQL statement and print its rows",
		Example: `  storagelab query run "SELECT nombre_completo FROM estudiantes_practicas LIMIT 5"
  storagelab query run --database default "SHOW TABLES"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return handlers.QueryRun(c.Context(), *opts, strings.Join(args, " "), database)
		},
	}
	run.Flags().StringVar(&database, "database", "", "Database for unqualified table names (default: query.database)")
	cmd.AddCommand(run)

	cmd.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "Create the database and dataset tables, then select a few rows from each",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return handlers.QueryCatalog(c.Context(), *opts)
		},
	})
	return cmd
}
