package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/provisioning/query"
)

// StatementRunner interface for testing - matches query.Runner.
type StatementRunner interface {
	Run(ctx *provisioning.Context, stmt query.Statement) (*provisioning.QueryReport, error)
}

var (
	newRunner = func(maxRows int) StatementRunner {
		return query.NewRunner(maxRows)
	}

	newCatalog = func(maxRows int) Provisioner {
		return query.NewCatalog(query.NewRunner(maxRows))
	}
)

// QueryRun runs one SQL statement against database and prints its rows.
// An empty database uses the configured one.
func QueryRun(ctx context.Context, opts Options, sql, database string) error {
	if strings.TrimSpace(sql) == "" {
		return fmt.Errorf("query must not be empty")
	}
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		if database == "" {
			database = pCtx.Config.Query.Database
		}
		report, err := newRunner(pCtx.Config.Query.ResultLimit).Run(pCtx, query.Statement{
			SQL:      sql,
			Database: database,
		})
		if err != nil {
			return err
		}
		printReport(output, report)
		return nil
	})
}

// QueryCatalog creates the database and both dataset tables and prints the
// sample rows selected from each.
func QueryCatalog(ctx context.Context, opts Options) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		if err := newCatalog(pCtx.Config.Query.ResultLimit).Provision(pCtx); err != nil {
			return err
		}
		for i := range pCtx.State.Queries {
			report := &pCtx.State.Queries[i]
			if len(report.Rows) > 1 {
				printReport(output, report)
			}
		}
		return nil
	})
}

// printReport writes the statement's rows as aligned columns. Missing values
// print as empty cells.
func printReport(w io.Writer, report *provisioning.QueryReport) {
	fmt.Fprintf(w, "%s\n", report.Name)
	if exec := report.Execution; exec != nil {
		fmt.Fprintf(w, "  %s in %v, %d bytes scanned\n", exec.ID, exec.EngineTime, exec.DataScanned)
	}
	if len(report.Rows) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}
