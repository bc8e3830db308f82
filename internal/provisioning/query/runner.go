package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/waiter"
)

const phase = "query"

// stopTimeout bounds the stop call issued after the caller's context is done.
const stopTimeout = 30 * time.Second

// Statement is one SQL statement to run.
type Statement struct {
	Name string
	SQL  string
	// Database sets the default database for unqualified table names.
	// Leave empty for statements that create the database or qualify every name.
	Database string
}

// Runner submits statements and waits for them to finish.
type Runner struct {
	// MaxRows caps the data rows fetched per statement, header excluded.
	MaxRows int
}

// NewRunner creates a runner that fetches at most maxRows data rows.
func NewRunner(maxRows int) *Runner {
	return &Runner{MaxRows: maxRows}
}

// Run starts stmt, waits until it finishes and fetches its results.
// A statement that ends FAILED or CANCELLED is returned as an error carrying
// the engine's reason. If the wait is cancelled or times out the statement
// is stopped before returning.
func (r *Runner) Run(ctx *provisioning.Context, stmt Statement) (*provisioning.QueryReport, error) {
	name := stmt.Name
	if name == "" {
		name = summarize(stmt.SQL)
	}

	id, err := ctx.Queries.StartQuery(ctx, aws.QueryInput{
		SQL:            stmt.SQL,
		Database:       stmt.Database,
		OutputLocation: ctx.Config.OutputLocation(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	ctx.Observer.Printf("[%s] %s started as %s", phase, name, id)

	exec, err := provisioning.Wait(ctx, id, "query-done", aws.QueryDone, aws.QueryStateProbe(ctx.Queries, id))
	if err != nil {
		if errors.Is(err, waiter.ErrCancelled) || errors.Is(err, waiter.ErrTimedOut) {
			r.stop(ctx, id)
		}
		return nil, fmt.Errorf("%s (%s): %w", name, id, err)
	}

	report := &provisioning.QueryReport{Name: name, Execution: exec}
	if r.MaxRows > 0 {
		// header row comes first
		rows, err := ctx.Queries.QueryResults(ctx, id, r.MaxRows+1)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch results of %s: %w", name, err)
		}
		report.Rows = rows
	}

	ctx.State.AddQuery(*report)
	ctx.Observer.Printf("[%s] %s succeeded (%d rows, %d bytes scanned, %v)", phase, name,
		dataRows(report.Rows), exec.DataScanned, exec.EngineTime)
	return report, nil
}

// stop cancels the remote statement. It runs on a fresh context because the
// caller's may already be done.
func (r *Runner) stop(ctx *provisioning.Context, id string) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	if err := ctx.Queries.StopQuery(stopCtx, id); err != nil {
		ctx.Observer.Printf("[%s] failed to stop %s: %v", phase, id, err)
		return
	}
	ctx.Observer.Printf("[%s] stopped %s", phase, id)
}

func dataRows(rows [][]string) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows) - 1
}

// summarize shortens sql to its first line for log output.
func summarize(sql string) string {
	s := strings.TrimSpace(sql)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const maxLen = 60
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen]) + "..."
	}
	return s
}
