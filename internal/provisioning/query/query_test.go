package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/storagelab/internal/config"
	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/waiter"
)

func testContext(t *testing.T, mock *aws.MockClient, maxAttempts int) (*provisioning.Context, *provisioning.RecordingObserver) {
	t.Helper()
	ctx := provisioning.NewContext(context.Background(), config.Default(), provisioning.Clients{Queries: mock})
	ctx.Waits = config.UniformWaitPolicies(config.WaitPolicy{PollInterval: time.Millisecond, MaxAttempts: maxAttempts})
	observer := provisioning.NewRecordingObserver()
	ctx.Observer = observer
	return ctx, observer
}

// queryEngine records submitted statements and walks each through a fixed
// sequence of states.
type queryEngine struct {
	mu       sync.Mutex
	started  []aws.QueryInput
	stopped  []string
	states   []string
	failOn   string
	describe map[string]int
}

func newQueryEngine(states ...string) *queryEngine {
	return &queryEngine{states: states, describe: map[string]int{}}
}

func (e *queryEngine) mock() *aws.MockClient {
	return &aws.MockClient{
		StartQueryFunc: func(_ context.Context, in aws.QueryInput) (string, error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.started = append(e.started, in)
			return "q-" + string(rune('0'+len(e.started))), nil
		},
		DescribeQueryFunc: func(_ context.Context, id string) (*aws.QueryExecution, error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			n := e.describe[id]
			e.describe[id]++
			if n >= len(e.states) {
				n = len(e.states) - 1
			}
			state := e.states[n]
			sql := e.started[len(e.started)-1].SQL
			if e.failOn != "" && strings.Contains(sql, e.failOn) {
				return &aws.QueryExecution{ID: id, State: aws.QueryFailed, Reason: "SYNTAX_ERROR: line 1:8"}, nil
			}
			return &aws.QueryExecution{ID: id, State: state, DataScanned: 512}, nil
		},
		QueryResultsFunc: func(_ context.Context, _ string, maxRows int) ([][]string, error) {
			rows := [][]string{{"id_estudiante", "nombre_completo"}}
			for i := 1; i < maxRows; i++ {
				rows = append(rows, []string{"1", "Ana Garcia"})
			}
			return rows, nil
		},
		StopQueryFunc: func(_ context.Context, id string) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.stopped = append(e.stopped, id)
			return nil
		},
	}
}

func TestRun(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QueryQueued, aws.QueryRunning, aws.QuerySucceeded)
	ctx, observer := testContext(t, engine.mock(), 10)

	report, err := NewRunner(3).Run(ctx, Statement{
		SQL:      "SELECT * FROM estudiantes_practicas LIMIT 3",
		Database: "gestion_practicas",
	})
	require.NoError(t, err)

	require.Len(t, engine.started, 1)
	assert.Equal(t, "gestion_practicas", engine.started[0].Database)
	assert.Equal(t, "s3://gestion-practicas-bucket/resultados_estudiantes/", engine.started[0].OutputLocation)

	assert.Equal(t, "SELECT * FROM estudiantes_practicas LIMIT 3", report.Name)
	assert.Equal(t, aws.QuerySucceeded, report.Execution.State)
	assert.Len(t, report.Rows, 4)
	assert.Equal(t, []provisioning.QueryReport{*report}, ctx.State.Queries)
	assert.Len(t, observer.EventsOf(provisioning.EventWaitCompleted), 1)
	assert.Empty(t, engine.stopped)
}

func TestRun_ZeroRowsSkipsResults(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QuerySucceeded)
	mock := engine.mock()
	var fetched atomic.Bool
	mock.QueryResultsFunc = func(context.Context, string, int) ([][]string, error) {
		fetched.Store(true)
		return nil, nil
	}
	ctx, _ := testContext(t, mock, 10)

	report, err := NewRunner(0).Run(ctx, Statement{Name: "create database", SQL: "CREATE DATABASE IF NOT EXISTS x"})
	require.NoError(t, err)
	assert.Nil(t, report.Rows)
	assert.False(t, fetched.Load())
}

func TestRun_Failed(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QueryRunning)
	engine.failOn = "SELEC"
	ctx, observer := testContext(t, engine.mock(), 10)

	_, err := NewRunner(10).Run(ctx, Statement{Name: "bad select", SQL: "SELEC 1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, waiter.ErrFailed)
	assert.ErrorContains(t, err, "SYNTAX_ERROR")
	assert.ErrorContains(t, err, "bad select")
	assert.Empty(t, ctx.State.Queries)
	assert.Empty(t, engine.stopped)
	assert.Len(t, observer.EventsOf(provisioning.EventWaitFailed), 1)
}

func TestRun_TimeoutStopsQuery(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QueryRunning)
	ctx, _ := testContext(t, engine.mock(), 3)

	_, err := NewRunner(10).Run(ctx, Statement{Name: "slow", SQL: "SELECT 1"})
	assert.ErrorIs(t, err, waiter.ErrTimedOut)
	assert.Equal(t, []string{"q-1"}, engine.stopped)
}

func TestRun_CancelStopsQuery(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QueryRunning)
	mock := engine.mock()

	parent, cancel := context.WithCancel(context.Background())
	ctx := provisioning.NewContext(parent, config.Default(), provisioning.Clients{Queries: mock})
	ctx.Waits = config.UniformWaitPolicies(config.WaitPolicy{PollInterval: time.Millisecond, MaxAttempts: 1000})
	ctx.Observer = provisioning.NewRecordingObserver()

	describe := mock.DescribeQueryFunc
	var calls atomic.Int32
	mock.DescribeQueryFunc = func(c context.Context, id string) (*aws.QueryExecution, error) {
		if calls.Add(1) == 2 {
			cancel()
		}
		return describe(c, id)
	}
	var stopCtxErr error
	mock.StopQueryFunc = func(c context.Context, id string) error {
		stopCtxErr = c.Err()
		engine.mu.Lock()
		defer engine.mu.Unlock()
		engine.stopped = append(engine.stopped, id)
		return nil
	}

	_, err := NewRunner(10).Run(ctx, Statement{Name: "long", SQL: "SELECT 1"})
	assert.ErrorIs(t, err, waiter.ErrCancelled)
	assert.Equal(t, []string{"q-1"}, engine.stopped)
	assert.NoError(t, stopCtxErr)
}

func TestRun_StartError(t *testing.T) {
	t.Parallel()
	mock := &aws.MockClient{StartQueryFunc: func(context.Context, aws.QueryInput) (string, error) {
		return "", errors.New("InvalidRequestException")
	}}
	ctx, _ := testContext(t, mock, 10)

	_, err := NewRunner(10).Run(ctx, Statement{Name: "create database", SQL: "CREATE DATABASE x"})
	assert.ErrorContains(t, err, "failed to start create database")
}

func TestRun_ResultsError(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QuerySucceeded)
	mock := engine.mock()
	mock.QueryResultsFunc = func(context.Context, string, int) ([][]string, error) {
		return nil, errors.New("ThrottlingException")
	}
	ctx, _ := testContext(t, mock, 10)

	_, err := NewRunner(10).Run(ctx, Statement{Name: "select", SQL: "SELECT 1"})
	assert.ErrorContains(t, err, "failed to fetch results of select")
	assert.Empty(t, ctx.State.Queries)
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"  CREATE EXTERNAL TABLE x (\n  id INT\n)", "CREATE EXTERNAL TABLE x ("},
		{strings.Repeat("a", 70), strings.Repeat("a", 60) + "..."},
		{strings.Repeat("é", 61), strings.Repeat("é", 60) + "..."},
		{
			"SELECT * FROM t WHERE nombre = '" + strings.Repeat("ñ", 50) + "'",
			"SELECT * FROM t WHERE nombre = '" + strings.Repeat("ñ", 28) + "...",
		},
	}
	for _, tt := range tests {
		got := summarize(tt.in)
		assert.Equal(t, tt.want, got)
		assert.True(t, utf8.ValidString(got), got)
	}
}

func TestStatements(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext(t, &aws.MockClient{}, 10)

	statements, err := Statements(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(statements))
	for _, s := range statements {
		names = append(names, s.Name)
		assert.Empty(t, s.Database)
	}
	assert.Equal(t, []string{
		"create database", "drop csv table", "create csv table", "select csv rows",
		"drop json table", "create json table", "select json rows",
	}, names)
	assert.Contains(t, statements[2].SQL, "LOCATION 's3://gestion-practicas-bucket/gestion/csv/'")
	assert.Contains(t, statements[5].SQL, "LOCATION 's3://gestion-practicas-bucket/gestion/json/'")
	assert.Contains(t, statements[3].SQL, "LIMIT 10")
}

func TestStatements_InvalidIdentifier(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext(t, &aws.MockClient{}, 10)
	ctx.Config.Query.Database = "gestion-practicas"

	_, err := Statements(ctx)
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QueryRunning, aws.QuerySucceeded)
	ctx, observer := testContext(t, engine.mock(), 10)

	catalog := NewCatalog(NewRunner(ctx.Config.Query.ResultLimit))
	assert.Equal(t, "query catalog", catalog.Name())
	require.NoError(t, catalog.Provision(ctx))

	assert.Len(t, engine.started, 7)
	assert.Len(t, ctx.State.Queries, 7)
	assert.Len(t, observer.EventsOf(provisioning.EventPhaseCompleted), 7)
	assert.Len(t, ctx.State.Queries[3].Rows, 11)
}

func TestCatalog_StopsAtFailure(t *testing.T) {
	t.Parallel()
	engine := newQueryEngine(aws.QuerySucceeded)
	engine.failOn = "CREATE EXTERNAL TABLE"
	ctx, observer := testContext(t, engine.mock(), 10)

	err := NewCatalog(NewRunner(10)).Provision(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "create csv table phase failed")
	assert.ErrorIs(t, err, waiter.ErrFailed)

	assert.Len(t, engine.started, 3)
	assert.Len(t, ctx.State.Queries, 2)
	assert.Len(t, observer.EventsOf(provisioning.EventPhaseFailed), 1)
}
