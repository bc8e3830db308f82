package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/google/uuid"

	"github.com/imamik/storagelab/internal/util/retry"
)

// maxResultsPerPage is the largest page GetQueryResults accepts.
const maxResultsPerPage = 1000

// AthenaAPI is the subset of the Athena client used by Queries.
type AthenaAPI interface {
	athena.GetQueryResultsAPIClient
	StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	StopQueryExecution(ctx context.Context, in *athena.StopQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
}

// Queries implements QueryRunner on top of Athena.
type Queries struct {
	api   AthenaAPI
	retry []retry.Option
}

var _ QueryRunner = (*Queries)(nil)

// NewQueries creates a Queries client. With no retry options DefaultRetry is used.
func NewQueries(api AthenaAPI, retryOpts ...retry.Option) *Queries {
	if len(retryOpts) == 0 {
		retryOpts = DefaultRetry()
	}
	return &Queries{api: api, retry: retryOpts}
}

// NewQueriesFromConfig creates a Queries client from an SDK configuration.
func NewQueriesFromConfig(cfg awssdk.Config) *Queries {
	return NewQueries(athena.NewFromConfig(cfg, func(o *athena.Options) {
		o.RetryMaxAttempts = sdkAttempts
	}))
}

// StartQuery submits a statement and returns its execution ID. It does not wait.
func (q *Queries) StartQuery(ctx context.Context, in QueryInput) (string, error) {
	req := &athena.StartQueryExecutionInput{
		QueryString:        awssdk.String(in.SQL),
		ClientRequestToken: awssdk.String(uuid.NewString()),
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: awssdk.String(in.OutputLocation),
		},
	}
	if in.Database != "" {
		req.QueryExecutionContext = &types.QueryExecutionContext{Database: awssdk.String(in.Database)}
	}

	out, err := call(ctx, q.retry, func(ctx context.Context) (*athena.StartQueryExecutionOutput, error) {
		return q.api.StartQueryExecution(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start query: %w", err)
	}
	return awssdk.ToString(out.QueryExecutionId), nil
}

// DescribeQuery returns the execution status of a statement.
func (q *Queries) DescribeQuery(ctx context.Context, queryID string) (*QueryExecution, error) {
	out, err := call(ctx, q.retry, func(ctx context.Context) (*athena.GetQueryExecutionOutput, error) {
		return q.api.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{QueryExecutionId: awssdk.String(queryID)})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe query %s: %w", queryID, err)
	}
	if out.QueryExecution == nil {
		return nil, fmt.Errorf("query %s: %w", queryID, ErrNotFound)
	}

	qe := out.QueryExecution
	exec := &QueryExecution{ID: awssdk.ToString(qe.QueryExecutionId)}
	if qe.Status != nil {
		exec.State = string(qe.Status.State)
		exec.Reason = awssdk.ToString(qe.Status.StateChangeReason)
	}
	if qe.ResultConfiguration != nil {
		exec.OutputLocation = awssdk.ToString(qe.ResultConfiguration.OutputLocation)
	}
	if qe.Statistics != nil {
		exec.DataScanned = awssdk.ToInt64(qe.Statistics.DataScannedInBytes)
		exec.EngineTime = time.Duration(awssdk.ToInt64(qe.Statistics.EngineExecutionTimeInMillis)) * time.Millisecond
	}
	return exec, nil
}

// QueryResults reads up to maxRows rows of a finished statement, following
// pagination. Missing values become empty strings.
func (q *Queries) QueryResults(ctx context.Context, queryID string, maxRows int) ([][]string, error) {
	pageSize := int32(min(maxRows, maxResultsPerPage))
	p := athena.NewGetQueryResultsPaginator(q.api, &athena.GetQueryResultsInput{
		QueryExecutionId: awssdk.String(queryID),
		MaxResults:       awssdk.Int32(pageSize),
	})

	var rows [][]string
	for p.HasMorePages() && len(rows) < maxRows {
		page, err := call(ctx, q.retry, func(ctx context.Context) (*athena.GetQueryResultsOutput, error) {
			return p.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read results of query %s: %w", queryID, err)
		}
		if page.ResultSet == nil {
			break
		}
		for _, row := range page.ResultSet.Rows {
			if len(rows) == maxRows {
				break
			}
			values := make([]string, len(row.Data))
			for i, d := range row.Data {
				values[i] = awssdk.ToString(d.VarCharValue)
			}
			rows = append(rows, values)
		}
	}
	return rows, nil
}

// StopQuery cancels a running statement.
func (q *Queries) StopQuery(ctx context.Context, queryID string) error {
	_, err := call(ctx, q.retry, func(ctx context.Context) (*athena.StopQueryExecutionOutput, error) {
		return q.api.StopQueryExecution(ctx, &athena.StopQueryExecutionInput{QueryExecutionId: awssdk.String(queryID)})
	})
	if err != nil {
		return fmt.Errorf("failed to stop query %s: %w", queryID, err)
	}
	return nil
}
