package azure

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/query/azlogs"
)

// QueryStatus is the outcome reported by the query endpoint.
type QueryStatus int

const (
	QuerySuccess QueryStatus = iota
	QueryPartial
	QueryFailure
)

func (s QueryStatus) String() string {
	switch s {
	case QuerySuccess:
		return "success"
	case QueryPartial:
		return "partial"
	}
	return "failure"
}

// Table is one result table.
type Table struct {
	Name string
	Rows [][]any
}

// QueryResult is what the query endpoint returned for one request.
type QueryResult struct {
	Status QueryStatus
	Tables []Table
}

// LogsQuerier executes a query against a resource over a trailing window.
type LogsQuerier interface {
	QueryResource(ctx context.Context, resourceID, query string, window time.Duration) (QueryResult, error)
}

type azlogsQuerier struct {
	client *azlogs.Client
	now    func() time.Time
}

// NewLogsQuerier builds the default query client backed by azlogs. A nil
// transport uses the SDK default.
func NewLogsQuerier(cred azcore.TokenCredential, transport policy.Transporter) (LogsQuerier, error) {
	var opts *azlogs.ClientOptions
	if transport != nil {
		opts = &azlogs.ClientOptions{ClientOptions: policy.ClientOptions{Transport: transport}}
	}
	client, err := azlogs.NewClient(cred, opts)
	if err != nil {
		return nil, err
	}
	return &azlogsQuerier{client: client, now: time.Now}, nil
}

func (q *azlogsQuerier) QueryResource(ctx context.Context, resourceID, query string, window time.Duration) (QueryResult, error) {
	end := q.now().UTC()
	body := azlogs.QueryBody{
		Query:    to.Ptr(query),
		Timespan: to.Ptr(azlogs.NewTimeInterval(end.Add(-window), end)),
	}

	resp, err := q.client.QueryResource(ctx, resourceID, body, nil)
	if err != nil {
		return QueryResult{}, err
	}

	result := QueryResult{Status: QuerySuccess}
	if resp.Error != nil {
		result.Status = QueryPartial
	}
	for _, t := range resp.Tables {
		table := Table{Rows: make([][]any, 0, len(t.Rows))}
		if t.Name != nil {
			table.Name = *t.Name
		}
		for _, row := range t.Rows {
			table.Rows = append(table.Rows, []any(row))
		}
		result.Tables = append(result.Tables, table)
	}
	return result, nil
}
