package logs

import (
	"context"
	"fmt"

	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/deeplink"
	"appinsights-mcp/internal/kql"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetLogsArgs represents the input arguments for the get_logs tool
type GetLogsArgs struct {
	AppName      string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	HoursBack    int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 1)"`
	Level        string `json:"level,omitempty" jsonschema:"Severity filter: Error, Warning, Information or Verbose (default: Information)"`
	FunctionName string `json:"function_name,omitempty" jsonschema:"Only entries whose operation name or message contains this function name"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (1-10000, default: 100)"`
	IncludeNoise bool   `json:"include_noise,omitempty" jsonschema:"Keep host lock lease and worker status messages (default: false)"`
}

// GetErrorLogsArgs represents the input arguments for the get_error_logs tool
type GetErrorLogsArgs struct {
	AppName   string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	HoursBack int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 24)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (1-10000, default: 50)"`
}

// SearchLogsArgs represents the input arguments for the search_logs tool
type SearchLogsArgs struct {
	AppName    string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	SearchTerm string `json:"search_term" jsonschema:"Text the log message must contain (required)"`
	HoursBack  int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 24)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (1-10000, default: 100)"`
}

// GetFunctionLogsArgs represents the input arguments for the get_function_logs tool
type GetFunctionLogsArgs struct {
	AppName      string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	FunctionName string `json:"function_name" jsonschema:"Function whose logs to return (required)"`
	HoursBack    int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 24)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (1-10000, default: 100)"`
}

type logsResponse struct {
	AppName   string            `json:"app_name"`
	HoursBack int               `json:"hours_back"`
	Count     int               `json:"count"`
	Logs      []models.LogEntry `json:"logs"`
}

func validateWindow(appName string, hoursBack, limit int) error {
	if err := utils.ValidateFunctionAppName(appName); err != nil {
		return err
	}
	if err := utils.ValidateHoursBack(hoursBack); err != nil {
		return err
	}
	return utils.ValidateLimit(limit)
}

func logsResult(links *deeplink.Builder, query string, appName string, hoursBack int, entries []models.LogEntry) *mcp.CallToolResult {
	return utils.JSONResult(logsResponse{
		AppName:   appName,
		HoursBack: hoursBack,
		Count:     len(entries),
		Logs:      entries,
	}, deeplink.ToMeta(links.BuildLogsLink(query, hoursBack)))
}

// NewGetLogsHandler creates a handler for the get_logs tool
func NewGetLogsHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, GetLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetLogsArgs) (*mcp.CallToolResult, any, error) {
		q := Query{
			AppName:      args.AppName,
			HoursBack:    utils.DefaultInt(args.HoursBack, constants.DefaultLogsHours),
			Level:        args.Level,
			FunctionName: args.FunctionName,
			Limit:        utils.DefaultInt(args.Limit, constants.DefaultLogsLimit),
			KeepNoise:    args.IncludeNoise,
		}
		if q.Level == "" {
			q.Level = constants.DefaultLogsLevel
		}
		if err := validateWindow(q.AppName, q.HoursBack, q.Limit); err != nil {
			return nil, nil, err
		}
		level, err := utils.NormalizeLogLevel(q.Level)
		if err != nil {
			return nil, nil, err
		}
		q.Level = level

		entries, err := reader.GetLogs(ctx, q)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get logs: %w", err)
		}
		query := kql.Logs(q.AppName, q.HoursBack, q.Level, q.FunctionName, q.Limit, !q.KeepNoise)
		return logsResult(links, query, q.AppName, q.HoursBack, entries), nil, nil
	}
}

// NewGetErrorLogsHandler creates a handler for the get_error_logs tool
func NewGetErrorLogsHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, GetErrorLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetErrorLogsArgs) (*mcp.CallToolResult, any, error) {
		hours := utils.DefaultInt(args.HoursBack, constants.DefaultErrorLogsHours)
		limit := utils.DefaultInt(args.Limit, constants.DefaultErrorLogsLimit)
		if err := validateWindow(args.AppName, hours, limit); err != nil {
			return nil, nil, err
		}

		entries, err := reader.GetErrorLogs(ctx, args.AppName, hours, limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get error logs: %w", err)
		}
		query := kql.Logs(args.AppName, hours, string(models.SeverityError), "", limit, true)
		return logsResult(links, query, args.AppName, hours, entries), nil, nil
	}
}

// NewSearchLogsHandler creates a handler for the search_logs tool
func NewSearchLogsHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, SearchLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args SearchLogsArgs) (*mcp.CallToolResult, any, error) {
		hours := utils.DefaultInt(args.HoursBack, constants.DefaultSearchHours)
		limit := utils.DefaultInt(args.Limit, constants.DefaultSearchLimit)
		if err := validateWindow(args.AppName, hours, limit); err != nil {
			return nil, nil, err
		}
		if err := utils.ValidateSearchTerm(args.SearchTerm); err != nil {
			return nil, nil, err
		}

		entries, err := reader.SearchLogs(ctx, args.AppName, args.SearchTerm, hours, limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to search logs: %w", err)
		}
		query := kql.Search(args.AppName, args.SearchTerm, hours, limit)
		return logsResult(links, query, args.AppName, hours, entries), nil, nil
	}
}

// NewGetFunctionLogsHandler creates a handler for the get_function_logs tool
func NewGetFunctionLogsHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, GetFunctionLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetFunctionLogsArgs) (*mcp.CallToolResult, any, error) {
		hours := utils.DefaultInt(args.HoursBack, constants.DefaultFunctionLogsHours)
		limit := utils.DefaultInt(args.Limit, constants.DefaultFunctionLogsLimit)
		if err := validateWindow(args.AppName, hours, limit); err != nil {
			return nil, nil, err
		}
		if args.FunctionName == "" {
			return nil, nil, fmt.Errorf("function_name is required")
		}

		entries, err := reader.GetFunctionLogs(ctx, args.AppName, args.FunctionName, hours, limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get function logs: %w", err)
		}
		query := kql.Logs(args.AppName, hours, string(models.SeverityInformation), args.FunctionName, limit, true)
		return logsResult(links, query, args.AppName, hours, entries), nil, nil
	}
}
