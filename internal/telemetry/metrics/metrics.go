package metrics

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

// GetMetricsArgs represents the input arguments for the get_metrics tool
type GetMetricsArgs struct {
	AppName          string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	HoursBack        int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 24)"`
	GranularityHours int    `json:"granularity_hours,omitempty" jsonschema:"Bucket width in hours (1-24, default: 1)"`
}

// AnalyzeErrorsArgs represents the input arguments for the analyze_errors tool
type AnalyzeErrorsArgs struct {
	AppName   string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	HoursBack int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 24)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum error groups to return (1-10000, default: 20)"`
}

// GetFunctionPerformanceArgs represents the input arguments for the get_function_performance tool
type GetFunctionPerformanceArgs struct {
	AppName      string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	HoursBack    int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 24)"`
	FunctionName string `json:"function_name,omitempty" jsonschema:"Only operations whose name contains this value"`
}

// GetTimelineArgs represents the input arguments for the get_timeline tool
type GetTimelineArgs struct {
	AppName            string `json:"app_name" jsonschema:"Function app or cloud role name to query (required)"`
	HoursBack          int    `json:"hours_back,omitempty" jsonschema:"Hours to look back from now (1-8760, default: 24)"`
	GranularityMinutes int    `json:"granularity_minutes,omitempty" jsonschema:"Bucket width in minutes (1-1440, default: 15)"`
}

// Summary totals a metrics window.
type Summary struct {
	TotalRequests      int64   `json:"total_requests"`
	SuccessfulRequests int64   `json:"successful_requests"`
	FailedRequests     int64   `json:"failed_requests"`
	SuccessRate        float64 `json:"success_rate"`
	AvgDurationMs      float64 `json:"avg_duration_ms"`
}

// Summarize totals samples; the average duration is weighted by request count.
func Summarize(samples []models.MetricsSample) Summary {
	var s Summary
	var weighted float64
	for _, m := range samples {
		s.TotalRequests += m.TotalRequests
		s.SuccessfulRequests += m.SuccessfulRequests
		s.FailedRequests += m.FailedRequests
		weighted += m.AvgDurationMs * float64(m.TotalRequests)
	}
	if s.TotalRequests > 0 {
		s.SuccessRate = float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
		s.AvgDurationMs = weighted / float64(s.TotalRequests)
	}
	return s
}

func validateApp(appName string, hoursBack int) error {
	if err := utils.ValidateFunctionAppName(appName); err != nil {
		return err
	}
	return utils.ValidateHoursBack(hoursBack)
}

// NewGetMetricsHandler creates a handler for the get_metrics tool
func NewGetMetricsHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, GetMetricsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetMetricsArgs) (*mcp.CallToolResult, any, error) {
		hours := utils.DefaultInt(args.HoursBack, constants.DefaultMetricsHours)
		granularity := utils.DefaultInt(args.GranularityHours, constants.DefaultGranularityHours)
		if err := validateApp(args.AppName, hours); err != nil {
			return nil, nil, err
		}
		if err := utils.ValidateGranularityHours(granularity); err != nil {
			return nil, nil, err
		}

		samples, err := reader.GetMetrics(ctx, args.AppName, hours, granularity)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get metrics: %w", err)
		}
		link := links.BuildLogsLink(kql.Metrics(args.AppName, hours, granularity), hours)
		return utils.JSONResult(map[string]any{
			"app_name":          args.AppName,
			"hours_back":        hours,
			"granularity_hours": granularity,
			"summary":           Summarize(samples),
			"metrics":           samples,
		}, deeplink.ToMeta(link)), nil, nil
	}
}

// NewAnalyzeErrorsHandler creates a handler for the analyze_errors tool
func NewAnalyzeErrorsHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, AnalyzeErrorsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeErrorsArgs) (*mcp.CallToolResult, any, error) {
		hours := utils.DefaultInt(args.HoursBack, constants.DefaultAnalysisHours)
		limit := utils.DefaultInt(args.Limit, constants.DefaultAnalysisLimit)
		if err := validateApp(args.AppName, hours); err != nil {
			return nil, nil, err
		}
		if err := utils.ValidateLimit(limit); err != nil {
			return nil, nil, err
		}

		analysis, err := reader.AnalyzeErrors(ctx, args.AppName, hours, limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to analyze errors: %w", err)
		}
		link := links.BuildLogsLink(kql.ErrorAnalysis(args.AppName, hours, limit), hours)
		meta := deeplink.WithBlade(deeplink.ToMeta(link), links.BuildAppInsightsLink(deeplink.RouteFailures))
		return utils.JSONResult(analysis, meta), nil, nil
	}
}

// NewGetFunctionPerformanceHandler creates a handler for the get_function_performance tool
func NewGetFunctionPerformanceHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, GetFunctionPerformanceArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetFunctionPerformanceArgs) (*mcp.CallToolResult, any, error) {
		hours := utils.DefaultInt(args.HoursBack, constants.DefaultPerformanceHours)
		if err := validateApp(args.AppName, hours); err != nil {
			return nil, nil, err
		}

		records, err := reader.GetFunctionPerformance(ctx, args.AppName, hours, args.FunctionName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get function performance: %w", err)
		}
		link := links.BuildLogsLink(kql.FunctionPerformance(args.AppName, hours, args.FunctionName), hours)
		return utils.JSONResult(map[string]any{
			"app_name":    args.AppName,
			"hours_back":  hours,
			"count":       len(records),
			"performance": records,
		}, deeplink.WithBlade(deeplink.ToMeta(link), links.BuildAppInsightsLink(deeplink.RouteMetrics))), nil, nil
	}
}

// NewGetTimelineHandler creates a handler for the get_timeline tool
func NewGetTimelineHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, GetTimelineArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetTimelineArgs) (*mcp.CallToolResult, any, error) {
		hours := utils.DefaultInt(args.HoursBack, constants.DefaultTimelineHours)
		granularity := utils.DefaultInt(args.GranularityMinutes, constants.DefaultTimelineMinutes)
		if err := validateApp(args.AppName, hours); err != nil {
			return nil, nil, err
		}
		if err := utils.ValidateGranularityMinutes(granularity); err != nil {
			return nil, nil, err
		}

		points, err := reader.GetTimeline(ctx, args.AppName, hours, granularity)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get timeline: %w", err)
		}
		link := links.BuildLogsLink(kql.Timeline(args.AppName, hours, granularity), hours)
		return utils.JSONResult(map[string]any{
			"app_name":            args.AppName,
			"hours_back":          hours,
			"granularity_minutes": granularity,
			"timeline":            points,
		}, deeplink.ToMeta(link)), nil, nil
	}
}
