package main

import (
	"context"
	"fmt"

	"appinsights-mcp/internal/agent"
	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/functionapp"
	"appinsights-mcp/internal/observability"
	"appinsights-mcp/internal/telemetry/logs"
	"appinsights-mcp/internal/telemetry/metrics"

	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"
)

// toolDef binds one handler to both the MCP server and the chat agent.
type toolDef struct {
	name      string
	register  func(server *last9mcp.Last9MCPServer, limiter *rate.Limiter)
	agentTool func() (agent.Tool, error)
}

func defineTool[In any](name, description string, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error)) toolDef {
	return toolDef{
		name: name,
		register: func(server *last9mcp.Last9MCPServer, limiter *rate.Limiter) {
			last9mcp.RegisterInstrumentedTool(server, &mcp.Tool{
				Name:        name,
				Description: description,
			}, rateLimited(limiter, handler))
		},
		agentTool: func() (agent.Tool, error) {
			return agent.NewTool(name, description, handler)
		},
	}
}

// rateLimited makes every call wait for a token from limiter first.
func rateLimited[In any](limiter *rate.Limiter, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error)) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, any, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
		return handler(ctx, req, args)
	}
}

// toolDefs lists every tool backed by sdk.
func toolDefs(sdk *observability.SDK) []toolDef {
	links := sdk.Links()

	return []toolDef{
		defineTool(constants.ToolGetLogs, logs.GetLogsDescription, logs.NewGetLogsHandler(sdk, links)),
		defineTool(constants.ToolGetErrorLogs, logs.GetErrorLogsDescription, logs.NewGetErrorLogsHandler(sdk, links)),
		defineTool(constants.ToolSearchLogs, logs.SearchLogsDescription, logs.NewSearchLogsHandler(sdk, links)),
		defineTool(constants.ToolGetFunctionLogs, logs.GetFunctionLogsDescription, logs.NewGetFunctionLogsHandler(sdk, links)),

		defineTool(constants.ToolGetMetrics, metrics.GetMetricsDescription, metrics.NewGetMetricsHandler(sdk, links)),
		defineTool(constants.ToolAnalyzeErrors, metrics.AnalyzeErrorsDescription, metrics.NewAnalyzeErrorsHandler(sdk, links)),
		defineTool(constants.ToolGetFunctionPerformance, metrics.GetFunctionPerformanceDescription, metrics.NewGetFunctionPerformanceHandler(sdk, links)),
		defineTool(constants.ToolGetTimeline, metrics.GetTimelineDescription, metrics.NewGetTimelineHandler(sdk, links)),

		defineTool(constants.ToolListFunctionApps, functionapp.ListFunctionAppsDescription, functionapp.NewListFunctionAppsHandler(sdk, sdk.Config())),
		defineTool(constants.ToolListFunctions, functionapp.ListFunctionsDescription, functionapp.NewListFunctionsHandler(sdk, links)),
		defineTool(constants.ToolGetFunctionAppInfo, functionapp.GetFunctionAppInfoDescription, functionapp.NewGetFunctionAppInfoHandler(sdk, links)),
		defineTool(constants.ToolFunctionAppExists, functionapp.FunctionAppExistsDescription, functionapp.NewFunctionAppExistsHandler(sdk)),
	}
}

// registerAllTools registers all tools with the MCP server
func registerAllTools(server *last9mcp.Last9MCPServer, sdk *observability.SDK, limiter *rate.Limiter) error {
	for _, def := range toolDefs(sdk) {
		def.register(server, limiter)
	}
	return nil
}

// agentTools adapts every tool for the chat agent.
func agentTools(sdk *observability.SDK) ([]agent.Tool, error) {
	defs := toolDefs(sdk)
	tools := make([]agent.Tool, 0, len(defs))
	for _, def := range defs {
		t, err := def.agentTool()
		if err != nil {
			return nil, fmt.Errorf("failed to adapt tool %s: %w", def.name, err)
		}
		tools = append(tools, t)
	}
	return tools, nil
}
