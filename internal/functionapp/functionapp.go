package functionapp

import (
	"context"
	"fmt"
	"sort"

	"appinsights-mcp/internal/deeplink"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListFunctionAppsArgs represents the input arguments for the list_function_apps tool
type ListFunctionAppsArgs struct{}

// AppArgs is the input for tools that take a single function app name
type AppArgs struct {
	AppName string `json:"app_name" jsonschema:"Function app name (required)"`
}

// GetFunctionAppInfoArgs represents the input arguments for the get_function_app_info tool
type GetFunctionAppInfoArgs struct {
	AppName        string `json:"app_name" jsonschema:"Function app name (required)"`
	RevealSettings bool   `json:"reveal_settings,omitempty" jsonschema:"Include app setting values instead of masking them (default: false)"`
}

const maskedValue = "********"

// MaskSettings keeps the setting names and hides every value.
func MaskSettings(settings map[string]string) map[string]string {
	masked := make(map[string]string, len(settings))
	for k := range settings {
		masked[k] = maskedValue
	}
	return masked
}

// NewListFunctionAppsHandler creates a handler for the list_function_apps tool
func NewListFunctionAppsHandler(reader Reader, cfg models.EnvironmentConfig) func(context.Context, *mcp.CallToolRequest, ListFunctionAppsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args ListFunctionAppsArgs) (*mcp.CallToolResult, any, error) {
		apps, err := reader.ListFunctionApps(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list function apps: %w", err)
		}
		sort.Strings(apps)
		return utils.JSONResult(map[string]any{
			"resource_group": cfg.ResourceGroup,
			"count":          len(apps),
			"function_apps":  apps,
		}, nil), nil, nil
	}
}

// NewListFunctionsHandler creates a handler for the list_functions tool
func NewListFunctionsHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, AppArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args AppArgs) (*mcp.CallToolResult, any, error) {
		if err := utils.ValidateFunctionAppName(args.AppName); err != nil {
			return nil, nil, err
		}
		functions, err := reader.ListFunctions(ctx, args.AppName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list functions: %w", err)
		}
		return utils.JSONResult(map[string]any{
			"app_name":  args.AppName,
			"count":     len(functions),
			"functions": functions,
		}, deeplink.ToMeta(links.BuildFunctionAppLink(args.AppName, deeplink.RouteFunctions))), nil, nil
	}
}

// NewGetFunctionAppInfoHandler creates a handler for the get_function_app_info tool
func NewGetFunctionAppInfoHandler(reader Reader, links *deeplink.Builder) func(context.Context, *mcp.CallToolRequest, GetFunctionAppInfoArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GetFunctionAppInfoArgs) (*mcp.CallToolResult, any, error) {
		if err := utils.ValidateFunctionAppName(args.AppName); err != nil {
			return nil, nil, err
		}
		info, err := reader.GetFunctionAppInfo(ctx, args.AppName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get function app info: %w", err)
		}
		if !args.RevealSettings {
			info.AppSettings = MaskSettings(info.AppSettings)
		}
		return utils.JSONResult(info, deeplink.ToMeta(links.BuildFunctionAppLink(args.AppName, deeplink.RouteOverview))), nil, nil
	}
}

// NewFunctionAppExistsHandler creates a handler for the function_app_exists tool
func NewFunctionAppExistsHandler(reader Reader) func(context.Context, *mcp.CallToolRequest, AppArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args AppArgs) (*mcp.CallToolResult, any, error) {
		if err := utils.ValidateFunctionAppName(args.AppName); err != nil {
			return nil, nil, err
		}
		exists, err := reader.FunctionAppExists(ctx, args.AppName)
		if err != nil {
			return nil, nil, err
		}
		return utils.JSONResult(map[string]any{
			"app_name": args.AppName,
			"exists":   exists,
		}, nil), nil, nil
	}
}
