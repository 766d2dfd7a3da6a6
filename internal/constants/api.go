package constants

// Application Insights tables
const (
	TableTraces     = "traces"
	TableRequests   = "requests"
	TableExceptions = "exceptions"
)

// Resource provider paths
const (
	ResourceIDFormat     = "/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Insights/components/%s"
	FunctionAppIDFormat  = "/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Web/sites/%s"
	FunctionAppKindToken = "functionapp"
	WorkerRuntimeSetting = "FUNCTIONS_WORKER_RUNTIME"
	PortalBaseURL        = "https://portal.azure.com"
)

// Tool names
const (
	ToolGetLogs                = "get_logs"
	ToolGetErrorLogs           = "get_error_logs"
	ToolSearchLogs             = "search_logs"
	ToolGetFunctionLogs        = "get_function_logs"
	ToolGetMetrics             = "get_metrics"
	ToolAnalyzeErrors          = "analyze_errors"
	ToolGetFunctionPerformance = "get_function_performance"
	ToolGetTimeline            = "get_timeline"
	ToolListFunctionApps       = "list_function_apps"
	ToolListFunctions          = "list_functions"
	ToolGetFunctionAppInfo     = "get_function_app_info"
	ToolFunctionAppExists      = "function_app_exists"
)

// Query defaults
const (
	DefaultLogsHours         = 1
	DefaultLogsLevel         = "Information"
	DefaultLogsLimit         = 100
	DefaultErrorLogsHours    = 24
	DefaultErrorLogsLimit    = 50
	DefaultSearchHours       = 24
	DefaultSearchLimit       = 100
	DefaultFunctionLogsHours = 24
	DefaultFunctionLogsLimit = 100
	DefaultMetricsHours      = 24
	DefaultGranularityHours  = 1
	DefaultAnalysisHours     = 24
	DefaultAnalysisLimit     = 20
	DefaultPerformanceHours  = 24
	DefaultTimelineHours     = 24
	DefaultTimelineMinutes   = 15
)

// Validation bounds
const (
	MaxHoursBack          = 8760
	MaxLimit              = 10000
	MaxGranularityHours   = 24
	MaxGranularityMinutes = 1440
	MaxFunctionAppNameLen = 60
	InvalidAppNameChars   = "<>:\"|?*"
)

// Server identity
const (
	ServerName            = "appinsights-mcp"
	EnvVarPrefix          = "APPINSIGHTS_MCP"
	HeaderContentTypeJSON = "application/json"
)

// Run modes
const (
	ModeStdio  = "stdio"
	ModeHTTP   = "http"
	ModeChat   = "chat"
	ModeReport = "report"
)
