package deeplink

import (
	"fmt"
	"net/url"

	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Portal blades
const (
	BladeLogs      = "Microsoft_Azure_Monitoring_Logs/LogsBlade"
	RouteOverview  = "overview"
	RouteFunctions = "functions"
	RouteFailures  = "failures"
	RouteMetrics   = "performance"
)

// Builder helps construct Azure portal deep links for one environment
type Builder struct {
	baseURL string
	cfg     models.EnvironmentConfig
}

// NewBuilder creates a new deep link builder for the given environment
func NewBuilder(cfg models.EnvironmentConfig) *Builder {
	return &Builder{baseURL: constants.PortalBaseURL, cfg: cfg}
}

func (b *Builder) appInsightsID() string {
	return fmt.Sprintf(constants.ResourceIDFormat, b.cfg.SubscriptionID, b.cfg.ResourceGroup, b.cfg.AppInsightsName)
}

func (b *Builder) functionAppID(app string) string {
	return fmt.Sprintf(constants.FunctionAppIDFormat, b.cfg.SubscriptionID, b.cfg.ResourceGroup, app)
}

// BuildLogsLink opens the Logs blade with query preloaded over the trailing window
func (b *Builder) BuildLogsLink(query string, hoursBack int) string {
	return fmt.Sprintf("%s/#blade/%s/resourceId/%s/source/LogsBlade.AnalyticsShareLinkToQuery/query/%s/timespan/PT%dH",
		b.baseURL, BladeLogs,
		url.PathEscape(b.appInsightsID()),
		url.PathEscape(query),
		hoursBack)
}

// BuildAppInsightsLink opens a blade of the Application Insights resource
func (b *Builder) BuildAppInsightsLink(route string) string {
	return fmt.Sprintf("%s/#@/resource%s/%s", b.baseURL, b.appInsightsID(), route)
}

// BuildFunctionAppLink opens a blade of a function app
func (b *Builder) BuildFunctionAppLink(app, route string) string {
	return fmt.Sprintf("%s/#@/resource%s/%s", b.baseURL, b.functionAppID(url.PathEscape(app)), route)
}

// ToMeta converts a portal URL to MCP Meta format
func ToMeta(portalURL string) mcp.Meta {
	return mcp.Meta{
		"reference_url": portalURL,
	}
}

// WithBlade adds the portal blade summarising the same data next to the query link
func WithBlade(meta mcp.Meta, bladeURL string) mcp.Meta {
	meta["blade_url"] = bladeURL
	return meta
}
