package deeplink

import (
	"net/url"
	"strings"
	"testing"

	"appinsights-mcp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = models.EnvironmentConfig{SubscriptionID: "sub", ResourceGroup: "rg", AppInsightsName: "ai"}

func TestBuildLogsLink(t *testing.T) {
	link := NewBuilder(testCfg).BuildLogsLink("traces\n| take 10", 24)

	require.True(t, strings.HasPrefix(link, "https://portal.azure.com/#blade/"))
	assert.True(t, strings.HasSuffix(link, "/timespan/PT24H"))

	idx := strings.Index(link, "/query/")
	require.Greater(t, idx, 0)
	encoded := strings.TrimSuffix(link[idx+len("/query/"):], "/timespan/PT24H")
	decoded, err := url.PathUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, "traces\n| take 10", decoded)
}

func TestBuildFunctionAppLink(t *testing.T) {
	link := NewBuilder(testCfg).BuildFunctionAppLink("func-orders", RouteFunctions)
	assert.Equal(t,
		"https://portal.azure.com/#@/resource/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Web/sites/func-orders/functions",
		link)
}

func TestToMeta(t *testing.T) {
	meta := ToMeta("https://example.com")
	assert.Equal(t, "https://example.com", meta["reference_url"])
}

func TestBuildAppInsightsLink(t *testing.T) {
	link := NewBuilder(testCfg).BuildAppInsightsLink(RouteFailures)
	assert.Equal(t,
		"https://portal.azure.com/#@/resource/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Insights/components/ai/failures",
		link)

	meta := WithBlade(ToMeta("https://example.com/query"), link)
	assert.Equal(t, "https://example.com/query", meta["reference_url"])
	assert.Equal(t, link, meta["blade_url"])
}
