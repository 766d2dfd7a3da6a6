package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"appinsights-mcp/internal/azure"
	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/observability"
	"appinsights-mcp/internal/testutil"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"go.uber.org/zap"
)

// testEnv returns the variables of a complete qa environment.
func testEnv() map[string]string {
	return map[string]string{
		"QA_SUBSCRIPTION_ID":   "00000000-0000-0000-0000-000000000000",
		"QA_RESOURCE_GROUP":    "rg-test",
		"QA_APP_INSIGHTS_NAME": "ai-test",
	}
}

// newTestSDK builds a qa SDK over fakes, counting how often the logs client is created.
func newTestSDK(t *testing.T, logs azure.LogsQuerier, web azure.WebAppsAPI, logsClients *atomic.Int32) *observability.SDK {
	t.Helper()
	vars := testEnv()
	sdk, err := observability.New("qa", observability.Options{
		Logger: zap.NewNop(),
		Lookup: func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		},
		Credential: func() (azcore.TokenCredential, error) { return nil, nil },
		ClientOptions: []azure.Option{
			azure.WithLogsFactory(func(azcore.TokenCredential) (azure.LogsQuerier, error) {
				if logsClients != nil {
					logsClients.Add(1)
				}
				return logs, nil
			}),
			azure.WithWebAppsFactory(func(string, azcore.TokenCredential) (azure.WebAppsAPI, error) {
				return web, nil
			}),
		},
	})
	if err != nil {
		t.Fatalf("Failed to create SDK: %v", err)
	}
	return sdk
}

func logRows() [][]any {
	return [][]any{
		{"2025-06-01T10:00:00Z", float64(3), "boom", "ProcessOrder", "op-1", nil},
		{"2025-06-01T09:00:00Z", float64(1), "ok", "ProcessOrder", "op-2", `{"k":"v"}`},
	}
}

func testWebApps() *testutil.FakeWebApps {
	return &testutil.FakeWebApps{
		Sites: []azure.Site{
			{Name: "func-orders", Kind: "functionapp,linux", Location: "westeurope", State: "Running", DefaultHostName: "func-orders.azurewebsites.net"},
			{Name: "web-portal", Kind: "app", Location: "westeurope", State: "Running"},
		},
		Functions: map[string][]string{"func-orders": {"ProcessOrder", "RefundOrder"}},
		Settings:  map[string]map[string]string{"func-orders": {"FUNCTIONS_WORKER_RUNTIME": "python", "DB_PASSWORD": "hunter2"}},
	}
}

func findTool(t *testing.T, sdk *observability.SDK, name string) func(string) (string, error) {
	t.Helper()
	tools, err := agentTools(sdk)
	if err != nil {
		t.Fatalf("Failed to adapt tools: %v", err)
	}
	for _, tool := range tools {
		if tool.Name == name {
			return func(args string) (string, error) { return tool.Call(context.Background(), args) }
		}
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

// TestMCPServerIntegration registers every tool and prompt on a real MCP server
func TestMCPServerIntegration(t *testing.T) {
	sdk := newTestSDK(t, (&testutil.FakeLogs{}).SuccessRows(), testWebApps(), nil)

	server, err := last9mcp.NewServer("appinsights-mcp-test", "test-version")
	if err != nil {
		t.Fatalf("Failed to create MCP server: %v", err)
	}

	if err := registerAllTools(server, sdk, unlimited()); err != nil {
		t.Fatalf("Failed to register tools: %v", err)
	}
	registerAllPrompts(server)

	if server == nil {
		t.Fatal("Server should not be nil")
	}
}

// TestMCPToolsWithFakeData drives the tools end to end against fake Azure clients
func TestMCPToolsWithFakeData(t *testing.T) {
	fake := (&testutil.FakeLogs{}).SuccessRows(logRows()...)
	sdk := newTestSDK(t, fake, testWebApps(), nil)

	tests := []struct {
		name     string
		tool     string
		args     string
		contains []string
	}{
		{
			name:     "logs",
			tool:     constants.ToolGetLogs,
			args:     `{"app_name":"func-orders","hours_back":3}`,
			contains: []string{`"count": 2`, "boom", "ProcessOrder"},
		},
		{
			name:     "search",
			tool:     constants.ToolSearchLogs,
			args:     `{"app_name":"func-orders","search_term":"boom"}`,
			contains: []string{`"app_name": "func-orders"`},
		},
		{
			name:     "function apps",
			tool:     constants.ToolListFunctionApps,
			args:     `{}`,
			contains: []string{"func-orders", `"count": 1`},
		},
		{
			name:     "functions",
			tool:     constants.ToolListFunctions,
			args:     `{"app_name":"func-orders"}`,
			contains: []string{"ProcessOrder", "RefundOrder"},
		},
		{
			name:     "exists",
			tool:     constants.ToolFunctionAppExists,
			args:     `{"app_name":"func-orders"}`,
			contains: []string{`"exists": true`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := findTool(t, sdk, tt.tool)(tt.args)
			if err != nil {
				t.Fatalf("%s failed: %v", tt.tool, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in output:\n%s", want, out)
				}
			}
		})
	}

	t.Run("settings are masked", func(t *testing.T) {
		out, err := findTool(t, sdk, constants.ToolGetFunctionAppInfo)(`{"app_name":"func-orders"}`)
		if err != nil {
			t.Fatalf("get_function_app_info failed: %v", err)
		}
		if strings.Contains(out, "hunter2") {
			t.Errorf("setting value leaked:\n%s", out)
		}
	})
}

// TestErrorHandling covers invalid arguments, failed queries and unknown apps
func TestErrorHandling(t *testing.T) {
	t.Run("missing app name", func(t *testing.T) {
		sdk := newTestSDK(t, (&testutil.FakeLogs{}).SuccessRows(), testWebApps(), nil)
		if _, err := findTool(t, sdk, constants.ToolGetLogs)(`{}`); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("failed query reads as empty", func(t *testing.T) {
		fake := &testutil.FakeLogs{Result: azure.QueryResult{Status: azure.QueryFailure}}
		sdk := newTestSDK(t, fake, testWebApps(), nil)
		out, err := findTool(t, sdk, constants.ToolGetErrorLogs)(`{"app_name":"func-orders"}`)
		if err != nil {
			t.Fatalf("expected empty result, got %v", err)
		}
		if !strings.Contains(out, `"count": 0`) {
			t.Errorf("expected zero entries:\n%s", out)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		fake := &testutil.FakeLogs{Err: errors.New("connection reset")}
		sdk := newTestSDK(t, fake, testWebApps(), nil)
		if _, err := findTool(t, sdk, constants.ToolGetMetrics)(`{"app_name":"func-orders"}`); err == nil {
			t.Error("expected query error")
		}
	})

	t.Run("unknown app", func(t *testing.T) {
		sdk := newTestSDK(t, (&testutil.FakeLogs{}).SuccessRows(), testWebApps(), nil)
		if _, err := findTool(t, sdk, constants.ToolGetFunctionAppInfo)(`{"app_name":"func-missing"}`); err == nil {
			t.Error("expected not found error")
		}
	})
}

// TestConcurrentToolCalls checks that parallel tools share one lazily built logs client
func TestConcurrentToolCalls(t *testing.T) {
	var created atomic.Int32
	fake := (&testutil.FakeLogs{}).SuccessRows(logRows()...)
	sdk := newTestSDK(t, fake, testWebApps(), &created)
	call := findTool(t, sdk, constants.ToolGetErrorLogs)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := call(`{"app_name":"func-orders"}`); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent call failed: %v", err)
	}
	if got := created.Load(); got != 1 {
		t.Errorf("expected one logs client, got %d", got)
	}
	if got := len(fake.Calls); got != 8 {
		t.Errorf("expected 8 queries, got %d", got)
	}
}
