// Package testutil holds in-memory stand-ins for the Azure clients.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"appinsights-mcp/internal/azure"
	"appinsights-mcp/internal/models"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"
)

// MockEnvironmentConfig returns a fully populated configuration.
func MockEnvironmentConfig() models.EnvironmentConfig {
	return models.EnvironmentConfig{
		SubscriptionID:  "00000000-0000-0000-0000-000000000000",
		ResourceGroup:   "rg-test",
		AppInsightsName: "ai-test",
	}
}

// QueryCall records one QueryResource invocation.
type QueryCall struct {
	ResourceID string
	Query      string
	Window     time.Duration
}

// FakeLogs answers every query with Result (or Err) and records the calls.
type FakeLogs struct {
	mu     sync.Mutex
	Result azure.QueryResult
	Err    error
	Calls  []QueryCall
}

// SuccessRows configures a successful single-table result.
func (f *FakeLogs) SuccessRows(rows ...[]any) *FakeLogs {
	f.Result = azure.QueryResult{Status: azure.QuerySuccess, Tables: []azure.Table{{Name: "PrimaryResult", Rows: rows}}}
	return f
}

func (f *FakeLogs) QueryResource(_ context.Context, resourceID, query string, window time.Duration) (azure.QueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, QueryCall{ResourceID: resourceID, Query: query, Window: window})
	return f.Result, f.Err
}

// LastQuery returns the text of the most recent query, or "".
func (f *FakeLogs) LastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return ""
	}
	return f.Calls[len(f.Calls)-1].Query
}

// FakeWebApps serves sites, functions and settings from maps keyed by app name.
type FakeWebApps struct {
	Sites       []azure.Site
	Functions   map[string][]string
	Settings    map[string]map[string]string
	ListErr     error
	GetErr      error
	SettingsErr error
}

func (f *FakeWebApps) ListByResourceGroup(_ context.Context, _ string) ([]azure.Site, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Sites, nil
}

func (f *FakeWebApps) ListFunctions(_ context.Context, _ string, app string) ([]string, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	fns, ok := f.Functions[app]
	if !ok {
		return nil, NotFound("function app " + app)
	}
	return fns, nil
}

func (f *FakeWebApps) Get(_ context.Context, _ string, app string) (azure.Site, error) {
	if f.GetErr != nil {
		return azure.Site{}, f.GetErr
	}
	for _, s := range f.Sites {
		if strings.EqualFold(s.Name, app) {
			return s, nil
		}
	}
	return azure.Site{}, NotFound("function app " + app)
}

func (f *FakeWebApps) ListApplicationSettings(_ context.Context, _ string, app string) (map[string]string, error) {
	if f.SettingsErr != nil {
		return nil, f.SettingsErr
	}
	return f.Settings[app], nil
}

// NotFound builds the error azcore returns for a 404.
func NotFound(what string) error {
	return fmt.Errorf("%s not found: %w", what, &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "ResourceNotFound"})
}

// NewClientManager wires fakes into a ClientManager.
func NewClientManager(logs azure.LogsQuerier, web azure.WebAppsAPI) *azure.ClientManager {
	return azure.NewClientManager(MockEnvironmentConfig(), nil, zap.NewNop(),
		azure.WithLogsFactory(func(azcore.TokenCredential) (azure.LogsQuerier, error) { return logs, nil }),
		azure.WithWebAppsFactory(func(string, azcore.TokenCredential) (azure.WebAppsAPI, error) { return web, nil }),
	)
}
