// Package azure owns the two Azure clients used by the services: the Log
// Analytics query client and the App Service management client.
package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/models"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/zap"
)

// LogsFactory builds the query client from a credential.
type LogsFactory func(cred azcore.TokenCredential) (LogsQuerier, error)

// WebAppsFactory builds the management client for one subscription.
type WebAppsFactory func(subscriptionID string, cred azcore.TokenCredential) (WebAppsAPI, error)

// ClientManager lazily creates and caches the query and management clients.
// It is safe for concurrent use; each client is created at most once, and a
// failed construction is retried on the next call.
type ClientManager struct {
	cfg    models.EnvironmentConfig
	cred   azcore.TokenCredential
	logger *zap.Logger

	newLogs    LogsFactory
	newWebApps WebAppsFactory
	transport  policy.Transporter

	logsMu sync.Mutex
	logs   LogsQuerier

	webMu   sync.Mutex
	webApps WebAppsAPI
}

// Option configures a ClientManager.
type Option func(*ClientManager)

// WithLogsFactory replaces the query client constructor.
func WithLogsFactory(f LogsFactory) Option {
	return func(m *ClientManager) { m.newLogs = f }
}

// WithWebAppsFactory replaces the management client constructor.
func WithWebAppsFactory(f WebAppsFactory) Option {
	return func(m *ClientManager) { m.newWebApps = f }
}

// WithTransport routes the default clients' HTTP traffic through t.
func WithTransport(t policy.Transporter) Option {
	return func(m *ClientManager) { m.transport = t }
}

// NewClientManager returns a manager for cfg. No client is created until first use.
func NewClientManager(cfg models.EnvironmentConfig, cred azcore.TokenCredential, logger *zap.Logger, opts ...Option) *ClientManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &ClientManager{
		cfg:    cfg,
		cred:   cred,
		logger: logger,
	}
	m.newLogs = func(cred azcore.TokenCredential) (LogsQuerier, error) {
		return NewLogsQuerier(cred, m.transport)
	}
	m.newWebApps = func(subscriptionID string, cred azcore.TokenCredential) (WebAppsAPI, error) {
		return NewWebAppsAPI(subscriptionID, cred, m.transport)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the environment this manager targets.
func (m *ClientManager) Config() models.EnvironmentConfig {
	return m.cfg
}

// ResourceID is the fully-qualified Application Insights resource identifier.
func (m *ClientManager) ResourceID() string {
	return fmt.Sprintf(constants.ResourceIDFormat, m.cfg.SubscriptionID, m.cfg.ResourceGroup, m.cfg.AppInsightsName)
}

// Logs returns the cached query client, creating it on first use.
func (m *ClientManager) Logs() (LogsQuerier, error) {
	m.logsMu.Lock()
	defer m.logsMu.Unlock()

	if m.logs != nil {
		return m.logs, nil
	}
	client, err := m.newLogs(m.cred)
	if err != nil {
		return nil, models.NewAuthenticationError("failed to create logs query client", err)
	}
	m.logs = client
	m.logger.Info("initialized logs query client")
	return m.logs, nil
}

// WebApps returns the cached management client, creating it on first use.
func (m *ClientManager) WebApps() (WebAppsAPI, error) {
	m.webMu.Lock()
	defer m.webMu.Unlock()

	if m.webApps != nil {
		return m.webApps, nil
	}
	client, err := m.newWebApps(m.cfg.SubscriptionID, m.cred)
	if err != nil {
		return nil, models.NewAuthenticationError("failed to create web apps client", err)
	}
	m.webApps = client
	m.logger.Info("initialized web apps client", zap.String("subscription_id", m.cfg.SubscriptionID))
	return m.webApps, nil
}

// Query runs q against the Application Insights resource over the trailing
// window and returns the rows of the first table. ok is false when the
// backend answered with a non-success status or no tables.
func (m *ClientManager) Query(ctx context.Context, q string, window time.Duration) (rows [][]any, ok bool, err error) {
	client, err := m.Logs()
	if err != nil {
		return nil, false, err
	}

	m.logger.Debug("executing query", zap.String("query", q), zap.Duration("window", window))

	result, err := client.QueryResource(ctx, m.ResourceID(), q, window)
	if err != nil {
		return nil, false, models.NewQueryError("query execution failed", err)
	}
	if result.Status != QuerySuccess || len(result.Tables) == 0 {
		m.logger.Warn("query returned no results", zap.String("status", result.Status.String()))
		return nil, false, nil
	}
	return result.Tables[0].Rows, true, nil
}

// IsNotFound reports whether err is an Azure 404 response.
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
