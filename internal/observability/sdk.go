// Package observability is the single entry point over the logs, metrics and
// function app services for one deployment environment.
package observability

import (
	"context"

	"appinsights-mcp/internal/azure"
	"appinsights-mcp/internal/config"
	"appinsights-mcp/internal/deeplink"
	"appinsights-mcp/internal/functionapp"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/parser"
	"appinsights-mcp/internal/telemetry/logs"
	"appinsights-mcp/internal/telemetry/metrics"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"go.uber.org/zap"
)

// CredentialFunc obtains the Azure credential shared by every client.
type CredentialFunc func() (azcore.TokenCredential, error)

// DefaultCredential uses the environment, managed identity and Azure CLI chain.
func DefaultCredential() (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}

// Options configures New. Zero values select production defaults.
type Options struct {
	Logger        *zap.Logger
	Lookup        config.LookupFunc
	Credential    CredentialFunc
	ClientOptions []azure.Option
	ParserOptions []parser.Option
}

// SDK exposes every query for one environment. All services share one
// ClientManager, so each Azure client is created at most once.
type SDK struct {
	env     models.Environment
	cfg     models.EnvironmentConfig
	clients *azure.ClientManager
	links   *deeplink.Builder
	logger  *zap.Logger

	logs         *logs.Service
	metrics      *metrics.Service
	functionApps *functionapp.Service
}

var (
	_ logs.Reader        = (*SDK)(nil)
	_ metrics.Reader     = (*SDK)(nil)
	_ functionapp.Reader = (*SDK)(nil)
)

// New resolves environment (dev, qa, staging or prod), its variables and a
// credential. An unknown name or missing variable is a configuration error;
// a credential failure is an authentication error.
func New(environment string, opts Options) (*SDK, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	env, cfg, err := config.Load(environment, opts.Lookup)
	if err != nil {
		logger.Error("invalid environment configuration", zap.String("environment", environment), zap.Error(err))
		return nil, err
	}

	newCred := opts.Credential
	if newCred == nil {
		newCred = DefaultCredential
	}
	cred, err := newCred()
	if err != nil {
		return nil, models.NewAuthenticationError("failed to obtain Azure credential", err)
	}

	logger = logger.With(zap.String("environment", string(env)))
	clients := azure.NewClientManager(cfg, cred, logger, opts.ClientOptions...)
	p := parser.New(logger.Named("parser"), opts.ParserOptions...)

	logger.Info("observability SDK initialized",
		zap.String("resource_group", cfg.ResourceGroup),
		zap.String("app_insights", cfg.AppInsightsName))

	return &SDK{
		env:          env,
		cfg:          cfg,
		clients:      clients,
		links:        deeplink.NewBuilder(cfg),
		logger:       logger,
		logs:         logs.NewService(clients, p, logger),
		metrics:      metrics.NewService(clients, p, logger),
		functionApps: functionapp.NewService(clients, logger),
	}, nil
}

func (s *SDK) Environment() models.Environment  { return s.env }
func (s *SDK) Config() models.EnvironmentConfig { return s.cfg }
func (s *SDK) Links() *deeplink.Builder         { return s.links }
func (s *SDK) ResourceID() string               { return s.clients.ResourceID() }

func (s *SDK) GetLogs(ctx context.Context, q logs.Query) ([]models.LogEntry, error) {
	return s.logs.GetLogs(ctx, q)
}

func (s *SDK) GetErrorLogs(ctx context.Context, appName string, hoursBack, limit int) ([]models.LogEntry, error) {
	return s.logs.GetErrorLogs(ctx, appName, hoursBack, limit)
}

func (s *SDK) SearchLogs(ctx context.Context, appName, term string, hoursBack, limit int) ([]models.LogEntry, error) {
	return s.logs.SearchLogs(ctx, appName, term, hoursBack, limit)
}

func (s *SDK) GetFunctionLogs(ctx context.Context, appName, functionName string, hoursBack, limit int) ([]models.LogEntry, error) {
	return s.logs.GetFunctionLogs(ctx, appName, functionName, hoursBack, limit)
}

func (s *SDK) GetMetrics(ctx context.Context, appName string, hoursBack, granularityHours int) ([]models.MetricsSample, error) {
	return s.metrics.GetMetrics(ctx, appName, hoursBack, granularityHours)
}

func (s *SDK) AnalyzeErrors(ctx context.Context, appName string, hoursBack, limit int) (models.ErrorAnalysis, error) {
	return s.metrics.AnalyzeErrors(ctx, appName, hoursBack, limit)
}

func (s *SDK) GetFunctionPerformance(ctx context.Context, appName string, hoursBack int, functionName string) ([]models.FunctionPerformance, error) {
	return s.metrics.GetFunctionPerformance(ctx, appName, hoursBack, functionName)
}

func (s *SDK) GetTimeline(ctx context.Context, appName string, hoursBack, granularityMinutes int) ([]models.TimelinePoint, error) {
	return s.metrics.GetTimeline(ctx, appName, hoursBack, granularityMinutes)
}

func (s *SDK) ListFunctionApps(ctx context.Context) ([]string, error) {
	return s.functionApps.ListFunctionApps(ctx)
}

func (s *SDK) ListFunctions(ctx context.Context, appName string) ([]string, error) {
	return s.functionApps.ListFunctions(ctx, appName)
}

func (s *SDK) GetFunctionAppInfo(ctx context.Context, appName string) (models.FunctionAppInfo, error) {
	return s.functionApps.GetFunctionAppInfo(ctx, appName)
}

func (s *SDK) FunctionAppExists(ctx context.Context, appName string) (bool, error) {
	return s.functionApps.FunctionAppExists(ctx, appName)
}
