// Package functionapp reads Function App metadata from the App Service management API.
package functionapp

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"appinsights-mcp/internal/azure"
	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/models"

	"go.uber.org/zap"
)

// Reader is the function app metadata surface exposed to tools.
type Reader interface {
	ListFunctionApps(ctx context.Context) ([]string, error)
	ListFunctions(ctx context.Context, appName string) ([]string, error)
	GetFunctionAppInfo(ctx context.Context, appName string) (models.FunctionAppInfo, error)
	FunctionAppExists(ctx context.Context, appName string) (bool, error)
}

// Service lists and describes the function apps in the configured resource group.
type Service struct {
	clients *azure.ClientManager
	logger  *zap.Logger
}

func NewService(clients *azure.ClientManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{clients: clients, logger: logger.Named("functionapp")}
}

func (s *Service) resourceGroup() string {
	return s.clients.Config().ResourceGroup
}

// queryError maps a management API failure; notFound names what was missing.
func (s *Service) queryError(op, notFound string, err error) error {
	if azure.IsNotFound(err) {
		s.logger.Error("resource not found", zap.String("resource", notFound))
		return models.NewQueryError(notFound+" not found", err)
	}
	s.logger.Error("management request failed", zap.String("op", op), zap.Error(err))
	return models.NewQueryError("failed to "+op, err)
}

// ListFunctionApps returns the names of sites whose kind contains "functionapp".
func (s *Service) ListFunctionApps(ctx context.Context) ([]string, error) {
	client, err := s.clients.WebApps()
	if err != nil {
		return nil, err
	}
	rg := s.resourceGroup()
	sites, err := client.ListByResourceGroup(ctx, rg)
	if err != nil {
		return nil, s.queryError("list function apps", "resource group "+rg, err)
	}

	apps := []string{}
	for _, site := range sites {
		if strings.Contains(strings.ToLower(site.Kind), constants.FunctionAppKindToken) {
			apps = append(apps, site.Name)
		}
	}
	s.logger.Info("listed function apps", zap.String("resource_group", rg), zap.Int("count", len(apps)))
	return apps, nil
}

// ListFunctions returns the functions deployed in appName, without the "<app>/" prefix.
func (s *Service) ListFunctions(ctx context.Context, appName string) ([]string, error) {
	client, err := s.clients.WebApps()
	if err != nil {
		return nil, err
	}
	names, err := client.ListFunctions(ctx, s.resourceGroup(), appName)
	if err != nil {
		return nil, s.queryError("list functions", "function app "+appName, err)
	}

	functions := make([]string, 0, len(names))
	for _, name := range names {
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		functions = append(functions, name)
	}
	s.logger.Info("listed functions", zap.String("app", appName), zap.Int("count", len(functions)))
	return functions, nil
}

// GetFunctionAppInfo describes appName. Failing to read app settings is not
// fatal; the settings map is then empty.
func (s *Service) GetFunctionAppInfo(ctx context.Context, appName string) (models.FunctionAppInfo, error) {
	client, err := s.clients.WebApps()
	if err != nil {
		return models.FunctionAppInfo{}, err
	}
	rg := s.resourceGroup()
	site, err := client.Get(ctx, rg, appName)
	if err != nil {
		return models.FunctionAppInfo{}, s.queryError("get function app info", "function app "+appName, err)
	}

	settings, err := client.ListApplicationSettings(ctx, rg, appName)
	if err != nil {
		s.logger.Warn("could not retrieve app settings", zap.String("app", appName), zap.Error(err))
	}
	if err != nil || settings == nil {
		settings = map[string]string{}
	}

	return models.FunctionAppInfo{
		Name:          site.Name,
		ResourceGroup: site.ResourceGroup,
		Location:      site.Location,
		Kind:          site.Kind,
		State:         site.State,
		HostName:      site.DefaultHostName,
		Runtime:       DetectRuntime(site.Config, settings),
		AppSettings:   settings,
	}, nil
}

// FunctionAppExists lists the resource group and tests membership. It costs
// one full listing per call.
func (s *Service) FunctionAppExists(ctx context.Context, appName string) (bool, error) {
	apps, err := s.ListFunctionApps(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check function app %s: %w", appName, err)
	}
	return slices.Contains(apps, appName), nil
}

// DetectRuntime decides the platform from FUNCTIONS_WORKER_RUNTIME, then the
// Linux stack prefix, then whichever single stack version is configured, and
// takes the version for that platform only.
func DetectRuntime(cfg azure.SiteConfig, settings map[string]string) models.Runtime {
	fxPlatform, fxVersion := splitLinuxFx(cfg.LinuxFxVersion)

	platform := models.ParsePlatform(settings[constants.WorkerRuntimeSetting])
	if platform == models.PlatformUnknown && fxPlatform != "" {
		platform = models.ParsePlatform(fxPlatform)
	}
	if platform == models.PlatformUnknown {
		platform = platformFromConfig(cfg)
	}

	version := versionFor(platform, cfg)
	if version == "" && models.ParsePlatform(fxPlatform) == platform {
		version = fxVersion
	}
	return models.Runtime{Platform: platform, Version: version}
}

func splitLinuxFx(fx string) (string, string) {
	platform, version, found := strings.Cut(fx, "|")
	if !found {
		return "", ""
	}
	return platform, version
}

func versionFor(p models.Platform, cfg azure.SiteConfig) string {
	switch p {
	case models.PlatformPython:
		return cfg.PythonVersion
	case models.PlatformNode:
		return cfg.NodeVersion
	case models.PlatformDotNet:
		return cfg.NetFrameworkVersion
	case models.PlatformJava:
		return cfg.JavaVersion
	case models.PlatformPowerShell:
		return cfg.PowerShellVersion
	}
	return ""
}

func platformFromConfig(cfg azure.SiteConfig) models.Platform {
	candidates := map[models.Platform]string{
		models.PlatformPython:     cfg.PythonVersion,
		models.PlatformNode:       cfg.NodeVersion,
		models.PlatformDotNet:     cfg.NetFrameworkVersion,
		models.PlatformJava:       cfg.JavaVersion,
		models.PlatformPowerShell: cfg.PowerShellVersion,
	}
	found := models.PlatformUnknown
	for p, v := range candidates {
		if v == "" {
			continue
		}
		if found != models.PlatformUnknown {
			return models.PlatformUnknown
		}
		found = p
	}
	return found
}
