// Package config resolves per-environment Azure settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"appinsights-mcp/internal/models"
)

// LookupFunc reads one variable, reporting whether it was set.
type LookupFunc func(key string) (string, bool)

const (
	suffixSubscriptionID  = "_SUBSCRIPTION_ID"
	suffixResourceGroup   = "_RESOURCE_GROUP"
	suffixAppInsightsName = "_APP_INSIGHTS_NAME"
)

// VariableNames returns the three variable names read for env.
func VariableNames(env models.Environment) []string {
	p := env.Prefix()
	return []string{p + suffixSubscriptionID, p + suffixResourceGroup, p + suffixAppInsightsName}
}

// GetEnvironmentConfig resolves {ENV}_SUBSCRIPTION_ID, {ENV}_RESOURCE_GROUP and
// {ENV}_APP_INSIGHTS_NAME. A nil lookup reads the process environment.
func GetEnvironmentConfig(env models.Environment, lookup LookupFunc) (models.EnvironmentConfig, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	p := env.Prefix()
	cfg := models.EnvironmentConfig{
		SubscriptionID:  get(p + suffixSubscriptionID),
		ResourceGroup:   get(p + suffixResourceGroup),
		AppInsightsName: get(p + suffixAppInsightsName),
	}
	if missing := cfg.MissingFields(); len(missing) > 0 {
		return models.EnvironmentConfig{}, models.NewConfigurationError(
			fmt.Sprintf("Missing required environment variables for %s: [%s]", env, strings.Join(missing, ", ")))
	}
	return cfg, nil
}

// Load parses name and resolves its configuration in one step.
func Load(name string, lookup LookupFunc) (models.Environment, models.EnvironmentConfig, error) {
	env, err := models.ParseEnvironment(name)
	if err != nil {
		return "", models.EnvironmentConfig{}, err
	}
	cfg, err := GetEnvironmentConfig(env, lookup)
	if err != nil {
		return "", models.EnvironmentConfig{}, err
	}
	return env, cfg, nil
}
