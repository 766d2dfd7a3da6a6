package models

import (
	"fmt"
	"strings"
)

// Environment identifies a deployment target.
type Environment string

const (
	EnvDev     Environment = "dev"
	EnvQA      Environment = "qa"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Environments lists the valid deployment targets in display order.
func Environments() []Environment {
	return []Environment{EnvDev, EnvQA, EnvStaging, EnvProd}
}

// ParseEnvironment maps a case-insensitive name to an Environment.
func ParseEnvironment(name string) (Environment, error) {
	candidate := Environment(strings.ToLower(strings.TrimSpace(name)))
	for _, env := range Environments() {
		if env == candidate {
			return env, nil
		}
	}
	valid := make([]string, 0, 4)
	for _, env := range Environments() {
		valid = append(valid, string(env))
	}
	return "", NewConfigurationError(fmt.Sprintf("invalid environment %q, valid options: %s", name, strings.Join(valid, ", ")))
}

// Prefix is the upper-case variable prefix, e.g. "QA" for qa.
func (e Environment) Prefix() string {
	return strings.ToUpper(string(e))
}

// EnvironmentConfig is the resolved triple for one deployment target.
type EnvironmentConfig struct {
	SubscriptionID  string `json:"subscription_id" yaml:"subscription_id"`
	ResourceGroup   string `json:"resource_group" yaml:"resource_group"`
	AppInsightsName string `json:"app_insights_name" yaml:"app_insights_name"`
}

// MissingFields returns the names of empty fields in declaration order.
func (c EnvironmentConfig) MissingFields() []string {
	var missing []string
	if c.SubscriptionID == "" {
		missing = append(missing, "subscription_id")
	}
	if c.ResourceGroup == "" {
		missing = append(missing, "resource_group")
	}
	if c.AppInsightsName == "" {
		missing = append(missing, "app_insights_name")
	}
	return missing
}
