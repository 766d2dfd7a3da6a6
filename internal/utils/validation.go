package utils

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/models"
)

// ValidateHoursBack checks the trailing window is between 1 hour and one year.
func ValidateHoursBack(hours int) error {
	if hours < 1 || hours > constants.MaxHoursBack {
		return fmt.Errorf("hours_back must be between 1 and %d, got %d", constants.MaxHoursBack, hours)
	}
	return nil
}

func ValidateLimit(limit int) error {
	if limit < 1 || limit > constants.MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", constants.MaxLimit, limit)
	}
	return nil
}

func ValidateGranularityHours(hours int) error {
	if hours < 1 || hours > constants.MaxGranularityHours {
		return fmt.Errorf("granularity_hours must be between 1 and %d, got %d", constants.MaxGranularityHours, hours)
	}
	return nil
}

func ValidateGranularityMinutes(minutes int) error {
	if minutes < 1 || minutes > constants.MaxGranularityMinutes {
		return fmt.Errorf("granularity_minutes must be between 1 and %d, got %d", constants.MaxGranularityMinutes, minutes)
	}
	return nil
}

// NormalizeLogLevel returns the canonical spelling of a level name.
// An empty level stays empty.
func NormalizeLogLevel(level string) (string, error) {
	if strings.TrimSpace(level) == "" {
		return "", nil
	}
	if l, ok := models.ParseSeverityLevel(level); ok {
		return string(l), nil
	}
	valid := make([]string, 0, 4)
	for _, l := range models.SeverityLevels() {
		valid = append(valid, string(l))
	}
	return "", fmt.Errorf("invalid log level %q, must be one of: %s", level, strings.Join(valid, ", "))
}

// ValidateFunctionAppName rejects empty, overlong, or punctuated names.
func ValidateFunctionAppName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("function app name cannot be empty")
	}
	if len(name) > constants.MaxFunctionAppNameLen {
		return fmt.Errorf("function app name cannot exceed %d characters", constants.MaxFunctionAppNameLen)
	}
	if strings.ContainsAny(name, constants.InvalidAppNameChars) || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("function app name %q contains invalid characters", name)
	}
	return nil
}

// ValidateSearchTerm rejects blank search terms.
func ValidateSearchTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return errors.New("search_term cannot be empty")
	}
	return nil
}
