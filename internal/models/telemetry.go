package models

import (
	"strings"
	"time"
)

// SeverityLevel is the textual form of the traces table severityLevel column.
type SeverityLevel string

const (
	SeverityVerbose     SeverityLevel = "Verbose"
	SeverityInformation SeverityLevel = "Information"
	SeverityWarning     SeverityLevel = "Warning"
	SeverityError       SeverityLevel = "Error"
	SeverityUnknown     SeverityLevel = "Unknown"
)

var severityByCode = map[int64]SeverityLevel{
	0: SeverityVerbose,
	1: SeverityInformation,
	2: SeverityWarning,
	3: SeverityError,
}

// SeverityFromCode maps 0..3 to a level; anything else is Unknown.
func SeverityFromCode(code int64) SeverityLevel {
	if level, ok := severityByCode[code]; ok {
		return level
	}
	return SeverityUnknown
}

// SeverityLevels lists the four filterable levels, most verbose first.
func SeverityLevels() []SeverityLevel {
	return []SeverityLevel{SeverityVerbose, SeverityInformation, SeverityWarning, SeverityError}
}

// ParseSeverityLevel matches a level name case-insensitively.
func ParseSeverityLevel(name string) (SeverityLevel, bool) {
	for _, level := range SeverityLevels() {
		if strings.EqualFold(string(level), strings.TrimSpace(name)) {
			return level, true
		}
	}
	return "", false
}

// LogEntry is one row of the traces table.
type LogEntry struct {
	Timestamp        time.Time      `json:"timestamp" yaml:"timestamp"`
	Level            SeverityLevel  `json:"level" yaml:"level"`
	Message          string         `json:"message" yaml:"message"`
	FunctionName     *string        `json:"function_name" yaml:"function_name"`
	InvocationID     *string        `json:"invocation_id" yaml:"invocation_id"`
	ExceptionType    *string        `json:"exception_type" yaml:"exception_type"`
	ExceptionMessage *string        `json:"exception_message" yaml:"exception_message"`
	CustomProperties map[string]any `json:"custom_properties" yaml:"custom_properties"`
}

// MetricsSample is one request aggregation bucket.
type MetricsSample struct {
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	TotalRequests      int64     `json:"total_invocations" yaml:"total_invocations"`
	SuccessfulRequests int64     `json:"successful_invocations" yaml:"successful_invocations"`
	FailedRequests     int64     `json:"failed_invocations" yaml:"failed_invocations"`
	AvgDurationMs      float64   `json:"avg_duration_ms" yaml:"avg_duration_ms"`
	UniqueFunctions    int64     `json:"unique_functions" yaml:"unique_functions"`
}

// SuccessRate returns the successful share of requests as a percentage.
func (m MetricsSample) SuccessRate() float64 {
	if m.TotalRequests == 0 {
		return 0
	}
	return float64(m.SuccessfulRequests) / float64(m.TotalRequests) * 100
}

// ErrorGroup counts occurrences of one (function, type, message) triple.
type ErrorGroup struct {
	FunctionName     string `json:"function_name" yaml:"function_name"`
	ExceptionType    string `json:"exception_type" yaml:"exception_type"`
	ExceptionMessage string `json:"exception_message" yaml:"exception_message"`
	Count            int64  `json:"count" yaml:"count"`
}

// ErrorAnalysis aggregates error groups over a time window.
// TotalErrors is always the sum of Errors[i].Count.
type ErrorAnalysis struct {
	Errors           []ErrorGroup `json:"errors" yaml:"errors"`
	TotalErrors      int64        `json:"total_errors" yaml:"total_errors"`
	UniqueErrorTypes int          `json:"unique_error_types" yaml:"unique_error_types"`
	TimeRangeHours   int          `json:"time_range_hours" yaml:"time_range_hours"`
	AppName          string       `json:"function_app_name" yaml:"function_app_name"`
}

// EmptyErrorAnalysis returns an analysis with no groups.
func EmptyErrorAnalysis(appName string, hoursBack int) ErrorAnalysis {
	return ErrorAnalysis{
		Errors:         []ErrorGroup{},
		TimeRangeHours: hoursBack,
		AppName:        appName,
	}
}

// FunctionPerformance is one per-operation aggregate from the requests table.
type FunctionPerformance struct {
	FunctionName    string  `json:"function_name" yaml:"function_name"`
	InvocationCount int64   `json:"invocation_count" yaml:"invocation_count"`
	AvgDurationMs   float64 `json:"avg_duration_ms" yaml:"avg_duration_ms"`
	MinDurationMs   float64 `json:"min_duration_ms" yaml:"min_duration_ms"`
	MaxDurationMs   float64 `json:"max_duration_ms" yaml:"max_duration_ms"`
	P95DurationMs   float64 `json:"p95_duration_ms" yaml:"p95_duration_ms"`
	SuccessRate     float64 `json:"success_rate" yaml:"success_rate"`
}

// TimelinePoint is one bucket of the activity timeline.
type TimelinePoint struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Requests  int64     `json:"requests" yaml:"requests"`
	Errors    int64     `json:"errors" yaml:"errors"`
	Traces    int64     `json:"traces" yaml:"traces"`
}

// ErrorRate is errors over requests as a percentage.
func (p TimelinePoint) ErrorRate() float64 {
	if p.Requests == 0 {
		return 0
	}
	return float64(p.Errors) / float64(p.Requests) * 100
}
