// Package export writes query results to JSON, YAML or CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"appinsights-mcp/internal/models"

	"gopkg.in/yaml.v3"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts json, yaml/yml or csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q (use json, yaml or csv)", s)
}

const timestampLayout = "20060102_150405"

var now = time.Now

// Filename joins the non-empty parts with "_" and appends a local timestamp
// when includeTimestamp is set, e.g. report_func-a_logs_20250304_101530.json.
func Filename(base, appName, dataType, ext string, includeTimestamp bool) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{base, appName, dataType} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if includeTimestamp {
		parts = append(parts, now().Format(timestampLayout))
	}
	if ext == "" {
		ext = string(FormatJSON)
	}
	return strings.Join(parts, "_") + "." + strings.TrimPrefix(ext, ".")
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	return f, nil
}

func writeFile(path string, write func(io.Writer) error) (string, error) {
	f, err := create(path)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

// JSON writes data as indented JSON and returns path.
func JSON(path string, data any) (string, error) {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	})
}

// YAML writes data as a YAML document and returns path.
func YAML(path string, data any) (string, error) {
	return writeFile(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	})
}

func writeCSV(path string, header []string, rows [][]string) (string, error) {
	return writeFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return nil
	})
}

func isoTime(t time.Time) string { return t.Format(time.RFC3339Nano) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// LogsCSV writes one row per log entry; custom properties are omitted.
func LogsCSV(path string, entries []models.LogEntry) (string, error) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			isoTime(e.Timestamp),
			string(e.Level),
			deref(e.FunctionName),
			deref(e.InvocationID),
			e.Message,
			deref(e.ExceptionType),
			deref(e.ExceptionMessage),
		})
	}
	return writeCSV(path, []string{
		"Timestamp", "Level", "Function Name", "Invocation ID",
		"Message", "Exception Type", "Exception Message",
	}, rows)
}

// MetricsCSV writes one row per metrics bucket.
func MetricsCSV(path string, samples []models.MetricsSample) (string, error) {
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{
			isoTime(s.Timestamp),
			itoa(s.TotalRequests),
			itoa(s.SuccessfulRequests),
			itoa(s.FailedRequests),
			ftoa(s.AvgDurationMs),
			itoa(s.UniqueFunctions),
		})
	}
	return writeCSV(path, []string{
		"Timestamp", "Total Invocations", "Successful Invocations",
		"Failed Invocations", "Avg Duration (ms)", "Unique Functions",
	}, rows)
}

// PerformanceCSV writes one row per function.
func PerformanceCSV(path string, perf []models.FunctionPerformance) (string, error) {
	rows := make([][]string, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []string{
			p.FunctionName,
			itoa(p.InvocationCount),
			ftoa(p.AvgDurationMs),
			ftoa(p.MinDurationMs),
			ftoa(p.MaxDurationMs),
			ftoa(p.P95DurationMs),
			ftoa(p.SuccessRate),
		})
	}
	return writeCSV(path, []string{
		"Function Name", "Invocations", "Avg Duration (ms)", "Min Duration (ms)",
		"Max Duration (ms)", "P95 Duration (ms)", "Success Rate (%)",
	}, rows)
}

// TimelineCSV writes one row per timeline bucket.
func TimelineCSV(path string, points []models.TimelinePoint) (string, error) {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{isoTime(p.Timestamp), itoa(p.Requests), itoa(p.Errors), itoa(p.Traces)})
	}
	return writeCSV(path, []string{"Timestamp", "Requests", "Errors", "Traces"}, rows)
}

// ErrorsCSV writes one row per error group.
func ErrorsCSV(path string, a models.ErrorAnalysis) (string, error) {
	rows := make([][]string, 0, len(a.Errors))
	for _, g := range a.Errors {
		rows = append(rows, []string{g.FunctionName, g.ExceptionType, g.ExceptionMessage, itoa(g.Count)})
	}
	return writeCSV(path, []string{"Function Name", "Exception Type", "Exception Message", "Count"}, rows)
}
