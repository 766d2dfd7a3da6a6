// Package format renders query results as console text for the report
// command and for agent tool replies.
package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"appinsights-mcp/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	// DefaultMessageWidth is the log message width used by the report command.
	DefaultMessageWidth = 100

	maxMetricRows    = 10
	maxErrorGroups   = 10
	maxFunctions     = 15
	maxTimelineRows  = 20
	errorMessageSize = 80

	logTimeLayout    = "2006-01-02 15:04:05"
	bucketTimeLayout = "2006-01-02 15:04"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

func heading(s string) string {
	return headingStyle.Render(s)
}

// LevelMarker returns the colored dot shown in front of a log line.
func LevelMarker(level models.SeverityLevel) string {
	switch level {
	case models.SeverityError:
		return "🔴"
	case models.SeverityWarning:
		return "🟡"
	case models.SeverityInformation:
		return "🔵"
	case models.SeverityVerbose:
		return "⚪"
	default:
		return "⚫"
	}
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}

// clip keeps the first n runes and marks the cut.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// Logs lists entries with a level marker; messages longer than messageWidth
// are clipped.
func Logs(entries []models.LogEntry, messageWidth int) string {
	if len(entries) == 0 {
		return "No logs found."
	}
	if messageWidth <= 0 {
		messageWidth = DefaultMessageWidth
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", heading(fmt.Sprintf("📋 Found %d log entries:", len(entries))))
	for i, e := range entries {
		fmt.Fprintf(&b, "%3d. %s [%s] %s\n", i+1, LevelMarker(e.Level), e.Timestamp.Format(logTimeLayout), e.Level)
		if e.FunctionName != nil && *e.FunctionName != "" {
			fmt.Fprintf(&b, "     Function: %s\n", *e.FunctionName)
		}
		fmt.Fprintf(&b, "     Message: %s\n", clip(e.Message, messageWidth))
		if e.InvocationID != nil && *e.InvocationID != "" {
			fmt.Fprintf(&b, "     ID: %s\n", clip(*e.InvocationID, 8))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Metrics prints totals followed by the first buckets.
func Metrics(samples []models.MetricsSample) string {
	if len(samples) == 0 {
		return "No metrics found."
	}

	var total, ok, failed int64
	var duration float64
	for _, s := range samples {
		total += s.TotalRequests
		ok += s.SuccessfulRequests
		failed += s.FailedRequests
		duration += s.AvgDurationMs
	}
	duration /= float64(len(samples))

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", heading(fmt.Sprintf("📊 Found %d metric entries:", len(samples))))
	b.WriteString("📈 Summary:\n")
	fmt.Fprintf(&b, "   Total Invocations: %s\n", humanize.Comma(total))
	if total > 0 {
		fmt.Fprintf(&b, "   Successful: %s (%.1f%%)\n", humanize.Comma(ok), percent(ok, total))
		fmt.Fprintf(&b, "   Failed: %s (%.1f%%)\n", humanize.Comma(failed), percent(failed, total))
	} else {
		b.WriteString("   Successful: 0\n   Failed: 0\n")
	}
	fmt.Fprintf(&b, "   Avg Duration: %.2fms\n\n", duration)

	b.WriteString("⏱️  Timeline:\n")
	for _, s := range samples[:min(len(samples), maxMetricRows)] {
		fmt.Fprintf(&b, "   %s: %3d requests, %5.1f%% success, %6.2fms avg\n",
			s.Timestamp.Format(bucketTimeLayout), s.TotalRequests, s.SuccessRate(), s.AvgDurationMs)
	}
	if extra := len(samples) - maxMetricRows; extra > 0 {
		fmt.Fprintf(&b, "   ... and %d more entries\n", extra)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ErrorAnalysis prints the ten most frequent error groups.
func ErrorAnalysis(a models.ErrorAnalysis) string {
	if a.TotalErrors == 0 {
		return "🟢 No errors found in the specified time range."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", heading(fmt.Sprintf("🚨 Error Analysis for %s (last %dh):", a.AppName, a.TimeRangeHours)))
	fmt.Fprintf(&b, "   Total Errors: %s\n", humanize.Comma(a.TotalErrors))
	fmt.Fprintf(&b, "   Unique Error Types: %d\n\n", a.UniqueErrorTypes)

	if len(a.Errors) > 0 {
		b.WriteString("🔴 Top Errors:\n")
		for i, g := range a.Errors[:min(len(a.Errors), maxErrorGroups)] {
			fmt.Fprintf(&b, "%2d. Function: %s\n", i+1, g.FunctionName)
			fmt.Fprintf(&b, "    Type: %s\n", g.ExceptionType)
			fmt.Fprintf(&b, "    Count: %s (%.1f%%)\n", humanize.Comma(g.Count), percent(g.Count, a.TotalErrors))
			fmt.Fprintf(&b, "    Message: %s\n\n", clip(g.ExceptionMessage, errorMessageSize))
		}
		if extra := len(a.Errors) - maxErrorGroups; extra > 0 {
			fmt.Fprintf(&b, "   ... and %d more error types\n", extra)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FunctionPerformance prints the fifteen busiest functions.
func FunctionPerformance(perf []models.FunctionPerformance) string {
	if len(perf) == 0 {
		return "No performance data found."
	}

	sorted := make([]models.FunctionPerformance, len(perf))
	copy(sorted, perf)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InvocationCount > sorted[j].InvocationCount
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", heading(fmt.Sprintf("⚡ Function Performance Analysis (%d functions):", len(perf))))
	for i, p := range sorted[:min(len(sorted), maxFunctions)] {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, p.FunctionName)
		fmt.Fprintf(&b, "    Invocations: %s\n", humanize.Comma(p.InvocationCount))
		fmt.Fprintf(&b, "    Success Rate: %.1f%%\n", p.SuccessRate)
		fmt.Fprintf(&b, "    Avg Duration: %.2fms\n", p.AvgDurationMs)
		fmt.Fprintf(&b, "    P95 Duration: %.2fms\n", p.P95DurationMs)
		fmt.Fprintf(&b, "    Range: %.2fms - %.2fms\n\n", p.MinDurationMs, p.MaxDurationMs)
	}
	if extra := len(sorted) - maxFunctions; extra > 0 {
		fmt.Fprintf(&b, "   ... and %d more functions\n", extra)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RateIndicator maps an error percentage to red (>10), yellow (>5) or green.
func RateIndicator(errorRate float64) string {
	switch {
	case errorRate > 10:
		return "🔴"
	case errorRate > 5:
		return "🟡"
	default:
		return "🟢"
	}
}

// Timeline prints the first twenty buckets with an error-rate indicator.
func Timeline(points []models.TimelinePoint) string {
	if len(points) == 0 {
		return "No timeline data found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", heading(fmt.Sprintf("📈 Timeline Analysis (%d data points):", len(points))))
	for _, p := range points[:min(len(points), maxTimelineRows)] {
		rate := p.ErrorRate()
		fmt.Fprintf(&b, "%s %s: %3d req, %3d err (%4.1f%%), %4d traces\n",
			RateIndicator(rate), p.Timestamp.Format(bucketTimeLayout), p.Requests, p.Errors, rate, p.Traces)
	}
	if extra := len(points) - maxTimelineRows; extra > 0 {
		fmt.Fprintf(&b, "\n... and %d more data points\n", extra)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FunctionApp prints the metadata block shown at the top of a report.
func FunctionApp(info models.FunctionAppInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", heading("🏢 Function App: "+info.Name))
	fmt.Fprintf(&b, "   Resource Group: %s\n", info.ResourceGroup)
	fmt.Fprintf(&b, "   Location: %s\n", info.Location)
	fmt.Fprintf(&b, "   Kind: %s\n", info.Kind)
	fmt.Fprintf(&b, "   State: %s\n", info.State)
	fmt.Fprintf(&b, "   Host: %s\n", info.HostName)
	fmt.Fprintf(&b, "   Runtime: %s\n", info.Runtime)
	fmt.Fprintf(&b, "   App Settings: %d", len(info.AppSettings))
	return b.String()
}

// Names prints a numbered list under title, or empty when there are none.
func Names(title string, names []string, empty string) string {
	if len(names) == 0 {
		return empty
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", heading(fmt.Sprintf("%s (%d):", title, len(names))))
	for i, n := range names {
		fmt.Fprintf(&b, "%3d. %s\n", i+1, n)
	}
	return strings.TrimRight(b.String(), "\n")
}
