package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/export"
	"appinsights-mcp/internal/format"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/observability"
	"appinsights-mcp/internal/telemetry/logs"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	reportRecentHours  = 3
	reportRecentLimit  = 10
	reportSearchTerm   = "error"
	reportSearchLimit  = 5
	reportErrorLimit   = 5
	reportErrorsGroups = 5
)

var sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)

type reporter struct {
	sdk    *observability.SDK
	out    io.Writer
	app    string
	hours  int
	export *exporter
	logger *zap.Logger
}

// runReport prints every view of one function app and optionally exports
// each dataset. A failing section is reported inline and the rest still run.
func runReport(ctx context.Context, cfg models.Config, sdk *observability.SDK, out io.Writer, logger *zap.Logger) error {
	r := &reporter{
		sdk:    sdk,
		out:    out,
		app:    cfg.ReportApp,
		hours:  cfg.ReportHours,
		logger: logger,
	}
	if r.hours <= 0 {
		r.hours = constants.DefaultMetricsHours
	}
	if cfg.ExportDir != "" {
		f, err := export.ParseFormat(cfg.ExportFormat)
		if err != nil {
			return err
		}
		r.export = &exporter{dir: cfg.ExportDir, app: cfg.ReportApp, format: f}
	}

	fmt.Fprintf(out, "Function App report: %s (%s, last %dh)\n", r.app, sdk.Environment(), r.hours)

	r.appInfo(ctx)
	r.logs(ctx)
	r.metrics(ctx)
	return nil
}

func (r *reporter) section(title string) {
	fmt.Fprintf(r.out, "\n%s\n\n", sectionStyle.Render(title))
}

func (r *reporter) failed(what string, err error) {
	r.logger.Warn("report section failed", zap.String("section", what), zap.Error(err))
	fmt.Fprintf(r.out, "   ❌ Could not retrieve %s: %v\n", what, err)
}

func (r *reporter) print(text string) {
	fmt.Fprintln(r.out, text)
}

func (r *reporter) save(kind string, data any, csv func(path string) (string, error)) {
	if r.export == nil {
		return
	}
	path, err := r.export.write(kind, data, csv)
	if err != nil {
		r.failed("export of "+kind, err)
		return
	}
	fmt.Fprintf(r.out, "   💾 Exported to %s\n", path)
}

func (r *reporter) appInfo(ctx context.Context) {
	r.section("1. Function App")

	info, err := r.sdk.GetFunctionAppInfo(ctx, r.app)
	if err != nil {
		r.failed("app info", err)
	} else {
		r.print(format.FunctionApp(info))
	}

	functions, err := r.sdk.ListFunctions(ctx, r.app)
	if err != nil {
		r.failed("functions", err)
		return
	}
	r.print(format.Names("⚙️ Functions", functions, "   No functions found"))
}

func (r *reporter) logs(ctx context.Context) {
	r.section("2. Logs")

	recent, err := r.sdk.GetLogs(ctx, logs.Query{
		AppName:   r.app,
		HoursBack: reportRecentHours,
		Level:     constants.DefaultLogsLevel,
		Limit:     reportRecentLimit,
	})
	if err != nil {
		r.failed("recent logs", err)
	} else {
		fmt.Fprintf(r.out, "📋 Recent logs (last %d hours):\n", reportRecentHours)
		r.print(format.Logs(recent, format.DefaultMessageWidth))
		r.save("logs", recent, func(p string) (string, error) { return export.LogsCSV(p, recent) })
	}

	found, err := r.sdk.SearchLogs(ctx, r.app, reportSearchTerm, r.hours, reportSearchLimit)
	if err != nil {
		r.failed("search results", err)
	} else {
		fmt.Fprintf(r.out, "\n🔍 Searching for %q in logs:\n", reportSearchTerm)
		r.print(format.Logs(found, format.DefaultMessageWidth))
	}

	errorLogs, err := r.sdk.GetErrorLogs(ctx, r.app, r.hours, reportErrorLimit)
	if err != nil {
		r.failed("error logs", err)
	} else {
		fmt.Fprintf(r.out, "\n🚨 Error-level logs (last %d hours):\n", r.hours)
		r.print(format.Logs(errorLogs, format.DefaultMessageWidth))
		r.save("error_logs", errorLogs, func(p string) (string, error) { return export.LogsCSV(p, errorLogs) })
	}
}

func (r *reporter) metrics(ctx context.Context) {
	r.section("3. Metrics")

	samples, err := r.sdk.GetMetrics(ctx, r.app, r.hours, constants.DefaultGranularityHours)
	if err != nil {
		r.failed("metrics", err)
	} else {
		r.print(format.Metrics(samples))
		r.save("metrics", samples, func(p string) (string, error) { return export.MetricsCSV(p, samples) })
	}

	analysis, err := r.sdk.AnalyzeErrors(ctx, r.app, r.hours, reportErrorsGroups)
	if err != nil {
		r.failed("error analysis", err)
	} else {
		r.print("")
		r.print(format.ErrorAnalysis(analysis))
		r.save("errors", analysis, func(p string) (string, error) { return export.ErrorsCSV(p, analysis) })
	}

	perf, err := r.sdk.GetFunctionPerformance(ctx, r.app, r.hours, "")
	if err != nil {
		r.failed("function performance", err)
	} else {
		r.print("")
		r.print(format.FunctionPerformance(perf))
		r.save("performance", perf, func(p string) (string, error) { return export.PerformanceCSV(p, perf) })
	}

	timeline, err := r.sdk.GetTimeline(ctx, r.app, r.hours, constants.DefaultTimelineMinutes)
	if err != nil {
		r.failed("timeline", err)
	} else {
		r.print("")
		r.print(format.Timeline(timeline))
		r.save("timeline", timeline, func(p string) (string, error) { return export.TimelineCSV(p, timeline) })
	}
}

// exporter writes report datasets as report_<app>_<kind>_<timestamp>.<ext>.
type exporter struct {
	dir    string
	app    string
	format export.Format
}

func (e *exporter) write(kind string, data any, csv func(path string) (string, error)) (string, error) {
	path := filepath.Join(e.dir, export.Filename("report", e.app, kind, string(e.format), true))
	switch e.format {
	case export.FormatCSV:
		return csv(path)
	case export.FormatYAML:
		return export.YAML(path, data)
	default:
		return export.JSON(path, data)
	}
}
