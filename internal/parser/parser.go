// Package parser turns untyped query result rows into typed records.
//
// A malformed row (too few columns, a non-numeric value in a numeric column,
// an unparseable timestamp) is skipped with exactly one warning; the rest of
// the batch is still returned.
package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"appinsights-mcp/internal/models"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Row is one result row in column order.
type Row = []any

// Parser converts rows for each of the query shapes.
type Parser struct {
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the clock used for rows without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// New returns a Parser logging diagnostics to logger. A nil logger discards them.
func New(logger *zap.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Parser{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) skip(shape string, index int, err error) {
	p.logger.Warn("skipping malformed row",
		zap.String("shape", shape),
		zap.Int("row", index),
		zap.Error(err))
}

// Logs parses (timestamp, severityLevel, message, operation_Name,
// operation_Id[, customDimensions]) rows.
func (p *Parser) Logs(rows []Row) []models.LogEntry {
	entries := make([]models.LogEntry, 0, len(rows))
	for i, row := range rows {
		entry, err := p.logEntry(row)
		if err != nil {
			p.skip("logs", i, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (p *Parser) logEntry(row Row) (models.LogEntry, error) {
	if err := requireColumns(row, 5); err != nil {
		return models.LogEntry{}, err
	}
	ts, err := p.timestamp(row[0])
	if err != nil {
		return models.LogEntry{}, err
	}
	level, err := severity(row[1])
	if err != nil {
		return models.LogEntry{}, err
	}
	entry := models.LogEntry{
		Timestamp:    ts,
		Level:        level,
		Message:      text(row[2], ""),
		FunctionName: optionalText(row[3]),
		InvocationID: optionalText(row[4]),
	}
	if len(row) > 5 {
		entry.CustomProperties = customProperties(row[5])
	}
	return entry, nil
}

// Metrics parses (timestamp, total, successful, failed, avgDuration, uniqueOperations) rows.
func (p *Parser) Metrics(rows []Row) []models.MetricsSample {
	samples := make([]models.MetricsSample, 0, len(rows))
	for i, row := range rows {
		sample, err := p.metricsSample(row)
		if err != nil {
			p.skip("metrics", i, err)
			continue
		}
		samples = append(samples, sample)
	}
	return samples
}

func (p *Parser) metricsSample(row Row) (models.MetricsSample, error) {
	if err := requireColumns(row, 6); err != nil {
		return models.MetricsSample{}, err
	}
	var s models.MetricsSample
	var err error
	if s.Timestamp, err = p.timestamp(row[0]); err != nil {
		return s, err
	}
	cols := &columns{row: row}
	s.TotalRequests = cols.int(1)
	s.SuccessfulRequests = cols.int(2)
	s.FailedRequests = cols.int(3)
	s.AvgDurationMs = cols.float(4)
	s.UniqueFunctions = cols.int(5)
	return s, cols.err
}

// ErrorAnalysis parses (operation_Name, type, message, ErrorCount) rows into
// an aggregate whose TotalErrors is the sum over parsed rows only.
func (p *Parser) ErrorAnalysis(rows []Row, appName string, hoursBack int) models.ErrorAnalysis {
	analysis := models.EmptyErrorAnalysis(appName, hoursBack)
	for i, row := range rows {
		group, err := errorGroup(row)
		if err != nil {
			p.skip("error_analysis", i, err)
			continue
		}
		analysis.Errors = append(analysis.Errors, group)
		analysis.TotalErrors += group.Count
	}
	analysis.UniqueErrorTypes = len(analysis.Errors)
	return analysis
}

func errorGroup(row Row) (models.ErrorGroup, error) {
	if err := requireColumns(row, 4); err != nil {
		return models.ErrorGroup{}, err
	}
	cols := &columns{row: row}
	g := models.ErrorGroup{
		FunctionName:     text(row[0], "Unknown"),
		ExceptionType:    text(row[1], "Unknown"),
		ExceptionMessage: text(row[2], "Unknown"),
		Count:            cols.int(3),
	}
	return g, cols.err
}

// FunctionPerformance parses (operation_Name, count, avg, min, max, p95, successRate) rows.
func (p *Parser) FunctionPerformance(rows []Row) []models.FunctionPerformance {
	records := make([]models.FunctionPerformance, 0, len(rows))
	for i, row := range rows {
		if err := requireColumns(row, 7); err != nil {
			p.skip("function_performance", i, err)
			continue
		}
		cols := &columns{row: row}
		rec := models.FunctionPerformance{
			FunctionName:    text(row[0], "Unknown"),
			InvocationCount: cols.int(1),
			AvgDurationMs:   cols.float(2),
			MinDurationMs:   cols.float(3),
			MaxDurationMs:   cols.float(4),
			P95DurationMs:   cols.float(5),
			SuccessRate:     cols.float(6),
		}
		if cols.err != nil {
			p.skip("function_performance", i, cols.err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Timeline parses (timestamp, requests, errors, traces) rows.
func (p *Parser) Timeline(rows []Row) []models.TimelinePoint {
	points := make([]models.TimelinePoint, 0, len(rows))
	for i, row := range rows {
		point, err := p.timelinePoint(row)
		if err != nil {
			p.skip("timeline", i, err)
			continue
		}
		points = append(points, point)
	}
	return points
}

func (p *Parser) timelinePoint(row Row) (models.TimelinePoint, error) {
	if err := requireColumns(row, 4); err != nil {
		return models.TimelinePoint{}, err
	}
	var pt models.TimelinePoint
	var err error
	if pt.Timestamp, err = p.timestamp(row[0]); err != nil {
		return pt, err
	}
	cols := &columns{row: row}
	pt.Requests = cols.int(1)
	pt.Errors = cols.int(2)
	pt.Traces = cols.int(3)
	return pt, cols.err
}

func requireColumns(row Row, n int) error {
	if len(row) < n {
		return fmt.Errorf("row has %d columns, want at least %d", len(row), n)
	}
	return nil
}

// columns reads numeric cells, keeping the first conversion error.
type columns struct {
	row Row
	err error
}

func (c *columns) int(i int) int64 {
	if c.err != nil {
		return 0
	}
	v, err := toInt64(c.row[i])
	if err != nil {
		c.err = fmt.Errorf("column %d: %w", i, err)
	}
	return v
}

func (c *columns) float(i int) float64 {
	if c.err != nil {
		return 0
	}
	v, err := toFloat64(c.row[i])
	if err != nil {
		c.err = fmt.Errorf("column %d: %w", i, err)
	}
	return v
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// toInt64 treats absent values as 0 and rejects non-numeric ones. Strings are
// read as base-10 decimals; a fractional value is truncated.
func toInt64(v any) (int64, error) {
	if isBlank(v) {
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := parseDecimal(s)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	}
	return cast.ToInt64E(v)
}

func toFloat64(v any) (float64, error) {
	if isBlank(v) {
		return 0, nil
	}
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s == "" {
			return 0, nil
		}
		return parseDecimal(s)
	}
	return cast.ToFloat64E(v)
}

// parseDecimal accepts finite base-10 numbers only.
func parseDecimal(s string) (float64, error) {
	if strings.ContainsAny(s, "xXpP_") {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	return f, nil
}

func severity(v any) (models.SeverityLevel, error) {
	if v == nil {
		return models.SeverityUnknown, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("severity: empty value")
	}
	code, err := toInt64(v)
	if err != nil {
		return "", fmt.Errorf("severity: %w", err)
	}
	return models.SeverityFromCode(code), nil
}

func text(v any, fallback string) string {
	if isBlank(v) {
		return fallback
	}
	return cast.ToString(v)
}

func optionalText(v any) *string {
	if v == nil {
		return nil
	}
	s := cast.ToString(v)
	return &s
}

// customProperties decodes customDimensions. Strings that are not a JSON
// object are kept verbatim under "raw".
func customProperties(v any) map[string]any {
	if isBlank(v) {
		return nil
	}
	switch props := v.(type) {
	case map[string]any:
		if len(props) == 0 {
			return nil
		}
		return props
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(props), &decoded); err != nil || decoded == nil {
			return map[string]any{"raw": props}
		}
		return decoded
	}
	return map[string]any{"raw": fmt.Sprint(v)}
}
