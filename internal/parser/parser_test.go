package parser

import (
	"testing"
	"time"

	"appinsights-mcp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newObservedParser() (*Parser, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core), WithClock(func() time.Time { return fixedNow })), logs
}

func TestLogs_SeverityMappingIsTotal(t *testing.T) {
	p, logs := newObservedParser()
	rows := []Row{
		{"2025-06-01T10:00:00Z", float64(0), "v", "fn", "id"},
		{"2025-06-01T10:00:00Z", float64(1), "i", "fn", "id"},
		{"2025-06-01T10:00:00Z", float64(2), "w", "fn", "id"},
		{"2025-06-01T10:00:00Z", float64(3), "e", "fn", "id"},
		{"2025-06-01T10:00:00Z", float64(4), "x", "fn", "id"},
		{"2025-06-01T10:00:00Z", float64(-7), "x", "fn", "id"},
		{"2025-06-01T10:00:00Z", nil, "x", "fn", "id"},
	}

	entries := p.Logs(rows)
	require.Len(t, entries, len(rows))
	want := []models.SeverityLevel{
		models.SeverityVerbose,
		models.SeverityInformation,
		models.SeverityWarning,
		models.SeverityError,
		models.SeverityUnknown,
		models.SeverityUnknown,
		models.SeverityUnknown,
	}
	for i, entry := range entries {
		assert.Equal(t, want[i], entry.Level, "row %d", i)
	}
	assert.Zero(t, logs.Len())
}

func TestLogs_FieldMapping(t *testing.T) {
	p, _ := newObservedParser()
	entries := p.Logs([]Row{
		{"2025-06-01T10:15:30.5Z", "2", "disk low", "CleanupTimer", "op-1", `{"InvocationId":"abc"}`},
		{nil, float64(1), nil, nil, nil},
		{"2025-06-01T10:15:30Z", float64(1), "m", "f", "o", "not json"},
		{"2025-06-01T10:15:30Z", float64(1), "m", "f", "o", map[string]any{"k": "v"}},
	})
	require.Len(t, entries, 4)

	first := entries[0]
	assert.Equal(t, time.Date(2025, 6, 1, 10, 15, 30, 500_000_000, time.UTC), first.Timestamp)
	assert.Equal(t, models.SeverityWarning, first.Level)
	assert.Equal(t, "disk low", first.Message)
	require.NotNil(t, first.FunctionName)
	assert.Equal(t, "CleanupTimer", *first.FunctionName)
	require.NotNil(t, first.InvocationID)
	assert.Equal(t, "op-1", *first.InvocationID)
	assert.Equal(t, map[string]any{"InvocationId": "abc"}, first.CustomProperties)
	assert.Nil(t, first.ExceptionType)
	assert.Nil(t, first.ExceptionMessage)

	second := entries[1]
	assert.Equal(t, fixedNow, second.Timestamp)
	assert.Equal(t, "", second.Message)
	assert.Nil(t, second.FunctionName)
	assert.Nil(t, second.InvocationID)
	assert.Nil(t, second.CustomProperties)

	assert.Equal(t, map[string]any{"raw": "not json"}, entries[2].CustomProperties)
	assert.Equal(t, map[string]any{"k": "v"}, entries[3].CustomProperties)
}

func TestLogs_RowSkipTolerance(t *testing.T) {
	tests := []struct {
		name string
		bad  Row
	}{
		{"missing column", Row{"2025-06-01T10:00:00Z", float64(1), "m"}},
		{"non-numeric severity", Row{"2025-06-01T10:00:00Z", "high", "m", "f", "o"}},
		{"bad timestamp", Row{"yesterday", float64(1), "m", "f", "o"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, logs := newObservedParser()
			rows := []Row{
				{"2025-06-01T10:00:00Z", float64(1), "a", "f", "o"},
				tt.bad,
				{"2025-06-01T11:00:00Z", float64(3), "c", "f", "o"},
			}

			entries := p.Logs(rows)
			require.Len(t, entries, 2)
			assert.Equal(t, "a", entries[0].Message)
			assert.Equal(t, "c", entries[1].Message)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, zapcore.WarnLevel, entry.Level)
			assert.Equal(t, "logs", entry.ContextMap()["shape"])
			assert.EqualValues(t, 1, entry.ContextMap()["row"])
		})
	}
}

func TestMetrics_DefaultsAndSkips(t *testing.T) {
	p, logs := newObservedParser()
	samples := p.Metrics([]Row{
		{"2025-06-01T10:00:00Z", float64(120), float64(118), float64(2), 35.5, float64(4)},
		{"2025-06-01T09:00:00Z", nil, nil, nil, nil, nil},
		{"2025-06-01T08:00:00Z", "lots", float64(1), float64(0), 1.0, float64(1)},
		{"2025-06-01T07:00:00Z", float64(1)},
	})

	require.Len(t, samples, 2)
	assert.Equal(t, models.MetricsSample{
		Timestamp:          time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		TotalRequests:      120,
		SuccessfulRequests: 118,
		FailedRequests:     2,
		AvgDurationMs:      35.5,
		UniqueFunctions:    4,
	}, samples[0])
	assert.Zero(t, samples[1].TotalRequests)
	assert.Zero(t, samples[1].AvgDurationMs)
	assert.Equal(t, 2, logs.Len())
}

func TestErrorAnalysis_SummationInvariant(t *testing.T) {
	p, logs := newObservedParser()
	analysis := p.ErrorAnalysis([]Row{
		{"ProcessOrder", "System.TimeoutException", "timed out", float64(7)},
		{nil, nil, nil, nil},
		{"Sync", "trace", "retrying", "three"},
		{"Sync", "trace", "failed", float64(5)},
		{"short"},
	}, "orders-api", 24)

	require.Len(t, analysis.Errors, 3)
	var sum int64
	for _, g := range analysis.Errors {
		sum += g.Count
	}
	assert.Equal(t, sum, analysis.TotalErrors)
	assert.EqualValues(t, 12, analysis.TotalErrors)
	assert.Equal(t, len(analysis.Errors), analysis.UniqueErrorTypes)
	assert.Equal(t, "orders-api", analysis.AppName)
	assert.Equal(t, 24, analysis.TimeRangeHours)

	assert.Equal(t, models.ErrorGroup{
		FunctionName:     "Unknown",
		ExceptionType:    "Unknown",
		ExceptionMessage: "Unknown",
		Count:            0,
	}, analysis.Errors[1])
	assert.Equal(t, 2, logs.Len())
}

func TestErrorAnalysis_Empty(t *testing.T) {
	p, _ := newObservedParser()
	analysis := p.ErrorAnalysis(nil, "app", 6)
	assert.NotNil(t, analysis.Errors)
	assert.Empty(t, analysis.Errors)
	assert.Zero(t, analysis.TotalErrors)
	assert.Zero(t, analysis.UniqueErrorTypes)
}

func TestFunctionPerformance(t *testing.T) {
	p, logs := newObservedParser()
	records := p.FunctionPerformance([]Row{
		{"HttpTrigger", float64(40), 12.5, 3.0, 80.0, 60.0, 97.5},
		{nil, nil, nil, nil, nil, nil, nil},
		{"Broken", float64(1), "slow", 1.0, 1.0, 1.0, 100.0},
	})

	require.Len(t, records, 2)
	assert.Equal(t, models.FunctionPerformance{
		FunctionName:    "HttpTrigger",
		InvocationCount: 40,
		AvgDurationMs:   12.5,
		MinDurationMs:   3,
		MaxDurationMs:   80,
		P95DurationMs:   60,
		SuccessRate:     97.5,
	}, records[0])
	assert.Equal(t, "Unknown", records[1].FunctionName)
	assert.Equal(t, 1, logs.Len())
}

func TestTimeline(t *testing.T) {
	p, logs := newObservedParser()
	points := p.Timeline([]Row{
		{"2025-06-01T10:15:00Z", float64(10), float64(1), float64(30)},
		{"", nil, nil, nil},
		{"2025-06-01T10:00:00Z", float64(10), "x", float64(30)},
	})

	require.Len(t, points, 2)
	assert.EqualValues(t, 10, points[0].Requests)
	assert.EqualValues(t, 1, points[0].Errors)
	assert.EqualValues(t, 30, points[0].Traces)
	assert.Equal(t, fixedNow, points[1].Timestamp)
	assert.Equal(t, 1, logs.Len())
}

func TestNew_NilLogger(t *testing.T) {
	p := New(nil)
	assert.Empty(t, p.Metrics([]Row{{"bad"}}))
}

func TestMetrics_NumericStringsAreDecimal(t *testing.T) {
	p, logs := newObservedParser()
	samples := p.Metrics([]Row{
		{"2025-06-01T10:00:00Z", "010", "08", " 2 ", "12.5", "3.0"},
		{"2025-06-01T09:00:00Z", "0x10", float64(1), float64(0), 1.0, float64(1)},
		{"2025-06-01T08:00:00Z", float64(1), float64(1), float64(0), "NaN", float64(1)},
		{"2025-06-01T07:00:00Z", "1_000", float64(1), float64(0), 1.0, float64(1)},
		{"2025-06-01T06:00:00Z", "  ", float64(1), float64(0), " ", float64(1)},
	})

	require.Len(t, samples, 2)
	assert.EqualValues(t, 10, samples[0].TotalRequests)
	assert.EqualValues(t, 8, samples[0].SuccessfulRequests)
	assert.EqualValues(t, 2, samples[0].FailedRequests)
	assert.Equal(t, 12.5, samples[0].AvgDurationMs)
	assert.EqualValues(t, 3, samples[0].UniqueFunctions)
	assert.Zero(t, samples[1].TotalRequests)
	assert.Zero(t, samples[1].AvgDurationMs)
	assert.Equal(t, 3, logs.Len())
}

func TestErrorAnalysis_HexCountIsSkipped(t *testing.T) {
	p, logs := newObservedParser()
	analysis := p.ErrorAnalysis([]Row{
		{"ProcessOrder", "System.TimeoutException", "timed out", "0x10"},
		{"Sync", "trace", "failed", "010"},
	}, "orders-api", 24)

	require.Len(t, analysis.Errors, 1)
	assert.EqualValues(t, 10, analysis.Errors[0].Count)
	assert.EqualValues(t, 10, analysis.TotalErrors)
	assert.Equal(t, 1, logs.Len())
}

func TestLogs_PaddedSeverity(t *testing.T) {
	p, logs := newObservedParser()
	entries := p.Logs([]Row{
		{"2025-06-01T10:00:00Z", " 3", "e", "fn", "id"},
		{"2025-06-01T10:00:00Z", "02", "w", "fn", "id"},
		{"2025-06-01T10:00:00Z", "   ", "x", "fn", "id"},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, models.SeverityError, entries[0].Level)
	assert.Equal(t, models.SeverityWarning, entries[1].Level)
	assert.Equal(t, 1, logs.Len())
}
