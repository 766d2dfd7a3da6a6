package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"appinsights-mcp/internal/azure"
	"appinsights-mcp/internal/deeplink"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/parser"
	"appinsights-mcp/internal/testutil"
	"appinsights-mcp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(fake *testutil.FakeLogs) *Service {
	return NewService(testutil.NewClientManager(fake, nil), parser.New(nil), nil)
}

func TestService_NonSuccessIsEmpty(t *testing.T) {
	fake := &testutil.FakeLogs{Result: azure.QueryResult{Status: azure.QueryFailure}}
	svc := newTestService(fake)
	ctx := context.Background()

	samples, err := svc.GetMetrics(ctx, "app", 24, 1)
	require.NoError(t, err)
	assert.NotNil(t, samples)
	assert.Empty(t, samples)

	analysis, err := svc.AnalyzeErrors(ctx, "app", 24, 20)
	require.NoError(t, err)
	assert.Empty(t, analysis.Errors)
	assert.Zero(t, analysis.TotalErrors)
	assert.Equal(t, "app", analysis.AppName)

	perf, err := svc.GetFunctionPerformance(ctx, "app", 24, "")
	require.NoError(t, err)
	assert.Empty(t, perf)

	timeline, err := svc.GetTimeline(ctx, "app", 24, 15)
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestService_ErrorsAreQueryErrors(t *testing.T) {
	svc := newTestService(&testutil.FakeLogs{Err: errors.New("forbidden")})
	ctx := context.Background()

	_, err := svc.GetMetrics(ctx, "app", 24, 1)
	assert.ErrorIs(t, err, models.ErrQuery)
	_, err = svc.AnalyzeErrors(ctx, "app", 24, 20)
	assert.ErrorIs(t, err, models.ErrQuery)
	_, err = svc.GetFunctionPerformance(ctx, "app", 24, "")
	assert.ErrorIs(t, err, models.ErrQuery)
	_, err = svc.GetTimeline(ctx, "app", 24, 15)
	assert.ErrorIs(t, err, models.ErrQuery)
}

func TestService_AnalyzeErrors(t *testing.T) {
	fake := (&testutil.FakeLogs{}).SuccessRows(
		[]any{"ProcessOrder", "System.TimeoutException", "timed out", float64(9)},
		[]any{"Sync", "trace", "retry exhausted", float64(3)},
	)
	svc := newTestService(fake)

	analysis, err := svc.AnalyzeErrors(context.Background(), "orders", 12, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 12, analysis.TotalErrors)
	assert.Equal(t, 2, analysis.UniqueErrorTypes)
	assert.Equal(t, 12, analysis.TimeRangeHours)
	assert.Contains(t, fake.LastQuery(), "| limit 5")
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.MetricsSample{
		{TotalRequests: 10, SuccessfulRequests: 9, FailedRequests: 1, AvgDurationMs: 100},
		{TotalRequests: 30, SuccessfulRequests: 30, AvgDurationMs: 20},
	})
	assert.EqualValues(t, 40, s.TotalRequests)
	assert.InDelta(t, 97.5, s.SuccessRate, 0.001)
	assert.InDelta(t, 40.0, s.AvgDurationMs, 0.001)

	idle := Summarize([]models.MetricsSample{
		{TotalRequests: 5, SuccessfulRequests: 5, AvgDurationMs: 80},
		{},
	})
	assert.InDelta(t, 80.0, idle.AvgDurationMs, 0.001)

	assert.Zero(t, Summarize(nil).SuccessRate)
}

func TestGetMetricsHandler(t *testing.T) {
	fake := (&testutil.FakeLogs{}).SuccessRows(
		[]any{"2025-06-01T10:00:00Z", float64(4), float64(3), float64(1), 12.0, float64(2)},
	)
	handler := NewGetMetricsHandler(newTestService(fake), deeplink.NewBuilder(testutil.MockEnvironmentConfig()))

	result, _, err := handler(context.Background(), nil, GetMetricsArgs{AppName: "app", GranularityHours: 6})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(utils.GetTextContent(t, result)), &body))
	assert.EqualValues(t, 24, body["hours_back"])
	assert.EqualValues(t, 6, body["granularity_hours"])
	assert.Len(t, body["metrics"], 1)
	assert.Contains(t, fake.LastQuery(), "bin(timestamp, 6h)")

	_, _, err = handler(context.Background(), nil, GetMetricsArgs{AppName: "app", GranularityHours: 48})
	assert.Error(t, err)
}

func TestGetTimelineHandler_Validation(t *testing.T) {
	fake := (&testutil.FakeLogs{}).SuccessRows()
	handler := NewGetTimelineHandler(newTestService(fake), deeplink.NewBuilder(testutil.MockEnvironmentConfig()))

	_, _, err := handler(context.Background(), nil, GetTimelineArgs{AppName: "app", GranularityMinutes: 2000})
	require.Error(t, err)
	assert.Empty(t, fake.Calls)

	_, _, err = handler(context.Background(), nil, GetTimelineArgs{AppName: "app"})
	require.NoError(t, err)
	assert.Contains(t, fake.LastQuery(), "bin(timestamp, 15m)")
}

func TestAnalyzeErrorsHandler(t *testing.T) {
	fake := (&testutil.FakeLogs{}).SuccessRows([]any{"f", "t", "m", float64(2)})
	handler := NewAnalyzeErrorsHandler(newTestService(fake), deeplink.NewBuilder(testutil.MockEnvironmentConfig()))

	result, _, err := handler(context.Background(), nil, AnalyzeErrorsArgs{AppName: "app"})
	require.NoError(t, err)

	var analysis models.ErrorAnalysis
	require.NoError(t, json.Unmarshal([]byte(utils.GetTextContent(t, result)), &analysis))
	assert.EqualValues(t, 2, analysis.TotalErrors)
	assert.Contains(t, fake.LastQuery(), "| limit 20")
	assert.Contains(t, result.Meta["blade_url"], "/providers/Microsoft.Insights/components/ai-test/failures")
}

func TestGetFunctionPerformanceHandler(t *testing.T) {
	fake := (&testutil.FakeLogs{}).SuccessRows([]any{"Timer", float64(5), 1.0, 1.0, 1.0, 1.0, 100.0})
	handler := NewGetFunctionPerformanceHandler(newTestService(fake), deeplink.NewBuilder(testutil.MockEnvironmentConfig()))

	_, _, err := handler(context.Background(), nil, GetFunctionPerformanceArgs{AppName: "app", FunctionName: "Timer"})
	require.NoError(t, err)
	assert.Contains(t, fake.LastQuery(), "| where operation_Name contains 'Timer'")
}
