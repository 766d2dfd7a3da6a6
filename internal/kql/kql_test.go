package kql

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(q string) string {
	lines := strings.Split(q, "\n")
	return lines[len(lines)-1]
}

func TestLogs_ErrorLevelScenario(t *testing.T) {
	q := Logs("foo", 3, "Error", "", 100, true)

	assert.Contains(t, q, "severityLevel == 3")
	assert.Contains(t, q, "cloud_RoleName contains 'foo'")
	assert.Contains(t, q, "ago(3h)")
	assert.True(t, strings.HasPrefix(q, "traces\n"))
}

func TestLogs_Deterministic(t *testing.T) {
	first := Logs("orders-api", 12, "Warning", "ProcessOrder", 250, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Logs("orders-api", 12, "Warning", "ProcessOrder", 250, true))
	}

	assert.Equal(t, Metrics("a", 24, 1), Metrics("a", 24, 1))
	assert.Equal(t, ErrorAnalysis("a", 24, 20), ErrorAnalysis("a", 24, 20))
	assert.Equal(t, FunctionPerformance("a", 24, "f"), FunctionPerformance("a", 24, "f"))
	assert.Equal(t, Timeline("a", 24, 15), Timeline("a", 24, 15))
}

func TestLogs_Limit(t *testing.T) {
	for _, n := range []int{1, 50, 100, 10000} {
		q := Logs("app", 1, "", "", n, false)
		assert.Contains(t, strings.Split(q, "\n"), "| limit "+strconv.Itoa(n))
	}
}

func TestLogs_NoiseToggle(t *testing.T) {
	with := Logs("app", 1, "", "", 10, true)
	without := Logs("app", 1, "", "", 10, false)

	for _, clause := range NoiseClauses {
		assert.Contains(t, with, clause)
		assert.NotContains(t, without, clause)
	}
}

func TestLogs_SortIsFinalClause(t *testing.T) {
	cases := []string{
		Logs("app", 1, "", "", 10, false),
		Logs("app", 1, "Verbose", "fn", 10, true),
		Search("app", "timeout", 24, 100),
	}
	for _, q := range cases {
		assert.Equal(t, "| order by timestamp desc", lastLine(q))
		assert.Contains(t, q, logsProjection)
	}
}

func TestLogs_LevelMapping(t *testing.T) {
	tests := map[string]string{
		"Error":       "severityLevel == 3",
		"Warning":     "severityLevel == 2",
		"Information": "severityLevel == 1",
		"Verbose":     "severityLevel == 0",
		"Critical":    "severityLevel == Critical",
	}
	for level, want := range tests {
		assert.Contains(t, Logs("app", 1, level, "", 10, true), want, level)
	}

	assert.NotContains(t, Logs("app", 1, "", "", 10, true), "severityLevel")
}

func TestLogs_FunctionFilterMatchesNameOrMessage(t *testing.T) {
	q := Logs("app", 24, "", "HttpTrigger1", 100, true)
	assert.Contains(t, q, "| where operation_Name contains 'HttpTrigger1' or message contains 'HttpTrigger1'")
}

func TestSearch_NoLevelNoNoise(t *testing.T) {
	q := Search("app", "timeout", 24, 100)
	assert.Contains(t, q, "| where message contains 'timeout'")
	assert.NotContains(t, q, "severityLevel")
	for _, clause := range NoiseClauses {
		assert.NotContains(t, q, clause)
	}
}

func TestMetrics_Shape(t *testing.T) {
	q := Metrics("app", 48, 6)
	require.True(t, strings.HasPrefix(q, "requests\n"))
	assert.Contains(t, q, "ago(48h)")
	assert.Contains(t, q, "TotalRequests = count()")
	assert.Contains(t, q, "SuccessfulRequests = countif(success == true)")
	assert.Contains(t, q, "FailedRequests = countif(success == false)")
	assert.Contains(t, q, "AvgDuration = avg(duration)")
	assert.Contains(t, q, "UniqueOperations = dcount(operation_Name)")
	assert.Contains(t, q, "by bin(timestamp, 6h)")
	assert.Equal(t, "| order by timestamp desc", lastLine(q))
}

func TestErrorAnalysis_Shape(t *testing.T) {
	q := ErrorAnalysis("app", 24, 20)
	require.True(t, strings.HasPrefix(q, "union traces, exceptions\n"))
	assert.Contains(t, q, `| where severityLevel >= 3 or itemType == "exception"`)
	assert.Contains(t, q, `type = iff(itemType == "exception", type, "trace")`)
	assert.Contains(t, q, `message = iff(itemType == "exception", outerMessage, message)`)
	assert.Less(t, strings.Index(q, "| order by ErrorCount desc"), strings.Index(q, "| limit 20"))
	assert.Equal(t, "| limit 20", lastLine(q))
}

func TestFunctionPerformance_OptionalFilterBeforeSummarize(t *testing.T) {
	q := FunctionPerformance("app", 24, "Timer")
	filter := strings.Index(q, "| where operation_Name contains 'Timer'")
	require.GreaterOrEqual(t, filter, 0)
	assert.Less(t, filter, strings.Index(q, "| summarize"))
	assert.Contains(t, q, "P95Duration = percentile(duration, 95)")
	assert.Contains(t, q, "SuccessRate = round(100.0 * countif(success == true) / count(), 2)")
	assert.Equal(t, "| order by InvocationCount desc", lastLine(q))

	assert.NotContains(t, FunctionPerformance("app", 24, ""), "operation_Name contains")
}

func TestTimeline_Shape(t *testing.T) {
	q := Timeline("app", 24, 15)
	require.True(t, strings.HasPrefix(q, "union requests, traces, exceptions\n"))
	assert.Contains(t, q, `Requests = countif(itemType == "request")`)
	assert.Contains(t, q, `Errors = countif(severityLevel >= 3 or itemType == "exception")`)
	assert.Contains(t, q, `Traces = countif(itemType == "trace")`)
	assert.Contains(t, q, "by bin(timestamp, 15m)")
	assert.Equal(t, "| order by timestamp desc", lastLine(q))
}

func TestQuote_EscapesInjection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"x' | take 1 //", `'x\' | take 1 //'`},
		{"line\nbreak", `'line\nbreak'`},
		{"bell\x07", "'bell'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in))
	}
}

func TestLogs_InjectedSubjectStaysInsideLiteral(t *testing.T) {
	q := Logs("app' or 1==1 or cloud_RoleName contains '", 1, "", "", 10, false)
	assert.Contains(t, q, `cloud_RoleName contains 'app\' or 1==1 or cloud_RoleName contains \''`)
}
