// Package kql renders the Kusto queries run against Application Insights.
// Every function here is pure and deterministic for fixed arguments.
package kql

import (
	"fmt"
	"strings"

	"appinsights-mcp/internal/constants"
)

// Noise filters for host messages that carry no diagnostic value.
var NoiseClauses = []string{
	`| where message != "WorkerStatusRequest completed"`,
	`| where message !contains "Host lock lease acquired"`,
	`| where message !contains "Host lock lease renewed"`,
}

var (
	errorSources    = "union " + constants.TableTraces + ", " + constants.TableExceptions
	timelineSources = "union " + constants.TableRequests + ", " + constants.TableTraces + ", " + constants.TableExceptions
)

const logsProjection = "| project timestamp, severityLevel, message, operation_Name, operation_Id, customDimensions"

var levelCodes = map[string]string{
	"Error":       "3",
	"Warning":     "2",
	"Information": "1",
	"Verbose":     "0",
}

// LevelLiteral maps a level name to its severityLevel code. Unknown names
// are returned unchanged and end up in the query as a raw literal, so callers
// must validate levels before building a query.
func LevelLiteral(level string) string {
	if code, ok := levelCodes[level]; ok {
		return code
	}
	return level
}

// Quote renders s as a single-quoted string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

type query struct {
	lines []string
}

func newQuery(source, subject string, hoursBack int) *query {
	return &query{lines: []string{
		source,
		fmt.Sprintf("| where timestamp > ago(%dh)", hoursBack),
		"| where cloud_RoleName contains " + Quote(subject),
	}}
}

func (q *query) add(lines ...string) *query {
	q.lines = append(q.lines, lines...)
	return q
}

func (q *query) String() string {
	return strings.Join(q.lines, "\n")
}

// Logs renders the traces query. level and functionName are optional;
// the descending sort is always the final clause.
func Logs(subject string, hoursBack int, level, functionName string, limit int, excludeNoise bool) string {
	q := newQuery(constants.TableTraces, subject, hoursBack)
	if level != "" {
		q.add("| where severityLevel == " + LevelLiteral(level))
	}
	if functionName != "" {
		fn := Quote(functionName)
		q.add(fmt.Sprintf("| where operation_Name contains %s or message contains %s", fn, fn))
	}
	if excludeNoise {
		q.add(NoiseClauses...)
	}
	return q.add(
		fmt.Sprintf("| limit %d", limit),
		logsProjection,
		"| order by timestamp desc",
	).String()
}

// Search renders a traces query filtered by message text. It applies
// neither a level filter nor noise suppression.
func Search(subject, term string, hoursBack, limit int) string {
	return newQuery(constants.TableTraces, subject, hoursBack).add(
		"| where message contains "+Quote(term),
		fmt.Sprintf("| limit %d", limit),
		logsProjection,
		"| order by timestamp desc",
	).String()
}

// Metrics renders request aggregates per granularityHours bucket.
func Metrics(subject string, hoursBack, granularityHours int) string {
	return newQuery(constants.TableRequests, subject, hoursBack).add(
		"| summarize",
		"    TotalRequests = count(),",
		"    SuccessfulRequests = countif(success == true),",
		"    FailedRequests = countif(success == false),",
		"    AvgDuration = avg(duration),",
		"    UniqueOperations = dcount(operation_Name)",
		fmt.Sprintf("  by bin(timestamp, %dh)", granularityHours),
		"| order by timestamp desc",
	).String()
}

// ErrorAnalysis renders the top limit error groups across traces and exceptions.
func ErrorAnalysis(subject string, hoursBack, limit int) string {
	return newQuery(errorSources, subject, hoursBack).add(
		`| where severityLevel >= 3 or itemType == "exception"`,
		"| summarize ErrorCount = count() by",
		"    operation_Name,",
		`    type = iff(itemType == "exception", type, "trace"),`,
		`    message = iff(itemType == "exception", outerMessage, message)`,
		"| order by ErrorCount desc",
		fmt.Sprintf("| limit %d", limit),
	).String()
}

// FunctionPerformance renders per-operation duration and success statistics.
// functionName, when set, filters before aggregation.
func FunctionPerformance(subject string, hoursBack int, functionName string) string {
	q := newQuery(constants.TableRequests, subject, hoursBack)
	if functionName != "" {
		q.add("| where operation_Name contains " + Quote(functionName))
	}
	return q.add(
		"| summarize",
		"    InvocationCount = count(),",
		"    AvgDuration = avg(duration),",
		"    MinDuration = min(duration),",
		"    MaxDuration = max(duration),",
		"    P95Duration = percentile(duration, 95),",
		"    SuccessRate = round(100.0 * countif(success == true) / count(), 2)",
		"  by operation_Name",
		"| order by InvocationCount desc",
	).String()
}

// Timeline renders request, error and trace counts per granularityMinutes bucket.
func Timeline(subject string, hoursBack, granularityMinutes int) string {
	return newQuery(timelineSources, subject, hoursBack).add(
		"| summarize",
		`    Requests = countif(itemType == "request"),`,
		`    Errors = countif(severityLevel >= 3 or itemType == "exception"),`,
		`    Traces = countif(itemType == "trace")`,
		fmt.Sprintf("  by bin(timestamp, %dm)", granularityMinutes),
		"| order by timestamp desc",
	).String()
}
