package metrics

const GetMetricsDescription = `
Get request metrics for a Function App, bucketed over time.

Parameters:
- app_name: (Required) Function app name. Matched by containment against cloud_RoleName.
- hours_back: (Optional) Hours to look back. Range 1-8760. Default: 24.
- granularity_hours: (Optional) Bucket width in hours. Range 1-24. Default: 1.

Returns JSON with a summary (totals, success rate, request-weighted average duration) and a metrics array.
Each bucket has timestamp, total_invocations, successful_invocations, failed_invocations,
avg_duration_ms and unique_functions. Buckets are newest first.
`

const AnalyzeErrorsDescription = `
Group the errors of a Function App by function, exception type and message, most frequent first.
Error-level traces are included with exception type "trace".

Parameters:
- app_name: (Required) Function app name.
- hours_back: (Optional) Hours to look back. Range 1-8760. Default: 24.
- limit: (Optional) Maximum number of groups. Range 1-10000. Default: 20.

Returns errors (function_name, exception_type, exception_message, count), total_errors,
unique_error_types, time_range_hours and function_app_name. total_errors is the sum of the group counts.
`

const GetFunctionPerformanceDescription = `
Per-function performance statistics from the requests table, busiest function first.

Parameters:
- app_name: (Required) Function app name.
- hours_back: (Optional) Hours to look back. Range 1-8760. Default: 24.
- function_name: (Optional) Only operations whose name contains this value.

Each record has function_name, invocation_count, avg/min/max/p95 duration in milliseconds
and success_rate as a percentage rounded to two decimals.
`

const GetTimelineDescription = `
Activity timeline for a Function App: requests, errors and traces per time bucket.
Errors count Error-level traces and exceptions.

Parameters:
- app_name: (Required) Function app name.
- hours_back: (Optional) Hours to look back. Range 1-8760. Default: 24.
- granularity_minutes: (Optional) Bucket width in minutes. Range 1-1440. Default: 15.

Buckets are newest first. Useful for spotting when an incident started.
`
