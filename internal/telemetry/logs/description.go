package logs

const GetLogsDescription = `
Retrieve trace logs written by an Azure Function App (or any Application Insights cloud role) over a trailing time window.

Parameters:
- app_name: (Required) Function app name. Matched by containment against cloud_RoleName.
- hours_back: (Optional) Hours to look back from now. Range 1-8760. Default: 1.
- level: (Optional) Exact severity to return: Error, Warning, Information or Verbose (case-insensitive). Default: Information.
- function_name: (Optional) Keep only entries whose operation name or message contains this value.
- limit: (Optional) Maximum number of entries. Range 1-10000. Default: 100.
- include_noise: (Optional) Keep "Host lock lease" and "WorkerStatusRequest completed" host messages. Default: false.

Returns JSON with app_name, hours_back, count and logs. Each log has timestamp, level, message,
function_name (operation_Name), invocation_id (operation_Id) and custom_properties (customDimensions).
Entries are sorted newest first. The result meta carries a reference_url opening the same query in the Azure portal.
`

const GetErrorLogsDescription = `
Retrieve only Error-level trace logs for a Function App. Use this first when investigating failures.

Parameters:
- app_name: (Required) Function app name.
- hours_back: (Optional) Hours to look back. Range 1-8760. Default: 24.
- limit: (Optional) Maximum number of entries. Range 1-10000. Default: 50.

Returns the same shape as get_logs.
`

const SearchLogsDescription = `
Search trace logs for messages containing a piece of text, at any severity.

Parameters:
- app_name: (Required) Function app name.
- search_term: (Required) Text that must appear in the message. Matching is case-insensitive.
- hours_back: (Optional) Hours to look back. Range 1-8760. Default: 24.
- limit: (Optional) Maximum number of entries. Range 1-10000. Default: 100.

Host noise messages are not filtered out for searches. Returns the same shape as get_logs.
`

const GetFunctionLogsDescription = `
Retrieve Information-level trace logs for one function inside a Function App.
Entries match when the operation name or the message contains function_name.

Parameters:
- app_name: (Required) Function app name.
- function_name: (Required) Function name, as returned by list_functions.
- hours_back: (Optional) Hours to look back. Range 1-8760. Default: 24.
- limit: (Optional) Maximum number of entries. Range 1-10000. Default: 100.

Returns the same shape as get_logs.
`
