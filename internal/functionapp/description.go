package functionapp

const ListFunctionAppsDescription = `
List the Function Apps deployed in the configured resource group.
Only sites whose kind contains "functionapp" are returned.

Takes no parameters. Returns resource_group, count and a sorted function_apps array.
Use the returned names as app_name for every other tool.
`

const ListFunctionsDescription = `
List the functions deployed inside one Function App.

Parameters:
- app_name: (Required) Function app name, as returned by list_function_apps.

Returns app_name, count and functions (bare function names, without the app prefix).
`

const GetFunctionAppInfoDescription = `
Describe a Function App: location, kind, state, default host name, runtime and app settings.

Parameters:
- app_name: (Required) Function app name.
- reveal_settings: (Optional) Return app setting values. By default only the setting names are shown and values are masked,
  since settings commonly hold connection strings and keys.

runtime is reported as {platform, version}; platform is one of python, node, dotnet, java, powershell, custom or unknown,
decided from FUNCTIONS_WORKER_RUNTIME or the Linux stack.
`

const FunctionAppExistsDescription = `
Check whether a Function App with exactly this name exists in the configured resource group.

Parameters:
- app_name: (Required) Function app name.

Returns app_name and exists (true/false).
`
