package models

import "strings"

// Platform is the language stack a function app runs on.
type Platform string

const (
	PlatformPython     Platform = "python"
	PlatformNode       Platform = "node"
	PlatformDotNet     Platform = "dotnet"
	PlatformJava       Platform = "java"
	PlatformPowerShell Platform = "powershell"
	PlatformCustom     Platform = "custom"
	PlatformUnknown    Platform = "unknown"
)

// ParsePlatform normalizes worker runtime names and Linux stack prefixes.
func ParsePlatform(name string) Platform {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "python":
		return PlatformPython
	case "node", "nodejs", "node.js":
		return PlatformNode
	case "dotnet", "dotnet-isolated", "dotnetcore", "aspnet":
		return PlatformDotNet
	case "java":
		return PlatformJava
	case "powershell":
		return PlatformPowerShell
	case "custom", "docker":
		return PlatformCustom
	}
	return PlatformUnknown
}

// Runtime is the platform a function app runs plus that platform's version.
// Only the accessor matching Platform reports a version.
type Runtime struct {
	Platform Platform `json:"platform" yaml:"platform"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
}

func (r Runtime) versionFor(p Platform) (string, bool) {
	if r.Platform != p || r.Version == "" {
		return "", false
	}
	return r.Version, true
}

func (r Runtime) PythonVersion() (string, bool)     { return r.versionFor(PlatformPython) }
func (r Runtime) NodeVersion() (string, bool)       { return r.versionFor(PlatformNode) }
func (r Runtime) DotNetVersion() (string, bool)     { return r.versionFor(PlatformDotNet) }
func (r Runtime) JavaVersion() (string, bool)       { return r.versionFor(PlatformJava) }
func (r Runtime) PowerShellVersion() (string, bool) { return r.versionFor(PlatformPowerShell) }

func (r Runtime) String() string {
	if r.Version == "" {
		return string(r.Platform)
	}
	return string(r.Platform) + " " + r.Version
}

// FunctionAppInfo describes one function app and its settings.
type FunctionAppInfo struct {
	Name          string            `json:"name" yaml:"name"`
	ResourceGroup string            `json:"resource_group" yaml:"resource_group"`
	Location      string            `json:"location" yaml:"location"`
	Kind          string            `json:"kind" yaml:"kind"`
	State         string            `json:"state" yaml:"state"`
	HostName      string            `json:"host_name" yaml:"host_name"`
	Runtime       Runtime           `json:"runtime" yaml:"runtime"`
	AppSettings   map[string]string `json:"app_settings" yaml:"app_settings"`
}
