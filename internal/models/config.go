package models

// Config holds the server configuration parameters
type Config struct {
	// Target deployment
	Environment Environment // dev, qa, staging or prod

	// Run mode: stdio, http, chat or report
	Mode string

	// HTTP transport settings
	Host string
	Port string

	// Rate limiting configuration
	RequestRateLimit float64 // Maximum tool calls per second
	RequestRateBurst int     // Maximum burst capacity for tool calls

	// Logging
	LogLevel string
	LogFile  string // optional file receiving error-level entries
	Debug    bool   // log every outgoing Azure request

	// Chat agent settings
	OpenAIKey        string
	OpenAIBaseURL    string
	Model            string
	SummaryModel     string
	MaxHistoryTokens int
	HistoryDB        string // SQLite path; empty keeps history in memory
	ThreadID         string

	// Report mode settings
	ReportApp    string
	ReportHours  int
	ExportDir    string
	ExportFormat string
}
