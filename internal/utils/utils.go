package utils

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FormatJSON formats JSON for display
func FormatJSON(data any) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// JSONResult wraps data as a single text content tool result, attaching meta when non-nil.
func JSONResult(data any, meta mcp.Meta) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: FormatJSON(data)},
		},
	}
	if meta != nil {
		result.Meta = meta
	}
	return result
}

// DefaultInt returns v, or def when v is zero.
func DefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
