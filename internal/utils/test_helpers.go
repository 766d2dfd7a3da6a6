package utils

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetTextContent extracts TextContent from a CallToolResult, failing the test if not possible.
// Returns the text content string for further processing.
func GetTextContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("expected content in result")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent type")
	}
	return textContent.Text
}
