package main

import (
	"context"
	"embed"
	"fmt"
	"strings"

	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed prompts/workflows/*.md
var workflowFS embed.FS

//go:embed prompts/references/*.md
var referenceFS embed.FS

// promptDef defines a prompt's metadata and which reference files it needs.
type promptDef struct {
	prompt   *mcp.Prompt
	workflow string            // filename under prompts/workflows/
	refs     []string          // filenames under prompts/references/
	argNames []string          // argument names used as $UPPER_SNAKE placeholders in workflow text
	defaults map[string]string // values used when an argument is omitted
}

var promptDefs = []promptDef{
	{
		prompt: &mcp.Prompt{
			Name:        "function-app-investigation",
			Title:       "Function App Investigation",
			Description: "Investigate an Azure Function App: failing invocations, exception spikes, slow functions, missing telemetry, or a general health check before or after a deployment.",
			Arguments: []*mcp.PromptArgument{
				{Name: "app_name", Description: "Function app (cloud role) name", Required: true},
				{Name: "hours_back", Description: "Hours to investigate (default: 24)", Required: false},
				{Name: "focus", Description: "What to concentrate on, e.g. errors, latency, a specific function", Required: false},
			},
		},
		workflow: "function-app-investigation.md",
		refs:     []string{"kql-tables.md", "report-template.md"},
		argNames: []string{"app_name", "hours_back", "focus"},
		defaults: map[string]string{"hours_back": "24", "focus": "overall health"},
	},
}

// registerAllPrompts registers all investigation prompts with the MCP server.
func registerAllPrompts(server *last9mcp.Last9MCPServer) {
	for _, def := range promptDefs {
		server.Server.AddPrompt(def.prompt, makePromptHandler(def))
	}
}

// makePromptHandler returns a PromptHandler closure for the given prompt definition.
// It reads embedded workflow and reference files and substitutes argument placeholders.
func makePromptHandler(def promptDef) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := make(map[string]string, len(def.defaults))
		for k, v := range def.defaults {
			args[k] = v
		}
		if req.Params != nil {
			for k, v := range req.Params.Arguments {
				if v != "" {
					args[k] = v
				}
			}
		}

		workflowContent, err := workflowFS.ReadFile("prompts/workflows/" + def.workflow)
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow %s: %w", def.workflow, err)
		}
		workflow := substituteArgs(string(workflowContent), args, def.argNames)

		var messages []*mcp.PromptMessage

		var refParts []string
		for _, refFile := range def.refs {
			content, err := referenceFS.ReadFile("prompts/references/" + refFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read reference %s: %w", refFile, err)
			}
			refParts = append(refParts, string(content))
		}
		if len(refParts) > 0 {
			messages = append(messages, &mcp.PromptMessage{
				Role: mcp.Role("assistant"),
				Content: &mcp.TextContent{
					Text: "# Reference Material\n\nThe following reference material is pre-loaded for this investigation. Use it as needed during the workflow.\n\n" +
						strings.Join(refParts, "\n\n---\n\n"),
				},
			})
		}

		// Workflow as user message
		messages = append(messages, &mcp.PromptMessage{
			Role:    mcp.Role("user"),
			Content: &mcp.TextContent{Text: workflow},
		})

		return &mcp.GetPromptResult{
			Description: def.prompt.Description,
			Messages:    messages,
		}, nil
	}
}

// substituteArgs replaces $UPPER_SNAKE placeholders in text with argument values.
// For example, "app_name" → replaces "$APP_NAME" with the provided value.
// If an argument is not provided, the placeholder is left as-is (the agent fills it in).
func substituteArgs(text string, args map[string]string, argNames []string) string {
	for _, name := range argNames {
		val, ok := args[name]
		if !ok || val == "" {
			continue
		}
		placeholder := "$" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
		text = strings.ReplaceAll(text, placeholder, val)
	}
	return text
}
