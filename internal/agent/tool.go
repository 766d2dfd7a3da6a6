package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool is a function the model may call. Call receives the raw JSON
// arguments produced by the model and returns text for the tool message.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Definition
	Call        func(ctx context.Context, arguments string) (string, error)
}

func (t Tool) definition() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		},
	}
}

// NewTool exposes an MCP tool handler to the agent. The parameter schema is
// generated from In; property descriptions come from its jsonschema tags.
func NewTool[In any](name, description string, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error)) (Tool, error) {
	var zero In
	schema, err := jsonschema.GenerateSchemaForType(zero)
	if err != nil {
		return Tool{}, fmt.Errorf("failed to generate schema for %s: %w", name, err)
	}
	describeProperties(schema, reflect.TypeOf(zero))

	return Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
		Call: func(ctx context.Context, arguments string) (string, error) {
			var args In
			if strings.TrimSpace(arguments) != "" {
				if err := json.Unmarshal([]byte(arguments), &args); err != nil {
					return "", fmt.Errorf("invalid arguments for %s: %w", name, err)
				}
			}
			result, _, err := handler(ctx, &mcp.CallToolRequest{}, args)
			if err != nil {
				return "", err
			}
			text := resultText(result)
			if result != nil && result.IsError {
				return "", fmt.Errorf("%s", text)
			}
			return text, nil
		},
	}, nil
}

func describeProperties(schema *jsonschema.Definition, t reflect.Type) {
	if t == nil || t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		desc := f.Tag.Get("jsonschema")
		if desc == "" {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		if prop, ok := schema.Properties[name]; ok {
			prop.Description = desc
			schema.Properties[name] = prop
		}
	}
}

func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
