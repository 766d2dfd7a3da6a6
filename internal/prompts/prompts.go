package prompts

import _ "embed"

// AgentSystemPrompt primes the chat agent with the available tools and
// the conventions of Application Insights data.
//
//go:embed agent_system.md
var AgentSystemPrompt string
