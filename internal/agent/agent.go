// Package agent answers questions by letting a chat model call the
// observability tools, keeping per-thread history within a token budget.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultModel            = openai.GPT4oMini
	DefaultSummaryModel     = openai.GPT3Dot5Turbo
	DefaultMaxHistoryTokens = 2000
	DefaultMaxSteps         = 10
	DefaultThreadID         = "default-thread"

	// keepAfterSummary is how many recent messages survive summarization.
	keepAfterSummary = 5

	FallbackReply = "🤔 I'm not sure how to help with that yet, but I'm learning every day. Could you rephrase or ask something else?"
	errorPrefix   = "⚠️ Oops, something went wrong: "
)

const summaryInstruction = "Write a concise summary of the following conversation between a user and an " +
	"Azure Function App observability assistant. Keep app names, function names, time ranges, " +
	"error types and any conclusions reached."

// ErrStepLimit is returned when the model keeps calling tools past MaxSteps.
var ErrStepLimit = errors.New("model did not produce an answer within the step limit")

// ChatModel is the subset of *openai.Client the agent needs.
type ChatModel interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures an Agent. Zero values select the defaults above.
type Options struct {
	Model            string
	SummaryModel     string
	SystemPrompt     string
	Tools            []Tool
	Counter          TokenCounter
	Checkpointer     Checkpointer
	ThreadID         string
	MaxHistoryTokens int
	MaxSteps         int
	Logger           *zap.Logger
}

// Agent runs one conversation thread. Calls to Chat must not overlap.
type Agent struct {
	client       ChatModel
	model        string
	summaryModel string
	systemPrompt string
	tools        map[string]Tool
	definitions  []openai.Tool
	counter      TokenCounter
	store        Checkpointer
	threadID     string
	maxTokens    int
	maxSteps     int
	logger       *zap.Logger
}

func New(client ChatModel, opts Options) *Agent {
	a := &Agent{
		client:       client,
		model:        opts.Model,
		summaryModel: opts.SummaryModel,
		systemPrompt: opts.SystemPrompt,
		tools:        make(map[string]Tool, len(opts.Tools)),
		counter:      opts.Counter,
		store:        opts.Checkpointer,
		threadID:     opts.ThreadID,
		maxTokens:    opts.MaxHistoryTokens,
		maxSteps:     opts.MaxSteps,
		logger:       opts.Logger,
	}
	if a.model == "" {
		a.model = DefaultModel
	}
	if a.summaryModel == "" {
		a.summaryModel = DefaultSummaryModel
	}
	if a.counter == nil {
		a.counter = CharEstimator{}
	}
	if a.store == nil {
		a.store = NewMemoryCheckpointer()
	}
	if a.threadID == "" {
		a.threadID = DefaultThreadID
	}
	if a.maxTokens <= 0 {
		a.maxTokens = DefaultMaxHistoryTokens
	}
	if a.maxSteps <= 0 {
		a.maxSteps = DefaultMaxSteps
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	for _, t := range opts.Tools {
		a.tools[t.Name] = t
		a.definitions = append(a.definitions, t.definition())
	}
	return a
}

func (a *Agent) ThreadID() string { return a.threadID }

// Chat appends input to the thread and returns the assistant reply. Model and
// tool failures become the reply text; only checkpoint failures are errors.
func (a *Agent) Chat(ctx context.Context, input string) (string, error) {
	a.logger.Info("received user input", zap.String("thread", a.threadID), zap.Int("length", len(input)))

	history, err := a.store.Load(ctx, a.threadID)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	messages := append(history, Message{Role: RoleUser, Content: input})

	messages = a.summarize(ctx, messages)

	var reply string
	answer, err := a.respond(ctx, messages)
	switch {
	case err != nil:
		a.logger.Error("agent call failed", zap.Error(err))
		reply = errorPrefix + err.Error()
	case isUnhelpful(answer):
		reply = FallbackReply
	default:
		reply = answer
	}
	messages = append(messages, Message{Role: RoleAssistant, Content: reply})

	if err := a.store.Save(ctx, a.threadID, messages); err != nil {
		return reply, fmt.Errorf("failed to save history: %w", err)
	}
	return reply, nil
}

// History returns the thread as "role: content" lines.
func (a *Agent) History(ctx context.Context) ([]string, error) {
	messages, err := a.store.Load(ctx, a.threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return lines, nil
}

func isUnhelpful(answer string) bool {
	answer = strings.TrimSpace(answer)
	return answer == "" || strings.Contains(strings.ToLower(answer), "i don't know")
}

// summarize condenses the thread once it reaches the token budget. The
// summary goes first so the latest user turn stays last. On failure the
// thread is kept as is.
func (a *Agent) summarize(ctx context.Context, messages []Message) []Message {
	total := countMessages(a.counter, messages)
	a.logger.Debug("history size", zap.Int("tokens", total), zap.Int("max", a.maxTokens))
	if total < a.maxTokens {
		return messages
	}

	var transcript strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&transcript, "%s: %s\n", m.Role, m.Content)
	}
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryInstruction},
			{Role: openai.ChatMessageRoleUser, Content: transcript.String()},
		},
	})
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("no choices returned")
	}
	if err != nil {
		a.logger.Warn("history summarization failed", zap.Int("tokens", total), zap.Error(err))
		return messages
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	a.logger.Info("history summarized", zap.Int("tokens", total), zap.Int("summary_tokens", a.counter.Count(summary)))

	recent := messages[max(0, len(messages)-keepAfterSummary):]
	out := make([]Message, 0, len(recent)+1)
	out = append(out, Message{Role: RoleAssistant, Content: summary})
	return append(out, recent...)
}

func (a *Agent) conversation(messages []Message) []openai.ChatCompletionMessage {
	conv := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if a.systemPrompt != "" {
		conv = append(conv, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt})
	}
	for _, m := range messages {
		conv = append(conv, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return conv
}

// respond runs the tool-calling loop until the model answers in text.
func (a *Agent) respond(ctx context.Context, messages []Message) (string, error) {
	conv := a.conversation(messages)
	a.logger.Info("calling agent", zap.Int("messages", len(messages)), zap.Int("tools", len(a.definitions)))

	for step := 1; step <= a.maxSteps; step++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: conv,
			Tools:    a.definitions,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			answer := strings.TrimSpace(msg.Content)
			a.logger.Info("agent answered", zap.Int("step", step), zap.Int("length", len(answer)))
			return answer, nil
		}

		conv = append(conv, msg)
		for _, call := range msg.ToolCalls {
			conv = append(conv, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    a.executeToolCall(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}
	return "", fmt.Errorf("%w (%d calls)", ErrStepLimit, a.maxSteps)
}

// executeToolCall runs one call; failures are reported back to the model as text.
func (a *Agent) executeToolCall(ctx context.Context, call openai.ToolCall) string {
	if ctx.Err() != nil {
		return "execution cancelled"
	}
	tool, ok := a.tools[call.Function.Name]
	if !ok {
		a.logger.Warn("model requested unknown tool", zap.String("name", call.Function.Name))
		return fmt.Sprintf("Error: unknown tool %q", call.Function.Name)
	}

	a.logger.Info("executing tool", zap.String("name", tool.Name), zap.String("id", call.ID))
	output, err := tool.Call(ctx, call.Function.Arguments)
	if err != nil {
		a.logger.Warn("tool returned error", zap.String("name", tool.Name), zap.Error(err))
		return "Error: " + err.Error()
	}
	a.logger.Info("tool completed", zap.String("name", tool.Name), zap.Int("output_length", len(output)))
	return output
}
