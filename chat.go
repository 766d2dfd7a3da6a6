package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"appinsights-mcp/internal/agent"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/observability"
	"appinsights-mcp/internal/prompts"

	"github.com/charmbracelet/lipgloss"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	userLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("You:")
	botLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render("Bot:")
)

// chatAgent is the part of *agent.Agent the REPL drives.
type chatAgent interface {
	Chat(ctx context.Context, input string) (string, error)
	History(ctx context.Context) ([]string, error)
}

func runChat(ctx context.Context, cfg models.Config, sdk *observability.SDK, httpClient *http.Client, in io.Reader, out io.Writer, logger *zap.Logger) error {
	a, closeStore, err := newChatAgent(cfg, sdk, httpClient, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Fprintf(out, "🤖 Function App assistant ready for %s. Type 'exit' to quit, 'history' to review the conversation.\n", sdk.Environment())
	return chatLoop(ctx, a, in, out)
}

func newChatAgent(cfg models.Config, sdk *observability.SDK, httpClient *http.Client, logger *zap.Logger) (*agent.Agent, func(), error) {
	clientConfig := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	clientConfig.HTTPClient = httpClient

	tools, err := agentTools(sdk)
	if err != nil {
		return nil, nil, err
	}

	var store agent.Checkpointer = agent.NewMemoryCheckpointer()
	closeStore := func() {}
	if cfg.HistoryDB != "" {
		sqliteStore, err := agent.NewSQLiteCheckpointer(cfg.HistoryDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open chat history: %w", err)
		}
		store = sqliteStore
		closeStore = func() {
			if err := sqliteStore.Close(); err != nil {
				logger.Warn("failed to close chat history", zap.Error(err))
			}
		}
	}

	model := cfg.Model
	if model == "" {
		model = agent.DefaultModel
	}

	a := agent.New(openai.NewClientWithConfig(clientConfig), agent.Options{
		Model:            model,
		SummaryModel:     cfg.SummaryModel,
		SystemPrompt:     prompts.AgentSystemPrompt,
		Tools:            tools,
		Counter:          agent.NewTokenCounter(model),
		Checkpointer:     store,
		ThreadID:         cfg.ThreadID,
		MaxHistoryTokens: cfg.MaxHistoryTokens,
		Logger:           logger.Named("agent"),
	})
	return a, closeStore, nil
}

// chatLoop reads one question per line until EOF, "exit" or "quit".
func chatLoop(ctx context.Context, a chatAgent, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(out, "%s ", userLabel)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "history":
			lines, err := a.History(ctx)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			continue
		}

		reply, err := a.Chat(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", botLabel, reply)
	}
}
