// An MCP server, chat agent and report tool over Azure Application Insights
// that lets AI agents investigate Azure Function App logs and metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"appinsights-mcp/internal/azure"
	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/logging"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/observability"
	"appinsights-mcp/internal/utils"

	"github.com/joho/godotenv"
	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Version information
var (
	Version   = "dev"     // Set by goreleaser
	CommitSHA = "unknown" // Set by goreleaser
	BuildTime = "unknown" // Set by goreleaser
)

func main() {
	// A missing .env is fine; real deployments set the variables directly.
	_ = godotenv.Load()
	os.Exit(start(os.Args[1:]))
}

// start runs the selected mode and returns the process exit code.
func start(args []string) int {
	cfg, err := setupConfig(args)
	if err != nil {
		log.Printf("config error: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Printf("logger error: %v", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg models.Config, logger *zap.Logger) error {
	httpClient := newHTTPClient(cfg, logger)

	sdk, err := observability.New(string(cfg.Environment), observability.Options{
		Logger:        logger,
		ClientOptions: []azure.Option{azure.WithTransport(httpClient)},
	})
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case constants.ModeChat:
		return runChat(ctx, cfg, sdk, httpClient, os.Stdin, os.Stdout, logger)
	case constants.ModeReport:
		return runReport(ctx, cfg, sdk, os.Stdout, logger)
	}

	server, err := last9mcp.NewServer(constants.ServerName, Version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestRateLimit), cfg.RequestRateBurst)
	if err := registerAllTools(server, sdk, limiter); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	registerAllPrompts(server)

	if cfg.Mode == constants.ModeHTTP {
		return NewHTTPServer(server, cfg, logger).Start(ctx)
	}

	logger.Info("MCP server serving on stdio",
		zap.String("environment", string(sdk.Environment())),
		zap.String("version", Version))
	if err := server.Server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server stopped: %w", err)
	}
	return nil
}

// newHTTPClient returns the traced client shared by the Azure SDK clients and
// the chat model.
func newHTTPClient(cfg models.Config, logger *zap.Logger) *http.Client {
	client := last9mcp.WithHTTPTracing(&http.Client{
		Timeout: 60 * time.Second,
	})
	return utils.WrapClientWithDebug(client, cfg.Debug, logger.Named("http"))
}

// setupConfig initializes and parses the configuration
func setupConfig(args []string) (models.Config, error) {
	fs := flag.NewFlagSet(constants.ServerName, flag.ContinueOnError)

	var cfg models.Config
	var environment string
	fs.StringVar(&environment, "environment", string(models.EnvQA), "Target environment: dev, qa, staging or prod")
	fs.StringVar(&cfg.Mode, "mode", constants.ModeStdio, "Run mode: stdio, http, chat or report")
	fs.StringVar(&cfg.Host, "host", "localhost", "HTTP listen host")
	fs.StringVar(&cfg.Port, "port", "8080", "HTTP listen port")
	fs.Float64Var(&cfg.RequestRateLimit, "rate", 1, "Tool calls per second limit")
	fs.IntVar(&cfg.RequestRateBurst, "burst", 1, "Tool call burst capacity")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFile, "log-file", "", "File that also receives error-level log entries")
	fs.BoolVar(&cfg.Debug, "debug", false, "Log every outgoing Azure request")
	fs.StringVar(&cfg.OpenAIKey, "openai-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key (chat mode)")
	fs.StringVar(&cfg.OpenAIBaseURL, "openai-url", "", "OpenAI-compatible API base URL (chat mode)")
	fs.StringVar(&cfg.Model, "model", "", "Chat model (chat mode)")
	fs.StringVar(&cfg.SummaryModel, "summary-model", "", "Model used to summarize long history (chat mode)")
	fs.IntVar(&cfg.MaxHistoryTokens, "max-history-tokens", 2000, "History size that triggers summarization (chat mode)")
	fs.StringVar(&cfg.HistoryDB, "history-db", "", "SQLite file for chat history; empty keeps it in memory")
	fs.StringVar(&cfg.ThreadID, "thread", "cli-session", "Chat thread id")
	fs.StringVar(&cfg.ReportApp, "app", "", "Function app to report on (report mode)")
	fs.IntVar(&cfg.ReportHours, "hours", 24, "Hours covered by the report (report mode)")
	fs.StringVar(&cfg.ExportDir, "export-dir", "", "Directory for report exports; empty disables export")
	fs.StringVar(&cfg.ExportFormat, "export-format", "json", "Report export format: json, yaml or csv")

	var configFile string
	fs.StringVar(&configFile, "config", "", "config file path")

	err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix(constants.EnvVarPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg.Environment, err = models.ParseEnvironment(environment)
	if err != nil {
		return cfg, err
	}

	modes := []string{constants.ModeStdio, constants.ModeHTTP, constants.ModeChat, constants.ModeReport}
	if !slices.Contains(modes, cfg.Mode) {
		return cfg, fmt.Errorf("invalid mode %q, valid options: stdio, http, chat, report", cfg.Mode)
	}
	if cfg.Mode == constants.ModeChat && cfg.OpenAIKey == "" {
		return cfg, errors.New("OpenAI API key must be provided via -openai-key or OPENAI_API_KEY for chat mode")
	}
	if cfg.Mode == constants.ModeReport && cfg.ReportApp == "" {
		return cfg, errors.New("report mode requires -app")
	}

	return cfg, nil
}
