package logs

import (
	"context"
	"fmt"
	"time"

	"appinsights-mcp/internal/azure"
	"appinsights-mcp/internal/kql"
	"appinsights-mcp/internal/models"
	"appinsights-mcp/internal/parser"

	"go.uber.org/zap"
)

// Query selects trace rows for one application.
type Query struct {
	AppName      string
	HoursBack    int
	Level        string // optional; Error, Warning, Information or Verbose
	FunctionName string // optional; matched against operation name or message
	Limit        int
	KeepNoise    bool // keep host lock and worker status messages
}

// Reader is the log retrieval surface exposed to tools.
type Reader interface {
	GetLogs(ctx context.Context, q Query) ([]models.LogEntry, error)
	GetErrorLogs(ctx context.Context, appName string, hoursBack, limit int) ([]models.LogEntry, error)
	SearchLogs(ctx context.Context, appName, term string, hoursBack, limit int) ([]models.LogEntry, error)
	GetFunctionLogs(ctx context.Context, appName, functionName string, hoursBack, limit int) ([]models.LogEntry, error)
}

// Service queries the traces table.
type Service struct {
	clients *azure.ClientManager
	parser  *parser.Parser
	logger  *zap.Logger
}

func NewService(clients *azure.ClientManager, p *parser.Parser, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{clients: clients, parser: p, logger: logger.Named("logs")}
}

// GetLogs returns up to q.Limit entries, newest first. A query the backend
// reports as unsuccessful yields an empty slice.
func (s *Service) GetLogs(ctx context.Context, q Query) ([]models.LogEntry, error) {
	s.logger.Info("retrieving logs",
		zap.String("app", q.AppName),
		zap.Int("hours_back", q.HoursBack),
		zap.String("level", q.Level),
		zap.String("function", q.FunctionName))

	query := kql.Logs(q.AppName, q.HoursBack, q.Level, q.FunctionName, q.Limit, !q.KeepNoise)
	return s.run(ctx, "retrieve logs", query, q.HoursBack)
}

// GetErrorLogs is GetLogs restricted to Error level.
func (s *Service) GetErrorLogs(ctx context.Context, appName string, hoursBack, limit int) ([]models.LogEntry, error) {
	return s.GetLogs(ctx, Query{
		AppName:   appName,
		HoursBack: hoursBack,
		Level:     string(models.SeverityError),
		Limit:     limit,
	})
}

// SearchLogs returns entries whose message contains term, at any level.
func (s *Service) SearchLogs(ctx context.Context, appName, term string, hoursBack, limit int) ([]models.LogEntry, error) {
	s.logger.Info("searching logs", zap.String("app", appName), zap.String("term", term))
	return s.run(ctx, "search logs", kql.Search(appName, term, hoursBack, limit), hoursBack)
}

// GetFunctionLogs returns Information-level entries mentioning functionName.
func (s *Service) GetFunctionLogs(ctx context.Context, appName, functionName string, hoursBack, limit int) ([]models.LogEntry, error) {
	return s.GetLogs(ctx, Query{
		AppName:      appName,
		HoursBack:    hoursBack,
		Level:        string(models.SeverityInformation),
		FunctionName: functionName,
		Limit:        limit,
	})
}

func (s *Service) run(ctx context.Context, op, query string, hoursBack int) ([]models.LogEntry, error) {
	rows, ok, err := s.clients.Query(ctx, query, time.Duration(hoursBack)*time.Hour)
	if err != nil {
		s.logger.Error("query failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	if !ok {
		return []models.LogEntry{}, nil
	}

	entries := s.parser.Logs(rows)
	s.logger.Info("retrieved log entries", zap.String("op", op), zap.Int("count", len(entries)))
	return entries, nil
}
