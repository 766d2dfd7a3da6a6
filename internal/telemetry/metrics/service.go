package metrics

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

// Reader is the aggregate query surface exposed to tools.
type Reader interface {
	GetMetrics(ctx context.Context, appName string, hoursBack, granularityHours int) ([]models.MetricsSample, error)
	AnalyzeErrors(ctx context.Context, appName string, hoursBack, limit int) (models.ErrorAnalysis, error)
	GetFunctionPerformance(ctx context.Context, appName string, hoursBack int, functionName string) ([]models.FunctionPerformance, error)
	GetTimeline(ctx context.Context, appName string, hoursBack, granularityMinutes int) ([]models.TimelinePoint, error)
}

// Service runs aggregate queries over requests, traces and exceptions.
type Service struct {
	clients *azure.ClientManager
	parser  *parser.Parser
	logger  *zap.Logger
}

func NewService(clients *azure.ClientManager, p *parser.Parser, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{clients: clients, parser: p, logger: logger.Named("metrics")}
}

func (s *Service) query(ctx context.Context, op, q string, hoursBack int) ([][]any, bool, error) {
	s.logger.Info(op, zap.Int("hours_back", hoursBack))
	rows, ok, err := s.clients.Query(ctx, q, time.Duration(hoursBack)*time.Hour)
	if err != nil {
		s.logger.Error("query failed", zap.String("op", op), zap.Error(err))
		return nil, false, fmt.Errorf("failed to %s: %w", op, err)
	}
	return rows, ok, nil
}

// GetMetrics returns request buckets of granularityHours, newest first.
func (s *Service) GetMetrics(ctx context.Context, appName string, hoursBack, granularityHours int) ([]models.MetricsSample, error) {
	rows, ok, err := s.query(ctx, "retrieve metrics", kql.Metrics(appName, hoursBack, granularityHours), hoursBack)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.MetricsSample{}, nil
	}
	return s.parser.Metrics(rows), nil
}

// AnalyzeErrors groups errors by function, type and message.
func (s *Service) AnalyzeErrors(ctx context.Context, appName string, hoursBack, limit int) (models.ErrorAnalysis, error) {
	rows, ok, err := s.query(ctx, "analyze errors", kql.ErrorAnalysis(appName, hoursBack, limit), hoursBack)
	if err != nil {
		return models.ErrorAnalysis{}, err
	}
	if !ok {
		return models.EmptyErrorAnalysis(appName, hoursBack), nil
	}
	analysis := s.parser.ErrorAnalysis(rows, appName, hoursBack)
	s.logger.Info("error analysis complete",
		zap.Int64("total_errors", analysis.TotalErrors),
		zap.Int("unique_error_types", analysis.UniqueErrorTypes))
	return analysis, nil
}

// GetFunctionPerformance returns per-operation statistics, busiest first.
func (s *Service) GetFunctionPerformance(ctx context.Context, appName string, hoursBack int, functionName string) ([]models.FunctionPerformance, error) {
	rows, ok, err := s.query(ctx, "analyze function performance", kql.FunctionPerformance(appName, hoursBack, functionName), hoursBack)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.FunctionPerformance{}, nil
	}
	return s.parser.FunctionPerformance(rows), nil
}

// GetTimeline returns activity buckets of granularityMinutes, newest first.
func (s *Service) GetTimeline(ctx context.Context, appName string, hoursBack, granularityMinutes int) ([]models.TimelinePoint, error) {
	rows, ok, err := s.query(ctx, "build timeline", kql.Timeline(appName, hoursBack, granularityMinutes), hoursBack)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.TimelinePoint{}, nil
	}
	return s.parser.Timeline(rows), nil
}
