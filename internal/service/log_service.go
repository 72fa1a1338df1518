package service

import (
	"context"
	"fmt"
	"time"

	"github.com/scriptdeck/scriptdeck/internal/logger"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/repository"
)

// LogService is the read half of the logging subsystem: queries, stats and
// the retention sweep. Failures are logged as diagnostics and returned to the
// caller; there is no retry.
type LogService struct {
	repo          repository.LogRepository
	logger        *logger.Logger
	retentionDays int
}

func NewLogService(repo repository.LogRepository, logger *logger.Logger, retentionDays int) *LogService {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &LogService{
		repo:          repo,
		logger:        logger,
		retentionDays: retentionDays,
	}
}

func (s *LogService) Query(ctx context.Context, query model.LogQuery) ([]model.Log, int64, error) {
	entries, total, err := s.repo.Query(ctx, query)
	if err != nil {
		s.logger.Error("log query failed", err, nil)
		return nil, 0, fmt.Errorf("failed to query logs: %w", err)
	}
	return entries, total, nil
}

func (s *LogService) Stats(ctx context.Context, start, end time.Time) (model.LogStats, error) {
	stats, err := s.repo.Stats(ctx, start, end)
	if err != nil {
		s.logger.Error("log stats failed", err, nil)
		return model.LogStats{}, fmt.Errorf("failed to aggregate log stats: %w", err)
	}
	return stats, nil
}

// Cleanup deletes entries older than the retention window and reports how
// many were removed.
func (s *LogService) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("log cleanup failed", err, nil)
		return 0, fmt.Errorf("failed to clean up logs: %w", err)
	}
	s.logger.Info(fmt.Sprintf("log cleanup removed %d entries older than %d days", deleted, s.retentionDays), nil)
	return deleted, nil
}
