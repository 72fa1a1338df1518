package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/scriptdeck/scriptdeck/internal/logger"
)

// LogCleaner is the slice of the log service the sweeper needs.
type LogCleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// RetentionSweeper deletes expired log rows and prunes dated log files on a
// daily schedule, plus once immediately on start.
type RetentionSweeper struct {
	logs          LogCleaner
	files         *logger.FileSink
	fileRetention time.Duration
	appLogger     *logger.Logger
	cron          *cron.Cron
}

func NewRetentionSweeper(logs LogCleaner, files *logger.FileSink, fileRetentionDays int, appLogger *logger.Logger) *RetentionSweeper {
	c := cron.New()
	rs := &RetentionSweeper{
		logs:          logs,
		files:         files,
		fileRetention: time.Duration(fileRetentionDays) * 24 * time.Hour,
		appLogger:     appLogger,
		cron:          c,
	}

	_, err := c.AddFunc("0 3 * * *", rs.sweepWrapper)
	if err != nil {
		appLogger.Error("failed to add retention cron job", err, nil)
	}

	return rs
}

func (rs *RetentionSweeper) Start(ctx context.Context) error {
	if err := rs.Sweep(ctx); err != nil {
		rs.appLogger.Error("initial retention sweep failed", err, nil)
	}

	rs.cron.Start()

	go func() {
		<-ctx.Done()
		rs.cron.Stop()
	}()

	return nil
}

func (rs *RetentionSweeper) Sweep(ctx context.Context) error {
	deleted, err := rs.logs.Cleanup(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep log rows: %w", err)
	}

	removed := 0
	if rs.files != nil {
		removed, err = rs.files.Prune(time.Now().Add(-rs.fileRetention))
		if err != nil {
			return fmt.Errorf("failed to prune log files: %w", err)
		}
	}

	rs.appLogger.Info("retention sweep finished", map[string]any{
		"rows_deleted":  deleted,
		"files_removed": removed,
	})
	return nil
}

func (rs *RetentionSweeper) sweepWrapper() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := rs.Sweep(ctx); err != nil {
		rs.appLogger.Error("scheduled retention sweep failed", err, nil)
	}
}
