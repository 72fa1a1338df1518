package logger

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/repository"
)

// Config carries the knobs for a Logger. Zero values fall back to defaults.
type Config struct {
	Service       string
	Environment   string
	Sync          bool
	BatchSize     int
	QueueCapacity int
	FlushInterval time.Duration
	Table         RoutingTable
}

// Logger is the emit half of the logging subsystem. It stamps entries with
// identity and provenance, then either buffers them in the batch queue or,
// in sync mode, writes them straight through.
type Logger struct {
	cfg    Config
	writer *Writer
	queue  *BatchQueue
}

func New(cfg Config, repo repository.LogRepository, files *FileSink) *Logger {
	if cfg.Table.Default == "" {
		cfg.Table = DefaultRoutingTable()
	}
	l := &Logger{
		cfg:    cfg,
		writer: NewWriter(repo, files),
	}
	if !cfg.Sync {
		l.queue = NewBatchQueue(l.writer, cfg.Table, cfg.BatchSize, cfg.QueueCapacity, cfg.FlushInterval)
		l.queue.Start()
	}
	return l
}

// Log stamps and submits one entry. Level and type must come from the closed
// enumerations; empty values default to info/app.
func (l *Logger) Log(entry model.Log) error {
	if entry.Level == "" {
		entry.Level = model.LogLevelInfo
	}
	if entry.Type == "" {
		entry.Type = model.LogTypeApp
	}
	if !entry.Level.Valid() {
		return fmt.Errorf("%w: %s", model.ErrInvalidLogLevel, entry.Level)
	}
	if !entry.Type.Valid() {
		return fmt.Errorf("%w: %s", model.ErrInvalidLogType, entry.Type)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.Service = l.cfg.Service
	entry.Environment = l.cfg.Environment

	if l.queue != nil {
		l.queue.Enqueue(entry)
		return nil
	}
	l.writer.Write(context.Background(), entry, l.cfg.Table.Decide(entry.Level, entry.Type))
	return nil
}

func (l *Logger) Debug(message string, metadata map[string]any) {
	l.Log(model.Log{Level: model.LogLevelDebug, Message: message, Metadata: metadata})
}

func (l *Logger) Info(message string, metadata map[string]any) {
	l.Log(model.Log{Level: model.LogLevelInfo, Message: message, Metadata: metadata})
}

func (l *Logger) Warn(message string, metadata map[string]any) {
	l.Log(model.Log{Level: model.LogLevelWarn, Message: message, Metadata: metadata})
}

func (l *Logger) Error(message string, err error, metadata map[string]any) {
	l.Log(errorEntry(model.LogLevelError, message, err, metadata))
}

func (l *Logger) Fatal(message string, err error, metadata map[string]any) {
	l.Log(errorEntry(model.LogLevelFatal, message, err, metadata))
}

// Queue exposes the batch queue for stats and tests; nil in sync mode.
func (l *Logger) Queue() *BatchQueue {
	return l.queue
}

// Writer exposes the sink writer, used to redirect console output in tests.
func (l *Logger) Writer() *Writer {
	return l.writer
}

// Close drains the batch queue. It must run during shutdown or buffered
// entries are lost.
func (l *Logger) Close(ctx context.Context) error {
	if l.queue != nil {
		l.queue.Stop(ctx)
	}
	return nil
}

func errorEntry(level model.LogLevel, message string, err error, metadata map[string]any) model.Log {
	entry := model.Log{Level: level, Message: message, Metadata: metadata}
	if err != nil {
		if entry.Metadata == nil {
			entry.Metadata = make(map[string]any)
		}
		entry.Metadata["error"] = err.Error()
		entry.Metadata["error_type"] = fmt.Sprintf("%T", err)
		entry.Stack = string(debug.Stack())
	}
	return entry
}
