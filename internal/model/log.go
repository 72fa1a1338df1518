package model

import (
	"time"

	"github.com/google/uuid"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

var logLevelSeverity = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
	LogLevelFatal: 4,
}

func (l LogLevel) Valid() bool {
	_, ok := logLevelSeverity[l]
	return ok
}

// Severity orders levels from debug (0) to fatal (4).
func (l LogLevel) Severity() int {
	return logLevelSeverity[l]
}

type LogType string

const (
	LogTypeHTTP        LogType = "http"
	LogTypeApp         LogType = "app"
	LogTypeDB          LogType = "db"
	LogTypeAuth        LogType = "auth"
	LogTypeSecurity    LogType = "security"
	LogTypePerformance LogType = "performance"
	LogTypeSystem      LogType = "system"
)

var logTypes = map[LogType]struct{}{
	LogTypeHTTP:        {},
	LogTypeApp:         {},
	LogTypeDB:          {},
	LogTypeAuth:        {},
	LogTypeSecurity:    {},
	LogTypePerformance: {},
	LogTypeSystem:      {},
}

func (t LogType) Valid() bool {
	_, ok := logTypes[t]
	return ok
}

type Log struct {
	ID          uuid.UUID      `json:"id"`
	Level       LogLevel       `json:"level"`
	Type        LogType        `json:"type"`
	Message     string         `json:"message"`
	Timestamp   time.Time      `json:"timestamp"`
	Service     string         `json:"service"`
	Environment string         `json:"environment"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	UserID      string         `json:"user_id,omitempty"`
	SessionID   string         `json:"session_id,omitempty"`
	IP          string         `json:"ip,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
	Stack       string         `json:"stack,omitempty"`
}

// LogQuery describes a filtered, paginated read of persisted logs.
type LogQuery struct {
	StartTime time.Time
	EndTime   time.Time
	Levels    []LogLevel
	Types     []LogType
	Services  []string
	RequestID string
	UserID    string
	Keyword   string
	Page      int
	Limit     int
	SortBy    string
	SortDesc  bool
}

type LogStats struct {
	Total           int64              `json:"total"`
	ByLevel         map[LogLevel]int64 `json:"by_level"`
	ByType          map[LogType]int64  `json:"by_type"`
	ByHour          map[string]int64   `json:"by_hour"`
	ErrorRate       float64            `json:"error_rate"`
	AvgHTTPDuration float64            `json:"avg_http_duration_ms"`
}
