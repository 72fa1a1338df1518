package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/scriptdeck/scriptdeck/internal/model"
)

type PostgresLogRepository struct {
	db *sql.DB
}

func NewPostgresLogRepository(connURL string, db *sql.DB) (*PostgresLogRepository, error) {
	if db == nil {
		var err error
		db, err = sql.Open("postgres", connURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		err = db.Ping()
		if err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	return &PostgresLogRepository{db: db}, nil
}

func (r *PostgresLogRepository) Save(ctx context.Context, entry model.Log) error {
	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode log metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO logs (id, level, type, message, timestamp, service, environment, metadata,
			request_id, user_id, session_id, ip, user_agent, stack)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, entry.ID, entry.Level, entry.Type, entry.Message, entry.Timestamp, entry.Service,
		entry.Environment, metadata, entry.RequestID, entry.UserID, entry.SessionID,
		entry.IP, entry.UserAgent, entry.Stack)
	if err != nil {
		return fmt.Errorf("failed to save log: %w", err)
	}
	return nil
}

var logSortColumns = map[string]string{
	"timestamp": "timestamp",
	"level":     "level",
	"type":      "type",
	"service":   "service",
}

func (r *PostgresLogRepository) Query(ctx context.Context, query model.LogQuery) ([]model.Log, int64, error) {
	where, args := buildLogFilter(query)

	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM logs"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	sortColumn, ok := logSortColumns[query.SortBy]
	if !ok {
		sortColumn = "timestamp"
	}
	direction := "ASC"
	if query.SortDesc {
		direction = "DESC"
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	stmt := fmt.Sprintf(`SELECT id, level, type, message, timestamp, service, environment, metadata,
		request_id, user_id, session_id, ip, user_agent, stack
		FROM logs%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, sortColumn, direction, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var entries []model.Log
	for rows.Next() {
		var entry model.Log
		var metadata []byte
		err := rows.Scan(&entry.ID, &entry.Level, &entry.Type, &entry.Message, &entry.Timestamp,
			&entry.Service, &entry.Environment, &metadata, &entry.RequestID, &entry.UserID,
			&entry.SessionID, &entry.IP, &entry.UserAgent, &entry.Stack)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan log: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, 0, fmt.Errorf("failed to decode log metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read logs: %w", err)
	}

	return entries, total, nil
}

func (r *PostgresLogRepository) Stats(ctx context.Context, start, end time.Time) (model.LogStats, error) {
	where, args := buildTimeFilter(start, end)

	stats := model.LogStats{
		ByLevel: make(map[model.LogLevel]int64),
		ByType:  make(map[model.LogType]int64),
		ByHour:  make(map[string]int64),
	}

	var errorCount int64
	var avgDuration sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE level IN ('error', 'fatal')),
			AVG((metadata->>'duration')::numeric) FILTER (WHERE type = 'http' AND metadata ? 'duration')
		FROM logs`+where, args...).Scan(&stats.Total, &errorCount, &avgDuration)
	if err != nil {
		return model.LogStats{}, fmt.Errorf("failed to aggregate logs: %w", err)
	}
	if stats.Total > 0 {
		stats.ErrorRate = float64(errorCount) / float64(stats.Total) * 100
	}
	if avgDuration.Valid {
		stats.AvgHTTPDuration = avgDuration.Float64
	}

	rows, err := r.db.QueryContext(ctx, "SELECT level, COUNT(*) FROM logs"+where+" GROUP BY level", args...)
	if err != nil {
		return model.LogStats{}, fmt.Errorf("failed to aggregate logs by level: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var level model.LogLevel
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return model.LogStats{}, fmt.Errorf("failed to scan level count: %w", err)
		}
		stats.ByLevel[level] = count
	}
	if err := rows.Err(); err != nil {
		return model.LogStats{}, fmt.Errorf("failed to read level counts: %w", err)
	}

	typeRows, err := r.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM logs"+where+" GROUP BY type", args...)
	if err != nil {
		return model.LogStats{}, fmt.Errorf("failed to aggregate logs by type: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var logType model.LogType
		var count int64
		if err := typeRows.Scan(&logType, &count); err != nil {
			return model.LogStats{}, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.ByType[logType] = count
	}
	if err := typeRows.Err(); err != nil {
		return model.LogStats{}, fmt.Errorf("failed to read type counts: %w", err)
	}

	hourRows, err := r.db.QueryContext(ctx, "SELECT date_trunc('hour', timestamp), COUNT(*) FROM logs"+where+" GROUP BY 1", args...)
	if err != nil {
		return model.LogStats{}, fmt.Errorf("failed to aggregate logs by hour: %w", err)
	}
	defer hourRows.Close()
	for hourRows.Next() {
		var hour time.Time
		var count int64
		if err := hourRows.Scan(&hour, &count); err != nil {
			return model.LogStats{}, fmt.Errorf("failed to scan hour count: %w", err)
		}
		stats.ByHour[hour.UTC().Format("2006-01-02T15")] = count
	}
	if err := hourRows.Err(); err != nil {
		return model.LogStats{}, fmt.Errorf("failed to read hour counts: %w", err)
	}

	return stats, nil
}

func (r *PostgresLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM logs WHERE timestamp < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old logs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted logs: %w", err)
	}
	return deleted, nil
}

func (r *PostgresLogRepository) Close() error {
	return r.db.Close()
}

func buildLogFilter(query model.LogQuery) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !query.StartTime.IsZero() {
		add("timestamp >= $%d", query.StartTime)
	}
	if !query.EndTime.IsZero() {
		add("timestamp <= $%d", query.EndTime)
	}
	if len(query.Levels) > 0 {
		add("level = ANY($%d)", pq.Array(levelStrings(query.Levels)))
	}
	if len(query.Types) > 0 {
		add("type = ANY($%d)", pq.Array(typeStrings(query.Types)))
	}
	if len(query.Services) > 0 {
		add("service = ANY($%d)", pq.Array(query.Services))
	}
	if query.RequestID != "" {
		add("request_id = $%d", query.RequestID)
	}
	if query.UserID != "" {
		add("user_id = $%d", query.UserID)
	}
	if query.Keyword != "" {
		args = append(args, "%"+query.Keyword+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(message ILIKE $%d OR metadata->>'error' ILIKE $%d)", n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildTimeFilter(start, end time.Time) (string, []any) {
	var conds []string
	var args []any
	if !start.IsZero() {
		args = append(args, start)
		conds = append(conds, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if !end.IsZero() {
		args = append(args, end)
		conds = append(conds, fmt.Sprintf("timestamp <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func levelStrings(levels []model.LogLevel) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

func typeStrings(types []model.LogType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	return json.Marshal(metadata)
}
