package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/scriptdeck/scriptdeck/internal/model"
)

type PostgresScriptRepository struct {
	db *sql.DB
}

func NewPostgresScriptRepository(connURL string, db *sql.DB) (*PostgresScriptRepository, error) {
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

	return &PostgresScriptRepository{db: db}, nil
}

const scriptColumns = "id, name, description, content, language, tags, metadata, created_by, updated_by, created_at, updated_at"

func (r *PostgresScriptRepository) Create(ctx context.Context, script *model.Script) error {
	metadata, err := marshalMetadata(script.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode script metadata: %w", err)
	}

	query := `INSERT INTO scripts (` + scriptColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.ExecContext(ctx, query,
		script.ID, script.Name, script.Description, script.Content, script.Language,
		pq.Array(script.Tags), metadata, script.CreatedBy, script.UpdatedBy,
		script.CreatedAt, script.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return model.ErrScriptExists
		}
		return fmt.Errorf("failed to create script: %w", err)
	}
	return nil
}

func (r *PostgresScriptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresScriptRepository) GetByName(ctx context.Context, name string) (*model.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE name = $1`
	return r.getOne(ctx, query, name)
}

func (r *PostgresScriptRepository) getOne(ctx context.Context, query string, arg any) (*model.Script, error) {
	var script model.Script
	var metadata []byte
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&script.ID, &script.Name, &script.Description, &script.Content, &script.Language,
		pq.Array(&script.Tags), &metadata, &script.CreatedBy, &script.UpdatedBy,
		&script.CreatedAt, &script.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrScriptNotFound
		}
		return nil, fmt.Errorf("failed to get script: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &script.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode script metadata: %w", err)
		}
	}
	return &script, nil
}

func (r *PostgresScriptRepository) List(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error) {
	var conds []string
	var args []any
	if filter.Language != "" {
		args = append(args, filter.Language)
		conds = append(conds, fmt.Sprintf("language = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scripts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count scripts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	stmt := fmt.Sprintf("SELECT %s FROM scripts%s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		scriptColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []model.Script
	for rows.Next() {
		var script model.Script
		var metadata []byte
		err := rows.Scan(
			&script.ID, &script.Name, &script.Description, &script.Content, &script.Language,
			pq.Array(&script.Tags), &metadata, &script.CreatedBy, &script.UpdatedBy,
			&script.CreatedAt, &script.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan script: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &script.Metadata); err != nil {
				return nil, 0, fmt.Errorf("failed to decode script metadata: %w", err)
			}
		}
		scripts = append(scripts, script)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read scripts: %w", err)
	}

	return scripts, total, nil
}

func (r *PostgresScriptRepository) Update(ctx context.Context, script *model.Script) error {
	metadata, err := marshalMetadata(script.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode script metadata: %w", err)
	}

	query := `UPDATE scripts SET name = $2, description = $3, content = $4, language = $5,
		tags = $6, metadata = $7, updated_by = $8, updated_at = $9 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		script.ID, script.Name, script.Description, script.Content, script.Language,
		pq.Array(script.Tags), metadata, script.UpdatedBy, script.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}
	if affected == 0 {
		return model.ErrScriptNotFound
	}
	return nil
}

func (r *PostgresScriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM scripts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	if affected == 0 {
		return model.ErrScriptNotFound
	}
	return nil
}

func (r *PostgresScriptRepository) Close() error {
	return r.db.Close()
}
