package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scriptdeck/scriptdeck/internal/model"
)

type ScriptRepository interface {
	Create(ctx context.Context, script *model.Script) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Script, error)
	GetByName(ctx context.Context, name string) (*model.Script, error)
	List(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error)
	Update(ctx context.Context, script *model.Script) error
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

type LogRepository interface {
	Save(ctx context.Context, entry model.Log) error
	Query(ctx context.Context, query model.LogQuery) ([]model.Log, int64, error)
	Stats(ctx context.Context, start, end time.Time) (model.LogStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.UserDB) error
	GetByUsername(ctx context.Context, username string) (*model.UserDB, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*model.UserDB, error)
	Delete(ctx context.Context, username string) error
	Close() error
}
