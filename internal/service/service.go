package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scriptdeck/scriptdeck/internal/model"
)

type ScriptServiceInterface interface {
	Create(ctx context.Context, script *model.Script) error
	Get(ctx context.Context, id uuid.UUID) (*model.Script, error)
	List(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error)
	Update(ctx context.Context, script *model.Script) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type LogServiceInterface interface {
	Query(ctx context.Context, query model.LogQuery) ([]model.Log, int64, error)
	Stats(ctx context.Context, start, end time.Time) (model.LogStats, error)
	Cleanup(ctx context.Context) (int64, error)
}

type UserServiceInterface interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
	Create(ctx context.Context, username, password string) (model.User, error)
	Delete(ctx context.Context, username string) error
}
