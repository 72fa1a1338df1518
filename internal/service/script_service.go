package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/scriptdeck/scriptdeck/internal/cache"
	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/logger"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/repository"
)

type ScriptService struct {
	repo   repository.ScriptRepository
	cache  cache.Cache
	logger *logger.Logger
}

func NewScriptService(repo repository.ScriptRepository, cache cache.Cache, logger *logger.Logger) *ScriptService {
	return &ScriptService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *ScriptService) Create(ctx context.Context, script *model.Script) error {
	_, err := s.repo.GetByName(ctx, script.Name)
	if err == nil {
		return model.ErrScriptExists
	}
	if !errors.Is(err, model.ErrScriptNotFound) {
		return fmt.Errorf("failed to check script name: %w", err)
	}

	now := time.Now()
	if script.ID == uuid.Nil {
		script.ID = uuid.New()
	}
	script.CreatedAt = now
	script.UpdatedAt = now

	if err := s.repo.Create(ctx, script); err != nil {
		return fmt.Errorf("failed to add script to repository: %w", err)
	}

	s.cacheScript(ctx, script)
	s.logger.Log(model.Log{
		Level:   model.LogLevelInfo,
		Type:    model.LogTypeApp,
		Message: fmt.Sprintf("script %s created", script.Name),
		UserID:  script.CreatedBy.String(),
	})
	return nil
}

func (s *ScriptService) Get(ctx context.Context, id uuid.UUID) (*model.Script, error) {
	if cached, err := s.cache.Get(ctx, cacheKey(id)); err == nil {
		var script model.Script
		if err := json.Unmarshal([]byte(cached), &script); err == nil {
			return &script, nil
		}
	}

	script, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheScript(ctx, script)
	return script, nil
}

func (s *ScriptService) List(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error) {
	scripts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scripts: %w", err)
	}
	return scripts, total, nil
}

func (s *ScriptService) Update(ctx context.Context, script *model.Script) error {
	existing, err := s.repo.GetByID(ctx, script.ID)
	if err != nil {
		return err
	}

	script.CreatedBy = existing.CreatedBy
	script.CreatedAt = existing.CreatedAt
	script.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, script); err != nil {
		return fmt.Errorf("failed to update script in repository: %w", err)
	}

	s.cacheScript(ctx, script)
	return nil
}

func (s *ScriptService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove script from repository: %w", err)
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to evict script %s from cache", id), map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *ScriptService) cacheScript(ctx context.Context, script *model.Script) {
	data, err := json.Marshal(script)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(script.ID), string(data), commons.ScriptCacheExpiration); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to cache script %s", script.ID), map[string]any{"error": err.Error()})
	}
}

func cacheKey(id uuid.UUID) string {
	return "script:" + id.String()
}
