package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scriptdeck/scriptdeck/internal/cache"
	"github.com/scriptdeck/scriptdeck/internal/logger"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockScriptRepository struct {
	scripts map[uuid.UUID]*model.Script
}

func newMockScriptRepository() *mockScriptRepository {
	return &mockScriptRepository{scripts: make(map[uuid.UUID]*model.Script)}
}

func (m *mockScriptRepository) Create(ctx context.Context, script *model.Script) error {
	copied := *script
	m.scripts[script.ID] = &copied
	return nil
}

func (m *mockScriptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Script, error) {
	if script, ok := m.scripts[id]; ok {
		copied := *script
		return &copied, nil
	}
	return nil, model.ErrScriptNotFound
}

func (m *mockScriptRepository) GetByName(ctx context.Context, name string) (*model.Script, error) {
	for _, script := range m.scripts {
		if script.Name == name {
			copied := *script
			return &copied, nil
		}
	}
	return nil, model.ErrScriptNotFound
}

func (m *mockScriptRepository) List(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error) {
	var out []model.Script
	for _, script := range m.scripts {
		if filter.Language != "" && script.Language != filter.Language {
			continue
		}
		out = append(out, *script)
	}
	return out, int64(len(out)), nil
}

func (m *mockScriptRepository) Update(ctx context.Context, script *model.Script) error {
	if _, ok := m.scripts[script.ID]; !ok {
		return model.ErrScriptNotFound
	}
	copied := *script
	m.scripts[script.ID] = &copied
	return nil
}

func (m *mockScriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.scripts, id)
	return nil
}

func (m *mockScriptRepository) Close() error {
	return nil
}

type mockCache struct {
	data map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]string)}
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return "", cache.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCache) Close() error {
	return nil
}

func testLogger() *logger.Logger {
	l := logger.New(logger.Config{Service: "test", Environment: "test", Sync: true}, nil, nil)
	l.Writer().SetOutput(io.Discard, io.Discard)
	return l
}

func TestScriptService_Create(t *testing.T) {
	repo := newMockScriptRepository()
	scriptCache := newMockCache()
	scriptService := service.NewScriptService(repo, scriptCache, testLogger())

	script := &model.Script{Name: "disk-report", Content: "df -h", Language: "bash"}
	err := scriptService.Create(context.Background(), script)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, script.ID)
	assert.False(t, script.CreatedAt.IsZero())
	assert.Contains(t, scriptCache.data, "script:"+script.ID.String())

	duplicate := &model.Script{Name: "disk-report", Content: "df -h"}
	err = scriptService.Create(context.Background(), duplicate)
	assert.ErrorIs(t, err, model.ErrScriptExists)
}

func TestScriptService_Get_UsesCache(t *testing.T) {
	repo := newMockScriptRepository()
	scriptCache := newMockCache()
	scriptService := service.NewScriptService(repo, scriptCache, testLogger())

	script := &model.Script{Name: "disk-report", Content: "df -h"}
	require.NoError(t, scriptService.Create(context.Background(), script))

	// Remove from the repository; a cached read must still succeed.
	delete(repo.scripts, script.ID)

	got, err := scriptService.Get(context.Background(), script.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk-report", got.Name)
}

func TestScriptService_Get_MissingScript(t *testing.T) {
	scriptService := service.NewScriptService(newMockScriptRepository(), newMockCache(), testLogger())

	_, err := scriptService.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrScriptNotFound)
}

func TestScriptService_Update(t *testing.T) {
	repo := newMockScriptRepository()
	scriptCache := newMockCache()
	scriptService := service.NewScriptService(repo, scriptCache, testLogger())

	script := &model.Script{Name: "disk-report", Content: "df -h"}
	require.NoError(t, scriptService.Create(context.Background(), script))
	createdAt := script.CreatedAt

	updated := &model.Script{ID: script.ID, Name: "disk-report", Content: "df -h --total"}
	require.NoError(t, scriptService.Update(context.Background(), updated))

	assert.Equal(t, createdAt, updated.CreatedAt, "update preserves creation time")

	got, err := scriptService.Get(context.Background(), script.ID)
	require.NoError(t, err)
	assert.Equal(t, "df -h --total", got.Content)
}

func TestScriptService_Remove(t *testing.T) {
	repo := newMockScriptRepository()
	scriptCache := newMockCache()
	scriptService := service.NewScriptService(repo, scriptCache, testLogger())

	script := &model.Script{Name: "disk-report", Content: "df -h"}
	require.NoError(t, scriptService.Create(context.Background(), script))

	require.NoError(t, scriptService.Remove(context.Background(), script.ID))
	assert.NotContains(t, scriptCache.data, "script:"+script.ID.String(), "removal evicts the cache")

	err := scriptService.Remove(context.Background(), script.ID)
	assert.ErrorIs(t, err, model.ErrScriptNotFound)
}
