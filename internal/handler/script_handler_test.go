package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/handler"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockScriptService struct {
	createFn func(ctx context.Context, script *model.Script) error
	getFn    func(ctx context.Context, id uuid.UUID) (*model.Script, error)
	listFn   func(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error)
	updateFn func(ctx context.Context, script *model.Script) error
	removeFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockScriptService) Create(ctx context.Context, script *model.Script) error {
	return m.createFn(ctx, script)
}

func (m *mockScriptService) Get(ctx context.Context, id uuid.UUID) (*model.Script, error) {
	return m.getFn(ctx, id)
}

func (m *mockScriptService) List(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error) {
	return m.listFn(ctx, filter)
}

func (m *mockScriptService) Update(ctx context.Context, script *model.Script) error {
	return m.updateFn(ctx, script)
}

func (m *mockScriptService) Remove(ctx context.Context, id uuid.UUID) error {
	return m.removeFn(ctx, id)
}

func scriptRouter(h *handler.ScriptHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/scripts", h.CreateScript)
	r.Get("/scripts", h.ListScripts)
	r.Get("/scripts/{id}", h.GetScript)
	r.Put("/scripts/{id}", h.UpdateScript)
	r.Delete("/scripts/{id}", h.RemoveScript)
	return r
}

func TestScriptHandler_CreateScript(t *testing.T) {
	admin := model.User{ID: uuid.New(), Username: "admin", Role: model.RoleAdmin}

	tests := []struct {
		name           string
		body           string
		createErr      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Valid script",
			body:           `{"name": "backup", "content": "pg_dump mydb", "language": "bash"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing name",
			body:           `{"content": "pg_dump mydb"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Script name is required",
		},
		{
			name:           "Name too long",
			body:           `{"name": "` + strings.Repeat("x", commons.MaxScriptNameLength+1) + `", "content": "true"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Script name is too long",
		},
		{
			name:           "Missing content",
			body:           `{"name": "backup"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Script content is required",
		},
		{
			name:           "Malformed JSON",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request payload",
		},
		{
			name:           "Duplicate name",
			body:           `{"name": "backup", "content": "pg_dump mydb"}`,
			createErr:      model.ErrScriptExists,
			expectedStatus: http.StatusConflict,
			expectedError:  "Script with this name already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockScriptService{
				createFn: func(ctx context.Context, script *model.Script) error {
					if tt.createErr != nil {
						return tt.createErr
					}
					script.ID = uuid.New()
					return nil
				},
			}
			router := scriptRouter(handler.NewScriptHandler(mockService))

			req := httptest.NewRequest("POST", "/scripts", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), commons.UserContextKey, admin))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedError, resp["error"])
			} else {
				var created model.Script
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
				assert.Equal(t, "backup", created.Name)
				assert.Equal(t, admin.ID, created.CreatedBy)
			}
		})
	}
}

func TestScriptHandler_GetScript(t *testing.T) {
	scriptID := uuid.New()
	stored := &model.Script{
		ID:        scriptID,
		Name:      "backup",
		Content:   "pg_dump mydb",
		Language:  "bash",
		CreatedAt: time.Now(),
	}

	mockService := &mockScriptService{
		getFn: func(ctx context.Context, id uuid.UUID) (*model.Script, error) {
			if id == scriptID {
				return stored, nil
			}
			return nil, model.ErrScriptNotFound
		},
	}
	router := scriptRouter(handler.NewScriptHandler(mockService))

	t.Run("Found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/scripts/"+scriptID.String(), nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got model.Script
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "backup", got.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/scripts/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/scripts/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestScriptHandler_ListScripts(t *testing.T) {
	var gotFilter model.ScriptFilter
	mockService := &mockScriptService{
		listFn: func(ctx context.Context, filter model.ScriptFilter) ([]model.Script, int64, error) {
			gotFilter = filter
			return []model.Script{{Name: "backup"}, {Name: "deploy"}}, 2, nil
		},
	}
	router := scriptRouter(handler.NewScriptHandler(mockService))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/scripts?language=bash&tag=ops&page=2&limit=10", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.ScriptFilter{Language: "bash", Tag: "ops", Page: 2, Limit: 10}, gotFilter)

	var resp struct {
		Scripts []model.Script `json:"scripts"`
		Total   int64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Scripts, 2)
	assert.Equal(t, int64(2), resp.Total)
}

func TestScriptHandler_UpdateScript(t *testing.T) {
	scriptID := uuid.New()
	mockService := &mockScriptService{
		updateFn: func(ctx context.Context, script *model.Script) error {
			if script.ID != scriptID {
				return model.ErrScriptNotFound
			}
			return nil
		},
	}
	router := scriptRouter(handler.NewScriptHandler(mockService))

	body := `{"name": "backup", "content": "pg_dump --clean mydb"}`

	t.Run("Updated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("PUT", "/scripts/"+scriptID.String(), bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("PUT", "/scripts/"+uuid.NewString(), bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestScriptHandler_RemoveScript(t *testing.T) {
	scriptID := uuid.New()
	mockService := &mockScriptService{
		removeFn: func(ctx context.Context, id uuid.UUID) error {
			if id != scriptID {
				return model.ErrScriptNotFound
			}
			return nil
		},
	}
	router := scriptRouter(handler.NewScriptHandler(mockService))

	t.Run("Removed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/scripts/"+scriptID.String(), nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Script removed successfully", resp["message"])
	})

	t.Run("Not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/scripts/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
