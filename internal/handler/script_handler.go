package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/service"
)

type ScriptHandler struct {
	scriptService service.ScriptServiceInterface
}

func NewScriptHandler(scriptService service.ScriptServiceInterface) *ScriptHandler {
	return &ScriptHandler{
		scriptService: scriptService,
	}
}

type scriptPayload struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Content     string         `json:"content"`
	Language    string         `json:"language"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
}

func (p *scriptPayload) validate() string {
	if p.Name == "" {
		return "Script name is required"
	}
	if len(p.Name) > commons.MaxScriptNameLength {
		return "Script name is too long"
	}
	if p.Content == "" {
		return "Script content is required"
	}
	return ""
}

func (h *ScriptHandler) CreateScript(w http.ResponseWriter, r *http.Request) {
	var payload scriptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := payload.validate(); msg != "" {
		commons.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	script := model.Script{
		Name:        payload.Name,
		Description: payload.Description,
		Content:     payload.Content,
		Language:    payload.Language,
		Tags:        payload.Tags,
		Metadata:    payload.Metadata,
	}
	if user, ok := r.Context().Value(commons.UserContextKey).(model.User); ok {
		script.CreatedBy = user.ID
		script.UpdatedBy = user.ID
	}

	if err := h.scriptService.Create(r.Context(), &script); err != nil {
		if errors.Is(err, model.ErrScriptExists) {
			commons.RespondWithError(w, http.StatusConflict, "Script with this name already exists")
			return
		}
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to create script")
		return
	}

	commons.RespondWithJSON(w, http.StatusCreated, script)
}

func (h *ScriptHandler) GetScript(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid script id")
		return
	}

	script, err := h.scriptService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrScriptNotFound) {
			commons.RespondWithError(w, http.StatusNotFound, "Script not found")
			return
		}
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to get script")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, script)
}

func (h *ScriptHandler) ListScripts(w http.ResponseWriter, r *http.Request) {
	filter := model.ScriptFilter{
		Language: r.URL.Query().Get("language"),
		Tag:      r.URL.Query().Get("tag"),
		Page:     parseIntParam(r, "page"),
		Limit:    parseIntParam(r, "limit"),
	}

	scripts, total, err := h.scriptService.List(r.Context(), filter)
	if err != nil {
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to list scripts")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"scripts": scripts,
		"total":   total,
	})
}

func (h *ScriptHandler) UpdateScript(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid script id")
		return
	}

	var payload scriptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := payload.validate(); msg != "" {
		commons.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	script := model.Script{
		ID:          id,
		Name:        payload.Name,
		Description: payload.Description,
		Content:     payload.Content,
		Language:    payload.Language,
		Tags:        payload.Tags,
		Metadata:    payload.Metadata,
	}
	if user, ok := r.Context().Value(commons.UserContextKey).(model.User); ok {
		script.UpdatedBy = user.ID
	}

	if err := h.scriptService.Update(r.Context(), &script); err != nil {
		if errors.Is(err, model.ErrScriptNotFound) {
			commons.RespondWithError(w, http.StatusNotFound, "Script not found")
			return
		}
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to update script")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, script)
}

func (h *ScriptHandler) RemoveScript(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid script id")
		return
	}

	if err := h.scriptService.Remove(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrScriptNotFound) {
			commons.RespondWithError(w, http.StatusNotFound, "Script not found")
			return
		}
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to remove script")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Script removed successfully"})
}

func parseIntParam(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
