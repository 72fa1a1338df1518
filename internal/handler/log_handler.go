package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/service"
)

type LogHandler struct {
	logService service.LogServiceInterface
}

func NewLogHandler(logService service.LogServiceInterface) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

func (h *LogHandler) QueryLogs(w http.ResponseWriter, r *http.Request) {
	query, errMsg := parseLogQuery(r)
	if errMsg != "" {
		commons.RespondWithError(w, http.StatusBadRequest, errMsg)
		return
	}

	entries, total, err := h.logService.Query(r.Context(), query)
	if err != nil {
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to query logs")
		return
	}

	if entries == nil {
		entries = []model.Log{}
	}
	commons.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  entries,
		"total": total,
		"page":  query.Page,
		"limit": query.Limit,
	})
}

func (h *LogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	start, errMsg := parseTimeParam(r, "start_time")
	if errMsg != "" {
		commons.RespondWithError(w, http.StatusBadRequest, errMsg)
		return
	}
	end, errMsg := parseTimeParam(r, "end_time")
	if errMsg != "" {
		commons.RespondWithError(w, http.StatusBadRequest, errMsg)
		return
	}

	stats, err := h.logService.Stats(r.Context(), start, end)
	if err != nil {
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate log stats")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *LogHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.logService.Cleanup(r.Context())
	if err != nil {
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to clean up logs")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func parseLogQuery(r *http.Request) (model.LogQuery, string) {
	var query model.LogQuery
	var errMsg string

	if query.StartTime, errMsg = parseTimeParam(r, "start_time"); errMsg != "" {
		return query, errMsg
	}
	if query.EndTime, errMsg = parseTimeParam(r, "end_time"); errMsg != "" {
		return query, errMsg
	}

	for _, raw := range splitParam(r, "level") {
		level := model.LogLevel(raw)
		if !level.Valid() {
			return query, "Invalid log level: " + raw
		}
		query.Levels = append(query.Levels, level)
	}
	for _, raw := range splitParam(r, "type") {
		logType := model.LogType(raw)
		if !logType.Valid() {
			return query, "Invalid log type: " + raw
		}
		query.Types = append(query.Types, logType)
	}
	query.Services = splitParam(r, "service")

	query.RequestID = r.URL.Query().Get("request_id")
	query.UserID = r.URL.Query().Get("user_id")
	query.Keyword = r.URL.Query().Get("keyword")

	query.Page = parseIntParam(r, "page")
	if query.Page <= 0 {
		query.Page = 1
	}
	query.Limit = parseIntParam(r, "limit")
	if query.Limit <= 0 {
		query.Limit = commons.DefaultLogQueryLimit
	}
	if query.Limit > commons.MaxLogQueryLimit {
		query.Limit = commons.MaxLogQueryLimit
	}

	query.SortBy = r.URL.Query().Get("sort_by")
	if query.SortBy == "" {
		query.SortBy = "timestamp"
	}
	query.SortDesc = r.URL.Query().Get("order") != "asc"

	return query, ""
}

func parseTimeParam(r *http.Request, name string) (time.Time, string) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, ""
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, "Invalid " + name + ", expected RFC3339"
	}
	return parsed, ""
}

func splitParam(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
