package api_middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/logger"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/repository"
	"golang.org/x/time/rate"
)

const UserContextKey = commons.UserContextKey

type AuthMiddleware struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

func NewAuthMiddleware(userRepo repository.UserRepository, logger *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo, logger: logger}
}

var limiter = rate.NewLimiter(rate.Every(time.Second), commons.AllowedRPS)

func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")

		if apiKey == "" {
			am.logger.Log(model.Log{
				Level:   model.LogLevelWarn,
				Type:    model.LogTypeAuth,
				Message: "no API key provided",
				IP:      r.RemoteAddr,
			})
			http.Error(w, "no API key provided", http.StatusUnauthorized)
			return
		}
		userDB, err := am.userRepo.GetByAPIKey(r.Context(), apiKey)
		if err != nil {
			am.logger.Log(model.Log{
				Level:   model.LogLevelWarn,
				Type:    model.LogTypeSecurity,
				Message: "invalid API key",
				IP:      r.RemoteAddr,
			})
			http.Error(w, "invalid API key", http.StatusUnauthorized)
			return
		}

		user := userDB.ToUser()
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (am *AuthMiddleware) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contextUser := r.Context().Value(UserContextKey)

			user, ok := contextUser.(model.User)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if user.Role != role {
				am.logger.Log(model.Log{
					Level:   model.LogLevelWarn,
					Type:    model.LogTypeSecurity,
					Message: fmt.Sprintf("user %s does not have required role %s", user.Username, role),
					UserID:  user.ID.String(),
					IP:      r.RemoteAddr,
				})
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// RequestLogger emits one http-type log entry per request, carrying method,
// path, status and duration plus whatever request context is available.
func RequestLogger(l *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			entry := model.Log{
				Level:     levelForStatus(rec.status),
				Type:      model.LogTypeHTTP,
				Message:   fmt.Sprintf("%s %s %d", r.Method, r.URL.Path, rec.status),
				RequestID: chi_middleware.GetReqID(r.Context()),
				IP:        r.RemoteAddr,
				UserAgent: r.UserAgent(),
				Metadata: map[string]any{
					"method":   r.Method,
					"path":     r.URL.Path,
					"status":   rec.status,
					"duration": time.Since(start).Milliseconds(),
				},
			}
			if user, ok := r.Context().Value(UserContextKey).(model.User); ok {
				entry.UserID = user.ID.String()
			}
			l.Log(entry)
		})
	}
}

func levelForStatus(status int) model.LogLevel {
	switch {
	case status >= http.StatusInternalServerError:
		return model.LogLevelError
	case status >= http.StatusBadRequest:
		return model.LogLevelWarn
	default:
		return model.LogLevelInfo
	}
}
