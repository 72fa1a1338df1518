package server

import (
	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/scriptdeck/scriptdeck/internal/handler"
	"github.com/scriptdeck/scriptdeck/internal/logger"
	api_middleware "github.com/scriptdeck/scriptdeck/internal/middleware"
	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/repository"
	"github.com/scriptdeck/scriptdeck/internal/service"
)

// Dependencies bundles everything the route tree needs; constructed once in
// main and threaded through instead of living in package globals.
type Dependencies struct {
	ScriptService service.ScriptServiceInterface
	LogService    service.LogServiceInterface
	UserService   service.UserServiceInterface
	UserRepo      repository.UserRepository
	Logger        *logger.Logger
}

func (s *Server) registerRoutes(deps Dependencies) {
	router := chi.NewRouter()
	router.Use(chi_middleware.RequestID)
	router.Use(chi_middleware.Recoverer)
	router.Use(api_middleware.RequestLogger(deps.Logger))

	authMiddleware := api_middleware.NewAuthMiddleware(deps.UserRepo, deps.Logger)

	router.Get("/healthz", handler.HandlerReadiness)

	scriptHandler := handler.NewScriptHandler(deps.ScriptService)
	logHandler := handler.NewLogHandler(deps.LogService)
	userHandler := handler.NewUserHandler(deps.UserService)

	router.Route("/auth", func(r chi.Router) {
		r.With(api_middleware.RateLimitMiddleware).Post("/register", userHandler.Register)
		r.With(api_middleware.RateLimitMiddleware).Post("/login", userHandler.Login)
	})

	router.Route("/scripts", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/", scriptHandler.ListScripts)
		r.Get("/{id}", scriptHandler.GetScript)
		r.With(authMiddleware.RequireRole(model.RoleAdmin)).Post("/", scriptHandler.CreateScript)
		r.With(authMiddleware.RequireRole(model.RoleAdmin)).Put("/{id}", scriptHandler.UpdateScript)
		r.With(authMiddleware.RequireRole(model.RoleAdmin)).Delete("/{id}", scriptHandler.RemoveScript)
	})

	router.Route("/logs", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate, authMiddleware.RequireRole(model.RoleAdmin))
		r.Get("/", logHandler.QueryLogs)
		r.Get("/stats", logHandler.GetStats)
		r.Delete("/cleanup", logHandler.Cleanup)
	})

	s.router = router
}
