package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/scriptdeck/scriptdeck/internal/commons"
)

type Server struct {
	port   uint16
	router http.Handler
	http   *http.Server
}

func NewServer(config commons.Config, deps Dependencies) *Server {
	server := &Server{
		port: config.ServerPort,
	}
	server.registerRoutes(deps)
	return server
}

// Start blocks serving HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		IdleTimeout:  commons.ServerIdleTimeout,
		ReadTimeout:  commons.ServerReadTimeout,
		WriteTimeout: commons.ServerWriteTimeout,
	}
	return s.http.ListenAndServe()
}

// Stop drains in-flight requests, bounded by ctx.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the handler tree, used by httptest-based tests.
func (s *Server) Router() http.Handler {
	return s.router
}
