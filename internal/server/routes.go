package server

import (
	"net/http"
)

// setupRoutes registers all HTTP routes.
func (s *Server) setupRoutes() {
	// Health checks bypass rate limiting
	s.router.HandleFunc("GET /health", s.apiHandler.Health)
	s.router.HandleFunc("GET /healthz", s.apiHandler.Health)

	apiMux := http.NewServeMux()
	s.apiHandler.RegisterRoutes(apiMux)

	s.router.Handle("/api/{path...}", s.rateLimiter.Middleware(apiMux))
}
