// Package server provides the HTTP server and routing for eoscal.
package server

import (
	"net/http"
	"time"

	"github.com/eosarchive/eoscal/internal/api"
	"github.com/eosarchive/eoscal/internal/calendar"
	"github.com/eosarchive/eoscal/internal/config"
	"github.com/eosarchive/eoscal/internal/google"
	"github.com/eosarchive/eoscal/internal/records"
	"github.com/eosarchive/eoscal/internal/server/middleware"
	"github.com/eosarchive/eoscal/internal/util"
)

// Server wires the record store client, artifact builder and handlers into
// one HTTP surface.
type Server struct {
	config      *config.Config
	router      *http.ServeMux
	builder     *calendar.Builder
	store       *records.Client
	publisher   *google.Publisher
	rateLimiter *middleware.RateLimiter
	apiHandler  *api.Handler
}

// New creates a new Server instance.
func New(cfg *config.Config) (*Server, error) {
	loc, err := util.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, err
	}

	builder := calendar.NewBuilder(calendar.BuilderConfig{
		Location:        loc,
		DisplayTimezone: cfg.Calendar.DisplayTimezone,
		ProdID:          cfg.Calendar.ProdID,
		UIDDomain:       cfg.Calendar.UIDDomain,
		DefaultDuration: time.Duration(cfg.Calendar.DefaultDurationHours) * time.Hour,
	})

	store := records.NewClient(cfg.Records)

	var publisher *google.Publisher
	var apiPublisher api.Publisher
	if cfg.Google.Enabled() {
		publisher = google.NewPublisher(cfg.Google, builder)
		apiPublisher = publisher
		util.Info("Google Calendar publisher enabled", "calendar_id", cfg.Google.CalendarID)
	}

	s := &Server{
		config:      cfg,
		router:      http.NewServeMux(),
		builder:     builder,
		store:       store,
		publisher:   publisher,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimits),
		apiHandler:  api.NewHandler(store, builder, apiPublisher, cfg.Records.FeedLimit),
	}

	s.setupRoutes()

	return s, nil
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	// Middleware chain, applied in reverse order
	var handler http.Handler = s.router

	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)
	handler = middleware.SecurityHeaders(handler)

	return handler
}

// Config returns the server configuration.
func (s *Server) Config() *config.Config {
	return s.config
}

// Builder returns the artifact builder.
func (s *Server) Builder() *calendar.Builder {
	return s.builder
}
