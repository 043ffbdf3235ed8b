// Package web exposes the rezz controllers as a JSON HTTP API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/rezz/internal/config"
	"github.com/JonMunkholm/rezz/internal/core"
	mw "github.com/JonMunkholm/rezz/internal/web/middleware"
)

// Server is the HTTP front end for one core.Service.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *rateLimiter

	// gate serializes every API call; the service runs on a single session.
	gate *core.Gate
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
		gate:    core.NewGate(cfg.Server.RequestTimeout),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.limiter = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.serialize)

		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth(&s.cfg.Security))

			r.Get("/export/{entity}", s.handleExport)

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", s.handleListApplications)
				r.Post("/", s.handleCreateApplication)
				r.Get("/count", s.handleCountApplications)
				r.Get("/{id}", s.handleGetApplication)
				r.Put("/{id}", s.handleUpdateApplication)
				r.Delete("/{id}", s.handleDeleteApplication)
				r.Patch("/{id}/status", s.handleUpdateApplicationStatus)
				r.Post("/{id}/interviews", s.handleAddInterviewDate)
				r.Post("/{id}/followups", s.handleAddFollowUpDate)
			})

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", s.handleListListings)
				r.Post("/", s.handleCreateListing)
				r.Get("/count", s.handleCountListings)
				r.Get("/{jobId}", s.handleGetListing)
				r.Put("/{jobId}", s.handleUpdateListing)
				r.Delete("/{jobId}", s.handleDeleteListing)
				r.Patch("/{jobId}/status", s.handleUpdateListingStatus)
				r.Patch("/{jobId}/salary", s.handleUpdateListingSalary)
			})

			r.Route("/resumes", func(r chi.Router) {
				r.Get("/", s.handleListResumes)
				r.Post("/", s.handleCreateResume)
				r.Get("/count", s.handleCountResumes)
				r.Get("/by-email/{email}", s.handleGetResumeByEmail)
				r.Get("/{id}", s.handleGetResume)
				r.Put("/{id}", s.handleUpdateResume)
				r.Delete("/{id}", s.handleDeleteResume)
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and the rate limiter sweep, then
// waits for the session to go idle.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.gate.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// serialize holds the session gate for the whole request. A request that
// cannot get the session in time fails with 503.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.gate.Acquire(r.Context()); err != nil {
			fail(w, r, err)
			return
		}
		defer s.gate.Release()
		next.ServeHTTP(w, r)
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
