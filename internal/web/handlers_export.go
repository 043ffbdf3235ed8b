package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/rezz/internal/core"
	"github.com/JonMunkholm/rezz/internal/logging"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string   `json:"status"`
	Database string   `json:"database"`
	Entities []string `json:"entities"`
}

// CountResponse is returned by the count endpoints.
type CountResponse struct {
	Count int `json:"count"`
}

// handleHealth pings the database, connecting first if needed.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "connected", Entities: s.service.Exporters.Keys()}
	if err := s.service.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", "error", err)
		resp.Status = "degraded"
		resp.Database = s.service.Handle().LastError()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExport streams one entity as a JSON or CSV attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = core.FormatJSON
	}

	logger := logging.WithFields(r.Context(), "entity", entity, "format", format)
	logger.Info("export started")

	out, err := s.service.Export(r.Context(), entity, format)
	if err != nil {
		fail(w, r, err)
		return
	}

	contentType := "application/json"
	if format == core.FormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	timestamp := time.Now().Format("20060102_150405")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.%s"`, entity, timestamp, format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		logger.Error("export write failed", "error", err)
		return
	}
	logger.Info("export completed", "bytes", len(out))
}

// urlParam returns a path-unescaped chi URL parameter.
func urlParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
