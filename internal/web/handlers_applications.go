package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/rezz/internal/core"
	"github.com/JonMunkholm/rezz/internal/models"
)

// StatusRequest is the body of PATCH /api/applications/{id}/status. Status
// may be a name such as "INTERVIEWING" or its number.
type StatusRequest struct {
	Status string `json:"status"`
}

// DateRequest is the body of the interview and follow-up endpoints.
type DateRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.ApplicationFilter{
		Company: q.Get("company"),
		From:    q.Get("from"),
		To:      q.Get("to"),
	}
	if (f.From == "") != (f.To == "") {
		fail(w, r, badRequest("from and to must be given together"))
		return
	}
	if raw := q.Get("status"); raw != "" {
		status, err := parseStatus(raw)
		if err != nil {
			fail(w, r, err)
			return
		}
		f.Status = status
	}

	apps, err := s.service.Applications.Find(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// handleCreateApplication inserts the body. A missing applicationId is
// generated; a missing status defaults to APPLIED.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var app models.JobApplication
	if err := decodeJSON(w, r, &app); err != nil {
		fail(w, r, err)
		return
	}
	if app.ApplicationID == "" {
		app.ApplicationID = uuid.NewString()
	}
	if app.Status == 0 {
		app.Status = models.StatusApplied
	}

	if err := s.service.Applications.Create(r.Context(), &app); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.service.Applications.GetByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// handleUpdateApplication replaces the application; the path id wins over
// any id in the body.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	var app models.JobApplication
	if err := decodeJSON(w, r, &app); err != nil {
		fail(w, r, err)
		return
	}
	app.ApplicationID = urlParam(r, "id")

	if err := s.service.Applications.Update(r.Context(), &app); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Applications.Delete(r.Context(), urlParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		fail(w, r, err)
		return
	}

	id := urlParam(r, "id")
	if err := s.service.Applications.UpdateStatus(r.Context(), id, status); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"applicationId": id, "status": status.String()})
}

func (s *Server) handleAddInterviewDate(w http.ResponseWriter, r *http.Request) {
	s.addDate(w, r, s.service.Applications.AddInterviewDate)
}

func (s *Server) handleAddFollowUpDate(w http.ResponseWriter, r *http.Request) {
	s.addDate(w, r, s.service.Applications.AddFollowUpDate)
}

func (s *Server) addDate(w http.ResponseWriter, r *http.Request, add func(ctx context.Context, id, date string) error) {
	var req DateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Date == "" {
		fail(w, r, badRequest("date is required"))
		return
	}

	id := urlParam(r, "id")
	if err := add(r.Context(), id, req.Date); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"applicationId": id, "date": req.Date})
}

func (s *Server) handleCountApplications(w http.ResponseWriter, r *http.Request) {
	var (
		n   int
		err error
	)
	if raw := r.URL.Query().Get("status"); raw != "" {
		var status models.ApplicationStatus
		if status, err = parseStatus(raw); err == nil {
			n, err = s.service.Applications.CountByStatus(r.Context(), status)
		}
	} else {
		n, err = s.service.Applications.Count(r.Context())
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// parseStatus accepts a status name, case-insensitive, or its number.
func parseStatus(raw string) (models.ApplicationStatus, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if s := models.ApplicationStatus(n); s.Valid() {
			return s, nil
		}
		return 0, badRequest("unknown status %d", n)
	}
	for _, s := range models.AllStatuses() {
		if strings.EqualFold(s.String(), raw) {
			return s, nil
		}
	}
	return 0, badRequest("unknown status %q", raw)
}
