package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/rezz/internal/core"
	"github.com/JonMunkholm/rezz/internal/models"
)

// ListingStatusRequest is the body of PATCH /api/listings/{jobId}/status.
type ListingStatusRequest struct {
	Active bool `json:"active"`
}

// SalaryRequest is the body of PATCH /api/listings/{jobId}/salary. An
// empty currency stores USD.
type SalaryRequest struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.ListingFilter{
		Company:    q.Get("company"),
		Location:   q.Get("location"),
		ActiveOnly: q.Get("active") == "true",
	}
	if v := q.Get("type"); v != "" {
		t, ok := models.LookupJobType(v)
		if !ok {
			fail(w, r, badRequest("unknown job type %q", v))
			return
		}
		f.Type = t
	}
	if v := q.Get("level"); v != "" {
		l, ok := models.LookupExperienceLevel(v)
		if !ok {
			fail(w, r, badRequest("unknown experience level %q", v))
			return
		}
		f.Level = l
	}

	var err error
	if f.MinSalary, err = floatQuery(r, "min"); err != nil {
		fail(w, r, err)
		return
	}
	if f.MaxSalary, err = floatQuery(r, "max"); err != nil {
		fail(w, r, err)
		return
	}

	listings, err := s.service.Listings.Find(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// handleCreateListing inserts the body over the NewJobListing defaults:
// on-site, full-time, entry level, USD and active unless the body says
// otherwise.
func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	l := models.NewJobListing("", "", "")
	if err := decodeJSON(w, r, l); err != nil {
		fail(w, r, err)
		return
	}
	if l.SalaryCurrency == "" {
		l.SalaryCurrency = models.DefaultCurrency
	}

	if _, err := s.service.Listings.Create(r.Context(), l); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Listings.GetByJobID(r.Context(), urlParam(r, "jobId"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	var l models.JobListing
	if err := decodeJSON(w, r, &l); err != nil {
		fail(w, r, err)
		return
	}
	l.JobID = urlParam(r, "jobId")

	if err := s.service.Listings.Update(r.Context(), &l); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Listings.Delete(r.Context(), urlParam(r, "jobId")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	var req ListingStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	jobID := urlParam(r, "jobId")
	if err := s.service.Listings.UpdateStatus(r.Context(), jobID, req.Active); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobId": jobID, "active": req.Active})
}

func (s *Server) handleUpdateListingSalary(w http.ResponseWriter, r *http.Request) {
	var req SalaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Max > 0 && req.Min > req.Max {
		fail(w, r, badRequest("min (%v) exceeds max (%v)", req.Min, req.Max))
		return
	}

	jobID := urlParam(r, "jobId")
	if err := s.service.Listings.UpdateSalary(r.Context(), jobID, req.Min, req.Max, req.Currency); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobId": jobID, "min": req.Min, "max": req.Max})
}

// handleCountListings counts all listings, active ones with ?active=true,
// or one company's with ?company=.
func (s *Server) handleCountListings(w http.ResponseWriter, r *http.Request) {
	var (
		n   int
		err error
	)
	switch q := r.URL.Query(); {
	case q.Get("active") == "true":
		n, err = s.service.Listings.CountActive(r.Context())
	case q.Get("company") != "":
		n, err = s.service.Listings.CountByCompany(r.Context(), q.Get("company"))
	default:
		n, err = s.service.Listings.Count(r.Context())
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// floatQuery parses an optional non-negative number; absent is 0.
func floatQuery(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0, badRequest("%s must be a non-negative number, got %q", name, raw)
	}
	return f, nil
}
