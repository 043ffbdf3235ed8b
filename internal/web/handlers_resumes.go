package web

import (
	"net/http"

	"github.com/JonMunkholm/rezz/internal/models"
)

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	var (
		resumes []models.Resume
		err     error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		resumes, err = s.service.Resumes.GetByName(r.Context(), name)
	} else {
		resumes, err = s.service.Resumes.GetAll(r.Context())
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resumes)
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var res models.Resume
	if err := decodeJSON(w, r, &res); err != nil {
		fail(w, r, err)
		return
	}

	if _, err := s.service.Resumes.Create(r.Context(), &res); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := s.service.Resumes.GetByID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetResumeByEmail(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Resumes.GetByEmail(r.Context(), urlParam(r, "email"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var res models.Resume
	if err := decodeJSON(w, r, &res); err != nil {
		fail(w, r, err)
		return
	}
	res.ID = id

	if err := s.service.Resumes.Update(r.Context(), &res); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.service.Resumes.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCountResumes(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.Resumes.Count(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}
