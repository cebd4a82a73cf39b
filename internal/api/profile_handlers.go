package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/logger"
)

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.ProfileService.ListProfiles(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profiles)
}

type createProfileRequest struct {
	Username string `json:"username"`
}

// handleCreateProfile creates a profile and selects it.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.CreateProfile(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("profile %d created", profile.ID)
	setProfileCookie(w, profile.ID)
	writeJSON(w, r, http.StatusCreated, profile)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setProfileCookie(w, profile.ID)
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ProfileService.DeleteProfile(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	s.PracticeService.Discard(id)

	if c, err := r.Cookie(profileCookieName); err == nil && c.Value == chi.URLParam(r, "id") {
		clearProfileCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentProfile(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	if profile == nil {
		handleError(w, r, errors.NewUnauthorizedError("select a profile first"))
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}
