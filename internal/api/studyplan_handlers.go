package api

import (
	"net/http"
	"time"

	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/models"
)

func (s *Server) handleStudyPlans(w http.ResponseWriter, r *http.Request) {
	state, err := s.StudyPlanService.GetState(r.Context(), profileID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var a models.Assessment
	if err := decodeJSON(w, r, &a); err != nil {
		handleError(w, r, err)
		return
	}
	state, err := s.StudyPlanService.SubmitAssessment(r.Context(), profileID(r), a)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleSelectPlan(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	plan, err := s.StudyPlanService.SelectPlan(r.Context(), profileID(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

func (s *Server) handleCustomizePlan(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var c models.PlanCustomization
	if err := decodeJSON(w, r, &c); err != nil {
		handleError(w, r, err)
		return
	}
	plan, err := s.StudyPlanService.CustomizePlan(r.Context(), profileID(r), id, c)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, plan)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	plan, err := s.StudyPlanService.ToggleTask(r.Context(), profileID(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

func (s *Server) handlePlanProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.StudyPlanService.GetProgress(r.Context(), profileID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

// handleCalendar defaults to the current month.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, err := intQuery(r, "year", now.Year())
	if err != nil {
		handleError(w, r, err)
		return
	}
	month, err := intQuery(r, "month", int(now.Month()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	cal, err := s.StudyPlanService.GetCalendar(r.Context(), profileID(r), year, time.Month(month))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cal)
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	cd, err := s.StudyPlanService.Countdown(r.Context(), profileID(r), r.URL.Query().Get("target"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cd == nil {
		handleError(w, r, errors.NewNotFoundError("exam date", profileID(r)))
		return
	}
	writeJSON(w, r, http.StatusOK, cd)
}
