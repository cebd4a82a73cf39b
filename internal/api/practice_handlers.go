package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/practice"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.PracticeService.Categories(r.Context()))
}

func (s *Server) handlePracticeState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.PracticeService.State(r.Context(), profileID(r)))
}

type selectModeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	var req selectModeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	st, err := s.PracticeService.SelectMode(r.Context(), profileID(r), req.Mode)
	respondState(w, r, st, err)
}

func (s *Server) handleOpenCustomBuilder(w http.ResponseWriter, r *http.Request) {
	st, err := s.PracticeService.OpenCustomBuilder(r.Context(), profileID(r))
	respondState(w, r, st, err)
}

// startRequest carries the custom quiz builder's choices. Standard modes and
// retakes send an empty body.
type startRequest struct {
	Categories         []string `json:"categories"`
	Difficulty         string   `json:"difficulty"`
	QuestionCount      int      `json:"question_count"`
	TimeLimitMinutes   *int     `json:"time_limit_minutes"`
	ShowRationales     *bool    `json:"show_rationales"`
	AdaptiveDifficulty bool     `json:"adaptive_difficulty"`
}

func (req startRequest) empty() bool {
	return len(req.Categories) == 0 && req.Difficulty == "" && req.QuestionCount == 0 &&
		req.TimeLimitMinutes == nil && req.ShowRationales == nil && !req.AdaptiveDifficulty
}

func (req startRequest) config() (*practice.CustomConfig, error) {
	cfg := practice.DefaultCustomConfig()
	cfg.Categories = req.Categories
	cfg.AdaptiveDifficulty = req.AdaptiveDifficulty
	if req.Difficulty != "" {
		cfg.Difficulty = req.Difficulty
	}
	if req.QuestionCount != 0 {
		if !containsInt(practice.QuestionCountChoices, req.QuestionCount) {
			return nil, errors.NewValidationError("question_count", "must be one of 10, 25, 50, 75, 100")
		}
		cfg.QuestionCount = req.QuestionCount
	}
	if req.TimeLimitMinutes != nil && *req.TimeLimitMinutes != 0 {
		if !containsInt(practice.TimeLimitMinutesChoices, *req.TimeLimitMinutes) {
			return nil, errors.NewValidationError("time_limit_minutes", "must be unlimited (0), 30, 60, 90 or 120")
		}
		seconds := *req.TimeLimitMinutes * 60
		cfg.TimeLimitSeconds = &seconds
	}
	if req.ShowRationales != nil {
		cfg.ShowRationales = *req.ShowRationales
	}
	return &cfg, nil
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	var cfg *practice.CustomConfig
	if !req.empty() {
		var err error
		if cfg, err = req.config(); err != nil {
			handleError(w, r, err)
			return
		}
	}
	st, err := s.PracticeService.Start(r.Context(), profileID(r), cfg)
	respondState(w, r, st, err)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	qv, err := s.PracticeService.CurrentQuestion(r.Context(), profileID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, qv)
}

type answerRequest struct {
	OptionID string `json:"option_id"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.OptionID == "" {
		handleError(w, r, errors.NewValidationError("option_id", "required"))
		return
	}
	qv, err := s.PracticeService.Answer(r.Context(), profileID(r), req.OptionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, qv)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	st, err := s.PracticeService.Next(r.Context(), profileID(r))
	respondState(w, r, st, err)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	st, err := s.PracticeService.Previous(r.Context(), profileID(r))
	respondState(w, r, st, err)
}

func (s *Server) handleToggleFlag(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid question number"))
		return
	}
	flagged, err := s.PracticeService.ToggleFlag(r.Context(), profileID(r), n)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"question": n, "flagged": flagged})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	res, err := s.PracticeService.Finish(r.Context(), profileID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	st, err := s.PracticeService.Exit(r.Context(), profileID(r))
	respondState(w, r, st, err)
}

func (s *Server) handleOpenHistory(w http.ResponseWriter, r *http.Request) {
	st, err := s.PracticeService.OpenHistory(r.Context(), profileID(r))
	respondState(w, r, st, err)
}

func (s *Server) handleCloseHistory(w http.ResponseWriter, r *http.Request) {
	st, err := s.PracticeService.CloseHistory(r.Context(), profileID(r))
	respondState(w, r, st, err)
}

func respondState(w http.ResponseWriter, r *http.Request, st practice.State, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
