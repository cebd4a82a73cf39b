package practice

import (
	"math"
	"time"

	"github.com/vytor/nclexnav/internal/models"
)

// Controls reports which navigation actions are currently enabled.
type Controls struct {
	CanSelectMode bool   `json:"can_select_mode"`
	CanStart      bool   `json:"can_start"`
	CanAnswer     bool   `json:"can_answer"`
	CanAdvance    bool   `json:"can_advance"`
	CanRetreat    bool   `json:"can_retreat"`
	CanFinish     bool   `json:"can_finish"`
	DisabledHint  string `json:"disabled_hint,omitempty"`
}

// State is a point-in-time copy of the session.
type State struct {
	SessionID        string        `json:"session_id"`
	AttemptID        string        `json:"attempt_id,omitempty"`
	View             View          `json:"view"`
	Mode             Mode          `json:"mode,omitempty"`
	Custom           *CustomConfig `json:"custom,omitempty"`
	EstimatedMinutes int           `json:"estimated_minutes,omitempty"`
	TotalQuestions   int           `json:"total_questions"`
	CurrentQuestion  int           `json:"current_question"`
	TimeRemaining    *int          `json:"time_remaining"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
	Answers          Answers       `json:"answers"`
	Flagged          []int         `json:"flagged"`
	Results          *Results      `json:"results,omitempty"`
	Controls         Controls      `json:"controls"`
}

// Feedback is revealed once a question is answered in modes that show rationales.
type Feedback struct {
	Correct       bool               `json:"correct"`
	CorrectAnswer string             `json:"correct_answer"`
	Rationale     string             `json:"rationale"`
	StudyLinks    []models.StudyLink `json:"study_links"`
}

// QuestionView is the current question as presented to the learner.
type QuestionView struct {
	Sequence        int             `json:"sequence"`
	Total           int             `json:"total"`
	Mode            Mode            `json:"mode"`
	Question        models.Question `json:"question"`
	Flagged         bool            `json:"flagged"`
	SelectedAnswer  string          `json:"selected_answer,omitempty"`
	Answered        bool            `json:"answered"`
	ProgressPercent int             `json:"progress_percent"`
	TimeRemaining   *int            `json:"time_remaining"`
	Feedback        *Feedback       `json:"feedback,omitempty"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SessionID:       s.id,
		AttemptID:       s.attemptID,
		View:            s.view,
		Mode:            s.mode,
		TotalQuestions:  s.total,
		CurrentQuestion: s.current,
		Answers:         s.answers.Clone(),
		Flagged:         s.flags.Sorted(),
		Controls:        s.controlsLocked(),
	}
	if s.custom != nil {
		st.Custom = s.custom.clone()
		st.EstimatedMinutes = s.custom.EstimatedMinutes()
	}
	if s.timeRemaining != nil {
		st.TimeRemaining = intPtr(*s.timeRemaining)
	}
	if !s.startedAt.IsZero() {
		t := s.startedAt
		st.StartedAt = &t
	}
	if s.results != nil {
		res := *s.results
		st.Results = &res
	}
	return st
}

// Question returns the current question, or ErrWrongView outside the question view.
func (s *Session) Question() (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.view != ViewQuestion {
		return QuestionView{}, ErrWrongView
	}

	q := s.deck[s.current-1]
	selected, answered := s.answers[s.current]
	qv := QuestionView{
		Sequence:        s.current,
		Total:           s.total,
		Mode:            s.mode,
		Question:        q,
		Flagged:         s.flags.Has(s.current),
		SelectedAnswer:  selected,
		Answered:        answered,
		ProgressPercent: int(math.Round(float64(s.current) / float64(s.total) * 100)),
	}
	if s.timeRemaining != nil {
		qv.TimeRemaining = intPtr(*s.timeRemaining)
	}
	if answered && s.showsFeedbackLocked() {
		qv.Feedback = &Feedback{
			Correct:       selected == q.CorrectAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Rationale:     q.Rationale,
			StudyLinks:    q.StudyLinks,
		}
	}
	return qv, nil
}

func (s *Session) controlsLocked() Controls {
	c := Controls{CanSelectMode: s.view == ViewModeSelect}
	switch s.view {
	case ViewModeSelect:
		c.CanStart = s.mode != ""
		if s.mode == "" {
			c.DisabledHint = ErrNoMode.Error()
		}
	case ViewCustomConfig:
		c.CanStart = s.custom != nil && s.custom.Validate() == nil
		if !c.CanStart {
			c.DisabledHint = ErrNoCategory.Error()
		}
	case ViewResults:
		c.CanStart = true
	case ViewQuestion:
		answered := s.answers.Has(s.current)
		c.CanAnswer = !(answered && s.showsFeedbackLocked())
		c.CanAdvance = s.mode != ModeTutor || answered
		c.CanRetreat = s.current > 1
		c.CanFinish = true
		if !c.CanAdvance {
			c.DisabledHint = ErrAnswerRequired.Error()
		}
	}
	return c
}
