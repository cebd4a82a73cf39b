package practice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/nclexnav/internal/models"
)

// Actions is the capability set a presentation layer drives a session with.
type Actions interface {
	SelectMode(mode Mode) error
	OpenCustomBuilder() error
	Start(cfg *CustomConfig) error
	RecordAnswer(optionID string) error
	Advance() error
	Retreat() error
	ToggleFlag(n int) (bool, error)
	Finish() (*Results, error)
	Exit() error
	OpenHistory() error
	CloseHistory() error
	State() State
}

var _ Actions = (*Session)(nil)

// Hook receives the results of an attempt once it has ended.
type Hook func(Results)

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithTicker(f TickerFactory) Option {
	return func(s *Session) { s.newTicker = f }
}

// WithTimedLimit overrides the time limit of the timed mode, in seconds.
func WithTimedLimit(seconds int) Option {
	return func(s *Session) { s.timedLimit = seconds }
}

func WithFinishHook(h Hook) Option {
	return func(s *Session) { s.onFinish = h }
}

func WithAbandonHook(h Hook) Option {
	return func(s *Session) { s.onAbandon = h }
}

// Session is one learner's practice-test page: the view controller, the
// current attempt and its answer and flag registries.
type Session struct {
	mu sync.Mutex

	id         string
	bank       *Bank
	now        func() time.Time
	newTicker  TickerFactory
	timedLimit int
	onFinish   Hook
	onAbandon  Hook

	view          View
	attemptID     string
	mode          Mode
	custom        *CustomConfig
	total         int
	timeRemaining *int
	current       int
	startedAt     time.Time
	answers       Answers
	flags         FlagSet
	deck          []models.Question
	results       *Results
	lastActive    time.Time

	stopTimer context.CancelFunc
	timerGen  uint64
}

func NewSession(bank *Bank, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		bank:       bank,
		now:        time.Now,
		newTicker:  NewTicker,
		timedLimit: TimedLimitSeconds,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	s.lastActive = s.now()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) SelectMode(mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.view != ViewModeSelect {
		return fmt.Errorf("%w: %s", ErrWrongView, s.view)
	}
	switch mode {
	case ModeTutor, ModeTimed, ModeCustom:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	s.mode = mode
	return nil
}

// OpenCustomBuilder moves from mode selection to the custom quiz builder.
func (s *Session) OpenCustomBuilder() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.view != ViewModeSelect {
		return fmt.Errorf("%w: %s", ErrWrongView, s.view)
	}
	s.mode = ModeCustom
	s.view = ViewCustomConfig
	return nil
}

// Start begins a new attempt. From the results view it is a retake with the
// same mode and configuration; cfg may then be nil.
func (s *Session) Start(cfg *CustomConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	switch s.view {
	case ViewModeSelect, ViewCustomConfig, ViewResults:
	default:
		return fmt.Errorf("%w: %s", ErrWrongView, s.view)
	}
	if s.mode == "" {
		return ErrNoMode
	}

	total := 0
	var limit *int
	custom := s.custom
	switch s.mode {
	case ModeTutor:
		total = TutorQuestionCount
	case ModeTimed:
		total = TimedQuestionCount
		limit = intPtr(s.timedLimit)
	case ModeCustom:
		if cfg != nil {
			custom = cfg.clone()
		}
		if custom == nil {
			return ErrCustomConfig
		}
		if err := custom.Validate(); err != nil {
			return err
		}
		total = custom.QuestionCount
		if custom.TimeLimitSeconds != nil {
			limit = intPtr(*custom.TimeLimitSeconds)
		}
	}

	deck, err := s.bank.Deck(total, customFilter(s.mode, custom))
	if err != nil {
		return err
	}

	s.cancelTimerLocked()
	s.attemptID = uuid.NewString()
	s.custom = custom
	s.total = total
	s.timeRemaining = limit
	s.current = 1
	s.startedAt = s.now()
	s.answers = Answers{}
	s.flags = FlagSet{}
	s.deck = deck
	s.results = nil
	s.view = ViewQuestion

	if s.timeRemaining != nil && *s.timeRemaining > 0 {
		s.startTimerLocked()
	}
	return nil
}

func customFilter(mode Mode, cfg *CustomConfig) *CustomConfig {
	if mode != ModeCustom {
		return nil
	}
	return cfg
}

// RecordAnswer stores optionID for the current question without advancing.
func (s *Session) RecordAnswer(optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.view != ViewQuestion {
		return fmt.Errorf("%w: %s", ErrWrongView, s.view)
	}
	q := s.deck[s.current-1]
	if !q.HasOption(optionID) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, optionID)
	}
	if s.answers.Has(s.current) && s.showsFeedbackLocked() {
		return ErrAnswerLocked
	}
	s.answers.Record(s.current, optionID)
	return nil
}

// Advance moves to the next question, or ends the attempt on the last one.
func (s *Session) Advance() error {
	s.mu.Lock()
	if err := s.checkQuestionLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.mode == ModeTutor && !s.answers.Has(s.current) {
		s.mu.Unlock()
		return ErrAnswerRequired
	}
	if s.current < s.total {
		s.current++
		s.mu.Unlock()
		return nil
	}
	res := s.terminateLocked(false)
	hook := s.onFinish
	s.mu.Unlock()

	if hook != nil {
		hook(res)
	}
	return nil
}

// Retreat moves to the previous question; on the first question it does nothing.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkQuestionLocked(); err != nil {
		return err
	}
	if s.current > 1 {
		s.current--
	}
	return nil
}

// ToggleFlag flips the review flag of question n and returns its new state.
func (s *Session) ToggleFlag(n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkQuestionLocked(); err != nil {
		return false, err
	}
	if n < 1 || n > s.total {
		return false, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, n, s.total)
	}
	return s.flags.Toggle(n), nil
}

// Finish ends the attempt now. Calling it again from the results view
// returns the same results.
func (s *Session) Finish() (*Results, error) {
	s.mu.Lock()
	s.touchLocked()
	if s.view == ViewResults && s.results != nil {
		res := *s.results
		s.mu.Unlock()
		return &res, nil
	}
	if s.view != ViewQuestion {
		view := s.view
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrWrongView, view)
	}
	res := s.terminateLocked(false)
	hook := s.onFinish
	s.mu.Unlock()

	if hook != nil {
		hook(res)
	}
	return &res, nil
}

// Exit returns to mode selection. Leaving an attempt in progress abandons it.
func (s *Session) Exit() error {
	s.leave(ViewModeSelect)
	return nil
}

// OpenHistory is reachable from every view.
func (s *Session) OpenHistory() error {
	s.leave(ViewHistory)
	return nil
}

func (s *Session) CloseHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.view != ViewHistory {
		return fmt.Errorf("%w: %s", ErrWrongView, s.view)
	}
	s.resetLocked()
	return nil
}

// Close stops the timer without recording anything.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
}

func (s *Session) leave(to View) {
	s.mu.Lock()
	s.touchLocked()
	var (
		abandoned *Results
		hook      = s.onAbandon
	)
	if s.view == ViewQuestion {
		res := s.resultsLocked(models.TestStatusAbandoned, false)
		abandoned = &res
	}
	s.resetLocked()
	s.view = to
	s.mu.Unlock()

	if abandoned != nil && hook != nil {
		hook(*abandoned)
	}
}

func (s *Session) checkQuestionLocked() error {
	s.touchLocked()
	if s.view != ViewQuestion {
		return fmt.Errorf("%w: %s", ErrWrongView, s.view)
	}
	return nil
}

func (s *Session) showsFeedbackLocked() bool {
	switch s.mode {
	case ModeTutor:
		return true
	case ModeCustom:
		return s.custom != nil && s.custom.ShowRationales
	}
	return false
}

// terminateLocked must only be called from the question view, so an attempt
// ends at most once.
func (s *Session) terminateLocked(timedOut bool) Results {
	s.cancelTimerLocked()
	res := s.resultsLocked(models.TestStatusCompleted, timedOut)
	s.results = &res
	s.view = ViewResults
	return res
}

// resetLocked restores the defaults of the mode-select view. The custom
// configuration survives so the builder reopens with the last choices.
func (s *Session) resetLocked() {
	s.cancelTimerLocked()
	s.view = ViewModeSelect
	s.attemptID = ""
	s.mode = ""
	s.total = 0
	s.timeRemaining = nil
	s.current = 1
	s.startedAt = time.Time{}
	s.answers = Answers{}
	s.flags = FlagSet{}
	s.deck = nil
	s.results = nil
}

func (s *Session) touchLocked() { s.lastActive = s.now() }

func intPtr(v int) *int { return &v }
