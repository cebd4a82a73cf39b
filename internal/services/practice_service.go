package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/nclexnav/internal/content"
	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/jobs"
	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/metrics"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/practice"
)

// PracticeService drives one live practice session per profile.
type PracticeService interface {
	Categories(ctx context.Context) []models.Category
	State(ctx context.Context, profileID int64) practice.State
	SelectMode(ctx context.Context, profileID int64, mode string) (practice.State, error)
	OpenCustomBuilder(ctx context.Context, profileID int64) (practice.State, error)
	// Start begins an attempt; from the results view a nil cfg retakes the
	// previous test.
	Start(ctx context.Context, profileID int64, cfg *practice.CustomConfig) (practice.State, error)
	CurrentQuestion(ctx context.Context, profileID int64) (practice.QuestionView, error)
	Answer(ctx context.Context, profileID int64, optionID string) (practice.QuestionView, error)
	Next(ctx context.Context, profileID int64) (practice.State, error)
	Previous(ctx context.Context, profileID int64) (practice.State, error)
	ToggleFlag(ctx context.Context, profileID int64, n int) (bool, error)
	Finish(ctx context.Context, profileID int64) (*practice.Results, error)
	Exit(ctx context.Context, profileID int64) (practice.State, error)
	OpenHistory(ctx context.Context, profileID int64) (practice.State, error)
	CloseHistory(ctx context.Context, profileID int64) (practice.State, error)

	// Discard drops the profile's session without recording it.
	Discard(profileID int64)
	// EvictIdle ends sessions untouched since now-idle and returns how many.
	EvictIdle(ctx context.Context, now time.Time) int
	// RunJanitor calls EvictIdle every interval until ctx is done.
	RunJanitor(ctx context.Context, interval time.Duration)
	Close()
}

// PracticeOption tunes the sessions a PracticeService creates.
type PracticeOption func(*practiceService)

func WithSessionOptions(opts ...practice.Option) PracticeOption {
	return func(s *practiceService) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

func WithIdleTimeout(d time.Duration) PracticeOption {
	return func(s *practiceService) { s.idle = d }
}

type practiceService struct {
	catalog     *content.Catalog
	bank        *practice.Bank
	queue       jobs.JobQueue
	metrics     *metrics.Metrics
	idle        time.Duration
	sessionOpts []practice.Option

	mu       sync.Mutex
	sessions map[int64]*practice.Session
}

// NewPracticeService creates a new PracticeService. m may be nil.
func NewPracticeService(catalog *content.Catalog, queue jobs.JobQueue, m *metrics.Metrics, opts ...PracticeOption) PracticeService {
	s := &practiceService{
		catalog:  catalog,
		bank:     practice.NewBank(catalog.Questions),
		queue:    queue,
		metrics:  m,
		idle:     2 * time.Hour,
		sessions: map[int64]*practice.Session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *practiceService) Categories(ctx context.Context) []models.Category {
	out := make([]models.Category, len(s.catalog.Categories))
	copy(out, s.catalog.Categories)
	return out
}

func (s *practiceService) session(ctx context.Context, profileID int64) *practice.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[profileID]; ok {
		return sess
	}

	opts := append([]practice.Option{
		practice.WithFinishHook(func(res practice.Results) { s.record(profileID, res) }),
		practice.WithAbandonHook(func(res practice.Results) { s.record(profileID, res) }),
	}, s.sessionOpts...)
	sess := practice.NewSession(s.bank, opts...)
	s.sessions[profileID] = sess
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
	logger.FromContext(ctx).Debug("created practice session %s for profile %d", sess.ID(), profileID)
	return sess
}

// record runs from session hooks, which may fire on the timer goroutine, so
// it must not block.
func (s *practiceService) record(profileID int64, res practice.Results) {
	log := logger.Default().WithPrefix("practice").WithFields(map[string]any{
		"profile_id": profileID,
		"attempt_id": res.AttemptID,
	})
	if s.metrics != nil {
		s.metrics.SessionsFinished.WithLabelValues(string(res.Mode), res.Status).Inc()
	}
	if err := s.queue.EnqueueResult(profileID, res); err != nil {
		log.Error("failed to enqueue %s result: %v", res.Status, err)
		if s.metrics != nil {
			s.metrics.ResultsRecorded.WithLabelValues("dropped").Inc()
		}
		return
	}
	log.Info("%s attempt queued: score=%d, timed_out=%t", res.Status, res.OverallScore, res.TimedOut)
}

func (s *practiceService) State(ctx context.Context, profileID int64) practice.State {
	return s.session(ctx, profileID).State()
}

func (s *practiceService) SelectMode(ctx context.Context, profileID int64, mode string) (practice.State, error) {
	logger.FromContext(ctx).Debug("selecting mode: profile_id=%d, mode=%s", profileID, mode)
	m, err := practice.ParseMode(mode)
	if err != nil {
		return practice.State{}, practiceError(err)
	}
	sess := s.session(ctx, profileID)
	if err := sess.SelectMode(m); err != nil {
		return practice.State{}, practiceError(err)
	}
	return sess.State(), nil
}

func (s *practiceService) OpenCustomBuilder(ctx context.Context, profileID int64) (practice.State, error) {
	sess := s.session(ctx, profileID)
	if err := sess.OpenCustomBuilder(); err != nil {
		return practice.State{}, practiceError(err)
	}
	return sess.State(), nil
}

func (s *practiceService) Start(ctx context.Context, profileID int64, cfg *practice.CustomConfig) (practice.State, error) {
	log := logger.FromContext(ctx)
	if cfg != nil {
		for _, id := range cfg.Categories {
			if _, ok := s.catalog.Category(id); !ok {
				log.Debug("start refused: profile_id=%d: unknown category %q", profileID, id)
				return practice.State{}, errors.NewValidationError("categories", "unknown category: "+id)
			}
		}
	}
	sess := s.session(ctx, profileID)
	if err := sess.Start(cfg); err != nil {
		log.Debug("start refused: profile_id=%d: %v", profileID, err)
		return practice.State{}, practiceError(err)
	}
	st := sess.State()
	log.Info("practice test started: profile_id=%d, mode=%s, attempt_id=%s, questions=%d",
		profileID, st.Mode, st.AttemptID, st.TotalQuestions)
	if s.metrics != nil {
		s.metrics.SessionsStarted.WithLabelValues(string(st.Mode)).Inc()
	}
	return st, nil
}

func (s *practiceService) CurrentQuestion(ctx context.Context, profileID int64) (practice.QuestionView, error) {
	qv, err := s.session(ctx, profileID).Question()
	if err != nil {
		return practice.QuestionView{}, practiceError(err)
	}
	return qv, nil
}

func (s *practiceService) Answer(ctx context.Context, profileID int64, optionID string) (practice.QuestionView, error) {
	sess := s.session(ctx, profileID)
	if err := sess.RecordAnswer(optionID); err != nil {
		return practice.QuestionView{}, practiceError(err)
	}
	qv, err := sess.Question()
	if err != nil {
		// The timer may have ended the attempt in between.
		return practice.QuestionView{}, practiceError(err)
	}
	return qv, nil
}

func (s *practiceService) Next(ctx context.Context, profileID int64) (practice.State, error) {
	return s.step(ctx, profileID, (*practice.Session).Advance)
}

func (s *practiceService) Previous(ctx context.Context, profileID int64) (practice.State, error) {
	return s.step(ctx, profileID, (*practice.Session).Retreat)
}

func (s *practiceService) Exit(ctx context.Context, profileID int64) (practice.State, error) {
	return s.step(ctx, profileID, (*practice.Session).Exit)
}

func (s *practiceService) OpenHistory(ctx context.Context, profileID int64) (practice.State, error) {
	return s.step(ctx, profileID, (*practice.Session).OpenHistory)
}

func (s *practiceService) CloseHistory(ctx context.Context, profileID int64) (practice.State, error) {
	return s.step(ctx, profileID, (*practice.Session).CloseHistory)
}

func (s *practiceService) step(ctx context.Context, profileID int64, action func(*practice.Session) error) (practice.State, error) {
	sess := s.session(ctx, profileID)
	if err := action(sess); err != nil {
		return practice.State{}, practiceError(err)
	}
	return sess.State(), nil
}

func (s *practiceService) ToggleFlag(ctx context.Context, profileID int64, n int) (bool, error) {
	flagged, err := s.session(ctx, profileID).ToggleFlag(n)
	if err != nil {
		return false, practiceError(err)
	}
	return flagged, nil
}

func (s *practiceService) Finish(ctx context.Context, profileID int64) (*practice.Results, error) {
	res, err := s.session(ctx, profileID).Finish()
	if err != nil {
		return nil, practiceError(err)
	}
	logger.FromContext(ctx).Info("practice test finished: profile_id=%d, attempt_id=%s, score=%d",
		profileID, res.AttemptID, res.OverallScore)
	return res, nil
}

func (s *practiceService) Discard(profileID int64) {
	s.mu.Lock()
	sess, ok := s.sessions[profileID]
	delete(s.sessions, profileID)
	s.updateGaugeLocked()
	s.mu.Unlock()
	if ok {
		sess.Close()
	}
}

func (s *practiceService) EvictIdle(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.idle)

	s.mu.Lock()
	var stale []*practice.Session
	for id, sess := range s.sessions {
		if sess.LastActive().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.updateGaugeLocked()
	s.mu.Unlock()

	// Exit records an attempt left mid-test as abandoned.
	for _, sess := range stale {
		_ = sess.Exit()
		sess.Close()
	}
	if len(stale) > 0 {
		logger.FromContext(ctx).Info("evicted %d idle practice sessions", len(stale))
	}
	return len(stale)
}

func (s *practiceService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.EvictIdle(ctx, now)
		}
	}
}

// Close stops every session timer. Attempts in progress are not recorded.
func (s *practiceService) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = map[int64]*practice.Session{}
	s.updateGaugeLocked()
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}

func (s *practiceService) updateGaugeLocked() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
}
