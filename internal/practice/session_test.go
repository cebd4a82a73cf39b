package practice_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/practice"
)

func sampleQuestions() []models.Question {
	opts := []models.Option{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}
	return []models.Question{
		{ID: 1, Difficulty: "Medium", CategoryID: "physiological", Category: "Physiological Integrity", Options: opts, CorrectAnswer: "B", Rationale: "VT"},
		{ID: 2, Difficulty: "Easy", CategoryID: "safe-care", Category: "Safe and Effective Care Environment", Options: opts, CorrectAnswer: "B"},
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// manualTicker delivers ticks only when the test sends them.
type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.once.Do(func() { close(t.stopped) }) }

func (t *manualTicker) factory(time.Duration) practice.Ticker { return t }

func twoQuestionConfig() *practice.CustomConfig {
	return &practice.CustomConfig{
		Categories:    []string{"physiological", "safe-care"},
		Difficulty:    practice.DifficultyMixed,
		QuestionCount: 2,
	}
}

func newSession(t *testing.T, opts ...practice.Option) *practice.Session {
	t.Helper()
	s := practice.NewSession(practice.NewBank(sampleQuestions()), opts...)
	t.Cleanup(s.Close)
	return s
}

func startCustom(t *testing.T, s *practice.Session, cfg *practice.CustomConfig) {
	t.Helper()
	require.NoError(t, s.SelectMode(practice.ModeCustom))
	require.NoError(t, s.Start(cfg))
}

func TestStartTutorDefaults(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SelectMode(practice.ModeTutor))
	require.NoError(t, s.Start(nil))

	st := s.State()
	assert.Equal(t, practice.ViewQuestion, st.View)
	assert.Equal(t, 50, st.TotalQuestions)
	assert.Equal(t, 1, st.CurrentQuestion)
	assert.Nil(t, st.TimeRemaining)
	assert.Empty(t, st.Answers)
	assert.Empty(t, st.Flagged)
}

func TestStartTimedDefaults(t *testing.T) {
	tk := newManualTicker()
	s := newSession(t, practice.WithTicker(tk.factory))
	require.NoError(t, s.SelectMode(practice.ModeTimed))
	require.NoError(t, s.Start(nil))

	st := s.State()
	assert.Equal(t, 75, st.TotalQuestions)
	require.NotNil(t, st.TimeRemaining)
	assert.Equal(t, 4500, *st.TimeRemaining)
}

func TestStartRequiresMode(t *testing.T) {
	s := newSession(t)
	err := s.Start(nil)
	assert.ErrorIs(t, err, practice.ErrNoMode)
	assert.ErrorIs(t, err, practice.ErrDisabled)
	assert.Equal(t, practice.ViewModeSelect, s.State().View)
}

func TestStartCustomRequiresCategory(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.OpenCustomBuilder())

	cfg := practice.DefaultCustomConfig()
	err := s.Start(&cfg)
	assert.ErrorIs(t, err, practice.ErrNoCategory)
	assert.Equal(t, practice.ViewCustomConfig, s.State().View)

	cfg.Categories = []string{"safe-care"}
	require.NoError(t, s.Start(&cfg))
	assert.Equal(t, 25, s.State().TotalQuestions)
}

func TestStartResetsAnswersAndFlags(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, twoQuestionConfig())
	require.NoError(t, s.RecordAnswer("B"))
	_, err := s.ToggleFlag(2)
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	_, err = s.Finish()
	require.NoError(t, err)

	require.NoError(t, s.Start(nil))
	st := s.State()
	assert.Equal(t, practice.ViewQuestion, st.View)
	assert.Equal(t, 1, st.CurrentQuestion)
	assert.Empty(t, st.Answers)
	assert.Empty(t, st.Flagged)
	assert.Nil(t, st.Results)
}

func TestAdvanceTerminatesAtLastQuestion(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, twoQuestionConfig())

	require.NoError(t, s.Advance())
	assert.Equal(t, 2, s.State().CurrentQuestion)

	require.NoError(t, s.Advance())
	st := s.State()
	assert.Equal(t, practice.ViewResults, st.View)
	assert.Equal(t, 2, st.CurrentQuestion)
	require.NotNil(t, st.Results)
}

func TestPointerStaysInBounds(t *testing.T) {
	s := newSession(t)
	cfg := twoQuestionConfig()
	cfg.QuestionCount = 10
	startCustom(t, s, cfg)

	for i := 0; i < 9; i++ {
		require.NoError(t, s.Advance())
		st := s.State()
		assert.GreaterOrEqual(t, st.CurrentQuestion, 1)
		assert.LessOrEqual(t, st.CurrentQuestion, st.TotalQuestions)
	}
	for i := 0; i < 15; i++ {
		require.NoError(t, s.Retreat())
		assert.GreaterOrEqual(t, s.State().CurrentQuestion, 1)
	}
}

func TestRetreatAtFirstQuestionIsNoop(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, twoQuestionConfig())

	require.NoError(t, s.Retreat())
	assert.Equal(t, 1, s.State().CurrentQuestion)
}

func TestToggleFlagTwiceRestoresMembership(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, twoQuestionConfig())

	on, err := s.ToggleFlag(2)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []int{2}, s.State().Flagged)

	on, err = s.ToggleFlag(2)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, s.State().Flagged)

	_, err = s.ToggleFlag(3)
	assert.ErrorIs(t, err, practice.ErrOutOfRange)
}

func TestRecordAnswerOverwritesWithoutAdvancing(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, twoQuestionConfig())

	require.NoError(t, s.RecordAnswer("A"))
	require.NoError(t, s.RecordAnswer("C"))
	st := s.State()
	assert.Equal(t, 1, st.CurrentQuestion)
	assert.Equal(t, practice.Answers{1: "C"}, st.Answers)

	assert.ErrorIs(t, s.RecordAnswer("Z"), practice.ErrUnknownOption)
}

func TestTutorAdvanceRequiresAnswer(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SelectMode(practice.ModeTutor))
	require.NoError(t, s.Start(nil))

	assert.False(t, s.State().Controls.CanAdvance)
	err := s.Advance()
	assert.ErrorIs(t, err, practice.ErrAnswerRequired)
	assert.Equal(t, 1, s.State().CurrentQuestion)

	require.NoError(t, s.RecordAnswer("B"))
	assert.True(t, s.State().Controls.CanAdvance)
	require.NoError(t, s.Advance())
	assert.Equal(t, 2, s.State().CurrentQuestion)
}

func TestTutorFeedbackLocksAnswer(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SelectMode(practice.ModeTutor))
	require.NoError(t, s.Start(nil))
	require.NoError(t, s.RecordAnswer("A"))

	qv, err := s.Question()
	require.NoError(t, err)
	require.NotNil(t, qv.Feedback)
	assert.False(t, qv.Feedback.Correct)
	assert.Equal(t, "B", qv.Feedback.CorrectAnswer)
	assert.Equal(t, "VT", qv.Feedback.Rationale)

	assert.ErrorIs(t, s.RecordAnswer("B"), practice.ErrAnswerLocked)
}

func TestScoreAllCorrect(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, twoQuestionConfig())
	require.NoError(t, s.RecordAnswer("B"))
	require.NoError(t, s.Advance())
	require.NoError(t, s.RecordAnswer("B"))

	res, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, 100, res.OverallScore)
	assert.Equal(t, 2, res.CorrectAnswers)
	assert.Equal(t, 100, res.ReadinessScore)
	assert.Equal(t, 95, res.SuccessProbability)
	assert.Equal(t, "Excellent", res.PerformanceBadge)
}

func TestScoreWithoutAnswersIsZero(t *testing.T) {
	for _, n := range []int{1, 2, 25, 100} {
		s := newSession(t)
		cfg := twoQuestionConfig()
		cfg.QuestionCount = n
		startCustom(t, s, cfg)

		res, err := s.Finish()
		require.NoError(t, err)
		assert.Equal(t, 0, res.OverallScore, "total=%d", n)
		assert.Equal(t, "Needs Improvement", res.PerformanceBadge)
		assert.Equal(t, "Low", res.ConfidenceLevel)
	}
}

func TestFinishRecordsDurationAndIsIdempotent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	var calls int
	s := newSession(t,
		practice.WithClock(clock.Now),
		practice.WithFinishHook(func(practice.Results) { calls++ }),
	)
	startCustom(t, s, twoQuestionConfig())
	clock.Add(95 * time.Second)

	first, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, 95, first.DurationSeconds)

	second, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestBreakdownsFollowAnswers(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, twoQuestionConfig())
	require.NoError(t, s.RecordAnswer("B"))
	require.NoError(t, s.Advance())
	require.NoError(t, s.RecordAnswer("A"))

	res, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, 50, res.OverallScore)
	assert.Equal(t, []practice.Breakdown{
		{Name: "Physiological Integrity", Percentage: 100, Correct: 1, Total: 1},
		{Name: "Safe and Effective Care Environment", Percentage: 0, Correct: 0, Total: 1},
	}, res.CategoryBreakdown)
	assert.Equal(t, "Easy", res.DifficultyBreakdown[0].Name)
	assert.Equal(t, "Medium", res.DifficultyBreakdown[1].Name)
	require.NotEmpty(t, res.Recommendations)
	assert.Equal(t, "Safe and Effective Care Environment", res.Recommendations[0].Topic)
	assert.Equal(t, "High", res.Recommendations[0].Priority)
}

func TestCustomDeckFiltersByCategoryAndDifficulty(t *testing.T) {
	s := newSession(t)
	startCustom(t, s, &practice.CustomConfig{
		Categories:    []string{"physiological", "safe-care"},
		Difficulty:    practice.DifficultyEasy,
		QuestionCount: 3,
	})

	for i := 0; i < 3; i++ {
		qv, err := s.Question()
		require.NoError(t, err)
		assert.Equal(t, 2, qv.Question.ID)
		require.NoError(t, s.Advance())
	}
}

func TestViewTransitions(t *testing.T) {
	var abandoned []practice.Results
	s := newSession(t, practice.WithAbandonHook(func(r practice.Results) {
		abandoned = append(abandoned, r)
	}))

	require.NoError(t, s.OpenHistory())
	assert.Equal(t, practice.ViewHistory, s.State().View)
	assert.ErrorIs(t, s.Start(nil), practice.ErrWrongView)
	require.NoError(t, s.CloseHistory())
	assert.Equal(t, practice.ViewModeSelect, s.State().View)

	require.NoError(t, s.OpenCustomBuilder())
	assert.Equal(t, practice.ViewCustomConfig, s.State().View)
	require.NoError(t, s.Start(twoQuestionConfig()))
	assert.Equal(t, practice.ViewQuestion, s.State().View)
	assert.ErrorIs(t, s.SelectMode(practice.ModeTutor), practice.ErrWrongView)

	require.NoError(t, s.OpenHistory())
	assert.Equal(t, practice.ViewHistory, s.State().View)
	require.Len(t, abandoned, 1)
	assert.Equal(t, models.TestStatusAbandoned, abandoned[0].Status)

	require.NoError(t, s.CloseHistory())
	st := s.State()
	assert.Equal(t, practice.ViewModeSelect, st.View)
	assert.Empty(t, st.Mode)
}

func TestExitFromResultsReturnsToModeSelect(t *testing.T) {
	var abandoned int
	s := newSession(t, practice.WithAbandonHook(func(practice.Results) { abandoned++ }))
	startCustom(t, s, twoQuestionConfig())
	_, err := s.Finish()
	require.NoError(t, err)

	require.NoError(t, s.Exit())
	assert.Equal(t, practice.ViewModeSelect, s.State().View)
	assert.Zero(t, abandoned)
}

func TestTimerTerminatesExactlyOnce(t *testing.T) {
	tk := newManualTicker()
	var (
		mu      sync.Mutex
		results []practice.Results
	)
	s := newSession(t,
		practice.WithTicker(tk.factory),
		practice.WithTimedLimit(5),
		practice.WithFinishHook(func(r practice.Results) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, r)
		}),
	)
	require.NoError(t, s.SelectMode(practice.ModeTimed))
	require.NoError(t, s.Start(nil))

	for i := 0; i < 4; i++ {
		tk.ch <- time.Now()
	}
	assert.Eventually(t, func() bool {
		tr := s.State().TimeRemaining
		return tr != nil && *tr == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, practice.ViewQuestion, s.State().View)

	tk.ch <- time.Now()
	assert.Eventually(t, func() bool {
		return s.State().View == practice.ViewResults
	}, time.Second, 5*time.Millisecond)

	select {
	case <-tk.stopped:
	case <-time.After(time.Second):
		t.Fatal("ticker was not stopped")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	assert.True(t, results[0].TimedOut)
	assert.Equal(t, 0, *s.State().TimeRemaining)
}

func TestLeavingQuestionViewStopsTimer(t *testing.T) {
	tk := newManualTicker()
	var finished int
	s := newSession(t,
		practice.WithTicker(tk.factory),
		practice.WithFinishHook(func(practice.Results) { finished++ }),
	)
	cfg := twoQuestionConfig()
	limit := 3
	cfg.TimeLimitSeconds = &limit
	startCustom(t, s, cfg)

	tk.ch <- time.Now()
	require.NoError(t, s.Exit())

	select {
	case <-tk.stopped:
	case <-time.After(time.Second):
		t.Fatal("ticker was not stopped")
	}
	assert.Equal(t, practice.ViewModeSelect, s.State().View)
	assert.Nil(t, s.State().TimeRemaining)
	assert.Zero(t, finished)
}

func TestQuestionRefreshesActivity(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	s := newSession(t, practice.WithClock(clock.Now))
	startCustom(t, s, twoQuestionConfig())
	started := s.LastActive()

	clock.Add(20 * time.Minute)
	_, err := s.Question()
	require.NoError(t, err)
	assert.Equal(t, started.Add(20*time.Minute), s.LastActive())
}
