package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/nclexnav/internal/content"
	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/metrics"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/practice"
	"github.com/vytor/nclexnav/internal/testutil/mocks"
)

func loadCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.Load("")
	require.NoError(t, err)
	return cat
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newPracticeService(t *testing.T, queue *mocks.MockJobQueue, clock *testClock) PracticeService {
	t.Helper()
	svc := NewPracticeService(loadCatalog(t), queue, metrics.New(),
		WithIdleTimeout(30*time.Minute),
		WithSessionOptions(practice.WithClock(clock.Now)),
	)
	t.Cleanup(svc.Close)
	return svc
}

func TestPractice_TutorFlow(t *testing.T) {
	ctx := context.Background()
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueResult", int64(1), mock.MatchedBy(func(r practice.Results) bool {
		return r.Status == models.TestStatusCompleted && r.Mode == practice.ModeTutor
	})).Return(nil).Once()
	clock := &testClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	svc := newPracticeService(t, queue, clock)

	st := svc.State(ctx, 1)
	assert.Equal(t, practice.ViewModeSelect, st.View)

	_, err := svc.Start(ctx, 1, nil)
	requireCode(t, err, errors.ErrCodeActionDisabled)

	_, err = svc.SelectMode(ctx, 1, "Tutor Mode")
	require.NoError(t, err)
	st, err = svc.Start(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, st.TotalQuestions)
	assert.NotEmpty(t, st.AttemptID)

	_, err = svc.Next(ctx, 1)
	requireCode(t, err, errors.ErrCodeActionDisabled)

	_, err = svc.Answer(ctx, 1, "Z")
	requireCode(t, err, errors.ErrCodeBadRequest)

	qv, err := svc.Answer(ctx, 1, "B")
	require.NoError(t, err)
	require.NotNil(t, qv.Feedback)
	assert.True(t, qv.Feedback.Correct)

	st, err = svc.Next(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentQuestion)

	clock.Advance(90 * time.Second)
	res, err := svc.Finish(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 90, res.DurationSeconds)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, 2, res.OverallScore)
	queue.AssertExpectations(t)
}

func TestPractice_RetakeGetsNewAttempt(t *testing.T) {
	ctx := context.Background()
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueResult", int64(1), mock.Anything).Return(nil)
	svc := newPracticeService(t, queue, &testClock{now: time.Now()})

	_, err := svc.OpenCustomBuilder(ctx, 1)
	require.NoError(t, err)
	cfg := practice.DefaultCustomConfig()
	cfg.Categories = []string{"safe-care"}
	cfg.QuestionCount = 10
	first, err := svc.Start(ctx, 1, &cfg)
	require.NoError(t, err)
	_, err = svc.Finish(ctx, 1)
	require.NoError(t, err)

	retake, err := svc.Start(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, practice.ModeCustom, retake.Mode)
	assert.Equal(t, 10, retake.TotalQuestions)
	assert.NotEqual(t, first.AttemptID, retake.AttemptID)
}

func TestPractice_WrongViewIsConflict(t *testing.T) {
	svc := newPracticeService(t, new(mocks.MockJobQueue), &testClock{now: time.Now()})

	_, err := svc.CurrentQuestion(context.Background(), 1)
	requireCode(t, err, errors.ErrCodeConflict)

	_, err = svc.SelectMode(context.Background(), 1, "speed-round")
	requireCode(t, err, errors.ErrCodeBadRequest)
}

func TestPractice_SessionsArePerProfile(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService(t, new(mocks.MockJobQueue), &testClock{now: time.Now()})

	_, err := svc.SelectMode(ctx, 1, "timed")
	require.NoError(t, err)

	assert.Equal(t, practice.ModeTimed, svc.State(ctx, 1).Mode)
	assert.Empty(t, svc.State(ctx, 2).Mode)
	assert.NotEqual(t, svc.State(ctx, 1).SessionID, svc.State(ctx, 2).SessionID)
}

func TestPractice_EvictIdleAbandonsAttempt(t *testing.T) {
	ctx := context.Background()
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueResult", int64(7), mock.MatchedBy(func(r practice.Results) bool {
		return r.Status == models.TestStatusAbandoned
	})).Return(nil).Once()
	clock := &testClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	svc := newPracticeService(t, queue, clock)

	_, err := svc.SelectMode(ctx, 7, "tutor")
	require.NoError(t, err)
	before, err := svc.Start(ctx, 7, nil)
	require.NoError(t, err)

	assert.Zero(t, svc.EvictIdle(ctx, clock.Now().Add(10*time.Minute)))
	assert.Equal(t, 1, svc.EvictIdle(ctx, clock.Now().Add(31*time.Minute)))
	queue.AssertExpectations(t)

	after := svc.State(ctx, 7)
	assert.NotEqual(t, before.SessionID, after.SessionID)
	assert.Equal(t, practice.ViewModeSelect, after.View)
}

func TestPractice_DiscardDoesNotRecord(t *testing.T) {
	ctx := context.Background()
	queue := new(mocks.MockJobQueue)
	svc := newPracticeService(t, queue, &testClock{now: time.Now()})

	_, err := svc.SelectMode(ctx, 3, "tutor")
	require.NoError(t, err)
	_, err = svc.Start(ctx, 3, nil)
	require.NoError(t, err)

	svc.Discard(3)
	queue.AssertNotCalled(t, "EnqueueResult", mock.Anything, mock.Anything)
	assert.Equal(t, practice.ViewModeSelect, svc.State(ctx, 3).View)
}

func TestPractice_CategoriesAreCopied(t *testing.T) {
	svc := newPracticeService(t, new(mocks.MockJobQueue), &testClock{now: time.Now()})
	cats := svc.Categories(context.Background())
	require.NotEmpty(t, cats)
	cats[0].Name = "changed"
	assert.NotEqual(t, "changed", svc.Categories(context.Background())[0].Name)
}

func TestPractice_CustomStartRejectsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	queue := new(mocks.MockJobQueue)
	svc := newPracticeService(t, queue, &testClock{now: time.Now()})

	_, err := svc.SelectMode(ctx, 4, "custom")
	require.NoError(t, err)

	cfg := practice.DefaultCustomConfig()
	cfg.Categories = []string{svc.Categories(ctx)[0].ID, "astrology"}
	_, err = svc.Start(ctx, 4, &cfg)
	requireCode(t, err, errors.ErrCodeValidation)
	assert.Equal(t, practice.ViewModeSelect, svc.State(ctx, 4).View)

	cfg.Categories = cfg.Categories[:1]
	st, err := svc.Start(ctx, 4, &cfg)
	require.NoError(t, err)
	assert.Equal(t, practice.ViewQuestion, st.View)
	queue.AssertNotCalled(t, "EnqueueResult", mock.Anything, mock.Anything)
}
