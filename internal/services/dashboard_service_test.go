package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/repository"
	"github.com/vytor/nclexnav/internal/testutil/mocks"
)

type dashboardMocks struct {
	history *mocks.MockHistoryRepository
	prefs   *mocks.MockPreferenceRepository
	library *mocks.MockLibraryRepository
}

func newDashboard(t *testing.T) (DashboardService, dashboardMocks) {
	m := dashboardMocks{
		history: new(mocks.MockHistoryRepository),
		prefs:   new(mocks.MockPreferenceRepository),
		library: new(mocks.MockLibraryRepository),
	}
	cat := loadCatalog(t)
	today := func() time.Time { return time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC) }
	svc := NewDashboardService(
		NewHistoryService(m.history, nil),
		NewStudyPlanService(m.prefs, cat, today),
		NewLibraryService(m.library, cat),
	)
	return svc, m
}

func TestGetDashboard(t *testing.T) {
	svc, m := newDashboard(t)
	anyArg := mock.Anything

	m.history.On("Stats", anyArg, int64(1)).Return(models.HistoryStats{TotalTests: 2, BestScore: 90}, nil)
	m.history.On("List", anyArg, mock.MatchedBy(func(f models.HistoryFilter) bool { return f.Limit == 5 })).
		Return([]models.TestRecord{{ID: 1}, {ID: 2}}, nil)
	m.history.On("List", anyArg, mock.MatchedBy(func(f models.HistoryFilter) bool {
		return f.Filter == models.HistoryFilterCompleted && f.Limit == 100
	})).Return([]models.TestRecord{
		{AttemptID: "new", Score: 80, TotalQuestions: 10, Status: models.TestStatusCompleted,
			CompletedAt: time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC),
			CategoryBreakdown: []models.CategoryScore{{Name: "Management of Care", Correct: 2, Total: 5, Percentage: 40}}},
		{AttemptID: "old", Score: 60, TotalQuestions: 10, Status: models.TestStatusCompleted,
			CompletedAt: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)},
	}, nil)
	m.history.On("Count", anyArg, anyArg).Return(2, nil)
	m.prefs.On("Get", anyArg, int64(1), repository.PrefSelectedPlan).
		Return([]byte(`{"id":1,"schedule":[{"id":1,"date":"2025-08-27","completed":true},{"id":2,"date":"2025-08-29"}]}`), nil)
	m.prefs.On("Get", anyArg, int64(1), repository.PrefAssessment).
		Return([]byte(`{"current_level":"review","test_date":"2025-09-01"}`), nil)
	m.library.On("Count", anyArg, int64(1)).Return(3, nil)

	d, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 90, d.History.BestScore)
	assert.Len(t, d.RecentTests, 2)
	require.NotNil(t, d.PlanProgress)
	assert.Equal(t, 50, d.PlanProgress.OverallPercent)
	require.NotNil(t, d.Countdown)
	assert.Equal(t, 4, d.Countdown.Days)
	assert.Equal(t, 3, d.SavedCount)

	require.Len(t, d.Performance.Trend, 2)
	assert.Equal(t, "old", d.Performance.Trend[0].AttemptID)
	require.Len(t, d.Performance.Weaknesses, 1)
	assert.Equal(t, "Management of Care", d.Performance.Weaknesses[0].Topic)
	assert.Equal(t, models.PriorityUrgent, d.Performance.Weaknesses[0].Priority)
}

func TestGetDashboard_Empty(t *testing.T) {
	svc, m := newDashboard(t)
	anyArg := mock.Anything

	m.history.On("Stats", anyArg, int64(2)).Return(models.HistoryStats{}, nil)
	m.history.On("List", anyArg, anyArg).Return(nil, nil)
	m.history.On("Count", anyArg, anyArg).Return(0, nil)
	m.prefs.On("Get", anyArg, int64(2), anyArg).Return(nil, nil)
	m.library.On("Count", anyArg, int64(2)).Return(0, nil)

	d, err := svc.GetDashboard(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, d.PlanProgress)
	assert.Nil(t, d.Countdown)
	assert.NotNil(t, d.RecentTests)
	assert.Empty(t, d.Performance.Trend)
	assert.NotNil(t, d.Performance.Weaknesses)
}

func TestGetDashboard_PropagatesErrors(t *testing.T) {
	svc, m := newDashboard(t)
	anyArg := mock.Anything

	m.history.On("Stats", anyArg, anyArg).Return(models.HistoryStats{}, stderrors.New("db down"))
	m.history.On("List", anyArg, anyArg).Return([]models.TestRecord{}, nil)
	m.history.On("Count", anyArg, anyArg).Return(0, nil)
	m.prefs.On("Get", anyArg, anyArg, anyArg).Return(nil, nil)
	m.library.On("Count", anyArg, anyArg).Return(0, nil)

	_, err := svc.GetDashboard(context.Background(), 1)
	assert.Error(t, err)
}
