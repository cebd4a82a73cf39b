package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/repository"
	"github.com/vytor/nclexnav/internal/repository/sqlite"
	"github.com/vytor/nclexnav/internal/testutil"
)

var baseTime = time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)

func newRecord(profileID int64, attemptID string, score int, status string) models.TestRecord {
	return models.TestRecord{
		ProfileID:       profileID,
		AttemptID:       attemptID,
		Mode:            "tutor",
		Score:           score,
		TotalQuestions:  50,
		CorrectAnswers:  score / 2,
		DurationSeconds: 600,
		Categories:      []string{"Safe and Effective Care Environment"},
		Difficulty:      "mixed",
		ReadinessScore:  min(score+5, 100),
		Status:          status,
		CompletedAt:     baseTime,
	}
}

type HistoryRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.HistoryRepository
	profileID int64
}

func (s *HistoryRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewHistoryRepository(s.db)
	s.profileID = testutil.CreateProfile(s.T(), s.db, "learner")
}

func (s *HistoryRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *HistoryRepositorySuite) insert(rec models.TestRecord) {
	inserted, err := s.repo.Insert(context.Background(), rec)
	s.Require().NoError(err)
	s.Require().True(inserted)
}

func (s *HistoryRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	s.insert(newRecord(s.profileID, "a1", 88, models.TestStatusCompleted))

	records, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID})
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	rec, err := s.repo.Get(ctx, s.profileID, records[0].ID)
	s.Require().NoError(err)
	s.Require().NotNil(rec)
	s.Assert().Equal("a1", rec.AttemptID)
	s.Assert().Equal(88, rec.Score)
	s.Assert().Equal([]string{"Safe and Effective Care Environment"}, rec.Categories)
	s.Assert().True(baseTime.Equal(rec.CompletedAt))
}

func (s *HistoryRepositorySuite) TestInsert_SameAttemptIgnored() {
	ctx := context.Background()
	s.insert(newRecord(s.profileID, "dup", 70, models.TestStatusCompleted))

	inserted, err := s.repo.Insert(ctx, newRecord(s.profileID, "dup", 90, models.TestStatusCompleted))
	s.Require().NoError(err)
	s.Assert().False(inserted)

	n, err := s.repo.Count(ctx, models.HistoryFilter{ProfileID: s.profileID})
	s.Require().NoError(err)
	s.Assert().Equal(1, n)
}

func (s *HistoryRepositorySuite) TestGet_OtherProfile() {
	ctx := context.Background()
	s.insert(newRecord(s.profileID, "mine", 70, models.TestStatusCompleted))
	records, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID})
	s.Require().NoError(err)

	other := testutil.CreateProfile(s.T(), s.db, "other")
	rec, err := s.repo.Get(ctx, other, records[0].ID)
	s.Assert().NoError(err)
	s.Assert().Nil(rec)
}

func (s *HistoryRepositorySuite) TestList_FilterAndSort() {
	ctx := context.Background()
	low := newRecord(s.profileID, "low", 55, models.TestStatusCompleted)
	low.DurationSeconds = 3000
	high := newRecord(s.profileID, "high", 92, models.TestStatusCompleted)
	high.CompletedAt = baseTime.Add(-48 * time.Hour)
	left := newRecord(s.profileID, "left", 20, models.TestStatusAbandoned)
	left.CompletedAt = baseTime.Add(time.Hour)
	for _, r := range []models.TestRecord{low, high, left} {
		s.insert(r)
	}

	byDate, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, SortBy: models.HistorySortDate})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"left", "low", "high"}, attemptIDs(byDate))

	byScore, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, SortBy: models.HistorySortScore})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"high", "low", "left"}, attemptIDs(byScore))

	byDuration, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, SortBy: models.HistorySortDuration})
	s.Require().NoError(err)
	s.Assert().Equal("low", byDuration[0].AttemptID)

	completed, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, Filter: models.HistoryFilterCompleted})
	s.Require().NoError(err)
	s.Assert().ElementsMatch([]string{"low", "high"}, attemptIDs(completed))

	highScores, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, Filter: models.HistoryFilterHighScore})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"high"}, attemptIDs(highScores))

	page, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"low"}, attemptIDs(page))
}

func (s *HistoryRepositorySuite) TestList_AbandonedHighScoreExcluded() {
	ctx := context.Background()
	s.insert(newRecord(s.profileID, "done", 86, models.TestStatusCompleted))
	s.insert(newRecord(s.profileID, "quit", 95, models.TestStatusAbandoned))

	highScores, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, Filter: models.HistoryFilterHighScore})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"done"}, attemptIDs(highScores))

	n, err := s.repo.Count(ctx, models.HistoryFilter{ProfileID: s.profileID, Filter: models.HistoryFilterHighScore})
	s.Require().NoError(err)
	s.Assert().Equal(1, n)

	byScore, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, SortBy: models.HistorySortScore})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"done", "quit"}, attemptIDs(byScore))
}

func (s *HistoryRepositorySuite) TestInsert_CategoryBreakdown() {
	ctx := context.Background()
	withBreakdown := newRecord(s.profileID, "cats", 75, models.TestStatusCompleted)
	withBreakdown.CategoryBreakdown = []models.CategoryScore{
		{Name: "Management of Care", Correct: 3, Total: 4, Percentage: 75},
		{Name: "Pharmacological Therapies", Correct: 0, Total: 2, Percentage: 0},
	}
	s.insert(withBreakdown)
	s.insert(newRecord(s.profileID, "bare", 60, models.TestStatusCompleted))

	records, err := s.repo.List(ctx, models.HistoryFilter{ProfileID: s.profileID, SortBy: models.HistorySortScore})
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Assert().Equal(withBreakdown.CategoryBreakdown, records[0].CategoryBreakdown)
	s.Assert().NotNil(records[1].CategoryBreakdown)
	s.Assert().Empty(records[1].CategoryBreakdown)
}

func (s *HistoryRepositorySuite) TestStats() {
	ctx := context.Background()

	empty, err := s.repo.Stats(ctx, s.profileID)
	s.Require().NoError(err)
	s.Assert().Equal(models.HistoryStats{}, empty)

	s.insert(newRecord(s.profileID, "x", 80, models.TestStatusCompleted))
	s.insert(newRecord(s.profileID, "y", 90, models.TestStatusCompleted))
	s.insert(newRecord(s.profileID, "z", 100, models.TestStatusAbandoned))

	st, err := s.repo.Stats(ctx, s.profileID)
	s.Require().NoError(err)
	s.Assert().Equal(3, st.TotalTests)
	s.Assert().Equal(2, st.CompletedTests)
	s.Assert().InDelta(85.0, st.AverageScore, 0.001)
	s.Assert().Equal(90, st.BestScore)
}

func attemptIDs(records []models.TestRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.AttemptID)
	}
	return ids
}

func TestHistoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(HistoryRepositorySuite))
}
