package services

import (
	"context"

	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/metrics"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/practice"
	"github.com/vytor/nclexnav/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryService handles the test history of a profile
type HistoryService interface {
	// RecordResult stores an ended attempt; a repeated attempt id is ignored.
	RecordResult(ctx context.Context, profileID int64, res practice.Results) error
	ListHistory(ctx context.Context, filter models.HistoryFilter) ([]models.TestRecord, int, error)
	GetRecord(ctx context.Context, profileID, id int64) (*models.TestRecord, error)
	GetStats(ctx context.Context, profileID int64) (models.HistoryStats, error)
}

type historyService struct {
	historyRepo repository.HistoryRepository
	metrics     *metrics.Metrics
}

// NewHistoryService creates a new HistoryService. m may be nil.
func NewHistoryService(historyRepo repository.HistoryRepository, m *metrics.Metrics) HistoryService {
	return &historyService{historyRepo: historyRepo, metrics: m}
}

func (s *historyService) RecordResult(ctx context.Context, profileID int64, res practice.Results) error {
	log := logger.FromContext(ctx)
	log.Debug("recording result: profile_id=%d, attempt_id=%s, status=%s, score=%d",
		profileID, res.AttemptID, res.Status, res.OverallScore)

	inserted, err := s.historyRepo.Insert(ctx, TestRecordFromResults(profileID, res))
	if err != nil {
		log.Error("failed to record result: %v", err)
		s.countResult("error")
		return errors.NewInternalError(err)
	}
	if inserted {
		s.countResult("inserted")
	} else {
		s.countResult("duplicate")
	}
	return nil
}

func (s *historyService) countResult(outcome string) {
	if s.metrics != nil {
		s.metrics.ResultsRecorded.WithLabelValues(outcome).Inc()
	}
}

// TestRecordFromResults maps ended-attempt results onto a history row.
// Abandoned attempts keep their progress but carry no score.
func TestRecordFromResults(profileID int64, res practice.Results) models.TestRecord {
	categories := res.Categories
	if categories == nil {
		categories = []string{}
	}
	difficulty := res.Difficulty
	if difficulty == "" {
		difficulty = practice.DifficultyMixed
	}
	rec := models.TestRecord{
		ProfileID:         profileID,
		AttemptID:         res.AttemptID,
		Mode:              string(res.Mode),
		ModeLabel:         res.Mode.Label(),
		Score:             res.OverallScore,
		TotalQuestions:    res.TotalQuestions,
		CorrectAnswers:    res.CorrectAnswers,
		DurationSeconds:   res.DurationSeconds,
		Categories:        categories,
		Difficulty:        difficulty,
		ReadinessScore:    res.ReadinessScore,
		Status:            res.Status,
		CompletedAt:       res.CompletedAt,
		CategoryBreakdown: make([]models.CategoryScore, 0, len(res.CategoryBreakdown)),
	}
	if res.Status == models.TestStatusAbandoned {
		rec.Score = 0
		rec.CorrectAnswers = 0
		rec.ReadinessScore = 0
		return rec
	}
	for _, b := range res.CategoryBreakdown {
		rec.CategoryBreakdown = append(rec.CategoryBreakdown, models.CategoryScore{
			Name:       b.Name,
			Correct:    b.Correct,
			Total:      b.Total,
			Percentage: b.Percentage,
		})
	}
	return rec
}

// labelMode fills the display label of a stored mode id.
func labelMode(rec *models.TestRecord) {
	if m, err := practice.ParseMode(rec.Mode); err == nil {
		rec.ModeLabel = m.Label()
	} else {
		rec.ModeLabel = rec.Mode
	}
}

func (s *historyService) ListHistory(ctx context.Context, filter models.HistoryFilter) ([]models.TestRecord, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing history: profile_id=%d, filter=%s, sort=%s, limit=%d, offset=%d",
		filter.ProfileID, filter.Filter, filter.SortBy, filter.Limit, filter.Offset)

	switch filter.Filter {
	case "":
		filter.Filter = models.HistoryFilterAll
	case models.HistoryFilterAll, models.HistoryFilterCompleted, models.HistoryFilterHighScore:
	default:
		return nil, 0, errors.NewValidationError("filter", "must be one of all, completed, high-score")
	}
	switch filter.SortBy {
	case "":
		filter.SortBy = models.HistorySortDate
	case models.HistorySortDate, models.HistorySortScore, models.HistorySortDuration:
	default:
		return nil, 0, errors.NewValidationError("sort", "must be one of date, score, duration")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	if filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("offset", "cannot be negative")
	}

	records, err := s.historyRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list history: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.historyRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count history: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	for i := range records {
		labelMode(&records[i])
	}
	return records, total, nil
}

func (s *historyService) GetRecord(ctx context.Context, profileID, id int64) (*models.TestRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting test record: profile_id=%d, id=%d", profileID, id)

	rec, err := s.historyRepo.Get(ctx, profileID, id)
	if err != nil {
		log.Error("failed to get test record: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("test record", id)
	}
	labelMode(rec)
	return rec, nil
}

func (s *historyService) GetStats(ctx context.Context, profileID int64) (models.HistoryStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting history stats: profile_id=%d", profileID)

	st, err := s.historyRepo.Stats(ctx, profileID)
	if err != nil {
		log.Error("failed to get history stats: %v", err)
		return models.HistoryStats{}, errors.NewInternalError(err)
	}
	return st, nil
}
