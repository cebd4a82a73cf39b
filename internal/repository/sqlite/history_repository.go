package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/repository"
)

var historyColumns = []string{
	"id", "profile_id", "attempt_id", "mode", "score", "total_questions", "correct_answers",
	"duration_seconds", "categories", "difficulty", "readiness_score", "status", "completed_at",
	"category_breakdown",
}

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Insert(ctx context.Context, rec models.TestRecord) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting test record: profile_id=%d, attempt_id=%s, status=%s", rec.ProfileID, rec.AttemptID, rec.Status)

	categories, err := encodeStringList(rec.Categories)
	if err != nil {
		return false, err
	}
	breakdown, err := encodeCategoryScores(rec.CategoryBreakdown)
	if err != nil {
		return false, err
	}

	query, args, err := sqlBuilder.Insert("test_records").
		Columns(historyColumns[1:]...).
		Values(rec.ProfileID, rec.AttemptID, rec.Mode, rec.Score, rec.TotalQuestions, rec.CorrectAnswers,
			rec.DurationSeconds, categories, rec.Difficulty, rec.ReadinessScore, rec.Status,
			rec.CompletedAt.UTC(), breakdown).
		Suffix("ON CONFLICT(attempt_id) DO NOTHING").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return false, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert test record: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		log.Debug("test record for attempt %s already stored", rec.AttemptID)
	}
	return n > 0, nil
}

func (r *historyRepository) Get(ctx context.Context, profileID, id int64) (*models.TestRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("getting test record: profile_id=%d, id=%d", profileID, id)

	query, args, err := sqlBuilder.Select(historyColumns...).
		From("test_records").
		Where(squirrel.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("test record not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get test record: %v", err)
		return nil, err
	}
	return rec, nil
}

func (r *historyRepository) List(ctx context.Context, filter models.HistoryFilter) ([]models.TestRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing test records: profile_id=%d, filter=%s, sort=%s", filter.ProfileID, filter.Filter, filter.SortBy)

	query := applyHistoryFilter(sqlBuilder.Select(historyColumns...).From("test_records"), filter)

	switch filter.SortBy {
	case models.HistorySortScore:
		// Abandoned attempts have no score and rank after every completed one.
		query = query.OrderBy("CASE WHEN status = 'completed' THEN 0 ELSE 1 END", "score DESC", "completed_at DESC")
	case models.HistorySortDuration:
		query = query.OrderBy("duration_seconds DESC", "completed_at DESC")
	default:
		query = query.OrderBy("completed_at DESC")
	}
	query = query.OrderBy("id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list test records: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.TestRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.Error("failed to scan test record row: %v", err)
			return nil, err
		}
		records = append(records, *rec)
	}
	log.Debug("found %d test records", len(records))
	return records, rows.Err()
}

func (r *historyRepository) Count(ctx context.Context, filter models.HistoryFilter) (int, error) {
	query, args, err := applyHistoryFilter(sqlBuilder.Select("COUNT(*)").From("test_records"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("history_repo").Error("failed to count test records: %v", err)
		return 0, err
	}
	return n, nil
}

// Stats averages and maximises over completed tests only.
func (r *historyRepository) Stats(ctx context.Context, profileID int64) (models.HistoryStats, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("computing history stats: profile_id=%d", profileID)

	query, args, err := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)",
		"COALESCE(AVG(CASE WHEN status = 'completed' THEN score END), 0)",
		"COALESCE(MAX(CASE WHEN status = 'completed' THEN score END), 0)",
	).From("test_records").Where(squirrel.Eq{"profile_id": profileID}).ToSql()
	if err != nil {
		return models.HistoryStats{}, err
	}

	var st models.HistoryStats
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&st.TotalTests, &st.CompletedTests, &st.AverageScore, &st.BestScore); err != nil {
		log.Error("failed to compute history stats: %v", err)
		return models.HistoryStats{}, err
	}
	return st, nil
}

func applyHistoryFilter(q squirrel.SelectBuilder, f models.HistoryFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"profile_id": f.ProfileID})
	switch f.Filter {
	case models.HistoryFilterCompleted:
		q = q.Where(squirrel.Eq{"status": models.TestStatusCompleted})
	case models.HistoryFilterHighScore:
		q = q.Where(squirrel.Eq{"status": models.TestStatusCompleted}).
			Where(squirrel.GtOrEq{"score": models.HighScoreThreshold})
	}
	return q
}

func scanRecord(row rowScanner) (*models.TestRecord, error) {
	var (
		rec        models.TestRecord
		categories string
		breakdown  string
	)
	if err := row.Scan(&rec.ID, &rec.ProfileID, &rec.AttemptID, &rec.Mode, &rec.Score, &rec.TotalQuestions,
		&rec.CorrectAnswers, &rec.DurationSeconds, &categories, &rec.Difficulty, &rec.ReadinessScore,
		&rec.Status, &rec.CompletedAt, &breakdown); err != nil {
		return nil, err
	}
	var err error
	if rec.Categories, err = decodeStringList(categories); err != nil {
		return nil, fmt.Errorf("decode categories of test record %d: %w", rec.ID, err)
	}
	if rec.CategoryBreakdown, err = decodeCategoryScores(breakdown); err != nil {
		return nil, fmt.Errorf("decode category breakdown of test record %d: %w", rec.ID, err)
	}
	return &rec, nil
}
