package models

import "time"

const (
	TestStatusCompleted = "completed"
	TestStatusAbandoned = "abandoned"
)

// TestRecord is one finished or abandoned practice test in a profile's history.
type TestRecord struct {
	ID              int64     `json:"id"`
	ProfileID       int64     `json:"profile_id"`
	AttemptID       string    `json:"attempt_id"`
	Mode            string    `json:"mode"`
	ModeLabel       string    `json:"mode_label"`
	Score           int       `json:"score"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectAnswers  int       `json:"correct_answers"`
	DurationSeconds int       `json:"duration_seconds"`
	Categories      []string  `json:"categories"`
	Difficulty      string    `json:"difficulty"`
	ReadinessScore  int       `json:"readiness_score"`
	Status          string    `json:"status"`
	CompletedAt     time.Time `json:"completed_at"`

	CategoryBreakdown []CategoryScore `json:"category_breakdown"`
}

// HighScoreThreshold is the minimum score kept by the high-score filter.
const HighScoreThreshold = 85

const (
	HistoryFilterAll       = "all"
	HistoryFilterCompleted = "completed"
	HistoryFilterHighScore = "high-score"

	HistorySortDate     = "date"
	HistorySortScore    = "score"
	HistorySortDuration = "duration"
)

type HistoryFilter struct {
	ProfileID int64
	Filter    string // all, completed, high-score
	SortBy    string // date, score, duration
	Limit     int
	Offset    int
}

type HistoryStats struct {
	TotalTests     int     `json:"total_tests"`
	CompletedTests int     `json:"completed_tests"`
	AverageScore   float64 `json:"average_score"`
	BestScore      int     `json:"best_score"`
}
