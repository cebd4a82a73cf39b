package models

import "time"

// CategoryScore is the share of correct answers in one client-need category.
type CategoryScore struct {
	Name       string `json:"name"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

const (
	IntensityHigh   = "high"
	IntensityMedium = "medium"
	IntensityLow    = "low"

	PriorityUrgent    = "urgent"
	PriorityImportant = "important"
	PriorityModerate  = "moderate"
)

// Weakness is a category ranked by how much attention it needs.
type Weakness struct {
	Topic              string `json:"topic"`
	Accuracy           int    `json:"accuracy"`
	QuestionsAttempted int    `json:"questions_attempted"`
	Intensity          string `json:"intensity"`
	Priority           string `json:"priority"`
}

// PerformancePoint is one completed attempt on the score-over-time chart.
type PerformancePoint struct {
	AttemptID         string    `json:"attempt_id"`
	Date              time.Time `json:"date"`
	Mode              string    `json:"mode"`
	Accuracy          int       `json:"accuracy"`
	QuestionsAnswered int       `json:"questions_answered"`
}

type PerformanceSummary struct {
	Categories []CategoryScore    `json:"categories"`
	Weaknesses []Weakness         `json:"weaknesses"`
	Trend      []PerformancePoint `json:"trend"`
}
