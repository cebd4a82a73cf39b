package practice

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Breakdown is the share of correct answers within one category or difficulty.
type Breakdown struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
}

type Recommendation struct {
	Topic       string `json:"topic"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Results summarises one ended attempt.
type Results struct {
	SessionID           string           `json:"session_id"`
	AttemptID           string           `json:"attempt_id"`
	Mode                Mode             `json:"mode"`
	Status              string           `json:"status"`
	TimedOut            bool             `json:"timed_out"`
	OverallScore        int              `json:"overall_score"`
	CorrectAnswers      int              `json:"correct_answers"`
	TotalQuestions      int              `json:"total_questions"`
	AnsweredQuestions   int              `json:"answered_questions"`
	DurationSeconds     int              `json:"duration_seconds"`
	CompletedAt         time.Time        `json:"completed_at"`
	FlaggedQuestions    []int            `json:"flagged_questions"`
	ReadinessScore      int              `json:"readiness_score"`
	SuccessProbability  int              `json:"success_probability"`
	PerformanceBadge    string           `json:"performance_badge"`
	ConfidenceLevel     string           `json:"confidence_level"`
	Categories          []string         `json:"categories"`
	Difficulty          string           `json:"difficulty"`
	CategoryBreakdown   []Breakdown      `json:"category_breakdown"`
	DifficultyBreakdown []Breakdown      `json:"difficulty_breakdown"`
	Recommendations     []Recommendation `json:"recommendations"`
}

// Score is round(correct/total*100), and 0 for an empty test.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func ReadinessScore(score int) int { return min(score+5, 100) }

func SuccessProbability(score int) int { return min(score+10, 95) }

func PerformanceBadge(score int) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func ConfidenceLevel(score int) string {
	switch {
	case score >= 85:
		return "High"
	case score >= 70:
		return "Moderate"
	default:
		return "Low"
	}
}

func priority(pct int) string {
	switch {
	case pct < 70:
		return "High"
	case pct < 85:
		return "Medium"
	default:
		return "Low"
	}
}

const maxRecommendations = 3

var difficultyOrder = map[string]int{"easy": 0, "medium": 1, "hard": 2}

func (s *Session) resultsLocked(status string, timedOut bool) Results {
	now := s.now()
	res := Results{
		SessionID:        s.id,
		AttemptID:        s.attemptID,
		Mode:             s.mode,
		Status:           status,
		TimedOut:         timedOut,
		TotalQuestions:   s.total,
		CompletedAt:      now,
		FlaggedQuestions: s.flags.Sorted(),
		Difficulty:       DifficultyMixed,
	}
	if !s.startedAt.IsZero() {
		res.DurationSeconds = int(now.Sub(s.startedAt) / time.Second)
	}
	if s.mode == ModeCustom && s.custom != nil {
		res.Categories = append([]string(nil), s.custom.Categories...)
		res.Difficulty = s.custom.difficulty()
	}

	byCategory := map[string]*Breakdown{}
	byDifficulty := map[string]*Breakdown{}
	bump := func(m map[string]*Breakdown, name string, correct bool) {
		b, ok := m[name]
		if !ok {
			b = &Breakdown{Name: name}
			m[name] = b
		}
		b.Total++
		if correct {
			b.Correct++
		}
	}

	for i, q := range s.deck {
		answer, ok := s.answers[i+1]
		correct := ok && answer == q.CorrectAnswer
		if ok {
			res.AnsweredQuestions++
		}
		if correct {
			res.CorrectAnswers++
		}
		category := q.Category
		if category == "" {
			category = q.CategoryID
		}
		bump(byCategory, category, correct)
		bump(byDifficulty, q.Difficulty, correct)
	}

	res.OverallScore = Score(res.CorrectAnswers, res.TotalQuestions)
	res.ReadinessScore = ReadinessScore(res.OverallScore)
	res.SuccessProbability = SuccessProbability(res.OverallScore)
	res.PerformanceBadge = PerformanceBadge(res.OverallScore)
	res.ConfidenceLevel = ConfidenceLevel(res.OverallScore)

	res.CategoryBreakdown = flatten(byCategory)
	sort.Slice(res.CategoryBreakdown, func(i, j int) bool {
		return res.CategoryBreakdown[i].Name < res.CategoryBreakdown[j].Name
	})
	res.DifficultyBreakdown = flatten(byDifficulty)
	sort.Slice(res.DifficultyBreakdown, func(i, j int) bool {
		a, b := res.DifficultyBreakdown[i].Name, res.DifficultyBreakdown[j].Name
		oa, okA := difficultyOrder[strings.ToLower(a)]
		ob, okB := difficultyOrder[strings.ToLower(b)]
		if okA && okB {
			return oa < ob
		}
		if okA != okB {
			return okA
		}
		return a < b
	})
	res.Recommendations = recommend(res.CategoryBreakdown)
	return res
}

func flatten(m map[string]*Breakdown) []Breakdown {
	out := make([]Breakdown, 0, len(m))
	for _, b := range m {
		b.Percentage = Score(b.Correct, b.Total)
		out = append(out, *b)
	}
	return out
}

// recommend picks the weakest categories first.
func recommend(categories []Breakdown) []Recommendation {
	weakest := append([]Breakdown(nil), categories...)
	sort.SliceStable(weakest, func(i, j int) bool {
		return weakest[i].Percentage < weakest[j].Percentage
	})
	if len(weakest) > maxRecommendations {
		weakest = weakest[:maxRecommendations]
	}
	out := make([]Recommendation, 0, len(weakest))
	for _, b := range weakest {
		out = append(out, Recommendation{
			Topic:       b.Name,
			Priority:    priority(b.Percentage),
			Description: recommendationText(b),
		})
	}
	return out
}

func recommendationText(b Breakdown) string {
	switch priority(b.Percentage) {
	case "High":
		return "Focus review on " + b.Name + " and retake a custom quiz on this category."
	case "Medium":
		return "Reinforce " + b.Name + " with targeted practice questions."
	default:
		return "Maintain " + b.Name + " with periodic review."
	}
}
