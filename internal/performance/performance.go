// Package performance aggregates a profile's completed attempts into the
// per-category accuracy, weakest areas and score trend shown on the dashboard.
package performance

import (
	"sort"

	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/practice"
)

// MaxWeaknesses caps how many categories are ranked as weak areas.
const MaxWeaknesses = 6

// Summarize folds records into a summary. Abandoned attempts are ignored.
// Records may arrive in any order; the trend is oldest first.
func Summarize(records []models.TestRecord) models.PerformanceSummary {
	sum := models.PerformanceSummary{
		Categories: []models.CategoryScore{},
		Weaknesses: []models.Weakness{},
		Trend:      []models.PerformancePoint{},
	}

	byName := map[string]*models.CategoryScore{}
	for _, rec := range records {
		if rec.Status != models.TestStatusCompleted {
			continue
		}
		sum.Trend = append(sum.Trend, models.PerformancePoint{
			AttemptID:         rec.AttemptID,
			Date:              rec.CompletedAt,
			Mode:              rec.Mode,
			Accuracy:          rec.Score,
			QuestionsAnswered: rec.TotalQuestions,
		})
		for _, b := range rec.CategoryBreakdown {
			if b.Total <= 0 {
				continue
			}
			agg, ok := byName[b.Name]
			if !ok {
				agg = &models.CategoryScore{Name: b.Name}
				byName[b.Name] = agg
			}
			agg.Correct += b.Correct
			agg.Total += b.Total
		}
	}

	sort.SliceStable(sum.Trend, func(i, j int) bool {
		return sum.Trend[i].Date.Before(sum.Trend[j].Date)
	})

	for _, agg := range byName {
		agg.Percentage = practice.Score(agg.Correct, agg.Total)
		sum.Categories = append(sum.Categories, *agg)
	}
	sort.Slice(sum.Categories, func(i, j int) bool {
		return sum.Categories[i].Name < sum.Categories[j].Name
	})

	sum.Weaknesses = Weaknesses(sum.Categories)
	return sum
}

// Weaknesses ranks categories from lowest to highest accuracy.
func Weaknesses(categories []models.CategoryScore) []models.Weakness {
	ranked := append([]models.CategoryScore(nil), categories...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Percentage != ranked[j].Percentage {
			return ranked[i].Percentage < ranked[j].Percentage
		}
		return ranked[i].Total > ranked[j].Total
	})
	if len(ranked) > MaxWeaknesses {
		ranked = ranked[:MaxWeaknesses]
	}

	out := make([]models.Weakness, 0, len(ranked))
	for _, c := range ranked {
		intensity, prio := Rate(c.Percentage)
		out = append(out, models.Weakness{
			Topic:              c.Name,
			Accuracy:           c.Percentage,
			QuestionsAttempted: c.Total,
			Intensity:          intensity,
			Priority:           prio,
		})
	}
	return out
}

// Rate maps an accuracy percentage to its heat-map intensity and study priority.
func Rate(accuracy int) (intensity, priority string) {
	switch {
	case accuracy < 50:
		return models.IntensityHigh, models.PriorityUrgent
	case accuracy < 70:
		return models.IntensityMedium, models.PriorityImportant
	default:
		return models.IntensityLow, models.PriorityModerate
	}
}
