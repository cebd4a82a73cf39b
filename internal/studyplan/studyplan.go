// Package studyplan personalises, customises and tracks study plans.
package studyplan

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vytor/nclexnav/internal/models"
)

// DateLayout is the format of task dates and the assessment test date.
const DateLayout = "2006-01-02"

// Initial views of the study-plan page.
const (
	ViewPlans     = "plans"
	ViewDashboard = "dashboard"
)

const upcomingLimit = 5

var (
	ErrUnknownLevel = errors.New("unknown current level")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
)

var levels = map[string]struct{}{
	"beginner":     {},
	"intermediate": {},
	"advanced":     {},
	"review":       {},
}

// ValidateAssessment checks the fields plans are generated from.
func ValidateAssessment(a models.Assessment) error {
	if _, ok := levels[strings.ToLower(a.CurrentLevel)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, a.CurrentLevel)
	}
	if a.TestDate != "" {
		if _, err := time.Parse(DateLayout, a.TestDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, a.TestDate)
		}
	}
	return nil
}

// InitialView is "dashboard" once an assessment exists, "plans" before.
func InitialView(hasAssessment bool) string {
	if hasAssessment {
		return ViewDashboard
	}
	return ViewPlans
}

// Personalize marks the plans whose difficulty matches the learner's level.
func Personalize(plans []models.StudyPlan, a models.Assessment) []models.StudyPlan {
	level := strings.ToLower(a.CurrentLevel)
	out := make([]models.StudyPlan, len(plans))
	for i, p := range plans {
		p.IsRecommended = strings.ToLower(p.Difficulty) == level
		p.CustomizedFor = level
		out[i] = p
	}
	return out
}

// Customize derives a new plan with its own id from base.
func Customize(base models.StudyPlan, c models.PlanCustomization, id int64) (models.StudyPlan, error) {
	if c.StartDate != "" {
		if _, err := time.Parse(DateLayout, c.StartDate); err != nil {
			return models.StudyPlan{}, fmt.Errorf("%w: %q", ErrInvalidDate, c.StartDate)
		}
	}
	p := base
	p.ID = id
	p.IsCustom = true
	if c.Name != "" {
		p.Name = c.Name
	}
	if c.Duration != "" {
		p.Duration = c.Duration
	}
	if c.DailyTime != "" {
		p.DailyTime = c.DailyTime
	}
	p.StartDate = c.StartDate
	if c.Preferences != nil {
		prefs := *c.Preferences
		p.Preferences = &prefs
	}
	p.FocusAreas = append([]string(nil), c.FocusAreas...)
	p.StudyMethods = append([]string(nil), c.StudyMethods...)
	p.RestDays = append([]string(nil), c.RestDays...)
	p.Schedule = append([]models.ScheduledTask(nil), base.Schedule...)
	return p, nil
}

// ToggleTask flips the completion of taskID. It reports false when the plan
// has no such task.
func ToggleTask(p models.StudyPlan, taskID int64) (models.StudyPlan, bool) {
	schedule := append([]models.ScheduledTask(nil), p.Schedule...)
	for i := range schedule {
		if schedule[i].ID == taskID {
			schedule[i].Completed = !schedule[i].Completed
			p.Schedule = schedule
			return p, true
		}
	}
	return p, false
}

// Progress summarises the schedule relative to today.
func Progress(p models.StudyPlan, today time.Time) models.PlanProgress {
	day := today.Format(DateLayout)
	prog := models.PlanProgress{
		TotalTasks:    len(p.Schedule),
		UpcomingTasks: []models.ScheduledTask{},
		OverdueTasks:  []models.ScheduledTask{},
	}
	for _, t := range p.Schedule {
		if t.Completed {
			prog.CompletedTasks++
			continue
		}
		// Dates share one layout, so string order is date order.
		if t.Date >= day {
			if len(prog.UpcomingTasks) < upcomingLimit {
				prog.UpcomingTasks = append(prog.UpcomingTasks, t)
			}
		} else {
			prog.OverdueTasks = append(prog.OverdueTasks, t)
		}
	}
	if prog.TotalTasks > 0 {
		prog.OverallPercent = int(math.Round(float64(prog.CompletedTasks) / float64(prog.TotalTasks) * 100))
	}
	return prog
}

// Calendar lays out a month starting on Sunday. The grid opens with one nil
// cell per weekday before the 1st.
func Calendar(p *models.StudyPlan, year int, month time.Month, today time.Time) models.CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	byDate := map[string][]models.ScheduledTask{}
	if p != nil {
		for _, t := range p.Schedule {
			byDate[t.Date] = append(byDate[t.Date], t)
		}
	}

	todayKey := today.Format(DateLayout)
	cal := models.CalendarMonth{Year: year, Month: month, Days: make([]*models.CalendarDay, lead, lead+daysIn)}
	for d := 1; d <= daysIn; d++ {
		key := first.AddDate(0, 0, d-1).Format(DateLayout)
		tasks := byDate[key]
		if tasks == nil {
			tasks = []models.ScheduledTask{}
		}
		cal.Days = append(cal.Days, &models.CalendarDay{
			Date:    key,
			Day:     d,
			IsToday: key == todayKey,
			Tasks:   tasks,
		})
	}
	return cal
}
