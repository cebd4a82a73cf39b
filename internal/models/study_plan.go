package models

import "time"

// Assessment is the learner's answers to the study-plan intake questionnaire.
type Assessment struct {
	CurrentLevel        string   `json:"current_level"` // beginner, intermediate, advanced, review
	StudyTime           string   `json:"study_time"`
	TestDate            string   `json:"test_date"` // YYYY-MM-DD
	LearningPreferences []string `json:"learning_preferences"`
	WeakAreas           []string `json:"weak_areas"`
	StudyEnvironment    string   `json:"study_environment"`
	PreviousAttempts    string   `json:"previous_attempts"`
	MotivationLevel     string   `json:"motivation_level"`
}

type WeeklyFocus struct {
	Week  int    `json:"week" yaml:"week"`
	Focus string `json:"focus" yaml:"focus"`
}

type TimelineTask struct {
	Title    string `json:"title" yaml:"title"`
	Type     string `json:"type" yaml:"type"`
	Duration string `json:"duration" yaml:"duration"`
}

type TimelineWeek struct {
	Week  int            `json:"week" yaml:"week"`
	Focus string         `json:"focus" yaml:"focus"`
	Tasks []TimelineTask `json:"tasks" yaml:"tasks"`
	Goals []string       `json:"goals" yaml:"goals"`
}

type ScheduledTask struct {
	ID            int64  `json:"id" yaml:"id"`
	Date          string `json:"date" yaml:"date"` // YYYY-MM-DD
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description" yaml:"description"`
	Type          string `json:"type" yaml:"type"`
	EstimatedTime string `json:"estimated_time" yaml:"estimated_time"`
	Difficulty    string `json:"difficulty" yaml:"difficulty"`
	Completed     bool   `json:"completed" yaml:"completed"`
}

type StudyPlan struct {
	ID              int64           `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Description     string          `json:"description" yaml:"description"`
	Duration        string          `json:"duration" yaml:"duration"`
	DailyTime       string          `json:"daily_time" yaml:"daily_time"`
	Intensity       string          `json:"intensity" yaml:"intensity"`
	Difficulty      string          `json:"difficulty" yaml:"difficulty"`
	SuccessRate     int             `json:"success_rate" yaml:"success_rate"`
	Features        []string        `json:"features" yaml:"features"`
	WeeklyBreakdown []WeeklyFocus   `json:"weekly_breakdown" yaml:"weekly_breakdown"`
	Timeline        []TimelineWeek  `json:"timeline,omitempty" yaml:"timeline"`
	Schedule        []ScheduledTask `json:"schedule,omitempty" yaml:"schedule"`
	IsRecommended   bool            `json:"is_recommended" yaml:"-"`
	CustomizedFor   string          `json:"customized_for,omitempty" yaml:"-"`
	IsCustom        bool            `json:"is_custom" yaml:"-"`

	StartDate    string            `json:"start_date,omitempty" yaml:"-"`
	Preferences  *StudyPreferences `json:"preferences,omitempty" yaml:"-"`
	FocusAreas   []string          `json:"focus_areas,omitempty" yaml:"-"`
	StudyMethods []string          `json:"study_methods,omitempty" yaml:"-"`
	RestDays     []string          `json:"rest_days,omitempty" yaml:"-"`
}

type StudyPreferences struct {
	MorningStudy     bool `json:"morning_study"`
	EveningStudy     bool `json:"evening_study"`
	WeekendIntensive bool `json:"weekend_intensive"`
	BreakReminders   bool `json:"break_reminders"`
	MobileSync       bool `json:"mobile_sync"`
}

// PlanCustomization overrides fields of a plan; empty values keep the original.
type PlanCustomization struct {
	Name         string            `json:"name"`
	Duration     string            `json:"duration"`
	DailyTime    string            `json:"daily_time"`
	StartDate    string            `json:"start_date"`
	Preferences  *StudyPreferences `json:"preferences"`
	FocusAreas   []string          `json:"focus_areas"`
	StudyMethods []string          `json:"study_methods"`
	RestDays     []string          `json:"rest_days"`
}

type PlanProgress struct {
	OverallPercent int             `json:"overall_percent"`
	CompletedTasks int             `json:"completed_tasks"`
	TotalTasks     int             `json:"total_tasks"`
	UpcomingTasks  []ScheduledTask `json:"upcoming_tasks"`
	OverdueTasks   []ScheduledTask `json:"overdue_tasks"`
}

type CalendarDay struct {
	Date    string          `json:"date"`
	Day     int             `json:"day"`
	IsToday bool            `json:"is_today"`
	Tasks   []ScheduledTask `json:"tasks"`
}

// CalendarMonth is a month grid; nil Days entries are the leading blank cells.
type CalendarMonth struct {
	Year  int            `json:"year"`
	Month time.Month     `json:"month"`
	Days  []*CalendarDay `json:"days"`
}

// StudyPlanState is what the study-plan page needs on first load.
type StudyPlanState struct {
	InitialView   string      `json:"initial_view"` // plans, dashboard
	Assessment    *Assessment `json:"assessment,omitempty"`
	Plans         []StudyPlan `json:"plans"`
	SelectedPlan  *StudyPlan  `json:"selected_plan,omitempty"`
	HasAssessment bool        `json:"has_assessment"`
}
