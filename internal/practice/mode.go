package practice

import (
	"fmt"
	"strings"
)

// Mode is the kind of practice test being taken.
type Mode string

const (
	ModeTutor  Mode = "tutor"
	ModeTimed  Mode = "timed"
	ModeCustom Mode = "custom"
)

// ParseMode accepts the mode ids as well as the history labels ("Timed Practice").
func ParseMode(s string) (Mode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "") {
	case "tutor", "tutormode":
		return ModeTutor, nil
	case "timed", "timedpractice":
		return ModeTimed, nil
	case "custom", "customquiz":
		return ModeCustom, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Label is the human-readable mode name used in test history.
func (m Mode) Label() string {
	switch m {
	case ModeTutor:
		return "Tutor Mode"
	case ModeTimed:
		return "Timed Practice"
	case ModeCustom:
		return "Custom Quiz"
	}
	return string(m)
}

// View is the page of the practice-test flow currently shown.
type View string

const (
	ViewModeSelect   View = "mode-select"
	ViewCustomConfig View = "custom-config"
	ViewQuestion     View = "question"
	ViewResults      View = "results"
	ViewHistory      View = "history"
)

const (
	TutorQuestionCount = 50
	TimedQuestionCount = 75
	TimedLimitSeconds  = 4500
)

const (
	DifficultyMixed  = "mixed"
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Choices offered by the custom quiz builder.
var (
	QuestionCountChoices    = []int{10, 25, 50, 75, 100}
	TimeLimitMinutesChoices = []int{30, 60, 90, 120}
)

// CustomConfig is what the custom quiz builder submits.
type CustomConfig struct {
	Categories         []string `json:"categories"`
	Difficulty         string   `json:"difficulty"`
	QuestionCount      int      `json:"question_count"`
	TimeLimitSeconds   *int     `json:"time_limit_seconds"` // nil means unlimited
	ShowRationales     bool     `json:"show_rationales"`
	AdaptiveDifficulty bool     `json:"adaptive_difficulty"`
}

// DefaultCustomConfig mirrors the builder's initial form state.
func DefaultCustomConfig() CustomConfig {
	return CustomConfig{
		Difficulty:     DifficultyMixed,
		QuestionCount:  25,
		ShowRationales: true,
	}
}

// Validate reports why the "start custom quiz" control would be disabled.
func (c CustomConfig) Validate() error {
	if len(c.Categories) == 0 {
		return ErrNoCategory
	}
	if c.QuestionCount <= 0 {
		return fmt.Errorf("%w: question count must be positive", ErrInvalidConfig)
	}
	if c.TimeLimitSeconds != nil && *c.TimeLimitSeconds <= 0 {
		return fmt.Errorf("%w: time limit must be positive or unlimited", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Difficulty) {
	case "", DifficultyMixed, DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, c.Difficulty)
	}
	return nil
}

// EstimatedMinutes is the builder's estimate of 1.5 minutes per question, rounded up.
func (c CustomConfig) EstimatedMinutes() int {
	return (c.QuestionCount*3 + 1) / 2
}

func (c CustomConfig) clone() *CustomConfig {
	out := c
	out.Categories = append([]string(nil), c.Categories...)
	if c.TimeLimitSeconds != nil {
		v := *c.TimeLimitSeconds
		out.TimeLimitSeconds = &v
	}
	return &out
}

func (c *CustomConfig) difficulty() string {
	if c == nil || c.Difficulty == "" {
		return DifficultyMixed
	}
	return strings.ToLower(c.Difficulty)
}
