package models

type Countdown struct {
	Target  string `json:"target"`
	Days    int    `json:"days"`
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Passed  bool   `json:"passed"`
	// RefreshSeconds is how often clients should recompute the countdown.
	RefreshSeconds int `json:"refresh_seconds"`
}

type Dashboard struct {
	History      HistoryStats  `json:"history"`
	RecentTests  []TestRecord  `json:"recent_tests"`
	PlanProgress *PlanProgress `json:"plan_progress,omitempty"`
	Countdown    *Countdown    `json:"countdown,omitempty"`
	SavedCount   int           `json:"saved_resources"`

	Performance PerformanceSummary `json:"performance"`
}
