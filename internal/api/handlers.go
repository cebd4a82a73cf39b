package api

import (
	"context"

	"github.com/vytor/nclexnav/internal/metrics"
	"github.com/vytor/nclexnav/internal/services"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	ProfileService   services.ProfileService
	PracticeService  services.PracticeService
	HistoryService   services.HistoryService
	StudyPlanService services.StudyPlanService
	LibraryService   services.LibraryService
	DashboardService services.DashboardService

	DB          Pinger
	Metrics     *metrics.Metrics
	RateLimiter *RateLimiter
}
