package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/performance"
)

const (
	recentTestsOnDashboard = 5
	// performanceWindow is how many completed attempts feed the analytics.
	performanceWindow = maxHistoryLimit
)

// DashboardService aggregates the learner's overview page
type DashboardService interface {
	GetDashboard(ctx context.Context, profileID int64) (*models.Dashboard, error)
}

type dashboardService struct {
	history HistoryService
	plans   StudyPlanService
	library LibraryService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(history HistoryService, plans StudyPlanService, library LibraryService) DashboardService {
	return &dashboardService{history: history, plans: plans, library: library}
}

func (s *dashboardService) GetDashboard(ctx context.Context, profileID int64) (*models.Dashboard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building dashboard: profile_id=%d", profileID)

	var d models.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st, err := s.history.GetStats(gctx, profileID)
		d.History = st
		return err
	})
	g.Go(func() error {
		recent, _, err := s.history.ListHistory(gctx, models.HistoryFilter{
			ProfileID: profileID,
			SortBy:    models.HistorySortDate,
			Limit:     recentTestsOnDashboard,
		})
		d.RecentTests = recent
		return err
	})
	g.Go(func() error {
		done, _, err := s.history.ListHistory(gctx, models.HistoryFilter{
			ProfileID: profileID,
			Filter:    models.HistoryFilterCompleted,
			SortBy:    models.HistorySortDate,
			Limit:     performanceWindow,
		})
		if err != nil {
			return err
		}
		d.Performance = performance.Summarize(done)
		return nil
	})
	g.Go(func() error {
		selected, err := s.plans.SelectedPlan(gctx, profileID)
		if err != nil || selected == nil {
			return err
		}
		prog, err := s.plans.GetProgress(gctx, profileID)
		d.PlanProgress = prog
		return err
	})
	g.Go(func() error {
		c, err := s.plans.Countdown(gctx, profileID, "")
		d.Countdown = c
		return err
	})
	g.Go(func() error {
		n, err := s.library.CountSaved(gctx, profileID)
		d.SavedCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("failed to build dashboard: %v", err)
		return nil, err
	}
	if d.RecentTests == nil {
		d.RecentTests = []models.TestRecord{}
	}
	return &d, nil
}
