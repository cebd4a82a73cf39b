package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/vytor/nclexnav/internal/content"
	"github.com/vytor/nclexnav/internal/countdown"
	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/repository"
	"github.com/vytor/nclexnav/internal/studyplan"
)

// StudyPlanService handles assessments, plan selection and task tracking.
// Its state lives in per-profile preference blobs.
type StudyPlanService interface {
	GetState(ctx context.Context, profileID int64) (*models.StudyPlanState, error)
	SubmitAssessment(ctx context.Context, profileID int64, a models.Assessment) (*models.StudyPlanState, error)
	SelectPlan(ctx context.Context, profileID, planID int64) (*models.StudyPlan, error)
	CustomizePlan(ctx context.Context, profileID, planID int64, c models.PlanCustomization) (*models.StudyPlan, error)
	ToggleTask(ctx context.Context, profileID, taskID int64) (*models.StudyPlan, error)
	// SelectedPlan returns nil when no plan has been selected.
	SelectedPlan(ctx context.Context, profileID int64) (*models.StudyPlan, error)
	GetProgress(ctx context.Context, profileID int64) (*models.PlanProgress, error)
	GetCalendar(ctx context.Context, profileID int64, year int, month time.Month) (models.CalendarMonth, error)
	// Countdown uses target when given, otherwise the assessment test date.
	// It returns nil when neither is known.
	Countdown(ctx context.Context, profileID int64, target string) (*models.Countdown, error)
}

type studyPlanService struct {
	prefRepo repository.PreferenceRepository
	catalog  *content.Catalog
	now      func() time.Time
	writes   profileLocks
}

// NewStudyPlanService creates a new StudyPlanService. A nil clock means time.Now.
func NewStudyPlanService(prefRepo repository.PreferenceRepository, catalog *content.Catalog, clock func() time.Time) StudyPlanService {
	if clock == nil {
		clock = time.Now
	}
	return &studyPlanService{prefRepo: prefRepo, catalog: catalog, now: clock}
}

func (s *studyPlanService) GetState(ctx context.Context, profileID int64) (*models.StudyPlanState, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading study plan state: profile_id=%d", profileID)

	var assessment *models.Assessment
	if err := s.load(ctx, profileID, repository.PrefAssessment, &assessment); err != nil {
		return nil, err
	}
	plans, err := s.plans(ctx, profileID, assessment)
	if err != nil {
		return nil, err
	}
	selected, err := s.SelectedPlan(ctx, profileID)
	if err != nil {
		return nil, err
	}

	return &models.StudyPlanState{
		InitialView:   studyplan.InitialView(assessment != nil),
		Assessment:    assessment,
		Plans:         plans,
		SelectedPlan:  selected,
		HasAssessment: assessment != nil,
	}, nil
}

func (s *studyPlanService) SubmitAssessment(ctx context.Context, profileID int64, a models.Assessment) (*models.StudyPlanState, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting assessment: profile_id=%d, level=%s", profileID, a.CurrentLevel)

	if err := studyplan.ValidateAssessment(a); err != nil {
		field := "current_level"
		if stderrors.Is(err, studyplan.ErrInvalidDate) {
			field = "test_date"
		}
		return nil, errors.NewValidationError(field, err.Error())
	}

	plans := studyplan.Personalize(s.catalog.DefaultPlans(), a)
	unlock := s.writes.lock(profileID)
	err := s.store(ctx, profileID, map[string]any{
		repository.PrefAssessment: a,
		repository.PrefStudyPlans: plans,
	})
	unlock()
	if err != nil {
		return nil, err
	}
	log.Info("assessment stored: profile_id=%d, %d plans generated", profileID, len(plans))

	return s.GetState(ctx, profileID)
}

func (s *studyPlanService) SelectPlan(ctx context.Context, profileID, planID int64) (*models.StudyPlan, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting study plan: profile_id=%d, plan_id=%d", profileID, planID)
	defer s.writes.lock(profileID)()

	plans, err := s.plans(ctx, profileID, nil)
	if err != nil {
		return nil, err
	}
	plan, ok := findPlan(plans, planID)
	if !ok {
		return nil, errors.NewNotFoundError("study plan", planID)
	}
	if err := s.store(ctx, profileID, map[string]any{repository.PrefSelectedPlan: plan}); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *studyPlanService) CustomizePlan(ctx context.Context, profileID, planID int64, c models.PlanCustomization) (*models.StudyPlan, error) {
	log := logger.FromContext(ctx)
	log.Debug("customizing study plan: profile_id=%d, plan_id=%d", profileID, planID)
	defer s.writes.lock(profileID)()

	plans, err := s.plans(ctx, profileID, nil)
	if err != nil {
		return nil, err
	}
	base, ok := findPlan(plans, planID)
	if !ok {
		return nil, errors.NewNotFoundError("study plan", planID)
	}

	var nextID int64
	for _, p := range plans {
		nextID = max(nextID, p.ID)
	}
	custom, err := studyplan.Customize(content.ClonePlan(base), c, nextID+1)
	if err != nil {
		return nil, errors.NewValidationError("start_date", err.Error())
	}

	plans = append(plans, custom)
	if err := s.store(ctx, profileID, map[string]any{
		repository.PrefStudyPlans:   plans,
		repository.PrefSelectedPlan: custom,
	}); err != nil {
		return nil, err
	}
	log.Info("custom plan %d created from plan %d", custom.ID, planID)
	return &custom, nil
}

func (s *studyPlanService) ToggleTask(ctx context.Context, profileID, taskID int64) (*models.StudyPlan, error) {
	log := logger.FromContext(ctx)
	log.Debug("toggling task: profile_id=%d, task_id=%d", profileID, taskID)
	defer s.writes.lock(profileID)()

	selected, err := s.SelectedPlan(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return nil, errors.NewNotFoundError("selected study plan", profileID)
	}
	updated, ok := studyplan.ToggleTask(*selected, taskID)
	if !ok {
		return nil, errors.NewNotFoundError("task", taskID)
	}

	values := map[string]any{repository.PrefSelectedPlan: updated}
	// Keep the stored copy in the plan list in step with the selection.
	var stored []models.StudyPlan
	if err := s.load(ctx, profileID, repository.PrefStudyPlans, &stored); err != nil {
		return nil, err
	}
	for i := range stored {
		if stored[i].ID == updated.ID {
			stored[i] = updated
			values[repository.PrefStudyPlans] = stored
			break
		}
	}
	if err := s.store(ctx, profileID, values); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *studyPlanService) SelectedPlan(ctx context.Context, profileID int64) (*models.StudyPlan, error) {
	var selected *models.StudyPlan
	if err := s.load(ctx, profileID, repository.PrefSelectedPlan, &selected); err != nil {
		return nil, err
	}
	return selected, nil
}

func (s *studyPlanService) GetProgress(ctx context.Context, profileID int64) (*models.PlanProgress, error) {
	selected, err := s.SelectedPlan(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return nil, errors.NewNotFoundError("selected study plan", profileID)
	}
	prog := studyplan.Progress(*selected, s.now())
	return &prog, nil
}

func (s *studyPlanService) GetCalendar(ctx context.Context, profileID int64, year int, month time.Month) (models.CalendarMonth, error) {
	if month < time.January || month > time.December {
		return models.CalendarMonth{}, errors.NewValidationError("month", "must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return models.CalendarMonth{}, errors.NewValidationError("year", "out of range")
	}
	selected, err := s.SelectedPlan(ctx, profileID)
	if err != nil {
		return models.CalendarMonth{}, err
	}
	return studyplan.Calendar(selected, year, month, s.now()), nil
}

func (s *studyPlanService) Countdown(ctx context.Context, profileID int64, target string) (*models.Countdown, error) {
	if target == "" {
		var assessment *models.Assessment
		if err := s.load(ctx, profileID, repository.PrefAssessment, &assessment); err != nil {
			return nil, err
		}
		if assessment == nil || assessment.TestDate == "" {
			return nil, nil
		}
		target = assessment.TestDate
	}

	now := s.now()
	t, err := countdown.ParseTarget(target, now.Location())
	if err != nil {
		return nil, errors.NewValidationError("target", "expected RFC 3339 timestamp or YYYY-MM-DD")
	}
	c := countdown.Until(now, t)
	return &c, nil
}

// plans returns the stored plans, or the catalog defaults (personalised when
// an assessment is given) before any were generated.
func (s *studyPlanService) plans(ctx context.Context, profileID int64, a *models.Assessment) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	if err := s.load(ctx, profileID, repository.PrefStudyPlans, &plans); err != nil {
		return nil, err
	}
	if plans != nil {
		return plans, nil
	}
	defaults := s.catalog.DefaultPlans()
	if a != nil {
		defaults = studyplan.Personalize(defaults, *a)
	}
	return defaults, nil
}

func (s *studyPlanService) load(ctx context.Context, profileID int64, key string, dst any) error {
	raw, err := s.prefRepo.Get(ctx, profileID, key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load %s: %v", key, err)
		return errors.NewInternalError(err)
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.FromContext(ctx).Error("corrupt %s blob for profile %d: %v", key, profileID, err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *studyPlanService) store(ctx context.Context, profileID int64, values map[string]any) error {
	blobs := make(map[string][]byte, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.NewInternalError(err)
		}
		blobs[k] = raw
	}
	if err := s.prefRepo.PutMany(ctx, profileID, blobs); err != nil {
		logger.FromContext(ctx).Error("failed to store study plan state: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func findPlan(plans []models.StudyPlan, id int64) (models.StudyPlan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.StudyPlan{}, false
}
