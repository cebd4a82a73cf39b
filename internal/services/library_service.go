package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/nclexnav/internal/content"
	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/library"
	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/repository"
)

// LibraryService handles the resource catalog and the personal library
type LibraryService interface {
	ListResources(ctx context.Context, profileID int64, filter models.ResourceFilter) ([]models.Resource, error)
	GetResource(ctx context.Context, profileID, resourceID int64) (*models.Resource, error)
	SaveResource(ctx context.Context, profileID, resourceID int64, folder string) (*models.SavedItem, error)
	RemoveResource(ctx context.Context, profileID, resourceID int64) error
	ListSaved(ctx context.Context, profileID int64, folder string) ([]models.SavedItem, error)
	CountSaved(ctx context.Context, profileID int64) (int, error)
}

type libraryService struct {
	libraryRepo repository.LibraryRepository
	catalog     *content.Catalog
	now         func() time.Time
}

// NewLibraryService creates a new LibraryService
func NewLibraryService(libraryRepo repository.LibraryRepository, catalog *content.Catalog) LibraryService {
	return &libraryService{libraryRepo: libraryRepo, catalog: catalog, now: time.Now}
}

func (s *libraryService) ListResources(ctx context.Context, profileID int64, filter models.ResourceFilter) ([]models.Resource, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing resources: profile_id=%d, search=%q, sort=%s", profileID, filter.Search, filter.SortBy)

	if err := library.ValidSort(filter.SortBy); err != nil {
		return nil, errors.NewValidationError("sort", err.Error())
	}

	saved, err := s.savedIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	resources := library.Apply(s.catalog.Resources, filter)
	for i := range resources {
		_, resources[i].IsSaved = saved[resources[i].ID]
	}
	return resources, nil
}

func (s *libraryService) GetResource(ctx context.Context, profileID, resourceID int64) (*models.Resource, error) {
	r, ok := s.catalog.Resource(resourceID)
	if !ok {
		return nil, errors.NewNotFoundError("resource", resourceID)
	}
	saved, err := s.savedIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	_, r.IsSaved = saved[r.ID]
	return &r, nil
}

func (s *libraryService) SaveResource(ctx context.Context, profileID, resourceID int64, folder string) (*models.SavedItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("saving resource: profile_id=%d, resource_id=%d, folder=%q", profileID, resourceID, folder)

	r, ok := s.catalog.Resource(resourceID)
	if !ok {
		return nil, errors.NewNotFoundError("resource", resourceID)
	}
	saved := models.SavedResource{
		ProfileID:  profileID,
		ResourceID: resourceID,
		Folder:     strings.TrimSpace(folder),
		SavedAt:    s.now().UTC(),
	}
	if err := s.libraryRepo.Save(ctx, saved); err != nil {
		log.Error("failed to save resource: %v", err)
		return nil, errors.NewInternalError(err)
	}
	r.IsSaved = true
	return &models.SavedItem{Resource: r, Folder: saved.Folder, SavedAt: saved.SavedAt}, nil
}

func (s *libraryService) RemoveResource(ctx context.Context, profileID, resourceID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("removing resource: profile_id=%d, resource_id=%d", profileID, resourceID)

	removed, err := s.libraryRepo.Remove(ctx, profileID, resourceID)
	if err != nil {
		log.Error("failed to remove resource: %v", err)
		return errors.NewInternalError(err)
	}
	if !removed {
		return errors.NewNotFoundError("saved resource", resourceID)
	}
	return nil
}

func (s *libraryService) ListSaved(ctx context.Context, profileID int64, folder string) ([]models.SavedItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing saved resources: profile_id=%d, folder=%q", profileID, folder)

	saved, err := s.libraryRepo.List(ctx, profileID, strings.TrimSpace(folder))
	if err != nil {
		log.Error("failed to list saved resources: %v", err)
		return nil, errors.NewInternalError(err)
	}

	items := make([]models.SavedItem, 0, len(saved))
	for _, sv := range saved {
		r, ok := s.catalog.Resource(sv.ResourceID)
		if !ok {
			// The catalog can shrink between deployments.
			log.Warn("saved resource %d no longer in catalog", sv.ResourceID)
			continue
		}
		r.IsSaved = true
		items = append(items, models.SavedItem{Resource: r, Folder: sv.Folder, SavedAt: sv.SavedAt})
	}
	return items, nil
}

func (s *libraryService) CountSaved(ctx context.Context, profileID int64) (int, error) {
	n, err := s.libraryRepo.Count(ctx, profileID)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}

func (s *libraryService) savedIDs(ctx context.Context, profileID int64) (map[int64]struct{}, error) {
	saved, err := s.libraryRepo.List(ctx, profileID, "")
	if err != nil {
		logger.FromContext(ctx).Error("failed to list saved resources: %v", err)
		return nil, errors.NewInternalError(err)
	}
	ids := make(map[int64]struct{}, len(saved))
	for _, sv := range saved {
		ids[sv.ResourceID] = struct{}{}
	}
	return ids, nil
}
