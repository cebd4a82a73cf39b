package repository

import (
	"context"

	"github.com/vytor/nclexnav/internal/models"
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, username string) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
}

// HistoryRepository stores finished and abandoned practice tests
type HistoryRepository interface {
	// Insert ignores a record whose attempt id is already stored and reports
	// whether a row was written.
	Insert(ctx context.Context, record models.TestRecord) (bool, error)
	Get(ctx context.Context, profileID, id int64) (*models.TestRecord, error)
	List(ctx context.Context, filter models.HistoryFilter) ([]models.TestRecord, error)
	Count(ctx context.Context, filter models.HistoryFilter) (int, error)
	Stats(ctx context.Context, profileID int64) (models.HistoryStats, error)
}

// Preference keys, named after the client storage keys they replace.
const (
	PrefAssessment   = "userAssessment"
	PrefStudyPlans   = "userStudyPlans"
	PrefSelectedPlan = "selectedStudyPlan"
)

// PreferenceRepository holds opaque per-profile JSON blobs
type PreferenceRepository interface {
	// Get returns nil when the key has never been written.
	Get(ctx context.Context, profileID int64, key string) ([]byte, error)
	Put(ctx context.Context, profileID int64, key string, value []byte) error
	// PutMany writes all values in one transaction.
	PutMany(ctx context.Context, profileID int64, values map[string][]byte) error
}

// LibraryRepository handles a profile's saved resources
type LibraryRepository interface {
	Save(ctx context.Context, saved models.SavedResource) error
	Remove(ctx context.Context, profileID, resourceID int64) (bool, error)
	List(ctx context.Context, profileID int64, folder string) ([]models.SavedResource, error)
	Count(ctx context.Context, profileID int64) (int, error)
}
