package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/nclexnav/internal/models"
)

// MockLibraryRepository is a mock implementation of repository.LibraryRepository
type MockLibraryRepository struct {
	mock.Mock
}

func (m *MockLibraryRepository) Save(ctx context.Context, saved models.SavedResource) error {
	args := m.Called(ctx, saved)
	return args.Error(0)
}

func (m *MockLibraryRepository) Remove(ctx context.Context, profileID, resourceID int64) (bool, error) {
	args := m.Called(ctx, profileID, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLibraryRepository) List(ctx context.Context, profileID int64, folder string) ([]models.SavedResource, error) {
	args := m.Called(ctx, profileID, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedResource), args.Error(1)
}

func (m *MockLibraryRepository) Count(ctx context.Context, profileID int64) (int, error) {
	args := m.Called(ctx, profileID)
	return args.Int(0), args.Error(1)
}
