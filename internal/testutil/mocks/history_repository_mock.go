package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/nclexnav/internal/models"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Insert(ctx context.Context, record models.TestRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockHistoryRepository) Get(ctx context.Context, profileID, id int64) (*models.TestRecord, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestRecord), args.Error(1)
}

func (m *MockHistoryRepository) List(ctx context.Context, filter models.HistoryFilter) ([]models.TestRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TestRecord), args.Error(1)
}

func (m *MockHistoryRepository) Count(ctx context.Context, filter models.HistoryFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockHistoryRepository) Stats(ctx context.Context, profileID int64) (models.HistoryStats, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(models.HistoryStats), args.Error(1)
}
