package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPreferenceRepository is a mock implementation of repository.PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) Get(ctx context.Context, profileID int64, key string) ([]byte, error) {
	args := m.Called(ctx, profileID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPreferenceRepository) Put(ctx context.Context, profileID int64, key string, value []byte) error {
	args := m.Called(ctx, profileID, key, value)
	return args.Error(0)
}

func (m *MockPreferenceRepository) PutMany(ctx context.Context, profileID int64, values map[string][]byte) error {
	args := m.Called(ctx, profileID, values)
	return args.Error(0)
}
