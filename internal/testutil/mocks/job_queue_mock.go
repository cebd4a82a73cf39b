package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/nclexnav/internal/practice"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueResult(profileID int64, res practice.Results) error {
	args := m.Called(profileID, res)
	return args.Error(0)
}
