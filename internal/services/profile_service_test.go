package services

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/testutil/mocks"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("GetByUsername", ctx, "maria").Return(nil, nil)
	repo.On("Create", ctx, "maria").Return(&models.Profile{ID: 1, Username: "maria"}, nil)

	p, err := NewProfileService(repo).CreateProfile(ctx, "  maria ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	repo.AssertExpectations(t)
}

func TestCreateProfile_Validation(t *testing.T) {
	svc := NewProfileService(new(mocks.MockProfileRepository))

	_, err := svc.CreateProfile(context.Background(), " ")
	requireCode(t, err, errors.ErrCodeValidation)

	_, err = svc.CreateProfile(context.Background(), strings.Repeat("x", 51))
	requireCode(t, err, errors.ErrCodeValidation)
}

func TestCreateProfile_Taken(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("GetByUsername", ctx, "sam").Return(&models.Profile{ID: 4, Username: "sam"}, nil)

	_, err := NewProfileService(repo).CreateProfile(ctx, "sam")
	requireCode(t, err, errors.ErrCodeConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("Get", ctx, int64(9)).Return(nil, nil)

	_, err := NewProfileService(repo).GetProfile(ctx, 9)
	requireCode(t, err, errors.ErrCodeNotFound)
}

func TestListProfiles_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("List", ctx).Return(nil, stderrors.New("db down"))

	_, err := NewProfileService(repo).ListProfiles(ctx)
	requireCode(t, err, errors.ErrCodeInternal)
}

func TestDeleteProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("Get", ctx, int64(2)).Return(&models.Profile{ID: 2}, nil)
	repo.On("Delete", ctx, int64(2)).Return(nil)

	require.NoError(t, NewProfileService(repo).DeleteProfile(ctx, 2))
	repo.AssertExpectations(t)
}
