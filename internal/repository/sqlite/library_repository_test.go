package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/repository"
	"github.com/vytor/nclexnav/internal/repository/sqlite"
	"github.com/vytor/nclexnav/internal/testutil"
)

type LibraryRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.LibraryRepository
	profileID int64
}

func (s *LibraryRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewLibraryRepository(s.db)
	s.profileID = testutil.CreateProfile(s.T(), s.db, "learner")
}

func (s *LibraryRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LibraryRepositorySuite) save(resourceID int64, folder string, at time.Time) {
	s.Require().NoError(s.repo.Save(context.Background(), models.SavedResource{
		ProfileID: s.profileID, ResourceID: resourceID, Folder: folder, SavedAt: at,
	}))
}

func (s *LibraryRepositorySuite) TestSaveAndList() {
	ctx := context.Background()
	s.save(1, "pharm", baseTime)
	s.save(2, "", baseTime.Add(time.Hour))

	all, err := s.repo.List(ctx, s.profileID, "")
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Assert().Equal(int64(2), all[0].ResourceID)

	pharm, err := s.repo.List(ctx, s.profileID, "pharm")
	s.Require().NoError(err)
	s.Require().Len(pharm, 1)
	s.Assert().Equal(int64(1), pharm[0].ResourceID)

	n, err := s.repo.Count(ctx, s.profileID)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}

func (s *LibraryRepositorySuite) TestSave_MovesFolder() {
	ctx := context.Background()
	s.save(3, "a", baseTime)
	s.save(3, "b", baseTime)

	saved, err := s.repo.List(ctx, s.profileID, "")
	s.Require().NoError(err)
	s.Require().Len(saved, 1)
	s.Assert().Equal("b", saved[0].Folder)
}

func (s *LibraryRepositorySuite) TestRemove() {
	ctx := context.Background()
	s.save(4, "", baseTime)

	removed, err := s.repo.Remove(ctx, s.profileID, 4)
	s.Require().NoError(err)
	s.Assert().True(removed)

	removed, err = s.repo.Remove(ctx, s.profileID, 4)
	s.Require().NoError(err)
	s.Assert().False(removed)

	saved, err := s.repo.List(ctx, s.profileID, "")
	s.Require().NoError(err)
	s.Assert().Empty(saved)
}

func TestLibraryRepositorySuite(t *testing.T) {
	suite.Run(t, new(LibraryRepositorySuite))
}
