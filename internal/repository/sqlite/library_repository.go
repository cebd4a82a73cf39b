package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/models"
	"github.com/vytor/nclexnav/internal/repository"
)

type libraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new LibraryRepository implementation
func NewLibraryRepository(db *sql.DB) repository.LibraryRepository {
	return &libraryRepository{db: db}
}

// Save stores a resource in the personal library, or moves it to another folder.
func (r *libraryRepository) Save(ctx context.Context, s models.SavedResource) error {
	log := logger.FromContext(ctx).WithPrefix("library_repo")
	log.Debug("saving resource: profile_id=%d, resource_id=%d, folder=%q", s.ProfileID, s.ResourceID, s.Folder)

	query, args, err := sqlBuilder.Insert("saved_resources").
		Columns("profile_id", "resource_id", "folder", "saved_at").
		Values(s.ProfileID, s.ResourceID, s.Folder, s.SavedAt.UTC()).
		Suffix("ON CONFLICT(profile_id, resource_id) DO UPDATE SET folder = excluded.folder").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save resource: %v", err)
		return err
	}
	return nil
}

func (r *libraryRepository) Remove(ctx context.Context, profileID, resourceID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("library_repo")
	log.Debug("removing resource: profile_id=%d, resource_id=%d", profileID, resourceID)

	query, args, err := sqlBuilder.Delete("saved_resources").
		Where(squirrel.Eq{"profile_id": profileID, "resource_id": resourceID}).
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to remove resource: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns saved resources newest first; an empty folder lists all of them.
func (r *libraryRepository) List(ctx context.Context, profileID int64, folder string) ([]models.SavedResource, error) {
	log := logger.FromContext(ctx).WithPrefix("library_repo")
	log.Debug("listing saved resources: profile_id=%d, folder=%q", profileID, folder)

	q := sqlBuilder.Select("profile_id", "resource_id", "folder", "saved_at").
		From("saved_resources").
		Where(squirrel.Eq{"profile_id": profileID})
	if folder != "" {
		q = q.Where(squirrel.Eq{"folder": folder})
	}
	query, args, err := q.OrderBy("saved_at DESC", "resource_id ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list saved resources: %v", err)
		return nil, err
	}
	defer rows.Close()

	saved := []models.SavedResource{}
	for rows.Next() {
		var s models.SavedResource
		if err := rows.Scan(&s.ProfileID, &s.ResourceID, &s.Folder, &s.SavedAt); err != nil {
			log.Error("failed to scan saved resource row: %v", err)
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

func (r *libraryRepository) Count(ctx context.Context, profileID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_resources WHERE profile_id = ?`, profileID).Scan(&n)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("library_repo").Error("failed to count saved resources: %v", err)
	}
	return n, err
}
