package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/repository"
)

type preferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository implementation
func NewPreferenceRepository(db *sql.DB) repository.PreferenceRepository {
	return &preferenceRepository{db: db}
}

const upsertPreference = `
INSERT INTO preferences (profile_id, key, value, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(profile_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

func (r *preferenceRepository) Get(ctx context.Context, profileID int64, key string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("getting preference: profile_id=%d, key=%s", profileID, key)

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE profile_id = ? AND key = ?`, profileID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get preference %s: %v", key, err)
		return nil, err
	}
	return []byte(value), nil
}

func (r *preferenceRepository) Put(ctx context.Context, profileID int64, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("storing preference: profile_id=%d, key=%s, bytes=%d", profileID, key, len(value))

	if _, err := r.db.ExecContext(ctx, upsertPreference, profileID, key, string(value)); err != nil {
		log.Error("failed to store preference %s: %v", key, err)
		return err
	}
	return nil
}

func (r *preferenceRepository) PutMany(ctx context.Context, profileID int64, values map[string][]byte) error {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("storing %d preferences: profile_id=%d", len(values), profileID)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertPreference)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, k := range keys {
			if _, err := stmt.ExecContext(ctx, profileID, k, string(values[k])); err != nil {
				log.Error("failed to store preference %s: %v", k, err)
				return err
			}
		}
		return nil
	})
}
