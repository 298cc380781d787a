package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ProfileRepositoryPG persists identity profiles in PostgreSQL. Creating or
// activating a profile deactivates the user's other profiles in the same
// statement, so at most one profile is ever active per user.
type ProfileRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(sql infra.SQLExecutor) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{sql: sql}
}

// Create inserts a new active profile for the user.
func (r *ProfileRepositoryPG) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertProfile,
		profile.UserID, string(profile.Archetype), profile.BrandName, profile.Language, profile.ToneMarkers)
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.Archetype, &p.BrandName, &p.Language, &p.ToneMarkers, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Active returns the user's currently active profile.
func (r *ProfileRepositoryPG) Active(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectActiveProfile, userID)
	return scanProfile(row)
}

// ByID returns the profile when it belongs to the user.
func (r *ProfileRepositoryPG) ByID(ctx context.Context, profileID, userID string) (*domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectProfileByID, profileID, userID)
	return scanProfile(row)
}

// List returns the user's non-archived profiles, newest first.
func (r *ProfileRepositoryPG) List(ctx context.Context, userID string) ([]domain.Profile, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListProfiles, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Archetype, &p.BrandName, &p.Language, &p.ToneMarkers, &p.Active, &p.CreatedAt, &p.UpdatedAt, &p.ArchivedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Activate marks the profile active and deactivates the user's others.
func (r *ProfileRepositoryPG) Activate(ctx context.Context, profileID, userID string) error {
	row := r.sql.QueryRow(ctx, sqlinline.QActivateProfile, profileID, userID)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// Archive soft-deletes the profile. Profiles are never hard-deleted.
func (r *ProfileRepositoryPG) Archive(ctx context.Context, profileID, userID string) error {
	row := r.sql.QueryRow(ctx, sqlinline.QArchiveProfile, profileID, userID)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.Archetype, &p.BrandName, &p.Language, &p.ToneMarkers, &p.Active, &p.CreatedAt, &p.UpdatedAt, &p.ArchivedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
