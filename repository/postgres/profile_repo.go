package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

const profileColumns = `id, user_id, level, experience, created_at, updated_at`

type profileRepository struct {
	db querier
}

// NewProfileRepository instantiates a Postgres-backed profile repository.
func NewProfileRepository(db querier) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
	INSERT INTO user_profiles (id, user_id, level, experience)
	VALUES ($1, $2, 1, 0)
	ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
	RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query, uuid.NewString(), userID))
	if err != nil {
		return nil, fmt.Errorf("get or create profile: %w", err)
	}
	return profile, nil
}

func (r *profileRepository) GetByID(ctx context.Context, userID, id string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = $1 AND user_id = $2`
	return scanProfile(r.db.QueryRow(ctx, query, id, userID))
}

func (r *profileRepository) List(ctx context.Context, userID string) ([]domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err, nil)
	}
	defer rows.Close()

	profiles := make([]domain.UserProfile, 0, 1)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	if profile == nil {
		return domain.ErrInvalidPayload
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO user_profiles (id, user_id, level, experience)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, profile.ID, profile.UserID, profile.Level, profile.Experience).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrProfileExists
	}
	return translate(err, nil)
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	if profile == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE user_profiles
	SET level = $3, experience = $4, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, profile.ID, profile.UserID, profile.Level, profile.Experience).
		Scan(&profile.UpdatedAt)
	return translate(err, domain.ErrProfileNotFound)
}

func (r *profileRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_profiles WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func scanProfile(row scanner) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Level,
		&profile.Experience,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrProfileNotFound)
	}
	return &profile, nil
}
