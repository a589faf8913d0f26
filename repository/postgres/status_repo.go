package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

const statusColumns = `id, user_id, status_type, level, experience, created_at, updated_at`

type statusRepository struct {
	db querier
}

// NewStatusRepository instantiates a Postgres-backed skill track repository.
func NewStatusRepository(db querier) repository.StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) GetOrCreate(ctx context.Context, userID string, statusType domain.StatusType) (*domain.UserStatus, error) {
	query := `
	INSERT INTO user_statuses (id, user_id, status_type, level, experience)
	VALUES ($1, $2, $3, 1, 0)
	ON CONFLICT (user_id, status_type) DO UPDATE SET status_type = EXCLUDED.status_type
	RETURNING ` + statusColumns

	status, err := scanStatus(r.db.QueryRow(ctx, query, uuid.NewString(), userID, string(statusType)))
	if err != nil {
		return nil, fmt.Errorf("get or create status %s: %w", statusType, err)
	}
	return status, nil
}

func (r *statusRepository) GetByID(ctx context.Context, userID, id string) (*domain.UserStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM user_statuses WHERE id = $1 AND user_id = $2`
	return scanStatus(r.db.QueryRow(ctx, query, id, userID))
}

func (r *statusRepository) List(ctx context.Context, userID string) ([]domain.UserStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM user_statuses WHERE user_id = $1 ORDER BY status_type`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err, nil)
	}
	defer rows.Close()

	statuses := make([]domain.UserStatus, 0, len(domain.StatusTypes))
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, rows.Err()
}

func (r *statusRepository) Create(ctx context.Context, status *domain.UserStatus) error {
	if status == nil {
		return domain.ErrInvalidPayload
	}
	if status.ID == "" {
		status.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO user_statuses (id, user_id, status_type, level, experience)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, status.ID, status.UserID, string(status.StatusType), status.Level, status.Experience).
		Scan(&status.CreatedAt, &status.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrStatusExists
	}
	return translate(err, nil)
}

func (r *statusRepository) Update(ctx context.Context, status *domain.UserStatus) error {
	if status == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE user_statuses
	SET status_type = $3, level = $4, experience = $5, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, status.ID, status.UserID, string(status.StatusType), status.Level, status.Experience).
		Scan(&status.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrStatusExists
	}
	return translate(err, domain.ErrStatusNotFound)
}

func (r *statusRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_statuses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStatusNotFound
	}
	return nil
}

func scanStatus(row scanner) (*domain.UserStatus, error) {
	var status domain.UserStatus
	var statusType string
	if err := row.Scan(
		&status.ID,
		&status.UserID,
		&statusType,
		&status.Level,
		&status.Experience,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrStatusNotFound)
	}
	status.StatusType = domain.StatusType(statusType)
	return &status, nil
}
