package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

type achievementRepository struct {
	db querier
}

func NewAchievementRepository(db querier) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) GetByID(ctx context.Context, userID, id string) (*domain.Achievement, error) {
	const query = `
	SELECT id, user_id, name, description, achieved_at
	FROM achievements
	WHERE id = $1 AND user_id = $2
	`
	return scanAchievement(r.db.QueryRow(ctx, query, id, userID))
}

func (r *achievementRepository) List(ctx context.Context, userID string) ([]domain.Achievement, error) {
	const query = `
	SELECT id, user_id, name, description, achieved_at
	FROM achievements
	WHERE user_id = $1
	ORDER BY achieved_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err, nil)
	}
	defer rows.Close()

	achievements := make([]domain.Achievement, 0)
	for rows.Next() {
		achievement, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, *achievement)
	}
	return achievements, rows.Err()
}

func (r *achievementRepository) Create(ctx context.Context, achievement *domain.Achievement) error {
	if achievement == nil {
		return domain.ErrInvalidPayload
	}
	if achievement.ID == "" {
		achievement.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO achievements (id, user_id, name, description)
	VALUES ($1, $2, $3, $4)
	RETURNING achieved_at
	`
	err := r.db.QueryRow(ctx, query, achievement.ID, achievement.UserID, achievement.Name, achievement.Description).
		Scan(&achievement.AchievedAt)
	return translate(err, nil)
}

func (r *achievementRepository) Update(ctx context.Context, achievement *domain.Achievement) error {
	if achievement == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE achievements
	SET name = $3, description = $4
	WHERE id = $1 AND user_id = $2
	RETURNING achieved_at
	`
	err := r.db.QueryRow(ctx, query, achievement.ID, achievement.UserID, achievement.Name, achievement.Description).
		Scan(&achievement.AchievedAt)
	return translate(err, domain.ErrAchievementNotFound)
}

func (r *achievementRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM achievements WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAchievementNotFound
	}
	return nil
}

func scanAchievement(row scanner) (*domain.Achievement, error) {
	var achievement domain.Achievement
	if err := row.Scan(
		&achievement.ID,
		&achievement.UserID,
		&achievement.Name,
		&achievement.Description,
		&achievement.AchievedAt,
	); err != nil {
		return nil, translate(err, domain.ErrAchievementNotFound)
	}
	return &achievement, nil
}
