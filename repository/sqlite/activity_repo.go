package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, event *domain.ActivityEvent) error {
	if event == nil || event.UserID == "" {
		return domain.ErrInvalidPayload
	}
	event.Touch()

	row := toActivityRow(event)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityEvent, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.Kind != "" {
		q = q.Where("kind = ?", string(filter.Kind))
	}

	var rows []activityRow
	if err := q.Order("created_at DESC, id DESC").Limit(repository.ClampLimit(filter.Limit)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	events := make([]domain.ActivityEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, nil
}
