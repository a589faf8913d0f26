package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

// SQLite sorts NULLs first for ascending order, so the dashboard order spells NULLS LAST out.
const dashboardOrder = "due_date ASC NULLS LAST, scheduled_date ASC NULLS LAST, created_at ASC, id ASC"

var activeStatuses = []string{string(domain.TaskPending), string(domain.TaskInProgress)}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns a GORM/SQLite implementation of TaskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	var row taskRow
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		return nil, notFound(err, domain.ErrTaskNotFound)
	}
	task := row.toDomain()
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.RelatedStatusType != "" {
		q = q.Where("related_status_type = ?", string(filter.RelatedStatusType))
	}
	if filter.DailyTop != nil {
		q = q.Where("is_daily_top = ?", *filter.DailyTop)
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []taskRow
	if err := q.Order("created_at DESC, id DESC").
		Limit(repository.ClampLimit(filter.Limit)).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return toTasks(rows), nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	row := toTaskRow(task)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	task.CreatedAt = row.CreatedAt
	task.UpdatedAt = row.UpdatedAt
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	row := toTaskRow(task)
	now := r.db.NowFunc()
	res := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]interface{}{
			"title":                 row.Title,
			"description":           row.Description,
			"due_date":              row.DueDate,
			"scheduled_date":        row.ScheduledDate,
			"estimated_time":        row.EstimatedTime,
			"status":                row.Status,
			"is_daily_top":          row.IsDailyTop,
			"order_in_daily":        row.OrderInDaily,
			"completed_at":          row.CompletedAt,
			"snooze_reason":         row.SnoozeReason,
			"snooze_count":          row.SnoozeCount,
			"learned_at_completion": row.LearnedAtCompletion,
			"category":              row.Category,
			"related_status_type":   row.RelatedStatusType,
			"updated_at":            now,
		})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = now
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&taskRow{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountActiveBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("user_id = ? AND scheduled_date >= ? AND scheduled_date < ? AND status IN ?",
			userID, from.UTC(), to.UTC(), activeStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count active tasks: %w", err)
	}
	return int(count), nil
}

func (r *taskRepository) ActiveScheduledBetween(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	var rows []taskRow
	err := r.db.WithContext(ctx).Select("scheduled_date").
		Where("user_id = ? AND scheduled_date >= ? AND scheduled_date < ? AND status IN ?",
			userID, from.UTC(), to.UTC(), activeStatuses).
		Order("scheduled_date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list scheduled dates: %w", err)
	}

	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if row.ScheduledDate != nil {
			dates = append(dates, *row.ScheduledDate)
		}
	}
	return dates, nil
}

func (r *taskRepository) ListIncomplete(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	var rows []taskRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, activeStatuses).
		Order(dashboardOrder).
		Limit(repository.ClampLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list incomplete tasks: %w", err)
	}
	return toTasks(rows), nil
}

func (r *taskRepository) ListCompletedBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Task, error) {
	var rows []taskRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, string(domain.TaskCompleted), from.UTC(), to.UTC()).
		Order(dashboardOrder).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return toTasks(rows), nil
}

func toTasks(rows []taskRow) []domain.Task {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}
	return tasks
}

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
