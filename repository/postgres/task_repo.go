package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

const taskColumns = `id, user_id, title, description, due_date, scheduled_date, estimated_time, status,
	is_daily_top, order_in_daily, completed_at, snooze_reason, snooze_count, learned_at_completion,
	category, related_status_type, created_at, updated_at`

// Postgres sorts NULLs last for ascending order by default; spelled out to keep the contract visible.
const dashboardOrder = `ORDER BY due_date ASC NULLS LAST, scheduled_date ASC NULLS LAST, created_at ASC, id ASC`

type taskRepository struct {
	db querier
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(db querier) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR category = $3)
	  AND ($4 = '' OR related_status_type = $4)
	  AND ($5::boolean IS NULL OR is_daily_top = $5)
	ORDER BY created_at DESC, id DESC
	LIMIT $6 OFFSET $7`

	return r.query(ctx, query,
		filter.UserID,
		string(filter.Status),
		filter.Category,
		string(filter.RelatedStatusType),
		filter.DailyTop,
		repository.ClampLimit(filter.Limit),
		clampOffset(filter.Offset),
	)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, due_date, scheduled_date, estimated_time, status,
		is_daily_top, order_in_daily, completed_at, snooze_reason, snooze_count, learned_at_completion,
		category, related_status_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING created_at, updated_at
	`

	if err := r.db.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.ScheduledDate,
		task.EstimatedTime,
		string(task.Status),
		task.IsDailyTop,
		task.OrderInDaily,
		task.CompletedAt,
		task.SnoozeReason,
		task.SnoozeCount,
		task.LearnedAtCompletion,
		task.Category,
		string(task.RelatedStatusType),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create task: %w", translate(err, nil))
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		due_date = $5,
		scheduled_date = $6,
		estimated_time = $7,
		status = $8,
		is_daily_top = $9,
		order_in_daily = $10,
		completed_at = $11,
		snooze_reason = $12,
		snooze_count = $13,
		learned_at_completion = $14,
		category = $15,
		related_status_type = $16,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.db.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.ScheduledDate,
		task.EstimatedTime,
		string(task.Status),
		task.IsDailyTop,
		task.OrderInDaily,
		task.CompletedAt,
		task.SnoozeReason,
		task.SnoozeCount,
		task.LearnedAtCompletion,
		task.Category,
		string(task.RelatedStatusType),
	).Scan(&task.UpdatedAt); err != nil {
		return translate(err, domain.ErrTaskNotFound)
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return translate(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountActiveBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM tasks
	WHERE user_id = $1
	  AND scheduled_date >= $2 AND scheduled_date < $3
	  AND status IN ('pending', 'in_progress')
	`
	var count int
	if err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active tasks: %w", translate(err, nil))
	}
	return count, nil
}

func (r *taskRepository) ActiveScheduledBetween(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	const query = `
	SELECT scheduled_date
	FROM tasks
	WHERE user_id = $1
	  AND scheduled_date >= $2 AND scheduled_date < $3
	  AND status IN ('pending', 'in_progress')
	ORDER BY scheduled_date
	`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list scheduled dates: %w", translate(err, nil))
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		dates = append(dates, ts)
	}
	return dates, rows.Err()
}

func (r *taskRepository) ListIncomplete(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1 AND status IN ('pending', 'in_progress')
	` + dashboardOrder + `
	LIMIT $2`
	return r.query(ctx, query, userID, repository.ClampLimit(limit))
}

func (r *taskRepository) ListCompletedBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1 AND status = 'completed'
	  AND completed_at >= $2 AND completed_at < $3
	` + dashboardOrder
	return r.query(ctx, query, userID, from, to)
}

func (r *taskRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", translate(err, nil))
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var status, relatedStatus string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.ScheduledDate,
		&task.EstimatedTime,
		&status,
		&task.IsDailyTop,
		&task.OrderInDaily,
		&task.CompletedAt,
		&task.SnoozeReason,
		&task.SnoozeCount,
		&task.LearnedAtCompletion,
		&task.Category,
		&relatedStatus,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrTaskNotFound)
	}

	task.Status = domain.TaskStatus(status)
	task.RelatedStatusType = domain.StatusType(relatedStatus)
	return &task, nil
}
