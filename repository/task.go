package repository

import (
	"context"
	"time"

	"github.com/fastygo/questlog/domain"
)

type TaskFilter struct {
	UserID            string
	Status            domain.TaskStatus
	Category          string
	RelatedStatusType domain.StatusType
	DailyTop          *bool
	Limit             int
	Offset            int
}

// TaskRepository is always scoped to the owning user; lookups of another user's task report not found.
type TaskRepository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID, id string) error

	// CountActiveBetween counts pending and in-progress tasks scheduled in [from, to).
	CountActiveBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
	// ActiveScheduledBetween returns scheduled dates of pending and in-progress tasks in [from, to).
	ActiveScheduledBetween(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)

	// ListIncomplete returns active tasks ordered by due date then scheduled date, nulls last.
	ListIncomplete(ctx context.Context, userID string, limit int) ([]domain.Task, error)
	// ListCompletedBetween returns tasks completed in [from, to) with the same ordering.
	ListCompletedBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Task, error)
}
