package repository

import (
	"context"

	"github.com/fastygo/questlog/domain"
)

type ActivityFilter struct {
	UserID string
	Kind   domain.ActivityKind
	Limit  int
}

type ActivityRepository interface {
	// Append stores the event; appending an id that already exists is a no-op.
	Append(ctx context.Context, event *domain.ActivityEvent) error
	List(ctx context.Context, filter ActivityFilter) ([]domain.ActivityEvent, error)
}
