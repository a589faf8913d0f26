package usecase

import (
	"context"
	"time"

	"github.com/fastygo/questlog/domain"
)

// ActivityJournal receives activity events after the change that produced them has been committed.
type ActivityJournal interface {
	Record(ctx context.Context, events ...*domain.ActivityEvent) error
}

// ScheduleLocker serialises schedule-changing writes of a single user.
// Lock blocks until the lock is held and returns the function that releases it.
type ScheduleLocker interface {
	Lock(ctx context.Context, userID string) (func(), error)
}

// NoopLocker relies on the store's transaction isolation alone.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// Clock returns the current time.
type Clock func() time.Time
