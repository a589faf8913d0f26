package task

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
	"github.com/fastygo/questlog/usecase"
	"github.com/fastygo/questlog/usecase/schedule"
)

type UseCase struct {
	store   repository.Store
	planner *schedule.Planner
	locker  usecase.ScheduleLocker
	journal usecase.ActivityJournal
	rules   domain.ProgressionRules
	now     usecase.Clock
	logger  *zap.Logger
}

type Option func(*UseCase)

func WithLocker(locker usecase.ScheduleLocker) Option {
	return func(uc *UseCase) {
		if locker != nil {
			uc.locker = locker
		}
	}
}

func WithJournal(journal usecase.ActivityJournal) Option {
	return func(uc *UseCase) { uc.journal = journal }
}

func WithRules(rules domain.ProgressionRules) Option {
	return func(uc *UseCase) { uc.rules = rules }
}

func WithClock(now usecase.Clock) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func New(store repository.Store, planner *schedule.Planner, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if planner == nil {
		planner = schedule.New(time.UTC)
	}
	uc := &UseCase{
		store:   store,
		planner: planner,
		locker:  usecase.NoopLocker{},
		rules:   domain.DefaultProgressionRules(),
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.store.Repositories().Tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	return uc.store.Repositories().Tasks.GetByID(ctx, userID, id)
}

// CreateTask stores a new task for userID. A task with a due date and no scheduled date is placed
// on the first day up to the due date that has room; an explicit scheduled date must have room.
func (uc *UseCase) CreateTask(ctx context.Context, userID string, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.ID = ""
	task.UserID = userID
	task.CompletedAt = nil
	if task.Status == "" {
		task.Status = domain.TaskPending
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *domain.Task
	err = uc.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		switch {
		case task.DueDate != nil && task.ScheduledDate == nil:
			day, _, err := uc.planner.PickDay(ctx, repos.Tasks, userID, *task.DueDate, uc.now())
			if err != nil {
				return err
			}
			task.ScheduledDate = &day
		case task.ScheduledDate != nil:
			if err := uc.ensureRoom(ctx, repos.Tasks, userID, *task.ScheduledDate); err != nil {
				return err
			}
		}

		var err error
		created, err = repos.Tasks.Create(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewActivityEvent(userID, domain.ActivityTaskCreated, uc.now())
	event.TaskID = created.ID
	if created.ScheduledDate != nil {
		event.Metadata = map[string]string{"scheduled_date": created.ScheduledDate.Format(time.RFC3339)}
	}
	uc.record(ctx, event)
	return created, nil
}

// UpdateTask loads the task, lets apply change it and stores the result. Moving an active task to
// another day, or re-activating it, requires room on the target day.
func (uc *UseCase) UpdateTask(ctx context.Context, userID, id string, apply func(*domain.Task) error) (*domain.Task, error) {
	if apply == nil {
		return nil, domain.ErrInvalidPayload
	}

	unlock, err := uc.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated domain.Task
	err = uc.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		current, err := repos.Tasks.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		next := *current
		if err := apply(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.UserID = current.UserID
		next.CreatedAt = current.CreatedAt
		next.CompletedAt = current.CompletedAt
		if err := next.Validate(); err != nil {
			return err
		}

		if uc.takesNewSlot(current, &next) {
			if err := uc.ensureRoom(ctx, repos.Tasks, userID, *next.ScheduledDate); err != nil {
				return err
			}
		}

		if err := repos.Tasks.Update(ctx, &next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, id string) error {
	return uc.store.Repositories().Tasks.Delete(ctx, userID, id)
}

// CompleteTask marks the task completed and awards experience to the profile and, when the task
// names one, to the related status track. Completing an already completed task awards again.
func (uc *UseCase) CompleteTask(ctx context.Context, userID, id string, learned *string) (*domain.Task, error) {
	var (
		completed domain.Task
		events    []*domain.ActivityEvent
	)
	now := uc.now()

	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		events = events[:0]

		task, err := repos.Tasks.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		task.Status = domain.TaskCompleted
		task.CompletedAt = &now
		if learned != nil {
			task.LearnedAtCompletion = *learned
		}
		if err := repos.Tasks.Update(ctx, task); err != nil {
			return err
		}

		profile, err := repos.Profiles.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		profileUp := profile.Gain(uc.rules.ProfileAward, uc.rules.ProfileThreshold)
		if err := repos.Profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		done := domain.NewActivityEvent(userID, domain.ActivityTaskCompleted, now)
		done.TaskID = task.ID
		done.StatusType = task.RelatedStatusType
		done.Experience = uc.rules.ProfileAward
		done.Level = profile.Level
		events = append(events, done)
		if profileUp {
			up := domain.NewActivityEvent(userID, domain.ActivityProfileLevelUp, now)
			up.TaskID = task.ID
			up.Level = profile.Level
			events = append(events, up)
		}

		if task.RelatedStatusType != "" {
			status, err := repos.Statuses.GetOrCreate(ctx, userID, task.RelatedStatusType)
			if err != nil {
				return fmt.Errorf("load status: %w", err)
			}
			if status.Gain(uc.rules.StatusAward, uc.rules.StatusThreshold) {
				up := domain.NewActivityEvent(userID, domain.ActivityStatusLevelUp, now)
				up.TaskID = task.ID
				up.StatusType = status.StatusType
				up.Level = status.Level
				events = append(events, up)
			}
			if err := repos.Statuses.Update(ctx, status); err != nil {
				return fmt.Errorf("update status: %w", err)
			}
		}

		completed = *task
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.record(ctx, events...)
	return &completed, nil
}

// SnoozeTask defers a task once. The task's own scheduled day must have fewer than three active
// tasks, the task itself included.
func (uc *UseCase) SnoozeTask(ctx context.Context, userID, id, reason string) (*domain.Task, error) {
	unlock, err := uc.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var snoozed domain.Task
	err = uc.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		task, err := repos.Tasks.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if task.SnoozeCount >= domain.SnoozeLimit {
			return domain.ErrSnoozeLimitExceeded
		}
		if task.ScheduledDate != nil {
			room, err := uc.planner.HasRoom(ctx, repos.Tasks, userID, *task.ScheduledDate)
			if err != nil {
				return err
			}
			if !room {
				return domain.ErrDayFull
			}
		}

		task.Status = domain.TaskSnoozed
		task.SnoozeReason = reason
		task.SnoozeCount++
		if err := repos.Tasks.Update(ctx, task); err != nil {
			return err
		}
		snoozed = *task
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewActivityEvent(userID, domain.ActivityTaskSnoozed, uc.now())
	event.TaskID = snoozed.ID
	if reason != "" {
		event.Metadata = map[string]string{"reason": reason}
	}
	uc.record(ctx, event)
	return &snoozed, nil
}

func (uc *UseCase) ensureRoom(ctx context.Context, tasks repository.TaskRepository, userID string, day time.Time) error {
	room, err := uc.planner.HasRoom(ctx, tasks, userID, day)
	if err != nil {
		return err
	}
	if !room {
		return domain.ErrCapacityExceeded
	}
	return nil
}

// takesNewSlot reports whether next occupies a day slot that current did not already hold.
func (uc *UseCase) takesNewSlot(current, next *domain.Task) bool {
	if !next.IsActive() || next.ScheduledDate == nil {
		return false
	}
	if !current.IsActive() || current.ScheduledDate == nil {
		return true
	}
	return !uc.planner.StartOfDay(*current.ScheduledDate).Equal(uc.planner.StartOfDay(*next.ScheduledDate))
}

func (uc *UseCase) record(ctx context.Context, events ...*domain.ActivityEvent) {
	if uc.journal == nil || len(events) == 0 {
		return
	}
	if err := uc.journal.Record(ctx, events...); err != nil {
		uc.logger.Error("failed to record task activity", zap.String("user_id", events[0].UserID), zap.Error(err))
	}
}
