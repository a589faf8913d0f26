package dashboard

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

// IncompleteLimit caps the incomplete tasks shown on the dashboard.
const IncompleteLimit = 3

type Dashboard struct {
	Incomplete []domain.Task `json:"incomplete"`
	Completed  []domain.Task `json:"completed"`
}

type UseCase struct {
	tasks   repository.TaskRepository
	planner *schedule.Planner
	now     usecase.Clock
	logger  *zap.Logger
}

func New(tasks repository.TaskRepository, planner *schedule.Planner, now usecase.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if planner == nil {
		planner = schedule.New(time.UTC)
	}
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		tasks:   tasks,
		planner: planner,
		now:     now,
		logger:  logger,
	}
}

// Get returns the first incomplete tasks by due date and the tasks completed today.
func (uc *UseCase) Get(ctx context.Context, userID string) (*Dashboard, error) {
	incomplete, err := uc.tasks.ListIncomplete(ctx, userID, IncompleteLimit)
	if err != nil {
		return nil, fmt.Errorf("list incomplete tasks: %w", err)
	}

	from, to := uc.planner.DayBounds(uc.now())
	completed, err := uc.tasks.ListCompletedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}

	return &Dashboard{Incomplete: incomplete, Completed: completed}, nil
}
