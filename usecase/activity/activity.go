package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

type UseCase struct {
	events repository.ActivityRepository
	logger *zap.Logger
}

func New(events repository.ActivityRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{events: events, logger: logger}
}

// List returns the user's journal, newest first.
func (uc *UseCase) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityEvent, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid kind")
	}
	return uc.events.List(ctx, filter)
}
