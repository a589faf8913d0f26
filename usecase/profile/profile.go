package profile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

// Summary is the caller's profile together with every status track started so far.
type Summary struct {
	Profile  *domain.UserProfile `json:"profile"`
	Statuses []domain.UserStatus `json:"statuses"`
}

type UseCase struct {
	store  repository.Store
	logger *zap.Logger
}

func New(store repository.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		logger: logger,
	}
}

// GetSummary returns the user's profile, creating it on first access, and the user's status tracks.
func (uc *UseCase) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	repos := uc.store.Repositories()
	profile, err := repos.Profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	statuses, err := repos.Statuses.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return &Summary{Profile: profile, Statuses: statuses}, nil
}

func (uc *UseCase) ListProfiles(ctx context.Context, userID string) ([]domain.UserProfile, error) {
	return uc.store.Repositories().Profiles.List(ctx, userID)
}

func (uc *UseCase) GetProfile(ctx context.Context, userID, id string) (*domain.UserProfile, error) {
	return uc.store.Repositories().Profiles.GetByID(ctx, userID, id)
}

func (uc *UseCase) CreateProfile(ctx context.Context, userID string, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile == nil {
		return nil, domain.ErrInvalidPayload
	}
	profile.ID = ""
	profile.UserID = userID
	if profile.Level == 0 {
		profile.Level = 1
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := uc.store.Repositories().Profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (uc *UseCase) UpdateProfile(ctx context.Context, userID, id string, apply func(*domain.UserProfile) error) (*domain.UserProfile, error) {
	var updated domain.UserProfile
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		current, err := repos.Profiles.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		next := *current
		if err := apply(&next); err != nil {
			return err
		}
		next.ID, next.UserID, next.CreatedAt = current.ID, current.UserID, current.CreatedAt
		if err := next.Validate(); err != nil {
			return err
		}
		if err := repos.Profiles.Update(ctx, &next); err != nil {
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

func (uc *UseCase) DeleteProfile(ctx context.Context, userID, id string) error {
	return uc.store.Repositories().Profiles.Delete(ctx, userID, id)
}

func (uc *UseCase) ListStatuses(ctx context.Context, userID string) ([]domain.UserStatus, error) {
	return uc.store.Repositories().Statuses.List(ctx, userID)
}

func (uc *UseCase) GetStatus(ctx context.Context, userID, id string) (*domain.UserStatus, error) {
	return uc.store.Repositories().Statuses.GetByID(ctx, userID, id)
}

func (uc *UseCase) CreateStatus(ctx context.Context, userID string, status *domain.UserStatus) (*domain.UserStatus, error) {
	if status == nil {
		return nil, domain.ErrInvalidPayload
	}
	status.ID = ""
	status.UserID = userID
	if status.Level == 0 {
		status.Level = 1
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := uc.store.Repositories().Statuses.Create(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (uc *UseCase) UpdateStatus(ctx context.Context, userID, id string, apply func(*domain.UserStatus) error) (*domain.UserStatus, error) {
	var updated domain.UserStatus
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		current, err := repos.Statuses.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		next := *current
		if err := apply(&next); err != nil {
			return err
		}
		next.ID, next.UserID, next.CreatedAt = current.ID, current.UserID, current.CreatedAt
		if err := next.Validate(); err != nil {
			return err
		}
		if err := repos.Statuses.Update(ctx, &next); err != nil {
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

func (uc *UseCase) DeleteStatus(ctx context.Context, userID, id string) error {
	return uc.store.Repositories().Statuses.Delete(ctx, userID, id)
}

func (uc *UseCase) ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	return uc.store.Repositories().Achievements.List(ctx, userID)
}

func (uc *UseCase) GetAchievement(ctx context.Context, userID, id string) (*domain.Achievement, error) {
	return uc.store.Repositories().Achievements.GetByID(ctx, userID, id)
}

func (uc *UseCase) CreateAchievement(ctx context.Context, userID string, achievement *domain.Achievement) (*domain.Achievement, error) {
	if achievement == nil {
		return nil, domain.ErrInvalidPayload
	}
	achievement.ID = ""
	achievement.UserID = userID
	if err := achievement.Validate(); err != nil {
		return nil, err
	}
	if err := uc.store.Repositories().Achievements.Create(ctx, achievement); err != nil {
		return nil, err
	}
	uc.logger.Info("achievement unlocked", zap.String("user_id", userID), zap.String("name", achievement.Name))
	return achievement, nil
}

func (uc *UseCase) UpdateAchievement(ctx context.Context, userID, id string, apply func(*domain.Achievement) error) (*domain.Achievement, error) {
	var updated domain.Achievement
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		current, err := repos.Achievements.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		next := *current
		if err := apply(&next); err != nil {
			return err
		}
		next.ID, next.UserID, next.AchievedAt = current.ID, current.UserID, current.AchievedAt
		if err := next.Validate(); err != nil {
			return err
		}
		if err := repos.Achievements.Update(ctx, &next); err != nil {
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

func (uc *UseCase) DeleteAchievement(ctx context.Context, userID, id string) error {
	return uc.store.Repositories().Achievements.Delete(ctx, userID, id)
}
