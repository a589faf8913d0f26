package repository

import (
	"context"

	"github.com/fastygo/questlog/domain"
)

type ProfileRepository interface {
	// GetOrCreate returns the user's profile, inserting a level 1 profile on first access.
	GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetByID(ctx context.Context, userID, id string) (*domain.UserProfile, error)
	List(ctx context.Context, userID string) ([]domain.UserProfile, error)
	Create(ctx context.Context, profile *domain.UserProfile) error
	Update(ctx context.Context, profile *domain.UserProfile) error
	Delete(ctx context.Context, userID, id string) error
}

type StatusRepository interface {
	// GetOrCreate returns the user's track of the given type, inserting a level 1 track on first access.
	GetOrCreate(ctx context.Context, userID string, statusType domain.StatusType) (*domain.UserStatus, error)
	GetByID(ctx context.Context, userID, id string) (*domain.UserStatus, error)
	List(ctx context.Context, userID string) ([]domain.UserStatus, error)
	Create(ctx context.Context, status *domain.UserStatus) error
	Update(ctx context.Context, status *domain.UserStatus) error
	Delete(ctx context.Context, userID, id string) error
}

type AchievementRepository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Achievement, error)
	List(ctx context.Context, userID string) ([]domain.Achievement, error)
	Create(ctx context.Context, achievement *domain.Achievement) error
	Update(ctx context.Context, achievement *domain.Achievement) error
	Delete(ctx context.Context, userID, id string) error
}
