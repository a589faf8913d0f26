package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository/sqlite"
)

func newUseCase(t *testing.T) *UseCase {
	t.Helper()
	db, err := sqlite.NewDB(":memory:", nil)
	require.NoError(t, err)
	store := sqlite.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, nil)
}

func TestGetSummaryCreatesProfile(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	summary, err := uc.GetSummary(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, summary.Profile)
	assert.Equal(t, 1, summary.Profile.Level)
	assert.Equal(t, 0, summary.Profile.Experience)
	assert.Empty(t, summary.Statuses)

	again, err := uc.GetSummary(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, summary.Profile.ID, again.Profile.ID)

	profiles, err := uc.ListProfiles(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestProfileCRUD(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	created, err := uc.CreateProfile(ctx, "user-1", &domain.UserProfile{UserID: "someone-else"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, 1, created.Level)

	_, err = uc.CreateProfile(ctx, "user-1", &domain.UserProfile{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

	updated, err := uc.UpdateProfile(ctx, "user-1", created.ID, func(p *domain.UserProfile) error {
		p.Experience = 70
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 70, updated.Experience)

	_, err = uc.UpdateProfile(ctx, "user-1", created.ID, func(p *domain.UserProfile) error {
		p.Level = 0
		return nil
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.GetProfile(ctx, "user-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	require.NoError(t, uc.DeleteProfile(ctx, "user-1", created.ID))
	_, err = uc.GetProfile(ctx, "user-1", created.ID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestStatusCRUD(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateStatus(ctx, "user-1", &domain.UserStatus{StatusType: "cooking"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	created, err := uc.CreateStatus(ctx, "user-1", &domain.UserStatus{StatusType: domain.StatusCommunication})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)

	_, err = uc.CreateStatus(ctx, "user-1", &domain.UserStatus{StatusType: domain.StatusCommunication})
	assert.ErrorIs(t, err, domain.ErrStatusExists)

	updated, err := uc.UpdateStatus(ctx, "user-1", created.ID, func(s *domain.UserStatus) error {
		s.Level = 3
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Level)

	summary, err := uc.GetSummary(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, summary.Statuses, 1)
	assert.Equal(t, 3, summary.Statuses[0].Level)

	require.NoError(t, uc.DeleteStatus(ctx, "user-1", created.ID))
	statuses, err := uc.ListStatuses(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestAchievementCRUD(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateAchievement(ctx, "user-1", &domain.Achievement{Name: "no description"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	created, err := uc.CreateAchievement(ctx, "user-1", &domain.Achievement{Name: "Streak", Description: "5 days"})
	require.NoError(t, err)
	assert.False(t, created.AchievedAt.IsZero())

	updated, err := uc.UpdateAchievement(ctx, "user-1", created.ID, func(a *domain.Achievement) error {
		a.Description = "7 days"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "7 days", updated.Description)
	assert.True(t, created.AchievedAt.Equal(updated.AchievedAt))

	achievements, err := uc.ListAchievements(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, achievements, 1)

	got, err := uc.GetAchievement(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Streak", got.Name)

	require.NoError(t, uc.DeleteAchievement(ctx, "user-1", created.ID))
	assert.ErrorIs(t, uc.DeleteAchievement(ctx, "user-1", created.ID), domain.ErrAchievementNotFound)
}
