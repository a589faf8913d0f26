package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
	"github.com/fastygo/questlog/repository/sqlite"
)

func TestList(t *testing.T) {
	db, err := sqlite.NewDB(":memory:", nil)
	require.NoError(t, err)
	store := sqlite.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	events := store.Repositories().Activity
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for i, kind := range []domain.ActivityKind{domain.ActivityTaskCreated, domain.ActivityTaskCompleted, domain.ActivityTaskCreated} {
		require.NoError(t, events.Append(ctx, domain.NewActivityEvent("user-1", kind, base.Add(time.Duration(i)*time.Minute))))
	}

	uc := New(events, nil)

	all, err := uc.List(ctx, repository.ActivityFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[2].CreatedAt))

	created, err := uc.List(ctx, repository.ActivityFilter{UserID: "user-1", Kind: domain.ActivityTaskCreated, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, created, 1)

	_, err = uc.List(ctx, repository.ActivityFilter{UserID: "user-1", Kind: "unknown"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	none, err := uc.List(ctx, repository.ActivityFilter{UserID: "user-2"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
