package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/internal/infrastructure/buffer"
	"github.com/fastygo/questlog/repository"
	"github.com/fastygo/questlog/repository/sqlite"
)

type switchHealth struct {
	online atomic.Bool
}

func (h *switchHealth) IsOnline() bool { return h.online.Load() }

type failingEvents struct {
	repository.ActivityRepository
	failures int
}

func (f *failingEvents) Append(ctx context.Context, event *domain.ActivityEvent) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("write failed")
	}
	return f.ActivityRepository.Append(ctx, event)
}

func newFixture(t *testing.T) (*buffer.Store, repository.ActivityRepository) {
	t.Helper()
	spool, err := buffer.Open(filepath.Join(t.TempDir(), "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = spool.Close() })

	db, err := sqlite.NewDB(":memory:", nil)
	require.NoError(t, err)
	store := sqlite.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return spool, store.Repositories().Activity
}

func listEvents(t *testing.T, events repository.ActivityRepository) []domain.ActivityEvent {
	t.Helper()
	list, err := events.List(context.Background(), repository.ActivityFilter{UserID: "user-1"})
	require.NoError(t, err)
	return list
}

func TestJournalWritesDirectlyWhenOnline(t *testing.T) {
	spool, events := newFixture(t)
	health := &switchHealth{}
	health.online.Store(true)

	jp, err := NewJournalProcessor(spool, health, events, nil, ProcessorConfig{})
	require.NoError(t, err)
	bridge := NewActivityBridge(jp)

	require.NoError(t, bridge.Record(context.Background(),
		domain.NewActivityEvent("user-1", domain.ActivityTaskCreated, time.Now()),
		domain.NewActivityEvent("user-1", domain.ActivityTaskCompleted, time.Now()),
	))

	assert.Len(t, listEvents(t, events), 2)
	assert.Equal(t, 0, jp.Size())
}

func TestJournalSpoolsWhileOfflineAndDrains(t *testing.T) {
	spool, events := newFixture(t)
	health := &switchHealth{}

	jp, err := NewJournalProcessor(spool, health, events, nil, ProcessorConfig{})
	require.NoError(t, err)
	ctx := context.Background()

	event := domain.NewActivityEvent("user-1", domain.ActivityTaskSnoozed, time.Now())
	require.NoError(t, jp.Submit(ctx, event))
	assert.Equal(t, 1, jp.Size())
	assert.Empty(t, listEvents(t, events))

	require.NoError(t, jp.Drain(ctx))
	assert.Equal(t, 1, jp.Size())

	health.online.Store(true)
	require.NoError(t, jp.Drain(ctx))
	assert.Equal(t, 0, jp.Size())

	stored := listEvents(t, events)
	require.Len(t, stored, 1)
	assert.Equal(t, event.ID, stored[0].ID)
}

func TestJournalSpoolsFailedWritesAndDropsAfterRetries(t *testing.T) {
	spool, repo := newFixture(t)
	events := &failingEvents{ActivityRepository: repo, failures: 10}
	health := &switchHealth{}
	health.online.Store(true)

	jp, err := NewJournalProcessor(spool, health, events, nil, ProcessorConfig{MaxRetries: 2})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, jp.Submit(ctx, domain.NewActivityEvent("user-1", domain.ActivityTaskCreated, time.Now())))
	assert.Equal(t, 1, jp.Size())

	require.NoError(t, jp.Drain(ctx))
	assert.Equal(t, 1, jp.Size())

	require.NoError(t, jp.Drain(ctx))
	assert.Equal(t, 0, jp.Size())
	assert.Empty(t, listEvents(t, repo))
}

func TestJournalProcessorStartStop(t *testing.T) {
	spool, events := newFixture(t)
	jp, err := NewJournalProcessor(spool, nil, events, nil, ProcessorConfig{Interval: time.Hour})
	require.NoError(t, err)

	jp.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jp.Stop(ctx)
}

func TestActivityBridgeWithoutProcessor(t *testing.T) {
	bridge := NewActivityBridge(nil)
	err := bridge.Record(context.Background(), domain.NewActivityEvent("user-1", domain.ActivityTaskCreated, time.Now()))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}
