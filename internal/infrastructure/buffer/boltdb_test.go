package buffer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/questlog/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "spool", "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entryFor(t *testing.T, kind domain.ActivityKind, at time.Time) Entry {
	t.Helper()
	entry, err := NewEntry(domain.NewActivityEvent("user-1", kind, at))
	require.NoError(t, err)
	return entry
}

func TestStoreDrainOrder(t *testing.T) {
	store := openStore(t)
	now := time.Now()

	created := entryFor(t, domain.ActivityTaskCreated, now)
	created.QueuedAt = now
	completed := entryFor(t, domain.ActivityTaskCompleted, now)
	completed.QueuedAt = now.Add(time.Millisecond)
	levelUp := entryFor(t, domain.ActivityProfileLevelUp, now)
	levelUp.QueuedAt = now.Add(2 * time.Millisecond)

	for _, e := range []Entry{created, completed, levelUp} {
		require.NoError(t, store.Enqueue(e))
	}

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	batch, err := store.Batch(10)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	assert.Equal(t, levelUp.ID, batch[0].ID)
	assert.Equal(t, created.ID, batch[1].ID)
	assert.Equal(t, completed.ID, batch[2].ID)

	event, err := batch[0].Decode()
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityProfileLevelUp, event.Kind)
	assert.Equal(t, "user-1", event.UserID)

	require.NoError(t, store.Remove(batch[0]))
	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestStoreRetryMovesEntryBack(t *testing.T) {
	store := openStore(t)
	past := time.Now().Add(-time.Minute)

	first := entryFor(t, domain.ActivityTaskCreated, past)
	first.QueuedAt = past
	second := entryFor(t, domain.ActivityTaskSnoozed, past)
	second.QueuedAt = past.Add(time.Second)
	require.NoError(t, store.Enqueue(first))
	require.NoError(t, store.Enqueue(second))

	batch, err := store.Batch(1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.NoError(t, store.Retry(batch[0]))

	batch, err = store.Batch(10)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, second.ID, batch[0].ID)
	assert.Equal(t, first.ID, batch[1].ID)
	assert.Equal(t, 1, batch[1].Retries)
}

func TestStorePurge(t *testing.T) {
	store := openStore(t)
	now := time.Now()

	old := entryFor(t, domain.ActivityTaskCreated, now)
	old.QueuedAt = now.Add(-48 * time.Hour)
	fresh := entryFor(t, domain.ActivityTaskCreated, now)
	fresh.QueuedAt = now
	require.NoError(t, store.Enqueue(old))
	require.NoError(t, store.Enqueue(fresh))

	removed, err := store.Purge(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	batch, err := store.Batch(0)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, fresh.ID, batch[0].ID)
}

func TestNilStore(t *testing.T) {
	var store *Store
	_, err := store.Size()
	assert.Error(t, err)
	assert.Error(t, store.Enqueue(Entry{}))
	assert.NoError(t, store.Close())
}
