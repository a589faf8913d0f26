package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := NewDB(":memory:", nil)
	require.NoError(t, err)
	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTask(t *testing.T, repo repository.TaskRepository, task domain.Task) *domain.Task {
	t.Helper()
	if task.UserID == "" {
		task.UserID = "user-1"
	}
	if task.Title == "" {
		task.Title = "task"
	}
	if task.Status == "" {
		task.Status = domain.TaskPending
	}
	created, err := repo.Create(context.Background(), &task)
	require.NoError(t, err)
	return created
}

func TestTaskRepositoryScopesByUser(t *testing.T) {
	repo := newTestStore(t).Repositories().Tasks
	ctx := context.Background()

	task := createTask(t, repo, domain.Task{Title: "write report"})

	got, err := repo.GetByID(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "write report", got.Title)

	_, err = repo.GetByID(ctx, "user-2", task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "user-2", task.ID), domain.ErrTaskNotFound)
	require.NoError(t, repo.Delete(ctx, "user-1", task.ID))
	_, err = repo.GetByID(ctx, "user-1", task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepositoryUpdateClearsOptionalFields(t *testing.T) {
	repo := newTestStore(t).Repositories().Tasks
	ctx := context.Background()

	due := day(2025, 3, 10)
	task := createTask(t, repo, domain.Task{DueDate: &due, ScheduledDate: &due})

	task.DueDate = nil
	task.Title = "renamed"
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Nil(t, got.DueDate)
	require.NotNil(t, got.ScheduledDate)
	assert.True(t, got.ScheduledDate.Equal(due))

	missing := &domain.Task{ID: "missing", UserID: "user-1", Title: "x", Status: domain.TaskPending}
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrTaskNotFound)
}

func TestTaskRepositoryListFilters(t *testing.T) {
	repo := newTestStore(t).Repositories().Tasks
	ctx := context.Background()

	createTask(t, repo, domain.Task{Title: "a", Category: "work", IsDailyTop: true})
	createTask(t, repo, domain.Task{Title: "b", Category: "home", RelatedStatusType: domain.StatusLearning})
	createTask(t, repo, domain.Task{Title: "c", Status: domain.TaskCompleted, Category: "work"})
	createTask(t, repo, domain.Task{Title: "d", UserID: "user-2", Category: "work"})

	all, err := repo.List(ctx, repository.TaskFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	work, err := repo.List(ctx, repository.TaskFilter{UserID: "user-1", Category: "work"})
	require.NoError(t, err)
	assert.Len(t, work, 2)

	top := true
	daily, err := repo.List(ctx, repository.TaskFilter{UserID: "user-1", DailyTop: &top})
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "a", daily[0].Title)

	completed, err := repo.List(ctx, repository.TaskFilter{UserID: "user-1", Status: domain.TaskCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "c", completed[0].Title)

	learning, err := repo.List(ctx, repository.TaskFilter{UserID: "user-1", RelatedStatusType: domain.StatusLearning})
	require.NoError(t, err)
	require.Len(t, learning, 1)
	assert.Equal(t, "b", learning[0].Title)

	page, err := repo.List(ctx, repository.TaskFilter{UserID: "user-1", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestTaskRepositoryCountsActiveTasksPerDay(t *testing.T) {
	repo := newTestStore(t).Repositories().Tasks
	ctx := context.Background()

	monday := day(2025, 3, 10)
	tuesday := monday.AddDate(0, 0, 1)
	createTask(t, repo, domain.Task{ScheduledDate: &monday})
	createTask(t, repo, domain.Task{ScheduledDate: &monday, Status: domain.TaskInProgress})
	createTask(t, repo, domain.Task{ScheduledDate: &monday, Status: domain.TaskCompleted})
	createTask(t, repo, domain.Task{ScheduledDate: &monday, Status: domain.TaskSnoozed})
	createTask(t, repo, domain.Task{ScheduledDate: &tuesday})
	createTask(t, repo, domain.Task{ScheduledDate: &monday, UserID: "user-2"})

	count, err := repo.CountActiveBetween(ctx, "user-1", monday, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	dates, err := repo.ActiveScheduledBetween(ctx, "user-1", monday, tuesday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.True(t, dates[2].Equal(tuesday))
}

func TestTaskRepositoryDashboardOrdering(t *testing.T) {
	repo := newTestStore(t).Repositories().Tasks
	ctx := context.Background()

	early := day(2025, 3, 10)
	late := day(2025, 3, 12)
	noDue := createTask(t, repo, domain.Task{Title: "no due"})
	lateTask := createTask(t, repo, domain.Task{Title: "late", DueDate: &late})
	earlyTask := createTask(t, repo, domain.Task{Title: "early", DueDate: &early})
	createTask(t, repo, domain.Task{Title: "done", Status: domain.TaskCompleted})

	tasks, err := repo.ListIncomplete(ctx, "user-1", 3)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, earlyTask.ID, tasks[0].ID)
	assert.Equal(t, lateTask.ID, tasks[1].ID)
	assert.Equal(t, noDue.ID, tasks[2].ID)
}

func TestTaskRepositoryListCompletedBetween(t *testing.T) {
	repo := newTestStore(t).Repositories().Tasks
	ctx := context.Background()

	today := day(2025, 3, 10)
	inside := today.Add(9 * time.Hour)
	before := today.Add(-time.Hour)
	createTask(t, repo, domain.Task{Title: "today", Status: domain.TaskCompleted, CompletedAt: &inside})
	createTask(t, repo, domain.Task{Title: "yesterday", Status: domain.TaskCompleted, CompletedAt: &before})

	tasks, err := repo.ListCompletedBetween(ctx, "user-1", today, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "today", tasks[0].Title)
}

func TestProfileRepositoryGetOrCreate(t *testing.T) {
	repo := newTestStore(t).Repositories().Profiles
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Level)
	assert.Equal(t, 0, first.Experience)

	first.Experience = 40
	require.NoError(t, repo.Update(ctx, first))

	again, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 40, again.Experience)

	err = repo.Create(ctx, &domain.UserProfile{UserID: "user-1", Level: 1})
	assert.ErrorIs(t, err, domain.ErrProfileExists)
}

func TestStatusRepositoryOnePerType(t *testing.T) {
	repo := newTestStore(t).Repositories().Statuses
	ctx := context.Background()

	learning, err := repo.GetOrCreate(ctx, "user-1", domain.StatusLearning)
	require.NoError(t, err)
	again, err := repo.GetOrCreate(ctx, "user-1", domain.StatusLearning)
	require.NoError(t, err)
	assert.Equal(t, learning.ID, again.ID)

	_, err = repo.GetOrCreate(ctx, "user-1", domain.StatusCreativity)
	require.NoError(t, err)

	statuses, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, statuses, 2)

	err = repo.Create(ctx, &domain.UserStatus{UserID: "user-1", StatusType: domain.StatusLearning, Level: 1})
	assert.ErrorIs(t, err, domain.ErrStatusExists)

	require.NoError(t, repo.Delete(ctx, "user-1", learning.ID))
	_, err = repo.GetByID(ctx, "user-1", learning.ID)
	assert.ErrorIs(t, err, domain.ErrStatusNotFound)
}

func TestAchievementRepositoryCRUD(t *testing.T) {
	repo := newTestStore(t).Repositories().Achievements
	ctx := context.Background()

	achievement := &domain.Achievement{UserID: "user-1", Name: "First week", Description: "seven days"}
	require.NoError(t, repo.Create(ctx, achievement))
	assert.NotEmpty(t, achievement.ID)
	assert.False(t, achievement.AchievedAt.IsZero())

	achievement.Name = "First month"
	require.NoError(t, repo.Update(ctx, achievement))

	got, err := repo.GetByID(ctx, "user-1", achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, "First month", got.Name)

	_, err = repo.GetByID(ctx, "user-2", achievement.ID)
	assert.ErrorIs(t, err, domain.ErrAchievementNotFound)

	require.NoError(t, repo.Delete(ctx, "user-1", achievement.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "user-1", achievement.ID), domain.ErrAchievementNotFound)
}

func TestActivityRepositoryAppendIsIdempotent(t *testing.T) {
	repo := newTestStore(t).Repositories().Activity
	ctx := context.Background()

	event := domain.NewActivityEvent("user-1", domain.ActivityTaskCompleted, time.Now())
	event.TaskID = "task-1"
	event.Metadata = map[string]string{"title": "write report"}
	require.NoError(t, repo.Append(ctx, event))
	require.NoError(t, repo.Append(ctx, event))

	later := domain.NewActivityEvent("user-1", domain.ActivityProfileLevelUp, time.Now().Add(time.Second))
	require.NoError(t, repo.Append(ctx, later))

	events, err := repo.List(ctx, repository.ActivityFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, later.ID, events[0].ID)
	assert.Equal(t, "write report", events[1].Metadata["title"])

	completed, err := repo.List(ctx, repository.ActivityFilter{UserID: "user-1", Kind: domain.ActivityTaskCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestStoreWithinTxRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Tasks.Create(ctx, &domain.Task{UserID: "user-1", Title: "t", Status: domain.TaskPending})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tasks, err := store.Repositories().Tasks.List(ctx, repository.TaskFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, store.Ping(ctx))
}
