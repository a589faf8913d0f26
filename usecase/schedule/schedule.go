package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

// Planner counts active tasks per calendar day and picks days for tasks that only carry a due date.
// Calendar days are taken in the planner's location.
type Planner struct {
	loc      *time.Location
	capacity int
}

func New(loc *time.Location) *Planner {
	if loc == nil {
		loc = time.UTC
	}
	return &Planner{loc: loc, capacity: domain.DailyCapacity}
}

func (p *Planner) Location() *time.Location {
	return p.loc
}

// StartOfDay truncates t to midnight of its calendar day.
func (p *Planner) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(p.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc)
}

// DayBounds returns [midnight, next midnight) of the day containing t.
func (p *Planner) DayBounds(t time.Time) (time.Time, time.Time) {
	start := p.StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// CountActiveOnDay counts the user's pending and in-progress tasks scheduled on the day containing day.
func (p *Planner) CountActiveOnDay(ctx context.Context, tasks repository.TaskRepository, userID string, day time.Time) (int, error) {
	from, to := p.DayBounds(day)
	return tasks.CountActiveBetween(ctx, userID, from, to)
}

// HasRoom reports whether the day containing day can take one more active task.
func (p *Planner) HasRoom(ctx context.Context, tasks repository.TaskRepository, userID string, day time.Time) (bool, error) {
	count, err := p.CountActiveOnDay(ctx, tasks, userID, day)
	if err != nil {
		return false, err
	}
	return count < p.capacity, nil
}

// PickDay returns the earliest midnight from today through the due date whose day has room.
// When every day is full, or the due date is already in the past, it returns due unchanged
// and false.
func (p *Planner) PickDay(ctx context.Context, tasks repository.TaskRepository, userID string, due, now time.Time) (time.Time, bool, error) {
	today := p.StartOfDay(now)
	dueDay := p.StartOfDay(due)
	if dueDay.Before(today) {
		return due, false, nil
	}

	scheduled, err := tasks.ActiveScheduledBetween(ctx, userID, today, dueDay.AddDate(0, 0, 1))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load schedule: %w", err)
	}

	perDay := make(map[int64]int, len(scheduled))
	for _, at := range scheduled {
		perDay[p.StartOfDay(at).Unix()]++
	}

	for d := today; !d.After(dueDay); d = d.AddDate(0, 0, 1) {
		if perDay[d.Unix()] < p.capacity {
			return d, true, nil
		}
	}
	return due, false, nil
}
