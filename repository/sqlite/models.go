package sqlite

import (
	"encoding/json"
	"time"

	"github.com/fastygo/questlog/domain"
)

// Times are stored in UTC so that the text encoding used by SQLite orders chronologically.

type taskRow struct {
	ID                  string `gorm:"primaryKey"`
	UserID              string `gorm:"not null;index:idx_tasks_user_scheduled,priority:1"`
	Title               string `gorm:"not null"`
	Description         string
	DueDate             *time.Time
	ScheduledDate       *time.Time `gorm:"index:idx_tasks_user_scheduled,priority:2"`
	EstimatedTime       *int
	Status              string `gorm:"not null;index"`
	IsDailyTop          bool
	OrderInDaily        *int
	CompletedAt         *time.Time
	SnoozeReason        string
	SnoozeCount         int
	LearnedAtCompletion string
	Category            string
	RelatedStatusType   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (taskRow) TableName() string { return "tasks" }

type profileRow struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"not null;uniqueIndex"`
	Level      int
	Experience int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (profileRow) TableName() string { return "user_profiles" }

type statusRow struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"not null;uniqueIndex:idx_user_status_type,priority:1"`
	StatusType string `gorm:"not null;uniqueIndex:idx_user_status_type,priority:2"`
	Level      int
	Experience int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (statusRow) TableName() string { return "user_statuses" }

type achievementRow struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	AchievedAt  time.Time
}

func (achievementRow) TableName() string { return "achievements" }

type activityRow struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"not null;index:idx_activity_user_created,priority:1"`
	Kind       string `gorm:"not null"`
	TaskID     string
	StatusType string
	Experience int
	Level      int
	Metadata   string
	CreatedAt  time.Time `gorm:"index:idx_activity_user_created,priority:2"`
}

func (activityRow) TableName() string { return "activity_events" }

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func toTaskRow(t *domain.Task) taskRow {
	return taskRow{
		ID:                  t.ID,
		UserID:              t.UserID,
		Title:               t.Title,
		Description:         t.Description,
		DueDate:             utc(t.DueDate),
		ScheduledDate:       utc(t.ScheduledDate),
		EstimatedTime:       t.EstimatedTime,
		Status:              string(t.Status),
		IsDailyTop:          t.IsDailyTop,
		OrderInDaily:        t.OrderInDaily,
		CompletedAt:         utc(t.CompletedAt),
		SnoozeReason:        t.SnoozeReason,
		SnoozeCount:         t.SnoozeCount,
		LearnedAtCompletion: t.LearnedAtCompletion,
		Category:            t.Category,
		RelatedStatusType:   string(t.RelatedStatusType),
		CreatedAt:           t.CreatedAt.UTC(),
		UpdatedAt:           t.UpdatedAt.UTC(),
	}
}

func (r taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:                  r.ID,
		UserID:              r.UserID,
		Title:               r.Title,
		Description:         r.Description,
		DueDate:             r.DueDate,
		ScheduledDate:       r.ScheduledDate,
		EstimatedTime:       r.EstimatedTime,
		Status:              domain.TaskStatus(r.Status),
		IsDailyTop:          r.IsDailyTop,
		OrderInDaily:        r.OrderInDaily,
		CompletedAt:         r.CompletedAt,
		SnoozeReason:        r.SnoozeReason,
		SnoozeCount:         r.SnoozeCount,
		LearnedAtCompletion: r.LearnedAtCompletion,
		Category:            r.Category,
		RelatedStatusType:   domain.StatusType(r.RelatedStatusType),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func (r profileRow) toDomain() domain.UserProfile {
	return domain.UserProfile{
		ID:         r.ID,
		UserID:     r.UserID,
		Level:      r.Level,
		Experience: r.Experience,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r statusRow) toDomain() domain.UserStatus {
	return domain.UserStatus{
		ID:         r.ID,
		UserID:     r.UserID,
		StatusType: domain.StatusType(r.StatusType),
		Level:      r.Level,
		Experience: r.Experience,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r achievementRow) toDomain() domain.Achievement {
	return domain.Achievement{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		AchievedAt:  r.AchievedAt,
	}
}

func toActivityRow(e *domain.ActivityEvent) activityRow {
	var metadata string
	if len(e.Metadata) > 0 {
		if b, err := json.Marshal(e.Metadata); err == nil {
			metadata = string(b)
		}
	}
	return activityRow{
		ID:         e.ID,
		UserID:     e.UserID,
		Kind:       string(e.Kind),
		TaskID:     e.TaskID,
		StatusType: string(e.StatusType),
		Experience: e.Experience,
		Level:      e.Level,
		Metadata:   metadata,
		CreatedAt:  e.CreatedAt.UTC(),
	}
}

func (r activityRow) toDomain() domain.ActivityEvent {
	event := domain.ActivityEvent{
		ID:         r.ID,
		UserID:     r.UserID,
		Kind:       domain.ActivityKind(r.Kind),
		TaskID:     r.TaskID,
		StatusType: domain.StatusType(r.StatusType),
		Experience: r.Experience,
		Level:      r.Level,
		CreatedAt:  r.CreatedAt,
	}
	if r.Metadata != "" {
		_ = json.Unmarshal([]byte(r.Metadata), &event.Metadata)
	}
	return event
}
