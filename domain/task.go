package domain

import (
	"time"
	"unicode/utf8"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskSnoozed    TaskStatus = "snoozed"
)

// DailyCapacity is the number of active tasks a user may have scheduled on one calendar day.
const DailyCapacity = 3

// SnoozeLimit is how many times a single task may be snoozed.
const SnoozeLimit = 1

const (
	maxTitleLength    = 200
	maxCategoryLength = 50
)

// ActiveStatuses lists the statuses counted against the daily capacity.
var ActiveStatuses = []TaskStatus{TaskPending, TaskInProgress}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskSnoozed:
		return true
	}
	return false
}

// IsActive reports whether a task in this status occupies a slot of its scheduled day.
func (s TaskStatus) IsActive() bool {
	return s == TaskPending || s == TaskInProgress
}

// Task represents a user-owned activity item.
type Task struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	DueDate             *time.Time `json:"due_date"`
	ScheduledDate       *time.Time `json:"scheduled_date"`
	EstimatedTime       *int       `json:"estimated_time"`
	Status              TaskStatus `json:"status"`
	IsDailyTop          bool       `json:"is_daily_top"`
	OrderInDaily        *int       `json:"order_in_daily"`
	CompletedAt         *time.Time `json:"completed_at"`
	SnoozeReason        string     `json:"snooze_reason"`
	SnoozeCount         int        `json:"snooze_count"`
	LearnedAtCompletion string     `json:"learned_at_completion"`
	Category            string     `json:"category"`
	RelatedStatusType   StatusType `json:"related_status_type"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskCompleted
}

func (t *Task) IsActive() bool {
	return t != nil && t.Status.IsActive()
}

// Validate checks the client-editable fields.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	switch {
	case t.Title == "":
		return NewError(ErrCodeInvalid, "title is required")
	case utf8.RuneCountInString(t.Title) > maxTitleLength:
		return NewError(ErrCodeInvalid, "title is too long")
	case utf8.RuneCountInString(t.Category) > maxCategoryLength:
		return NewError(ErrCodeInvalid, "category is too long")
	case !t.Status.Valid():
		return NewError(ErrCodeInvalid, "invalid status")
	case t.RelatedStatusType != "" && !t.RelatedStatusType.Valid():
		return NewError(ErrCodeInvalid, "invalid related_status_type")
	case t.EstimatedTime != nil && *t.EstimatedTime < 0:
		return NewError(ErrCodeInvalid, "estimated_time must not be negative")
	case t.SnoozeCount < 0:
		return NewError(ErrCodeInvalid, "snooze_count must not be negative")
	}
	return nil
}
