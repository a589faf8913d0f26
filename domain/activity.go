package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityKind names an entry of the activity journal.
type ActivityKind string

const (
	ActivityTaskCreated    ActivityKind = "task_created"
	ActivityTaskCompleted  ActivityKind = "task_completed"
	ActivityTaskSnoozed    ActivityKind = "task_snoozed"
	ActivityProfileLevelUp ActivityKind = "profile_level_up"
	ActivityStatusLevelUp  ActivityKind = "status_level_up"
)

func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityTaskCreated, ActivityTaskCompleted, ActivityTaskSnoozed, ActivityProfileLevelUp, ActivityStatusLevelUp:
		return true
	}
	return false
}

// ActivityEvent records a change applied to a user's tasks or progression tracks.
type ActivityEvent struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Kind       ActivityKind      `json:"kind"`
	TaskID     string            `json:"task_id,omitempty"`
	StatusType StatusType        `json:"status_type,omitempty"`
	Experience int               `json:"experience"`
	Level      int               `json:"level"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewActivityEvent stamps an event with an id and creation time.
func NewActivityEvent(userID string, kind ActivityKind, at time.Time) *ActivityEvent {
	return &ActivityEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		CreatedAt: at,
	}
}

func (e *ActivityEvent) Touch() {
	if e == nil {
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
}
