package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusIsActive(t *testing.T) {
	assert.True(t, TaskPending.IsActive())
	assert.True(t, TaskInProgress.IsActive())
	assert.False(t, TaskCompleted.IsActive())
	assert.False(t, TaskSnoozed.IsActive())
	assert.False(t, TaskStatus("archived").Valid())
}

func TestTaskValidate(t *testing.T) {
	negative := -5
	tests := []struct {
		name string
		task Task
		ok   bool
	}{
		{"minimal", Task{Title: "read", Status: TaskPending}, true},
		{"missing title", Task{Status: TaskPending}, false},
		{"long title", Task{Title: strings.Repeat("x", 201), Status: TaskPending}, false},
		{"unknown status", Task{Title: "read", Status: "done"}, false},
		{"unknown track", Task{Title: "read", Status: TaskPending, RelatedStatusType: "strength"}, false},
		{"negative estimate", Task{Title: "read", Status: TaskPending, EstimatedTime: &negative}, false},
		{"long category", Task{Title: "read", Status: TaskPending, Category: strings.Repeat("c", 51)}, false},
		{"with track", Task{Title: "read", Status: TaskPending, RelatedStatusType: StatusLearning}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsDomainError(err, ErrCodeInvalid), "got %v", err)
		})
	}
}
