package buffer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/questlog/domain"
)

const (
	// Level-ups drain ahead of plain task events.
	PriorityLevelUp = 1
	PriorityTask    = 3

	defaultPriority = PriorityTask
	maxPriority     = 5
)

// Entry is an activity event waiting for the primary store to accept it.
type Entry struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	Kind     string          `json:"kind"`
	Event    json.RawMessage `json:"event"`
	Priority int             `json:"priority"`
	Retries  int             `json:"retries"`
	QueuedAt time.Time       `json:"queued_at"`

	key []byte
}

// NewEntry wraps an event for spooling. The entry keeps the event id so replays stay idempotent.
func NewEntry(event *domain.ActivityEvent) (Entry, error) {
	if event == nil {
		return Entry{}, domain.ErrInvalidPayload
	}
	event.Touch()
	payload, err := json.Marshal(event)
	if err != nil {
		return Entry{}, fmt.Errorf("encode activity event: %w", err)
	}
	return Entry{
		ID:       event.ID,
		UserID:   event.UserID,
		Kind:     string(event.Kind),
		Event:    payload,
		Priority: PriorityFor(event.Kind),
	}, nil
}

// PriorityFor ranks event kinds; lower values drain first.
func PriorityFor(kind domain.ActivityKind) int {
	switch kind {
	case domain.ActivityProfileLevelUp, domain.ActivityStatusLevelUp:
		return PriorityLevelUp
	default:
		return PriorityTask
	}
}

// Decode returns the spooled event.
func (e Entry) Decode() (*domain.ActivityEvent, error) {
	var event domain.ActivityEvent
	if err := json.Unmarshal(e.Event, &event); err != nil {
		return nil, fmt.Errorf("decode activity event %s: %w", e.ID, err)
	}
	return &event, nil
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Priority <= 0 || e.Priority > maxPriority {
		e.Priority = defaultPriority
	}
	if e.QueuedAt.IsZero() {
		e.QueuedAt = time.Now()
	}
}

// sortKey orders entries by priority, then queue time.
func (e Entry) sortKey() []byte {
	return []byte(fmt.Sprintf("%d_%020d_%s", e.Priority, e.QueuedAt.UnixNano(), e.ID))
}
