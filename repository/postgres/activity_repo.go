package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/repository"
)

type activityRepository struct {
	db querier
}

// NewActivityRepository creates a Postgres-backed activity journal.
func NewActivityRepository(db querier) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, event *domain.ActivityEvent) error {
	if event == nil || event.UserID == "" {
		return domain.ErrInvalidPayload
	}
	event.Touch()

	const query = `
	INSERT INTO activity_events (id, user_id, kind, task_id, status_type, experience, level, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
	ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.UserID,
		string(event.Kind),
		event.TaskID,
		string(event.StatusType),
		event.Experience,
		event.Level,
		marshalMap(event.Metadata),
		nullTime(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", translate(err, nil))
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityEvent, error) {
	const query = `
	SELECT id, user_id, kind, task_id, status_type, experience, level, metadata, created_at
	FROM activity_events
	WHERE user_id = $1
	  AND ($2 = '' OR kind = $2)
	ORDER BY created_at DESC, id DESC
	LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, filter.UserID, string(filter.Kind), repository.ClampLimit(filter.Limit))
	if err != nil {
		return nil, translate(err, nil)
	}
	defer rows.Close()

	events := make([]domain.ActivityEvent, 0)
	for rows.Next() {
		var (
			event      domain.ActivityEvent
			kind       string
			statusType string
			metadata   []byte
		)
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&kind,
			&event.TaskID,
			&statusType,
			&event.Experience,
			&event.Level,
			&metadata,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		event.Kind = domain.ActivityKind(kind)
		event.StatusType = domain.StatusType(statusType)
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &event.Metadata)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
