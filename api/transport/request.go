package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fastygo/questlog/domain"
)

// Field is a JSON member that remembers whether it was present and whether it was null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Given returns the value when the member carried one.
func (f Field[T]) Given() (T, bool) {
	return f.Value, f.Set && !f.Null
}

// TaskRequest is the body of task create and update calls. Only present members are applied.
type TaskRequest struct {
	Title               Field[string] `json:"title"`
	Description         Field[string] `json:"description"`
	DueDate             Field[string] `json:"due_date"`
	ScheduledDate       Field[string] `json:"scheduled_date"`
	EstimatedTime       Field[int]    `json:"estimated_time"`
	Status              Field[string] `json:"status"`
	IsDailyTop          Field[bool]   `json:"is_daily_top"`
	OrderInDaily        Field[int]    `json:"order_in_daily"`
	SnoozeReason        Field[string] `json:"snooze_reason"`
	SnoozeCount         Field[int]    `json:"snooze_count"`
	LearnedAtCompletion Field[string] `json:"learned_at_completion"`
	Category            Field[string] `json:"category"`
	RelatedStatusType   Field[string] `json:"related_status_type"`
}

// Apply copies the present members onto t. Nullable members accept null; the others reject it.
func (r TaskRequest) Apply(t *domain.Task) error {
	if err := setString(r.Title, &t.Title, "title", false); err != nil {
		return err
	}
	if err := setString(r.Status, (*string)(&t.Status), "status", false); err != nil {
		return err
	}
	if err := setString(r.RelatedStatusType, (*string)(&t.RelatedStatusType), "related_status_type", true); err != nil {
		return err
	}
	for _, f := range []struct {
		field Field[string]
		dst   *string
		name  string
	}{
		{r.Description, &t.Description, "description"},
		{r.SnoozeReason, &t.SnoozeReason, "snooze_reason"},
		{r.LearnedAtCompletion, &t.LearnedAtCompletion, "learned_at_completion"},
		{r.Category, &t.Category, "category"},
	} {
		if err := setString(f.field, f.dst, f.name, true); err != nil {
			return err
		}
	}

	if err := setTime(r.DueDate, &t.DueDate, "due_date"); err != nil {
		return err
	}
	if err := setTime(r.ScheduledDate, &t.ScheduledDate, "scheduled_date"); err != nil {
		return err
	}
	setOptionalInt(r.EstimatedTime, &t.EstimatedTime)
	setOptionalInt(r.OrderInDaily, &t.OrderInDaily)

	if r.IsDailyTop.Set {
		if r.IsDailyTop.Null {
			return notNull("is_daily_top")
		}
		t.IsDailyTop = r.IsDailyTop.Value
	}
	if r.SnoozeCount.Set {
		if r.SnoozeCount.Null {
			return notNull("snooze_count")
		}
		t.SnoozeCount = r.SnoozeCount.Value
	}
	return nil
}

// ToDomain builds a new task from the request.
func (r TaskRequest) ToDomain() (*domain.Task, error) {
	task := &domain.Task{}
	if err := r.Apply(task); err != nil {
		return nil, err
	}
	return task, nil
}

type CompleteTaskRequest struct {
	Learned *string `json:"learned"`
}

type SnoozeTaskRequest struct {
	Reason string `json:"reason"`
}

type ProfileRequest struct {
	Level      Field[int] `json:"level"`
	Experience Field[int] `json:"experience"`
}

func (r ProfileRequest) Apply(p *domain.UserProfile) error {
	return applyProgress(r.Level, r.Experience, &p.Level, &p.Experience)
}

type StatusRequest struct {
	StatusType Field[string] `json:"status_type"`
	Level      Field[int]    `json:"level"`
	Experience Field[int]    `json:"experience"`
}

func (r StatusRequest) Apply(s *domain.UserStatus) error {
	if err := setString(r.StatusType, (*string)(&s.StatusType), "status_type", false); err != nil {
		return err
	}
	return applyProgress(r.Level, r.Experience, &s.Level, &s.Experience)
}

type AchievementRequest struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
}

func (r AchievementRequest) Apply(a *domain.Achievement) error {
	if err := setString(r.Name, &a.Name, "name", false); err != nil {
		return err
	}
	return setString(r.Description, &a.Description, "description", false)
}

// ParseTime accepts RFC 3339 timestamps and bare YYYY-MM-DD dates (midnight UTC).
func ParseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD date, got %q", value)
}

func applyProgress(level, experience Field[int], dstLevel, dstExperience *int) error {
	if level.Set {
		if level.Null {
			return notNull("level")
		}
		*dstLevel = level.Value
	}
	if experience.Set {
		if experience.Null {
			return notNull("experience")
		}
		*dstExperience = experience.Value
	}
	return nil
}

func setString(f Field[string], dst *string, name string, nullable bool) error {
	if !f.Set {
		return nil
	}
	if f.Null {
		if !nullable {
			return notNull(name)
		}
		*dst = ""
		return nil
	}
	*dst = f.Value
	return nil
}

func setTime(f Field[string], dst **time.Time, name string) error {
	if !f.Set {
		return nil
	}
	if f.Null || f.Value == "" {
		*dst = nil
		return nil
	}
	t, err := ParseTime(f.Value)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid "+name, err)
	}
	*dst = &t
	return nil
}

func setOptionalInt(f Field[int], dst **int) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}

func notNull(name string) error {
	return domain.NewError(domain.ErrCodeInvalid, name+" may not be null")
}
