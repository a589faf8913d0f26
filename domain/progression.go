package domain

import "time"

// StatusType identifies a skill track that gains experience when related tasks complete.
type StatusType string

const (
	StatusLearning      StatusType = "learning"
	StatusCreativity    StatusType = "creativity"
	StatusExecution     StatusType = "execution"
	StatusCommunication StatusType = "communication"
)

// StatusTypes lists every known skill track.
var StatusTypes = []StatusType{StatusLearning, StatusCreativity, StatusExecution, StatusCommunication}

func (s StatusType) Valid() bool {
	switch s {
	case StatusLearning, StatusCreativity, StatusExecution, StatusCommunication:
		return true
	}
	return false
}

const (
	// CompletionAward is the experience granted to each track per completed task.
	CompletionAward = 10
	// ProfileLevelStep multiplies the profile level to get its level-up threshold.
	ProfileLevelStep = 100
	// StatusLevelStep multiplies a status level to get its level-up threshold.
	StatusLevelStep = 50
)

// ThresholdFunc returns the experience needed to leave the given level.
type ThresholdFunc func(level int) int

func ProfileThreshold(level int) int { return level * ProfileLevelStep }

func StatusThreshold(level int) int { return level * StatusLevelStep }

// ProgressionRules bundles the award amounts and level curves applied on task completion.
type ProgressionRules struct {
	ProfileAward     int
	StatusAward      int
	ProfileThreshold ThresholdFunc
	StatusThreshold  ThresholdFunc
}

func DefaultProgressionRules() ProgressionRules {
	return ProgressionRules{
		ProfileAward:     CompletionAward,
		StatusAward:      CompletionAward,
		ProfileThreshold: ProfileThreshold,
		StatusThreshold:  StatusThreshold,
	}
}

// Award adds amount to the experience of a track at the given level.
// Reaching the threshold raises the level by exactly one and resets experience to zero;
// any excess is discarded.
func Award(level, experience, amount int, threshold ThresholdFunc) (int, int) {
	experience += amount
	if experience >= threshold(level) {
		return level + 1, 0
	}
	return level, experience
}

// UserProfile holds the overall level of a user.
type UserProfile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Gain applies an award and reports whether the profile levelled up.
func (p *UserProfile) Gain(amount int, threshold ThresholdFunc) bool {
	before := p.Level
	p.Level, p.Experience = Award(p.Level, p.Experience, amount, threshold)
	return p.Level > before
}

func (p *UserProfile) Validate() error {
	return validateProgress(p.Level, p.Experience)
}

// UserStatus holds the level of one skill track of a user.
type UserStatus struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	StatusType StatusType `json:"status_type"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *UserStatus) Gain(amount int, threshold ThresholdFunc) bool {
	before := s.Level
	s.Level, s.Experience = Award(s.Level, s.Experience, amount, threshold)
	return s.Level > before
}

func (s *UserStatus) Validate() error {
	if !s.StatusType.Valid() {
		return NewError(ErrCodeInvalid, "invalid status_type")
	}
	return validateProgress(s.Level, s.Experience)
}

// Achievement is a named milestone stored for a user.
type Achievement struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AchievedAt  time.Time `json:"achieved_at"`
}

func (a *Achievement) Validate() error {
	switch {
	case a.Name == "":
		return NewError(ErrCodeInvalid, "name is required")
	case len([]rune(a.Name)) > 100:
		return NewError(ErrCodeInvalid, "name is too long")
	case a.Description == "":
		return NewError(ErrCodeInvalid, "description is required")
	}
	return nil
}

func validateProgress(level, experience int) error {
	if level < 1 {
		return NewError(ErrCodeInvalid, "level must be at least 1")
	}
	if experience < 0 {
		return NewError(ErrCodeInvalid, "experience must not be negative")
	}
	return nil
}
