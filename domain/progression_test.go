package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAward(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		experience int
		amount     int
		threshold  ThresholdFunc
		wantLevel  int
		wantExp    int
	}{
		{"below profile threshold", 1, 50, 10, ProfileThreshold, 1, 60},
		{"reaches profile threshold and discards excess", 1, 95, 10, ProfileThreshold, 2, 0},
		{"exactly at profile threshold", 1, 90, 10, ProfileThreshold, 2, 0},
		{"higher level needs more", 2, 150, 10, ProfileThreshold, 2, 160},
		{"status track threshold", 1, 40, 10, StatusThreshold, 2, 0},
		{"status track below threshold", 3, 100, 10, StatusThreshold, 3, 110},
		{"single level per award", 1, 0, 500, ProfileThreshold, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, exp := Award(tt.level, tt.experience, tt.amount, tt.threshold)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantExp, exp)
		})
	}
}

func TestUserProfileGain(t *testing.T) {
	rules := DefaultProgressionRules()
	profile := &UserProfile{Level: 1, Experience: 80}

	assert.False(t, profile.Gain(rules.ProfileAward, rules.ProfileThreshold))
	assert.Equal(t, 90, profile.Experience)

	assert.True(t, profile.Gain(rules.ProfileAward, rules.ProfileThreshold))
	assert.Equal(t, 2, profile.Level)
	assert.Equal(t, 0, profile.Experience)
}

func TestUserStatusGain(t *testing.T) {
	rules := DefaultProgressionRules()
	status := &UserStatus{StatusType: StatusLearning, Level: 1}

	for i := 0; i < 4; i++ {
		assert.False(t, status.Gain(rules.StatusAward, rules.StatusThreshold))
	}
	assert.True(t, status.Gain(rules.StatusAward, rules.StatusThreshold))
	assert.Equal(t, 2, status.Level)
	assert.Equal(t, 0, status.Experience)
}

func TestProgressValidation(t *testing.T) {
	assert.NoError(t, (&UserProfile{Level: 1}).Validate())
	assert.True(t, IsDomainError((&UserProfile{Level: 0}).Validate(), ErrCodeInvalid))
	assert.True(t, IsDomainError((&UserProfile{Level: 1, Experience: -1}).Validate(), ErrCodeInvalid))
	assert.True(t, IsDomainError((&UserStatus{StatusType: "strength", Level: 1}).Validate(), ErrCodeInvalid))
	assert.True(t, IsDomainError((&Achievement{Name: "first"}).Validate(), ErrCodeInvalid))
}
