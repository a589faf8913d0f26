package monitor

import "time"

// Status is the latest dependency snapshot. Redis is reported only when a Redis check is configured.
type Status struct {
	Database   bool      `json:"database"`
	Redis      *bool     `json:"redis,omitempty"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}
