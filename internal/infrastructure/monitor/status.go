package monitor

import "time"

type Status struct {
	Database     bool      `json:"database"`
	Redis        bool      `json:"redis"`
	RedisEnabled bool      `json:"redis_enabled"`
	Sessions     bool      `json:"sessions"`
	SessionCount int       `json:"session_count,omitempty"`
	LastCheck    time.Time `json:"last_check"`
}

// Healthy reports whether every configured dependency answered the last check.
func (s Status) Healthy() bool {
	if !s.Database || !s.Sessions {
		return false
	}
	return !s.RedisEnabled || s.Redis
}
