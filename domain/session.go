package domain

import "time"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	metaTheme = "theme"
)

// Session represents a cached authentication session stored in Redis or BoltDB.
type Session struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"user_id"`
	Username  string            `json:"username"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// Identity returns the caller identity carried by the session.
func (s *Session) Identity() *Identity {
	return &Identity{UserID: s.UserID, Username: s.Username, SessionID: s.ID}
}

// Theme returns the session's UI theme preference, light by default.
func (s *Session) Theme() string {
	if s == nil || s.Metadata[metaTheme] != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleTheme flips the theme preference and returns the new value.
func (s *Session) ToggleTheme() string {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	if s.Metadata == nil {
		s.Metadata = make(map[string]string, 1)
	}
	s.Metadata[metaTheme] = next
	return next
}
