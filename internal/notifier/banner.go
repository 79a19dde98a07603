package notifier

import "time"

// Level distinguishes error banners from transient notices.
type Level string

const (
	LevelError  Level = "error"
	LevelNotice Level = "notice"
)

// Banner is a dismissible message on the dashboard. The zero value shows nothing.
type Banner struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Expires time.Time `json:"expires"`
}

// NewBanner creates a banner visible until now+ttl.
func NewBanner(level Level, message string, now time.Time, ttl time.Duration) Banner {
	return Banner{Level: level, Message: message, Expires: now.Add(ttl)}
}

// Visible reports whether the banner should still be drawn at now.
func (b Banner) Visible(now time.Time) bool {
	return b.Message != "" && now.Before(b.Expires)
}
