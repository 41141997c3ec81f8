package negotiation

import (
	"fmt"
	"time"
)

// Window is how long a negotiation stays open after creation.
const Window = 48 * time.Hour

const DeadlinePassedLabel = "deadline passed"

func Deadline(createdAt time.Time) time.Time { return createdAt.Add(Window) }

// Remaining is createdAt + Window - now. It goes negative after the deadline.
func Remaining(createdAt, now time.Time) time.Duration {
	return Deadline(createdAt).Sub(now)
}

// IsExpired is true when the persisted status already says so, or when the
// negotiation is still open and its deadline has been reached.
func IsExpired(createdAt, now time.Time, persisted Status) bool {
	if persisted == StatusExpired {
		return true
	}
	return persisted.Open() && Remaining(createdAt, now) <= 0
}

// FormatRemaining renders a countdown such as "23h 10min".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return DeadlinePassedLabel
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dmin", h, m)
	case m > 0:
		return fmt.Sprintf("%dmin", m)
	default:
		return "less than 1min"
	}
}
