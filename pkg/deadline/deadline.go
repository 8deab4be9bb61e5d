// Package deadline classifies and formats post deadlines relative to a clock reading.
package deadline

import (
	"fmt"
	"time"
)

type Classification string

const (
	Overdue Classification = "overdue"
	DueSoon Classification = "due-soon"
	OnTrack Classification = "on-track"
)

// DueSoonWindow is how close a deadline must be to count as due soon.
const DueSoonWindow = 24 * time.Hour

// Classify returns overdue when the deadline is not after now, due-soon when it falls
// within DueSoonWindow, and on-track otherwise.
func Classify(deadline, now time.Time) Classification {
	switch {
	case !deadline.After(now):
		return Overdue
	case deadline.Sub(now) <= DueSoonWindow:
		return DueSoon
	default:
		return OnTrack
	}
}

// ClassifyPtr classifies an optional deadline. A missing deadline is on-track with ok=false.
func ClassifyPtr(deadline *time.Time, now time.Time) (Classification, bool) {
	if deadline == nil {
		return OnTrack, false
	}

	return Classify(*deadline, now), true
}

// Format renders a coarse countdown such as "Due in 3 hours" or "Due tomorrow". The wording
// follows Classify: due-soon deadlines count hours, on-track ones count days.
func Format(deadline, now time.Time) string {
	remaining := deadline.Sub(now)

	switch Classify(deadline, now) {
	case Overdue:
		return "Overdue"
	case DueSoon:
		switch hours := int(remaining / time.Hour); hours {
		case 0:
			return "Due in less than an hour"
		case 1:
			return "Due in 1 hour"
		default:
			return fmt.Sprintf("Due in %d hours", hours)
		}
	default:
		days := int(remaining / DueSoonWindow)
		if days == 1 {
			return "Due tomorrow"
		}

		return fmt.Sprintf("Due in %d days", days)
	}
}
