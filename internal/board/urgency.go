package board

import (
	"slices"
	"time"

	"todoBoard/internal/models/todo"
)

type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyDueSoon Urgency = "due-soon"
	UrgencyNormal  Urgency = "normal"
)

const DueSoonWindow = 72 * time.Hour

// Classify labels a deadline relative to now. It is a display band only.
func Classify(deadline *time.Time, now time.Time) Urgency {
	if deadline == nil {
		return UrgencyNormal
	}

	left := deadline.Sub(now)
	switch {
	case left < 0:
		return UrgencyOverdue
	case left <= DueSoonWindow:
		return UrgencyDueSoon
	default:
		return UrgencyNormal
	}
}

// SortByDeadline orders todos by ascending deadline in place, keeping the
// incoming order for equal deadlines. Todos without a deadline go last.
func SortByDeadline(todos []*todo.Todo) {
	slices.SortStableFunc(todos, func(a, b *todo.Todo) int {
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			return 0
		case a.Deadline == nil:
			return 1
		case b.Deadline == nil:
			return -1
		default:
			return a.Deadline.Compare(*b.Deadline)
		}
	})
}
