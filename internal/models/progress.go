package models

import "time"

// LessonProgress records a user's completion of a lesson. Unique per
// (user, lesson). Points holds what this completion awarded; on a
// re-completion the old value is subtracted from the profile total
// before the new one is added.
type LessonProgress struct {
	UserID      int64
	LessonID    string
	Completed   bool
	CompletedAt *time.Time
	Points      int
}
