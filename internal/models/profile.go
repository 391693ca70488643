package models

import "time"

// Profile holds the per-learner game state. One exists per user; it is
// created through ProfileService.Ensure and mutated only by the hearts
// clock and the outcome reconciliation paths.
type Profile struct {
	UserID          int64
	Hearts          int
	LastHeartUpdate *time.Time
	TotalPoints     int
	CurrentStreak   int
	LastLessonDate  *time.Time // date only; time component is ignored
	Coins           int
}

// LeaderboardEntry pairs a user with their total points for ranking
type LeaderboardEntry struct {
	UserID      int64
	Name        string
	TotalPoints int
}
