package models

import "time"

// Challenge type tags. Accumulation in the challenge tracker dispatches
// on these.
const (
	ChallengePoints  = "points"
	ChallengeLessons = "lessons"
	ChallengePerfect = "perfect"
)

// DailyChallenge is one of the day's active challenges, generated from
// the fixed catalog once per calendar day.
type DailyChallenge struct {
	ID            int64
	Title         string
	Description   string
	ChallengeType string
	TargetValue   int
	RewardCoins   int
	ActiveDate    time.Time // date only
}

// UserChallengeProgress tracks one user's progress on one challenge.
// Unique per (user, challenge). Rewarded guards the coin payout so it
// is claimed at most once.
type UserChallengeProgress struct {
	ID          int64
	UserID      int64
	ChallengeID int64
	Progress    int
	Completed   bool
	Rewarded    bool
	CompletedAt *time.Time
}
