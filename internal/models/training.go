package models

import "time"

// TrainingModule is a standalone practice question set outside the
// lesson progression. Completing one rewards a heart instead of points.
type TrainingModule struct {
	ID    string
	Title string
}

// TrainingQuestion belongs to exactly one training module
type TrainingQuestion struct {
	ID         string
	TrainingID string
	Text       string
	Kind       QuestionKind
	Position   int
}

// TrainingAnswer is one of a training question's recorded answers
type TrainingAnswer struct {
	ID         string
	QuestionID string
	Text       string
	IsCorrect  bool
}

// TrainingProgress records a user's completion of a training module.
// Unique per (user, training); upserted on every completion since
// trainings are replayable.
type TrainingProgress struct {
	UserID      int64
	TrainingID  string
	Completed   bool
	CompletedAt *time.Time
	EarnedHeart bool
}
