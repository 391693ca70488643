// Package session is the ephemeral per-learner state store: in-progress
// answer maps, lesson start timestamps, and cached final times. Values
// live for the duration of the learner's browsing session and are never
// the system of record.
package session

import (
	"context"
	"fmt"
)

// Store is the session-scoped key-value contract the progression engine
// consumes. Keys are built with the helpers below so one learner's
// lesson state never collides with another's.
type Store interface {
	// Answers returns the in-progress answer map (question ID -> submitted
	// value) stored under key. A missing key yields an empty map.
	Answers(ctx context.Context, key string) (map[string]string, error)

	// SetAnswer records one submitted answer in the map under key
	SetAnswer(ctx context.Context, key, questionID, value string) error

	// Value returns a scalar value and whether it was present
	Value(ctx context.Context, key string) (string, bool, error)

	// SetValue stores a scalar value
	SetValue(ctx context.Context, key, value string) error

	// Delete removes the given keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
}

// Key scopes for the two progression flavors
const (
	ScopeLesson   = "lesson"
	ScopeTraining = "training"
)

// AnswersKey is where a learner's in-progress answer map lives
func AnswersKey(userID int64, scope, contentID string) string {
	return fmt.Sprintf("sess:%d:%s:%s:answers", userID, scope, contentID)
}

// StartKey holds the session start timestamp (RFC 3339)
func StartKey(userID int64, scope, contentID string) string {
	return fmt.Sprintf("sess:%d:%s:%s:start", userID, scope, contentID)
}

// FinalKey caches the finalized elapsed seconds so repeated result
// reads do not drift forward
func FinalKey(userID int64, scope, contentID string) string {
	return fmt.Sprintf("sess:%d:%s:%s:final", userID, scope, contentID)
}
