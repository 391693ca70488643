// Package hearts implements the time-based heart (lives) resource.
// Hearts regenerate lazily: there is no background job, callers invoke
// Regenerate with the current time at the point of next access.
package hearts

import (
	"time"

	"codelingo/internal/models"
)

const (
	// Max is the heart cap for every profile
	Max = 5

	// RegenInterval is how long a learner waits for the next heart
	RegenInterval = 5 * time.Minute
)

// Regenerate grants one heart if the profile is below the cap and at
// least RegenInterval has passed since the last heart update (or the
// timestamp was never set). Returns true if the profile changed, so
// callers can skip a save otherwise. Calling again with the same now
// inside the window is a no-op.
func Regenerate(p *models.Profile, now time.Time) bool {
	if p.Hearts >= Max {
		return false
	}
	if p.LastHeartUpdate != nil && now.Sub(*p.LastHeartUpdate) < RegenInterval {
		return false
	}

	p.Hearts++
	if p.Hearts > Max {
		p.Hearts = Max
	}
	t := now
	p.LastHeartUpdate = &t
	return true
}

// Deduct removes one heart. At zero hearts it is a silent no-op, never
// an error; whether play is blocked at zero is the caller's policy.
// Returns true if a heart was actually deducted.
func Deduct(p *models.Profile) bool {
	if p.Hearts <= 0 {
		return false
	}
	p.Hearts--
	return true
}

// Grant adds one heart, capped at Max. Used by the training reward
// path. Returns true if a heart was actually granted.
func Grant(p *models.Profile) bool {
	if p.Hearts >= Max {
		return false
	}
	p.Hearts++
	return true
}
