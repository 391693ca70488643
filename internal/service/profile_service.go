package service

import (
	"fmt"
	"time"

	"codelingo/internal/hearts"
	"codelingo/internal/models"
	"codelingo/internal/repository"
)

// ProfileService owns learner profile lifecycle and heart regeneration
type ProfileService struct {
	profiles *repository.ProfileRepository
	clock    func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, clock: time.Now}
}

// Ensure returns the user's profile, creating it with defaults if it
// does not exist yet. Every code path that needs a profile goes through
// this instead of relying on a creation-time hook.
func (s *ProfileService) Ensure(userID int64) (*models.Profile, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile, err = s.profiles.Create(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return profile, nil
}

// Refresh returns the profile after lazily regenerating hearts. There
// is no background job; regeneration happens at the point of access.
func (s *ProfileService) Refresh(userID int64) (*models.Profile, error) {
	profile, err := s.Ensure(userID)
	if err != nil {
		return nil, err
	}

	if hearts.Regenerate(profile, s.clock()) {
		if err := s.profiles.Save(profile); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// Save persists the profile
func (s *ProfileService) Save(profile *models.Profile) error {
	return s.profiles.Save(profile)
}

// Leaderboard returns users ranked by total points
func (s *ProfileService) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	return s.profiles.Leaderboard(limit)
}
