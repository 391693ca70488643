package handlers

import (
	"net/http"
	"strconv"

	"codelingo/internal/service"
)

const defaultLeaderboardSize = 20

// ProfileHandler handles the profile summary and leaderboard
type ProfileHandler struct {
	profileService *service.ProfileService
	authService    *service.AuthService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService, authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, authService: authService}
}

// Show returns the learner's profile summary
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load user")
		return
	}
	if user == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	profile, err := h.profileService.Refresh(userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
		"profile": profileSummary{
			Hearts:        profile.Hearts,
			TotalPoints:   profile.TotalPoints,
			CurrentStreak: profile.CurrentStreak,
			Coins:         profile.Coins,
		},
	})
}

// Leaderboard returns the top learners by total points
func (h *ProfileHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries, err := h.profileService.Leaderboard(limit)
	if err != nil {
		respondServiceError(w, err, "Failed to load leaderboard")
		return
	}

	board := make([]map[string]interface{}, len(entries))
	for i, e := range entries {
		board[i] = map[string]interface{}{
			"rank":         i + 1,
			"name":         e.Name,
			"total_points": e.TotalPoints,
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": board})
}
