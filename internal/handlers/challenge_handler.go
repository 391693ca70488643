package handlers

import (
	"net/http"
	"strconv"

	"codelingo/internal/service"
)

// ChallengeHandler handles daily challenge listing and redemption
type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// List returns today's challenges with the user's progress
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	statuses, err := h.challengeService.ListForUser(userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load challenges")
		return
	}

	challenges := make([]map[string]interface{}, len(statuses))
	for i, s := range statuses {
		challenges[i] = map[string]interface{}{
			"id":           s.Challenge.ID,
			"title":        s.Challenge.Title,
			"description":  s.Challenge.Description,
			"target_value": s.Challenge.TargetValue,
			"reward_coins": s.Challenge.RewardCoins,
			"progress_id":  s.Progress.ID,
			"progress":     s.Progress.Progress,
			"completed":    s.Progress.Completed,
			"rewarded":     s.Progress.Rewarded,
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

// Redeem pays out a completed challenge's coin reward
func (h *ChallengeHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	progressID, err := strconv.ParseInt(r.PathValue("progressID"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid challenge id"})
		return
	}

	coins, err := h.challengeService.Redeem(userID, progressID)
	if err != nil {
		respondServiceError(w, err, "Failed to redeem challenge")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"new_coins": coins,
	})
}
