package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"codelingo/internal/service"
	"codelingo/internal/validation"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondWithError logs the detailed error server-side and returns a
// generic JSON payload to the client
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, map[string]string{"error": userMsg})
}

// respondServiceError maps service-layer errors onto HTTP statuses.
// Unrecognized errors become an opaque 500.
func respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var validationErr validation.ValidationError

	switch {
	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrTrainingNotFound),
		errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrAnswerNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrMissingAnswer),
		errors.Is(err, service.ErrNotRedeemable),
		errors.Is(err, service.ErrHeartsFull),
		errors.Is(err, service.ErrNotEnoughCoins),
		errors.Is(err, service.ErrEmailTaken):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", logMsg, err)
	}
}
