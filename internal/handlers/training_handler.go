package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"codelingo/internal/models"
	"codelingo/internal/service"
)

// TrainingHandler handles training module browsing and play
type TrainingHandler struct {
	trainingService *service.TrainingService
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(trainingService *service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

// List returns all training modules with completion state
func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	overview, err := h.trainingService.Overview(userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load trainings")
		return
	}

	modules := make([]map[string]interface{}, len(overview.Modules))
	for i, m := range overview.Modules {
		modules[i] = map[string]interface{}{
			"id":        m.ID,
			"title":     m.Title,
			"completed": overview.CompletedIDs[m.ID],
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"trainings": modules})
}

// ShowQuestion returns one training question page
func (h *TrainingHandler) ShowQuestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	trainingID := r.PathValue("trainingID")

	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		h.redirectToQuestion(w, r, trainingID, 1)
		return
	}

	view, err := h.trainingService.Page(r.Context(), userID, trainingID, page)
	if err != nil {
		respondServiceError(w, err, "Failed to load training question")
		return
	}

	if view.Kind == service.ViewRedirect {
		h.redirectToQuestion(w, r, trainingID, view.RedirectPage)
		return
	}

	payload := map[string]interface{}{
		"training": map[string]string{"id": view.Module.ID, "title": view.Module.Title},
		"question": map[string]string{
			"id":   view.Question.ID,
			"text": view.Question.Text,
			"type": string(view.Question.Kind),
		},
		"page":             view.Page,
		"total_pages":      view.TotalPages,
		"progress_percent": view.ProgressPercent,
	}
	if view.Question.Kind == models.KindSelection {
		choices := make([]choiceResponse, len(view.Choices))
		for i, c := range view.Choices {
			choices[i] = choiceResponse{ID: c.ID, Text: c.Text}
		}
		payload["choices"] = choices
	}
	respondJSON(w, http.StatusOK, payload)
}

// SubmitQuestion records a training answer and redirects onward
func (h *TrainingHandler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	trainingID := r.PathValue("trainingID")

	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		h.redirectToQuestion(w, r, trainingID, 1)
		return
	}

	if err := r.ParseForm(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form data"})
		return
	}

	outcome, err := h.trainingService.Submit(r.Context(), userID, trainingID, page, r.FormValue("answer"))
	if err != nil {
		respondServiceError(w, err, "Failed to submit training answer")
		return
	}

	if outcome.Completed {
		http.Redirect(w, r, fmt.Sprintf("/trainings/%s/result", trainingID), http.StatusSeeOther)
		return
	}
	h.redirectToQuestion(w, r, trainingID, outcome.NextPage)
}

// ShowResult finalizes the run, granting the completion heart on the
// first read
func (h *TrainingHandler) ShowResult(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	trainingID := r.PathValue("trainingID")

	result, err := h.trainingService.Result(r.Context(), userID, trainingID)
	if err != nil {
		respondServiceError(w, err, "Failed to load training result")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"training":           map[string]string{"id": result.Module.ID, "title": result.Module.Title},
		"correct_count":      result.CorrectCount,
		"total_questions":    result.TotalQuestions,
		"accuracy":           result.Accuracy,
		"heart_earned":       result.HeartEarned,
		"time_spent_seconds": result.TimeSpentSeconds,
	})
}

func (h *TrainingHandler) redirectToQuestion(w http.ResponseWriter, r *http.Request, trainingID string, page int) {
	http.Redirect(w, r, fmt.Sprintf("/trainings/%s/question/%d", trainingID, page), http.StatusSeeOther)
}
