package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"codelingo/internal/models"
	"codelingo/internal/service"
)

// LessonHandler handles lesson browsing and play
type LessonHandler struct {
	lessonService *service.LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

type lessonSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type profileSummary struct {
	Hearts        int `json:"hearts"`
	TotalPoints   int `json:"total_points"`
	CurrentStreak int `json:"current_streak"`
	Coins         int `json:"coins"`
}

type choiceResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Home returns the lesson list with the learner's completion state
func (h *LessonHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	overview, err := h.lessonService.Overview(userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load home")
		return
	}

	lessons := make([]lessonSummary, len(overview.Lessons))
	for i, lesson := range overview.Lessons {
		lessons[i] = lessonSummary{
			ID:        lesson.ID,
			Title:     lesson.Title,
			Completed: overview.CompletedIDs[lesson.ID],
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lessons": lessons,
		"profile": profileSummary{
			Hearts:        overview.Profile.Hearts,
			TotalPoints:   overview.Profile.TotalPoints,
			CurrentStreak: overview.Profile.CurrentStreak,
			Coins:         overview.Profile.Coins,
		},
	})
}

// ShowPage returns one lesson page. Out-of-range page numbers redirect
// back to page 1.
func (h *LessonHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	lessonID := r.PathValue("lessonID")

	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		h.redirectToPage(w, r, lessonID, 1)
		return
	}

	view, err := h.lessonService.Page(r.Context(), userID, lessonID, page)
	if err != nil {
		respondServiceError(w, err, "Failed to load lesson page")
		return
	}

	switch view.Kind {
	case service.ViewRedirect:
		h.redirectToPage(w, r, lessonID, view.RedirectPage)
	case service.ViewCompleted:
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"kind":   "completed",
			"lesson": map[string]string{"id": view.Lesson.ID, "title": view.Lesson.Title},
		})
	case service.ViewTheory:
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"kind":             "theory",
			"lesson":           map[string]string{"id": view.Lesson.ID, "title": view.Lesson.Title},
			"content":          view.Theory.Content,
			"page":             view.Page,
			"total_pages":      view.TotalPages,
			"progress_percent": view.ProgressPercent,
		})
	case service.ViewQuestion:
		payload := map[string]interface{}{
			"kind": "question",
			"question": map[string]string{
				"id":   view.Question.ID,
				"text": view.Question.Text,
				"type": string(view.Question.Kind),
			},
			"page":             view.Page,
			"total_pages":      view.TotalPages,
			"question_number":  view.QuestionNumber,
			"question_count":   view.QuestionCount,
			"progress_percent": view.ProgressPercent,
			"hearts":           view.Hearts,
			"out_of_hearts":    view.OutOfHearts,
		}
		// Answer options are only sent for selection questions; type-in
		// questions would leak their solution.
		if view.Question.Kind == models.KindSelection {
			choices := make([]choiceResponse, len(view.Choices))
			for i, c := range view.Choices {
				choices[i] = choiceResponse{ID: c.ID, Text: c.Text}
			}
			payload["choices"] = choices
		}
		respondJSON(w, http.StatusOK, payload)
	}
}

// SubmitPage records the page's answer and redirects to the next page
// or the result
func (h *LessonHandler) SubmitPage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	lessonID := r.PathValue("lessonID")

	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		h.redirectToPage(w, r, lessonID, 1)
		return
	}

	if err := r.ParseForm(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form data"})
		return
	}

	outcome, err := h.lessonService.Submit(r.Context(), userID, lessonID, page, r.FormValue("answer"))
	if err != nil {
		respondServiceError(w, err, "Failed to submit answer")
		return
	}

	if outcome.AlreadyCompleted {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	if outcome.Completed {
		http.Redirect(w, r, fmt.Sprintf("/lessons/%s/result", lessonID), http.StatusSeeOther)
		return
	}
	h.redirectToPage(w, r, lessonID, outcome.NextPage)
}

// ShowResult finalizes the run and returns its summary
func (h *LessonHandler) ShowResult(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	lessonID := r.PathValue("lessonID")

	result, err := h.lessonService.Result(r.Context(), userID, lessonID)
	if err != nil {
		respondServiceError(w, err, "Failed to load lesson result")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lesson":             map[string]string{"id": result.Lesson.ID, "title": result.Lesson.Title},
		"correct_count":      result.CorrectCount,
		"total_questions":    result.TotalQuestions,
		"accuracy":           result.Accuracy,
		"points":             result.Points,
		"time_spent_seconds": result.TimeSpentSeconds,
	})
}

// EndLesson clears the run's session state and returns home
func (h *LessonHandler) EndLesson(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	lessonID := r.PathValue("lessonID")

	if err := h.lessonService.End(r.Context(), userID, lessonID); err != nil {
		respondServiceError(w, err, "Failed to end lesson")
		return
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

type checkAnswerRequest struct {
	LessonID   string `json:"lesson_id"`
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

// CheckAnswer gives immediate feedback for a selected answer
func (h *LessonHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req checkAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	check, err := h.lessonService.CheckAnswer(r.Context(), userID, req.LessonID, req.QuestionID, req.AnswerID)
	if err != nil {
		respondServiceError(w, err, "Failed to check answer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"correct": check.Correct,
		"hearts":  check.Hearts,
	})
}

func (h *LessonHandler) redirectToPage(w http.ResponseWriter, r *http.Request, lessonID string, page int) {
	http.Redirect(w, r, fmt.Sprintf("/lessons/%s/page/%d", lessonID, page), http.StatusSeeOther)
}
