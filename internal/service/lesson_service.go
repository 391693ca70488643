package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"codelingo/internal/content"
	"codelingo/internal/database"
	"codelingo/internal/evaluate"
	"codelingo/internal/hearts"
	"codelingo/internal/models"
	"codelingo/internal/repository"
	"codelingo/internal/session"
)

var (
	// ErrLessonNotFound is returned when a lesson ID does not exist
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrQuestionNotFound is returned when a question ID does not exist
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound is returned when an answer ID does not belong to
	// the question being checked
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrMissingAnswer is returned when an answer check arrives without a value
	ErrMissingAnswer = errors.New("no answer provided")
)

// PageViewKind says what a lesson page request resolved to
type PageViewKind int

const (
	// ViewRedirect means the page number was out of range and the caller
	// should redirect to RedirectPage.
	ViewRedirect PageViewKind = iota
	ViewTheory
	ViewQuestion
	// ViewCompleted means the lesson is already completed and cannot be
	// re-entered.
	ViewCompleted
)

// LessonPage is everything a page render needs
type LessonPage struct {
	Kind         PageViewKind
	RedirectPage int

	Lesson   models.Lesson
	Theory   *models.TheoryPage
	Question *models.Question
	Choices  []models.Answer

	Page            int
	TotalPages      int
	QuestionNumber  int
	QuestionCount   int
	ProgressPercent int

	Hearts      int
	OutOfHearts bool
}

// SubmitOutcome tells the caller where to send the learner next
type SubmitOutcome struct {
	Completed        bool
	AlreadyCompleted bool
	NextPage         int
}

// AnswerCheck is the immediate feedback for a single answer
type AnswerCheck struct {
	Correct bool
	Hearts  int
}

// LessonResult is the finalized summary of one lesson run
type LessonResult struct {
	Lesson           models.Lesson
	CorrectCount     int
	TotalQuestions   int
	Accuracy         int
	Points           int
	TimeSpentSeconds int
}

// LessonOverview backs the home screen
type LessonOverview struct {
	Lessons      []models.Lesson
	CompletedIDs map[string]bool
	Profile      *models.Profile
}

// LessonService drives the lesson state machine: page progression,
// answer evaluation, and the transactional result reconciliation that
// updates progress, points, streak and challenges together.
type LessonService struct {
	db         *database.DB
	lessons    *repository.LessonRepository
	progress   *repository.ProgressRepository
	profiles   *ProfileService
	challenges *ChallengeService
	store      session.Store
	clock      func() time.Time
	locks      *keyedMutex
}

// NewLessonService creates a new lesson service
func NewLessonService(db *database.DB, lessons *repository.LessonRepository, progress *repository.ProgressRepository, profiles *ProfileService, challenges *ChallengeService, store session.Store) *LessonService {
	return &LessonService{
		db:         db,
		lessons:    lessons,
		progress:   progress,
		profiles:   profiles,
		challenges: challenges,
		store:      store,
		clock:      time.Now,
		locks:      newKeyedMutex(),
	}
}

// Overview returns the lesson list with the user's completion state and
// refreshed profile
func (s *LessonService) Overview(userID int64) (*LessonOverview, error) {
	lessons, err := s.lessons.ListLessons()
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.progress.CompletedLessonIDs(userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	profile, err := s.profiles.Refresh(userID)
	if err != nil {
		return nil, err
	}

	return &LessonOverview{Lessons: lessons, CompletedIDs: completed, Profile: profile}, nil
}

// Page resolves a 1-indexed lesson page into a render-ready view
func (s *LessonService) Page(ctx context.Context, userID int64, lessonID string, page int) (*LessonPage, error) {
	lesson, err := s.lessons.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	prior, err := s.progress.Get(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.Completed {
		return &LessonPage{Kind: ViewCompleted, Lesson: *lesson}, nil
	}

	theory, err := s.lessons.ListTheoryPages(lessonID)
	if err != nil {
		return nil, err
	}
	questions, err := s.lessons.ListQuestions(lessonID)
	if err != nil {
		return nil, err
	}

	view := &LessonPage{
		Lesson:        *lesson,
		Page:          page,
		TotalPages:    content.TotalPages(len(theory), len(questions)),
		QuestionCount: len(questions),
	}

	loc := content.Locate(len(theory), len(questions), page)
	if loc.Kind == content.PageOutOfRange {
		view.Kind = ViewRedirect
		view.RedirectPage = 1
		return view, nil
	}

	// The timer starts on the learner's first visit to page 1 and is not
	// reset by later revisits.
	if page == 1 {
		startKey := session.StartKey(userID, session.ScopeLesson, lessonID)
		if _, ok, err := s.store.Value(ctx, startKey); err != nil {
			return nil, err
		} else if !ok {
			if err := s.store.SetValue(ctx, startKey, s.clock().Format(time.RFC3339)); err != nil {
				return nil, err
			}
		}
	}

	answered, err := s.store.Answers(ctx, session.AnswersKey(userID, session.ScopeLesson, lessonID))
	if err != nil {
		return nil, err
	}
	view.ProgressPercent = content.ProgressPercent(len(answered), len(questions))

	if loc.Kind == content.PageTheory {
		view.Kind = ViewTheory
		view.Theory = &theory[loc.Index]
		return view, nil
	}

	question := questions[loc.Index]
	choices, err := s.lessons.ListAnswers(question.ID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Refresh(userID)
	if err != nil {
		return nil, err
	}

	view.Kind = ViewQuestion
	view.Question = &question
	view.Choices = choices
	view.QuestionNumber = loc.Index + 1
	view.Hearts = profile.Hearts
	view.OutOfHearts = profile.Hearts == 0
	return view, nil
}

// Submit records a page submission and computes where the learner goes
// next. Submitting the final page routes to the result; re-submitting
// an already answered question advances without re-evaluating.
func (s *LessonService) Submit(ctx context.Context, userID int64, lessonID string, page int, value string) (*SubmitOutcome, error) {
	unlock := s.locks.Lock(lockKey(userID, session.ScopeLesson, lessonID))
	defer unlock()

	lesson, err := s.lessons.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	prior, err := s.progress.Get(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.Completed {
		return &SubmitOutcome{AlreadyCompleted: true}, nil
	}

	theory, err := s.lessons.ListTheoryPages(lessonID)
	if err != nil {
		return nil, err
	}
	questions, err := s.lessons.ListQuestions(lessonID)
	if err != nil {
		return nil, err
	}

	loc := content.Locate(len(theory), len(questions), page)
	if loc.Kind == content.PageOutOfRange {
		return &SubmitOutcome{NextPage: 1}, nil
	}

	if loc.Kind == content.PageQuestion && value != "" {
		question := questions[loc.Index]
		answersKey := session.AnswersKey(userID, session.ScopeLesson, lessonID)

		answered, err := s.store.Answers(ctx, answersKey)
		if err != nil {
			return nil, err
		}
		if _, already := answered[question.ID]; !already {
			choices, err := s.lessons.ListAnswers(question.ID)
			if err != nil {
				return nil, err
			}

			correct, recorded := evaluate.Evaluate(lessonChoices(choices), value)
			if err := s.store.SetAnswer(ctx, answersKey, question.ID, recorded); err != nil {
				return nil, err
			}
			if !correct {
				if err := s.deductHeart(userID); err != nil {
					return nil, err
				}
			}
		}
	}

	total := content.TotalPages(len(theory), len(questions))
	if page >= total {
		return &SubmitOutcome{Completed: true}, nil
	}
	return &SubmitOutcome{NextPage: page + 1}, nil
}

// CheckAnswer evaluates one selected answer without advancing the page.
// It records the submission and deducts a heart on a wrong answer, so a
// follow-up Submit for the same question is a no-op.
func (s *LessonService) CheckAnswer(ctx context.Context, userID int64, lessonID, questionID, answerID string) (*AnswerCheck, error) {
	if answerID == "" {
		return nil, ErrMissingAnswer
	}

	unlock := s.locks.Lock(lockKey(userID, session.ScopeLesson, lessonID))
	defer unlock()

	question, err := s.lessons.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	choices, err := s.lessons.ListAnswers(questionID)
	if err != nil {
		return nil, err
	}
	var chosen *models.Answer
	for i := range choices {
		if choices[i].ID == answerID {
			chosen = &choices[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrAnswerNotFound
	}

	answersKey := session.AnswersKey(userID, session.ScopeLesson, lessonID)
	answered, err := s.store.Answers(ctx, answersKey)
	if err != nil {
		return nil, err
	}
	if _, already := answered[question.ID]; !already {
		if err := s.store.SetAnswer(ctx, answersKey, question.ID, chosen.ID); err != nil {
			return nil, err
		}
		if !chosen.IsCorrect {
			if err := s.deductHeart(userID); err != nil {
				return nil, err
			}
		}
	}

	profile, err := s.profiles.Ensure(userID)
	if err != nil {
		return nil, err
	}
	return &AnswerCheck{Correct: chosen.IsCorrect, Hearts: profile.Hearts}, nil
}

// Result finalizes a lesson run: recomputes correctness from the stored
// answer map, derives accuracy and points, and reconciles progress,
// profile totals, streak and challenges in one transaction. Reloading
// the result page re-runs the reconciliation with identical inputs and
// converges to the same state.
func (s *LessonService) Result(ctx context.Context, userID int64, lessonID string) (*LessonResult, error) {
	unlock := s.locks.Lock(lockKey(userID, session.ScopeLesson, lessonID))
	defer unlock()

	lesson, err := s.lessons.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	questions, err := s.lessons.ListQuestions(lessonID)
	if err != nil {
		return nil, err
	}
	answered, err := s.store.Answers(ctx, session.AnswersKey(userID, session.ScopeLesson, lessonID))
	if err != nil {
		return nil, err
	}

	correctCount := 0
	for _, q := range questions {
		submitted, ok := answered[q.ID]
		if !ok {
			continue
		}
		choices, err := s.lessons.ListAnswers(q.ID)
		if err != nil {
			return nil, err
		}
		if correct, _ := evaluate.Evaluate(lessonChoices(choices), submitted); correct {
			correctCount++
		}
	}

	accuracy := 0
	if len(questions) > 0 {
		accuracy = int(math.Round(float64(correctCount) * 100 / float64(len(questions))))
	}
	points := pointsForAccuracy(accuracy)

	now := s.clock()
	elapsed, err := frozenElapsedSeconds(ctx, s.store, userID, session.ScopeLesson, lessonID, now)
	if err != nil {
		return nil, err
	}

	if err := s.reconcile(userID, lessonID, points, accuracy, now); err != nil {
		return nil, err
	}

	return &LessonResult{
		Lesson:           *lesson,
		CorrectCount:     correctCount,
		TotalQuestions:   len(questions),
		Accuracy:         accuracy,
		Points:           points,
		TimeSpentSeconds: elapsed,
	}, nil
}

// End clears the lesson's session state so the next visit starts fresh
func (s *LessonService) End(ctx context.Context, userID int64, lessonID string) error {
	return s.store.Delete(ctx,
		session.AnswersKey(userID, session.ScopeLesson, lessonID),
		session.StartKey(userID, session.ScopeLesson, lessonID),
		session.FinalKey(userID, session.ScopeLesson, lessonID),
	)
}

// reconcile commits the lesson outcome atomically: the progress row is
// upserted, profile points are adjusted by replacing the lesson's old
// contribution, the streak advances, and challenge progress folds in.
func (s *LessonService) reconcile(userID int64, lessonID string, points, accuracy int, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	progressRepo := repository.NewProgressRepository(tx)
	profileRepo := repository.NewProfileRepository(tx)

	prior, err := progressRepo.Get(userID, lessonID)
	if err != nil {
		return err
	}

	completedAt := now
	record := &models.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &completedAt,
		Points:      points,
	}

	firstCompletion := prior == nil
	if firstCompletion {
		if err := progressRepo.Create(record); err != nil {
			return err
		}
	} else {
		if err := progressRepo.Update(record); err != nil {
			return err
		}
	}

	profile, err := profileRepo.Get(userID)
	if err != nil {
		return err
	}
	if profile == nil {
		if profile, err = profileRepo.Create(userID); err != nil {
			return err
		}
	}

	// Total points carry each lesson's latest score, not the sum of every
	// attempt: subtract the previous contribution before adding the new one.
	total := profile.TotalPoints + points
	if !firstCompletion {
		total -= prior.Points
	}
	if total < 0 {
		total = 0
	}
	profile.TotalPoints = total

	applyStreak(profile, now)

	if err := profileRepo.Save(profile); err != nil {
		return err
	}

	if err := s.challenges.Apply(tx, userID, points, firstCompletion, accuracy, now); err != nil {
		return err
	}

	return tx.Commit()
}

// frozenElapsedSeconds returns the run's duration, freezing it on first
// read so result-page reloads show a stable time
func frozenElapsedSeconds(ctx context.Context, store session.Store, userID int64, scope, contentID string, now time.Time) (int, error) {
	finalKey := session.FinalKey(userID, scope, contentID)
	if cached, ok, err := store.Value(ctx, finalKey); err != nil {
		return 0, err
	} else if ok {
		seconds, err := strconv.Atoi(cached)
		if err != nil {
			return 0, fmt.Errorf("corrupt final time %q: %w", cached, err)
		}
		return seconds, nil
	}

	seconds := 0
	if raw, ok, err := store.Value(ctx, session.StartKey(userID, scope, contentID)); err != nil {
		return 0, err
	} else if ok {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return 0, fmt.Errorf("corrupt start time %q: %w", raw, err)
		}
		if d := now.Sub(start); d > 0 {
			seconds = int(d.Seconds())
		}
	}

	if err := store.SetValue(ctx, finalKey, strconv.Itoa(seconds)); err != nil {
		return 0, err
	}
	return seconds, nil
}

func (s *LessonService) deductHeart(userID int64) error {
	profile, err := s.profiles.Ensure(userID)
	if err != nil {
		return err
	}
	if hearts.Deduct(profile) {
		return s.profiles.Save(profile)
	}
	return nil
}

// pointsForAccuracy maps an accuracy percentage onto the point bands
func pointsForAccuracy(accuracy int) int {
	switch {
	case accuracy <= 15:
		return 4
	case accuracy <= 45:
		return 6
	case accuracy <= 90:
		return 8
	default:
		return 10
	}
}

// applyStreak advances the daily streak: consecutive-day completions
// extend it, a same-day completion keeps it, anything else resets to 1
func applyStreak(profile *models.Profile, now time.Time) {
	today := dateOnly(now)

	switch {
	case profile.LastLessonDate == nil:
		profile.CurrentStreak = 1
	case dateOnly(*profile.LastLessonDate).Equal(today):
		// already counted today
	case dateOnly(*profile.LastLessonDate).AddDate(0, 0, 1).Equal(today):
		profile.CurrentStreak++
	default:
		profile.CurrentStreak = 1
	}

	profile.LastLessonDate = &today
}

// lessonChoices adapts stored answers to the evaluator's input
func lessonChoices(answers []models.Answer) []evaluate.Choice {
	choices := make([]evaluate.Choice, len(answers))
	for i, a := range answers {
		choices[i] = evaluate.Choice{ID: a.ID, Text: a.Text, Correct: a.IsCorrect}
	}
	return choices
}
