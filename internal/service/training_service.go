package service

import (
	"context"
	"errors"
	"math"
	"time"

	"codelingo/internal/content"
	"codelingo/internal/database"
	"codelingo/internal/evaluate"
	"codelingo/internal/hearts"
	"codelingo/internal/models"
	"codelingo/internal/repository"
	"codelingo/internal/session"
)

// ErrTrainingNotFound is returned when a training module ID does not exist
var ErrTrainingNotFound = errors.New("training module not found")

// TrainingPage is a render-ready training question page
type TrainingPage struct {
	Kind         PageViewKind
	RedirectPage int

	Module   models.TrainingModule
	Question *models.TrainingQuestion
	Choices  []models.TrainingAnswer

	Page            int
	TotalPages      int
	ProgressPercent int
}

// TrainingResult summarizes a finished training run
type TrainingResult struct {
	Module           models.TrainingModule
	CorrectCount     int
	TotalQuestions   int
	Accuracy         int
	HeartEarned      bool
	TimeSpentSeconds int
}

// TrainingOverview backs the training list screen
type TrainingOverview struct {
	Modules      []models.TrainingModule
	CompletedIDs map[string]bool
}

// TrainingService drives replayable training runs. Completing a run
// grants one heart; replays never deduct hearts and can earn another.
type TrainingService struct {
	db       *database.DB
	training *repository.TrainingRepository
	profiles *ProfileService
	store    session.Store
	clock    func() time.Time
	locks    *keyedMutex
}

// NewTrainingService creates a new training service
func NewTrainingService(db *database.DB, training *repository.TrainingRepository, profiles *ProfileService, store session.Store) *TrainingService {
	return &TrainingService{
		db:       db,
		training: training,
		profiles: profiles,
		store:    store,
		clock:    time.Now,
		locks:    newKeyedMutex(),
	}
}

// Overview returns all training modules with the user's completion state
func (s *TrainingService) Overview(userID int64) (*TrainingOverview, error) {
	modules, err := s.training.ListModules()
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.training.CompletedTrainingIDs(userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	return &TrainingOverview{Modules: modules, CompletedIDs: completed}, nil
}

// Page resolves a 1-indexed training page. Visiting page 1 after a
// finished run clears the previous run's session state so the module
// replays from scratch.
func (s *TrainingService) Page(ctx context.Context, userID int64, trainingID string, page int) (*TrainingPage, error) {
	unlock := s.locks.Lock(lockKey(userID, session.ScopeTraining, trainingID))
	defer unlock()

	module, err := s.training.GetModule(trainingID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, ErrTrainingNotFound
	}

	questions, err := s.training.ListQuestions(trainingID)
	if err != nil {
		return nil, err
	}

	view := &TrainingPage{
		Module:     *module,
		Page:       page,
		TotalPages: len(questions),
	}

	loc := content.Locate(0, len(questions), page)
	if loc.Kind != content.PageQuestion {
		view.Kind = ViewRedirect
		view.RedirectPage = 1
		return view, nil
	}

	answersKey := session.AnswersKey(userID, session.ScopeTraining, trainingID)
	startKey := session.StartKey(userID, session.ScopeTraining, trainingID)
	finalKey := session.FinalKey(userID, session.ScopeTraining, trainingID)

	if page == 1 {
		if _, finished, err := s.store.Value(ctx, finalKey); err != nil {
			return nil, err
		} else if finished {
			if err := s.store.Delete(ctx, answersKey, startKey, finalKey); err != nil {
				return nil, err
			}
		}
		if _, ok, err := s.store.Value(ctx, startKey); err != nil {
			return nil, err
		} else if !ok {
			if err := s.store.SetValue(ctx, startKey, s.clock().Format(time.RFC3339)); err != nil {
				return nil, err
			}
		}
	}

	answered, err := s.store.Answers(ctx, answersKey)
	if err != nil {
		return nil, err
	}
	view.ProgressPercent = content.ProgressPercent(len(answered), len(questions))

	question := questions[loc.Index]
	choices, err := s.training.ListAnswers(question.ID)
	if err != nil {
		return nil, err
	}

	view.Kind = ViewQuestion
	view.Question = &question
	view.Choices = choices
	return view, nil
}

// Submit records a training answer and computes the next page. Training
// runs never touch hearts on wrong answers.
func (s *TrainingService) Submit(ctx context.Context, userID int64, trainingID string, page int, value string) (*SubmitOutcome, error) {
	unlock := s.locks.Lock(lockKey(userID, session.ScopeTraining, trainingID))
	defer unlock()

	module, err := s.training.GetModule(trainingID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, ErrTrainingNotFound
	}

	questions, err := s.training.ListQuestions(trainingID)
	if err != nil {
		return nil, err
	}

	loc := content.Locate(0, len(questions), page)
	if loc.Kind != content.PageQuestion {
		return &SubmitOutcome{NextPage: 1}, nil
	}

	if value != "" {
		question := questions[loc.Index]
		answersKey := session.AnswersKey(userID, session.ScopeTraining, trainingID)

		answered, err := s.store.Answers(ctx, answersKey)
		if err != nil {
			return nil, err
		}
		if _, already := answered[question.ID]; !already {
			choices, err := s.training.ListAnswers(question.ID)
			if err != nil {
				return nil, err
			}
			_, recorded := evaluate.Evaluate(trainingChoices(choices), value)
			if err := s.store.SetAnswer(ctx, answersKey, question.ID, recorded); err != nil {
				return nil, err
			}
		}
	}

	if page >= len(questions) {
		return &SubmitOutcome{Completed: true}, nil
	}
	return &SubmitOutcome{NextPage: page + 1}, nil
}

// Result finalizes a training run. The first read grants a heart (if
// the learner is below the cap) and upserts the completion record; a
// reload of the result page changes nothing.
func (s *TrainingService) Result(ctx context.Context, userID int64, trainingID string) (*TrainingResult, error) {
	unlock := s.locks.Lock(lockKey(userID, session.ScopeTraining, trainingID))
	defer unlock()

	module, err := s.training.GetModule(trainingID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, ErrTrainingNotFound
	}

	questions, err := s.training.ListQuestions(trainingID)
	if err != nil {
		return nil, err
	}
	answered, err := s.store.Answers(ctx, session.AnswersKey(userID, session.ScopeTraining, trainingID))
	if err != nil {
		return nil, err
	}

	correctCount := 0
	for _, q := range questions {
		submitted, ok := answered[q.ID]
		if !ok {
			continue
		}
		choices, err := s.training.ListAnswers(q.ID)
		if err != nil {
			return nil, err
		}
		if correct, _ := evaluate.Evaluate(trainingChoices(choices), submitted); correct {
			correctCount++
		}
	}

	accuracy := 0
	if len(questions) > 0 {
		accuracy = int(math.Round(float64(correctCount) * 100 / float64(len(questions))))
	}

	now := s.clock()
	finalKey := session.FinalKey(userID, session.ScopeTraining, trainingID)
	_, alreadyFinal, err := s.store.Value(ctx, finalKey)
	if err != nil {
		return nil, err
	}

	elapsed, err := frozenElapsedSeconds(ctx, s.store, userID, session.ScopeTraining, trainingID, now)
	if err != nil {
		return nil, err
	}

	heartEarned := false
	if alreadyFinal {
		// Reload of an already finalized run: report what happened then.
		progress, err := s.training.GetProgress(userID, trainingID)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			heartEarned = progress.EarnedHeart
		}
	} else {
		heartEarned, err = s.finalize(userID, trainingID, now)
		if err != nil {
			return nil, err
		}
	}

	return &TrainingResult{
		Module:           *module,
		CorrectCount:     correctCount,
		TotalQuestions:   len(questions),
		Accuracy:         accuracy,
		HeartEarned:      heartEarned,
		TimeSpentSeconds: elapsed,
	}, nil
}

// End clears the training run's session state
func (s *TrainingService) End(ctx context.Context, userID int64, trainingID string) error {
	return s.store.Delete(ctx,
		session.AnswersKey(userID, session.ScopeTraining, trainingID),
		session.StartKey(userID, session.ScopeTraining, trainingID),
		session.FinalKey(userID, session.ScopeTraining, trainingID),
	)
}

// finalize grants the completion heart and upserts the progress record
// in one transaction
func (s *TrainingService) finalize(userID int64, trainingID string, now time.Time) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	profileRepo := repository.NewProfileRepository(tx)
	profile, err := profileRepo.Get(userID)
	if err != nil {
		return false, err
	}
	if profile == nil {
		if profile, err = profileRepo.Create(userID); err != nil {
			return false, err
		}
	}

	granted := hearts.Grant(profile)
	if granted {
		if err := profileRepo.Save(profile); err != nil {
			return false, err
		}
	}

	trainingRepo := repository.NewTrainingRepository(tx)
	prior, err := trainingRepo.GetProgress(userID, trainingID)
	if err != nil {
		return false, err
	}

	completedAt := now
	record := &models.TrainingProgress{
		UserID:      userID,
		TrainingID:  trainingID,
		Completed:   true,
		CompletedAt: &completedAt,
		EarnedHeart: granted,
	}
	if prior == nil {
		err = trainingRepo.CreateProgress(record)
	} else {
		err = trainingRepo.UpdateProgress(record)
	}
	if err != nil {
		return false, err
	}

	return granted, tx.Commit()
}

// trainingChoices adapts stored training answers to the evaluator's input
func trainingChoices(answers []models.TrainingAnswer) []evaluate.Choice {
	choices := make([]evaluate.Choice, len(answers))
	for i, a := range answers {
		choices[i] = evaluate.Choice{ID: a.ID, Text: a.Text, Correct: a.IsCorrect}
	}
	return choices
}
