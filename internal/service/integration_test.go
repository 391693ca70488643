package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"codelingo/internal/database"
	"codelingo/internal/hearts"
	"codelingo/internal/models"
	"codelingo/internal/repository"
	"codelingo/internal/session"
)

// testEnv wires the full service stack against a throwaway SQLite
// database and a controllable clock
type testEnv struct {
	db       *database.DB
	store    *session.MemoryStore
	profiles *ProfileService
	auth     *AuthService
	lessons  *LessonService
	training *TrainingService
	shop     *ShopService
	chall    *ChallengeService

	lessonRepo   *repository.LessonRepository
	trainingRepo *repository.TrainingRepository
	progressRepo *repository.ProgressRepository
	profileRepo  *repository.ProfileRepository

	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	env := &testEnv{
		db:           db,
		store:        session.NewMemoryStore(),
		lessonRepo:   repository.NewLessonRepository(db),
		trainingRepo: repository.NewTrainingRepository(db),
		progressRepo: repository.NewProgressRepository(db),
		profileRepo:  repository.NewProfileRepository(db),
		now:          time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	env.profiles = NewProfileService(env.profileRepo)
	env.profiles.clock = clock

	env.auth = NewAuthService(repository.NewUserRepository(db), env.profiles, "test-secret", time.Hour)

	env.chall = NewChallengeService(db, DefaultChallengeCatalog)
	env.chall.clock = clock

	env.lessons = NewLessonService(db, env.lessonRepo, env.progressRepo, env.profiles, env.chall, env.store)
	env.lessons.clock = clock

	env.training = NewTrainingService(db, env.trainingRepo, env.profiles, env.store)
	env.training.clock = clock

	env.shop = NewShopService(env.profiles)
	env.shop.clock = clock

	return env
}

func (env *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := env.auth.Register(email, "password123", "Test Learner")
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}
	return user
}

// seedLesson creates a lesson with 2 theory pages and 3 selection
// questions and returns it with the correct answer ID per question
func (env *testEnv) seedLesson(t *testing.T, title string) (*models.Lesson, []models.Question, map[string]string, map[string]string) {
	t.Helper()

	lesson, err := env.lessonRepo.CreateLesson(title, 1)
	if err != nil {
		t.Fatalf("Failed to create lesson: %v", err)
	}
	for i, text := range []string{"First theory page", "Second theory page"} {
		if _, err := env.lessonRepo.CreateTheoryPage(lesson.ID, i+1, text); err != nil {
			t.Fatalf("Failed to create theory page: %v", err)
		}
	}

	correct := make(map[string]string)
	wrong := make(map[string]string)
	for i := 1; i <= 3; i++ {
		q, err := env.lessonRepo.CreateQuestion(lesson.ID, "Question", models.KindSelection, i)
		if err != nil {
			t.Fatalf("Failed to create question: %v", err)
		}
		right, err := env.lessonRepo.CreateAnswer(q.ID, "Right", true)
		if err != nil {
			t.Fatalf("Failed to create answer: %v", err)
		}
		bad, err := env.lessonRepo.CreateAnswer(q.ID, "Wrong", false)
		if err != nil {
			t.Fatalf("Failed to create answer: %v", err)
		}
		correct[q.ID] = right.ID
		wrong[q.ID] = bad.ID
	}

	questions, err := env.lessonRepo.ListQuestions(lesson.ID)
	if err != nil {
		t.Fatalf("Failed to list questions: %v", err)
	}
	return lesson, questions, correct, wrong
}

func (env *testEnv) setProfile(t *testing.T, userID int64, mutate func(*models.Profile)) {
	t.Helper()
	profile, err := env.profiles.Ensure(userID)
	if err != nil {
		t.Fatalf("Failed to ensure profile: %v", err)
	}
	mutate(profile)
	if err := env.profiles.Save(profile); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}
}

func TestLessonPageProgression(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "pages@example.com")
	lesson, questions, _, _ := env.seedLesson(t, "Variables")

	// Pages 1-2 are theory, 3-5 are questions.
	view, err := env.lessons.Page(ctx, user.ID, lesson.ID, 1)
	if err != nil {
		t.Fatalf("Page(1) failed: %v", err)
	}
	if view.Kind != ViewTheory {
		t.Errorf("Page(1) kind = %v, want theory", view.Kind)
	}
	if view.TotalPages != 5 {
		t.Errorf("TotalPages = %d, want 5", view.TotalPages)
	}

	view, err = env.lessons.Page(ctx, user.ID, lesson.ID, 3)
	if err != nil {
		t.Fatalf("Page(3) failed: %v", err)
	}
	if view.Kind != ViewQuestion {
		t.Errorf("Page(3) kind = %v, want question", view.Kind)
	}
	if view.Question.ID != questions[0].ID {
		t.Errorf("Page(3) question = %s, want %s", view.Question.ID, questions[0].ID)
	}
	if view.QuestionNumber != 1 {
		t.Errorf("QuestionNumber = %d, want 1", view.QuestionNumber)
	}
	if view.Hearts != hearts.Max {
		t.Errorf("Hearts = %d, want %d", view.Hearts, hearts.Max)
	}

	// Out-of-range pages recover by redirecting to page 1.
	for _, page := range []int{6, 0, -3} {
		view, err = env.lessons.Page(ctx, user.ID, lesson.ID, page)
		if err != nil {
			t.Fatalf("Page(%d) failed: %v", page, err)
		}
		if view.Kind != ViewRedirect || view.RedirectPage != 1 {
			t.Errorf("Page(%d) = kind %v redirect %d, want redirect to 1", page, view.Kind, view.RedirectPage)
		}
	}

	if _, err := env.lessons.Page(ctx, user.ID, "missing", 1); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("Page on missing lesson error = %v, want ErrLessonNotFound", err)
	}
}

func TestLessonPerfectRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "perfect@example.com")
	lesson, questions, correct, _ := env.seedLesson(t, "Loops")

	// Visit page 1 to start the timer, then answer everything right.
	if _, err := env.lessons.Page(ctx, user.ID, lesson.ID, 1); err != nil {
		t.Fatalf("Page(1) failed: %v", err)
	}
	env.now = env.now.Add(90 * time.Second)

	for i, q := range questions {
		outcome, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 3+i, correct[q.ID])
		if err != nil {
			t.Fatalf("Submit question %d failed: %v", i+1, err)
		}
		if i < len(questions)-1 {
			if outcome.Completed || outcome.NextPage != 3+i+1 {
				t.Errorf("Submit question %d outcome = %+v, want next page %d", i+1, outcome, 3+i+1)
			}
		} else if !outcome.Completed {
			t.Errorf("Final submit should complete the lesson, got %+v", outcome)
		}
	}

	result, err := env.lessons.Result(ctx, user.ID, lesson.ID)
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if result.CorrectCount != 3 || result.TotalQuestions != 3 {
		t.Errorf("Counts = %d/%d, want 3/3", result.CorrectCount, result.TotalQuestions)
	}
	if result.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100", result.Accuracy)
	}
	if result.Points != 10 {
		t.Errorf("Points = %d, want 10", result.Points)
	}
	if result.TimeSpentSeconds != 90 {
		t.Errorf("TimeSpentSeconds = %d, want 90", result.TimeSpentSeconds)
	}

	profile, err := env.profiles.Ensure(user.ID)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if profile.TotalPoints != 10 {
		t.Errorf("TotalPoints = %d, want 10", profile.TotalPoints)
	}
	if profile.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", profile.CurrentStreak)
	}
	if profile.Hearts != hearts.Max {
		t.Errorf("Hearts = %d, want %d", profile.Hearts, hearts.Max)
	}

	progress, err := env.progressRepo.Get(user.ID, lesson.ID)
	if err != nil {
		t.Fatalf("Failed to load progress: %v", err)
	}
	if progress == nil || !progress.Completed || progress.Points != 10 {
		t.Errorf("Progress = %+v, want completed with 10 points", progress)
	}

	// Reloading the result page must not change totals or drift the time.
	env.now = env.now.Add(time.Hour)
	again, err := env.lessons.Result(ctx, user.ID, lesson.ID)
	if err != nil {
		t.Fatalf("Second Result failed: %v", err)
	}
	if again.TimeSpentSeconds != 90 {
		t.Errorf("Reloaded TimeSpentSeconds = %d, want 90", again.TimeSpentSeconds)
	}
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.TotalPoints != 10 {
		t.Errorf("TotalPoints after reload = %d, want 10", profile.TotalPoints)
	}

	// A completed lesson cannot be re-entered.
	view, err := env.lessons.Page(ctx, user.ID, lesson.ID, 1)
	if err != nil {
		t.Fatalf("Page after completion failed: %v", err)
	}
	if view.Kind != ViewCompleted {
		t.Errorf("Page after completion kind = %v, want completed", view.Kind)
	}
	outcome, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 3, correct[questions[0].ID])
	if err != nil {
		t.Fatalf("Submit after completion failed: %v", err)
	}
	if !outcome.AlreadyCompleted {
		t.Errorf("Submit after completion = %+v, want AlreadyCompleted", outcome)
	}

	if err := env.lessons.End(ctx, user.ID, lesson.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	answers, _ := env.store.Answers(ctx, session.AnswersKey(user.ID, session.ScopeLesson, lesson.ID))
	if len(answers) != 0 {
		t.Errorf("Answers after End = %v, want empty", answers)
	}
}

func TestWrongAnswersAndHearts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "hearts@example.com")
	lesson, questions, correct, wrong := env.seedLesson(t, "Conditionals")

	env.setProfile(t, user.ID, func(p *models.Profile) { p.Hearts = 1 })

	// First wrong answer costs the last heart.
	if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 3, wrong[questions[0].ID]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	profile, _ := env.profiles.Ensure(user.ID)
	if profile.Hearts != 0 {
		t.Errorf("Hearts after wrong answer = %d, want 0", profile.Hearts)
	}

	// Re-submitting the same question is ignored entirely.
	env.setProfile(t, user.ID, func(p *models.Profile) { p.Hearts = 3 })
	if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 3, wrong[questions[0].ID]); err != nil {
		t.Fatalf("Duplicate submit failed: %v", err)
	}
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.Hearts != 3 {
		t.Errorf("Hearts after duplicate submit = %d, want 3", profile.Hearts)
	}

	// At zero hearts a wrong answer is still recorded but hearts stay 0.
	env.setProfile(t, user.ID, func(p *models.Profile) { p.Hearts = 0 })
	if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 4, wrong[questions[1].ID]); err != nil {
		t.Fatalf("Submit at zero hearts failed: %v", err)
	}
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.Hearts != 0 {
		t.Errorf("Hearts after wrong answer at zero = %d, want 0", profile.Hearts)
	}
	answers, _ := env.store.Answers(ctx, session.AnswersKey(user.ID, session.ScopeLesson, lesson.ID))
	if _, ok := answers[questions[1].ID]; !ok {
		t.Error("Wrong answer at zero hearts was not recorded")
	}

	// Mixed result: 1 of 3 correct rounds to 33%, second band.
	if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 5, correct[questions[2].ID]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	result, err := env.lessons.Result(ctx, user.ID, lesson.ID)
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if result.Accuracy != 33 {
		t.Errorf("Accuracy = %d, want 33", result.Accuracy)
	}
	if result.Points != 6 {
		t.Errorf("Points = %d, want 6", result.Points)
	}
}

func TestCheckAnswer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "check@example.com")
	lesson, questions, correct, wrong := env.seedLesson(t, "Functions")

	check, err := env.lessons.CheckAnswer(ctx, user.ID, lesson.ID, questions[0].ID, correct[questions[0].ID])
	if err != nil {
		t.Fatalf("CheckAnswer failed: %v", err)
	}
	if !check.Correct || check.Hearts != hearts.Max {
		t.Errorf("CheckAnswer = %+v, want correct with full hearts", check)
	}

	check, err = env.lessons.CheckAnswer(ctx, user.ID, lesson.ID, questions[1].ID, wrong[questions[1].ID])
	if err != nil {
		t.Fatalf("CheckAnswer failed: %v", err)
	}
	if check.Correct || check.Hearts != hearts.Max-1 {
		t.Errorf("CheckAnswer = %+v, want wrong with %d hearts", check, hearts.Max-1)
	}

	// The page submit after an immediate check must not evaluate again.
	if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 4, wrong[questions[1].ID]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	profile, _ := env.profiles.Ensure(user.ID)
	if profile.Hearts != hearts.Max-1 {
		t.Errorf("Hearts after follow-up submit = %d, want %d", profile.Hearts, hearts.Max-1)
	}

	if _, err := env.lessons.CheckAnswer(ctx, user.ID, lesson.ID, questions[2].ID, ""); !errors.Is(err, ErrMissingAnswer) {
		t.Errorf("CheckAnswer with empty value error = %v, want ErrMissingAnswer", err)
	}
	if _, err := env.lessons.CheckAnswer(ctx, user.ID, lesson.ID, questions[2].ID, "not-an-answer"); !errors.Is(err, ErrAnswerNotFound) {
		t.Errorf("CheckAnswer with bogus answer error = %v, want ErrAnswerNotFound", err)
	}
}

func TestTypeInAnswerMatching(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "typein@example.com")

	lesson, err := env.lessonRepo.CreateLesson("Capitals", 1)
	if err != nil {
		t.Fatalf("Failed to create lesson: %v", err)
	}
	q, err := env.lessonRepo.CreateQuestion(lesson.ID, "Capital of France?", models.KindTypeIn, 1)
	if err != nil {
		t.Fatalf("Failed to create question: %v", err)
	}
	if _, err := env.lessonRepo.CreateAnswer(q.ID, "Paris", true); err != nil {
		t.Fatalf("Failed to create answer: %v", err)
	}

	// Free text matches case-insensitively with surrounding whitespace ignored.
	if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 1, "  paris "); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	result, err := env.lessons.Result(ctx, user.ID, lesson.ID)
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if result.CorrectCount != 1 || result.Accuracy != 100 {
		t.Errorf("Result = %d correct, accuracy %d; want 1 and 100", result.CorrectCount, result.Accuracy)
	}
}

func TestDailyChallengeFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "challenges@example.com")
	lesson, questions, correct, _ := env.seedLesson(t, "Slices")

	statuses, err := env.chall.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(statuses) != len(DefaultChallengeCatalog) {
		t.Fatalf("Challenge count = %d, want %d", len(statuses), len(DefaultChallengeCatalog))
	}

	// A second list call must not mint duplicate challenges.
	statuses, err = env.chall.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("Second ListForUser failed: %v", err)
	}
	if len(statuses) != len(DefaultChallengeCatalog) {
		t.Fatalf("Challenge count after relist = %d, want %d", len(statuses), len(DefaultChallengeCatalog))
	}

	// A perfect lesson run completes the perfect challenge and advances
	// the points and lessons trackers.
	for i, q := range questions {
		if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 3+i, correct[q.ID]); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	if _, err := env.lessons.Result(ctx, user.ID, lesson.ID); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	statuses, err = env.chall.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser after lesson failed: %v", err)
	}

	var perfect, points, lessons *ChallengeStatus
	for i := range statuses {
		switch statuses[i].Challenge.ChallengeType {
		case models.ChallengePerfect:
			perfect = &statuses[i]
		case models.ChallengePoints:
			points = &statuses[i]
		case models.ChallengeLessons:
			lessons = &statuses[i]
		}
	}
	if perfect == nil || !perfect.Progress.Completed {
		t.Fatalf("Perfect challenge = %+v, want completed", perfect)
	}
	if points == nil || points.Progress.Progress != 10 {
		t.Errorf("Points challenge progress = %+v, want 10", points)
	}
	if lessons == nil || lessons.Progress.Progress != 1 {
		t.Errorf("Lessons challenge progress = %+v, want 1", lessons)
	}

	// Completion alone pays nothing; redeeming credits the reward once.
	profile, _ := env.profiles.Ensure(user.ID)
	if profile.Coins != 0 {
		t.Errorf("Coins before redeem = %d, want 0", profile.Coins)
	}

	coins, err := env.chall.Redeem(user.ID, perfect.Progress.ID)
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if coins != perfect.Challenge.RewardCoins {
		t.Errorf("Coins after redeem = %d, want %d", coins, perfect.Challenge.RewardCoins)
	}

	if _, err := env.chall.Redeem(user.ID, perfect.Progress.ID); !errors.Is(err, ErrNotRedeemable) {
		t.Errorf("Second redeem error = %v, want ErrNotRedeemable", err)
	}
	if points.Progress.Completed {
		t.Fatal("Points challenge unexpectedly completed")
	}
	if _, err := env.chall.Redeem(user.ID, points.Progress.ID); !errors.Is(err, ErrNotRedeemable) {
		t.Errorf("Redeeming incomplete challenge error = %v, want ErrNotRedeemable", err)
	}
	if _, err := env.chall.Redeem(user.ID, 99999); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("Redeeming unknown progress error = %v, want ErrChallengeNotFound", err)
	}
}

func TestTrainingRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "training@example.com")

	module, err := env.trainingRepo.CreateModule("Logic Drills")
	if err != nil {
		t.Fatalf("Failed to create module: %v", err)
	}
	answers := make(map[string]string)
	for i := 1; i <= 2; i++ {
		q, err := env.trainingRepo.CreateQuestion(module.ID, "Question", models.KindSelection, i)
		if err != nil {
			t.Fatalf("Failed to create question: %v", err)
		}
		right, err := env.trainingRepo.CreateAnswer(q.ID, "Right", true)
		if err != nil {
			t.Fatalf("Failed to create answer: %v", err)
		}
		if _, err := env.trainingRepo.CreateAnswer(q.ID, "Wrong", false); err != nil {
			t.Fatalf("Failed to create answer: %v", err)
		}
		answers[q.ID] = right.ID
	}
	questions, err := env.trainingRepo.ListQuestions(module.ID)
	if err != nil {
		t.Fatalf("Failed to list questions: %v", err)
	}

	env.setProfile(t, user.ID, func(p *models.Profile) { p.Hearts = 3 })

	view, err := env.training.Page(ctx, user.ID, module.ID, 1)
	if err != nil {
		t.Fatalf("Page(1) failed: %v", err)
	}
	if view.Kind != ViewQuestion || view.TotalPages != 2 {
		t.Errorf("Page(1) = %+v, want question view with 2 pages", view)
	}

	for i, q := range questions {
		if _, err := env.training.Submit(ctx, user.ID, module.ID, i+1, answers[q.ID]); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	result, err := env.training.Result(ctx, user.ID, module.ID)
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if !result.HeartEarned {
		t.Error("First completion should grant a heart")
	}
	profile, _ := env.profiles.Ensure(user.ID)
	if profile.Hearts != 4 {
		t.Errorf("Hearts after training = %d, want 4", profile.Hearts)
	}

	// Reloading the result grants nothing extra.
	result, err = env.training.Result(ctx, user.ID, module.ID)
	if err != nil {
		t.Fatalf("Result reload failed: %v", err)
	}
	if !result.HeartEarned {
		t.Error("Reload should still report the earned heart")
	}
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.Hearts != 4 {
		t.Errorf("Hearts after result reload = %d, want 4", profile.Hearts)
	}

	// Replay: visiting page 1 after finishing resets the run, and a
	// second completion can earn another heart.
	if _, err := env.training.Page(ctx, user.ID, module.ID, 1); err != nil {
		t.Fatalf("Replay Page(1) failed: %v", err)
	}
	stored, _ := env.store.Answers(ctx, session.AnswersKey(user.ID, session.ScopeTraining, module.ID))
	if len(stored) != 0 {
		t.Errorf("Answers after replay reset = %v, want empty", stored)
	}
	for i, q := range questions {
		if _, err := env.training.Submit(ctx, user.ID, module.ID, i+1, answers[q.ID]); err != nil {
			t.Fatalf("Replay submit failed: %v", err)
		}
	}
	result, err = env.training.Result(ctx, user.ID, module.ID)
	if err != nil {
		t.Fatalf("Replay result failed: %v", err)
	}
	if !result.HeartEarned {
		t.Error("Replay completion should grant a heart below the cap")
	}
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.Hearts != 5 {
		t.Errorf("Hearts after replay = %d, want 5", profile.Hearts)
	}
}

func TestShopBuyHearts(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "shop@example.com")

	// Full hearts: nothing to buy.
	if _, err := env.shop.BuyHearts(user.ID); !errors.Is(err, ErrHeartsFull) {
		t.Errorf("BuyHearts at full error = %v, want ErrHeartsFull", err)
	}

	env.setProfile(t, user.ID, func(p *models.Profile) { p.Hearts = 2; p.Coins = 5 })
	if _, err := env.shop.BuyHearts(user.ID); !errors.Is(err, ErrNotEnoughCoins) {
		t.Errorf("BuyHearts without coins error = %v, want ErrNotEnoughCoins", err)
	}

	env.setProfile(t, user.ID, func(p *models.Profile) { p.Coins = 15 })
	profile, err := env.shop.BuyHearts(user.ID)
	if err != nil {
		t.Fatalf("BuyHearts failed: %v", err)
	}
	if profile.Hearts != hearts.Max {
		t.Errorf("Hearts after purchase = %d, want %d", profile.Hearts, hearts.Max)
	}
	if profile.Coins != 15-HeartRefillCost {
		t.Errorf("Coins after purchase = %d, want %d", profile.Coins, 15-HeartRefillCost)
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register("learner@example.com", "password123", "Learner")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Registration creates the learner profile with full hearts.
	profile, err := env.profileRepo.Get(user.ID)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if profile == nil || profile.Hearts != hearts.Max {
		t.Errorf("Profile = %+v, want full hearts", profile)
	}

	if _, err := env.auth.Register("learner@example.com", "password123", "Other"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Duplicate register error = %v, want ErrEmailTaken", err)
	}

	token, loggedIn, err := env.auth.Login("Learner@Example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" || loggedIn.ID != user.ID {
		t.Errorf("Login = token %q user %d, want non-empty token for user %d", token, loggedIn.ID, user.ID)
	}

	if _, _, err := env.auth.Login("learner@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := env.auth.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "streak@example.com")

	complete := func(title string) {
		t.Helper()
		lesson, questions, correct, _ := env.seedLesson(t, title)
		for i, q := range questions {
			if _, err := env.lessons.Submit(ctx, user.ID, lesson.ID, 3+i, correct[q.ID]); err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
		}
		if _, err := env.lessons.Result(ctx, user.ID, lesson.ID); err != nil {
			t.Fatalf("Result failed: %v", err)
		}
	}

	complete("Day one")
	profile, _ := env.profiles.Ensure(user.ID)
	if profile.CurrentStreak != 1 {
		t.Errorf("Streak after day one = %d, want 1", profile.CurrentStreak)
	}

	env.now = env.now.AddDate(0, 0, 1)
	complete("Day two")
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.CurrentStreak != 2 {
		t.Errorf("Streak after day two = %d, want 2", profile.CurrentStreak)
	}

	// Same day again: streak holds.
	complete("Day two again")
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.CurrentStreak != 2 {
		t.Errorf("Streak after same-day lesson = %d, want 2", profile.CurrentStreak)
	}

	// Skipping a day resets.
	env.now = env.now.AddDate(0, 0, 3)
	complete("After the gap")
	profile, _ = env.profiles.Ensure(user.ID)
	if profile.CurrentStreak != 1 {
		t.Errorf("Streak after gap = %d, want 1", profile.CurrentStreak)
	}
}
