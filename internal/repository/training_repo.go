package repository

import (
	"database/sql"
	"fmt"

	"codelingo/internal/database"
	"codelingo/internal/models"

	"github.com/google/uuid"
)

// TrainingRepository handles database operations for training modules
// and their progress records
type TrainingRepository struct {
	db database.DBTX
}

// NewTrainingRepository creates a new training repository
func NewTrainingRepository(db database.DBTX) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// ListModules retrieves all training modules ordered by title
func (r *TrainingRepository) ListModules() ([]models.TrainingModule, error) {
	query := "SELECT id, title FROM training_modules ORDER BY title ASC"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query training modules: %w", err)
	}
	defer rows.Close()

	var modules []models.TrainingModule
	for rows.Next() {
		var m models.TrainingModule
		if err := rows.Scan(&m.ID, &m.Title); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GetModule retrieves a training module by ID, or (nil, nil) if not found
func (r *TrainingRepository) GetModule(trainingID string) (*models.TrainingModule, error) {
	query := "SELECT id, title FROM training_modules WHERE id = ?"

	m := &models.TrainingModule{}
	err := r.db.QueryRow(query, trainingID).Scan(&m.ID, &m.Title)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training module: %w", err)
	}
	return m, nil
}

// ListQuestions retrieves a training module's questions in storage order
func (r *TrainingRepository) ListQuestions(trainingID string) ([]models.TrainingQuestion, error) {
	query := `
		SELECT id, training_id, text, question_type, position
		FROM training_questions
		WHERE training_id = ?
		ORDER BY position ASC, id ASC
	`

	rows, err := r.db.Query(query, trainingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query training questions: %w", err)
	}
	defer rows.Close()

	var questions []models.TrainingQuestion
	for rows.Next() {
		var q models.TrainingQuestion
		if err := rows.Scan(&q.ID, &q.TrainingID, &q.Text, &q.Kind, &q.Position); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListAnswers retrieves a training question's answers
func (r *TrainingRepository) ListAnswers(questionID string) ([]models.TrainingAnswer, error) {
	query := "SELECT id, question_id, text, is_correct FROM training_answers WHERE question_id = ?"

	rows, err := r.db.Query(query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query training answers: %w", err)
	}
	defer rows.Close()

	var answers []models.TrainingAnswer
	for rows.Next() {
		var a models.TrainingAnswer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// GetProgress retrieves the progress record for (user, training), or
// (nil, nil) if the user has never completed the module
func (r *TrainingRepository) GetProgress(userID int64, trainingID string) (*models.TrainingProgress, error) {
	query := `
		SELECT user_id, training_id, completed, completed_at, earned_heart
		FROM training_progress
		WHERE user_id = ? AND training_id = ?
	`

	progress := &models.TrainingProgress{}
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, userID, trainingID).Scan(
		&progress.UserID,
		&progress.TrainingID,
		&progress.Completed,
		&completedAt,
		&progress.EarnedHeart,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training progress: %w", err)
	}

	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	return progress, nil
}

// CreateProgress inserts a new training progress record
func (r *TrainingRepository) CreateProgress(progress *models.TrainingProgress) error {
	query := `
		INSERT INTO training_progress (user_id, training_id, completed, completed_at, earned_heart)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		progress.UserID,
		progress.TrainingID,
		progress.Completed,
		nullableTime(progress.CompletedAt),
		progress.EarnedHeart,
	)
	if err != nil {
		return fmt.Errorf("failed to create training progress: %w", err)
	}
	return nil
}

// UpdateProgress overwrites an existing training progress record
func (r *TrainingRepository) UpdateProgress(progress *models.TrainingProgress) error {
	query := `
		UPDATE training_progress
		SET completed = ?, completed_at = ?, earned_heart = ?
		WHERE user_id = ? AND training_id = ?
	`
	_, err := r.db.Exec(query,
		progress.Completed,
		nullableTime(progress.CompletedAt),
		progress.EarnedHeart,
		progress.UserID,
		progress.TrainingID,
	)
	if err != nil {
		return fmt.Errorf("failed to update training progress: %w", err)
	}
	return nil
}

// CompletedTrainingIDs returns the IDs of modules the user has completed
func (r *TrainingRepository) CompletedTrainingIDs(userID int64) ([]string, error) {
	query := "SELECT training_id FROM training_progress WHERE user_id = ? AND completed = ?"

	rows, err := r.db.Query(query, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed trainings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountModules returns the number of training modules in the database
func (r *TrainingRepository) CountModules() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM training_modules").Scan(&count)
	return count, err
}

// CreateModule inserts a training module with a generated ID
func (r *TrainingRepository) CreateModule(title string) (*models.TrainingModule, error) {
	m := &models.TrainingModule{ID: uuid.NewString(), Title: title}
	query := "INSERT INTO training_modules (id, title) VALUES (?, ?)"
	if _, err := r.db.Exec(query, m.ID, m.Title); err != nil {
		return nil, fmt.Errorf("failed to create training module: %w", err)
	}
	return m, nil
}

// CreateQuestion inserts a question for a training module
func (r *TrainingRepository) CreateQuestion(trainingID, text string, kind models.QuestionKind, position int) (*models.TrainingQuestion, error) {
	q := &models.TrainingQuestion{ID: uuid.NewString(), TrainingID: trainingID, Text: text, Kind: kind, Position: position}
	query := "INSERT INTO training_questions (id, training_id, text, question_type, position) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, q.ID, q.TrainingID, q.Text, string(q.Kind), q.Position); err != nil {
		return nil, fmt.Errorf("failed to create training question: %w", err)
	}
	return q, nil
}

// CreateAnswer inserts an answer for a training question
func (r *TrainingRepository) CreateAnswer(questionID, text string, isCorrect bool) (*models.TrainingAnswer, error) {
	a := &models.TrainingAnswer{ID: uuid.NewString(), QuestionID: questionID, Text: text, IsCorrect: isCorrect}
	query := "INSERT INTO training_answers (id, question_id, text, is_correct) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, a.ID, a.QuestionID, a.Text, a.IsCorrect); err != nil {
		return nil, fmt.Errorf("failed to create training answer: %w", err)
	}
	return a, nil
}
