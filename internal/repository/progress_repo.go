package repository

import (
	"database/sql"
	"fmt"
	"time"

	"codelingo/internal/database"
	"codelingo/internal/models"
)

// ProgressRepository handles database operations for lesson progress
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new lesson progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get retrieves the progress record for (user, lesson), or (nil, nil)
// if the user has never completed the lesson
func (r *ProgressRepository) Get(userID int64, lessonID string) (*models.LessonProgress, error) {
	query := `
		SELECT user_id, lesson_id, completed, completed_at, points
		FROM lesson_progress
		WHERE user_id = ? AND lesson_id = ?
	`

	progress := &models.LessonProgress{}
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, userID, lessonID).Scan(
		&progress.UserID,
		&progress.LessonID,
		&progress.Completed,
		&completedAt,
		&progress.Points,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}

	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	return progress, nil
}

// Create inserts a new progress record
func (r *ProgressRepository) Create(progress *models.LessonProgress) error {
	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, completed, completed_at, points)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		progress.UserID,
		progress.LessonID,
		progress.Completed,
		nullableTime(progress.CompletedAt),
		progress.Points,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson progress: %w", err)
	}
	return nil
}

// Update overwrites an existing progress record
func (r *ProgressRepository) Update(progress *models.LessonProgress) error {
	query := `
		UPDATE lesson_progress
		SET completed = ?, completed_at = ?, points = ?
		WHERE user_id = ? AND lesson_id = ?
	`
	_, err := r.db.Exec(query,
		progress.Completed,
		nullableTime(progress.CompletedAt),
		progress.Points,
		progress.UserID,
		progress.LessonID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson progress: %w", err)
	}
	return nil
}

// CompletedLessonIDs returns the IDs of lessons the user has completed
func (r *ProgressRepository) CompletedLessonIDs(userID int64) ([]string, error) {
	query := "SELECT lesson_id FROM lesson_progress WHERE user_id = ? AND completed = ?"

	rows, err := r.db.Query(query, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
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

// nullableTime converts a *time.Time into a driver-friendly value
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
