package repository

import (
	"database/sql"
	"fmt"

	"codelingo/internal/database"
	"codelingo/internal/models"

	"github.com/google/uuid"
)

// LessonRepository handles database operations for lesson content
type LessonRepository struct {
	db database.DBTX
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db database.DBTX) *LessonRepository {
	return &LessonRepository{db: db}
}

// ListLessons retrieves all lessons ordered by rank
func (r *LessonRepository) ListLessons() ([]models.Lesson, error) {
	query := "SELECT id, title, position FROM lessons ORDER BY position ASC, title ASC"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.Title, &lesson.Rank); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// GetLesson retrieves a lesson by ID, or (nil, nil) if not found
func (r *LessonRepository) GetLesson(lessonID string) (*models.Lesson, error) {
	query := "SELECT id, title, position FROM lessons WHERE id = ?"

	lesson := &models.Lesson{}
	err := r.db.QueryRow(query, lessonID).Scan(&lesson.ID, &lesson.Title, &lesson.Rank)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return lesson, nil
}

// ListTheoryPages retrieves a lesson's theory pages ordered by rank
func (r *LessonRepository) ListTheoryPages(lessonID string) ([]models.TheoryPage, error) {
	query := "SELECT id, lesson_id, position, content FROM theory_pages WHERE lesson_id = ? ORDER BY position ASC"

	rows, err := r.db.Query(query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query theory pages: %w", err)
	}
	defer rows.Close()

	var pages []models.TheoryPage
	for rows.Next() {
		var page models.TheoryPage
		if err := rows.Scan(&page.ID, &page.LessonID, &page.Rank, &page.Content); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// ListQuestions retrieves a lesson's questions in storage order
func (r *LessonRepository) ListQuestions(lessonID string) ([]models.Question, error) {
	query := `
		SELECT id, lesson_id, text, question_type, position
		FROM questions
		WHERE lesson_id = ?
		ORDER BY position ASC, id ASC
	`

	rows, err := r.db.Query(query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.LessonID, &q.Text, &q.Kind, &q.Position); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion retrieves a question by ID, or (nil, nil) if not found
func (r *LessonRepository) GetQuestion(questionID string) (*models.Question, error) {
	query := "SELECT id, lesson_id, text, question_type, position FROM questions WHERE id = ?"

	q := &models.Question{}
	err := r.db.QueryRow(query, questionID).Scan(&q.ID, &q.LessonID, &q.Text, &q.Kind, &q.Position)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListAnswers retrieves a question's answers
func (r *LessonRepository) ListAnswers(questionID string) ([]models.Answer, error) {
	query := "SELECT id, question_id, text, is_correct FROM answers WHERE question_id = ?"

	rows, err := r.db.Query(query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// CountLessons returns the number of lessons in the database
func (r *LessonRepository) CountLessons() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM lessons").Scan(&count)
	return count, err
}

// CreateLesson inserts a lesson and returns it with a generated ID
func (r *LessonRepository) CreateLesson(title string, rank int) (*models.Lesson, error) {
	lesson := &models.Lesson{ID: uuid.NewString(), Title: title, Rank: rank}
	query := "INSERT INTO lessons (id, title, position) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, lesson.ID, lesson.Title, lesson.Rank); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return lesson, nil
}

// CreateTheoryPage inserts a theory page for a lesson
func (r *LessonRepository) CreateTheoryPage(lessonID string, rank int, content string) (*models.TheoryPage, error) {
	page := &models.TheoryPage{ID: uuid.NewString(), LessonID: lessonID, Rank: rank, Content: content}
	query := "INSERT INTO theory_pages (id, lesson_id, position, content) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, page.ID, page.LessonID, page.Rank, page.Content); err != nil {
		return nil, fmt.Errorf("failed to create theory page: %w", err)
	}
	return page, nil
}

// CreateQuestion inserts a question for a lesson
func (r *LessonRepository) CreateQuestion(lessonID, text string, kind models.QuestionKind, position int) (*models.Question, error) {
	q := &models.Question{ID: uuid.NewString(), LessonID: lessonID, Text: text, Kind: kind, Position: position}
	query := "INSERT INTO questions (id, lesson_id, text, question_type, position) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, q.ID, q.LessonID, q.Text, string(q.Kind), q.Position); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

// CreateAnswer inserts an answer for a question
func (r *LessonRepository) CreateAnswer(questionID, text string, isCorrect bool) (*models.Answer, error) {
	a := &models.Answer{ID: uuid.NewString(), QuestionID: questionID, Text: text, IsCorrect: isCorrect}
	query := "INSERT INTO answers (id, question_id, text, is_correct) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, a.ID, a.QuestionID, a.Text, a.IsCorrect); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return a, nil
}
