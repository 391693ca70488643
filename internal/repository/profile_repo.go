package repository

import (
	"database/sql"
	"fmt"
	"time"

	"codelingo/internal/database"
	"codelingo/internal/hearts"
	"codelingo/internal/models"
)

// dateFormat is how calendar dates (no time component) are stored
const dateFormat = "2006-01-02"

// ProfileRepository handles database operations for learner profiles
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile by user ID, or (nil, nil) if not found
func (r *ProfileRepository) Get(userID int64) (*models.Profile, error) {
	query := `
		SELECT user_id, hearts, last_heart_update, total_points, current_streak, last_lesson_date, coins
		FROM profiles
		WHERE user_id = ?
	`

	profile := &models.Profile{}
	var lastHeartUpdate sql.NullTime
	var lastLessonDate sql.NullString

	err := r.db.QueryRow(query, userID).Scan(
		&profile.UserID,
		&profile.Hearts,
		&lastHeartUpdate,
		&profile.TotalPoints,
		&profile.CurrentStreak,
		&lastLessonDate,
		&profile.Coins,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if lastHeartUpdate.Valid {
		profile.LastHeartUpdate = &lastHeartUpdate.Time
	}
	if lastLessonDate.Valid && lastLessonDate.String != "" {
		d, err := time.Parse(dateFormat, lastLessonDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last lesson date: %w", err)
		}
		profile.LastLessonDate = &d
	}

	return profile, nil
}

// Create inserts a profile with default state (full hearts)
func (r *ProfileRepository) Create(userID int64) (*models.Profile, error) {
	query := "INSERT INTO profiles (user_id, hearts) VALUES (?, ?)"
	if _, err := r.db.Exec(query, userID, hearts.Max); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &models.Profile{UserID: userID, Hearts: hearts.Max}, nil
}

// Save persists every mutable field of the profile in one statement
func (r *ProfileRepository) Save(profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET hearts = ?, last_heart_update = ?, total_points = ?, current_streak = ?, last_lesson_date = ?, coins = ?
		WHERE user_id = ?
	`

	var lastHeartUpdate interface{}
	if profile.LastHeartUpdate != nil {
		lastHeartUpdate = *profile.LastHeartUpdate
	}
	var lastLessonDate interface{}
	if profile.LastLessonDate != nil {
		lastLessonDate = profile.LastLessonDate.Format(dateFormat)
	}

	_, err := r.db.Exec(query,
		profile.Hearts,
		lastHeartUpdate,
		profile.TotalPoints,
		profile.CurrentStreak,
		lastLessonDate,
		profile.Coins,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Leaderboard returns users ordered by total points, highest first
func (r *ProfileRepository) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.name, p.total_points
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.total_points DESC, u.name ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Name, &entry.TotalPoints); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
