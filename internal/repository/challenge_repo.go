package repository

import (
	"database/sql"
	"fmt"
	"time"

	"codelingo/internal/database"
	"codelingo/internal/models"
)

// ChallengeRepository handles database operations for daily challenges
// and per-user challenge progress
type ChallengeRepository struct {
	db database.DBTX
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db database.DBTX) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// ListForDate retrieves the challenges active on the given calendar day
func (r *ChallengeRepository) ListForDate(date time.Time) ([]models.DailyChallenge, error) {
	query := `
		SELECT id, title, description, challenge_type, target_value, reward_coins, active_date
		FROM daily_challenges
		WHERE active_date = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, date.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.DailyChallenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *ch)
	}
	return challenges, rows.Err()
}

// GetChallenge retrieves a challenge by ID, or (nil, nil) if not found
func (r *ChallengeRepository) GetChallenge(challengeID int64) (*models.DailyChallenge, error) {
	query := `
		SELECT id, title, description, challenge_type, target_value, reward_coins, active_date
		FROM daily_challenges
		WHERE id = ?
	`

	row := r.db.QueryRow(query, challengeID)
	ch := &models.DailyChallenge{}
	var activeDate string
	err := row.Scan(&ch.ID, &ch.Title, &ch.Description, &ch.ChallengeType, &ch.TargetValue, &ch.RewardCoins, &activeDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if ch.ActiveDate, err = time.Parse(dateFormat, activeDate); err != nil {
		return nil, fmt.Errorf("failed to parse active date: %w", err)
	}
	return ch, nil
}

// Create inserts a daily challenge and fills in its generated ID
func (r *ChallengeRepository) Create(ch *models.DailyChallenge) error {
	query := `
		INSERT INTO daily_challenges (title, description, challenge_type, target_value, reward_coins, active_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		ch.Title,
		ch.Description,
		ch.ChallengeType,
		ch.TargetValue,
		ch.RewardCoins,
		ch.ActiveDate.Format(dateFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to create daily challenge: %w", err)
	}
	ch.ID = id
	return nil
}

// GetProgress retrieves the progress row for (user, challenge), or
// (nil, nil) if none exists yet
func (r *ChallengeRepository) GetProgress(userID, challengeID int64) (*models.UserChallengeProgress, error) {
	query := `
		SELECT id, user_id, challenge_id, progress, completed, rewarded, completed_at
		FROM user_challenge_progress
		WHERE user_id = ? AND challenge_id = ?
	`
	return r.scanProgress(r.db.QueryRow(query, userID, challengeID))
}

// GetProgressByID retrieves a progress row by its ID scoped to the
// owning user, or (nil, nil) if not found
func (r *ChallengeRepository) GetProgressByID(progressID, userID int64) (*models.UserChallengeProgress, error) {
	query := `
		SELECT id, user_id, challenge_id, progress, completed, rewarded, completed_at
		FROM user_challenge_progress
		WHERE id = ? AND user_id = ?
	`
	return r.scanProgress(r.db.QueryRow(query, progressID, userID))
}

// CreateProgress inserts a fresh progress row and fills in its ID
func (r *ChallengeRepository) CreateProgress(p *models.UserChallengeProgress) error {
	query := `
		INSERT INTO user_challenge_progress (user_id, challenge_id, progress, completed, rewarded, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		p.UserID,
		p.ChallengeID,
		p.Progress,
		p.Completed,
		p.Rewarded,
		nullableTime(p.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create challenge progress: %w", err)
	}
	p.ID = id
	return nil
}

// UpdateProgress overwrites an existing progress row
func (r *ChallengeRepository) UpdateProgress(p *models.UserChallengeProgress) error {
	query := `
		UPDATE user_challenge_progress
		SET progress = ?, completed = ?, rewarded = ?, completed_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		p.Progress,
		p.Completed,
		p.Rewarded,
		nullableTime(p.CompletedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge progress: %w", err)
	}
	return nil
}

func (r *ChallengeRepository) scanProgress(row *sql.Row) (*models.UserChallengeProgress, error) {
	p := &models.UserChallengeProgress{}
	var completedAt sql.NullTime

	err := row.Scan(&p.ID, &p.UserID, &p.ChallengeID, &p.Progress, &p.Completed, &p.Rewarded, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge progress: %w", err)
	}

	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return p, nil
}

func scanChallenge(rows *sql.Rows) (*models.DailyChallenge, error) {
	ch := &models.DailyChallenge{}
	var activeDate string
	if err := rows.Scan(&ch.ID, &ch.Title, &ch.Description, &ch.ChallengeType, &ch.TargetValue, &ch.RewardCoins, &activeDate); err != nil {
		return nil, err
	}
	var err error
	if ch.ActiveDate, err = time.Parse(dateFormat, activeDate); err != nil {
		return nil, fmt.Errorf("failed to parse active date: %w", err)
	}
	return ch, nil
}
