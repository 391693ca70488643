package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"codelingo/internal/models"
	"codelingo/internal/repository"
	"codelingo/internal/security"
	"codelingo/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles authentication business logic
type AuthService struct {
	users           *repository.UserRepository
	profiles        *ProfileService
	sessionSecret   string
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository, profiles *ProfileService, sessionSecret string, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		users:           users,
		profiles:        profiles,
		sessionSecret:   sessionSecret,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account with its learner profile
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(email, passwordHash, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.profiles.Ensure(user.ID); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a signed session token
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := security.SignSessionToken([]byte(s.sessionSecret), user.ID, s.sessionDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, user, nil
}

// GetUser retrieves a user by ID, or (nil, nil) if not found
func (s *AuthService) GetUser(userID int64) (*models.User, error) {
	return s.users.GetUserByID(userID)
}

// SessionDuration is the lifetime of issued session tokens
func (s *AuthService) SessionDuration() time.Duration {
	return s.sessionDuration
}
