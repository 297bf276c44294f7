package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

// AuthService orchestrates registration, login and session handling
type AuthService struct {
	userRepo        repository.UserRepo
	sessionRepo     repository.WebSessionRepo
	sessionDuration int // hours
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepo, sessionRepo repository.WebSessionRepo, sessionDuration int) *AuthService {
	if sessionDuration <= 0 {
		sessionDuration = 24
	}
	return &AuthService{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates an account and logs it in
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest, ipAddress, userAgent string) (*models.User, *models.WebSession, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, nil, models.ErrEmailExists
	}

	user, err := models.NewUser(email, req.DisplayName, req.Password)
	if err != nil {
		return nil, nil, err
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	user.Newsletter = req.Newsletter

	if err := s.userRepo.Add(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.createSession(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Login verifies credentials and opens a session
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*models.User, *models.WebSession, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, nil, models.ErrInvalidPassword
	}
	if !user.VerifyPassword(req.Password) {
		return nil, nil, models.ErrInvalidPassword
	}

	session, err := s.createSession(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

func (s *AuthService) createSession(ctx context.Context, userID, ipAddress, userAgent string) (*models.WebSession, error) {
	session := models.NewWebSession(userID, ipAddress, userAgent, s.sessionDuration)
	if err := s.sessionRepo.Add(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession validates a session token and returns its user
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*models.WebSession, *models.User, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, models.ErrSessionNotFound
	}
	if !session.IsActive {
		return nil, nil, models.ErrSessionInactive
	}
	if session.IsExpired() {
		return nil, nil, models.ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil, models.ErrUserNotFound
	}

	if err := s.sessionRepo.Touch(ctx, session.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to touch session: %w", err)
	}

	return session, user, nil
}

// Logout removes one session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// LogoutAll removes every session the user holds
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessionRepo.DeleteAllForUser(ctx, userID)
}
