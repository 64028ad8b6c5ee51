package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"smartedtech/internal/models"
	"smartedtech/internal/repository"
	"smartedtech/internal/security"
	"smartedtech/internal/upstream"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// Demo sign-in used when the server runs without a backend for auth
const (
	DemoEmail    = "test@smartlearn.com"
	DemoPassword = "password123"
	DemoName     = "Smart Learner"

	demoCredentialsMessage = "Invalid email or password. Please try the mock credentials: test@smartlearn.com / password123"
)

// Authenticator is the backend's account API
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, name, email, password, role string) (*models.User, error)
	ResetPassword(ctx context.Context, email string) error
}

// AuthService signs users in against the backend and keeps their
// sessions in the session store
type AuthService struct {
	backend         Authenticator
	sessions        repository.SessionStore
	signer          *security.TokenSigner
	email           *EmailService
	sessionDuration time.Duration
	demo            bool
	logger          *zap.Logger
	now             func() time.Time
}

// AuthOptions configures an AuthService
type AuthOptions struct {
	SessionDuration time.Duration
	Demo            bool
}

// NewAuthService creates a new auth service
func NewAuthService(backend Authenticator, sessions repository.SessionStore, signer *security.TokenSigner, email *EmailService, opts AuthOptions, logger *zap.Logger) *AuthService {
	return &AuthService{
		backend:         backend,
		sessions:        sessions,
		signer:          signer,
		email:           email,
		sessionDuration: opts.SessionDuration,
		demo:            opts.Demo,
		logger:          logger,
		now:             time.Now,
	}
}

// SessionDuration is how long new sessions stay valid
func (s *AuthService) SessionDuration() time.Duration {
	return s.sessionDuration
}

// DemoMode reports whether sign-in checks the demo credentials locally
func (s *AuthService) DemoMode() bool {
	return s.demo
}

// Login authenticates a user, creates a session and returns it together
// with the signed token for the session cookie. loginType becomes the
// user's role when the backend does not report one.
func (s *AuthService) Login(ctx context.Context, email, password, loginType string) (*models.Session, string, error) {
	user, err := s.authenticate(ctx, email, password, loginType)
	if err != nil {
		return nil, "", err
	}
	if user.Role == "" {
		user.Role = loginType
	}

	now := s.now()
	session := &models.Session{
		ID:        security.NewSessionID(),
		UserID:    user.ID.String(),
		User:      *user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.signer.Issue(session.ID, session.UserID, session.ExpiresAt)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, "", err
	}

	s.logger.Info("user signed in",
		zap.String("user_id", session.UserID),
		zap.String("role", user.Role),
		zap.Bool("demo", s.demo))
	return session, token, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password, loginType string) (*models.User, error) {
	if !s.demo {
		return s.backend.Login(ctx, email, password)
	}

	if email != DemoEmail || password != DemoPassword {
		return nil, ErrInvalidCredentials
	}
	return &models.User{
		ID:    models.ID(fmt.Sprintf("user-%d", rand.IntN(10000))),
		Name:  DemoName,
		Email: email,
		Role:  loginType,
		Level: 1,
	}, nil
}

// LoginErrorMessage turns a sign-in failure into the text shown on the
// form: the backend's own message when it sent one, else fallback
func LoginErrorMessage(err error, fallback string) string {
	if errors.Is(err, ErrInvalidCredentials) {
		return demoCredentialsMessage
	}
	return upstream.MessageOf(err, fallback)
}

// Register creates the account on the backend with the student role and
// sends the welcome email. Email failures are logged, not returned.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := s.backend.Register(ctx, name, email, password, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	if s.email.IsEnabled() {
		if err := s.email.SendWelcomeEmail(ctx, email, name); err != nil {
			s.logger.Warn("failed to send welcome email", zap.String("email", email), zap.Error(err))
		}
	}
	return user, nil
}

// ResetPassword asks the backend to start a password reset
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	return s.backend.ResetPassword(ctx, email)
}

// ValidateSession verifies a session token and returns its live session
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.UserID != claims.Subject {
		return nil, ErrSessionNotFound
	}

	if s.now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, ErrSessionExpired
	}
	return session, nil
}

// UpdateDisplayName overwrites the name in the session's profile snapshot
func (s *AuthService) UpdateDisplayName(ctx context.Context, session *models.Session, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}

	user := session.User
	user.Name = name
	if err := s.sessions.UpdateProfile(ctx, session.ID, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	session.User = user
	return &user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the store
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return n, nil
}
