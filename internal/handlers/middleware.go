package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"smartedtech/internal/gate"
	"smartedtech/internal/models"
	"smartedtech/internal/security"
	"smartedtech/internal/service"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	SessionContextKey ContextKey = "session"
)

// SessionValidator resolves a session marker to a live session
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.Session, error)
}

// Middleware holds dependencies for middleware functions. TrustProxy lets
// the rate limiter key on X-Forwarded-For.
type Middleware struct {
	TrustProxy bool

	sessions SessionValidator
	signer   *security.TokenSigner
	limiter  *security.RateLimiter
	logger   *zap.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(sessions SessionValidator, signer *security.TokenSigner, limiter *security.RateLimiter, logger *zap.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		signer:   signer,
		limiter:  limiter,
		logger:   logger,
	}
}

// SessionGate redirects page requests according to the caller's sign-in
// state and puts the session in the request context when there is one.
// A cookie that fails validation is cleared and treated as absent.
func (m *Middleware) SessionGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate.IsExcluded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		session := m.currentSession(w, r)

		decision := gate.Decide(r.URL.Path, session != nil)
		if decision.Action != gate.Allow {
			http.Redirect(w, r, decision.Location, http.StatusSeeOther)
			return
		}

		if session != nil {
			r = r.WithContext(context.WithValue(r.Context(), SessionContextKey, session))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) currentSession(w http.ResponseWriter, r *http.Request) *models.Session {
	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := m.sessions.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrInvalidToken),
			errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, service.ErrSessionExpired):
			m.logger.Debug("discarding session cookie", zap.String("path", r.URL.Path), zap.Error(err))
		default:
			m.logger.Error("failed to validate session", zap.Error(err))
		}
		http.SetCookie(w, security.CreateDeleteCookie(r))
		return nil
	}
	return session
}

// RateLimit applies the per-IP limiter to a handler
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r, m.TrustProxy)
		if !m.limiter.Allow(ip) {
			m.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			respondWithError(w, m.logger, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFProtect validates the session-bound CSRF token on state-changing requests
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r)
		if session == nil {
			http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
			return
		}

		token := r.FormValue("csrf_token")
		if token == "" {
			token = r.Header.Get("X-CSRF-Token")
		}

		if !m.signer.ValidCSRFToken(session.ID, token) {
			m.logger.Warn("invalid csrf token", zap.String("path", r.URL.Path))
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Logging records method, path, status and duration of every request
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// GetSessionFromContext retrieves the session set by SessionGate
func GetSessionFromContext(r *http.Request) *models.Session {
	session, _ := r.Context().Value(SessionContextKey).(*models.Session)
	return session
}

// GetUserFromContext retrieves the signed-in user's profile
func GetUserFromContext(r *http.Request) *models.User {
	session := GetSessionFromContext(r)
	if session == nil {
		return nil
	}
	return &session.User
}
