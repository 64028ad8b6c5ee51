package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartedtech/internal/security"
)

func TestGateRedirectsAnonymousToSignIn(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	for _, path := range []string{"/", "/schedule", "/adaptive-practice", "/profile"} {
		t.Run(path, func(t *testing.T) {
			rec := env.get(path, nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/sections/signin?redirect="+url.QueryEscape(path), rec.Header().Get("Location"))
		})
	}
}

func TestGateSendsSignedInUsersHome(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	cookie, _ := env.signIn(t)

	for _, path := range []string{"/sections/signin", "/sections/register"} {
		rec := env.get(path, cookie)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}
}

func TestGateAllowsAuthPagesWhenAnonymous(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	for _, path := range []string{"/sections/signin", "/sections/register", "/sections/reset-password"} {
		rec := env.get(path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGateTreatsBadCookiesAsAbsent(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	_, session := env.signIn(t)

	expired, err := env.signer.Issue(session.ID, session.UserID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	foreign, err := security.NewTokenSigner("other-secret").Issue(session.ID, session.UserID, session.ExpiresAt)
	require.NoError(t, err)
	wrongUser, err := env.signer.Issue(session.ID, "7", session.ExpiresAt)
	require.NoError(t, err)
	unknown, err := env.signer.Issue("missing-session", session.UserID, session.ExpiresAt)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"foreign secret", foreign},
		{"wrong user", wrongUser},
		{"unknown session", unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie := &http.Cookie{Name: security.SessionCookieName, Value: tt.value}

			rec := env.get("/schedule", cookie)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/sections/signin?redirect=%2Fschedule", rec.Header().Get("Location"))
			assert.True(t, deletedCookie(rec), "bad cookie should be cleared")

			rec = env.get("/sections/signin", cookie)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestGateSkipsExcludedPaths(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.backend.mux.HandleFunc("GET /api/adaptive-practice", jsonReply(http.StatusOK, `[]`))

	rec := env.get("/static/css/app.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.get("/logo.png", nil)
	assert.NotEqual(t, http.StatusSeeOther, rec.Code)

	rec = env.get("/api/adaptive-practice?user_id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.get("/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGatePutsSessionInContext(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	cookie, session := env.signIn(t)

	var seen string
	m := NewMiddleware(env.auth, env.signer, security.NewRateLimiter(10, time.Minute), zap.NewNop())
	h := m.SessionGate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := GetSessionFromContext(r); s != nil {
			seen = s.ID
		}
		assert.Equal(t, "Ada Lovelace", GetUserFromContext(r).Name)
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, session.ID, seen)
}

func TestGetUserFromContextWithoutSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetSessionFromContext(req))
	assert.Nil(t, GetUserFromContext(req))
}

func TestCSRFProtect(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	cookie, session := env.signIn(t)

	rec := env.postForm("/schedule", url.Values{"name": {"Algebra"}, "date": {"2030-01-01"}}, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.postForm("/schedule", url.Values{"name": {"Algebra"}, "date": {"2030-01-01"}, "csrf_token": {"forged"}}, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.postForm("/schedule", env.withCSRF(session, url.Values{"name": {"Algebra"}, "date": {"2030-01-01"}}), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestCSRFProtectAcceptsHeader(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	_, session := env.signIn(t)

	m := NewMiddleware(env.auth, env.signer, security.NewRateLimiter(10, time.Minute), zap.NewNop())
	called := false
	h := m.CSRFProtect(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/profile", nil)
	req.Header.Set("X-CSRF-Token", env.signer.CSRFToken(session.ID))
	req = req.WithContext(context.WithValue(req.Context(), SessionContextKey, session))
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFProtectRequiresSession(t *testing.T) {
	m := NewMiddleware(nil, security.NewTokenSigner("test-secret"), security.NewRateLimiter(10, time.Minute), zap.NewNop())
	h := m.CSRFProtect(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, envOptions{rateLimit: 2})
	form := url.Values{"email": {""}, "password": {""}}

	for i := 0; i < 2; i++ {
		rec := env.postForm("/sections/signin", form, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := env.postForm("/sections/signin", form, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrTooManyRequests)
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	signIn := func(env *testEnv, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/sections/signin", strings.NewReader("email=&password="))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	env := newTestEnv(t, envOptions{rateLimit: 2})
	assert.Equal(t, http.StatusOK, signIn(env, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, signIn(env, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, signIn(env, "10.0.0.3"), "rotating the header must not reset the limit")

	trusted := newTestEnv(t, envOptions{rateLimit: 2, trustProxy: true})
	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.Equal(t, http.StatusOK, signIn(trusted, ip))
	}
}

func TestNavigationMarksActiveLink(t *testing.T) {
	tests := []struct {
		path   string
		active string
	}{
		{"/", "/"},
		{"/adaptive-practice/12", "/adaptive-practice"},
		{"/performance-booster", "/performance-booster"},
		{"/schedule", "/schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var active []string
			for _, link := range Navigation(tt.path) {
				if link.Active {
					active = append(active, link.Href)
				}
			}
			assert.Equal(t, []string{tt.active}, active)
		})
	}
}
