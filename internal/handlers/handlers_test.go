package handlers

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartedtech/internal/models"
	"smartedtech/internal/repository"
	"smartedtech/internal/security"
	"smartedtech/internal/service"
	"smartedtech/internal/upstream"
)

// fakeBackend is an httptest upstream that records every call it receives
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	mux   *http.ServeMux
	srv   *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

type testEnv struct {
	backend   *fakeBackend
	store     *repository.MemorySessionRepository
	signer    *security.TokenSigner
	auth      *service.AuthService
	schedule  *service.ScheduleService
	practices *service.OptimisticList[models.AdaptivePractice]
	tutors    *service.OptimisticList[models.TutorSession]
	handler   http.Handler
}

type envOptions struct {
	baseURL    string
	demo       bool
	rateLimit  int
	trustProxy bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	env := &testEnv{
		backend:   newFakeBackend(t),
		store:     repository.NewMemorySessionRepository(),
		signer:    security.NewTokenSigner("test-secret"),
		schedule:  service.NewScheduleService(),
		practices: service.NewOptimisticList[models.AdaptivePractice](),
		tutors:    service.NewOptimisticList[models.TutorSession](),
	}

	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = env.backend.srv.URL
	}
	if opts.rateLimit == 0 {
		opts.rateLimit = 100
	}

	logger := zap.NewNop()
	client := upstream.NewClient(baseURL, nil, logger, nil)
	env.auth = service.NewAuthService(client, env.store, env.signer, nil,
		service.AuthOptions{SessionDuration: time.Hour, Demo: opts.demo}, logger)

	templates, err := LoadTemplates("../templates")
	require.NoError(t, err)
	views := NewRenderer(templates, env.signer, logger)

	middleware := NewMiddleware(env.auth, env.signer, security.NewRateLimiter(opts.rateLimit, time.Minute), logger)
	middleware.TrustProxy = opts.trustProxy

	h := &Handlers{
		Middleware: middleware,
		Auth:       NewAuthHandler(env.auth, views, logger, env.schedule, env.practices, env.tutors),
		Dashboard:  NewDashboardHandler(client, views, logger),
		Practice:   NewPracticeHandler(client, env.practices, views, logger),
		Tutor:      NewTutorHandler(client, env.tutors, views, logger),
		Booster:    NewBoosterHandler(client, views, logger),
		Schedule:   NewScheduleHandler(env.schedule, views, logger),
		Pages:      NewPagesHandler(env.auth, service.NewLeaderboard(rand.New(rand.NewPCG(1, 2))), views, logger),
		Relay:      NewRelayHandler(client, logger),
		StaticPath: "../../static",
	}
	env.handler = h.Routes()
	return env
}

// signIn stores a live session and returns its cookie
func (e *testEnv) signIn(t *testing.T) (*http.Cookie, *models.Session) {
	t.Helper()
	now := time.Now()
	session := &models.Session{
		ID:     security.NewSessionID(),
		UserID: "42",
		User: models.User{
			ID:    "42",
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			Role:  models.RoleStudent,
			Level: 3,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, e.store.Create(context.Background(), session))
	token, err := e.signer.Issue(session.ID, session.UserID, session.ExpiresAt)
	require.NoError(t, err)
	return &http.Cookie{Name: security.SessionCookieName, Value: token}, session
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) send(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// withCSRF adds the session's CSRF token to a form
func (e *testEnv) withCSRF(session *models.Session, form url.Values) url.Values {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", e.signer.CSRFToken(session.ID))
	return form
}

func deletedCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == security.SessionCookieName && c.MaxAge < 0 {
			return true
		}
	}
	return false
}
