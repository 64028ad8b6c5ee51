package handlers

import (
	"net/http"
)

// Handlers groups everything the router needs
type Handlers struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Practice   *PracticeHandler
	Tutor      *TutorHandler
	Booster    *BoosterHandler
	Schedule   *ScheduleHandler
	Pages      *PagesHandler
	Relay      *RelayHandler
	StaticPath string
	Metrics    http.Handler
}

// Routes builds the router wrapped in request logging and the session gate
func (h *Handlers) Routes() http.Handler {
	m := h.Middleware
	mux := http.NewServeMux()

	if h.StaticPath != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(h.StaticPath))))
	}
	mux.HandleFunc("GET /healthz", Health)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Auth pages
	mux.HandleFunc("GET /sections/signin", h.Auth.ShowSignIn)
	mux.HandleFunc("POST /sections/signin", m.RateLimit(h.Auth.SignIn))
	mux.HandleFunc("GET /sections/register", h.Auth.ShowRegister)
	mux.HandleFunc("POST /sections/register", m.RateLimit(h.Auth.Register))
	mux.HandleFunc("GET /sections/reset-password", h.Auth.ShowResetPassword)
	mux.HandleFunc("POST /sections/reset-password", m.RateLimit(h.Auth.ResetPassword))
	mux.HandleFunc("POST /logout", m.CSRFProtect(h.Auth.Logout))

	// Pages
	mux.HandleFunc("GET /{$}", h.Dashboard.Dashboard)
	mux.HandleFunc("GET /performance", h.Pages.Performance)
	mux.HandleFunc("GET /rank", h.Pages.Rank)
	mux.HandleFunc("GET /resources", h.Pages.Resources)
	mux.HandleFunc("GET /profile", h.Pages.Profile)
	mux.HandleFunc("POST /profile", m.CSRFProtect(h.Pages.UpdateProfile))

	mux.HandleFunc("GET /schedule", h.Schedule.ShowSchedule)
	mux.HandleFunc("POST /schedule", m.CSRFProtect(h.Schedule.AddItem))
	mux.HandleFunc("POST /schedule/{id}/delete", m.CSRFProtect(h.Schedule.DeleteItem))

	mux.HandleFunc("GET /adaptive-practice", h.Practice.ShowPractices)
	mux.HandleFunc("POST /adaptive-practice/generate", m.CSRFProtect(h.Practice.GeneratePractice))
	mux.HandleFunc("GET /adaptive-practice/{id}", h.Practice.ShowPractice)
	mux.HandleFunc("POST /adaptive-practice/{id}/complete", m.CSRFProtect(h.Practice.CompletePractice))

	mux.HandleFunc("GET /personalized-tutor", h.Tutor.ShowSessions)
	mux.HandleFunc("POST /personalized-tutor/generate", m.CSRFProtect(h.Tutor.GenerateSession))
	mux.HandleFunc("GET /personalized-tutor/{id}", h.Tutor.ShowSession)
	mux.HandleFunc("POST /personalized-tutor/{id}/submit", m.CSRFProtect(h.Tutor.SubmitQuiz))

	mux.HandleFunc("GET /performance-booster", h.Booster.ShowForm)
	mux.HandleFunc("POST /performance-booster", m.CSRFProtect(h.Booster.CreateBooster))
	mux.HandleFunc("GET /performance-booster/{id}", h.Booster.ShowBooster)
	mux.HandleFunc("POST /performance-booster/{id}/check", m.CSRFProtect(h.Booster.CheckAssessment))

	// Relay
	mux.HandleFunc("GET /api/adaptive-practice", h.Relay.ListPractices)
	mux.HandleFunc("POST /api/adaptive-practice", h.Relay.CreatePractice)
	mux.HandleFunc("POST /api/adaptive-practice/generate", h.Relay.GeneratePractice)
	mux.HandleFunc("GET /api/adaptive-practice/{id}", h.Relay.GetPractice)
	mux.HandleFunc("PUT /api/adaptive-practice/{id}", h.Relay.UpdatePractice)
	mux.HandleFunc("GET /api/boosters", h.Relay.ListBoosters)
	mux.HandleFunc("POST /api/boosters", h.Relay.CreateBooster)
	mux.HandleFunc("GET /api/boosters/{id}", h.Relay.GetBooster)
	mux.HandleFunc("GET /api/personalized-tutor", h.Relay.ListTutorSessions)
	mux.HandleFunc("POST /api/personalized-tutor/generate", h.Relay.GenerateTutorSession)
	mux.HandleFunc("GET /api/personalized-tutor/performance-history", h.Relay.PerformanceHistory)
	mux.HandleFunc("GET /api/personalized-tutor/{id}", h.Relay.GetTutorSession)
	mux.HandleFunc("POST /api/personalized-tutor/{id}/submit", h.Relay.SubmitQuiz)

	return m.Logging(m.SessionGate(mux))
}
