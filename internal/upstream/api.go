package upstream

import (
	"context"
	"net/http"
	"net/url"

	"smartedtech/internal/models"
)

// Operation names double as metric labels and relay error wording
const (
	OpLogin              = "login"
	OpRegister           = "register"
	OpResetPassword      = "reset_password"
	OpDashboard          = "dashboard"
	OpAssignments        = "assignments"
	OpListPractices      = "list_practices"
	OpCreatePractice     = "create_practice"
	OpGeneratePractice   = "generate_practice"
	OpGetPractice        = "get_practice"
	OpUpdatePractice     = "update_practice"
	OpListTutorSessions  = "list_tutor_sessions"
	OpGenerateTutor      = "generate_tutor"
	OpGetTutorSession    = "get_tutor_session"
	OpSubmitQuiz         = "submit_quiz"
	OpPerformanceHistory = "performance_history"
	OpCreateBooster      = "create_booster"
	OpListBoosters       = "list_boosters"
	OpGetBooster         = "get_booster"
)

type authReply struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// Login checks credentials and returns the backend's profile of the user
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var reply authReply
	in := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, OpLogin, http.MethodPost, "/auth/login", nil, in, &reply); err != nil {
		return nil, err
	}
	if reply.User == nil {
		return nil, &StatusError{Op: OpLogin, Status: http.StatusBadGateway, Message: "login response did not include a user"}
	}
	return reply.User, nil
}

// Register creates an account with the given role
func (c *Client) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	var reply authReply
	in := map[string]string{"name": name, "email": email, "password": password, "role": role}
	if err := c.call(ctx, OpRegister, http.MethodPost, "/auth/register", nil, in, &reply); err != nil {
		return nil, err
	}
	return reply.User, nil
}

// ResetPassword asks the backend to mail a reset link
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.call(ctx, OpResetPassword, http.MethodPost, "/auth/reset-password", nil, map[string]string{"email": email}, nil)
}

// Dashboard fetches the summary shown on the home page
func (c *Client) Dashboard(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := c.call(ctx, OpDashboard, http.MethodGet, "/dashboard/user/"+url.PathEscape(userID), nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Assignments lists the user's assignments, optionally filtered by status
func (c *Client) Assignments(ctx context.Context, userID, status string) ([]models.Assignment, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	var assignments []models.Assignment
	if err := c.call(ctx, OpAssignments, http.MethodGet, "/assignments/"+url.PathEscape(userID), query, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListPractices lists adaptive practices, optionally for one subject
func (c *Client) ListPractices(ctx context.Context, userID, subject string) ([]models.AdaptivePractice, error) {
	query := url.Values{"user_id": {userID}}
	if subject != "" {
		query.Set("subject", subject)
	}
	var practices []models.AdaptivePractice
	if err := c.call(ctx, OpListPractices, http.MethodGet, "/adaptive-practice", query, nil, &practices); err != nil {
		return nil, err
	}
	return practices, nil
}

// GeneratePractice asks the backend to generate a practice for subject
func (c *Client) GeneratePractice(ctx context.Context, userID, subject string) (*models.AdaptivePractice, error) {
	var practice models.AdaptivePractice
	in := map[string]string{"user_id": userID, "subject": subject}
	if err := c.call(ctx, OpGeneratePractice, http.MethodPost, "/adaptive-practice/generate", nil, in, &practice); err != nil {
		return nil, err
	}
	return &practice, nil
}

// GetPractice fetches one adaptive practice
func (c *Client) GetPractice(ctx context.Context, id string) (*models.AdaptivePractice, error) {
	var practice models.AdaptivePractice
	if err := c.call(ctx, OpGetPractice, http.MethodGet, "/adaptive-practice/"+url.PathEscape(id), nil, nil, &practice); err != nil {
		return nil, err
	}
	return &practice, nil
}

// CompletePractice marks an adaptive practice completed
func (c *Client) CompletePractice(ctx context.Context, id string) (*models.AdaptivePractice, error) {
	var practice models.AdaptivePractice
	in := map[string]bool{"completed": true}
	if err := c.call(ctx, OpUpdatePractice, http.MethodPut, "/adaptive-practice/"+url.PathEscape(id), nil, in, &practice); err != nil {
		return nil, err
	}
	return &practice, nil
}

// ListTutorSessions lists the user's tutor sessions
func (c *Client) ListTutorSessions(ctx context.Context, userID string) ([]models.TutorSession, error) {
	var sessions []models.TutorSession
	query := url.Values{"user_id": {userID}}
	if err := c.call(ctx, OpListTutorSessions, http.MethodGet, "/personalized-tutor", query, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GenerateTutorSession asks the backend to generate a lesson and quiz
func (c *Client) GenerateTutorSession(ctx context.Context, userID, subject string) (*models.TutorSession, error) {
	var session models.TutorSession
	in := map[string]string{"user_id": userID, "subject": subject}
	if err := c.call(ctx, OpGenerateTutor, http.MethodPost, "/personalized-tutor/generate", nil, in, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetTutorSession fetches one tutor session
func (c *Client) GetTutorSession(ctx context.Context, id string) (*models.TutorSession, error) {
	var session models.TutorSession
	if err := c.call(ctx, OpGetTutorSession, http.MethodGet, "/personalized-tutor/"+url.PathEscape(id), nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SubmitQuiz sends the answer letters and returns the backend's grading
func (c *Client) SubmitQuiz(ctx context.Context, id string, answers []string) (*models.QuizResult, error) {
	var result models.QuizResult
	in := map[string][]string{"answers": answers}
	if err := c.call(ctx, OpSubmitQuiz, http.MethodPost, "/personalized-tutor/"+url.PathEscape(id)+"/submit", nil, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PerformanceHistory lists graded quiz attempts, optionally for one subject
func (c *Client) PerformanceHistory(ctx context.Context, userID, subject string) ([]models.PerformanceHistory, error) {
	query := url.Values{"user_id": {userID}}
	if subject != "" {
		query.Set("subject", subject)
	}
	var history []models.PerformanceHistory
	if err := c.call(ctx, OpPerformanceHistory, http.MethodGet, "/personalized-tutor/performance-history", query, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// CreateBooster asks the backend to build a booster for a graded assignment
func (c *Client) CreateBooster(ctx context.Context, req models.BoosterRequest) (*models.Booster, error) {
	var booster models.Booster
	if err := c.call(ctx, OpCreateBooster, http.MethodPost, "/boosters", nil, req, &booster); err != nil {
		return nil, err
	}
	return &booster, nil
}

// GetBooster fetches one booster
func (c *Client) GetBooster(ctx context.Context, id string) (*models.Booster, error) {
	var booster models.Booster
	if err := c.call(ctx, OpGetBooster, http.MethodGet, "/boosters/"+url.PathEscape(id), nil, nil, &booster); err != nil {
		return nil, err
	}
	return &booster, nil
}

// ListBoosters lists the user's boosters
func (c *Client) ListBoosters(ctx context.Context, userID string) ([]models.Booster, error) {
	var boosters []models.Booster
	if err := c.call(ctx, OpListBoosters, http.MethodGet, "/boosters/"+url.PathEscape(userID), nil, nil, &boosters); err != nil {
		return nil, err
	}
	return boosters, nil
}
