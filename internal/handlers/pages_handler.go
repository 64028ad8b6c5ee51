package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"smartedtech/internal/service"
	"smartedtech/internal/validation"
)

// PagesHandler serves the pages built from fixed figures plus the profile
type PagesHandler struct {
	authService *service.AuthService
	leaderboard *service.Leaderboard
	views       *Renderer
	logger      *zap.Logger
}

func NewPagesHandler(authService *service.AuthService, leaderboard *service.Leaderboard, views *Renderer, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{
		authService: authService,
		leaderboard: leaderboard,
		views:       views,
		logger:      logger,
	}
}

func (h *PagesHandler) Performance(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "performance.tmpl", PerformanceViewData{
		PageData: h.views.Page(r, "Performance"),
		Subjects: service.PerformanceSubjects(),
		Stats:    service.PerformanceStats(),
	})
}

func (h *PagesHandler) Rank(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "rank.tmpl", RankViewData{
		PageData: h.views.Page(r, "Leaderboards"),
		Heading:  service.LeaderboardTitle,
		TopThree: h.leaderboard.TopThree(),
		Rest:     h.leaderboard.Rest(),
	})
}

func (h *PagesHandler) Resources(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "resources.tmpl", ResourcesViewData{
		PageData:   h.views.Page(r, "Resources"),
		Categories: service.ResourceCategories(),
	})
}

func (h *PagesHandler) profileData(r *http.Request) ProfileViewData {
	data := ProfileViewData{
		PageData:        h.views.Page(r, "Profile"),
		Level:           service.DefaultProfileLevel,
		Points:          service.DefaultProfilePoints,
		NextLevelPoints: service.XPForNextLevel,
		CoursesEnrolled: service.DefaultCoursesEnrolled,
	}
	if user := data.User; user != nil {
		if user.Level > 0 {
			data.Level = user.Level
		}
		if user.Points > 0 {
			data.Points = user.Points
		}
	}
	data.XPProgress = service.XPProgress(data.Points)
	return data
}

func (h *PagesHandler) Profile(w http.ResponseWriter, r *http.Request) {
	data := h.profileData(r)
	if r.URL.Query().Get("saved") == "1" {
		data.Success = "Profile updated."
	}
	h.views.Render(w, http.StatusOK, "profile.tmpl", data)
}

// UpdateProfile overwrites the display name kept in the session
func (h *PagesHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	form := validation.ProfileForm{Name: r.FormValue("name")}
	if err := validation.ValidateProfile(&form); err != nil {
		data := h.profileData(r)
		data.Error = validation.MsgRequiredFields
		if verrs, ok := validation.AsValidationErrors(err); ok {
			data.Errors = verrs.Messages()
		}
		h.views.Render(w, http.StatusOK, "profile.tmpl", data)
		return
	}

	if _, err := h.authService.UpdateDisplayName(r.Context(), session, form.Name); err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to update profile", err)
		return
	}
	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}
