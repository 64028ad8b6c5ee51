package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"smartedtech/internal/upstream"
)

const recentActivityLimit = 3

type DashboardHandler struct {
	client *upstream.Client
	views  *Renderer
	logger *zap.Logger
}

func NewDashboardHandler(client *upstream.Client, views *Renderer, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{client: client, views: views, logger: logger}
}

// Dashboard greets the user and shows stats, pending assignments and recent activity.
// Backend failures still render the page, with a banner.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	data := DashboardViewData{
		PageData: h.views.Page(r, "Dashboard"),
		Name:     user.Name,
		Level:    user.DisplayLevel(),
	}

	summary, err := h.client.Dashboard(r.Context(), user.ID.String())
	if err != nil {
		h.logger.Warn("failed to load dashboard", zap.String("user_id", user.ID.String()), zap.Error(err))
		data.Error = MsgDashboardFailed
	} else {
		data.Summary = summary
		data.Activities = summary.RecentActivity(recentActivityLimit)
		if name := summary.DisplayName(); name != "" {
			data.Name = name
		}
		if level := summary.DisplayLevel(); level > 0 {
			data.Level = level
		}
	}

	assignments, err := h.client.Assignments(r.Context(), user.ID.String(), "pending")
	if err != nil {
		h.logger.Warn("failed to load assignments", zap.String("user_id", user.ID.String()), zap.Error(err))
		data.Error = MsgDashboardFailed
	} else {
		data.Assignments = assignments
	}

	h.views.Render(w, http.StatusOK, "dashboard.tmpl", data)
}
