package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"smartedtech/internal/service"
	"smartedtech/internal/validation"
)

type ScheduleHandler struct {
	schedule *service.ScheduleService
	views    *Renderer
	logger   *zap.Logger
}

func NewScheduleHandler(schedule *service.ScheduleService, views *Renderer, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, views: views, logger: logger}
}

func (h *ScheduleHandler) render(w http.ResponseWriter, r *http.Request, sessionID string, form validation.ScheduleForm, err error) {
	view := h.schedule.View(sessionID)
	data := ScheduleViewData{
		PageData: h.views.Page(r, "Exams Schedule"),
		Upcoming: view.Upcoming,
		Past:     view.Past,
		Form:     form,
	}
	if err != nil {
		data.Error = validation.MsgRequiredFields
		if verrs, ok := validation.AsValidationErrors(err); ok {
			data.Errors = verrs.Messages()
		}
	}
	h.views.Render(w, http.StatusOK, "schedule.tmpl", data)
}

func (h *ScheduleHandler) ShowSchedule(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	h.render(w, r, session.ID, validation.ScheduleForm{}, nil)
}

func (h *ScheduleHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	form := validation.ScheduleForm{
		Name: r.FormValue("name"),
		Date: r.FormValue("date"),
	}
	if _, err := h.schedule.Add(session.ID, form); err != nil {
		h.render(w, r, session.ID, form, err)
		return
	}
	http.Redirect(w, r, "/schedule", http.StatusSeeOther)
}

func (h *ScheduleHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	h.schedule.Delete(session.ID, r.PathValue("id"))
	http.Redirect(w, r, "/schedule", http.StatusSeeOther)
}
