package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	"go.uber.org/zap"

	"smartedtech/internal/models"
	"smartedtech/internal/service"
	"smartedtech/internal/upstream"
)

const defaultPracticeSubject = "Mathematics"

type PracticeHandler struct {
	client    *upstream.Client
	practices *service.OptimisticList[models.AdaptivePractice]
	views     *Renderer
	logger    *zap.Logger
}

func NewPracticeHandler(client *upstream.Client, practices *service.OptimisticList[models.AdaptivePractice], views *Renderer, logger *zap.Logger) *PracticeHandler {
	return &PracticeHandler{client: client, practices: practices, views: views, logger: logger}
}

func (h *PracticeHandler) listData(r *http.Request, session *models.Session, subject string) PracticeListViewData {
	return PracticeListViewData{
		PageData: h.views.Page(r, "Adaptive Practice"),
		Entries:  h.practices.Entries(session.ID),
		Subjects: models.TutorSubjects,
		Subject:  subject,
	}
}

// ShowPractices lists the user's practice sessions, pending generations first
func (h *PracticeHandler) ShowPractices(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	practices, err := h.client.ListPractices(r.Context(), session.UserID, "")
	if err == nil {
		h.practices.Replace(session.ID, practices)
	}

	data := h.listData(r, session, defaultPracticeSubject)
	if err != nil {
		h.logger.Warn("failed to list practices", zap.String("user_id", session.UserID), zap.Error(err))
		data.Error = MsgListFailed
	}
	h.views.Render(w, http.StatusOK, "practice_list.tmpl", data)
}

// GeneratePractice adds a pending row, asks the backend for a new practice
// and either confirms the row with the result or rolls it back
func (h *PracticeHandler) GeneratePractice(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	subject := r.FormValue("subject")
	if subject == "" {
		subject = defaultPracticeSubject
	}
	if !slices.Contains(models.TutorSubjects, subject) {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", nil)
		return
	}

	opID := h.practices.Begin(session.ID, subject)
	practice, err := h.client.GeneratePractice(r.Context(), session.UserID, subject)
	if err != nil {
		h.practices.Rollback(session.ID, opID)
		h.logger.Warn("failed to generate practice", zap.String("user_id", session.UserID), zap.Error(err))

		data := h.listData(r, session, subject)
		data.Error = upstream.MessageOf(err, MsgGenerateFailed)
		h.views.Render(w, http.StatusOK, "practice_list.tmpl", data)
		return
	}

	h.practices.Confirm(session.ID, opID, *practice)
	http.Redirect(w, r, "/adaptive-practice", http.StatusSeeOther)
}

// ShowPractice renders one practice. ?unsynced=1 marks a completion the
// backend did not record.
func (h *PracticeHandler) ShowPractice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	practice, err := h.client.GetPractice(r.Context(), id)
	if err != nil {
		h.renderPracticeError(w, r, err)
		return
	}

	data := PracticeDetailViewData{
		PageData:  h.views.Page(r, practice.Title),
		Practice:  practice,
		Resources: practice.ParsedResources(),
	}
	if r.URL.Query().Get("unsynced") == "1" && !practice.Completed {
		practice.Completed = true
		data.Unsynced = true
		data.Error = MsgCompleteUnsynced
	}
	h.views.Render(w, http.StatusOK, "practice_detail.tmpl", data)
}

// CompletePractice marks a practice complete. A failed update still shows
// the practice as completed, flagged as not saved.
func (h *PracticeHandler) CompletePractice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	target := "/adaptive-practice/" + url.PathEscape(id)

	if _, err := h.client.CompletePractice(r.Context(), id); err != nil {
		h.logger.Warn("failed to complete practice", zap.String("practice_id", id), zap.Error(err))
		http.Redirect(w, r, target+"?unsynced=1", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *PracticeHandler) renderPracticeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusBadGateway, MsgListFailed
	var se *upstream.StatusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		status, msg = http.StatusNotFound, MsgNotFound
	}
	h.logger.Warn("failed to load practice", zap.String("practice_id", r.PathValue("id")), zap.Error(err))

	data := PracticeDetailViewData{PageData: h.views.Page(r, "Practice not found")}
	data.Error = msg
	h.views.Render(w, status, "practice_detail.tmpl", data)
}
