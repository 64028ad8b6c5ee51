package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"smartedtech/internal/models"
	"smartedtech/internal/service"
	"smartedtech/internal/upstream"
)

type TutorHandler struct {
	client   *upstream.Client
	sessions *service.OptimisticList[models.TutorSession]
	views    *Renderer
	logger   *zap.Logger
}

func NewTutorHandler(client *upstream.Client, sessions *service.OptimisticList[models.TutorSession], views *Renderer, logger *zap.Logger) *TutorHandler {
	return &TutorHandler{client: client, sessions: sessions, views: views, logger: logger}
}

func (h *TutorHandler) listData(r *http.Request, session *models.Session, subject string) TutorListViewData {
	return TutorListViewData{
		PageData: h.views.Page(r, "Personalized Tutor"),
		Entries:  h.sessions.Entries(session.ID),
		Subjects: models.TutorSubjects,
		Subject:  subject,
	}
}

// ShowSessions lists tutor sessions and the user's graded quiz history
func (h *TutorHandler) ShowSessions(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	tutorSessions, err := h.client.ListTutorSessions(r.Context(), session.UserID)
	if err == nil {
		h.sessions.Replace(session.ID, tutorSessions)
	}

	data := h.listData(r, session, models.TutorSubjects[0])
	if err != nil {
		h.logger.Warn("failed to list tutor sessions", zap.String("user_id", session.UserID), zap.Error(err))
		data.Error = MsgListFailed
	}

	history, err := h.client.PerformanceHistory(r.Context(), session.UserID, "")
	if err != nil {
		h.logger.Warn("failed to load performance history", zap.String("user_id", session.UserID), zap.Error(err))
	} else {
		data.History = history
	}

	if r.URL.Query().Get("generated") == "1" {
		data.Success = "Your new tutor session is ready."
	}
	h.views.Render(w, http.StatusOK, "tutor_list.tmpl", data)
}

// GenerateSession creates a lesson for one of the tutor subjects
func (h *TutorHandler) GenerateSession(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	subject := r.FormValue("subject")
	if !slices.Contains(models.TutorSubjects, subject) {
		data := h.listData(r, session, models.TutorSubjects[0])
		data.Error = "Please choose a subject"
		h.views.Render(w, http.StatusOK, "tutor_list.tmpl", data)
		return
	}

	opID := h.sessions.Begin(session.ID, subject)
	tutorSession, err := h.client.GenerateTutorSession(r.Context(), session.UserID, subject)
	if err != nil {
		h.sessions.Rollback(session.ID, opID)
		h.logger.Warn("failed to generate tutor session", zap.String("user_id", session.UserID), zap.Error(err))

		data := h.listData(r, session, subject)
		data.Error = upstream.MessageOf(err, MsgGenerateFailed)
		h.views.Render(w, http.StatusOK, "tutor_list.tmpl", data)
		return
	}

	h.sessions.Confirm(session.ID, opID, *tutorSession)
	http.Redirect(w, r, "/personalized-tutor?generated=1", http.StatusSeeOther)
}

// ShowSession renders the lesson and its quiz. A completed session shows
// the result rebuilt from its stored score.
func (h *TutorHandler) ShowSession(w http.ResponseWriter, r *http.Request) {
	tutorSession, questions, ok := h.load(w, r)
	if !ok {
		return
	}

	data := TutorDetailViewData{
		PageData:  h.views.Page(r, tutorSession.Title),
		Session:   tutorSession,
		Questions: service.ReviewQuestions(questions, nil),
	}
	if result := tutorSession.StoredResult(len(questions)); result != nil {
		review := service.ReviewQuiz(questions, nil, *result)
		data.Review = &review
	}
	h.views.Render(w, http.StatusOK, "tutor_detail.tmpl", data)
}

// SubmitQuiz grades the answers on the backend. Every question needs an
// answer before anything is sent.
func (h *TutorHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	tutorSession, questions, ok := h.load(w, r)
	if !ok {
		return
	}

	raw := make([]string, len(questions))
	for i := range questions {
		raw[i] = r.FormValue(fmt.Sprintf("q%d", i))
	}

	data := TutorDetailViewData{
		PageData:  h.views.Page(r, tutorSession.Title),
		Session:   tutorSession,
		Questions: service.ReviewQuestions(questions, raw),
	}

	answers, err := service.CheckAnswers(raw, len(questions))
	if err != nil {
		data.Error = service.MsgIncompleteAnswers
		h.views.Render(w, http.StatusOK, "tutor_detail.tmpl", data)
		return
	}

	result, err := h.client.SubmitQuiz(r.Context(), tutorSession.ID.String(), answers)
	if err != nil {
		h.logger.Warn("failed to submit quiz", zap.String("session_id", tutorSession.ID.String()), zap.Error(err))
		data.Error = upstream.MessageOf(err, MsgSubmitFailed)
		h.views.Render(w, http.StatusOK, "tutor_detail.tmpl", data)
		return
	}

	review := service.ReviewQuiz(questions, answers, *result)
	data.Review = &review
	data.Questions = review.Questions
	h.views.Render(w, http.StatusOK, "tutor_detail.tmpl", data)
}

// load fetches the session named in the path and decodes its quiz,
// rendering the error page itself when either fails
func (h *TutorHandler) load(w http.ResponseWriter, r *http.Request) (*models.TutorSession, []models.QuizQuestion, bool) {
	id := r.PathValue("id")

	tutorSession, err := h.client.GetTutorSession(r.Context(), id)
	if err != nil {
		status, msg := http.StatusBadGateway, MsgListFailed
		var se *upstream.StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			status, msg = http.StatusNotFound, MsgNotFound
		}
		h.logger.Warn("failed to load tutor session", zap.String("session_id", id), zap.Error(err))

		data := TutorDetailViewData{PageData: h.views.Page(r, "Tutor Session")}
		data.Error = msg
		h.views.Render(w, status, "tutor_detail.tmpl", data)
		return nil, nil, false
	}

	questions, err := tutorSession.Questions()
	if err != nil {
		h.logger.Warn("invalid quiz data", zap.String("session_id", id), zap.Error(err))
		data := TutorDetailViewData{
			PageData: h.views.Page(r, tutorSession.Title),
			Session:  tutorSession,
		}
		data.Error = "This session's quiz could not be loaded."
		h.views.Render(w, http.StatusOK, "tutor_detail.tmpl", data)
		return nil, nil, false
	}
	return tutorSession, questions, true
}
