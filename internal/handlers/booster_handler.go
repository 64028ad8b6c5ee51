package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"smartedtech/internal/models"
	"smartedtech/internal/service"
	"smartedtech/internal/upstream"
	"smartedtech/internal/validation"
)

type BoosterHandler struct {
	client *upstream.Client
	views  *Renderer
	logger *zap.Logger
	now    func() time.Time
}

func NewBoosterHandler(client *upstream.Client, views *Renderer, logger *zap.Logger) *BoosterHandler {
	return &BoosterHandler{client: client, views: views, logger: logger, now: time.Now}
}

func (h *BoosterHandler) formData(r *http.Request, userID string) BoosterFormViewData {
	data := BoosterFormViewData{PageData: h.views.Page(r, "Performance Booster Generator")}

	assignments, err := h.client.Assignments(r.Context(), userID, "")
	if err != nil {
		h.logger.Warn("failed to load assignments", zap.String("user_id", userID), zap.Error(err))
	} else {
		data.Assignments = assignments
	}

	boosters, err := h.client.ListBoosters(r.Context(), userID)
	if err != nil {
		h.logger.Warn("failed to load boosters", zap.String("user_id", userID), zap.Error(err))
	} else {
		data.Boosters = boosters
	}
	return data
}

// ShowForm renders the generator. Picking an assignment with
// ?assignment_id= fills in its subject, title and score.
func (h *BoosterHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	data := h.formData(r, session.UserID)
	if picked := r.URL.Query().Get("assignment_id"); picked != "" {
		for _, a := range data.Assignments {
			if a.ID.String() != picked {
				continue
			}
			data.Form = validation.BoosterForm{
				AssignmentID:    picked,
				Subject:         a.Subject,
				AssignmentTitle: a.Title,
			}
			if a.Score != nil {
				data.Form.Grade = strconv.FormatFloat(*a.Score, 'f', -1, 64)
			}
			break
		}
	}
	h.views.Render(w, http.StatusOK, "booster_form.tmpl", data)
}

// CreateBooster validates the form and asks the backend for a booster
func (h *BoosterHandler) CreateBooster(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	form := validation.BoosterForm{
		AssignmentID:    r.FormValue("assignment_id"),
		Subject:         r.FormValue("subject"),
		AssignmentTitle: r.FormValue("assignment_title"),
		Grade:           r.FormValue("grade"),
		Feedback:        r.FormValue("feedback"),
	}

	if err := validation.ValidateBooster(&form); err != nil {
		data := h.formData(r, session.UserID)
		data.Form = form
		data.Error = validation.MsgRequiredFields
		if verrs, ok := validation.AsValidationErrors(err); ok {
			data.Errors = verrs.Messages()
		}
		h.views.Render(w, http.StatusOK, "booster_form.tmpl", data)
		return
	}

	booster, err := h.client.CreateBooster(r.Context(), models.BoosterRequest{
		UserID:          session.UserID,
		AssignmentID:    form.AssignmentID,
		Subject:         form.Subject,
		AssignmentTitle: form.AssignmentTitle,
		Grade:           form.GradeValue(),
		Feedback:        form.Feedback,
	})
	if err != nil {
		h.logger.Warn("failed to create booster", zap.String("user_id", session.UserID), zap.Error(err))
		data := h.formData(r, session.UserID)
		data.Form = form
		data.Error = upstream.MessageOf(err, MsgBoosterFailed)
		h.views.Render(w, http.StatusOK, "booster_form.tmpl", data)
		return
	}

	http.Redirect(w, r, "/performance-booster/"+url.PathEscape(booster.ID.String()), http.StatusSeeOther)
}

// ShowBooster renders a booster and its unanswered self-check
func (h *BoosterHandler) ShowBooster(w http.ResponseWriter, r *http.Request) {
	booster, demo := h.load(r)
	h.views.Render(w, http.StatusOK, "booster_detail.tmpl", h.detailData(r, booster, demo, nil, false))
}

// CheckAssessment grades the self-check answers locally
func (h *BoosterHandler) CheckAssessment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	booster, demo := h.load(r)
	assessment := booster.ParsedAssessment()
	answers := make([]string, len(assessment.Questions))
	for i := range answers {
		answers[i] = r.FormValue(fmt.Sprintf("q%d", i))
	}
	h.views.Render(w, http.StatusOK, "booster_detail.tmpl", h.detailData(r, booster, demo, answers, true))
}

// load fetches the booster in the path, falling back to the demonstration
// booster when the backend cannot provide it
func (h *BoosterHandler) load(r *http.Request) (*models.Booster, bool) {
	id := r.PathValue("id")
	booster, err := h.client.GetBooster(r.Context(), id)
	if err != nil {
		h.logger.Info("showing demo booster", zap.String("booster_id", id), zap.Error(err))
		return service.DemoBooster(id, h.now()), true
	}
	return booster, false
}

func (h *BoosterHandler) detailData(r *http.Request, booster *models.Booster, demo bool, answers []string, submitted bool) BoosterDetailViewData {
	assessment := booster.ParsedAssessment()
	reviews := service.CheckAssessment(assessment, answers, submitted)
	correct, graded := service.CountCorrect(reviews)

	return BoosterDetailViewData{
		PageData:   h.views.Page(r, booster.AssignmentTitle),
		Booster:    booster,
		Strategies: booster.StrategyList(),
		Resources:  booster.ResourceList(),
		Guidance:   assessment.Guidance,
		Reviews:    reviews,
		Submitted:  submitted,
		Correct:    correct,
		Graded:     graded,
		Demo:       demo,
	}
}
