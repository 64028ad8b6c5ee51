package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"smartedtech/internal/gate"
	"smartedtech/internal/models"
	"smartedtech/internal/security"
	"smartedtech/internal/service"
	"smartedtech/internal/upstream"
	"smartedtech/internal/validation"
)

// SessionState is per-session view state dropped on logout
type SessionState interface {
	Forget(sessionID string)
}

type AuthHandler struct {
	authService *service.AuthService
	views       *Renderer
	state       []SessionState
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, views *Renderer, logger *zap.Logger, state ...SessionState) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		views:       views,
		state:       state,
		logger:      logger,
	}
}

func (h *AuthHandler) ShowSignIn(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "signin.tmpl", SignInViewData{
		Title:     "Sign In",
		LoginType: models.RoleStudent,
		Redirect:  r.URL.Query().Get("redirect"),
		DemoHint:  h.authService.DemoMode(),
	})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	form := validation.SignInForm{
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		LoginType: r.FormValue("login_type"),
	}
	redirect := r.FormValue("redirect")

	fail := func(msg string) {
		h.views.Render(w, http.StatusOK, "signin.tmpl", SignInViewData{
			Title:     "Sign In",
			Error:     msg,
			Email:     form.Email,
			LoginType: form.LoginType,
			Redirect:  redirect,
			DemoHint:  h.authService.DemoMode(),
		})
	}

	if err := validation.ValidateSignIn(&form); err != nil {
		msg := validation.MsgSignInMissing
		if verrs, ok := validation.AsValidationErrors(err); ok && !verrs.Has("Email") && !verrs.Has("Password") {
			msg = strings.Join(verrs.Messages(), " ")
		}
		fail(msg)
		return
	}

	session, token, err := h.authService.Login(r.Context(), form.Email, form.Password, form.LoginType)
	if err != nil {
		h.logger.Info("sign-in failed", zap.String("email", form.Email), zap.Error(err))
		fail(service.LoginErrorMessage(err, MsgSignInFailed))
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, token, session.ExpiresAt.Sub(session.CreatedAt)))
	http.Redirect(w, r, gate.SafeRedirect(redirect), http.StatusSeeOther)
}

func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "register.tmpl", RegisterViewData{
		Title: "Create Account",
		Rules: validation.PasswordRules(""),
	})
}

// Register validates locally before any network call
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	form := validation.RegistrationForm{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	data := RegisterViewData{
		Title: "Create Account",
		Name:  form.Name,
		Email: form.Email,
		Rules: validation.PasswordRules(form.Password),
	}

	if err := validation.ValidateRegistration(&form); err != nil {
		data.Error = validation.MsgRegistrationInvalid
		if verrs, ok := validation.AsValidationErrors(err); ok {
			data.Errors = verrs.Messages()
		}
		h.views.Render(w, http.StatusOK, "register.tmpl", data)
		return
	}

	if _, err := h.authService.Register(r.Context(), form.Name, form.Email, form.Password); err != nil {
		h.logger.Info("registration failed", zap.String("email", form.Email), zap.Error(err))
		data.Error = upstream.MessageOf(err, MsgRegisterFailed)
		h.views.Render(w, http.StatusOK, "register.tmpl", data)
		return
	}

	h.views.Render(w, http.StatusOK, "register.tmpl", RegisterViewData{
		Title:      "Account Created",
		Name:       form.Name,
		Email:      form.Email,
		Registered: true,
	})
}

func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "reset_password.tmpl", ResetPasswordViewData{
		Title: "Reset Password",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	form := validation.ResetPasswordForm{Email: r.FormValue("email")}
	data := ResetPasswordViewData{Title: "Reset Password", Email: form.Email}

	if err := validation.ValidateResetPassword(&form); err != nil {
		data.Error = validation.MsgRequiredFields
		h.views.Render(w, http.StatusOK, "reset_password.tmpl", data)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), form.Email); err != nil {
		h.logger.Info("password reset failed", zap.String("email", form.Email), zap.Error(err))
		data.Error = MsgResetFailed
		h.views.Render(w, http.StatusOK, "reset_password.tmpl", data)
		return
	}

	data.Sent = true
	h.views.Render(w, http.StatusOK, "reset_password.tmpl", data)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r); session != nil {
		if err := h.authService.Logout(r.Context(), session.ID); err != nil {
			h.logger.Error("failed to delete session", zap.String("session_id", session.ID), zap.Error(err))
		}
		for _, s := range h.state {
			s.Forget(session.ID)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r))
	http.Redirect(w, r, gate.SignInPath, http.StatusSeeOther)
}
