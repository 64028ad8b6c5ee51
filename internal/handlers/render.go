package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"smartedtech/internal/security"
)

// Renderer executes page templates and builds the shared layout data
type Renderer struct {
	templates *template.Template
	signer    *security.TokenSigner
	logger    *zap.Logger
}

// NewRenderer creates a renderer over parsed templates
func NewRenderer(templates *template.Template, signer *security.TokenSigner, logger *zap.Logger) *Renderer {
	return &Renderer{templates: templates, signer: signer, logger: logger}
}

// Page builds the layout data for the current request
func (v *Renderer) Page(r *http.Request, title string) PageData {
	data := PageData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Nav:         Navigation(r.URL.Path),
	}
	if session := GetSessionFromContext(r); session != nil {
		user := session.User
		data.User = &user
		data.CSRFToken = v.signer.CSRFToken(session.ID)
	}
	return data
}

// Render executes name into a buffer so a template error never leaves a
// half-written page
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := v.templates.ExecuteTemplate(&buf, name, data); err != nil {
		respondWithError(w, v.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
