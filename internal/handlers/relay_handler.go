package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"smartedtech/internal/upstream"
)

// maxRelayBody caps request bodies forwarded to the backend
const maxRelayBody = 1 << 20

// RelayHandler forwards /api requests to the backend unchanged
type RelayHandler struct {
	client *upstream.Client
	logger *zap.Logger
}

func NewRelayHandler(client *upstream.Client, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{client: client, logger: logger}
}

// relayCall describes one forwarded request. action is the human
// wording used in generic error bodies ("fetch adaptive practices").
type relayCall struct {
	op      string
	action  string
	method  string
	path    string
	query   []string
	created bool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *RelayHandler) forward(w http.ResponseWriter, r *http.Request, call relayCall) {
	var body []byte
	if call.method == http.MethodPost || call.method == http.MethodPut {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxRelayBody))
		if err != nil || !json.Valid(data) {
			h.logger.Warn("relay body is not JSON", zap.String("op", call.op))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to " + call.action})
			return
		}
		body = data
	}

	var query url.Values
	for _, key := range call.query {
		if v := r.URL.Query().Get(key); v != "" {
			if query == nil {
				query = url.Values{}
			}
			query.Set(key, v)
		}
	}

	resp, err := h.client.Do(r.Context(), call.op, call.method, call.path, query, body)
	if err != nil {
		h.logger.Error("relay failed", zap.String("op", call.op), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to " + call.action})
		return
	}

	if !resp.OK() {
		if json.Valid(resp.Body) {
			writeRawJSON(w, resp.Status, resp.Body)
			return
		}
		writeJSON(w, resp.Status, map[string]string{"error": capitalize(call.action) + " failed"})
		return
	}

	if !json.Valid(resp.Body) {
		h.logger.Error("relay reply is not JSON", zap.String("op", call.op), zap.Int("status", resp.Status))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to " + call.action})
		return
	}

	status := resp.Status
	if call.created {
		status = http.StatusCreated
	}
	writeRawJSON(w, status, resp.Body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (h *RelayHandler) ListPractices(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpListPractices, action: "fetch adaptive practices",
		method: http.MethodGet, path: "/adaptive-practice", query: []string{"user_id", "subject"},
	})
}

func (h *RelayHandler) CreatePractice(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpCreatePractice, action: "create adaptive practice",
		method: http.MethodPost, path: "/adaptive-practice",
	})
}

func (h *RelayHandler) GeneratePractice(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpGeneratePractice, action: "generate adaptive practice",
		method: http.MethodPost, path: "/adaptive-practice/generate",
	})
}

func (h *RelayHandler) GetPractice(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpGetPractice, action: "fetch adaptive practice",
		method: http.MethodGet, path: "/adaptive-practice/" + url.PathEscape(r.PathValue("id")),
	})
}

func (h *RelayHandler) UpdatePractice(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpUpdatePractice, action: "update adaptive practice",
		method: http.MethodPut, path: "/adaptive-practice/" + url.PathEscape(r.PathValue("id")),
	})
}

// ListBoosters maps ?userId= onto the backend's /boosters/{userId}
func (h *RelayHandler) ListBoosters(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "User ID is required"})
		return
	}
	h.forward(w, r, relayCall{
		op: upstream.OpListBoosters, action: "fetch performance boosters",
		method: http.MethodGet, path: "/boosters/" + url.PathEscape(userID),
	})
}

func (h *RelayHandler) CreateBooster(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpCreateBooster, action: "create performance booster",
		method: http.MethodPost, path: "/boosters", created: true,
	})
}

func (h *RelayHandler) GetBooster(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpGetBooster, action: "fetch performance booster",
		method: http.MethodGet, path: "/boosters/" + url.PathEscape(r.PathValue("id")),
	})
}

func (h *RelayHandler) ListTutorSessions(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpListTutorSessions, action: "fetch tutor sessions",
		method: http.MethodGet, path: "/personalized-tutor", query: []string{"user_id"},
	})
}

func (h *RelayHandler) GenerateTutorSession(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpGenerateTutor, action: "generate tutor session",
		method: http.MethodPost, path: "/personalized-tutor/generate",
	})
}

func (h *RelayHandler) GetTutorSession(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpGetTutorSession, action: "fetch tutor session",
		method: http.MethodGet, path: "/personalized-tutor/" + url.PathEscape(r.PathValue("id")),
	})
}

func (h *RelayHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpSubmitQuiz, action: "submit quiz",
		method: http.MethodPost, path: "/personalized-tutor/" + url.PathEscape(r.PathValue("id")) + "/submit",
	})
}

func (h *RelayHandler) PerformanceHistory(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, relayCall{
		op: upstream.OpPerformanceHistory, action: "fetch performance history",
		method: http.MethodGet, path: "/personalized-tutor/performance-history", query: []string{"user_id", "subject"},
	})
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
