package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartedtech/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewClient(srv.URL+"/", srv.Client(), zap.NewNop(), metrics), metrics
}

func TestDoRelaysErrorStatusAndBody(t *testing.T) {
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/adaptive-practice/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	})

	resp, err := client.Do(context.Background(), OpGetPractice, http.MethodGet, "/adaptive-practice/42", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.JSONEq(t, `{"message":"not found"}`, string(resp.Body))
	assert.False(t, resp.OK())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(OpGetPractice, "http_error")))
}

func TestDoConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	metrics := NewMetrics(prometheus.NewRegistry())
	client := NewClient("http://"+addr, nil, zap.NewNop(), metrics)

	_, err = client.Do(context.Background(), OpDashboard, http.MethodGet, "/dashboard/user/1", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(OpDashboard, "error")))
}

func TestCallReturnsStatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), "a@b.com", "nope")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "Invalid credentials", se.Message)
	assert.Equal(t, "Invalid credentials", MessageOf(err, "Login failed"))
	assert.Equal(t, "Login failed", MessageOf(errors.New("boom"), "Login failed"))
}

func TestCallDecodeFailureIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := client.GetPractice(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoginDecodesUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ada@example.com", in["email"])

		_, _ = w.Write([]byte(`{"message":"Login successful","user":{"id":7,"name":"Ada","email":"ada@example.com","role":"student"}}`))
	})

	user, err := client.Login(context.Background(), "ada@example.com", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, models.ID("7"), user.ID)
	assert.Equal(t, "Ada", user.Name)
}

func TestLoginWithoutUserFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := client.Login(context.Background(), "ada@example.com", "Secret1")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
}

func TestQueryParameters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/adaptive-practice":
			assert.Equal(t, "9", r.URL.Query().Get("user_id"))
			assert.Equal(t, "Physics", r.URL.Query().Get("subject"))
		case "/api/assignments/9":
			assert.Equal(t, "pending", r.URL.Query().Get("status"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	practices, err := client.ListPractices(context.Background(), "9", "Physics")
	require.NoError(t, err)
	assert.Empty(t, practices)

	assignments, err := client.Assignments(context.Background(), "9", "pending")
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestCompletePracticeSendsCompletedFlag(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"completed":true}`, string(body))
		_, _ = w.Write([]byte(`{"id":3,"subject":"Math","completed":true}`))
	})

	practice, err := client.CompletePractice(context.Background(), "3")
	require.NoError(t, err)
	assert.True(t, practice.Completed)
}

func TestSubmitQuiz(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/personalized-tutor/5/submit", r.URL.Path)
		var in struct {
			Answers []string `json:"answers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, []string{"A", "C"}, in.Answers)
		_, _ = w.Write([]byte(`{"score":50,"correct_count":1,"total_questions":2}`))
	})

	result, err := client.SubmitQuiz(context.Background(), "5", []string{"A", "C"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 2, result.TotalQuestions)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "m", ErrorMessage([]byte(`{"message":"m","error":"e"}`)))
	assert.Equal(t, "e", ErrorMessage([]byte(`{"error":"e"}`)))
	assert.Equal(t, "", ErrorMessage([]byte(`not json`)))
}

func TestURL(t *testing.T) {
	client := NewClient("http://backend:5000/", nil, zap.NewNop(), nil)
	assert.Equal(t, "http://backend:5000/api/boosters/1", client.URL("/boosters/1", nil))
}
