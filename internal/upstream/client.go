// Package upstream talks to the learning backend that owns users,
// coursework and generated content.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxBodyBytes caps how much of an upstream reply is buffered
const maxBodyBytes = 4 << 20

// ErrUnavailable wraps transport and read failures talking to the backend
var ErrUnavailable = errors.New("upstream unavailable")

// StatusError is returned by typed calls when the backend answers non-2xx
type StatusError struct {
	Op      string
	Status  int
	Body    []byte
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: upstream status %d", e.Op, e.Status)
}

// Response is a raw backend reply
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client sends requests to the backend's /api tree
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics
}

// NewClient creates a client for baseURL (scheme and host, no /api suffix).
// A nil metrics disables instrumentation.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger, metrics *Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// URL builds the absolute backend URL for an /api-relative path
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends one request and buffers the reply. Any status is returned as a
// Response; only transport and read failures produce an error, always
// wrapping ErrUnavailable.
func (c *Client) Do(ctx context.Context, op, method, path string, query url.Values, body []byte) (*Response, error) {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op, "error", start)
		c.logger.Warn("upstream request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.observe(op, "error", start)
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrUnavailable, op, err)
	}

	outcome := "ok"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "http_error"
	}
	c.observe(op, outcome, start)

	c.logger.Debug("upstream request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) observe(op, outcome string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.Requests.WithLabelValues(op, outcome).Inc()
	c.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// call sends in as JSON (when non-nil) and decodes a 2xx reply into out
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
	}

	resp, err := c.Do(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return &StatusError{
			Op:      op,
			Status:  resp.Status,
			Body:    resp.Body,
			Message: ErrorMessage(resp.Body),
		}
	}

	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %s: decode body: %v", ErrUnavailable, op, err)
	}
	return nil
}

// ErrorMessage extracts a human message from a backend error body,
// preferring "message" over "error".
func ErrorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// MessageOf returns the backend's message for a StatusError, or fallback
func MessageOf(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
