package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "goalplan/internal/platform/errors"
	"goalplan/internal/platform/id"
)

const maxErrorBody = 64 << 10

// Request is one JSON call against the API. Token is sent as
// `Authorization: Token <token>` when non-empty.
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string
}

type Client struct {
	baseURL   string
	http      *http.Client
	ids       id.Generator
	log       *zap.Logger
	userAgent string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Transport: c.http.Transport, Timeout: d}
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithRequestIDs(gen id.Generator) Option {
	return func(c *Client) { c.ids = gen }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		ids:       id.UUID{},
		log:       zap.NewNop(),
		userAgent: "goalplan",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req and decodes a successful JSON response into out (which may be
// nil). Transport failures return *apperrors.NetworkError; statuses >= 400
// return *apperrors.APIError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	op := req.Method + " " + req.Path

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	requestID := c.ids.New()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Token "+req.Token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.String("request_id", requestID), zap.Error(err))
		return &apperrors.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperrors.APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.NetworkError{Op: op, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// errorMessage prefers the payload's `error` field, then `message`.
func errorMessage(raw []byte) string {
	payload := struct {
		Error   any `json:"error"`
		Message any `json:"message"`
	}{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if s := asText(payload.Error); s != "" {
		return s
	}
	return asText(payload.Message)
}

func asText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
