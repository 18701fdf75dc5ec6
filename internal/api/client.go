package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agrimart/internal/metrics"
	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer token for authenticated requests. The
// session store implements this; the client never mutates the token.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the HTTP client for the marketplace backend. All calls are
// JSON request/response with bearer-token authorisation.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a backend API client.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger.With().Str("component", "api-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// request describes one backend call.
type request struct {
	op     string // stable label for logs and metrics
	method string
	path   string
	body   any
	authed bool
	header http.Header
}

// do executes a request and decodes the response body into out (which may
// be nil). Auth failures map to sentinel domain errors so call sites can
// tell them apart from transient network errors.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if req.authed {
		if _, ok := c.tokens.Token(); !ok {
			return model.ErrUnauthorised
		}
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.op, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.op, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Correlation-Id", uuid.NewString())
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.authed {
		token, _ := c.tokens.Token()
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.RecordAPIRequest(req.op, "network_error")
		c.logger.Warn().Err(err).Str("op", req.op).Msg("request failed")
		return fmt.Errorf("%s: %w", req.op, err)
	}
	defer resp.Body.Close()

	metrics.RecordAPIRequest(req.op, fmt.Sprintf("%d", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return model.ErrUnauthorised
	case resp.StatusCode == http.StatusForbidden:
		return model.ErrForbidden
	case resp.StatusCode >= 400:
		return c.decodeFailure(req.op, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.op, err)
	}

	// Business failures come back with 200 and {success:false, message}.
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, fmt.Sprintf("malformed %s response", req.op))
	}
	if !env.Success {
		c.logger.Debug().Str("op", req.op).Str("message", env.Message).Msg("server rejected request")
		return model.NewDomainError(model.ErrCodeServerRejected, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return model.NewDomainError(model.ErrCodeInvalidJSON, fmt.Sprintf("malformed %s response", req.op))
		}
	}

	return nil
}

// decodeFailure turns a non-auth HTTP error into a domain error, passing
// the server's message through verbatim when one is present.
func (c *Client) decodeFailure(op string, resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
		return model.NewDomainError(model.ErrCodeServerRejected, env.Message)
	}
	return model.NewDomainError(model.ErrCodeInternalError, fmt.Sprintf("%s failed with status %d", op, resp.StatusCode))
}
