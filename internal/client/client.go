// ABOUTME: HTTP gateway for the paper-polish backend API
// ABOUTME: Wraps every call in the uniform envelope contract with typed errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// transportTimeout is the outer HTTP client deadline. Individual operations
// may enforce shorter deadlines through their context.
const transportTimeout = 60 * time.Second

// TokenSource supplies the current access token for authenticated calls.
// An empty string means no session, and no Authorization header is sent.
type TokenSource interface {
	AccessToken() string
}

// Client is the API gateway for the paper-polish backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a gateway for the given base URL. tokens may be nil for an
// unauthenticated client.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: transportTimeout,
		},
		tokens: tokens,
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the uniform response wrapper used by every backend endpoint.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"trace_id"`
}

// Result is the normalized success payload of a backend call, identical in
// shape regardless of endpoint.
type Result struct {
	Data    json.RawMessage
	Message string
	TraceID string
}

// call performs one HTTP exchange and normalizes the response envelope.
// body is JSON-marshaled when non-nil. The access token, when present, is
// attached as a bearer Authorization header.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any) (*Result, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &RequestTimeoutError{Err: err}
		}
		return nil, &TransportError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProtocolError{Status: resp.StatusCode, Kind: protocolKind(resp.StatusCode)}
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, &ProtocolError{Status: resp.StatusCode, Kind: KindNotJSON}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &ProtocolError{Status: resp.StatusCode, Kind: KindNotJSON}
	}

	if env.Code != CodeSuccess {
		msg := env.Message
		if msg == "" {
			msg = MessageForCode(env.Code)
		}
		return nil, &ApplicationError{Code: env.Code, Message: msg, TraceID: env.TraceID}
	}

	return &Result{Data: env.Data, Message: env.Message, TraceID: env.TraceID}, nil
}

// Health probes GET /api/v1/health. The result is derived from the HTTP
// status alone; the body is not inspected.
func (c *Client) Health(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, &RequestTimeoutError{Err: err}
		}
		return false, &TransportError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
