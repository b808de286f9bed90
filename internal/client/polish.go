// ABOUTME: Polishing endpoints: single-version, multi-version, and version selection
// ABOUTME: Normalizes trace-id placement differences between envelope and data payloads

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Polishing styles accepted by the backend.
const (
	StyleAcademic = "academic"
	StyleFormal   = "formal"
	StyleConcise  = "concise"
	StyleDetailed = "detailed"
)

// Multi-version variant keys produced by the backend.
const (
	VersionConservative = "conservative"
	VersionBalanced     = "balanced"
	VersionAggressive   = "aggressive"
)

// VersionKeys lists the variant keys in presentation order.
var VersionKeys = []string{VersionConservative, VersionBalanced, VersionAggressive}

// Variant statuses inside a multi-version response.
const (
	VersionStatusSuccess = "success"
	VersionStatusFailed  = "failed"
	VersionStatusPending = "pending"
)

// PolishRequest is the payload for POST /api/v1/polish.
type PolishRequest struct {
	Content  string `json:"content"`
	Style    string `json:"style"`
	Language string `json:"language"`
	Provider string `json:"provider,omitempty"`
}

// MultiPolishRequest is the payload for POST /api/v1/polish/multi. Versions
// optionally restricts which variants to generate; empty means all three.
type MultiPolishRequest struct {
	Content  string   `json:"content"`
	Style    string   `json:"style"`
	Language string   `json:"language"`
	Provider string   `json:"provider,omitempty"`
	Versions []string `json:"versions,omitempty"`
}

// PolishResult is the normalized payload of a single-version polish or a
// version selection.
type PolishResult struct {
	TraceID         string `json:"trace_id"`
	OriginalContent string `json:"original_content"`
	PolishedContent string `json:"polished_content"`
	ProviderUsed    string `json:"provider_used"`
	ModelUsed       string `json:"model_used"`
}

// VersionResult is one variant of a multi-version response. A failed variant
// is terminal; the backend does not retry it.
type VersionResult struct {
	Status          string   `json:"status"`
	PolishedContent string   `json:"polished_content"`
	PolishedLength  int      `json:"polished_length"`
	ProcessTimeMs   int64    `json:"process_time_ms"`
	Suggestions     []string `json:"suggestions,omitempty"`
	ErrorMessage    string   `json:"error_message,omitempty"`
}

// MultiPolishResult is the payload of POST /api/v1/polish/multi.
type MultiPolishResult struct {
	TraceID         string                   `json:"trace_id"`
	OriginalContent string                   `json:"original_content"`
	Versions        map[string]VersionResult `json:"versions"`
	ProviderUsed    string                   `json:"provider_used"`
}

// decodePolishResult maps a success envelope onto a PolishResult. The trace
// id historically appeared either inside data or only on the envelope; the
// envelope value fills the gap when data omits it.
func decodePolishResult(res *Result) (*PolishResult, error) {
	var result PolishResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	if result.TraceID == "" {
		result.TraceID = res.TraceID
	}
	if result.PolishedContent == "" {
		return nil, &MalformedResponseError{Field: "polished_content"}
	}
	if result.TraceID == "" {
		return nil, &MalformedResponseError{Field: "trace_id"}
	}
	return &result, nil
}

// Polish submits a single-version polishing request.
func (c *Client) Polish(ctx context.Context, req *PolishRequest) (*PolishResult, error) {
	res, err := c.call(ctx, http.MethodPost, "/api/v1/polish", nil, req)
	if err != nil {
		return nil, err
	}
	return decodePolishResult(res)
}

// PolishMulti submits a multi-version polishing request. The caller is
// expected to bound ctx with its own deadline; a response without a versions
// map is malformed even though the HTTP call succeeded.
func (c *Client) PolishMulti(ctx context.Context, req *MultiPolishRequest) (*MultiPolishResult, error) {
	res, err := c.call(ctx, http.MethodPost, "/api/v1/polish/multi", nil, req)
	if err != nil {
		return nil, err
	}

	var result MultiPolishResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	if result.Versions == nil {
		return nil, &MalformedResponseError{Field: "versions"}
	}
	if result.TraceID == "" {
		result.TraceID = res.TraceID
	}
	if result.TraceID == "" {
		return nil, &MalformedResponseError{Field: "trace_id"}
	}
	return &result, nil
}

// SelectVersion commits one variant of a multi-version request as the
// content for comparison.
func (c *Client) SelectVersion(ctx context.Context, traceID, version string) (*PolishResult, error) {
	query := url.Values{"version": []string{version}}
	res, err := c.call(ctx, http.MethodPost, "/api/v1/polish/select-version/"+traceID, query, nil)
	if err != nil {
		return nil, err
	}
	return decodePolishResult(res)
}
