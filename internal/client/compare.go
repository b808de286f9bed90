// ABOUTME: Comparison endpoints: fetch comparison state and apply edit actions
// ABOUTME: After any action the server-returned content replaces local state wholesale

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
)

// Annotation change types.
const (
	ChangeVocabulary = "vocabulary"
	ChangeGrammar    = "grammar"
	ChangeStructure  = "structure"
)

// Annotation statuses.
const (
	AnnotationPending  = "pending"
	AnnotationAccepted = "accepted"
	AnnotationRejected = "rejected"
)

// Edit actions accepted by the action endpoints.
const (
	ActionAccept    = "accept"
	ActionReject    = "reject"
	ActionAcceptAll = "accept_all"
	ActionRejectAll = "reject_all"
)

// Position is a half-open [start, end) rune range into the current polished
// content. Offsets are only valid for the content string they were served
// with; after an action the server returns fresh content and fresh offsets.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ChangeAnnotation is one backend-identified change between original and
// polished text.
type ChangeAnnotation struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	OriginalText   string   `json:"original_text"`
	PolishedText   string   `json:"polished_text"`
	Reason         string   `json:"reason"`
	Confidence     float64  `json:"confidence"`
	Impact         string   `json:"impact"`
	HighlightColor string   `json:"highlight_color"`
	Status         string   `json:"status"`
	Position       Position `json:"position"`
}

// ComparisonMetadata carries backend-computed summary figures.
type ComparisonMetadata struct {
	TotalChanges             int     `json:"total_changes"`
	AcademicScoreImprovement float64 `json:"academic_score_improvement"`
}

// ComparisonState is the full comparison payload for one trace id.
// CurrentContent is replaced wholesale after every applied action.
type ComparisonState struct {
	OriginalContent string
	CurrentContent  string
	Annotations     []ChangeAnnotation
	Statistics      map[string]int
	Metadata        ComparisonMetadata
}

// comparisonWire tolerates the older payload that carried the working text
// as polished_content instead of current_content.
type comparisonWire struct {
	OriginalContent string             `json:"original_content"`
	CurrentContent  string             `json:"current_content"`
	PolishedContent string             `json:"polished_content"`
	Annotations     []ChangeAnnotation `json:"annotations"`
	Statistics      map[string]int     `json:"statistics"`
	Metadata        ComparisonMetadata `json:"metadata"`
}

func (w *comparisonWire) normalize() *ComparisonState {
	current := w.CurrentContent
	if current == "" {
		current = w.PolishedContent
	}
	state := &ComparisonState{
		OriginalContent: w.OriginalContent,
		CurrentContent:  current,
		Annotations:     w.Annotations,
		Statistics:      w.Statistics,
		Metadata:        w.Metadata,
	}
	sort.SliceStable(state.Annotations, func(i, j int) bool {
		return state.Annotations[i].ID < state.Annotations[j].ID
	})
	return state
}

// Comparison fetches the comparison state for a trace id. version selects a
// variant of a multi-version request and may be empty.
func (c *Client) Comparison(ctx context.Context, traceID, version string) (*ComparisonState, error) {
	var query url.Values
	if version != "" {
		query = url.Values{"version": []string{version}}
	}
	res, err := c.call(ctx, http.MethodGet, "/api/v1/polish/compare/"+traceID, query, nil)
	if err != nil {
		return nil, err
	}

	var wire comparisonWire
	if err := json.Unmarshal(res.Data, &wire); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	state := wire.normalize()
	if state.CurrentContent == "" {
		return nil, &MalformedResponseError{Field: "current_content"}
	}
	return state, nil
}

// ActionResult is the payload of a single accept/reject action. The returned
// content is authoritative; the client never re-derives offsets locally.
type ActionResult struct {
	UpdatedContent string `json:"updated_content"`
}

// ApplyChange applies accept or reject to a single annotation.
func (c *Client) ApplyChange(ctx context.Context, traceID, changeID, action string) (*ActionResult, error) {
	body := map[string]string{
		"change_id": changeID,
		"action":    action,
	}
	res, err := c.call(ctx, http.MethodPost, "/api/v1/polish/compare/"+traceID+"/action", nil, body)
	if err != nil {
		return nil, err
	}

	var result ActionResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	if result.UpdatedContent == "" {
		return nil, &MalformedResponseError{Field: "updated_content"}
	}
	return &result, nil
}

// BatchActionResult is the payload of a batch accept/reject action.
type BatchActionResult struct {
	UpdatedContent string `json:"updated_content"`
	AppliedCount   int    `json:"applied_count"`
}

// ApplyBatch applies accept_all or reject_all, optionally restricted to a
// set of change ids.
func (c *Client) ApplyBatch(ctx context.Context, traceID, action string, changeIDs []string) (*BatchActionResult, error) {
	body := map[string]any{"action": action}
	if len(changeIDs) > 0 {
		body["change_ids"] = changeIDs
	}
	res, err := c.call(ctx, http.MethodPost, "/api/v1/polish/compare/"+traceID+"/batch-action", nil, body)
	if err != nil {
		return nil, err
	}

	var result BatchActionResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	if result.UpdatedContent == "" {
		return nil, &MalformedResponseError{Field: "updated_content"}
	}
	return &result, nil
}
