// ABOUTME: Polish history endpoints: record listing, lookup, and statistics
// ABOUTME: Owns the schema mapping for records served in either snake_case or PascalCase

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RecordQuery filters GET /api/v1/polish/records. Zero values are omitted.
type RecordQuery struct {
	Page        int
	PageSize    int
	Provider    string
	Status      string
	Language    string
	Style       string
	ExcludeText bool
	StartTime   time.Time
	EndTime     time.Time
}

func (q *RecordQuery) values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Provider != "" {
		v.Set("provider", q.Provider)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.Style != "" {
		v.Set("style", q.Style)
	}
	if q.ExcludeText {
		v.Set("exclude_text", "true")
	}
	if !q.StartTime.IsZero() {
		v.Set("start_time", q.StartTime.Format(time.RFC3339))
	}
	if !q.EndTime.IsZero() {
		v.Set("end_time", q.EndTime.Format(time.RFC3339))
	}
	return v
}

// PolishRecord is one entry of the polishing history.
type PolishRecord struct {
	TraceID         string
	OriginalContent string
	PolishedContent string
	Style           string
	Language        string
	Provider        string
	Status          string
	CreatedAt       time.Time
}

// recordWire tolerates the two historical field casings the backend has
// served for records. Exactly one set is populated per deployment; the
// mapping into PolishRecord is the single place that knows about both.
type recordWire struct {
	TraceID         string    `json:"trace_id"`
	OriginalContent string    `json:"original_content"`
	PolishedContent string    `json:"polished_content"`
	Style           string    `json:"style"`
	Language        string    `json:"language"`
	Provider        string    `json:"provider"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`

	PascalTraceID         string    `json:"TraceId"`
	PascalOriginalContent string    `json:"OriginalContent"`
	PascalPolishedContent string    `json:"PolishedContent"`
	PascalStyle           string    `json:"Style"`
	PascalLanguage        string    `json:"Language"`
	PascalProvider        string    `json:"Provider"`
	PascalStatus          string    `json:"Status"`
	PascalCreatedAt       time.Time `json:"CreatedAt"`
}

func (w *recordWire) normalize() PolishRecord {
	pick := func(snake, pascal string) string {
		if snake != "" {
			return snake
		}
		return pascal
	}
	created := w.CreatedAt
	if created.IsZero() {
		created = w.PascalCreatedAt
	}
	return PolishRecord{
		TraceID:         pick(w.TraceID, w.PascalTraceID),
		OriginalContent: pick(w.OriginalContent, w.PascalOriginalContent),
		PolishedContent: pick(w.PolishedContent, w.PascalPolishedContent),
		Style:           pick(w.Style, w.PascalStyle),
		Language:        pick(w.Language, w.PascalLanguage),
		Provider:        pick(w.Provider, w.PascalProvider),
		Status:          pick(w.Status, w.PascalStatus),
		CreatedAt:       created,
	}
}

// RecordList is a page of polish records.
type RecordList struct {
	Records  []PolishRecord
	Total    int
	Page     int
	PageSize int
}

// Records lists the polishing history, newest first.
func (c *Client) Records(ctx context.Context, q *RecordQuery) (*RecordList, error) {
	res, err := c.call(ctx, http.MethodGet, "/api/v1/polish/records", q.values(), nil)
	if err != nil {
		return nil, err
	}

	var wire struct {
		Records  []recordWire `json:"records"`
		Total    int          `json:"total"`
		Page     int          `json:"page"`
		PageSize int          `json:"page_size"`
	}
	if err := json.Unmarshal(res.Data, &wire); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}

	list := &RecordList{
		Records:  make([]PolishRecord, 0, len(wire.Records)),
		Total:    wire.Total,
		Page:     wire.Page,
		PageSize: wire.PageSize,
	}
	for i := range wire.Records {
		list.Records = append(list.Records, wire.Records[i].normalize())
	}
	return list, nil
}

// RecordByTraceID fetches one record by its trace id.
func (c *Client) RecordByTraceID(ctx context.Context, traceID string) (*PolishRecord, error) {
	res, err := c.call(ctx, http.MethodGet, "/api/v1/polish/records/"+traceID, nil, nil)
	if err != nil {
		return nil, err
	}

	var wire recordWire
	if err := json.Unmarshal(res.Data, &wire); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	record := wire.normalize()
	if record.TraceID == "" {
		record.TraceID = traceID
	}
	return &record, nil
}

// Statistics summarizes polishing usage over an optional time window.
type Statistics struct {
	TotalRequests     int     `json:"total_requests"`
	SuccessCount      int     `json:"success_count"`
	FailedCount       int     `json:"failed_count"`
	TotalCharacters   int64   `json:"total_characters"`
	AvgProcessTimeMs  float64 `json:"avg_process_time_ms"`
	MostUsedStyle     string  `json:"most_used_style"`
	MostUsedLanguage  string  `json:"most_used_language"`
	RequestsThisMonth int     `json:"requests_this_month"`
}

// GetStatistics fetches usage statistics. Zero times mean no bound.
func (c *Client) GetStatistics(ctx context.Context, start, end time.Time) (*Statistics, error) {
	v := url.Values{}
	if !start.IsZero() {
		v.Set("start_time", start.Format(time.RFC3339))
	}
	if !end.IsZero() {
		v.Set("end_time", end.Format(time.RFC3339))
	}

	res, err := c.call(ctx, http.MethodGet, "/api/v1/polish/statistics", v, nil)
	if err != nil {
		return nil, err
	}

	var stats Statistics
	if err := json.Unmarshal(res.Data, &stats); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &stats, nil
}
