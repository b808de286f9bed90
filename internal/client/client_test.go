// ABOUTME: Tests for the paper-polish API gateway
// ABOUTME: Uses httptest to mock backend envelope responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

// envelopeHandler answers every request with the given envelope.
func envelopeHandler(code int, message string, data any, traceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		raw, _ := json.Marshal(data)
		json.NewEncoder(w).Encode(map[string]any{
			"code":     code,
			"message":  message,
			"data":     json.RawMessage(raw),
			"trace_id": traceID,
		})
	}
}

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			t.Errorf("expected path /api/v1/health, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	healthy, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !healthy {
		t.Error("expected healthy backend")
	}
}

func TestHealth_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	healthy, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if healthy {
		t.Error("expected unhealthy backend for 503")
	}
}

func TestHealth_ConnectionError(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError, got %T", err)
	}
}

func TestCall_AttachesAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		envelopeHandler(0, "ok", UserProfile{Username: "ada"}, "")(w, r)
	}))
	defer server.Close()

	c := New(server.URL, staticTokens("token-123"))
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestCall_NoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		envelopeHandler(0, "ok", UserProfile{Username: "ada"}, "")(w, r)
	}))
	defer server.Close()

	c := New(server.URL, staticTokens(""))
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestCall_ApplicationError(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(20002, "wrong password", nil, "t-1"))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Login(context.Background(), "ada", "nope")
	var ae *ApplicationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ApplicationError, got %T: %v", err, err)
	}
	if ae.Code != CodePasswordError {
		t.Errorf("expected code 20002, got %d", ae.Code)
	}
	if ae.Message != "wrong password" {
		t.Errorf("expected server message, got %q", ae.Message)
	}
	if ae.TraceID != "t-1" {
		t.Errorf("expected trace id t-1, got %q", ae.TraceID)
	}
}

func TestCall_FallbackMessageForKnownCode(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(20005, "", nil, ""))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Me(context.Background())
	var ae *ApplicationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ApplicationError, got %T", err)
	}
	if ae.Message != MessageForCode(CodeTokenExpired) {
		t.Errorf("expected fallback message, got %q", ae.Message)
	}
}

func TestCall_FallbackMessageForUnknownCode(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(99999, "", nil, ""))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Me(context.Background())
	var ae *ApplicationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ApplicationError, got %T", err)
	}
	if ae.Message != "request failed" {
		t.Errorf("expected generic fallback, got %q", ae.Message)
	}
}

func TestCall_ProtocolKinds(t *testing.T) {
	cases := []struct {
		status int
		kind   ProtocolKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusInternalServerError, KindServerError},
		{http.StatusBadGateway, KindServerError},
		{http.StatusTeapot, KindOther},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		c := New(server.URL, nil)
		_, err := c.Me(context.Background())
		server.Close()

		var pe *ProtocolError
		if !errors.As(err, &pe) {
			t.Fatalf("status %d: expected ProtocolError, got %T", tc.status, err)
		}
		if pe.Kind != tc.kind {
			t.Errorf("status %d: expected kind %q, got %q", tc.status, tc.kind, pe.Kind)
		}
		if pe.Status != tc.status {
			t.Errorf("expected status %d, got %d", tc.status, pe.Status)
		}
	}
}

func TestCall_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Me(context.Background())
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProtocolError, got %T", err)
	}
	if pe.Kind != KindNotJSON {
		t.Errorf("expected non-JSON kind, got %q", pe.Kind)
	}
}

func TestCall_UndecodableEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Me(context.Background())
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Kind != KindNotJSON {
		t.Errorf("expected non-JSON ProtocolError, got %v", err)
	}
}

func TestCall_DeadlineExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		envelopeHandler(0, "ok", nil, "")(w, r)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Me(ctx)
	var te *RequestTimeoutError
	if !errors.As(err, &te) {
		t.Errorf("expected RequestTimeoutError, got %T: %v", err, err)
	}
}

func TestLogin_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "ok", map[string]any{
		"user": UserProfile{Username: "ada"},
	}, ""))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Login(context.Background(), "ada", "pw")
	var me *MalformedResponseError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedResponseError, got %T", err)
	}
	if me.Field != "access_token" {
		t.Errorf("expected access_token field, got %q", me.Field)
	}
}

func TestRegister_EmptyDataTolerated(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "created", nil, ""))
	defer server.Close()

	c := New(server.URL, nil)
	user, err := c.Register(context.Background(), &RegisterInput{
		Username:        "ada",
		Email:           "ada@example.com",
		Password:        "longenough1",
		ConfirmPassword: "longenough1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil profile for empty data, got %+v", user)
	}
}

func TestPolish_TraceIDFromEnvelope(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "ok", map[string]string{
		"polished_content": "Polished.",
	}, "env-trace"))
	defer server.Close()

	c := New(server.URL, nil)
	result, err := c.Polish(context.Background(), &PolishRequest{Content: "raw", Style: StyleAcademic, Language: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TraceID != "env-trace" {
		t.Errorf("expected envelope trace id, got %q", result.TraceID)
	}
}

func TestPolish_MissingPolishedContent(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "ok", map[string]string{"trace_id": "t"}, ""))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Polish(context.Background(), &PolishRequest{Content: "raw", Style: StyleAcademic, Language: "en"})
	var me *MalformedResponseError
	if !errors.As(err, &me) || me.Field != "polished_content" {
		t.Errorf("expected malformed polished_content, got %v", err)
	}
}

func TestPolishMulti_MissingVersions(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "ok", map[string]string{"trace_id": "t"}, ""))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.PolishMulti(context.Background(), &MultiPolishRequest{Content: "raw", Style: StyleAcademic, Language: "en"})
	var me *MalformedResponseError
	if !errors.As(err, &me) || me.Field != "versions" {
		t.Errorf("expected malformed versions, got %v", err)
	}
}

func TestPolishMulti_PartialFailure(t *testing.T) {
	data := map[string]any{
		"trace_id": "t-multi",
		"versions": map[string]any{
			"conservative": map[string]any{"status": "success", "polished_content": "a", "polished_length": 1},
			"balanced":     map[string]any{"status": "failed", "error_message": "provider error"},
		},
	}
	server := httptest.NewServer(envelopeHandler(0, "ok", data, ""))
	defer server.Close()

	c := New(server.URL, nil)
	result, err := c.PolishMulti(context.Background(), &MultiPolishRequest{Content: "raw", Style: StyleAcademic, Language: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Versions[VersionConservative].Status != VersionStatusSuccess {
		t.Error("expected conservative variant to succeed")
	}
	if result.Versions[VersionBalanced].Status != VersionStatusFailed {
		t.Error("expected balanced variant to fail")
	}
	if result.Versions[VersionBalanced].ErrorMessage != "provider error" {
		t.Errorf("expected error message, got %q", result.Versions[VersionBalanced].ErrorMessage)
	}
}

func TestSelectVersion_PostsVersionQuery(t *testing.T) {
	var gotPath, gotVersion, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotVersion = r.URL.Query().Get("version")
		envelopeHandler(0, "ok", map[string]string{"trace_id": "t-1", "polished_content": "chosen"}, "")(w, r)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	result, err := c.SelectVersion(context.Background(), "t-1", VersionAggressive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/api/v1/polish/select-version/t-1" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotVersion != "aggressive" {
		t.Errorf("expected version query, got %q", gotVersion)
	}
	if result.PolishedContent != "chosen" {
		t.Errorf("unexpected content %q", result.PolishedContent)
	}
}

func TestRecords_SnakeCaseFields(t *testing.T) {
	data := map[string]any{
		"records": []map[string]any{
			{"trace_id": "t-1", "style": "academic", "status": "success", "created_at": "2026-08-01T10:00:00Z"},
		},
		"total": 1, "page": 1, "page_size": 20,
	}
	server := httptest.NewServer(envelopeHandler(0, "ok", data, ""))
	defer server.Close()

	c := New(server.URL, nil)
	list, err := c.Records(context.Background(), &RecordQuery{Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list.Records))
	}
	if list.Records[0].TraceID != "t-1" {
		t.Errorf("expected trace t-1, got %q", list.Records[0].TraceID)
	}
	if list.Records[0].CreatedAt.IsZero() {
		t.Error("expected created_at to parse")
	}
	if list.Total != 1 {
		t.Errorf("expected total 1, got %d", list.Total)
	}
}

func TestRecords_PascalCaseFields(t *testing.T) {
	data := map[string]any{
		"records": []map[string]any{
			{"TraceId": "t-2", "Style": "formal", "Status": "success", "CreatedAt": "2026-08-01T10:00:00Z"},
		},
		"total": 1, "page": 1, "page_size": 20,
	}
	server := httptest.NewServer(envelopeHandler(0, "ok", data, ""))
	defer server.Close()

	c := New(server.URL, nil)
	list, err := c.Records(context.Background(), &RecordQuery{Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := list.Records[0]
	if r.TraceID != "t-2" || r.Style != "formal" || r.CreatedAt.IsZero() {
		t.Errorf("older field casing not normalized: %+v", r)
	}
}

func TestRecords_QueryParameters(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		envelopeHandler(0, "ok", map[string]any{"records": []any{}, "total": 0}, "")(w, r)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := c.Records(context.Background(), &RecordQuery{
		Page: 2, PageSize: 10, Provider: "openai", ExcludeText: true, StartTime: start,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery["page"][0] != "2" || gotQuery["page_size"][0] != "10" {
		t.Errorf("pagination not encoded: %v", gotQuery)
	}
	if gotQuery["provider"][0] != "openai" {
		t.Errorf("provider not encoded: %v", gotQuery)
	}
	if gotQuery["exclude_text"][0] != "true" {
		t.Errorf("exclude_text not encoded: %v", gotQuery)
	}
	if gotQuery["start_time"][0] != "2026-08-01T00:00:00Z" {
		t.Errorf("start_time not encoded: %v", gotQuery)
	}
	if _, ok := gotQuery["end_time"]; ok {
		t.Error("zero end time should be omitted")
	}
}

func TestRecordByTraceID_FillsTraceID(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "ok", map[string]any{
		"original_content": "a", "polished_content": "b",
	}, ""))
	defer server.Close()

	c := New(server.URL, nil)
	record, err := c.RecordByTraceID(context.Background(), "t-known")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.TraceID != "t-known" {
		t.Errorf("expected requested trace id, got %q", record.TraceID)
	}
}

func TestComparison_PolishedContentFallback(t *testing.T) {
	data := map[string]any{
		"original_content": "orig",
		"polished_content": "polished",
		"annotations":      []any{},
	}
	server := httptest.NewServer(envelopeHandler(0, "ok", data, ""))
	defer server.Close()

	c := New(server.URL, nil)
	state, err := c.Comparison(context.Background(), "t-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.CurrentContent != "polished" {
		t.Errorf("expected polished_content fallback, got %q", state.CurrentContent)
	}
}

func TestComparison_MissingContent(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "ok", map[string]any{"original_content": "orig"}, ""))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Comparison(context.Background(), "t-1", "")
	var me *MalformedResponseError
	if !errors.As(err, &me) || me.Field != "current_content" {
		t.Errorf("expected malformed current_content, got %v", err)
	}
}

func TestComparison_SortsAnnotationsByID(t *testing.T) {
	data := map[string]any{
		"original_content": "orig",
		"current_content":  "current text here",
		"annotations": []map[string]any{
			{"id": "c-2", "type": "grammar", "status": "pending", "position": map[string]int{"start": 5, "end": 7}},
			{"id": "c-1", "type": "vocabulary", "status": "pending", "position": map[string]int{"start": 0, "end": 3}},
		},
	}
	server := httptest.NewServer(envelopeHandler(0, "ok", data, ""))
	defer server.Close()

	c := New(server.URL, nil)
	state, err := c.Comparison(context.Background(), "t-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Annotations[0].ID != "c-1" || state.Annotations[1].ID != "c-2" {
		t.Errorf("annotations not sorted: %v, %v", state.Annotations[0].ID, state.Annotations[1].ID)
	}
}

func TestComparison_VersionQuery(t *testing.T) {
	var gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.URL.Query().Get("version")
		envelopeHandler(0, "ok", map[string]any{"current_content": "x"}, "")(w, r)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	if _, err := c.Comparison(context.Background(), "t-1", VersionBalanced); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotVersion != "balanced" {
		t.Errorf("expected version query, got %q", gotVersion)
	}
}

func TestApplyChange_RequiresUpdatedContent(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(0, "ok", map[string]any{}, ""))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.ApplyChange(context.Background(), "t-1", "c-1", ActionAccept)
	var me *MalformedResponseError
	if !errors.As(err, &me) || me.Field != "updated_content" {
		t.Errorf("expected malformed updated_content, got %v", err)
	}
}

func TestApplyBatch_SendsChangeIDs(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		envelopeHandler(0, "ok", map[string]any{"updated_content": "new", "applied_count": 2}, "")(w, r)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	result, err := c.ApplyBatch(context.Background(), "t-1", ActionAcceptAll, []string{"c-1", "c-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["action"] != "accept_all" {
		t.Errorf("expected accept_all action, got %v", gotBody["action"])
	}
	ids, ok := gotBody["change_ids"].([]any)
	if !ok || len(ids) != 2 {
		t.Errorf("expected change_ids in body, got %v", gotBody["change_ids"])
	}
	if result.AppliedCount != 2 {
		t.Errorf("expected applied count 2, got %d", result.AppliedCount)
	}
}

func TestInvalidatesSession(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&ApplicationError{Code: CodeTokenInvalid}, true},
		{&ApplicationError{Code: CodeUnauthorized}, true},
		{&ApplicationError{Code: CodeTokenExpired}, false},
		{&ApplicationError{Code: CodePasswordError}, false},
		{&ProtocolError{Status: http.StatusUnauthorized, Kind: KindUnauthorized}, false},
		{errors.New("plain"), false},
	}
	for _, tc := range cases {
		if got := InvalidatesSession(tc.err); got != tc.want {
			t.Errorf("InvalidatesSession(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
