// ABOUTME: Tests for the comparison review screen
// ABOUTME: Covers annotation navigation and action gating

package comparison

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paperai/polish-cli/internal/client"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testState() *client.ComparisonState {
	return &client.ComparisonState{
		OriginalContent: "the original text",
		CurrentContent:  "the polished text",
		Annotations: []client.ChangeAnnotation{
			{ID: "c-1", Type: "grammar", Status: client.AnnotationPending, OriginalText: "the", PolishedText: "the", Position: client.Position{Start: 0, End: 3}},
			{ID: "c-2", Type: "vocabulary", Status: client.AnnotationAccepted, OriginalText: "original", PolishedText: "polished", Position: client.Position{Start: 4, End: 12}},
		},
	}
}

func TestView_AcceptEmitsActionMsg(t *testing.T) {
	v := New(testState(), false, 100)

	_, cmd := v.Update(keyMsg("a"))
	if cmd == nil {
		t.Fatal("expected action command")
	}
	msg, ok := cmd().(ActionMsg)
	if !ok {
		t.Fatalf("expected ActionMsg, got %T", cmd())
	}
	if msg.ChangeID != "c-1" || msg.Action != client.ActionAccept {
		t.Errorf("unexpected action message: %+v", msg)
	}
}

func TestView_NonPendingChangeNotActionable(t *testing.T) {
	v := New(testState(), false, 100)
	v.Update(keyMsg("j"))

	_, cmd := v.Update(keyMsg("r"))
	if cmd != nil {
		t.Error("expected no command for an already-decided change")
	}
}

func TestView_ReadOnlyBlocksActions(t *testing.T) {
	v := New(testState(), true, 100)

	for _, key := range []string{"a", "r", "A", "R"} {
		if _, cmd := v.Update(keyMsg(key)); cmd != nil {
			t.Errorf("expected key %q to be inert in read-only mode", key)
		}
	}
}

func TestView_BusyBlocksFurtherActions(t *testing.T) {
	v := New(testState(), false, 100)

	if _, cmd := v.Update(keyMsg("a")); cmd == nil {
		t.Fatal("expected first action to go through")
	}
	if _, cmd := v.Update(keyMsg("A")); cmd != nil {
		t.Error("expected actions blocked while one is in flight")
	}
}

func TestView_BatchEmitsBatchMsg(t *testing.T) {
	v := New(testState(), false, 100)

	_, cmd := v.Update(keyMsg("R"))
	if cmd == nil {
		t.Fatal("expected batch command")
	}
	msg, ok := cmd().(BatchMsg)
	if !ok {
		t.Fatalf("expected BatchMsg, got %T", cmd())
	}
	if msg.Action != client.ActionRejectAll {
		t.Errorf("expected reject_all, got %s", msg.Action)
	}
}

func TestView_BatchInertWithoutPendingChanges(t *testing.T) {
	state := testState()
	state.Annotations[0].Status = client.AnnotationRejected
	v := New(state, false, 100)

	if _, cmd := v.Update(keyMsg("A")); cmd != nil {
		t.Error("expected batch key inert when nothing is pending")
	}
}

func TestView_EscCloses(t *testing.T) {
	v := New(testState(), false, 100)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected close command")
	}
	if _, ok := cmd().(ClosedMsg); !ok {
		t.Errorf("expected ClosedMsg, got %T", cmd())
	}
}

func TestView_CursorClampsToAnnotations(t *testing.T) {
	v := New(testState(), false, 100)

	for i := 0; i < 5; i++ {
		v.Update(keyMsg("j"))
	}
	if v.cursor != 1 {
		t.Errorf("expected cursor clamped at 1, got %d", v.cursor)
	}
	for i := 0; i < 5; i++ {
		v.Update(keyMsg("k"))
	}
	if v.cursor != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", v.cursor)
	}
}

func TestSetState_ClampsCursorAndClearsBusy(t *testing.T) {
	v := New(testState(), false, 100)
	v.Update(keyMsg("j"))
	v.busy = true

	v.SetState(&client.ComparisonState{
		CurrentContent: "shrunk",
		Annotations: []client.ChangeAnnotation{
			{ID: "c-1", Status: client.AnnotationAccepted, Position: client.Position{Start: 0, End: 2}},
		},
	})
	if v.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", v.cursor)
	}
	if v.busy {
		t.Error("expected busy cleared after state refresh")
	}
}

func TestView_RendersBadOffsetsAsRawText(t *testing.T) {
	state := testState()
	state.Annotations[0].Position = client.Position{Start: 0, End: 9999}
	v := New(state, false, 100)

	view := v.View()
	if !strings.Contains(view, "the polished text") {
		t.Error("expected raw content fallback for stale offsets")
	}
}

func TestSummary_CountsByStatus(t *testing.T) {
	v := New(testState(), false, 100)

	if got := v.Summary(); got != "1 accepted · 0 rejected · 1 pending" {
		t.Errorf("unexpected summary: %q", got)
	}
}
