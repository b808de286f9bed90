// ABOUTME: Tests for the version selection screen
// ABOUTME: Covers card ordering, choice gating, and cancellation

package versions

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paperai/polish-cli/internal/client"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testResult() *client.MultiPolishResult {
	return &client.MultiPolishResult{
		TraceID:         "t-m",
		OriginalContent: "original",
		Versions: map[string]client.VersionResult{
			client.VersionConservative: {Status: client.VersionStatusSuccess, PolishedContent: "careful text", PolishedLength: 12},
			client.VersionBalanced:     {Status: client.VersionStatusFailed, ErrorMessage: "provider error"},
			client.VersionAggressive:   {Status: client.VersionStatusSuccess, PolishedContent: "bold text", PolishedLength: 9},
		},
	}
}

func TestPicker_CanonicalKeyOrder(t *testing.T) {
	p := New(testResult())

	want := []string{client.VersionConservative, client.VersionBalanced, client.VersionAggressive}
	if len(p.keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(p.keys))
	}
	for i, key := range want {
		if p.keys[i] != key {
			t.Errorf("key %d: expected %s, got %s", i, key, p.keys[i])
		}
	}
}

func TestPicker_SkipsAbsentVariants(t *testing.T) {
	result := testResult()
	delete(result.Versions, client.VersionBalanced)
	p := New(result)

	if len(p.keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(p.keys))
	}
	for _, key := range p.keys {
		if key == client.VersionBalanced {
			t.Error("absent variant should not be listed")
		}
	}
}

func TestPicker_EnterChoosesSuccessfulVariant(t *testing.T) {
	p := New(testResult())

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected choose command")
	}
	msg, ok := cmd().(ChosenMsg)
	if !ok {
		t.Fatalf("expected ChosenMsg, got %T", cmd())
	}
	if msg.Key != client.VersionConservative {
		t.Errorf("expected conservative, got %s", msg.Key)
	}
}

func TestPicker_FailedVariantNotChoosable(t *testing.T) {
	p := New(testResult())
	p.Update(keyMsg("j"))

	if _, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("expected enter inert on a failed variant")
	}
}

func TestPicker_EscCancels(t *testing.T) {
	p := New(testResult())

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestPicker_ViewShowsFailureReason(t *testing.T) {
	p := New(testResult())

	view := p.View()
	if !strings.Contains(view, "provider error") {
		t.Error("expected failed card to show its error message")
	}
	if !strings.Contains(view, "careful text") {
		t.Error("expected successful card to show a preview")
	}
}
