// ABOUTME: Tests for the main menu child model
// ABOUTME: Exercises navigation keys and action selection messages

package menu

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selectedAction(t *testing.T, cmd tea.Cmd) Action {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg, ok := cmd().(ActionSelectedMsg)
	if !ok {
		t.Fatalf("expected ActionSelectedMsg, got %T", cmd())
	}
	return msg.Action
}

func TestMenu_LoggedOutEntries(t *testing.T) {
	m := New(false, "")
	view := m.View()

	for _, want := range []string{"Log in", "Register", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in logged-out menu", want)
		}
	}
	if strings.Contains(view, "Polish text") {
		t.Error("polish entry should not appear while logged out")
	}
}

func TestMenu_LoggedInEntries(t *testing.T) {
	m := New(true, "ada")
	view := m.View()

	for _, want := range []string{"Polish text", "History", "Profile", "Log out", "Logged in as ada"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in logged-in menu", want)
		}
	}
}

func TestMenu_NavigationClampsAtEdges(t *testing.T) {
	m := New(false, "")

	m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", m.cursor)
	}

	for i := 0; i < 10; i++ {
		m.Update(keyMsg("j"))
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("expected cursor clamped at last entry, got %d", m.cursor)
	}
}

func TestMenu_EnterSelectsEntryUnderCursor(t *testing.T) {
	m := New(true, "ada")
	m.Update(keyMsg("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := selectedAction(t, cmd); got != ActionHistory {
		t.Errorf("expected history action, got %s", got)
	}
}

func TestMenu_QSelectsQuit(t *testing.T) {
	m := New(true, "ada")

	_, cmd := m.Update(keyMsg("q"))
	if got := selectedAction(t, cmd); got != ActionQuit {
		t.Errorf("expected quit action, got %s", got)
	}
}
