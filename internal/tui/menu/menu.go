// ABOUTME: Main menu for the TUI as a bubbletea child model
// ABOUTME: Routes to polishing, history, statistics, profile, and auth actions

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paperai/polish-cli/internal/tui/icons"
	"github.com/paperai/polish-cli/internal/tui/styles"
)

// Action is a menu entry the user can pick.
type Action int

const (
	ActionPolish Action = iota
	ActionHistory
	ActionProfile
	ActionLogin
	ActionRegister
	ActionLogout
	ActionQuit
)

// ActionSelectedMsg is sent when the user confirms a menu entry.
type ActionSelectedMsg struct {
	Action Action
}

type item struct {
	label  string
	icon   icons.Icon
	action Action
}

// Menu is the main menu child model. Entries depend on whether a user is
// logged in.
type Menu struct {
	items    []item
	cursor   int
	username string
	width    int
}

// New builds the menu for the current auth state.
func New(loggedIn bool, username string) *Menu {
	m := &Menu{username: username}
	if loggedIn {
		m.items = []item{
			{"Polish text", icons.Pencil, ActionPolish},
			{"History", icons.History, ActionHistory},
			{"Profile", icons.User, ActionProfile},
			{"Log out", icons.Logout, ActionLogout},
			{"Quit", icons.Quit, ActionQuit},
		}
	} else {
		m.items = []item{
			{"Log in", icons.Login, ActionLogin},
			{"Register", icons.User, ActionRegister},
			{"Quit", icons.Quit, ActionQuit},
		}
	}
	return m
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			action := m.items[m.cursor].action
			return m, func() tea.Msg { return ActionSelectedMsg{Action: action} }
		case "q", "esc":
			return m, func() tea.Msg { return ActionSelectedMsg{Action: ActionQuit} }
		}
	}
	return m, nil
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.App.String() + " Paper Polish"))
	sb.WriteString("\n")
	if m.username != "" {
		sb.WriteString(styles.Subtitle.Render("Logged in as " + m.username))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	selectedStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(styles.Text)

	for i, it := range m.items {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = styles.KeyStyle.Render("> ")
			style = selectedStyle
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", cursor, it.icon.String(), style.Render(it.label)))
	}

	return sb.String()
}

// String returns the label of an action for logging.
func (a Action) String() string {
	switch a {
	case ActionPolish:
		return "polish"
	case ActionHistory:
		return "history"
	case ActionProfile:
		return "profile"
	case ActionLogin:
		return "login"
	case ActionRegister:
		return "register"
	case ActionLogout:
		return "logout"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}
