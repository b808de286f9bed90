// ABOUTME: Text editor screen with a textarea and polishing settings form
// ABOUTME: Emits the content and settings when the user submits

package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/paperai/polish-cli/internal/tui/icons"
	"github.com/paperai/polish-cli/internal/tui/styles"
	"github.com/paperai/polish-cli/internal/workflow"
)

// SubmitMsg is sent when the user submits the text for polishing.
type SubmitMsg struct {
	Content string
	Multi   bool
	Config  workflow.Config
}

// CancelledMsg is sent when the user leaves the editor.
type CancelledMsg struct{}

type mode int

const (
	modeEditing mode = iota
	modeSettings
)

// Editor is the text input screen child model.
type Editor struct {
	textarea textarea.Model
	mode     mode
	form     *huh.Form
	width    int
	height   int
	errText  string

	// Settings form values
	style    string
	language string
	multi    string
	provider string
}

// New creates an editor seeded with default polishing settings.
func New(defaults workflow.Config) *Editor {
	ta := textarea.New()
	ta.Placeholder = "Paste or type the text to polish..."
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(14)
	ta.Focus()

	style := defaults.Style
	if style == "" {
		style = "academic"
	}
	language := defaults.Language
	if language == "" {
		language = "en"
	}

	return &Editor{
		textarea: ta,
		style:    style,
		language: language,
		multi:    "single",
		provider: defaults.Provider,
	}
}

// SetContent pre-fills the textarea, used when re-editing after a reset.
func (e *Editor) SetContent(content string) {
	e.textarea.SetValue(content)
}

// SetError shows an inline error below the textarea.
func (e *Editor) SetError(text string) {
	e.errText = text
}

func (e *Editor) settingsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Style").
				Options(
					huh.NewOption("Academic", "academic"),
					huh.NewOption("Formal", "formal"),
					huh.NewOption("Concise", "concise"),
					huh.NewOption("Detailed", "detailed"),
				).
				Value(&e.style),
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("English", "en"),
					huh.NewOption("Chinese", "zh"),
				).
				Value(&e.language),
			huh.NewSelect[string]().
				Title("Mode").
				Options(
					huh.NewOption("Single version", "single"),
					huh.NewOption("Multiple versions", "multi"),
				).
				Value(&e.multi),
		).Title("Polishing settings"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (e *Editor) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		w := msg.Width - 8
		if w > 100 {
			w = 100
		}
		if w > 10 {
			e.textarea.SetWidth(w)
		}
		if msg.Height > 14 {
			e.textarea.SetHeight(msg.Height - 10)
		}
		return e, nil

	case tea.KeyMsg:
		if e.mode == modeSettings {
			if msg.String() == "esc" {
				e.mode = modeEditing
				return e, e.textarea.Focus()
			}
			break
		}

		switch msg.String() {
		case "esc":
			return e, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+s":
			return e, e.submit()
		case "ctrl+o":
			e.mode = modeSettings
			e.textarea.Blur()
			e.form = e.settingsForm()
			return e, e.form.Init()
		}
	}

	if e.mode == modeSettings {
		form, cmd := e.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			e.form = f
		}
		if e.form.State == huh.StateCompleted {
			e.mode = modeEditing
			return e, e.textarea.Focus()
		}
		return e, cmd
	}

	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return e, cmd
}

func (e *Editor) submit() tea.Cmd {
	content := e.textarea.Value()
	if strings.TrimSpace(content) == "" {
		e.errText = "Nothing to polish yet."
		return nil
	}
	e.errText = ""

	cfg := workflow.Config{
		Style:    e.style,
		Language: e.language,
		Provider: e.provider,
	}
	multi := e.multi == "multi"
	return func() tea.Msg {
		return SubmitMsg{Content: content, Multi: multi, Config: cfg}
	}
}

// View implements tea.Model
func (e *Editor) View() string {
	if e.mode == modeSettings {
		return e.form.View()
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Pencil.String() + " Polish text"))
	sb.WriteString("\n")

	settings := fmt.Sprintf("%s · %s · %s", e.style, e.language, e.multi)
	sb.WriteString(styles.Subtitle.Render(settings))
	sb.WriteString("\n")

	sb.WriteString(e.textarea.View())
	sb.WriteString("\n")

	chars := len([]rune(e.textarea.Value()))
	countStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	sb.WriteString(countStyle.Render(fmt.Sprintf("%d characters", chars)))

	if e.errText != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render(e.errText))
	}

	return sb.String()
}
