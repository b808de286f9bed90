// ABOUTME: Version selection screen for multi-version polishing results
// ABOUTME: Renders variant cards and lets the user commit one of them

package versions

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/tui/styles"
	"github.com/paperai/polish-cli/internal/tui/widgets"
)

// ChosenMsg is sent when the user commits a variant.
type ChosenMsg struct {
	Key string
}

// CancelledMsg is sent when the user backs out without choosing.
type CancelledMsg struct{}

// Picker is the version selection child model.
type Picker struct {
	result *client.MultiPolishResult
	keys   []string
	cursor int
	width  int
}

// New creates a picker for a multi-version result. Variant order follows the
// canonical key order, skipping variants the backend did not return.
func New(result *client.MultiPolishResult) *Picker {
	var keys []string
	for _, key := range client.VersionKeys {
		if _, ok := result.Versions[key]; ok {
			keys = append(keys, key)
		}
	}
	return &Picker{result: result, keys: keys}
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k", "left", "h":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j", "right", "l":
			if p.cursor < len(p.keys)-1 {
				p.cursor++
			}
		case "enter":
			return p, p.choose()
		case "esc", "b":
			return p, func() tea.Msg { return CancelledMsg{} }
		}
	}
	return p, nil
}

func (p *Picker) choose() tea.Cmd {
	if len(p.keys) == 0 {
		return nil
	}
	key := p.keys[p.cursor]
	// Only successful variants can be committed.
	if p.result.Versions[key].Status != client.VersionStatusSuccess {
		return nil
	}
	return func() tea.Msg { return ChosenMsg{Key: key} }
}

// View implements tea.Model
func (p *Picker) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Choose a version"))
	sb.WriteString("\n\n")

	originalLen := len([]rune(p.result.OriginalContent))

	for i, key := range p.keys {
		variant := p.result.Versions[key]
		sb.WriteString(p.renderCard(key, variant, originalLen, i == p.cursor))
		sb.WriteString("\n")
	}

	if p.result.ProviderUsed != "" {
		sb.WriteString(styles.Subtitle.Render("Provider: " + p.result.ProviderUsed))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *Picker) renderCard(key string, variant client.VersionResult, originalLen int, selected bool) string {
	panel := styles.Panel
	if selected {
		panel = styles.ActivePanel
	}
	width := p.width - 6
	if width < 60 {
		width = 60
	}

	var sb strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Text).Render(capitalize(key))
	badge := widgets.StatusBadge(variant.Status)
	sb.WriteString(title + "  " + badge + "\n")

	switch variant.Status {
	case client.VersionStatusSuccess:
		sb.WriteString(preview(variant.PolishedContent, width-8))
		sb.WriteString("\n")

		delta := variant.PolishedLength - originalLen
		meta := fmt.Sprintf("%d chars · %dms", variant.PolishedLength, variant.ProcessTimeMs)
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(meta))
		sb.WriteString("  " + widgets.DeltaBadge(delta))
		if len(variant.Suggestions) > 0 {
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Foreground(styles.Info).Render("Suggestions: " + strings.Join(variant.Suggestions, "; ")))
		}
	case client.VersionStatusFailed:
		sb.WriteString(styles.StatusCritical.Render("Failed: " + variant.ErrorMessage))
	default:
		sb.WriteString(styles.StatusWarning.Render("Still processing..."))
	}

	return panel.Width(width).Render(sb.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// preview truncates content to roughly three lines for the card body.
func preview(content string, width int) string {
	if width < 20 {
		width = 20
	}
	runes := []rune(strings.ReplaceAll(content, "\n", " "))
	limit := width * 3
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit-3]) + "..."
}
