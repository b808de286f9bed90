// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and annotation highlight styles

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	BgDark    = lipgloss.Color("#1F2937") // Dark gray

	// Colors - Extended palette
	Accent  = lipgloss.Color("#8B5CF6") // Lighter purple for highlights
	Surface = lipgloss.Color("#374151") // Elevated surface background
	Info    = lipgloss.Color("#3B82F6") // Blue - informational

	// Colors - Annotation change types
	Vocabulary = lipgloss.Color("#3B82F6") // Blue - word choice
	Grammar    = lipgloss.Color("#10B981") // Green - grammar fixes
	Structure  = lipgloss.Color("#F59E0B") // Amber - sentence structure

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Frame styles for header/footer
	HeaderStyle = lipgloss.NewStyle().
			Border(lipgloss.Border{
			Top:         "─",
			Bottom:      "",
			Left:        "╭",
			Right:       "╮",
			TopLeft:     "",
			TopRight:    "",
			BottomLeft:  "",
			BottomRight: "",
		}).
		BorderForeground(Muted).
		Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Border(lipgloss.Border{
			Top:         "",
			Bottom:      "─",
			Left:        "╰",
			Right:       "╯",
			TopLeft:     "",
			TopRight:    "",
			BottomLeft:  "",
			BottomRight: "",
		}).
		BorderForeground(Muted).
		Padding(0, 1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)

// changeTypeColors maps annotation change types to their palette color.
var changeTypeColors = map[string]lipgloss.Color{
	"vocabulary": Vocabulary,
	"grammar":    Grammar,
	"structure":  Structure,
}

// ChangeTypeColor returns the palette color for an annotation change type,
// falling back to the accent color for unknown types.
func ChangeTypeColor(changeType string) lipgloss.Color {
	if c, ok := changeTypeColors[changeType]; ok {
		return c
	}
	return Accent
}

// AnnotationStyle renders an annotated text span. Pending changes are
// underlined in their type color; accepted ones turn green and rejected
// ones are struck through so the reader can still find them.
func AnnotationStyle(changeType, status string, selected bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch status {
	case "accepted":
		s = s.Foreground(Secondary)
	case "rejected":
		s = s.Foreground(Muted).Strikethrough(true)
	default:
		s = s.Foreground(ChangeTypeColor(changeType)).Underline(true)
	}
	if selected {
		s = s.Background(Surface).Bold(true)
	}
	return s
}
