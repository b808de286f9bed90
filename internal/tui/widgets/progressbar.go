// ABOUTME: Confidence bar widget for change annotations
// ABOUTME: Colors scale with the value; low confidence renders amber or red

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfidenceBar renders the confidence of a change as a colored bar.
// confidence is in [0, 1]; low values signal the reader to look closer.
func ConfidenceBar(confidence float64, width int) string {
	if width <= 0 {
		width = 10
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	color := lipgloss.Color("#10B981") // Green
	if confidence < 0.5 {
		color = lipgloss.Color("#EF4444") // Red
	} else if confidence < 0.8 {
		color = lipgloss.Color("#F59E0B") // Amber
	}

	filled := int(confidence * float64(width))
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", width-filled))

	pct := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%3.0f%%", confidence*100))
	return bar + " " + pct
}
