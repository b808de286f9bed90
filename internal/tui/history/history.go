// ABOUTME: History screen listing past polishing records with usage statistics
// ABOUTME: Opening a record shows its comparison in read-only mode

package history

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/tui/icons"
	"github.com/paperai/polish-cli/internal/tui/styles"
	"github.com/paperai/polish-cli/internal/tui/widgets"
)

// RecordOpenedMsg is sent when the user opens a record.
type RecordOpenedMsg struct {
	Record *client.PolishRecord
}

// PageRequestedMsg asks the parent to load another page.
type PageRequestedMsg struct {
	Page int
}

// ClosedMsg is sent when the user leaves the history screen.
type ClosedMsg struct{}

// Browser is the history screen child model. The parent owns fetching; the
// browser renders whatever page and statistics it was given.
type Browser struct {
	list   *client.RecordList
	stats  *client.Statistics
	cursor int
	width  int
}

// New creates a browser over a page of records. stats may be nil when the
// statistics fetch failed; the list still renders.
func New(list *client.RecordList, stats *client.Statistics, width int) *Browser {
	return &Browser{list: list, stats: stats, width: width}
}

// SetPage replaces the record page after pagination.
func (b *Browser) SetPage(list *client.RecordList) {
	b.list = list
	b.cursor = 0
}

// SetWidth updates the rendering width.
func (b *Browser) SetWidth(width int) {
	b.width = width
}

// Init implements tea.Model
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch key.String() {
	case "esc", "b", "q":
		return b, func() tea.Msg { return ClosedMsg{} }
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.list.Records)-1 {
			b.cursor++
		}
	case "enter":
		if len(b.list.Records) == 0 {
			return b, nil
		}
		record := b.list.Records[b.cursor]
		return b, func() tea.Msg { return RecordOpenedMsg{Record: &record} }
	case "n":
		if b.list.Page*b.list.PageSize < b.list.Total {
			page := b.list.Page + 1
			return b, func() tea.Msg { return PageRequestedMsg{Page: page} }
		}
	case "p":
		if b.list.Page > 1 {
			page := b.list.Page - 1
			return b, func() tea.Msg { return PageRequestedMsg{Page: page} }
		}
	}
	return b, nil
}

// View implements tea.Model
func (b *Browser) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.History.String() + " History"))
	sb.WriteString("\n\n")

	if b.stats != nil {
		sb.WriteString(b.renderStats())
		sb.WriteString("\n\n")
	}

	sb.WriteString(b.renderRecords())
	return sb.String()
}

func (b *Browser) renderStats() string {
	cfg := widgets.DefaultMetricBlockConfig()
	s := b.stats

	blocks := []string{
		widgets.CountBlock(icons.Document, "Requests", s.TotalRequests, fmt.Sprintf("%d this month", s.RequestsThisMonth), cfg),
		widgets.CountBlock(icons.CheckOK, "Succeeded", s.SuccessCount, fmt.Sprintf("%d failed", s.FailedCount), cfg),
		widgets.MetricBlock(icons.Stats, "Avg time", fmt.Sprintf("%.0fms", s.AvgProcessTimeMs), fmt.Sprintf("%d chars total", s.TotalCharacters), cfg),
	}
	if s.MostUsedStyle != "" {
		blocks = append(blocks, widgets.MetricBlock(icons.Sparkle, "Top style", s.MostUsedStyle, s.MostUsedLanguage, cfg))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (b *Browser) renderRecords() string {
	if len(b.list.Records) == 0 {
		return styles.Subtitle.Render("No records yet.")
	}

	var sb strings.Builder
	selectedStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(styles.Text)
	mutedStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	for i, r := range b.list.Records {
		cursor := "  "
		style := normalStyle
		if i == b.cursor {
			cursor = styles.KeyStyle.Render("> ")
			style = selectedStyle
		}

		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("%s%s  %s  %s", cursor, style.Render(shortTrace(r.TraceID)),
			mutedStyle.Render(created), widgets.StatusBadge(r.Status))
		if r.Style != "" {
			line += "  " + mutedStyle.Render(r.Style+"/"+r.Language)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d · %d records total", b.list.Page, b.list.Total)))
	return sb.String()
}

// shortTrace trims long trace ids for list display.
func shortTrace(traceID string) string {
	if len(traceID) <= 16 {
		return traceID
	}
	return traceID[:16] + "…"
}
