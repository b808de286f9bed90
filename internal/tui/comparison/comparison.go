// ABOUTME: Comparison view showing polished text with inline change highlights
// ABOUTME: Navigates annotations and emits accept/reject actions as messages

package comparison

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/highlight"
	"github.com/paperai/polish-cli/internal/tui/icons"
	"github.com/paperai/polish-cli/internal/tui/styles"
	"github.com/paperai/polish-cli/internal/tui/widgets"
)

// ActionMsg requests accept or reject of a single change.
type ActionMsg struct {
	ChangeID string
	Action   string
}

// BatchMsg requests accept_all or reject_all over the pending changes.
type BatchMsg struct {
	Action string
}

// ClosedMsg is sent when the user leaves the comparison.
type ClosedMsg struct{}

// View is the comparison screen child model. It renders from state owned by
// the parent; the parent refreshes the state after every applied action.
type View struct {
	state    *client.ComparisonState
	readOnly bool
	cursor   int
	busy     bool
	width    int
	errText  string
}

// New creates a comparison view. readOnly disables all actions, used when the
// comparison was opened from a history record.
func New(state *client.ComparisonState, readOnly bool, width int) *View {
	return &View{state: state, readOnly: readOnly, width: width}
}

// SetState replaces the comparison state after a server action and clamps the
// cursor to the new annotation count.
func (v *View) SetState(state *client.ComparisonState) {
	v.state = state
	v.busy = false
	v.errText = ""
	if v.cursor >= len(state.Annotations) {
		v.cursor = len(state.Annotations) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// SetError surfaces a failed action without leaving the screen.
func (v *View) SetError(text string) {
	v.busy = false
	v.errText = text
}

// SetWidth updates the rendering width.
func (v *View) SetWidth(width int) {
	v.width = width
}

// Init implements tea.Model
func (v *View) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "esc", "b":
		return v, func() tea.Msg { return ClosedMsg{} }
	case "up", "k", "left", "h":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j", "right", "l", "tab":
		if v.cursor < len(v.state.Annotations)-1 {
			v.cursor++
		}
	case "a":
		return v, v.action(client.ActionAccept)
	case "r":
		return v, v.action(client.ActionReject)
	case "A":
		return v, v.batch(client.ActionAcceptAll)
	case "R":
		return v, v.batch(client.ActionRejectAll)
	}
	return v, nil
}

func (v *View) action(action string) tea.Cmd {
	if v.readOnly || v.busy || len(v.state.Annotations) == 0 {
		return nil
	}
	ann := v.state.Annotations[v.cursor]
	if ann.Status != client.AnnotationPending {
		return nil
	}
	v.busy = true
	id := ann.ID
	return func() tea.Msg { return ActionMsg{ChangeID: id, Action: action} }
}

func (v *View) batch(action string) tea.Cmd {
	if v.readOnly || v.busy {
		return nil
	}
	pending := false
	for _, ann := range v.state.Annotations {
		if ann.Status == client.AnnotationPending {
			pending = true
			break
		}
	}
	if !pending {
		return nil
	}
	v.busy = true
	return func() tea.Msg { return BatchMsg{Action: action} }
}

// View implements tea.Model
func (v *View) View() string {
	var sb strings.Builder

	title := icons.Compare.String() + " Review changes"
	if v.readOnly {
		title += "  " + widgets.Badge("read-only", widgets.StatusNeutral)
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n\n")

	sb.WriteString(v.renderContent())
	sb.WriteString("\n\n")
	sb.WriteString(v.renderDetail())

	if v.busy {
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render("Applying..."))
	}
	if v.errText != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render(v.errText))
	}
	return sb.String()
}

// renderContent renders the current text with annotated spans styled by
// change type and status.
func (v *View) renderContent() string {
	segments, err := highlight.Segments(v.state.CurrentContent, v.state.Annotations)
	if err != nil {
		// Offsets that do not fit the content mean the server state is
		// stale; show the raw text rather than nothing.
		return v.state.CurrentContent
	}

	var selectedID string
	if len(v.state.Annotations) > 0 {
		selectedID = v.state.Annotations[v.cursor].ID
	}

	var sb strings.Builder
	for _, seg := range segments {
		if seg.Kind == highlight.KindAnnotated {
			style := styles.AnnotationStyle(seg.Type, seg.Status, seg.ChangeID == selectedID)
			sb.WriteString(style.Render(seg.Text))
			continue
		}
		sb.WriteString(seg.Text)
	}

	width := v.width - 6
	if width < 40 {
		width = 40
	}
	return styles.Panel.Width(width).Render(sb.String())
}

// renderDetail renders the panel for the selected annotation.
func (v *View) renderDetail() string {
	width := v.width - 6
	if width < 40 {
		width = 40
	}

	if len(v.state.Annotations) == 0 {
		return styles.Panel.Width(width).Render("No changes to review.")
	}

	ann := v.state.Annotations[v.cursor]

	var sb strings.Builder
	typeStyle := lipgloss.NewStyle().Foreground(styles.ChangeTypeColor(ann.Type)).Bold(true)
	sb.WriteString(fmt.Sprintf("%s %s  %s  (%d/%d)\n",
		typeStyle.Render(ann.Type),
		widgets.StatusBadge(ann.Status),
		widgets.ConfidenceBar(ann.Confidence, 10),
		v.cursor+1, len(v.state.Annotations)))

	sb.WriteString(fmt.Sprintf("%q -> %q\n", ann.OriginalText, ann.PolishedText))
	if ann.Reason != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(ann.Reason))
		sb.WriteString("\n")
	}

	if !v.readOnly {
		keys := styles.KeyStyle.Render("a") + " accept  " +
			styles.KeyStyle.Render("r") + " reject  " +
			styles.KeyStyle.Render("A") + " accept all  " +
			styles.KeyStyle.Render("R") + " reject all"
		sb.WriteString(keys)
	}

	return styles.ActivePanel.Width(width).Render(sb.String())
}

// Summary renders the totals line shown under the panels.
func (v *View) Summary() string {
	accepted, rejected, pending := 0, 0, 0
	for _, ann := range v.state.Annotations {
		switch ann.Status {
		case client.AnnotationAccepted:
			accepted++
		case client.AnnotationRejected:
			rejected++
		default:
			pending++
		}
	}
	return fmt.Sprintf("%d accepted · %d rejected · %d pending", accepted, rejected, pending)
}
