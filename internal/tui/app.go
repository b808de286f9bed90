// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/paperai/polish-cli/internal/auth"
	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/session"
	"github.com/paperai/polish-cli/internal/tui/authform"
	"github.com/paperai/polish-cli/internal/tui/comparison"
	"github.com/paperai/polish-cli/internal/tui/debuglog"
	"github.com/paperai/polish-cli/internal/tui/editor"
	"github.com/paperai/polish-cli/internal/tui/history"
	"github.com/paperai/polish-cli/internal/tui/icons"
	"github.com/paperai/polish-cli/internal/tui/menu"
	"github.com/paperai/polish-cli/internal/tui/styles"
	"github.com/paperai/polish-cli/internal/tui/versions"
	"github.com/paperai/polish-cli/internal/tui/widgets"
	"github.com/paperai/polish-cli/internal/workflow"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenLogin
	ScreenRegister
	ScreenProfile
	ScreenEditor
	ScreenVersions
	ScreenComparison
	ScreenHistory
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	historyPageSize  = 15
)

// sessionRestoredMsg is sent after the stored session has been checked
type sessionRestoredMsg struct{}

// loggedInMsg is sent when a login attempt completes
type loggedInMsg struct {
	user *client.UserProfile
	err  error
}

// registeredMsg is sent when a registration attempt completes
type registeredMsg struct {
	username string
	err      error
}

// loggedOutMsg is sent after logout finished
type loggedOutMsg struct{}

// profileLoadedMsg is sent when the profile refresh completes
type profileLoadedMsg struct {
	err error
}

// polishDoneMsg is sent when a single-version polish completes
type polishDoneMsg struct {
	err error
}

// multiDoneMsg is sent when a multi-version polish completes
type multiDoneMsg struct {
	err error
}

// versionCommittedMsg is sent when a variant selection completes
type versionCommittedMsg struct {
	err error
}

// comparisonLoadedMsg is sent when the annotated comparison finished loading
type comparisonLoadedMsg struct {
	err error
}

// actionAppliedMsg is sent when an accept/reject action completes
type actionAppliedMsg struct {
	err error
}

// historyLoadedMsg carries a page of records plus statistics
type historyLoadedMsg struct {
	list  *client.RecordList
	stats *client.Statistics
	err   error
}

// App is the root model for the TUI
type App struct {
	api      *client.Client
	store    *session.Store
	auth     *auth.Coordinator
	flow     *workflow.Controller
	defaults workflow.Config

	screen     Screen
	width      int
	height     int
	err        error
	lastUpdate time.Time

	// Child models
	menu        *menu.Menu
	form        *authform.Form
	editorView  *editor.Editor
	picker      *versions.Picker
	compView    *comparison.View
	historyView *history.Browser
}

// New creates a new TUI application
func New(api *client.Client, store *session.Store, defaults workflow.Config) *App {
	return &App{
		api:      api,
		store:    store,
		auth:     auth.New(api, store),
		flow:     workflow.New(api),
		defaults: defaults,
		screen:   ScreenMenu,
		menu:     menu.New(false, ""),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.restoreSession()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to child models
		if a.menu != nil {
			a.menu.Update(msg)
		}
		if a.compView != nil {
			a.compView.SetWidth(msg.Width)
		}
		if a.historyView != nil {
			a.historyView.SetWidth(msg.Width)
		}
		if a.screen == ScreenEditor && a.editorView != nil {
			return a.updateEditor(msg)
		}
		if (a.screen == ScreenLogin || a.screen == ScreenRegister) && a.form != nil {
			return a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenLogin, ScreenRegister:
			return a.updateForm(msg)
		case ScreenProfile:
			return a.updateProfile(msg)
		case ScreenEditor:
			return a.updateEditor(msg)
		case ScreenVersions:
			return a.updatePicker(msg)
		case ScreenComparison:
			return a.updateComparison(msg)
		case ScreenHistory:
			return a.updateHistory(msg)
		}

	case menu.ActionSelectedMsg:
		return a.handleMenuAction(msg.Action)

	case authform.LoginSubmittedMsg:
		return a, a.login(msg.Username, msg.Password)

	case authform.RegisterSubmittedMsg:
		return a, a.register(msg.Input)

	case authform.CancelledMsg:
		a.form = nil
		a.screen = ScreenMenu
		return a, nil

	case editor.SubmitMsg:
		if msg.Multi {
			return a, a.submitMulti(msg.Content, msg.Config)
		}
		return a, a.submitSingle(msg.Content, msg.Config)

	case editor.CancelledMsg:
		a.editorView = nil
		a.screen = ScreenMenu
		return a, nil

	case versions.ChosenMsg:
		return a, a.commitVersion(msg.Key)

	case versions.CancelledMsg:
		// Back to the editor keeps the submitted text for another try.
		a.flow.Reset()
		a.picker = nil
		a.screen = ScreenEditor
		return a, nil

	case comparison.ActionMsg:
		return a, a.applyAction(msg.ChangeID, msg.Action)

	case comparison.BatchMsg:
		return a, a.applyBatch(msg.Action)

	case comparison.ClosedMsg:
		a.flow.Reset()
		a.compView = nil
		a.screen = ScreenMenu
		return a, nil

	case history.RecordOpenedMsg:
		return a.openRecord(msg.Record)

	case history.PageRequestedMsg:
		return a, a.loadHistory(msg.Page)

	case history.ClosedMsg:
		a.historyView = nil
		a.screen = ScreenMenu
		return a, nil

	case sessionRestoredMsg:
		a.rebuildMenu()
		return a, nil

	case loggedInMsg:
		if msg.err != nil {
			debuglog.Error("login", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.form = nil
		a.rebuildMenu()
		a.screen = ScreenMenu
		return a, nil

	case registeredMsg:
		if msg.err != nil {
			debuglog.Error("register", msg.err)
			a.err = msg.err
			return a, nil
		}
		// Registration does not authenticate; drop into the login form.
		a.err = nil
		a.form = authform.New(authform.KindLogin)
		a.screen = ScreenLogin
		return a, a.form.Init()

	case loggedOutMsg:
		a.rebuildMenu()
		a.screen = ScreenMenu
		return a, nil

	case profileLoadedMsg:
		if msg.err != nil {
			debuglog.Error("profile", msg.err)
			a.err = msg.err
		}
		return a, nil

	case polishDoneMsg:
		if msg.err != nil {
			return a.editorError(msg.err)
		}
		return a, a.loadComparison()

	case multiDoneMsg:
		if msg.err != nil {
			return a.editorError(msg.err)
		}
		a.picker = versions.New(a.flow.MultiResult())
		a.screen = ScreenVersions
		a.lastUpdate = time.Now()
		return a, nil

	case versionCommittedMsg:
		if msg.err != nil {
			debuglog.Error("select version", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.picker = nil
		return a, a.loadComparison()

	case comparisonLoadedMsg:
		if msg.err != nil {
			debuglog.Error("load comparison", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		if a.compView == nil {
			a.compView = comparison.New(a.flow.Comparison(), a.flow.ReadOnly(), a.width)
		} else {
			a.compView.SetState(a.flow.Comparison())
		}
		a.screen = ScreenComparison
		a.editorView = nil
		a.lastUpdate = time.Now()
		return a, nil

	case actionAppliedMsg:
		if a.compView == nil {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error("apply action", msg.err)
			a.compView.SetError(msg.err.Error())
			return a, nil
		}
		a.compView.SetState(a.flow.Comparison())
		a.lastUpdate = time.Now()
		return a, nil

	case historyLoadedMsg:
		if msg.err != nil {
			debuglog.Error("load history", msg.err)
			a.err = msg.err
			a.screen = ScreenMenu
			return a, nil
		}
		a.err = nil
		if a.historyView == nil {
			a.historyView = history.New(msg.list, msg.stats, a.width)
		} else {
			a.historyView.SetPage(msg.list)
		}
		a.screen = ScreenHistory
		a.lastUpdate = time.Now()
		return a, nil

	default:
		// Forward unknown messages to huh-backed screens (form internals)
		switch a.screen {
		case ScreenLogin, ScreenRegister:
			return a.updateForm(msg)
		case ScreenEditor:
			return a.updateEditor(msg)
		}
	}

	return a, nil
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.menu == nil {
		return a, nil
	}
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	model, cmd := a.form.Update(msg)
	a.form = model.(*authform.Form)
	return a, cmd
}

func (a *App) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "q":
		a.screen = ScreenMenu
		return a, nil
	case "r":
		return a, a.refreshProfile()
	}
	return a, nil
}

func (a *App) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.editorView == nil {
		return a, nil
	}
	model, cmd := a.editorView.Update(msg)
	a.editorView = model.(*editor.Editor)
	return a, cmd
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.picker == nil {
		return a, nil
	}
	model, cmd := a.picker.Update(msg)
	a.picker = model.(*versions.Picker)
	return a, cmd
}

func (a *App) updateComparison(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.compView == nil {
		return a, nil
	}
	model, cmd := a.compView.Update(msg)
	a.compView = model.(*comparison.View)
	return a, cmd
}

func (a *App) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.historyView == nil {
		return a, nil
	}
	model, cmd := a.historyView.Update(msg)
	a.historyView = model.(*history.Browser)
	return a, cmd
}

func (a *App) handleMenuAction(action menu.Action) (tea.Model, tea.Cmd) {
	a.err = nil

	switch action {
	case menu.ActionPolish:
		a.editorView = editor.New(a.defaults)
		a.screen = ScreenEditor
		return a, a.editorView.Init()

	case menu.ActionHistory:
		return a, a.loadHistory(1)

	case menu.ActionProfile:
		a.screen = ScreenProfile
		return a, a.refreshProfile()

	case menu.ActionLogin:
		a.form = authform.New(authform.KindLogin)
		a.screen = ScreenLogin
		return a, a.form.Init()

	case menu.ActionRegister:
		a.form = authform.New(authform.KindRegister)
		a.screen = ScreenRegister
		return a, a.form.Init()

	case menu.ActionLogout:
		return a, a.logout()

	case menu.ActionQuit:
		return a, tea.Quit
	}

	return a, nil
}

// editorError returns to the editor with the failure shown inline.
func (a *App) editorError(err error) (tea.Model, tea.Cmd) {
	debuglog.Error("polish", err)
	if a.editorView != nil {
		a.editorView.SetError(err.Error())
	}
	a.screen = ScreenEditor
	return a, nil
}

func (a *App) openRecord(record *client.PolishRecord) (tea.Model, tea.Cmd) {
	a.flow.OpenRecord(record)
	a.historyView = nil
	a.compView = comparison.New(a.flow.Comparison(), true, a.width)
	a.screen = ScreenComparison
	// Annotations exist only for records with a trace id; the degraded
	// original-vs-polished view stands on its own otherwise.
	if record.TraceID != "" {
		return a, a.loadComparison()
	}
	return a, nil
}

func (a *App) rebuildMenu() {
	username := ""
	if user := a.auth.User(); user != nil {
		username = user.DisplayName()
	}
	a.menu = menu.New(a.auth.State() == auth.StateAuthenticated, username)
}

// Commands

func (a *App) restoreSession() tea.Cmd {
	return func() tea.Msg {
		if err := a.auth.RestoreSession(context.Background()); err != nil {
			debuglog.Error("restore session", err)
		}
		return sessionRestoredMsg{}
	}
}

func (a *App) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := a.auth.Login(context.Background(), username, password)
		return loggedInMsg{user: user, err: err}
	}
}

func (a *App) register(input *client.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		_, err := a.auth.Register(context.Background(), input)
		return registeredMsg{username: input.Username, err: err}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.auth.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (a *App) refreshProfile() tea.Cmd {
	return func() tea.Msg {
		_, err := a.auth.RefreshProfile(context.Background())
		return profileLoadedMsg{err: err}
	}
}

func (a *App) submitSingle(content string, cfg workflow.Config) tea.Cmd {
	return func() tea.Msg {
		_, err := a.flow.SubmitSingle(context.Background(), content, cfg)
		return polishDoneMsg{err: err}
	}
}

func (a *App) submitMulti(content string, cfg workflow.Config) tea.Cmd {
	return func() tea.Msg {
		_, err := a.flow.SubmitMulti(context.Background(), content, cfg, nil)
		return multiDoneMsg{err: err}
	}
}

func (a *App) commitVersion(key string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.flow.SelectVersion(context.Background(), key)
		return versionCommittedMsg{err: err}
	}
}

func (a *App) loadComparison() tea.Cmd {
	return func() tea.Msg {
		err := a.flow.LoadComparison(context.Background())
		return comparisonLoadedMsg{err: err}
	}
}

func (a *App) applyAction(changeID, action string) tea.Cmd {
	return func() tea.Msg {
		err := a.flow.ApplyChange(context.Background(), changeID, action)
		return actionAppliedMsg{err: err}
	}
}

func (a *App) applyBatch(action string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.flow.ApplyBatch(context.Background(), action, nil)
		return actionAppliedMsg{err: err}
	}
}

// loadHistory fetches records and statistics in parallel. A statistics
// failure does not block the record list.
func (a *App) loadHistory(page int) tea.Cmd {
	return func() tea.Msg {
		var (
			list  *client.RecordList
			stats *client.Statistics
		)

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			l, err := a.api.Records(ctx, &client.RecordQuery{Page: page, PageSize: historyPageSize})
			if err != nil {
				return err
			}
			list = l
			return nil
		})
		g.Go(func() error {
			s, err := a.api.GetStatistics(ctx, time.Time{}, time.Time{})
			if err != nil {
				debuglog.Error("load statistics", err)
				return nil
			}
			stats = s
			return nil
		})

		if err := g.Wait(); err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{list: list, stats: stats}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenLogin, ScreenRegister:
		content = a.viewForm()
	case ScreenProfile:
		content = a.viewProfile()
	case ScreenEditor:
		content = a.viewEditor()
	case ScreenVersions:
		content = a.viewPicker()
	case ScreenComparison:
		content = a.viewComparison()
	case ScreenHistory:
		content = a.viewHistory()
	default:
		content = a.viewMenu()
	}

	if a.err != nil && a.screen != ScreenEditor {
		content += "\n" + styles.StatusCritical.Render("Error: "+a.err.Error())
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewMenu() string {
	if a.menu != nil {
		return a.menu.View()
	}
	return ""
}

func (a *App) viewForm() string {
	if a.form != nil {
		return a.form.View()
	}
	return ""
}

func (a *App) viewProfile() string {
	user := a.auth.User()
	if user == nil {
		return styles.Subtitle.Render("Not logged in.")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.User.String() + " Profile"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Username: %s\n", styles.ValueStyle.Render(user.Username)))
	email := user.Email
	if user.EmailVerified {
		email += " " + styles.StatusOK.Render(icons.CheckOK.String())
	}
	sb.WriteString(fmt.Sprintf("Email:    %s\n", email))
	if user.Nickname != "" {
		sb.WriteString(fmt.Sprintf("Nickname: %s\n", user.Nickname))
	}
	sb.WriteString(fmt.Sprintf("Status:   %s\n", widgets.StatusText(user.Status, widgets.LevelForStatus(user.Status))))
	if user.LastLoginAt != nil {
		sb.WriteString(fmt.Sprintf("Last login: %s\n", user.LastLoginAt.Local().Format("2006-01-02 15:04")))
	}
	return styles.Panel.Render(sb.String())
}

func (a *App) viewEditor() string {
	if a.editorView != nil {
		return a.editorView.View()
	}
	return ""
}

func (a *App) viewPicker() string {
	if a.picker != nil {
		return a.picker.View()
	}
	return ""
}

func (a *App) viewComparison() string {
	if a.compView != nil {
		return a.compView.View() + "\n" + styles.Subtitle.Render(a.compView.Summary())
	}
	return ""
}

func (a *App) viewHistory() string {
	if a.historyView != nil {
		return a.historyView.View()
	}
	return ""
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Paper Polish"))

	rightText := ""
	if user := a.auth.User(); user != nil && a.auth.State() == auth.StateAuthenticated {
		rightText = contextStyle.Render(user.DisplayName()) + " "
	}

	leftRendered := lipgloss.NewStyle().Render(leftText)
	rightRendered := lipgloss.NewStyle().Align(lipgloss.Right).Render(rightText)

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)
	header := "╭─" + leftRendered + fill + rightRendered + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	// Build keyboard shortcuts based on current screen
	var shortcuts []string
	switch a.screen {
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenLogin, ScreenRegister:
		shortcuts = []string{"Tab Next field", "Enter Submit", "Esc Back"}
	case ScreenProfile:
		shortcuts = []string{"r Refresh", "Esc Back"}
	case ScreenEditor:
		shortcuts = []string{"Ctrl+S Submit", "Ctrl+O Settings", "Esc Back"}
	case ScreenVersions:
		shortcuts = []string{"↑↓ Navigate", "Enter Choose", "Esc Back"}
	case ScreenComparison:
		if a.compView != nil && !a.flow.ReadOnly() {
			shortcuts = []string{"↑↓ Change", "a Accept", "r Reject", "A/R All", "Esc Back"}
		} else {
			shortcuts = []string{"↑↓ Change", "Esc Back"}
		}
	case ScreenHistory:
		shortcuts = []string{"↑↓ Navigate", "Enter Open", "n/p Page", "Esc Back"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenMenu {
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)
	footer := "╰─" + leftText + fill + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(api *client.Client, store *session.Store, defaults workflow.Config) error {
	if err := debuglog.Init(store.Dir()); err == nil {
		defer debuglog.Close()
	}

	app := New(api, store, defaults)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
