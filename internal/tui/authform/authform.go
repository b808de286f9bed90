// ABOUTME: Login and registration forms as bubbletea models
// ABOUTME: Wraps huh forms and emits submitted credentials as messages

package authform

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/tui/styles"
)

// LoginSubmittedMsg is sent when the login form completes.
type LoginSubmittedMsg struct {
	Username string
	Password string
}

// RegisterSubmittedMsg is sent when the registration form completes.
type RegisterSubmittedMsg struct {
	Input *client.RegisterInput
}

// CancelledMsg is sent when the user backs out of the form.
type CancelledMsg struct{}

// Kind selects which form to show.
type Kind int

const (
	KindLogin Kind = iota
	KindRegister
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

// Form is a login or registration form child model.
type Form struct {
	kind Kind
	form *huh.Form

	username string
	email    string
	password string
	confirm  string
	nickname string
}

// New builds a form of the given kind.
func New(kind Kind) *Form {
	f := &Form{kind: kind}
	if kind == KindLogin {
		f.form = f.loginForm()
	} else {
		f.form = f.registerForm()
	}
	return f
}

func (f *Form) loginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&f.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(required("password")),
		).Title("Log in"),
	).WithTheme(styles.FormTheme())
}

func (f *Form) registerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("3-50 characters, letters, digits, underscore").
				Value(&f.username).
				Validate(validateUsername),
			huh.NewInput().
				Title("Email").
				Value(&f.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				Description("At least 8 characters").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&f.confirm),
			huh.NewInput().
				Title("Nickname").
				Description("Optional display name").
				Value(&f.nickname),
		).Title("Register"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		f.form = m
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submit()
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	if f.kind == KindLogin {
		return func() tea.Msg {
			return LoginSubmittedMsg{Username: f.username, Password: f.password}
		}
	}

	// Cross-field check huh cannot express per-field.
	if f.password != f.confirm {
		f.confirm = ""
		f.form = f.registerForm()
		return f.form.Init()
	}

	input := &client.RegisterInput{
		Username:        f.username,
		Email:           f.email,
		Password:        f.password,
		ConfirmPassword: f.confirm,
		Nickname:        f.nickname,
	}
	return func() tea.Msg {
		return RegisterSubmittedMsg{Input: input}
	}
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateUsername(s string) error {
	if !usernameRe.MatchString(s) {
		return fmt.Errorf("3-50 letters, digits, or underscores")
	}
	return nil
}

func validateEmail(s string) error {
	if !strings.Contains(s, "@") || strings.HasPrefix(s, "@") || strings.HasSuffix(s, "@") {
		return fmt.Errorf("must be a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("must be at least 8 characters")
	}
	return nil
}
