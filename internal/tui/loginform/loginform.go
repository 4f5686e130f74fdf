// ABOUTME: Login form as a bubbletea model wrapping a huh form
// ABOUTME: Collects credentials and reports completion or cancellation

package loginform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/siteseo/siteseo-cli/internal/tui/icons"
	"github.com/siteseo/siteseo-cli/internal/tui/styles"
)

// SubmitMsg is sent when credentials have been entered
type SubmitMsg struct {
	Username string
	Password string
}

// CancelMsg is sent when the form is cancelled
type CancelMsg struct{}

// Form collects login credentials
type Form struct {
	form     *huh.Form
	username string
	password string
	errText  string
	width    int
}

// New creates a new login form
func New() *Form {
	f := &Form{}
	f.form = f.createForm()
	return f
}

func (f *Form) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("username").
				CharLimit(64).
				Value(&f.username).
				Validate(requireValue("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(128).
				Value(&f.password).
				Validate(requireValue("password")),
		).Title("Log in").
			Description("Enter your account credentials"),
	).WithTheme(styles.FormTheme())
}

// SetError displays a failure message and re-arms the form
func (f *Form) SetError(text string) {
	f.errText = text
	f.password = ""
	f.form = f.createForm()
}

// SetWidth sets the form width
func (f *Form) SetWidth(width int) {
	f.width = width
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		username := f.username
		password := f.password
		return f, func() tea.Msg { return SubmitMsg{Username: username, Password: password} }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s siteseo login", icons.User)))
	sb.WriteString("\n")
	if f.errText != "" {
		sb.WriteString(styles.StatusError.Render(fmt.Sprintf("%s %s", icons.Critical, f.errText)))
		sb.WriteString("\n\n")
	}
	sb.WriteString(f.form.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render(fmt.Sprintf("%s cancel", styles.KeyStyle.Render("esc"))))
	return sb.String()
}

// requireValue validates that a field is not blank
func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		return nil
	}
}
