// ABOUTME: Service tag management screen with list and inline add input
// ABOUTME: Admin-only view for inspecting and extending the service catalog

package servicesview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/siteseo/siteseo-cli/internal/gateway"
	"github.com/siteseo/siteseo-cli/internal/tui/icons"
	"github.com/siteseo/siteseo-cli/internal/tui/styles"
)

// BackMsg is sent when the user leaves the view
type BackMsg struct{}

// AddMsg is sent when a new service name is submitted
type AddMsg struct {
	Name string
}

// View lists service tags and accepts new ones
type View struct {
	services []gateway.Service
	adding   bool
	input    textinput.Model
	status   string
	width    int
	height   int
}

// New creates a new services view
func New() *View {
	ti := textinput.New()
	ti.Placeholder = "new service name"
	ti.CharLimit = 64
	ti.Width = 32

	return &View{input: ti}
}

// SetServices replaces the listed services
func (v *View) SetServices(services []gateway.Service) {
	v.services = services
}

// SetStatus displays a one-line status message
func (v *View) SetStatus(text string) {
	v.status = text
}

// SetSize updates layout bounds
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Init implements tea.Model
func (v *View) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			switch msg.String() {
			case "enter":
				name := strings.TrimSpace(v.input.Value())
				v.adding = false
				v.input.Blur()
				v.input.SetValue("")
				if name == "" {
					return v, nil
				}
				return v, func() tea.Msg { return AddMsg{Name: name} }
			case "esc":
				v.adding = false
				v.input.Blur()
				v.input.SetValue("")
				return v, nil
			}

			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}

		switch msg.String() {
		case "q":
			return v, tea.Quit
		case "esc", "backspace", "b":
			return v, func() tea.Msg { return BackMsg{} }
		case "a":
			v.adding = true
			v.status = ""
			v.input.Focus()
			return v, textinput.Blink
		}
	}
	return v, nil
}

// View implements tea.Model
func (v *View) View() string {
	var sections []string

	sections = append(sections, styles.Title.Render(fmt.Sprintf("%s services", icons.Tag)))

	if len(v.services) == 0 {
		sections = append(sections, styles.Subtitle.Render("no services yet"))
	} else {
		var rows []string
		for _, svc := range v.services {
			rows = append(rows, fmt.Sprintf("%-6d %s", svc.ID, styles.ValueStyle.Render(svc.Name)))
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	if v.adding {
		sections = append(sections, v.input.View())
	}
	if v.status != "" {
		sections = append(sections, styles.StatusOK.Render(v.status))
	}

	help := fmt.Sprintf("%s add · %s back", styles.KeyStyle.Render("a"), styles.KeyStyle.Render("esc"))
	sections = append(sections, styles.Help.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
