// ABOUTME: Listing detail screen rendering a single catalog entry
// ABOUTME: Read-only view with edit and delete shortcuts for admins

package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/siteseo/siteseo-cli/internal/gateway"
	"github.com/siteseo/siteseo-cli/internal/tui/icons"
	"github.com/siteseo/siteseo-cli/internal/tui/styles"
)

// BackMsg is sent when the user leaves the detail view
type BackMsg struct{}

// EditMsg is sent when the admin requests the edit form
type EditMsg struct {
	Listing gateway.Listing
}

// DeleteMsg is sent when the admin confirms a delete
type DeleteMsg struct {
	Listing gateway.Listing
}

// Detail renders a single listing
type Detail struct {
	listing       *gateway.Listing
	isAdmin       bool
	pendingDelete bool
	width         int
	height        int
}

// New creates a new Detail component
func New() *Detail {
	return &Detail{}
}

// SetListing replaces the displayed listing
func (d *Detail) SetListing(listing *gateway.Listing) {
	d.listing = listing
	d.pendingDelete = false
}

// SetAdmin toggles the admin shortcuts
func (d *Detail) SetAdmin(isAdmin bool) {
	d.isAdmin = isAdmin
}

// SetSize updates layout bounds
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Init implements tea.Model
func (d *Detail) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (d *Detail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tea.KeyMsg:
		key := msg.String()

		if d.pendingDelete {
			d.pendingDelete = false
			if key == "y" && d.listing != nil {
				listing := *d.listing
				return d, func() tea.Msg { return DeleteMsg{Listing: listing} }
			}
			return d, nil
		}

		switch key {
		case "q":
			return d, tea.Quit
		case "esc", "backspace", "b":
			return d, func() tea.Msg { return BackMsg{} }
		case "e":
			if d.isAdmin && d.listing != nil {
				listing := *d.listing
				return d, func() tea.Msg { return EditMsg{Listing: listing} }
			}
		case "d":
			if d.isAdmin && d.listing != nil {
				d.pendingDelete = true
			}
		}
	}
	return d, nil
}

// View implements tea.Model
func (d *Detail) View() string {
	if d.listing == nil {
		return styles.Subtitle.Render("listing not found") + "\n" + d.helpView()
	}

	l := d.listing

	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Listing, l.Name)))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(l.Slug))
	b.WriteString("\n\n")

	if l.Description != "" {
		b.WriteString(l.Description)
		b.WriteString("\n\n")
	}

	b.WriteString(field(fmt.Sprintf("%s place", icons.Place), l.Place))
	b.WriteString(field(fmt.Sprintf("%s per hour", icons.Price), l.PricePerHour))
	b.WriteString(field(fmt.Sprintf("%s per night", icons.Price), l.PricePerNight))
	b.WriteString(field(fmt.Sprintf("%s per encounter", icons.Price), l.PricePerFoo))
	b.WriteString(field("height", l.Height))
	b.WriteString(field("weight", l.Weight))
	b.WriteString(field("bust", l.Bust))
	b.WriteString(field("contact", l.Contact))

	if len(l.Services) > 0 {
		names := make([]string, 0, len(l.Services))
		for _, svc := range l.Services {
			names = append(names, svc.Name)
		}
		b.WriteString(field(fmt.Sprintf("%s services", icons.Tag), strings.Join(names, ", ")))
	}

	if d.pendingDelete {
		b.WriteString("\n")
		b.WriteString(styles.StatusError.Render("press y to confirm delete"))
	}

	body := styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, body, d.helpView())
}

// helpView renders the key help line
func (d *Detail) helpView() string {
	help := fmt.Sprintf("%s back", styles.KeyStyle.Render("esc"))
	if d.isAdmin && d.listing != nil {
		help += fmt.Sprintf(" · %s edit · %s delete",
			styles.KeyStyle.Render("e"), styles.KeyStyle.Render("d"))
	}
	return styles.Help.Render(help)
}

// field renders one labeled value, skipping empty values
func field(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%-18s %s\n", label+":", styles.ValueStyle.Render(value))
}
