// ABOUTME: Catalog browse screen with cursor list, search, and paging
// ABOUTME: Emits messages for the root model to run fetches and admin actions

package browse

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

// mode represents the current input mode
type mode int

const (
	modeList mode = iota
	modeSearch
)

// OpenMsg is sent when a listing is selected for the detail view
type OpenMsg struct {
	Slug string
}

// PageMsg is sent when the user pages forward or backward
type PageMsg struct {
	Delta int
}

// SearchMsg is sent when a search is submitted
type SearchMsg struct {
	Text string
}

// ResetMsg is sent when filters should be cleared
type ResetMsg struct{}

// RefreshMsg is sent when the current page should be refetched
type RefreshMsg struct{}

// NewListingMsg is sent when the admin requests the create form
type NewListingMsg struct{}

// EditListingMsg is sent when the admin requests the edit form
type EditListingMsg struct {
	Listing gateway.Listing
}

// DeleteListingMsg is sent when the admin confirms a delete
type DeleteListingMsg struct {
	Listing gateway.Listing
}

// LoginMsg is sent when the user requests the login form
type LoginMsg struct{}

// LogoutMsg is sent when the user logs out
type LogoutMsg struct{}

// ServicesMsg is sent when the admin opens service management
type ServicesMsg struct{}

// Browse is the catalog list component
type Browse struct {
	items    []gateway.Listing
	cursor   int
	page     int
	busy     bool
	loggedIn bool
	isAdmin  bool
	username string

	mode          mode
	searchInput   textinput.Model
	pendingDelete *gateway.Listing

	width  int
	height int
}

// New creates a new Browse component
func New() *Browse {
	ti := textinput.New()
	ti.Placeholder = "search name, description, or place"
	ti.CharLimit = 128
	ti.Width = 48

	return &Browse{searchInput: ti}
}

// SetItems replaces the rendered page
func (b *Browse) SetItems(items []gateway.Listing, page int) {
	b.items = items
	b.page = page
	if b.cursor >= len(items) {
		b.cursor = 0
	}
	b.pendingDelete = nil
}

// SetBusy toggles the fetching indicator
func (b *Browse) SetBusy(busy bool) {
	b.busy = busy
}

// SetSession updates the session banner
func (b *Browse) SetSession(username string, loggedIn, isAdmin bool) {
	b.username = username
	b.loggedIn = loggedIn
	b.isAdmin = isAdmin
}

// SetSize updates layout bounds
func (b *Browse) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Selected returns the listing under the cursor, or nil
func (b *Browse) Selected() *gateway.Listing {
	if b.cursor < 0 || b.cursor >= len(b.items) {
		return nil
	}
	listing := b.items[b.cursor]
	return &listing
}

// Init implements tea.Model
func (b *Browse) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (b *Browse) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case tea.KeyMsg:
		switch b.mode {
		case modeSearch:
			return b.updateSearch(msg)
		default:
			return b.updateList(msg)
		}
	}
	return b, nil
}

// updateList handles keys in list mode
func (b *Browse) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// A pending delete only survives an immediate confirm
	if b.pendingDelete != nil {
		pending := *b.pendingDelete
		b.pendingDelete = nil
		if key == "y" {
			return b, func() tea.Msg { return DeleteListingMsg{Listing: pending} }
		}
		return b, nil
	}

	switch key {
	case "q":
		return b, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.items)-1 {
			b.cursor++
		}
	case "enter":
		if sel := b.Selected(); sel != nil {
			slug := sel.Slug
			return b, func() tea.Msg { return OpenMsg{Slug: slug} }
		}
	case "right", "l", "n":
		return b, func() tea.Msg { return PageMsg{Delta: 1} }
	case "left", "h", "p":
		if b.page > 0 {
			return b, func() tea.Msg { return PageMsg{Delta: -1} }
		}
	case "/":
		b.mode = modeSearch
		b.searchInput.Focus()
		return b, textinput.Blink
	case "r":
		return b, func() tea.Msg { return RefreshMsg{} }
	case "R":
		b.searchInput.SetValue("")
		return b, func() tea.Msg { return ResetMsg{} }
	case "L":
		if !b.loggedIn {
			return b, func() tea.Msg { return LoginMsg{} }
		}
	case "O":
		if b.loggedIn {
			return b, func() tea.Msg { return LogoutMsg{} }
		}
	case "a":
		if b.isAdmin {
			return b, func() tea.Msg { return NewListingMsg{} }
		}
	case "e":
		if b.isAdmin {
			if sel := b.Selected(); sel != nil {
				listing := *sel
				return b, func() tea.Msg { return EditListingMsg{Listing: listing} }
			}
		}
	case "d":
		if b.isAdmin {
			b.pendingDelete = b.Selected()
		}
	case "S":
		if b.isAdmin {
			return b, func() tea.Msg { return ServicesMsg{} }
		}
	}
	return b, nil
}

// updateSearch handles keys while the search input is focused
func (b *Browse) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.mode = modeList
		b.searchInput.Blur()
		text := b.searchInput.Value()
		return b, func() tea.Msg { return SearchMsg{Text: text} }
	case "esc":
		b.mode = modeList
		b.searchInput.Blur()
		return b, nil
	}

	var cmd tea.Cmd
	b.searchInput, cmd = b.searchInput.Update(msg)
	return b, cmd
}

// View implements tea.Model
func (b *Browse) View() string {
	var sections []string

	sections = append(sections, b.headerView())

	if b.mode == modeSearch || b.searchInput.Value() != "" {
		sections = append(sections, b.searchInput.View())
	}

	sections = append(sections, b.listView())
	sections = append(sections, b.footerView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// headerView renders the title and session banner
func (b *Browse) headerView() string {
	title := styles.Title.Render(fmt.Sprintf("%s siteseo catalog", icons.Listing))

	var who string
	switch {
	case b.isAdmin:
		who = fmt.Sprintf("%s %s %s", icons.User, b.username, styles.AdminBadge.Render("admin"))
	case b.loggedIn:
		who = fmt.Sprintf("%s %s", icons.User, b.username)
	default:
		who = styles.Subtitle.Render("not logged in")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", who)
}

// listView renders the listing rows
func (b *Browse) listView() string {
	if b.busy {
		return styles.Subtitle.Render(fmt.Sprintf("%s loading…", icons.Refresh))
	}
	if len(b.items) == 0 {
		return styles.Subtitle.Render("no listings on this page")
	}

	var rows []string
	for i, l := range b.items {
		marker := "  "
		style := styles.NormalStyle
		if i == b.cursor {
			marker = "> "
			style = styles.SelectedStyle
		}

		row := fmt.Sprintf("%s%-24s %s %-14s", marker, truncate(l.Name, 24), icons.Place, truncate(l.Place, 14))
		if l.PricePerHour != "" {
			row += fmt.Sprintf(" %s %s/h", icons.Price, l.PricePerHour)
		}
		if b.pendingDelete != nil && b.pendingDelete.UUID == l.UUID {
			row += "  " + styles.StatusError.Render("press y to delete")
		}
		rows = append(rows, style.Render(row))
	}

	return strings.Join(rows, "\n")
}

// footerView renders paging state and key help
func (b *Browse) footerView() string {
	paging := fmt.Sprintf("page %d", b.page)

	help := fmt.Sprintf("%s/%s page · %s search · %s reset · %s refresh · enter detail",
		styles.KeyStyle.Render("←"), styles.KeyStyle.Render("→"),
		styles.KeyStyle.Render("/"), styles.KeyStyle.Render("R"),
		styles.KeyStyle.Render("r"))
	if b.isAdmin {
		help += fmt.Sprintf(" · %s new · %s edit · %s delete · %s services",
			styles.KeyStyle.Render("a"), styles.KeyStyle.Render("e"),
			styles.KeyStyle.Render("d"), styles.KeyStyle.Render("S"))
	}
	if b.loggedIn {
		help += fmt.Sprintf(" · %s logout", styles.KeyStyle.Render("O"))
	} else {
		help += fmt.Sprintf(" · %s login", styles.KeyStyle.Render("L"))
	}
	help += fmt.Sprintf(" · %s quit", styles.KeyStyle.Render("q"))

	return styles.Help.Render(paging + "\n" + help)
}

// truncate shortens a string to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
