// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/siteseo/siteseo-cli/internal/catalog"
	"github.com/siteseo/siteseo-cli/internal/gateway"
	"github.com/siteseo/siteseo-cli/internal/session"
	"github.com/siteseo/siteseo-cli/internal/tui/browse"
	"github.com/siteseo/siteseo-cli/internal/tui/detail"
	"github.com/siteseo/siteseo-cli/internal/tui/listingform"
	"github.com/siteseo/siteseo-cli/internal/tui/loginform"
	"github.com/siteseo/siteseo-cli/internal/tui/servicesview"
	"github.com/siteseo/siteseo-cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenBrowse Screen = iota
	ScreenDetail
	ScreenLogin
	ScreenListingForm
	ScreenServices
)

// pageLoadedMsg is sent when a catalog page fetch settles
type pageLoadedMsg struct {
	err error
}

// servicesLoadedMsg is sent when the service list fetch settles
type servicesLoadedMsg struct {
	err error
}

// detailLoadedMsg is sent when a single listing fetch settles
type detailLoadedMsg struct {
	err error
}

// loginDoneMsg is sent when a login attempt finishes
type loginDoneMsg struct {
	err error
}

// listingSavedMsg is sent when a create or update finishes
type listingSavedMsg struct {
	slug string
	err  error
}

// listingDeletedMsg is sent when a delete finishes
type listingDeletedMsg struct {
	err error
}

// serviceAddedMsg is sent when a service create finishes
type serviceAddedMsg struct {
	name string
	err  error
}

// App is the root model for the TUI
type App struct {
	gw      *gateway.Client
	session *session.Store
	catalog *catalog.Store

	screen Screen
	width  int
	height int
	status string

	browse       *browse.Browse
	detailView   *detail.Detail
	loginScreen  *loginform.Form
	formScreen   *listingform.Form
	servicesView *servicesview.View
}

// New creates a new TUI application
func New(gw *gateway.Client, sess *session.Store, cat *catalog.Store) *App {
	a := &App{
		gw:      gw,
		session: sess,
		catalog: cat,
		screen:  ScreenBrowse,
		browse:  browse.New(),
	}
	a.syncSession()
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.browse.SetBusy(true)
	return tea.Batch(a.fetchPage(), a.fetchServices())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browse.SetSize(msg.Width, msg.Height)
		if a.detailView != nil {
			a.detailView.SetSize(msg.Width, msg.Height)
		}
		if a.servicesView != nil {
			a.servicesView.SetSize(msg.Width, msg.Height)
		}
		if a.loginScreen != nil {
			a.loginScreen.SetWidth(msg.Width)
		}
		if a.formScreen != nil {
			a.formScreen.SetWidth(msg.Width)
			return a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenBrowse:
			return a.updateBrowse(msg)
		case ScreenDetail:
			return a.updateDetail(msg)
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenListingForm:
			return a.updateForm(msg)
		case ScreenServices:
			return a.updateServices(msg)
		}

	case browse.OpenMsg:
		a.status = ""
		return a, a.fetchDetail(msg.Slug)

	case browse.PageMsg:
		a.browse.SetBusy(true)
		return a, a.setPage(a.catalog.Page() + msg.Delta)

	case browse.SearchMsg:
		a.catalog.SetSearchText(msg.Text)
		a.browse.SetBusy(true)
		return a, a.fetchPage()

	case browse.ResetMsg:
		a.browse.SetBusy(true)
		return a, a.resetFilters()

	case browse.RefreshMsg:
		a.browse.SetBusy(true)
		return a, a.fetchPage()

	case browse.LoginMsg:
		a.loginScreen = loginform.New()
		a.screen = ScreenLogin
		return a, a.loginScreen.Init()

	case browse.LogoutMsg:
		a.session.Logout()
		a.syncSession()
		a.status = "logged out"
		return a, nil

	case browse.NewListingMsg:
		a.formScreen = listingform.New(a.catalog.Services())
		a.screen = ScreenListingForm
		return a, a.formScreen.Init()

	case browse.EditListingMsg:
		a.formScreen = listingform.NewEdit(msg.Listing, a.catalog.Services())
		a.screen = ScreenListingForm
		return a, a.formScreen.Init()

	case browse.DeleteListingMsg:
		return a, a.deleteListing(msg.Listing)

	case browse.ServicesMsg:
		a.servicesView = servicesview.New()
		a.servicesView.SetServices(a.catalog.Services())
		a.servicesView.SetSize(a.width, a.height)
		a.screen = ScreenServices
		return a, nil

	case detail.BackMsg:
		a.screen = ScreenBrowse
		a.detailView = nil
		return a, nil

	case detail.EditMsg:
		a.formScreen = listingform.NewEdit(msg.Listing, a.catalog.Services())
		a.screen = ScreenListingForm
		return a, a.formScreen.Init()

	case detail.DeleteMsg:
		return a, a.deleteListing(msg.Listing)

	case loginform.SubmitMsg:
		return a, a.login(msg.Username, msg.Password)

	case loginform.CancelMsg:
		a.screen = ScreenBrowse
		a.loginScreen = nil
		return a, nil

	case listingform.SubmitMsg:
		return a, a.saveListing(msg)

	case listingform.CancelMsg:
		a.screen = ScreenBrowse
		a.formScreen = nil
		return a, nil

	case servicesview.BackMsg:
		a.screen = ScreenBrowse
		a.servicesView = nil
		return a, nil

	case servicesview.AddMsg:
		return a, a.addService(msg.Name)

	case pageLoadedMsg:
		return a.handlePageLoaded(msg)

	case servicesLoadedMsg:
		if msg.err != nil && !errors.Is(msg.err, catalog.ErrStale) {
			a.status = msg.err.Error()
		}
		if a.servicesView != nil {
			a.servicesView.SetServices(a.catalog.Services())
		}
		return a, nil

	case detailLoadedMsg:
		if msg.err != nil {
			a.status = msg.err.Error()
			return a, nil
		}
		a.detailView = detail.New()
		a.detailView.SetListing(a.catalog.Current())
		a.detailView.SetAdmin(a.session.IsAdmin())
		a.detailView.SetSize(a.width, a.height)
		a.screen = ScreenDetail
		return a, nil

	case loginDoneMsg:
		if msg.err != nil {
			if a.loginScreen != nil {
				a.loginScreen.SetError(msg.err.Error())
				return a, a.loginScreen.Init()
			}
			return a, nil
		}
		a.screen = ScreenBrowse
		a.loginScreen = nil
		a.syncSession()
		ident := a.session.Identity()
		if ident != nil {
			a.status = fmt.Sprintf("logged in as %s", ident.Username)
		}
		a.browse.SetBusy(true)
		return a, a.fetchPage()

	case listingSavedMsg:
		if msg.err != nil {
			if a.formScreen != nil {
				a.formScreen.SetError(msg.err.Error())
				return a, a.formScreen.Init()
			}
			a.status = msg.err.Error()
			return a, nil
		}
		a.screen = ScreenBrowse
		a.formScreen = nil
		a.detailView = nil
		a.status = fmt.Sprintf("saved %s", msg.slug)
		a.browse.SetBusy(true)
		return a, a.fetchPage()

	case listingDeletedMsg:
		if msg.err != nil {
			a.status = msg.err.Error()
			return a, nil
		}
		a.screen = ScreenBrowse
		a.detailView = nil
		a.status = "listing deleted"
		a.browse.SetBusy(true)
		return a, a.fetchPage()

	case serviceAddedMsg:
		if msg.err != nil {
			if a.servicesView != nil {
				a.servicesView.SetStatus(msg.err.Error())
			}
			return a, nil
		}
		if a.servicesView != nil {
			a.servicesView.SetStatus(fmt.Sprintf("added %q", msg.name))
		}
		return a, a.fetchServices()

	default:
		// huh forms need non-key messages for their internals
		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenListingForm:
			return a.updateForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	model, cmd := a.browse.Update(msg)
	a.browse = model.(*browse.Browse)
	return a, cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.detailView == nil {
		return a, nil
	}
	model, cmd := a.detailView.Update(msg)
	a.detailView = model.(*detail.Detail)
	return a, cmd
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginScreen == nil {
		return a, nil
	}
	model, cmd := a.loginScreen.Update(msg)
	a.loginScreen = model.(*loginform.Form)
	return a, cmd
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.formScreen == nil {
		return a, nil
	}
	model, cmd := a.formScreen.Update(msg)
	a.formScreen = model.(*listingform.Form)
	return a, cmd
}

func (a *App) updateServices(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.servicesView == nil {
		return a, nil
	}
	model, cmd := a.servicesView.Update(msg)
	a.servicesView = model.(*servicesview.View)
	return a, cmd
}

// handlePageLoaded refreshes the browse list after a fetch settles
func (a *App) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, catalog.ErrStale) {
		return a, nil
	}
	a.browse.SetBusy(a.catalog.Busy())
	if msg.err != nil {
		a.status = msg.err.Error()
		return a, nil
	}
	a.browse.SetItems(a.catalog.Visible(), a.catalog.Page())
	return a, nil
}

// syncSession pushes the session state into the browse header
func (a *App) syncSession() {
	username := ""
	if ident := a.session.Identity(); ident != nil {
		username = ident.Username
	}
	a.browse.SetSession(username, a.session.IsAuthenticated(), a.session.IsAdmin())
	if a.detailView != nil {
		a.detailView.SetAdmin(a.session.IsAdmin())
	}
}

// fetchPage fetches the current catalog page
func (a *App) fetchPage() tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{err: a.catalog.FetchPage(context.Background())}
	}
}

// setPage clamps and fetches the requested page
func (a *App) setPage(page int) tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{err: a.catalog.SetPage(context.Background(), page)}
	}
}

// resetFilters clears all filters and refetches page zero
func (a *App) resetFilters() tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{err: a.catalog.ResetFilters(context.Background())}
	}
}

// fetchServices fetches the service tag list
func (a *App) fetchServices() tea.Cmd {
	return func() tea.Msg {
		return servicesLoadedMsg{err: a.catalog.FetchServices(context.Background())}
	}
}

// fetchDetail fetches a single listing by slug
func (a *App) fetchDetail(slug string) tea.Cmd {
	return func() tea.Msg {
		return detailLoadedMsg{err: a.catalog.FetchBySlug(context.Background(), slug)}
	}
}

// login runs a login attempt against the session store
func (a *App) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: a.session.Login(context.Background(), username, password)}
	}
}

// saveListing creates or updates a listing from form values
func (a *App) saveListing(msg listingform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		v := msg.Values

		if msg.Editing == nil {
			photo, err := os.Open(v.PhotoPath)
			if err != nil {
				return listingSavedMsg{err: fmt.Errorf("open photo: %w", err)}
			}
			defer photo.Close()

			listing, err := a.gw.CreateListing(ctx, gateway.CreateListingInput{
				Name:          v.Name,
				Slug:          v.Slug,
				Description:   v.Description,
				PricePerHour:  v.PricePerHour,
				PricePerNight: v.PricePerNight,
				PricePerFoo:   v.PricePerFoo,
				Height:        v.Height,
				Weight:        v.Weight,
				Bust:          v.Bust,
				Place:         v.Place,
				Contact:       v.Contact,
				ServiceIDs:    v.ServiceIDs,
				Photo:         photo,
				PhotoFilename: v.PhotoPath,
			})
			if err != nil {
				return listingSavedMsg{err: err}
			}
			return listingSavedMsg{slug: listing.Slug}
		}

		patch := gateway.ListingPatch{
			Name:          v.Name,
			Slug:          v.Slug,
			Description:   v.Description,
			PricePerHour:  v.PricePerHour,
			PricePerNight: v.PricePerNight,
			PricePerFoo:   v.PricePerFoo,
			Height:        v.Height,
			Weight:        v.Weight,
			Bust:          v.Bust,
			Place:         v.Place,
			Contact:       v.Contact,
		}
		for _, id := range v.ServiceIDs {
			patch.Services = append(patch.Services, gateway.Service{ID: id})
		}

		updated, err := a.gw.UpdateListing(ctx, msg.Editing.UUID, patch)
		if err != nil {
			return listingSavedMsg{err: err}
		}
		return listingSavedMsg{slug: updated.Slug}
	}
}

// deleteListing removes a listing by id
func (a *App) deleteListing(listing gateway.Listing) tea.Cmd {
	return func() tea.Msg {
		return listingDeletedMsg{err: a.gw.DeleteListing(context.Background(), listing.UUID)}
	}
}

// addService creates a new service tag
func (a *App) addService(name string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.gw.CreateService(context.Background(), name)
		return serviceAddedMsg{name: name, err: err}
	}
}

// Run starts the TUI
func Run(gw *gateway.Client, sess *session.Store, cat *catalog.Store) error {
	app := New(gw, sess, cat)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenDetail:
		if a.detailView != nil {
			content = a.detailView.View()
		}
	case ScreenLogin:
		if a.loginScreen != nil {
			content = a.loginScreen.View()
		}
	case ScreenListingForm:
		if a.formScreen != nil {
			content = a.formScreen.View()
		}
	case ScreenServices:
		if a.servicesView != nil {
			content = a.servicesView.View()
		}
	default:
		content = a.browse.View()
	}

	if a.status != "" && a.screen == ScreenBrowse {
		content = lipgloss.JoinVertical(lipgloss.Left, content, styles.Subtitle.Render(a.status))
	}

	return content
}
