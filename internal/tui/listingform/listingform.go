// ABOUTME: Listing create/edit form as a bubbletea model wrapping a huh form
// ABOUTME: Collects listing fields and a service selection for admin actions

package listingform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/siteseo/siteseo-cli/internal/gateway"
	"github.com/siteseo/siteseo-cli/internal/tui/icons"
	"github.com/siteseo/siteseo-cli/internal/tui/styles"
)

// Values holds the collected listing fields
type Values struct {
	Name          string
	Slug          string
	Description   string
	PricePerHour  string
	PricePerNight string
	PricePerFoo   string
	Height        string
	Weight        string
	Bust          string
	Place         string
	Contact       string
	PhotoPath     string
	ServiceIDs    []int
}

// SubmitMsg is sent when the form completes
type SubmitMsg struct {
	Values  Values
	Editing *gateway.Listing
}

// CancelMsg is sent when the form is cancelled
type CancelMsg struct{}

// Form collects listing fields for create or edit
type Form struct {
	form    *huh.Form
	editing *gateway.Listing
	errText string
	width   int

	name          string
	slug          string
	description   string
	pricePerHour  string
	pricePerNight string
	pricePerFoo   string
	height        string
	weight        string
	bust          string
	place         string
	contact       string
	photoPath     string
	serviceIDs    []string
}

// New creates a form for a new listing
func New(services []gateway.Service) *Form {
	f := &Form{}
	f.form = f.createForm(services)
	return f
}

// NewEdit creates a form prefilled from an existing listing
func NewEdit(listing gateway.Listing, services []gateway.Service) *Form {
	f := &Form{
		editing:       &listing,
		name:          listing.Name,
		slug:          listing.Slug,
		description:   listing.Description,
		pricePerHour:  listing.PricePerHour,
		pricePerNight: listing.PricePerNight,
		pricePerFoo:   listing.PricePerFoo,
		height:        listing.Height,
		weight:        listing.Weight,
		bust:          listing.Bust,
		place:         listing.Place,
		contact:       listing.Contact,
	}
	for _, svc := range listing.Services {
		f.serviceIDs = append(f.serviceIDs, strconv.Itoa(svc.ID))
	}
	f.form = f.createForm(services)
	return f
}

func (f *Form) createForm(services []gateway.Service) *huh.Form {
	title := "New listing"
	if f.editing != nil {
		title = "Edit listing"
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			CharLimit(128).
			Value(&f.name).
			Validate(requireValue("name")),
		huh.NewInput().
			Title("Slug").
			Description("Leave blank to derive from the name").
			CharLimit(128).
			Value(&f.slug),
		huh.NewText().
			Title("Description").
			CharLimit(2000).
			Value(&f.description),
		huh.NewInput().
			Title("Price per hour").
			CharLimit(32).
			Value(&f.pricePerHour),
		huh.NewInput().
			Title("Price per night").
			CharLimit(32).
			Value(&f.pricePerNight),
		huh.NewInput().
			Title("Price per encounter").
			CharLimit(32).
			Value(&f.pricePerFoo),
		huh.NewInput().
			Title("Height").
			CharLimit(16).
			Value(&f.height),
		huh.NewInput().
			Title("Weight").
			CharLimit(16).
			Value(&f.weight),
		huh.NewInput().
			Title("Bust").
			CharLimit(16).
			Value(&f.bust),
		huh.NewInput().
			Title("Place").
			CharLimit(64).
			Value(&f.place),
		huh.NewInput().
			Title("Contact").
			Placeholder("phone number").
			CharLimit(32).
			Value(&f.contact),
	}

	if f.editing == nil {
		fields = append(fields, huh.NewInput().
			Title("Photo file").
			Description("Path to the listing photo").
			CharLimit(512).
			Value(&f.photoPath).
			Validate(requireValue("photo file")))
	}

	if len(services) > 0 {
		options := make([]huh.Option[string], 0, len(services))
		for _, svc := range services {
			options = append(options, huh.NewOption(svc.Name, strconv.Itoa(svc.ID)))
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Services").
			Options(options...).
			Value(&f.serviceIDs))
	}

	return huh.NewForm(
		huh.NewGroup(fields...).Title(title),
	).WithTheme(styles.FormTheme())
}

// SetError displays a failure message
func (f *Form) SetError(text string) {
	f.errText = text
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
		values := f.values()
		editing := f.editing
		return f, func() tea.Msg { return SubmitMsg{Values: values, Editing: editing} }
	}

	return f, cmd
}

// values converts the form state to a Values struct
func (f *Form) values() Values {
	v := Values{
		Name:          strings.TrimSpace(f.name),
		Slug:          strings.TrimSpace(f.slug),
		Description:   strings.TrimSpace(f.description),
		PricePerHour:  strings.TrimSpace(f.pricePerHour),
		PricePerNight: strings.TrimSpace(f.pricePerNight),
		PricePerFoo:   strings.TrimSpace(f.pricePerFoo),
		Height:        strings.TrimSpace(f.height),
		Weight:        strings.TrimSpace(f.weight),
		Bust:          strings.TrimSpace(f.bust),
		Place:         strings.TrimSpace(f.place),
		Contact:       strings.TrimSpace(f.contact),
		PhotoPath:     strings.TrimSpace(f.photoPath),
	}
	for _, raw := range f.serviceIDs {
		if id, err := strconv.Atoi(raw); err == nil {
			v.ServiceIDs = append(v.ServiceIDs, id)
		}
	}
	return v
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	icon := icons.Plus
	if f.editing != nil {
		icon = icons.Edit
	}
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s listing", icon)))
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
