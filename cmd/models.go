// ABOUTME: Listing management commands for the siteseo CLI
// ABOUTME: Scriptable list/get/create/update/delete over catalog listings

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/siteseo/siteseo-cli/internal/catalog"
	"github.com/siteseo/siteseo-cli/internal/config"
	"github.com/siteseo/siteseo-cli/internal/gateway"
	"github.com/siteseo/siteseo-cli/internal/session"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage catalog listings",
}

var (
	modelsPage    int
	modelsSearch  string
	modelsPlace   string
	modelsService []int
)

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runModelsList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var modelsGetCmd = &cobra.Command{
	Use:   "get <slug>",
	Short: "Show a single listing by slug",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runModelsGet(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

// createFields carries the flag values shared by create and update.
type createFields struct {
	name          string
	slug          string
	description   string
	priceHour     string
	priceNight    string
	priceRate     string
	height        string
	weight        string
	bust          string
	place         string
	contact       string
	services      []int
	photo         string
}

var createFlags createFields

var modelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a listing (admin)",
	Long: `Create a catalog listing. Requires an admin session.

The slug is derived from the name unless --slug is given. A photo is
uploaded in the same request when --photo points at a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runModelsCreate(ctx, os.Stdout, createFlags)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var updateFlags createFields

var modelsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a listing (admin)",
	Long:  `Apply a partial update to a listing. Only the given flags are sent.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runModelsUpdate(ctx, os.Stdout, args[0], buildPatch(cmd, updateFlags))
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var deleteYes bool

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a listing (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if !deleteYes && !confirmDelete(args[0]) {
			fmt.Fprintln(os.Stdout, "Aborted.")
			return
		}

		exitCode := runModelsDelete(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd, modelsGetCmd, modelsCreateCmd, modelsUpdateCmd, modelsDeleteCmd)

	modelsListCmd.Flags().IntVar(&modelsPage, "page", 0, "Zero-based page index")
	modelsListCmd.Flags().StringVar(&modelsSearch, "search", "", "Filter the page by free text")
	modelsListCmd.Flags().StringVar(&modelsPlace, "place", "", "Filter the page by location")
	modelsListCmd.Flags().IntSliceVar(&modelsService, "service", nil, "Filter the page by service id (repeatable)")

	addListingFlags(modelsCreateCmd, &createFlags)
	addListingFlags(modelsUpdateCmd, &updateFlags)

	modelsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

// addListingFlags registers the listing field flags on a command.
func addListingFlags(cmd *cobra.Command, f *createFields) {
	cmd.Flags().StringVar(&f.name, "name", "", "Display name")
	cmd.Flags().StringVar(&f.slug, "slug", "", "URL slug (derived from name when omitted)")
	cmd.Flags().StringVar(&f.description, "desc", "", "Description")
	cmd.Flags().StringVar(&f.priceHour, "price-hour", "", "Hourly price")
	cmd.Flags().StringVar(&f.priceNight, "price-night", "", "Per-night price")
	cmd.Flags().StringVar(&f.priceRate, "price-encounter", "", "Per-encounter price")
	cmd.Flags().StringVar(&f.height, "height", "", "Height")
	cmd.Flags().StringVar(&f.weight, "weight", "", "Weight")
	cmd.Flags().StringVar(&f.bust, "bust", "", "Bust size")
	cmd.Flags().StringVar(&f.place, "place", "", "Location")
	cmd.Flags().StringVar(&f.contact, "contact", "", "Contact number")
	cmd.Flags().IntSliceVar(&f.services, "service", nil, "Service id (repeatable)")
	cmd.Flags().StringVar(&f.photo, "photo", "", "Path to a photo file")
}

// requireSession resolves the stored session and refuses to proceed
// without one. Mutations are pointless unauthenticated; the backend would
// reject them anyway.
func requireSession(ctx context.Context, w io.Writer, cfg config.Config) (*gateway.Client, *session.Store, bool) {
	gw, sess := newSession(cfg)
	if err := sess.CheckAuth(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, nil, false
	}
	if !sess.IsAuthenticated() {
		fmt.Fprintln(w, "Error: not logged in. Run `siteseo login` first.")
		return nil, nil, false
	}
	return gw, sess, true
}

// runModelsList fetches and prints one page of the catalog.
func runModelsList(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	gw := gateway.New(cfg.APIURL)
	store := catalog.New(gw)
	store.SetSearchText(modelsSearch)
	store.SetPlaceFilter(modelsPlace)
	store.SetServiceFilter(modelsService)

	if err := store.SetPage(ctx, modelsPage); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	visible := store.Visible()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatListingsJSON(store.Page(), visible))
	} else {
		fmt.Fprintln(w, formatListingsHuman(store.Page(), visible))
	}
	return 0
}

// runModelsGet fetches and prints a single listing.
func runModelsGet(ctx context.Context, w io.Writer, slug string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	gw := gateway.New(cfg.APIURL)
	store := catalog.New(gw)
	if err := store.FetchBySlug(ctx, slug); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	listing := store.Current()
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(listing, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatListingHuman(listing))
	}
	return 0
}

// runModelsCreate creates a listing from the given fields.
func runModelsCreate(ctx context.Context, w io.Writer, f createFields) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	gw, _, ok := requireSession(ctx, w, cfg)
	if !ok {
		return 1
	}

	in := gateway.CreateListingInput{
		Name:          f.name,
		Slug:          f.slug,
		Description:   f.description,
		PricePerHour:  f.priceHour,
		PricePerNight: f.priceNight,
		PricePerFoo:   f.priceRate,
		Height:        f.height,
		Weight:        f.weight,
		Bust:          f.bust,
		Place:         f.place,
		Contact:       f.contact,
		ServiceIDs:    f.services,
	}

	if f.photo != "" {
		if !fileExists(f.photo) {
			fmt.Fprintf(w, "Error: photo %s does not exist\n", f.photo)
			return 2
		}
		photo, err := os.Open(f.photo)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		defer photo.Close()
		in.Photo = photo
		in.PhotoFilename = photo.Name()
	}

	listing, err := gw.CreateListing(ctx, in)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(listing, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Created %s (%s)\n", listing.Name, listing.Slug)
	}
	return 0
}

// buildPatch assembles a partial update from the flags that were set.
func buildPatch(cmd *cobra.Command, f createFields) gateway.ListingPatch {
	patch := gateway.ListingPatch{}
	if cmd.Flags().Changed("name") {
		patch.Name = f.name
	}
	if cmd.Flags().Changed("slug") {
		patch.Slug = f.slug
	}
	if cmd.Flags().Changed("desc") {
		patch.Description = f.description
	}
	if cmd.Flags().Changed("price-hour") {
		patch.PricePerHour = f.priceHour
	}
	if cmd.Flags().Changed("price-night") {
		patch.PricePerNight = f.priceNight
	}
	if cmd.Flags().Changed("price-encounter") {
		patch.PricePerFoo = f.priceRate
	}
	if cmd.Flags().Changed("height") {
		patch.Height = f.height
	}
	if cmd.Flags().Changed("weight") {
		patch.Weight = f.weight
	}
	if cmd.Flags().Changed("bust") {
		patch.Bust = f.bust
	}
	if cmd.Flags().Changed("place") {
		patch.Place = f.place
	}
	if cmd.Flags().Changed("contact") {
		patch.Contact = f.contact
	}
	if cmd.Flags().Changed("service") {
		services := make([]gateway.Service, 0, len(f.services))
		for _, id := range f.services {
			services = append(services, gateway.Service{ID: id})
		}
		patch.Services = services
	}
	return patch
}

// runModelsUpdate applies a partial update to a listing.
func runModelsUpdate(ctx context.Context, w io.Writer, id string, patch gateway.ListingPatch) int {
	if _, err := uuid.Parse(id); err != nil {
		fmt.Fprintf(w, "Error: %q is not a valid listing id\n", id)
		return 1
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	gw, _, ok := requireSession(ctx, w, cfg)
	if !ok {
		return 1
	}

	listing, err := gw.UpdateListing(ctx, id, patch)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(listing, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Updated %s (%s)\n", listing.Name, listing.Slug)
	}
	return 0
}

// runModelsDelete removes a listing.
func runModelsDelete(ctx context.Context, w io.Writer, id string) int {
	if _, err := uuid.Parse(id); err != nil {
		fmt.Fprintf(w, "Error: %q is not a valid listing id\n", id)
		return 1
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	gw, _, ok := requireSession(ctx, w, cfg)
	if !ok {
		return 1
	}

	if err := gw.DeleteListing(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	fmt.Fprintf(w, "Deleted %s\n", id)
	return 0
}

// confirmDelete asks for confirmation before a destructive delete.
func confirmDelete(id string) bool {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete listing %s?", id)).
			Value(&confirmed),
	)).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return false
	}
	return confirmed
}

// formatListingsHuman formats a catalog page as a table.
func formatListingsHuman(page int, listings []gateway.Listing) string {
	if len(listings) == 0 {
		return fmt.Sprintf("Page %d: no listings", page)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Page %d (%d listings)\n\n", page, len(listings))
	fmt.Fprintf(&b, "%-24s %-24s %-14s %-10s %s\n", "NAME", "SLUG", "PLACE", "PRICE/H", "SERVICES")
	for _, l := range listings {
		names := make([]string, 0, len(l.Services))
		for _, svc := range l.Services {
			names = append(names, svc.Name)
		}
		fmt.Fprintf(&b, "%-24s %-24s %-14s %-10s %s\n",
			l.Name, l.Slug, l.Place, l.PricePerHour, strings.Join(names, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatListingsJSON formats a catalog page as JSON.
func formatListingsJSON(page int, listings []gateway.Listing) string {
	output := map[string]interface{}{
		"page":     page,
		"count":    len(listings),
		"listings": listings,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}

// formatListingHuman formats a single listing for human readability.
func formatListingHuman(l *gateway.Listing) string {
	if l == nil {
		return "Listing not found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", l.Name)
	fmt.Fprintf(&b, "Slug:        %s\n", l.Slug)
	fmt.Fprintf(&b, "Id:          %s\n", l.UUID)
	if l.Place != "" {
		fmt.Fprintf(&b, "Place:       %s\n", l.Place)
	}
	if l.PricePerHour != "" {
		fmt.Fprintf(&b, "Per hour:    %s\n", l.PricePerHour)
	}
	if l.PricePerFoo != "" {
		fmt.Fprintf(&b, "Per visit:   %s\n", l.PricePerFoo)
	}
	if l.PricePerNight != "" {
		fmt.Fprintf(&b, "Per night:   %s\n", l.PricePerNight)
	}
	if l.Height != "" {
		fmt.Fprintf(&b, "Height:      %s\n", l.Height)
	}
	if l.Weight != "" {
		fmt.Fprintf(&b, "Weight:      %s\n", l.Weight)
	}
	if l.Bust != "" {
		fmt.Fprintf(&b, "Bust:        %s\n", l.Bust)
	}
	if l.Contact != "" {
		fmt.Fprintf(&b, "Contact:     %s\n", l.Contact)
	}
	if len(l.Services) > 0 {
		names := make([]string, 0, len(l.Services))
		for _, svc := range l.Services {
			names = append(names, svc.Name)
		}
		fmt.Fprintf(&b, "Services:    %s\n", strings.Join(names, ", "))
	}
	if l.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", l.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
