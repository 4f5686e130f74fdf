// ABOUTME: Catalog store owning pagination, filters, and fetch sequencing
// ABOUTME: Guarantees the most recently requested page wins over late arrivals

package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/siteseo/siteseo-cli/internal/gateway"
)

// PageSize is the fixed number of listings per page.
const PageSize = 12

// ErrStale is returned when a fetch response is discarded because a newer
// fetch was issued while it was in flight.
var ErrStale = errors.New("stale fetch superseded by a newer request")

// Gateway is the slice of the API client the catalog store drives.
type Gateway interface {
	ListCatalog(ctx context.Context, limit, offset int) ([]gateway.Listing, error)
	ListServices(ctx context.Context) ([]gateway.Service, error)
	GetListingBySlug(ctx context.Context, slug string) (*gateway.Listing, error)
}

// Store owns the catalog listing's page and filter state. It is the only
// component that triggers catalog fetches, and it tags every fetch with a
// sequence number so that out-of-order responses cannot overwrite newer
// state.
type Store struct {
	gw Gateway

	mu            sync.Mutex
	items         []gateway.Listing
	services      []gateway.Service
	current       *gateway.Listing
	page          int
	pageSize      int
	searchText    string
	serviceFilter []int
	placeFilter   string
	latestSeq     uint64
	settledSeq    uint64
	busy          bool
}

// New creates a catalog store with the fixed page size.
func New(gw Gateway) *Store {
	return &Store{gw: gw, pageSize: PageSize}
}

// FetchPage requests the current page from the backend and replaces the
// items atomically. When overlapping fetches race, the response for the
// highest sequence number wins regardless of arrival order; superseded
// responses are dropped with ErrStale.
func (s *Store) FetchPage(ctx context.Context) error {
	seq, limit, offset := s.beginFetch()
	items, err := s.gw.ListCatalog(ctx, limit, offset)
	return s.settle(seq, items, err)
}

// beginFetch assigns the next sequence number and snapshots the window.
func (s *Store) beginFetch() (seq uint64, limit, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestSeq++
	s.busy = true
	return s.latestSeq, s.pageSize, s.page * s.pageSize
}

// settle applies a fetch response unless a newer fetch has been issued.
// On failure the previous items are kept and the error is surfaced.
func (s *Store) settle(seq uint64, items []gateway.Listing, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.latestSeq {
		return ErrStale
	}
	if seq > s.settledSeq {
		s.settledSeq = seq
	}
	s.busy = false

	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// FetchServices fetches the full set of service tags, independent of
// pagination and filters, and replaces them wholesale.
func (s *Store) FetchServices(ctx context.Context) error {
	services, err := s.gw.ListServices(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.services = services
	s.mu.Unlock()
	return nil
}

// FetchBySlug fetches a single listing for the detail view. On any error
// the current item is cleared so callers render a not-found state, and the
// typed error is returned.
func (s *Store) FetchBySlug(ctx context.Context, slug string) error {
	listing, err := s.gw.GetListingBySlug(ctx, slug)
	s.mu.Lock()
	s.current = listing
	s.mu.Unlock()
	return err
}

// SetSearchText sets the free-text filter and resets to the first page.
// A filter change invalidates the current page; it does not fetch.
func (s *Store) SetSearchText(text string) {
	s.mu.Lock()
	s.searchText = text
	s.page = 0
	s.mu.Unlock()
}

// SetServiceFilter sets the selected service ids and resets to the first
// page.
func (s *Store) SetServiceFilter(ids []int) {
	s.mu.Lock()
	s.serviceFilter = append([]int(nil), ids...)
	s.page = 0
	s.mu.Unlock()
}

// SetPlaceFilter sets the location filter and resets to the first page.
func (s *Store) SetPlaceFilter(place string) {
	s.mu.Lock()
	s.placeFilter = place
	s.page = 0
	s.mu.Unlock()
}

// SetPage clamps the requested page to zero or above and fetches it.
func (s *Store) SetPage(ctx context.Context, n int) error {
	s.mu.Lock()
	if n < 0 {
		n = 0
	}
	s.page = n
	s.mu.Unlock()
	return s.FetchPage(ctx)
}

// ResetFilters clears every filter and the page, then fetches once.
func (s *Store) ResetFilters(ctx context.Context) error {
	s.mu.Lock()
	s.searchText = ""
	s.serviceFilter = nil
	s.placeFilter = ""
	s.page = 0
	s.mu.Unlock()
	return s.FetchPage(ctx)
}

// Items returns a copy of the current page's listings.
func (s *Store) Items() []gateway.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gateway.Listing(nil), s.items...)
}

// Visible applies the declared filters over the fetched page. The wire
// contract carries only limit and offset, so filtering is a client-side
// view: search text matches name, description, or place; the place filter
// is an exact match; a listing must offer every selected service.
func (s *Store) Visible() []gateway.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make([]gateway.Listing, 0, len(s.items))
	for _, listing := range s.items {
		if s.matches(listing) {
			visible = append(visible, listing)
		}
	}
	return visible
}

// matches reports whether a listing passes the current filters.
// Callers must hold s.mu.
func (s *Store) matches(listing gateway.Listing) bool {
	if s.searchText != "" {
		needle := strings.ToLower(s.searchText)
		haystack := strings.ToLower(listing.Name + " " + listing.Description + " " + listing.Place)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if s.placeFilter != "" && listing.Place != s.placeFilter {
		return false
	}
	for _, want := range s.serviceFilter {
		found := false
		for _, svc := range listing.Services {
			if svc.ID == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Services returns a copy of the fetched service tags.
func (s *Store) Services() []gateway.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gateway.Service(nil), s.services...)
}

// Current returns the listing loaded for the detail view, or nil.
func (s *Store) Current() *gateway.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	listing := *s.current
	return &listing
}

// Page returns the zero-based page index.
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// PageSize returns the fixed page size.
func (s *Store) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

// SearchText returns the current free-text filter.
func (s *Store) SearchText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchText
}

// ServiceFilter returns a copy of the selected service ids.
func (s *Store) ServiceFilter() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.serviceFilter...)
}

// PlaceFilter returns the current location filter.
func (s *Store) PlaceFilter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeFilter
}

// Busy reports whether the newest fetch is still outstanding.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
