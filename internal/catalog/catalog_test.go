// ABOUTME: Tests for the catalog store
// ABOUTME: Covers paging, filter resets, client-side visibility, and fetch sequencing

package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteseo/siteseo-cli/internal/apierr"
	"github.com/siteseo/siteseo-cli/internal/gateway"
)

// fakeGateway scripts catalog responses and records requested windows.
type fakeGateway struct {
	items    []gateway.Listing
	listErr  error
	services []gateway.Service
	svcErr   error
	detail   *gateway.Listing
	slugErr  error

	calls []window
}

type window struct {
	limit  int
	offset int
}

func (f *fakeGateway) ListCatalog(ctx context.Context, limit, offset int) ([]gateway.Listing, error) {
	f.calls = append(f.calls, window{limit: limit, offset: offset})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeGateway) ListServices(ctx context.Context) ([]gateway.Service, error) {
	if f.svcErr != nil {
		return nil, f.svcErr
	}
	return f.services, nil
}

func (f *fakeGateway) GetListingBySlug(ctx context.Context, slug string) (*gateway.Listing, error) {
	if f.slugErr != nil {
		return nil, f.slugErr
	}
	return f.detail, nil
}

func listings(n int) []gateway.Listing {
	out := make([]gateway.Listing, n)
	for i := range out {
		out[i] = gateway.Listing{
			UUID: fmt.Sprintf("id-%d", i),
			Name: fmt.Sprintf("listing %d", i),
			Slug: fmt.Sprintf("listing-%d", i),
		}
	}
	return out
}

func TestFetchPageReplacesItems(t *testing.T) {
	gw := &fakeGateway{items: listings(3)}
	store := New(gw)

	require.NoError(t, store.FetchPage(context.Background()))

	assert.Len(t, store.Items(), 3)
	assert.False(t, store.Busy())
	require.Len(t, gw.calls, 1)
	assert.Equal(t, window{limit: PageSize, offset: 0}, gw.calls[0])
}

func TestFetchPageFailureKeepsPreviousItems(t *testing.T) {
	gw := &fakeGateway{items: listings(2)}
	store := New(gw)
	require.NoError(t, store.FetchPage(context.Background()))

	gw.listErr = apierr.Unavailable("backend down")
	err := store.FetchPage(context.Background())
	require.Error(t, err)
	assert.True(t, apierr.IsUnavailable(err))

	// The stale-but-valid page stays on screen
	assert.Len(t, store.Items(), 2)
	assert.False(t, store.Busy())
}

func TestSetPageClampsToZero(t *testing.T) {
	gw := &fakeGateway{}
	store := New(gw)

	require.NoError(t, store.SetPage(context.Background(), -5))
	assert.Equal(t, 0, store.Page())
	require.Len(t, gw.calls, 1)
	assert.Equal(t, 0, gw.calls[0].offset)
}

func TestSetPageComputesOffset(t *testing.T) {
	gw := &fakeGateway{}
	store := New(gw)

	require.NoError(t, store.SetPage(context.Background(), 3))
	assert.Equal(t, 3, store.Page())
	require.Len(t, gw.calls, 1)
	assert.Equal(t, window{limit: PageSize, offset: 3 * PageSize}, gw.calls[0])
}

func TestFilterChangesResetPageWithoutFetching(t *testing.T) {
	gw := &fakeGateway{}
	store := New(gw)
	require.NoError(t, store.SetPage(context.Background(), 4))
	callsBefore := len(gw.calls)

	store.SetSearchText("anna")
	assert.Equal(t, 0, store.Page())
	assert.Len(t, gw.calls, callsBefore)

	require.NoError(t, store.SetPage(context.Background(), 2))
	store.SetPlaceFilter("Moscow")
	assert.Equal(t, 0, store.Page())

	require.NoError(t, store.SetPage(context.Background(), 2))
	store.SetServiceFilter([]int{1, 2})
	assert.Equal(t, 0, store.Page())
}

func TestResetFiltersClearsEverythingAndFetchesOnce(t *testing.T) {
	gw := &fakeGateway{}
	store := New(gw)
	store.SetSearchText("anna")
	store.SetPlaceFilter("Moscow")
	store.SetServiceFilter([]int{1})
	require.NoError(t, store.SetPage(context.Background(), 2))
	callsBefore := len(gw.calls)

	require.NoError(t, store.ResetFilters(context.Background()))

	assert.Empty(t, store.SearchText())
	assert.Empty(t, store.PlaceFilter())
	assert.Empty(t, store.ServiceFilter())
	assert.Equal(t, 0, store.Page())
	assert.Len(t, gw.calls, callsBefore+1)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	gw := &fakeGateway{}
	store := New(gw)

	// Two overlapping fetches: the older response arrives after the newer
	// one was issued, so it must be dropped.
	oldSeq, limit, offset := store.beginFetch()
	newSeq, _, _ := store.beginFetch()

	older, err := gw.ListCatalog(context.Background(), limit, offset)
	require.NoError(t, err)

	require.NoError(t, store.settle(newSeq, listings(2), nil))
	assert.ErrorIs(t, store.settle(oldSeq, older, nil), ErrStale)

	// The newer response's items survive
	assert.Len(t, store.Items(), 2)
}

func TestStaleErrorDoesNotOverwriteNewerSuccess(t *testing.T) {
	store := New(&fakeGateway{})

	oldSeq, _, _ := store.beginFetch()
	newSeq, _, _ := store.beginFetch()

	require.NoError(t, store.settle(newSeq, listings(1), nil))
	err := store.settle(oldSeq, nil, apierr.Unavailable("late failure"))
	assert.ErrorIs(t, err, ErrStale)
	assert.Len(t, store.Items(), 1)
	assert.False(t, store.Busy())
}

func TestBusyWhileFetchOutstanding(t *testing.T) {
	store := New(&fakeGateway{})

	seq, _, _ := store.beginFetch()
	assert.True(t, store.Busy())

	require.NoError(t, store.settle(seq, nil, nil))
	assert.False(t, store.Busy())
}

func TestFetchServices(t *testing.T) {
	gw := &fakeGateway{services: []gateway.Service{{ID: 1, Name: "massage"}}}
	store := New(gw)

	require.NoError(t, store.FetchServices(context.Background()))
	require.Len(t, store.Services(), 1)
	assert.Equal(t, "massage", store.Services()[0].Name)
}

func TestFetchBySlugSetsCurrent(t *testing.T) {
	gw := &fakeGateway{detail: &gateway.Listing{Slug: "anna-moscow", Name: "Anna"}}
	store := New(gw)

	require.NoError(t, store.FetchBySlug(context.Background(), "anna-moscow"))
	require.NotNil(t, store.Current())
	assert.Equal(t, "Anna", store.Current().Name)
}

func TestFetchBySlugNotFoundClearsCurrent(t *testing.T) {
	gw := &fakeGateway{detail: &gateway.Listing{Slug: "anna-moscow"}}
	store := New(gw)
	require.NoError(t, store.FetchBySlug(context.Background(), "anna-moscow"))

	gw.detail = nil
	gw.slugErr = apierr.NotFound("no listing")
	err := store.FetchBySlug(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, apierr.IsNotFound(err))
	assert.Nil(t, store.Current())
}

func TestVisibleAppliesSearchText(t *testing.T) {
	gw := &fakeGateway{items: []gateway.Listing{
		{Name: "Anna", Description: "tall", Place: "Moscow"},
		{Name: "Bella", Description: "from moscow", Place: "Kazan"},
		{Name: "Carla", Description: "quiet", Place: "Sochi"},
	}}
	store := New(gw)
	require.NoError(t, store.FetchPage(context.Background()))

	store.SetSearchText("MOSCOW")
	visible := store.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "Anna", visible[0].Name)
	assert.Equal(t, "Bella", visible[1].Name)
}

func TestVisibleAppliesExactPlaceFilter(t *testing.T) {
	gw := &fakeGateway{items: []gateway.Listing{
		{Name: "Anna", Place: "Moscow"},
		{Name: "Bella", Place: "Moscow Region"},
	}}
	store := New(gw)
	require.NoError(t, store.FetchPage(context.Background()))

	store.SetPlaceFilter("Moscow")
	visible := store.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Anna", visible[0].Name)
}

func TestVisibleRequiresEverySelectedService(t *testing.T) {
	gw := &fakeGateway{items: []gateway.Listing{
		{Name: "Anna", Services: []gateway.Service{{ID: 1}, {ID: 2}}},
		{Name: "Bella", Services: []gateway.Service{{ID: 1}}},
	}}
	store := New(gw)
	require.NoError(t, store.FetchPage(context.Background()))

	store.SetServiceFilter([]int{1, 2})
	visible := store.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Anna", visible[0].Name)
}

func TestVisibleWithoutFiltersReturnsAll(t *testing.T) {
	gw := &fakeGateway{items: listings(4)}
	store := New(gw)
	require.NoError(t, store.FetchPage(context.Background()))

	assert.Len(t, store.Visible(), 4)
}

func TestItemsReturnsACopy(t *testing.T) {
	gw := &fakeGateway{items: listings(1)}
	store := New(gw)
	require.NoError(t, store.FetchPage(context.Background()))

	items := store.Items()
	items[0].Name = "mutated"
	assert.Equal(t, "listing 0", store.Items()[0].Name)
}
