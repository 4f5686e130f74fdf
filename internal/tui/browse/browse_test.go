// ABOUTME: Tests for the browse screen key handling
// ABOUTME: Verifies emitted messages and cursor, search, and delete flows

package browse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteseo/siteseo-cli/internal/gateway"
)

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{}
}

// press sends a key and runs the returned command to get its message.
func press(t *testing.T, b *Browse, s string) tea.Msg {
	t.Helper()
	model, cmd := b.Update(key(s))
	*b = *model.(*Browse)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func sampleItems() []gateway.Listing {
	return []gateway.Listing{
		{UUID: "id-0", Name: "Anna", Slug: "anna", Place: "Moscow"},
		{UUID: "id-1", Name: "Bella", Slug: "bella", Place: "Kazan"},
	}
}

func TestCursorMovesAndOpensDetail(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)

	assert.Nil(t, press(t, b, "down"))
	msg := press(t, b, "enter")

	open, ok := msg.(OpenMsg)
	require.True(t, ok)
	assert.Equal(t, "bella", open.Slug)
}

func TestCursorClampedAtEdges(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)

	press(t, b, "up")
	assert.Equal(t, "anna", b.Selected().Slug)

	press(t, b, "down")
	press(t, b, "down")
	press(t, b, "down")
	assert.Equal(t, "bella", b.Selected().Slug)
}

func TestPagingKeys(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 1)

	next, ok := press(t, b, "right").(PageMsg)
	require.True(t, ok)
	assert.Equal(t, 1, next.Delta)

	prev, ok := press(t, b, "left").(PageMsg)
	require.True(t, ok)
	assert.Equal(t, -1, prev.Delta)
}

func TestNoBackwardPagingFromPageZero(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)

	assert.Nil(t, press(t, b, "left"))
}

func TestSearchSubmitEmitsText(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)

	assert.NotNil(t, press(t, b, "/"))
	press(t, b, "m")
	press(t, b, "o")
	msg := press(t, b, "enter")

	search, ok := msg.(SearchMsg)
	require.True(t, ok)
	assert.Equal(t, "mo", search.Text)
}

func TestSearchEscCancelsWithoutEmitting(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)

	press(t, b, "/")
	press(t, b, "x")
	assert.Nil(t, press(t, b, "esc"))
}

func TestResetClearsSearchAndEmits(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)

	press(t, b, "/")
	press(t, b, "x")
	press(t, b, "enter")

	_, ok := press(t, b, "R").(ResetMsg)
	assert.True(t, ok)
	assert.Empty(t, b.searchInput.Value())
}

func TestAdminKeysGatedOnRole(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)
	b.SetSession("anna", true, false)

	assert.Nil(t, press(t, b, "a"))
	assert.Nil(t, press(t, b, "e"))
	assert.Nil(t, press(t, b, "S"))

	b.SetSession("boss", true, true)

	_, ok := press(t, b, "a").(NewListingMsg)
	assert.True(t, ok)

	edit, ok := press(t, b, "e").(EditListingMsg)
	require.True(t, ok)
	assert.Equal(t, "anna", edit.Listing.Slug)

	_, ok = press(t, b, "S").(ServicesMsg)
	assert.True(t, ok)
}

func TestDeleteNeedsConfirm(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)
	b.SetSession("boss", true, true)

	assert.Nil(t, press(t, b, "d"))
	msg := press(t, b, "y")

	del, ok := msg.(DeleteListingMsg)
	require.True(t, ok)
	assert.Equal(t, "id-0", del.Listing.UUID)
}

func TestDeleteAbortedByOtherKey(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)
	b.SetSession("boss", true, true)

	press(t, b, "d")
	assert.Nil(t, press(t, b, "n"))

	// The confirm window closed; y is now inert
	assert.Nil(t, press(t, b, "y"))
}

func TestLoginLogoutKeysFollowSessionState(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 0)

	_, ok := press(t, b, "L").(LoginMsg)
	assert.True(t, ok)
	assert.Nil(t, press(t, b, "O"))

	b.SetSession("anna", true, false)
	assert.Nil(t, press(t, b, "L"))
	_, ok = press(t, b, "O").(LogoutMsg)
	assert.True(t, ok)
}

func TestViewShowsListingsAndPage(t *testing.T) {
	b := New()
	b.SetItems(sampleItems(), 2)

	view := b.View()
	assert.Contains(t, view, "Anna")
	assert.Contains(t, view, "Bella")
	assert.Contains(t, view, "page 2")
}

func TestViewEmptyPage(t *testing.T) {
	b := New()
	b.SetItems(nil, 0)

	assert.Contains(t, b.View(), "no listings on this page")
}

func TestViewBusy(t *testing.T) {
	b := New()
	b.SetBusy(true)

	assert.Contains(t, b.View(), "loading")
}
