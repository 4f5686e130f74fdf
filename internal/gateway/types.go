// ABOUTME: Wire types for the siteseo catalog backend
// ABOUTME: Listings, service tags, and the create/update payload shapes

package gateway

import "io"

// Service is a named tag attachable to a listing.
type Service struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Listing is a catalog entry as returned by the backend. Price and
// measurement fields are numeric-as-string on the wire and are passed
// through untouched.
type Listing struct {
	UUID          string    `json:"uuid"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	PricePerHour  string    `json:"price_per_hour,omitempty"`
	PricePerFoo   string    `json:"price_per_foo,omitempty"`
	PricePerNight string    `json:"price_per_night,omitempty"`
	Height        string    `json:"height,omitempty"`
	Weight        string    `json:"weight,omitempty"`
	Bust          string    `json:"boobs,omitempty"`
	Place         string    `json:"place,omitempty"`
	Contact       string    `json:"number,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	Services      []Service `json:"services"`
}

// CreateListingInput carries the multipart fields for creating a listing.
// Empty fields are omitted from the form. When Slug is empty it is derived
// from Name. Photo is optional.
type CreateListingInput struct {
	Name          string
	Description   string
	PricePerHour  string
	PricePerFoo   string
	PricePerNight string
	Height        string
	Weight        string
	Bust          string
	Place         string
	Contact       string
	Slug          string
	ServiceIDs    []int
	Photo         io.Reader
	PhotoFilename string
}

// ListingPatch is a partial listing update. Zero-valued fields are left
// out of the request body, matching the backend's partial-update contract.
type ListingPatch struct {
	Name          string    `json:"name,omitempty"`
	Slug          string    `json:"slug,omitempty"`
	Description   string    `json:"description,omitempty"`
	PricePerHour  string    `json:"price_per_hour,omitempty"`
	PricePerFoo   string    `json:"price_per_foo,omitempty"`
	PricePerNight string    `json:"price_per_night,omitempty"`
	Height        string    `json:"height,omitempty"`
	Weight        string    `json:"weight,omitempty"`
	Bust          string    `json:"boobs,omitempty"`
	Place         string    `json:"place,omitempty"`
	Contact       string    `json:"number,omitempty"`
	Services      []Service `json:"services,omitempty"`
}
