// ABOUTME: HTTP client for the siteseo catalog backend
// ABOUTME: Attaches bearer tokens and maps responses to typed errors

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	gosslug "github.com/gosimple/slug"
	"github.com/siteseo/siteseo-cli/internal/apierr"
)

// Client is the API client for the siteseo backend. It holds the current
// bearer token and applies the global 401 policy: any protected call that
// comes back unauthorized clears the token and fires the registered hook.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// New creates a new API client with the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the current bearer token, or empty when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers the hook fired when a protected call returns
// 401. The session store registers its forced-logout here.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// errorResponse is the backend's error body shape.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Authenticate exchanges credentials for a bearer token via POST /login.
// The token is returned but not retained; the session store owns it.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnprocessableEntity:
		return "", apierr.Authentication(c.detail(resp, "invalid username or password"))
	default:
		return "", c.handleErrorResponse(resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apierr.Wrap(err, apierr.CodeUnavailable, "invalid response from backend")
	}
	if body.AccessToken == "" {
		return "", apierr.Unavailable("backend returned an empty token")
	}
	return body.AccessToken, nil
}

// RegisterAccount creates a new account via POST /register. A validation
// rejection (duplicate username, malformed payload) surfaces the backend
// message; anything else is a registration error.
func (c *Client) RegisterAccount(ctx context.Context, username, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return apierr.Validation(c.detail(resp, "registration rejected"))
	default:
		return apierr.Registration(c.detail(resp, fmt.Sprintf("backend returned status %d", resp.StatusCode)))
	}
}

// OwnProfile resolves the identity behind the current token via
// GET /user_protected and returns the username.
func (c *Client) OwnProfile(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, "/user_protected")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", c.unauthorized()
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp)
	}

	// The profile payload keys the username under a localized greeting.
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apierr.Wrap(err, apierr.CodeUnavailable, "invalid response from backend")
	}
	if name, ok := body["Привет!"]; ok && name != "" {
		return name, nil
	}
	if name, ok := body["username"]; ok && name != "" {
		return name, nil
	}
	return "", apierr.Unavailable("profile response missing username")
}

// AdminProbe calls GET /admin_protected. It succeeds only for admin
// accounts. A 401 here is the normal answer for a non-admin user, so the
// forced-logout hook is deliberately not fired.
func (c *Client) AdminProbe(ctx context.Context) error {
	resp, err := c.get(ctx, "/admin_protected")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return apierr.Authorization(c.detail(resp, "not an admin"))
}

// ListCatalog fetches one page of listings via GET /models/all-model.
func (c *Client) ListCatalog(ctx context.Context, limit, offset int) ([]Listing, error) {
	path := "/models/all-model?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.unauthorized()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var listings []Listing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, apierr.Wrap(err, apierr.CodeUnavailable, "invalid response from backend")
	}
	return listings, nil
}

// GetListingBySlug fetches a single listing via GET /models/{slug}.
func (c *Client) GetListingBySlug(ctx context.Context, slug string) (*Listing, error) {
	resp, err := c.get(ctx, "/models/"+url.PathEscape(slug))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, c.unauthorized()
	case http.StatusNotFound:
		return nil, apierr.NotFoundf("no listing with slug %q", slug)
	default:
		return nil, c.handleErrorResponse(resp)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, apierr.Wrap(err, apierr.CodeUnavailable, "invalid response from backend")
	}
	return &listing, nil
}

// CreateListing creates a listing via a single multipart POST to
// /models/create. The request is atomic server-side: either the listing
// with its photo lands or nothing does.
func (c *Client) CreateListing(ctx context.Context, in CreateListingInput) (*Listing, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct {
		key, value string
	}{
		{"name", in.Name},
		{"description", in.Description},
		{"price_per_hour", in.PricePerHour},
		{"price_per_foo", in.PricePerFoo},
		{"price_per_night", in.PricePerNight},
		{"height", in.Height},
		{"weight", in.Weight},
		{"boobs", in.Bust},
		{"place", in.Place},
		{"number", in.Contact},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
	}

	listingSlug := in.Slug
	if listingSlug == "" {
		listingSlug = gosslug.Make(in.Name)
	}
	if err := w.WriteField("slug", listingSlug); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	for _, id := range in.ServiceIDs {
		if err := w.WriteField("services", strconv.Itoa(id)); err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
	}

	if in.Photo != nil {
		name := in.PhotoFilename
		if name == "" {
			name = "photo"
		}
		part, err := w.CreateFormFile("photo", name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
		if _, err := io.Copy(part, in.Photo); err != nil {
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/create", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.sendListing(ctx, req)
}

// UpdateListing applies a partial update via PUT /models/update-{id}.
func (c *Client) UpdateListing(ctx context.Context, id string, patch ListingPatch) (*Listing, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/models/update-"+url.PathEscape(id), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.sendListing(ctx, req)
}

// DeleteListing removes a listing via DELETE /models/delete-{id}.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/models/delete-"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return c.unauthorized()
	case resp.StatusCode == http.StatusNotFound:
		return apierr.NotFoundf("no listing with id %q", id)
	default:
		return c.handleErrorResponse(resp)
	}
}

// ListServices fetches all service tags via GET /services/all-services.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	resp, err := c.get(ctx, "/services/all-services")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.unauthorized()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var services []Service
	if err := json.NewDecoder(resp.Body).Decode(&services); err != nil {
		return nil, apierr.Wrap(err, apierr.CodeUnavailable, "invalid response from backend")
	}
	return services, nil
}

// CreateService adds a service tag via POST /services/add-service.
func (c *Client) CreateService(ctx context.Context, name string) (*Service, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/services/add-service", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.unauthorized()
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, apierr.Validation(c.detail(resp, "service rejected"))
	default:
		return nil, c.handleErrorResponse(resp)
	}

	var service Service
	if err := json.NewDecoder(resp.Body).Decode(&service); err != nil {
		return nil, apierr.Wrap(err, apierr.CodeUnavailable, "invalid response from backend")
	}
	return &service, nil
}

// get issues an authenticated GET for the given path.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.send(ctx, req)
}

// send attaches the bearer token when present and maps transport errors.
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

// sendListing sends a mutation request whose success body is a Listing.
func (c *Client) sendListing(ctx context.Context, req *http.Request) (*Listing, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.unauthorized()
	case resp.StatusCode == http.StatusNotFound:
		return nil, apierr.NotFound("listing not found")
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, apierr.Validation(c.detail(resp, "listing rejected"))
	default:
		return nil, c.handleErrorResponse(resp)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, apierr.Wrap(err, apierr.CodeUnavailable, "invalid response from backend")
	}
	return &listing, nil
}

// unauthorized applies the forced-logout policy for a 401 on a protected
// call: drop the token and notify the session store.
func (c *Client) unauthorized() error {
	c.ClearToken()
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
	return apierr.Authorization("session expired, log in again")
}

// handleRequestError converts transport and context errors to typed errors.
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return apierr.Unavailable("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return apierr.Unavailable("request timed out")
	}
	return apierr.Wrapf(err, apierr.CodeUnavailable, "cannot connect to backend at %s", c.baseURL)
}

// handleErrorResponse parses unexpected API error responses.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	return apierr.Unavailable(c.detail(resp, fmt.Sprintf("backend returned status %d", resp.StatusCode)))
}

// detail extracts the backend error message, falling back when the body
// is not the expected shape.
func (c *Client) detail(resp *http.Response, fallback string) string {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Detail == "" {
		return fallback
	}
	return body.Detail
}
