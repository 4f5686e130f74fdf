// ABOUTME: Tests for the auth commands (login, logout, whoami, register)
// ABOUTME: Runs command funcs against httptest backends and checks output

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteseo/siteseo-cli/internal/session"
)

// authBackend serves the login/profile/probe endpoints for command tests.
func authBackend(t *testing.T, admin bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			require.NoError(t, r.ParseForm())
			if r.PostFormValue("password") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "invalid username or password"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-test"})
		case "/register":
			w.WriteHeader(http.StatusCreated)
		case "/user_protected":
			json.NewEncoder(w).Encode(map[string]string{"Привет!": "anna"})
		case "/admin_protected":
			if admin {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusUnauthorized)
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestRunLoginSuccess(t *testing.T) {
	server := authBackend(t, false)
	defer server.Close()
	dir := pointCommandsAt(t, server.URL)

	var out bytes.Buffer
	code := runLogin(context.Background(), &out, "anna", "secret")

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Username: anna")
	assert.Contains(t, out.String(), "Role:     user")

	// The session landed on disk
	rec, err := session.NewCredentialFile(dir).Load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "tok-test", rec.Token)
}

func TestRunLoginAdmin(t *testing.T) {
	server := authBackend(t, true)
	defer server.Close()
	pointCommandsAt(t, server.URL)

	var out bytes.Buffer
	code := runLogin(context.Background(), &out, "boss", "secret")

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Role:     admin")
}

func TestRunLoginBadCredentials(t *testing.T) {
	server := authBackend(t, false)
	defer server.Close()
	dir := pointCommandsAt(t, server.URL)

	var out bytes.Buffer
	code := runLogin(context.Background(), &out, "anna", "wrong")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "invalid username or password")

	rec, err := session.NewCredentialFile(dir).Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRunLogoutRemovesRecord(t *testing.T) {
	server := authBackend(t, false)
	defer server.Close()
	dir := pointCommandsAt(t, server.URL)
	saveSession(t, dir)

	var out bytes.Buffer
	code := runLogout(&out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Logged out.")
	assert.False(t, fileExists(filepath.Join(dir, "session.json")))
}

func TestRunWhoamiLoggedOut(t *testing.T) {
	server := authBackend(t, false)
	defer server.Close()
	pointCommandsAt(t, server.URL)

	var out bytes.Buffer
	code := runWhoami(context.Background(), &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Not logged in.")
}

func TestRunWhoamiWithStoredSession(t *testing.T) {
	server := authBackend(t, false)
	defer server.Close()
	dir := pointCommandsAt(t, server.URL)
	saveSession(t, dir)

	var out bytes.Buffer
	code := runWhoami(context.Background(), &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Username: anna")
}

func TestRunRegisterLogsIn(t *testing.T) {
	server := authBackend(t, false)
	defer server.Close()
	pointCommandsAt(t, server.URL)

	var out bytes.Buffer
	code := runRegister(context.Background(), &out, "anna", "anna@example.com", "secret")

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Username: anna")
}

func TestRunRegisterValidationFailsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for invalid input")
	}))
	defer server.Close()
	pointCommandsAt(t, server.URL)

	var out bytes.Buffer
	code := runRegister(context.Background(), &out, "anna", "not-an-email", "secret")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "valid email")
}

func TestFormatIdentityJSON(t *testing.T) {
	out := formatIdentityJSON("http://api", &session.Identity{Username: "anna", IsAdmin: true})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, true, decoded["logged_in"])
	assert.Equal(t, "anna", decoded["username"])
	assert.Equal(t, true, decoded["is_admin"])
}

func TestFormatIdentityJSONLoggedOut(t *testing.T) {
	out := formatIdentityJSON("http://api", nil)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, false, decoded["logged_in"])
	_, hasUsername := decoded["username"]
	assert.False(t, hasUsername)
}
