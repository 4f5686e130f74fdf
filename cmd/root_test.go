// ABOUTME: Tests for shared command wiring
// ABOUTME: Covers config overrides and exit code mapping

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteseo/siteseo-cli/internal/apierr"
)

func TestLoadConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("SITESEO_API_URL", "http://env.example.com")
	apiURL = "http://flag.example.com/"
	defer func() { apiURL = "" }()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example.com", cfg.APIURL)
}

func TestLoadConfigUsesEnvWithoutFlag(t *testing.T) {
	t.Setenv("SITESEO_API_URL", "http://env.example.com")
	apiURL = ""

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.APIURL)
}

func TestConfigDirPrefersExplicitSetting(t *testing.T) {
	t.Setenv("SITESEO_CONFIG_DIR", "/tmp/explicit")
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/explicit", configDir(cfg))
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"authentication", apierr.Authentication("bad credentials"), 1},
		{"authorization", apierr.Authorization("admins only"), 1},
		{"validation", apierr.Validation("bad input"), 1},
		{"not found", apierr.NotFound("gone"), 1},
		{"unavailable", apierr.Unavailable("backend down"), 2},
		{"registration", apierr.Registration("refused"), 2},
		{"plain", errors.New("boom"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeForError(tt.err))
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, fileExists(path))
	assert.False(t, fileExists(filepath.Join(dir, "missing.jpg")))
	assert.False(t, fileExists(dir))
}
