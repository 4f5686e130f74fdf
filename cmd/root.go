// ABOUTME: Root command for the siteseo CLI
// ABOUTME: Handles global flags, config loading, and shared wiring

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/siteseo/siteseo-cli/internal/apierr"
	"github.com/siteseo/siteseo-cli/internal/config"
	"github.com/siteseo/siteseo-cli/internal/gateway"
	"github.com/siteseo/siteseo-cli/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "siteseo",
	Short: "Catalog browser and admin console for the siteseo backend",
	Long: `siteseo is a command-line client for the siteseo catalog backend.

It browses the public catalog, shows listing details, and offers the full
admin surface (listing and service CRUD) behind a login.

Environment Variables:
  SITESEO_API_URL     Backend API URL (default: http://localhost:8000)
  SITESEO_CONFIG_DIR  Where the session record and debug log live
  SITESEO_DEBUG       Enable the TUI debug log (default: false)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides SITESEO_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig loads env-driven config and applies the flag override.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		cfg.Sanitize()
	}
	return cfg, nil
}

// configDir resolves where durable state lives.
func configDir(cfg config.Config) string {
	if cfg.ConfigDir != "" {
		return cfg.ConfigDir
	}
	return session.DefaultConfigDir()
}

// newSession wires the gateway and session store for a command run.
func newSession(cfg config.Config) (*gateway.Client, *session.Store) {
	gw := gateway.New(cfg.APIURL)
	creds := session.NewCredentialFile(configDir(cfg))
	return gw, session.New(gw, creds)
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// exitCodeForError maps typed errors to the CLI exit code convention:
// 1 for a domain rejection, 2 for connectivity or unexpected failures.
func exitCodeForError(err error) int {
	switch {
	case err == nil:
		return 0
	case apierr.IsAuthentication(err), apierr.IsAuthorization(err),
		apierr.IsValidation(err), apierr.IsNotFound(err):
		return 1
	default:
		return 2
	}
}

// fileExists reports whether a path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
