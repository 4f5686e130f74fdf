// ABOUTME: Login command for the siteseo CLI
// ABOUTME: Exchanges credentials for a session and reports admin status

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/siteseo/siteseo-cli/internal/session"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the siteseo backend",
	Long: `Log in to the siteseo backend and store the session locally.

Missing credentials are prompted for interactively. Admin privilege is
derived by probing the admin endpoint after login.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		username, password, err := promptCredentials(loginUsername)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		exitCode := runLogin(ctx, os.Stdout, username, password)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
}

// promptCredentials collects the username and password, prompting only for
// what was not supplied.
func promptCredentials(username string) (string, string, error) {
	var password string
	var fields []huh.Field

	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&username))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password))

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return username, password, nil
}

// runLogin performs the login and returns the exit code.
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	_, sess := newSession(cfg)
	if err := sess.Login(ctx, username, password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatIdentityJSON(cfg.APIURL, sess.Identity()))
	} else {
		fmt.Fprintln(w, formatIdentityHuman(cfg.APIURL, sess.Identity()))
	}
	return 0
}

// formatIdentityHuman formats the logged-in identity for human readability
func formatIdentityHuman(url string, ident *session.Identity) string {
	if ident == nil {
		return "Not logged in."
	}
	role := "user"
	if ident.IsAdmin {
		role = "admin"
	}
	return fmt.Sprintf(`Backend:  %s
Username: %s
Role:     %s`, url, ident.Username, role)
}

// formatIdentityJSON formats the logged-in identity as JSON
func formatIdentityJSON(url string, ident *session.Identity) string {
	output := map[string]interface{}{
		"backend":   url,
		"logged_in": ident != nil,
	}
	if ident != nil {
		output["username"] = ident.Username
		output["is_admin"] = ident.IsAdmin
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
