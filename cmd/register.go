// ABOUTME: Register command for the siteseo CLI
// ABOUTME: Creates an account and immediately establishes a session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerEmail    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the siteseo backend",
	Long: `Create an account and log in with it.

Missing fields are prompted for interactively. The password must be at
least 6 characters.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		username, email, password, err := promptRegistration(registerUsername, registerEmail)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		exitCode := runRegister(ctx, os.Stdout, username, email, password)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username (prompted when omitted)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address (prompted when omitted)")
}

// promptRegistration collects registration fields, prompting only for what
// was not supplied, and confirms the password.
func promptRegistration(username, email string) (string, string, string, error) {
	var password, confirm string
	var fields []huh.Field

	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&username))
	}
	if email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&email))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&confirm),
	)

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return "", "", "", err
	}
	if password != confirm {
		return "", "", "", fmt.Errorf("passwords do not match")
	}
	return username, email, password, nil
}

// runRegister performs registration plus login and returns the exit code.
func runRegister(ctx context.Context, w io.Writer, username, email, password string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	_, sess := newSession(cfg)
	if err := sess.Register(ctx, username, email, password); err != nil {
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
