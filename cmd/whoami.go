// ABOUTME: Whoami command for the siteseo CLI
// ABOUTME: Resolves the stored session against the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long: `Resolve the stored session against the backend and print who is
logged in. A stale or revoked token is cleared, leaving a logged-out state.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami resolves the session and returns the exit code.
func runWhoami(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	_, sess := newSession(cfg)
	if err := sess.CheckAuth(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatIdentityJSON(cfg.APIURL, sess.Identity()))
	} else {
		fmt.Fprintln(w, formatIdentityHuman(cfg.APIURL, sess.Identity()))
	}

	if !sess.IsAuthenticated() {
		return 1
	}
	return 0
}
