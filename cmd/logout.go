// ABOUTME: Logout command for the siteseo CLI
// ABOUTME: Clears the stored session record unconditionally

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns the exit code.
func runLogout(w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	_, sess := newSession(cfg)
	sess.Logout()
	fmt.Fprintln(w, "Logged out.")
	return 0
}
