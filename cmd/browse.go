// ABOUTME: Browse command launching the interactive TUI
// ABOUTME: Wires the gateway, session, and catalog stores into the app model

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siteseo/siteseo-cli/internal/catalog"
	"github.com/siteseo/siteseo-cli/internal/debuglog"
	"github.com/siteseo/siteseo-cli/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Browse opens the interactive terminal UI.

It shows the public catalog with search and paging, listing detail views,
and the admin actions (create, edit, delete, services) after logging in.`,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runBrowse(); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse resumes any saved session and starts the TUI.
func runBrowse() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if cfg.Debug {
		debuglog.Init(configDir(cfg))
		defer debuglog.Close()
		debuglog.Log("browse: starting, api=%s", cfg.APIURL)
	}

	gw, sess := newSession(cfg)
	if err := sess.CheckAuth(context.Background()); err != nil {
		// A broken saved session degrades to anonymous browsing
		debuglog.Warn("browse: session restore failed: %v", err)
	}

	store := catalog.New(gw)
	if err := tui.Run(gw, sess, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
