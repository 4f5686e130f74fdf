// ABOUTME: Entry point for the siteseo CLI
// ABOUTME: Catalog browser and admin console for the siteseo backend

package main

import (
	"fmt"
	"os"

	"github.com/siteseo/siteseo-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
