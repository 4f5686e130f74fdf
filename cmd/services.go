// ABOUTME: Service tag commands for the siteseo CLI
// ABOUTME: Lists the available tags and adds new ones (admin)

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/siteseo/siteseo-cli/internal/catalog"
	"github.com/siteseo/siteseo-cli/internal/gateway"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage service tags",
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all service tags",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runServicesList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var servicesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a service tag (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runServicesAdd(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
	servicesCmd.AddCommand(servicesListCmd, servicesAddCmd)
}

// runServicesList fetches and prints all service tags.
func runServicesList(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	gw := gateway.New(cfg.APIURL)
	store := catalog.New(gw)
	if err := store.FetchServices(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(store.Services(), "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatServicesHuman(store.Services()))
	}
	return 0
}

// runServicesAdd creates a service tag.
func runServicesAdd(ctx context.Context, w io.Writer, name string) int {
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(w, "Error: service name must not be empty")
		return 1
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	gw, _, ok := requireSession(ctx, w, cfg)
	if !ok {
		return 1
	}

	service, err := gw.CreateService(ctx, name)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCodeForError(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(service, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Added service %q (id %d)\n", service.Name, service.ID)
	}
	return 0
}

// formatServicesHuman formats the service tags for human readability.
func formatServicesHuman(services []gateway.Service) string {
	if len(services) == 0 {
		return "No services."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %s\n", "ID", "NAME")
	for _, svc := range services {
		fmt.Fprintf(&b, "%-6d %s\n", svc.ID, svc.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}
