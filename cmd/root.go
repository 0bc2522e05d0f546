// Package cmd defines and implements the CLI commands for the
// catalog-crawler executable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mercalytics/catalog-crawler/internal/app"
	"github.com/mercalytics/catalog-crawler/internal/config"
	"github.com/mercalytics/catalog-crawler/internal/store"
)

var cfgFile string

// appKeyType is the key for storing the App in the command context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application surface the commands use. Declared as an
// interface so tests can inject a mock app.
type App interface {
	Close()
	Config() config.Config
	Logger() *zap.Logger
	Store() store.Store
}

// newApp is the application factory. It is a variable so tests can replace
// it with a mock factory.
var newApp = func(ctx context.Context) (App, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return app.New(ctx, path)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog-crawler",
		Short: "Collects and normalizes product listings from a paginated catalog search.",
		Long: `catalog-crawler walks one catalog search endpoint page by page, extracts
product listings across both page-layout generations, normalizes the
locale-formatted fields into typed columns, and lands each run as a full
replacement of the reporting table.`,

		// Build the application after flags parse but before any
		// subcommand runs, and hand it down through the context.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml if present)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newLoadCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
