package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"calendr/internal/config"
	"calendr/internal/data"
	"calendr/internal/ics"
	appLog "calendr/internal/log"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "calendr",
		Short:         "Regional holiday and event calendar",
		Long:          "Serve, print and export a month-grid calendar of national and regional holidays and events.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/calendr/config.yaml", "Config file path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(monthCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(snapshotCmd())

	err := rootCmd.Execute()
	appLog.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies its log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// buildStore wires the data files and any ICS subscriptions behind one
// memoizing store.
func buildStore(cfg *config.Config, loc *time.Location) *data.Store {
	var provider data.Provider = data.NewFileProvider(cfg, loc)

	if feeds := ics.FeedsFromConfig(cfg); len(feeds) > 0 {
		fetcher := ics.NewFetcher(cfg.CacheDir, nil)
		provider = data.NewMultiProvider(provider, ics.NewFeedProvider(fetcher, feeds, loc))
		appLog.Info("ics feeds enabled", "feed_count", len(feeds))
	}

	return data.NewStore(provider, loc)
}
