package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitdeath/cf-search/internal/config"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cf-search",
	Short: "Quality-cutoff upgrade search for Radarr and Sonarr",
	Long: `cf-search - quality-cutoff upgrade search for Radarr and Sonarr

Scans configured instances for items whose file falls below the custom
format cutoff of their quality profile and triggers a search for a capped
random subset, honoring a per-item cooldown across runs.

Instances and options come from the environment (RADARR0_URL, ...) or an
optional TOML config file.`,
	SilenceUsage: true,
}

// Execute runs the CLI, exiting non-zero on any command error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to optional TOML config file")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("cf-search {{.Version}}\n")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
