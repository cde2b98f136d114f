package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqgame/internal/app"
	"github.com/abhisek/iqgame/internal/config"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "iqgame",
	Short:         "Team trivia game engine",
	Long:          "iqgame runs team trivia sessions: six categories, 36 questions, two teams and a handful of power-ups.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides IQGAME_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides IQGAME_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(powerupCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then IQGAME_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, env string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if env != "" {
		return env, store.EnsureDir(env)
	}
	return store.DefaultDBPath()
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cfg.DBPath, err = resolveDBPath(cmd, cfg.DBPath); err != nil {
		return config.Config{}, fmt.Errorf("resolve DB path: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, cfg.Validate()
}

// openApp loads configuration and opens the application. Callers close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	return openAppLogging(cmd, os.Stderr)
}

// openAppLogging is openApp with logs written to w.
func openAppLogging(cmd *cobra.Command, w io.Writer) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(w, level, cfg.LogColor && w == os.Stderr)
	return app.New(cfg, logger)
}
