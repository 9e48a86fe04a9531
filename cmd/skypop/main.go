// skypop is a webcam-controlled arcade game: close your hand over balloons
// to pop them and keep away from the bees.
//
// Usage:
//
//	skypop play              - Open the game window
//	skypop serve             - Run headless with the spectator HTTP API
//	skypop scores            - Show the local leaderboard
//	skypop config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Configuration file (default: search path)
//	--db <path>         - Score database (default: from config)
//	--log-level <level> - debug, info, warn or error
//	--seed <value>      - RNG seed for reproducible spawns
//	--player <name>     - Name attached to submitted scores
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ayusman/skypop/internal/config"
	"github.com/ayusman/skypop/internal/store"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagSeed     int64
	flagPlayer   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skypop",
	Short: "SkyPop - pop balloons with your hand",
	Long: `SkyPop tracks one hand through the webcam. Close it over a balloon
to pop it; popping a bee costs points. A session lasts one minute.

Available commands:
  play     - Open the game window
  serve    - Run headless and serve the spectator API
  scores   - View the local leaderboard
  config   - Print the effective configuration

Examples:
  skypop play --player ana
  skypop serve --addr :9000
  skypop scores --limit 20`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name (default from settings or config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the root logger from --log-level.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "skypop",
		Level:           level,
	})
	log.SetDefault(logger)
	return logger, nil
}

// loadConfig loads the configuration named by --config or the search path.
func loadConfig() (config.Config, string, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, config.Path(flagConfig), nil
}

// openStore opens --db, or the configured database path.
func openStore(cfg config.Config) (*store.Store, error) {
	path := flagDBPath
	if path == "" {
		path = cfg.Scores.DBPath
	}
	st, err := store.New(config.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("open scores database: %w", err)
	}
	return st, nil
}

// newRand returns a generator seeded from --seed, or the clock.
func newRand() *rand.Rand {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// playerName picks --player, then the stored name, then the config default.
func playerName(cfg config.Config, st *store.Store) string {
	if flagPlayer != "" {
		if st != nil {
			if err := st.Settings().Set(store.SettingPlayer, flagPlayer); err != nil {
				log.Warn("could not remember player name", "err", err)
			}
		}
		return flagPlayer
	}
	if st != nil {
		if name, err := st.Settings().Get(store.SettingPlayer); err == nil && name != "" {
			return name
		}
	}
	return cfg.Game.Player
}
