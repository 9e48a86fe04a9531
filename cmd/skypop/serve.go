package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/skypop/internal/app"
	"github.com/ayusman/skypop/internal/game"
	"github.com/ayusman/skypop/internal/server"
	"github.com/ayusman/skypop/internal/tray"
)

var (
	serveAddr   string
	serveNoTray bool
	serveRate   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run headless and serve the spectator API",
	Long: `Run the game without a window. The session is driven from the tray
menu (New Game, Pause/Resume, Quit) or POST /api/control, and spectators
follow it over HTTP:

  GET /api/health        - status, phase, score and time left
  GET /api/scores        - local leaderboard (?limit=N)
  GET /api/state         - websocket feed of game snapshots
  GET /api/stream        - MJPEG camera preview
  POST /api/control      - {"action": "start" | "pause" | "play_again" | "main_menu"}`,
	Example: `  skypop serve
  skypop serve --addr :9000 --no-tray`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoTray, "no-tray", false, "Do not show the tray icon")
	serveCmd.Flags().IntVar(&serveRate, "state-rate", 15, "Snapshots per second sent to spectators")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	application, err := app.New(app.Config{
		Config:     cfg,
		ConfigPath: cfgPath,
		Store:      st,
		Player:     playerName(cfg, st),
		Rand:       newRand(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	if err := application.Open(); err != nil {
		return err
	}
	defer application.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	webDir := findWebDir()
	if webDir != "" {
		logger.Info("serving static files", "dir", webDir)
	}
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		State:     application,
		Frames:    application,
		Control:   application.Post,
		StateRate: serveRate,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return application.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx, addr) })

	if serveNoTray {
		return g.Wait()
	}

	t := tray.New()
	t.OnStart(func() { application.Post(game.Actions{Start: true, PlayAgain: true}) })
	t.OnPause(func() { application.Post(game.Actions{TogglePause: true}) })
	t.OnQuit(cancel)
	g.Go(func() error {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.Quit()
				return nil
			case <-ticker.C:
				t.Update(application.Snapshot())
			}
		}
	})

	// The tray owns the main goroutine until Quit.
	t.Run()
	cancel()
	return g.Wait()
}

// findWebDir searches for the spectator page in common locations.
// It checks: "web", "../web", "../../web", and ~/.skypop/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".skypop", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
