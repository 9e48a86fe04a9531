package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/ayusman/skypop/internal/app"
	"github.com/ayusman/skypop/internal/audio"
	"github.com/ayusman/skypop/internal/config"
	"github.com/ayusman/skypop/internal/render"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the game window",
	Long: `Open the game window and start tracking your hand through the webcam.

Close your hand over a balloon to pop it (+1). Popping a bee costs a point.
Press Escape to pause. Music and fullscreen can be toggled from the menu and
are remembered between runs.`,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
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

	settings := storedSettings(st, cfg.Settings())

	sounds := audio.NewManager(audio.Config{
		Enabled:     cfg.Audio.Enabled,
		Music:       settings.Music,
		SoundVolume: settings.SoundVolume,
		MusicVolume: cfg.Audio.MusicVolume,
		AssetsDir:   cfg.Audio.AssetsDir,
		Logger:      logger,
	})
	if err := sounds.Start(); err != nil {
		logger.Warn("audio unavailable, continuing without sound", "err", err)
	}
	defer sounds.Close()

	application, err := app.New(app.Config{
		Config:     cfg,
		ConfigPath: cfgPath,
		Store:      st,
		Sounds:     sounds,
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

	g := render.New(render.Config{
		Engine:   application,
		Preview:  application,
		Sprites:  render.LoadSprites(cfg.Assets.ImagesDir, cfg.Assets.Backgrounds, logger),
		Settings: settings,
		OnSettings: func(s config.Settings) {
			sounds.SetMusic(s.Music)
			sounds.SetSoundVolume(s.SoundVolume)
			saveSettings(st, s, logger)
		},
		Sounds:      sounds,
		ClosedScale: cfg.Cursor.ClosedScale,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Logger:      logger,
	})

	ebiten.SetTPS(cfg.Window.FPS)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetFullscreen(settings.Fullscreen)

	logger.Info("starting game", "size", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height), "fps", cfg.Window.FPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
