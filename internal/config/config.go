// Package config provides YAML-based configuration loading, validation and
// hot reload for the game.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayusman/skypop/internal/game"
)

// Config contains all configuration for the game.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Game    GameConfig    `yaml:"game"`
	Balloon EntityConfig  `yaml:"balloon"`
	Bee     EntityConfig  `yaml:"bee"`
	Cursor  CursorConfig  `yaml:"cursor"`
	Tracker TrackerConfig `yaml:"tracker"`
	Camera  CameraConfig  `yaml:"camera"`
	Scores  ScoresConfig  `yaml:"scores"`
	Server  ServerConfig  `yaml:"server"`
	Audio   AudioConfig   `yaml:"audio"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// WindowConfig defines the display surface.
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	FPS        int    `yaml:"fps"`
	Title      string `yaml:"title"`
}

// GameConfig defines session rules.
type GameConfig struct {
	Duration      float64 `yaml:"duration"`
	SpawnInterval float64 `yaml:"spawn_interval"`
	BalloonScore  int     `yaml:"balloon_score"`
	BeePenalty    int     `yaml:"bee_penalty"`
	Player        string  `yaml:"player"`
}

// EntityConfig defines spawn parameters for one entity kind.
type EntityConfig struct {
	BaseWidth  float64 `yaml:"base_width"`
	BaseHeight float64 `yaml:"base_height"`
	SizeMin    float64 `yaml:"size_min"`
	SizeMax    float64 `yaml:"size_max"`
	SpeedMin   float64 `yaml:"speed_min"`
	SpeedMax   float64 `yaml:"speed_max"`
}

// CursorConfig defines the hand cursor.
type CursorConfig struct {
	Size        float64 `yaml:"size"`
	ClosedScale float64 `yaml:"closed_scale"`
}

// TrackerConfig defines hand tracking parameters.
type TrackerConfig struct {
	ProcessWidth           int     `yaml:"process_width"`
	ProcessHeight          int     `yaml:"process_height"`
	PreviewWidth           int     `yaml:"preview_width"`
	PreviewHeight          int     `yaml:"preview_height"`
	PalmLandmark           int     `yaml:"palm_landmark"`
	TipLandmark            int     `yaml:"tip_landmark"`
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
	Script                 string  `yaml:"script"`
}

// CameraConfig selects the capture device.
type CameraConfig struct {
	Device int `yaml:"device"`
}

// ScoresConfig defines score persistence.
type ScoresConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	DBPath   string        `yaml:"db_path"`
}

// ServerConfig defines the spectator HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AudioConfig defines sound output.
type AudioConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Music       bool    `yaml:"music"`
	SoundVolume float64 `yaml:"sound_volume"`
	MusicVolume float64 `yaml:"music_volume"`
	AssetsDir   string  `yaml:"assets_dir"`
}

// AssetsConfig locates image assets.
type AssetsConfig struct {
	ImagesDir   string   `yaml:"images_dir"`
	Backgrounds []string `yaml:"backgrounds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, FPS: 60, Title: "SkyPop"},
		Game: GameConfig{
			Duration:      60,
			SpawnInterval: 0.8,
			BalloonScore:  1,
			BeePenalty:    1,
			Player:        "player",
		},
		Balloon: EntityConfig{BaseWidth: 80, BaseHeight: 100, SizeMin: 0.8, SizeMax: 1.3, SpeedMin: 2, SpeedMax: 5},
		Bee:     EntityConfig{BaseWidth: 90, BaseHeight: 80, SizeMin: 0.9, SizeMax: 1.2, SpeedMin: 3, SpeedMax: 6},
		Cursor:  CursorConfig{Size: 60, ClosedScale: 0.7},
		Tracker: TrackerConfig{
			ProcessWidth:           160,
			ProcessHeight:          90,
			PreviewWidth:           300,
			PreviewHeight:          169,
			PalmLandmark:           9,
			TipLandmark:            12,
			MaxHands:               1,
			MinDetectionConfidence: 0.5,
			MinTrackingConfidence:  0.5,
			Script:                 "scripts/hand_detector.py",
		},
		Scores: ScoresConfig{Timeout: 5 * time.Second, DBPath: "~/.skypop/skypop.db"},
		Server: ServerConfig{Addr: ":8080"},
		Audio: AudioConfig{
			Enabled:     true,
			Music:       true,
			SoundVolume: 1,
			MusicVolume: 0.5,
			AssetsDir:   "assets/sounds",
		},
		Assets: AssetsConfig{ImagesDir: "assets/images", Backgrounds: []string{"background.png"}},
	}
}

// Validate reports every value that would break the game loop.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.FPS <= 0 {
		errs = append(errs, fmt.Errorf("window fps must be positive, got %d", c.Window.FPS))
	}
	if c.Game.Duration <= 0 {
		errs = append(errs, fmt.Errorf("game duration must be positive, got %v", c.Game.Duration))
	}
	if c.Game.SpawnInterval <= 0 {
		errs = append(errs, fmt.Errorf("spawn interval must be positive, got %v", c.Game.SpawnInterval))
	}
	if c.Cursor.Size <= 0 {
		errs = append(errs, fmt.Errorf("cursor size must be positive, got %v", c.Cursor.Size))
	}
	for _, k := range []struct {
		name string
		e    EntityConfig
	}{{"balloon", c.Balloon}, {"bee", c.Bee}} {
		name, e := k.name, k.e
		if e.BaseWidth <= 0 || e.BaseHeight <= 0 {
			errs = append(errs, fmt.Errorf("%s base size must be positive", name))
		}
		if e.SizeMin <= 0 || e.SizeMax < e.SizeMin {
			errs = append(errs, fmt.Errorf("%s size range [%v, %v] is invalid", name, e.SizeMin, e.SizeMax))
		}
		if e.SpeedMin <= 0 || e.SpeedMax < e.SpeedMin {
			errs = append(errs, fmt.Errorf("%s speed range [%v, %v] is invalid", name, e.SpeedMin, e.SpeedMax))
		}
	}
	if c.Tracker.ProcessWidth <= 0 || c.Tracker.ProcessHeight <= 0 {
		errs = append(errs, errors.New("tracker process size must be positive"))
	}
	if c.Tracker.PalmLandmark < 0 || c.Tracker.PalmLandmark > 20 || c.Tracker.TipLandmark < 0 || c.Tracker.TipLandmark > 20 {
		errs = append(errs, errors.New("tracker landmarks must be in [0, 20]"))
	}
	return errors.Join(errs...)
}

// Tuning converts the configuration into gameplay constants.
func (c Config) Tuning() game.Tuning {
	t := game.DefaultTuning()
	t.Width = c.Window.Width
	t.Height = c.Window.Height
	t.TickRate = c.Window.FPS
	t.Duration = c.Game.Duration
	t.SpawnInterval = c.Game.SpawnInterval
	t.CursorSize = c.Cursor.Size
	if c.Scores.Timeout > 0 {
		t.SubmitTimeout = c.Scores.Timeout
	}
	t.Balloon = c.Balloon.kindTuning(c.Game.BalloonScore)
	t.Bee = c.Bee.kindTuning(-c.Game.BeePenalty)
	return t
}

func (e EntityConfig) kindTuning(score int) game.KindTuning {
	return game.KindTuning{
		BaseW:    e.BaseWidth,
		BaseH:    e.BaseHeight,
		SizeMin:  e.SizeMin,
		SizeMax:  e.SizeMax,
		SpeedMin: e.SpeedMin,
		SpeedMax: e.SpeedMax,
		Score:    score,
	}
}

// Settings returns the runtime-adjustable subset of the configuration.
func (c Config) Settings() Settings {
	return Settings{
		Fullscreen:  c.Window.Fullscreen,
		Music:       c.Audio.Music,
		SoundVolume: c.Audio.SoundVolume,
	}
}

// Settings are the options a player can change from the menus. They are
// passed into the UI and returned, never shared.
type Settings struct {
	Fullscreen  bool    `json:"fullscreen"`
	Music       bool    `json:"music"`
	SoundVolume float64 `json:"sound_volume"`
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
