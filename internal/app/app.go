// Package app wires the camera, hand tracker and game session into one
// frame loop and exposes its state to the renderer and the HTTP server.
package app

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/skypop/internal/capture"
	"github.com/ayusman/skypop/internal/config"
	"github.com/ayusman/skypop/internal/detector"
	"github.com/ayusman/skypop/internal/game"
	"github.com/ayusman/skypop/internal/scores"
	"github.com/ayusman/skypop/internal/store"
	"github.com/ayusman/skypop/internal/tracker"
)

// actionBuffer is the capacity of the action queue fed by Post.
const actionBuffer = 32

// Config holds configuration options for the application.
type Config struct {
	Config config.Config
	// ConfigPath is watched for edits; empty disables hot reload.
	ConfigPath string

	// Camera and Detector default to the configured device and the
	// MediaPipe service, falling back to a mock detector.
	Camera   capture.Camera
	Detector detector.Detector

	Store *store.Store
	// Submitter defaults to a scores.Recorder over Store and the
	// configured endpoint.
	Submitter game.Submitter
	Sounds    game.SoundPlayer
	Player    string
	Rand      *rand.Rand
	// Clock measures frame time; defaults to time.Now.
	Clock  func() time.Time
	Logger *log.Logger
}

// App is the main application that owns the frame loop.
type App struct {
	config     Config
	logger     *log.Logger
	camera     capture.Camera
	detector   detector.Detector
	tracker    *tracker.Tracker
	controller *game.Controller
	watcher    *config.Watcher
	actions    chan game.Actions
	geometry   image.Point

	// clock and lastStep measure real frame time for the session timer.
	clock    func() time.Time
	lastStep time.Time

	mu       sync.RWMutex
	snapshot game.Snapshot
	frame    gocv.Mat
	hasFrame bool
	preview  *image.RGBA

	closeOnce sync.Once
}

// New creates a new App. The camera is not opened until Open.
func New(cfg Config) (*App, error) {
	if err := cfg.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := cfg.Config

	a := &App{
		config:   cfg,
		logger:   logger.With("component", "app"),
		camera:   cfg.Camera,
		actions:  make(chan game.Actions, actionBuffer),
		frame:    gocv.NewMat(),
		geometry: image.Pt(c.Window.Width, c.Window.Height),
		clock:    cfg.Clock,
	}

	if a.clock == nil {
		a.clock = time.Now
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Config{
			Device: c.Camera.Device,
			Logger: logger,
		})
	}

	a.detector = cfg.Detector
	if a.detector == nil {
		dcfg := detector.DefaultConfig()
		dcfg.MaxHands = c.Tracker.MaxHands
		dcfg.MinConfidence = c.Tracker.MinDetectionConfidence
		dcfg.MinTrackingConf = c.Tracker.MinTrackingConfidence
		dcfg.Script = c.Tracker.Script
		dcfg.Logger = logger
		if mp, err := detector.NewMediaPipeDetector(dcfg); err == nil {
			a.detector = mp
			a.logger.Info("using MediaPipe hand detection")
		} else {
			a.logger.Warn("MediaPipe not available, using mock detector", "err", err)
			a.detector = detector.NewMockDetector()
		}
	}

	a.tracker = tracker.New(a.detector, tracker.Config{
		ProcessWidth:  c.Tracker.ProcessWidth,
		ProcessHeight: c.Tracker.ProcessHeight,
		PalmLandmark:  c.Tracker.PalmLandmark,
		TipLandmark:   c.Tracker.TipLandmark,
		WindowWidth:   c.Window.Width,
		WindowHeight:  c.Window.Height,
		Logger:        logger,
	})

	submitter := cfg.Submitter
	if submitter == nil {
		submitter = scores.NewRecorder(cfg.Store, scores.NewClient(c.Scores.Endpoint, c.Scores.Timeout), logger)
	}

	player := cfg.Player
	if player == "" {
		player = c.Game.Player
	}

	a.controller = game.NewController(game.ControllerConfig{
		Tuning:    c.Tuning(),
		Player:    player,
		Rand:      cfg.Rand,
		Sounds:    cfg.Sounds,
		Submitter: submitter,
		Logger:    logger,
	})
	a.snapshot = a.controller.Snapshot()

	return a, nil
}

// Open opens the camera and starts watching the configuration file.
// Camera errors are returned as is; a watcher failure only disables reload.
func (a *App) Open() error {
	if err := a.camera.Open(); err != nil {
		return err
	}

	if a.config.ConfigPath != "" {
		w, err := config.NewWatcher(a.config.ConfigPath)
		if err != nil {
			a.logger.Warn("config hot reload disabled", "path", a.config.ConfigPath, "err", err)
		} else {
			a.watcher = w
			a.logger.Info("watching config", "path", a.config.ConfigPath)
		}
	}
	return nil
}

// Close releases the camera, detector and watcher.
func (a *App) Close() error {
	var errs []error
	a.closeOnce.Do(func() {
		if a.watcher != nil {
			if err := a.watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := a.camera.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close camera: %w", err))
		}
		if a.detector != nil {
			if err := a.detector.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close detector: %w", err))
			}
		}

		a.mu.Lock()
		a.frame.Close()
		a.hasFrame = false
		a.mu.Unlock()
		a.logger.Info("stopped")
	})
	return errors.Join(errs...)
}

// Post queues actions for the next frame. It never blocks; actions
// arriving while the queue is full are dropped.
func (a *App) Post(actions game.Actions) {
	select {
	case a.actions <- actions:
	default:
		a.logger.Warn("action queue full, dropping", "actions", actions)
	}
}

// Snapshot returns the state produced by the latest frame.
func (a *App) Snapshot() game.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// LatestFrame returns a copy of the latest processed camera frame. The
// caller must close it.
func (a *App) LatestFrame() (gocv.Mat, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.hasFrame {
		return gocv.Mat{}, false
	}
	return a.frame.Clone(), true
}

// Preview returns the latest camera preview scaled to the configured
// preview size, or nil before the first frame.
func (a *App) Preview() *image.RGBA {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.preview
}

// Tracker returns the hand tracker.
func (a *App) Tracker() *tracker.Tracker {
	return a.tracker
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}
