// Package tracker turns per-frame hand landmarks into a game cursor.
package tracker

import (
	"errors"
	"image"

	"github.com/charmbracelet/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/skypop/internal/detector"
	"github.com/ayusman/skypop/internal/game"
)

// ErrEmptyFrame is returned by Scan for a frame with no pixels.
var ErrEmptyFrame = errors.New("empty frame")

// Config configures a Tracker.
type Config struct {
	// ProcessWidth and ProcessHeight are the resolution frames are reduced
	// to before detection.
	ProcessWidth  int
	ProcessHeight int

	// PalmLandmark positions the cursor; the hand counts as closed when
	// TipLandmark sits lower in the image than PalmLandmark.
	PalmLandmark int
	TipLandmark  int

	WindowWidth  int
	WindowHeight int

	Logger *log.Logger
}

// DefaultConfig returns the stock tracking parameters for a 1280x720 window.
func DefaultConfig() Config {
	return Config{
		ProcessWidth:  160,
		ProcessHeight: 90,
		PalmLandmark:  detector.MiddleMCP,
		TipLandmark:   detector.MiddleTip,
		WindowWidth:   1280,
		WindowHeight:  720,
	}
}

// Tracker owns the cursor derived from the most recent detection. It is
// driven by the frame loop and is not safe for concurrent use.
type Tracker struct {
	cfg      Config
	detector detector.Detector
	logger   *log.Logger
	cursor   game.Cursor
	detected bool
	lastErr  string
}

// New creates a Tracker that reads landmarks from d.
func New(d detector.Detector, cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.ProcessWidth <= 0 || cfg.ProcessHeight <= 0 {
		cfg.ProcessWidth, cfg.ProcessHeight = def.ProcessWidth, def.ProcessHeight
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		cfg.WindowWidth, cfg.WindowHeight = def.WindowWidth, def.WindowHeight
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		cfg:      cfg,
		detector: d,
		logger:   logger.With("component", "tracker"),
	}
}

// Scan reduces frame to the processing resolution, mirrors it so the
// cursor follows the player like a mirror, and updates the cursor from the
// detected hand. The returned Mat is the processed frame and must be closed
// by the caller. A failing detector is treated as no hand in view.
func (t *Tracker) Scan(frame *gocv.Mat) (gocv.Mat, error) {
	if frame == nil || frame.Empty() {
		t.Apply(nil)
		return gocv.NewMat(), ErrEmptyFrame
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(*frame, &small, image.Pt(t.cfg.ProcessWidth, t.cfg.ProcessHeight), 0, 0, gocv.InterpolationLinear)

	processed := gocv.NewMat()
	gocv.Flip(small, &processed, 1)

	var hands []detector.HandLandmarks
	if t.detector != nil {
		var err error
		hands, err = t.detector.Detect(&processed)
		t.noteError(err)
	}
	t.Apply(hands)

	return processed, nil
}

// noteError logs detector failures once per distinct message.
func (t *Tracker) noteError(err error) {
	if err == nil {
		if t.lastErr != "" {
			t.logger.Info("hand detection recovered")
			t.lastErr = ""
		}
		return
	}
	if msg := err.Error(); msg != t.lastErr {
		t.logger.Warn("hand detection failed", "err", err)
		t.lastErr = msg
		return
	}
	t.logger.Debug("hand detection failed", "err", err)
}

// Apply updates the cursor from one frame's detections. Only the first
// hand is used. With no hand the cursor keeps its position and opens.
func (t *Tracker) Apply(hands []detector.HandLandmarks) game.Cursor {
	if len(hands) == 0 {
		t.detected = false
		t.cursor.Closed = false
		return t.cursor
	}

	hand := hands[0]
	palm := hand.Point(t.cfg.PalmLandmark)
	tip := hand.Point(t.cfg.TipLandmark)

	t.cursor = game.Cursor{
		X:      float64(int(palm.X * float64(t.cfg.WindowWidth))),
		Y:      float64(int(palm.Y * float64(t.cfg.WindowHeight))),
		Closed: tip.Y > palm.Y,
	}
	t.detected = true
	return t.cursor
}

// Cursor returns the last known cursor; the zero cursor before the first
// detection.
func (t *Tracker) Cursor() game.Cursor {
	return t.cursor
}

// Detected reports whether the last frame contained a hand.
func (t *Tracker) Detected() bool {
	return t.detected
}

// SetWindowSize changes the pixel space the cursor is mapped into.
func (t *Tracker) SetWindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	t.cfg.WindowWidth = width
	t.cfg.WindowHeight = height
}
