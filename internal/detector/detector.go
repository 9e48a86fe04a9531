package detector

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gocv.io/x/gocv"
)

// ErrServiceNotFound is returned when the pose estimation script is missing.
var ErrServiceNotFound = errors.New("hand detector service not found")

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks in
	// normalized [0,1] image coordinates. Returns an empty slice if no hands
	// are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ModelComplexity selects the MediaPipe model: 0 is fastest.
	ModelComplexity int

	// Script overrides the service script location.
	Script string

	// IdleTimeout stops the service after this long without frames.
	IdleTimeout time.Duration

	Logger *log.Logger
}

// DefaultConfig returns a Config tuned for a single fast-moving hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		ModelComplexity: 0,
		IdleTimeout:     30 * time.Second,
	}
}
