package game

import "time"

// Tuning holds every externally supplied gameplay constant.
type Tuning struct {
	Width, Height int     // window size in pixels
	TickRate      int     // updates per second
	Duration      float64 // session length in seconds
	SpawnInterval float64 // seconds between spawn events
	CursorSize    float64 // cursor hitbox edge in pixels
	SubmitTimeout time.Duration
	Balloon       KindTuning
	Bee           KindTuning
}

// DefaultTuning returns the stock gameplay constants.
func DefaultTuning() Tuning {
	return Tuning{
		Width:         1280,
		Height:        720,
		TickRate:      60,
		Duration:      60,
		SpawnInterval: 0.8,
		CursorSize:    60,
		SubmitTimeout: 5 * time.Second,
		Balloon: KindTuning{
			BaseW: 80, BaseH: 100,
			SizeMin: 0.8, SizeMax: 1.3,
			SpeedMin: 2, SpeedMax: 5,
			Score: 1,
		},
		Bee: KindTuning{
			BaseW: 90, BaseH: 80,
			SizeMin: 0.9, SizeMax: 1.2,
			SpeedMin: 3, SpeedMax: 6,
			Score: -1,
		},
	}
}

// Bounds returns the playfield rectangle.
func (t Tuning) Bounds() Rect {
	return Rect{W: float64(t.Width), H: float64(t.Height)}
}

// TickSeconds returns the duration of one update in seconds.
func (t Tuning) TickSeconds() float64 {
	if t.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(t.TickRate)
}
