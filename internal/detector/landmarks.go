// Package detector provides hand landmark detection for the tracker.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Point returns landmark i, or the zero point when i is out of range.
func (h HandLandmarks) Point(i int) Point3D {
	if i < 0 || i >= NumLandmarks {
		return Point3D{}
	}
	return h.Points[i]
}

// MoveTo translates every landmark so that landmark anchor sits at (x, y).
func (h HandLandmarks) MoveTo(anchor int, x, y float64) HandLandmarks {
	ref := h.Point(anchor)
	dx, dy := x-ref.X, y-ref.Y
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	if anchor >= 0 && anchor < NumLandmarks {
		h.Points[anchor].X, h.Points[anchor].Y = x, y
	}
	return h
}
