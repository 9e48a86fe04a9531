package tracker

import (
	"errors"
	"image"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/skypop/internal/detector"
	"github.com/ayusman/skypop/internal/game"
)

func newTestTracker(d detector.Detector) *Tracker {
	cfg := DefaultConfig()
	cfg.Logger = log.New(io.Discard)
	return New(d, cfg)
}

func TestTracker_Apply(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want game.Cursor
	}{
		{
			name: "open palm at center",
			hand: detector.OpenPalmLandmarks().MoveTo(detector.MiddleMCP, 0.5, 0.5),
			want: game.Cursor{X: 640, Y: 360, Closed: false},
		},
		{
			name: "closed fist at top left quadrant",
			hand: detector.ClosedFistLandmarks().MoveTo(detector.MiddleMCP, 0.25, 0.25),
			want: game.Cursor{X: 320, Y: 180, Closed: true},
		},
		{
			name: "position truncates to whole pixels",
			hand: detector.OpenPalmLandmarks().MoveTo(detector.MiddleMCP, 0.1234, 0.9876),
			want: game.Cursor{X: 157, Y: 711, Closed: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(nil)
			got := tr.Apply([]detector.HandLandmarks{tt.hand})
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
			if tr.Cursor() != got || !tr.Detected() {
				t.Errorf("Cursor() = %+v, Detected() = %v", tr.Cursor(), tr.Detected())
			}
		})
	}
}

func TestTracker_NoHandHoldsPositionAndOpens(t *testing.T) {
	tr := newTestTracker(nil)

	if tr.Cursor() != (game.Cursor{}) {
		t.Fatalf("cursor before first detection = %+v, want zero", tr.Cursor())
	}

	tr.Apply([]detector.HandLandmarks{detector.ClosedFistLandmarks().MoveTo(detector.MiddleMCP, 0.5, 0.5)})
	got := tr.Apply(nil)

	want := game.Cursor{X: 640, Y: 360, Closed: false}
	if got != want {
		t.Errorf("cursor after losing the hand = %+v, want %+v", got, want)
	}
	if tr.Detected() {
		t.Error("Detected() = true with no hand")
	}
}

func TestTracker_UsesFirstHandOnly(t *testing.T) {
	tr := newTestTracker(nil)
	first := detector.OpenPalmLandmarks().MoveTo(detector.MiddleMCP, 0.1, 0.1)
	second := detector.ClosedFistLandmarks().MoveTo(detector.MiddleMCP, 0.9, 0.9)

	got := tr.Apply([]detector.HandLandmarks{first, second})
	if got.X != 128 || got.Y != 72 || got.Closed {
		t.Errorf("Apply() = %+v, want the first hand", got)
	}
}

func TestTracker_SetWindowSize(t *testing.T) {
	tr := newTestTracker(nil)
	tr.SetWindowSize(800, 600)
	tr.SetWindowSize(0, -1)

	got := tr.Apply([]detector.HandLandmarks{detector.OpenPalmLandmarks().MoveTo(detector.MiddleMCP, 0.5, 0.5)})
	if got.X != 400 || got.Y != 300 {
		t.Errorf("cursor = (%v, %v), want (400, 300)", got.X, got.Y)
	}
}

func TestTracker_Scan(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands(detector.ClosedFistLandmarks().MoveTo(detector.MiddleMCP, 0.75, 0.5))
	tr := newTestTracker(mock)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	processed, err := tr.Scan(&frame)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	defer processed.Close()

	if processed.Cols() != 160 || processed.Rows() != 90 {
		t.Errorf("processed frame = %dx%d, want 160x90", processed.Cols(), processed.Rows())
	}
	if mock.Calls() != 1 {
		t.Errorf("detector called %d times, want 1", mock.Calls())
	}
	if c := tr.Cursor(); c.X != 960 || c.Y != 360 || !c.Closed {
		t.Errorf("cursor = %+v, want closed at (960, 360)", c)
	}
}

func TestTracker_ScanMirrorsFrame(t *testing.T) {
	tr := newTestTracker(detector.NewMockDetector())

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	left := frame.Region(image.Rect(0, 0, 16, 480))
	left.SetTo(gocv.NewScalar(255, 255, 255, 0))
	left.Close()

	processed, err := tr.Scan(&frame)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	defer processed.Close()

	row := processed.Rows() / 2
	last := processed.Cols() - 1
	if v := processed.GetVecbAt(row, last)[0]; v < 200 {
		t.Errorf("right column = %d, want the bright left edge mirrored there", v)
	}
	if v := processed.GetVecbAt(row, 0)[0]; v > 50 {
		t.Errorf("left column = %d, want dark after mirroring", v)
	}
}

func TestTracker_ScanDetectorErrorIsNoHand(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands(detector.ClosedFistLandmarks().MoveTo(detector.MiddleMCP, 0.5, 0.5))
	tr := newTestTracker(mock)

	frame := gocv.NewMatWithSize(90, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	p, _ := tr.Scan(&frame)
	p.Close()

	mock.SetError(errors.New("service crashed"))
	p, err := tr.Scan(&frame)
	p.Close()
	if err != nil {
		t.Fatalf("Scan() returned detector error %v", err)
	}

	c := tr.Cursor()
	if c.Closed || c.X != 640 || c.Y != 360 {
		t.Errorf("cursor after detector failure = %+v, want open at the last position", c)
	}
}

func TestTracker_ScanEmptyFrame(t *testing.T) {
	tr := newTestTracker(detector.NewMockDetector())
	empty := gocv.NewMat()
	defer empty.Close()

	p, err := tr.Scan(&empty)
	defer p.Close()
	if !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Scan() error = %v, want ErrEmptyFrame", err)
	}
}
