package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("wrote %d bytes, want %d", len(out), 4+len(payload))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %v, want %v", out[4:], payload)
	}
}

func TestReadHands(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantHands int
		wantErr   string
	}{
		{name: "no hands", input: `{"hands": []}` + "\n", wantHands: 0},
		{
			name:      "one hand",
			input:     `{"hands": [{"points": [{"x": 0.1, "y": 0.2, "z": 0}], "handedness": "Left", "score": 0.9}]}` + "\n",
			wantHands: 1,
		},
		{name: "service error", input: `{"hands": [], "error": "decode failed"}` + "\n", wantErr: "decode failed"},
		{name: "malformed json", input: "not json\n", wantErr: "parse response"},
		{name: "closed stream", input: "", wantErr: "read response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := readHands(bufio.NewReader(strings.NewReader(tt.input)))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readHands() error = %v", err)
			}
			if len(hands) != tt.wantHands {
				t.Errorf("got %d hands, want %d", len(hands), tt.wantHands)
			}
		})
	}
}

func TestJSONHand_ToHandLandmarks(t *testing.T) {
	t.Run("partial points leave the rest zero", func(t *testing.T) {
		h := jsonHand{Points: []Point3D{{X: 0.5, Y: 0.5}}, Handedness: "Right", Score: 0.8}
		lm := h.toHandLandmarks()
		if lm.Points[Wrist].X != 0.5 || lm.Points[MiddleMCP] != (Point3D{}) {
			t.Errorf("unexpected points %+v", lm.Points)
		}
		if lm.Handedness != "Right" || lm.Score != 0.8 {
			t.Errorf("metadata not copied: %+v", lm)
		}
	})

	t.Run("extra points are ignored", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks+5)
		for i := range points {
			points[i] = Point3D{X: float64(i)}
		}
		lm := jsonHand{Points: points}.toHandLandmarks()
		if lm.Points[PinkyTip].X != PinkyTip {
			t.Errorf("last landmark = %v, want %d", lm.Points[PinkyTip].X, PinkyTip)
		}
	})
}

func TestHandLandmarks_MoveTo(t *testing.T) {
	hand := OpenPalmLandmarks()
	moved := hand.MoveTo(MiddleMCP, 0.2, 0.3)

	if p := moved.Point(MiddleMCP); p.X != 0.2 || p.Y != 0.3 {
		t.Errorf("anchor at (%v, %v), want (0.2, 0.3)", p.X, p.Y)
	}

	dx := hand.Points[MiddleTip].Y - hand.Points[MiddleMCP].Y
	mdx := moved.Points[MiddleTip].Y - moved.Points[MiddleMCP].Y
	if diff := dx - mdx; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("MoveTo changed hand shape: %v vs %v", dx, mdx)
	}
	if hand.Points[MiddleMCP].X != 0.5 {
		t.Error("MoveTo mutated the receiver")
	}
}

func TestHandLandmarks_Point(t *testing.T) {
	hand := OpenPalmLandmarks()
	if hand.Point(-1) != (Point3D{}) || hand.Point(NumLandmarks) != (Point3D{}) {
		t.Error("out-of-range landmark should be the zero point")
	}
	if hand.Point(Wrist) != hand.Points[Wrist] {
		t.Error("Point(Wrist) mismatch")
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name       string
		hand       HandLandmarks
		tipBelowMC bool
	}{
		{name: "open palm", hand: OpenPalmLandmarks(), tipBelowMC: false},
		{name: "closed fist", hand: ClosedFistLandmarks(), tipBelowMC: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.hand.Points[MiddleTip].Y > tt.hand.Points[MiddleMCP].Y
			if got != tt.tipBelowMC {
				t.Errorf("middle tip below knuckle = %v, want %v", got, tt.tipBelowMC)
			}
			for i, p := range tt.hand.Points {
				if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
					t.Errorf("landmark %d outside the unit square: %+v", i, p)
				}
			}
		})
	}
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()

	hands, err := m.Detect(nil)
	if err != nil || len(hands) != 0 {
		t.Fatalf("empty mock returned %v, %v", hands, err)
	}

	m.SetHands(OpenPalmLandmarks())
	hands, _ = m.Detect(nil)
	if len(hands) != 1 {
		t.Fatalf("got %d hands, want 1", len(hands))
	}
	hands[0].Points[Wrist].X = 99
	again, _ := m.Detect(nil)
	if again[0].Points[Wrist].X == 99 {
		t.Error("Detect returned shared storage")
	}

	boom := errors.New("boom")
	m.SetError(boom)
	if _, err := m.Detect(nil); !errors.Is(err, boom) {
		t.Errorf("Detect() error = %v, want boom", err)
	}

	if m.Calls() != 4 {
		t.Errorf("Calls() = %d, want 4", m.Calls())
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewMediaPipeDetector(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Run("missing script", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Script = filepath.Join(t.TempDir(), "missing.py")
		if _, err := NewMediaPipeDetector(cfg); !errors.Is(err, ErrServiceNotFound) {
			t.Errorf("error = %v, want ErrServiceNotFound", err)
		}
	})

	t.Run("explicit script", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), "hand_detector.py")
		if err := os.WriteFile(script, []byte("# stub\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := DefaultConfig()
		cfg.Script = script
		cfg.MaxHands = 0

		d, err := NewMediaPipeDetector(cfg)
		if err != nil {
			t.Fatalf("NewMediaPipeDetector() error = %v", err)
		}
		if d.config.MaxHands != 1 {
			t.Errorf("MaxHands = %d, want 1", d.config.MaxHands)
		}
		if err := d.Close(); err != nil {
			t.Errorf("Close() before start error = %v", err)
		}
	})
}
