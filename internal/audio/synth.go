package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// envelope generates a finite mono tone shaped by a decaying envelope.
type envelope struct {
	rate      beep.SampleRate
	pos       int
	length    int
	wave      func(t, progress float64) float64
	decay     float64
	amplitude float64
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if e.pos >= e.length {
			return i, i > 0
		}
		t := float64(e.pos) / float64(e.rate)
		progress := float64(e.pos) / float64(e.length)
		val := e.amplitude * math.Exp(-e.decay*progress) * e.wave(t, progress)
		samples[i][0] = val
		samples[i][1] = val
		e.pos++
	}
	return len(samples), true
}

func (e *envelope) Err() error { return nil }

// newSlap is a short filtered noise burst.
func newSlap(rate beep.SampleRate) beep.Streamer {
	rng := rand.New(rand.NewSource(1))
	var last float64
	return &envelope{
		rate:      rate,
		length:    rate.N(120 * time.Millisecond),
		decay:     8,
		amplitude: 0.6,
		wave: func(t, _ float64) float64 {
			last = 0.6*last + 0.4*(rng.Float64()*2-1)
			return last + 0.5*math.Sin(2*math.Pi*180*t)
		},
	}
}

// newScream is a falling sawtooth with vibrato.
func newScream(rate beep.SampleRate) beep.Streamer {
	return &envelope{
		rate:      rate,
		length:    rate.N(600 * time.Millisecond),
		decay:     2,
		amplitude: 0.4,
		wave: func(t, progress float64) float64 {
			freq := 900 - 500*progress + 40*math.Sin(2*math.Pi*12*t)
			phase := freq * t
			return 2 * (phase - math.Floor(phase) - 0.5)
		},
	}
}

// musicNotes is one bar of the fallback loop, in Hz.
var musicNotes = []float64{261.63, 329.63, 392.00, 523.25, 392.00, 329.63, 293.66, 349.23}

// newMusic is a plucked arpeggio over musicNotes.
func newMusic(rate beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(musicNotes))
	for _, f := range musicNotes {
		freq := f
		notes = append(notes, &envelope{
			rate:      rate,
			length:    rate.N(250 * time.Millisecond),
			decay:     4,
			amplitude: 0.25,
			wave: func(t, _ float64) float64 {
				return math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(4*math.Pi*freq*t)
			},
		})
	}
	return beep.Seq(notes...)
}
