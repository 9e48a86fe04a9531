// Package audio plays the game's sound effects and background music.
package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/ayusman/skypop/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Asset file names inside Config.AssetsDir.
const (
	SlapFile   = "slap.wav"
	ScreamFile = "screaming.wav"
	MusicFile  = "music.wav"
)

// Config holds audio settings.
type Config struct {
	Enabled     bool
	Music       bool
	SoundVolume float64 // 0..1
	MusicVolume float64 // 0..1
	AssetsDir   string
	Logger      *log.Logger
}

// Manager owns the speaker mixer. It implements game.SoundPlayer.
type Manager struct {
	mu          sync.Mutex
	cfg         Config
	logger      *log.Logger
	mixer       *beep.Mixer
	effects     map[game.Sound]*beep.Buffer
	music       *beep.Buffer
	musicCtrl   *beep.Ctrl
	musicVolume *effects.Volume
	soundVolume float64
	started     bool
}

// NewManager decodes every sound asset, substituting synthesized sounds for
// files that are missing or unreadable. It does not open the audio device.
func NewManager(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	m := &Manager{
		cfg:         cfg,
		logger:      logger.With("component", "audio"),
		mixer:       &beep.Mixer{},
		effects:     make(map[game.Sound]*beep.Buffer),
		soundVolume: clamp01(cfg.SoundVolume),
	}

	slap := m.load(SlapFile, func() beep.Streamer { return newSlap(sampleRate) })
	m.effects[game.SoundSlap] = slap
	m.effects[game.SoundClick] = slap
	m.effects[game.SoundScream] = m.load(ScreamFile, func() beep.Streamer { return newScream(sampleRate) })
	m.music = m.load(MusicFile, func() beep.Streamer { return newMusic(sampleRate) })
	return m
}

// load decodes name from the assets directory into a buffer at sampleRate,
// falling back to the streamer built by synth.
func (m *Manager) load(name string, synth func() beep.Streamer) *beep.Buffer {
	buf, err := decodeFile(filepath.Join(m.cfg.AssetsDir, name))
	if err == nil {
		return buf
	}
	m.logger.Debug("using synthesized sound", "file", name, "err", err)

	buf = beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(synth())
	return buf
}

func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate == sampleRate {
		buf.Append(streamer)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buf, nil
}

// Start opens the audio device and begins the music loop if enabled.
// A disabled manager stays silent and Start returns nil.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.Enabled || m.started {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.started = true

	m.musicVolume = &effects.Volume{
		Streamer: beep.Loop(-1, m.music.Streamer(0, m.music.Len())),
		Base:     2,
	}
	setVolume(m.musicVolume, m.cfg.MusicVolume)
	m.musicCtrl = &beep.Ctrl{Streamer: m.musicVolume, Paused: !m.cfg.Music}

	speaker.Lock()
	m.mixer.Add(m.musicCtrl)
	speaker.Unlock()

	m.logger.Info("audio started", "music", m.cfg.Music)
	return nil
}

// Play mixes one sound effect. It never blocks on playback.
func (m *Manager) Play(s game.Sound) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started || m.soundVolume == 0 {
		return
	}
	buf, ok := m.effects[s]
	if !ok {
		return
	}

	vol := &effects.Volume{Streamer: buf.Streamer(0, buf.Len()), Base: 2}
	setVolume(vol, m.soundVolume)

	speaker.Lock()
	m.mixer.Add(vol)
	speaker.Unlock()
}

// SetMusic pauses or resumes the music loop.
func (m *Manager) SetMusic(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg.Music = on
	if m.musicCtrl == nil {
		return
	}
	speaker.Lock()
	m.musicCtrl.Paused = !on
	speaker.Unlock()
}

// Music reports whether the music loop is enabled.
func (m *Manager) Music() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Music
}

// SetSoundVolume sets the effect volume in [0, 1].
func (m *Manager) SetSoundVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.soundVolume = clamp01(v)
}

// SoundVolume returns the effect volume in [0, 1].
func (m *Manager) SoundVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.soundVolume
}

// Close silences all playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.started = false
	m.musicCtrl = nil
}

// setVolume maps a linear gain in [0, 1] onto a base-2 Volume.
func setVolume(v *effects.Volume, gain float64) {
	gain = clamp01(gain)
	if gain == 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(gain)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
