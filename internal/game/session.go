package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Phase is the state of the session state machine.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Actions are the discrete user commands delivered with a frame.
// Commands that do not apply to the current phase are ignored.
type Actions struct {
	Start       bool // Menu -> Playing
	TogglePause bool // Playing <-> Paused
	PlayAgain   bool // GameOver -> Playing
	MainMenu    bool // Paused | GameOver -> Menu
}

// Merge returns the union of a and o.
func (a Actions) Merge(o Actions) Actions {
	return Actions{
		Start:       a.Start || o.Start,
		TogglePause: a.TogglePause || o.TogglePause,
		PlayAgain:   a.PlayAgain || o.PlayAgain,
		MainMenu:    a.MainMenu || o.MainMenu,
	}
}

// Result is a finished session handed to the Submitter.
type Result struct {
	SessionID string
	Player    string
	Score     int
	Duration  float64
	EndedAt   time.Time
}

// Submitter persists a finished session's score. Implementations must
// honor ctx cancellation.
type Submitter interface {
	Submit(ctx context.Context, r Result) error
}

// Session is the mutable state of one play-through.
type Session struct {
	ID         string
	Score      int
	Elapsed    float64
	TimeLeft   float64
	Entities   Entities
	Paused     bool
	ScoreSaved bool
}

// GameOver reports whether the session timer has run out.
func (s *Session) GameOver() bool {
	return s.TimeLeft <= 0
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Tuning    Tuning
	Player    string
	Rand      *rand.Rand
	Sounds    SoundPlayer
	Submitter Submitter
	Logger    *log.Logger
}

// Controller owns the session and advances it one frame at a time.
// It is not safe for concurrent use; the frame loop is its only caller.
type Controller struct {
	tuning      Tuning
	pending     *Tuning
	player      string
	rng         *rand.Rand
	sounds      SoundPlayer
	submitter   Submitter
	logger      *log.Logger
	phase       Phase
	session     Session
	cursor      Cursor
	spawner     *Spawner
	interaction *Interaction
}

// NewController creates a Controller in the Menu phase.
func NewController(cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Controller{
		tuning:    cfg.Tuning,
		player:    cfg.Player,
		rng:       rng,
		sounds:    cfg.Sounds,
		submitter: cfg.Submitter,
		logger:    logger.With("component", "session"),
		phase:     PhaseMenu,
	}
	c.rebuild()
	c.session.TimeLeft = c.tuning.Duration
	return c
}

// rebuild recreates the tuning-dependent collaborators.
func (c *Controller) rebuild() {
	c.spawner = NewSpawner(c.tuning, c.rng)
	c.interaction = NewInteraction(c.tuning.CursorSize, c.sounds)
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Session returns the live session state. Callers must not retain it
// across frames.
func (c *Controller) Session() *Session {
	return &c.session
}

// Cursor returns the cursor as of the last update.
func (c *Controller) Cursor() Cursor {
	return c.cursor
}

// Tuning returns the active tuning.
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// SetPlayer sets the name used for score submission.
func (c *Controller) SetPlayer(name string) {
	c.player = name
}

// SetTuning schedules new gameplay constants. They take effect at the next
// session reset so a running session keeps consistent rules.
func (c *Controller) SetTuning(t Tuning) {
	if c.phase == PhaseMenu {
		c.tuning = t
		c.pending = nil
		c.rebuild()
		c.session.TimeLeft = t.Duration
		return
	}
	c.pending = &t
}

// Reset starts a fresh session: score, timer, entities and spawn timer all
// return to their initial values.
func (c *Controller) Reset() {
	if c.pending != nil {
		c.tuning = *c.pending
		c.pending = nil
		c.rebuild()
	}
	c.spawner.Reset()
	c.session = Session{
		ID:       uuid.NewString(),
		TimeLeft: c.tuning.Duration,
	}
	c.phase = PhasePlaying
	c.logger.Info("session started", "id", c.session.ID, "duration", c.tuning.Duration)
}

// Update advances the game by one tick of dt seconds. cursor is the
// tracker output for this frame; actions are applied before gameplay.
func (c *Controller) Update(ctx context.Context, dt float64, cursor Cursor, actions Actions) {
	c.cursor = cursor
	c.apply(actions)

	if c.phase != PhasePlaying {
		return
	}

	c.session.Elapsed += dt
	c.session.TimeLeft = max(roundTenth(c.tuning.Duration-c.session.Elapsed), 0)

	if c.session.GameOver() {
		c.finish(ctx)
		return
	}

	spawned := c.spawner.MaybeSpawn(c.session.Elapsed, c.session.TimeLeft, c.tuning.Duration)
	c.session.Entities = append(c.session.Entities, spawned...)

	for _, e := range c.session.Entities {
		e.Move()
		e.Animate(dt)
	}

	before := c.session.Score
	c.session.Score = c.interaction.Process(cursor, &c.session.Entities, c.session.Score)
	if c.session.Score != before {
		c.logger.Debug("pop", "delta", c.session.Score-before, "score", c.session.Score)
	}

	c.session.Entities.Prune(c.tuning.Bounds())
}

// apply performs the phase transitions requested by actions.
func (c *Controller) apply(a Actions) {
	switch c.phase {
	case PhaseMenu:
		if a.Start {
			c.Reset()
		}
	case PhasePlaying:
		if a.TogglePause {
			c.phase = PhasePaused
			c.session.Paused = true
		}
	case PhasePaused:
		switch {
		case a.MainMenu:
			c.phase = PhaseMenu
			c.session.Paused = false
		case a.TogglePause:
			c.phase = PhasePlaying
			c.session.Paused = false
		}
	case PhaseGameOver:
		switch {
		case a.PlayAgain:
			c.Reset()
		case a.MainMenu:
			c.phase = PhaseMenu
		}
	}
}

// finish enters GameOver and submits the score once per session.
func (c *Controller) finish(ctx context.Context) {
	c.phase = PhaseGameOver
	if c.session.ScoreSaved {
		return
	}
	c.session.ScoreSaved = true
	c.logger.Info("session over", "id", c.session.ID, "score", c.session.Score)

	if c.submitter == nil {
		return
	}
	timeout := c.tuning.SubmitTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := c.submitter.Submit(ctx, Result{
		SessionID: c.session.ID,
		Player:    c.player,
		Score:     c.session.Score,
		Duration:  c.tuning.Duration,
		EndedAt:   time.Now(),
	})
	if err != nil {
		c.logger.Warn("score submission failed", "id", c.session.ID, "err", err)
		return
	}
	c.logger.Info("score submitted", "player", c.player, "score", c.session.Score)
}
