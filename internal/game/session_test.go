package game

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// countingSubmitter records every submission.
type countingSubmitter struct {
	mu      sync.Mutex
	results []Result
	err     error
	block   bool
}

func (s *countingSubmitter) Submit(ctx context.Context, r Result) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return s.err
}

func (s *countingSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func testTuning() Tuning {
	t := DefaultTuning()
	t.TickRate = 10
	t.Duration = 2
	t.SpawnInterval = 0.5
	return t
}

func newTestController(tuning Tuning, sub Submitter, seed int64) *Controller {
	return NewController(ControllerConfig{
		Tuning:    tuning,
		Player:    "tester",
		Rand:      rand.New(rand.NewSource(seed)),
		Submitter: sub,
		Logger:    log.New(io.Discard),
	})
}

// runFrames advances c by n ticks with an open cursor and no actions.
func runFrames(c *Controller, n int) {
	dt := c.Tuning().TickSeconds()
	for i := 0; i < n; i++ {
		c.Update(context.Background(), dt, Cursor{}, Actions{})
	}
}

func TestController_StartsInMenu(t *testing.T) {
	c := newTestController(testTuning(), nil, 1)

	if c.Phase() != PhaseMenu {
		t.Fatalf("phase = %v, want menu", c.Phase())
	}

	runFrames(c, 5)
	if c.Phase() != PhaseMenu {
		t.Errorf("phase changed to %v without a start action", c.Phase())
	}
	if c.Session().TimeLeft != 2 {
		t.Errorf("timer advanced in menu: %v", c.Session().TimeLeft)
	}
}

func TestController_InvalidTransitionsAreIgnored(t *testing.T) {
	c := newTestController(testTuning(), nil, 1)
	ctx := context.Background()

	c.Update(ctx, 0.1, Cursor{}, Actions{TogglePause: true, PlayAgain: true, MainMenu: true})
	if c.Phase() != PhaseMenu {
		t.Errorf("menu accepted a non-start action, phase = %v", c.Phase())
	}

	c.Update(ctx, 0.1, Cursor{}, Actions{Start: true})
	if c.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want playing", c.Phase())
	}

	id := c.Session().ID
	c.Update(ctx, 0.1, Cursor{}, Actions{Start: true, PlayAgain: true, MainMenu: true})
	if c.Phase() != PhasePlaying || c.Session().ID != id {
		t.Errorf("playing accepted start/play-again/main-menu, phase = %v", c.Phase())
	}
}

func TestController_SpawnedEntityMovesSameFrame(t *testing.T) {
	tuning := testTuning()
	c := newTestController(tuning, nil, 7)
	twin := NewSpawner(tuning, rand.New(rand.NewSource(7)))

	c.Update(context.Background(), tuning.TickSeconds(), Cursor{}, Actions{Start: true})

	expected := twin.MaybeSpawn(0.1, tuning.Duration-0.1, tuning.Duration)
	active := c.Session().Entities
	if len(active) != len(expected) {
		t.Fatalf("spawned %d entities, want %d", len(active), len(expected))
	}
	for i, e := range active {
		want := expected[i].Hitbox.Translate(expected[i].Vel)
		if e.Hitbox != want {
			t.Errorf("entity %d hitbox = %+v, want spawn position plus one velocity step %+v", i, e.Hitbox, want)
		}
	}
}

func TestController_EntitySpawnedThisFrameCanBePopped(t *testing.T) {
	tuning := testTuning()
	tuning.CursorSize = 1e6 // covers every spawn position
	c := newTestController(tuning, nil, 3)
	c.Update(context.Background(), tuning.TickSeconds(), Cursor{Closed: true}, Actions{Start: true})

	if len(c.Session().Entities) != 0 {
		t.Errorf("entity spawned this frame survived a screen-wide closed cursor")
	}
	if s := c.Session().Score; s != 1 && s != -1 {
		t.Errorf("score = %d, want the single spawned entity's value", s)
	}
}

func TestController_TimerAndGameOver(t *testing.T) {
	sub := &countingSubmitter{}
	c := newTestController(testTuning(), sub, 1)

	c.Update(context.Background(), 0.1, Cursor{}, Actions{Start: true})
	if got := c.Session().TimeLeft; got != 1.9 {
		t.Errorf("time left after one tick = %v, want 1.9", got)
	}

	runFrames(c, 19)
	if c.Phase() != PhaseGameOver {
		t.Fatalf("phase after the full duration = %v, want game_over", c.Phase())
	}
	if got := c.Session().TimeLeft; got != 0 {
		t.Errorf("time left = %v, want 0", got)
	}

	runFrames(c, 50)
	if got := c.Session().TimeLeft; got < 0 {
		t.Errorf("time left went negative: %v", got)
	}
	if sub.count() != 1 {
		t.Errorf("submitted %d times, want exactly 1", sub.count())
	}
	if r := sub.results[0]; r.Player != "tester" || r.SessionID != c.Session().ID {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestController_NoSpawnAtTimeUp(t *testing.T) {
	tuning := testTuning()
	tuning.Duration = 0.1
	c := newTestController(tuning, nil, 1)

	c.Update(context.Background(), 0.1, Cursor{}, Actions{Start: true})

	if c.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, want game_over", c.Phase())
	}
	if n := len(c.Session().Entities); n != 0 {
		t.Errorf("spawned %d entities at time_left == 0", n)
	}
}

func TestController_PlayAgainResets(t *testing.T) {
	sub := &countingSubmitter{}
	tuning := testTuning()
	c := newTestController(tuning, sub, 1)

	c.Update(context.Background(), 0.1, Cursor{}, Actions{Start: true})
	runFrames(c, 30)
	firstID := c.Session().ID

	c.Update(context.Background(), 0.1, Cursor{}, Actions{PlayAgain: true})

	s := c.Session()
	if c.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want playing", c.Phase())
	}
	if s.ID == firstID {
		t.Error("play again kept the previous session id")
	}
	if s.ScoreSaved {
		t.Error("score_saved survived the reset")
	}
	if s.Score != 0 {
		t.Errorf("score = %d, want 0", s.Score)
	}
	if s.TimeLeft != 1.9 {
		t.Errorf("time left = %v, want 1.9 after the reset frame", s.TimeLeft)
	}

	runFrames(c, 30)
	if sub.count() != 2 {
		t.Errorf("submitted %d times over two sessions, want 2", sub.count())
	}
}

func TestController_PauseFreezesState(t *testing.T) {
	tuning := testTuning()
	tuning.Duration = 60
	c := newTestController(tuning, nil, 5)
	ctx := context.Background()

	c.Update(ctx, 0.1, Cursor{}, Actions{Start: true})
	runFrames(c, 12)

	before := c.Snapshot()
	elapsed := c.Session().Elapsed

	c.Update(ctx, 0.1, Cursor{X: 5, Y: 5}, Actions{TogglePause: true})
	if c.Phase() != PhasePaused || !c.Session().Paused {
		t.Fatalf("phase = %v, want paused", c.Phase())
	}

	// A closed hand sweeping the screen must not pop anything while paused.
	for i := 0; i < 100; i++ {
		c.Update(ctx, 0.1, Cursor{X: float64(i * 10), Y: float64(i * 5), Closed: true}, Actions{})
	}
	after := c.Snapshot()

	if after.TimeLeft != before.TimeLeft || c.Session().Elapsed != elapsed {
		t.Errorf("timer moved while paused: %v -> %v", before.TimeLeft, after.TimeLeft)
	}
	if after.SpawnTimer != before.SpawnTimer {
		t.Errorf("spawn timer moved while paused: %v -> %v", before.SpawnTimer, after.SpawnTimer)
	}
	if after.Score != before.Score {
		t.Errorf("score changed while paused: %d -> %d", before.Score, after.Score)
	}
	if len(after.Entities) != len(before.Entities) {
		t.Fatalf("entity count changed while paused: %d -> %d", len(before.Entities), len(after.Entities))
	}
	for i := range before.Entities {
		if after.Entities[i] != before.Entities[i] {
			t.Errorf("entity %d changed while paused", i)
		}
	}
	if after.Cursor.X != 990 || !after.Cursor.Closed {
		t.Errorf("cursor not updated while paused: %+v", after.Cursor)
	}

	c.Update(ctx, 0.1, Cursor{}, Actions{TogglePause: true})
	if c.Phase() != PhasePlaying {
		t.Errorf("phase = %v, want playing after unpause", c.Phase())
	}
	if c.Session().Elapsed <= elapsed {
		t.Error("timer did not resume after unpause")
	}
}

func TestController_MainMenuFromPause(t *testing.T) {
	c := newTestController(testTuning(), nil, 1)
	ctx := context.Background()

	c.Update(ctx, 0.1, Cursor{}, Actions{Start: true})
	c.Update(ctx, 0.1, Cursor{}, Actions{TogglePause: true})
	c.Update(ctx, 0.1, Cursor{}, Actions{MainMenu: true})

	if c.Phase() != PhaseMenu {
		t.Errorf("phase = %v, want menu", c.Phase())
	}
}

func TestController_SubmitFailureIsNotFatal(t *testing.T) {
	sub := &countingSubmitter{err: errors.New("connection refused")}
	c := newTestController(testTuning(), sub, 1)

	c.Update(context.Background(), 0.1, Cursor{}, Actions{Start: true})
	runFrames(c, 40)

	if c.Phase() != PhaseGameOver {
		t.Errorf("phase = %v, want game_over", c.Phase())
	}
	if sub.count() != 1 {
		t.Errorf("submitted %d times, want 1 (no retry loop)", sub.count())
	}
}

func TestController_SubmitTimeoutIsBounded(t *testing.T) {
	tuning := testTuning()
	tuning.Duration = 0.1
	tuning.SubmitTimeout = 20 * time.Millisecond
	c := newTestController(tuning, &countingSubmitter{block: true}, 1)

	start := time.Now()
	c.Update(context.Background(), 0.1, Cursor{}, Actions{Start: true})

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("game-over frame blocked for %v", elapsed)
	}
	if c.Phase() != PhaseGameOver {
		t.Errorf("phase = %v, want game_over", c.Phase())
	}
}

func TestController_SetTuningAppliesAtReset(t *testing.T) {
	c := newTestController(testTuning(), nil, 1)
	ctx := context.Background()

	c.Update(ctx, 0.1, Cursor{}, Actions{Start: true})

	next := testTuning()
	next.Duration = 10
	c.SetTuning(next)

	if c.Tuning().Duration != 2 {
		t.Errorf("running session switched duration to %v", c.Tuning().Duration)
	}

	runFrames(c, 30)
	c.Update(ctx, 0.1, Cursor{}, Actions{PlayAgain: true})

	if c.Tuning().Duration != 10 {
		t.Errorf("duration after reset = %v, want 10", c.Tuning().Duration)
	}
	if c.Session().TimeLeft != 9.9 {
		t.Errorf("time left = %v, want 9.9", c.Session().TimeLeft)
	}
}

func TestActions_Merge(t *testing.T) {
	got := Actions{Start: true}.Merge(Actions{TogglePause: true})
	want := Actions{Start: true, TogglePause: true}
	if got != want {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}
