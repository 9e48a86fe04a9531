package game

import "testing"

// recordingSounds collects every sound request.
type recordingSounds struct {
	played []Sound
}

func (r *recordingSounds) Play(s Sound) {
	r.played = append(r.played, s)
}

func TestInteraction_ClosedCursorKillsBalloon(t *testing.T) {
	sounds := &recordingSounds{}
	in := NewInteraction(20, sounds)

	balloon := &Entity{Kind: KindBalloon, ScoreValue: 1, Hitbox: Rect{X: 90, Y: 90, W: 20, H: 20}}
	active := Entities{balloon}

	score := in.Process(Cursor{X: 100, Y: 100, Closed: true}, &active, 0)

	if score != 1 {
		t.Errorf("score = %d, want 1", score)
	}
	if len(active) != 0 {
		t.Errorf("active set still holds %d entities", len(active))
	}
	if balloon.State != StateKilled {
		t.Errorf("balloon state = %v, want StateKilled", balloon.State)
	}
	if len(sounds.played) != 1 || sounds.played[0] != SoundSlap {
		t.Errorf("played = %v, want [SoundSlap]", sounds.played)
	}
}

func TestInteraction_OpenCursorNeverKills(t *testing.T) {
	sounds := &recordingSounds{}
	in := NewInteraction(60, sounds)

	active := Entities{
		{Kind: KindBalloon, ScoreValue: 1, Hitbox: Rect{X: 90, Y: 90, W: 20, H: 20}},
		{Kind: KindBee, ScoreValue: -1, Hitbox: Rect{X: 95, Y: 95, W: 20, H: 20}},
	}

	score := 7
	for frame := 0; frame < 100; frame++ {
		score = in.Process(Cursor{X: 100, Y: 100}, &active, score)
	}

	if score != 7 {
		t.Errorf("score changed to %d with an open hand", score)
	}
	if len(active) != 2 {
		t.Errorf("open hand removed entities: %d left", len(active))
	}
	if len(sounds.played) != 0 {
		t.Errorf("open hand played sounds: %v", sounds.played)
	}
}

func TestInteraction_KillsAllOverlapsInOneFrame(t *testing.T) {
	sounds := &recordingSounds{}
	in := NewInteraction(60, sounds)

	balloon := &Entity{Kind: KindBalloon, ScoreValue: 1, Hitbox: Rect{X: 80, Y: 80, W: 30, H: 30}}
	bee := &Entity{Kind: KindBee, ScoreValue: -1, Hitbox: Rect{X: 110, Y: 110, W: 15, H: 15}}
	secondBalloon := &Entity{Kind: KindBalloon, ScoreValue: 1, Hitbox: Rect{X: 120, Y: 75, W: 20, H: 20}}
	far := &Entity{Kind: KindBalloon, ScoreValue: 1, Hitbox: Rect{X: 500, Y: 500, W: 30, H: 30}}
	active := Entities{balloon, bee, secondBalloon, far}

	score := in.Process(Cursor{X: 100, Y: 100, Closed: true}, &active, 10)

	if score != 11 {
		t.Errorf("score = %d, want 11", score)
	}
	if len(active) != 1 || active[0] != far {
		t.Errorf("active set = %v, want only the far balloon", active)
	}

	want := []Sound{SoundSlap, SoundScream, SoundSlap}
	if len(sounds.played) != len(want) {
		t.Fatalf("played %v, want %v", sounds.played, want)
	}
	for i := range want {
		if sounds.played[i] != want[i] {
			t.Errorf("played[%d] = %v, want %v", i, sounds.played[i], want[i])
		}
	}
}

func TestInteraction_BeePenaltyCanGoNegative(t *testing.T) {
	in := NewInteraction(40, nil)
	active := Entities{{Kind: KindBee, ScoreValue: -2, Hitbox: Rect{X: 0, Y: 0, W: 20, H: 20}}}

	score := in.Process(Cursor{X: 10, Y: 10, Closed: true}, &active, 0)

	if score != -2 {
		t.Errorf("score = %d, want -2", score)
	}
}

func TestInteraction_NoDoubleKill(t *testing.T) {
	in := NewInteraction(40, nil)
	balloon := &Entity{Kind: KindBalloon, ScoreValue: 1, Hitbox: Rect{X: 0, Y: 0, W: 20, H: 20}}
	active := Entities{balloon}

	score := in.Process(Cursor{X: 10, Y: 10, Closed: true}, &active, 0)
	score = in.Process(Cursor{X: 10, Y: 10, Closed: true}, &active, score)

	if score != 1 {
		t.Errorf("score = %d after two closed frames, want 1", score)
	}
}

func TestInteraction_UsesHitboxNotSprite(t *testing.T) {
	in := NewInteraction(10, nil)

	// Sprite is 100x100 around the hitbox center but the hitbox is only 20x20.
	bee := &Entity{Kind: KindBee, ScoreValue: -1, Hitbox: Rect{X: 190, Y: 190, W: 20, H: 20}, Size: Vec{X: 100, Y: 100}}
	active := Entities{bee}

	score := in.Process(Cursor{X: 160, Y: 160, Closed: true}, &active, 0)

	if !bee.Sprite().Intersects(Cursor{X: 160, Y: 160}.Hitbox(10)) {
		t.Fatal("test setup: cursor should overlap the sprite")
	}
	if score != 0 || len(active) != 1 {
		t.Errorf("sprite-only overlap killed the bee (score %d, %d left)", score, len(active))
	}
}
