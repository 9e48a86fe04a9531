package game

import "math/rand"

// MaxBeeChance is the bee probability, in percent, reached at time-up.
const MaxBeeChance = 50.0

// KindTuning holds the spawn parameters of one entity kind.
type KindTuning struct {
	BaseW, BaseH       float64 // sprite size before randomization
	SizeMin, SizeMax   float64 // uniform multiplier range applied to the base size
	SpeedMin, SpeedMax float64 // pixels per tick
	Score              int     // score delta when popped
}

// BeeChance returns the probability, in percent, that a spawn event
// produces a bee after elapsed seconds of a total-second session.
// It ramps linearly from 0 at the start to MaxBeeChance at time-up.
func BeeChance(elapsed, total float64) float64 {
	if total <= 0 || elapsed <= 0 {
		return 0
	}
	if elapsed >= total {
		return MaxBeeChance
	}
	return elapsed / total * 100 / 2
}

// Spawner decides when and what kind of entity to create.
type Spawner struct {
	rng      *rand.Rand
	interval float64
	bounds   Rect
	balloon  KindTuning
	bee      KindTuning
	next     float64
	nextID   uint64
}

// NewSpawner creates a Spawner for the given tuning. A nil rng is replaced
// by a fixed-seed source.
func NewSpawner(t Tuning, rng *rand.Rand) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Spawner{
		rng:      rng,
		interval: t.SpawnInterval,
		bounds:   t.Bounds(),
		balloon:  t.Balloon,
		bee:      t.Bee,
	}
}

// Reset clears the cooldown so the next call spawns immediately.
func (s *Spawner) Reset() {
	s.next = 0
}

// NextSpawn returns the session time at which the cooldown expires.
func (s *Spawner) NextSpawn() float64 {
	return s.next
}

// MaybeSpawn returns the entities created at session time now. Once the
// cooldown has passed it spawns one entity whose kind is drawn from
// BeeChance, plus one extra balloon when less than half the session is left.
func (s *Spawner) MaybeSpawn(now, timeLeft, total float64) []*Entity {
	if now < s.next {
		return nil
	}
	s.next = now + s.interval

	kind := KindBalloon
	if s.rng.Float64()*100 < BeeChance(total-timeLeft, total) {
		kind = KindBee
	}
	spawned := []*Entity{s.Spawn(kind)}

	if timeLeft < total/2 {
		spawned = append(spawned, s.Spawn(KindBalloon))
	}
	return spawned
}

// Spawn creates one entity of the given kind entering from a random edge.
func (s *Spawner) Spawn(kind Kind) *Entity {
	tuning := s.balloon
	if kind == KindBee {
		tuning = s.bee
	}
	spec := kind.Spec()

	scale := uniform(s.rng, tuning.SizeMin, tuning.SizeMax)
	size := Vec{X: float64(int(tuning.BaseW * scale)), Y: float64(int(tuning.BaseH * scale))}
	hw, hh := float64(int(size.X*spec.HitboxScale)), float64(int(size.Y*spec.HitboxScale))
	speed := uniform(s.rng, tuning.SpeedMin, tuning.SpeedMax)

	dir := Direction(s.rng.Intn(4))
	var pos, vel Vec
	switch dir {
	case DirRight:
		pos = Vec{X: s.bounds.X - hw, Y: s.along(s.bounds.Y, s.bounds.H, hh)}
		vel = Vec{X: speed}
	case DirLeft:
		pos = Vec{X: s.bounds.Right(), Y: s.along(s.bounds.Y, s.bounds.H, hh)}
		vel = Vec{X: -speed}
	case DirUp:
		pos = Vec{X: s.along(s.bounds.X, s.bounds.W, hw), Y: s.bounds.Bottom()}
		vel = Vec{Y: -speed}
	case DirDown:
		pos = Vec{X: s.along(s.bounds.X, s.bounds.W, hw), Y: s.bounds.Y - hh}
		vel = Vec{Y: speed}
	}

	s.nextID++
	return &Entity{
		ID:          s.nextID,
		Kind:        kind,
		Hitbox:      Rect{X: pos.X, Y: pos.Y, W: hw, H: hh},
		Size:        size,
		Vel:         vel,
		Direction:   dir,
		FacingRight: dir == DirRight,
		ScoreValue:  tuning.Score,
		State:       StateAlive,
	}
}

// along picks a random offset on an edge of the given length so that an
// extent-sized entity stays fully on that edge.
func (s *Spawner) along(start, length, extent float64) float64 {
	span := length - extent
	if span <= 0 {
		return start
	}
	return start + s.rng.Float64()*span
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
