package game

// Kind identifies the variant of a spawned entity.
type Kind int

const (
	// KindBalloon is a harmless target worth points.
	KindBalloon Kind = iota
	// KindBee is a target that costs points when popped.
	KindBee
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindBalloon:
		return "balloon"
	case KindBee:
		return "bee"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is the lifecycle state of an entity.
type State int

const (
	StateAlive State = iota
	StateKilled
	StateExpired
)

// Direction is the travel direction of an entity.
type Direction int

const (
	DirRight Direction = iota
	DirLeft
	DirUp
	DirDown
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "unknown"
	}
}

// Sound names a sound effect requested by the game rules.
type Sound int

const (
	SoundSlap Sound = iota
	SoundScream
	SoundClick
)

// KindSpec holds the kind-dependent behavior of an entity.
type KindSpec struct {
	// HitboxScale is the collision size relative to the sprite size.
	HitboxScale float64
	// Frames is the number of animation frames in the sprite set.
	Frames int
	// Sound is played when the entity is popped.
	Sound Sound
}

// kindSpecs is indexed by Kind.
var kindSpecs = [...]KindSpec{
	KindBalloon: {HitboxScale: 1, Frames: 1, Sound: SoundSlap},
	KindBee:     {HitboxScale: 1 / 1.4, Frames: 6, Sound: SoundScream},
}

// Spec returns the behavior table entry for k.
func (k Kind) Spec() KindSpec {
	if k < 0 || int(k) >= len(kindSpecs) {
		return KindSpec{HitboxScale: 1, Frames: 1}
	}
	return kindSpecs[k]
}

// frameDuration is the time each animation frame is shown, in seconds.
const frameDuration = 0.1

// Entity is a spawned target.
type Entity struct {
	ID          uint64
	Kind        Kind
	Hitbox      Rect
	Size        Vec // sprite size, centered on the hitbox
	Vel         Vec
	Direction   Direction
	FacingRight bool
	ScoreValue  int // negative for penalty kinds
	State       State
	Frame       int

	animTimer float64
}

// Pos returns the top-left corner of the hitbox.
func (e *Entity) Pos() Vec {
	return Vec{X: e.Hitbox.X, Y: e.Hitbox.Y}
}

// Sprite returns the visual bounds of the entity.
func (e *Entity) Sprite() Rect {
	c := e.Hitbox.Center()
	return RectAround(c.X, c.Y, e.Size.X, e.Size.Y)
}

// Alive reports whether the entity can still be drawn and collided.
func (e *Entity) Alive() bool {
	return e.State == StateAlive
}

// Move advances the entity by its velocity. Positions are never clamped;
// leaving the screen is detected by Exited.
func (e *Entity) Move() {
	e.Hitbox = e.Hitbox.Translate(e.Vel)
}

// Animate advances the sprite animation by dt seconds.
func (e *Entity) Animate(dt float64) {
	frames := e.Kind.Spec().Frames
	if frames <= 1 {
		return
	}
	e.animTimer += dt
	for e.animTimer >= frameDuration {
		e.animTimer -= frameDuration
		e.Frame = (e.Frame + 1) % frames
	}
}

// Exited reports whether the entity has fully left bounds through the edge
// it is travelling towards.
func (e *Entity) Exited(bounds Rect) bool {
	switch e.Direction {
	case DirRight:
		return e.Hitbox.X >= bounds.Right()
	case DirLeft:
		return e.Hitbox.Right() <= bounds.X
	case DirUp:
		return e.Hitbox.Bottom() <= bounds.Y
	case DirDown:
		return e.Hitbox.Y >= bounds.Bottom()
	}
	return false
}

// Kill removes the entity from set and returns its score contribution.
// Killing an entity that is no longer alive returns 0 and leaves set alone.
func (e *Entity) Kill(set *Entities) int {
	if !e.Alive() {
		return 0
	}
	set.Remove(e)
	e.State = StateKilled
	return e.ScoreValue
}

// Entities is the ordered set of active entities, in spawn order.
type Entities []*Entity

// Remove deletes e from the set, preserving the order of the rest.
func (s *Entities) Remove(e *Entity) bool {
	for i, cur := range *s {
		if cur == e {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Prune drops every entity that has exited bounds, marking it expired,
// and every entity that is no longer alive. It returns the number expired.
func (s *Entities) Prune(bounds Rect) int {
	kept := (*s)[:0]
	expired := 0
	for _, e := range *s {
		if e.Alive() && e.Exited(bounds) {
			e.State = StateExpired
			expired++
		}
		if e.Alive() {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(*s); i++ {
		(*s)[i] = nil
	}
	*s = kept
	return expired
}
