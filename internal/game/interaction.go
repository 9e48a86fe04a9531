package game

// Cursor is the on-screen point driven by the tracked hand.
type Cursor struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Closed bool    `json:"closed"`
}

// Hitbox returns the collision rectangle of the cursor.
func (c Cursor) Hitbox(size float64) Rect {
	return RectAround(c.X, c.Y, size, size)
}

// SoundPlayer plays sound effects. Implementations must not block.
type SoundPlayer interface {
	Play(s Sound)
}

// Interaction applies the closed hand as the kill trigger.
type Interaction struct {
	cursorSize float64
	sounds     SoundPlayer
}

// NewInteraction creates an Interaction with the given cursor hitbox size.
// sounds may be nil.
func NewInteraction(cursorSize float64, sounds SoundPlayer) *Interaction {
	return &Interaction{cursorSize: cursorSize, sounds: sounds}
}

// Process kills every alive entity overlapping a closed cursor and returns
// the updated score. An open cursor never kills anything.
func (in *Interaction) Process(c Cursor, active *Entities, score int) int {
	if !c.Closed {
		return score
	}
	hit := c.Hitbox(in.cursorSize)

	// Kill mutates the set, so walk a copy.
	candidates := append(Entities(nil), *active...)
	for _, e := range candidates {
		if !e.Alive() || !hit.Intersects(e.Hitbox) {
			continue
		}
		score += e.Kill(active)
		if in.sounds != nil {
			in.sounds.Play(e.Kind.Spec().Sound)
		}
	}
	return score
}
