package game

// EntityView is a read-only copy of an entity for renderers and spectators.
type EntityView struct {
	ID          uint64 `json:"id"`
	Kind        Kind   `json:"kind"`
	Hitbox      Rect   `json:"hitbox"`
	Sprite      Rect   `json:"sprite"`
	FacingRight bool   `json:"facing_right"`
	Frame       int    `json:"frame"`
}

// Snapshot is the render state produced by one update.
type Snapshot struct {
	Phase      Phase        `json:"phase"`
	SessionID  string       `json:"session_id,omitempty"`
	Player     string       `json:"player,omitempty"`
	Score      int          `json:"score"`
	TimeLeft   float64      `json:"time_left"`
	Duration   float64      `json:"duration"`
	SpawnTimer float64      `json:"spawn_timer"`
	Cursor     Cursor       `json:"cursor"`
	CursorSize float64      `json:"cursor_size"`
	Entities   []EntityView `json:"entities"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
}

// Snapshot copies the current state. The result shares no memory with the
// controller and may be handed to other goroutines.
func (c *Controller) Snapshot() Snapshot {
	views := make([]EntityView, 0, len(c.session.Entities))
	for _, e := range c.session.Entities {
		if !e.Alive() {
			continue
		}
		views = append(views, EntityView{
			ID:          e.ID,
			Kind:        e.Kind,
			Hitbox:      e.Hitbox,
			Sprite:      e.Sprite(),
			FacingRight: e.FacingRight,
			Frame:       e.Frame,
		})
	}
	return Snapshot{
		Phase:      c.phase,
		SessionID:  c.session.ID,
		Player:     c.player,
		Score:      c.session.Score,
		TimeLeft:   c.session.TimeLeft,
		Duration:   c.tuning.Duration,
		SpawnTimer: c.spawner.NextSpawn(),
		Cursor:     c.cursor,
		CursorSize: c.tuning.CursorSize,
		Entities:   views,
		Width:      c.tuning.Width,
		Height:     c.tuning.Height,
	}
}
