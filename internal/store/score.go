package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Score is a finished session as recorded locally.
type Score struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Duration  float64   `json:"duration"`
	Submitted bool      `json:"submitted"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreRepository provides access to the score history.
type ScoreRepository struct {
	db *sql.DB
}

// Scores returns the score repository for this store.
func (s *Store) Scores() *ScoreRepository {
	return &ScoreRepository{db: s.db}
}

// Create inserts a score. An empty ID is assigned a new UUID and a zero
// CreatedAt is set to now.
func (r *ScoreRepository) Create(sc *Score) error {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO scores (id, session_id, player, score, duration, submitted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.SessionID, sc.Player, sc.Score, sc.Duration, boolToInt(sc.Submitted), sc.CreatedAt,
	)
	return err
}

// GetBySession retrieves the score recorded for a session.
func (r *ScoreRepository) GetBySession(sessionID string) (*Score, error) {
	row := r.db.QueryRow(
		`SELECT id, session_id, player, score, duration, submitted, created_at
		 FROM scores WHERE session_id = ?`,
		sessionID,
	)
	sc, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sc, err
}

// Top returns up to limit scores, best first. Ties go to the earlier score.
func (r *ScoreRepository) Top(limit int) ([]*Score, error) {
	return r.list(
		`SELECT id, session_id, player, score, duration, submitted, created_at
		 FROM scores ORDER BY score DESC, created_at ASC LIMIT ?`,
		limit,
	)
}

// Pending returns scores that have not reached the remote endpoint, oldest first.
func (r *ScoreRepository) Pending() ([]*Score, error) {
	return r.list(
		`SELECT id, session_id, player, score, duration, submitted, created_at
		 FROM scores WHERE submitted = 0 ORDER BY created_at ASC LIMIT ?`,
		-1,
	)
}

// Best returns the highest score of a player.
func (r *ScoreRepository) Best(player string) (*Score, error) {
	row := r.db.QueryRow(
		`SELECT id, session_id, player, score, duration, submitted, created_at
		 FROM scores WHERE player = ? ORDER BY score DESC, created_at ASC LIMIT 1`,
		player,
	)
	sc, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sc, err
}

// MarkSubmitted flags a score as delivered to the remote endpoint.
func (r *ScoreRepository) MarkSubmitted(id string) error {
	result, err := r.db.Exec(`UPDATE scores SET submitted = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of recorded scores.
func (r *ScoreRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&n)
	return n, err
}

func (r *ScoreRepository) list(query string, args ...any) ([]*Score, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*Score
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScore(row scanner) (*Score, error) {
	sc := &Score{}
	var submitted int
	err := row.Scan(&sc.ID, &sc.SessionID, &sc.Player, &sc.Score, &sc.Duration, &submitted, &sc.CreatedAt)
	if err != nil {
		return nil, err
	}
	sc.Submitted = submitted != 0
	return sc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
