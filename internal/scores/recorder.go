package scores

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ayusman/skypop/internal/game"
	"github.com/ayusman/skypop/internal/store"
)

// Recorder implements game.Submitter. Every result is written to the local
// store first and then posted to the leaderboard when one is configured.
type Recorder struct {
	scores *store.ScoreRepository
	poster Poster
	logger *log.Logger
}

// NewRecorder creates a Recorder. Either dependency may be nil.
func NewRecorder(st *store.Store, poster Poster, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	r := &Recorder{
		poster: poster,
		logger: logger.With("component", "scores"),
	}
	if st != nil {
		r.scores = st.Scores()
	}
	return r
}

// Submit records res and posts it. A local write failure does not prevent
// the remote submission; both errors are reported.
func (r *Recorder) Submit(ctx context.Context, res game.Result) error {
	var errs []error

	var rec *store.Score
	if r.scores != nil {
		rec = &store.Score{
			SessionID: res.SessionID,
			Player:    res.Player,
			Score:     res.Score,
			Duration:  res.Duration,
			CreatedAt: res.EndedAt,
		}
		if err := r.scores.Create(rec); err != nil {
			errs = append(errs, fmt.Errorf("record score: %w", err))
			rec = nil
		}
	}

	if r.poster == nil {
		return errors.Join(errs...)
	}

	if err := r.poster.Post(ctx, res.Player, res.Score); err != nil {
		if errors.Is(err, ErrDisabled) {
			return errors.Join(errs...)
		}
		return errors.Join(append(errs, err)...)
	}

	if rec != nil {
		if err := r.scores.MarkSubmitted(rec.ID); err != nil {
			errs = append(errs, fmt.Errorf("mark submitted: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Flush posts every locally recorded score that never reached the
// leaderboard and returns how many were delivered. It stops at the first
// failure.
func (r *Recorder) Flush(ctx context.Context) (int, error) {
	if r.scores == nil || r.poster == nil {
		return 0, nil
	}

	pending, err := r.scores.Pending()
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sc := range pending {
		if err := r.poster.Post(ctx, sc.Player, sc.Score); err != nil {
			return sent, err
		}
		if err := r.scores.MarkSubmitted(sc.ID); err != nil {
			return sent, err
		}
		sent++
		r.logger.Info("flushed score", "player", sc.Player, "score", sc.Score)
	}
	return sent, nil
}

var _ game.Submitter = (*Recorder)(nil)
