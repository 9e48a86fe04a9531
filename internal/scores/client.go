// Package scores records finished sessions locally and submits them to the
// remote leaderboard.
package scores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrDisabled is returned when no endpoint is configured.
	ErrDisabled = errors.New("score submission disabled")
	// ErrRejected is returned when the leaderboard answers with a non-2xx status.
	ErrRejected = errors.New("score rejected")
)

// DefaultTimeout bounds a single submission.
const DefaultTimeout = 5 * time.Second

// Poster delivers one score to a leaderboard.
type Poster interface {
	Post(ctx context.Context, player string, score int) error
}

// Client posts scores to an HTTP leaderboard.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a Client for endpoint. A non-positive timeout selects
// DefaultTimeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type submission struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// Post sends {"player_name", "score"} as JSON.
func (c *Client) Post(ctx context.Context, player string, score int) error {
	if c.endpoint == "" {
		return ErrDisabled
	}

	body, err := json.Marshal(submission{PlayerName: player, Score: score})
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
