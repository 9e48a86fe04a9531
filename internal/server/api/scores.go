package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/skypop/internal/store"
)

// Leaderboard paging limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ScoresHandler serves the local leaderboard and accepts scores posted by
// other players' games.
type ScoresHandler struct {
	store *store.Store
}

// NewScoresHandler creates a new ScoresHandler with the given store.
func NewScoresHandler(s *store.Store) *ScoresHandler {
	return &ScoresHandler{store: s}
}

// ServeHTTP routes /api/scores and /api/scores/best.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/scores")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case path == "" && r.Method == http.MethodPost:
		h.create(w, r)
	case path == "best" && r.Method == http.MethodGet:
		h.best(w, r)
	case path == "" || path == "best":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type scoreRequest struct {
	PlayerName string `json:"player_name"`
	Score      *int   `json:"score"`
}

type scoreResponse struct {
	ID        string  `json:"id"`
	Player    string  `json:"player_name"`
	Score     int     `json:"score"`
	Duration  float64 `json:"duration,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type listScoresResponse struct {
	Scores []scoreResponse `json:"scores"`
}

func toResponse(sc *store.Score) scoreResponse {
	return scoreResponse{
		ID:        sc.ID,
		Player:    sc.Player,
		Score:     sc.Score,
		Duration:  sc.Duration,
		CreatedAt: sc.CreatedAt.Format(time.RFC3339),
	}
}

// list handles GET /api/scores?limit=N.
func (h *ScoresHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, MaxLimit)
	}

	scores, err := h.store.Scores().Top(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scores")
		return
	}

	response := listScoresResponse{Scores: make([]scoreResponse, 0, len(scores))}
	for _, sc := range scores {
		response.Scores = append(response.Scores, toResponse(sc))
	}
	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/scores with {"player_name", "score"}.
func (h *ScoresHandler) create(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		writeError(w, http.StatusBadRequest, "player_name is required")
		return
	}
	if req.Score == nil {
		writeError(w, http.StatusBadRequest, "score is required")
		return
	}

	sc := &store.Score{
		SessionID: "remote-" + uuid.NewString(),
		Player:    name,
		Score:     *req.Score,
		Submitted: true,
	}
	if err := h.store.Scores().Create(sc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record score")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(sc))
}

// best handles GET /api/scores/best?player=NAME.
func (h *ScoresHandler) best(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		writeError(w, http.StatusBadRequest, "player is required")
		return
	}

	sc, err := h.store.Scores().Best(player)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No scores for player")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get score")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sc))
}
