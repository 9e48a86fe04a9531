package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/skypop/internal/game"
)

// ControlHandler turns POST /api/control requests into game actions.
type ControlHandler struct {
	post func(game.Actions)
}

// NewControlHandler creates a ControlHandler that hands actions to post.
// post must not block.
func NewControlHandler(post func(game.Actions)) *ControlHandler {
	return &ControlHandler{post: post}
}

type controlRequest struct {
	Action string `json:"action"`
}

// ParseAction maps an action name to the command it requests.
func ParseAction(name string) (game.Actions, bool) {
	switch name {
	case "start":
		return game.Actions{Start: true}, true
	case "pause", "resume", "toggle_pause":
		return game.Actions{TogglePause: true}, true
	case "play_again":
		return game.Actions{PlayAgain: true}, true
	case "main_menu":
		return game.Actions{MainMenu: true}, true
	default:
		return game.Actions{}, false
	}
}

// ServeHTTP accepts {"action": "start|pause|resume|play_again|main_menu"}.
// Actions that do not fit the current phase are accepted and ignored by
// the game.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	actions, ok := ParseAction(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	h.post(actions)
	w.WriteHeader(http.StatusAccepted)
}
