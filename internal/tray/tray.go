// Package tray provides a system tray menu for the headless SkyPop server.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/skypop/internal/game"
)

// Tray represents the system tray application.
type Tray struct {
	onPause func()
	onStart func()
	onQuit  func()
	phase   game.Phase
	mu      sync.RWMutex

	// Menu items stored for later updates
	menuStart  *systray.MenuItem
	menuPause  *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnPause sets the callback invoked by the Pause/Resume item.
func (t *Tray) OnPause(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPause = fn
}

// OnStart sets the callback invoked by the New Game item.
func (t *Tray) OnStart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("SkyPop")
	systray.SetTooltip("SkyPop game server")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(StatusLine(game.Snapshot{}), "Current session")
	t.menuStatus.Disable()
	systray.AddSeparator()

	t.menuStart = systray.AddMenuItem("New Game", "Start or restart a session")
	t.menuPause = systray.AddMenuItem(PauseLabel(t.phase), "Pause or resume the session")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit SkyPop")
	t.mu.Unlock()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuStart.ClickedCh:
				t.handle(func() func() { return t.onStart })
			case <-t.menuPause.ClickedCh:
				t.handle(func() func() { return t.onPause })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handle runs the callback picked under the read lock.
func (t *Tray) handle(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.handle(func() func() { return t.onQuit })
	systray.Quit()
}

// Update refreshes the status line and pause label from a snapshot.
func (t *Tray) Update(snap game.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.phase = snap.Phase
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(StatusLine(snap))
	}
	if t.menuPause != nil {
		t.menuPause.SetTitle(PauseLabel(snap.Phase))
		if snap.Phase == game.PhasePlaying || snap.Phase == game.PhasePaused {
			t.menuPause.Enable()
		} else {
			t.menuPause.Disable()
		}
	}
}

// Phase returns the phase of the last Update.
func (t *Tray) Phase() game.Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// PauseLabel returns the pause item title for phase.
func PauseLabel(p game.Phase) string {
	if p == game.PhasePaused {
		return "▶ Resume"
	}
	return "❚❚ Pause"
}

// StatusLine summarises a snapshot for the tray menu.
func StatusLine(snap game.Snapshot) string {
	switch snap.Phase {
	case game.PhasePlaying, game.PhasePaused:
		return fmt.Sprintf("%s · score %d · %.1fs left", snap.Phase, snap.Score, snap.TimeLeft)
	case game.PhaseGameOver:
		return fmt.Sprintf("game over · score %d", snap.Score)
	default:
		return "waiting in menu"
	}
}
