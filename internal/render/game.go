// Package render draws game snapshots with ebiten and hosts the menus.
package render

import (
	"image"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ayusman/skypop/internal/config"
	"github.com/ayusman/skypop/internal/game"
)

// Engine advances the simulation by one frame.
type Engine interface {
	Step(actions game.Actions) game.Snapshot
}

// PreviewSource yields the latest camera preview, or nil.
type PreviewSource interface {
	Preview() *image.RGBA
}

// Config holds renderer settings.
type Config struct {
	Engine      Engine
	Preview     PreviewSource
	Sprites     *Sprites
	Settings    config.Settings
	OnSettings  func(config.Settings)
	Sounds      game.SoundPlayer
	ClosedScale float64
	Width       int
	Height      int
	Logger      *log.Logger
}

type backgroundKey struct {
	index int
	size  image.Point
}

// Game implements ebiten.Game.
type Game struct {
	cfg      Config
	logger   *log.Logger
	ui       *overlays
	settings config.Settings
	pending  game.Actions
	quit     bool

	snap       game.Snapshot
	size       image.Point
	sessionID  string
	sessions   int
	background *ebiten.Image
	bgCache    *Cache[backgroundKey, *ebiten.Image]
	preview    *ebiten.Image
}

// New creates the renderer. The first frame shows the main menu.
func New(cfg Config) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Sprites == nil {
		cfg.Sprites = LoadSprites("", nil, logger)
	}
	if cfg.ClosedScale <= 0 {
		cfg.ClosedScale = 0.7
	}

	g := &Game{
		cfg:      cfg,
		logger:   logger.With("component", "render"),
		settings: cfg.Settings,
		snap:     game.Snapshot{Phase: game.PhaseMenu, Width: cfg.Width, Height: cfg.Height},
		bgCache: NewCache(DefaultCacheSize, func(_ backgroundKey, img *ebiten.Image) {
			img.Deallocate()
		}),
	}
	g.ui = newOverlays(g.settings, uiHandlers{
		post:    g.post,
		toggle:  g.toggle,
		quit:    func() { g.quit = true },
		clicked: g.click,
	})
	g.Reconcile(cfg.Width, cfg.Height)
	return g
}

func (g *Game) post(a game.Actions) {
	g.pending = g.pending.Merge(a)
}

func (g *Game) click() {
	if g.cfg.Sounds != nil {
		g.cfg.Sounds.Play(game.SoundClick)
	}
}

// toggle flips a setting, hands the new value out and reports its state.
func (g *Game) toggle(name string) bool {
	g.settings = ToggleSetting(g.settings, name)
	if name == SettingFullscreen {
		ebiten.SetFullscreen(g.settings.Fullscreen)
	}
	if g.cfg.OnSettings != nil {
		g.cfg.OnSettings(g.settings)
	}
	g.logger.Debug("setting changed", "name", name, "settings", g.settings)
	if name == SettingMusic {
		return g.settings.Music
	}
	return g.settings.Fullscreen
}

// Settings returns the current runtime settings.
func (g *Game) Settings() config.Settings {
	return g.settings
}

// EscapeAction maps the Escape key to an action for phase.
func EscapeAction(p game.Phase) game.Actions {
	if p == game.PhasePlaying || p == game.PhasePaused {
		return game.Actions{TogglePause: true}
	}
	return game.Actions{}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if ui := g.ui.forPhase(g.snap.Phase); ui != nil {
		ui.Update()
	}
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.post(EscapeAction(g.snap.Phase))
	}

	actions := g.pending
	g.pending = game.Actions{}
	g.snap = g.cfg.Engine.Step(actions)

	if g.snap.SessionID != g.sessionID {
		g.sessionID = g.snap.SessionID
		g.sessions++
		g.refreshBackground()
	}
	g.Reconcile(g.snap.Width, g.snap.Height)
	g.ui.finalScore.Label = FinalScore(g.snap.Score)
	g.updatePreview()
	return nil
}

// Reconcile recreates geometry-dependent resources when the logical
// window size changes.
func (g *Game) Reconcile(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	size := image.Pt(width, height)
	if size == g.size {
		return
	}
	if g.size != (image.Point{}) {
		g.logger.Info("window size changed", "from", g.size, "to", size)
	}
	g.size = size
	if !ebiten.IsFullscreen() {
		ebiten.SetWindowSize(width, height)
	}
	g.refreshBackground()
}

func (g *Game) refreshBackground() {
	if g.size == (image.Point{}) {
		return
	}
	bgs := g.cfg.Sprites.Backgrounds
	key := backgroundKey{index: -1, size: g.size}
	if len(bgs) > 0 {
		key.index = g.sessions % len(bgs)
	}
	g.background = g.bgCache.GetOrCreate(key, func() *ebiten.Image {
		var src *ebiten.Image
		if key.index >= 0 {
			src = bgs[key.index]
		}
		return scaledBackground(src, key.size)
	})
}

func (g *Game) updatePreview() {
	if g.cfg.Preview == nil {
		return
	}
	rgba := g.cfg.Preview.Preview()
	if rgba == nil {
		return
	}
	b := rgba.Bounds()
	if g.preview == nil || g.preview.Bounds().Size() != b.Size() {
		if g.preview != nil {
			g.preview.Deallocate()
		}
		g.preview = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.preview.WritePixels(rgba.Pix)
}

// PreviewOrigin returns the top-left corner of a preview of width pw drawn
// in the top-right corner of a screen screenW wide.
func PreviewOrigin(screenW, pw int) image.Point {
	return image.Pt(screenW-pw, 0)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.background != nil {
		screen.DrawImage(g.background, nil)
	}

	if g.snap.Phase != game.PhaseMenu {
		for _, e := range g.snap.Entities {
			drawSprite(screen, g.cfg.Sprites.Frame(e), e.Sprite, e.Kind == game.KindBee && e.FacingRight)
		}
		drawHUD(screen, g.snap)
	}

	if g.preview != nil {
		at := PreviewOrigin(g.size.X, g.preview.Bounds().Dx())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(at.X), float64(at.Y))
		screen.DrawImage(g.preview, op)
		vector.StrokeRect(screen, float32(at.X), float32(at.Y),
			float32(g.preview.Bounds().Dx()), float32(g.preview.Bounds().Dy()), 2, shadowColor, false)
	}

	if ui := g.ui.forPhase(g.snap.Phase); ui != nil {
		ui.Draw(screen)
	}

	drawCursor(screen, g.snap.Cursor, g.snap.CursorSize, g.cfg.ClosedScale)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size.X, g.size.Y
}
