package render

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/ayusman/skypop/internal/config"
	"github.com/ayusman/skypop/internal/game"
)

// Setting names toggled from the main menu.
const (
	SettingMusic      = "music"
	SettingFullscreen = "fullscreen"
)

// ToggleSetting returns s with the named boolean option flipped. Unknown
// names return s unchanged.
func ToggleSetting(s config.Settings, name string) config.Settings {
	switch name {
	case SettingMusic:
		s.Music = !s.Music
	case SettingFullscreen:
		s.Fullscreen = !s.Fullscreen
	}
	return s
}

// SettingLabel renders a toggle button label.
func SettingLabel(name string, on bool) string {
	state := "Off"
	if on {
		state = "On"
	}
	switch name {
	case SettingMusic:
		return "Music: " + state
	case SettingFullscreen:
		return "Fullscreen: " + state
	default:
		return name + ": " + state
	}
}

// uiHandlers are the callbacks the overlays invoke.
type uiHandlers struct {
	post    func(game.Actions)
	toggle  func(name string) bool
	quit    func()
	clicked func()
}

// overlays holds one ebitenui tree per non-playing phase.
type overlays struct {
	menu       *ebitenui.UI
	pause      *ebitenui.UI
	gameOver   *ebitenui.UI
	finalScore *widget.Text
}

var (
	titleColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	panelColor   = color.NRGBA{A: 200}
	buttonIdle   = color.NRGBA{R: 0x2a, G: 0x6f, B: 0xdb, A: 0xff}
	buttonHover  = color.NRGBA{R: 0x4a, G: 0x8f, B: 0xfb, A: 0xff}
	buttonActive = color.NRGBA{R: 0x1a, G: 0x4f, B: 0xab, A: 0xff}
)

func newOverlays(settings config.Settings, h uiHandlers) *overlays {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	o := &overlays{}

	music := SettingLabel(SettingMusic, settings.Music)
	fullscreen := SettingLabel(SettingFullscreen, settings.Fullscreen)

	var musicBtn, fullscreenBtn *widget.Button
	toggle := func(name string, btn **widget.Button) func() {
		return func() {
			on := h.toggle(name)
			if text := (*btn).Text(); text != nil {
				text.Label = SettingLabel(name, on)
			}
		}
	}

	menuPanel := newPanel()
	menuPanel.AddChild(newTitle("SkyPop", &face))
	menuPanel.AddChild(newButton("Start", &face, h.clicked, func() { h.post(game.Actions{Start: true}) }))
	musicBtn = newButton(music, &face, h.clicked, toggle(SettingMusic, &musicBtn))
	fullscreenBtn = newButton(fullscreen, &face, h.clicked, toggle(SettingFullscreen, &fullscreenBtn))
	menuPanel.AddChild(musicBtn)
	menuPanel.AddChild(fullscreenBtn)
	menuPanel.AddChild(newButton("Quit", &face, h.clicked, h.quit))
	o.menu = newRoot(menuPanel)

	pausePanel := newPanel()
	pausePanel.AddChild(newTitle("Paused", &face))
	pausePanel.AddChild(newButton("Continue", &face, h.clicked, func() { h.post(game.Actions{TogglePause: true}) }))
	pausePanel.AddChild(newButton("Main Menu", &face, h.clicked, func() { h.post(game.Actions{MainMenu: true}) }))
	o.pause = newRoot(pausePanel)

	overPanel := newPanel()
	overPanel.AddChild(newTitle("Game Over", &face))
	o.finalScore = newTitle(FinalScore(0), &face)
	overPanel.AddChild(o.finalScore)
	overPanel.AddChild(newButton("Play Again", &face, h.clicked, func() { h.post(game.Actions{PlayAgain: true}) }))
	overPanel.AddChild(newButton("Main Menu", &face, h.clicked, func() { h.post(game.Actions{MainMenu: true}) }))
	o.gameOver = newRoot(overPanel)

	return o
}

// FinalScore renders the game-over score line.
func FinalScore(score int) string {
	return fmt.Sprintf("Score: %d", score)
}

// forPhase returns the overlay shown in phase, or nil while playing.
func (o *overlays) forPhase(p game.Phase) *ebitenui.UI {
	switch p {
	case game.PhaseMenu:
		return o.menu
	case game.PhasePaused:
		return o.pause
	case game.PhaseGameOver:
		return o.gameOver
	default:
		return nil
	}
}

func newPanel() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(14),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 30, Bottom: 30, Left: 60, Right: 60}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(360, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
}

func newRoot(panel *widget.Container) *ebitenui.UI {
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

func newTitle(label string, face *ebtext.Face) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(label, face, titleColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
}

func newButton(label string, face *ebtext.Face, clicked, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:    imageui.NewNineSliceColor(buttonIdle),
			Hover:   imageui.NewNineSliceColor(buttonHover),
			Pressed: imageui.NewNineSliceColor(buttonActive),
		}),
		widget.ButtonOpts.Text(label, face, &widget.ButtonTextColor{Idle: titleColor}),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(240, 40),
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}),
		),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if clicked != nil {
				clicked()
			}
			onClick()
		}),
	)
}
