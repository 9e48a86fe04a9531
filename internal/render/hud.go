package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/ayusman/skypop/internal/game"
)

// LowTime is the remaining time below which the timer turns red.
const LowTime = 5.0

var (
	scoreColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	timerColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	lowTimerColor = color.RGBA{R: 0xa0, G: 0x28, B: 0x00, A: 0xff}
	shadowColor   = color.RGBA{A: 0xc0}
	cursorOpen    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xd0}
	cursorClosed  = color.RGBA{R: 0xff, G: 0xd0, B: 0x40, A: 0xe0}
)

var hudFace text.Face = text.NewGoXFace(basicfont.Face7x13)

// TimerColor returns the timer text color for the remaining seconds.
func TimerColor(timeLeft float64) color.Color {
	if timeLeft < LowTime {
		return lowTimerColor
	}
	return timerColor
}

// FormatTime renders seconds with one decimal.
func FormatTime(timeLeft float64) string {
	return fmt.Sprintf("Time left: %.1f", math.Max(timeLeft, 0))
}

// CursorRadius returns the drawn cursor radius; a closed hand shrinks it.
func CursorRadius(size, closedScale float64, closed bool) float64 {
	r := size / 2
	if closed {
		r *= closedScale
	}
	return r
}

// drawText draws s at (x, y) scaled by scale with a drop shadow. When
// centered, x is the horizontal center.
func drawText(dst *ebiten.Image, s string, x, y, scale float64, clr color.Color, centered bool) {
	if centered {
		w, _ := text.Measure(s, hudFace, 0)
		x -= w * scale / 2
	}
	for _, pass := range []struct {
		dx, dy float64
		c      color.Color
	}{{-2, 2, shadowColor}, {0, 0, clr}} {
		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x+pass.dx, y+pass.dy)
		op.ColorScale.ScaleWithColor(pass.c)
		text.Draw(dst, s, hudFace, op)
	}
}

// drawHUD draws the score and the countdown.
func drawHUD(dst *ebiten.Image, snap game.Snapshot) {
	drawText(dst, fmt.Sprintf("Score: %d", snap.Score), 20, 16, 3, scoreColor, false)
	drawText(dst, FormatTime(snap.TimeLeft), float64(snap.Width)/2, 16, 3, TimerColor(snap.TimeLeft), true)
}

// drawCursor draws the hand cursor centered on its position.
func drawCursor(dst *ebiten.Image, c game.Cursor, size, closedScale float64) {
	r := float32(CursorRadius(size, closedScale, c.Closed))
	clr := cursorOpen
	if c.Closed {
		clr = cursorClosed
	}
	vector.StrokeCircle(dst, float32(c.X), float32(c.Y), r, 4, clr, true)
	vector.FillCircle(dst, float32(c.X), float32(c.Y), r/4, clr, true)
}
