package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ayusman/skypop/internal/game"
)

// BeeFrames is the number of bee animation frames.
const BeeFrames = 6

// Sprites holds the source images for every drawable. Missing files are
// replaced with generated shapes so the game runs without an assets dir.
type Sprites struct {
	Balloon     *ebiten.Image
	Bee         [BeeFrames]*ebiten.Image
	Backgrounds []*ebiten.Image
}

// LoadSprites reads balloon.png, bee/0.png..bee/5.png and the named
// backgrounds from dir.
func LoadSprites(dir string, backgrounds []string, logger *log.Logger) *Sprites {
	if logger == nil {
		logger = log.Default()
	}
	s := &Sprites{}

	var err error
	if s.Balloon, err = loadImage(filepath.Join(dir, "balloon.png")); err != nil {
		logger.Debug("using generated balloon", "err", err)
		s.Balloon = generatedBalloon()
	}
	for i := range s.Bee {
		if s.Bee[i], err = loadImage(filepath.Join(dir, "bee", fmt.Sprintf("%d.png", i))); err != nil {
			logger.Debug("using generated bee frame", "frame", i, "err", err)
			s.Bee[i] = generatedBee(i)
		}
	}
	for _, name := range backgrounds {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("background unavailable", "file", name, "err", err)
			continue
		}
		s.Backgrounds = append(s.Backgrounds, img)
	}
	return s
}

func loadImage(path string) (*ebiten.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	im, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(im), nil
}

// Frame returns the source image for an entity view.
func (s *Sprites) Frame(v game.EntityView) *ebiten.Image {
	if v.Kind == game.KindBee {
		return s.Bee[v.Frame%BeeFrames]
	}
	return s.Balloon
}

var (
	balloonColor = color.RGBA{R: 0xe6, G: 0x39, B: 0x46, A: 0xff}
	beeYellow    = color.RGBA{R: 0xf4, G: 0xc4, B: 0x30, A: 0xff}
	beeBlack     = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	wingColor    = color.RGBA{R: 0xdd, G: 0xee, B: 0xff, A: 0xc0}
	skyTop       = color.RGBA{R: 0x6f, G: 0xb8, B: 0xf0, A: 0xff}
)

func generatedBalloon() *ebiten.Image {
	img := ebiten.NewImage(80, 100)
	vector.FillCircle(img, 40, 40, 38, balloonColor, true)
	vector.FillRect(img, 38, 78, 4, 22, beeBlack, false)
	vector.FillCircle(img, 28, 26, 8, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}, true)
	return img
}

// generatedBee draws a bee facing left. Wings flap across frames.
func generatedBee(frame int) *ebiten.Image {
	img := ebiten.NewImage(90, 80)
	wingY := float32(18 + 4*(frame%3))
	vector.FillCircle(img, 50, wingY, 14, wingColor, true)
	vector.FillCircle(img, 62, wingY, 12, wingColor, true)
	vector.FillCircle(img, 45, 48, 26, beeYellow, true)
	for _, x := range []float32{38, 52} {
		vector.FillRect(img, x, 24, 6, 48, beeBlack, false)
	}
	vector.FillCircle(img, 20, 44, 12, beeBlack, true)
	return img
}

// drawSprite draws src stretched over dst rect r, mirrored when flip is set.
func drawSprite(dst, src *ebiten.Image, r game.Rect, flip bool) {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	sx := r.W / float64(b.Dx())
	sy := r.H / float64(b.Dy())

	op := &ebiten.DrawImageOptions{}
	if flip {
		op.GeoM.Scale(-sx, sy)
		op.GeoM.Translate(r.X+r.W, r.Y)
	} else {
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(r.X, r.Y)
	}
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// scaledBackground renders src stretched to size, or a plain sky when src
// is nil.
func scaledBackground(src *ebiten.Image, size image.Point) *ebiten.Image {
	img := ebiten.NewImage(size.X, size.Y)
	if src == nil {
		img.Fill(skyTop)
		return img
	}
	drawSprite(img, src, game.Rect{W: float64(size.X), H: float64(size.Y)}, false)
	return img
}
