package srv

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// AddLabel draws label on img with the top left corner of its line box at (x, y).
func AddLabel(img draw.Image, x, y int, label string, col color.Color) {
	ascent := bitmapfont.Face.Metrics().Ascent
	point := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + ascent}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: bitmapfont.Face,
		Dot:  point,
	}
	d.DrawString(label)
}

// LabelSize returns the unscaled size of label in pixels.
func LabelSize(label string) (int, int) {
	width := font.MeasureString(bitmapfont.Face, label).Ceil()
	height := bitmapfont.Face.Metrics().Height.Ceil()
	return width, height
}

// AddScaledLabel draws label magnified scale times, nearest neighbour so the
// bitmap glyphs stay crisp.
func AddScaledLabel(img draw.Image, x, y int, label string, col color.Color, scale int) {
	width, height := LabelSize(label)
	if width == 0 || height == 0 {
		return
	}
	if scale <= 1 {
		AddLabel(img, x, y, label, col)
		return
	}
	small := image.NewNRGBA(image.Rect(0, 0, width, height))
	AddLabel(small, 0, 0, label, col)
	target := image.Rect(x, y, x+width*scale, y+height*scale)
	draw.NearestNeighbor.Scale(img, target, small, small.Bounds(), draw.Over, nil)
}
