package srv

import (
	"image"
	"image/color"

	"github.com/jypelle/cc69/internal/texture"
	"gopkg.in/check.v1"
)

type MessageWindowSuite struct{}

var _ = check.Suite(&MessageWindowSuite{})

func countTextPixels(img *image.NRGBA) int {
	count := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == (color.NRGBA{A: 0xff}) {
				count++
			}
		}
	}
	return count
}

func (s *MessageWindowSuite) TestRoundedTranslucentBox(c *check.C) {
	m := NewMessageWindow(100, 40, 10)

	c.Assert(m.canvas.NRGBAAt(0, 0), check.Equals, color.NRGBA{})
	c.Assert(m.canvas.NRGBAAt(99, 39), check.Equals, color.NRGBA{})
	c.Assert(m.canvas.NRGBAAt(50, 0), check.Equals, messageWindowBackground)
	c.Assert(m.canvas.NRGBAAt(0, 20), check.Equals, messageWindowBackground)
	c.Assert(m.canvas.NRGBAAt(50, 20), check.Equals, messageWindowBackground)
	c.Assert(countTextPixels(m.canvas), check.Equals, 0)
}

func (s *MessageWindowSuite) TestUpdateDrawsText(c *check.C) {
	m := NewMessageWindow(200, 40, 10)
	m.Update("Doei!")
	c.Assert(m.Message(), check.Equals, "Doei!")
	c.Assert(countTextPixels(m.canvas) > 0, check.Equals, true)

	// Corners stay transparent under new text
	c.Assert(m.canvas.NRGBAAt(0, 0), check.Equals, color.NRGBA{})

	m.Update("")
	c.Assert(countTextPixels(m.canvas), check.Equals, 0)
}

func (s *MessageWindowSuite) TestTextIsMagnifiedInTallBoxes(c *check.C) {
	small := NewMessageWindow(400, 30, 3)
	small.Update("Score")
	large := NewMessageWindow(400, 120, 3)
	large.Update("Score")

	c.Assert(countTextPixels(large.canvas) > countTextPixels(small.canvas), check.Equals, true)
}

func (s *MessageWindowSuite) TestContains(c *check.C) {
	m := NewMessageWindow(100, 40, 10)
	m.SetPosition(10, 20)

	c.Assert(m.Contains(image.Pt(10, 20)), check.Equals, true)
	c.Assert(m.Contains(image.Pt(109, 59)), check.Equals, true)
	c.Assert(m.Contains(image.Pt(110, 30)), check.Equals, false)
	c.Assert(m.Contains(image.Pt(50, 19)), check.Equals, false)
	c.Assert(m.Rect(), check.Equals, texture.Rect{Left: 10, Top: 20, Right: 110, Bottom: 60})
}
