package srv

import (
	"image"
	"image/color"

	"github.com/jypelle/cc69/internal/render"
	"github.com/jypelle/cc69/internal/texture"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

var messageWindowBackground = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0x80}
var messageWindowText = color.Black

// MessageWindow is a translucent box with rounded corners holding one line
// of text.
type MessageWindow struct {
	width, height int
	radius        int
	x, y          float32
	// Text offset inside the box, -1 centres the text
	textX, textY int

	message string
	canvas  *image.NRGBA
	texture *texture.Texture
}

func NewMessageWindow(width, height, radius int) *MessageWindow {
	m := &MessageWindow{
		width:  max(width, 1),
		height: max(height, 1),
		radius: radius,
		textX:  -1,
		textY:  -1,
	}
	m.canvas = image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	m.paint()
	return m
}

func (m *MessageWindow) SetPosition(x, y float32) {
	m.x, m.y = x, y
}

func (m *MessageWindow) SetTextPosition(x, y int) {
	m.textX, m.textY = x, y
	m.paint()
}

func (m *MessageWindow) X() float32 {
	return m.x
}

func (m *MessageWindow) Y() float32 {
	return m.y
}

func (m *MessageWindow) Width() int {
	return m.width
}

func (m *MessageWindow) Height() int {
	return m.height
}

func (m *MessageWindow) Message() string {
	return m.message
}

func (m *MessageWindow) Rect() texture.Rect {
	return texture.Rect{Left: m.x, Top: m.y, Right: m.x + float32(m.width), Bottom: m.y + float32(m.height)}
}

// Contains tells whether the screen point p falls inside the box.
func (m *MessageWindow) Contains(p image.Point) bool {
	x, y := float32(p.X), float32(p.Y)
	return x >= m.x && x < m.x+float32(m.width) && y >= m.y && y < m.y+float32(m.height)
}

// Update changes the text. Setting the current text again does nothing.
func (m *MessageWindow) Update(message string) {
	if message == m.message {
		return
	}
	m.message = message
	m.paint()
}

// textScale is the largest magnification keeping the text on 60% of the box
// height and inside its straight edges.
func (m *MessageWindow) textScale(labelWidth, labelHeight int) int {
	scale := m.height * 3 / 5 / labelHeight
	if byWidth := (m.width - 2*m.radius) / labelWidth; byWidth < scale {
		scale = byWidth
	}
	return max(scale, 1)
}

func (m *MessageWindow) paint() {
	draw.Draw(m.canvas, m.canvas.Bounds(), image.NewUniform(messageWindowBackground), image.Point{}, draw.Src)
	roundCorners(m.canvas, m.radius)

	if m.message != "" {
		labelWidth, labelHeight := LabelSize(m.message)
		if labelWidth > 0 && labelHeight > 0 {
			scale := m.textScale(labelWidth, labelHeight)
			x, y := m.textX, m.textY
			if x < 0 {
				x = (m.width - labelWidth*scale) / 2
			}
			if y < 0 {
				y = (m.height - labelHeight*scale) / 2
			}
			AddScaledLabel(m.canvas, x, y, m.message, messageWindowText, scale)
		}
	}

	if m.texture != nil {
		m.texture.Release()
		m.texture = nil
	}
}

// roundCorners clears the pixels of img outside its rounded outline.
func roundCorners(img *image.NRGBA, radius int) {
	bounds := img.Bounds()
	radius = min(radius, bounds.Dx()/2, bounds.Dy()/2)
	if radius <= 0 {
		return
	}
	transparent := color.NRGBA{}
	r2 := radius * radius
	for dy := 0; dy < radius; dy++ {
		for dx := 0; dx < radius; dx++ {
			// Distance from the pixel centre to the corner circle centre, doubled
			ox := 2*(radius-dx) - 1
			oy := 2*(radius-dy) - 1
			if ox*ox+oy*oy <= 4*r2 {
				continue
			}
			img.SetNRGBA(bounds.Min.X+dx, bounds.Min.Y+dy, transparent)
			img.SetNRGBA(bounds.Max.X-1-dx, bounds.Min.Y+dy, transparent)
			img.SetNRGBA(bounds.Min.X+dx, bounds.Max.Y-1-dy, transparent)
			img.SetNRGBA(bounds.Max.X-1-dx, bounds.Max.Y-1-dy, transparent)
		}
	}
}

// Render draws the box, fading it with alpha.
func (m *MessageWindow) Render(alpha float32) {
	if m.texture == nil {
		tex, err := texture.FromImage(m.canvas, 0)
		if err != nil {
			logrus.Warnf("Unable to build message window texture: %v", err)
			return
		}
		m.texture = tex
	}
	render.SetColor(1, 1, 1, alpha)
	if err := render.DrawTexture(m.texture, m.Rect()); err != nil {
		logrus.Warnf("Unable to draw message window: %v", err)
	}
	render.SetColor(1, 1, 1, 1)
}

func (m *MessageWindow) Release() {
	if m.texture != nil {
		m.texture.Release()
		m.texture = nil
	}
}
