package srv

import (
	"image/color"

	"github.com/jypelle/cc69/internal/particle"
	"github.com/jypelle/cc69/internal/render"
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/srv/input"
	"github.com/jypelle/cc69/internal/texture"
	"github.com/sirupsen/logrus"
)

const (
	PHOTO_OPTION = iota
	GAME_OPTION
	QUIT_OPTION
)

var menuLabels = []string{"Plaatjes kijken", "Spelletje spelen", "Doei!"}

var optionModes = []Mode{PHOTO_MODE, GAME_MODE, END_MODE}

// newMenuOptions lays the option boxes out below the middle of the screen.
func newMenuOptions(width, height float32) []*MessageWindow {
	optionWidth := width * 0.75
	optionHeight := width * 0.5 / float32(len(menuLabels)+2)

	options := make([]*MessageWindow, len(menuLabels))
	for i, label := range menuLabels {
		options[i] = NewMessageWindow(int(optionWidth), int(optionHeight), 10)
		options[i].SetPosition((width-optionWidth)/2, height*0.5+optionHeight*1.25*float32(i))
		options[i].Update(label)
	}
	return options
}

// selectOption reads the frame inputs. A click on an option or START on the
// highlighted one selects it, EXIT selects quit, PLUS and MINUS move the
// highlight. It returns -1 while nothing is selected.
func selectOption(events *input.Events, options []*MessageWindow, highlighted int) (int, int) {
	if events.CheckAndReset(event.EXIT_INPUT) {
		return QUIT_OPTION, highlighted
	}

	selected := -1
	for click, ok := events.NextMouseEvent(); ok; click, ok = events.NextMouseEvent() {
		for i, option := range options {
			if option.Contains(click) {
				selected = i
				break
			}
		}
	}
	if selected >= 0 {
		return selected, selected
	}

	if events.CheckAndReset(event.PLUS_INPUT) {
		highlighted = (highlighted + 1) % len(options)
	} else if events.CheckAndReset(event.MINUS_INPUT) {
		highlighted = (highlighted + len(options) - 1) % len(options)
	} else if events.CheckAndReset(event.START_INPUT) {
		return highlighted, highlighted
	}
	return -1, highlighted
}

func (s *ServerApp) runMenu() Mode {
	background := s.loadAsset(menuBackgroundAsset, solidImage(color.NRGBA{0x10, 0x10, 0x30, 0xff}))
	spark := generatedTexture(discImage(16, color.NRGBA{0xff, 0xff, 0xff, 0xff}))
	options := newMenuOptions(s.width, s.height)
	defer func() {
		releaseAll(background, spark)
		for _, option := range options {
			option.Release()
		}
	}()

	fireworks := particle.NewFireworks(s.rng, s.width)
	s.events.SetLEDs(false, false)

	selected, highlighted := -1, PHOTO_OPTION
	for selected < 0 {
		if !s.beginFrame() {
			return END_MODE
		}
		fireworks.Evolve()
		selected, highlighted = selectOption(s.events, options, highlighted)

		s.drawFullScreen(background)
		for i, option := range options {
			alpha := float32(0.75)
			if i == highlighted {
				alpha = 1
			}
			option.Render(alpha)
		}
		s.drawFireworks(fireworks, spark)
		s.endFrame()
	}

	logrus.Infof("Menu option selected: %s", menuLabels[selected])
	return optionModes[selected]
}

func (s *ServerApp) drawFireworks(fireworks *particle.Fireworks, spark *texture.Texture) {
	if spark == nil {
		return
	}
	render.PushMatrix()
	render.Translate(s.width/2, s.height/2)
	render.AdditiveBlend()
	for _, p := range fireworks.Particles() {
		render.SetColor(p.R, p.G, p.B, p.A)
		rect := texture.Rect{Left: p.X - p.Size, Top: p.Y - p.Size, Right: p.X + p.Size, Bottom: p.Y + p.Size}
		if err := render.DrawTexture(spark, rect); err != nil {
			logrus.Warnf("Unable to draw fireworks: %v", err)
			break
		}
	}
	render.NormalBlend()
	render.SetColor(1, 1, 1, 1)
	render.PopMatrix()
}
