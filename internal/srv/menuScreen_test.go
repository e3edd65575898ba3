package srv

import (
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/srv/input"
	"gopkg.in/check.v1"
)

type MenuSuite struct {
	events  *input.Events
	options []*MessageWindow
}

var _ = check.Suite(&MenuSuite{})

func (s *MenuSuite) SetUpTest(c *check.C) {
	s.events = input.NewEvents(800)
	s.options = newMenuOptions(800, 600)
}

func (s *MenuSuite) click(x, y int) {
	s.events.Push(event.InputEvent{InputId: event.MOUSE_INPUT, X: x, Y: y})
}

func (s *MenuSuite) TestLayout(c *check.C) {
	c.Assert(s.options, check.HasLen, 3)
	for i, option := range s.options {
		c.Assert(option.Width(), check.Equals, 600)
		c.Assert(option.Height(), check.Equals, 80)
		c.Assert(option.X(), check.Equals, float32(100))
		c.Assert(option.Y(), check.Equals, 300+100*float32(i))
		c.Assert(option.Message(), check.Equals, menuLabels[i])
	}
}

func (s *MenuSuite) TestNothingSelected(c *check.C) {
	selected, highlighted := selectOption(s.events, s.options, 0)
	c.Assert(selected, check.Equals, -1)
	c.Assert(highlighted, check.Equals, 0)

	// Between two options
	s.click(400, 390)
	selected, _ = selectOption(s.events, s.options, 0)
	c.Assert(selected, check.Equals, -1)
}

func (s *MenuSuite) TestClickSelects(c *check.C) {
	s.click(400, 410)
	selected, highlighted := selectOption(s.events, s.options, 0)
	c.Assert(selected, check.Equals, GAME_OPTION)
	c.Assert(highlighted, check.Equals, GAME_OPTION)
}

func (s *MenuSuite) TestExitQuits(c *check.C) {
	s.events.Push(event.InputEvent{InputId: event.EXIT_INPUT})
	selected, _ := selectOption(s.events, s.options, 0)
	c.Assert(selected, check.Equals, QUIT_OPTION)
}

func (s *MenuSuite) TestHandwheelMovesHighlight(c *check.C) {
	s.events.Push(event.InputEvent{InputId: event.MINUS_INPUT})
	selected, highlighted := selectOption(s.events, s.options, 0)
	c.Assert(selected, check.Equals, -1)
	c.Assert(highlighted, check.Equals, QUIT_OPTION)

	s.events.Push(event.InputEvent{InputId: event.PLUS_INPUT})
	_, highlighted = selectOption(s.events, s.options, highlighted)
	c.Assert(highlighted, check.Equals, PHOTO_OPTION)

	s.events.Push(event.InputEvent{InputId: event.PLUS_INPUT})
	_, highlighted = selectOption(s.events, s.options, highlighted)
	s.events.Push(event.InputEvent{InputId: event.START_INPUT})
	selected, _ = selectOption(s.events, s.options, highlighted)
	c.Assert(selected, check.Equals, GAME_OPTION)
}
