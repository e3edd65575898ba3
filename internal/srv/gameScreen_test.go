package srv

import (
	"math/rand"

	"github.com/jypelle/cc69/internal/game"
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/srv/input"
	"github.com/jypelle/cc69/internal/texture"
	"gopkg.in/check.v1"
)

type GameScreenSuite struct {
	events *input.Events
	game   *game.Game
}

var _ = check.Suite(&GameScreenSuite{})

func (s *GameScreenSuite) SetUpTest(c *check.C) {
	s.events = input.NewEvents(800)
	s.game = game.New(rand.New(rand.NewSource(7)))
}

func (s *GameScreenSuite) press(id event.InputId) gameAction {
	s.events.Push(event.InputEvent{InputId: id})
	return gameInput(s.events, s.game)
}

func (s *GameScreenSuite) TestExitLeaves(c *check.C) {
	c.Assert(s.press(event.EXIT_INPUT), check.Equals, LEAVE_GAME_ACTION)
}

func (s *GameScreenSuite) TestStopGivesUpThenLeaves(c *check.C) {
	c.Assert(s.press(event.STOP_INPUT), check.Equals, NO_GAME_ACTION)
	c.Assert(s.game.IsPlaying(), check.Equals, false)
	c.Assert(s.press(event.STOP_INPUT), check.Equals, LEAVE_GAME_ACTION)
}

func (s *GameScreenSuite) TestStartPlaysAgain(c *check.C) {
	s.game.GameOver()
	c.Assert(s.press(event.START_INPUT), check.Equals, RESTART_GAME_ACTION)
	c.Assert(s.game.IsPlaying(), check.Equals, true)
}

func (s *GameScreenSuite) TestHandwheelMovesShape(c *check.C) {
	_, before := s.game.CurrentShape()
	s.press(event.PLUS_INPUT)
	_, after := s.game.CurrentShape()
	c.Assert(after[0].X, check.Equals, before[0].X+1)
	s.press(event.MINUS_INPUT)
	s.press(event.MINUS_INPUT)
	_, after = s.game.CurrentShape()
	c.Assert(after[0].X, check.Equals, before[0].X-1)
}

func (s *GameScreenSuite) TestStartDrops(c *check.C) {
	s.press(event.START_INPUT)
	filled := 0
	for x := 0; x < game.COLUMN_COUNT; x++ {
		if s.game.CellAt(x, game.ROW_COUNT-1) >= 0 {
			filled++
		}
	}
	c.Assert(filled > 0, check.Equals, true)
}

func (s *GameScreenSuite) TestBlockRegion(c *check.C) {
	sheet, err := texture.FromImage(blockSheetImage(), 0)
	c.Assert(err, check.IsNil)

	u0, v0, u1, v1 := blockRegion(sheet, 5)
	c.Assert([]float32{u0, v0, u1, v1}, check.DeepEquals, []float32{0.25, 0.5, 0.5, 1})
	u0, v0, u1, v1 = blockRegion(sheet, 0)
	c.Assert([]float32{u0, v0, u1, v1}, check.DeepEquals, []float32{0, 0, 0.25, 0.5})
}
