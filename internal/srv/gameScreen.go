package srv

import (
	"fmt"
	"image/color"

	"github.com/jypelle/cc69/internal/game"
	"github.com/jypelle/cc69/internal/render"
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/srv/input"
	"github.com/jypelle/cc69/internal/texture"
	"github.com/sirupsen/logrus"
)

const (
	gameMargin       = 10
	playingStatus    = "Playing - [STOP] to quit"
	gameOverStatus   = "Game over - [START] to play again, [STOP] to quit"
	newRecordStatus  = "New record! [START] to play again, [STOP] to quit"
	nextBlockMessage = "Next block"
)

type gameAction int

const (
	NO_GAME_ACTION gameAction = iota
	RESTART_GAME_ACTION
	LEAVE_GAME_ACTION
)

// gameInput applies the frame inputs to g. While a game runs the handwheel
// moves the shape, LEFT and RIGHT rotate it, START drops it and STOP gives
// up. After a game START plays again and STOP leaves.
func gameInput(events *input.Events, g *game.Game) gameAction {
	if events.CheckAndReset(event.EXIT_INPUT) {
		return LEAVE_GAME_ACTION
	}

	if !g.IsPlaying() {
		if events.CheckAndReset(event.START_INPUT) {
			g.Restart()
			return RESTART_GAME_ACTION
		} else if events.CheckAndReset(event.STOP_INPUT) {
			return LEAVE_GAME_ACTION
		}
		return NO_GAME_ACTION
	}

	if !g.IsPlayerInControl() {
		return NO_GAME_ACTION
	}

	if events.CheckAndReset(event.MINUS_INPUT) {
		g.Move(-1)
	} else if events.CheckAndReset(event.PLUS_INPUT) {
		g.Move(1)
	} else if events.CheckAndReset(event.RIGHT_INPUT) {
		g.Rotate(1)
	} else if events.CheckAndReset(event.LEFT_INPUT) {
		g.Rotate(-1)
	} else if events.CheckAndReset(event.START_INPUT) {
		g.Drop()
	} else if events.CheckAndReset(event.STOP_INPUT) {
		g.GameOver()
	}
	return NO_GAME_ACTION
}

type gameScreen struct {
	background *texture.Texture
	blocks     *texture.Texture
	cell       float32
	x, y       float32

	score     *MessageWindow
	nextBlock *MessageWindow
	status    *MessageWindow
}

func (s *ServerApp) newGameScreen() *gameScreen {
	screen := &gameScreen{
		background: s.loadAsset(gameBackgroundAsset, solidImage(color.NRGBA{0x30, 0x30, 0x30, 0xff})),
		blocks:     s.loadAsset(gameBlocksAsset, blockSheetImage),
		x:          gameMargin,
		y:          gameMargin,
	}
	if screen.blocks == nil {
		screen.blocks = generatedTexture(blockSheetImage)
	}

	// Native block size, shrunk when the playfield would not fit
	screen.cell = float32(screen.blocks.Width() / blockSheetColumns)
	if fit := (s.height - 2*gameMargin) / game.ROW_COUNT; fit < screen.cell {
		screen.cell = fit
	}

	cell := screen.cell
	panelX := screen.x + cell*(game.COLUMN_COUNT+1)
	screen.score = NewMessageWindow(int(cell*10), int(cell), 3)
	screen.score.SetPosition(panelX, screen.y)
	screen.nextBlock = NewMessageWindow(int(cell*10), int(cell*4), 3)
	screen.nextBlock.SetPosition(panelX, screen.y+cell*1.5)
	screen.nextBlock.SetTextPosition(-1, int(cell*0.5))
	screen.nextBlock.Update(nextBlockMessage)
	screen.status = NewMessageWindow(int(cell*10), int(cell*2), 3)
	screen.status.SetPosition(panelX, screen.y+cell*6)
	return screen
}

func (screen *gameScreen) release() {
	releaseAll(screen.background, screen.blocks)
	screen.score.Release()
	screen.nextBlock.Release()
	screen.status.Release()
}

func (s *ServerApp) runGame() Mode {
	screen := s.newGameScreen()
	defer screen.release()

	g := game.New(s.rng)
	screen.status.Update(playingStatus)
	s.events.SetLEDs(false, true)

	for wasPlaying := true; ; {
		if !s.beginFrame() {
			return END_MODE
		}

		switch gameInput(s.events, g) {
		case LEAVE_GAME_ACTION:
			if g.IsPlaying() {
				s.SubmitScore(g.Score())
			}
			return MENU_MODE
		case RESTART_GAME_ACTION:
			s.events.Reset()
		}
		g.Tick()

		if g.IsPlaying() && !wasPlaying {
			screen.status.Update(playingStatus)
			s.events.SetLEDs(false, true)
		} else if !g.IsPlaying() && wasPlaying {
			logrus.Infof("Game over, score %d", g.Score())
			if s.SubmitScore(g.Score()) {
				screen.status.Update(newRecordStatus)
			} else {
				screen.status.Update(gameOverStatus)
			}
			s.events.SetLEDs(true, true)
		}
		wasPlaying = g.IsPlaying()

		screen.score.Update(fmt.Sprintf("Score: %d  Record: %d", g.Score(), max(g.Score(), s.HighScore())))
		s.drawGame(screen, g)
		s.endFrame()
	}
}

func (s *ServerApp) drawBlock(screen *gameScreen, block int, x, y float32, alpha float32) {
	u0, v0, u1, v1 := blockRegion(screen.blocks, block)
	rect := texture.Rect{Left: x, Top: y, Right: x + screen.cell, Bottom: y + screen.cell}
	render.SetColor(1, 1, 1, alpha)
	if err := render.DrawTextureRegion(screen.blocks, rect, u0, v0, u1, v1); err != nil {
		logrus.Warnf("Unable to draw block: %v", err)
	}
}

func (s *ServerApp) drawGame(screen *gameScreen, g *game.Game) {
	s.drawFullScreen(screen.background)

	cell := screen.cell
	render.SetColor(1, 1, 1, 0.5)
	render.DrawRect(texture.Rect{
		Left:   screen.x,
		Top:    screen.y,
		Right:  screen.x + cell*game.COLUMN_COUNT,
		Bottom: screen.y + cell*game.ROW_COUNT,
	})

	// Completed rows fade out before they are removed
	fade := 1 - g.RemoveProgress()
	for y := 0; y < game.ROW_COUNT; y++ {
		alpha := float32(1)
		if g.IsRemovingRow(y) {
			alpha = fade
		}
		for x := 0; x < game.COLUMN_COUNT; x++ {
			if c := g.CellAt(x, y); c >= 0 {
				s.drawBlock(screen, int(c), screen.x+float32(x)*cell, screen.y+float32(y)*cell, alpha)
			}
		}
	}

	if g.IsPlayerInControl() {
		block, cells := g.CurrentShape()
		for _, p := range cells {
			s.drawBlock(screen, block, screen.x+float32(p.X)*cell, screen.y+float32(p.Y)*cell, 1)
		}
	}
	render.SetColor(1, 1, 1, 1)

	screen.score.Render(1)
	screen.nextBlock.Render(1)
	screen.status.Render(1)

	// Preview centred in the lower part of its window
	next := g.NextShape()
	if next >= 0 {
		originX := screen.nextBlock.X() + float32(screen.nextBlock.Width())/2
		originY := screen.nextBlock.Y() + cell*2.5
		for _, p := range game.Shapes[next].Cells(0) {
			s.drawBlock(screen, next, originX+float32(p.X)*cell, originY+float32(p.Y)*cell, 1)
		}
		render.SetColor(1, 1, 1, 1)
	}
}
