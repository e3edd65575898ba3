// Package game holds the falling block game rules, independent of rendering.
package game

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

const (
	COLUMN_COUNT = 10
	ROW_COUNT    = 21
	BLOCK_COUNT  = 7

	// Frames between two automatic steps down
	DEFAULT_SPEED = 10
	// Frames completed rows stay highlighted before being removed
	REMOVE_TIME = 20

	fieldWidth  = COLUMN_COUNT + 2
	fieldHeight = ROW_COUNT + 1
)

// Cell is the content of a playfield cell: a block index, EMPTY_CELL or WALL_CELL.
type Cell int8

const (
	EMPTY_CELL Cell = -1
	WALL_CELL  Cell = -2
)

// Playfield cells are addressed with x in [0, COLUMN_COUNT+1] and y in
// [0, ROW_COUNT]. Column 0, column COLUMN_COUNT+1 and row ROW_COUNT are walls.
type Game struct {
	rng *rand.Rand

	field        [fieldWidth * fieldHeight]Cell
	blocksPerRow [ROW_COUNT]int

	shapeX, shapeY  int
	shapeIndex      int
	shapeRotation   int
	nextShapeIndex  int
	playing         bool
	playerInControl bool
	removingRows    int

	score        int64
	speed        int
	speedCounter int
}

func New(rng *rand.Rand) *Game {
	g := &Game{
		rng:   rng,
		speed: DEFAULT_SPEED,
	}
	g.Restart()
	return g
}

func (g *Game) cell(x, y int) *Cell {
	if x < 0 || x >= fieldWidth || y < 0 || y >= fieldHeight {
		logrus.Panicf("Cell %d,%d out of playfield", x, y)
	}
	return &g.field[y*fieldWidth+x]
}

// CellAt returns the visible cell at column x (0 based) and row y.
func (g *Game) CellAt(x, y int) Cell {
	return *g.cell(x+1, y)
}

func (g *Game) Restart() {
	for i := range g.field {
		g.field[i] = EMPTY_CELL
	}
	for y := 0; y < fieldHeight; y++ {
		*g.cell(0, y) = WALL_CELL
		*g.cell(fieldWidth-1, y) = WALL_CELL
	}
	for x := 0; x < fieldWidth; x++ {
		*g.cell(x, ROW_COUNT) = WALL_CELL
	}
	g.blocksPerRow = [ROW_COUNT]int{}

	g.playing = true
	g.playerInControl = true
	g.score = 0
	g.speedCounter = 0
	g.nextShapeIndex = -1
	g.newShape()
}

func (g *Game) randomShape() int {
	return g.rng.Intn(len(Shapes))
}

func (g *Game) collides(rotation int) bool {
	for _, p := range Shapes[g.shapeIndex].Cells(rotation) {
		x := g.shapeX + p.X
		y := g.shapeY + p.Y
		if x < 0 || y < 0 || x >= fieldWidth || y >= fieldHeight {
			return true
		}
		if *g.cell(x, y) != EMPTY_CELL {
			return true
		}
	}
	return false
}

func (g *Game) newShape() {
	g.shapeX = fieldWidth / 2
	g.shapeY = 1
	if g.nextShapeIndex >= 0 {
		g.shapeIndex = g.nextShapeIndex
	} else {
		g.shapeIndex = g.randomShape()
	}
	g.shapeRotation = 0
	g.removingRows = 0
	g.playerInControl = true
	g.nextShapeIndex = g.randomShape()

	if !g.collides(g.shapeRotation) {
		return
	}
	// Give the player a chance: look for a free spot on the spawn row
	for g.shapeX = 0; g.shapeX < COLUMN_COUNT-3; g.shapeX++ {
		if !g.collides(g.shapeRotation) {
			return
		}
	}
	g.GameOver()
}

func (g *Game) place() {
	for _, p := range Shapes[g.shapeIndex].Cells(g.shapeRotation) {
		x := g.shapeX + p.X
		y := g.shapeY + p.Y
		c := g.cell(x, y)
		if *c != EMPTY_CELL {
			logrus.Panicf("Placing shape over an occupied cell %d,%d", x, y)
		}
		*c = Cell(g.shapeIndex)
		g.blocksPerRow[y]++
	}
}

// markCompletedRows flags full rows for removal and scores them.
func (g *Game) markCompletedRows() bool {
	count := 0
	for y := ROW_COUNT - 1; y >= 0; y-- {
		if g.blocksPerRow[y] == COLUMN_COUNT {
			g.blocksPerRow[y] = -1
			count++
		}
	}
	if count == 0 {
		return false
	}
	g.score += int64(100) << (count - 1)
	g.playerInControl = false
	g.removingRows = 1
	return true
}

// handleCompletedRows runs the removal animation and returns true while it lasts.
func (g *Game) handleCompletedRows() bool {
	if g.removingRows <= 0 {
		return false
	}
	if g.removingRows <= REMOVE_TIME {
		g.removingRows++
		return true
	}

	for y := ROW_COUNT - 1; y >= 0; {
		if g.blocksPerRow[y] != -1 {
			y--
			continue
		}
		// Shift everything above down; y is checked again
		copy(g.blocksPerRow[1:y+1], g.blocksPerRow[0:y])
		copy(g.field[fieldWidth:(y+1)*fieldWidth], g.field[0:y*fieldWidth])
		g.blocksPerRow[0] = 0
		for x := 1; x <= COLUMN_COUNT; x++ {
			*g.cell(x, 0) = EMPTY_CELL
		}
	}
	g.newShape()
	return false
}

func (g *Game) landed() {
	g.place()
	if !g.markCompletedRows() {
		g.newShape()
	}
}

// Tick advances the game by one frame.
func (g *Game) Tick() {
	if g.handleCompletedRows() {
		return
	}
	if !g.playing {
		return
	}
	g.speedCounter++
	if g.speedCounter < g.speed {
		return
	}
	g.speedCounter = 0

	g.shapeY++
	if g.collides(g.shapeRotation) {
		g.shapeY--
		g.landed()
	}
}

// Move shifts the falling shape horizontally when there is room.
func (g *Game) Move(dx int) bool {
	if !g.playerInControl {
		return false
	}
	g.shapeX += dx
	if g.collides(g.shapeRotation) {
		g.shapeX -= dx
		return false
	}
	return true
}

// Rotate turns the falling shape a quarter clockwise (direction > 0) or
// counter clockwise when there is room.
func (g *Game) Rotate(direction int) bool {
	if !g.playerInControl {
		return false
	}
	previous := g.shapeRotation
	if direction > 0 {
		g.shapeRotation = (g.shapeRotation + 1) % 4
	} else {
		g.shapeRotation = (g.shapeRotation + 3) % 4
	}
	if g.collides(g.shapeRotation) {
		g.shapeRotation = previous
		return false
	}
	return true
}

// Drop lets the falling shape fall down to where it lands.
func (g *Game) Drop() {
	if !g.playerInControl {
		return
	}
	for {
		g.shapeY++
		if g.collides(g.shapeRotation) {
			g.shapeY--
			g.landed()
			return
		}
	}
}

func (g *Game) GameOver() {
	g.playing = false
	g.playerInControl = false
}

func (g *Game) IsPlaying() bool {
	return g.playing
}

func (g *Game) IsPlayerInControl() bool {
	return g.playerInControl
}

func (g *Game) Score() int64 {
	return g.score
}

// IsRemovingRow reports whether row y is flagged as completed.
func (g *Game) IsRemovingRow(y int) bool {
	return g.blocksPerRow[y] == -1
}

// RemoveProgress is 0 when a removal starts and 1 when the rows vanish.
func (g *Game) RemoveProgress() float32 {
	if g.removingRows <= 0 {
		return 0
	}
	return float32(g.removingRows-1) / float32(REMOVE_TIME)
}

// CurrentShape returns the falling shape index and its cells in visible
// playfield coordinates.
func (g *Game) CurrentShape() (int, [4]Point) {
	cells := Shapes[g.shapeIndex].Cells(g.shapeRotation)
	for i := range cells {
		cells[i].X += g.shapeX - 1
		cells[i].Y += g.shapeY
	}
	return g.shapeIndex, cells
}

func (g *Game) NextShape() int {
	return g.nextShapeIndex
}
