package game

type Point struct {
	X, Y int
}

// Rotate turns p by quarter turns around the shape origin.
func (p Point) Rotate(rotation int) Point {
	switch rotation & 3 {
	case 1:
		return Point{X: -p.Y, Y: p.X}
	case 2:
		return Point{X: -p.X, Y: -p.Y}
	case 3:
		return Point{X: p.Y, Y: -p.X}
	}
	return p
}

// Shape is a tetromino; its index in Shapes is also the block it is drawn with.
type Shape struct {
	Name   string
	Points [4]Point
}

var Shapes = [BLOCK_COUNT]Shape{
	{"I", [4]Point{{-2, 0}, {-1, 0}, {0, 0}, {1, 0}}},
	{"J", [4]Point{{0, -1}, {0, 0}, {1, 0}, {2, 0}}},
	{"L", [4]Point{{-2, 0}, {-1, 0}, {0, 0}, {0, -1}}},
	{"O", [4]Point{{1, -1}, {1, 0}, {0, 0}, {0, -1}}},
	{"S", [4]Point{{-1, 0}, {0, 0}, {0, -1}, {1, -1}}},
	{"T", [4]Point{{-1, 0}, {0, 0}, {1, 0}, {0, -1}}},
	{"Z", [4]Point{{-1, -1}, {0, -1}, {0, 0}, {1, 0}}},
}

// Cells returns the shape points at the given rotation, relative to its origin.
func (s *Shape) Cells(rotation int) [4]Point {
	var cells [4]Point
	for i, p := range s.Points {
		cells[i] = p.Rotate(rotation)
	}
	return cells
}
