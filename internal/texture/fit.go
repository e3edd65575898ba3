package texture

// Rect is a screen rectangle in pixels.
type Rect struct {
	Left, Top, Right, Bottom float32
}

func (r Rect) Width() float32 {
	return r.Right - r.Left
}

func (r Rect) Height() float32 {
	return r.Bottom - r.Top
}

// Grow pushes every edge outwards by amount. A negative amount shrinks the
// rectangle but never turns it inside out.
func (r Rect) Grow(amount float32) Rect {
	r.Left -= amount
	r.Top -= amount
	r.Right += amount
	r.Bottom += amount
	if r.Left > r.Right {
		r.Left = r.Right
	}
	if r.Bottom < r.Top {
		r.Bottom = r.Top
	}
	return r
}

// Fit centers a width x height picture on the screen. Pictures that do not
// fit are scaled down keeping their aspect ratio.
func Fit(width, height, screenWidth, screenHeight float32) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	if width >= screenWidth || height >= screenHeight {
		scale := min(screenWidth/width, screenHeight/height)
		width *= scale
		height *= scale
	}
	left := (screenWidth - width) / 2
	top := (screenHeight - height) / 2
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}
