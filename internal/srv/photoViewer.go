package srv

import (
	"github.com/jypelle/cc69/internal/library"
	"github.com/jypelle/cc69/internal/render"
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/srv/input"
	"github.com/jypelle/cc69/internal/texture"
	"github.com/sirupsen/logrus"
)

const (
	slideStep = 25
	blendStep = 0.08
	// Seconds the filename stays visible after a picture change
	filenameDisplayTime = 2
)

type animation int

const (
	NO_ANIMATION animation = iota
	SLIDE_FROM_LEFT_ANIMATION
	SLIDE_FROM_RIGHT_ANIMATION
	BLEND_ANIMATION
)

type transition int

const (
	NO_TRANSITION transition = iota
	SLIDE_TRANSITION
	BLEND_TRANSITION
)

// photoViewer is the navigation state of the photo screen; pictures are
// fetched from the library while drawing.
type photoViewer struct {
	size      int
	current   int
	previous  int
	direction int

	zoom     float32
	zoomStep float32

	slideshowFrames   int
	slideshowInterval int
	slideshowCounter  int

	transition       transition
	animation        animation
	animationCounter float32

	filenameFrames int
	filenameTime   int
	leaving        bool
}

func newPhotoViewer(size int, start int, slideshowFrames int, zoomStep float32, fps int) *photoViewer {
	if start < 0 || start >= size {
		start = 0
	}
	return &photoViewer{
		size:            size,
		current:         start,
		previous:        start,
		direction:       1,
		zoomStep:        zoomStep,
		slideshowFrames: slideshowFrames,
		filenameTime:    filenameDisplayTime * fps,
		filenameFrames:  filenameDisplayTime * fps,
	}
}

func (p *photoViewer) isSlideshow() bool {
	return p.slideshowInterval > 0
}

func (p *photoViewer) stopSlideshow() {
	p.slideshowInterval = 0
}

// handleInput applies at most one input per frame.
func (p *photoViewer) handleInput(events *input.Events) {
	if events.CheckAndReset(event.EXIT_INPUT) {
		p.leaving = true
	} else if events.CheckAndReset(event.LEFT_INPUT) {
		p.transition = SLIDE_TRANSITION
		p.next(-1, true)
		p.stopSlideshow()
	} else if events.CheckAndReset(event.RIGHT_INPUT) {
		p.transition = SLIDE_TRANSITION
		p.next(1, true)
		p.stopSlideshow()
	} else if events.CheckAndReset(event.MINUS_INPUT) {
		p.zoom -= p.zoomStep
	} else if events.CheckAndReset(event.PLUS_INPUT) {
		p.zoom += p.zoomStep
	} else if events.CheckAndReset(event.STOP_INPUT) {
		if !p.isSlideshow() {
			p.leaving = true
		}
		p.stopSlideshow()
	} else if events.CheckAndReset(event.START_INPUT) {
		p.slideshowInterval = p.slideshowFrames
		p.slideshowCounter = p.slideshowInterval
		p.transition = BLEND_TRANSITION
	}
}

// next moves to the neighbour in direction. With withAnimation the picture
// being left is remembered and animated out.
func (p *photoViewer) next(direction int, withAnimation bool) {
	if withAnimation {
		p.previous = p.current
		switch p.transition {
		case SLIDE_TRANSITION:
			if direction < 0 {
				p.animation = SLIDE_FROM_LEFT_ANIMATION
			} else {
				p.animation = SLIDE_FROM_RIGHT_ANIMATION
			}
		case BLEND_TRANSITION:
			p.animation = BLEND_ANIMATION
		default:
			p.animation = NO_ANIMATION
		}
		p.animationCounter = 0
		p.filenameFrames = p.filenameTime
	}
	if direction < 0 {
		p.current = (p.current + p.size - 1) % p.size
		p.direction = -1
	} else {
		p.current = (p.current + 1) % p.size
		p.direction = 1
	}
}

// advanceAnimation moves the running animation one frame forward.
func (p *photoViewer) advanceAnimation(screenWidth float32) {
	switch p.animation {
	case SLIDE_FROM_LEFT_ANIMATION, SLIDE_FROM_RIGHT_ANIMATION:
		p.animationCounter += slideStep
		if p.animationCounter >= screenWidth {
			p.animation = NO_ANIMATION
		}
	case BLEND_ANIMATION:
		p.animationCounter += blendStep
		if p.animationCounter >= 1 {
			p.animation = NO_ANIMATION
		}
	}
}

// tick runs the slideshow clock once the animation is over.
func (p *photoViewer) tick() {
	if p.filenameFrames > 0 {
		p.filenameFrames--
	}
	if !p.isSlideshow() || p.animation != NO_ANIMATION {
		return
	}
	p.slideshowCounter--
	if p.slideshowCounter < 0 {
		p.next(1, true)
		p.slideshowCounter = p.slideshowInterval
	}
}

// startIndex resumes at the last picture shown, if it is still there.
func (s *ServerApp) startIndex() int {
	index, path := s.LastPhoto()
	if p, err := s.library.Path(int(index)); err == nil && p == path {
		return int(index)
	}
	if path != "" {
		for i := 0; i < s.library.Size(); i++ {
			if p, _ := s.library.Path(i); p == path {
				return i
			}
		}
	}
	return 0
}

func (s *ServerApp) runPhotoViewer() Mode {
	if s.library.Size() == 0 {
		logrus.Warnf("No pictures to show")
		return MENU_MODE
	}

	messageWidth := s.width * 0.25
	messageHeight := s.height / 10
	message := NewMessageWindow(int(messageWidth), int(messageHeight), 10)
	message.SetPosition((s.width-messageWidth)/2, s.height-messageHeight*1.5)
	defer message.Release()

	viewer := newPhotoViewer(
		s.library.Size(),
		s.startIndex(),
		s.SlideshowFrames(),
		float32(s.PhotoViewerParam.ZoomStep),
		int(s.ScreenParam.Fps))
	s.events.SetLEDs(true, true)

	for !viewer.leaving {
		if !s.beginFrame() {
			return END_MODE
		}
		viewer.handleInput(s.events)
		s.drawPhotoViewer(viewer, message)
		s.endFrame()
		viewer.tick()
	}
	return MENU_MODE
}

// acquirePictures locks the picture to show, skipping corrupt ones in the
// current direction, and the one being animated out if any. current is nil
// when the whole library is corrupt.
func (s *ServerApp) acquirePictures(viewer *photoViewer) (current *library.Image, previous *library.Image) {
	if viewer.animation != NO_ANIMATION && viewer.previous != viewer.current {
		img, err := s.library.AcquireLocked(viewer.previous)
		if err != nil {
			logrus.Warnf("Unable to fetch previous picture: %v", err)
		} else if img.IsCorrupt() {
			img.Unlock()
		} else {
			previous = img
		}
	}
	if previous == nil {
		viewer.animation = NO_ANIMATION
	}

	original := viewer.current
	for {
		// Already locked as the previous picture
		if previous != nil && viewer.current == viewer.previous {
			viewer.animation = NO_ANIMATION
			return previous, nil
		}
		img, err := s.library.AcquireLocked(viewer.current)
		if err != nil {
			logrus.Warnf("Unable to fetch picture: %v", err)
			break
		}
		if !img.IsCorrupt() {
			return img, previous
		}
		img.Unlock()
		viewer.next(viewer.direction, false)
		if viewer.current == original {
			break
		}
	}

	if previous != nil {
		previous.Unlock()
	}
	return nil, nil
}

func (s *ServerApp) drawPhotoViewer(viewer *photoViewer, message *MessageWindow) {
	current, previous := s.acquirePictures(viewer)
	if current == nil {
		message.Update("Geen plaatjes")
		message.Render(1)
		return
	}
	defer current.Unlock()
	if previous != nil {
		defer previous.Unlock()
	}

	if previous != nil {
		switch viewer.animation {
		case SLIDE_FROM_LEFT_ANIMATION:
			s.drawPicture(previous, viewer.zoom, viewer.animationCounter, 1)
			s.drawPicture(current, viewer.zoom, viewer.animationCounter-s.width, 1)
		case SLIDE_FROM_RIGHT_ANIMATION:
			s.drawPicture(previous, viewer.zoom, -viewer.animationCounter, 1)
			s.drawPicture(current, viewer.zoom, s.width-viewer.animationCounter, 1)
		case BLEND_ANIMATION:
			s.drawPicture(previous, viewer.zoom, 0, 1)
			s.drawPicture(current, viewer.zoom, 0, viewer.animationCounter)
		}
		viewer.advanceAnimation(s.width)
	} else {
		s.drawPicture(current, viewer.zoom, 0, 1)
	}

	s.SetLastPhoto(int64(viewer.current), current.Path())

	message.Update(current.Filename())
	if viewer.filenameFrames > 0 {
		message.Render(1)
	}
}

func (s *ServerApp) drawPicture(img *library.Image, zoom float32, offsetX float32, alpha float32) {
	rect := texture.Fit(float32(img.Width()), float32(img.Height()), s.width, s.height).Grow(zoom)
	rect.Left += offsetX
	rect.Right += offsetX

	render.SetColor(1, 1, 1, alpha)
	err := render.DrawTexture(img.Texture(), rect)
	render.SetColor(1, 1, 1, 1)
	if err != nil {
		logrus.Warnf("Unable to draw %s: %v", img.Path(), err)
	}
}
