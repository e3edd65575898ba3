package srv

import (
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/srv/input"
	"gopkg.in/check.v1"
)

type PhotoViewerSuite struct {
	events *input.Events
	viewer *photoViewer
}

var _ = check.Suite(&PhotoViewerSuite{})

func (s *PhotoViewerSuite) SetUpTest(c *check.C) {
	s.events = input.NewEvents(800)
	s.viewer = newPhotoViewer(5, 0, 3, 5, 60)
}

func (s *PhotoViewerSuite) press(id event.InputId) {
	s.events.Push(event.InputEvent{InputId: id})
	s.viewer.handleInput(s.events)
}

func (s *PhotoViewerSuite) TestStartOutOfRange(c *check.C) {
	c.Assert(newPhotoViewer(5, 7, 3, 5, 60).current, check.Equals, 0)
	c.Assert(newPhotoViewer(5, 3, 3, 5, 60).current, check.Equals, 3)
}

func (s *PhotoViewerSuite) TestNavigationWraps(c *check.C) {
	s.press(event.LEFT_INPUT)
	c.Assert(s.viewer.current, check.Equals, 4)
	c.Assert(s.viewer.previous, check.Equals, 0)
	c.Assert(s.viewer.direction, check.Equals, -1)
	c.Assert(s.viewer.animation, check.Equals, SLIDE_FROM_LEFT_ANIMATION)

	s.press(event.RIGHT_INPUT)
	c.Assert(s.viewer.current, check.Equals, 0)
	c.Assert(s.viewer.animation, check.Equals, SLIDE_FROM_RIGHT_ANIMATION)
	c.Assert(s.viewer.animationCounter, check.Equals, float32(0))
}

func (s *PhotoViewerSuite) TestSlideEndsAfterScreenWidth(c *check.C) {
	s.press(event.RIGHT_INPUT)
	for i := 0; i < 3; i++ {
		s.viewer.advanceAnimation(100)
	}
	c.Assert(s.viewer.animation, check.Equals, SLIDE_FROM_RIGHT_ANIMATION)
	s.viewer.advanceAnimation(100)
	c.Assert(s.viewer.animation, check.Equals, NO_ANIMATION)
}

func (s *PhotoViewerSuite) TestSkippingCorruptKeepsAnimation(c *check.C) {
	s.press(event.RIGHT_INPUT)
	s.viewer.next(s.viewer.direction, false)
	c.Assert(s.viewer.current, check.Equals, 2)
	c.Assert(s.viewer.previous, check.Equals, 0)
	c.Assert(s.viewer.animation, check.Equals, SLIDE_FROM_RIGHT_ANIMATION)
}

func (s *PhotoViewerSuite) TestZoom(c *check.C) {
	s.press(event.PLUS_INPUT)
	s.press(event.PLUS_INPUT)
	s.press(event.MINUS_INPUT)
	c.Assert(s.viewer.zoom, check.Equals, float32(5))
}

func (s *PhotoViewerSuite) TestStopLeaves(c *check.C) {
	s.press(event.STOP_INPUT)
	c.Assert(s.viewer.leaving, check.Equals, true)
}

func (s *PhotoViewerSuite) TestSlideshow(c *check.C) {
	s.press(event.START_INPUT)
	c.Assert(s.viewer.isSlideshow(), check.Equals, true)

	for i := 0; i < 3; i++ {
		s.viewer.tick()
	}
	c.Assert(s.viewer.current, check.Equals, 0)
	s.viewer.tick()
	c.Assert(s.viewer.current, check.Equals, 1)
	c.Assert(s.viewer.animation, check.Equals, BLEND_ANIMATION)

	// The interval only runs between animations
	for i := 0; i < 10; i++ {
		s.viewer.tick()
	}
	c.Assert(s.viewer.current, check.Equals, 1)
	for s.viewer.animation != NO_ANIMATION {
		s.viewer.advanceAnimation(800)
	}
	for i := 0; i < 4; i++ {
		s.viewer.tick()
	}
	c.Assert(s.viewer.current, check.Equals, 2)
}

func (s *PhotoViewerSuite) TestStopEndsSlideshowFirst(c *check.C) {
	s.press(event.START_INPUT)
	s.press(event.STOP_INPUT)
	c.Assert(s.viewer.isSlideshow(), check.Equals, false)
	c.Assert(s.viewer.leaving, check.Equals, false)

	s.press(event.START_INPUT)
	s.press(event.RIGHT_INPUT)
	c.Assert(s.viewer.isSlideshow(), check.Equals, false)
}

func (s *PhotoViewerSuite) TestFilenameShownAfterChange(c *check.C) {
	for i := 0; i < 2*60; i++ {
		s.viewer.tick()
	}
	c.Assert(s.viewer.filenameFrames, check.Equals, 0)
	s.press(event.RIGHT_INPUT)
	c.Assert(s.viewer.filenameFrames, check.Equals, 2*60)
}
