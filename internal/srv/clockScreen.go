package srv

import (
	"image/color"
	"math"
	"time"

	"github.com/jypelle/cc69/internal/render"
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/texture"
	"github.com/sirupsen/logrus"
)

const (
	clockStartTime = 8*time.Hour + 55*time.Minute + 42*time.Second
	clockIconCount = 12
)

type talk int

const (
	NO_TALK talk = iota
	FIRST_TALK
	SECOND_TALK
	THIRD_TALK
)

// demoClock plays the opening scene: a clock starting at 8:55:42 that, after
// two speech balloons, races to 9:02:10 and stops a little later.
type demoClock struct {
	start    time.Time
	turbo    bool
	talk     talk
	finished bool

	// Hand positions, each on a 0-60 dial
	hour, minute, second float64
}

func newDemoClock(now time.Time) *demoClock {
	return &demoClock{
		start: now.Add(-clockStartTime),
	}
}

// speedUp makes the clock race from the next update on.
func (c *demoClock) speedUp() {
	c.turbo = true
}

func (c *demoClock) update(now time.Time) {
	elapsed := now.Sub(c.start)

	seconds := int(elapsed/time.Second) % 60
	minutes := int(elapsed/time.Minute) % 60
	hours := int(elapsed/time.Hour) % 12
	c.second = float64(elapsed%time.Minute) / float64(time.Second)
	c.minute = float64(minutes) + float64(seconds)/60
	c.hour = float64(hours) + c.minute/60

	c.talk = NO_TALK
	if minutes == 55 {
		if c.second >= 44 && c.second < 46 {
			c.talk = FIRST_TALK
		} else if c.second >= 46 && c.second < 48 {
			c.talk = SECOND_TALK
		} else if c.second > 48 {
			c.turbo = true
		}
	}
	if minutes == 2 && c.second > 10 {
		c.turbo = false
		c.talk = THIRD_TALK
	}
	if c.hour >= 9 && c.minute >= 2 && c.second >= 12 {
		c.finished = true
	}

	// One extra second per frame
	if c.turbo {
		c.start = c.start.Add(-time.Second)
	}
}

// handAngle converts a 0-60 dial value into a rotation in degrees from the
// positive x axis, 0 pointing up.
func handAngle(value float64) float32 {
	return float32(math.Mod(value+45, 60) * 6)
}

type clockScreen struct {
	background *texture.Texture
	icon       *texture.Texture
	hand       *texture.Texture
	talks      [3]*texture.Texture
}

func (s *ServerApp) runClock() Mode {
	screen := clockScreen{
		background: s.loadAsset(clockBackgroundAsset, solidImage(color.NRGBA{0x20, 0x30, 0x60, 0xff})),
		icon:       s.loadAsset(clockIconAsset, discImage(48, color.NRGBA{0xff, 0xff, 0xff, 0xff})),
		hand:       s.loadAsset(clockHandAsset, solidImage(color.White)),
		talks: [3]*texture.Texture{
			s.loadAsset(clockTalk1Asset, nil),
			s.loadAsset(clockTalk2Asset, nil),
			s.loadAsset(clockTalk3Asset, nil),
		},
	}
	defer releaseAll(screen.background, screen.icon, screen.hand, screen.talks[0], screen.talks[1], screen.talks[2])

	clock := newDemoClock(time.Now())
	for !clock.finished {
		if !s.beginFrame() {
			return END_MODE
		}
		clock.update(time.Now())

		if s.events.CheckAndReset(event.EXIT_INPUT) {
			break
		} else if s.events.CheckAndReset(event.START_INPUT) {
			clock.speedUp()
		}

		s.drawClock(&screen, clock)
		s.endFrame()
	}
	logrus.Debugf("Clock stopped at %.2f:%.2f:%.2f", clock.hour, clock.minute, clock.second)
	return MENU_MODE
}

func (s *ServerApp) drawClock(screen *clockScreen, clock *demoClock) {
	s.drawFullScreen(screen.background)

	radius := s.width * 0.25
	centerX, centerY := s.width/2, s.height/2

	if screen.icon != nil {
		w := float32(screen.icon.Width())
		h := float32(screen.icon.Height())
		for n := 0; n < clockIconCount; n++ {
			angle := float64(n) * math.Pi / 6
			x := centerX + radius*float32(math.Cos(angle))
			y := centerY + radius*float32(math.Sin(angle))
			rect := texture.Rect{Left: x - w/2, Top: y - h/2, Right: x + w/2, Bottom: y + h/2}
			if err := render.DrawTexture(screen.icon, rect); err != nil {
				logrus.Warnf("Unable to draw clock icon: %v", err)
				break
			}
		}
	}

	if clock.talk != NO_TALK {
		s.drawFullScreen(screen.talks[clock.talk-FIRST_TALK])
	}

	s.drawHand(screen.hand, clock.hour*5, 50, radius)
	s.drawHand(screen.hand, clock.minute, 30, radius*0.75)
	s.drawHand(screen.hand, clock.second, 20, radius)
}

func (s *ServerApp) drawHand(hand *texture.Texture, value float64, thickness float32, length float32) {
	if hand == nil {
		return
	}
	render.PushMatrix()
	render.Translate(s.width/2, s.height/2)
	render.Rotate(handAngle(value))
	err := render.DrawTexture(hand, texture.Rect{Left: 0, Top: -thickness, Right: length, Bottom: thickness})
	render.PopMatrix()
	if err != nil {
		logrus.Warnf("Unable to draw clock hand: %v", err)
	}
}
