package srv

import (
	"math"
	"time"

	"gopkg.in/check.v1"
)

type ClockSuite struct {
	t0 time.Time
}

var _ = check.Suite(&ClockSuite{})

func (s *ClockSuite) SetUpTest(c *check.C) {
	s.t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ClockSuite) TestStartsAtFiveToNine(c *check.C) {
	clock := newDemoClock(s.t0)
	clock.update(s.t0)

	c.Assert(clock.second, check.Equals, float64(42))
	c.Assert(math.Abs(clock.minute-(55+42.0/60)) < 1e-9, check.Equals, true)
	c.Assert(math.Abs(clock.hour-(8+55.7/60)) < 1e-9, check.Equals, true)
	c.Assert(clock.talk, check.Equals, NO_TALK)
	c.Assert(clock.turbo, check.Equals, false)
	c.Assert(clock.finished, check.Equals, false)
}

func (s *ClockSuite) TestScenario(c *check.C) {
	clock := newDemoClock(s.t0)

	clock.update(s.t0.Add(2500 * time.Millisecond))
	c.Assert(clock.talk, check.Equals, FIRST_TALK)

	clock.update(s.t0.Add(4500 * time.Millisecond))
	c.Assert(clock.talk, check.Equals, SECOND_TALK)
	c.Assert(clock.turbo, check.Equals, false)

	clock.update(s.t0.Add(6500 * time.Millisecond))
	c.Assert(clock.talk, check.Equals, NO_TALK)
	c.Assert(clock.turbo, check.Equals, true)

	// Same wall time, one second later on the dial
	clock.update(s.t0.Add(6500 * time.Millisecond))
	c.Assert(clock.second, check.Equals, 49.5)
}

func (s *ClockSuite) TestStopsRacingAndEnds(c *check.C) {
	clock := newDemoClock(s.t0)
	clock.speedUp()

	// 9:02:11 on the dial
	clock.update(s.t0.Add(6*time.Minute + 29*time.Second))
	c.Assert(clock.turbo, check.Equals, false)
	c.Assert(clock.talk, check.Equals, THIRD_TALK)
	c.Assert(clock.finished, check.Equals, false)

	clock.update(s.t0.Add(6*time.Minute + 30*time.Second))
	c.Assert(clock.finished, check.Equals, true)
}

func (s *ClockSuite) TestTurboAdvancesOneSecondPerFrame(c *check.C) {
	clock := newDemoClock(s.t0)
	clock.speedUp()
	clock.update(s.t0)
	c.Assert(clock.second, check.Equals, float64(42))
	clock.update(s.t0)
	c.Assert(clock.second, check.Equals, float64(43))
}

func (s *ClockSuite) TestHandAngle(c *check.C) {
	c.Assert(handAngle(0), check.Equals, float32(270))
	c.Assert(handAngle(15), check.Equals, float32(0))
	c.Assert(handAngle(30), check.Equals, float32(90))
	c.Assert(handAngle(45), check.Equals, float32(180))
}
