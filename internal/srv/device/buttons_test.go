package device

import (
	"time"

	"github.com/jypelle/cc69/internal/srv/event"
	"gopkg.in/check.v1"
	"periph.io/x/conn/v3/gpio"
)

type ButtonsSuite struct{}

var _ = check.Suite(&ButtonsSuite{})

type fakePin struct {
	level gpio.Level
}

func (p *fakePin) Read() gpio.Level {
	return p.level
}

func drain(ch chan event.InputEvent) []event.InputId {
	var ids []event.InputId
	for {
		select {
		case ev := <-ch:
			ids = append(ids, ev.InputId)
		default:
			return ids
		}
	}
}

func (s *ButtonsSuite) TestPressSendsOnce(c *check.C) {
	pin := &fakePin{level: gpio.High}
	button := newButton(event.START_INPUT, pin)
	ch := make(chan event.InputEvent, 16)
	now := time.Now()

	button.Refresh(now, ch)
	c.Assert(drain(ch), check.HasLen, 0)

	// Pull up: pressed means low
	pin.level = gpio.Low
	for i := 0; i < 10; i++ {
		button.Refresh(now.Add(time.Duration(i)*100*time.Millisecond), ch)
	}
	c.Assert(drain(ch), check.DeepEquals, []event.InputId{event.START_INPUT})

	pin.level = gpio.High
	button.Refresh(now.Add(2*time.Second), ch)
	pin.level = gpio.Low
	button.Refresh(now.Add(2*time.Second+10*time.Millisecond), ch)
	c.Assert(drain(ch), check.DeepEquals, []event.InputId{event.START_INPUT})
}

func (s *ButtonsSuite) TestPlusRepeats(c *check.C) {
	pin := &fakePin{level: gpio.Low}
	button := newButton(event.PLUS_INPUT, pin)
	ch := make(chan event.InputEvent, 16)
	now := time.Now()

	button.Refresh(now, ch)
	button.Refresh(now.Add(100*time.Millisecond), ch)
	button.Refresh(now.Add(200*time.Millisecond), ch)
	button.Refresh(now.Add(400*time.Millisecond), ch)
	c.Assert(drain(ch), check.DeepEquals, []event.InputId{event.PLUS_INPUT, event.PLUS_INPUT, event.PLUS_INPUT})
}
