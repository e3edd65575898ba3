// Package input merges the window, Gateware, GPIO and API inputs into the
// per frame flags read by the screens.
package input

import (
	"image"

	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// Poller is a synchronous input source, polled once per frame.
type Poller interface {
	PollEvents() []event.InputEvent
}

// LedSetter drives the start and stop button leds.
type LedSetter interface {
	SetLEDs(start bool, stop bool) error
}

type Events struct {
	screenWidth int
	pollers     []Poller
	sources     []chan event.InputEvent
	ledSetters  []LedSetter

	flags  [event.INPUT_COUNT]bool
	clicks []image.Point
}

func NewEvents(screenWidth int) *Events {
	return &Events{
		screenWidth: screenWidth,
	}
}

func (e *Events) AddPoller(poller Poller) {
	e.pollers = append(e.pollers, poller)
}

// AddSource attaches a device channel. A nil channel is ignored.
func (e *Events) AddSource(source chan event.InputEvent) {
	if source != nil {
		e.sources = append(e.sources, source)
	}
}

func (e *Events) AddLedSetter(ledSetter LedSetter) {
	e.ledSetters = append(e.ledSetters, ledSetter)
}

// Process collects every pending input without blocking.
func (e *Events) Process() {
	for _, poller := range e.pollers {
		for _, ev := range poller.PollEvents() {
			e.Push(ev)
		}
	}
	for _, source := range e.sources {
		for drain := true; drain; {
			select {
			case ev := <-source:
				e.Push(ev)
			default:
				drain = false
			}
		}
	}
}

// Push raises the flag of ev. Clicks near the left or right edge of the
// screen also count as LEFT or RIGHT.
func (e *Events) Push(ev event.InputEvent) {
	if ev.InputId == event.MOUSE_INPUT {
		logrus.Debugf("Click at %d,%d", ev.X, ev.Y)
		e.clicks = append(e.clicks, image.Pt(ev.X, ev.Y))
		quarter := e.screenWidth / 4
		if ev.X >= e.screenWidth-quarter {
			e.flags[event.RIGHT_INPUT] = true
		} else if ev.X < quarter {
			e.flags[event.LEFT_INPUT] = true
		}
		return
	}
	if ev.InputId < 0 || int(ev.InputId) >= event.INPUT_COUNT {
		logrus.Warnf("Ignoring unknown input %d", int(ev.InputId))
		return
	}
	logrus.Debugf("Input %s", ev.InputId)
	e.flags[ev.InputId] = true
}

// CheckAndReset reports whether id was raised since the last call and clears it.
func (e *Events) CheckAndReset(id event.InputId) bool {
	if id < 0 || int(id) >= event.INPUT_COUNT {
		return false
	}
	raised := e.flags[id]
	e.flags[id] = false
	return raised
}

// NextMouseEvent pops the oldest pending click.
func (e *Events) NextMouseEvent() (image.Point, bool) {
	if len(e.clicks) == 0 {
		return image.Point{}, false
	}
	click := e.clicks[0]
	e.clicks = e.clicks[1:]
	return click, true
}

func (e *Events) Reset() {
	e.flags = [event.INPUT_COUNT]bool{}
	e.clicks = nil
}

func (e *Events) SetLEDs(start bool, stop bool) {
	for _, ledSetter := range e.ledSetters {
		if err := ledSetter.SetLEDs(start, stop); err != nil {
			logrus.Warnf("Unable to set leds: %v", err)
		}
	}
}
