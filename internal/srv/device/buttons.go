package device

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const buttonStep = 160 * time.Millisecond

// pinReader is the part of gpio.PinIO a button needs.
type pinReader interface {
	Read() gpio.Level
}

type Button struct {
	inputId        event.InputId
	pin            pinReader
	repeat         bool
	isPressed      bool
	pressStepCount int64
	lastChange     time.Time
}

func NewButton(inputId event.InputId, name string) (*Button, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("failed to find %s pin", name)
	}

	// Set it as input, with an internal pull up resistor:
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to setup %s pin: %w", name, err)
	}
	return newButton(inputId, pin), nil
}

func newButton(inputId event.InputId, pin pinReader) *Button {
	return &Button{
		inputId: inputId,
		pin:     pin,
		repeat:  inputId == event.PLUS_INPUT || inputId == event.MINUS_INPUT,
	}
}

// Refresh samples the pin. A press sends the input once, plus and minus
// keep repeating it every step while held.
func (b *Button) Refresh(now time.Time, eventChannel chan event.InputEvent) {
	wasPressed := b.isPressed
	b.isPressed = !bool(b.pin.Read())

	if !b.isPressed {
		if wasPressed {
			b.lastChange = now
			b.pressStepCount = 0
		}
		return
	}

	if b.lastChange.Add(buttonStep).Before(now) || !wasPressed {
		b.lastChange = now
		b.pressStepCount++
		if b.pressStepCount == 1 || b.repeat {
			select {
			case eventChannel <- event.InputEvent{InputId: b.inputId}:
			default:
				logrus.Debugf("Button event %s dropped", b.inputId)
			}
		}
	}
}

type Buttons struct {
	lock         sync.RWMutex
	eventChannel chan event.InputEvent

	pins    map[string]string
	buttons []*Button

	checkTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

// NewButtons prepares GPIO buttons from a map of input names to pin names.
func NewButtons(pins map[string]string) *Buttons {
	device := Buttons{
		eventChannel: make(chan event.InputEvent, 16),
		pins:         pins,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}

	return &device
}

func (d *Buttons) Start() error {
	logrus.Infof("Start buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("unable to init gpio host: %w", err)
	}

	names := make([]string, 0, len(d.pins))
	for name := range d.pins {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		inputId, err := event.ParseInputId(name)
		if err != nil || inputId == event.MOUSE_INPUT {
			logrus.Warnf("Ignore button mapped to %s", name)
			continue
		}
		button, err := NewButton(inputId, d.pins[name])
		if err != nil {
			return err
		}
		d.buttons = append(d.buttons, button)
	}

	d.startPolling()
	return nil
}

func (d *Buttons) startPolling() {
	// Start periodic check
	d.checkTicker = time.NewTicker(5 * time.Millisecond)
	go func() {
		for loop := true; loop; {
			select {
			case now := <-d.checkTicker.C:
				d.lock.RLock()
				for _, button := range d.buttons {
					button.Refresh(now, d.eventChannel)
				}
				d.lock.RUnlock()
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Buttons) StopSendingEvent() {
	logrus.Infof("Stop buttons device")

	if d.checkTicker == nil {
		return
	}
	d.checkTicker.Stop()
	d.askDone <- true
	<-d.done
	d.checkTicker = nil
}

func (d *Buttons) EventChannel() chan event.InputEvent {
	return d.eventChannel
}
