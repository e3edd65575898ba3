package device

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/pkg/term"
	"github.com/sirupsen/logrus"
)

const (
	gatewareBaudRate         = 115200
	gatewareReadTimeout      = 200 * time.Millisecond
	gatewareMaxMessageLength = 16

	gatewarePidMisc = 1

	gatewareTxCommand      = 0
	gatewareTxSetReset     = 1
	gatewareTxReleaseReset = 2

	gatewareCmdReadStatus   = 0
	gatewareCmdWriteControl = 1

	gatewareStopLed  = 1
	gatewareStartLed = 2
)

var ErrNoReply = errors.New("gateware did not reply")

type gatewareMessage struct {
	pid  byte
	code byte
	data []byte
}

func (m gatewareMessage) encode() []byte {
	buf := []byte{m.code<<5 | m.pid}
	if len(m.data) > 0 {
		buf = append(buf, byte(len(m.data)))
		buf = append(buf, m.data...)
	}
	return buf
}

type GatewareStatus struct {
	StartPressed bool
	StopPressed  bool
	Handwheel    uint16
}

// Gateware is the serial board carrying the start and stop buttons with
// their LEDs and a handwheel.
type Gateware struct {
	lock         sync.Mutex
	port         io.ReadWriteCloser
	eventChannel chan event.InputEvent

	previous     GatewareStatus
	pollInterval time.Duration
	pollFailing  bool
	started      bool

	checkTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

// OpenGateware opens the serial device at 115200 8N1 in raw mode and
// resets the board. Reads give up after gatewareReadTimeout so a silent
// board is reported instead of blocking.
func OpenGateware(device string, pollInterval time.Duration) (*Gateware, error) {
	port, err := term.Open(device, term.Speed(gatewareBaudRate), term.RawMode, term.ReadTimeout(gatewareReadTimeout))
	if err != nil {
		return nil, fmt.Errorf("unable to open gateware %s: %w", device, err)
	}
	gateware, err := NewGateware(port, pollInterval)
	if err != nil {
		port.Close()
		return nil, err
	}
	return gateware, nil
}

// NewGateware talks to a board through an already opened port.
func NewGateware(port io.ReadWriteCloser, pollInterval time.Duration) (*Gateware, error) {
	d := &Gateware{
		port:         port,
		eventChannel: make(chan event.InputEvent, 16),
		pollInterval: pollInterval,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}

	// Synchronize with the board
	if _, err := port.Write(bytes.Repeat([]byte{0xff}, gatewareMaxMessageLength)); err != nil {
		return nil, fmt.Errorf("unable to synchronize gateware: %w", err)
	}

	if err := d.resetPeripheral(gatewarePidMisc); err != nil {
		return nil, err
	}

	status, err := d.Status()
	if err != nil {
		return nil, err
	}
	d.previous = status

	return d, nil
}

func (d *Gateware) write(msg gatewareMessage) error {
	buf := msg.encode()
	logrus.Debugf("Gateware send % x", buf)
	_, err := d.port.Write(buf)
	return err
}

// readFull fills buf from the port. A read that returns nothing means the
// port timed out.
func (d *Gateware) readFull(buf []byte) error {
	for n := 0; n < len(buf); {
		m, err := d.port.Read(buf[n:])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoReply, err)
		}
		if m == 0 {
			return ErrNoReply
		}
		n += m
	}
	return nil
}

// readReply reads a header byte, a length byte n and n+1 data bytes.
func (d *Gateware) readReply() (gatewareMessage, error) {
	var head [2]byte
	if err := d.readFull(head[:]); err != nil {
		return gatewareMessage{}, err
	}
	reply := gatewareMessage{
		pid:  head[0] & 0x1f,
		code: head[0] >> 5,
		data: make([]byte, int(head[1])+1),
	}
	if err := d.readFull(reply.data); err != nil {
		return gatewareMessage{}, err
	}
	return reply, nil
}

func (d *Gateware) readAck() (byte, error) {
	var ack [1]byte
	if err := d.readFull(ack[:]); err != nil {
		return 0, err
	}
	return ack[0], nil
}

func (d *Gateware) resetPeripheral(pid byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.write(gatewareMessage{pid: pid, code: gatewareTxSetReset}); err != nil {
		return err
	}
	if err := d.write(gatewareMessage{pid: pid, code: gatewareTxReleaseReset}); err != nil {
		return err
	}
	ack, err := d.readAck()
	if err != nil {
		return err
	}
	if ack == 0 {
		return fmt.Errorf("gateware refused to reset peripheral %d", pid)
	}
	return nil
}

// Status reads the buttons and the handwheel position.
func (d *Gateware) Status() (GatewareStatus, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	err := d.write(gatewareMessage{pid: gatewarePidMisc, code: gatewareTxCommand, data: []byte{gatewareCmdReadStatus}})
	if err != nil {
		return GatewareStatus{}, err
	}
	reply, err := d.readReply()
	if err != nil {
		return GatewareStatus{}, err
	}
	if len(reply.data) < 3 {
		return GatewareStatus{}, fmt.Errorf("short gateware status: % x", reply.data)
	}

	return GatewareStatus{
		StopPressed:  reply.data[0]&1 != 0,
		StartPressed: reply.data[0]&2 != 0,
		Handwheel:    uint16(reply.data[2])<<8 | uint16(reply.data[1]),
	}, nil
}

func (d *Gateware) setLed(led byte, on bool) error {
	value := led
	if on {
		value |= 0x80
	}
	return d.write(gatewareMessage{pid: gatewarePidMisc, code: gatewareTxCommand, data: []byte{gatewareCmdWriteControl, value, 0, 0}})
}

func (d *Gateware) SetLEDs(start bool, stop bool) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.setLed(gatewareStartLed, start); err != nil {
		return err
	}
	return d.setLed(gatewareStopLed, stop)
}

// SetLedPwm makes the LEDs glow; 0 switches the PWM off.
func (d *Gateware) SetLedPwm(start int, stop int) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	pwm := func(value int) byte {
		if value <= 0 {
			return 0
		}
		return 0x80 | byte(value&0x7f)
	}
	return d.write(gatewareMessage{pid: gatewarePidMisc, code: gatewareTxCommand, data: []byte{gatewareCmdWriteControl, 0, pwm(start), pwm(stop)}})
}

// statusEvents turns two consecutive statuses into inputs. Buttons fire
// when released; the handwheel counter wraps around.
func statusEvents(previous GatewareStatus, current GatewareStatus) []event.InputEvent {
	var events []event.InputEvent
	if previous.StartPressed && !current.StartPressed {
		events = append(events, event.InputEvent{InputId: event.START_INPUT})
	}
	if previous.StopPressed && !current.StopPressed {
		events = append(events, event.InputEvent{InputId: event.STOP_INPUT})
	}
	if delta := int16(current.Handwheel - previous.Handwheel); delta < 0 {
		events = append(events, event.InputEvent{InputId: event.MINUS_INPUT})
	} else if delta > 0 {
		events = append(events, event.InputEvent{InputId: event.PLUS_INPUT})
	}
	return events
}

func (d *Gateware) poll() {
	status, err := d.Status()
	if err != nil {
		if !d.pollFailing {
			logrus.Warnf("Unable to read gateware status: %v", err)
			d.pollFailing = true
		}
		return
	}
	d.pollFailing = false

	for _, ev := range statusEvents(d.previous, status) {
		select {
		case d.eventChannel <- ev:
		default:
			logrus.Debugf("Gateware event %s dropped", ev.InputId)
		}
	}
	d.previous = status
}

func (d *Gateware) Start() {
	logrus.Infof("Start gateware device")

	d.lock.Lock()
	d.started = true
	d.lock.Unlock()

	// Start periodic check
	d.checkTicker = time.NewTicker(d.pollInterval)
	go func() {
		for loop := true; loop; {
			select {
			case <-d.checkTicker.C:
				d.poll()
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Gateware) StopSendingEvent() {
	logrus.Infof("Stop gateware device")

	d.lock.Lock()
	started := d.started
	d.started = false
	d.lock.Unlock()

	if started {
		d.checkTicker.Stop()
		d.askDone <- true
		<-d.done
	}
}

// Close switches the LEDs off and releases the port.
func (d *Gateware) Close() error {
	d.StopSendingEvent()
	if err := d.SetLEDs(false, false); err != nil {
		logrus.Warnf("Unable to switch gateware LEDs off: %v", err)
	}
	return d.port.Close()
}

func (d *Gateware) EventChannel() chan event.InputEvent {
	return d.eventChannel
}
