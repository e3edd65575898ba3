package device

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/jypelle/cc69/internal/srv/event"
	"gopkg.in/check.v1"
)

type GatewareSuite struct{}

var _ = check.Suite(&GatewareSuite{})

// fakeBoard answers every message the way the Gateware board does. Each
// Write carries exactly one message.
type fakeBoard struct {
	lock         sync.Mutex
	written      [][]byte
	replies      bytes.Buffer
	refuseReset  bool
	status       GatewareStatus
	statusErrors int
	closed       bool
}

func (b *fakeBoard) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.written = append(b.written, append([]byte(nil), p...))
	if bytes.Equal(p, bytes.Repeat([]byte{0xff}, len(p))) {
		return len(p), nil
	}

	switch p[0] >> 5 {
	case gatewareTxReleaseReset:
		if b.refuseReset {
			b.replies.WriteByte(0)
		} else {
			b.replies.WriteByte(0x41)
		}
	case gatewareTxCommand:
		if len(p) >= 3 && p[2] == gatewareCmdReadStatus && b.statusErrors == 0 {
			var flags byte
			if b.status.StopPressed {
				flags |= 1
			}
			if b.status.StartPressed {
				flags |= 2
			}
			b.replies.Write([]byte{gatewarePidMisc, 2, flags, byte(b.status.Handwheel), byte(b.status.Handwheel >> 8)})
		} else if b.statusErrors > 0 {
			b.statusErrors--
		}
	}
	return len(p), nil
}

func (b *fakeBoard) Read(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.replies.Len() == 0 {
		return 0, io.EOF
	}
	return b.replies.Read(p)
}

func (b *fakeBoard) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.closed = true
	return nil
}

func (b *fakeBoard) setStatus(status GatewareStatus) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.status = status
}

func (b *fakeBoard) messages() [][]byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([][]byte(nil), b.written...)
}

func (s *GatewareSuite) TestInitSequence(c *check.C) {
	board := &fakeBoard{status: GatewareStatus{Handwheel: 0x1234}}
	gateware, err := NewGateware(board, time.Millisecond)
	c.Assert(err, check.IsNil)

	c.Assert(board.messages(), check.DeepEquals, [][]byte{
		bytes.Repeat([]byte{0xff}, 16),
		{0x21},
		{0x41},
		{0x01, 0x01, 0x00},
	})
	c.Assert(gateware.previous, check.Equals, GatewareStatus{Handwheel: 0x1234})
}

func (s *GatewareSuite) TestRefusedReset(c *check.C) {
	_, err := NewGateware(&fakeBoard{refuseReset: true}, time.Millisecond)
	c.Assert(err, check.ErrorMatches, ".*refused.*")
}

func (s *GatewareSuite) TestMissingReply(c *check.C) {
	board := &fakeBoard{}
	gateware, err := NewGateware(board, time.Millisecond)
	c.Assert(err, check.IsNil)

	board.lock.Lock()
	board.statusErrors = 1
	board.lock.Unlock()
	_, err = gateware.Status()
	c.Assert(err, check.ErrorMatches, ".*did not reply.*")
}

// silentPort accepts everything and answers nothing, like a tty whose read
// timeout expires.
type silentPort struct {
	silent bool
	fakeBoard
}

func (p *silentPort) Read(b []byte) (int, error) {
	p.lock.Lock()
	silent := p.silent
	p.lock.Unlock()
	if silent {
		return 0, nil
	}
	return p.fakeBoard.Read(b)
}

func (s *GatewareSuite) TestSilentBoardIsReported(c *check.C) {
	opened := make(chan error, 1)
	go func() {
		_, err := NewGateware(&silentPort{silent: true}, time.Millisecond)
		opened <- err
	}()
	select {
	case err := <-opened:
		c.Assert(errors.Is(err, ErrNoReply), check.Equals, true)
	case <-time.After(5 * time.Second):
		c.Fatal("NewGateware blocked on a silent board")
	}
}

func (s *GatewareSuite) TestBoardFallingSilentDoesNotBlockStop(c *check.C) {
	port := &silentPort{}
	gateware, err := NewGateware(port, time.Millisecond)
	c.Assert(err, check.IsNil)
	gateware.Start()

	port.lock.Lock()
	port.silent = true
	port.lock.Unlock()
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan error, 1)
	go func() { stopped <- gateware.Close() }()
	select {
	case err := <-stopped:
		c.Assert(err, check.IsNil)
	case <-time.After(5 * time.Second):
		c.Fatal("Close blocked on a silent board")
	}
	c.Assert(port.closed, check.Equals, true)
}

func (s *GatewareSuite) TestLeds(c *check.C) {
	board := &fakeBoard{}
	gateware, err := NewGateware(board, time.Millisecond)
	c.Assert(err, check.IsNil)

	c.Assert(gateware.SetLEDs(true, false), check.IsNil)
	c.Assert(gateware.SetLedPwm(5, 0), check.IsNil)

	messages := board.messages()
	c.Assert(messages[len(messages)-3:], check.DeepEquals, [][]byte{
		{0x01, 4, 1, 0x82, 0, 0},
		{0x01, 4, 1, 0x01, 0, 0},
		{0x01, 4, 1, 0, 0x85, 0},
	})
}

func (s *GatewareSuite) TestStatusEvents(c *check.C) {
	pressed := GatewareStatus{StartPressed: true, StopPressed: true, Handwheel: 10}

	c.Assert(statusEvents(GatewareStatus{Handwheel: 10}, pressed), check.HasLen, 0)
	c.Assert(statusEvents(pressed, GatewareStatus{Handwheel: 10}), check.DeepEquals, []event.InputEvent{
		{InputId: event.START_INPUT},
		{InputId: event.STOP_INPUT},
	})
	c.Assert(statusEvents(GatewareStatus{Handwheel: 10}, GatewareStatus{Handwheel: 12}), check.DeepEquals, []event.InputEvent{{InputId: event.PLUS_INPUT}})
	c.Assert(statusEvents(GatewareStatus{Handwheel: 10}, GatewareStatus{Handwheel: 9}), check.DeepEquals, []event.InputEvent{{InputId: event.MINUS_INPUT}})
	c.Assert(statusEvents(GatewareStatus{Handwheel: 0xffff}, GatewareStatus{Handwheel: 1}), check.DeepEquals, []event.InputEvent{{InputId: event.PLUS_INPUT}})
}

func (s *GatewareSuite) TestPollingSendsEvents(c *check.C) {
	board := &fakeBoard{}
	gateware, err := NewGateware(board, time.Millisecond)
	c.Assert(err, check.IsNil)

	gateware.Start()
	board.setStatus(GatewareStatus{StartPressed: true})
	time.Sleep(20 * time.Millisecond)
	board.setStatus(GatewareStatus{})

	select {
	case ev := <-gateware.EventChannel():
		c.Assert(ev.InputId, check.Equals, event.START_INPUT)
	case <-time.After(5 * time.Second):
		c.Fatal("No event from the gateware")
	}

	c.Assert(gateware.Close(), check.IsNil)
	board.lock.Lock()
	c.Assert(board.closed, check.Equals, true)
	board.lock.Unlock()
}
