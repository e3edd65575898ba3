package srv

import (
	"github.com/jypelle/cc69/internal/render"
)

// beginFrame waits for the next frame slot, collects the inputs and clears
// the screen. It returns false when the application is stopping.
func (s *ServerApp) beginFrame() bool {
	<-s.frameTicker.C
	s.events.Process()
	render.Clear()
	return !s.stopping.Load()
}

func (s *ServerApp) endFrame() {
	s.window.Swap()
}
