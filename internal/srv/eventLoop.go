package srv

import (
	"github.com/sirupsen/logrus"
)

// Run shows the screens until the user quits or AskStop is called. It must
// run on the thread that called Start.
func (s *ServerApp) Run() {
	for s.currentMode != END_MODE {
		logrus.Infof("Entering %s mode", s.currentMode)
		s.events.Reset()

		switch s.currentMode {
		case CLOCK_MODE:
			s.currentMode = s.runClock()
		case MENU_MODE:
			s.currentMode = s.runMenu()
		case PHOTO_MODE:
			s.currentMode = s.runPhotoViewer()
		case GAME_MODE:
			s.currentMode = s.runGame()
		default:
			logrus.Panicf("Unknown mode %d", s.currentMode)
		}

		if s.stopping.Load() {
			s.currentMode = END_MODE
		}
	}
	s.events.SetLEDs(false, false)
}
