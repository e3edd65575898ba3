package srv

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jypelle/cc69/internal/library"
	"github.com/jypelle/cc69/internal/render"
	"github.com/jypelle/cc69/internal/srv/config"
	"github.com/jypelle/cc69/internal/srv/device"
	"github.com/jypelle/cc69/internal/srv/input"
	"github.com/jypelle/cc69/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig
	window         *render.Window
	library        *library.Library
	events         *input.Events
	gatewareDevice *device.Gateware
	buttonsDevice  *device.Buttons
	apiDevice      *device.Api

	rng    *rand.Rand
	width  float32
	height float32

	currentMode Mode
	frameTicker *time.Ticker
	stopping    atomic.Bool
}

type Mode int64

const (
	UNDEFINED_MODE Mode = iota
	CLOCK_MODE
	MENU_MODE
	PHOTO_MODE
	GAME_MODE
	END_MODE
)

func (m Mode) String() string {
	switch m {
	case CLOCK_MODE:
		return "clock"
	case MENU_MODE:
		return "menu"
	case PHOTO_MODE:
		return "photo viewer"
	case GAME_MODE:
		return "game"
	case END_MODE:
		return "end"
	}
	return "undefined"
}

func NewServerApp(configDir string, debugMode bool) *ServerApp {

	logrus.Debugf("Creation of cc69 %s ...", version.AppVersion.String())

	app := &ServerApp{
		currentMode:  UNDEFINED_MODE,
		ServerConfig: config.NewServerConfig(configDir, debugMode),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	logrus.Debugln("Server created")

	return app
}

// Start scans the photo folders, opens the window and the input devices.
// It must run on the main thread.
func (s *ServerApp) Start() {
	logrus.Printf("Starting cc69 ...")

	if s.DataPath == "" {
		logrus.Fatalf("No data folder configured, use -data or data_path in %s", s.GetCompleteParamFilename())
	}

	s.library = library.New(library.Options{
		PreloadRadius: int(s.LibraryParam.PreloadRadius),
		Decoder:       library.FileDecoder{MaxTextureSize: int(s.LibraryParam.MaxTextureSize)},
	})
	for _, root := range s.PhotoRoots {
		if err := s.library.AddRoot(root); err != nil {
			logrus.Warnf("Skipping photo folder: %v", err)
		}
	}
	s.library.Finalize()
	if s.library.Size() == 0 {
		logrus.Fatalf("No pictures found in %v", s.PhotoRoots)
	}
	logrus.Infof("%d pictures in library", s.library.Size())

	window, err := render.NewWindow(version.AppVersion.Title(), int(s.ScreenParam.Width), int(s.ScreenParam.Height), s.ScreenParam.Fullscreen)
	if err != nil {
		logrus.Fatalf("Unable to open window: %v", err)
	}
	s.window = window
	s.width = float32(window.Width())
	s.height = float32(window.Height())

	s.events = input.NewEvents(window.Width())
	s.events.AddPoller(window)

	logrus.Printf("Starting devices ...")

	// Gateware board is optional: keyboard only without it
	if s.GatewareParam.Device != "" {
		gateware, err := device.OpenGateware(s.GatewareParam.Device, time.Duration(s.GatewareParam.PollInterval)*time.Millisecond)
		if err != nil {
			logrus.Warnf("Gateware unavailable: %v", err)
		} else {
			s.gatewareDevice = gateware
			s.gatewareDevice.Start()
			s.events.AddSource(s.gatewareDevice.EventChannel())
			s.events.AddLedSetter(s.gatewareDevice)
		}
	}

	if s.ButtonsParam.Enabled {
		buttons := device.NewButtons(s.ButtonsParam.Pins)
		if err := buttons.Start(); err != nil {
			logrus.Warnf("GPIO buttons unavailable: %v", err)
		} else {
			s.buttonsDevice = buttons
			s.events.AddSource(s.buttonsDevice.EventChannel())
		}
	}

	if s.ApiParam.Enabled {
		s.apiDevice = device.NewApi(s.ServerConfig, s.library)
		s.apiDevice.Start()
		s.events.AddSource(s.apiDevice.EventChannel())
	}

	s.frameTicker = time.NewTicker(time.Second / time.Duration(s.ScreenParam.Fps))
	s.currentMode = CLOCK_MODE
}

// AskStop makes the running screen return at the next frame. Safe from any
// goroutine.
func (s *ServerApp) AskStop() {
	s.stopping.Store(true)
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping cc69 ...")

	if s.apiDevice != nil {
		s.apiDevice.StopSendingEvent()
	}

	if s.buttonsDevice != nil {
		s.buttonsDevice.StopSendingEvent()
	}

	if s.gatewareDevice != nil {
		if err := s.gatewareDevice.Close(); err != nil {
			logrus.Warnf("Unable to close gateware: %v", err)
		}
	}

	if s.frameTicker != nil {
		s.frameTicker.Stop()
	}

	// GPU textures go before the context
	if s.library != nil {
		s.library.Close()
	}
	if s.window != nil {
		s.window.Destroy()
	}

	// Flush state backup
	s.ServerConfig.ServerState.FlushSave()

	logrus.Printf("cc69 stopped")
}
