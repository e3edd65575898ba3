package render

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is the fullscreen SDL window with its OpenGL 2.1 context.
// Every method must be called from the thread that created the window.
type Window struct {
	window  *sdl.Window
	context sdl.GLContext
	width   int
	height  int
}

var keyInputs = map[sdl.Keycode]event.InputId{
	sdl.K_ESCAPE:       event.EXIT_INPUT,
	sdl.K_LEFT:         event.LEFT_INPUT,
	sdl.K_RIGHT:        event.RIGHT_INPUT,
	sdl.K_TAB:          event.START_INPUT,
	sdl.K_DOWN:         event.STOP_INPUT,
	sdl.K_LEFTBRACKET:  event.MINUS_INPUT,
	sdl.K_RIGHTBRACKET: event.PLUS_INPUT,
}

// NewWindow opens the window. A zero width or height selects the desktop size.
func NewWindow(title string, width int, height int, fullscreen bool) (*Window, error) {
	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	if width <= 0 || height <= 0 {
		mode, err := sdl.GetCurrentDisplayMode(0)
		if err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("failed to query display mode: %v", err)
		}
		width, height = int(mode.W), int(mode.H)
	}

	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	var flags uint32 = sdl.WINDOW_OPENGL
	if fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, int32(width), int32(height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}

	w := &Window{
		window: window,
		width:  width,
		height: height,
	}

	w.context, err = window.GLCreateContext()
	if err != nil {
		w.Destroy()
		return nil, fmt.Errorf("failed to create OpenGL context: %v", err)
	}
	err = window.GLMakeCurrent(w.context)
	if err != nil {
		w.Destroy()
		return nil, fmt.Errorf("failed to set current OpenGL context: %v", err)
	}
	err = gl.Init()
	if err != nil {
		w.Destroy()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v", err)
	}
	_ = sdl.GLSetSwapInterval(1)

	if _, err := sdl.ShowCursor(sdl.DISABLE); err != nil {
		logrus.Debugf("Unable to hide cursor: %v", err)
	}

	setup(width, height)
	logrus.Infof("Window opened: %dx%d (%s)", width, height, gl.GoStr(gl.GetString(gl.RENDERER)))

	return w, nil
}

func (w *Window) Width() int {
	return w.width
}

func (w *Window) Height() int {
	return w.height
}

// PollEvents drains the SDL queue and translates what the kiosk understands.
func (w *Window) PollEvents() []event.InputEvent {
	var inputs []event.InputEvent
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			inputs = append(inputs, event.InputEvent{InputId: event.EXIT_INPUT})
		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			inputId, ok := keyInputs[e.Keysym.Sym]
			if !ok {
				continue
			}
			// Only the handwheel keys auto repeat
			if e.Repeat != 0 && inputId != event.PLUS_INPUT && inputId != event.MINUS_INPUT {
				continue
			}
			inputs = append(inputs, event.InputEvent{InputId: inputId})
		case *sdl.MouseButtonEvent:
			if e.Type != sdl.MOUSEBUTTONDOWN {
				continue
			}
			inputs = append(inputs, event.InputEvent{InputId: event.MOUSE_INPUT, X: int(e.X), Y: int(e.Y)})
		}
	}
	return inputs
}

func (w *Window) Swap() {
	w.window.GLSwap()
}

func (w *Window) Destroy() {
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
		w.context = nil
	}
	if w.window != nil {
		_ = w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
