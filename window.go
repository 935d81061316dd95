package posekit

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the GLFW window and feeds its raw callbacks into the
// InputManager as normalized events. It is the only file that touches the
// windowing layer; everything above consumes the typed event bus.
type WindowState struct {
	Log Logger

	win   *glfw.Window
	input *InputManager
}

// NewWindowState initializes GLFW, opens the window and installs the event
// callbacks.
func NewWindowState(cfg WindowConfig, input *InputManager, log Logger) (*WindowState, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	title := cfg.Title
	if title == "" {
		title = "posekit"
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw window: %w", err)
	}

	ws := &WindowState{Log: orNopLogger(log), win: win, input: input}
	ws.installCallbacks()
	return ws, nil
}

func (ws *WindowState) installCallbacks() {
	ws.win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		ws.input.Emit(Event{Type: PointerMove, X: x, Y: y})
	})

	ws.win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		ev := Event{
			X:      x,
			Y:      y,
			Button: mouseButtonIndex(button),
			Ctrl:   mods&glfw.ModControl != 0,
			Meta:   mods&glfw.ModSuper != 0,
			Shift:  mods&glfw.ModShift != 0,
			Alt:    mods&glfw.ModAlt != 0,
		}
		switch action {
		case glfw.Press:
			ev.Type = PointerDown
		case glfw.Release:
			ev.Type = PointerUp
		default:
			return
		}
		ws.input.Emit(ev)
	})

	ws.win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		name, code := keyName(key)
		if name == "" {
			return
		}
		ev := Event{
			Key:   name,
			Code:  code,
			Ctrl:  mods&glfw.ModControl != 0,
			Meta:  mods&glfw.ModSuper != 0,
			Shift: mods&glfw.ModShift != 0,
			Alt:   mods&glfw.ModAlt != 0,
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			ev.Type = KeyDown
		case glfw.Release:
			ev.Type = KeyUp
		default:
			return
		}
		ws.input.Emit(ev)
	})

	ws.win.SetSizeCallback(func(w *glfw.Window, width, height int) {
		ws.input.Emit(Event{Type: WindowResize, Width: width, Height: height})
	})

	ws.win.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			ws.input.Emit(Event{Type: WindowBlur})
		}
	})
}

// Pump processes queued window events, firing the installed callbacks.
func (ws *WindowState) Pump() {
	glfw.PollEvents()
}

// ShouldClose reports whether the user asked to close the window.
func (ws *WindowState) ShouldClose() bool {
	return ws.win.ShouldClose()
}

// Size returns the current framebuffer size.
func (ws *WindowState) Size() (int, int) {
	return ws.win.GetSize()
}

// Destroy closes the window and shuts GLFW down.
func (ws *WindowState) Destroy() {
	ws.win.Destroy()
	glfw.Terminate()
}

func mouseButtonIndex(b glfw.MouseButton) int {
	switch b {
	case glfw.MouseButtonLeft:
		return 0
	case glfw.MouseButtonMiddle:
		return 1
	case glfw.MouseButtonRight:
		return 2
	default:
		return int(b)
	}
}

// keyName maps a GLFW key to its event key string and physical code,
// matching the names the shortcut handlers expect. Unmapped keys return
// empty and are not emitted.
func keyName(key glfw.Key) (name, code string) {
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		c := string(rune('a' + (key - glfw.KeyA)))
		return c, "Key" + string(rune('A'+(key-glfw.KeyA)))
	}
	if key >= glfw.Key0 && key <= glfw.Key9 {
		c := string(rune('0' + (key - glfw.Key0)))
		return c, "Digit" + c
	}
	switch key {
	case glfw.KeyEscape:
		return "Escape", "Escape"
	case glfw.KeySpace:
		return " ", "Space"
	case glfw.KeyEnter:
		return "Enter", "Enter"
	case glfw.KeyTab:
		return "Tab", "Tab"
	case glfw.KeyBackspace:
		return "Backspace", "Backspace"
	case glfw.KeyDelete:
		return "Delete", "Delete"
	case glfw.KeyLeft:
		return "ArrowLeft", "ArrowLeft"
	case glfw.KeyRight:
		return "ArrowRight", "ArrowRight"
	case glfw.KeyUp:
		return "ArrowUp", "ArrowUp"
	case glfw.KeyDown:
		return "ArrowDown", "ArrowDown"
	case glfw.KeyLeftShift, glfw.KeyRightShift:
		return "Shift", "Shift"
	case glfw.KeyLeftControl, glfw.KeyRightControl:
		return "Control", "Control"
	case glfw.KeyLeftAlt, glfw.KeyRightAlt:
		return "Alt", "Alt"
	default:
		return "", ""
	}
}
