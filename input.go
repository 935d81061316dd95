package posekit

import "strings"

// EventType enumerates the normalized events the InputManager re-emits.
type EventType int

const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	PointerCancel
	KeyDown
	KeyUp
	WindowResize
	WindowBlur

	eventTypeCount
)

// Event is the normalized payload delivered to subscribers.
type Event struct {
	Type EventType

	// Pointer events.
	X, Y      float64
	Button    int
	PointerID int

	// Key events. KeyLower is the lowercase form of Key; Code is the
	// physical key code.
	Key      string
	KeyLower string
	Code     string
	Ctrl     bool
	Meta     bool
	Shift    bool
	Alt      bool

	// Resize events.
	Width  int
	Height int
}

// Handler receives events for one subscribed type.
type Handler func(Event)

type handlerEntry struct {
	fn Handler
}

// InputManager is the single subscription point for raw pointer, keyboard
// and window events. It tracks the pressed-key set and last pointer state,
// and suppresses pointer-down delivery entirely while ModalOpen reports
// true. Handler panics are contained and logged; one faulty subscriber
// never breaks delivery to the rest.
type InputManager struct {
	Log Logger

	// ModalOpen is sampled at dispatch time; nil means "never open".
	ModalOpen func() bool

	handlers    [eventTypeCount][]*handlerEntry
	pressed     map[string]struct{}
	pointerDown bool
	lastX       float64
	lastY       float64
	lastButton  int
	lastPointer int
	destroyed   bool
}

func NewInputManager(log Logger) *InputManager {
	return &InputManager{
		Log:     orNopLogger(log),
		pressed: make(map[string]struct{}),
	}
}

// On subscribes a handler and returns its unsubscribe function. Unknown
// event types are a no-op subscribe with a harmless unsubscribe.
func (im *InputManager) On(typ EventType, fn Handler) func() {
	if typ < 0 || typ >= eventTypeCount || fn == nil || im.destroyed {
		return func() {}
	}
	entry := &handlerEntry{fn: fn}
	im.handlers[typ] = append(im.handlers[typ], entry)
	return func() { im.off(typ, entry) }
}

func (im *InputManager) off(typ EventType, entry *handlerEntry) {
	list := im.handlers[typ]
	for i, e := range list {
		if e == entry {
			im.handlers[typ] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// IsPressed reports whether the lowercase key is currently held.
func (im *InputManager) IsPressed(key string) bool {
	_, ok := im.pressed[strings.ToLower(key)]
	return ok
}

// PointerDownActive reports whether a pointer button is currently held.
func (im *InputManager) PointerDownActive() bool { return im.pointerDown }

// LastPointer returns the most recent pointer position and button.
func (im *InputManager) LastPointer() (x, y float64, button int) {
	return im.lastX, im.lastY, im.lastButton
}

// Emit normalizes the event's bookkeeping side effects and dispatches it to
// subscribers in insertion order.
func (im *InputManager) Emit(ev Event) {
	if im.destroyed {
		return
	}

	switch ev.Type {
	case PointerDown:
		// Hard gate: a modal swallows the press, listeners never see it.
		if im.ModalOpen != nil && im.ModalOpen() {
			return
		}
		im.pointerDown = true
		im.lastX, im.lastY = ev.X, ev.Y
		im.lastButton = ev.Button
		im.lastPointer = ev.PointerID
	case PointerMove:
		im.lastX, im.lastY = ev.X, ev.Y
	case PointerUp, PointerCancel:
		im.pointerDown = false
		im.lastX, im.lastY = ev.X, ev.Y
	case KeyDown:
		ev.KeyLower = strings.ToLower(ev.Key)
		im.pressed[ev.KeyLower] = struct{}{}
	case KeyUp:
		ev.KeyLower = strings.ToLower(ev.Key)
		delete(im.pressed, ev.KeyLower)
	case WindowBlur:
		// Focus loss means every key may have been released while we were
		// not looking; clear everything to avoid stuck keys.
		clear(im.pressed)
		im.pointerDown = false
	}

	im.dispatch(ev)
}

func (im *InputManager) dispatch(ev Event) {
	// Snapshot so handlers can unsubscribe during delivery.
	list := make([]*handlerEntry, len(im.handlers[ev.Type]))
	copy(list, im.handlers[ev.Type])
	for _, entry := range list {
		im.call(entry, ev)
	}
}

func (im *InputManager) call(entry *handlerEntry, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			im.Log.Errorf("input handler panic on %v: %v", ev.Type, r)
		}
	}()
	entry.fn(ev)
}

// Destroy removes every subscription and clears internal state. Idempotent.
func (im *InputManager) Destroy() {
	if im.destroyed {
		return
	}
	im.destroyed = true
	for i := range im.handlers {
		im.handlers[i] = nil
	}
	clear(im.pressed)
	im.pointerDown = false
}
