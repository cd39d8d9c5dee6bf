// Package input polls SDL events and translates them into engine events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a kind of input event.
type EventType int

const (
	EventQuit EventType = iota
	EventResize
	EventKeyDown
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventMouseMotion
	EventMouseWheel
)

// Event is a single input event for one frame.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Button uint8
	X, Y   int32
	RelX   int32
	RelY   int32
	WheelY int32
	Width  int32
	Height int32
}

// Input accumulates events polled from SDL each frame.
type Input struct {
	events  []Event
	keys    map[sdl.Keycode]bool
	buttons map[uint8]bool
}

func New() *Input {
	return &Input{
		keys:    make(map[sdl.Keycode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update drains the SDL event queue. Call once per frame before Events.
func (in *Input) Update() {
	in.events = in.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.events = append(in.events, Event{Type: EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				in.events = append(in.events, Event{
					Type:   EventResize,
					Width:  e.Data1,
					Height: e.Data2,
				})
			}

		case *sdl.KeyboardEvent:
			key := e.Keysym.Sym
			if e.Type == sdl.KEYDOWN {
				if e.Repeat == 0 {
					in.events = append(in.events, Event{Type: EventKeyDown, Key: key})
				}
				in.keys[key] = true
			} else {
				in.events = append(in.events, Event{Type: EventKeyUp, Key: key})
				in.keys[key] = false
			}

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				in.events = append(in.events, Event{
					Type: EventMouseDown, Button: e.Button, X: e.X, Y: e.Y,
				})
				in.buttons[e.Button] = true
			} else {
				in.events = append(in.events, Event{
					Type: EventMouseUp, Button: e.Button, X: e.X, Y: e.Y,
				})
				in.buttons[e.Button] = false
			}

		case *sdl.MouseMotionEvent:
			in.events = append(in.events, Event{
				Type: EventMouseMotion,
				X:    e.X, Y: e.Y,
				RelX: e.XRel, RelY: e.YRel,
			})

		case *sdl.MouseWheelEvent:
			in.events = append(in.events, Event{Type: EventMouseWheel, WheelY: e.Y})
		}
	}
}

// Events returns the events collected by the last Update call.
func (in *Input) Events() []Event {
	return in.events
}

// IsKeyPressed reports whether the key is currently held down.
func (in *Input) IsKeyPressed(key sdl.Keycode) bool {
	return in.keys[key]
}

// IsButtonPressed reports whether the mouse button is currently held down.
func (in *Input) IsButtonPressed(button uint8) bool {
	return in.buttons[button]
}
