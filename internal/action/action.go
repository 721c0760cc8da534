// Package action defines the semantic events produced by the mode machines
// and the emitters that turn them into platform input.
package action

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by an emitter that cannot perform an action on
// the current platform.
var ErrUnsupported = errors.New("action not supported on this platform")

// Kind identifies an action event.
type Kind int

const (
	KindMoveCursor Kind = iota + 1
	KindClick
	KindPressKey
	KindSetVolume
)

var kindNames = map[Kind]string{
	KindMoveCursor: "move_cursor",
	KindClick:      "click",
	KindPressKey:   "press_key",
	KindSetVolume:  "set_volume",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}

// Direction is an arrow key.
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

var directionNames = map[Direction]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Event is one semantic action. Only the fields of its Kind are set.
type Event struct {
	Kind      Kind      `json:"kind"`
	X         int       `json:"x,omitempty"`
	Y         int       `json:"y,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	Level     float64   `json:"level,omitempty"`
}

func MoveCursor(x, y int) Event { return Event{Kind: KindMoveCursor, X: x, Y: y} }

func Click() Event { return Event{Kind: KindClick} }

func PressKey(d Direction) Event { return Event{Kind: KindPressKey, Direction: d} }

func SetVolume(level float64) Event { return Event{Kind: KindSetVolume, Level: level} }

func (e Event) String() string {
	switch e.Kind {
	case KindMoveCursor:
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.X, e.Y)
	case KindPressKey:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Direction)
	case KindSetVolume:
		return fmt.Sprintf("%s(%.1f)", e.Kind, e.Level)
	default:
		return e.Kind.String()
	}
}

// Emitter performs platform calls for action events. Calls are fire and
// forget from the caller's point of view; errors are reported so they can be
// logged.
type Emitter interface {
	MoveCursor(x, y int) error
	Click() error
	PressKey(d Direction) error
	SetVolume(level float64) error
}

// VolumeReader reports the current system volume in the same units SetVolume
// accepts.
type VolumeReader interface {
	Volume() (float64, error)
}

// ScreenSizer reports the target surface size in pixels.
type ScreenSizer interface {
	ScreenSize() (width, height int, err error)
}

// Emit dispatches ev to the matching Emitter method.
func Emit(e Emitter, ev Event) error {
	switch ev.Kind {
	case KindMoveCursor:
		return e.MoveCursor(ev.X, ev.Y)
	case KindClick:
		return e.Click()
	case KindPressKey:
		return e.PressKey(ev.Direction)
	case KindSetVolume:
		return e.SetVolume(ev.Level)
	default:
		return fmt.Errorf("emit: unknown action kind %d", int(ev.Kind))
	}
}
