package action

import (
	"github.com/go-vgo/robotgo"
)

// volumeControl is the platform mixer. Levels are percent, 0 to 100.
type volumeControl interface {
	Volume() (float64, error)
	SetVolume(level float64) error
}

// System drives the real cursor, keyboard and mixer.
type System struct {
	keys   *Keyboard
	volume volumeControl
}

// NewSystem creates an emitter backed by the platform input and mixer APIs.
func NewSystem() *System {
	return &System{
		keys:   NewKeyboard(),
		volume: newPlatformVolume(),
	}
}

func (s *System) MoveCursor(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (s *System) Click() error {
	robotgo.Click("left", false)
	return nil
}

func (s *System) PressKey(d Direction) error {
	return s.keys.Press(d)
}

// SetVolume clamps level into [0, 100] before applying it.
func (s *System) SetVolume(level float64) error {
	return s.volume.SetVolume(clampPercent(level))
}

func (s *System) Volume() (float64, error) {
	return s.volume.Volume()
}

func (s *System) ScreenSize() (int, int, error) {
	w, h := robotgo.GetScreenSize()
	return w, h, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
