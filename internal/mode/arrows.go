package mode

import (
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// ArrowConfig configures the arrow key application.
type ArrowConfig struct {
	FrameWidth   int
	FrameHeight  int
	Cooldown     time.Duration
	LabelDisplay time.Duration
}

func DefaultArrowConfig() ArrowConfig {
	return ArrowConfig{
		FrameWidth:   640,
		FrameHeight:  480,
		Cooldown:     300 * time.Millisecond,
		LabelDisplay: 700 * time.Millisecond,
	}
}

var arrowDirections = map[gesture.Label]action.Direction{
	gesture.LabelSwipeUp:    action.Up,
	gesture.LabelSwipeDown:  action.Down,
	gesture.LabelSwipeRight: action.Right,
	gesture.LabelSwipeLeft:  action.Left,
}

// ArrowState is the arrow application's state between frames.
type ArrowState struct {
	LastFire      time.Time
	LastDirection action.Direction
}

// ArrowMachine presses an arrow key for each held pose, at most once per
// cooldown. Poses outside the table neither fire nor reset the cooldown.
type ArrowMachine struct {
	cfg   ArrowConfig
	state ArrowState
	frame frame
}

func NewArrowMachine(cfg ArrowConfig) *ArrowMachine {
	return &ArrowMachine{cfg: cfg}
}

func (m *ArrowMachine) Name() string { return "arrows" }

func (m *ArrowMachine) State() ArrowState { return m.state }

func (m *ArrowMachine) Step(obs detector.HandObservation, now time.Time) (action.Event, bool) {
	g := gesture.ArrowTable.Classify(obs)
	m.frame.observe(obs, g.Label, now)

	dir, ok := arrowDirections[g.Label]
	if !ok {
		return action.Event{}, false
	}
	gate := cooldown{period: m.cfg.Cooldown, last: m.state.LastFire}
	if !gate.ready(now) {
		return action.Event{}, false
	}
	m.state = ArrowState{LastFire: now, LastDirection: dir}
	return action.PressKey(dir), true
}

// Label returns the last fired direction while it should still be shown.
func (m *ArrowMachine) Label(now time.Time) (action.Direction, bool) {
	if m.state.LastFire.IsZero() || now.Sub(m.state.LastFire) >= m.cfg.LabelDisplay {
		return 0, false
	}
	return m.state.LastDirection, true
}

func (m *ArrowMachine) Snapshot() Snapshot {
	s := m.frame.snapshot(m.Name(), gesture.NewRect(0, 0, float64(m.cfg.FrameWidth), float64(m.cfg.FrameHeight)))
	if dir, ok := m.Label(m.frame.at); ok {
		s.Direction = dir.String()
	}
	return s
}
