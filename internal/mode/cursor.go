package mode

import (
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// ClickPolicy decides how often a held click pinch fires.
type ClickPolicy string

const (
	// ClickContinuous fires on every qualifying frame.
	ClickContinuous ClickPolicy = "continuous"
	// ClickDebounced fires at most once per click cooldown.
	ClickDebounced ClickPolicy = "debounced"
)

// ParseClickPolicy validates a policy name.
func ParseClickPolicy(s string) (ClickPolicy, error) {
	switch p := ClickPolicy(s); p {
	case ClickContinuous, ClickDebounced:
		return p, nil
	default:
		return "", fmt.Errorf("unknown click policy %q", s)
	}
}

// CursorConfig configures the cursor application.
type CursorConfig struct {
	FrameWidth    int
	FrameHeight   int
	ScreenWidth   int
	ScreenHeight  int
	Margin        float64
	Smoothing     float64
	ClickDistance float64
	ClickPolicy   ClickPolicy
	ClickCooldown time.Duration
}

// DefaultCursorConfig returns the cursor defaults for a 640x480 camera.
func DefaultCursorConfig(screenWidth, screenHeight int) CursorConfig {
	return CursorConfig{
		FrameWidth:    640,
		FrameHeight:   480,
		ScreenWidth:   screenWidth,
		ScreenHeight:  screenHeight,
		Margin:        50,
		Smoothing:     4,
		ClickDistance: 40,
		ClickPolicy:   ClickContinuous,
		ClickCooldown: 300 * time.Millisecond,
	}
}

// CursorState is the cursor application's state between frames.
type CursorState struct {
	Previous  gesture.Point
	LastClick time.Time
}

// CursorMachine moves the cursor with the index finger and clicks when the
// index and middle tips pinch together.
type CursorMachine struct {
	cfg       CursorConfig
	smoother  *gesture.Smoother
	lastClick time.Time
	frame     frame
}

func NewCursorMachine(cfg CursorConfig) *CursorMachine {
	if cfg.ClickPolicy == "" {
		cfg.ClickPolicy = ClickContinuous
	}
	active := gesture.Inset(float64(cfg.FrameWidth), float64(cfg.FrameHeight), cfg.Margin)
	screen := gesture.NewRect(0, 0, float64(cfg.ScreenWidth), float64(cfg.ScreenHeight))
	return &CursorMachine{
		cfg:      cfg,
		smoother: gesture.NewSmoother(active, screen, cfg.Smoothing),
	}
}

func (m *CursorMachine) Name() string { return "cursor" }

// State returns a copy of the state between frames.
func (m *CursorMachine) State() CursorState {
	return CursorState{Previous: m.smoother.Last(), LastClick: m.lastClick}
}

func (m *CursorMachine) Step(obs detector.HandObservation, now time.Time) (action.Event, bool) {
	g := gesture.CursorTable.Classify(obs)
	m.frame.observe(obs, g.Label, now)

	switch g.Label {
	case gesture.LabelPoint:
		tip, ok := obs.Point(detector.IndexTip)
		if !ok {
			return action.Event{}, false
		}
		p := m.smoother.Update(gesture.Point{X: float64(tip.X), Y: float64(tip.Y)})
		return action.MoveCursor(int(p.X), int(p.Y)), true

	case gesture.LabelPinchClick:
		if !(g.Distance < m.cfg.ClickDistance) {
			return action.Event{}, false
		}
		if m.cfg.ClickPolicy == ClickDebounced {
			gate := cooldown{period: m.cfg.ClickCooldown, last: m.lastClick}
			if !gate.ready(now) {
				return action.Event{}, false
			}
			m.lastClick = now
		}
		return action.Click(), true
	}
	return action.Event{}, false
}

func (m *CursorMachine) Snapshot() Snapshot {
	s := m.frame.snapshot(m.Name(), m.smoother.Active)
	p := m.smoother.Last()
	s.Cursor = &p
	return s
}
