package mode

import (
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/rs/zerolog"
)

// Phase is the volume machine's pinch-lock state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAdjusting
	PhaseLocked
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAdjusting:
		return "adjusting"
	case PhaseLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// VolumeConfig configures the volume application. PinchMin maps to Max and
// PinchMax maps to Min; distances outside the range are clamped.
type VolumeConfig struct {
	FrameWidth  int
	FrameHeight int
	Margin      float64
	PinchMin    float64
	PinchMax    float64
	Min         float64
	Max         float64
}

func DefaultVolumeConfig() VolumeConfig {
	return VolumeConfig{
		FrameWidth:  640,
		FrameHeight: 480,
		Margin:      100,
		PinchMin:    15,
		PinchMax:    220,
		Min:         0,
		Max:         100,
	}
}

// VolumeState is the volume application's state between frames.
type VolumeState struct {
	Phase       Phase
	LockedLevel float64
	Level       float64
}

// VolumeMachine sets the volume from the thumb-index pinch and locks it when
// the index and middle fingers curl after an adjustment.
type VolumeMachine struct {
	cfg    VolumeConfig
	reader action.VolumeReader
	log    zerolog.Logger
	state  VolumeState
	frame  frame
	seeded bool
}

// NewVolumeMachine creates a VolumeMachine. reader supplies the level captured
// on lock and the starting level read on the first frame with a hand; it may
// be nil. Frames without a hand never query it.
func NewVolumeMachine(cfg VolumeConfig, reader action.VolumeReader, log zerolog.Logger) *VolumeMachine {
	return &VolumeMachine{
		cfg:    cfg,
		reader: reader,
		log:    log.With().Str("component", "volume").Logger(),
		state:  VolumeState{Level: cfg.Min},
	}
}

func (m *VolumeMachine) Name() string { return "volume" }

func (m *VolumeMachine) State() VolumeState { return m.state }

// Step applies the lock, unlock and adjust rules in that order.
func (m *VolumeMachine) Step(obs detector.HandObservation, now time.Time) (action.Event, bool) {
	g := gesture.VolumeTable.Classify(obs)
	m.frame.observe(obs, g.Label, now)
	if obs.Present() && !m.seeded {
		m.seeded = true
		m.state.Level = m.currentLevel()
	}
	if g.Label != gesture.LabelPinchVolume {
		return action.Event{}, false
	}

	index, middle := obs.Fingers[detector.Index], obs.Fingers[detector.Middle]

	if m.state.Phase == PhaseAdjusting && !index && !middle {
		m.state.Phase = PhaseLocked
		m.state.LockedLevel = m.currentLevel()
		m.log.Debug().Float64("level", m.state.LockedLevel).Msg("volume locked")
	} else if index || middle {
		if m.state.Phase == PhaseLocked {
			m.state.Phase = PhaseIdle
			m.log.Debug().Msg("volume unlocked")
		}
	}

	if m.state.Phase == PhaseLocked || !(g.Distance < m.cfg.PinchMax) {
		return action.Event{}, false
	}

	level := gesture.InterpClamped(g.Distance, m.cfg.PinchMin, m.cfg.PinchMax, m.cfg.Max, m.cfg.Min)
	m.state.Phase = PhaseAdjusting
	m.state.Level = level
	return action.SetVolume(level), true
}

// currentLevel reads the system volume, falling back to the last level this
// machine applied.
func (m *VolumeMachine) currentLevel() float64 {
	if m.reader == nil {
		return m.state.Level
	}
	level, err := m.reader.Volume()
	if err != nil {
		m.log.Warn().Err(err).Msg("read volume")
		return m.state.Level
	}
	return level
}

// DisplayLevel is the frozen level while locked and the last applied level
// otherwise.
func (m *VolumeMachine) DisplayLevel() float64 {
	if m.state.Phase == PhaseLocked {
		return m.state.LockedLevel
	}
	return m.state.Level
}

// Percent maps the display level onto 0 to 100.
func (m *VolumeMachine) Percent() float64 {
	return m.percent(m.DisplayLevel())
}

func (m *VolumeMachine) percent(level float64) float64 {
	return gesture.InterpClamped(level, m.cfg.Min, m.cfg.Max, 0, 100)
}

// Status is the text shown next to the volume bar.
func (m *VolumeMachine) Status() string {
	if m.state.Phase == PhaseLocked {
		return "Volume Fixed"
	}
	return "Adjusting Volume"
}

func (m *VolumeMachine) Snapshot() Snapshot {
	region := gesture.Inset(float64(m.cfg.FrameWidth), float64(m.cfg.FrameHeight), m.cfg.Margin)
	level := m.DisplayLevel()
	s := m.frame.snapshot(m.Name(), region)
	s.Volume = &VolumeStatus{
		State:   m.state.Phase.String(),
		Level:   level,
		Percent: m.percent(level),
		Status:  m.Status(),
	}
	return s
}
