// Package mode holds the per-application state machines that turn one hand
// observation per frame into at most one action event.
package mode

import (
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Machine is one application's frame-by-frame interpreter. Step is called
// once per frame from a single goroutine; an absent hand never changes state.
type Machine interface {
	Name() string
	Step(obs detector.HandObservation, now time.Time) (action.Event, bool)
	Snapshot() Snapshot
}

// Snapshot is a read-only view of a machine after its latest frame.
type Snapshot struct {
	Mode      string         `json:"mode"`
	Hand      bool           `json:"hand"`
	Fingers   string         `json:"fingers,omitempty"`
	Gesture   string         `json:"gesture"`
	Region    gesture.Rect   `json:"region"`
	Cursor    *gesture.Point `json:"cursor,omitempty"`
	Direction string         `json:"direction,omitempty"`
	Volume    *VolumeStatus  `json:"volume,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// VolumeStatus is the volume machine's part of a Snapshot.
type VolumeStatus struct {
	State   string  `json:"state"`
	Level   float64 `json:"level"`
	Percent float64 `json:"percent"`
	Status  string  `json:"status"`
}

// cooldown gates a repeating action: it is ready when strictly more than
// period has passed since last. A zero last is always ready.
type cooldown struct {
	period time.Duration
	last   time.Time
}

func (c cooldown) ready(now time.Time) bool {
	return now.Sub(c.last) > c.period
}

// frame records what every machine reports about the observation itself.
type frame struct {
	hand    bool
	fingers string
	gesture gesture.Label
	at      time.Time
}

func (f *frame) observe(obs detector.HandObservation, label gesture.Label, now time.Time) {
	f.hand = obs.Present()
	f.fingers = ""
	if f.hand {
		f.fingers = obs.Fingers.String()
	}
	f.gesture = label
	f.at = now
}

func (f frame) snapshot(name string, region gesture.Rect) Snapshot {
	return Snapshot{
		Mode:      name,
		Hand:      f.hand,
		Fingers:   f.fingers,
		Gesture:   f.gesture.String(),
		Region:    region,
		UpdatedAt: f.at,
	}
}
