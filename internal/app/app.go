// Package app runs the frame loop that connects a hand observation source,
// one application's state machine and an action emitter.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/rs/zerolog"
)

// ErrFrameRead ends Run when the source keeps failing to deliver frames.
var ErrFrameRead = errors.New("frame acquisition failed")

// Source yields one hand observation per camera frame.
type Source interface {
	// Next blocks until the next frame. When detect is false the frame is
	// consumed without running detection and an empty observation is
	// returned.
	Next(detect bool) (detector.HandObservation, error)
	Close() error
}

// Journal records the actions the loop emitted.
type Journal interface {
	Record(ev action.Event, gesture string, at time.Time) error
}

// Config holds the parts the loop is assembled from.
type Config struct {
	Source  Source
	Machine mode.Machine
	Emitter action.Emitter
	// Journal is optional.
	Journal Journal
	// MaxReadFailures is the number of consecutive frame failures that
	// end Run. Values below 1 mean 1.
	MaxReadFailures int
	// Now defaults to time.Now.
	Now func() time.Time
	Log zerolog.Logger
}

// Status is what the loop reports after each frame.
type Status struct {
	mode.Snapshot
	Enabled     bool          `json:"enabled"`
	FPS         float64       `json:"fps"`
	Frames      uint64        `json:"frames"`
	LastEvent   *action.Event `json:"lastEvent,omitempty"`
	LastEventAt time.Time     `json:"lastEventAt,omitzero"`
}

// App owns one application's loop. Only Run's goroutine touches the
// machine; other goroutines read Status.
type App struct {
	source      Source
	machine     mode.Machine
	emitter     action.Emitter
	journal     Journal
	maxFailures int
	now         func() time.Time
	log         zerolog.Logger

	enabled bool
	status  Status
	mu      sync.RWMutex

	subs   map[int]chan Status
	nextID int
	subMu  sync.Mutex
}

// New creates an App. Detection starts enabled.
func New(config Config) *App {
	maxFailures := config.MaxReadFailures
	if maxFailures < 1 {
		maxFailures = 1
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	a := &App{
		source:      config.Source,
		machine:     config.Machine,
		emitter:     config.Emitter,
		journal:     config.Journal,
		maxFailures: maxFailures,
		now:         now,
		log:         config.Log.With().Str("component", "app").Str("mode", config.Machine.Name()).Logger(),
		enabled:     true,
		subs:        make(map[int]chan Status),
	}
	a.status = Status{Snapshot: config.Machine.Snapshot(), Enabled: true}
	return a
}

// SetEnabled enables or disables gesture detection. While disabled, frames
// are still consumed but nothing is detected or emitted.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		a.log.Info().Bool("enabled", enabled).Msg("detection toggled")
	}
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Status returns the status after the latest frame.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Mode returns the name of the running application.
func (a *App) Mode() string {
	return a.machine.Name()
}

// Run processes frames until ctx is cancelled or the source fails
// MaxReadFailures times in a row. Cancellation is checked once per frame
// and returns nil.
func (a *App) Run(ctx context.Context) error {
	a.log.Info().Msg("frame loop started")
	defer a.log.Info().Msg("frame loop stopped")

	var (
		failures int
		prev     time.Time
		frames   uint64
	)

	for {
		if ctx.Err() != nil {
			return nil
		}

		enabled := a.IsEnabled()
		obs, err := a.source.Next(enabled)
		if err != nil {
			failures++
			a.log.Warn().Err(err).Int("failures", failures).Msg("frame read failed")
			if failures >= a.maxFailures {
				return fmt.Errorf("%w: %w", ErrFrameRead, err)
			}
			continue
		}
		failures = 0
		frames++

		now := a.now()
		fps := FPS(prev, now)
		prev = now

		var fired *action.Event
		if enabled {
			fired = a.step(obs, now)
		}
		status := a.publish(enabled, fps, frames, fired, now)
		if fired != nil {
			a.record(*fired, status.Gesture, now)
		}
	}
}

// step runs the machine for one frame and emits its event, if any.
func (a *App) step(obs detector.HandObservation, now time.Time) *action.Event {
	ev, ok := a.machine.Step(obs, now)
	if !ok {
		return nil
	}

	if err := action.Emit(a.emitter, ev); err != nil {
		a.log.Warn().Err(err).Stringer("event", ev).Msg("action failed")
		return nil
	}
	if ev.Kind != action.KindMoveCursor {
		a.log.Debug().Stringer("event", ev).Msg("action emitted")
	}
	return &ev
}

func (a *App) record(ev action.Event, gesture string, at time.Time) {
	if a.journal == nil {
		return
	}
	if err := a.journal.Record(ev, gesture, at); err != nil {
		a.log.Warn().Err(err).Msg("journal write failed")
	}
}

// publish stores the status for this frame and offers it to subscribers.
func (a *App) publish(enabled bool, fps float64, frames uint64, fired *action.Event, now time.Time) Status {
	snapshot := a.machine.Snapshot()

	a.mu.Lock()
	status := Status{
		Snapshot:    snapshot,
		Enabled:     enabled,
		FPS:         fps,
		Frames:      frames,
		LastEvent:   a.status.LastEvent,
		LastEventAt: a.status.LastEventAt,
	}
	if fired != nil {
		status.LastEvent = fired
		status.LastEventAt = now
	}
	a.status = status
	a.mu.Unlock()

	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- status:
		default:
		}
	}
	return status
}

// Subscribe returns a channel receiving the status after every frame.
// Slow receivers miss updates rather than stall the loop. Call the returned
// function to unsubscribe.
func (a *App) Subscribe(buffer int) (<-chan Status, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Status, buffer)

	a.subMu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = ch
	a.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subMu.Lock()
			delete(a.subs, id)
			a.subMu.Unlock()
			close(ch)
		})
	}
}

// Close releases the source.
func (a *App) Close() error {
	return a.source.Close()
}

// FPS returns the frame rate implied by two consecutive frame times, or 0
// when they are equal or prev is unset.
func FPS(prev, now time.Time) float64 {
	if prev.IsZero() {
		return 0
	}
	d := now.Sub(prev)
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}
