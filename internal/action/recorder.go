package action

import "sync"

// Recorder captures events in memory. It is used by tests and by callers
// that want to observe emitted actions without touching the OS.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	volume float64
	err    error

	Width  int
	Height int
}

// NewRecorder creates a Recorder reporting a width x height screen.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

// SetError makes every later call fail with err. Failed calls are not recorded.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// SetLevel sets the level Volume reports without recording an event.
func (r *Recorder) SetLevel(level float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = level
}

func (r *Recorder) record(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	if ev.Kind == KindSetVolume {
		r.volume = ev.Level
	}
	return nil
}

func (r *Recorder) MoveCursor(x, y int) error { return r.record(MoveCursor(x, y)) }

func (r *Recorder) Click() error { return r.record(Click()) }

func (r *Recorder) PressKey(d Direction) error { return r.record(PressKey(d)) }

func (r *Recorder) SetVolume(level float64) error { return r.record(SetVolume(level)) }

func (r *Recorder) Volume() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return r.volume, nil
}

func (r *Recorder) ScreenSize() (int, int, error) {
	return r.Width, r.Height, nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
