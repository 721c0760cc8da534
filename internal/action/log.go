package action

import (
	"sync"

	"github.com/rs/zerolog"
)

// Log is a dry-run emitter: every event is logged and nothing reaches the OS.
// It remembers the last volume it was given so volume locking still works.
type Log struct {
	log    zerolog.Logger
	width  int
	height int

	mu     sync.Mutex
	volume float64
}

// NewLog creates a dry-run emitter reporting a width x height screen.
func NewLog(log zerolog.Logger, width, height int) *Log {
	return &Log{
		log:    log.With().Str("component", "action").Str("backend", "log").Logger(),
		width:  width,
		height: height,
	}
}

func (l *Log) MoveCursor(x, y int) error {
	l.log.Debug().Int("x", x).Int("y", y).Msg("move cursor")
	return nil
}

func (l *Log) Click() error {
	l.log.Info().Msg("click")
	return nil
}

func (l *Log) PressKey(d Direction) error {
	l.log.Info().Stringer("direction", d).Msg("press key")
	return nil
}

func (l *Log) SetVolume(level float64) error {
	l.mu.Lock()
	l.volume = level
	l.mu.Unlock()
	l.log.Info().Float64("level", level).Msg("set volume")
	return nil
}

func (l *Log) Volume() (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.volume, nil
}

func (l *Log) ScreenSize() (int, int, error) {
	return l.width, l.height, nil
}
