// Package logging builds the zerolog logger shared by mudra's components.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to out at the given level. Unknown
// or empty levels fall back to info. A nil out writes to stderr.
func New(level string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		NoColor:    out != os.Stderr && out != os.Stdout,
	}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
