package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config   string `short:"c" long:"config" description:"Config file (default: mudra.yaml in ~/.mudra or the working directory)"`
	LogLevel string `long:"log-level" description:"Override log.level (debug, info, warn, error)"`

	Cursor CursorCommand `command:"cursor" description:"Move and click the mouse cursor with the index finger"`
	Arrows ArrowsCommand `command:"arrows" description:"Press arrow keys with finger poses"`
	Volume VolumeCommand `command:"volume" description:"Set the system volume with a thumb-index pinch"`
	Events EventsCommand `command:"events" description:"List recently journaled actions"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Mudra - hand gesture control for the cursor, arrow keys and volume"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
