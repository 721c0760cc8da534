// Package main provides a system control plugin that reads and sets the
// system output volume.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/plugin"
)

type volumeParams struct {
	Level *float64 `json:"level"`
}

type volumeData struct {
	Level float64 `json:"level"`
}

func main() {
	system := action.NewSystem()

	plugin.Serve(os.Stdin, os.Stdout, map[string]plugin.Handler{
		action.PluginSetVolume: func(params json.RawMessage) (any, error) {
			var p volumeParams
			if err := json.Unmarshal(params, &p); err != nil {
				return nil, fmt.Errorf("failed to parse params: %w", err)
			}
			if p.Level == nil {
				return nil, fmt.Errorf("level is required")
			}
			return nil, system.SetVolume(*p.Level)
		},
		action.PluginGetVolume: func(json.RawMessage) (any, error) {
			level, err := system.Volume()
			if err != nil {
				return nil, err
			}
			return volumeData{Level: level}, nil
		},
	})
}
