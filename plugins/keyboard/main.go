// Package main provides a keyboard plugin that presses arrow keys through a
// virtual keyboard device.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/plugin"
)

type pressParams struct {
	Direction string `json:"direction"`
}

func main() {
	keys := action.NewKeyboard()

	plugin.Serve(os.Stdin, os.Stdout, map[string]plugin.Handler{
		action.PluginPressKey: func(params json.RawMessage) (any, error) {
			var p pressParams
			if err := json.Unmarshal(params, &p); err != nil {
				return nil, fmt.Errorf("failed to parse params: %w", err)
			}
			dir, err := action.ParseDirection(p.Direction)
			if err != nil {
				return nil, err
			}
			return nil, keys.Press(dir)
		},
	})
}
