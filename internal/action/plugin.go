package action

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ayusman/mudra/internal/plugin"
)

// Plugin action names sent in plugin.Request.Action.
const (
	PluginMoveCursor = "move-cursor"
	PluginClick      = "click"
	PluginPressKey   = "press-key"
	PluginSetVolume  = "set-volume"
	PluginGetVolume  = "get-volume"
	PluginScreenSize = "screen-size"
)

// Plugin forwards events to an external plugin executable.
type Plugin struct {
	plugin   *plugin.Plugin
	executor *plugin.Executor
}

// NewPlugin creates an emitter that runs p for every event.
func NewPlugin(p *plugin.Plugin, executor *plugin.Executor) *Plugin {
	return &Plugin{plugin: p, executor: executor}
}

type pointParams struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type keyParams struct {
	Direction Direction `json:"direction"`
}

type volumeParams struct {
	Level float64 `json:"level"`
}

type sizeData struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (p *Plugin) call(name string, params any) (*plugin.Response, error) {
	if !p.plugin.Manifest.Supports(name) {
		return nil, fmt.Errorf("plugin %s: %s: %w", p.plugin.Manifest.Name, name, ErrUnsupported)
	}

	req := &plugin.Request{Action: name}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal %s params: %w", name, err)
		}
		req.Params = raw
	}

	resp, err := p.executor.Execute(context.Background(), p.plugin, req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("plugin %s: %s: %s", p.plugin.Manifest.Name, name, resp.Error)
	}
	return resp, nil
}

func (p *Plugin) MoveCursor(x, y int) error {
	_, err := p.call(PluginMoveCursor, pointParams{X: x, Y: y})
	return err
}

func (p *Plugin) Click() error {
	_, err := p.call(PluginClick, nil)
	return err
}

func (p *Plugin) PressKey(d Direction) error {
	_, err := p.call(PluginPressKey, keyParams{Direction: d})
	return err
}

func (p *Plugin) SetVolume(level float64) error {
	_, err := p.call(PluginSetVolume, volumeParams{Level: level})
	return err
}

func (p *Plugin) Volume() (float64, error) {
	resp, err := p.call(PluginGetVolume, nil)
	if err != nil {
		return 0, err
	}
	var data volumeParams
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("parse volume: %w", err)
	}
	return data.Level, nil
}

func (p *Plugin) ScreenSize() (int, int, error) {
	resp, err := p.call(PluginScreenSize, nil)
	if err != nil {
		return 0, 0, err
	}
	var data sizeData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, 0, fmt.Errorf("parse screen size: %w", err)
	}
	return data.Width, data.Height, nil
}
