package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOptions_Apply(t *testing.T) {
	cfg := config.Default()
	err := RunOptions{Backend: "log", Serve: true, NoJournal: true}.apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.BackendLog, cfg.Action.Backend)
	assert.True(t, cfg.Server.Enabled)
	assert.False(t, cfg.Journal.Enabled)

	cfg = config.Default()
	assert.Error(t, RunOptions{TUI: true, Tray: true}.apply(cfg))

	cfg = config.Default()
	err = RunOptions{Backend: "plugin"}.apply(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid, "the plugin backend needs a plugin name")
}

func TestNewEmitter_Log(t *testing.T) {
	cfg := config.Default()
	cfg.Action.Backend = config.BackendLog

	emitter, err := newEmitter(cfg, zerolog.Nop())
	require.NoError(t, err)

	sizer, ok := emitter.(action.ScreenSizer)
	require.True(t, ok)
	w, h, err := sizer.ScreenSize()
	require.NoError(t, err)
	assert.Equal(t, [2]int{fallbackWidth, fallbackHeight}, [2]int{w, h})
}

func TestNewEmitter_MissingPlugin(t *testing.T) {
	cfg := config.Default()
	cfg.Action.Backend = config.BackendPlugin
	cfg.Action.Plugin = "nope"
	cfg.Action.PluginDir = t.TempDir()

	_, err := newEmitter(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestScreenSize(t *testing.T) {
	cfg := config.Default()
	rec := action.NewRecorder(1280, 800)

	w, h, err := screenSize(cfg, rec)
	require.NoError(t, err)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 800, h)

	cfg.Cursor.ScreenWidth, cfg.Cursor.ScreenHeight = 2560, 1440
	w, h, err = screenSize(cfg, rec)
	require.NoError(t, err)
	assert.Equal(t, 2560, w)
	assert.Equal(t, 1440, h)

	cfg = config.Default()
	_, _, err = screenSize(cfg, action.NewRecorder(0, 0))
	assert.Error(t, err)
}

func TestNewMachine(t *testing.T) {
	cfg := config.Default()
	rec := action.NewRecorder(1920, 1080)

	for _, name := range []string{"cursor", "arrows", "volume"} {
		m, err := newMachine(name, cfg, rec, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}

	_, err := newMachine("piano", cfg, rec, zerolog.Nop())
	assert.Error(t, err)
}

func TestPrintEvents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printEvents(&buf, nil))
	assert.Equal(t, "No events recorded yet.\n", buf.String())

	buf.Reset()
	events := []*store.Event{{
		ID:        1,
		SessionID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Kind:      "set_volume",
		Gesture:   "PINCH_VOLUME",
		Payload:   json.RawMessage(`{"kind":"set_volume","level":42}`),
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, printEvents(&buf, events))

	out := buf.String()
	assert.Contains(t, out, "set_volume")
	assert.Contains(t, out, "PINCH_VOLUME")
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "469f")
}

func TestStatusModel(t *testing.T) {
	updates := make(chan app.Status, 1)
	var toggled []bool
	m := newStatusModel("volume", updates, func(enabled bool) { toggled = append(toggled, enabled) })

	assert.Contains(t, m.View(), "waiting for frames")

	updates <- app.Status{
		Snapshot: mode.Snapshot{
			Mode:    "volume",
			Hand:    true,
			Fingers: "11000",
			Gesture: "PINCH_VOLUME",
			Volume:  &mode.VolumeStatus{State: "locked", Level: 40, Percent: 40, Status: "Volume Fixed"},
		},
		FPS: 30,
	}
	msg := m.Init()()
	model, cmd := m.Update(msg)
	m = model.(statusModel)
	assert.NotNil(t, cmd, "keeps listening for updates")

	view := m.View()
	assert.Contains(t, view, "PINCH_VOLUME")
	assert.Contains(t, view, "Volume Fixed")
	assert.Contains(t, view, "40%")

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = model.(statusModel)
	assert.Equal(t, []bool{false}, toggled)
	assert.Contains(t, m.View(), "disabled")

	close(updates)
	_, cmd = m.Update(waitForStatus(updates)())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStatusModel_ModeRows(t *testing.T) {
	m := newStatusModel("cursor", nil, nil)
	m.seen = true
	m.status = app.Status{Snapshot: mode.Snapshot{Mode: "cursor", Cursor: &gesture.Point{X: 960, Y: 540}}}
	assert.Contains(t, m.View(), "960, 540")

	m.status = app.Status{Snapshot: mode.Snapshot{Mode: "arrows", Direction: "left"}}
	assert.Contains(t, m.View(), "LEFT")
}

func TestVolumeBar(t *testing.T) {
	for _, p := range []float64{-10, 0, 50, 100, 140} {
		bar := volumeBar(p)
		assert.Equal(t, barWidth, len([]rune(stripANSI(bar))), "percent %v", p)
	}
}

// stripANSI drops terminal escape sequences from s.
func stripANSI(s string) string {
	var out []rune
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			out = append(out, r)
		}
	}
	return string(out)
}
