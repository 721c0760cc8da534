package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// The log backend reports this screen size when none is configured.
const fallbackWidth, fallbackHeight = 1920, 1080

// RunOptions are shared by the three application commands.
type RunOptions struct {
	Backend   string `short:"b" long:"backend" choice:"system" choice:"log" choice:"plugin" description:"Override action.backend"`
	Plugin    string `long:"plugin" description:"Override action.plugin"`
	TUI       bool   `long:"tui" description:"Show a live status view in the terminal"`
	Tray      bool   `long:"tray" description:"Show a system tray menu"`
	Serve     bool   `long:"serve" description:"Start the status API (server.enabled)"`
	NoJournal bool   `long:"no-journal" description:"Do not record actions"`
}

type CursorCommand struct {
	RunOptions
}

func (c *CursorCommand) Execute(args []string) error {
	return run("cursor", c.RunOptions)
}

type ArrowsCommand struct {
	RunOptions
}

func (c *ArrowsCommand) Execute(args []string) error {
	return run("arrows", c.RunOptions)
}

type VolumeCommand struct {
	RunOptions
}

func (c *VolumeCommand) Execute(args []string) error {
	return run("volume", c.RunOptions)
}

// loadConfig applies the global flags on top of the loaded configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

func (o RunOptions) apply(cfg *config.Config) error {
	if o.Backend != "" {
		cfg.Action.Backend = o.Backend
	}
	if o.Plugin != "" {
		cfg.Action.Plugin = o.Plugin
	}
	if o.Serve {
		cfg.Server.Enabled = true
	}
	if o.NoJournal {
		cfg.Journal.Enabled = false
	}
	if o.TUI && o.Tray {
		return errors.New("--tui and --tray cannot be combined")
	}
	return cfg.Validate()
}

func run(name string, o RunOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := o.apply(cfg); err != nil {
		return err
	}

	// The terminal belongs to the status view while it runs.
	var logOut io.Writer = os.Stderr
	if o.TUI {
		dir := filepath.Dir(cfg.Journal.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := tea.LogToFile(filepath.Join(dir, "mudra.log"), "")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log := logging.New(cfg.Log.Level, logOut)
	if cfg.File != "" {
		log.Debug().Str("file", cfg.File).Msg("config loaded")
	}

	emitter, err := newEmitter(cfg, log)
	if err != nil {
		return err
	}

	machine, err := newMachine(name, cfg, emitter, log)
	if err != nil {
		return err
	}

	source, err := newSource(cfg, log)
	if err != nil {
		return err
	}

	appCfg := app.Config{
		Source:          source,
		Machine:         machine,
		Emitter:         emitter,
		MaxReadFailures: cfg.Capture.MaxReadFailures,
		Log:             log,
	}

	var st *store.Store
	if cfg.Journal.Enabled {
		st, err = openStore(cfg.Journal.Path)
		if err != nil {
			source.Close()
			return err
		}
		defer st.Close()

		sess, err := st.Sessions().Start(name, cfg.Action.Backend)
		if err != nil {
			source.Close()
			return fmt.Errorf("start session: %w", err)
		}
		defer func() {
			if err := st.Sessions().End(sess.ID); err != nil {
				log.Warn().Err(err).Msg("end session")
			}
		}()
		log.Info().Str("session", sess.ID).Msg("journal session started")

		appCfg.Journal = &app.StoreJournal{
			Events:    st.Events(),
			SessionID: sess.ID,
			Moves:     cfg.Journal.Moves,
		}
	}

	a := app.New(appCfg)
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Enabled {
		srv := server.New(server.Config{Status: a, Store: st, Log: log})
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				log.Error().Err(err).Msg("status API stopped")
			}
		}()
	}

	switch {
	case o.TUI:
		return runWithTUI(ctx, stop, a)
	case o.Tray:
		return runWithTray(ctx, stop, name, a)
	}
	return a.Run(ctx)
}

// runWithTUI runs the frame loop in the background while the status view
// owns the terminal. Quitting the view stops the loop.
func runWithTUI(ctx context.Context, stop context.CancelFunc, a *app.App) error {
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		stop()
	}()

	updates, unsubscribe := a.Subscribe(1)
	defer unsubscribe()

	p := tea.NewProgram(newStatusModel(a.Mode(), updates, a.SetEnabled), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		stop()
		<-done
		return err
	}
	stop()
	return <-done
}

// runWithTray runs the frame loop in the background; the tray menu needs
// the main goroutine.
func runWithTray(ctx context.Context, stop context.CancelFunc, name string, a *app.App) error {
	t := tray.New(name)
	t.OnToggle(a.SetEnabled)
	t.OnQuit(stop)

	updates, unsubscribe := a.Subscribe(1)
	go t.Follow(updates)

	done := make(chan error, 1)
	go func() {
		err := a.Run(ctx)
		unsubscribe()
		t.Quit()
		done <- err
	}()

	t.Run()
	stop()
	return <-done
}

func newEmitter(cfg *config.Config, log zerolog.Logger) (action.Emitter, error) {
	switch cfg.Action.Backend {
	case config.BackendLog:
		w, h := cfg.Cursor.ScreenWidth, cfg.Cursor.ScreenHeight
		if w == 0 || h == 0 {
			w, h = fallbackWidth, fallbackHeight
		}
		return action.NewLog(log, w, h), nil

	case config.BackendPlugin:
		mgr := plugin.NewManager(cfg.Action.PluginDir, log)
		if err := mgr.Discover(); err != nil {
			return nil, err
		}
		p, err := mgr.Get(cfg.Action.Plugin)
		if err != nil {
			return nil, fmt.Errorf("%s in %s: %w", cfg.Action.Plugin, mgr.PluginDir(), err)
		}
		log.Info().Str("plugin", p.Manifest.Name).Strs("actions", p.Manifest.Actions).Msg("using plugin backend")
		return action.NewPlugin(p, plugin.NewExecutor(cfg.Action.PluginTimeout)), nil
	}
	return action.NewSystem(), nil
}

func newMachine(name string, cfg *config.Config, emitter action.Emitter, log zerolog.Logger) (mode.Machine, error) {
	switch name {
	case "cursor":
		w, h, err := screenSize(cfg, emitter)
		if err != nil {
			return nil, err
		}
		log.Info().Int("width", w).Int("height", h).Msg("screen size")
		return mode.NewCursorMachine(cfg.CursorMachine(w, h)), nil
	case "arrows":
		return mode.NewArrowMachine(cfg.ArrowMachine()), nil
	case "volume":
		reader, _ := emitter.(action.VolumeReader)
		return mode.NewVolumeMachine(cfg.VolumeMachine(), reader, log), nil
	}
	return nil, fmt.Errorf("unknown mode %q", name)
}

// screenSize prefers the configured size and otherwise asks the backend.
func screenSize(cfg *config.Config, emitter action.Emitter) (int, int, error) {
	if cfg.Cursor.ScreenWidth > 0 && cfg.Cursor.ScreenHeight > 0 {
		return cfg.Cursor.ScreenWidth, cfg.Cursor.ScreenHeight, nil
	}
	sizer, ok := emitter.(action.ScreenSizer)
	if !ok {
		return 0, 0, errors.New("screen size unknown: set cursor.screenWidth and cursor.screenHeight")
	}
	w, h, err := sizer.ScreenSize()
	if err != nil {
		return 0, 0, fmt.Errorf("screen size: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("screen size: backend reported %dx%d", w, h)
	}
	return w, h, nil
}

func newSource(cfg *config.Config, log zerolog.Logger) (*app.CameraSource, error) {
	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConf,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	camera := capture.NewCamera(capture.Config{
		Device: cfg.Capture.Device,
		Width:  cfg.Capture.Width,
		Height: cfg.Capture.Height,
		FPS:    capture.DefaultFPS,
		Mirror: cfg.Capture.Mirror,
	})
	source, err := app.NewCameraSource(camera, det, cfg.ThumbRule(), log)
	if err != nil {
		det.Close()
		return nil, fmt.Errorf("camera %d: %w", cfg.Capture.Device, err)
	}
	return source, nil
}

func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}
