package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/custom-menu/internal/backend"
	"github.com/atomicstack/custom-menu/internal/emulator"
	"github.com/atomicstack/custom-menu/internal/host"
	"github.com/atomicstack/custom-menu/internal/loader/sharedobject"
	"github.com/atomicstack/custom-menu/internal/loader/shell"
	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/logging/events"
	"github.com/atomicstack/custom-menu/internal/mainmenu"
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/render/term"
	"github.com/atomicstack/custom-menu/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const watchThrottle = 1500 * time.Millisecond

// ErrUnknownApp is returned when the requested start app matches nothing.
var ErrUnknownApp = errors.New("no interactive app matches")

// Config describes user-provided application options.
type Config struct {
	LookupPaths   []string      `yaml:"lookup_paths"`
	Ignore        []string      `yaml:"ignore"`
	Width         int           `yaml:"width"`
	Height        int           `yaml:"height"`
	SmallScreen   bool          `yaml:"small_screen"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	ScriptTimeout time.Duration `yaml:"script_timeout"`
	WatchApps     bool          `yaml:"watch_apps"`
	// StartApp names the app to open instead of the main menu.
	StartApp string `yaml:"start_app"`
}

func (c Config) hostConfig() host.Config {
	return host.Config{
		LookupPaths: c.LookupPaths,
		Ignore:      c.Ignore,
		Width:       c.Width,
		Height:      c.Height,
		SmallScreen: c.SmallScreen,
	}
}

// NewHost builds a host with the main menu and the stock loaders registered.
func NewHost(cfg Config, r render.Renderer) (*host.Host, error) {
	opts := []host.Option{
		host.WithLoader(sharedobject.Extension, sharedobject.Load),
		host.WithLoader(shell.Extension, shell.Loader(shell.Options{Timeout: cfg.ScriptTimeout})),
	}
	if r != nil {
		opts = append(opts, host.WithRenderer(r))
	}
	h, err := host.New(cfg.hostConfig(), mainmenu.ForHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}
	return h, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	screen := term.New(host.DefaultWidth, host.DefaultHeight, emulator.CellWidth, emulator.CellHeight)
	h, err := NewHost(cfg, screen)
	if err != nil {
		return err
	}
	defer h.Close()
	screen.Resize(h.ScreenWidth(), h.ScreenHeight())
	if _, err := h.LoadApps(); err != nil {
		logging.Warn("some apps failed to load", zap.Error(err))
	}

	if cfg.StartApp != "" {
		if err := openApp(h, cfg.StartApp); err != nil {
			return err
		}
	}

	var watcher *backend.Watcher
	if cfg.WatchApps {
		watcher, err = backend.NewWatcher(cfg.LookupPaths, watchThrottle)
		if err != nil {
			return fmt.Errorf("watch app paths: %w", err)
		}
		defer watcher.Stop()
	}

	model := emulator.New(h, screen, watcher, cfg.FrameInterval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	events.App.Stop("program exited")
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// ListApps loads every app in the lookup paths without drawing anything. Load
// failures are returned alongside the apps that did load.
func ListApps(cfg Config) ([]host.AppInfo, error) {
	h, err := NewHost(cfg, render.Discard)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	_, loadErr := h.LoadApps()
	return h.Apps(), loadErr
}

// MatchApps keeps the apps whose names fuzzy-match query.
func MatchApps(apps []host.AppInfo, query string) []host.AppInfo {
	idx := state.FilterIndices(appNames(apps), query)
	out := make([]host.AppInfo, 0, len(idx))
	for _, i := range idx {
		out = append(out, apps[i])
	}
	return out
}

// openApp activates the host and switches to the interactive app that best
// matches name.
func openApp(h *host.Host, name string) error {
	var candidates []host.AppInfo
	for _, info := range h.Apps() {
		if info.Index > 0 && info.Interactive {
			candidates = append(candidates, info)
		}
	}
	best := state.BestMatchIndex(appNames(candidates), name)
	if best < 0 {
		return fmt.Errorf("%w %q", ErrUnknownApp, name)
	}
	h.SetActive(true)
	h.SetActiveApp(candidates[best].Index)
	logging.Info("opened start app", zap.String("query", name), zap.String("app", candidates[best].Name))
	return nil
}

func appNames(apps []host.AppInfo) []string {
	names := make([]string, len(apps))
	for i, info := range apps {
		names[i] = strings.TrimSpace(info.Name)
	}
	return names
}
