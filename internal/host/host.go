// Package host implements the display controller: the registry of loaded
// apps, the single active app, the loader table, the timer scheduler and the
// drawing surface handed to every app.
//
// A Host is not safe for concurrent use. Every method, including timer
// callbacks fired from Heartbeat, must run on the goroutine that drives the
// event loop.
package host

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/logging/events"
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/timer"
	"github.com/gobwas/glob"
	"go.uber.org/zap"
)

const (
	DefaultWidth  = 128
	DefaultHeight = 128

	noApp = -1
)

var (
	// ErrNoLoader means no loader is registered for a file's extension.
	ErrNoLoader = errors.New("no app loader registered")
	// ErrNilDescriptor means a loader succeeded without producing an app.
	ErrNilDescriptor = errors.New("loader returned no descriptor")
)

// Config describes the device and where apps are found.
type Config struct {
	LookupPaths []string
	// Ignore holds glob patterns matched against file names during discovery.
	Ignore      []string
	Width       int
	Height      int
	SmallScreen bool
}

// AppInfo describes a registered app.
type AppInfo struct {
	Index       int
	Name        string
	Interactive bool
	// Loader is the extension the app was loaded through, or "builtin".
	Loader string
	Path   string
}

// MainMenuFunc builds the app registered at index 0.
type MainMenuFunc func(h *Host) *api.Descriptor

type entry struct {
	desc   *api.Descriptor
	loader string
	path   string
}

// Host is the display controller.
type Host struct {
	cfg      Config
	renderer render.Renderer
	now      func() time.Time
	timers   *timer.Scheduler
	fonts    []Font
	ignore   []glob.Glob

	apps    []entry
	loaders map[string]api.Loader
	loaded  map[string]struct{}
	active  int

	enabled     bool
	smallScreen bool
	closed      bool
	errMessage  string
	hasError    bool
}

// Option configures a Host.
type Option func(*Host)

// WithRenderer sets where frames go. Frames are dropped by default.
func WithRenderer(r render.Renderer) Option {
	return func(h *Host) {
		if r != nil {
			h.renderer = r
		}
	}
}

// WithClock overrides the clock used for timer deadlines.
func WithClock(now func() time.Time) Option {
	return func(h *Host) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLoader registers a loader before discovery runs.
func WithLoader(ext string, loader api.Loader) Option {
	return func(h *Host) {
		h.RegisterAppLoader(ext, loader)
	}
}

// WithFonts replaces the font registry.
func WithFonts(fonts ...Font) Option {
	return func(h *Host) {
		if len(fonts) > 0 {
			h.fonts = append([]Font(nil), fonts...)
		}
	}
}

// New creates a host and registers the main menu at index 0. Apps are not
// discovered until LoadApps.
func New(cfg Config, mainMenu MainMenuFunc, opts ...Option) (*Host, error) {
	if mainMenu == nil {
		return nil, errors.New("host: main menu is required")
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	h := &Host{
		cfg:      cfg,
		renderer: render.Discard,
		now:      time.Now,
		fonts:    DefaultFonts(),
		loaders:  make(map[string]api.Loader),
		loaded:   make(map[string]struct{}),
		active:   noApp,
	}
	for _, pattern := range cfg.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		h.ignore = append(h.ignore, g)
	}
	for _, opt := range opts {
		opt(h)
	}
	h.timers = timer.New(timer.WithClock(h.now), timer.WithPanicHandler(h.onTimerPanic))
	if cfg.SmallScreen {
		h.SwitchToSmallScreenMode()
	}

	desc := mainMenu(h)
	if !desc.Interactive() {
		return nil, errors.New("host: main menu must handle OnEnter")
	}
	h.register(desc, "builtin", "")
	return h, nil
}

func (h *Host) register(desc *api.Descriptor, loader, path string) int {
	h.apps = append(h.apps, entry{desc: desc, loader: loader, path: path})
	idx := len(h.apps) - 1
	events.Host.Register(idx, desc.Name, desc.Interactive())
	return idx
}

// Apps lists the registered apps in registry order.
func (h *Host) Apps() []AppInfo {
	out := make([]AppInfo, len(h.apps))
	for i, e := range h.apps {
		out[i] = AppInfo{
			Index:       i,
			Name:        e.desc.Name,
			Interactive: e.desc.Interactive(),
			Loader:      e.loader,
			Path:        e.path,
		}
	}
	return out
}

// ActiveApp returns the index of the active app.
func (h *Host) ActiveApp() (int, bool) {
	return h.active, h.active != noApp
}

// SetActiveApp makes the app at index active, leaving the previous one first.
// A negative index leaves the active app without entering another.
func (h *Host) SetActiveApp(index int) {
	if index < 0 {
		index = noApp
	}
	if index >= len(h.apps) {
		panic(fmt.Sprintf("host: app index %d out of range [0,%d)", index, len(h.apps)))
	}
	if index == h.active {
		return
	}
	if index != noApp && !h.apps[index].desc.Interactive() {
		panic(fmt.Sprintf("host: app %q has no OnEnter and cannot be activated", h.apps[index].desc.Name))
	}
	events.Host.Activate(h.active, index)
	if h.active != noApp {
		if leave := h.apps[h.active].desc.OnLeave; leave != nil {
			leave(h)
		}
	}
	h.active = index
	if index != noApp {
		h.apps[index].desc.OnEnter(h)
	}
}

// GotoMainMenu activates the main menu. It does nothing while the menu is
// hidden; SetActive(true) enters the main menu instead.
func (h *Host) GotoMainMenu() {
	if !h.enabled {
		return
	}
	if len(h.apps) == 0 {
		panic("host: no apps registered")
	}
	h.SetActiveApp(0)
}

// FatalError records message, returns to the main menu and, when unload is
// set, tears down and removes the app that was active. The main menu itself
// is never removed.
func (h *Host) FatalError(message string, unload bool) {
	prev := h.active
	name := ""
	if prev != noApp {
		name = h.apps[prev].desc.Name
	}
	events.Host.FatalError(message, unload, name)
	logging.Warn("app failed", zap.String("app", name), zap.String("message", message), zap.Bool("unload", unload))
	h.errMessage = message
	h.hasError = true

	if unload && prev > 0 {
		h.SetActiveApp(noApp)
		h.evict(prev)
	}
	if !h.enabled {
		return
	}
	if h.active == 0 {
		// Re-enter so the main menu picks up the message.
		h.Redraw()
		return
	}
	h.GotoMainMenu()
}

func (h *Host) evict(index int) {
	if index <= 0 || index >= len(h.apps) {
		panic(fmt.Sprintf("host: cannot evict app %d", index))
	}
	e := h.apps[index]
	events.Host.Evict(index, e.desc.Name)
	if e.desc.OnTeardown != nil {
		e.desc.OnTeardown(h)
	}
	// The path stays in h.loaded so a rescan does not bring the app back.
	h.apps = append(h.apps[:index], h.apps[index+1:]...)
}

// Redraw re-enters the active app so it draws again, for example after the
// screen size changed.
func (h *Host) Redraw() {
	if h.enabled && h.active != noApp {
		h.apps[h.active].desc.OnEnter(h)
	}
}

// ErrorMessage returns the last fatal error message.
func (h *Host) ErrorMessage() (string, bool) {
	return h.errMessage, h.hasError
}

// TakeErrorMessage returns the last fatal error message and clears it.
func (h *Host) TakeErrorMessage() (string, bool) {
	msg, ok := h.errMessage, h.hasError
	h.errMessage, h.hasError = "", false
	return msg, ok
}

// RegisterAppLoader maps a file extension to a loader. The last registration
// for an extension wins.
func (h *Host) RegisterAppLoader(ext string, loader api.Loader) {
	if ext == "" || loader == nil {
		return
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	h.loaders[ext] = loader
}

// Active reports whether the custom menu currently owns the screen.
func (h *Host) Active() bool {
	return h.enabled
}

// SetActive hands the screen to the custom menu or back. Activating enters
// the main menu; deactivating leaves the active app and drops every timer.
func (h *Host) SetActive(active bool) {
	if active == h.enabled || h.closed {
		return
	}
	events.Host.Enabled(active)
	if active {
		h.enabled = true
		h.SetActiveApp(0)
		return
	}
	h.SetActiveApp(noApp)
	h.timers.Clear()
	h.enabled = false
}

// HandleButton routes a button press and reports whether the custom menu
// consumed it. The long menu press toggles the menu; the other buttons go to
// the active app only while the menu is shown.
func (h *Host) HandleButton(b api.Button) bool {
	consumed := false
	switch b {
	case api.ButtonLongMenu:
		h.SetActive(!h.enabled)
		consumed = true
	case api.ButtonMenu, api.ButtonPower:
		if h.enabled {
			h.keypress(b)
			consumed = true
		}
	}
	events.Host.Button(b.String(), consumed)
	return consumed
}

func (h *Host) keypress(b api.Button) {
	if h.active == noApp {
		return
	}
	if fn := h.apps[h.active].desc.OnKeypress; fn != nil {
		fn(h, b)
	}
}

// Heartbeat fires due timers. It does nothing while the menu is hidden.
func (h *Host) Heartbeat(now time.Time) int {
	if !h.enabled {
		return 0
	}
	return h.timers.Fire(now)
}

// ScheduleTimer registers a cooperative timer driven by Heartbeat.
func (h *Host) ScheduleTimer(interval time.Duration, repeat bool, fn func()) timer.ID {
	return h.timers.Schedule(interval, repeat, fn)
}

// CancelTimer cancels a timer. It is safe to call from any timer callback.
func (h *Host) CancelTimer(id timer.ID) error {
	running, _ := h.timers.Running()
	events.Timer.Cancel(uint32(id), running == id)
	return h.timers.Cancel(id)
}

// Timers exposes the scheduler for inspection.
func (h *Host) Timers() *timer.Scheduler {
	return h.timers
}

func (h *Host) onTimerPanic(id timer.ID, recovered interface{}) {
	events.Timer.Panic(uint32(id), recovered)
	logging.Error(fmt.Errorf("timer %d callback panicked: %v", id, recovered))
}

// ScreenWidth returns the device width in pixels.
func (h *Host) ScreenWidth() int {
	return h.cfg.Width
}

// ScreenHeight returns the device height in pixels, halved in small-screen
// mode.
func (h *Host) ScreenHeight() int {
	if h.smallScreen {
		return h.cfg.Height / 2
	}
	return h.cfg.Height
}

// SwitchToSmallScreenMode halves the screen height. It cannot be undone.
func (h *Host) SwitchToSmallScreenMode() {
	if h.smallScreen {
		return
	}
	h.smallScreen = true
	events.Host.ScreenMode(h.ScreenWidth(), h.ScreenHeight())
}

// SmallScreen reports whether small-screen mode is on.
func (h *Host) SmallScreen() bool {
	return h.smallScreen
}

// Render presents a frame. Frames drawn while the menu is hidden are dropped.
func (h *Host) Render(cmds []render.Command) {
	if !h.enabled {
		return
	}
	h.renderer.Render(cmds)
}

// Close hides the menu and tears down every app exactly once.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.SetActive(false)
	// SetActiveApp can still enter an app while the menu is hidden.
	h.SetActiveApp(noApp)
	h.closed = true
	h.loaders = make(map[string]api.Loader)
	for _, e := range h.apps {
		if e.desc.OnTeardown != nil {
			e.desc.OnTeardown(h)
		}
	}
	h.apps = nil
	h.timers.Clear()
}

var _ api.Surface = (*Host)(nil)
