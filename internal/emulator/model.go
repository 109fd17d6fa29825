// Package emulator shows the device screen in a terminal. Keys stand in for
// the device buttons and a Bubble Tea tick drives the host heartbeat.
package emulator

import (
	"reflect"
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/backend"
	"github.com/atomicstack/custom-menu/internal/host"
	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/render/term"
	"github.com/atomicstack/custom-menu/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Terminal cell size in device pixels, matching the regular font.
const (
	CellWidth  = 6
	CellHeight = 12

	DefaultFrameInterval = 16 * time.Millisecond
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

type heartbeatMsg time.Time

type watcherEventMsg struct {
	event backend.Event
}

type watcherDoneMsg struct{}

// Model is the Bubble Tea model wrapping a host.
type Model struct {
	host     *host.Host
	screen   *term.Renderer
	watcher  *backend.Watcher
	keys     keyMap
	interval time.Duration

	width   int
	height  int
	lastErr string

	handlers map[reflect.Type]msgHandler
}

// New creates the emulator. watcher may be nil.
func New(h *host.Host, screen *term.Renderer, watcher *backend.Watcher, interval time.Duration) *Model {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	m := &Model{
		host:     h,
		screen:   screen,
		watcher:  watcher,
		keys:     defaultKeyMap(),
		interval: interval,
	}
	m.registerHandlers()
	return m
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(heartbeatMsg{}):      m.handleHeartbeatMsg,
		reflect.TypeOf(watcherEventMsg{}):   m.handleWatcherEventMsg,
		reflect.TypeOf(watcherDoneMsg{}):    m.handleWatcherDoneMsg,
	}
}

// Init starts the heartbeat and shows the menu.
func (m *Model) Init() tea.Cmd {
	m.host.SetActive(true)
	cmds := []tea.Cmd{m.heartbeat()}
	if m.watcher != nil {
		cmds = append(cmds, waitForWatcherEvent(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg == nil {
		return m, nil
	}
	if handler, ok := m.handlers[reflect.TypeOf(msg)]; ok {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) heartbeat() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return heartbeatMsg(t)
	})
}

func (m *Model) handleHeartbeatMsg(msg tea.Msg) tea.Cmd {
	t, ok := msg.(heartbeatMsg)
	if !ok {
		return nil
	}
	m.host.Heartbeat(time.Time(t))
	return m.heartbeat()
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.SmallScreen):
		m.switchToSmallScreen()
		return nil
	}
	if b, ok := m.keys.button(keyMsg); ok {
		m.press(b)
	}
	return nil
}

func (m *Model) press(b api.Button) {
	m.host.HandleButton(b)
}

func (m *Model) switchToSmallScreen() {
	if m.host.SmallScreen() {
		return
	}
	m.host.SwitchToSmallScreenMode()
	m.screen.Resize(m.host.ScreenWidth(), m.host.ScreenHeight())
	m.host.Redraw()
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	return nil
}

func waitForWatcherEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return watcherDoneMsg{}
		}
		return watcherEventMsg{event: evt}
	}
}

func (m *Model) handleWatcherEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(watcherEventMsg)
	if !ok {
		return nil
	}
	m.applyWatcherEvent(eventMsg.event)
	if m.watcher != nil {
		return waitForWatcherEvent(m.watcher)
	}
	return nil
}

func (m *Model) applyWatcherEvent(evt backend.Event) {
	if evt.Err != nil {
		m.lastErr = evt.Err.Error()
		logging.Warn("app watcher error", zap.Error(evt.Err))
		return
	}
	n, err := m.host.Rescan()
	if err != nil {
		m.lastErr = err.Error()
	}
	if n > 0 {
		logging.Info("loaded new apps", zap.Int("count", n), zap.Strings("paths", evt.Paths))
	}
}

func (m *Model) handleWatcherDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}
