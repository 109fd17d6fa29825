// Package shell runs executable scripts as menu apps. A script prints a
// line-oriented description of its menu on stdout; picking an entry runs the
// script again with that entry's argument.
package shell

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/logging/events"
	"github.com/atomicstack/custom-menu/internal/timer"
	"github.com/atomicstack/custom-menu/internal/ui"
	"github.com/atomicstack/custom-menu/internal/ui/action"
	"github.com/atomicstack/custom-menu/internal/ui/screen"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Extension is the file extension handled by Loader.
const Extension = ".sh"

const (
	DefaultTimeout      = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultKillDelay    = time.Second

	timeoutMessage = "Script timed out"
)

var (
	// ErrNotExecutable is returned for scripts without execute permission.
	ErrNotExecutable = errors.New("shell script is not executable")
	// ErrTimeout is logged when a script outlives its timeout.
	ErrTimeout = errors.New("shell script timed out")
)

// Options tunes script supervision. Zero values take the defaults.
type Options struct {
	Timeout      time.Duration
	PollInterval time.Duration
	KillDelay    time.Duration
	Clock        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.KillDelay <= 0 {
		o.KillDelay = DefaultKillDelay
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Loader returns an api.Loader for executable scripts.
func Loader(opts Options) api.Loader {
	opts = opts.withDefaults()
	return func(s api.Surface, path string) (*api.Descriptor, error) {
		if err := unix.Access(path, unix.X_OK); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotExecutable, path)
		}
		a := newAdapter(s, path, ScriptName(path), opts)
		logging.Debug("loaded script app", zap.String("name", a.name), zap.String("path", path))
		return a.descriptor(), nil
	}
}

type adapter struct {
	surface api.Surface
	path    string
	name    string
	title   string
	opts    Options

	app     *ui.SessionApp
	session *ui.Session
	actions []action.Action
	loading bool
	entered bool

	proc    *process
	started time.Time
	pollID  timer.ID
	// Runs sent SIGTERM that may not have exited yet.
	dying []*process
}

func newAdapter(s api.Surface, path, name string, opts Options) *adapter {
	a := &adapter{surface: s, path: path, name: name, title: name, opts: opts.withDefaults()}
	a.app = ui.NewSessionApp(name, func(_ api.Surface, session *ui.Session) {
		a.session = session
		a.showLoading()
	})
	return a
}

func (a *adapter) descriptor() *api.Descriptor {
	desc := a.app.Descriptor()
	enter, leave, teardown := desc.OnEnter, desc.OnLeave, desc.OnTeardown
	desc.OnEnter = func(s api.Surface) {
		enter(s)
		if !a.entered && !a.running() {
			a.run()
			a.showLoading()
		}
		a.entered = true
	}
	desc.OnLeave = func(s api.Surface) {
		leave(s)
		a.shutdown()
		a.entered = false
	}
	desc.OnTeardown = func(s api.Surface) {
		a.shutdown()
		for _, p := range a.dying {
			if p.alive() {
				_ = p.kill()
			}
		}
		a.dying = nil
		teardown(s)
	}
	return desc
}

func (a *adapter) running() bool {
	return a.proc != nil && a.proc.alive()
}

func (a *adapter) showLoading() {
	if a.loading || a.session == nil {
		return
	}
	a.session.Replace(screen.NewLoading("", nil))
	a.loading = true
}

func (a *adapter) run(args ...string) {
	if a.running() {
		logging.Warn("script already running", zap.String("path", a.path))
		return
	}
	a.title = a.name
	events.Script.Start(a.path, args)
	proc, err := startProcess(a.path, args, a.opts.KillDelay)
	if err != nil {
		logging.Error(err, zap.String("path", a.path))
		a.surface.FatalError("Failed to run script: "+err.Error(), false)
		return
	}
	a.proc = proc
	a.started = a.opts.Clock()
	if a.pollID == 0 {
		a.pollID = a.surface.ScheduleTimer(a.opts.PollInterval, true, a.poll)
	}
}

func (a *adapter) poll() {
	if a.proc == nil {
		a.cancelPoll()
		return
	}
	if a.proc.alive() {
		a.showLoading()
		if a.opts.Clock().Sub(a.started) > a.opts.Timeout {
			events.Script.Timeout(a.path)
			logging.Error(fmt.Errorf("%s: %w", a.path, ErrTimeout))
			a.shutdown()
			a.surface.FatalError(timeoutMessage, false)
		}
		return
	}

	a.cancelPoll()
	code := a.proc.exitCode()
	if stderr := strings.TrimSpace(a.proc.errorOutput()); stderr != "" {
		logging.Debug("script stderr", zap.String("path", a.path), zap.String("stderr", stderr))
	}
	if code != 0 {
		events.Script.Exit(a.path, code, 0)
		a.surface.FatalError(fmt.Sprintf("Script failed with code %d", code), false)
		return
	}

	prevCount := len(a.actions)
	oldIndex := 0
	if top, ok := a.session.Top(); ok {
		if m, ok := top.(*screen.Menu); ok {
			oldIndex = m.ActiveEntry()
		}
	}

	a.parse(a.proc.output())
	events.Script.Exit(a.path, code, len(a.actions))

	menu := screen.NewMenu(&a.actions, a.title)
	a.session.ReplaceNoRender(menu)
	a.loading = false
	if prevCount == len(a.actions) && oldIndex < len(a.actions) {
		menu.SetActiveEntry(oldIndex)
	}
	a.session.Render()
}

func (a *adapter) parse(stdout string) {
	doc, err := Parse(strings.NewReader(stdout), func(arg string) { a.run(arg) })
	if err != nil {
		logging.Warn("script output truncated", zap.String("path", a.path), zap.Error(err))
	}
	if doc.Title != "" {
		a.title = doc.Title
	}
	back := action.NewButton(api.GlyphArrowBack+" Back", a.surface.GotoMainMenu)
	a.actions = append([]action.Action{back}, doc.Actions...)
}

func (a *adapter) cancelPoll() {
	if a.pollID == 0 {
		return
	}
	if err := a.surface.CancelTimer(a.pollID); err != nil {
		logging.Debug("poll timer already gone", zap.String("path", a.path))
	}
	a.pollID = 0
}

// shutdown stops polling and detaches the current run, asking it to exit and
// following up with SIGKILL after the kill delay. A later run never waits for
// the detached one.
func (a *adapter) shutdown() {
	a.cancelPoll()
	p := a.proc
	a.proc = nil
	if p == nil || !p.alive() {
		return
	}
	if err := p.terminate(); err != nil {
		logging.Error(fmt.Errorf("stop script %s: %w", a.path, err))
	}
	a.dying = append(a.reapDying(), p)
	a.surface.ScheduleTimer(a.opts.KillDelay, false, func() {
		if p.alive() {
			events.Script.Kill(a.path)
			_ = p.kill()
		}
	})
}

// reapDying drops detached runs that have exited.
func (a *adapter) reapDying() []*process {
	live := a.dying[:0]
	for _, p := range a.dying {
		if p.alive() {
			live = append(live, p)
		}
	}
	return live
}
