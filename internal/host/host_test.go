package host

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

func recordingApp(r *recorder, name string) *api.Descriptor {
	return &api.Descriptor{
		Name:       name,
		OnEnter:    func(api.Surface) { r.add("enter " + name) },
		OnLeave:    func(api.Surface) { r.add("leave " + name) },
		OnKeypress: func(_ api.Surface, b api.Button) { r.add(name + " " + b.String()) },
		OnTeardown: func(api.Surface) { r.add("teardown " + name) },
	}
}

func newTestHost(t *testing.T, r *recorder, opts ...Option) *Host {
	t.Helper()
	h, err := New(Config{}, func(*Host) *api.Descriptor { return recordingApp(r, "main") }, opts...)
	require.NoError(t, err)
	return h
}

func TestNewRegistersMainMenuFirst(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	apps := h.Apps()
	require.Len(t, apps, 1)
	assert.Equal(t, "main", apps[0].Name)
	assert.Equal(t, "builtin", apps[0].Loader)
	_, active := h.ActiveApp()
	assert.False(t, active)
	assert.Empty(t, r.calls)
}

func TestNewRejectsHeadlessMainMenu(t *testing.T) {
	_, err := New(Config{}, func(*Host) *api.Descriptor { return &api.Descriptor{Name: "x"} })
	assert.Error(t, err)
}

func TestNewRejectsBadIgnorePattern(t *testing.T) {
	r := &recorder{}
	_, err := New(Config{Ignore: []string{"[unclosed"}}, func(*Host) *api.Descriptor { return recordingApp(r, "main") })
	assert.Error(t, err)
}

func TestSetActiveAppLeavesBeforeEntering(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.register(recordingApp(r, "one"), ".test", "")
	h.register(recordingApp(r, "two"), ".test", "")

	h.SetActiveApp(2)
	h.SetActiveApp(1)

	assert.Equal(t, []string{"enter two", "leave two", "enter one"}, r.calls)
}

func TestSetActiveAppSameIndexIsNoop(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.SetActiveApp(0)
	h.SetActiveApp(0)
	assert.Equal(t, []string{"enter main"}, r.calls)
}

func TestSetActiveAppPanics(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.register(&api.Descriptor{Name: "headless"}, ".test", "")

	assert.Panics(t, func() { h.SetActiveApp(5) })
	assert.Panics(t, func() { h.SetActiveApp(1) })
}

func TestSetActiveToggleEntersMainMenuAndClearsTimers(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.register(recordingApp(r, "one"), ".test", "")

	h.SetActive(true)
	h.SetActiveApp(1)
	h.ScheduleTimer(time.Second, true, func() {})
	require.Equal(t, 1, h.Timers().Active())

	h.SetActive(false)
	assert.False(t, h.Active())
	assert.Equal(t, 0, h.Timers().Active())
	_, active := h.ActiveApp()
	assert.False(t, active)
	assert.Equal(t, []string{"enter main", "leave main", "enter one", "leave one"}, r.calls)
}

func TestHandleButtonRouting(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)

	assert.False(t, h.HandleButton(api.ButtonMenu), "menu consumed while hidden")
	assert.True(t, h.HandleButton(api.ButtonLongMenu))
	assert.True(t, h.Active())
	assert.True(t, h.HandleButton(api.ButtonPower))
	assert.True(t, h.HandleButton(api.ButtonLongMenu))
	assert.False(t, h.Active())

	assert.Equal(t, []string{"enter main", "main power", "leave main"}, r.calls)
}

func TestFatalErrorEvictsActiveApp(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.register(recordingApp(r, "one"), ".test", "")
	h.register(recordingApp(r, "two"), ".test", "")
	h.SetActive(true)
	h.SetActiveApp(1)
	r.calls = nil

	h.FatalError("Script timed out", true)

	assert.Equal(t, []string{"leave one", "teardown one", "enter main"}, r.calls)
	apps := h.Apps()
	require.Len(t, apps, 2)
	assert.Equal(t, "two", apps[1].Name)
	msg, ok := h.TakeErrorMessage()
	assert.True(t, ok)
	assert.Equal(t, "Script timed out", msg)
	_, ok = h.ErrorMessage()
	assert.False(t, ok)
}

func TestFatalErrorWithoutUnloadKeepsApp(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.register(recordingApp(r, "one"), ".test", "")
	h.SetActive(true)
	h.SetActiveApp(1)

	h.FatalError("oops", false)

	assert.Len(t, h.Apps(), 2)
	idx, _ := h.ActiveApp()
	assert.Equal(t, 0, idx)
}

func TestFatalErrorNeverEvictsMainMenu(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.SetActive(true)
	r.calls = nil

	h.FatalError("menu broke", true)

	assert.Len(t, h.Apps(), 1)
	assert.Equal(t, []string{"enter main"}, r.calls, "main menu should redraw with the message")
	assert.Panics(t, func() { h.evict(0) })
}

func TestEvictedAppStaysGoneAfterRescan(t *testing.T) {
	r := &recorder{}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.app"), nil, 0o644))
	loads := 0
	h := newTestHost(t, r, WithLoader(".app", func(api.Surface, string) (*api.Descriptor, error) {
		loads++
		return recordingApp(r, "bad"), nil
	}))
	h.cfg.LookupPaths = []string{dir}
	n, err := h.LoadApps()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	h.SetActive(true)
	h.SetActiveApp(1)
	h.FatalError("boom", true)
	require.Len(t, h.Apps(), 1)

	n, err = h.Rescan()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, h.Apps(), 1)
	assert.Equal(t, 1, loads)
}

func TestGotoMainMenuWhileHiddenIsIgnored(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)

	h.GotoMainMenu()
	_, active := h.ActiveApp()
	assert.False(t, active)
	assert.Empty(t, r.calls)

	h.FatalError("hidden failure", false)
	_, active = h.ActiveApp()
	assert.False(t, active)

	h.SetActive(true)
	idx, active := h.ActiveApp()
	assert.True(t, active)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []string{"enter main"}, r.calls)
}

func TestCancelTimerTracesSelfCancellation(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logging.SetLogger(zap.New(core))
	logging.SetTraceEnabled(true)
	t.Cleanup(func() {
		logging.SetLogger(nil)
		logging.SetTraceEnabled(false)
	})

	r := &recorder{}
	h := newTestHost(t, r)
	h.SetActive(true)
	other := h.ScheduleTimer(time.Hour, false, func() {})
	var self timer.ID
	self = h.ScheduleTimer(0, true, func() {
		require.NoError(t, h.CancelTimer(self))
		require.NoError(t, h.CancelTimer(other))
	})
	h.Heartbeat(time.Now().Add(time.Second))

	cancels := logs.FilterField(zap.String("event", "timer.cancel")).All()
	require.Len(t, cancels, 2)
	assert.Equal(t, map[string]interface{}{"id": uint32(self), "self": true}, cancels[0].ContextMap()["payload"])
	assert.Equal(t, map[string]interface{}{"id": uint32(other), "self": false}, cancels[1].ContextMap()["payload"])
	assert.Equal(t, 0, h.Timers().Active())
}

func TestHeartbeatOnlyWhileActive(t *testing.T) {
	r := &recorder{}
	base := time.Unix(1000, 0)
	h := newTestHost(t, r, WithClock(func() time.Time { return base }))
	h.SetActive(true)
	fired := 0
	h.ScheduleTimer(10*time.Millisecond, true, func() { fired++ })

	assert.Equal(t, 1, h.Heartbeat(base.Add(10*time.Millisecond)))
	h.SetActive(false)
	assert.Equal(t, 0, h.Heartbeat(base.Add(time.Second)))
	assert.Equal(t, 1, fired)
}

func TestHeartbeatRecoversTimerPanic(t *testing.T) {
	r := &recorder{}
	base := time.Unix(1000, 0)
	h := newTestHost(t, r, WithClock(func() time.Time { return base }))
	h.SetActive(true)
	after := 0
	h.ScheduleTimer(0, false, func() { panic("bad app") })
	h.ScheduleTimer(0, false, func() { after++ })

	assert.NotPanics(t, func() { h.Heartbeat(base) })
	assert.Equal(t, 1, after)
}

func TestRenderDroppedWhileHidden(t *testing.T) {
	r := &recorder{}
	frames := 0
	h := newTestHost(t, r, WithRenderer(render.RendererFunc(func([]render.Command) { frames++ })))
	h.Render(nil)
	assert.Equal(t, 0, frames)
	h.SetActive(true)
	h.Render(nil)
	assert.Equal(t, 1, frames)
}

func TestSmallScreenHalvesHeight(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	assert.Equal(t, 128, h.ScreenHeight())
	h.SwitchToSmallScreenMode()
	assert.Equal(t, 128, h.ScreenWidth())
	assert.Equal(t, 64, h.ScreenHeight())
	assert.True(t, h.SmallScreen())
}

func TestFontRegistry(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	id, ok := h.Font("Poppins", 12)
	require.True(t, ok)
	assert.Equal(t, render.Dimensions{Width: 30, Height: 12}, h.MeasureText(id, "hello"))
	small, ok := h.Font("Poppins", 8)
	require.True(t, ok)
	assert.NotEqual(t, id, small)
	_, ok = h.Font("Comic", 12)
	assert.False(t, ok)
	assert.Equal(t, render.Dimensions{}, h.MeasureText(99, "x"))
}

func TestCloseTearsDownOnce(t *testing.T) {
	r := &recorder{}
	h := newTestHost(t, r)
	h.register(recordingApp(r, "one"), ".test", "")
	h.SetActive(true)

	h.Close()
	h.Close()

	assert.Equal(t, []string{"enter main", "leave main", "teardown main", "teardown one"}, r.calls)
	assert.Empty(t, h.Apps())
}

func TestRegisterAppLoaderLastWins(t *testing.T) {
	r := &recorder{}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.app"), nil, 0o644))
	h, err := New(Config{LookupPaths: []string{dir}}, func(*Host) *api.Descriptor { return recordingApp(r, "main") })
	require.NoError(t, err)

	h.RegisterAppLoader(".app", func(api.Surface, string) (*api.Descriptor, error) {
		return &api.Descriptor{Name: "first"}, nil
	})
	h.RegisterAppLoader("app", func(api.Surface, string) (*api.Descriptor, error) {
		return &api.Descriptor{Name: "second"}, nil
	})

	n, err := h.LoadApps()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "second", h.Apps()[1].Name)
}

func TestLoadAppsSkipsUnloadable(t *testing.T) {
	r := &recorder{}
	dir := t.TempDir()
	for _, name := range []string{"b.app", "a.app", "c.txt", "d.nil", "e.boom"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.app"), 0o755))

	loader := func(_ api.Surface, path string) (*api.Descriptor, error) {
		return &api.Descriptor{}, nil
	}
	h := newTestHost(t, r,
		WithLoader(".app", loader),
		WithLoader(".nil", func(api.Surface, string) (*api.Descriptor, error) { return nil, nil }),
		WithLoader(".boom", func(api.Surface, string) (*api.Descriptor, error) { panic("loader bug") }),
	)
	h.cfg.LookupPaths = []string{dir, filepath.Join(dir, "missing")}

	n, err := h.LoadApps()
	assert.Equal(t, 2, n)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoLoader))
	assert.True(t, errors.Is(err, ErrNilDescriptor))
	assert.Contains(t, err.Error(), "loader panicked")

	apps := h.Apps()
	require.Len(t, apps, 3)
	assert.Equal(t, "a", apps[1].Name, "unnamed apps are named after the file")
	assert.Equal(t, "b", apps[2].Name)

	n, err = h.LoadApps()
	assert.Equal(t, 0, n, "already loaded files are skipped")
	assert.Error(t, err)
}

func TestDiscoverDedupesSymlinksAndSortsByName(t *testing.T) {
	r := &recorder{}
	dir := t.TempDir()
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "10-real.app"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20-z.app"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00-skip.app"), nil, 0o644))
	require.NoError(t, os.Symlink(filepath.Join(other, "10-real.app"), filepath.Join(dir, "link.app")))
	require.NoError(t, os.Symlink("link.app", filepath.Join(dir, "link2.app")))

	h, err := New(Config{LookupPaths: []string{dir, other}, Ignore: []string{"00-*"}},
		func(*Host) *api.Descriptor { return recordingApp(r, "main") })
	require.NoError(t, err)

	files := h.discover()
	assert.Equal(t, []string{
		filepath.Join(other, "10-real.app"),
		filepath.Join(dir, "20-z.app"),
	}, files)
}

func TestDerefSymlinkLoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Symlink("b", filepath.Join(dir, "a")))
	require.NoError(t, os.Symlink("a", filepath.Join(dir, "b")))
	_, err := derefSymlink(filepath.Join(dir, "a"))
	assert.ErrorIs(t, err, ErrSymlinkLoop)
}

func TestSharedObjectsLoadFirst(t *testing.T) {
	r := &recorder{}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sh"), nil, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.so"), nil, 0o644))

	h := newTestHost(t, r, WithLoader(".so", func(s api.Surface, _ string) (*api.Descriptor, error) {
		s.RegisterAppLoader(".sh", func(api.Surface, string) (*api.Descriptor, error) {
			return &api.Descriptor{Name: "script"}, nil
		})
		return &api.Descriptor{Name: "binding"}, nil
	}))
	h.cfg.LookupPaths = []string{dir}

	n, err := h.LoadApps()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	apps := h.Apps()
	assert.Equal(t, "binding", apps[1].Name)
	assert.Equal(t, "script", apps[2].Name)
	assert.False(t, apps[2].Interactive)
}

func TestRescanRefreshesVisibleMainMenu(t *testing.T) {
	r := &recorder{}
	dir := t.TempDir()
	h := newTestHost(t, r, WithLoader(".app", func(api.Surface, string) (*api.Descriptor, error) {
		return &api.Descriptor{Name: "new"}, nil
	}))
	h.cfg.LookupPaths = []string{dir}
	h.SetActive(true)

	n, err := h.Rescan()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.app"), nil, 0o644))
	n, err = h.Rescan()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"enter main", "enter main"}, r.calls)
}

func TestLookupPathsPrependsList(t *testing.T) {
	assert.Equal(t, []string{"/a", "/b", "./apps/", "/online/scripts/"}, LookupPaths("/a: /b ::", DefaultAppDirs))
	assert.Equal(t, []string{"x"}, LookupPaths("", []string{"x"}))
}
