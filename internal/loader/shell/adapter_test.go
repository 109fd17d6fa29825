package shell

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/testutil"
	"github.com/atomicstack/custom-menu/internal/ui/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func load(t *testing.T, s *testutil.Surface, path string) (*adapter, *api.Descriptor) {
	t.Helper()
	a := newAdapter(s, path, ScriptName(path), Options{Clock: func() time.Time { return s.Now }})
	return a, a.descriptor()
}

func waitExit(t *testing.T, p *process) {
	t.Helper()
	require.NotNil(t, p)
	require.Eventually(t, func() bool { return !p.alive() }, 5*time.Second, 10*time.Millisecond)
}

func topMenu(t *testing.T, a *adapter) *screen.Menu {
	t.Helper()
	top, ok := a.session.Top()
	require.True(t, ok)
	m, ok := top.(*screen.Menu)
	require.True(t, ok, "top screen is %T", top)
	return m
}

func TestLoaderRejectsNonExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo hi\n"), 0o644))
	_, err := Loader(Options{})(testutil.NewSurface(128, 128), path)
	assert.ErrorIs(t, err, ErrNotExecutable)
}

func TestLoaderNamesApp(t *testing.T) {
	path := writeScript(t, "05-led_control.sh", "true")
	desc, err := Loader(Options{})(testutil.NewSurface(128, 128), path)
	require.NoError(t, err)
	assert.Equal(t, "Led control", desc.Name)
	assert.True(t, desc.Interactive())
}

func TestScriptOutputBecomesMenu(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	path := writeScript(t, "demo.sh", `
echo "title:Demo"
if [ "$1" = "again" ]; then echo "text:ran again"; fi
echo "item:Again:again"`)
	a, desc := load(t, s, path)

	desc.OnEnter(s)
	top, ok := a.session.Top()
	require.True(t, ok)
	_, isLoading := top.(*screen.Loading)
	require.True(t, isLoading, "top screen is %T", top)
	require.NotEmpty(t, s.Frames)

	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)

	frame := s.LastFrame()
	assert.True(t, testutil.HasText(frame, "Demo"))
	assert.True(t, testutil.HasText(frame, "Again"))
	assert.Equal(t, 2, len(a.actions), "back button plus one item")
	assert.Zero(t, a.pollID)

	m := topMenu(t, a)
	desc.OnKeypress(s, api.ButtonMenu)
	require.Equal(t, 1, m.ActiveEntry())
	desc.OnKeypress(s, api.ButtonPower)

	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)
	assert.True(t, testutil.HasText(s.LastFrame(), "ran again"))
	assert.Len(t, a.actions, 3)
	assert.Empty(t, s.Fatal)
}

func TestFocusKeptWhenActionCountUnchanged(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	path := writeScript(t, "same.sh", "echo item:One:1\necho item:Two:2")
	a, desc := load(t, s, path)

	desc.OnEnter(s)
	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)

	desc.OnKeypress(s, api.ButtonMenu)
	desc.OnKeypress(s, api.ButtonMenu)
	require.Equal(t, 2, topMenu(t, a).ActiveEntry())
	desc.OnKeypress(s, api.ButtonPower)

	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)
	assert.Equal(t, 2, topMenu(t, a).ActiveEntry())
}

func TestBackButtonReturnsToMainMenu(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "b.sh", "echo text:hi"))

	desc.OnEnter(s)
	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)
	desc.OnKeypress(s, api.ButtonPower)

	assert.Equal(t, 1, s.MainMenuCalls)
}

func TestNonZeroExitIsFatal(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "fail.sh", "echo item:x:y\nexit 3"))

	desc.OnEnter(s)
	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)

	require.Len(t, s.Fatal, 1)
	assert.Equal(t, testutil.FatalCall{Message: "Script failed with code 3", Unload: false}, s.Fatal[0])
	assert.Zero(t, a.pollID)
}

func TestTimeoutTerminatesScript(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "slow.sh", "exec sleep 30"))

	desc.OnEnter(s)
	s.Advance(DefaultPollInterval)
	assert.Empty(t, s.Fatal)

	slow := a.proc
	s.Advance(DefaultTimeout)
	require.Len(t, s.Fatal, 1)
	assert.Equal(t, timeoutMessage, s.Fatal[0].Message)
	assert.Zero(t, a.pollID)
	assert.Nil(t, a.proc)

	s.Advance(DefaultKillDelay)
	waitExit(t, slow)
}

func TestLeaveStopsScript(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "long.sh", "exec sleep 30"))

	desc.OnEnter(s)
	require.True(t, a.running())
	long := a.proc
	desc.OnLeave(s)

	assert.Zero(t, a.pollID)
	assert.Nil(t, a.proc)
	waitExit(t, long)
	assert.False(t, a.entered)
}

func TestReenterWhileRunningDoesNotRestart(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "long.sh", "exec sleep 30"))
	t.Cleanup(func() { desc.OnTeardown(s) })

	desc.OnEnter(s)
	first := a.proc
	desc.OnEnter(s)
	assert.Same(t, first, a.proc)
}

// stubborn ignores SIGTERM so it outlives shutdown until the kill timer fires.
const stubborn = `trap '' TERM
if [ "$1" = "slow" ]; then sleep 2; else sleep 0.5; fi
echo "item:Slow:slow"
echo "text:arg=$1"`

func TestReenterAfterLeaveStartsFreshRun(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "stubborn.sh", stubborn))
	t.Cleanup(func() { desc.OnTeardown(s) })

	desc.OnEnter(s)
	first := a.proc
	require.NotNil(t, first)
	desc.OnLeave(s)
	// Hiding the host drops every pending timer, the SIGKILL follow-up included.
	s.Timers.Clear()
	desc.OnEnter(s)

	require.NotNil(t, a.proc)
	assert.NotSame(t, first, a.proc)
	assert.NotZero(t, a.pollID)
	assert.True(t, first.alive(), "first run ignores SIGTERM")

	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)

	m := topMenu(t, a)
	assert.Len(t, a.actions, 3)
	assert.Equal(t, 0, m.ActiveEntry())
	assert.True(t, testutil.HasText(s.LastFrame(), "Slow"))
	assert.Zero(t, a.pollID)
	assert.Empty(t, s.Fatal)
}

func TestSelectionRunsWhilePreviousRunTerminates(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "stubborn.sh", stubborn))
	t.Cleanup(func() { desc.OnTeardown(s) })

	desc.OnEnter(s)
	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)
	desc.OnKeypress(s, api.ButtonMenu)
	desc.OnKeypress(s, api.ButtonPower)
	slow := a.proc
	require.NotNil(t, slow)

	desc.OnLeave(s)
	desc.OnEnter(s)
	waitExit(t, a.proc)
	s.Advance(DefaultPollInterval)
	require.True(t, slow.alive(), "detached run still terminating")

	desc.OnKeypress(s, api.ButtonMenu)
	desc.OnKeypress(s, api.ButtonPower)
	require.NotNil(t, a.proc)
	assert.NotSame(t, slow, a.proc)
	assert.NotZero(t, a.pollID)
	assert.Contains(t, a.dying, slow)
}

func TestReenterAfterTimeoutStartsFreshRun(t *testing.T) {
	s := testutil.NewSurface(128, 128)
	a, desc := load(t, s, writeScript(t, "slow.sh", "exec sleep 30"))
	t.Cleanup(func() { desc.OnTeardown(s) })

	desc.OnEnter(s)
	first := a.proc
	s.Advance(DefaultPollInterval)
	s.Advance(DefaultTimeout)
	require.Len(t, s.Fatal, 1)

	// The host leaves the app on its way back to the main menu.
	desc.OnLeave(s)
	desc.OnEnter(s)

	require.True(t, a.running())
	assert.NotSame(t, first, a.proc)
	assert.NotZero(t, a.pollID)
	top, _ := a.session.Top()
	assert.IsType(t, &screen.Loading{}, top)
}
