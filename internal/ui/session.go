package ui

import (
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/logging/events"
	"github.com/atomicstack/custom-menu/internal/timer"
	"github.com/atomicstack/custom-menu/internal/ui/screen"
)

// Session owns a stack of screens for one app. Only the top screen renders,
// receives keys and ticks.
type Session struct {
	surface api.Surface
	stack   []screen.Screen
	now     func() time.Time

	entered  bool
	tickID   timer.ID
	tickRate int
}

// NewSession creates an empty session drawing on s.
func NewSession(s api.Surface) *Session {
	if s == nil {
		panic("ui: session needs a surface")
	}
	return &Session{surface: s, now: time.Now}
}

// Surface returns the surface the session draws on.
func (s *Session) Surface() api.Surface {
	return s.surface
}

// Depth returns the number of stacked screens.
func (s *Session) Depth() int {
	return len(s.stack)
}

// Top returns the screen that currently receives input.
func (s *Session) Top() (screen.Screen, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	return s.stack[len(s.stack)-1], true
}

// Push stacks sc and renders it.
func (s *Session) Push(sc screen.Screen) {
	s.PushNoRender(sc)
	s.Render()
}

// PushNoRender stacks sc without drawing, so the caller can finish setting it
// up first.
func (s *Session) PushNoRender(sc screen.Screen) {
	if sc == nil {
		panic("ui: push of nil screen")
	}
	s.stack = append(s.stack, sc)
	events.Session.Push(len(s.stack))
	s.updateTicker()
}

// Replace swaps the top screen for sc and renders it.
func (s *Session) Replace(sc screen.Screen) {
	s.ReplaceNoRender(sc)
	s.Render()
}

// ReplaceNoRender swaps the top screen for sc without drawing. On an empty
// stack it behaves like PushNoRender.
func (s *Session) ReplaceNoRender(sc screen.Screen) {
	if sc == nil {
		panic("ui: replace with nil screen")
	}
	if n := len(s.stack); n > 0 {
		s.stack[n-1] = nil
		s.stack = s.stack[:n-1]
	}
	s.stack = append(s.stack, sc)
	events.Session.Replace(len(s.stack))
	s.updateTicker()
}

// Pop drops the top screen and renders the one below, returning to the main
// menu when none is left.
func (s *Session) Pop() {
	s.PopNoRender()
	s.Render()
}

// PopNoRender drops the top screen without drawing.
func (s *Session) PopNoRender() {
	if n := len(s.stack); n > 0 {
		s.stack[n-1] = nil
		s.stack = s.stack[:n-1]
	}
	events.Session.Pop(len(s.stack))
	s.updateTicker()
}

// Render draws the top screen. An empty stack hands control back to the main
// menu instead.
func (s *Session) Render() {
	top, ok := s.Top()
	if !ok {
		events.Session.Empty()
		s.surface.GotoMainMenu()
		return
	}
	top.Render(s.surface)
}

// HandleKeypress forwards b to the top screen, then re-reads its tick rate.
func (s *Session) HandleKeypress(b api.Button) {
	if top, ok := s.Top(); ok {
		top.HandleKeypress(s.surface, b)
	}
	s.updateTicker()
}

// OnEnter renders and starts ticking. Owning apps call it when they become
// active.
func (s *Session) OnEnter() {
	s.entered = true
	s.Render()
	s.updateTicker()
}

// OnLeave stops ticking so nothing draws while the session is hidden.
func (s *Session) OnLeave() {
	s.entered = false
	s.stopTicker()
}

// TickRate returns the rate of the running tick timer, or 0.
func (s *Session) TickRate() int {
	return s.tickRate
}

// NeedsTicksPerSecond returns the top screen's desired tick rate.
func (s *Session) NeedsTicksPerSecond() int {
	if top, ok := s.Top(); ok {
		return top.NeedsTicksPerSecond()
	}
	return 0
}

func (s *Session) tick() {
	if top, ok := s.Top(); ok {
		top.Tick(s.surface, s.now())
	}
	s.updateTicker()
}

// updateTicker reschedules the tick timer when the wanted rate changed.
func (s *Session) updateTicker() {
	if !s.entered {
		return
	}
	want := s.NeedsTicksPerSecond()
	if want < 0 {
		want = 0
	}
	if want == s.tickRate {
		return
	}
	events.Session.TickRate(s.tickRate, want)
	s.stopTicker()
	if want == 0 {
		return
	}
	s.tickRate = want
	s.tickID = s.surface.ScheduleTimer(time.Second/time.Duration(want), true, s.tick)
}

func (s *Session) stopTicker() {
	if s.tickRate == 0 {
		return
	}
	if err := s.surface.CancelTimer(s.tickID); err != nil {
		logging.Debug("tick timer already gone")
	}
	s.tickRate = 0
	s.tickID = 0
}
