package testutil

import (
	"strings"
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/timer"
)

// Font ids handed out by Surface.
const (
	FontText  render.FontID = 1
	FontSmall render.FontID = 2
)

// FatalCall records one FatalError invocation.
type FatalCall struct {
	Message string
	Unload  bool
}

// Surface is an in-memory api.Surface. Text is measured on a fixed cell grid:
// 6x12 pixels per rune for FontText, 4x8 for every other font.
type Surface struct {
	Width  int
	Height int
	Now    time.Time
	Timers *timer.Scheduler

	Frames        [][]render.Command
	MainMenuCalls int
	Fatal         []FatalCall
	Loaders       map[string]api.Loader

	// OnMainMenu runs inside GotoMainMenu when set.
	OnMainMenu func()
}

// NewSurface returns a surface of the given size with its own scheduler.
func NewSurface(width, height int) *Surface {
	s := &Surface{
		Width:   width,
		Height:  height,
		Now:     time.Unix(1_700_000_000, 0),
		Loaders: make(map[string]api.Loader),
	}
	s.Timers = timer.New(timer.WithClock(func() time.Time { return s.Now }))
	return s
}

func (s *Surface) ScreenWidth() int  { return s.Width }
func (s *Surface) ScreenHeight() int { return s.Height }

func (s *Surface) Font(name string, size int) (render.FontID, bool) {
	switch size {
	case 12:
		return FontText, true
	case 8:
		return FontSmall, true
	}
	return 0, false
}

func (s *Surface) MeasureText(font render.FontID, text string) render.Dimensions {
	w, h := float32(4), float32(8)
	if font == FontText {
		w, h = 6, 12
	}
	return render.Dimensions{Width: float32(len([]rune(text))) * w, Height: h}
}

func (s *Surface) Render(cmds []render.Command) {
	frame := make([]render.Command, len(cmds))
	copy(frame, cmds)
	s.Frames = append(s.Frames, frame)
}

func (s *Surface) GotoMainMenu() {
	s.MainMenuCalls++
	if s.OnMainMenu != nil {
		s.OnMainMenu()
	}
}

func (s *Surface) FatalError(message string, unload bool) {
	s.Fatal = append(s.Fatal, FatalCall{Message: message, Unload: unload})
}

func (s *Surface) RegisterAppLoader(ext string, loader api.Loader) {
	s.Loaders[ext] = loader
}

func (s *Surface) ScheduleTimer(interval time.Duration, repeat bool, fn func()) timer.ID {
	return s.Timers.Schedule(interval, repeat, fn)
}

func (s *Surface) CancelTimer(id timer.ID) error {
	return s.Timers.Cancel(id)
}

// Advance moves the clock forward and fires due timers.
func (s *Surface) Advance(d time.Duration) int {
	s.Now = s.Now.Add(d)
	return s.Timers.Fire(s.Now)
}

// LastFrame returns the most recent render, or nil.
func (s *Surface) LastFrame() []render.Command {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

// Texts returns the text of every text command in frame, in paint order.
func Texts(frame []render.Command) []string {
	var out []string
	for _, c := range frame {
		if c.Kind == render.KindText {
			out = append(out, c.Text)
		}
	}
	return out
}

// HasText reports whether any text command in frame contains substr.
func HasText(frame []render.Command, substr string) bool {
	for _, t := range Texts(frame) {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}

var _ api.Surface = (*Surface)(nil)
