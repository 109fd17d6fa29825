// Package screen contains the screens a UI session stacks: the paginated menu
// screen and the animated loading screen.
package screen

import (
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
)

// Screen is one renderable, keypress-handling page of an app.
type Screen interface {
	Render(s api.Surface)
	// HandleKeypress reacts to a button. The screen re-renders itself when
	// needed.
	HandleKeypress(s api.Surface, b api.Button)
	// NeedsTicksPerSecond reports how often Tick should run; 0 disables
	// ticking. It is re-read after every keypress and every tick.
	NeedsTicksPerSecond() int
	Tick(s api.Surface, now time.Time)
}

// Static provides the tick methods for screens that never animate.
type Static struct{}

func (Static) NeedsTicksPerSecond() int     { return 0 }
func (Static) Tick(api.Surface, time.Time) {}
