// Package api defines the contract between the display host and the apps and
// screens it runs.
package api

import (
	"fmt"
	"time"

	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/timer"
)

// Button identifies a physical device button.
type Button int

const (
	// ButtonMenu cycles focus.
	ButtonMenu Button = iota + 1
	// ButtonPower selects the focused entry.
	ButtonPower
	// ButtonLongMenu toggles the custom menu on and off.
	ButtonLongMenu
)

func (b Button) String() string {
	switch b {
	case ButtonMenu:
		return "menu"
	case ButtonPower:
		return "power"
	case ButtonLongMenu:
		return "long-menu"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// TextMeasurer reports the rendered size of a string in a given font.
type TextMeasurer interface {
	MeasureText(font render.FontID, text string) render.Dimensions
}

// Surface is the host capability object handed to apps and screens.
type Surface interface {
	TextMeasurer

	ScreenWidth() int
	ScreenHeight() int
	Font(name string, size int) (render.FontID, bool)
	Render(cmds []render.Command)

	GotoMainMenu()
	FatalError(message string, unload bool)
	RegisterAppLoader(ext string, loader Loader)

	ScheduleTimer(interval time.Duration, repeat bool, fn func()) timer.ID
	CancelTimer(id timer.ID) error
}

// Descriptor describes a loaded app. App state lives in the closures.
type Descriptor struct {
	Name string

	// OnEnter is called when the app becomes active. Apps without it are
	// background-only and never offered in the main menu.
	OnEnter func(s Surface)
	// OnLeave is called when another app becomes active.
	OnLeave func(s Surface)
	// OnKeypress is called only while the app is active.
	OnKeypress func(s Surface, b Button)
	// OnTeardown is called exactly once when the app is unloaded.
	OnTeardown func(s Surface)
}

// Interactive reports whether the app can be made active.
func (d *Descriptor) Interactive() bool {
	return d != nil && d.OnEnter != nil
}

// Loader builds an app from a file on disk.
type Loader func(s Surface, path string) (*Descriptor, error)

// RegisterSymbol is the exported symbol a shared-object app must provide.
const RegisterSymbol = "RegisterApp"

// RegisterFunc is the signature of RegisterSymbol.
type RegisterFunc = func(s Surface) (*Descriptor, error)
