package screen

import (
	"time"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/layout"
	"github.com/atomicstack/custom-menu/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
)

// Loading shows a spinner while work happens elsewhere.
type Loading struct {
	spinner    spinner.Spinner
	frame      int
	message    string
	onKeypress func(api.Button)
}

// NewLoading creates a loading screen. onKeypress, when set, receives every
// button press.
func NewLoading(message string, onKeypress func(api.Button)) *Loading {
	return &Loading{spinner: spinner.MiniDot, message: message, onKeypress: onKeypress}
}

// Frame returns the index of the spinner frame shown next.
func (l *Loading) Frame() int {
	return l.frame
}

func (l *Loading) Render(s api.Surface) {
	f := themeFonts(s)
	e := layout.New(s)
	e.Begin(float32(s.ScreenWidth()), float32(s.ScreenHeight()))
	root := rootElement(s)
	root.AlignX = layout.AlignCenter
	root.AlignY = layout.AlignCenter
	e.Container(root, func() {
		e.Text(l.spinner.Frames[l.frame], layout.Text{ID: "LoadingSpinner", Font: f.text, Color: theme.ColorText})
		if l.message != "" {
			e.Text(l.message, layout.Text{ID: "LoadingMessage", Font: f.small, Color: theme.ColorText, Wrap: true, Align: layout.AlignCenter})
		}
	})
	s.Render(e.End())
}

func (l *Loading) HandleKeypress(_ api.Surface, b api.Button) {
	if l.onKeypress != nil {
		l.onKeypress(b)
	}
}

// NeedsTicksPerSecond runs the animation at the spinner's own frame rate.
func (l *Loading) NeedsTicksPerSecond() int {
	if l.spinner.FPS <= 0 {
		return 0
	}
	return int(time.Second / l.spinner.FPS)
}

func (l *Loading) Tick(s api.Surface, _ time.Time) {
	l.frame = (l.frame + 1) % len(l.spinner.Frames)
	l.Render(s)
}
