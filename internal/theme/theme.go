// Package theme holds the device palette, spacing and typography, plus the
// Lip Gloss styles used by the terminal emulator around the device screen.
package theme

import (
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Device palette.
var (
	ColorSurface    = render.Color{R: 0, G: 0, B: 0, A: 255}
	ColorText       = render.Color{R: 255, G: 255, B: 255, A: 255}
	ColorBackground = render.Color{R: 0, G: 0, B: 0, A: 255}

	ColorActiveText       = ColorText
	ColorActiveBackground = ColorBackground
	ColorActiveBorder     = render.Color{R: 255, G: 255, B: 255, A: 255}

	ColorDisabledText             = render.Color{R: 128, G: 128, B: 128, A: 255}
	ColorDisabledBackground       = render.Color{R: 0, G: 0, B: 0, A: 255}
	ColorDisabledActiveText       = render.Color{R: 128, G: 128, B: 128, A: 255}
	ColorDisabledActiveBackground = render.Color{R: 0, G: 0, B: 0, A: 255}
	ColorDisabledActiveBorder     = render.Color{R: 128, G: 128, B: 128, A: 255}
)

// Spacing in device pixels.
const (
	BorderPx         = 1
	RootPadding      = 4
	ListPadding      = 2
	MenuEntryPadding = 2

	// SmallScreenHeight is the tallest screen that gets no header or footer.
	SmallScreenHeight = 64
)

// Typography.
const (
	FontNameText      = "Poppins"
	FontSizeText      = 12
	FontSizeTextSmall = 8
)

// Styles describes the Lip Gloss styles of the emulator chrome.
type Styles struct {
	Frame     *lipgloss.Style
	Status    *lipgloss.Style
	StatusApp *lipgloss.Style
	StatusOff *lipgloss.Style
	Error     *lipgloss.Style
	Help      *lipgloss.Style
}

var defaultStyles = Styles{
	Frame: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	StatusApp: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	StatusOff: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Help: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
