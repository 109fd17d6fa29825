package action

import "github.com/atomicstack/custom-menu/internal/api"

// DisplayMode selects the glyph family a Toggle uses.
type DisplayMode int

const (
	DisplayCheckbox DisplayMode = iota
	DisplaySwitch
	// DisplayRadio only borrows the radio glyphs; it does not enforce
	// exclusivity.
	DisplayRadio
)

// Toggle flips a boolean each time it is selected.
type Toggle struct {
	text     string
	checked  bool
	mode     DisplayMode
	disabled bool
	onChange func(checked bool)
}

// NewToggle creates an enabled toggle.
func NewToggle(text string, checked bool, mode DisplayMode, onChange func(checked bool)) *Toggle {
	return &Toggle{text: text, checked: checked, mode: mode, onChange: onChange}
}

func (t *Toggle) Text() string {
	var on, off string
	switch t.mode {
	case DisplaySwitch:
		on, off = api.GlyphToggleOn, api.GlyphToggleOff
	case DisplayCheckbox:
		on, off = api.GlyphCheckboxChecked, api.GlyphCheckboxUnchecked
	case DisplayRadio:
		on, off = api.GlyphRadioChecked, api.GlyphRadioUnchecked
	default:
		return t.text
	}
	if t.checked {
		return on + " " + t.text
	}
	return off + " " + t.text
}

func (t *Toggle) Selectable() bool { return true }
func (t *Toggle) Enabled() bool    { return !t.disabled }

// Checked reports the current state.
func (t *Toggle) Checked() bool { return t.checked }

// Mode returns the display mode.
func (t *Toggle) Mode() DisplayMode { return t.mode }

// SetEnabled greys the toggle out or restores it.
func (t *Toggle) SetEnabled(enabled bool) {
	t.disabled = !enabled
}

// Select flips the state and reports the new value.
func (t *Toggle) Select() {
	t.checked = !t.checked
	if t.onChange != nil {
		t.onChange(t.checked)
	}
}
