package api

// Glyphs used by the menu chrome and stateful actions.
const (
	GlyphArrowBack         = "←"
	GlyphMenu              = "≡"
	GlyphPower             = "⏻"
	GlyphCaretUp           = "▴"
	GlyphCaretDown         = "▾"
	GlyphToggleOn          = "◉"
	GlyphToggleOff         = "◎"
	GlyphCheckboxChecked   = "☑"
	GlyphCheckboxUnchecked = "☐"
	GlyphRadioChecked      = "●"
	GlyphRadioUnchecked    = "○"
	GlyphWarning           = "⚠"
)
