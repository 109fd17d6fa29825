package screen

import (
	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/layout"
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/theme"
)

// fonts resolves the theme fonts, falling back to the default font id.
type fonts struct {
	text  render.FontID
	small render.FontID
}

func themeFonts(s api.Surface) fonts {
	text, _ := s.Font(theme.FontNameText, theme.FontSizeText)
	small, _ := s.Font(theme.FontNameText, theme.FontSizeTextSmall)
	return fonts{text: text, small: small}
}

// hasChrome reports whether the screen is tall enough for a header and footer.
func hasChrome(s api.Surface) bool {
	return s.ScreenHeight() > theme.SmallScreenHeight
}

func rootElement(s api.Surface) layout.Element {
	return layout.Element{
		ID:         "Root",
		Direction:  layout.TopToBottom,
		Width:      layout.Fixed(float32(s.ScreenWidth())),
		Height:     layout.Fixed(float32(s.ScreenHeight())),
		Padding:    layout.PaddingAll(theme.RootPadding),
		ChildGap:   theme.RootPadding,
		Background: theme.ColorSurface,
	}
}

func horizontalLine(e *layout.Engine, id string, boxHeight float32, pad layout.Padding) {
	pad.Top = float32(int(boxHeight / 2))
	e.Container(layout.Element{
		ID:      id,
		Width:   layout.Grow(),
		Height:  layout.Fixed(boxHeight),
		Padding: pad,
	}, func() {
		e.Container(layout.Element{
			ID:         id + "Child",
			Width:      layout.Grow(),
			Height:     layout.Fixed(1),
			Background: theme.ColorText,
		}, nil)
	})
}

// addHeader draws the centred title between two rules, with scroll carets on
// the right.
func addHeader(e *layout.Engine, m api.TextMeasurer, title string, font render.FontID, canScrollUp, canScrollDown bool) {
	textHeight := m.MeasureText(font, title).Height
	e.Container(layout.Element{
		ID:        "Header",
		Direction: layout.LeftToRight,
		Width:     layout.Grow(),
		Height:    layout.Fit(),
		Padding:   layout.Padding{Left: 2, Right: 2, Bottom: 2},
		AlignY:    layout.AlignCenter,
	}, func() {
		horizontalLine(e, "HeaderLeftLine", textHeight, layout.Padding{Right: 4})
		e.Text(title, layout.Text{ID: "HeaderTitle", Font: font, Color: theme.ColorText})
		horizontalLine(e, "HeaderRightLine", textHeight, layout.Padding{Left: 4})

		carets := ""
		if canScrollUp {
			carets += api.GlyphCaretUp
		}
		if canScrollDown {
			carets += api.GlyphCaretDown
		}
		if carets != "" {
			e.Text(carets, layout.Text{ID: "HeaderCarets", Font: font, Color: theme.ColorText})
		}
	})
}

// addFooter draws the button hints under a rule.
func addFooter(e *layout.Engine, font render.FontID, canPressMenu, canPressPower bool) {
	e.Container(layout.Element{
		ID:        "Footer",
		Direction: layout.LeftToRight,
		Width:     layout.Grow(),
		Height:    layout.Fit(),
		Padding:   layout.Padding{Top: theme.RootPadding},
		ChildGap:  4,
		AlignX:    layout.AlignCenter,
		AlignY:    layout.AlignCenter,
		Border: layout.Border{
			Color: theme.ColorText,
			Width: render.BorderWidth{Top: 1},
		},
	}, func() {
		if canPressMenu {
			e.Text(api.GlyphMenu+" Next", layout.Text{ID: "FooterNext", Font: font, Color: theme.ColorText})
		}
		if canPressPower {
			e.Text(api.GlyphPower+" Select", layout.Text{ID: "FooterSelect", Font: font, Color: theme.ColorText})
		}
	})
}
