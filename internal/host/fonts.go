package host

import (
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/theme"
	"github.com/mattn/go-runewidth"
)

// Font is a fixed-cell font. A rune that is wide in a terminal takes two
// cells.
type Font struct {
	Name       string
	Size       int
	CellWidth  float32
	CellHeight float32
}

// DefaultFonts returns the built-in registry: the text face at its regular
// and small sizes.
func DefaultFonts() []Font {
	return []Font{
		{Name: theme.FontNameText, Size: theme.FontSizeText, CellWidth: 6, CellHeight: 12},
		{Name: theme.FontNameText, Size: theme.FontSizeTextSmall, CellWidth: 4, CellHeight: 8},
	}
}

// Font looks a face up by name and size. Ids start at 1.
func (h *Host) Font(name string, size int) (render.FontID, bool) {
	for i, f := range h.fonts {
		if f.Name == name && f.Size == size {
			return render.FontID(i + 1), true
		}
	}
	return 0, false
}

// FontMetrics returns the registry entry behind id.
func (h *Host) FontMetrics(id render.FontID) (Font, bool) {
	i := int(id) - 1
	if i < 0 || i >= len(h.fonts) {
		return Font{}, false
	}
	return h.fonts[i], true
}

// MeasureText returns the size of text as a single line. Unknown fonts
// measure as zero.
func (h *Host) MeasureText(id render.FontID, text string) render.Dimensions {
	f, ok := h.FontMetrics(id)
	if !ok {
		return render.Dimensions{}
	}
	return render.Dimensions{
		Width:  float32(runewidth.StringWidth(text)) * f.CellWidth,
		Height: f.CellHeight,
	}
}
