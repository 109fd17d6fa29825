package state

// NextHoverable returns the index after current that hoverable accepts,
// wrapping around the end. The cursor stays put when no other entry qualifies.
func NextHoverable(n, current int, hoverable func(int) bool) int {
	if n <= 0 {
		return 0
	}
	if current < 0 || current >= n {
		current = 0
	}
	for step := 1; step < n; step++ {
		idx := (current + step) % n
		if hoverable(idx) {
			return idx
		}
	}
	return current
}

// FirstHoverable returns the first index hoverable accepts, or 0.
func FirstHoverable(n int, hoverable func(int) bool) int {
	for i := 0; i < n; i++ {
		if hoverable(i) {
			return i
		}
	}
	return 0
}

// Page is a half-open range of entry indices between page breaks. Breaks
// themselves belong to no page.
type Page struct {
	Start int
	End   int
}

// Contains reports whether index falls inside the page.
func (p Page) Contains(index int) bool {
	return index >= p.Start && index < p.End
}

// SplitPages groups n entries into pages, treating every index isBreak
// accepts as a boundary. There is always at least one page.
func SplitPages(n int, isBreak func(int) bool) []Page {
	pages := make([]Page, 0, 1)
	start := 0
	for i := 0; i < n; i++ {
		if isBreak(i) {
			pages = append(pages, Page{Start: start, End: i})
			start = i + 1
		}
	}
	return append(pages, Page{Start: start, End: n})
}

// PageOf returns the page holding index. Indices that fall on a break map to
// the page that follows it.
func PageOf(pages []Page, index int) int {
	for i, p := range pages {
		if index < p.End || (index == p.End && i == len(pages)-1) {
			return i
		}
	}
	return len(pages) - 1
}

// Scroll describes where a paginated list is scrolled to.
type Scroll struct {
	Page          int
	PageStart     float32
	InPage        float32
	CanScrollUp   bool
	CanScrollDown bool
}

// Offset is the distance from the top of the content to the top of the
// viewport.
func (s Scroll) Offset() float32 {
	return s.PageStart + s.InPage
}

// PinnedHeight returns the height a page occupies once it is pinned to the
// viewport.
func PinnedHeight(content, viewport float32) float32 {
	if content < viewport {
		return viewport
	}
	return content
}

// PageScroll computes the scroll position that keeps an entry fully visible.
// pageHeights holds the unpinned content height of each page, gap the spacing
// between pages, and entryTop/entryBottom the entry's extent relative to the
// top of its page.
func PageScroll(pageHeights []float32, gap, viewport float32, page int, entryTop, entryBottom float32) Scroll {
	if len(pageHeights) == 0 {
		return Scroll{}
	}
	if page < 0 {
		page = 0
	}
	if page >= len(pageHeights) {
		page = len(pageHeights) - 1
	}

	s := Scroll{Page: page}
	for i := 0; i < page; i++ {
		s.PageStart += PinnedHeight(pageHeights[i], viewport) + gap
	}
	if viewport > 0 && entryBottom > viewport {
		s.InPage = entryBottom - viewport
		if s.InPage > entryTop {
			s.InPage = entryTop
		}
	}
	if s.InPage < 0 {
		s.InPage = 0
	}
	s.CanScrollUp = page > 0 || s.InPage > 0
	s.CanScrollDown = page < len(pageHeights)-1 || pageHeights[page]-s.InPage > viewport
	return s
}
