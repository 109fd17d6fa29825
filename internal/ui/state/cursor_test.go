package state

import "testing"

func hoverSet(flags ...bool) func(int) bool {
	return func(i int) bool { return flags[i] }
}

func TestNextHoverableSkipsInert(t *testing.T) {
	hover := hoverSet(true, true, false, true)
	if got := NextHoverable(4, 0, hover); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := NextHoverable(4, 1, hover); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := NextHoverable(4, 3, hover); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}
}

func TestNextHoverableStaysWhenAlone(t *testing.T) {
	hover := hoverSet(false, true, false)
	if got := NextHoverable(3, 1, hover); got != 1 {
		t.Fatalf("expected cursor to stay at 1, got %d", got)
	}
	if got := NextHoverable(0, 0, hover); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestNextHoverableCycleClosure(t *testing.T) {
	flags := []bool{false, true, true, false, true, false, true}
	hover := hoverSet(flags...)
	for start := range flags {
		if !flags[start] {
			continue
		}
		cur := start
		for steps := 0; ; steps++ {
			cur = NextHoverable(len(flags), cur, hover)
			if !flags[cur] {
				t.Fatalf("landed on inert entry %d", cur)
			}
			if cur == start {
				break
			}
			if steps > len(flags) {
				t.Fatalf("cycle from %d never closed", start)
			}
		}
	}
}

func TestFirstHoverable(t *testing.T) {
	if got := FirstHoverable(3, hoverSet(false, false, true)); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := FirstHoverable(2, hoverSet(false, false)); got != 0 {
		t.Fatalf("expected fallback 0, got %d", got)
	}
}

func TestSplitPages(t *testing.T) {
	breaks := hoverSet(false, false, false, true, false, false, false, false)
	pages := SplitPages(8, breaks)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0] != (Page{Start: 0, End: 3}) || pages[1] != (Page{Start: 4, End: 8}) {
		t.Fatalf("unexpected pages %+v", pages)
	}
	if got := PageOf(pages, 6); got != 1 {
		t.Fatalf("expected entry 6 on page 1, got %d", got)
	}
	if got := PageOf(pages, 2); got != 0 {
		t.Fatalf("expected entry 2 on page 0, got %d", got)
	}
	if got := PageOf(pages, 3); got != 1 {
		t.Fatalf("expected break to map to following page, got %d", got)
	}
	if got := SplitPages(0, breaks); len(got) != 1 {
		t.Fatalf("expected a single empty page, got %+v", got)
	}
}

func TestPageScrollRelativeToPage(t *testing.T) {
	heights := []float32{30, 80}
	s := PageScroll(heights, 4, 50, 1, 40, 60)
	if s.PageStart != 54 {
		t.Fatalf("expected page start 54, got %v", s.PageStart)
	}
	if s.InPage != 10 {
		t.Fatalf("expected in-page offset 10, got %v", s.InPage)
	}
	if s.Offset() != 64 {
		t.Fatalf("expected total offset 64, got %v", s.Offset())
	}
	if !s.CanScrollUp || !s.CanScrollDown {
		t.Fatalf("expected both scroll directions, got %+v", s)
	}
}

func TestPageScrollFirstPageAtTop(t *testing.T) {
	s := PageScroll([]float32{30}, 4, 50, 0, 0, 12)
	if s.Offset() != 0 || s.CanScrollUp || s.CanScrollDown {
		t.Fatalf("expected resting scroll, got %+v", s)
	}
}

func TestPageScrollTallEntryShowsTop(t *testing.T) {
	s := PageScroll([]float32{200}, 4, 50, 0, 20, 100)
	if s.InPage != 20 {
		t.Fatalf("expected entry top aligned, got %v", s.InPage)
	}
}
