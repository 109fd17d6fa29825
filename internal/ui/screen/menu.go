package screen

import (
	"fmt"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/layout"
	"github.com/atomicstack/custom-menu/internal/logging/events"
	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/atomicstack/custom-menu/internal/theme"
	"github.com/atomicstack/custom-menu/internal/ui/action"
	"github.com/atomicstack/custom-menu/internal/ui/state"
)

const (
	scrollLayoutID = "ScrollLayout"
	activeEntryID  = "ActiveMenuEntry"
)

func entryID(index int) string { return fmt.Sprintf("MenuEntry-%d", index) }
func pageID(index int) string  { return fmt.Sprintf("MenuPage-%d", index) }

// Menu is a scrollable, paginated list of actions with one focused entry.
// The action slice belongs to the caller and must not change while the menu
// is rendering or handling a key.
type Menu struct {
	Static

	actions *[]action.Action
	title   string
	active  int
	scroll  state.Scroll
}

// NewMenu creates a menu over actions, focused on the first entry that can
// take focus.
func NewMenu(actions *[]action.Action, title string) *Menu {
	if actions == nil {
		actions = new([]action.Action)
	}
	list := *actions
	first := state.FirstHoverable(len(list), func(i int) bool {
		return action.Hoverable(list[i])
	})
	return &Menu{actions: actions, title: title, active: first}
}

// ActiveEntry returns the focused index.
func (m *Menu) ActiveEntry() int {
	return m.active
}

// SetActiveEntry moves focus without rendering. index must be in range.
func (m *Menu) SetActiveEntry(index int) {
	if index < 0 || index >= len(*m.actions) {
		panic(fmt.Sprintf("screen: active entry %d out of range [0,%d)", index, len(*m.actions)))
	}
	m.active = index
}

// Scroll returns the scroll position computed by the last render.
func (m *Menu) Scroll() state.Scroll {
	return m.scroll
}

// Title returns the header text.
func (m *Menu) Title() string {
	return m.title
}

func (m *Menu) HandleKeypress(s api.Surface, b api.Button) {
	actions := *m.actions
	switch b {
	case api.ButtonMenu:
		if len(actions) == 0 {
			return
		}
		next := state.NextHoverable(len(actions), m.active, func(i int) bool {
			return action.Hoverable(actions[i])
		})
		events.Menu.Focus(m.title, m.active, next)
		m.active = next
		m.Render(s)
	case api.ButtonPower:
		if m.active >= len(actions) {
			return
		}
		a := actions[m.active]
		if action.Activatable(a) {
			events.Menu.Select(m.title, m.active, a.Text())
			a.Select()
		}
	}
}

// Render lays the menu out twice: once to measure the focused entry and the
// viewport, and once more with each page pinned to the viewport height and
// the list scrolled so the focused entry is fully visible.
func (m *Menu) Render(s api.Surface) {
	actions := *m.actions
	pages := state.SplitPages(len(actions), func(i int) bool {
		return action.IsPageBreak(actions[i])
	})
	f := themeFonts(s)
	e := layout.New(s)

	e.Begin(float32(s.ScreenWidth()), float32(s.ScreenHeight()))
	m.layout(e, s, f, actions, pages, 0, state.Scroll{})
	e.End()

	var viewport float32
	if data, ok := e.ScrollContainerData(scrollLayoutID); ok {
		viewport = data.Container.Height
	}
	heights := make([]float32, len(pages))
	for i := range pages {
		if r, ok := e.ElementData(pageID(i)); ok {
			heights[i] = r.Height
		}
	}
	page := state.PageOf(pages, m.active)
	var top, bottom float32
	if entry, ok := e.ElementData(activeEntryID); ok {
		pageRect, _ := e.ElementData(pageID(page))
		top = entry.Y - pageRect.Y
		bottom = top + entry.Height
	}
	scroll := state.PageScroll(heights, theme.RootPadding, viewport, page, top, bottom)
	if scroll != m.scroll {
		events.Menu.Scroll(m.title, scroll.Page, scroll.Offset())
	}
	m.scroll = scroll

	e.Begin(float32(s.ScreenWidth()), float32(s.ScreenHeight()))
	m.layout(e, s, f, actions, pages, viewport, scroll)
	s.Render(e.End())
}

func (m *Menu) layout(e *layout.Engine, s api.Surface, f fonts, actions []action.Action, pages []state.Page, viewport float32, scroll state.Scroll) {
	chrome := hasChrome(s)
	e.Container(rootElement(s), func() {
		if chrome {
			addHeader(e, s, m.title, f.small, scroll.CanScrollUp, scroll.CanScrollDown)
		}

		e.Container(layout.Element{
			ID:          scrollLayoutID,
			Direction:   layout.TopToBottom,
			Width:       layout.Grow(),
			Height:      layout.Grow(),
			ChildGap:    theme.RootPadding,
			Clip:        true,
			ChildOffset: -scroll.Offset(),
		}, func() {
			for p, page := range pages {
				height := layout.Fit()
				if viewport > 0 {
					height = layout.FitMin(viewport)
				}
				e.Container(layout.Element{
					ID:        pageID(p),
					Direction: layout.TopToBottom,
					Width:     layout.Grow(),
					Height:    height,
					ChildGap:  theme.RootPadding,
				}, func() {
					for i := page.Start; i < page.End; i++ {
						m.entry(e, f, i, actions[i])
					}
				})
			}
		})

		if chrome {
			canSelect := m.active < len(actions) && action.Activatable(actions[m.active])
			addFooter(e, f.small, len(actions) > 1, canSelect)
		}
	})
}

func (m *Menu) entry(e *layout.Engine, f fonts, index int, a action.Action) {
	active := index == m.active
	el := layout.Element{
		ID:         entryID(index),
		Width:      layout.Grow(),
		Height:     layout.Fit(),
		Padding:    layout.PaddingAll(theme.MenuEntryPadding),
		Background: theme.ColorBackground,
	}
	text := theme.ColorText
	switch {
	case active && a.Enabled():
		el.ID = activeEntryID
		el.Background = theme.ColorActiveBackground
		el.Border = activeBorder(theme.ColorActiveBorder, theme.BorderPx)
		text = theme.ColorActiveText
	case active:
		el.ID = activeEntryID
		el.Background = theme.ColorDisabledActiveBackground
		el.Border = activeBorder(theme.ColorDisabledActiveBorder, theme.BorderPx)
		text = theme.ColorDisabledActiveText
	case !a.Enabled() && a.Selectable():
		el.Background = theme.ColorDisabledBackground
		text = theme.ColorDisabledText
	}
	e.Container(el, func() {
		e.Text(a.Text(), layout.Text{
			Font:  f.text,
			Color: text,
			Wrap:  action.Multiline(a),
		})
	})
}

func activeBorder(c render.Color, px uint16) layout.Border {
	return layout.Border{
		Color: c,
		Width: render.BorderWidth{Left: px, Right: px, Top: px, Bottom: px},
	}
}
