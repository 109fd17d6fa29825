// Package action contains the interactive and display-only entries shown by
// menu screens.
package action

// Action is a single menu entry.
type Action interface {
	// Text returns the display text. Stateful actions compute it on every
	// call, so callers should not hold on to it across state changes.
	Text() string
	// Selectable reports whether the select button triggers the entry.
	Selectable() bool
	// Enabled reports whether the entry is active. A selectable entry may be
	// disabled (greyed out).
	Enabled() bool
	// Select performs the entry's behaviour.
	Select()
}

// Hoverer is implemented by actions whose focusability differs from their
// selectability.
type Hoverer interface {
	Hoverable() bool
}

// MultilineAction is implemented by actions that wrap their text.
type MultilineAction interface {
	Multiline() bool
}

// Hoverable reports whether focus navigation may land on a. Unless the action
// says otherwise, only selectable actions are hoverable.
func Hoverable(a Action) bool {
	if a == nil {
		return false
	}
	if h, ok := a.(Hoverer); ok {
		return h.Hoverable()
	}
	return a.Selectable()
}

// Multiline reports whether a wants its text wrapped.
func Multiline(a Action) bool {
	if m, ok := a.(MultilineAction); ok {
		return m.Multiline()
	}
	return false
}

// Activatable reports whether selecting a should run its behaviour.
func Activatable(a Action) bool {
	return a != nil && a.Selectable() && a.Enabled()
}

// IsPageBreak reports whether a marks a pagination boundary.
func IsPageBreak(a Action) bool {
	_, ok := a.(*PageBreak)
	return ok
}

// Button runs a callback when selected.
type Button struct {
	text     string
	onSelect func()
	disabled bool
}

// NewButton creates an enabled button.
func NewButton(text string, onSelect func()) *Button {
	return &Button{text: text, onSelect: onSelect}
}

func (b *Button) Text() string     { return b.text }
func (b *Button) Selectable() bool { return true }
func (b *Button) Enabled() bool    { return !b.disabled }

// SetEnabled greys the button out or restores it.
func (b *Button) SetEnabled(enabled bool) {
	b.disabled = !enabled
}

func (b *Button) Select() {
	if b.onSelect != nil {
		b.onSelect()
	}
}

// Label displays text. It can be focused but never triggered.
type Label struct {
	text      string
	multiline bool
}

// NewLabel creates a label. Multiline labels wrap on word boundaries.
func NewLabel(text string, multiline bool) *Label {
	return &Label{text: text, multiline: multiline}
}

func (l *Label) Text() string     { return l.text }
func (l *Label) Selectable() bool { return false }
func (l *Label) Hoverable() bool  { return true }
func (l *Label) Enabled() bool    { return true }
func (l *Label) Multiline() bool  { return l.multiline }
func (l *Label) Select()          {}

// PageBreak splits a menu into independently scrolled pages.
type PageBreak struct{}

// NewPageBreak returns a page break marker.
func NewPageBreak() *PageBreak {
	return &PageBreak{}
}

func (*PageBreak) Text() string     { return "" }
func (*PageBreak) Selectable() bool { return false }
func (*PageBreak) Hoverable() bool  { return false }
func (*PageBreak) Enabled() bool    { return false }
func (*PageBreak) Select()          {}
