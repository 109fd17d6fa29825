package action

import (
	"fmt"

	"github.com/atomicstack/custom-menu/internal/api"
)

// RadioGroup tracks a set of mutually exclusive radios. The group holds one
// slot per radio ever added; removing a radio empties its slot so the indices
// of the others never shift.
type RadioGroup struct {
	selected int
	slots    []*Radio
	onSelect func(key string)
}

// NewRadioGroup creates a group with the given initially selected index. Pass
// -1 for no initial selection.
func NewRadioGroup(initial int, onSelect func(key string)) *RadioGroup {
	if initial < 0 {
		initial = -1
	}
	return &RadioGroup{selected: initial, onSelect: onSelect}
}

// Add creates a radio in the next slot of the group.
func (g *RadioGroup) Add(text, key string) *Radio {
	for _, r := range g.slots {
		if r != nil && r.key == key {
			panic(fmt.Sprintf("action: duplicate radio key %q in group", key))
		}
	}
	r := &Radio{text: text, key: key, group: g, index: len(g.slots)}
	g.slots = append(g.slots, r)
	return r
}

// Select checks the radio at index. The callback fires only when the
// selection changes.
func (g *RadioGroup) Select(index int) {
	if index < 0 || index >= len(g.slots) || g.slots[index] == nil {
		panic(fmt.Sprintf("action: radio index %d not in group of %d", index, len(g.slots)))
	}
	if g.selected == index {
		return
	}
	g.selected = index
	if g.onSelect != nil {
		g.onSelect(g.slots[index].key)
	}
}

// Selected returns the selected index, or -1.
func (g *RadioGroup) Selected() int {
	return g.selected
}

// SelectedRadio returns the checked radio if it is still in the group.
func (g *RadioGroup) SelectedRadio() (*Radio, bool) {
	return g.Radio(g.selected)
}

// Radio returns the member at index, if present.
func (g *RadioGroup) Radio(index int) (*Radio, bool) {
	if index < 0 || index >= len(g.slots) || g.slots[index] == nil {
		return nil, false
	}
	return g.slots[index], true
}

// Len returns the number of slots, including emptied ones.
func (g *RadioGroup) Len() int {
	return len(g.slots)
}

// Radio is one option of a RadioGroup.
type Radio struct {
	text     string
	key      string
	disabled bool
	group    *RadioGroup
	index    int
}

func (r *Radio) Text() string {
	if r.Checked() {
		return api.GlyphRadioChecked + " " + r.text
	}
	return api.GlyphRadioUnchecked + " " + r.text
}

func (r *Radio) Selectable() bool { return true }
func (r *Radio) Enabled() bool    { return !r.disabled }

// SetEnabled greys the radio out or restores it.
func (r *Radio) SetEnabled(enabled bool) {
	r.disabled = !enabled
}

// Key returns the value reported to the group callback.
func (r *Radio) Key() string { return r.key }

// Index returns the radio's stable slot index.
func (r *Radio) Index() int { return r.index }

// Checked reports whether this radio is the group's selection.
func (r *Radio) Checked() bool {
	if r.group == nil {
		return false
	}
	cur, ok := r.group.SelectedRadio()
	return ok && cur == r
}

func (r *Radio) Select() {
	if r.group == nil {
		panic("action: radio has been removed from its group")
	}
	r.group.Select(r.index)
}

// Remove detaches the radio, leaving its slot empty.
func (r *Radio) Remove() {
	if r.group == nil {
		return
	}
	if r.index < len(r.group.slots) && r.group.slots[r.index] == r {
		r.group.slots[r.index] = nil
	}
	r.group = nil
}
