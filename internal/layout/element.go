package layout

import "github.com/atomicstack/custom-menu/internal/render"

// Direction is the axis children are stacked along.
type Direction int

const (
	TopToBottom Direction = iota
	LeftToRight
)

// SizingKind selects how an axis is sized.
type SizingKind int

const (
	// SizingFit shrink-wraps the content.
	SizingFit SizingKind = iota
	// SizingGrow takes a share of the parent's leftover space.
	SizingGrow
	// SizingFixed uses an exact size.
	SizingFixed
)

// Sizing configures one axis.
type Sizing struct {
	Kind  SizingKind
	Value float32
	Min   float32
}

// Fit sizes an axis to its content.
func Fit() Sizing { return Sizing{Kind: SizingFit} }

// FitMin sizes an axis to its content but never below min.
func FitMin(min float32) Sizing { return Sizing{Kind: SizingFit, Min: min} }

// Grow makes an axis expand into free space.
func Grow() Sizing { return Sizing{Kind: SizingGrow} }

// Fixed pins an axis to v.
func Fixed(v float32) Sizing { return Sizing{Kind: SizingFixed, Value: v, Min: v} }

// Padding is per-side inner spacing.
type Padding struct {
	Left, Right, Top, Bottom float32
}

// PaddingAll pads every side by v.
func PaddingAll(v float32) Padding {
	return Padding{Left: v, Right: v, Top: v, Bottom: v}
}

func (p Padding) horizontal() float32 { return p.Left + p.Right }
func (p Padding) vertical() float32   { return p.Top + p.Bottom }

// Align positions children on an axis with leftover space.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Border draws an outline after an element's children.
type Border struct {
	Color render.Color
	Width render.BorderWidth
}

// Element configures a container.
type Element struct {
	ID         string
	Direction  Direction
	Width      Sizing
	Height     Sizing
	Padding    Padding
	ChildGap   float32
	AlignX     Align
	AlignY     Align
	Background render.Color
	Border     Border
	// Clip restricts drawing of children to the element's bounds. Clipped
	// content does not contribute to the element's fitted height.
	Clip bool
	// ChildOffset shifts children vertically, usually by minus the scroll
	// position of a clipped container.
	ChildOffset float32
}

// Text configures a run of text.
type Text struct {
	ID    string
	Font  render.FontID
	Color render.Color
	// Wrap breaks the text on word boundaries to fit the parent width.
	// Unwrapped text is truncated instead.
	Wrap  bool
	Align Align
}

type node struct {
	el       Element
	text     *Text
	content  string
	lines    []string
	lineH    float32
	children []*node
	parent   *node

	w, h   float32
	x, y   float32
	fitW   float32
	fitH   float32
	contentH float32
}

func (n *node) isText() bool { return n.text != nil }
