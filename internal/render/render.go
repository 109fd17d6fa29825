// Package render defines the declarative command list produced by the layout
// engine and consumed by display backends.
package render

import "fmt"

// FontID indexes the host font registry.
type FontID uint16

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Hex returns the color as a #rrggbb string, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Transparent reports whether the color has no coverage.
func (c Color) Transparent() bool {
	return c.A == 0
}

// Dimensions is a width/height pair in device pixels.
type Dimensions struct {
	Width  float32
	Height float32
}

// Rect is an axis-aligned box in device pixels.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Bottom returns the y coordinate just past the rectangle.
func (r Rect) Bottom() float32 {
	return r.Y + r.Height
}

// Right returns the x coordinate just past the rectangle.
func (r Rect) Right() float32 {
	return r.X + r.Width
}

// Intersect returns the overlap of two rectangles. The result has zero size
// when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Kind enumerates render command types.
type Kind int

const (
	KindRectangle Kind = iota
	KindBorder
	KindText
	KindScissorStart
	KindScissorEnd
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindBorder:
		return "border"
	case KindText:
		return "text"
	case KindScissorStart:
		return "scissor-start"
	case KindScissorEnd:
		return "scissor-end"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// BorderWidth holds per-side border thickness.
type BorderWidth struct {
	Left, Right, Top, Bottom uint16
}

// Any reports whether any side has a non-zero width.
func (b BorderWidth) Any() bool {
	return b.Left > 0 || b.Right > 0 || b.Top > 0 || b.Bottom > 0
}

// Command is one drawing instruction. Bounds are absolute device pixels.
type Command struct {
	Kind      Kind
	ElementID string
	Bounds    Rect
	Color     Color
	Text      string
	Font      FontID
	Border    BorderWidth
}

// Renderer consumes a command list and presents it.
type Renderer interface {
	Render(cmds []Command)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(cmds []Command)

// Render calls f(cmds).
func (f RendererFunc) Render(cmds []Command) {
	f(cmds)
}

// Discard drops every frame.
var Discard Renderer = RendererFunc(func([]Command) {})
