// Package layout is a small immediate-mode layout engine. Callers describe a
// tree of elements between Begin and End; End sizes and positions the tree and
// returns the draw commands. Geometry of the last pass can be read back by
// element id, which is how callers implement scroll-to-reveal with a
// measurement pass followed by a final pass.
package layout

import (
	"fmt"
	"strings"

	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// Measurer reports the rendered size of text.
type Measurer interface {
	MeasureText(font render.FontID, text string) render.Dimensions
}

// ScrollData describes a clipped container after layout.
type ScrollData struct {
	Container render.Dimensions
	Content   render.Dimensions
	Offset    float32
}

// Engine builds one layout at a time. It is not safe for concurrent use.
type Engine struct {
	measure Measurer
	root    *node
	stack   []*node
	ids     map[string]*node
	open    bool
}

// New creates an engine that measures text with m.
func New(m Measurer) *Engine {
	return &Engine{measure: m, ids: make(map[string]*node)}
}

// Begin starts a layout of the given viewport size, discarding the previous
// one.
func (e *Engine) Begin(width, height float32) {
	e.root = &node{el: Element{
		ID:     "",
		Width:  Fixed(width),
		Height: Fixed(height),
	}}
	e.stack = []*node{e.root}
	e.ids = make(map[string]*node)
	e.open = true
}

// Open starts a container. Every Open needs a matching Close.
func (e *Engine) Open(el Element) {
	parent := e.top()
	n := &node{el: el, parent: parent}
	parent.children = append(parent.children, n)
	e.register(el.ID, n)
	e.stack = append(e.stack, n)
}

// Close ends the innermost open container.
func (e *Engine) Close() {
	if !e.open || len(e.stack) <= 1 {
		panic("layout: Close without matching Open")
	}
	e.stack = e.stack[:len(e.stack)-1]
}

// Container opens el, runs children, then closes it.
func (e *Engine) Container(el Element, children func()) {
	e.Open(el)
	if children != nil {
		children()
	}
	e.Close()
}

// Text adds a text leaf to the innermost open container.
func (e *Engine) Text(content string, cfg Text) {
	parent := e.top()
	t := cfg
	n := &node{text: &t, content: content, parent: parent}
	parent.children = append(parent.children, n)
	e.register(cfg.ID, n)
}

func (e *Engine) top() *node {
	if !e.open {
		panic("layout: element declared outside Begin/End")
	}
	return e.stack[len(e.stack)-1]
}

func (e *Engine) register(id string, n *node) {
	if id == "" {
		return
	}
	if _, dup := e.ids[id]; dup {
		panic(fmt.Sprintf("layout: duplicate element id %q", id))
	}
	e.ids[id] = n
}

// End finishes the layout and returns the draw commands in paint order.
func (e *Engine) End() []render.Command {
	if !e.open {
		panic("layout: End without Begin")
	}
	if len(e.stack) != 1 {
		panic(fmt.Sprintf("layout: %d elements left open", len(e.stack)-1))
	}
	e.open = false

	root := e.root
	e.fitWidth(root)
	e.sizeWidth(root, root.el.Width.Value)
	e.fitHeight(root)
	e.sizeHeight(root, root.el.Height.Value)
	e.position(root, 0, 0)

	var cmds []render.Command
	for _, child := range root.children {
		cmds = e.emit(child, cmds)
	}
	return cmds
}

// ElementData returns the bounds of the element with id from the last layout.
func (e *Engine) ElementData(id string) (render.Rect, bool) {
	n, ok := e.ids[id]
	if !ok {
		return render.Rect{}, false
	}
	return render.Rect{X: n.x, Y: n.y, Width: n.w, Height: n.h}, true
}

// ScrollContainerData returns the viewport and content size of a clipped
// element from the last layout.
func (e *Engine) ScrollContainerData(id string) (ScrollData, bool) {
	n, ok := e.ids[id]
	if !ok || !n.el.Clip {
		return ScrollData{}, false
	}
	return ScrollData{
		Container: render.Dimensions{Width: n.w - n.el.Padding.horizontal(), Height: n.h - n.el.Padding.vertical()},
		Content:   render.Dimensions{Width: n.fitW - n.el.Padding.horizontal(), Height: n.contentH},
		Offset:    -n.el.ChildOffset,
	}, true
}

func (e *Engine) gaps(n *node) float32 {
	if len(n.children) < 2 {
		return 0
	}
	return n.el.ChildGap * float32(len(n.children)-1)
}

func (e *Engine) fitWidth(n *node) float32 {
	if n.isText() {
		n.fitW = 0
		for _, line := range strings.Split(n.content, "\n") {
			n.fitW = max(n.fitW, e.measure.MeasureText(n.text.Font, line).Width)
		}
		return n.fitW
	}
	var content float32
	for _, child := range n.children {
		w := e.fitWidth(child)
		if n.el.Direction == LeftToRight {
			content += w
		} else {
			content = max(content, w)
		}
	}
	if n.el.Direction == LeftToRight {
		content += e.gaps(n)
	}
	n.fitW = applySizing(n.el.Width, n.el.Padding.horizontal()+content)
	return n.fitW
}

func (e *Engine) sizeWidth(n *node, w float32) {
	n.w = w
	if n.isText() {
		e.wrap(n)
		return
	}
	inner := max(w-n.el.Padding.horizontal(), 0)
	if n.el.Direction == TopToBottom {
		for _, child := range n.children {
			e.sizeWidth(child, crossSize(child, inner, true))
		}
		return
	}

	used := e.gaps(n)
	growers := 0
	for _, child := range n.children {
		if !child.isText() && child.el.Width.Kind == SizingGrow {
			growers++
			continue
		}
		used += child.fitW
	}
	share := float32(0)
	if growers > 0 {
		share = max((inner-used)/float32(growers), 0)
	}
	for _, child := range n.children {
		if !child.isText() && child.el.Width.Kind == SizingGrow {
			e.sizeWidth(child, max(share, child.el.Width.Min))
			continue
		}
		e.sizeWidth(child, min(child.fitW, max(inner-(used-child.fitW), 0)))
	}
}

// crossSize sizes a child on the axis its parent does not stack along.
func crossSize(child *node, inner float32, horizontal bool) float32 {
	fit, s := child.fitH, child.el.Height
	if horizontal {
		fit, s = child.fitW, child.el.Width
	}
	if child.isText() {
		if horizontal {
			return min(fit, inner)
		}
		return fit
	}
	switch s.Kind {
	case SizingFixed:
		return s.Value
	case SizingGrow:
		return max(inner, s.Min)
	default:
		return max(min(fit, inner), s.Min)
	}
}

func (e *Engine) wrap(n *node) {
	font := n.text.Font
	cell := e.measure.MeasureText(font, " ")
	n.lineH = cell.Height
	limit := 0
	if cell.Width > 0 {
		limit = int(n.w / cell.Width)
	}

	n.lines = n.lines[:0]
	for _, raw := range strings.Split(n.content, "\n") {
		if n.text.Wrap && limit > 0 {
			raw = wordwrap.String(raw, limit)
		}
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimRight(line, " ")
			if e.measure.MeasureText(font, line).Width > n.w {
				line = truncate.String(line, uint(max(limit, 0)))
			}
			n.lines = append(n.lines, line)
		}
	}
}

func (e *Engine) fitHeight(n *node) float32 {
	if n.isText() {
		n.fitH = n.lineH * float32(len(n.lines))
		return n.fitH
	}
	var content float32
	for _, child := range n.children {
		h := e.fitHeight(child)
		if n.el.Direction == TopToBottom {
			content += h
		} else {
			content = max(content, h)
		}
	}
	if n.el.Direction == TopToBottom {
		content += e.gaps(n)
	}
	n.contentH = content
	if n.el.Clip {
		content = 0
	}
	n.fitH = applySizing(n.el.Height, n.el.Padding.vertical()+content)
	return n.fitH
}

func (e *Engine) sizeHeight(n *node, h float32) {
	n.h = h
	if n.isText() {
		return
	}
	inner := max(h-n.el.Padding.vertical(), 0)
	if n.el.Direction == LeftToRight {
		for _, child := range n.children {
			e.sizeHeight(child, crossSize(child, inner, false))
		}
		return
	}

	used := e.gaps(n)
	growers := 0
	for _, child := range n.children {
		if !child.isText() && child.el.Height.Kind == SizingGrow {
			growers++
			continue
		}
		used += child.fitH
	}
	share := float32(0)
	if growers > 0 {
		share = max((inner-used)/float32(growers), 0)
	}
	for _, child := range n.children {
		if !child.isText() && child.el.Height.Kind == SizingGrow {
			e.sizeHeight(child, max(share, child.fitH))
			continue
		}
		e.sizeHeight(child, child.fitH)
	}
}

func (e *Engine) position(n *node, x, y float32) {
	n.x, n.y = x, y
	if n.isText() {
		return
	}
	pad := n.el.Padding
	innerW := max(n.w-pad.horizontal(), 0)
	innerH := max(n.h-pad.vertical(), 0)

	var used float32
	for _, child := range n.children {
		if n.el.Direction == TopToBottom {
			used += child.h
		} else {
			used += child.w
		}
	}
	used += e.gaps(n)

	cx := x + pad.Left
	cy := y + pad.Top + n.el.ChildOffset
	if n.el.Direction == TopToBottom {
		cy += alignOffset(n.el.AlignY, innerH-used)
	} else {
		cx += alignOffset(n.el.AlignX, innerW-used)
	}
	for _, child := range n.children {
		if n.el.Direction == TopToBottom {
			e.position(child, cx+alignOffset(n.el.AlignX, innerW-child.w), cy)
			cy += child.h + n.el.ChildGap
		} else {
			e.position(child, cx, cy+alignOffset(n.el.AlignY, innerH-child.h))
			cx += child.w + n.el.ChildGap
		}
	}
}

func (e *Engine) emit(n *node, cmds []render.Command) []render.Command {
	bounds := render.Rect{X: n.x, Y: n.y, Width: n.w, Height: n.h}
	if n.isText() {
		for i, line := range n.lines {
			if line == "" {
				continue
			}
			lw := min(e.measure.MeasureText(n.text.Font, line).Width, n.w)
			cmds = append(cmds, render.Command{
				Kind:      render.KindText,
				ElementID: n.text.ID,
				Bounds: render.Rect{
					X:      n.x + alignOffset(n.text.Align, n.w-lw),
					Y:      n.y + float32(i)*n.lineH,
					Width:  lw,
					Height: n.lineH,
				},
				Color: n.text.Color,
				Text:  line,
				Font:  n.text.Font,
			})
		}
		return cmds
	}

	if !n.el.Background.Transparent() {
		cmds = append(cmds, render.Command{Kind: render.KindRectangle, ElementID: n.el.ID, Bounds: bounds, Color: n.el.Background})
	}
	if n.el.Clip {
		cmds = append(cmds, render.Command{Kind: render.KindScissorStart, ElementID: n.el.ID, Bounds: bounds})
	}
	for _, child := range n.children {
		cmds = e.emit(child, cmds)
	}
	if n.el.Clip {
		cmds = append(cmds, render.Command{Kind: render.KindScissorEnd, ElementID: n.el.ID, Bounds: bounds})
	}
	if n.el.Border.Width.Any() {
		cmds = append(cmds, render.Command{
			Kind:      render.KindBorder,
			ElementID: n.el.ID,
			Bounds:    bounds,
			Color:     n.el.Border.Color,
			Border:    n.el.Border.Width,
		})
	}
	return cmds
}

func applySizing(s Sizing, fit float32) float32 {
	if s.Kind == SizingFixed {
		return s.Value
	}
	return max(fit, s.Min)
}

func alignOffset(a Align, free float32) float32 {
	if free <= 0 {
		return 0
	}
	switch a {
	case AlignCenter:
		return free / 2
	case AlignEnd:
		return free
	default:
		return 0
	}
}
