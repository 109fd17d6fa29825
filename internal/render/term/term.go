// Package term rasterises render commands onto a character grid so the device
// screen can be shown in a terminal. Each cell stands for a fixed block of
// device pixels.
package term

import (
	"math"
	"strings"

	"github.com/atomicstack/custom-menu/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type cell struct {
	r       rune
	fg, bg  render.Color
	reverse bool
	// wide marks the second column of a double-width rune.
	wide bool
}

type span struct {
	c0, r0, c1, r1 int
}

func (s span) empty() bool {
	return s.c1 <= s.c0 || s.r1 <= s.r0
}

func (s span) intersect(o span) span {
	return span{max(s.c0, o.c0), max(s.r0, o.r0), min(s.c1, o.c1), min(s.r1, o.r1)}
}

// Renderer implements render.Renderer over a cell grid.
type Renderer struct {
	cellW, cellH float32
	cols, rows   int
	grid         [][]cell
	frames       int
}

// New creates a renderer for a screen of widthPx by heightPx device pixels,
// drawn with one terminal cell per cellW by cellH pixels.
func New(widthPx, heightPx int, cellW, cellH float32) *Renderer {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	r := &Renderer{cellW: cellW, cellH: cellH}
	r.Resize(widthPx, heightPx)
	return r
}

// Resize changes the screen size and clears the grid.
func (r *Renderer) Resize(widthPx, heightPx int) {
	r.cols = max(int(math.Ceil(float64(float32(widthPx)/r.cellW))), 1)
	r.rows = max(int(math.Ceil(float64(float32(heightPx)/r.cellH))), 1)
	r.clear()
}

// Size returns the grid size in cells.
func (r *Renderer) Size() (cols, rows int) {
	return r.cols, r.rows
}

// Frames returns how many frames have been rendered.
func (r *Renderer) Frames() int {
	return r.frames
}

func (r *Renderer) clear() {
	r.grid = make([][]cell, r.rows)
	for y := range r.grid {
		row := make([]cell, r.cols)
		for x := range row {
			row[x].r = ' '
		}
		r.grid[y] = row
	}
}

func (r *Renderer) toSpan(b render.Rect) span {
	s := span{
		c0: int(math.Round(float64(b.X / r.cellW))),
		r0: int(math.Round(float64(b.Y / r.cellH))),
		c1: int(math.Round(float64(b.Right() / r.cellW))),
		r1: int(math.Round(float64(b.Bottom() / r.cellH))),
	}
	if b.Width > 0 && s.c1 <= s.c0 {
		s.c1 = s.c0 + 1
	}
	if b.Height > 0 && s.r1 <= s.r0 {
		s.r1 = s.r0 + 1
	}
	return s
}

// Render replaces the grid with the frame described by cmds.
func (r *Renderer) Render(cmds []render.Command) {
	r.clear()
	r.frames++
	screen := span{0, 0, r.cols, r.rows}
	clips := []span{screen}
	for _, cmd := range cmds {
		clip := clips[len(clips)-1]
		switch cmd.Kind {
		case render.KindRectangle:
			if cmd.Bounds.Height < r.cellH/2 {
				r.rule(cmd, clip)
				continue
			}
			r.fill(r.toSpan(cmd.Bounds).intersect(clip), cmd.Color)
		case render.KindBorder:
			r.border(r.toSpan(cmd.Bounds), clip, cmd.Color, cmd.Border)
		case render.KindText:
			r.text(cmd, clip)
		case render.KindScissorStart:
			clips = append(clips, r.toSpan(cmd.Bounds).intersect(clip))
		case render.KindScissorEnd:
			if len(clips) > 1 {
				clips = clips[:len(clips)-1]
			}
		}
	}
}

func (r *Renderer) fill(s span, c render.Color) {
	if c.Transparent() {
		return
	}
	for y := s.r0; y < s.r1; y++ {
		for x := s.c0; x < s.c1; x++ {
			r.grid[y][x].bg = c
		}
	}
}

// rule draws a rectangle too thin for a cell row as a horizontal line.
func (r *Renderer) rule(cmd render.Command, clip span) {
	if cmd.Color.Transparent() {
		return
	}
	s := r.toSpan(cmd.Bounds)
	y := int(math.Floor(float64((cmd.Bounds.Y + cmd.Bounds.Height/2) / r.cellH)))
	for x := s.c0; x < s.c1; x++ {
		r.line(x, y, clip, '─', cmd.Color)
	}
}

func (r *Renderer) set(x, y int, clip span, ch rune, fg render.Color) {
	if x < clip.c0 || x >= clip.c1 || y < clip.r0 || y >= clip.r1 {
		return
	}
	r.grid[y][x].r = ch
	r.grid[y][x].fg = fg
	r.grid[y][x].wide = false
}

func (r *Renderer) line(x, y int, clip span, ch rune, fg render.Color) {
	if x < clip.c0 || x >= clip.c1 || y < clip.r0 || y >= clip.r1 {
		return
	}
	if c := r.grid[y][x]; c.r != ' ' || c.wide {
		return
	}
	r.set(x, y, clip, ch, fg)
}

// border draws a box when the span has room for an interior. Smaller boxes
// with all four sides are shown in reverse video instead. Border glyphs never
// replace text.
func (r *Renderer) border(s span, clip span, c render.Color, w render.BorderWidth) {
	if s.empty() || !w.Any() {
		return
	}
	if s.c1-s.c0 < 3 || s.r1-s.r0 < 3 {
		if w.Left == 0 || w.Right == 0 || w.Top == 0 || w.Bottom == 0 {
			return
		}
		area := s.intersect(clip)
		for y := area.r0; y < area.r1; y++ {
			for x := area.c0; x < area.c1; x++ {
				r.grid[y][x].reverse = true
			}
		}
		return
	}
	right, bottom := s.c1-1, s.r1-1
	corner := func(x, y int, ch rune, a, b uint16) {
		if a > 0 && b > 0 {
			r.line(x, y, clip, ch, c)
		}
	}
	corner(s.c0, s.r0, '┌', w.Top, w.Left)
	corner(right, s.r0, '┐', w.Top, w.Right)
	corner(s.c0, bottom, '└', w.Bottom, w.Left)
	corner(right, bottom, '┘', w.Bottom, w.Right)
	if w.Top > 0 {
		for x := s.c0; x <= right; x++ {
			r.line(x, s.r0, clip, '─', c)
		}
	}
	if w.Bottom > 0 {
		for x := s.c0; x <= right; x++ {
			r.line(x, bottom, clip, '─', c)
		}
	}
	if w.Left > 0 {
		for y := s.r0; y <= bottom; y++ {
			r.line(s.c0, y, clip, '│', c)
		}
	}
	if w.Right > 0 {
		for y := s.r0; y <= bottom; y++ {
			r.line(right, y, clip, '│', c)
		}
	}
}

// text writes a single line on the row holding the vertical centre of its
// bounds.
func (r *Renderer) text(cmd render.Command, clip span) {
	y := int(math.Floor(float64((cmd.Bounds.Y + cmd.Bounds.Height/2) / r.cellH)))
	x := int(math.Round(float64(cmd.Bounds.X / r.cellW)))
	for _, ch := range cmd.Text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if w == 2 && x+1 >= clip.c1 {
			return
		}
		r.set(x, y, clip, ch, cmd.Color)
		if w == 2 {
			r.set(x+1, y, clip, ' ', cmd.Color)
			if x+1 >= clip.c0 && y >= clip.r0 && y < clip.r1 {
				r.grid[y][x+1].wide = true
			}
		}
		x += w
	}
}

// Plain returns the grid as text without styling, trailing spaces trimmed.
func (r *Renderer) Plain() string {
	var b strings.Builder
	for y, row := range r.grid {
		var line strings.Builder
		for _, c := range row {
			if !c.wide {
				line.WriteRune(c.r)
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		if y < len(r.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type styleKey struct {
	fg, bg  render.Color
	reverse bool
}

// View returns the grid styled with Lip Gloss, one line per row.
func (r *Renderer) View() string {
	styles := make(map[styleKey]lipgloss.Style)
	styleFor := func(k styleKey) lipgloss.Style {
		if st, ok := styles[k]; ok {
			return st
		}
		st := lipgloss.NewStyle().Reverse(k.reverse)
		if !k.fg.Transparent() {
			st = st.Foreground(lipgloss.Color(k.fg.Hex()))
		}
		if !k.bg.Transparent() {
			st = st.Background(lipgloss.Color(k.bg.Hex()))
		}
		styles[k] = st
		return st
	}

	lines := make([]string, len(r.grid))
	for y, row := range r.grid {
		var line strings.Builder
		var run strings.Builder
		var cur styleKey
		flush := func() {
			if run.Len() > 0 {
				line.WriteString(styleFor(cur).Render(run.String()))
				run.Reset()
			}
		}
		for x, c := range row {
			if c.wide {
				continue
			}
			k := styleKey{fg: c.fg, bg: c.bg, reverse: c.reverse}
			if x > 0 && k != cur {
				flush()
			}
			cur = k
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

var _ render.Renderer = (*Renderer)(nil)
