package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Class tags cells so the caller can style runs of them.
type Class int

const (
	Plain Class = iota
	Title
	Subtle
	Border
	Heading
	Selected
	Hot
	Graph
	Error
	StatusBar
	HelpBar
	Dialog
	DialogTitle
)

type cell struct {
	r     rune // 0 marks the right half of a wide rune
	class Class
}

// Canvas is a rows x cols grid. Writes outside the grid are dropped.
type Canvas struct {
	rows, cols int
	cells      [][]cell
}

func NewCanvas(rows, cols int) *Canvas {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	c := &Canvas{rows: rows, cols: cols, cells: make([][]cell, rows)}
	for y := range c.cells {
		row := make([]cell, cols)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *Canvas) Rows() int { return c.rows }
func (c *Canvas) Cols() int { return c.cols }

// Put writes s at (y, x) and returns the number of cells written. Text past
// the right edge is cut; rows outside the grid write nothing.
func (c *Canvas) Put(y, x int, s string, class Class) int {
	if y < 0 || y >= c.rows || x >= c.cols {
		return 0
	}
	written := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if r == '\n' || r == '\t' {
			r, w = ' ', 1
		}
		if w == 0 {
			continue
		}
		if x+w > c.cols {
			break
		}
		if x >= 0 {
			c.set(y, x, cell{r: r, class: class})
			if w == 2 {
				c.set(y, x+1, cell{r: ' ', class: class})
				c.cells[y][x+1].r = 0
			}
			written += w
		}
		x += w
	}
	return written
}

// set overwrites one cell. A wide rune that loses either half is replaced
// by a blank so every row keeps exactly cols cells of width.
func (c *Canvas) set(y, x int, cl cell) {
	row := c.cells[y]
	if row[x].r == 0 && x > 0 {
		row[x-1].r = ' '
	}
	if row[x].r != 0 && x+1 < c.cols && row[x+1].r == 0 {
		row[x+1].r = ' '
	}
	row[x] = cl
}

// Fill paints width cells of row y with r.
func (c *Canvas) Fill(y, x, width int, r rune, class Class) {
	if width <= 0 {
		return
	}
	c.Put(y, x, strings.Repeat(string(r), width), class)
}

// Paint restyles existing cells without changing their text.
func (c *Canvas) Paint(y, x, width int, class Class) {
	if y < 0 || y >= c.rows {
		return
	}
	for i := x; i < x+width && i < c.cols; i++ {
		if i >= 0 {
			c.cells[y][i].class = class
		}
	}
}

// Center writes s horizontally centered on row y.
func (c *Canvas) Center(y int, s string, class Class) {
	x := (c.cols - runewidth.StringWidth(s)) / 2
	if x < 0 {
		x = 0
	}
	c.Put(y, x, s, class)
}

// Box draws a single-line border with the given outer size.
func (c *Canvas) Box(r Rect, class Class) {
	if r.Height < 2 || r.Width < 2 {
		return
	}
	inner := r.Width - 2
	c.Put(r.Y, r.X, "┌"+strings.Repeat("─", inner)+"┐", class)
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		c.Put(y, r.X, "│", class)
		c.Fill(y, r.X+1, inner, ' ', class)
		c.Put(y, r.X+r.Width-1, "│", class)
	}
	c.Put(r.Y+r.Height-1, r.X, "└"+strings.Repeat("─", inner)+"┘", class)
}

// Clear blanks a rectangle.
func (c *Canvas) Clear(r Rect) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		c.Fill(y, r.X, r.Width, ' ', Plain)
	}
}

// Line returns row y as plain text.
func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.rows {
		return ""
	}
	var b strings.Builder
	for _, cl := range c.cells[y] {
		if cl.r != 0 {
			b.WriteRune(cl.r)
		}
	}
	return b.String()
}

// ClassAt returns the class of a cell, or Plain outside the grid.
func (c *Canvas) ClassAt(y, x int) Class {
	if y < 0 || y >= c.rows || x < 0 || x >= c.cols {
		return Plain
	}
	return c.cells[y][x].class
}

// String joins all rows as plain text.
func (c *Canvas) String() string {
	return c.Render(func(_ Class, s string) string { return s })
}

// Render joins all rows, passing each run of same-class cells through
// style.
func (c *Canvas) Render(style func(Class, string) string) string {
	var out strings.Builder
	var run strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		run.Reset()
		cur := Plain
		for x, cl := range row {
			if x > 0 && cl.class != cur {
				out.WriteString(style(cur, run.String()))
				run.Reset()
			}
			cur = cl.class
			if cl.r != 0 {
				run.WriteRune(cl.r)
			}
		}
		if run.Len() > 0 {
			out.WriteString(style(cur, run.String()))
		}
	}
	return out.String()
}
