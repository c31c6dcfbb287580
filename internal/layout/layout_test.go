package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

func checkPartition(t *testing.T, g Geometry) {
	t.Helper()
	regions := []Rect{g.Header, g.Graphs, g.List, g.Status, g.Help}
	y := 0
	for i, r := range regions {
		if r.Y != y {
			t.Errorf("region %d starts at %d, want %d", i, r.Y, y)
		}
		if r.Height < 0 {
			t.Errorf("region %d has negative height", i)
		}
		y += r.Height
	}
	if y != g.Rows {
		t.Errorf("regions cover %d rows, want %d", y, g.Rows)
	}
}

func TestComputeTooSmall(t *testing.T) {
	for _, sz := range [][2]int{{10, 40}, {14, 80}, {15, 79}, {0, 0}} {
		g := Compute(sz[0], sz[1], 8)
		if !g.TooSmall {
			t.Errorf("%dx%d should be too small", sz[1], sz[0])
		}
	}
	if g := Compute(MinRows, MinCols, 8); g.TooSmall {
		t.Error("minimum size rejected")
	}
}

func TestComputePartition(t *testing.T) {
	tests := []struct {
		rows, pref int
		graph      int
	}{
		{30, 8, 8},
		{15, 8, 5},  // 11 rows left, list keeps 6
		{17, 8, 7},
		{100, 8, 8},
		{20, 0, 0},  // graphs disabled
		{20, 2, 0},  // below floor
		{15, 3, 3},
	}
	for _, tt := range tests {
		g := Compute(tt.rows, 100, tt.pref)
		checkPartition(t, g)
		if g.Graphs.Height != tt.graph {
			t.Errorf("rows=%d pref=%d: graph height = %d, want %d", tt.rows, tt.pref, g.Graphs.Height, tt.graph)
		}
		if g.ListRows() < ListFloor {
			t.Errorf("rows=%d: list rows = %d, below floor", tt.rows, g.ListRows())
		}
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		sel, total, height, want int
	}{
		{0, 5, 10, 0},
		{0, 100, 10, 0},
		{3, 100, 10, 0},
		{50, 100, 10, 45},
		{99, 100, 10, 90},
		{97, 100, 10, 90},
		{5, 100, 0, 0},
	}
	for _, tt := range tests {
		if got := Window(tt.sel, tt.total, tt.height); got != tt.want {
			t.Errorf("Window(%d, %d, %d) = %d, want %d", tt.sel, tt.total, tt.height, got, tt.want)
		}
	}
}

func TestCanvasClips(t *testing.T) {
	c := NewCanvas(3, 10)
	if n := c.Put(-1, 0, "x", Plain); n != 0 {
		t.Errorf("write above grid wrote %d", n)
	}
	if n := c.Put(3, 0, "x", Plain); n != 0 {
		t.Errorf("write below grid wrote %d", n)
	}
	if n := c.Put(0, 20, "x", Plain); n != 0 {
		t.Errorf("write right of grid wrote %d", n)
	}
	if n := c.Put(1, 6, "abcdefgh", Plain); n != 4 {
		t.Errorf("clipped write wrote %d, want 4", n)
	}
	if n := c.Put(2, -2, "abcd", Plain); n != 2 {
		t.Errorf("left-clipped write wrote %d, want 2", n)
	}
	if got := c.Line(1); got != "      abcd" {
		t.Errorf("line 1 = %q", got)
	}
	if got := c.Line(2); got != "cd        " {
		t.Errorf("line 2 = %q", got)
	}
	for y := 0; y < c.Rows(); y++ {
		if n := utf8.RuneCountInString(c.Line(y)); n != 10 {
			t.Errorf("line %d has %d cells", y, n)
		}
	}
}

func TestCanvasWideRunes(t *testing.T) {
	c := NewCanvas(1, 5)
	c.Put(0, 0, "日本語", Plain)
	if got := c.Line(0); got != "日本 " {
		t.Errorf("line = %q", got)
	}
}

func TestCanvasOverwriteHalfWideRune(t *testing.T) {
	tests := []struct {
		name string
		x    int
		s    string
		want string
	}{
		{"right half", 3, "│", "界 │界界界"},
		{"left half", 4, "x", "界界x 界界"},
		{"wide over halves", 1, "日", " 日 界界界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(1, 10)
			c.Put(0, 0, "界界界界界", Plain)
			c.Put(0, tt.x, tt.s, Border)
			got := c.Line(0)
			if got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
			if w := runewidth.StringWidth(got); w != 10 {
				t.Errorf("line width = %d, want 10", w)
			}
		})
	}
}

func TestCanvasRenderRuns(t *testing.T) {
	c := NewCanvas(2, 6)
	c.Put(0, 0, "ab", Title)
	c.Put(0, 2, "cd", Selected)
	var runs []string
	out := c.Render(func(cl Class, s string) string {
		runs = append(runs, s)
		return "[" + s + "]"
	})
	if !strings.HasPrefix(out, "[ab][cd][  ]\n") {
		t.Errorf("render = %q", out)
	}
	if len(runs) != 4 {
		t.Errorf("runs = %q", runs)
	}
	if c.ClassAt(0, 3) != Selected || c.ClassAt(5, 5) != Plain {
		t.Error("ClassAt mismatch")
	}
}

func TestBoxAndCenter(t *testing.T) {
	c := NewCanvas(5, 20)
	c.Box(Rect{Y: 1, X: 2, Height: 3, Width: 6}, Dialog)
	c.Center(0, "hi", Title)
	if got := c.Line(0); got != "         hi         " {
		t.Errorf("center = %q", got)
	}
	if got := c.Line(1); got != "  ┌────┐            " {
		t.Errorf("top = %q", got)
	}
	if got := c.Line(3); got != "  └────┘            " {
		t.Errorf("bottom = %q", got)
	}
	c.Box(Rect{Y: 3, X: 15, Height: 4, Width: 10}, Dialog) // overflows, must not panic
}
