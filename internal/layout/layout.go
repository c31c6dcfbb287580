// Package layout partitions the terminal into regions and provides a
// bounds-checked cell canvas to draw them on.
package layout

const (
	MinCols = 80
	MinRows = 15

	HeaderHeight = 2
	StatusHeight = 1
	HelpHeight   = 1

	// ListChrome is the column header row above the process rows.
	ListChrome = 1
	// ListFloor is the minimum number of process rows.
	ListFloor = 5
	// GraphFloor is the smallest graph that still has a title, one plot
	// row and an axis.
	GraphFloor = 3
)

// Rect is a region of the screen. A zero Height means the region is hidden.
type Rect struct {
	Y, X          int
	Height, Width int
}

// Empty reports whether nothing can be drawn in r.
func (r Rect) Empty() bool { return r.Height <= 0 || r.Width <= 0 }

// Geometry is the vertical partition of one frame.
type Geometry struct {
	Rows, Cols int
	TooSmall   bool

	Header Rect
	Graphs Rect
	List   Rect
	Status Rect
	Help   Rect
}

// ListRows is the number of process rows below the list header.
func (g Geometry) ListRows() int {
	n := g.List.Height - ListChrome
	if n < 0 {
		return 0
	}
	return n
}

// Compute lays out a rows x cols terminal. Graphs get up to preferredGraph
// rows but shrink first when space runs short; below GraphFloor they are
// hidden. The process list always keeps ListFloor rows.
func Compute(rows, cols, preferredGraph int) Geometry {
	g := Geometry{Rows: rows, Cols: cols}
	if rows < MinRows || cols < MinCols {
		g.TooSmall = true
		return g
	}

	avail := rows - HeaderHeight - StatusHeight - HelpHeight
	graph := preferredGraph
	if spare := avail - ListChrome - ListFloor; graph > spare {
		graph = spare
	}
	if graph < GraphFloor {
		graph = 0
	}

	y := 0
	g.Header = Rect{Y: y, Height: HeaderHeight, Width: cols}
	y += HeaderHeight
	g.Graphs = Rect{Y: y, Height: graph, Width: cols}
	y += graph
	g.List = Rect{Y: y, Height: avail - graph, Width: cols}
	y += g.List.Height
	g.Status = Rect{Y: y, Height: StatusHeight, Width: cols}
	y += StatusHeight
	g.Help = Rect{Y: y, Height: HelpHeight, Width: cols}
	return g
}

// Window returns the first visible index of a list of total items shown in
// height rows so that selected stays centered where possible.
func Window(selected, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	start := selected - height/2
	if start > total-height {
		start = total - height
	}
	if start < 0 {
		start = 0
	}
	return start
}
