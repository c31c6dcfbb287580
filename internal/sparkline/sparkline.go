// Package sparkline draws a percentage series as a block-glyph graph made of
// fixed-width text lines.
package sparkline

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	MinWidth  = 10
	MinHeight = 3

	// labelWidth is the y-axis margin: four digits and the axis bar.
	labelWidth = 5

	domainMin = 0.0
	domainMax = 100.0
)

// levels are ordered by increasing coverage of a cell.
var levels = [...]rune{'▁', '▂', '▄', '▆', '█'}

// Render returns exactly height lines of exactly width cells. The newest
// sample is the rightmost column; samples that do not fit scroll off the
// left. The vertical scale is the fixed domain 0..100 so consecutive frames
// compare visually.
func Render(series []float64, width, height int, title string) []string {
	if width < MinWidth {
		width = MinWidth
	}
	if height < MinHeight {
		height = MinHeight
	}
	if len(series) == 0 {
		return banner(width, height, title+" (no data)")
	}
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return banner(width, height, title+" (error)")
		}
	}

	plotH := height - 2
	plotW := width - labelWidth
	if len(series) > plotW {
		series = series[len(series)-plotW:]
	}
	offset := plotW - len(series)

	lines := make([]string, 0, height)
	lines = append(lines, center(title, width))

	var b strings.Builder
	for y := 0; y < plotH; y++ {
		b.Reset()
		row := plotH - y // 1 at the bottom
		fmt.Fprintf(&b, "%4.0f│", domainMax*float64(row)/float64(plotH))
		for x := 0; x < plotW; x++ {
			if x < offset {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(glyph(series[x-offset], row, plotH))
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, "    └"+strings.Repeat("─", plotW))
	return lines
}

// glyph picks the block for the cell at row (1-based from the bottom) of a
// column whose value is v.
func glyph(v float64, row, plotH int) rune {
	v = math.Max(domainMin, math.Min(domainMax, v))
	filled := (v - domainMin) / (domainMax - domainMin) * float64(plotH)
	coverage := filled - float64(row-1)
	switch {
	case coverage <= 0:
		return ' '
	case coverage < 0.2:
		return levels[0]
	case coverage < 0.4:
		return levels[1]
	case coverage < 0.6:
		return levels[2]
	case coverage < 0.8:
		return levels[3]
	default:
		return levels[4]
	}
}

func banner(width, height int, text string) []string {
	lines := make([]string, height)
	lines[0] = center(text, width)
	blank := strings.Repeat(" ", width)
	for i := 1; i < height; i++ {
		lines[i] = blank
	}
	return lines
}

func center(s string, width int) string {
	s = runewidth.Truncate(s, width, "")
	left := (width - runewidth.StringWidth(s)) / 2
	return runewidth.FillRight(strings.Repeat(" ", left)+s, width)
}
