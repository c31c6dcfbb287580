package ui

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/procviewer/internal/input"
	"github.com/Dicklesworthstone/procviewer/internal/layout"
	"github.com/Dicklesworthstone/procviewer/internal/model"
	"github.com/Dicklesworthstone/procviewer/internal/sparkline"
)

const (
	tooSmallMsg  = "Terminal too small (min 80x15)"
	rowErrorMsg  = "Error: unable to display process info"
	emptyViewMsg = "No processes found matching criteria"
	staleMsg     = "Metrics unavailable: graphs show the last good sample"

	// hotPercent marks rows that use more than this share of CPU or memory.
	hotPercent = 50.0
)

func (m *Model) View() string {
	return m.frame().Render(styleRun)
}

// frame draws the whole screen. Every region recovers on its own so one
// bad region never blanks the rest.
func (m *Model) frame() *layout.Canvas {
	size := m.state.Size
	c := layout.NewCanvas(size.Rows, size.Cols)
	g := layout.Compute(size.Rows, size.Cols, m.cfg.GraphHeight())
	if g.TooSmall {
		c.Center(size.Rows/2, tooSmallMsg, layout.Error)
		return c
	}
	m.region(c, "header", g.Header, m.drawHeader)
	m.region(c, "graphs", g.Graphs, m.drawGraphs)
	m.region(c, "process list", g.List, m.drawList)
	m.region(c, "status bar", g.Status, m.drawStatus)
	m.region(c, "help", g.Help, m.drawHelp)
	m.region(c, "dialog", layout.Rect{Height: size.Rows, Width: size.Cols}, m.drawOverlay)
	return c
}

func (m *Model) region(c *layout.Canvas, name string, r layout.Rect, draw func(*layout.Canvas, layout.Rect)) {
	if r.Empty() {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			m.logger.Error("render failed", zap.String("region", name), zap.Any("panic", p))
			c.Clear(r)
			c.Put(r.Y, r.X, "Error: unable to display "+name, layout.Error)
		}
	}()
	draw(c, r)
}

func (m *Model) drawHeader(c *layout.Canvas, r layout.Rect) {
	c.Put(r.Y, r.X, "procviewer", layout.Title)
	stamp := m.summary.Timestamp.Format("Mon Jan 2 15:04:05 2006")
	c.Put(r.Y, r.X+r.Width-len(stamp), stamp, layout.Subtle)

	s := m.summary
	line := fmt.Sprintf("load %.2f %.2f %.2f | up %s | swap %.0f%% | tasks %d shown %d | disk r/w %.1f/%.1f MB/s | net rx/tx %.1f/%.1f Mb/s",
		s.CPU.Load1, s.CPU.Load5, s.CPU.Load15,
		formatUptime(s.Uptime), s.Swap,
		m.total, len(m.view),
		s.IO.DiskReadMBs, s.IO.DiskWriteMBs, s.IO.NetRxMbps, s.IO.NetTxMbps)
	c.Put(r.Y+1, r.X, line, layout.Subtle)
}

func formatUptime(d time.Duration) string {
	d = d.Truncate(time.Minute)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hm := fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, hm)
	}
	return hm
}

// drawGraphs puts the CPU and memory sparklines side by side. A failed
// metrics read keeps the previous graphs and adds a notice below them.
func (m *Model) drawGraphs(c *layout.Canvas, r layout.Rect) {
	height := r.Height
	if m.stale {
		height--
		c.Put(r.Y+height, r.X, staleMsg, layout.Error)
	}
	if height < sparkline.MinHeight {
		return
	}
	width := (r.Width - 1) / 2
	graphs := []struct {
		title  string
		series []float64
	}{
		{"CPU", m.history.CPU()},
		{"Memory", m.history.Memory()},
	}
	for i, gr := range graphs {
		x := r.X + i*(width+1)
		title := gr.title
		if n := len(gr.series); n > 0 {
			title = fmt.Sprintf("%s %.1f%%", gr.title, gr.series[n-1])
		}
		for row, line := range sparkline.Render(gr.series, width, height, title) {
			class := layout.Graph
			if row == 0 {
				class = layout.Heading
			}
			c.Put(r.Y+row, x, line, class)
		}
	}
}

const listHeader = "    PID STATUS      CPU%   MEM%  NAME"

func (m *Model) drawList(c *layout.Canvas, r layout.Rect) {
	c.Fill(r.Y, r.X, r.Width, ' ', layout.Heading)
	c.Put(r.Y, r.X, listHeader, layout.Heading)

	rows := r.Height - layout.ListChrome
	start := layout.Window(m.state.Selected, len(m.view), rows)
	for i := 0; i < rows && start+i < len(m.view); i++ {
		idx := start + i
		m.drawRow(c, r.Y+layout.ListChrome+i, r, m.view[idx], idx == m.state.Selected)
	}
}

func (m *Model) drawRow(c *layout.Canvas, y int, r layout.Rect, p model.Process, selected bool) {
	defer func() {
		if e := recover(); e != nil {
			m.logger.Warn("row render failed", zap.Int32("pid", p.PID), zap.Any("panic", e))
			c.Fill(y, r.X, r.Width, ' ', layout.Error)
			c.Put(y, r.X, rowErrorMsg, layout.Error)
		}
	}()
	line := formatRow(p)
	class := layout.Plain
	if p.CPU > hotPercent || p.Memory > hotPercent {
		class = layout.Hot
	}
	if selected {
		class = layout.Selected
	}
	c.Fill(y, r.X, r.Width, ' ', class)
	c.Put(y, r.X, line, class)
}

func formatRow(p model.Process) string {
	name := p.Name
	if p.Depth != 0 {
		name = strings.Repeat("  ", p.Depth-1) + "└─ " + name
	}
	return fmt.Sprintf("%7d %-9s %6.1f %6.1f  %s", p.PID, p.Status, p.CPU, p.Memory, name)
}

func (m *Model) drawStatus(c *layout.Canvas, r layout.Rect) {
	c.Fill(r.Y, r.X, r.Width, ' ', layout.StatusBar)
	c.Put(r.Y, r.X, " "+m.statusLine(), layout.StatusBar)
}

func (m *Model) statusLine() string {
	s := m.state
	switch s.Mode {
	case input.ModeSearching:
		return "Search: " + s.Filters.Search + "_"
	case input.ModeFilterCPU:
		return "Min CPU %: " + s.Entry + "_"
	case input.ModeFilterMemory:
		return "Min memory %: " + s.Entry + "_"
	case input.ModeFilterUser:
		user := ""
		if s.Filters.User != nil {
			user = *s.Filters.User
		}
		return "User: " + user + "_"
	}

	info := "sort: " + s.Sort.String()
	if s.Tree {
		info = "tree view"
	}
	if f := describeFilters(s.Filters); f != "" {
		info += " | " + f
	}
	msg := s.Message
	switch {
	case m.listErr != nil:
		msg = "Error reading processes: " + m.listErr.Error()
	case msg == "" && len(m.view) == 0:
		msg = emptyViewMsg
	}
	if msg != "" {
		return msg + " | " + info
	}
	return info
}

func describeFilters(f model.FilterSet) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if f.Status != nil {
		parts = append(parts, "status="+f.Status.String())
	}
	if f.MinCPU != nil {
		parts = append(parts, fmt.Sprintf("cpu>=%g", *f.MinCPU))
	}
	if f.MinMemory != nil {
		parts = append(parts, fmt.Sprintf("mem>=%g", *f.MinMemory))
	}
	if f.User != nil {
		parts = append(parts, "user="+*f.User)
	}
	return strings.Join(parts, " ")
}

func (m *Model) drawHelp(c *layout.Canvas, r layout.Rect) {
	c.Fill(r.Y, r.X, r.Width, ' ', layout.HelpBar)
	c.Put(r.Y, r.X, m.help.ShortHelpView(m.keys.forMode(m.state.Mode)), layout.HelpBar)
}

// drawOverlay draws the dialog of the current mode, if it has one.
func (m *Model) drawOverlay(c *layout.Canvas, r layout.Rect) {
	switch m.state.Mode {
	case input.ModeFilterMenu:
		dialog(c, r, "Filter", []string{
			"1  status",
			"2  minimum CPU %",
			"3  minimum memory %",
			"4  user",
			"c  clear filters",
		})
	case input.ModeFilterStatus:
		dialog(c, r, "Status", []string{
			"r  running",
			"s  sleeping",
			"t  stopped",
			"z  zombie",
		})
	case input.ModeDetails:
		dialog(c, r, "Process details", m.detailLines())
	case input.ModeConfirmTerminate:
		line := fmt.Sprintf("Process %d is no longer running", m.state.Target)
		if p, ok := m.builder.Lookup(m.state.Target); ok {
			line = fmt.Sprintf("Terminate %s (pid %d)? y/n", p.Name, p.PID)
		}
		dialog(c, r, "Confirm", []string{line})
	}
}

func (m *Model) detailLines() []string {
	d := m.details
	lines := []string{
		fmt.Sprintf("PID:      %d", d.PID),
		fmt.Sprintf("Name:     %s", d.Name),
		fmt.Sprintf("Status:   %s", d.Status),
		fmt.Sprintf("Parent:   %d", d.PPID),
		fmt.Sprintf("CPU:      %.1f%%", d.CPU),
		fmt.Sprintf("Memory:   %.1f%%", d.Memory),
	}
	if m.detailsErr != nil {
		return append(lines, "Details unavailable: "+m.detailsErr.Error())
	}
	lines = append(lines, fmt.Sprintf("User:     %s", d.Username))
	if !d.CreateTime.IsZero() {
		lines = append(lines, "Started:  "+d.CreateTime.Format("2006-01-02 15:04:05"))
	}
	return append(lines, "Command:  "+d.Cmdline)
}

// dialog draws a bordered box centered in r.
func dialog(c *layout.Canvas, r layout.Rect, title string, lines []string) {
	width := len(title) + 6
	for _, l := range lines {
		if w := len([]rune(l)) + 4; w > width {
			width = w
		}
	}
	if width > r.Width-4 {
		width = r.Width - 4
	}
	box := layout.Rect{Height: len(lines) + 2, Width: width}
	box.Y = r.Y + (r.Height-box.Height)/2
	box.X = r.X + (r.Width-box.Width)/2

	c.Box(box, layout.Dialog)
	c.Put(box.Y, box.X+2, " "+title+" ", layout.DialogTitle)
	for i, l := range lines {
		c.Put(box.Y+1+i, box.X+2, clip(l, box.Width-4), layout.Dialog)
	}
}

func clip(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
