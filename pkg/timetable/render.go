package timetable

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"golestoon/pkg/course"
)

// Palette is the fixed set of course colours, assigned in schedule order.
var Palette = []string{"#F44336", "#2196F3", "#4CAF50", "#FF9800", "#9C27B0", "#00BCD4", "#795548", "#E91E63", "#3F51B5", "#8BC34A", "#FFC107", "#607D8B"}

// Options controls rendering.
type Options struct {
	// CellWidth is the width of each day column. Zero means 16.
	CellWidth int
	// English prints English day names in the header.
	English bool
	// Accent colours the header and borders.
	Accent string
}

var (
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#B71C1C")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func parityMark(p course.Parity) string {
	if p == course.EveryWeek {
		return ""
	}
	return " (" + string(p) + ")"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// text is the plain content of a cell.
func (c Cell) text(width int) string {
	switch c.Kind {
	case Empty:
		return ""
	case Conflict:
		names := make([]string, 0, len(c.Entries))
		for _, e := range c.Entries {
			names = append(names, e.Name)
		}
		return truncate("! "+strings.Join(names, " × "), width)
	case Dual:
		parts := make([]string, 0, len(c.Entries))
		for _, e := range c.Entries {
			parts = append(parts, e.Name+parityMark(e.Parity))
		}
		return truncate(strings.Join(parts, " / "), width)
	}
	e := c.Entries[0]
	if !e.First {
		return truncate("  "+e.Location, width)
	}
	return truncate(e.Name+parityMark(e.Parity), width)
}

func (c Cell) style() lipgloss.Style {
	switch c.Kind {
	case Empty:
		return lipgloss.NewStyle()
	case Conflict:
		return conflictStyle
	}
	color := Palette[c.Entries[0].Color%len(Palette)]
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color(color))
}

// Render draws the grid as a bordered table.
func Render(g Grid, opts Options) string {
	width := opts.CellWidth
	if width <= 0 {
		width = 16
	}
	accent := opts.Accent
	if accent == "" {
		accent = "99"
	}

	headers := []string{"time"}
	for _, d := range g.Days {
		if opts.English {
			headers = append(headers, d.English())
		} else {
			headers = append(headers, d.String())
		}
	}

	rows := make([][]string, len(g.Slots))
	for r, t := range g.Slots {
		row := []string{fmt.Sprintf("%s-%s", course.FormatClock(t), course.FormatClock(t+slotMinutes))}
		for _, cell := range g.Cells[r] {
			row = append(row, cell.text(width))
		}
		rows[r] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true).Align(lipgloss.Center)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(accent))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return dimStyle
			}
			if row < 0 || row >= len(g.Cells) || col-1 >= len(g.Cells[row]) {
				return lipgloss.NewStyle()
			}
			return g.Cells[row][col-1].style().Width(width)
		})
	return t.Render()
}

// Legend lists each scheduled course with its colour swatch.
func Legend(keys []string, catalog course.Catalog) string {
	var b strings.Builder
	for i, k := range keys {
		c, ok := catalog[k]
		if !ok {
			continue
		}
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(Palette[i%len(Palette)])).Render("  ")
		fmt.Fprintf(&b, "%s %s  %s  %d\n", swatch, c.Name, dimStyle.Render(c.Code), c.Credits)
	}
	return b.String()
}
