// Package timetable lays out a weekly schedule as a day by time grid.
package timetable

import (
	"golestoon/pkg/course"
)

const (
	slotMinutes  = 30
	defaultFirst = 7*60 + 30
	defaultLast  = 18 * 60
)

// Kind describes what occupies a grid cell.
type Kind int

const (
	Empty Kind = iota
	Single
	// Dual holds sessions that share a slot without clashing, usually an
	// even-week and an odd-week course.
	Dual
	Conflict
)

// Entry is one course session covering a cell.
type Entry struct {
	Key      string
	Name     string
	Parity   course.Parity
	Location string
	// First marks the cell where the session begins.
	First bool
	Color int
}

// Cell is one half-hour slot on one day.
type Cell struct {
	Kind    Kind
	Entries []Entry
}

// Grid is the laid-out week. Cells are indexed [slot][day column].
type Grid struct {
	Days  []course.Day
	Slots []int
	Cells [][]Cell
}

type placed struct {
	entry   Entry
	session course.Session
	start   int
	end     int
}

// Build lays out the courses for keys. Unknown keys are skipped.
func Build(keys []string, catalog course.Catalog) Grid {
	first, last := defaultFirst, defaultLast
	friday := false
	var all []placed
	for i, k := range keys {
		c, ok := catalog[k]
		if !ok {
			continue
		}
		for _, s := range c.Schedule {
			start, end, err := s.Minutes()
			if err != nil {
				continue
			}
			if s.Day == course.Friday {
				friday = true
			}
			first = min(first, start-start%slotMinutes)
			last = max(last, end)
			loc := s.Location
			if loc == "" {
				loc = c.PrimaryLocation()
			}
			all = append(all, placed{
				entry:   Entry{Key: k, Name: c.Name, Parity: s.Parity, Location: loc, Color: i},
				session: s,
				start:   start,
				end:     end,
			})
		}
	}

	g := Grid{Days: []course.Day{course.Saturday, course.Sunday, course.Monday, course.Tuesday, course.Wednesday, course.Thursday}}
	if friday {
		g.Days = append(g.Days, course.Friday)
	}
	for t := first; t < last; t += slotMinutes {
		g.Slots = append(g.Slots, t)
	}
	col := make(map[course.Day]int, len(g.Days))
	for i, d := range g.Days {
		col[d] = i
	}

	g.Cells = make([][]Cell, len(g.Slots))
	for r, t := range g.Slots {
		g.Cells[r] = make([]Cell, len(g.Days))
		here := make([][]placed, len(g.Days))
		for _, p := range all {
			if !course.Overlap(p.start, p.end, t, t+slotMinutes) {
				continue
			}
			e := p.entry
			e.First = p.start >= t && p.start < t+slotMinutes
			here[col[p.session.Day]] = append(here[col[p.session.Day]], placed{entry: e, session: p.session})
		}
		for c, ps := range here {
			g.Cells[r][c] = classify(ps)
		}
	}
	return g
}

func classify(ps []placed) Cell {
	if len(ps) == 0 {
		return Cell{}
	}
	cell := Cell{Kind: Single}
	for _, p := range ps {
		cell.Entries = append(cell.Entries, p.entry)
	}
	if len(ps) == 1 {
		return cell
	}
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].entry.Key == ps[j].entry.Key {
				continue
			}
			if course.SessionsConflict(ps[i].session, ps[j].session) {
				cell.Kind = Conflict
				return cell
			}
		}
	}
	cell.Kind = Dual
	return cell
}
