package timetable

import (
	"strings"
	"testing"

	"golestoon/pkg/course"
)

func sampleCatalog() course.Catalog {
	return course.Catalog{
		"ds": {Name: "DS", Code: "1", Credits: 3, Schedule: []course.Session{
			{Day: course.Saturday, Start: "08:00", End: "10:00", Location: "R1"},
		}},
		"even": {Name: "Even", Code: "2", Schedule: []course.Session{
			{Day: course.Monday, Start: "10:00", End: "12:00", Parity: course.EvenWeeks},
		}},
		"odd": {Name: "Odd", Code: "3", Schedule: []course.Session{
			{Day: course.Monday, Start: "10:00", End: "12:00", Parity: course.OddWeeks},
		}},
		"clash": {Name: "Clash", Code: "4", Schedule: []course.Session{
			{Day: course.Saturday, Start: "09:00", End: "11:00"},
		}},
		"late": {Name: "Late", Code: "5", Schedule: []course.Session{
			{Day: course.Friday, Start: "18:00", End: "19:30"},
		}},
	}
}

func slotIndex(g Grid, clock string) int {
	m, _ := course.ParseClock(clock)
	for i, t := range g.Slots {
		if t == m {
			return i
		}
	}
	return -1
}

func TestBuildDefaultRange(t *testing.T) {
	g := Build([]string{"ds"}, sampleCatalog())
	if len(g.Days) != 6 {
		t.Errorf("expected Saturday to Thursday, got %v", g.Days)
	}
	if g.Slots[0] != 7*60+30 || g.Slots[len(g.Slots)-1] != 17*60+30 {
		t.Errorf("unexpected slot range %v", g.Slots)
	}
	r := slotIndex(g, "08:00")
	cell := g.Cells[r][0]
	if cell.Kind != Single || !cell.Entries[0].First || cell.Entries[0].Location != "R1" {
		t.Errorf("unexpected first cell %+v", cell)
	}
	if next := g.Cells[r+1][0]; next.Kind != Single || next.Entries[0].First {
		t.Errorf("continuation cell should not be first: %+v", next)
	}
	if g.Cells[slotIndex(g, "10:00")][0].Kind != Empty {
		t.Error("cell after the session should be empty")
	}
}

func TestBuildDualAndConflict(t *testing.T) {
	g := Build([]string{"ds", "even", "odd", "clash"}, sampleCatalog())

	dual := g.Cells[slotIndex(g, "10:00")][2]
	if dual.Kind != Dual || len(dual.Entries) != 2 {
		t.Errorf("even and odd sessions should share a dual cell: %+v", dual)
	}
	clash := g.Cells[slotIndex(g, "09:00")][0]
	if clash.Kind != Conflict {
		t.Errorf("overlapping sessions should be a conflict: %+v", clash)
	}
	if g.Cells[slotIndex(g, "10:00")][0].Kind != Single {
		t.Error("only Clash remains at 10:00 on Saturday")
	}
}

func TestBuildExtendsForFridayAndLateClasses(t *testing.T) {
	g := Build([]string{"late"}, sampleCatalog())
	if len(g.Days) != 7 || g.Days[6] != course.Friday {
		t.Errorf("expected Friday column, got %v", g.Days)
	}
	if last := g.Slots[len(g.Slots)-1]; last != 19*60 {
		t.Errorf("grid should extend to cover 19:30, last slot %d", last)
	}
}

func TestRender(t *testing.T) {
	cat := sampleCatalog()
	keys := []string{"ds", "even", "odd", "clash"}
	out := Render(Build(keys, cat), Options{English: true, CellWidth: 20})
	for _, want := range []string{"Saturday", "08:00-08:30", "DS", "Even (ز) / Odd (ف)", "! DS × Clash"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	legend := Legend(keys, cat)
	if strings.Count(legend, "\n") != 4 {
		t.Errorf("legend should have one line per course:\n%s", legend)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("ساختمان داده", 5); got != "ساخت…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
