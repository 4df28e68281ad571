package course

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func sess(day Day, start, end string, p Parity) Session {
	return Session{Day: day, Start: start, End: end, Parity: p}
}

func TestSessionsConflict(t *testing.T) {
	tests := []struct {
		name string
		a, b Session
		want bool
	}{
		{"same slot", sess(Monday, "08:00", "10:00", EveryWeek), sess(Monday, "08:00", "10:00", EveryWeek), true},
		{"partial overlap", sess(Monday, "08:00", "10:00", EveryWeek), sess(Monday, "09:30", "11:00", EveryWeek), true},
		{"back to back", sess(Monday, "08:00", "10:00", EveryWeek), sess(Monday, "10:00", "12:00", EveryWeek), false},
		{"different day", sess(Monday, "08:00", "10:00", EveryWeek), sess(Tuesday, "08:00", "10:00", EveryWeek), false},
		{"even and odd share a slot", sess(Monday, "08:00", "10:00", EvenWeeks), sess(Monday, "08:00", "10:00", OddWeeks), false},
		{"even and even clash", sess(Monday, "08:00", "10:00", EvenWeeks), sess(Monday, "08:00", "10:00", EvenWeeks), true},
		{"weekly and odd clash", sess(Monday, "08:00", "10:00", EveryWeek), sess(Monday, "09:00", "10:00", OddWeeks), true},
		{"invalid session never clashes", sess(Monday, "10:00", "08:00", EveryWeek), sess(Monday, "08:00", "10:00", EveryWeek), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionsConflict(tt.a, tt.b); got != tt.want {
				t.Errorf("SessionsConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindConflicts(t *testing.T) {
	catalog := Catalog{
		"math":    {Code: "1", Name: "Math", Schedule: []Session{sess(Saturday, "08:00", "10:00", EveryWeek)}},
		"physics": {Code: "2", Name: "Physics", Schedule: []Session{sess(Saturday, "09:00", "11:00", EveryWeek)}},
		"lab":     {Code: "3", Name: "Lab", Schedule: []Session{sess(Sunday, "08:00", "10:00", EvenWeeks)}},
		"lab2":    {Code: "4", Name: "Lab 2", Schedule: []Session{sess(Sunday, "08:00", "10:00", OddWeeks)}},
	}

	conflicts := FindConflicts([]string{"math", "physics", "lab", "lab2", "missing"}, catalog)
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflict, got %d: %+v", len(conflicts), conflicts)
	}
	if conflicts[0].A != "math" || conflicts[0].B != "physics" {
		t.Errorf("expected math/physics conflict, got %s/%s", conflicts[0].A, conflicts[0].B)
	}
	if len(conflicts[0].Sessions) != 1 {
		t.Errorf("expected one clashing session pair, got %d", len(conflicts[0].Sessions))
	}

	clashes := ConflictsWith(catalog["physics"], []string{"lab", "math"}, catalog)
	if len(clashes) != 1 || clashes[0] != "math" {
		t.Errorf("ConflictsWith() = %v, want [math]", clashes)
	}
}

func genSession() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 6),
		gen.IntRange(14, 36), // half hours from 07:00
		gen.IntRange(1, 6),
		gen.OneConstOf(EveryWeek, EvenWeeks, OddWeeks),
	).Map(func(vals []interface{}) Session {
		start := vals[1].(int) * 30
		end := start + vals[2].(int)*30
		return Session{
			Day:    Day(vals[0].(int)),
			Start:  FormatClock(start),
			End:    FormatClock(end),
			Parity: vals[3].(Parity),
		}
	})
}

func TestConflictProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("conflict is symmetric", prop.ForAll(
		func(a, b Session) bool {
			return SessionsConflict(a, b) == SessionsConflict(b, a)
		},
		genSession(), genSession(),
	))

	properties.Property("a valid session clashes with itself", prop.ForAll(
		func(a Session) bool {
			return SessionsConflict(a, a)
		},
		genSession(),
	))

	properties.Property("even and odd weeks never clash", prop.ForAll(
		func(a, b Session) bool {
			a.Parity, b.Parity = EvenWeeks, OddWeeks
			return !SessionsConflict(a, b)
		},
		genSession(), genSession(),
	))

	properties.Property("sessions on different days never clash", prop.ForAll(
		func(a, b Session) bool {
			if a.Day == b.Day {
				b.Day = (a.Day + 1) % 7
			}
			return !SessionsConflict(a, b)
		},
		genSession(), genSession(),
	))

	properties.TestingRun(t)
}
