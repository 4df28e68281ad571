package course

import "sort"

// Overlap reports whether [s1,e1) and [s2,e2) intersect.
func Overlap(s1, e1, s2, e2 int) bool {
	return !(e1 <= s2 || e2 <= s1)
}

// SessionsConflict reports whether two sessions occupy the same time.
// An even-week and an odd-week session in the same slot share the room
// on alternating weeks and do not conflict.
func SessionsConflict(a, b Session) bool {
	if a.Day != b.Day {
		return false
	}
	if a.Parity != EveryWeek && b.Parity != EveryWeek && a.Parity != b.Parity {
		return false
	}
	as, ae, err := a.Minutes()
	if err != nil {
		return false
	}
	bs, be, err := b.Minutes()
	if err != nil {
		return false
	}
	return Overlap(as, ae, bs, be)
}

// CoursesConflict reports whether any session of a clashes with any session of b.
func CoursesConflict(a, b Course) bool {
	for _, sa := range a.Schedule {
		for _, sb := range b.Schedule {
			if SessionsConflict(sa, sb) {
				return true
			}
		}
	}
	return false
}

// Conflict is a clash between two placed courses.
type Conflict struct {
	A, B     string
	Sessions [][2]Session
}

// ConflictingSessions returns every clashing session pair between a and b.
func ConflictingSessions(a, b Course) [][2]Session {
	var pairs [][2]Session
	for _, sa := range a.Schedule {
		for _, sb := range b.Schedule {
			if SessionsConflict(sa, sb) {
				pairs = append(pairs, [2]Session{sa, sb})
			}
		}
	}
	return pairs
}

// FindConflicts checks every pair of keys. Unknown keys are ignored.
func FindConflicts(keys []string, catalog Catalog) []Conflict {
	var out []Conflict
	for i := 0; i < len(keys); i++ {
		a, ok := catalog[keys[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(keys); j++ {
			b, ok := catalog[keys[j]]
			if !ok {
				continue
			}
			if pairs := ConflictingSessions(a, b); len(pairs) > 0 {
				out = append(out, Conflict{A: keys[i], B: keys[j], Sessions: pairs})
			}
		}
	}
	return out
}

// ConflictsWith returns the keys in placed whose course clashes with c, sorted.
func ConflictsWith(c Course, placed []string, catalog Catalog) []string {
	var out []string
	for _, k := range placed {
		other, ok := catalog[k]
		if !ok {
			continue
		}
		if CoursesConflict(c, other) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
