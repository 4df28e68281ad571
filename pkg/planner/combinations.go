package planner

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golestoon/pkg/course"
)

// Combination is one conflict-free pick of a section from every group.
type Combination struct {
	Courses []string
	Days    int
	Idle    float64
	Score   float64
}

// Candidates returns the catalogue keys that belong to group, sorted. A
// group is a base course code; when no section carries it the group is
// matched against whole codes and course names instead.
func Candidates(group string, catalog course.Catalog) []string {
	var out []string
	for k, c := range catalog {
		if course.GroupCode(c.Code) == group {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		for k, c := range catalog {
			if c.Code == group || strings.Contains(c.Name, group) {
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

// BestCombinations enumerates every conflict-free choice of one section per
// group and ranks them by days on campus, then idle hours. limit <= 0 keeps
// all of them. Any group without candidates yields no combinations.
func BestCombinations(groups []string, catalog course.Catalog, limit int) []Combination {
	if len(groups) == 0 {
		return nil
	}
	candidates := make([][]string, len(groups))
	for i, g := range groups {
		candidates[i] = Candidates(g, catalog)
		if len(candidates[i]) == 0 {
			return nil
		}
	}

	var out []Combination
	picked := make([]string, 0, len(groups))
	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(candidates) {
			out = append(out, score(slices.Clone(picked), catalog))
			return
		}
		for _, k := range candidates[depth] {
			if slices.Contains(picked, k) {
				continue
			}
			if len(course.ConflictsWith(catalog[k], picked, catalog)) > 0 {
				continue
			}
			picked = append(picked, k)
			walk(depth + 1)
			picked = picked[:len(picked)-1]
		}
	}
	walk(0)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Days != b.Days {
			return a.Days < b.Days
		}
		if a.Idle != b.Idle {
			return a.Idle < b.Idle
		}
		return a.Score < b.Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func score(keys []string, catalog course.Catalog) Combination {
	courses, _ := catalog.Lookup(keys)
	days := DaysNeeded(courses)
	idle := IdleHours(courses)
	return Combination{Courses: keys, Days: days, Idle: idle, Score: float64(days) + 0.5*idle}
}

// Greedy walks ordered (highest priority first) and keeps every course that
// does not clash with one already kept.
func Greedy(ordered []string, catalog course.Catalog) []string {
	var kept []string
	for _, k := range ordered {
		c, ok := catalog[k]
		if !ok || slices.Contains(kept, k) {
			continue
		}
		if len(course.ConflictsWith(c, kept, catalog)) == 0 {
			kept = append(kept, k)
		}
	}
	return kept
}

// Alternative is a priority-respecting schedule.
type Alternative struct {
	Method  string
	Courses []string
	Skipped []string
	Score   int
	Days    int
	Idle    float64
}

// PriorityAlternatives returns the greedy schedule plus up to three
// alternatives. Alternative k leaves out the k lowest-priority greedy picks
// that block a rejected course, so those rejected courses get a chance.
// Results are deduplicated and sorted by score, highest first.
func PriorityAlternatives(ordered []string, catalog course.Catalog) []Alternative {
	greedy := Greedy(ordered, catalog)
	if len(greedy) == 0 {
		return nil
	}
	out := []Alternative{alternative("Priority greedy", greedy, nil, 0, catalog)}

	var rejected []string
	for _, k := range ordered {
		if _, ok := catalog[k]; ok && !slices.Contains(greedy, k) {
			rejected = append(rejected, k)
		}
	}

	// Blockers in descending priority order, so the tail is the lowest priority.
	var blockers []string
	for _, k := range greedy {
		for _, r := range rejected {
			if course.CoursesConflict(catalog[k], catalog[r]) {
				blockers = append(blockers, k)
				break
			}
		}
	}

	for skip := 1; skip < min(4, len(ordered)); skip++ {
		if skip > len(blockers) {
			break
		}
		excluded := blockers[len(blockers)-skip:]
		var rest []string
		for _, k := range ordered {
			if !slices.Contains(excluded, k) {
				rest = append(rest, k)
			}
		}
		picked := Greedy(rest, catalog)
		if len(picked) == 0 || containsSchedule(out, picked) {
			continue
		}
		out = append(out, alternative(fmt.Sprintf("Skip %d lower priority", skip), picked, slices.Clone(excluded), skip, catalog))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func alternative(method string, keys, skipped []string, skip int, catalog course.Catalog) Alternative {
	courses, _ := catalog.Lookup(keys)
	return Alternative{
		Method:  method,
		Courses: keys,
		Skipped: skipped,
		Score:   len(keys)*100 - skip*10,
		Days:    DaysNeeded(courses),
		Idle:    IdleHours(courses),
	}
}

func containsSchedule(alts []Alternative, keys []string) bool {
	for _, a := range alts {
		if slices.Equal(a.Courses, keys) {
			return true
		}
	}
	return false
}
