package planner

import (
	"sort"

	"golestoon/pkg/course"
)

// idleThreshold is the shortest gap between classes counted as idle time, in minutes.
const idleThreshold = 15

// Stats summarises a set of courses.
type Stats struct {
	Courses     int
	Credits     int
	Sessions    int
	Days        int
	Instructors []string
	IdleHours   float64
}

// ComputeStats summarises the courses for keys. Unknown keys are skipped.
func ComputeStats(keys []string, catalog course.Catalog) Stats {
	var st Stats
	instructors := make(map[string]bool)
	var courses []course.Course
	for _, k := range keys {
		c, ok := catalog[k]
		if !ok {
			continue
		}
		courses = append(courses, c)
		st.Courses++
		st.Credits += c.Credits
		st.Sessions += len(c.Schedule)
		if c.Instructor != "" && !instructors[c.Instructor] {
			instructors[c.Instructor] = true
			st.Instructors = append(st.Instructors, c.Instructor)
		}
	}
	sort.Strings(st.Instructors)
	st.Days = DaysNeeded(courses)
	st.IdleHours = IdleHours(courses)
	return st
}

// DaysNeeded counts the distinct weekdays the courses meet on.
func DaysNeeded(courses []course.Course) int {
	days := make(map[course.Day]bool)
	for _, c := range courses {
		for _, s := range c.Schedule {
			days[s.Day] = true
		}
	}
	return len(days)
}

type interval struct{ start, end int }

// IdleHours sums, per day, the gaps between consecutive sessions that are
// longer than 15 minutes.
func IdleHours(courses []course.Course) float64 {
	daily := make(map[course.Day][]interval)
	for _, c := range courses {
		for _, s := range c.Schedule {
			start, end, err := s.Minutes()
			if err != nil {
				continue
			}
			daily[s.Day] = append(daily[s.Day], interval{start, end})
		}
	}

	var idle float64
	for _, ivs := range daily {
		sort.Slice(ivs, func(i, j int) bool {
			if ivs[i].start != ivs[j].start {
				return ivs[i].start < ivs[j].start
			}
			return ivs[i].end < ivs[j].end
		})
		for i := 0; i+1 < len(ivs); i++ {
			if gap := ivs[i+1].start - ivs[i].end; gap > idleThreshold {
				idle += float64(gap) / 60
			}
		}
	}
	return idle
}
