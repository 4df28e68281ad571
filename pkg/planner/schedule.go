package planner

import (
	"fmt"
	"slices"

	"golestoon/pkg/course"
)

// Schedule is the user's current timetable together with their priority list.
type Schedule struct {
	Courses  []string
	Priority []string

	catalog course.Catalog
}

// Options controls how Add treats conflicts.
type Options struct {
	// Replace removes lower or equal priority conflicting courses instead of failing.
	Replace bool
}

// NewSchedule returns a schedule over catalog. Keys missing from the
// catalogue are dropped, which happens when a catalogue refresh retires a section.
func NewSchedule(catalog course.Catalog, current, priority []string) *Schedule {
	s := &Schedule{catalog: catalog}
	for _, k := range current {
		if _, ok := catalog[k]; ok && !slices.Contains(s.Courses, k) {
			s.Courses = append(s.Courses, k)
		}
	}
	for _, k := range priority {
		if _, ok := catalog[k]; ok && !slices.Contains(s.Priority, k) {
			s.Priority = append(s.Priority, k)
		}
	}
	return s
}

// Rank is the position of key in the priority list. Unlisted courses rank
// after every listed one.
func (s *Schedule) Rank(key string) int {
	if i := slices.Index(s.Priority, key); i >= 0 {
		return i
	}
	return len(s.Priority)
}

// Contains reports whether key is placed.
func (s *Schedule) Contains(key string) bool {
	return slices.Contains(s.Courses, key)
}

// Add places key on the timetable. It returns the keys removed to make room
// when opts.Replace is set.
func (s *Schedule) Add(key string, opts Options) ([]string, error) {
	c, ok := s.catalog[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCourse, key)
	}
	if s.Contains(key) {
		return nil, nil
	}

	clashes := course.ConflictsWith(c, s.Courses, s.catalog)
	if len(clashes) == 0 {
		s.Courses = append(s.Courses, key)
		return nil, nil
	}

	rank := s.Rank(key)
	var blocked []string
	for _, k := range clashes {
		if s.Rank(k) < rank {
			blocked = append(blocked, k)
		}
	}
	if len(blocked) > 0 {
		return nil, &PriorityConflictError{Key: key, Blocked: blocked}
	}
	if !opts.Replace {
		return nil, &ConflictError{Key: key, With: clashes}
	}

	for _, k := range clashes {
		s.Remove(k)
	}
	s.Courses = append(s.Courses, key)
	return clashes, nil
}

// Remove takes key off the timetable and reports whether it was placed.
func (s *Schedule) Remove(key string) bool {
	i := slices.Index(s.Courses, key)
	if i < 0 {
		return false
	}
	s.Courses = slices.Delete(s.Courses, i, i+1)
	return true
}

// Clear empties the timetable. The priority list is kept.
func (s *Schedule) Clear() {
	s.Courses = nil
}

// SetPriority replaces the priority list. Every key must exist.
func (s *Schedule) SetPriority(keys []string) error {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := s.catalog[k]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCourse, k)
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	s.Priority = out
	return nil
}

// MovePriority moves key to position pos (0 is highest), adding it when it
// is not listed yet. Out of range positions are clamped.
func (s *Schedule) MovePriority(key string, pos int) error {
	if _, ok := s.catalog[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCourse, key)
	}
	if i := slices.Index(s.Priority, key); i >= 0 {
		s.Priority = slices.Delete(s.Priority, i, i+1)
	}
	pos = max(0, min(pos, len(s.Priority)))
	s.Priority = slices.Insert(s.Priority, pos, key)
	return nil
}

// DropPriority removes key from the priority list.
func (s *Schedule) DropPriority(key string) bool {
	i := slices.Index(s.Priority, key)
	if i < 0 {
		return false
	}
	s.Priority = slices.Delete(s.Priority, i, i+1)
	return true
}

// Conflicts returns every clash among the placed courses.
func (s *Schedule) Conflicts() []course.Conflict {
	return course.FindConflicts(s.Courses, s.catalog)
}

// Stats summarises the placed courses.
func (s *Schedule) Stats() Stats {
	return ComputeStats(s.Courses, s.catalog)
}
