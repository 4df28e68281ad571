package store

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"golestoon/pkg/course"
	"golestoon/pkg/planner"
)

// SaveCombination stores keys under name. An existing combination with the
// same name is overwritten only when replace is set.
func (d *UserData) SaveCombination(name string, keys []string, catalog course.Catalog, replace bool) (Combination, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Combination{}, fmt.Errorf("combination name must not be empty")
	}
	courses, err := catalog.Lookup(keys)
	if err != nil {
		return Combination{}, err
	}
	combo := Combination{
		ID:        uuid.NewString(),
		Name:      name,
		Courses:   slices.Clone(keys),
		CreatedAt: time.Now(),
		Days:      planner.DaysNeeded(courses),
		Idle:      planner.IdleHours(courses),
	}

	for i, c := range d.SavedCombos {
		if c.Name != name {
			continue
		}
		if !replace {
			return Combination{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		combo.ID = c.ID
		d.SavedCombos[i] = combo
		return combo, nil
	}
	d.SavedCombos = append(d.SavedCombos, combo)
	return combo, nil
}

// FindCombination looks a combination up by ID, ID prefix or name.
func (d *UserData) FindCombination(idOrName string) (Combination, error) {
	i := d.comboIndex(idOrName)
	if i < 0 {
		return Combination{}, fmt.Errorf("%w: %s", ErrComboNotFound, idOrName)
	}
	return d.SavedCombos[i], nil
}

// DeleteCombination removes a combination by ID, ID prefix or name.
func (d *UserData) DeleteCombination(idOrName string) (Combination, error) {
	i := d.comboIndex(idOrName)
	if i < 0 {
		return Combination{}, fmt.Errorf("%w: %s", ErrComboNotFound, idOrName)
	}
	removed := d.SavedCombos[i]
	d.SavedCombos = slices.Delete(d.SavedCombos, i, i+1)
	return removed, nil
}

func (d *UserData) comboIndex(ref string) int {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1
	}
	for i, c := range d.SavedCombos {
		if c.ID == ref || c.Name == ref {
			return i
		}
	}
	match := -1
	for i, c := range d.SavedCombos {
		if len(ref) >= 4 && strings.HasPrefix(c.ID, ref) {
			if match >= 0 {
				return -1
			}
			match = i
		}
	}
	return match
}

// AddCustomCourse validates c and stores it under a fresh key that does not
// clash with catalog or other custom courses.
func (d *UserData) AddCustomCourse(c course.Course, catalog course.Catalog) (string, error) {
	c.Custom = true
	if c.Instructor == "" {
		c.Instructor = course.DefaultInstructor
	}
	if err := course.Validate(c); err != nil {
		return "", err
	}
	existing := make(map[string]bool, len(catalog)+len(d.CustomCourses))
	for k := range catalog {
		existing[k] = true
	}
	for k := range d.CustomCourses {
		existing[k] = true
	}
	key := course.GenerateKey(c, existing)
	d.CustomCourses[key] = c
	return key, nil
}

// UpdateCustomCourse replaces a custom course in place.
func (d *UserData) UpdateCustomCourse(key string, c course.Course) error {
	if _, ok := d.CustomCourses[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotCustom, key)
	}
	c.Custom = true
	if err := course.Validate(c); err != nil {
		return err
	}
	d.CustomCourses[key] = c
	return nil
}

// RemoveCustomCourse deletes a custom course and every reference to it.
func (d *UserData) RemoveCustomCourse(key string) error {
	if _, ok := d.CustomCourses[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotCustom, key)
	}
	delete(d.CustomCourses, key)
	d.ForgetCourse(key)
	return nil
}

// ForgetCourse drops key from the timetable, priority list and combinations.
func (d *UserData) ForgetCourse(key string) {
	d.CurrentSchedule = slices.DeleteFunc(d.CurrentSchedule, func(k string) bool { return k == key })
	d.PriorityList = slices.DeleteFunc(d.PriorityList, func(k string) bool { return k == key })
	for i := range d.SavedCombos {
		d.SavedCombos[i].Courses = slices.DeleteFunc(d.SavedCombos[i].Courses, func(k string) bool { return k == key })
	}
}

// RenameCourse points every reference to from at to instead.
func (d *UserData) RenameCourse(from, to string) {
	rename := func(keys []string) {
		for i, k := range keys {
			if k == from {
				keys[i] = to
			}
		}
	}
	rename(d.CurrentSchedule)
	rename(d.PriorityList)
	for i := range d.SavedCombos {
		rename(d.SavedCombos[i].Courses)
	}
}
